package v1

import "time"

// seriesResponse is the API representation of a series.
type seriesResponse struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	StartDate     *time.Time `json:"start_date,omitempty"`
	TotalEpisodes *int       `json:"total_episodes,omitempty"`
	ExternalRef   *string    `json:"external_ref,omitempty"`
	CoverImageURL *string    `json:"cover_image_url,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// listSeriesResponse is the response for GET /series.
type listSeriesResponse struct {
	Items  []seriesResponse `json:"items"`
	Total  int              `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

type addSeriesRequest struct {
	Title         string  `json:"title"`
	StartDate     *string `json:"start_date,omitempty"`
	TotalEpisodes *int    `json:"total_episodes,omitempty"`
	ExternalRef   *string `json:"external_ref,omitempty"`
}

type episodeResponse struct {
	ID          int64      `json:"id"`
	SeriesID    int64      `json:"series_id"`
	Code        string     `json:"code"`
	Type        string     `json:"type"`
	OrdinalHint int        `json:"ordinal_hint"`
	Title       *string    `json:"title,omitempty"`
	AirDate     *time.Time `json:"air_date,omitempty"`
}

type listEpisodesResponse struct {
	Items []episodeResponse `json:"items"`
	Total int               `json:"total"`
}

type addEpisodeRequest struct {
	Code        string  `json:"code"`
	Type        string  `json:"type"`
	OrdinalHint int     `json:"ordinal_hint"`
	Title       *string `json:"title,omitempty"`
	AirDate     *string `json:"air_date,omitempty"`
}

type reviewResponse struct {
	Score      *int      `json:"score,omitempty"`
	Comment    *string   `json:"comment,omitempty"`
	ReviewedAt time.Time `json:"reviewed_at"`
}

type putReviewRequest struct {
	Score   *int    `json:"score,omitempty"`
	Comment *string `json:"comment,omitempty"`
}

type collectionResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type addCollectionRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

type addCollectionMemberRequest struct {
	SeriesID int64 `json:"series_id"`
}

type syncResponse struct {
	SeriesID        int64         `json:"series_id"`
	EpisodesAdded   int           `json:"episodes_added"`
	EpisodesUpdated int           `json:"episodes_updated"`
	CoverRefreshed  bool          `json:"cover_refreshed"`
	Degraded        bool          `json:"degraded"`
	Soft            []softFailure `json:"soft_failures,omitempty"`
}

type softFailure struct {
	Op     string `json:"op"`
	Reason string `json:"reason"`
}

// importRequest accepts either an explicit username+kind pair or a
// collection page URL to be parsed into one.
type importRequest struct {
	Username string `json:"username,omitempty"`
	Kind     string `json:"kind,omitempty"`
	URL      string `json:"url,omitempty"`
}

type importResponse struct {
	Added   int           `json:"added"`
	Updated int           `json:"updated"`
	Failed  int           `json:"failed"`
	Soft    []softFailure `json:"soft_failures,omitempty"`
}

type searchResultResponse struct {
	Series     seriesResponse `json:"series"`
	Score      float64        `json:"score"`
	Confidence string         `json:"confidence"`
}

type searchResponse struct {
	Items []searchResultResponse `json:"items"`
}
