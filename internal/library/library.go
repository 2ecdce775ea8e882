// Package library manages tracked series, episodes, reviews, and collections.
package library

import (
	"time"
)

// EpisodeType distinguishes regular episodes from specials, openings, and endings.
type EpisodeType string

const (
	EpisodeMain    EpisodeType = "main"
	EpisodeSpecial EpisodeType = "sp"
	EpisodeOpening EpisodeType = "op"
	EpisodeEnding  EpisodeType = "ed"
	EpisodeOther   EpisodeType = "other"
)

// Series represents one tracked show.
// ExternalRef links the row to its catalog record ("BGM-<id>"); a series
// without one is purely user-curated and is never touched by sync.
type Series struct {
	ID            int64
	Title         string
	StartDate     *time.Time
	TotalEpisodes *int
	ExternalRef   *string
	CoverImageURL *string
	CreatedAt     time.Time
}

// Episode represents a single episode of a series.
// (SeriesID, Code) is the business key; OrdinalHint is informational only.
type Episode struct {
	ID          int64
	SeriesID    int64
	Code        string
	Type        EpisodeType
	OrdinalHint int
	Title       *string
	AirDate     *time.Time
}

// Review holds a score and/or comment for a series or an episode.
// At most one review exists per subject.
type Review struct {
	ID         int64
	Score      *int
	Comment    *string
	ReviewedAt time.Time
}

// Collection is a named grouping of series.
type Collection struct {
	ID          int64
	Name        string
	Description *string
	CreatedAt   time.Time
}

// SeriesFilter narrows ListSeries results.
type SeriesFilter struct {
	Title       *string
	ExternalRef *string
	Limit       int
	Offset      int
}
