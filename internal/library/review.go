package library

import (
	"fmt"
	"time"
)

// getReview loads a review for one subject from the given table/column pair.
// table and column are compile-time constants at every call site.
func getReview(q querier, table, column string, subjectID int64) (*Review, error) {
	r := &Review{}
	err := q.QueryRow(
		fmt.Sprintf("SELECT id, score, comment, reviewed_at FROM %s WHERE %s = ?", table, column),
		subjectID,
	).Scan(&r.ID, &r.Score, &r.Comment, &r.ReviewedAt)
	if err != nil {
		return nil, fmt.Errorf("get review %s/%d: %w", table, subjectID, mapSQLiteError(err))
	}
	return r, nil
}

func putReview(q querier, table, column string, subjectID int64, score *int, comment *string) error {
	now := time.Now()
	_, err := q.Exec(
		fmt.Sprintf(`
			INSERT INTO %s (%s, score, comment, reviewed_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(%s) DO UPDATE SET
				score = excluded.score,
				comment = excluded.comment,
				reviewed_at = excluded.reviewed_at`, table, column, column),
		subjectID, score, comment, now,
	)
	if err != nil {
		return fmt.Errorf("put review %s/%d: %w", table, subjectID, mapSQLiteError(err))
	}
	return nil
}

// GetSeriesReview retrieves the review for a series.
// Returns ErrNotFound if no review exists.
func (s *Store) GetSeriesReview(seriesID int64) (*Review, error) {
	return getReview(s.db, "series_reviews", "series_id", seriesID)
}

// GetSeriesReview retrieves the review for a series within a transaction.
func (t *Tx) GetSeriesReview(seriesID int64) (*Review, error) {
	return getReview(t.tx, "series_reviews", "series_id", seriesID)
}

// PutSeriesReview creates or replaces the review for a series.
// ReviewedAt is set to now on every write.
func (s *Store) PutSeriesReview(seriesID int64, score *int, comment *string) error {
	return putReview(s.db, "series_reviews", "series_id", seriesID, score, comment)
}

// PutSeriesReview creates or replaces the review for a series within a transaction.
func (t *Tx) PutSeriesReview(seriesID int64, score *int, comment *string) error {
	return putReview(t.tx, "series_reviews", "series_id", seriesID, score, comment)
}

// GetEpisodeReview retrieves the review for an episode.
// Returns ErrNotFound if no review exists.
func (s *Store) GetEpisodeReview(episodeID int64) (*Review, error) {
	return getReview(s.db, "episode_reviews", "episode_id", episodeID)
}

// GetEpisodeReview retrieves the review for an episode within a transaction.
func (t *Tx) GetEpisodeReview(episodeID int64) (*Review, error) {
	return getReview(t.tx, "episode_reviews", "episode_id", episodeID)
}

// PutEpisodeReview creates or replaces the review for an episode.
// ReviewedAt is set to now on every write.
func (s *Store) PutEpisodeReview(episodeID int64, score *int, comment *string) error {
	return putReview(s.db, "episode_reviews", "episode_id", episodeID, score, comment)
}

// PutEpisodeReview creates or replaces the review for an episode within a transaction.
func (t *Tx) PutEpisodeReview(episodeID int64, score *int, comment *string) error {
	return putReview(t.tx, "episode_reviews", "episode_id", episodeID, score, comment)
}
