package library

import (
	"fmt"
	"time"
)

func addEpisode(q querier, e *Episode) error {
	result, err := q.Exec(`
		INSERT INTO episodes (series_id, episode_code, episode_type, ordinal_hint, title, air_date)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.SeriesID, e.Code, e.Type, e.OrdinalHint, e.Title, e.AirDate,
	)
	if err != nil {
		return fmt.Errorf("insert episode: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	e.ID = id
	return nil
}

// AddEpisode inserts a new episode.
// Sets ID on the struct.
// Returns ErrDuplicate if (series_id, episode_code) already exists.
func (s *Store) AddEpisode(e *Episode) error { return addEpisode(s.db, e) }

// AddEpisode inserts a new episode within a transaction.
func (t *Tx) AddEpisode(e *Episode) error { return addEpisode(t.tx, e) }

func getEpisodeByCode(q querier, seriesID int64, code string) (*Episode, error) {
	e := &Episode{}
	err := q.QueryRow(`
		SELECT id, series_id, episode_code, episode_type, ordinal_hint, title, air_date
		FROM episodes WHERE series_id = ? AND episode_code = ?`, seriesID, code,
	).Scan(&e.ID, &e.SeriesID, &e.Code, &e.Type, &e.OrdinalHint, &e.Title, &e.AirDate)
	if err != nil {
		return nil, fmt.Errorf("get episode %d/%s: %w", seriesID, code, mapSQLiteError(err))
	}
	return e, nil
}

// GetEpisodeByCode retrieves an episode by its business key.
// Returns ErrNotFound if the episode does not exist.
func (s *Store) GetEpisodeByCode(seriesID int64, code string) (*Episode, error) {
	return getEpisodeByCode(s.db, seriesID, code)
}

// GetEpisodeByCode retrieves an episode by its business key within a transaction.
func (t *Tx) GetEpisodeByCode(seriesID int64, code string) (*Episode, error) {
	return getEpisodeByCode(t.tx, seriesID, code)
}

func listEpisodes(q querier, seriesID int64) ([]*Episode, error) {
	rows, err := q.Query(`
		SELECT id, series_id, episode_code, episode_type, ordinal_hint, title, air_date
		FROM episodes WHERE series_id = ?
		ORDER BY episode_type, ordinal_hint, episode_code`, seriesID,
	)
	if err != nil {
		return nil, fmt.Errorf("list episodes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Episode
	for rows.Next() {
		e := &Episode{}
		if err := rows.Scan(&e.ID, &e.SeriesID, &e.Code, &e.Type, &e.OrdinalHint, &e.Title, &e.AirDate); err != nil {
			return nil, fmt.Errorf("scan episode: %w", err)
		}
		results = append(results, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate episodes: %w", err)
	}

	return results, nil
}

// ListEpisodes returns all episodes of a series.
func (s *Store) ListEpisodes(seriesID int64) ([]*Episode, error) { return listEpisodes(s.db, seriesID) }

// ListEpisodes returns all episodes of a series within a transaction.
func (t *Tx) ListEpisodes(seriesID int64) ([]*Episode, error) { return listEpisodes(t.tx, seriesID) }

func updateEpisodeSyncFields(q querier, id int64, title *string, airDate *time.Time) error {
	result, err := q.Exec(`
		UPDATE episodes SET title = ?, air_date = ?
		WHERE id = ?`,
		title, airDate, id,
	)
	if err != nil {
		return fmt.Errorf("update episode %d: %w", id, mapSQLiteError(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update episode %d: %w", id, ErrNotFound)
	}
	return nil
}

// UpdateEpisodeSyncFields overwrites title and air_date on an existing episode.
// The episode type and business key are never changed after creation.
func (s *Store) UpdateEpisodeSyncFields(id int64, title *string, airDate *time.Time) error {
	return updateEpisodeSyncFields(s.db, id, title, airDate)
}

// UpdateEpisodeSyncFields overwrites title and air_date within a transaction.
func (t *Tx) UpdateEpisodeSyncFields(id int64, title *string, airDate *time.Time) error {
	return updateEpisodeSyncFields(t.tx, id, title, airDate)
}

func deleteEpisode(q querier, id int64) error {
	_, err := q.Exec("DELETE FROM episodes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete episode %d: %w", id, mapSQLiteError(err))
	}
	return nil
}

// DeleteEpisode removes an episode by ID.
// This operation is idempotent - no error is returned if the episode does not exist.
func (s *Store) DeleteEpisode(id int64) error { return deleteEpisode(s.db, id) }

// DeleteEpisode removes an episode by ID within a transaction.
func (t *Tx) DeleteEpisode(id int64) error { return deleteEpisode(t.tx, id) }
