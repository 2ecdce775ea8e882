package library

import (
	"fmt"
	"strings"
	"time"
)

func addSeries(q querier, s *Series) error {
	now := time.Now()
	result, err := q.Exec(`
		INSERT INTO series (title, start_date, total_episodes, external_ref, cover_image_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		s.Title, s.StartDate, s.TotalEpisodes, s.ExternalRef, s.CoverImageURL, now,
	)
	if err != nil {
		return fmt.Errorf("insert series: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	s.ID = id
	s.CreatedAt = now
	return nil
}

// AddSeries inserts a new series.
// Sets ID and CreatedAt on the struct.
// Returns ErrDuplicate if the external_ref is already taken.
func (s *Store) AddSeries(sr *Series) error { return addSeries(s.db, sr) }

// AddSeries inserts a new series within a transaction.
func (t *Tx) AddSeries(sr *Series) error { return addSeries(t.tx, sr) }

func getSeries(q querier, id int64) (*Series, error) {
	sr := &Series{}
	err := q.QueryRow(`
		SELECT id, title, start_date, total_episodes, external_ref, cover_image_url, created_at
		FROM series WHERE id = ?`, id,
	).Scan(&sr.ID, &sr.Title, &sr.StartDate, &sr.TotalEpisodes, &sr.ExternalRef, &sr.CoverImageURL, &sr.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get series %d: %w", id, mapSQLiteError(err))
	}
	return sr, nil
}

// GetSeries retrieves a series by ID.
// Returns ErrNotFound if the series does not exist.
func (s *Store) GetSeries(id int64) (*Series, error) { return getSeries(s.db, id) }

// GetSeries retrieves a series by ID within a transaction.
func (t *Tx) GetSeries(id int64) (*Series, error) { return getSeries(t.tx, id) }

func getSeriesByExternalRef(q querier, ref string) (*Series, error) {
	sr := &Series{}
	err := q.QueryRow(`
		SELECT id, title, start_date, total_episodes, external_ref, cover_image_url, created_at
		FROM series WHERE external_ref = ?`, ref,
	).Scan(&sr.ID, &sr.Title, &sr.StartDate, &sr.TotalEpisodes, &sr.ExternalRef, &sr.CoverImageURL, &sr.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get series by ref %s: %w", ref, mapSQLiteError(err))
	}
	return sr, nil
}

// GetSeriesByExternalRef finds a series by its catalog reference.
// Returns ErrNotFound if no series carries the reference.
func (s *Store) GetSeriesByExternalRef(ref string) (*Series, error) {
	return getSeriesByExternalRef(s.db, ref)
}

// GetSeriesByExternalRef finds a series by its catalog reference within a transaction.
func (t *Tx) GetSeriesByExternalRef(ref string) (*Series, error) {
	return getSeriesByExternalRef(t.tx, ref)
}

func listSeries(q querier, f SeriesFilter) ([]*Series, int, error) {
	var conditions []string
	var args []any

	if f.Title != nil {
		conditions = append(conditions, "title = ?")
		args = append(args, *f.Title)
	}
	if f.ExternalRef != nil {
		conditions = append(conditions, "external_ref = ?")
		args = append(args, *f.ExternalRef)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := q.QueryRow("SELECT COUNT(*) FROM series "+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count series: %w", err)
	}

	query := "SELECT id, title, start_date, total_episodes, external_ref, cover_image_url, created_at FROM series " + whereClause + " ORDER BY created_at DESC, id DESC"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.Limit, f.Offset)
	}

	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list series: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Series
	for rows.Next() {
		sr := &Series{}
		if err := rows.Scan(&sr.ID, &sr.Title, &sr.StartDate, &sr.TotalEpisodes, &sr.ExternalRef, &sr.CoverImageURL, &sr.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan series: %w", err)
		}
		results = append(results, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate series: %w", err)
	}

	return results, total, nil
}

// ListSeries returns series matching the filter with pagination.
// Returns (results, totalCount, error).
func (s *Store) ListSeries(f SeriesFilter) ([]*Series, int, error) { return listSeries(s.db, f) }

// ListSeries returns series matching the filter within a transaction.
func (t *Tx) ListSeries(f SeriesFilter) ([]*Series, int, error) { return listSeries(t.tx, f) }

func updateSeriesCover(q querier, id int64, coverURL string) error {
	result, err := q.Exec("UPDATE series SET cover_image_url = ? WHERE id = ?", coverURL, id)
	if err != nil {
		return fmt.Errorf("update series cover %d: %w", id, mapSQLiteError(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update series cover %d: %w", id, ErrNotFound)
	}
	return nil
}

// UpdateSeriesCover overwrites the cover image URL.
// Covers are sync-owned: the last sync wins.
func (s *Store) UpdateSeriesCover(id int64, coverURL string) error {
	return updateSeriesCover(s.db, id, coverURL)
}

// UpdateSeriesCover overwrites the cover image URL within a transaction.
func (t *Tx) UpdateSeriesCover(id int64, coverURL string) error {
	return updateSeriesCover(t.tx, id, coverURL)
}

func deleteSeries(q querier, id int64) error {
	result, err := q.Exec("DELETE FROM series WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete series %d: %w", id, mapSQLiteError(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete series %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteSeries removes a series by ID. Episodes, reviews, and collection
// memberships cascade at the storage layer.
// Returns ErrNotFound if the series does not exist.
func (s *Store) DeleteSeries(id int64) error { return deleteSeries(s.db, id) }

// DeleteSeries removes a series by ID within a transaction.
func (t *Tx) DeleteSeries(id int64) error { return deleteSeries(t.tx, id) }
