package library

import (
	"fmt"
	"time"
)

func addCollection(q querier, c *Collection) error {
	now := time.Now()
	result, err := q.Exec(`
		INSERT INTO collections (name, description, created_at)
		VALUES (?, ?, ?)`,
		c.Name, c.Description, now,
	)
	if err != nil {
		return fmt.Errorf("insert collection: %w", mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	c.ID = id
	c.CreatedAt = now
	return nil
}

// AddCollection inserts a new collection.
// Sets ID and CreatedAt on the struct.
func (s *Store) AddCollection(c *Collection) error { return addCollection(s.db, c) }

// AddCollection inserts a new collection within a transaction.
func (t *Tx) AddCollection(c *Collection) error { return addCollection(t.tx, c) }

func listCollections(q querier) ([]*Collection, error) {
	rows, err := q.Query(`
		SELECT id, name, description, created_at
		FROM collections ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Collection
	for rows.Next() {
		c := &Collection{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan collection: %w", err)
		}
		results = append(results, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate collections: %w", err)
	}

	return results, nil
}

// ListCollections returns all collections, newest first.
func (s *Store) ListCollections() ([]*Collection, error) { return listCollections(s.db) }

// ListCollections returns all collections within a transaction.
func (t *Tx) ListCollections() ([]*Collection, error) { return listCollections(t.tx) }

func addCollectionMember(q querier, collectionID, seriesID int64) error {
	_, err := q.Exec(`
		INSERT OR IGNORE INTO collection_series (collection_id, series_id)
		VALUES (?, ?)`,
		collectionID, seriesID,
	)
	if err != nil {
		return fmt.Errorf("add collection member: %w", mapSQLiteError(err))
	}
	return nil
}

// AddCollectionMember links a series into a collection.
// Adding an existing member is a no-op.
// Returns ErrConstraint when the collection or series does not exist.
func (s *Store) AddCollectionMember(collectionID, seriesID int64) error {
	return addCollectionMember(s.db, collectionID, seriesID)
}

// AddCollectionMember links a series into a collection within a transaction.
func (t *Tx) AddCollectionMember(collectionID, seriesID int64) error {
	return addCollectionMember(t.tx, collectionID, seriesID)
}

func listCollectionMembers(q querier, collectionID int64) ([]*Series, error) {
	rows, err := q.Query(`
		SELECT s.id, s.title, s.start_date, s.total_episodes, s.external_ref, s.cover_image_url, s.created_at
		FROM series s
		JOIN collection_series cs ON s.id = cs.series_id
		WHERE cs.collection_id = ?
		ORDER BY s.created_at DESC, s.id DESC`, collectionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list collection members: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Series
	for rows.Next() {
		sr := &Series{}
		if err := rows.Scan(&sr.ID, &sr.Title, &sr.StartDate, &sr.TotalEpisodes, &sr.ExternalRef, &sr.CoverImageURL, &sr.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan collection member: %w", err)
		}
		results = append(results, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate collection members: %w", err)
	}

	return results, nil
}

// ListCollectionMembers returns the series in a collection.
func (s *Store) ListCollectionMembers(collectionID int64) ([]*Series, error) {
	return listCollectionMembers(s.db, collectionID)
}

// ListCollectionMembers returns the series in a collection within a transaction.
func (t *Tx) ListCollectionMembers(collectionID int64) ([]*Series, error) {
	return listCollectionMembers(t.tx, collectionID)
}

func deleteCollection(q querier, id int64) error {
	result, err := q.Exec("DELETE FROM collections WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete collection %d: %w", id, mapSQLiteError(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete collection %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteCollection removes a collection; memberships cascade.
// Returns ErrNotFound if the collection does not exist.
func (s *Store) DeleteCollection(id int64) error { return deleteCollection(s.db, id) }

// DeleteCollection removes a collection within a transaction.
func (t *Tx) DeleteCollection(id int64) error { return deleteCollection(t.tx, id) }
