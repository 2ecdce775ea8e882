package sync

import (
	"errors"
	"fmt"
	"time"

	"github.com/vmunix/anitrack/internal/library"
)

// SeriesFields carries the sync-sourced attributes of a series.
type SeriesFields struct {
	Title         string
	StartDate     *time.Time
	TotalEpisodes *int
	CoverImageURL *string
}

// UpsertSeries writes one series keyed by its external reference.
//
// If no series carries the reference, a new one is created with the given
// fields. If one exists, its user-visible fields are left alone; only the
// cover image is refreshed when the sync fetched a non-empty one (covers
// are sync-owned, last sync wins).
func UpsertSeries(tx *library.Tx, externalRef string, fields SeriesFields) (seriesID int64, created bool, err error) {
	existing, err := tx.GetSeriesByExternalRef(externalRef)
	if err == nil {
		if fields.CoverImageURL != nil && *fields.CoverImageURL != "" {
			if err := tx.UpdateSeriesCover(existing.ID, *fields.CoverImageURL); err != nil {
				return 0, false, fmt.Errorf("refresh cover: %w", err)
			}
		}
		return existing.ID, false, nil
	}
	if !errors.Is(err, library.ErrNotFound) {
		return 0, false, fmt.Errorf("lookup by ref: %w", err)
	}

	ref := externalRef
	s := &library.Series{
		Title:         fields.Title,
		StartDate:     fields.StartDate,
		TotalEpisodes: fields.TotalEpisodes,
		ExternalRef:   &ref,
		CoverImageURL: fields.CoverImageURL,
	}
	if err := tx.AddSeries(s); err != nil {
		return 0, false, fmt.Errorf("create series: %w", err)
	}
	return s.ID, true, nil
}

// UpsertStats counts the effect of one episode batch upsert.
type UpsertStats struct {
	Added   int
	Updated int
}

// UpsertEpisodes writes a batch of classified episode records for one
// series. New rows are inserted under the (series_id, episode_code)
// business key; existing rows get only title and air_date refreshed, and
// only when they actually changed. Rows with no matching record are left
// untouched: the writer is additive, never deletive, so user-entered
// episodes survive every sync.
func UpsertEpisodes(tx *library.Tx, seriesID int64, records []Classified) (UpsertStats, error) {
	var stats UpsertStats
	for _, rec := range records {
		existing, err := tx.GetEpisodeByCode(seriesID, rec.Code)
		if errors.Is(err, library.ErrNotFound) {
			ep := &library.Episode{
				SeriesID:    seriesID,
				Code:        rec.Code,
				Type:        rec.Type,
				OrdinalHint: rec.OrdinalHint,
				Title:       rec.Title,
				AirDate:     rec.AirDate,
			}
			if err := tx.AddEpisode(ep); err != nil {
				return stats, fmt.Errorf("insert episode %s: %w", rec.Code, err)
			}
			stats.Added++
			continue
		}
		if err != nil {
			return stats, fmt.Errorf("lookup episode %s: %w", rec.Code, err)
		}

		if sameTitle(existing.Title, rec.Title) && sameDate(existing.AirDate, rec.AirDate) {
			continue
		}
		if err := tx.UpdateEpisodeSyncFields(existing.ID, rec.Title, rec.AirDate); err != nil {
			return stats, fmt.Errorf("update episode %s: %w", rec.Code, err)
		}
		stats.Updated++
	}
	return stats, nil
}

func sameTitle(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
