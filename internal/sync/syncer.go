// Package sync reconciles catalog data with the local library: it
// classifies external episode records, upserts series/episode rows without
// clobbering locally-owned fields, merges remote ratings into local
// reviews, and bulk-imports user collections with per-item failure
// isolation.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/anitrack/internal/library"
	"github.com/vmunix/anitrack/pkg/bangumi"
)

// Engine drives synchronization between the catalog and the library.
type Engine struct {
	store   *library.Store
	catalog Catalog
	log     *slog.Logger
}

// NewEngine creates a sync engine.
func NewEngine(store *library.Store, catalog Catalog, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		store:   store,
		catalog: catalog,
		log:     log,
	}
}

// SoftFailure records a degraded outcome: the catalog did not cooperate
// but the operation as a whole still succeeded.
type SoftFailure struct {
	Op     string
	Reason string
}

// SyncResult reports the effect of one series sync.
type SyncResult struct {
	SeriesID        int64
	EpisodesAdded   int
	EpisodesUpdated int
	CoverRefreshed  bool
	Soft            []SoftFailure
}

// Degraded reports whether any catalog call was absorbed as a soft failure.
func (r *SyncResult) Degraded() bool { return len(r.Soft) > 0 }

// SyncSeries pulls current catalog data for one series and upserts it
// locally inside a single transaction. The series must carry a usable
// external reference or the sync fails with ErrNotSyncable.
//
// Catalog fetch failures are absorbed: a failed subject fetch skips the
// cover refresh, a failed episode fetch turns the whole sync into a no-op.
// Both are reported on the result rather than returned as errors.
func (e *Engine) SyncSeries(ctx context.Context, seriesID int64) (*SyncResult, error) {
	series, err := e.store.GetSeries(seriesID)
	if err != nil {
		return nil, err
	}
	if series.ExternalRef == nil {
		return nil, ErrNotSyncable
	}
	subjectID, ok := SubjectIDFromRef(*series.ExternalRef)
	if !ok {
		return nil, fmt.Errorf("%w: ref %q", ErrNotSyncable, *series.ExternalRef)
	}

	tx, err := e.store.Begin()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	result, err := e.syncSeriesTx(ctx, tx, *series.ExternalRef, subjectID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit sync: %w", err)
	}
	return result, nil
}

// syncSeriesTx runs one series sync inside the caller's transaction.
// Used directly by the collection importer, which holds one transaction
// for its whole run.
func (e *Engine) syncSeriesTx(ctx context.Context, tx *library.Tx, externalRef string, subjectID int64) (*SyncResult, error) {
	result := &SyncResult{}

	// Subject detail and episode list are independent catalog calls;
	// fetch them concurrently. Errors are captured, not returned, so a
	// slow or failing fetch never cancels its sibling.
	var (
		subject          *bangumi.Subject
		records          []bangumi.EpisodeRecord
		subjErr, recsErr error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		subject, subjErr = e.catalog.GetSubject(gctx, subjectID)
		return nil
	})
	g.Go(func() error {
		records, recsErr = e.catalog.GetEpisodes(gctx, subjectID)
		return nil
	})
	_ = g.Wait()

	// Subject detail is best-effort; without it the cover stays as is.
	var fields SeriesFields
	if subjErr != nil {
		e.log.Warn("subject fetch failed, cover not refreshed", "subject_id", subjectID, "error", subjErr)
		result.Soft = append(result.Soft, SoftFailure{Op: "subject", Reason: subjErr.Error()})
		subject = nil
	} else {
		fields = subjectFields(subject)
	}

	// The episode list is always fetched in full; the upsert writer's
	// idempotency makes repeated full syncs safe. A fetch failure turns
	// the sync into a no-op instead of a partial write.
	if recsErr != nil {
		e.log.Warn("episode fetch failed, sync is a no-op", "subject_id", subjectID, "error", recsErr)
		result.Soft = append(result.Soft, SoftFailure{Op: "episodes", Reason: recsErr.Error()})
		return result, nil
	}

	seriesID, _, err := UpsertSeries(tx, externalRef, fields)
	if err != nil {
		return nil, err
	}
	result.SeriesID = seriesID
	result.CoverRefreshed = subject != nil && fields.CoverImageURL != nil && *fields.CoverImageURL != ""

	classified := make([]Classified, 0, len(records))
	for _, rec := range records {
		classified = append(classified, Classify(rec))
	}

	stats, err := UpsertEpisodes(tx, seriesID, classified)
	if err != nil {
		return nil, err
	}
	result.EpisodesAdded = stats.Added
	result.EpisodesUpdated = stats.Updated

	e.log.Info("series synced",
		"series_id", seriesID,
		"subject_id", subjectID,
		"added", stats.Added,
		"updated", stats.Updated,
		"degraded", result.Degraded(),
	)
	return result, nil
}

// CreateSeries adds a series and, when it carries an external reference,
// immediately syncs it. The create succeeds even when the sync degrades.
func (e *Engine) CreateSeries(ctx context.Context, s *library.Series, syncNow bool) (*SyncResult, error) {
	if err := e.store.AddSeries(s); err != nil {
		return nil, err
	}
	if !syncNow || s.ExternalRef == nil {
		return nil, nil
	}
	result, err := e.SyncSeries(ctx, s.ID)
	if err != nil && !errors.Is(err, ErrNotSyncable) {
		return nil, err
	}
	return result, nil
}

// subjectFields maps catalog subject metadata onto series fields.
// The localized title is preferred; a zero episode count is absent.
func subjectFields(subject *bangumi.Subject) SeriesFields {
	fields := SeriesFields{
		Title:     subject.Name,
		StartDate: parseDate(subject.Date),
	}
	if subject.NameCN != "" {
		fields.Title = subject.NameCN
	}
	if subject.Eps > 0 {
		eps := subject.Eps
		fields.TotalEpisodes = &eps
	}
	if cover := subject.Images.CoverURL(); cover != "" {
		fields.CoverImageURL = &cover
	}
	return fields
}
