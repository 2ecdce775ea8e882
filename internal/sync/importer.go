package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/vmunix/anitrack/internal/library"
	"github.com/vmunix/anitrack/pkg/bangumi"
)

// Kind names one of the remote collection shelves.
type Kind string

const (
	KindWish       Kind = "wish"
	KindCollect    Kind = "collect"
	KindInProgress Kind = "in_progress"
	KindOnHold     Kind = "on_hold"
	KindDropped    Kind = "dropped"
)

// ParseKind validates a collection kind name.
// Returns ErrBadRequest for anything outside the fixed enumeration.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindWish, KindCollect, KindInProgress, KindOnHold, KindDropped:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("%w: unknown collection kind %q", ErrBadRequest, s)
	}
}

func (k Kind) catalogType() int {
	switch k {
	case KindWish:
		return bangumi.CollectionWish
	case KindCollect:
		return bangumi.CollectionCollect
	case KindInProgress:
		return bangumi.CollectionInProgress
	case KindOnHold:
		return bangumi.CollectionOnHold
	case KindDropped:
		return bangumi.CollectionDropped
	default:
		return 0
	}
}

const (
	importPageSize = 50

	// importOffsetCeiling bounds the paginated walk against a misbehaving
	// remote feed that keeps reporting more entries.
	importOffsetCeiling = 200
)

// ImportResult aggregates one collection import run.
type ImportResult struct {
	Added   int
	Updated int
	Failed  int
	Soft    []SoftFailure
}

// ImportCollection walks a user's remote collection shelf page by page and
// imports every entry: resolve or create the series by external reference,
// sync its catalog data, then merge the remote rating/comment into the
// local series review.
//
// Each entry is isolated: an error while processing one is counted under
// Failed and the run continues. The whole run shares one transaction,
// committed once at the end; a crash mid-run loses only that run, and the
// importer is safely re-runnable from offset 0.
func (e *Engine) ImportCollection(ctx context.Context, username string, kind Kind) (*ImportResult, error) {
	typ := kind.catalogType()
	if typ == 0 {
		return nil, fmt.Errorf("%w: unknown collection kind %q", ErrBadRequest, kind)
	}

	tx, err := e.store.Begin()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	result := &ImportResult{}
	for offset := 0; offset <= importOffsetCeiling; {
		page, err := e.catalog.GetUserCollection(ctx, username, typ, importPageSize, offset)
		if err != nil {
			// The remote feed did not cooperate; keep what we have.
			e.log.Warn("collection page fetch failed, stopping early",
				"username", username, "offset", offset, "error", err)
			result.Soft = append(result.Soft, SoftFailure{Op: "collection_page", Reason: err.Error()})
			break
		}
		if len(page.Data) == 0 {
			break
		}

		for _, entry := range page.Data {
			created, err := e.importEntry(ctx, tx, entry)
			if err != nil {
				e.log.Warn("collection entry failed", "username", username, "error", err)
				result.Failed++
				continue
			}
			if created {
				result.Added++
			} else {
				result.Updated++
			}
		}

		offset += len(page.Data)
		if offset >= page.Total {
			break
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	e.log.Info("collection imported",
		"username", username,
		"kind", string(kind),
		"added", result.Added,
		"updated", result.Updated,
		"failed", result.Failed,
	)
	return result, nil
}

// importEntry processes a single collection entry inside the run's
// transaction. Returns whether a new series row was created.
func (e *Engine) importEntry(ctx context.Context, tx *library.Tx, entry bangumi.CollectionEntry) (bool, error) {
	if entry.Subject == nil {
		return false, errors.New("entry has no subject")
	}
	ref := RefFor(entry.Subject.ID)

	seriesID, created, err := UpsertSeries(tx, ref, subjectFields(entry.Subject))
	if err != nil {
		return false, fmt.Errorf("resolve series %s: %w", ref, err)
	}

	if _, err := e.syncSeriesTx(ctx, tx, ref, entry.Subject.ID); err != nil {
		return created, fmt.Errorf("sync %s: %w", ref, err)
	}

	if err := e.mergeSeriesReview(tx, seriesID, ImportedReview{Score: entry.Rate, Comment: entry.Comment}); err != nil {
		return created, fmt.Errorf("merge review %s: %w", ref, err)
	}
	return created, nil
}

// mergeSeriesReview applies the local-wins merge policy to one series review.
func (e *Engine) mergeSeriesReview(tx *library.Tx, seriesID int64, imported ImportedReview) error {
	existing, err := tx.GetSeriesReview(seriesID)
	if errors.Is(err, library.ErrNotFound) {
		existing = nil
	} else if err != nil {
		return err
	}

	resolved, write := MergeReview(existing, imported)
	if !write {
		return nil
	}
	return tx.PutSeriesReview(seriesID, resolved.Score, resolved.Comment)
}
