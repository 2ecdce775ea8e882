package sync

import (
	"context"

	"github.com/vmunix/anitrack/pkg/bangumi"
)

//go:generate mockgen -source=catalog.go -destination=mocks/catalog.go -package=mocks

// Catalog is the external catalog surface the sync engine consumes.
// Satisfied by both *bangumi.Client and the cached *catalog.Service.
type Catalog interface {
	GetSubject(ctx context.Context, id int64) (*bangumi.Subject, error)
	GetEpisodes(ctx context.Context, subjectID int64) ([]bangumi.EpisodeRecord, error)
	GetUserCollection(ctx context.Context, username string, typ, limit, offset int) (*bangumi.CollectionPage, error)
}
