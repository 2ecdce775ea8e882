// internal/sync/testutil_test.go
package sync

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/vmunix/anitrack/internal/library"
	"github.com/vmunix/anitrack/internal/migrations"
)

func setupTestStore(t *testing.T) *library.Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(1)")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return library.NewStore(db)
}

func ptr[T any](v T) *T {
	return &v
}
