package v1

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	_ "modernc.org/sqlite"

	"github.com/vmunix/anitrack/internal/library"
	"github.com/vmunix/anitrack/internal/migrations"
	syncer "github.com/vmunix/anitrack/internal/sync"
	"github.com/vmunix/anitrack/internal/sync/mocks"
	"github.com/vmunix/anitrack/pkg/bangumi"
)

type testEnv struct {
	server  *httptest.Server
	store   *library.Store
	catalog *mocks.MockCatalog
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = db.Exec(migrations.InitialSQL)
	require.NoError(t, err)

	store := library.NewStore(db)
	ctrl := gomock.NewController(t)
	catalog := mocks.NewMockCatalog(ctrl)
	engine := syncer.NewEngine(store, catalog, slog.New(slog.NewTextHandler(io.Discard, nil)))

	mux := http.NewServeMux()
	New(store, engine).RegisterRoutes(mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return &testEnv{server: srv, store: store, catalog: catalog}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, e.server.URL+path, buf)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestSeriesCRUD(t *testing.T) {
	env := setupTestEnv(t)

	resp := env.do(t, "POST", "/api/v1/series", map[string]any{
		"title":        "Ouran High School Host Club",
		"external_ref": "BGM-2453",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeJSON[seriesResponse](t, resp)
	assert.Equal(t, "Ouran High School Host Club", created.Title)
	assert.Equal(t, "BGM-2453", *created.ExternalRef)

	resp = env.do(t, "GET", "/api/v1/series/1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, "GET", "/api/v1/series", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decodeJSON[listSeriesResponse](t, resp)
	assert.Equal(t, 1, list.Total)
	require.Len(t, list.Items, 1)

	// Same external_ref again conflicts.
	resp = env.do(t, "POST", "/api/v1/series", map[string]any{
		"title":        "duplicate",
		"external_ref": "BGM-2453",
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = env.do(t, "DELETE", "/api/v1/series/1", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = env.do(t, "DELETE", "/api/v1/series/1", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAddSeries_Validation(t *testing.T) {
	env := setupTestEnv(t)

	resp := env.do(t, "POST", "/api/v1/series", map[string]any{"title": ""})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, "POST", "/api/v1/series", map[string]any{
		"title": "X", "start_date": "April 2006",
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAddSeries_WithSync(t *testing.T) {
	env := setupTestEnv(t)

	env.catalog.EXPECT().GetSubject(gomock.Any(), int64(2453)).Return(&bangumi.Subject{
		ID: 2453, Name: "Ouran", Eps: 26,
		Images: bangumi.Images{Large: "https://img/cover.jpg"},
	}, nil)
	env.catalog.EXPECT().GetEpisodes(gomock.Any(), int64(2453)).Return([]bangumi.EpisodeRecord{
		{Type: bangumi.EpisodeTypeMain, Sort: "1"},
	}, nil)

	resp := env.do(t, "POST", "/api/v1/series?sync=true", map[string]any{
		"title":        "Ouran",
		"external_ref": "BGM-2453",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeJSON[seriesResponse](t, resp)
	require.NotNil(t, created.CoverImageURL)
	assert.Equal(t, "https://img/cover.jpg", *created.CoverImageURL)

	resp = env.do(t, "GET", "/api/v1/series/1/episodes", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	eps := decodeJSON[listEpisodesResponse](t, resp)
	assert.Equal(t, 1, eps.Total)
}

func TestEpisodeEndpoints(t *testing.T) {
	env := setupTestEnv(t)
	require.NoError(t, env.store.AddSeries(&library.Series{Title: "X"}))

	resp := env.do(t, "POST", "/api/v1/series/1/episodes", map[string]any{
		"code": "E01", "type": "main", "ordinal_hint": 1, "title": "pilot",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	ep := decodeJSON[episodeResponse](t, resp)
	assert.Equal(t, "E01", ep.Code)
	assert.Equal(t, "main", ep.Type)

	// Duplicate code on the same series conflicts.
	resp = env.do(t, "POST", "/api/v1/series/1/episodes", map[string]any{"code": "E01"})
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Bad type rejected.
	resp = env.do(t, "POST", "/api/v1/series/1/episodes", map[string]any{"code": "E02", "type": "bonus"})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Missing series.
	resp = env.do(t, "POST", "/api/v1/series/99/episodes", map[string]any{"code": "E01"})
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.do(t, "GET", "/api/v1/series/99/episodes", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.do(t, "DELETE", "/api/v1/episodes/1", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestReviewEndpoints(t *testing.T) {
	env := setupTestEnv(t)
	require.NoError(t, env.store.AddSeries(&library.Series{Title: "X"}))
	require.NoError(t, env.store.AddEpisode(&library.Episode{SeriesID: 1, Code: "E01", Type: library.EpisodeMain}))

	resp := env.do(t, "GET", "/api/v1/series/1/review", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.do(t, "PUT", "/api/v1/series/1/review", map[string]any{"score": 8, "comment": "great"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	review := decodeJSON[reviewResponse](t, resp)
	assert.Equal(t, 8, *review.Score)
	assert.Equal(t, "great", *review.Comment)

	// Re-put replaces in place.
	resp = env.do(t, "PUT", "/api/v1/series/1/review", map[string]any{"score": 9})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	review = decodeJSON[reviewResponse](t, resp)
	assert.Equal(t, 9, *review.Score)

	resp = env.do(t, "PUT", "/api/v1/series/1/review", map[string]any{"score": 11})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, "PUT", "/api/v1/episodes/1/review", map[string]any{"score": 7})
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Review against a missing subject is a 404, not a 500.
	resp = env.do(t, "PUT", "/api/v1/episodes/99/review", map[string]any{"score": 7})
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCollectionEndpoints(t *testing.T) {
	env := setupTestEnv(t)
	require.NoError(t, env.store.AddSeries(&library.Series{Title: "X"}))

	resp := env.do(t, "POST", "/api/v1/collections", map[string]any{"name": "favorites"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeJSON[collectionResponse](t, resp)
	assert.Equal(t, "favorites", created.Name)

	resp = env.do(t, "POST", "/api/v1/collections/1/series", map[string]any{"series_id": 1})
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = env.do(t, "POST", "/api/v1/collections/1/series", map[string]any{"series_id": 99})
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.do(t, "GET", "/api/v1/collections/1/series", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	members := decodeJSON[[]seriesResponse](t, resp)
	require.Len(t, members, 1)
	assert.Equal(t, "X", members[0].Title)

	resp = env.do(t, "DELETE", "/api/v1/collections/1", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestSyncEndpoint(t *testing.T) {
	env := setupTestEnv(t)
	ref := "BGM-7"
	require.NoError(t, env.store.AddSeries(&library.Series{Title: "X", ExternalRef: &ref}))
	require.NoError(t, env.store.AddSeries(&library.Series{Title: "local only"}))

	env.catalog.EXPECT().GetSubject(gomock.Any(), int64(7)).Return(&bangumi.Subject{ID: 7, Name: "X"}, nil)
	env.catalog.EXPECT().GetEpisodes(gomock.Any(), int64(7)).Return([]bangumi.EpisodeRecord{
		{Type: bangumi.EpisodeTypeMain, Sort: "1"},
		{Type: bangumi.EpisodeTypeOpening, Sort: "1"},
	}, nil)

	resp := env.do(t, "POST", "/api/v1/series/1/sync", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := decodeJSON[syncResponse](t, resp)
	assert.Equal(t, 2, result.EpisodesAdded)
	assert.False(t, result.Degraded)

	// No external ref: unprocessable, not an internal error.
	resp = env.do(t, "POST", "/api/v1/series/2/sync", nil)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	errResp := decodeJSON[errorResponse](t, resp)
	assert.Equal(t, "NOT_SYNCABLE", errResp.Code)

	resp = env.do(t, "POST", "/api/v1/series/99/sync", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestImportEndpoint(t *testing.T) {
	env := setupTestEnv(t)

	entries := []bangumi.CollectionEntry{
		{Subject: &bangumi.Subject{ID: 10, Name: "A"}, Rate: 8, Comment: "good"},
		{Subject: nil},
	}
	env.catalog.EXPECT().GetUserCollection(gomock.Any(), "sai", bangumi.CollectionCollect, 50, 0).
		Return(&bangumi.CollectionPage{Data: entries, Total: 2}, nil)
	env.catalog.EXPECT().GetSubject(gomock.Any(), int64(10)).Return(&bangumi.Subject{ID: 10, Name: "A"}, nil)
	env.catalog.EXPECT().GetEpisodes(gomock.Any(), int64(10)).Return(nil, nil)

	resp := env.do(t, "POST", "/api/v1/import", map[string]any{"username": "sai", "kind": "collect"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := decodeJSON[importResponse](t, resp)
	assert.Equal(t, 1, result.Added)
	assert.Equal(t, 1, result.Failed)

	resp = env.do(t, "POST", "/api/v1/import", map[string]any{"username": "sai", "kind": "watching"})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, "POST", "/api/v1/import", map[string]any{"kind": "collect"})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestImportEndpoint_ByURL(t *testing.T) {
	env := setupTestEnv(t)

	env.catalog.EXPECT().GetUserCollection(gomock.Any(), "sai", bangumi.CollectionWish, 50, 0).
		Return(&bangumi.CollectionPage{Data: nil, Total: 0}, nil)

	resp := env.do(t, "POST", "/api/v1/import", map[string]any{"url": "https://bgm.tv/anime/list/sai/wish"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := decodeJSON[importResponse](t, resp)
	assert.Equal(t, 0, result.Added)

	resp = env.do(t, "POST", "/api/v1/import", map[string]any{"url": "https://example.com/x"})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSearchEndpoint(t *testing.T) {
	env := setupTestEnv(t)
	require.NoError(t, env.store.AddSeries(&library.Series{Title: "Steins;Gate"}))
	require.NoError(t, env.store.AddSeries(&library.Series{Title: "Ouran High School Host Club"}))

	resp := env.do(t, "GET", "/api/v1/series/search?q=steins+gate", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := decodeJSON[searchResponse](t, resp)
	require.NotEmpty(t, result.Items)
	assert.Equal(t, "Steins;Gate", result.Items[0].Series.Title)
	assert.Equal(t, "high", result.Items[0].Confidence)

	resp = env.do(t, "GET", "/api/v1/series/search", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSearchEndpoint_Best(t *testing.T) {
	env := setupTestEnv(t)
	require.NoError(t, env.store.AddSeries(&library.Series{Title: "Steins;Gate"}))
	require.NoError(t, env.store.AddSeries(&library.Series{Title: "Steins;Gate 0"}))

	resp := env.do(t, "GET", "/api/v1/series/search?q=steins+gate&best=true", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := decodeJSON[searchResponse](t, resp)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "Steins;Gate", result.Items[0].Series.Title)

	resp = env.do(t, "GET", "/api/v1/series/search?q=zzzzzzzz&best=true", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result = decodeJSON[searchResponse](t, resp)
	assert.Empty(t, result.Items, "no confident match returns an empty list")
}

func TestStatusEndpoint(t *testing.T) {
	env := setupTestEnv(t)

	resp := env.do(t, "GET", "/api/v1/status", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	status := decodeJSON[map[string]string](t, resp)
	assert.Equal(t, "ok", status["status"])
}
