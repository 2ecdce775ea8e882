package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/anitrack/pkg/bangumi"
)

func TestService_GetSubject_CachesResponse(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"id":2453,"name":"Ouran","name_cn":"","date":"2006-04-05","eps":26,"images":{"large":"https://img/l.jpg"}}`))
	}))
	defer srv.Close()

	db := setupTestDB(t)
	svc := NewService(bangumi.New(bangumi.WithBaseURL(srv.URL)), NewCache(db), nil)
	ctx := context.Background()

	first, err := svc.GetSubject(ctx, 2453)
	require.NoError(t, err)
	second, err := svc.GetSubject(ctx, 2453)
	require.NoError(t, err)

	assert.Equal(t, first.Name, second.Name)
	assert.Equal(t, int32(1), calls.Load(), "second call must be served from cache")
}

func TestService_GetEpisodes_CachesResponse(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"data":[{"type":0,"sort":1,"name":"ep","name_cn":"","airdate":"2006-04-05"}]}`))
	}))
	defer srv.Close()

	db := setupTestDB(t)
	svc := NewService(bangumi.New(bangumi.WithBaseURL(srv.URL)), NewCache(db), nil)
	ctx := context.Background()

	first, err := svc.GetEpisodes(ctx, 2453)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := svc.GetEpisodes(ctx, 2453)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load())
}

func TestService_GetUserCollection_Uncached(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"data":[],"total":0}`))
	}))
	defer srv.Close()

	db := setupTestDB(t)
	svc := NewService(bangumi.New(bangumi.WithBaseURL(srv.URL)), NewCache(db), nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := svc.GetUserCollection(ctx, "sakura", bangumi.CollectionWish, 50, 0)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), calls.Load(), "collection pages are never cached")
}
