package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/series/7", r.URL.Path)
		_ = json.NewEncoder(w).Encode(SeriesResponse{ID: 7, Title: "Ouran"})
	}))
	defer srv.Close()

	var sr SeriesResponse
	client := NewClient(srv.URL)
	require.NoError(t, client.get("/api/v1/series/7", &sr))
	assert.Equal(t, int64(7), sr.ID)
	assert.Equal(t, "Ouran", sr.Title)
}

func TestClient_Post(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Ouran", body["title"])

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(SeriesResponse{ID: 1, Title: "Ouran"})
	}))
	defer srv.Close()

	var created SeriesResponse
	client := NewClient(srv.URL)
	require.NoError(t, client.post("/api/v1/series", map[string]any{"title": "Ouran"}, &created))
	assert.Equal(t, int64(1), created.ID)
}

func TestClient_ServerErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"error": "Series has no usable external reference",
			"code":  "NOT_SYNCABLE",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	err := client.post("/api/v1/series/1/sync", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
	assert.Contains(t, err.Error(), "external reference")
}

func TestClient_Delete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	require.NoError(t, client.delete("/api/v1/series/1"))
}
