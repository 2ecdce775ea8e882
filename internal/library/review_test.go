package library

import (
	"errors"
	"testing"
)

func TestStore_PutSeriesReview_Upsert(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	s := addTestSeries(t, store, "Shinsekai Yori")

	if err := store.PutSeriesReview(s.ID, ptr(8), ptr("strong second half")); err != nil {
		t.Fatalf("PutSeriesReview: %v", err)
	}

	first, err := store.GetSeriesReview(s.ID)
	if err != nil {
		t.Fatalf("GetSeriesReview: %v", err)
	}
	if first.Score == nil || *first.Score != 8 {
		t.Errorf("Score = %v, want 8", first.Score)
	}

	// Second write replaces score/comment and refreshes reviewed_at.
	if err := store.PutSeriesReview(s.ID, ptr(9), nil); err != nil {
		t.Fatalf("PutSeriesReview (update): %v", err)
	}
	second, err := store.GetSeriesReview(s.ID)
	if err != nil {
		t.Fatalf("GetSeriesReview: %v", err)
	}
	if second.Score == nil || *second.Score != 9 {
		t.Errorf("Score = %v, want 9", second.Score)
	}
	if second.Comment != nil {
		t.Errorf("Comment = %v, want nil", second.Comment)
	}
	if second.ReviewedAt.Before(first.ReviewedAt) {
		t.Errorf("ReviewedAt went backwards: %v -> %v", first.ReviewedAt, second.ReviewedAt)
	}
}

func TestStore_GetSeriesReview_NotFound(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	s := addTestSeries(t, store, "Shinsekai Yori")

	if _, err := store.GetSeriesReview(s.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_PutEpisodeReview(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	s := addTestSeries(t, store, "Shinsekai Yori")
	e := &Episode{SeriesID: s.ID, Code: "E10", Type: EpisodeMain, OrdinalHint: 10}
	if err := store.AddEpisode(e); err != nil {
		t.Fatalf("AddEpisode: %v", err)
	}

	if err := store.PutEpisodeReview(e.ID, nil, ptr("quiet but heavy")); err != nil {
		t.Fatalf("PutEpisodeReview: %v", err)
	}

	r, err := store.GetEpisodeReview(e.ID)
	if err != nil {
		t.Fatalf("GetEpisodeReview: %v", err)
	}
	if r.Score != nil {
		t.Errorf("Score = %v, want nil", r.Score)
	}
	if r.Comment == nil || *r.Comment != "quiet but heavy" {
		t.Errorf("Comment = %v, want set", r.Comment)
	}
}

func TestStore_PutSeriesReview_ScoreOutOfRange(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	s := addTestSeries(t, store, "Shinsekai Yori")

	if err := store.PutSeriesReview(s.ID, ptr(11), nil); !errors.Is(err, ErrConstraint) {
		t.Errorf("expected ErrConstraint for score 11, got %v", err)
	}
}
