// Package v1 implements the native REST API.
package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/vmunix/anitrack/internal/library"
	syncer "github.com/vmunix/anitrack/internal/sync"
	"github.com/vmunix/anitrack/pkg/match"
)

// Server is the v1 API server.
type Server struct {
	library *library.Store
	engine  *syncer.Engine

	// importUser fills in the username for import requests that omit one.
	importUser string
}

// New creates a new v1 API server.
func New(store *library.Store, engine *syncer.Engine) *Server {
	return &Server{library: store, engine: engine}
}

// SetDefaultImportUser configures the fallback username for imports.
func (s *Server) SetDefaultImportUser(username string) {
	s.importUser = username
}

// RegisterRoutes registers API routes on the given mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// Series
	mux.HandleFunc("GET /api/v1/series", s.listSeries)
	mux.HandleFunc("GET /api/v1/series/{id}", s.getSeries)
	mux.HandleFunc("POST /api/v1/series", s.addSeries)
	mux.HandleFunc("DELETE /api/v1/series/{id}", s.deleteSeries)
	mux.HandleFunc("GET /api/v1/series/search", s.searchSeries)

	// Episodes
	mux.HandleFunc("GET /api/v1/series/{id}/episodes", s.listEpisodes)
	mux.HandleFunc("POST /api/v1/series/{id}/episodes", s.addEpisode)
	mux.HandleFunc("DELETE /api/v1/episodes/{id}", s.deleteEpisode)

	// Reviews
	mux.HandleFunc("GET /api/v1/series/{id}/review", s.getSeriesReview)
	mux.HandleFunc("PUT /api/v1/series/{id}/review", s.putSeriesReview)
	mux.HandleFunc("GET /api/v1/episodes/{id}/review", s.getEpisodeReview)
	mux.HandleFunc("PUT /api/v1/episodes/{id}/review", s.putEpisodeReview)

	// Collections
	mux.HandleFunc("GET /api/v1/collections", s.listCollections)
	mux.HandleFunc("POST /api/v1/collections", s.addCollection)
	mux.HandleFunc("DELETE /api/v1/collections/{id}", s.deleteCollection)
	mux.HandleFunc("GET /api/v1/collections/{id}/series", s.listCollectionMembers)
	mux.HandleFunc("POST /api/v1/collections/{id}/series", s.addCollectionMember)

	// Sync & import
	mux.HandleFunc("POST /api/v1/series/{id}/sync", s.syncSeries)
	mux.HandleFunc("POST /api/v1/import", s.importCollection)

	// System
	mux.HandleFunc("GET /api/v1/status", s.getStatus)
}

// Error response
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message, Code: errCode})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

// pathID extracts an integer ID from the URL path.
func pathID(r *http.Request, name string) (int64, error) {
	idStr := r.PathValue(name)
	if idStr == "" {
		return 0, fmt.Errorf("missing path parameter: %s", name)
	}
	return strconv.ParseInt(idStr, 10, 64)
}

// queryInt extracts an optional integer from query string.
func queryInt(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

// queryString extracts an optional string from query string.
func queryString(r *http.Request, name string) *string {
	val := r.URL.Query().Get(name)
	if val == "" {
		return nil
	}
	return &val
}

func seriesToResponse(sr *library.Series) seriesResponse {
	return seriesResponse{
		ID:            sr.ID,
		Title:         sr.Title,
		StartDate:     sr.StartDate,
		TotalEpisodes: sr.TotalEpisodes,
		ExternalRef:   sr.ExternalRef,
		CoverImageURL: sr.CoverImageURL,
		CreatedAt:     sr.CreatedAt,
	}
}

func episodeToResponse(ep *library.Episode) episodeResponse {
	return episodeResponse{
		ID:          ep.ID,
		SeriesID:    ep.SeriesID,
		Code:        ep.Code,
		Type:        string(ep.Type),
		OrdinalHint: ep.OrdinalHint,
		Title:       ep.Title,
		AirDate:     ep.AirDate,
	}
}

func syncToResponse(result *syncer.SyncResult) syncResponse {
	resp := syncResponse{
		SeriesID:        result.SeriesID,
		EpisodesAdded:   result.EpisodesAdded,
		EpisodesUpdated: result.EpisodesUpdated,
		CoverRefreshed:  result.CoverRefreshed,
		Degraded:        result.Degraded(),
	}
	for _, sf := range result.Soft {
		resp.Soft = append(resp.Soft, softFailure{Op: sf.Op, Reason: sf.Reason})
	}
	return resp
}

// Series handlers

func (s *Server) listSeries(w http.ResponseWriter, r *http.Request) {
	filter := library.SeriesFilter{
		Title:       queryString(r, "title"),
		ExternalRef: queryString(r, "external_ref"),
		Limit:       queryInt(r, "limit", 50),
		Offset:      queryInt(r, "offset", 0),
	}

	items, total, err := s.library.ListSeries(filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}

	resp := listSeriesResponse{
		Items:  make([]seriesResponse, len(items)),
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	for i, sr := range items {
		resp.Items[i] = seriesToResponse(sr)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getSeries(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	sr, err := s.library.GetSeries(id)
	if err != nil {
		if errors.Is(err, library.ErrNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Series not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, seriesToResponse(sr))
}

func (s *Server) addSeries(w http.ResponseWriter, r *http.Request) {
	var req addSeriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "INVALID_TITLE", "title is required")
		return
	}

	sr := &library.Series{
		Title:         req.Title,
		TotalEpisodes: req.TotalEpisodes,
		ExternalRef:   req.ExternalRef,
	}
	if req.StartDate != nil {
		d, err := time.Parse("2006-01-02", *req.StartDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_DATE", "start_date must be YYYY-MM-DD")
			return
		}
		sr.StartDate = &d
	}

	syncNow := r.URL.Query().Get("sync") == "true"
	result, err := s.engine.CreateSeries(r.Context(), sr, syncNow)
	if err != nil {
		if errors.Is(err, library.ErrDuplicate) {
			writeError(w, http.StatusConflict, "DUPLICATE", "Series with this external_ref already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}

	// Re-read so the response reflects any sync-applied fields.
	if result != nil {
		if fresh, err := s.library.GetSeries(sr.ID); err == nil {
			sr = fresh
		}
	}
	writeJSON(w, http.StatusCreated, seriesToResponse(sr))
}

func (s *Server) deleteSeries(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	if err := s.library.DeleteSeries(id); err != nil {
		if errors.Is(err, library.ErrNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Series not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) searchSeries(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "INVALID_QUERY", "q is required")
		return
	}

	// Fuzzy search ranks the full library in memory; fine at the scale of
	// a personal tracker.
	items, _, err := s.library.ListSeries(library.SeriesFilter{Limit: 10000})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}

	byTitle := make(map[string]*library.Series, len(items))
	titles := make([]string, 0, len(items))
	for _, sr := range items {
		if _, dup := byTitle[sr.Title]; dup {
			continue
		}
		byTitle[sr.Title] = sr
		titles = append(titles, sr.Title)
	}

	resp := searchResponse{Items: []searchResultResponse{}}
	if r.URL.Query().Get("best") == "true" {
		// Single answer for callers that want a pick, not a list.
		if best := match.Best(query, titles); best.Confidence != match.ConfidenceNone {
			resp.Items = append(resp.Items, searchResultResponse{
				Series:     seriesToResponse(byTitle[best.Title]),
				Score:      best.Score,
				Confidence: best.Confidence.String(),
			})
		}
		writeJSON(w, http.StatusOK, resp)
		return
	}
	for _, result := range match.Rank(query, titles) {
		resp.Items = append(resp.Items, searchResultResponse{
			Series:     seriesToResponse(byTitle[result.Title]),
			Score:      result.Score,
			Confidence: result.Confidence.String(),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// Episode handlers

func (s *Server) listEpisodes(w http.ResponseWriter, r *http.Request) {
	seriesID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}
	if _, err := s.library.GetSeries(seriesID); err != nil {
		if errors.Is(err, library.ErrNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Series not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}

	episodes, err := s.library.ListEpisodes(seriesID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}

	resp := listEpisodesResponse{
		Items: make([]episodeResponse, len(episodes)),
		Total: len(episodes),
	}
	for i, ep := range episodes {
		resp.Items[i] = episodeToResponse(ep)
	}
	writeJSON(w, http.StatusOK, resp)
}

var validEpisodeTypes = map[library.EpisodeType]bool{
	library.EpisodeMain:    true,
	library.EpisodeSpecial: true,
	library.EpisodeOpening: true,
	library.EpisodeEnding:  true,
	library.EpisodeOther:   true,
}

func (s *Server) addEpisode(w http.ResponseWriter, r *http.Request) {
	seriesID, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	var req addEpisodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, "INVALID_CODE", "code is required")
		return
	}
	epType := library.EpisodeType(req.Type)
	if req.Type == "" {
		epType = library.EpisodeMain
	} else if !validEpisodeTypes[epType] {
		writeError(w, http.StatusBadRequest, "INVALID_TYPE", "type must be one of main, sp, op, ed, other")
		return
	}

	ep := &library.Episode{
		SeriesID:    seriesID,
		Code:        req.Code,
		Type:        epType,
		OrdinalHint: req.OrdinalHint,
		Title:       req.Title,
	}
	if req.AirDate != nil {
		d, err := time.Parse("2006-01-02", *req.AirDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_DATE", "air_date must be YYYY-MM-DD")
			return
		}
		ep.AirDate = &d
	}

	if err := s.library.AddEpisode(ep); err != nil {
		switch {
		case errors.Is(err, library.ErrDuplicate):
			writeError(w, http.StatusConflict, "DUPLICATE", "Episode code already exists for this series")
		case errors.Is(err, library.ErrConstraint):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Series not found")
		default:
			writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		}
		return
	}
	writeJSON(w, http.StatusCreated, episodeToResponse(ep))
}

func (s *Server) deleteEpisode(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}
	if err := s.library.DeleteEpisode(id); err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Review handlers

func (s *Server) getSeriesReview(w http.ResponseWriter, r *http.Request) {
	s.getReview(w, r, s.library.GetSeriesReview)
}

func (s *Server) getEpisodeReview(w http.ResponseWriter, r *http.Request) {
	s.getReview(w, r, s.library.GetEpisodeReview)
}

func (s *Server) getReview(w http.ResponseWriter, r *http.Request, get func(int64) (*library.Review, error)) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	review, err := get(id)
	if err != nil {
		if errors.Is(err, library.ErrNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "No review")
			return
		}
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, reviewResponse{
		Score:      review.Score,
		Comment:    review.Comment,
		ReviewedAt: review.ReviewedAt,
	})
}

func (s *Server) putSeriesReview(w http.ResponseWriter, r *http.Request) {
	s.putReview(w, r, s.library.PutSeriesReview, s.library.GetSeriesReview)
}

func (s *Server) putEpisodeReview(w http.ResponseWriter, r *http.Request) {
	s.putReview(w, r, s.library.PutEpisodeReview, s.library.GetEpisodeReview)
}

func (s *Server) putReview(w http.ResponseWriter, r *http.Request,
	put func(int64, *int, *string) error, get func(int64) (*library.Review, error)) {

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	var req putReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	if req.Score != nil && (*req.Score < 0 || *req.Score > 10) {
		writeError(w, http.StatusBadRequest, "INVALID_SCORE", "score must be between 0 and 10")
		return
	}

	if err := put(id, req.Score, req.Comment); err != nil {
		if errors.Is(err, library.ErrConstraint) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Subject not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}

	review, err := get(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, reviewResponse{
		Score:      review.Score,
		Comment:    review.Comment,
		ReviewedAt: review.ReviewedAt,
	})
}

// Collection handlers

func collectionToResponse(c *library.Collection) collectionResponse {
	return collectionResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
	}
}

func (s *Server) listCollections(w http.ResponseWriter, r *http.Request) {
	collections, err := s.library.ListCollections()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	resp := make([]collectionResponse, len(collections))
	for i, c := range collections {
		resp[i] = collectionToResponse(c)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) addCollection(w http.ResponseWriter, r *http.Request) {
	var req addCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "INVALID_NAME", "name is required")
		return
	}

	c := &library.Collection{Name: req.Name, Description: req.Description}
	if err := s.library.AddCollection(c); err != nil {
		if errors.Is(err, library.ErrDuplicate) {
			writeError(w, http.StatusConflict, "DUPLICATE", "Collection name already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, collectionToResponse(c))
}

func (s *Server) deleteCollection(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}
	if err := s.library.DeleteCollection(id); err != nil {
		if errors.Is(err, library.ErrNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Collection not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listCollectionMembers(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	members, err := s.library.ListCollectionMembers(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	resp := make([]seriesResponse, len(members))
	for i, sr := range members {
		resp[i] = seriesToResponse(sr)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) addCollectionMember(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	var req addCollectionMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	if err := s.library.AddCollectionMember(id, req.SeriesID); err != nil {
		if errors.Is(err, library.ErrConstraint) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Collection or series not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Sync & import handlers

func (s *Server) syncSeries(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	result, err := s.engine.SyncSeries(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, library.ErrNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Series not found")
		case errors.Is(err, syncer.ErrNotSyncable):
			writeError(w, http.StatusUnprocessableEntity, "NOT_SYNCABLE", "Series has no usable external reference")
		default:
			writeError(w, http.StatusInternalServerError, "SYNC_ERROR", err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, syncToResponse(result))
}

func (s *Server) importCollection(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	username, kind, err := s.resolveImport(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_IMPORT", err.Error())
		return
	}

	result, err := s.engine.ImportCollection(r.Context(), username, kind)
	if err != nil {
		if errors.Is(err, syncer.ErrBadRequest) {
			writeError(w, http.StatusBadRequest, "INVALID_IMPORT", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "IMPORT_ERROR", err.Error())
		return
	}

	resp := importResponse{Added: result.Added, Updated: result.Updated, Failed: result.Failed}
	for _, sf := range result.Soft {
		resp.Soft = append(resp.Soft, softFailure{Op: sf.Op, Reason: sf.Reason})
	}
	writeJSON(w, http.StatusOK, resp)
}

// resolveImport turns an import request into a username and kind, from
// either the explicit fields or a collection page URL.
func (s *Server) resolveImport(req importRequest) (string, syncer.Kind, error) {
	if req.URL != "" {
		return syncer.ParseCollectionURL(req.URL)
	}

	username := req.Username
	if username == "" {
		username = s.importUser
	}
	if username == "" {
		return "", "", errors.New("username is required")
	}
	kind, err := syncer.ParseKind(req.Kind)
	if err != nil {
		return "", "", err
	}
	return username, kind, nil
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
