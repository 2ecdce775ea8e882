package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Client wraps HTTP calls to the anitrack server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new anitrack API client.
func NewClient(serverURL string) *Client {
	return &Client{
		baseURL: serverURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) get(path string, result any) error {
	resp, err := c.httpClient.Get(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return serverError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(result)
}

func (c *Client) post(path string, body any, result any) error {
	return c.send(http.MethodPost, path, body, result)
}

func (c *Client) put(path string, body any, result any) error {
	return c.send(http.MethodPut, path, body, result)
}

func (c *Client) send(method, path string, body any, result any) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal error: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("request creation failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusNoContent:
	default:
		return serverError(resp)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

func (c *Client) delete(path string) error {
	req, err := http.NewRequest(http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("request creation failed: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return serverError(resp)
	}
	return nil
}

// serverError extracts the API's {error, code} body when present.
func serverError(resp *http.Response) error {
	var errResp struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error != "" {
		return fmt.Errorf("server error %d: %s", resp.StatusCode, errResp.Error)
	}
	return fmt.Errorf("server error %d", resp.StatusCode)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// API response types (mirror server types)

type SeriesResponse struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	StartDate     *string `json:"start_date,omitempty"`
	TotalEpisodes *int    `json:"total_episodes,omitempty"`
	ExternalRef   *string `json:"external_ref,omitempty"`
	CoverImageURL *string `json:"cover_image_url,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

type ListSeriesResponse struct {
	Items  []SeriesResponse `json:"items"`
	Total  int              `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

type EpisodeResponse struct {
	ID          int64   `json:"id"`
	SeriesID    int64   `json:"series_id"`
	Code        string  `json:"code"`
	Type        string  `json:"type"`
	OrdinalHint int     `json:"ordinal_hint"`
	Title       *string `json:"title,omitempty"`
	AirDate     *string `json:"air_date,omitempty"`
}

type ListEpisodesResponse struct {
	Items []EpisodeResponse `json:"items"`
	Total int               `json:"total"`
}

type ReviewResponse struct {
	Score      *int    `json:"score,omitempty"`
	Comment    *string `json:"comment,omitempty"`
	ReviewedAt string  `json:"reviewed_at"`
}

type SyncResponse struct {
	SeriesID        int64  `json:"series_id"`
	EpisodesAdded   int    `json:"episodes_added"`
	EpisodesUpdated int    `json:"episodes_updated"`
	CoverRefreshed  bool   `json:"cover_refreshed"`
	Degraded        bool   `json:"degraded"`
	Soft            []Soft `json:"soft_failures,omitempty"`
}

type Soft struct {
	Op     string `json:"op"`
	Reason string `json:"reason"`
}

type ImportResponse struct {
	Added   int    `json:"added"`
	Updated int    `json:"updated"`
	Failed  int    `json:"failed"`
	Soft    []Soft `json:"soft_failures,omitempty"`
}

type SearchResultResponse struct {
	Series     SeriesResponse `json:"series"`
	Score      float64        `json:"score"`
	Confidence string         `json:"confidence"`
}

type SearchResponse struct {
	Items []SearchResultResponse `json:"items"`
}

type CollectionResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	CreatedAt   string  `json:"created_at"`
}
