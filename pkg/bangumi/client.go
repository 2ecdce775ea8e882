package bangumi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const defaultBaseURL = "https://api.bgm.tv"

// userAgent identifies this client to the catalog, as its API terms require.
const userAgent = "vmunix/anitrack (https://github.com/vmunix/anitrack)"

// Sentinel errors for catalog API responses.
var (
	ErrNotFound    = errors.New("subject not found")
	ErrRateLimited = errors.New("rate limited: too many requests")
)

// StatusError is returned for unexpected HTTP statuses.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog API error: %s", e.Status)
}

// Client is a Bangumi API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
	log        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithAccessToken sets a personal access token. Unauthenticated access
// works but is rate limited more aggressively and hides NSFW subjects.
func WithAccessToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithLogger sets a logger for debug output.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log.With("component", "bangumi")
	}
}

// New creates a new Bangumi API client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get executes a GET request and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// GetSubject fetches catalog metadata for one subject.
func (c *Client) GetSubject(ctx context.Context, id int64) (*Subject, error) {
	var subject Subject
	if err := c.get(ctx, "/subjects/"+strconv.FormatInt(id, 10), nil, &subject); err != nil {
		return nil, err
	}
	if c.log != nil {
		c.log.Debug("fetched subject", "id", id, "name", subject.Name)
	}
	return &subject, nil
}

// GetEpisodes fetches the full episode list for a subject.
func (c *Client) GetEpisodes(ctx context.Context, subjectID int64) ([]EpisodeRecord, error) {
	query := url.Values{}
	query.Set("subject_id", strconv.FormatInt(subjectID, 10))

	var resp episodesResponse
	if err := c.get(ctx, "/episodes", query, &resp); err != nil {
		return nil, err
	}
	if c.log != nil {
		c.log.Debug("fetched episodes", "subject_id", subjectID, "count", len(resp.Data))
	}
	return resp.Data, nil
}

// GetUserCollection fetches one page of a user's collection.
// typ is one of the Collection* constants.
func (c *Client) GetUserCollection(ctx context.Context, username string, typ, limit, offset int) (*CollectionPage, error) {
	query := url.Values{}
	query.Set("subject_type", "2") // anime
	query.Set("type", strconv.Itoa(typ))
	query.Set("limit", strconv.Itoa(limit))
	query.Set("offset", strconv.Itoa(offset))

	var page CollectionPage
	if err := c.get(ctx, "/users/"+url.PathEscape(username)+"/collections", query, &page); err != nil {
		return nil, err
	}
	if c.log != nil {
		c.log.Debug("fetched collection page",
			"username", username, "type", typ, "offset", offset,
			"entries", len(page.Data), "total", page.Total,
		)
	}
	return &page, nil
}
