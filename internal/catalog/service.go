package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/vmunix/anitrack/pkg/bangumi"
)

const (
	// Cache TTLs
	subjectTTL  = 24 * time.Hour
	episodesTTL = 6 * time.Hour
)

// Cache key prefixes
const (
	keyPrefixSubject  = "bgm:subject:"
	keyPrefixEpisodes = "bgm:episodes:"
)

// Service provides cached access to catalog metadata.
// User collection pages are never cached: they change between import runs.
type Service struct {
	client     *bangumi.Client
	cache      *Cache
	log        *slog.Logger
	subjectTTL time.Duration
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithSubjectTTL overrides how long subject metadata stays cached.
func WithSubjectTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.subjectTTL = ttl
		}
	}
}

// NewService creates a new catalog service.
func NewService(client *bangumi.Client, cache *Cache, log *slog.Logger, opts ...ServiceOption) *Service {
	s := &Service{
		client:     client,
		cache:      cache,
		log:        log,
		subjectTTL: subjectTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetSubject fetches subject metadata by catalog ID (cached).
func (s *Service) GetSubject(ctx context.Context, id int64) (*bangumi.Subject, error) {
	key := fmt.Sprintf("%s%d", keyPrefixSubject, id)

	if data, ok := s.cache.Get(ctx, key); ok {
		var subject bangumi.Subject
		if err := json.Unmarshal(data, &subject); err == nil {
			if s.log != nil {
				s.log.Debug("cache hit for subject", "id", id)
			}
			return &subject, nil
		}
		// If unmarshal fails, treat as cache miss and fetch fresh data
		if s.log != nil {
			s.log.Warn("failed to unmarshal cached subject", "id", id)
		}
	}

	subject, err := s.client.GetSubject(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get subject: %w", err)
	}

	s.cachePut(ctx, key, subject, s.subjectTTL)
	return subject, nil
}

// GetEpisodes fetches the full episode list for a subject (cached).
func (s *Service) GetEpisodes(ctx context.Context, subjectID int64) ([]bangumi.EpisodeRecord, error) {
	key := fmt.Sprintf("%s%d", keyPrefixEpisodes, subjectID)

	if data, ok := s.cache.Get(ctx, key); ok {
		var records []bangumi.EpisodeRecord
		if err := json.Unmarshal(data, &records); err == nil {
			if s.log != nil {
				s.log.Debug("cache hit for episodes", "subject_id", subjectID, "count", len(records))
			}
			return records, nil
		}
		if s.log != nil {
			s.log.Warn("failed to unmarshal cached episodes", "subject_id", subjectID)
		}
	}

	records, err := s.client.GetEpisodes(ctx, subjectID)
	if err != nil {
		return nil, fmt.Errorf("get episodes: %w", err)
	}

	s.cachePut(ctx, key, records, episodesTTL)
	return records, nil
}

// GetUserCollection fetches one page of a user's collection (uncached).
func (s *Service) GetUserCollection(ctx context.Context, username string, typ, limit, offset int) (*bangumi.CollectionPage, error) {
	return s.client.GetUserCollection(ctx, username, typ, limit, offset)
}

func (s *Service) cachePut(ctx context.Context, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		// Log but don't fail the operation
		if s.log != nil {
			s.log.Warn("failed to marshal for cache", "key", key, "error", err)
		}
		return
	}
	if err := s.cache.Set(ctx, key, data, ttl); err != nil {
		if s.log != nil {
			s.log.Warn("failed to cache response", "key", key, "error", err)
		}
	}
}
