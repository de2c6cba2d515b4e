package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const subjectMapCacheKey = "subject_mapping"

// SubjectMapService resolves subject codes to human-readable short names
// using a remotely hosted mapping document, cached in Redis.
type SubjectMapService struct {
	http *http.Client
	url  string
	rdb  *redis.Client
	ttl  time.Duration
	log  zerolog.Logger
}

func NewSubjectMapService(url string, rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *SubjectMapService {
	return &SubjectMapService{
		http: &http.Client{Timeout: 10 * time.Second},
		url:  url,
		rdb:  rdb,
		ttl:  ttl,
		log:  log.With().Str("component", "subjectmap_service").Logger(),
	}
}

// Get returns the code -> name mapping. A stale or missing mapping never
// fails a request; callers get an empty map and codes render as-is.
func (s *SubjectMapService) Get(ctx context.Context) map[string]string {
	if s.rdb != nil {
		data, err := s.rdb.Get(ctx, subjectMapCacheKey).Bytes()
		if err == nil {
			var mapping map[string]string
			if json.Unmarshal(data, &mapping) == nil {
				return mapping
			}
		} else if err != redis.Nil {
			s.log.Warn().Err(err).Msg("Mapping cache read failed")
		}
	}

	mapping, err := s.Refresh(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("Mapping fetch failed, rendering raw codes")
		return map[string]string{}
	}
	return mapping
}

// Refresh fetches the mapping document from its upstream URL and caches it.
func (s *SubjectMapService) Refresh(ctx context.Context) (map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch mapping: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch mapping: status %d", resp.StatusCode)
	}

	var doc struct {
		SubjectMapping map[string]string `json:"SUBJECT_MAPPING"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode mapping: %w", err)
	}
	if doc.SubjectMapping == nil {
		doc.SubjectMapping = map[string]string{}
	}

	if s.rdb != nil {
		if data, err := json.Marshal(doc.SubjectMapping); err == nil {
			if err := s.rdb.Set(ctx, subjectMapCacheKey, data, s.ttl).Err(); err != nil {
				s.log.Warn().Err(err).Msg("Mapping cache write failed")
			}
		}
	}

	s.log.Info().Int("subjects", len(doc.SubjectMapping)).Msg("Subject mapping refreshed")
	return doc.SubjectMapping, nil
}
