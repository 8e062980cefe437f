package news

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"solid-waffle/internal/cache"
	"solid-waffle/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const defaultHeadlineTTL = 6 * time.Hour

// HeadlineService serves enriched headlines through the response cache.
// A cache hit within the TTL short-circuits the whole fetch+enrich pipeline;
// expired entries are recomputed synchronously on the next read.
type HeadlineService struct {
	tracer   trace.Tracer
	fetcher  *Fetcher
	enricher *Enricher
	store    cache.Store
	ttl      time.Duration
	now      func() time.Time
}

func NewHeadlineService(tracer trace.Tracer, fetcher *Fetcher, enricher *Enricher, store cache.Store, ttl time.Duration) *HeadlineService {
	if ttl <= 0 {
		ttl = defaultHeadlineTTL
	}
	return &HeadlineService{
		tracer:   tracer,
		fetcher:  fetcher,
		enricher: enricher,
		store:    store,
		ttl:      ttl,
		now:      time.Now,
	}
}

// NormalizeWindow maps any requested span onto the supported trailing windows.
func NormalizeWindow(windowHours int) int {
	switch windowHours {
	case 48, 72:
		return windowHours
	default:
		return 24
	}
}

// GetHeadlines returns the enriched headline payload for (lang, window).
// Zero headlines is a valid result, cached like any other; only cache
// infrastructure failures surface as errors.
func (s *HeadlineService) GetHeadlines(ctx context.Context, lang string, windowHours int, forceRefresh bool) (*domain.HeadlineResponse, error) {
	ctx, span := s.tracer.Start(ctx, "news.get-headlines")
	defer span.End()

	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		lang = "en"
	}
	windowHours = NormalizeWindow(windowHours)
	key := fmt.Sprintf("headlines:%s:%dh", lang, windowHours)

	if !forceRefresh && s.store != nil {
		data, ok, err := s.store.Get(ctx, key)
		if err != nil {
			log.Printf("headline cache read error: %v", err)
		}
		if ok {
			var cached domain.HeadlineResponse
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
			log.Printf("headline cache entry for %s is corrupt, recomputing", key)
		}
	}

	now := s.now().UTC()
	raw := s.fetcher.FetchAll(ctx)
	curated := CurateWindow(raw, windowHours, now)
	items := s.enricher.Enrich(ctx, lang, curated, windowHours, now)

	resp := &domain.HeadlineResponse{
		Items:    items,
		CachedAt: now.Format(time.RFC3339),
	}

	if s.store != nil {
		data, err := json.Marshal(resp)
		if err == nil {
			if err := s.store.Set(ctx, key, data, s.ttl); err != nil {
				log.Printf("headline cache write error: %v", err)
			}
		}
	}
	return resp, nil
}
