package news

import (
	"context"
	"log"
	"sync"
	"time"

	"solid-waffle/internal/domain"
	"solid-waffle/internal/provider"

	"go.opentelemetry.io/otel/trace"
)

const defaultFeedTimeout = 8 * time.Second

// FeedReader retrieves headline items from a single feed.
type FeedReader interface {
	FetchFeed(ctx context.Context, source provider.FeedSource) ([]domain.Headline, error)
}

// Fetcher fans out over all configured feeds in parallel. A failed or slow
// source contributes nothing; it never aborts the other fetches.
type Fetcher struct {
	tracer  trace.Tracer
	reader  FeedReader
	sources []provider.FeedSource
	timeout time.Duration
}

func NewFetcher(tracer trace.Tracer, reader FeedReader, sources []provider.FeedSource, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = defaultFeedTimeout
	}
	return &Fetcher{tracer: tracer, reader: reader, sources: sources, timeout: timeout}
}

// FetchAll aggregates every source once all fetches have settled. Results keep
// configured source order so downstream tie-breaks are deterministic.
func (f *Fetcher) FetchAll(ctx context.Context) []domain.Headline {
	_, span := f.tracer.Start(ctx, "news.fetch-all")
	defer span.End()

	results := make([][]domain.Headline, len(f.sources))
	var wg sync.WaitGroup
	for i, source := range f.sources {
		wg.Add(1)
		go func(i int, source provider.FeedSource) {
			defer wg.Done()
			fetchCtx, cancel := context.WithTimeout(ctx, f.timeout)
			defer cancel()
			headlines, err := f.reader.FetchFeed(fetchCtx, source)
			if err != nil {
				log.Printf("feed %s unavailable: %v", source.Name, err)
				return
			}
			results[i] = headlines
		}(i, source)
	}
	wg.Wait()

	var all []domain.Headline
	for _, headlines := range results {
		all = append(all, headlines...)
	}
	return all
}
