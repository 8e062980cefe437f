package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"solid-waffle/internal/domain"

	"github.com/mmcdole/gofeed"
	"go.opentelemetry.io/otel/trace"
)

// FeedSource names one external headline feed.
type FeedSource struct {
	Name string
	URL  string
}

// FeedProvider retrieves headline items from a single feed URL.
type FeedProvider struct {
	parser *gofeed.Parser
	tracer trace.Tracer
}

func NewFeedProvider(tracer trace.Tracer) *FeedProvider {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: 20 * time.Second}
	return &FeedProvider{parser: parser, tracer: tracer}
}

// FetchFeed retrieves and normalizes one feed. Items without a title are
// dropped; items without a parseable publish time are stamped with now so the
// window filter keeps them.
func (p *FeedProvider) FetchFeed(ctx context.Context, source FeedSource) ([]domain.Headline, error) {
	_, span := p.tracer.Start(ctx, "feed.fetch")
	defer span.End()

	url := strings.TrimSpace(source.URL)
	if url == "" {
		return nil, fmt.Errorf("feed url is required")
	}

	feed, err := p.parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", source.Name, err)
	}

	now := time.Now().UTC()
	headlines := make([]domain.Headline, 0, len(feed.Items))
	for _, item := range feed.Items {
		title := sanitizeText(item.Title, 300)
		if title == "" {
			continue
		}
		publishedAt := now
		if item.PublishedParsed != nil {
			publishedAt = item.PublishedParsed.UTC()
		} else if item.UpdatedParsed != nil {
			publishedAt = item.UpdatedParsed.UTC()
		}
		headlines = append(headlines, domain.Headline{
			Title:       title,
			Link:        sanitizeText(item.Link, 500),
			PublishedAt: publishedAt,
			Source:      source.Name,
		})
	}
	return headlines, nil
}

func sanitizeText(v string, maxLen int) string {
	v = strings.Join(strings.Fields(v), " ")
	if maxLen > 0 && len(v) > maxLen {
		v = v[:maxLen]
	}
	return strings.TrimSpace(v)
}
