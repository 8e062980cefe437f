package news

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"solid-waffle/internal/domain"
	"solid-waffle/internal/llm"

	"go.opentelemetry.io/otel/trace"
)

const (
	defaultChunkSize        = 8
	defaultRetryConcurrency = 3
	defaultMinSummaryWords  = 8
	defaultGenTimeout       = 20 * time.Second
)

type genItem struct {
	Title       string   `json:"title"`
	Summary     string   `json:"summary"`
	Instruments []string `json:"instruments"`
}

type genBatch struct {
	Items []genItem `json:"items"`
}

// Enricher maps a curated headline list 1:1 to enriched articles, bounding
// generation-service unreliability with a three-tier ladder: chunked batch
// calls, then per-item retries with bounded concurrency, then a quality
// rewrite of weak summaries. Slots that no tier resolves are filled verbatim
// from the raw headline, so output length always equals input length.
type Enricher struct {
	tracer           trace.Tracer
	client           llm.ChatClient
	models           []string
	chunkSize        int
	retryConcurrency int
	minSummaryWords  int
	timeout          time.Duration
}

func NewEnricher(tracer trace.Tracer, client llm.ChatClient, models []string) *Enricher {
	if len(models) == 0 {
		models = []string{"gpt-4o-mini"}
	}
	return &Enricher{
		tracer:           tracer,
		client:           client,
		models:           models,
		chunkSize:        defaultChunkSize,
		retryConcurrency: defaultRetryConcurrency,
		minSummaryWords:  defaultMinSummaryWords,
		timeout:          defaultGenTimeout,
	}
}

// Enrich is stateless apart from outbound generation calls and never returns
// fewer (or more) articles than headlines given, in the same order.
func (e *Enricher) Enrich(ctx context.Context, lang string, headlines []domain.Headline, windowHours int, now time.Time) []domain.EnrichedArticle {
	ctx, span := e.tracer.Start(ctx, "news.enrich")
	defer span.End()

	resolved := make([]*genItem, len(headlines))

	if e.client != nil {
		e.batchPass(ctx, lang, headlines, resolved)
		e.retryPass(ctx, lang, headlines, resolved)
		e.rewritePass(ctx, lang, headlines, resolved)
	}

	windowStart := now.Add(-time.Duration(windowHours) * time.Hour)
	out := make([]domain.EnrichedArticle, len(headlines))
	for i, h := range headlines {
		article := domain.EnrichedArticle{
			Title:       h.Title,
			Summary:     h.Title,
			Instruments: []string{},
			Timestamp:   clampTimestamp(h.PublishedAt, windowStart, now),
			Source:      h.Source,
			Link:        h.Link,
		}
		if item := resolved[i]; item != nil {
			if title := strings.TrimSpace(item.Title); title != "" {
				article.Title = title
			}
			if summary := strings.TrimSpace(item.Summary); summary != "" {
				article.Summary = summary
			}
			article.Instruments = normalizeInstruments(item.Instruments)
		}
		out[i] = article
	}
	return out
}

// batchPass resolves whole chunks whose response item count matches exactly.
// A mismatched or failed chunk leaves its slots unresolved for the next tier.
func (e *Enricher) batchPass(ctx context.Context, lang string, headlines []domain.Headline, resolved []*genItem) {
	for start := 0; start < len(headlines); start += e.chunkSize {
		end := min(start+e.chunkSize, len(headlines))
		chunk := headlines[start:end]
		items, err := e.enrichBatch(ctx, lang, chunk, false)
		if err != nil {
			log.Printf("enrich batch [%d:%d] unresolved: %v", start, end, err)
			continue
		}
		for i := range items {
			item := items[i]
			resolved[start+i] = &item
		}
	}
}

// retryPass issues one single-item request per unresolved slot, at most
// retryConcurrency in flight. Distinct slots are written by distinct
// goroutines, so no lock is needed.
func (e *Enricher) retryPass(ctx context.Context, lang string, headlines []domain.Headline, resolved []*genItem) {
	sem := make(chan struct{}, e.retryConcurrency)
	var wg sync.WaitGroup
	for idx := range headlines {
		if resolved[idx] != nil {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()
			item, err := e.enrichOne(ctx, lang, headlines[idx])
			if err != nil {
				log.Printf("enrich item %d unresolved: %v", idx, err)
				return
			}
			resolved[idx] = item
		}(idx)
	}
	wg.Wait()
}

// rewritePass batch-resubmits only the resolved items whose summary is empty,
// identical to the source title or shorter than the minimum word count.
// Successes are spliced back by original index; failures keep prior content.
func (e *Enricher) rewritePass(ctx context.Context, lang string, headlines []domain.Headline, resolved []*genItem) {
	var flagged []int
	for i, item := range resolved {
		if item != nil && e.needsRewrite(headlines[i].Title, item.Summary) {
			flagged = append(flagged, i)
		}
	}
	if len(flagged) == 0 {
		return
	}

	subset := make([]domain.Headline, len(flagged))
	for j, idx := range flagged {
		subset[j] = headlines[idx]
	}
	items, err := e.enrichBatch(ctx, lang, subset, true)
	if err != nil {
		log.Printf("rewrite pass skipped: %v", err)
		return
	}
	for j, idx := range flagged {
		item := items[j]
		resolved[idx] = &item
	}
}

func (e *Enricher) needsRewrite(title, summary string) bool {
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return true
	}
	if strings.EqualFold(summary, strings.TrimSpace(title)) {
		return true
	}
	return len(strings.Fields(summary)) < e.minSummaryWords
}

func (e *Enricher) enrichBatch(ctx context.Context, lang string, chunk []domain.Headline, rewrite bool) ([]genItem, error) {
	return llm.FirstSuccess(ctx, e.models, func(model string) ([]genItem, error) {
		var parsed genBatch
		err := llm.CompleteJSON(ctx, e.client, model, batchSystemPrompt(lang, rewrite), headlinesPrompt(chunk), e.timeout, &parsed)
		if err != nil {
			return nil, err
		}
		if len(parsed.Items) != len(chunk) {
			return nil, fmt.Errorf("schema mismatch: %d items for %d headlines", len(parsed.Items), len(chunk))
		}
		return parsed.Items, nil
	})
}

func (e *Enricher) enrichOne(ctx context.Context, lang string, headline domain.Headline) (*genItem, error) {
	return llm.FirstSuccess(ctx, e.models, func(model string) (*genItem, error) {
		var parsed genItem
		err := llm.CompleteJSON(ctx, e.client, model, singleSystemPrompt(lang), headlinesPrompt([]domain.Headline{headline}), e.timeout, &parsed)
		if err != nil {
			return nil, err
		}
		return &parsed, nil
	})
}

func batchSystemPrompt(lang string, rewrite bool) string {
	var b strings.Builder
	b.WriteString("You turn market news headlines into short reader-facing summaries. ")
	b.WriteString(`Return ONLY JSON with shape {"items":[{"title":string,"summary":string,"instruments":[string]}]}. `)
	b.WriteString("Exactly one output item per input headline, in the same order. ")
	b.WriteString("instruments lists ticker symbols the headline concerns, empty if none. ")
	if rewrite {
		b.WriteString("Write a fuller summary of two to three sentences per item; never repeat the headline verbatim. ")
	}
	b.WriteString("Respond in language code " + lang + ". No markdown.")
	return b.String()
}

func singleSystemPrompt(lang string) string {
	return "You turn one market news headline into a short reader-facing summary. " +
		`Return ONLY JSON with shape {"title":string,"summary":string,"instruments":[string]}. ` +
		"instruments lists ticker symbols the headline concerns, empty if none. " +
		"Respond in language code " + lang + ". No markdown."
}

func headlinesPrompt(headlines []domain.Headline) string {
	var b strings.Builder
	b.WriteString("Headlines:\n")
	for i, h := range headlines {
		fmt.Fprintf(&b, "%d. [%s, %s] %s\n", i+1, h.Source, h.PublishedAt.Format(time.RFC3339), h.Title)
	}
	return b.String()
}

func normalizeInstruments(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		v = strings.ToUpper(strings.Join(strings.Fields(v), ""))
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}

func clampTimestamp(t, windowStart, now time.Time) string {
	if t.After(now) {
		t = now
	}
	if t.Before(windowStart) {
		t = windowStart
	}
	return t.UTC().Format(time.RFC3339)
}
