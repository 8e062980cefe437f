package news

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"solid-waffle/internal/domain"

	"github.com/openai/openai-go"
	"go.opentelemetry.io/otel/trace"
)

// scriptedChat replays canned completion bodies (or errors) in call order.
type scriptedChat struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	calls     int
}

func (c *scriptedChat) CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	c.mu.Lock()
	idx := c.calls
	c.calls++
	c.mu.Unlock()

	if idx < len(c.errs) && c.errs[idx] != nil {
		return nil, c.errs[idx]
	}
	body := ""
	if idx < len(c.responses) {
		body = c.responses[idx]
	}
	return &openai.ChatCompletion{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: body}}},
	}, nil
}

func (c *scriptedChat) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func testHeadlines(n int, now time.Time) []domain.Headline {
	out := make([]domain.Headline, n)
	for i := range out {
		out[i] = domain.Headline{
			Title:       fmt.Sprintf("Headline number %d", i),
			Link:        fmt.Sprintf("https://example.com/%d", i),
			PublishedAt: now.Add(-time.Duration(i+1) * time.Hour),
			Source:      "test",
		}
	}
	return out
}

const longSummaryA = "A detailed multi word generated summary covering the first market development today"
const longSummaryB = "Another detailed multi word generated summary covering the second market development today"

func TestEnrichNilClientFillsVerbatim(t *testing.T) {
	now := time.Now().UTC()
	heads := testHeadlines(3, now)
	e := NewEnricher(trace.NewNoopTracerProvider().Tracer("test"), nil, []string{"m"})

	out := e.Enrich(context.Background(), "en", heads, 24, now)
	if len(out) != len(heads) {
		t.Fatalf("expected %d articles, got %d", len(heads), len(out))
	}
	for i, article := range out {
		if article.Title != heads[i].Title || article.Summary != heads[i].Title {
			t.Fatalf("expected verbatim fill at %d, got %+v", i, article)
		}
		if len(article.Instruments) != 0 {
			t.Fatalf("expected empty instruments, got %v", article.Instruments)
		}
	}
}

func TestEnrichAllCallsFailingStillComplete(t *testing.T) {
	now := time.Now().UTC()
	heads := testHeadlines(5, now)
	client := &scriptedChat{errs: []error{
		errors.New("down"), errors.New("down"), errors.New("down"),
		errors.New("down"), errors.New("down"), errors.New("down"),
		errors.New("down"), errors.New("down"), errors.New("down"),
	}}
	e := NewEnricher(trace.NewNoopTracerProvider().Tracer("test"), client, []string{"m"})

	out := e.Enrich(context.Background(), "en", heads, 24, now)
	if len(out) != 5 {
		t.Fatalf("expected 5 articles, got %d", len(out))
	}
	for i, article := range out {
		if article.Summary != heads[i].Title {
			t.Fatalf("expected verbatim summary at %d", i)
		}
	}
}

func TestEnrichBatchSuccess(t *testing.T) {
	now := time.Now().UTC()
	heads := testHeadlines(2, now)
	client := &scriptedChat{responses: []string{
		fmt.Sprintf(`{"items":[{"title":"First","summary":"%s","instruments":["btc usd"]},{"title":"Second","summary":"%s","instruments":[]}]}`, longSummaryA, longSummaryB),
	}}
	e := NewEnricher(trace.NewNoopTracerProvider().Tracer("test"), client, []string{"m"})

	out := e.Enrich(context.Background(), "en", heads, 24, now)
	if out[0].Title != "First" || out[0].Summary != longSummaryA {
		t.Fatalf("unexpected first article: %+v", out[0])
	}
	if out[1].Title != "Second" || out[1].Summary != longSummaryB {
		t.Fatalf("unexpected second article: %+v", out[1])
	}
	if len(out[0].Instruments) != 1 || out[0].Instruments[0] != "BTCUSD" {
		t.Fatalf("expected normalized instruments, got %v", out[0].Instruments)
	}
	if out[0].Link != heads[0].Link || out[0].Source != "test" {
		t.Fatalf("expected source fields preserved, got %+v", out[0])
	}
	if client.callCount() != 1 {
		t.Fatalf("expected single batch call, got %d", client.callCount())
	}
}

func TestEnrichCountMismatchFallsBackToPerItem(t *testing.T) {
	now := time.Now().UTC()
	heads := testHeadlines(2, now)
	single := fmt.Sprintf(`{"title":"Solo","summary":"%s","instruments":[]}`, longSummaryA)
	client := &scriptedChat{responses: []string{
		`{"items":[{"title":"only one","summary":"too few items returned","instruments":[]}]}`,
		single,
		single,
	}}
	e := NewEnricher(trace.NewNoopTracerProvider().Tracer("test"), client, []string{"m"})

	out := e.Enrich(context.Background(), "en", heads, 24, now)
	if len(out) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(out))
	}
	for i, article := range out {
		if article.Summary != longSummaryA {
			t.Fatalf("expected per-item retry result at %d, got %+v", i, article)
		}
	}
	if client.callCount() != 3 {
		t.Fatalf("expected batch + 2 retries, got %d calls", client.callCount())
	}
}

func TestEnrichRewritesWeakSummaries(t *testing.T) {
	now := time.Now().UTC()
	heads := testHeadlines(1, now)
	client := &scriptedChat{responses: []string{
		// Summary identical to the source title gets flagged for rewrite.
		fmt.Sprintf(`{"items":[{"title":"%s","summary":"%s","instruments":[]}]}`, heads[0].Title, heads[0].Title),
		fmt.Sprintf(`{"items":[{"title":"Rewritten","summary":"%s","instruments":[]}]}`, longSummaryB),
	}}
	e := NewEnricher(trace.NewNoopTracerProvider().Tracer("test"), client, []string{"m"})

	out := e.Enrich(context.Background(), "en", heads, 24, now)
	if out[0].Summary != longSummaryB {
		t.Fatalf("expected rewritten summary, got %q", out[0].Summary)
	}
	if client.callCount() != 2 {
		t.Fatalf("expected batch + rewrite call, got %d", client.callCount())
	}
}

func TestEnrichRewriteFailureKeepsPriorContent(t *testing.T) {
	now := time.Now().UTC()
	heads := testHeadlines(1, now)
	client := &scriptedChat{
		responses: []string{
			`{"items":[{"title":"Short","summary":"too short","instruments":[]}]}`,
			"",
		},
		errs: []error{nil, errors.New("rewrite down")},
	}
	e := NewEnricher(trace.NewNoopTracerProvider().Tracer("test"), client, []string{"m"})

	out := e.Enrich(context.Background(), "en", heads, 24, now)
	if out[0].Summary != "too short" {
		t.Fatalf("expected prior content kept on rewrite failure, got %q", out[0].Summary)
	}
}

func TestEnrichModelLadderFallsThrough(t *testing.T) {
	now := time.Now().UTC()
	heads := testHeadlines(1, now)
	client := &scriptedChat{
		responses: []string{
			"",
			fmt.Sprintf(`{"items":[{"title":"Good","summary":"%s","instruments":[]}]}`, longSummaryA),
		},
		errs: []error{errors.New("model unavailable"), nil},
	}
	e := NewEnricher(trace.NewNoopTracerProvider().Tracer("test"), client, []string{"broken-model", "working-model"})

	out := e.Enrich(context.Background(), "en", heads, 24, now)
	if out[0].Title != "Good" {
		t.Fatalf("expected second model variant to resolve, got %+v", out[0])
	}
	if client.callCount() != 2 {
		t.Fatalf("expected 2 calls, got %d", client.callCount())
	}
}

func TestEnrichClampsTimestamps(t *testing.T) {
	now := time.Now().UTC()
	heads := []domain.Headline{{
		Title:       "From the future",
		PublishedAt: now.Add(2 * time.Hour),
		Source:      "test",
	}}
	e := NewEnricher(trace.NewNoopTracerProvider().Tracer("test"), nil, []string{"m"})

	out := e.Enrich(context.Background(), "en", heads, 24, now)
	got, err := time.Parse(time.RFC3339, out[0].Timestamp)
	if err != nil {
		t.Fatalf("bad timestamp: %v", err)
	}
	if got.After(now.Truncate(time.Second)) {
		t.Fatalf("expected timestamp clamped to now, got %s", out[0].Timestamp)
	}
}

func TestEnrichEmptyInput(t *testing.T) {
	e := NewEnricher(trace.NewNoopTracerProvider().Tracer("test"), nil, []string{"m"})
	out := e.Enrich(context.Background(), "en", nil, 24, time.Now())
	if len(out) != 0 {
		t.Fatalf("expected empty output, got %d", len(out))
	}
}
