package brief

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"solid-waffle/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const (
	defaultStaleAfter = 24 * time.Hour
	quoteSeriesDays   = 7
)

// ErrNoGenerator is returned by GenerateNow when no generation credential is
// configured. It is the one generation failure that is user-visible.
var ErrNoGenerator = errors.New("generation credential not configured")

// Freshness classifies the latest briefing artifact.
type Freshness int

const (
	FreshnessMissing Freshness = iota
	FreshnessStale
	FreshnessUnverified
	FreshnessFresh
)

func (f Freshness) String() string {
	switch f {
	case FreshnessMissing:
		return "missing"
	case FreshnessStale:
		return "stale"
	case FreshnessUnverified:
		return "useful_but_unverified"
	default:
		return "fresh_and_useful"
	}
}

// Classify decides whether an artifact is usable as-is. In strict mode an
// artifact additionally needs numeric indicator metrics to count as fresh.
func Classify(a *domain.BriefArtifact, strict bool, now time.Time, staleAfter time.Duration) Freshness {
	if a == nil {
		return FreshnessMissing
	}
	if now.Sub(a.Time()) >= staleAfter {
		return FreshnessStale
	}
	hasContent := len(a.Bullets) > 0 || strings.TrimSpace(a.Content) != ""
	if !hasContent {
		return FreshnessUnverified
	}
	if strict && !a.Metrics.HasIndicators() {
		return FreshnessUnverified
	}
	return FreshnessFresh
}

// QuoteReader fetches the close-price series backing the quantitative
// fallback.
type QuoteReader interface {
	FetchSeries(ctx context.Context, symbol string, days int) ([]domain.PricePoint, error)
}

// Controller decides whether the latest briefing is still usable, regenerates
// it when not, and synthesizes a quantitative fallback when generation is
// entirely unavailable. A normal read always produces some artifact:
// generated, synthesized, or the stale prior one.
type Controller struct {
	tracer     trace.Tracer
	store      Store
	gen        Generator
	quotes     QuoteReader
	symbol     string
	staleAfter time.Duration
	now        func() time.Time
}

func NewController(tracer trace.Tracer, store Store, gen Generator, quotes QuoteReader, symbol string, staleAfter time.Duration) *Controller {
	if symbol == "" {
		symbol = "BTC"
	}
	if staleAfter <= 0 {
		staleAfter = defaultStaleAfter
	}
	return &Controller{
		tracer:     tracer,
		store:      store,
		gen:        gen,
		quotes:     quotes,
		symbol:     symbol,
		staleAfter: staleAfter,
		now:        time.Now,
	}
}

// Latest returns the current usable briefing, driving regeneration and the
// fallback ladder as needed. It errors only when there is no prior artifact
// and every fallback tier failed.
func (c *Controller) Latest(ctx context.Context, strict bool) (*domain.BriefArtifact, error) {
	ctx, span := c.tracer.Start(ctx, "brief.latest")
	defer span.End()

	now := c.now().UTC()

	list, err := c.store.List(ctx)
	if err != nil {
		log.Printf("briefing store read error, proceeding without prior artifacts: %v", err)
		list = nil
	}
	prior := latestOfType(list, domain.BriefTypeGen)
	if Classify(prior, strict, now, c.staleAfter) == FreshnessFresh {
		return prior, nil
	}

	var generated *domain.BriefArtifact
	if c.gen != nil {
		artifact, err := c.gen.GenerateBrief(ctx, GenerateRequest{
			Language:    "en",
			WindowHours: 24,
			Type:        domain.BriefTypeGen,
		})
		if err != nil {
			log.Printf("briefing generation failed: %v", err)
		} else {
			if err := c.store.Append(ctx, *artifact); err != nil {
				log.Printf("briefing store write error: %v", err)
			}
			if Classify(artifact, strict, now, c.staleAfter) == FreshnessFresh {
				return artifact, nil
			}
			generated = artifact
		}
	}

	if synth := c.synthesize(ctx, now); synth != nil {
		if err := c.store.Append(ctx, *synth); err != nil {
			log.Printf("briefing store write error: %v", err)
		}
		return synth, nil
	}

	if generated != nil {
		return generated, nil
	}
	if prior != nil {
		return prior, nil
	}
	return nil, fmt.Errorf("no briefing available")
}

// GenerateNow produces and persists a briefing synchronously. Unlike Latest,
// generation and store failures here surface to the caller.
func (c *Controller) GenerateNow(ctx context.Context, req GenerateRequest) (*domain.BriefArtifact, error) {
	ctx, span := c.tracer.Start(ctx, "brief.generate-now")
	defer span.End()

	if c.gen == nil {
		return nil, ErrNoGenerator
	}
	artifact, err := c.gen.GenerateBrief(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("generate briefing: %w", err)
	}
	if err := c.store.Append(ctx, *artifact); err != nil {
		return nil, fmt.Errorf("persist briefing: %w", err)
	}
	return artifact, nil
}

func (c *Controller) synthesize(ctx context.Context, now time.Time) *domain.BriefArtifact {
	if c.quotes == nil {
		return nil
	}
	series, err := c.quotes.FetchSeries(ctx, c.symbol, quoteSeriesDays)
	if err != nil {
		log.Printf("quote series unavailable for %s: %v", c.symbol, err)
		return nil
	}
	return Synthesize(series, now)
}

func latestOfType(list []domain.BriefArtifact, briefType domain.BriefType) *domain.BriefArtifact {
	for i := range list {
		if list[i].Type == briefType {
			a := list[i]
			return &a
		}
	}
	return nil
}
