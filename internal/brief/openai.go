package brief

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"solid-waffle/internal/domain"
	"solid-waffle/internal/llm"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// HeadlineReader provides recent enriched headlines as generation context.
// The controller and generator call the headline service directly in-process;
// there is no HTTP round trip between internal components.
type HeadlineReader interface {
	GetHeadlines(ctx context.Context, lang string, windowHours int, forceRefresh bool) (*domain.HeadlineResponse, error)
}

// GenerateRequest describes one briefing generation.
type GenerateRequest struct {
	Language     string
	WindowHours  int
	CustomPrompt string
	Type         domain.BriefType
}

// Generator produces a briefing artifact via the generation service.
type Generator interface {
	GenerateBrief(ctx context.Context, req GenerateRequest) (*domain.BriefArtifact, error)
}

type genBriefMetrics struct {
	RSI             *float64 `json:"rsi"`
	ADX             *float64 `json:"adx"`
	MACD            *float64 `json:"macd"`
	Volume          *float64 `json:"volume"`
	DistanceToMA200 *float64 `json:"distance_to_ma200"`
}

type genBrief struct {
	Title     string          `json:"title"`
	Bullets   []string        `json:"bullets"`
	Content   string          `json:"content"`
	Sentiment string          `json:"sentiment"`
	Metrics   genBriefMetrics `json:"metrics"`
	Opinion   string          `json:"opinion"`
}

// OpenAIGenerator renders briefings through the chat completion ladder with a
// fixed structured prompt.
type OpenAIGenerator struct {
	tracer    trace.Tracer
	client    llm.ChatClient
	models    []string
	headlines HeadlineReader
	timeout   time.Duration
	now       func() time.Time
}

func NewOpenAIGenerator(tracer trace.Tracer, client llm.ChatClient, models []string, headlines HeadlineReader) *OpenAIGenerator {
	if len(models) == 0 {
		models = []string{"gpt-4o-mini"}
	}
	return &OpenAIGenerator{
		tracer:    tracer,
		client:    client,
		models:    models,
		headlines: headlines,
		timeout:   20 * time.Second,
		now:       time.Now,
	}
}

func (g *OpenAIGenerator) GenerateBrief(ctx context.Context, req GenerateRequest) (*domain.BriefArtifact, error) {
	ctx, span := g.tracer.Start(ctx, "brief.generate")
	defer span.End()

	lang := strings.TrimSpace(req.Language)
	if lang == "" {
		lang = "en"
	}
	briefType := req.Type
	if briefType == "" {
		briefType = domain.BriefTypeGen
	}

	parsed, err := llm.FirstSuccess(ctx, g.models, func(model string) (*genBrief, error) {
		var out genBrief
		if err := llm.CompleteJSON(ctx, g.client, model, briefSystemPrompt(lang), g.userPrompt(ctx, req), g.timeout, &out); err != nil {
			return nil, err
		}
		if len(out.Bullets) == 0 && strings.TrimSpace(out.Content) == "" {
			return nil, fmt.Errorf("schema mismatch: briefing without bullets or content")
		}
		return &out, nil
	})
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(parsed.Title)
	if title == "" {
		title = "Market briefing"
	}

	return &domain.BriefArtifact{
		ID:        uuid.NewString(),
		Timestamp: g.now().UTC().Format(time.RFC3339),
		Title:     title,
		Bullets:   parsed.Bullets,
		Content:   strings.TrimSpace(parsed.Content),
		Sentiment: normalizeSentiment(parsed.Sentiment),
		Metrics: domain.BriefMetrics{
			RSI:             parsed.Metrics.RSI,
			ADX:             parsed.Metrics.ADX,
			MACD:            parsed.Metrics.MACD,
			Volume:          parsed.Metrics.Volume,
			DistanceToMA200: parsed.Metrics.DistanceToMA200,
		},
		Opinion: strings.TrimSpace(parsed.Opinion),
		Type:    briefType,
	}, nil
}

// userPrompt gathers recent enriched headlines for context. A failed gather is
// absorbed; the briefing is then generated from the custom prompt alone.
func (g *OpenAIGenerator) userPrompt(ctx context.Context, req GenerateRequest) string {
	var b strings.Builder
	if prompt := strings.TrimSpace(req.CustomPrompt); prompt != "" {
		b.WriteString(prompt)
		b.WriteString("\n\n")
	}
	if g.headlines != nil {
		resp, err := g.headlines.GetHeadlines(ctx, req.Language, req.WindowHours, false)
		if err != nil {
			log.Printf("briefing context unavailable: %v", err)
		} else if resp != nil && len(resp.Items) > 0 {
			b.WriteString("Recent headlines:\n")
			for i, item := range resp.Items {
				fmt.Fprintf(&b, "%d. %s: %s\n", i+1, item.Title, item.Summary)
			}
		}
	}
	if b.Len() == 0 {
		b.WriteString("No recent headlines are available; write a cautious general market briefing.")
	}
	return b.String()
}

func briefSystemPrompt(lang string) string {
	return "You write a concise market briefing. Return ONLY JSON with shape " +
		`{"title":string,"bullets":[string],"content":string,"sentiment":"positive"|"neutral"|"negative",` +
		`"metrics":{"rsi":number|null,"adx":number|null,"macd":number|null,"volume":number|null,"distance_to_ma200":number|null},` +
		`"opinion":string}. ` +
		"Only fill metrics you can actually infer, otherwise null. " +
		"Respond in language code " + lang + ". No markdown."
}

func normalizeSentiment(v string) domain.Sentiment {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "positive", "bullish":
		return domain.SentimentPositive
	case "negative", "bearish":
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}
