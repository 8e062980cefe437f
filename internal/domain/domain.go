package domain

import "time"

// Headline is a raw item pulled from an external feed. It lives only for the
// duration of one pipeline run and is never persisted.
type Headline struct {
	Title       string
	Link        string
	PublishedAt time.Time
	Source      string
}

// EnrichedArticle is the reader-facing form of a headline after enrichment.
type EnrichedArticle struct {
	Title       string   `json:"title"`
	Summary     string   `json:"summary"`
	Instruments []string `json:"instruments"`
	Timestamp   string   `json:"timestamp"`
	Source      string   `json:"source"`
	Link        string   `json:"link"`
}

// HeadlineResponse is the cached payload for one (language, window) key.
type HeadlineResponse struct {
	Items    []EnrichedArticle `json:"items"`
	CachedAt string            `json:"cached_at"`
}

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

type BriefType string

const (
	BriefTypeGen   BriefType = "gen"
	BriefTypeDaily BriefType = "daily"
)

// BriefMetrics carries the quantitative backing of a briefing. All fields are
// optional: generated briefs may omit any of them, synthesized ones fill the
// indicator fields.
type BriefMetrics struct {
	RSI             *float64 `json:"rsi,omitempty"`
	ADX             *float64 `json:"adx,omitempty"`
	MACD            *float64 `json:"macd,omitempty"`
	Volume          *float64 `json:"volume,omitempty"`
	DistanceToMA200 *float64 `json:"distance_to_ma200,omitempty"`
}

// HasIndicators reports whether at least one numeric indicator is present.
func (m BriefMetrics) HasIndicators() bool {
	return m.RSI != nil || m.ADX != nil || m.MACD != nil || m.DistanceToMA200 != nil
}

// BriefArtifact is the only durable entity. Artifacts are appended newest-first
// to a capped list and never mutated in place. Schema evolution is additive
// only: there is no version field in the persisted layout.
type BriefArtifact struct {
	ID        string       `json:"id"`
	Timestamp string       `json:"timestamp"`
	Title     string       `json:"title"`
	Bullets   []string     `json:"bullets"`
	Content   string       `json:"content,omitempty"`
	Sentiment Sentiment    `json:"sentiment"`
	Metrics   BriefMetrics `json:"metrics"`
	Opinion   string       `json:"opinion,omitempty"`
	Type      BriefType    `json:"type"`
}

// Time parses the artifact timestamp. The zero time is returned for artifacts
// with a malformed timestamp, which classifiers treat as maximally old.
func (a BriefArtifact) Time() time.Time {
	t, err := time.Parse(time.RFC3339, a.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}

// PricePoint is one sample of a close-price series. Providers are not trusted
// to deliver points in order; consumers sort before use.
type PricePoint struct {
	TimestampMs int64
	Close       float64
}
