package brief

import (
	"fmt"
	"sort"
	"time"

	"solid-waffle/internal/domain"
	"solid-waffle/internal/ta"

	"github.com/google/uuid"
)

const (
	rsiPeriod  = 14
	macdFast   = 12
	macdSlow   = 26
	maWindow   = 200
	rsiBullish = 55
	rsiBearish = 45
)

// Synthesize builds a deterministic fallback briefing from a close-price
// series, with no generation call. It succeeds for any non-empty series and
// returns nil on an empty one, leaving the caller to fall back further.
//
// The input is re-sorted by timestamp; providers are not trusted to deliver
// points in order.
func Synthesize(points []domain.PricePoint, now time.Time) *domain.BriefArtifact {
	if len(points) == 0 {
		return nil
	}

	sorted := append([]domain.PricePoint(nil), points...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].TimestampMs < sorted[j].TimestampMs })

	closes := make([]float64, len(sorted))
	for i, p := range sorted {
		closes[i] = p.Close
	}

	rsi := ta.Clamp(ta.RSI(closes, rsiPeriod), 1, 99)
	macd := ta.MACDLast(closes, macdFast, macdSlow)
	adx := ta.ADXProxy(macd, rsi)
	_, distance := ta.SMADistance(closes, maWindow)

	sentiment := domain.SentimentNeutral
	opinion := "Momentum is mixed; no directional edge from price action alone."
	if rsi > rsiBullish {
		sentiment = domain.SentimentPositive
		opinion = "Momentum leans positive; recent closes outweigh pullbacks."
	} else if rsi < rsiBearish {
		sentiment = domain.SentimentNegative
		opinion = "Momentum leans negative; sellers dominate recent closes."
	}

	bullets := []string{
		fmt.Sprintf("RSI(14) at %.1f", rsi),
		fmt.Sprintf("MACD (EMA12-EMA26) at %.2f", macd),
		fmt.Sprintf("Trend strength proxy at %.1f", adx),
		fmt.Sprintf("Last close %.2f%% from the trailing moving average", distance),
	}

	return &domain.BriefArtifact{
		ID:        uuid.NewString(),
		Timestamp: now.UTC().Format(time.RFC3339),
		Title:     "Technical fallback briefing",
		Bullets:   bullets,
		Content: "Automatically synthesized from the recent price series because text generation " +
			"was unavailable. All figures below are computed directly from closes; no editorial " +
			"interpretation is included.",
		Sentiment: sentiment,
		Metrics: domain.BriefMetrics{
			RSI:             &rsi,
			ADX:             &adx,
			MACD:            &macd,
			DistanceToMA200: &distance,
		},
		Opinion: opinion,
		Type:    domain.BriefTypeGen,
	}
}
