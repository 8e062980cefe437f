package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"solid-waffle/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const quotesBaseURL = "https://api.coingecko.com/api/v3"

// Symbol to CoinGecko asset id for the quote series used by the briefing
// fallback.
var quoteAssetID = map[string]string{
	"BTC": "bitcoin",
	"ETH": "ethereum",
	"SOL": "solana",
	"ADA": "cardano",
	"XRP": "ripple",
}

// QuoteProvider fetches close-price series from the CoinGecko free API.
type QuoteProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	limiter *RateLimiter
}

// NewQuoteProvider creates a provider with built-in rate limiting
// (8 requests per minute, one token every 7.5 seconds).
func NewQuoteProvider(tracer trace.Tracer) *QuoteProvider {
	return &QuoteProvider{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: quotesBaseURL,
		tracer:  tracer,
		limiter: NewRateLimiter(8, 7500*time.Millisecond),
	}
}

// FetchSeries returns (timestampMs, close) pairs for the trailing number of
// days. Order is whatever the upstream returns; callers sort before use.
func (p *QuoteProvider) FetchSeries(ctx context.Context, symbol string, days int) ([]domain.PricePoint, error) {
	_, span := p.tracer.Start(ctx, "quotes.fetch-series")
	defer span.End()

	assetID, ok := quoteAssetID[strings.ToUpper(strings.TrimSpace(symbol))]
	if !ok {
		return nil, fmt.Errorf("unsupported symbol: %s", symbol)
	}
	if days <= 0 {
		days = 7
	}

	url := fmt.Sprintf("%s/coins/%s/market_chart?vs_currency=usd&days=%d", p.baseURL, assetID, days)

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("quotes fetch error %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var raw struct {
		Prices [][]float64 `json:"prices"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse quote series for %s: %w", symbol, err)
	}

	points := make([]domain.PricePoint, 0, len(raw.Prices))
	for _, pair := range raw.Prices {
		if len(pair) < 2 {
			continue
		}
		points = append(points, domain.PricePoint{
			TimestampMs: int64(pair[0]),
			Close:       pair[1],
		})
	}
	return points, nil
}
