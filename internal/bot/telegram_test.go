package bot

import (
	"strings"
	"testing"

	"solid-waffle/internal/domain"
)

func TestStartTelegramBotSkipsWithoutToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	StartTelegramBot(nil, nil)
}

func TestFormatBrief(t *testing.T) {
	a := &domain.BriefArtifact{
		Title:     "Morning briefing",
		Timestamp: "2026-08-30T10:00:00Z",
		Bullets:   []string{"BTC steady", "ETH up"},
		Sentiment: domain.SentimentPositive,
		Opinion:   "Constructive tone overall.",
	}
	got := formatBrief(a)
	if !strings.HasPrefix(got, "Morning briefing (positive, 2026-08-30T10:00:00Z)\n") {
		t.Fatalf("unexpected header: %q", got)
	}
	if !strings.Contains(got, "BTC steady") || !strings.Contains(got, "ETH up") {
		t.Fatalf("bullets missing: %q", got)
	}
	if !strings.HasSuffix(got, "Constructive tone overall.") {
		t.Fatalf("opinion missing: %q", got)
	}
}
