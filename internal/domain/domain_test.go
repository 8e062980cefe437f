package domain

import (
	"testing"
	"time"
)

func TestBriefArtifactTime(t *testing.T) {
	a := BriefArtifact{Timestamp: "2026-08-30T10:15:00Z"}
	want := time.Date(2026, 8, 30, 10, 15, 0, 0, time.UTC)
	if !a.Time().Equal(want) {
		t.Fatalf("unexpected time: %v", a.Time())
	}
}

func TestBriefArtifactTimeMalformed(t *testing.T) {
	a := BriefArtifact{Timestamp: "yesterday at noon"}
	if !a.Time().IsZero() {
		t.Fatalf("expected zero time for malformed timestamp, got %v", a.Time())
	}
}

func TestBriefMetricsHasIndicators(t *testing.T) {
	var m BriefMetrics
	if m.HasIndicators() {
		t.Fatal("expected empty metrics to report no indicators")
	}

	vol := 1000.0
	m.Volume = &vol
	if m.HasIndicators() {
		t.Fatal("volume alone does not count as an indicator")
	}

	rsi := 55.0
	m.RSI = &rsi
	if !m.HasIndicators() {
		t.Fatal("expected rsi to count as an indicator")
	}
}
