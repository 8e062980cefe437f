package news

import (
	"sort"
	"strings"
	"time"

	"solid-waffle/internal/domain"
)

const (
	capDefault    = 24
	capWideWindow = 18
)

// CurateWindow filters raw headlines to the requested trailing window, orders
// them newest-first, collapses duplicate titles and truncates to the curated
// cap (18 for windows wider than 24h, 24 otherwise).
//
// The sort is stable, so headlines sharing a publish timestamp keep their
// original fetch order.
func CurateWindow(headlines []domain.Headline, windowHours int, now time.Time) []domain.Headline {
	cutoff := now.Add(-time.Duration(windowHours) * time.Hour)

	recent := make([]domain.Headline, 0, len(headlines))
	for _, h := range headlines {
		if h.PublishedAt.Before(cutoff) {
			continue
		}
		recent = append(recent, h)
	}

	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].PublishedAt.After(recent[j].PublishedAt)
	})

	limit := capDefault
	if windowHours > 24 {
		limit = capWideWindow
	}

	seen := make(map[string]struct{}, len(recent))
	out := make([]domain.Headline, 0, limit)
	for _, h := range recent {
		key := dedupKey(h.Title)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, h)
		if len(out) >= limit {
			break
		}
	}
	return out
}

func dedupKey(title string) string {
	return strings.ToLower(strings.Join(strings.Fields(title), " "))
}
