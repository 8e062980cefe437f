package bot

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"solid-waffle/internal/domain"

	tele "gopkg.in/telebot.v3"
)

// BriefReader serves the current usable briefing.
type BriefReader interface {
	Latest(ctx context.Context, strict bool) (*domain.BriefArtifact, error)
}

// HeadlineReader serves the enriched headline pipeline.
type HeadlineReader interface {
	GetHeadlines(ctx context.Context, lang string, windowHours int, forceRefresh bool) (*domain.HeadlineResponse, error)
}

// StartTelegramBot serves /brief and /headlines on demand via long polling.
// Skipped entirely when no token is configured.
func StartTelegramBot(briefs BriefReader, headlines HeadlineReader) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		log.Fatalf("failed to create Telegram bot: %v", err)
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/brief", func(c tele.Context) error {
		artifact, err := briefs.Latest(context.Background(), false)
		if err != nil {
			return c.Send(fmt.Sprintf("No briefing available: %v", err))
		}
		return c.Send(formatBrief(artifact))
	})

	b.Handle("/headlines", func(c tele.Context) error {
		args := c.Args()
		lang := "en"
		window := 24
		if len(args) > 0 {
			lang = args[0]
		}
		if len(args) > 1 {
			if n, err := strconv.Atoi(args[1]); err == nil {
				window = n
			}
		}
		resp, err := headlines.GetHeadlines(context.Background(), lang, window, false)
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching headlines: %v", err))
		}
		if len(resp.Items) == 0 {
			return c.Send("No headlines in the requested window.")
		}
		var sb strings.Builder
		for i, item := range resp.Items {
			if i >= 10 {
				break
			}
			fmt.Fprintf(&sb, "%d. %s\n", i+1, item.Title)
		}
		return c.Send(sb.String())
	})

	log.Println("Telegram bot started")
	go b.Start()
}

func formatBrief(a *domain.BriefArtifact) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%s, %s)\n", a.Title, a.Sentiment, a.Timestamp)
	for _, bullet := range a.Bullets {
		fmt.Fprintf(&sb, "• %s\n", bullet)
	}
	if a.Opinion != "" {
		fmt.Fprintf(&sb, "\n%s", a.Opinion)
	}
	return sb.String()
}
