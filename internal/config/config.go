package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"solid-waffle/internal/provider"
)

type Config struct {
	Feeds            []provider.FeedSource
	OpenAIAPIKey     string
	OpenAIModels     []string
	RedisURL         string
	DatabaseURL      string
	TelegramBotToken string
	APIKey           string

	HeadlineTTLHours int
	FeedTimeoutSecs  int
	BriefSymbol      string
	BriefStaleHours  int
}

var defaultFeeds = []provider.FeedSource{
	{Name: "CoinDesk", URL: "https://www.coindesk.com/arc/outboundfeeds/rss/"},
	{Name: "CoinTelegraph", URL: "https://cointelegraph.com/rss"},
	{Name: "Decrypt", URL: "https://decrypt.co/feed"},
}

func Load() *Config {
	cfg := &Config{
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		RedisURL:         os.Getenv("REDIS_URL"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		APIKey:           os.Getenv("API_KEY"),
	}

	cfg.Feeds = parseFeeds(os.Getenv("FEEDS"))
	if len(cfg.Feeds) == 0 {
		cfg.Feeds = defaultFeeds
	}

	if cfg.OpenAIAPIKey == "" {
		log.Println("Warning: OPENAI_API_KEY not set, enrichment and briefing generation will fall back")
	}
	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, using in-memory response cache")
	}
	if cfg.DatabaseURL == "" {
		log.Println("Warning: DATABASE_URL not set, using in-memory briefing store")
	}

	cfg.OpenAIModels = splitList(os.Getenv("OPENAI_MODELS"))
	if len(cfg.OpenAIModels) == 0 {
		cfg.OpenAIModels = []string{"gpt-4o-mini", "gpt-4o"}
	}

	cfg.HeadlineTTLHours = 6
	if v := strings.TrimSpace(os.Getenv("HEADLINE_TTL_HOURS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HeadlineTTLHours = n
		}
	}

	cfg.FeedTimeoutSecs = 8
	if v := strings.TrimSpace(os.Getenv("FEED_TIMEOUT_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.FeedTimeoutSecs = n
		}
	}

	cfg.BriefSymbol = strings.ToUpper(strings.TrimSpace(os.Getenv("BRIEF_SYMBOL")))
	if cfg.BriefSymbol == "" {
		cfg.BriefSymbol = "BTC"
	}

	cfg.BriefStaleHours = 24
	if v := strings.TrimSpace(os.Getenv("BRIEF_STALE_HOURS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.BriefStaleHours = n
		}
	}

	return cfg
}

// parseFeeds reads "Name|URL" pairs separated by commas. Entries without a
// name take their URL as the name.
func parseFeeds(v string) []provider.FeedSource {
	var feeds []provider.FeedSource
	for _, entry := range strings.Split(v, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, url, found := strings.Cut(entry, "|")
		if !found {
			url = name
		}
		url = strings.TrimSpace(url)
		name = strings.TrimSpace(name)
		if url == "" {
			continue
		}
		if name == "" {
			name = url
		}
		feeds = append(feeds, provider.FeedSource{Name: name, URL: url})
	}
	return feeds
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
