package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"solid-waffle/internal/bot"
	"solid-waffle/internal/brief"
	"solid-waffle/internal/cache"
	"solid-waffle/internal/config"
	"solid-waffle/internal/db"
	"solid-waffle/internal/handler"
	"solid-waffle/internal/llm"
	"solid-waffle/internal/news"
	"solid-waffle/internal/provider"
	"solid-waffle/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "solid-waffle/docs"
)

var (
	loadEnvFunc            = godotenv.Load
	loadConfigFunc         = config.Load
	initPostgresFunc       = db.InitPostgres
	initRedisFunc          = cache.InitRedis
	initTracerFunc         = tracing.InitTracer
	startTelegramBotFunc   = bot.StartTelegramBot
	newRouterFunc          = gin.Default
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           Solid Waffle API
// @version         1.0
// @description     Content freshness and enrichment pipeline with briefing fallback.

// @host      localhost:8080
// @BasePath  /
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init Redis and Postgres when configured; both have in-memory fallbacks
	os.Setenv("DATABASE_URL", cfg.DatabaseURL)
	if cfg.RedisURL != "" {
		os.Setenv("REDIS_URL", cfg.RedisURL)
		initRedisFunc(ctx)
	}
	initPostgresFunc(ctx)

	// Init tracing
	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	// Response cache: Redis when available, process-local otherwise
	var responseCache cache.Store
	if cache.Client != nil {
		responseCache = cache.NewRedisStore(cache.Client)
	} else {
		responseCache = cache.NewMemoryStore()
	}

	// Headline pipeline
	chatClient := llm.New(cfg.OpenAIAPIKey)
	feedProvider := provider.NewFeedProvider(tracer)
	fetcher := news.NewFetcher(tracer, feedProvider, cfg.Feeds, time.Duration(cfg.FeedTimeoutSecs)*time.Second)
	enricher := news.NewEnricher(tracer, chatClient, cfg.OpenAIModels)
	headlineService := news.NewHeadlineService(tracer, fetcher, enricher, responseCache, time.Duration(cfg.HeadlineTTLHours)*time.Hour)

	// Briefing store and migrations
	var briefStore brief.Store
	if db.Pool != nil {
		repo := brief.NewRepository(db.Pool, tracer)
		if err := repo.RunMigrations(ctx); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
		briefStore = repo
	} else {
		briefStore = brief.NewMemoryStore()
	}

	// Freshness controller: generation when a credential exists, quantitative
	// fallback otherwise
	var generator brief.Generator
	if chatClient != nil {
		generator = brief.NewOpenAIGenerator(tracer, chatClient, cfg.OpenAIModels, headlineService)
	}
	quotes := provider.NewQuoteProvider(tracer)
	controller := brief.NewController(tracer, briefStore, generator, quotes, cfg.BriefSymbol, time.Duration(cfg.BriefStaleHours)*time.Hour)

	// Start Telegram bot
	os.Setenv("TELEGRAM_BOT_TOKEN", cfg.TelegramBotToken)
	startTelegramBotFunc(controller, headlineService)

	// Create handlers and routes
	h := handler.New(tracer, headlineService, controller, cfg.APIKey)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("solid-waffle"))

	h.RegisterRoutes(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
