package handler

import (
	"context"

	"solid-waffle/internal/brief"
	"solid-waffle/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// HeadlineGetter serves the cached headline pipeline.
type HeadlineGetter interface {
	GetHeadlines(ctx context.Context, lang string, windowHours int, forceRefresh bool) (*domain.HeadlineResponse, error)
}

// BriefController drives briefing freshness and generation.
type BriefController interface {
	Latest(ctx context.Context, strict bool) (*domain.BriefArtifact, error)
	GenerateNow(ctx context.Context, req brief.GenerateRequest) (*domain.BriefArtifact, error)
}

type Handler struct {
	tracer    trace.Tracer
	headlines HeadlineGetter
	briefs    BriefController
	apiKey    string
}

func New(tracer trace.Tracer, headlines HeadlineGetter, briefs BriefController, apiKey string) *Handler {
	return &Handler{
		tracer:    tracer,
		headlines: headlines,
		briefs:    briefs,
		apiKey:    apiKey,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/api/headlines", h.GetHeadlines)
	r.GET("/api/brief/latest", h.GetLatestBrief)
	r.POST("/api/brief/generate", APIKeyAuth(h.apiKey), h.GenerateBrief)
}
