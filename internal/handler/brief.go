package handler

import (
	"errors"
	"net/http"
	"strings"

	"solid-waffle/internal/brief"
	"solid-waffle/internal/domain"

	"github.com/gin-gonic/gin"
)

// GetLatestBrief godoc
// @Summary      Get the latest usable briefing
// @Description  Classifies the latest briefing for freshness and regenerates or synthesizes a fallback when needed
// @Tags         brief
// @Produce      json
// @Param        strict  query  bool  false  "Require numeric metrics"
// @Success      200  {object}  domain.BriefArtifact
// @Failure      500  {object}  map[string]string
// @Router       /api/brief/latest [get]
func (h *Handler) GetLatestBrief(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-latest-brief")
	defer span.End()

	strict := strings.EqualFold(c.Query("strict"), "true")

	artifact, err := h.briefs.Latest(ctx, strict)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, artifact)
}

type generateBriefRequest struct {
	Language    string `json:"language"`
	WindowHours int    `json:"window_hours"`
	Prompt      string `json:"prompt"`
	Type        string `json:"type"`
}

// GenerateBrief godoc
// @Summary      Generate a briefing now
// @Description  Synchronously generates and persists a briefing; fails when no generation credential is configured
// @Tags         brief
// @Accept       json
// @Produce      json
// @Param        request  body  generateBriefRequest  true  "Generation parameters"
// @Success      200  {object}  domain.BriefArtifact
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/brief/generate [post]
func (h *Handler) GenerateBrief(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.generate-brief")
	defer span.End()

	var req generateBriefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	briefType := domain.BriefTypeGen
	if strings.EqualFold(req.Type, string(domain.BriefTypeDaily)) {
		briefType = domain.BriefTypeDaily
	}

	artifact, err := h.briefs.GenerateNow(ctx, brief.GenerateRequest{
		Language:     req.Language,
		WindowHours:  req.WindowHours,
		CustomPrompt: req.Prompt,
		Type:         briefType,
	})
	if err != nil {
		if errors.Is(err, brief.ErrNoGenerator) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no generation credential configured"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, artifact)
}
