package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// GetHeadlines godoc
// @Summary      Get enriched headlines
// @Description  Returns deduplicated, window-filtered headlines enriched into summaries; cached per (lang, window)
// @Tags         headlines
// @Produce      json
// @Param        lang     query  string  false  "Language code"        default(en)
// @Param        window   query  int     false  "Window hours (24/48/72)"  default(24)
// @Param        refresh  query  bool    false  "Force cache refresh"
// @Success      200  {object}  domain.HeadlineResponse
// @Failure      500  {object}  map[string]string
// @Router       /api/headlines [get]
func (h *Handler) GetHeadlines(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-headlines")
	defer span.End()

	lang := c.DefaultQuery("lang", "en")
	windowHours, _ := strconv.Atoi(c.DefaultQuery("window", "24"))
	refresh := strings.EqualFold(c.Query("refresh"), "true")

	resp, err := h.headlines.GetHeadlines(ctx, lang, windowHours, refresh)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}
