// Package api implements the HTTP API for the analysis service.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/siteinsight/internal/domain"
	"github.com/jonesrussell/siteinsight/internal/logger"
)

// AnalyzeService runs the full analysis pipeline for one URL.
type AnalyzeService interface {
	Analyze(ctx context.Context, rawURL string) (*domain.AnalysisResult, error)
}

// Handler holds the API handlers and their dependencies.
type Handler struct {
	service AnalyzeService
	log     logger.Interface
}

// NewHandler creates the API handler.
func NewHandler(service AnalyzeService, log logger.Interface) *Handler {
	return &Handler{service: service, log: log}
}

// Analyze handles POST /analyze.
func (h *Handler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMissingURL(c)
		return
	}

	if strings.TrimSpace(req.URL) == "" {
		respondMissingURL(c)
		return
	}

	log := h.log.WithRequestID(RequestIDFromContext(c))

	result, err := h.service.Analyze(c.Request.Context(), req.URL)
	if err != nil {
		log.Error("analysis request failed", "url", req.URL, "error", err.Error())
		respondPipelineError(c, err)
		return
	}

	c.JSON(http.StatusOK, AnalyzeResponse{
		Success:  true,
		Analysis: result,
	})
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// ReadyCheck handles GET /ready.
func (h *Handler) ReadyCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
