package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/siteinsight/internal/domain"
)

// AnalyzeRequest is the body of POST /analyze.
type AnalyzeRequest struct {
	URL string `json:"url"`
}

// AnalyzeResponse is the success envelope for POST /analyze.
type AnalyzeResponse struct {
	Success  bool                   `json:"success"`
	Analysis *domain.AnalysisResult `json:"analysis"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// respondError writes the uniform error envelope.
func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{Error: code, Message: message})
}

// respondMissingURL handles requests without a URL.
func respondMissingURL(c *gin.Context) {
	respondError(c, http.StatusBadRequest,
		"URL required",
		"Please provide a website URL to analyze",
	)
}

// respondPipelineError maps a pipeline error to its stable
// (status, code, message) triple. Internal detail stays in the logs.
func respondPipelineError(c *gin.Context, err error) {
	var inputErr *domain.InputError
	var fetchErr *domain.FetchError
	var extractErr *domain.ExtractionError
	var analysisErr *domain.AnalysisError

	switch {
	case errors.As(err, &inputErr):
		if inputErr.Reason == "URL required" {
			respondMissingURL(c)
			return
		}
		respondError(c, http.StatusBadRequest,
			"Invalid URL",
			"Please enter a valid website URL (e.g., example.com)",
		)
	case errors.As(err, &fetchErr):
		respondError(c, http.StatusInternalServerError,
			"Analysis failed",
			"Cannot analyze website: "+fetchErr.Error(),
		)
	case errors.As(err, &extractErr):
		respondError(c, http.StatusInternalServerError,
			"Analysis failed",
			"Cannot analyze website: "+extractErr.Error(),
		)
	case errors.As(err, &analysisErr):
		respondError(c, http.StatusInternalServerError,
			"Analysis failed",
			"Could not generate analysis: "+analysisErr.Error(),
		)
	default:
		respondError(c, http.StatusInternalServerError,
			"Analysis failed",
			"Could not analyze website. Please try again.",
		)
	}
}
