package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/siteinsight/internal/api"
	"github.com/jonesrussell/siteinsight/internal/domain"
	"github.com/jonesrussell/siteinsight/internal/logger"
	"github.com/jonesrussell/siteinsight/internal/telemetry"
)

type mockService struct {
	analyzeFunc func(ctx context.Context, rawURL string) (*domain.AnalysisResult, error)
}

func (m *mockService) Analyze(ctx context.Context, rawURL string) (*domain.AnalysisResult, error) {
	return m.analyzeFunc(ctx, rawURL)
}

func newTestRouter(service *mockService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := api.NewHandler(service, logger.NewNoOp())
	return api.NewRouter(handler, telemetry.NewMetrics().Handler(), logger.NewNoOp(), false)
}

func postAnalyze(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/analyze", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) api.ErrorResponse {
	t.Helper()

	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func sampleResult() *domain.AnalysisResult {
	return &domain.AnalysisResult{
		OverallScore: 7.5,
		Criteria: map[string]*domain.CriterionScore{
			"valueProposition": {Score: 8, Points: []string{"clear offer"}},
		},
		WebsiteURL: "example.com",
		AnalyzedAt: time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestAnalyze_MissingURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "empty object", body: `{}`},
		{name: "blank url", body: `{"url": "   "}`},
		{name: "malformed json", body: `{"url":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := newTestRouter(&mockService{
				analyzeFunc: func(_ context.Context, _ string) (*domain.AnalysisResult, error) {
					t.Fatal("service must not be called")
					return nil, nil
				},
			})

			rec := postAnalyze(t, router, tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			resp := decodeError(t, rec)
			require.Equal(t, "URL required", resp.Error)
			require.Equal(t, "Please provide a website URL to analyze", resp.Message)
		})
	}
}

func TestAnalyze_InvalidURL(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&mockService{
		analyzeFunc: func(_ context.Context, _ string) (*domain.AnalysisResult, error) {
			return nil, &domain.InputError{Reason: "Invalid URL"}
		},
	})

	rec := postAnalyze(t, router, `{"url": "http://"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeError(t, rec)
	require.Equal(t, "Invalid URL", resp.Error)
	require.Equal(t, "Please enter a valid website URL (e.g., example.com)", resp.Message)
}

func TestAnalyze_Success(t *testing.T) {
	t.Parallel()

	var requestedURL string
	router := newTestRouter(&mockService{
		analyzeFunc: func(_ context.Context, rawURL string) (*domain.AnalysisResult, error) {
			requestedURL = rawURL
			return sampleResult(), nil
		},
	})

	rec := postAnalyze(t, router, `{"url": "example.com"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "example.com", requestedURL)
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var resp struct {
		Success  bool `json:"success"`
		Analysis struct {
			OverallScore float64 `json:"overallScore"`
			Criteria     map[string]struct {
				Score  float64  `json:"score"`
				Points []string `json:"points"`
			} `json:"criteria"`
			WebsiteURL string `json:"websiteUrl"`
			AnalyzedAt string `json:"analyzedAt"`
		} `json:"analysis"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.True(t, resp.Success)
	require.InDelta(t, 7.5, resp.Analysis.OverallScore, 0.001)
	require.Equal(t, "example.com", resp.Analysis.WebsiteURL)
	require.NotEmpty(t, resp.Analysis.AnalyzedAt)
	require.Contains(t, resp.Analysis.Criteria, "valueProposition")
	require.Equal(t, []string{"clear offer"}, resp.Analysis.Criteria["valueProposition"].Points)
}

func TestAnalyze_PipelineErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		err         error
		wantMessage string
	}{
		{
			name:        "not found",
			err:         &domain.FetchError{Kind: domain.FetchNotFound, Status: 404},
			wantMessage: "Cannot analyze website: Website not found (404)",
		},
		{
			name:        "domain not found",
			err:         &domain.FetchError{Kind: domain.FetchDomainNotFound},
			wantMessage: "Cannot analyze website: Domain does not exist",
		},
		{
			name:        "timeout",
			err:         &domain.FetchError{Kind: domain.FetchTimeout},
			wantMessage: "Cannot analyze website: Website took too long to respond",
		},
		{
			name:        "thin content",
			err:         &domain.ExtractionError{Reason: "insufficient content found for analysis"},
			wantMessage: "Cannot analyze website: insufficient content found for analysis",
		},
		{
			name:        "model failure",
			err:         &domain.AnalysisError{Reason: "Invalid analysis structure"},
			wantMessage: "Could not generate analysis: Invalid analysis structure",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := newTestRouter(&mockService{
				analyzeFunc: func(_ context.Context, _ string) (*domain.AnalysisResult, error) {
					return nil, tt.err
				},
			})

			rec := postAnalyze(t, router, `{"url": "example.com"}`)
			require.Equal(t, http.StatusInternalServerError, rec.Code)

			resp := decodeError(t, rec)
			require.Equal(t, "Analysis failed", resp.Error)
			require.Equal(t, tt.wantMessage, resp.Message)
		})
	}
}

func TestHealthAndReady(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&mockService{})

	for _, path := range []string{"/health", "/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&mockService{})

	req := httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}
