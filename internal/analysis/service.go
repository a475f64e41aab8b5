// Package analysis orchestrates the fetch, extraction, and model stages
// for one analysis request and owns the cache interaction.
package analysis

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jonesrussell/siteinsight/internal/cache"
	"github.com/jonesrussell/siteinsight/internal/domain"
	"github.com/jonesrussell/siteinsight/internal/logger"
	"github.com/jonesrussell/siteinsight/internal/telemetry"
)

// Fetcher retrieves raw page markup.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*domain.RawContent, error)
}

// Extractor distills markup into a digest.
type Extractor interface {
	Extract(body []byte, pageURL string) (*domain.ContentDigest, error)
}

// ModelAnalyzer produces a validated analysis from a digest.
type ModelAnalyzer interface {
	Analyze(ctx context.Context, digest *domain.ContentDigest, websiteURL string) (*domain.AnalysisResult, error)
}

// ResultCache stores computed results keyed by normalized URL.
type ResultCache interface {
	Get(key string) (*domain.AnalysisResult, bool)
	Put(key string, result *domain.AnalysisResult)
}

// Service drives the per-request pipeline:
// validate -> cache -> fetch -> extract -> analyze -> store.
// Stages within one request run strictly sequentially; concurrent requests
// for the same key share a single pipeline run via singleflight.
type Service struct {
	fetcher   Fetcher
	extractor Extractor
	analyzer  ModelAnalyzer
	cache     ResultCache
	metrics   *telemetry.Metrics
	log       logger.Interface
	group     singleflight.Group
	now       func() time.Time
}

// NewService wires the pipeline stages together.
func NewService(
	fetcher Fetcher,
	extractor Extractor,
	analyzer ModelAnalyzer,
	resultCache ResultCache,
	metrics *telemetry.Metrics,
	log logger.Interface,
) *Service {
	return &Service{
		fetcher:   fetcher,
		extractor: extractor,
		analyzer:  analyzer,
		cache:     resultCache,
		metrics:   metrics,
		log:       log,
		now:       time.Now,
	}
}

// Analyze validates the input, serves from cache when possible, and
// otherwise runs the full pipeline and stores the fresh result.
func (s *Service) Analyze(ctx context.Context, rawURL string) (*domain.AnalysisResult, error) {
	target, err := domain.ValidateURL(rawURL)
	if err != nil {
		s.metrics.AnalysesTotal.WithLabelValues(telemetry.OutcomeInputError).Inc()
		return nil, err
	}

	key := cache.Key(rawURL)

	if cached, ok := s.cache.Get(key); ok {
		s.metrics.CacheEvents.WithLabelValues(telemetry.CacheHit).Inc()
		s.metrics.AnalysesTotal.WithLabelValues(telemetry.OutcomeSuccess).Inc()
		s.log.Info("returning cached analysis", "url", rawURL)
		return cached, nil
	}

	s.metrics.CacheEvents.WithLabelValues(telemetry.CacheMiss).Inc()

	// The flight outlives any single caller: a coalesced follower must not
	// fail because the leading client disconnected. Stage timeouts still
	// bound the detached run.
	value, err, shared := s.group.Do(key, func() (any, error) {
		return s.run(context.WithoutCancel(ctx), rawURL, target, key)
	})
	if shared {
		s.metrics.CoalescedRequests.Inc()
	}

	if err != nil {
		s.metrics.AnalysesTotal.WithLabelValues(outcomeLabel(err)).Inc()
		return nil, err
	}

	s.metrics.AnalysesTotal.WithLabelValues(telemetry.OutcomeSuccess).Inc()

	result, ok := value.(*domain.AnalysisResult)
	if !ok {
		return nil, errors.New("unexpected pipeline result type")
	}

	return result, nil
}

// run executes the uncached pipeline stages and stores the result.
func (s *Service) run(
	ctx context.Context,
	rawURL, target, key string,
) (*domain.AnalysisResult, error) {
	start := s.now()
	s.log.Info("starting website analysis", "url", target)

	raw, err := s.fetcher.Fetch(ctx, target)
	if err != nil {
		s.log.Error("fetch failed", "url", target, "error", err.Error())
		return nil, err
	}

	digest, err := s.extractor.Extract(raw.Body, raw.FinalURL)
	if err != nil {
		s.log.Error("extraction failed", "url", target, "error", err.Error())
		return nil, err
	}

	s.log.Info("content extracted",
		"url", target,
		"content_length", digest.CombinedLength(),
	)

	result, err := s.analyzer.Analyze(ctx, digest, target)
	if err != nil {
		s.log.Error("analysis failed", "url", target, "error", err.Error())
		return nil, err
	}

	result.WebsiteURL = rawURL
	result.AnalyzedAt = s.now().UTC()

	s.cache.Put(key, result)

	elapsed := s.now().Sub(start)
	s.metrics.AnalysisDuration.Observe(elapsed.Seconds())
	s.log.Info("analysis complete",
		"url", target,
		"overall_score", result.OverallScore,
		"duration", elapsed.String(),
	)

	return result, nil
}

// outcomeLabel maps a pipeline error to its metrics label.
func outcomeLabel(err error) string {
	var fetchErr *domain.FetchError
	var extractErr *domain.ExtractionError
	var analysisErr *domain.AnalysisError

	switch {
	case errors.As(err, &fetchErr):
		return telemetry.OutcomeFetchError
	case errors.As(err, &extractErr):
		return telemetry.OutcomeExtractionError
	case errors.As(err, &analysisErr):
		return telemetry.OutcomeAnalysisError
	default:
		return telemetry.OutcomeAnalysisError
	}
}
