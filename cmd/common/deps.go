// Package common wires shared dependencies for the CLI commands.
package common

import (
	"errors"
	"fmt"

	"github.com/jonesrussell/siteinsight/internal/analysis"
	"github.com/jonesrussell/siteinsight/internal/analyzer"
	"github.com/jonesrussell/siteinsight/internal/cache"
	"github.com/jonesrussell/siteinsight/internal/config"
	"github.com/jonesrussell/siteinsight/internal/extractor"
	"github.com/jonesrussell/siteinsight/internal/fetcher"
	"github.com/jonesrussell/siteinsight/internal/logger"
	"github.com/jonesrussell/siteinsight/internal/telemetry"
)

// Deps holds the constructed dependency graph for a command.
type Deps struct {
	Config  *config.Config
	Logger  logger.Interface
	Metrics *telemetry.Metrics
	Service *analysis.Service
}

// NewDeps loads configuration and builds the analysis pipeline.
func NewDeps() (*Deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if cfg.Analyzer.APIKey == "" {
		return nil, errors.New("analyzer API key is required (set ANTHROPIC_API_KEY)")
	}

	log, err := logger.New(&logger.Config{
		Level:       cfg.Logging.Level,
		Encoding:    cfg.Logging.Encoding,
		Development: cfg.App.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	metrics := telemetry.NewMetrics()

	fetch := fetcher.New(fetcher.Config{
		Timeout:      cfg.Fetcher.Timeout,
		MaxAttempts:  cfg.Fetcher.MaxAttempts,
		RetryDelay:   cfg.Fetcher.RetryDelay,
		MaxRedirects: cfg.Fetcher.MaxRedirects,
		UserAgent:    cfg.Fetcher.UserAgent,
	}, log.WithComponent("fetcher"))

	modelAnalyzer, err := analyzer.New(analyzer.Config{
		Model:       cfg.Analyzer.Model,
		APIKey:      cfg.Analyzer.APIKey,
		MaxTokens:   cfg.Analyzer.MaxTokens,
		Temperature: cfg.Analyzer.Temperature,
		Timeout:     cfg.Analyzer.Timeout,
	}, log.WithComponent("analyzer"))
	if err != nil {
		return nil, fmt.Errorf("create analyzer: %w", err)
	}

	service := analysis.NewService(
		fetch,
		extractor.New(),
		modelAnalyzer,
		cache.New(cfg.Cache.TTL),
		metrics,
		log.WithComponent("analysis"),
	)

	return &Deps{
		Config:  cfg,
		Logger:  log,
		Metrics: metrics,
		Service: service,
	}, nil
}
