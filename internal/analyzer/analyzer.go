// Package analyzer invokes the external reasoning model and validates its
// reply against the fixed analysis schema.
package analyzer

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"

	"github.com/jonesrussell/siteinsight/internal/domain"
	"github.com/jonesrussell/siteinsight/internal/logger"
)

// Config holds model invocation settings.
type Config struct {
	Model       string
	APIKey      string
	MaxTokens   int
	Temperature float64
	// Timeout bounds one model invocation. Zero means no deadline.
	Timeout time.Duration
}

// ContentGenerator is the slice of the langchaingo model interface the
// analyzer needs. Satisfied by *anthropic.LLM and by test fakes.
type ContentGenerator interface {
	GenerateContent(
		ctx context.Context,
		messages []llms.MessageContent,
		options ...llms.CallOption,
	) (*llms.ContentResponse, error)
}

// Analyzer builds the analysis prompt, calls the model, and parses and
// validates the reply. The model is untrusted to follow the schema, so
// every reply goes through an explicit parse-then-validate step.
type Analyzer struct {
	llm         ContentGenerator
	maxTokens   int
	temperature float64
	timeout     time.Duration
	log         logger.Interface
}

// New creates an analyzer backed by the hosted Anthropic model.
func New(cfg Config, log logger.Interface) (*Analyzer, error) {
	llm, err := anthropic.New(
		anthropic.WithToken(cfg.APIKey),
		anthropic.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, err
	}

	return NewWithModel(llm, cfg, log), nil
}

// NewWithModel creates an analyzer with an injected model implementation.
func NewWithModel(llm ContentGenerator, cfg Config, log logger.Interface) *Analyzer {
	return &Analyzer{
		llm:         llm,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
		log:         log,
	}
}

// Analyze sends the digest to the model and returns the validated result.
// Failures are reported as *domain.AnalysisError.
func (a *Analyzer) Analyze(
	ctx context.Context,
	digest *domain.ContentDigest,
	websiteURL string,
) (*domain.AnalysisResult, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	prompt := buildPrompt(digest, websiteURL)

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}

	resp, err := a.llm.GenerateContent(ctx, messages,
		llms.WithMaxTokens(a.maxTokens),
		llms.WithTemperature(a.temperature),
	)
	if err != nil {
		return nil, &domain.AnalysisError{Reason: "model invocation failed", Err: err}
	}

	if len(resp.Choices) == 0 {
		return nil, &domain.AnalysisError{Reason: "Invalid analysis response format"}
	}

	reply := strings.TrimSpace(resp.Choices[0].Content)

	result, parseErr := parseReply(reply)
	if parseErr != nil {
		a.log.Error("model reply rejected",
			"url", websiteURL,
			"error", parseErr.Error(),
			"reply_length", len(reply),
		)
		return nil, parseErr
	}

	return result, nil
}

// parseReply extracts the JSON span from the raw model reply, parses it,
// and validates the structure against the required schema.
func parseReply(reply string) (*domain.AnalysisResult, error) {
	span, ok := extractJSONSpan(reply)
	if !ok {
		return nil, &domain.AnalysisError{Reason: "Invalid analysis response format"}
	}

	var parsed struct {
		OverallScore float64                    `json:"overallScore"`
		Criteria     map[string]json.RawMessage `json:"criteria"`
	}

	if err := json.Unmarshal([]byte(span), &parsed); err != nil {
		return nil, &domain.AnalysisError{Reason: "Invalid analysis response format", Err: err}
	}

	if parsed.OverallScore == 0 || parsed.Criteria == nil {
		return nil, &domain.AnalysisError{Reason: "Invalid analysis structure"}
	}

	criteria := make(map[string]*domain.CriterionScore, len(domain.CriterionNames))

	for _, name := range domain.CriterionNames {
		raw, present := parsed.Criteria[name]
		if !present {
			return nil, &domain.AnalysisError{Reason: "Invalid analysis structure"}
		}

		var score domain.CriterionScore
		if err := json.Unmarshal(raw, &score); err != nil {
			return nil, &domain.AnalysisError{Reason: "Invalid analysis structure", Err: err}
		}

		if score.Score == 0 || len(score.Points) == 0 {
			return nil, &domain.AnalysisError{Reason: "Invalid analysis structure"}
		}

		criteria[name] = &score
	}

	return &domain.AnalysisResult{
		OverallScore: parsed.OverallScore,
		Criteria:     criteria,
	}, nil
}

// extractJSONSpan locates the first balanced {...} span in text. Models
// may wrap the JSON payload in commentary, so only that span is parsed.
func extractJSONSpan(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}

	return "", false
}
