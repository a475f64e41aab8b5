// Package domain defines the core types shared across the analysis pipeline.
package domain

import "time"

// RawContent is the result of fetching a page, before extraction.
type RawContent struct {
	// Body is the raw HTML markup.
	Body []byte
	// FinalURL is the URL after redirects were followed.
	FinalURL string
}

// DigestFieldLimit caps each digest field after whitespace normalization.
const DigestFieldLimit = 2000

// MinDigestLength is the combined length the digest fields must exceed
// for the page to carry enough signal to analyze.
const MinDigestLength = 100

// ContentDigest is the normalized, size-bounded text summary of a page
// used as model input.
type ContentDigest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	MainContent     string `json:"mainContent"`
	BusinessContent string `json:"businessContent"`
}

// CombinedLength returns the total character count across all digest fields.
func (d *ContentDigest) CombinedLength() int {
	return len(d.Title) + len(d.Description) + len(d.MainContent) + len(d.BusinessContent)
}

// CriterionNames is the fixed set of evaluation axes the model must score,
// in prompt order.
var CriterionNames = []string{
	"valueProposition",
	"marketFit",
	"competitiveAdvantage",
	"revenueModel",
	"scalability",
}

// CriterionScore is the model's score and observations for one criterion.
type CriterionScore struct {
	Score  float64  `json:"score"`
	Points []string `json:"points"`
}

// AnalysisResult is the validated business-model assessment for one URL.
// WebsiteURL and AnalyzedAt are stamped by the orchestrator before the
// result is cached, so cached replies are identical to fresh ones.
type AnalysisResult struct {
	OverallScore float64                    `json:"overallScore"`
	Criteria     map[string]*CriterionScore `json:"criteria"`
	WebsiteURL   string                     `json:"websiteUrl"`
	AnalyzedAt   time.Time                  `json:"analyzedAt"`
}
