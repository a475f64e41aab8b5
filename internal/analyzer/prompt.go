package analyzer

import (
	"fmt"

	"github.com/jonesrussell/siteinsight/internal/domain"
)

// systemPrompt reinforces specificity at the model level.
const systemPrompt = "You are an expert business analyst. Provide specific, " +
	"data-driven insights. Never give generic responses."

// promptTemplate is the fixed analysis contract sent to the model. The
// schema names every criterion explicitly so validation can hold the reply
// to it.
const promptTemplate = `You are a business model expert analyzing this website. Based on the available content, provide a thorough analysis focusing on five key areas.

Website: %s

Available Content:
%s
%s
%s
%s

Analyze the business model and provide scores and specific observations. If certain aspects aren't directly visible, use industry knowledge and available signals to make educated assessments.

Required JSON format:
{
  "overallScore": number (1.0-10.0),
  "criteria": {
    "valueProposition": {
      "score": number,
      "points": [
        "clear observation about their offering/value proposition",
        "insight about their unique value",
        "specific strength or weakness noted"
      ]
    },
    "marketFit": {
      "score": number,
      "points": [
        "observation about target market alignment",
        "market need/problem they solve",
        "market positioning insight"
      ]
    },
    "competitiveAdvantage": {
      "score": number,
      "points": [
        "unique strength or differentiator",
        "competitive position observation",
        "defensive moat insight"
      ]
    },
    "revenueModel": {
      "score": number,
      "points": [
        "revenue stream observation",
        "monetization strategy insight",
        "business model strength/weakness"
      ]
    },
    "scalability": {
      "score": number,
      "points": [
        "growth potential indicator",
        "scaling capability observation",
        "expansion opportunity noted"
      ]
    }
  }
}

Important:
- Provide specific, meaningful insights rather than generic observations
- Base analysis on visible evidence and industry knowledge
- If information is limited, note that in the points while still providing best assessment
- Use decimal precision for scores (e.g., 7.8)
- Keep points concise but insightful`

// buildPrompt renders the analysis prompt for one digest.
func buildPrompt(digest *domain.ContentDigest, websiteURL string) string {
	return fmt.Sprintf(promptTemplate,
		websiteURL,
		digest.Title,
		digest.Description,
		digest.MainContent,
		digest.BusinessContent,
	)
}
