// Package extractor distills raw HTML into the normalized, size-bounded
// digest the model analyzer consumes.
package extractor

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/siteinsight/internal/domain"
)

// nonContentSelectors lists elements stripped before any text extraction.
const nonContentSelectors = "script, style, noscript, iframe, header, nav, footer"

// mainContentSelectors lists semantic containers tried for main content,
// in preference order, before falling back to the whole document.
const mainContentSelectors = "main, article, [role='main'], .content, #content"

// businessKeywords are the signals used to collect business-relevant text.
var businessKeywords = []string{
	"product",
	"service",
	"pricing",
	"features",
	"about us",
	"mission",
	"solution",
}

// minFragmentLength is the bar a text fragment must clear to contribute
// to the business content section.
const minFragmentLength = 20

// ContentExtractor turns fetched markup into a ContentDigest.
type ContentExtractor struct{}

// New creates a content extractor.
func New() *ContentExtractor {
	return &ContentExtractor{}
}

// Extract parses the markup and builds the digest. It fails with an
// ExtractionError when the combined digest is too thin to analyze.
func (e *ContentExtractor) Extract(body []byte, pageURL string) (*domain.ContentDigest, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	doc.Find(nonContentSelectors).Remove()

	digest := &domain.ContentDigest{
		Title:           normalize(extractTitle(doc, pageURL)),
		Description:     normalize(extractDescription(doc)),
		MainContent:     normalize(extractMainContent(doc)),
		BusinessContent: normalize(extractBusinessContent(doc)),
	}

	if digest.CombinedLength() <= domain.MinDigestLength {
		return nil, &domain.ExtractionError{Reason: "insufficient content found for analysis"}
	}

	return digest, nil
}

// extractTitle prefers the document title, then the first heading, then
// the page URL as a last resort.
func extractTitle(doc *goquery.Document, pageURL string) string {
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}

	if heading := strings.TrimSpace(doc.Find("h1").First().Text()); heading != "" {
		return heading
	}

	return pageURL
}

// extractDescription prefers the meta description, then the Open Graph
// description, then the first paragraph, then a literal placeholder.
func extractDescription(doc *goquery.Document) string {
	if desc, exists := doc.Find("meta[name='description']").Attr("content"); exists && strings.TrimSpace(desc) != "" {
		return desc
	}

	if ogDesc, exists := doc.Find("meta[property='og:description']").Attr("content"); exists && strings.TrimSpace(ogDesc) != "" {
		return ogDesc
	}

	if para := strings.TrimSpace(doc.Find("p").First().Text()); para != "" {
		return para
	}

	return "No description available"
}

// extractMainContent returns the text of the first semantic content
// container, falling back to the full document text.
func extractMainContent(doc *goquery.Document) string {
	if sel := doc.Find(mainContentSelectors).First(); sel.Length() > 0 {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			return text
		}
	}

	return strings.TrimSpace(doc.Find("body").Text())
}

// extractBusinessContent collects text from elements carrying business
// signal keywords plus all headings. Fragments must clear the minimum
// length bar; duplicates are dropped; survivors are newline-joined.
func extractBusinessContent(doc *goquery.Document) string {
	fragments := make([]string, 0, len(businessKeywords)+1)
	seen := make(map[string]struct{})

	appendFragment := func(text string) {
		text = strings.TrimSpace(text)
		if len(text) <= minFragmentLength {
			return
		}
		if _, dup := seen[text]; dup {
			return
		}
		seen[text] = struct{}{}
		fragments = append(fragments, text)
	}

	for _, keyword := range businessKeywords {
		sel := doc.Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
			return strings.Contains(strings.ToLower(s.Text()), keyword)
		})
		appendFragment(sel.Text())
	}

	appendFragment(doc.Find("h1, h2, h3").Text())

	return strings.Join(fragments, "\n")
}

// normalize collapses whitespace runs to single spaces, trims, and
// truncates to the digest field limit. The cut backs off to a rune
// boundary so multi-byte text is never split mid-rune.
func normalize(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if len(text) > domain.DigestFieldLimit {
		cut := domain.DigestFieldLimit
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	return text
}
