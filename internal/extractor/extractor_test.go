package extractor_test

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/siteinsight/internal/domain"
	"github.com/jonesrussell/siteinsight/internal/extractor"
)

const testPageURL = "https://example.com"

// productPageHTML is a complete marketing page with metadata, semantic main
// content, and business-signal sections.
const productPageHTML = `<!DOCTYPE html>
<html>
<head>
  <title>Acme Analytics - Insights for Growing Teams</title>
  <meta name="description" content="Acme Analytics turns raw events into decisions.">
</head>
<body>
  <header>Site header boilerplate</header>
  <nav>Home | Pricing | About</nav>
  <main>
    <h1>Understand your customers</h1>
    <p>Acme Analytics is the product analytics service built for growing teams that need answers fast.</p>
    <section>
      <h2>Simple pricing for every stage</h2>
      <p>Our pricing scales with your usage, starting free and growing with your business.</p>
    </section>
    <section>
      <h2>Features that matter</h2>
      <p>Funnels, retention, and cohort features designed around real product questions.</p>
    </section>
  </main>
  <footer>Footer boilerplate text</footer>
  <script>console.log("tracking");</script>
</body>
</html>`

// ogFallbackHTML has no title or meta description, forcing fallbacks.
const ogFallbackHTML = `<!DOCTYPE html>
<html>
<head>
  <meta property="og:description" content="An Open Graph description of the business.">
</head>
<body>
  <h1>Fallback Heading Title</h1>
  <p>` + loremParagraph + `</p>
</body>
</html>`

// bareHTML carries almost no signal at all.
const bareHTML = `<!DOCTYPE html>
<html>
<head></head>
<body><p>hi</p></body>
</html>`

const loremParagraph = "A paragraph with enough text about the mission and the service " +
	"offering to clear the minimum content threshold for analysis in these tests."

func TestExtract_ProductPage(t *testing.T) {
	t.Parallel()

	ext := extractor.New()

	digest, err := ext.Extract([]byte(productPageHTML), testPageURL)
	require.NoError(t, err)

	require.Equal(t, "Acme Analytics - Insights for Growing Teams", digest.Title)
	require.Equal(t, "Acme Analytics turns raw events into decisions.", digest.Description)

	require.Contains(t, digest.MainContent, "Understand your customers")
	require.Contains(t, digest.MainContent, "built for growing teams")
	require.NotContains(t, digest.MainContent, "Site header boilerplate")
	require.NotContains(t, digest.MainContent, "Footer boilerplate")
	require.NotContains(t, digest.MainContent, "tracking")

	require.Contains(t, digest.BusinessContent, "pricing")
	require.Contains(t, digest.BusinessContent, "Features that matter")
}

func TestExtract_TitleFallbackToHeading(t *testing.T) {
	t.Parallel()

	ext := extractor.New()

	digest, err := ext.Extract([]byte(ogFallbackHTML), testPageURL)
	require.NoError(t, err)
	require.Equal(t, "Fallback Heading Title", digest.Title)
}

func TestExtract_TitleFallbackToURL(t *testing.T) {
	t.Parallel()

	html := `<!DOCTYPE html><html><head></head><body><p>` + loremParagraph + `</p><p>` +
		strings.Repeat("more filler text to stay above the threshold ", 3) + `</p></body></html>`

	ext := extractor.New()

	digest, err := ext.Extract([]byte(html), testPageURL)
	require.NoError(t, err)
	require.Equal(t, testPageURL, digest.Title)
}

func TestExtract_DescriptionFallbacks(t *testing.T) {
	t.Parallel()

	ext := extractor.New()

	digest, err := ext.Extract([]byte(ogFallbackHTML), testPageURL)
	require.NoError(t, err)
	require.Equal(t, "An Open Graph description of the business.", digest.Description)
}

func TestExtract_DescriptionFallbackToFirstParagraph(t *testing.T) {
	t.Parallel()

	html := `<!DOCTYPE html><html><head><title>Paragraph Fallback Page</title></head><body><p>` +
		loremParagraph + `</p></body></html>`

	ext := extractor.New()

	digest, err := ext.Extract([]byte(html), testPageURL)
	require.NoError(t, err)
	require.Equal(t, loremParagraph, digest.Description)
}

func TestExtract_InsufficientContent(t *testing.T) {
	t.Parallel()

	ext := extractor.New()

	_, err := ext.Extract([]byte(bareHTML), testPageURL)
	require.Error(t, err)

	var extractErr *domain.ExtractionError
	require.True(t, errors.As(err, &extractErr))
	require.Equal(t, "insufficient content found for analysis", extractErr.Reason)
}

func TestExtract_NormalizesWhitespaceAndTruncates(t *testing.T) {
	t.Parallel()

	longText := strings.Repeat("word ", 600) // well past the field limit once joined
	html := `<!DOCTYPE html><html><head><title>  Spaced
	  Out    Title  </title></head><body><main><p>` + longText + `</p></main></body></html>`

	ext := extractor.New()

	digest, err := ext.Extract([]byte(html), testPageURL)
	require.NoError(t, err)

	require.Equal(t, "Spaced Out Title", digest.Title)
	require.LessOrEqual(t, len(digest.MainContent), domain.DigestFieldLimit)
	require.NotContains(t, digest.MainContent, "  ", "whitespace runs must be collapsed")
}

func TestExtract_TruncationKeepsRuneBoundaries(t *testing.T) {
	t.Parallel()

	// Three-byte runes guarantee the field limit lands mid-rune for some
	// alignment of the repeated text.
	longText := strings.Repeat("日本語のテキスト ", 120)
	html := `<!DOCTYPE html><html><head><title>Multibyte Page Title</title></head><body><main><p>` +
		longText + `</p></main></body></html>`

	ext := extractor.New()

	digest, err := ext.Extract([]byte(html), testPageURL)
	require.NoError(t, err)

	require.LessOrEqual(t, len(digest.MainContent), domain.DigestFieldLimit)
	require.True(t, utf8.ValidString(digest.MainContent),
		"truncation must not split a multi-byte rune")
}

func TestExtract_BusinessContentSkipsShortFragments(t *testing.T) {
	t.Parallel()

	// No business keywords anywhere, and the only heading is below the
	// fragment length bar, so the business section stays empty.
	html := `<!DOCTYPE html>
<html>
<head><title>Short Fragment Page Title For Threshold Testing</title></head>
<body>
  <main><p>A plain page of generic prose that never names anything commercial,
  long enough to clear the overall digest threshold on its own.</p></main>
  <h3>tiny</h3>
</body>
</html>`

	ext := extractor.New()

	digest, err := ext.Extract([]byte(html), testPageURL)
	require.NoError(t, err)
	require.Empty(t, digest.BusinessContent)
}
