package domain

import (
	"net/url"
	"strings"
)

// EnsureScheme prefixes https:// when the URL carries no scheme.
func EnsureScheme(rawURL string) string {
	if strings.HasPrefix(rawURL, "http://") || strings.HasPrefix(rawURL, "https://") {
		return rawURL
	}
	return "https://" + rawURL
}

// ValidateURL checks caller input: the trimmed URL must be non-empty and,
// after optional scheme prefixing, must parse with a host. The normalized
// target is returned on success.
func ValidateURL(rawURL string) (string, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", &InputError{Reason: "URL required"}
	}

	target := EnsureScheme(trimmed)

	parsed, err := url.Parse(target)
	if err != nil || parsed.Host == "" {
		return "", &InputError{Reason: "Invalid URL"}
	}

	return target, nil
}
