package normalize

import (
	"fmt"
	"net/url"
	"strings"
)

// Label folds anchor text for comparison: surrounding whitespace trimmed,
// case lowered.
func Label(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// LabelEquals reports whether a visible label matches want after folding.
func LabelEquals(label, want string) bool {
	return Label(label) == Label(want)
}

// ResolveURL turns an href found on the archive into an absolute URL.
func ResolveURL(base *url.URL, href string) (string, error) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", fmt.Errorf("empty href")
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("invalid href %q: %w", href, err)
	}

	resolved := base.ResolveReference(ref)
	if resolved.Scheme == "" || resolved.Host == "" {
		return "", fmt.Errorf("href %q does not resolve to an absolute URL", href)
	}
	return resolved.String(), nil
}

// JoinBlocks concatenates extracted text blocks the way records store them.
func JoinBlocks(blocks []string) string {
	return strings.Join(blocks, "\n")
}
