package scrape

import (
	"net/url"
	"path"
	"strings"
)

var defaultExcludePatterns = []string{"*.pdf", "*.jpg", "*.jpeg", "*.png", "*.zip"}

// PathMatcher skips URLs whose path matches a glob. "/dir/*" covers every
// depth below dir and "*.ext" matches the extension anywhere.
type PathMatcher struct {
	patterns []string
}

// NewPathMatcher creates a PathMatcher, using binary-file defaults when no
// patterns are given.
func NewPathMatcher(patterns []string) *PathMatcher {
	if len(patterns) == 0 {
		patterns = defaultExcludePatterns
	}
	lower := make([]string, len(patterns))
	for i, p := range patterns {
		lower[i] = strings.ToLower(p)
	}
	return &PathMatcher{patterns: lower}
}

// Patterns returns the configured patterns.
func (m *PathMatcher) Patterns() []string {
	return m.patterns
}

// IsExcluded reports whether rawURL should not be fetched. Unparseable URLs
// are excluded.
func (m *PathMatcher) IsExcluded(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return true
	}
	p := strings.ToLower(u.Path)
	for _, pattern := range m.patterns {
		if match(pattern, p) {
			return true
		}
	}
	return false
}

func match(pattern, urlPath string) bool {
	if strings.HasPrefix(pattern, "*.") {
		return strings.HasSuffix(urlPath, pattern[1:])
	}
	if ok, _ := path.Match(pattern, urlPath); ok {
		return true
	}
	if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
		return urlPath == prefix || strings.HasPrefix(urlPath, prefix+"/")
	}
	return false
}
