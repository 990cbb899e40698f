// Package scrape fetches candidate pages for contact enrichment, falling
// back across fetchers in priority order.
package scrape

import (
	"context"
	"fmt"

	"github.com/sells-group/prospect-cli/internal/model"
)

// Result holds a fetched page with the scraper that produced it.
type Result struct {
	Page   model.CrawledPage
	Source string // e.g. "local_http", "jina", "cache"
}

// Scraper fetches a single URL.
type Scraper interface {
	Scrape(ctx context.Context, url string) (*Result, error)
	Name() string
	Supports(url string) bool
}

// StatusError reports that the site itself answered with an error status.
// The page does not exist for every scraper, so the chain stops on it.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d for %s", e.StatusCode, e.URL)
}
