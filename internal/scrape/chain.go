package scrape

import (
	"context"
	"errors"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/metrics"
)

// Chain tries scrapers in priority order, returning the first success.
type Chain struct {
	PathMatcher *PathMatcher
	scrapers    []Scraper
}

// NewChain creates a Chain with the given path matcher and scrapers.
func NewChain(matcher *PathMatcher, scrapers ...Scraper) *Chain {
	if matcher == nil {
		matcher = NewPathMatcher(nil)
	}
	return &Chain{PathMatcher: matcher, scrapers: scrapers}
}

// Scrape tries each supporting scraper in order for a single URL. A
// *StatusError ends the chain without trying the remaining scrapers.
func (c *Chain) Scrape(ctx context.Context, targetURL string) (*Result, error) {
	if c.PathMatcher.IsExcluded(targetURL) {
		return nil, eris.Errorf("scrape: url excluded: %s", targetURL)
	}

	var lastErr error
	for _, s := range c.scrapers {
		if !s.Supports(targetURL) {
			continue
		}
		result, err := s.Scrape(ctx, targetURL)
		if err == nil && result != nil {
			return result, nil
		}
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			zap.L().Debug("scrape: page unavailable",
				zap.String("scraper", s.Name()),
				zap.String("url", targetURL),
				zap.Int("status", statusErr.StatusCode),
			)
			return nil, eris.Wrap(err, "scrape: page unavailable")
		}
		if err != nil {
			zap.L().Debug("scrape: scraper failed, trying next",
				zap.String("scraper", s.Name()),
				zap.String("url", targetURL),
				zap.Error(err),
			)
			lastErr = err
		}
		if ctx.Err() != nil {
			break
		}
	}
	if lastErr != nil {
		return nil, eris.Wrap(lastErr, "scrape: all scrapers failed")
	}
	return nil, eris.Errorf("scrape: no suitable scraper for url: %s", targetURL)
}

// Fetch returns the page content, or false when no scraper could fetch it.
func (c *Chain) Fetch(ctx context.Context, targetURL string) (string, bool) {
	res, err := c.Scrape(ctx, targetURL)
	if err != nil {
		metrics.IncPageFetch("")
		return "", false
	}
	metrics.IncPageFetch(res.Source)
	return res.Page.Content, true
}
