package scrape

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/store"
)

// CachedScraper serves pages from the store and writes fresh fetches back.
// Cache errors never fail a scrape.
type CachedScraper struct {
	inner Scraper
	store store.Store
	ttl   time.Duration
}

// NewCachedScraper wraps inner with a page cache.
func NewCachedScraper(inner Scraper, st store.Store, ttl time.Duration) *CachedScraper {
	return &CachedScraper{inner: inner, store: st, ttl: ttl}
}

func (c *CachedScraper) Name() string             { return c.inner.Name() }
func (c *CachedScraper) Supports(url string) bool { return c.inner.Supports(url) }

func (c *CachedScraper) Scrape(ctx context.Context, url string) (*Result, error) {
	page, err := c.store.GetCachedPage(ctx, url)
	if err != nil {
		zap.L().Debug("scrape: cache read failed", zap.String("url", url), zap.Error(err))
	}
	if page != nil {
		return &Result{Page: *page, Source: "cache"}, nil
	}

	res, err := c.inner.Scrape(ctx, url)
	if err != nil {
		return nil, err
	}
	// Keyed by the requested URL; readers may report a resolved one.
	entry := res.Page
	entry.URL = url
	if err := c.store.SetCachedPage(ctx, entry, c.ttl); err != nil {
		zap.L().Debug("scrape: cache write failed", zap.String("url", url), zap.Error(err))
	}
	return res, nil
}
