// Package store caches fetched pages between enrichment runs.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/model"
)

// Store is the fetched-page cache. Contact records are never persisted.
type Store interface {
	// GetCachedPage returns the unexpired page for url, or nil on a miss.
	GetCachedPage(ctx context.Context, url string) (*model.CrawledPage, error)
	SetCachedPage(ctx context.Context, page model.CrawledPage, ttl time.Duration) error
	DeleteExpiredPages(ctx context.Context) (int, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Drivers accepted by Open.
const (
	DriverNone     = "none"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open returns the store for driver. It returns (nil, nil) for "none" or an
// empty driver so callers can skip caching.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch strings.ToLower(driver) {
	case "", DriverNone:
		return nil, nil
	case DriverSQLite:
		if dsn == "" {
			dsn = "prospect.db"
		}
		return NewSQLite(dsn)
	case DriverPostgres:
		return NewPostgres(ctx, dsn, nil)
	}
	return nil, eris.Errorf("store: unknown driver %q", driver)
}

// URLHash is the cache key for a page URL.
func URLHash(url string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(url)))
	return hex.EncodeToString(sum[:])
}
