package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/db"
	"github.com/sells-group/prospect-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool db.Pool
}

var preparedStatements = map[string]string{
	"get_cached_page":      `SELECT url, title, content, status_code FROM page_cache WHERE url_hash = $1 AND expires_at > now()`,
	"delete_expired_pages": `DELETE FROM page_cache WHERE expires_at <= now()`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *db.PoolConfig) (*PostgresStore, error) {
	pool, err := db.Connect(ctx, connString, poolCfg, preparedStatements)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS page_cache (
	id          TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	url_hash    TEXT NOT NULL UNIQUE,
	url         TEXT NOT NULL,
	title       TEXT NOT NULL DEFAULT '',
	content     TEXT NOT NULL,
	status_code INTEGER NOT NULL DEFAULT 0,
	fetched_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	expires_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_page_cache_expires_at ON page_cache(expires_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) GetCachedPage(ctx context.Context, url string) (*model.CrawledPage, error) {
	var p model.CrawledPage
	err := s.pool.QueryRow(ctx,
		`SELECT url, title, content, status_code FROM page_cache WHERE url_hash = $1 AND expires_at > now()`,
		URLHash(url),
	).Scan(&p.URL, &p.Title, &p.Content, &p.StatusCode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "postgres: get cached page")
	}
	return &p, nil
}

func (s *PostgresStore) SetCachedPage(ctx context.Context, page model.CrawledPage, ttl time.Duration) error {
	now := time.Now().UTC()
	_, err := s.pool.Exec(ctx,
		`INSERT INTO page_cache (id, url_hash, url, title, content, status_code, fetched_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (url_hash) DO UPDATE SET title = $4, content = $5, status_code = $6, fetched_at = $7, expires_at = $8`,
		uuid.New().String(), URLHash(page.URL), page.URL, page.Title, page.Content, page.StatusCode, now, now.Add(ttl),
	)
	return eris.Wrap(err, "postgres: set cached page")
}

func (s *PostgresStore) DeleteExpiredPages(ctx context.Context) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM page_cache WHERE expires_at <= now()`)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: delete expired pages")
	}
	return int(tag.RowsAffected()), nil
}
