package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/prospect-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Expiry is stored as unix seconds so comparisons don't depend on the
// driver's time formatting.
const sqliteMigration = `
CREATE TABLE IF NOT EXISTS page_cache (
	id          TEXT PRIMARY KEY,
	url_hash    TEXT NOT NULL UNIQUE,
	url         TEXT NOT NULL,
	title       TEXT NOT NULL DEFAULT '',
	content     TEXT NOT NULL,
	status_code INTEGER NOT NULL DEFAULT 0,
	fetched_at  INTEGER NOT NULL,
	expires_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_page_cache_expires_at ON page_cache(expires_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) GetCachedPage(ctx context.Context, url string) (*model.CrawledPage, error) {
	var p model.CrawledPage
	err := s.db.QueryRowContext(ctx,
		`SELECT url, title, content, status_code FROM page_cache
		 WHERE url_hash = ? AND expires_at > ?`,
		URLHash(url), s.now().Unix(),
	).Scan(&p.URL, &p.Title, &p.Content, &p.StatusCode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get cached page")
	}
	return &p, nil
}

func (s *SQLiteStore) SetCachedPage(ctx context.Context, page model.CrawledPage, ttl time.Duration) error {
	now := s.now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO page_cache (id, url_hash, url, title, content, status_code, fetched_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT (url_hash) DO UPDATE SET
		   title = excluded.title, content = excluded.content, status_code = excluded.status_code,
		   fetched_at = excluded.fetched_at, expires_at = excluded.expires_at`,
		uuid.New().String(), URLHash(page.URL), page.URL, page.Title, page.Content, page.StatusCode,
		now.Unix(), now.Add(ttl).Unix(),
	)
	return eris.Wrap(err, "sqlite: set cached page")
}

func (s *SQLiteStore) DeleteExpiredPages(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM page_cache WHERE expires_at <= ?`, s.now().Unix())
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: delete expired pages")
	}
	n, err := res.RowsAffected()
	return int(n), eris.Wrap(err, "sqlite: rows affected")
}
