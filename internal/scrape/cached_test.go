package scrape

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/internal/model"
)

type memStore struct {
	pages  map[string]model.CrawledPage
	getErr error
	sets   int
}

func newMemStore() *memStore { return &memStore{pages: map[string]model.CrawledPage{}} }

func (m *memStore) GetCachedPage(_ context.Context, url string) (*model.CrawledPage, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if p, ok := m.pages[url]; ok {
		return &p, nil
	}
	return nil, nil
}

func (m *memStore) SetCachedPage(_ context.Context, p model.CrawledPage, _ time.Duration) error {
	m.sets++
	m.pages[p.URL] = p
	return nil
}

func (m *memStore) DeleteExpiredPages(context.Context) (int, error) { return 0, nil }
func (m *memStore) Migrate(context.Context) error                  { return nil }
func (m *memStore) Close() error                                   { return nil }

func TestCachedScraper_MissThenHit(t *testing.T) {
	inner := &mockScraper{name: "local_http", supports: true, result: page("https://acme.fr", "fresh")}
	st := newMemStore()
	s := NewCachedScraper(inner, st, time.Hour)

	res, err := s.Scrape(context.Background(), "https://acme.fr")
	require.NoError(t, err)
	assert.Equal(t, "primary", res.Source)
	assert.Equal(t, 1, st.sets)

	res, err = s.Scrape(context.Background(), "https://acme.fr")
	require.NoError(t, err)
	assert.Equal(t, "cache", res.Source)
	assert.Equal(t, "fresh", res.Page.Content)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, "local_http", s.Name())
}

func TestCachedScraper_CacheErrorFallsThrough(t *testing.T) {
	inner := &mockScraper{name: "local_http", supports: true, result: page("https://acme.fr", "fresh")}
	st := newMemStore()
	st.getErr = errors.New("db locked")

	res, err := NewCachedScraper(inner, st, time.Hour).Scrape(context.Background(), "https://acme.fr")
	require.NoError(t, err)
	assert.Equal(t, "fresh", res.Page.Content)
}

func TestCachedScraper_InnerErrorNotCached(t *testing.T) {
	inner := &mockScraper{name: "local_http", supports: true, err: errors.New("404")}
	st := newMemStore()

	_, err := NewCachedScraper(inner, st, time.Hour).Scrape(context.Background(), "https://acme.fr")
	require.Error(t, err)
	assert.Zero(t, st.sets)
}

func TestCachedScraper_KeysByRequestedURL(t *testing.T) {
	inner := &mockScraper{name: "jina", supports: true, result: page("https://acme.fr/equipe/", "resolved")}
	st := newMemStore()
	s := NewCachedScraper(inner, st, time.Hour)

	res, err := s.Scrape(context.Background(), "https://acme.fr/equipe")
	require.NoError(t, err)
	assert.Equal(t, "https://acme.fr/equipe/", res.Page.URL)

	res, err = s.Scrape(context.Background(), "https://acme.fr/equipe")
	require.NoError(t, err)
	assert.Equal(t, "cache", res.Source)
	assert.Equal(t, "resolved", res.Page.Content)
	assert.Equal(t, 1, inner.calls)
}
