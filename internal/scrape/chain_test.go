package scrape

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/pkg/jina"
	"github.com/sells-group/prospect-cli/pkg/jina/mocks"
)

// mockScraper implements Scraper for testing.
type mockScraper struct {
	name     string
	supports bool
	result   *Result
	err      error
	calls    int
}

func (m *mockScraper) Name() string           { return m.name }
func (m *mockScraper) Supports(_ string) bool { return m.supports }
func (m *mockScraper) Scrape(_ context.Context, _ string) (*Result, error) {
	m.calls++
	return m.result, m.err
}

func page(url, content string) *Result {
	return &Result{Page: model.CrawledPage{URL: url, Content: content, StatusCode: 200}, Source: "primary"}
}

func TestChain_Scrape_FirstSuccess(t *testing.T) {
	s1 := &mockScraper{name: "primary", supports: true, result: page("https://acme.fr", "content")}
	s2 := &mockScraper{name: "fallback", supports: true}

	result, err := NewChain(nil, s1, s2).Scrape(context.Background(), "https://acme.fr")

	require.NoError(t, err)
	assert.Equal(t, "primary", result.Source)
	assert.Zero(t, s2.calls)
}

func TestChain_Scrape_FallbackOnError(t *testing.T) {
	s1 := &mockScraper{name: "primary", supports: true, err: errors.New("blocked")}
	s2 := &mockScraper{name: "fallback", supports: true, result: &Result{Page: model.CrawledPage{Content: "ok"}, Source: "fallback"}}

	result, err := NewChain(nil, s1, s2).Scrape(context.Background(), "https://acme.fr")

	require.NoError(t, err)
	assert.Equal(t, "fallback", result.Source)
}

func TestChain_Scrape_SkipsUnsupported(t *testing.T) {
	s1 := &mockScraper{name: "jina", supports: false}
	s2 := &mockScraper{name: "local", supports: true, result: page("https://acme.fr", "ok")}

	_, err := NewChain(nil, s1, s2).Scrape(context.Background(), "https://acme.fr")
	require.NoError(t, err)
	assert.Zero(t, s1.calls)
}

func TestChain_Scrape_AllFail(t *testing.T) {
	s1 := &mockScraper{name: "primary", supports: true, err: errors.New("fail 1")}
	s2 := &mockScraper{name: "fallback", supports: true, err: errors.New("fail 2")}

	_, err := NewChain(nil, s1, s2).Scrape(context.Background(), "https://acme.fr")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all scrapers failed")
}

func TestChain_Scrape_Excluded(t *testing.T) {
	s1 := &mockScraper{name: "primary", supports: true, result: page("x", "y")}

	_, err := NewChain(NewPathMatcher([]string{"*.pdf"}), s1).Scrape(context.Background(), "https://acme.fr/plaquette.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "excluded")
	assert.Zero(t, s1.calls)
}

func TestChain_Fetch(t *testing.T) {
	ok := NewChain(nil, &mockScraper{name: "local", supports: true, result: page("https://acme.fr", "<html>contact</html>")})
	content, found := ok.Fetch(context.Background(), "https://acme.fr")
	assert.True(t, found)
	assert.Equal(t, "<html>contact</html>", content)

	failing := NewChain(nil, &mockScraper{name: "local", supports: true, err: errors.New("timeout")})
	content, found = failing.Fetch(context.Background(), "https://acme.fr")
	assert.False(t, found)
	assert.Empty(t, content)
}

func TestChain_Scrape_StatusErrorStopsChain(t *testing.T) {
	s1 := &mockScraper{name: "local_http", supports: true, err: &StatusError{URL: "https://acme.fr/old", StatusCode: 410}}
	s2 := &mockScraper{name: "jina", supports: true, result: page("https://acme.fr/old", "gone")}

	_, err := NewChain(nil, s1, s2).Scrape(context.Background(), "https://acme.fr/old")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "page unavailable")
	assert.Equal(t, 1, s1.calls)
	assert.Zero(t, s2.calls)
}

func TestChain_Fetch_ErrorStatusSkipsReader(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusGone, http.StatusInternalServerError} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = w.Write([]byte("<html><body>Page not found. Webmaster: jane.doe@acme.fr</body></html>"))
		}))

		reader := mocks.NewMockClient(t)
		chain := NewChain(nil, newTestLocal(), NewJinaScraper(reader, nil))

		content, ok := chain.Fetch(context.Background(), srv.URL)
		srv.Close()

		assert.False(t, ok, "status %d", status)
		assert.Empty(t, content, "status %d", status)
		reader.AssertNotCalled(t, "Read", mock.Anything, mock.Anything)
	}
}

func TestChain_Fetch_BlockedPageFallsBackToReader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cf-Ray", "abc123")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("<html><body>Access denied</body></html>"))
	}))
	defer srv.Close()

	reader := mocks.NewMockClient(t)
	body := "<p>Contact : jane.doe@acme.fr</p> Acme conseil, cabinet de conseil en stratégie basé à Lyon depuis 1998, accompagne les PME."
	reader.On("Read", mock.Anything, srv.URL).
		Return(&jina.ReadResponse{Code: 200, Data: jina.ReadData{Content: body}}, nil).Once()

	content, ok := NewChain(nil, newTestLocal(), NewJinaScraper(reader, nil)).Fetch(context.Background(), srv.URL)

	assert.True(t, ok)
	assert.Contains(t, content, "jane.doe@acme.fr")
}
