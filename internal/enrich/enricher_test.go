package enrich

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/scrape"
	"github.com/sells-group/prospect-cli/internal/search"
	jinamocks "github.com/sells-group/prospect-cli/pkg/jina/mocks"
)

// stubProvider answers queries from a fixed map and records them.
type stubProvider struct {
	results map[string][]model.SearchHit
	queries []search.Query
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Query(_ context.Context, q search.Query) []model.SearchHit {
	s.queries = append(s.queries, q)
	return s.results[q.Text]
}

// stubFetcher serves page bodies by URL; missing URLs fail.
type stubFetcher struct {
	pages   map[string]string
	fetched []string
}

func (s *stubFetcher) Fetch(_ context.Context, url string) (string, bool) {
	s.fetched = append(s.fetched, url)
	body, ok := s.pages[url]
	return body, ok
}

func hits(urls ...string) []model.SearchHit {
	out := make([]model.SearchHit, len(urls))
	for i, u := range urls {
		out[i] = model.SearchHit{Title: u, Link: u, Engine: model.EngineWeb}
	}
	return out
}

func newEnricher(p *stubProvider, f *stubFetcher) *Enricher {
	return New(p, f, DefaultExclusionRules())
}

func TestEnrich_EmailOnPage(t *testing.T) {
	p := &stubProvider{results: map[string][]model.SearchHit{
		`"Jane Doe" Acme`: hits("https://www.linkedin.com/in/jane", "https://acme.fr/team"),
	}}
	f := &stubFetcher{pages: map[string]string{
		"https://acme.fr/team": `<a href="mailto:jane.doe@acme.fr">Jane</a> Tel 06 12 34 56 78`,
	}}

	res := newEnricher(p, f).Enrich(context.Background(), "Jane Doe", "Acme", 5)

	assert.Equal(t, Result{Email: "jane.doe@acme.fr", Phone: "+33612345678", Origin: model.OriginPage}, res)
	assert.Equal(t, []string{"https://acme.fr/team"}, f.fetched, "linkedin links are skipped")
	require.Len(t, p.queries, 1)
	assert.Equal(t, 5, p.queries[0].PageSize)
	assert.Equal(t, model.EngineWeb, p.queries[0].Engine)
}

func TestEnrich_InvalidEmailFallsBackToPattern(t *testing.T) {
	p := &stubProvider{results: map[string][]model.SearchHit{
		`"Jane Doe" Acme`: hits("https://acme.fr/about"),
	}}
	f := &stubFetcher{pages: map[string]string{
		"https://acme.fr/about": `errors: noreply@acme.fr visit www.acme.fr - write to j.doe@acme.fr`,
	}}

	res := newEnricher(p, f).Enrich(context.Background(), "Jane Doe", "Acme", 5)

	assert.Equal(t, "j.doe@acme.fr", res.Email)
	assert.Equal(t, model.OriginPattern, res.Origin)
	assert.Empty(t, res.Phone)
}

func TestEnrich_PhoneOnlyStopsEarly(t *testing.T) {
	p := &stubProvider{results: map[string][]model.SearchHit{
		`"Jane Doe" Lyon`: hits("https://a.fr", "https://b.fr"),
	}}
	f := &stubFetcher{pages: map[string]string{
		"https://a.fr": "Appelez le 04 78 00 00 00",
		"https://b.fr": "jane.doe@b.fr",
	}}

	res := newEnricher(p, f).Enrich(context.Background(), "Jane Doe", "Lyon", 5)

	assert.Equal(t, Result{Phone: "+33478000000", Origin: model.OriginNone}, res)
	assert.Equal(t, []string{"https://a.fr"}, f.fetched)
}

func TestEnrich_SecondVariantUsesEmailSuffix(t *testing.T) {
	p := &stubProvider{results: map[string][]model.SearchHit{
		`"Jane Doe" Acme`:       hits("https://nothing.fr"),
		`"Jane Doe" Acme email`: hits("https://contact.fr"),
	}}
	f := &stubFetcher{pages: map[string]string{
		"https://nothing.fr": "no contact data",
		"https://contact.fr": "jane@contact.fr",
	}}

	res := newEnricher(p, f).Enrich(context.Background(), "Jane Doe", "Acme", 3)

	assert.Equal(t, "jane@contact.fr", res.Email)
	require.Len(t, p.queries, 2)
	assert.Equal(t, `"Jane Doe" Acme email`, p.queries[1].Text)
}

func TestEnrich_ExhaustedReturnsAbsent(t *testing.T) {
	p := &stubProvider{results: map[string][]model.SearchHit{
		`"Jane Doe"`:       hits("https://down.fr", "https://empty.fr"),
		`"Jane Doe" email`: hits("https://empty.fr"),
	}}
	f := &stubFetcher{pages: map[string]string{"https://empty.fr": "nothing"}}

	res := newEnricher(p, f).Enrich(context.Background(), "Jane Doe", "", 5)

	assert.False(t, res.Found())
	assert.Equal(t, model.OriginNone, res.Origin)
	assert.Len(t, p.queries, 2)
}

func TestEnrich_PageBudget(t *testing.T) {
	p := &stubProvider{results: map[string][]model.SearchHit{
		`"Jane Doe"`: hits("https://1.fr", "https://2.fr", "https://3.fr"),
	}}
	f := &stubFetcher{pages: map[string]string{
		"https://1.fr": "x", "https://2.fr": "x", "https://3.fr": "jane@3.fr",
	}}

	res := newEnricher(p, f).Enrich(context.Background(), "Jane Doe", "", 2)

	assert.False(t, res.Found())
	assert.NotContains(t, f.fetched, "https://3.fr")
}

func TestEnrich_SingleTokenNameSkipsPatterns(t *testing.T) {
	p := &stubProvider{results: map[string][]model.SearchHit{
		`"Madonna"`: hits("https://m.fr"),
	}}
	f := &stubFetcher{pages: map[string]string{"https://m.fr": "noreply@m.fr m.fr madonna@m.fr"}}

	// the first email is rejected and no name split means no pattern check
	res := newEnricher(p, f).Enrich(context.Background(), "Madonna", "", 5)
	assert.False(t, res.Found())
}

func TestEnrich_EmptyInput(t *testing.T) {
	p := &stubProvider{}
	res := newEnricher(p, &stubFetcher{}).Enrich(context.Background(), " ", "", 5)
	assert.False(t, res.Found())
	assert.Empty(t, p.queries)

	res = newEnricher(p, &stubFetcher{}).Enrich(context.Background(), "Jane Doe", "", 0)
	assert.False(t, res.Found())
	assert.Empty(t, p.queries)
}

func TestEnrich_ErrorStatusPageSkippedThroughChain(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/gone", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("<html><body>Page introuvable. Webmaster : webmaster@acme.fr</body></html>"))
	})
	mux.HandleFunc("/team", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body>Jane Doe, associée. <a href="mailto:jane@cabinet-doe.fr">Écrire</a></body></html>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	reader := jinamocks.NewMockClient(t)
	chain := scrape.NewChain(nil,
		scrape.NewLocalScraper(scrape.LocalOptions{Timeout: 5 * time.Second, PerHostRate: 1000}),
		scrape.NewJinaScraper(reader, nil),
	)
	p := &stubProvider{results: map[string][]model.SearchHit{
		`"Jane Doe" Acme`: hits(srv.URL+"/gone", srv.URL+"/team"),
	}}

	res := New(p, chain, DefaultExclusionRules()).Enrich(context.Background(), "Jane Doe", "Acme", 5)

	assert.Equal(t, "jane@cabinet-doe.fr", res.Email)
	assert.Equal(t, model.OriginPage, res.Origin)
	reader.AssertNotCalled(t, "Read", mock.Anything, mock.Anything)
}

func TestEnrich_OnlyErrorPagesFindsNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("Erreur. Contact : jane.doe@acme.fr 06 12 34 56 78"))
	}))
	defer srv.Close()

	reader := jinamocks.NewMockClient(t)
	chain := scrape.NewChain(nil,
		scrape.NewLocalScraper(scrape.LocalOptions{Timeout: 5 * time.Second, PerHostRate: 1000}),
		scrape.NewJinaScraper(reader, nil),
	)
	p := &stubProvider{results: map[string][]model.SearchHit{
		`"Jane Doe" Acme`:       hits(srv.URL + "/a"),
		`"Jane Doe" Acme email`: hits(srv.URL + "/b"),
	}}

	res := New(p, chain, DefaultExclusionRules()).Enrich(context.Background(), "Jane Doe", "Acme", 5)

	assert.False(t, res.Found())
	assert.Equal(t, model.OriginNone, res.Origin)
	assert.Len(t, p.queries, 2)
}
