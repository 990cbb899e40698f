// Package enrich looks up a person's email and phone on the open web: it
// searches for pages mentioning the person, scans them for contact tokens
// and, failing that, guesses addresses from domains on the page.
package enrich

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/metrics"
	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/search"
)

// skipHost marks result links that never expose raw contact text.
const skipHost = "linkedin.com"

// PageFetcher returns the raw body of a page. ok is false on any fetch
// failure or non-success status.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (body string, ok bool)
}

// Result is the outcome of one lookup. Empty fields mean not found.
type Result struct {
	Email  string
	Phone  string
	Origin model.Origin
}

// Found reports whether anything was recovered.
func (r Result) Found() bool { return r.Email != "" || r.Phone != "" }

// Enricher performs web contact lookups. It holds no per-call state and is
// safe for concurrent use when its collaborators are.
type Enricher struct {
	provider search.Provider
	fetcher  PageFetcher
	rules    ExclusionRules
}

// New creates an Enricher.
func New(provider search.Provider, fetcher PageFetcher, rules ExclusionRules) *Enricher {
	return &Enricher{provider: provider, fetcher: fetcher, rules: rules}
}

// Rules returns the exclusion rules in use.
func (e *Enricher) Rules() ExclusionRules { return e.rules }

// Enrich searches for name qualified by hint, such as an employer or a
// city. Two queries are tried, the plain one and the same suffixed with
// "email", each reading at most maxPages result pages. The first valid
// email ends the lookup; a page with only a phone ends it with the phone
// alone. Failures never abort the lookup.
func (e *Enricher) Enrich(ctx context.Context, name, hint string, maxPages int) Result {
	res := e.lookup(ctx, name, hint, maxPages)
	if res.Origin == "" {
		res.Origin = model.OriginNone
	}
	metrics.IncEnrichment(string(res.Origin))
	return res
}

func (e *Enricher) lookup(ctx context.Context, name, hint string, maxPages int) Result {
	base := baseQuery(name, hint)
	if base == "" || maxPages < 1 {
		return Result{}
	}

	first, last, hasName := SplitName(name)
	for _, q := range []string{base, base + " email"} {
		hits := e.provider.Query(ctx, search.Query{Text: q, PageSize: maxPages, Engine: model.EngineWeb})

		tested := 0
		for _, hit := range hits {
			if tested >= maxPages || ctx.Err() != nil {
				break
			}
			if hit.Link == "" || strings.Contains(strings.ToLower(hit.Link), skipHost) {
				continue
			}
			page, ok := e.fetcher.Fetch(ctx, hit.Link)
			if !ok || page == "" {
				continue
			}

			if res, done := e.scan(page, first, last, hasName); done {
				zap.L().Debug("enrich: match",
					zap.String("name", name),
					zap.String("url", hit.Link),
					zap.String("origin", string(res.Origin)),
				)
				return res
			}
			tested++
		}
	}
	return Result{}
}

// scan inspects one page. done is true when the lookup should stop.
func (e *Enricher) scan(page, first, last string, hasName bool) (Result, bool) {
	email := FirstEmail(page)
	phone := FirstPhone(page)
	if phone != "" {
		phone = NormalizePhone(phone)
	}

	if email != "" && e.rules.IsValidEmail(email) {
		return Result{Email: email, Phone: phone, Origin: model.OriginPage}, true
	}

	if hasName {
		for _, domain := range ExtractDomains(page) {
			for _, c := range Candidates(first, last, domain) {
				if strings.Contains(page, c) && e.rules.IsValidEmail(c) {
					return Result{Email: c, Phone: phone, Origin: model.OriginPattern}, true
				}
			}
		}
	}

	if phone != "" {
		return Result{Phone: phone, Origin: model.OriginNone}, true
	}
	return Result{}, false
}

func baseQuery(name, hint string) string {
	var parts []string
	if name = strings.TrimSpace(name); name != "" {
		parts = append(parts, `"`+name+`"`)
	}
	if hint = strings.TrimSpace(hint); hint != "" {
		parts = append(parts, hint)
	}
	return strings.Join(parts, " ")
}
