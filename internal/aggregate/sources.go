package aggregate

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/contact"
	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/pkg/linkedin"
	"github.com/sells-group/prospect-cli/pkg/pagesjaunes"
)

// Source configuration errors.
var (
	ErrNoSearchProvider = eris.New("aggregate: no search provider configured")
	ErrNoTerms          = eris.New("aggregate: criteria have no usable search terms")
)

// sourceHandler produces the raw records of one source, in provider order.
type sourceHandler func(ctx context.Context, c model.Criteria, maxResults int) ([]model.ContactRecord, error)

func (a *Aggregator) sourceHandlers() map[model.Source]sourceHandler {
	return map[model.Source]sourceHandler{
		model.SourceLinkedIn:    a.linkedIn,
		model.SourceGoogle:      a.google,
		model.SourceGoogleMaps:  a.googleMaps,
		model.SourcePagesJaunes: a.pagesJaunes,
	}
}

// joinTerms joins the non-blank parts with single spaces.
func joinTerms(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

func (a *Aggregator) pageCap() int {
	if n := a.cfg.Aggregate.PageSizeCap; n > 0 {
		return n
	}
	return 100
}

func (a *Aggregator) linkedIn(ctx context.Context, c model.Criteria, maxResults int) ([]model.ContactRecord, error) {
	if a.deps.LinkedIn != nil {
		profiles, err := a.deps.LinkedIn.SearchProfiles(ctx, linkedin.SearchRequest{
			Title:       c.JobTerms(),
			Industry:    strings.TrimSpace(c.Sector),
			Location:    c.Place(),
			Company:     strings.TrimSpace(c.Company),
			Job:         strings.TrimSpace(c.Role),
			CompanySize: strings.TrimSpace(c.CompanySize),
			Limit:       maxResults,
		})
		if err != nil {
			return nil, eris.Wrap(err, "aggregate: linkedin profile search")
		}
		out := make([]model.ContactRecord, 0, len(profiles))
		for _, p := range profiles {
			out = append(out, a.withProfileDetails(ctx, contact.FromProfile(p)))
		}
		return out, nil
	}

	if a.deps.Paginator == nil {
		return nil, eris.Wrap(ErrNoSearchProvider, "aggregate: linkedin")
	}
	terms := joinTerms(c.JobTerms(), c.Place())
	if terms == "" {
		return nil, eris.Wrap(ErrNoTerms, "aggregate: linkedin")
	}
	hits := a.deps.Paginator.Collect(ctx, "site:linkedin.com/in "+terms, maxResults, a.pageCap(), model.EngineWeb)
	return webRecords(hits, model.SourceLinkedIn), nil
}

func (a *Aggregator) google(ctx context.Context, c model.Criteria, maxResults int) ([]model.ContactRecord, error) {
	if a.deps.Paginator == nil {
		return nil, eris.Wrap(ErrNoSearchProvider, "aggregate: google")
	}
	terms := joinTerms(c.WebTerms(), c.Place())
	if terms == "" {
		return nil, eris.Wrap(ErrNoTerms, "aggregate: google")
	}

	profileResults := a.cfg.Aggregate.ProfileResults
	if profileResults < 1 {
		profileResults = 20
	}
	q := joinTerms(c.WebTerms(), "profil professionnel", c.Place())
	hits := a.deps.Paginator.Page(ctx, q, min(profileResults, maxResults), model.EngineWeb)

	if needed := maxResults - len(hits); needed > 0 {
		hits = append(hits, a.deps.Paginator.Collect(ctx, terms, needed, a.pageCap(), model.EngineWeb)...)
	}
	return webRecords(hits, model.SourceGoogle), nil
}

func (a *Aggregator) googleMaps(ctx context.Context, c model.Criteria, maxResults int) ([]model.ContactRecord, error) {
	if a.deps.Paginator == nil {
		return nil, eris.Wrap(ErrNoSearchProvider, "aggregate: google_maps")
	}
	terms := joinTerms(c.WebTerms(), c.Place())
	if terms == "" {
		return nil, eris.Wrap(ErrNoTerms, "aggregate: google_maps")
	}

	hits := a.deps.Paginator.Collect(ctx, terms, maxResults, a.pageCap(), model.EngineMaps)
	out := make([]model.ContactRecord, 0, len(hits))
	for _, h := range hits {
		out = append(out, contact.FromMapsHit(h))
	}
	return out, nil
}

func (a *Aggregator) pagesJaunes(ctx context.Context, c model.Criteria, maxResults int) ([]model.ContactRecord, error) {
	activity := c.DirectoryTerms()
	if joinTerms(activity, c.Place()) == "" {
		return nil, eris.Wrap(ErrNoTerms, "aggregate: pagesjaunes")
	}

	if a.deps.Paginator != nil {
		q := joinTerms("site:pagesjaunes.fr", activity, c.Place())
		hits := a.deps.Paginator.Collect(ctx, q, maxResults, a.pageCap(), model.EngineWeb)
		out := webRecords(hits, model.SourcePagesJaunes)
		for i := range out {
			out[i] = a.withDirectoryDetails(ctx, out[i])
		}
		return out, nil
	}

	if a.deps.PagesJaunes == nil {
		return nil, eris.Wrap(ErrNoSearchProvider, "aggregate: pagesjaunes")
	}
	listings, err := a.deps.PagesJaunes.Search(ctx, activity, c.Place(), maxResults)
	if err != nil {
		return nil, eris.Wrap(err, "aggregate: pagesjaunes directory search")
	}
	out := make([]model.ContactRecord, 0, len(listings))
	for _, l := range listings {
		out = append(out, contact.FromListing(l, a.directoryDetails(ctx, l.URL)))
	}
	return out, nil
}

// directoryDetails reads a listing page when detail fetching is enabled. It
// returns nil when disabled or on failure.
func (a *Aggregator) directoryDetails(ctx context.Context, url string) *pagesjaunes.Details {
	if !a.cfg.PagesJaunes.FetchDetails || a.deps.PagesJaunes == nil || url == "" || ctx.Err() != nil {
		return nil
	}
	d, err := a.deps.PagesJaunes.Details(ctx, url)
	if err != nil {
		zap.L().Debug("aggregate: pagesjaunes details failed", zap.String("url", url), zap.Error(err))
		return nil
	}
	return d
}

// withDirectoryDetails fills the gaps of a web-sourced directory record from
// its listing page.
func (a *Aggregator) withDirectoryDetails(ctx context.Context, r model.ContactRecord) model.ContactRecord {
	if !strings.Contains(strings.ToLower(r.ProfileURL), "pagesjaunes.fr") {
		return r
	}
	d := a.directoryDetails(ctx, r.ProfileURL)
	if d == nil {
		return r
	}
	return contact.Normalize(model.ContactRecord{
		Name:        r.Name,
		Description: r.Description,
		Location:    contact.FirstPresent(contact.Value(r.Location), contact.Value(d.Address)),
		Email:       contact.FirstPresent(contact.Value(r.Email), contact.Value(d.Email)),
		Phone:       contact.FirstPresent(contact.Value(r.Phone), contact.Value(d.Phone)),
		ProfileURL:  r.ProfileURL,
		Source:      r.Source,
	})
}

// withProfileDetails fills a profile's missing email or phone from its
// detail view when enabled. Failures leave the record unchanged.
func (a *Aggregator) withProfileDetails(ctx context.Context, r model.ContactRecord) model.ContactRecord {
	if !a.cfg.LinkedIn.FetchDetails || (r.HasEmail() && r.HasPhone()) || !model.IsPresent(r.ProfileURL) || ctx.Err() != nil {
		return r
	}
	d, err := a.deps.LinkedIn.ProfileDetails(ctx, r.ProfileURL)
	if err != nil || d == nil {
		zap.L().Debug("aggregate: linkedin details failed", zap.String("url", r.ProfileURL), zap.Error(err))
		return r
	}
	return contact.Normalize(model.ContactRecord{
		Name:        r.Name,
		Description: contact.FirstPresent(contact.Value(r.Description), contact.Value(d.Headline), contact.Value(d.Title)),
		Location:    contact.FirstPresent(contact.Value(r.Location), contact.Value(d.Location)),
		Email:       contact.FirstPresent(contact.Value(r.Email), contact.Value(d.Email)),
		Phone:       contact.FirstPresent(contact.Value(r.Phone), contact.Value(d.Phone)),
		ProfileURL:  r.ProfileURL,
		Source:      r.Source,
	})
}

func webRecords(hits []model.SearchHit, src model.Source) []model.ContactRecord {
	out := make([]model.ContactRecord, 0, len(hits))
	for _, h := range hits {
		out = append(out, contact.FromWebHit(h, src))
	}
	return out
}
