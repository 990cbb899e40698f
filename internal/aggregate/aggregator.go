// Package aggregate runs a contact search across several sources and merges
// the results into one bounded, deduplicated list.
package aggregate

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/config"
	"github.com/sells-group/prospect-cli/internal/contact"
	"github.com/sells-group/prospect-cli/internal/enrich"
	"github.com/sells-group/prospect-cli/internal/metrics"
	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/search"
	"github.com/sells-group/prospect-cli/pkg/linkedin"
	"github.com/sells-group/prospect-cli/pkg/pagesjaunes"
)

// ContactEnricher fills missing emails and phones.
type ContactEnricher interface {
	Enrich(ctx context.Context, name, hint string, maxPages int) enrich.Result
}

// Deps holds the collaborators of an Aggregator. Nil members disable the
// sources that need them.
type Deps struct {
	Paginator   *search.Paginator
	LinkedIn    linkedin.Client
	PagesJaunes pagesjaunes.Client
	Enricher    ContactEnricher
	Sleeper     search.Sleeper
}

// Aggregator runs the per-source handlers in caller order. It keeps no state
// between calls.
type Aggregator struct {
	cfg      *config.Config
	deps     Deps
	handlers map[model.Source]sourceHandler
	enrichOn map[model.Source]bool
}

// New creates an Aggregator.
func New(cfg *config.Config, deps Deps) *Aggregator {
	if deps.Sleeper == nil {
		deps.Sleeper = search.JitterSleeper{}
	}
	a := &Aggregator{
		cfg:      cfg,
		deps:     deps,
		enrichOn: map[model.Source]bool{},
	}
	a.handlers = a.sourceHandlers()
	for _, name := range cfg.Enrich.Sources {
		if src, ok := model.ParseSource(name); ok {
			a.enrichOn[src] = true
		}
	}
	return a
}

// Aggregate queries each source for criteria and returns at most maxResults
// unique records. Sources run sequentially in the given order; an empty list
// uses the configured defaults. A failing or unknown source is reported in
// Failures and never aborts the request.
func (a *Aggregator) Aggregate(ctx context.Context, sources []string, criteria model.Criteria, maxResults int) model.AggregateResult {
	start := time.Now()
	defer metrics.ObserveAggregate(start)

	var res model.AggregateResult
	if maxResults < 1 {
		return res
	}
	if limit := a.cfg.Aggregate.MaxResultsCap; limit > 0 && maxResults > limit {
		maxResults = limit
	}

	names := a.resolveSources(sources)
	log := zap.L().With(zap.Strings("sources", names), zap.Int("max_results", maxResults))
	log.Info("aggregate: starting")

	var records []model.ContactRecord
	for i, name := range names {
		if ctx.Err() != nil {
			break
		}
		if i > 0 {
			lo, hi := a.cfg.Aggregate.SourceDelay()
			a.deps.Sleeper.Sleep(ctx, lo, hi)
		}

		src, ok := model.ParseSource(name)
		if !ok {
			log.Warn("aggregate: unknown source", zap.String("source", name))
			res.Failures = append(res.Failures, model.SourceFailure{Source: name, Reason: "unknown source"})
			continue
		}

		batch, err := a.handlers[src](ctx, criteria, maxResults)
		if err != nil {
			log.Warn("aggregate: source failed", zap.String("source", string(src)), zap.Error(err))
			metrics.IncSourceFailure(string(src))
			res.Failures = append(res.Failures, model.SourceFailure{Source: string(src), Reason: err.Error()})
			continue
		}
		if len(batch) > maxResults {
			batch = batch[:maxResults]
		}
		metrics.AddSourceRecords(string(src), len(batch))
		log.Debug("aggregate: source done", zap.String("source", string(src)), zap.Int("records", len(batch)))
		records = append(records, batch...)
	}

	records = contact.Dedupe(records)
	if a.cfg.Enrich.Enabled && a.deps.Enricher != nil {
		records = contact.Dedupe(a.enrichRecords(ctx, records, criteria, maxResults))
	}
	if len(records) > maxResults {
		records = records[:maxResults]
	}

	res.Records = records
	log.Info("aggregate: complete",
		zap.Int("records", len(records)),
		zap.Int("failures", len(res.Failures)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return res
}

func (a *Aggregator) resolveSources(sources []string) []string {
	var names []string
	for _, s := range sources {
		if s = strings.TrimSpace(s); s != "" {
			names = append(names, s)
		}
	}
	if len(names) == 0 {
		names = a.cfg.Aggregate.DefaultSources
	}
	if len(names) == 0 {
		names = []string{string(model.SourceGoogle)}
	}
	return names
}

// enrichRecords fills missing emails and phones on the records of enabled
// sources. Only the first limit records are looked up since the rest are
// truncated away.
func (a *Aggregator) enrichRecords(ctx context.Context, records []model.ContactRecord, criteria model.Criteria, limit int) []model.ContactRecord {
	out := make([]model.ContactRecord, len(records))
	copy(out, records)

	for i := range out {
		if i >= limit || ctx.Err() != nil {
			break
		}
		r := &out[i]
		if !a.enrichOn[r.Source] || (r.HasEmail() && r.HasPhone()) || !model.IsPresent(r.Name) {
			continue
		}

		hint := contact.FirstPresent(contact.Value(r.Description), criteria.Place)
		if hint == model.Placeholder {
			hint = ""
		}
		found := a.deps.Enricher.Enrich(ctx, r.Name, hint, a.cfg.Enrich.MaxCandidatePages)
		if !r.HasEmail() && found.Email != "" {
			r.Email = found.Email
			r.EmailOrigin = found.Origin
		}
		if !r.HasPhone() && found.Phone != "" {
			r.Phone = found.Phone
		}
	}
	return out
}
