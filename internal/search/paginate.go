package search

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/model"
)

// Paginator pulls successive pages from a Provider until it has enough hits.
type Paginator struct {
	provider Provider
	sleeper  Sleeper
	delayMin time.Duration
	delayMax time.Duration
}

// NewPaginator creates a Paginator pausing in [delayMin, delayMax] after
// every page. A nil sleeper uses JitterSleeper.
func NewPaginator(provider Provider, sleeper Sleeper, delayMin, delayMax time.Duration) *Paginator {
	if sleeper == nil {
		sleeper = JitterSleeper{}
	}
	return &Paginator{provider: provider, sleeper: sleeper, delayMin: delayMin, delayMax: delayMax}
}

// Provider returns the wrapped provider.
func (p *Paginator) Provider() Provider { return p.provider }

// Collect gathers up to target hits for text. Each page asks for
// min(pageCap, target-collected) hits and the offset advances by that page
// size. It stops once target is reached or a page comes back empty. Failed
// pages are never retried here.
func (p *Paginator) Collect(ctx context.Context, text string, target, pageCap int, engine model.EngineKind) []model.SearchHit {
	if target < 1 {
		return nil
	}
	if pageCap < 1 {
		pageCap = 1
	}

	var hits []model.SearchHit
	offset := 0
	for len(hits) < target {
		if ctx.Err() != nil {
			break
		}

		size := min(pageCap, target-len(hits))
		page := p.provider.Query(ctx, Query{Text: text, PageSize: size, Offset: offset, Engine: engine})
		hits = append(hits, page...)
		offset += size

		p.sleeper.Sleep(ctx, p.delayMin, p.delayMax)

		if len(page) == 0 {
			break
		}
	}

	zap.L().Debug("search: collected",
		zap.String("provider", p.provider.Name()),
		zap.String("query", text),
		zap.String("engine", string(engine)),
		zap.Int("hits", len(hits)),
		zap.Int("target", target),
	)

	if len(hits) > target {
		hits = hits[:target]
	}
	return hits
}

// Page fetches a single page of up to size hits at offset 0.
func (p *Paginator) Page(ctx context.Context, text string, size int, engine model.EngineKind) []model.SearchHit {
	if size < 1 {
		return nil
	}
	return p.provider.Query(ctx, Query{Text: text, PageSize: size, Engine: engine})
}
