package search

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/metrics"
	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/pkg/jina"
)

// JinaProvider serves the first page of web searches through Jina Search.
// It has no maps index and no paging.
type JinaProvider struct {
	client jina.Client
}

// NewJinaProvider wraps a Jina client.
func NewJinaProvider(client jina.Client) *JinaProvider {
	return &JinaProvider{client: client}
}

func (p *JinaProvider) Name() string { return "jina" }

func (p *JinaProvider) Query(ctx context.Context, q Query) []model.SearchHit {
	if q.Engine == model.EngineMaps || q.Offset > 0 || q.PageSize < 1 || strings.TrimSpace(q.Text) == "" {
		return nil
	}

	resp, err := p.client.Search(ctx, q.Text)
	if err != nil {
		zap.L().Warn("search: jina search failed", zap.String("query", q.Text), zap.Error(err))
		metrics.ObserveSearch(p.Name(), string(model.EngineWeb), metrics.OutcomeError)
		return nil
	}

	hits := make([]model.SearchHit, 0, len(resp.Data))
	for _, r := range resp.Data {
		if len(hits) == q.PageSize {
			break
		}
		hits = append(hits, model.SearchHit{
			Title:   r.Title,
			Link:    r.URL,
			Snippet: model.FirstNonEmpty(r.Description, r.Content),
			Engine:  model.EngineWeb,
		})
	}

	outcome := metrics.OutcomeOK
	if len(hits) == 0 {
		outcome = metrics.OutcomeEmpty
	}
	metrics.ObserveSearch(p.Name(), string(model.EngineWeb), outcome)
	return hits
}
