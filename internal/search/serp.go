package search

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/prospect-cli/internal/metrics"
	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/resilience"
	"github.com/sells-group/prospect-cli/pkg/serpapi"
)

// SerpOptions tunes a SerpProvider.
type SerpOptions struct {
	// RateLimit is requests per second. Zero disables limiting.
	RateLimit   float64
	MaxAttempts int
	// BreakerThreshold is the run of failed pages that opens the breaker.
	BreakerThreshold int
}

// SerpProvider queries SerpAPI for web and maps results.
type SerpProvider struct {
	client  serpapi.Client
	limiter *rate.Limiter
	retry   resilience.RetryConfig
	breaker *resilience.Breaker
}

// NewSerpProvider wraps a SerpAPI client with rate limiting, retries and a
// circuit breaker.
func NewSerpProvider(client serpapi.Client, opts SerpOptions) *SerpProvider {
	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}

	bc := resilience.DefaultBreakerConfig()
	if opts.BreakerThreshold > 0 {
		bc.Threshold = opts.BreakerThreshold
	}
	bc.OnStateChange = metrics.BreakerStateChanged

	retry := resilience.DefaultRetryConfig().WithMaxAttempts(opts.MaxAttempts)
	retry.OnRetry = resilience.RetryLogger("serpapi", "search")

	return &SerpProvider{
		client:  client,
		limiter: rate.NewLimiter(limit, 1),
		retry:   retry,
		breaker: resilience.NewBreaker("serpapi", bc),
	}
}

func (p *SerpProvider) Name() string { return "serpapi" }

// Breaker exposes the provider breaker.
func (p *SerpProvider) Breaker() *resilience.Breaker { return p.breaker }

func (p *SerpProvider) Query(ctx context.Context, q Query) []model.SearchHit {
	if strings.TrimSpace(q.Text) == "" || q.PageSize < 1 {
		return nil
	}

	req := serpapi.SearchRequest{
		Query:  q.Text,
		Engine: serpapi.EngineGoogle,
		Num:    q.PageSize,
		Start:  q.Offset,
	}
	if q.Engine == model.EngineMaps {
		req.Engine = serpapi.EngineGoogleMaps
	}

	resp, err := resilience.Call(ctx, p.breaker, func(ctx context.Context) (*serpapi.SearchResponse, error) {
		return resilience.DoVal(ctx, p.retry, func(ctx context.Context) (*serpapi.SearchResponse, error) {
			if err := p.limiter.Wait(ctx); err != nil {
				return nil, err
			}
			return p.client.Search(ctx, req)
		})
	})
	if err != nil {
		zap.L().Warn("search: serpapi page failed",
			zap.String("query", q.Text),
			zap.String("engine", string(q.Engine)),
			zap.Int("offset", q.Offset),
			zap.Error(err),
		)
		metrics.ObserveSearch(p.Name(), string(q.Engine), metrics.OutcomeError)
		return nil
	}

	var hits []model.SearchHit
	if q.Engine == model.EngineMaps {
		hits = localHits(resp.LocalResults)
	} else {
		hits = organicHits(resp.OrganicResults)
	}

	outcome := metrics.OutcomeOK
	if len(hits) == 0 {
		outcome = metrics.OutcomeEmpty
	}
	metrics.ObserveSearch(p.Name(), string(q.Engine), outcome)
	return hits
}

func organicHits(results []serpapi.OrganicResult) []model.SearchHit {
	hits := make([]model.SearchHit, 0, len(results))
	for _, r := range results {
		hits = append(hits, model.SearchHit{
			Title:   r.Title,
			Link:    r.Link,
			Snippet: r.Snippet,
			Engine:  model.EngineWeb,
		})
	}
	return hits
}

func localHits(results []serpapi.LocalResult) []model.SearchHit {
	hits := make([]model.SearchHit, 0, len(results))
	for _, r := range results {
		hits = append(hits, model.SearchHit{
			Title:   r.Title,
			Link:    model.FirstNonEmpty(r.Link, r.Website),
			Snippet: model.FirstNonEmpty(r.Type, r.Address),
			Phone:   strings.TrimSpace(r.Phone),
			Engine:  model.EngineMaps,
		})
	}
	return hits
}
