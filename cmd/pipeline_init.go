package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/aggregate"
	"github.com/sells-group/prospect-cli/internal/enrich"
	"github.com/sells-group/prospect-cli/internal/metrics"
	"github.com/sells-group/prospect-cli/internal/resilience"
	"github.com/sells-group/prospect-cli/internal/scrape"
	"github.com/sells-group/prospect-cli/internal/search"
	"github.com/sells-group/prospect-cli/internal/store"
	"github.com/sells-group/prospect-cli/pkg/jina"
	"github.com/sells-group/prospect-cli/pkg/linkedin"
	"github.com/sells-group/prospect-cli/pkg/pagesjaunes"
	"github.com/sells-group/prospect-cli/pkg/serpapi"
)

// pipelineEnv holds the clients and services shared by the scrape, enrich
// and serve commands.
type pipelineEnv struct {
	Store      store.Store // nil when caching is disabled
	Provider   search.Provider
	Enricher   *enrich.Enricher
	Aggregator *aggregate.Aggregator
}

// Close releases resources held by the environment.
func (pe *pipelineEnv) Close() {
	if pe.Store != nil {
		_ = pe.Store.Close()
	}
}

// initPipeline validates the config for mode, opens the page cache and
// wires every source client. Callers should defer env.Close().
func initPipeline(ctx context.Context, mode string) (*pipelineEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	if st != nil {
		if err := st.Migrate(ctx); err != nil {
			_ = st.Close()
			return nil, eris.Wrap(err, "migrate store")
		}
	}

	jinaOpts := []jina.Option{jina.WithBaseURL(cfg.Jina.BaseURL)}
	if cfg.Jina.SearchBaseURL != "" {
		jinaOpts = append(jinaOpts, jina.WithSearchBaseURL(cfg.Jina.SearchBaseURL))
	}
	jinaClient := jina.NewClient(cfg.Jina.Key, jinaOpts...)

	provider := initProvider(jinaClient)

	pageMin, pageMax := cfg.Aggregate.PageDelay()
	paginator := search.NewPaginator(provider, search.JitterSleeper{}, pageMin, pageMax)

	var linkedinClient linkedin.Client
	lc, err := linkedin.NewClient(cfg.LinkedIn.APIBaseURL, cfg.LinkedIn.APIToken,
		linkedin.WithTimeout(seconds(cfg.LinkedIn.TimeoutSecs)))
	switch {
	case err == nil:
		linkedinClient = lc
		zap.L().Info("linkedin profile api enabled")
	case eris.Is(err, linkedin.ErrNotConfigured):
		zap.L().Debug("PROSPECT_LINKEDIN_API_TOKEN not set, falling back to site search")
	default:
		if st != nil {
			_ = st.Close()
		}
		return nil, eris.Wrap(err, "init linkedin client")
	}

	pjOpts := []pagesjaunes.Option{pagesjaunes.WithBaseURL(cfg.PagesJaunes.BaseURL)}
	if cfg.Fetch.UserAgent != "" {
		pjOpts = append(pjOpts, pagesjaunes.WithUserAgent(cfg.Fetch.UserAgent))
	}
	pjClient := pagesjaunes.NewClient(pjOpts...)

	rules := enrich.NewExclusionRules(cfg.Enrich.ExcludedDomains, cfg.Enrich.ExcludedLocalParts)
	enricher := enrich.New(provider, initFetcher(st, jinaClient), rules)

	agg := aggregate.New(cfg, aggregate.Deps{
		Paginator:   paginator,
		LinkedIn:    linkedinClient,
		PagesJaunes: pjClient,
		Enricher:    enricher,
		Sleeper:     search.JitterSleeper{},
	})

	return &pipelineEnv{
		Store:      st,
		Provider:   provider,
		Enricher:   enricher,
		Aggregator: agg,
	}, nil
}

// initProvider prefers SerpAPI and falls back to Jina Search when no key is
// configured.
func initProvider(jinaClient jina.Client) search.Provider {
	if cfg.SerpAPI.Key == "" {
		zap.L().Warn("PROSPECT_SERPAPI_KEY not set, using jina search (single page per query)")
		return search.NewJinaProvider(jinaClient)
	}
	client := serpapi.NewClient(cfg.SerpAPI.Key,
		serpapi.WithBaseURL(cfg.SerpAPI.BaseURL),
		serpapi.WithLanguage(cfg.SerpAPI.Language),
		serpapi.WithHTTPClient(&http.Client{Timeout: seconds(cfg.SerpAPI.TimeoutSecs)}),
	)
	return search.NewSerpProvider(client, search.SerpOptions{
		RateLimit:        cfg.SerpAPI.RateLimit,
		MaxAttempts:      cfg.SerpAPI.MaxAttempts,
		BreakerThreshold: cfg.SerpAPI.BreakerThreshold,
	})
}

// initFetcher builds the page chain used by enrichment: direct HTTP first,
// then Jina Reader. Results are cached when a store is configured.
func initFetcher(st store.Store, jinaClient jina.Client) *scrape.Chain {
	var local scrape.Scraper = scrape.NewLocalScraper(scrape.LocalOptions{
		UserAgent:    cfg.Fetch.UserAgent,
		Timeout:      seconds(cfg.Fetch.TimeoutSecs),
		MaxBodyBytes: int64(cfg.Fetch.MaxBodyKB) * 1024,
	})
	breakerCfg := resilience.DefaultBreakerConfig()
	breakerCfg.OnStateChange = metrics.BreakerStateChanged
	var reader scrape.Scraper = scrape.NewJinaScraper(jinaClient, resilience.NewBreaker("jina", breakerCfg))

	if st != nil {
		ttl := time.Duration(cfg.Fetch.CacheTTLHours) * time.Hour
		local = scrape.NewCachedScraper(local, st, ttl)
		reader = scrape.NewCachedScraper(reader, st, ttl)
	}
	return scrape.NewChain(scrape.NewPathMatcher(cfg.Fetch.ExcludePaths), local, reader)
}

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }
