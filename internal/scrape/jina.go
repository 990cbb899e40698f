package scrape

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/model"
	"github.com/sells-group/prospect-cli/internal/resilience"
	"github.com/sells-group/prospect-cli/pkg/jina"
)

// JinaScraper fetches pages through Jina Reader, for sites that block
// direct requests.
type JinaScraper struct {
	client  jina.Client
	breaker *resilience.Breaker
}

// NewJinaScraper wraps a Jina client. The breaker may be nil.
func NewJinaScraper(client jina.Client, breaker *resilience.Breaker) *JinaScraper {
	if breaker == nil {
		breaker = resilience.NewBreaker("jina", resilience.BreakerConfig{Threshold: 3})
	}
	return &JinaScraper{client: client, breaker: breaker}
}

func (j *JinaScraper) Name() string { return "jina" }

// Supports is false while the breaker is open so the chain skips straight
// to the next scraper.
func (j *JinaScraper) Supports(_ string) bool {
	return j.breaker.State() != resilience.Open
}

func (j *JinaScraper) Scrape(ctx context.Context, targetURL string) (*Result, error) {
	resp, err := resilience.Call(ctx, j.breaker, func(ctx context.Context) (*jina.ReadResponse, error) {
		resp, err := j.client.Read(ctx, targetURL, jina.WithFormat(jina.FormatHTML))
		if err != nil {
			return nil, err
		}
		if unusable(resp) {
			return nil, eris.New("jina: unusable response")
		}
		return resp, nil
	})
	if err != nil {
		return nil, eris.Wrap(err, "jina: scrape")
	}

	url := resp.Data.URL
	if url == "" {
		url = targetURL
	}
	return &Result{
		Page: model.CrawledPage{
			URL:        url,
			Title:      resp.Data.Title,
			Content:    resp.Data.Content,
			StatusCode: 200,
		},
		Source: j.Name(),
	}, nil
}

var challengeSignatures = []string{
	"checking your browser",
	"enable javascript",
	"please enable cookies",
	"access denied",
	"just a moment",
	"attention required",
}

// unusable reports whether a Reader response is empty or a relayed
// challenge page.
func unusable(resp *jina.ReadResponse) bool {
	if resp == nil || (resp.Code != 0 && resp.Code != 200) {
		return true
	}
	content := strings.TrimSpace(resp.Data.Content)
	if len(content) < 100 {
		return true
	}
	if len(content) < 1000 {
		lower := strings.ToLower(content)
		for _, sig := range challengeSignatures {
			if strings.Contains(lower, sig) {
				return true
			}
		}
	}
	return false
}
