// Package jina provides a client for the Jina AI Reader and Search APIs.
package jina

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/resilience"
)

// Client defines the Jina AI operations used for contact lookups.
type Client interface {
	// Read fetches a page through Jina Reader.
	Read(ctx context.Context, targetURL string, opts ...ReadOption) (*ReadResponse, error)
	// Search runs a web search through Jina Search.
	Search(ctx context.Context, query string, opts ...SearchOption) (*SearchResponse, error)
}

// ReadResponse is the parsed Reader response.
type ReadResponse struct {
	Code int      `json:"code"`
	Data ReadData `json:"data"`
}

// ReadData holds the page content.
type ReadData struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// SearchResponse is the parsed Search response.
type SearchResponse struct {
	Code int            `json:"code"`
	Data []SearchResult `json:"data"`
}

// SearchResult is a single search hit.
type SearchResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Content     string `json:"content"`
	Description string `json:"description"`
}

// Format selects the Reader output.
type Format string

// Reader output formats.
const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatText     Format = "text"
)

// ReadOption configures a Read call.
type ReadOption func(*readOpts)

type readOpts struct {
	format Format
}

// WithFormat sets the Reader output format. Default is markdown.
func WithFormat(f Format) ReadOption {
	return func(o *readOpts) { o.format = f }
}

// SearchOption configures a Search call.
type SearchOption func(*searchOpts)

type searchOpts struct {
	siteFilter string
}

// WithSiteFilter restricts search results to one domain.
func WithSiteFilter(domain string) SearchOption {
	return func(o *searchOpts) { o.siteFilter = domain }
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL sets the Reader base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *httpClient) { c.baseURL = u }
}

// WithSearchBaseURL sets the Search base URL (for testing).
func WithSearchBaseURL(u string) Option {
	return func(c *httpClient) { c.searchBaseURL = u }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.http = hc }
}

// WithRetry overrides the retry policy.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *httpClient) { c.retry = cfg }
}

type httpClient struct {
	apiKey        string
	baseURL       string
	searchBaseURL string
	http          *http.Client
	retry         resilience.RetryConfig
}

// NewClient creates a Jina client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:        apiKey,
		baseURL:       "https://r.jina.ai",
		searchBaseURL: "https://s.jina.ai",
		http:          &http.Client{Timeout: 30 * time.Second},
		retry:         resilience.DefaultRetryConfig().WithMaxAttempts(3),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.retry.OnRetry = resilience.RetryLogger("jina", "request")
	return c
}

// get issues req with retries on transient failures and returns the body of
// the final response with its status code.
func (c *httpClient) get(ctx context.Context, reqURL string, header http.Header) ([]byte, int, error) {
	type reply struct {
		body   []byte
		status int
	}
	r, err := resilience.DoVal(ctx, c.retry, func(ctx context.Context) (reply, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return reply{}, eris.Wrap(err, "jina: create request")
		}
		req.Header = header.Clone()

		resp, err := c.http.Do(req)
		if err != nil {
			return reply{}, eris.Wrap(err, "jina: request")
		}
		defer func() { _ = resp.Body.Close() }()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return reply{}, eris.Wrap(err, "jina: read response body")
		}
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return reply{}, resilience.StatusError("jina", resp.StatusCode)
		}
		return reply{body: body, status: resp.StatusCode}, nil
	})
	return r.body, r.status, err
}

func (c *httpClient) header() http.Header {
	h := http.Header{}
	if c.apiKey != "" {
		h.Set("Authorization", "Bearer "+c.apiKey)
	}
	h.Set("Accept", "application/json")
	return h
}

func (c *httpClient) Read(ctx context.Context, targetURL string, opts ...ReadOption) (*ReadResponse, error) {
	ro := &readOpts{format: FormatMarkdown}
	for _, opt := range opts {
		opt(ro)
	}

	h := c.header()
	h.Set("X-Return-Format", string(ro.format))

	body, status, err := c.get(ctx, fmt.Sprintf("%s/%s", c.baseURL, targetURL), h)
	if err != nil {
		return nil, eris.Wrap(err, "jina: read")
	}
	if status != http.StatusOK {
		return nil, eris.Errorf("jina: read status %d", status)
	}

	var result ReadResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "jina: unmarshal read response")
	}
	return &result, nil
}

func (c *httpClient) Search(ctx context.Context, query string, opts ...SearchOption) (*SearchResponse, error) {
	so := &searchOpts{}
	for _, opt := range opts {
		opt(so)
	}

	reqURL := fmt.Sprintf("%s/%s", c.searchBaseURL, url.PathEscape(query))
	if so.siteFilter != "" {
		reqURL += "?site=" + url.QueryEscape(so.siteFilter)
	}

	body, status, err := c.get(ctx, reqURL, c.header())
	if err != nil {
		return nil, eris.Wrap(err, "jina: search")
	}

	// 422 means no results for the query.
	if status == http.StatusUnprocessableEntity {
		return &SearchResponse{Code: status}, nil
	}
	if status != http.StatusOK {
		return nil, eris.Errorf("jina: search status %d", status)
	}

	var result SearchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "jina: unmarshal search response")
	}
	return &result, nil
}
