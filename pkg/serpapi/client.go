// Package serpapi provides a client for the SerpAPI search endpoint.
package serpapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/resilience"
)

// Engines understood by the client.
const (
	EngineGoogle     = "google"
	EngineGoogleMaps = "google_maps"
)

// Client runs one page of a SerpAPI search.
type Client interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)
}

// SearchRequest is one page of a query.
type SearchRequest struct {
	Query  string
	Engine string
	// Num is the page size. SerpAPI caps it around 100.
	Num int
	// Start is the zero-based result offset.
	Start int
}

// SearchResponse holds the result blocks used for contact lookups.
type SearchResponse struct {
	OrganicResults []OrganicResult `json:"organic_results"`
	LocalResults   []LocalResult   `json:"local_results"`
	Error          string          `json:"error,omitempty"`
}

// OrganicResult is a web search result.
type OrganicResult struct {
	Position int    `json:"position"`
	Title    string `json:"title"`
	Link     string `json:"link"`
	Snippet  string `json:"snippet"`
}

// LocalResult is a maps listing.
type LocalResult struct {
	Position int    `json:"position"`
	Title    string `json:"title"`
	Link     string `json:"link"`
	Website  string `json:"website"`
	Type     string `json:"type"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *httpClient) { c.baseURL = u }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.http = hc }
}

// WithLanguage sets the hl parameter. Default "fr".
func WithLanguage(hl string) Option {
	return func(c *httpClient) {
		if hl != "" {
			c.language = hl
		}
	}
}

type httpClient struct {
	apiKey   string
	baseURL  string
	language string
	http     *http.Client
}

// NewClient creates a SerpAPI client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:   apiKey,
		baseURL:  "https://serpapi.com",
		language: "fr",
		http:     &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	engine := req.Engine
	if engine == "" {
		engine = EngineGoogle
	}

	params := url.Values{}
	params.Set("q", req.Query)
	params.Set("engine", engine)
	params.Set("hl", c.language)
	params.Set("api_key", c.apiKey)
	params.Set("start", strconv.Itoa(req.Start))
	if req.Num > 0 {
		params.Set("num", strconv.Itoa(req.Num))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search.json?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "serpapi: create request")
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "serpapi: request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, resilience.StatusError("serpapi", resp.StatusCode)
	}

	var result SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, eris.Wrap(err, "serpapi: decode response")
	}
	if result.Error != "" && len(result.OrganicResults) == 0 && len(result.LocalResults) == 0 {
		// SerpAPI reports exhausted queries this way with a 200.
		if result.Error == "Google hasn't returned any results for this query." {
			return &result, nil
		}
		return nil, eris.Errorf("serpapi: %s", result.Error)
	}
	return &result, nil
}
