// Package linkedin provides a client for the professional-network profile
// API.
package linkedin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/resilience"
)

// ErrNotConfigured is returned by NewClient when the base URL or token is
// missing.
var ErrNotConfigured = eris.New("linkedin: api_base_url and api_token are required")

// Client defines the profile API operations.
type Client interface {
	SearchProfiles(ctx context.Context, req SearchRequest) ([]Profile, error)
	ProfileDetails(ctx context.Context, profileURL string) (*ProfileDetails, error)
}

// SearchRequest holds profile search filters. Empty filters are omitted.
type SearchRequest struct {
	Title       string
	Industry    string
	Location    string
	Company     string
	Job         string
	CompanySize string
	Limit       int
}

// Profile is one search result. The API is inconsistent about field names,
// so alternates are kept side by side.
type Profile struct {
	Name       string `json:"name"`
	FullName   string `json:"full_name"`
	Headline   string `json:"headline"`
	Title      string `json:"title"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Location   string `json:"location"`
	ProfileURL string `json:"profile_url"`
	URL        string `json:"url"`
}

// ProfileDetails is the detail view of one profile.
type ProfileDetails struct {
	Name        string            `json:"name"`
	Headline    string            `json:"headline"`
	Title       string            `json:"title"`
	Summary     string            `json:"summary"`
	Location    string            `json:"location"`
	Phone       string            `json:"phone"`
	Email       string            `json:"email"`
	Experiences []json.RawMessage `json:"experiences"`
	Education   []json.RawMessage `json:"education"`
	Skills      []string          `json:"skills"`
}

// Option configures the client.
type Option func(*httpClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.http = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

type httpClient struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a profile API client.
func NewClient(baseURL, token string, opts ...Option) (Client, error) {
	if strings.TrimSpace(baseURL) == "" || strings.TrimSpace(token) == "" {
		return nil, ErrNotConfigured
	}
	c := &httpClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *httpClient) SearchProfiles(ctx context.Context, req SearchRequest) ([]Profile, error) {
	params := url.Values{}
	set := func(k, v string) {
		if v = strings.TrimSpace(v); v != "" {
			params.Set(k, v)
		}
	}
	set("title", req.Title)
	set("industry", req.Industry)
	set("location", req.Location)
	set("company", req.Company)
	set("job", req.Job)
	set("company_size", req.CompanySize)
	if req.Limit > 0 {
		params.Set("limit", strconv.Itoa(req.Limit))
	}

	var profiles []Profile
	if err := c.getJSON(ctx, "/profiles/search", params, &profiles); err != nil {
		return nil, eris.Wrap(err, "linkedin: search profiles")
	}
	return profiles, nil
}

func (c *httpClient) ProfileDetails(ctx context.Context, profileURL string) (*ProfileDetails, error) {
	var d ProfileDetails
	if err := c.getJSON(ctx, "/profiles/details", url.Values{"url": {profileURL}}, &d); err != nil {
		return nil, eris.Wrap(err, "linkedin: profile details")
	}
	return &d, nil
}

func (c *httpClient) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return eris.Wrap(err, "create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return resilience.StatusError("linkedin", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return eris.Wrap(err, "decode response")
	}
	return nil
}
