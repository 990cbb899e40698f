// Package pagesjaunes scrapes the PagesJaunes business directory.
package pagesjaunes

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"

	"github.com/sells-group/prospect-cli/internal/resilience"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// Client searches the directory and reads listing detail pages.
type Client interface {
	Search(ctx context.Context, activity, location string, limit int) ([]Listing, error)
	Details(ctx context.Context, listingURL string) (*Details, error)
}

// Listing is one business from a search results page. Missing values are
// empty.
type Listing struct {
	Name     string
	URL      string
	Address  string
	Phone    string
	Activity string
	Website  string
}

// Details is the content of a listing page.
type Details struct {
	URL         string
	Name        string
	Address     string
	Phone       string
	Email       string
	Website     string
	Description string
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *httpClient) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) { c.http = hc }
}

// WithUserAgent overrides the browser user agent.
func WithUserAgent(ua string) Option {
	return func(c *httpClient) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

type httpClient struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

// NewClient creates a directory client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL:   "https://www.pagesjaunes.fr",
		userAgent: defaultUserAgent,
		http:      &http.Client{Timeout: 20 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) Search(ctx context.Context, activity, location string, limit int) ([]Listing, error) {
	u := c.baseURL + "/recherche/ou=" + url.PathEscape(location) + "/quoi=" + url.PathEscape(activity)
	doc, err := c.document(ctx, u)
	if err != nil {
		return nil, eris.Wrap(err, "pagesjaunes: search")
	}
	return ParseListings(doc, c.baseURL, limit), nil
}

func (c *httpClient) Details(ctx context.Context, listingURL string) (*Details, error) {
	doc, err := c.document(ctx, listingURL)
	if err != nil {
		return nil, eris.Wrap(err, "pagesjaunes: details")
	}
	d := ParseDetails(doc)
	d.URL = listingURL
	return d, nil
}

func (c *httpClient) document(ctx context.Context, u string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, eris.Wrap(err, "create request")
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, resilience.StatusError("pagesjaunes", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "parse html")
	}
	return doc, nil
}

// ParseListings extracts up to limit businesses from a results page. A
// limit below 1 means no limit.
func ParseListings(doc *goquery.Document, baseURL string, limit int) []Listing {
	var out []Listing
	doc.Find("div.bi-bloc").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if limit > 0 && len(out) >= limit {
			return false
		}
		out = append(out, parseListing(s, baseURL))
		return true
	})
	return out
}

func parseListing(s *goquery.Selection, baseURL string) Listing {
	l := Listing{}

	name := s.Find("a.denomination-links").First()
	l.Name = text(name)
	if href, ok := name.Attr("href"); ok && href != "" {
		l.URL = resolve(baseURL, href)
	}

	l.Address = text(s.Find("a.adresse").First())

	if num := s.Find("span.num").First(); num.Length() > 0 {
		l.Phone = text(num)
	} else if p, ok := s.Find("a[data-phone]").First().Attr("data-phone"); ok {
		l.Phone = strings.TrimSpace(p)
	}

	l.Activity = text(s.Find("div.activite").First())
	l.Website, _ = s.Find("a.btn-website").First().Attr("href")
	return l
}

// ParseDetails extracts contact fields from a listing page.
func ParseDetails(doc *goquery.Document) *Details {
	d := &Details{
		Name:        text(doc.Find("h1.denom").First()),
		Address:     text(doc.Find("a.adresse").First()),
		Phone:       text(doc.Find("span.num").First()),
		Description: text(doc.Find("div.description").First()),
	}
	d.Website, _ = doc.Find("a.btn-website").First().Attr("href")

	if href, ok := doc.Find(`a[href^="mailto:"]`).First().Attr("href"); ok {
		addr := strings.TrimPrefix(href, "mailto:")
		if i := strings.IndexByte(addr, '?'); i >= 0 {
			addr = addr[:i]
		}
		d.Email = strings.TrimSpace(addr)
	}
	return d
}

func text(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}

func resolve(baseURL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	base, err := url.Parse(baseURL + "/")
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
