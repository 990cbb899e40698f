package scrape

import (
	"context"
	"io"
	"mime"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/time/rate"

	"github.com/sells-group/prospect-cli/internal/model"
)

// LocalOptions configures a LocalScraper.
type LocalOptions struct {
	UserAgent    string
	Timeout      time.Duration
	MaxBodyBytes int64
	// PerHostRate limits requests per second to any single host.
	PerHostRate rate.Limit
}

// LocalScraper fetches pages directly over HTTP. The raw markup is kept so
// mailto: links and obfuscated addresses stay visible to extraction.
type LocalScraper struct {
	client *http.Client
	opts   LocalOptions

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewLocalScraper creates a LocalScraper, filling zero options with
// defaults.
func NewLocalScraper(opts LocalOptions) *LocalScraper {
	if opts.UserAgent == "" {
		opts.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}
	if opts.PerHostRate <= 0 {
		opts.PerHostRate = 2
	}
	return &LocalScraper{
		client:   &http.Client{Timeout: opts.Timeout},
		opts:     opts,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (l *LocalScraper) Name() string           { return "local_http" }
func (l *LocalScraper) Supports(_ string) bool { return true }

func (l *LocalScraper) limiterFor(host string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.limiters[host]
	if !ok {
		lim = rate.NewLimiter(l.opts.PerHostRate, 1)
		l.limiters[host] = lim
	}
	return lim
}

// Scrape fetches targetURL. Blocked pages are errors; statuses >= 400 that
// are not an anti-bot wall return a *StatusError.
func (l *LocalScraper) Scrape(ctx context.Context, targetURL string) (*Result, error) {
	u, err := url.Parse(targetURL)
	if err != nil {
		return nil, eris.Wrap(err, "local_http: parse url")
	}
	if err := l.limiterFor(u.Host).Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "local_http: rate limiter wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "local_http: create request")
	}
	req.Header.Set("User-Agent", l.opts.UserAgent)
	req.Header.Set("Accept-Language", "fr-FR,fr;q=0.9,en;q=0.8")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "local_http: fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, l.opts.MaxBodyBytes))
	if err != nil {
		return nil, eris.Wrap(err, "local_http: read body")
	}

	if blocked, kind := DetectBlock(resp, body); blocked {
		return nil, eris.Errorf("local_http: blocked (%s)", kind)
	}
	if resp.StatusCode >= 400 {
		return nil, &StatusError{URL: targetURL, StatusCode: resp.StatusCode}
	}

	content := decodeBody(body, resp.Header.Get("Content-Type"))
	return &Result{
		Page: model.CrawledPage{
			URL:        targetURL,
			Title:      extractTitle(content),
			Content:    content,
			StatusCode: resp.StatusCode,
		},
		Source: l.Name(),
	}, nil
}

var metaCharsetRe = regexp.MustCompile(`(?i)<meta[^>]+charset=["']?([a-z0-9_\-]+)`)

// decodeBody converts body to UTF-8 using the Content-Type charset or a
// <meta charset> declaration. Unknown charsets pass through unchanged.
func decodeBody(body []byte, contentType string) string {
	charset := ""
	if _, params, err := mime.ParseMediaType(contentType); err == nil {
		charset = params["charset"]
	}
	if charset == "" {
		head := body
		if len(head) > 4096 {
			head = head[:4096]
		}
		if m := metaCharsetRe.FindSubmatch(head); m != nil {
			charset = string(m[1])
		}
	}
	if charset == "" || strings.EqualFold(charset, "utf-8") {
		return string(body)
	}

	enc, err := htmlindex.Get(charset)
	if err != nil {
		return string(body)
	}
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return string(body)
	}
	return string(decoded)
}

var titleRe = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)

func extractTitle(html string) string {
	if m := titleRe.FindStringSubmatch(html); m != nil {
		return strings.Join(strings.Fields(m[1]), " ")
	}
	return ""
}
