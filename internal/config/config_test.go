package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "none", cfg.Store.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Contains(t, cfg.Server.CORSOrigins, "http://localhost:4200")
	assert.Equal(t, "https://serpapi.com", cfg.SerpAPI.BaseURL)
	assert.Equal(t, "fr", cfg.SerpAPI.Language)
	assert.Equal(t, 2, cfg.SerpAPI.MaxAttempts)
	assert.Equal(t, "https://r.jina.ai", cfg.Jina.BaseURL)
	assert.Equal(t, "https://www.pagesjaunes.fr", cfg.PagesJaunes.BaseURL)
	assert.Equal(t, 10, cfg.Fetch.TimeoutSecs)
	assert.Equal(t, 24, cfg.Fetch.CacheTTLHours)
	assert.Equal(t, []string{"google"}, cfg.Aggregate.DefaultSources)
	assert.Equal(t, 50, cfg.Aggregate.MaxResults)
	assert.Equal(t, 5000, cfg.Aggregate.MaxResultsCap)
	assert.Equal(t, 100, cfg.Aggregate.PageSizeCap)
	assert.Equal(t, 20, cfg.Aggregate.ProfileResults)
	assert.True(t, cfg.Enrich.Enabled)
	assert.Equal(t, 5, cfg.Enrich.MaxCandidatePages)
	assert.Contains(t, cfg.Enrich.ExcludedDomains, "sentry.io")
	assert.Contains(t, cfg.Enrich.ExcludedLocalParts, "noreply")
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
store:
  driver: sqlite
log:
  level: debug
  format: console
server:
  port: 9090
aggregate:
  default_sources: [google, pagesjaunes]
  max_results: 20
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"google", "pagesjaunes"}, cfg.Aggregate.DefaultSources)
	assert.Equal(t, 20, cfg.Aggregate.MaxResults)
	// Defaults still apply for unset values
	assert.Equal(t, 100, cfg.Aggregate.PageSizeCap)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
store:
  driver: sqlite
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("PROSPECT_STORE_DRIVER", "postgres")
	t.Setenv("PROSPECT_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)

	t.Setenv("PROSPECT_SERVER_PORT", "3000")
	t.Setenv("PROSPECT_SERPAPI_KEY", "serp-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "serp-key", cfg.SerpAPI.Key)
}

func TestAggregateDelays(t *testing.T) {
	a := AggregateConfig{PageDelayMinMs: 300, PageDelayMaxMs: 700, SourceDelayMinMs: 800, SourceDelayMaxMs: 2200}

	lo, hi := a.PageDelay()
	assert.Equal(t, 300*time.Millisecond, lo)
	assert.Equal(t, 700*time.Millisecond, hi)

	lo, hi = a.SourceDelay()
	assert.Equal(t, 800*time.Millisecond, lo)
	assert.Equal(t, 2200*time.Millisecond, hi)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Aggregate = AggregateConfig{
		MaxResults:       50,
		MaxResultsCap:    5000,
		PageSizeCap:      100,
		PageDelayMinMs:   300,
		PageDelayMaxMs:   700,
		SourceDelayMinMs: 800,
		SourceDelayMaxMs: 2200,
	}
	cfg.Enrich.MaxCandidatePages = 5
	cfg.Store.Driver = "none"
	cfg.Server.Port = 5000
	return cfg
}

func TestValidateScrape_Defaults(t *testing.T) {
	assert.NoError(t, validDefaults().Validate("scrape"))
	assert.NoError(t, validDefaults().Validate("enrich"))
}

func TestValidateServe_ValidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 9090

	assert.NoError(t, cfg.Validate("serve"))
}

func TestValidateServe_InvalidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestValidateMaxResultsBounds(t *testing.T) {
	cfg := validDefaults()

	cfg.Aggregate.MaxResults = 0
	err := cfg.Validate("scrape")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "aggregate.max_results must be between 1 and max_results_cap")

	cfg.Aggregate.MaxResults = 5001
	err = cfg.Validate("scrape")
	assert.Error(t, err)

	cfg.Aggregate.MaxResults = 5000
	assert.NoError(t, cfg.Validate("scrape"))
}

func TestValidateDelayOrdering(t *testing.T) {
	cfg := validDefaults()
	cfg.Aggregate.PageDelayMinMs = 900

	err := cfg.Validate("scrape")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "page_delay_min_ms")

	cfg = validDefaults()
	cfg.Aggregate.SourceDelayMinMs = -1
	err = cfg.Validate("scrape")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "source_delay_min_ms")
}

func TestValidateStoreDriver(t *testing.T) {
	cfg := validDefaults()
	cfg.Store.Driver = "postgres"

	err := cfg.Validate("scrape")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "store.database_url is required")

	cfg.Store.DatabaseURL = "postgres://localhost/prospect"
	assert.NoError(t, cfg.Validate("scrape"))

	cfg.Store.Driver = "mongo"
	err = cfg.Validate("scrape")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not supported")
}

func TestValidateCandidatePages(t *testing.T) {
	cfg := validDefaults()
	cfg.Enrich.MaxCandidatePages = 0

	err := cfg.Validate("enrich")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "enrich.max_candidate_pages")
}
