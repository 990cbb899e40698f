package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	SerpAPI     SerpAPIConfig     `yaml:"serpapi" mapstructure:"serpapi"`
	LinkedIn    LinkedInConfig    `yaml:"linkedin" mapstructure:"linkedin"`
	PagesJaunes PagesJaunesConfig `yaml:"pagesjaunes" mapstructure:"pagesjaunes"`
	Jina        JinaConfig        `yaml:"jina" mapstructure:"jina"`
	Fetch       FetchConfig       `yaml:"fetch" mapstructure:"fetch"`
	Aggregate   AggregateConfig   `yaml:"aggregate" mapstructure:"aggregate"`
	Enrich      EnrichConfig      `yaml:"enrich" mapstructure:"enrich"`
	Store       StoreConfig       `yaml:"store" mapstructure:"store"`
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
}

// SerpAPIConfig holds SerpAPI search settings.
type SerpAPIConfig struct {
	Key              string  `yaml:"key" mapstructure:"key"`
	BaseURL          string  `yaml:"base_url" mapstructure:"base_url"`
	Language         string  `yaml:"language" mapstructure:"language"`
	TimeoutSecs      int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RateLimit        float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	MaxAttempts      int     `yaml:"max_attempts" mapstructure:"max_attempts"`
	BreakerThreshold int     `yaml:"breaker_threshold" mapstructure:"breaker_threshold"`
}

// LinkedInConfig holds the professional-network profile API settings.
type LinkedInConfig struct {
	APIToken    string `yaml:"api_token" mapstructure:"api_token"`
	APIBaseURL  string `yaml:"api_base_url" mapstructure:"api_base_url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	// FetchDetails reads the detail view of profiles missing an email or phone.
	FetchDetails bool `yaml:"fetch_details" mapstructure:"fetch_details"`
}

// PagesJaunesConfig configures the business directory source.
type PagesJaunesConfig struct {
	BaseURL      string `yaml:"base_url" mapstructure:"base_url"`
	FetchDetails bool   `yaml:"fetch_details" mapstructure:"fetch_details"`
}

// JinaConfig holds Jina AI Reader and Search settings.
type JinaConfig struct {
	Key           string `yaml:"key" mapstructure:"key"`
	BaseURL       string `yaml:"base_url" mapstructure:"base_url"`
	SearchBaseURL string `yaml:"search_base_url" mapstructure:"search_base_url"`
}

// FetchConfig configures page fetching during enrichment.
type FetchConfig struct {
	TimeoutSecs   int      `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	UserAgent     string   `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyKB     int      `yaml:"max_body_kb" mapstructure:"max_body_kb"`
	CacheTTLHours int      `yaml:"cache_ttl_hours" mapstructure:"cache_ttl_hours"`
	ExcludePaths  []string `yaml:"exclude_paths" mapstructure:"exclude_paths"`
}

// AggregateConfig configures the multi-source aggregation.
type AggregateConfig struct {
	DefaultSources   []string `yaml:"default_sources" mapstructure:"default_sources"`
	MaxResults       int      `yaml:"max_results" mapstructure:"max_results"`
	MaxResultsCap    int      `yaml:"max_results_cap" mapstructure:"max_results_cap"`
	PageSizeCap      int      `yaml:"page_size_cap" mapstructure:"page_size_cap"`
	ProfileResults   int      `yaml:"profile_results" mapstructure:"profile_results"`
	PageDelayMinMs   int      `yaml:"page_delay_min_ms" mapstructure:"page_delay_min_ms"`
	PageDelayMaxMs   int      `yaml:"page_delay_max_ms" mapstructure:"page_delay_max_ms"`
	SourceDelayMinMs int      `yaml:"source_delay_min_ms" mapstructure:"source_delay_min_ms"`
	SourceDelayMaxMs int      `yaml:"source_delay_max_ms" mapstructure:"source_delay_max_ms"`
}

// PageDelay returns the inter-page jitter interval.
func (c AggregateConfig) PageDelay() (time.Duration, time.Duration) {
	return ms(c.PageDelayMinMs), ms(c.PageDelayMaxMs)
}

// SourceDelay returns the inter-source jitter interval.
func (c AggregateConfig) SourceDelay() (time.Duration, time.Duration) {
	return ms(c.SourceDelayMinMs), ms(c.SourceDelayMaxMs)
}

func ms(v int) time.Duration { return time.Duration(v) * time.Millisecond }

// EnrichConfig configures contact inference.
type EnrichConfig struct {
	Enabled            bool     `yaml:"enabled" mapstructure:"enabled"`
	Sources            []string `yaml:"sources" mapstructure:"sources"`
	MaxCandidatePages  int      `yaml:"max_candidate_pages" mapstructure:"max_candidate_pages"`
	ExcludedDomains    []string `yaml:"excluded_domains" mapstructure:"excluded_domains"`
	ExcludedLocalParts []string `yaml:"excluded_local_parts" mapstructure:"excluded_local_parts"`
}

// StoreConfig configures the fetched-page cache backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PROSPECT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("serpapi.base_url", "https://serpapi.com")
	v.SetDefault("serpapi.language", "fr")
	v.SetDefault("serpapi.timeout_secs", 30)
	v.SetDefault("serpapi.rate_limit", 5)
	v.SetDefault("serpapi.max_attempts", 2)
	v.SetDefault("serpapi.breaker_threshold", 5)
	v.SetDefault("linkedin.timeout_secs", 30)
	v.SetDefault("linkedin.fetch_details", false)
	v.SetDefault("pagesjaunes.base_url", "https://www.pagesjaunes.fr")
	v.SetDefault("pagesjaunes.fetch_details", false)
	v.SetDefault("jina.base_url", "https://r.jina.ai")
	v.SetDefault("jina.search_base_url", "https://s.jina.ai")
	v.SetDefault("fetch.timeout_secs", 10)
	v.SetDefault("fetch.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	v.SetDefault("fetch.max_body_kb", 1024)
	v.SetDefault("fetch.cache_ttl_hours", 24)
	v.SetDefault("fetch.exclude_paths", []string{"*.pdf", "*.jpg", "*.jpeg", "*.png", "*.zip", "*.mp4"})
	v.SetDefault("aggregate.default_sources", []string{"google"})
	v.SetDefault("aggregate.max_results", 50)
	v.SetDefault("aggregate.max_results_cap", 5000)
	v.SetDefault("aggregate.page_size_cap", 100)
	v.SetDefault("aggregate.profile_results", 20)
	v.SetDefault("aggregate.page_delay_min_ms", 300)
	v.SetDefault("aggregate.page_delay_max_ms", 700)
	v.SetDefault("aggregate.source_delay_min_ms", 800)
	v.SetDefault("aggregate.source_delay_max_ms", 2200)
	v.SetDefault("enrich.enabled", true)
	v.SetDefault("enrich.sources", []string{"google"})
	v.SetDefault("enrich.max_candidate_pages", 5)
	v.SetDefault("enrich.excluded_domains", DefaultExcludedDomains())
	v.SetDefault("enrich.excluded_local_parts", DefaultExcludedLocalParts())
	v.SetDefault("store.driver", "none")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.cors_origins", []string{"http://localhost:4200", "http://127.0.0.1:4200", "http://localhost:8080"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// DefaultExcludedDomains lists email domains that never belong to a person.
func DefaultExcludedDomains() []string {
	return []string{
		"sentry.io", "amznses.com", "amazonses.com", "example.com", "mailinator.com",
		"noreply.com", "no-reply.com", "donotreply.com", "reply.github.com",
	}
}

// DefaultExcludedLocalParts lists local-part fragments of unattended mailboxes.
func DefaultExcludedLocalParts() []string {
	return []string{"noreply", "no-reply", "donotreply", "do-not-reply"}
}

// Validate checks the settings required by a command mode: "scrape",
// "enrich" or "serve".
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "scrape", "enrich":
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, "server.port must be > 0 and <= 65535")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	a := c.Aggregate
	if a.MaxResultsCap < 1 {
		errs = append(errs, "aggregate.max_results_cap must be >= 1")
	}
	if a.MaxResults < 1 || (a.MaxResultsCap >= 1 && a.MaxResults > a.MaxResultsCap) {
		errs = append(errs, "aggregate.max_results must be between 1 and max_results_cap")
	}
	if a.PageSizeCap < 1 {
		errs = append(errs, "aggregate.page_size_cap must be >= 1")
	}
	if a.PageDelayMinMs < 0 || a.PageDelayMinMs > a.PageDelayMaxMs {
		errs = append(errs, "aggregate.page_delay_min_ms must be >= 0 and <= page_delay_max_ms")
	}
	if a.SourceDelayMinMs < 0 || a.SourceDelayMinMs > a.SourceDelayMaxMs {
		errs = append(errs, "aggregate.source_delay_min_ms must be >= 0 and <= source_delay_max_ms")
	}
	if c.Enrich.MaxCandidatePages < 1 {
		errs = append(errs, "enrich.max_candidate_pages must be >= 1")
	}

	switch c.Store.Driver {
	case "", "none":
	case "sqlite", "postgres":
		if c.Store.Driver == "postgres" && c.Store.DatabaseURL == "" {
			errs = append(errs, "store.database_url is required for postgres")
		}
	default:
		errs = append(errs, fmt.Sprintf("store.driver %q is not supported", c.Store.Driver))
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
