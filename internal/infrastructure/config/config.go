package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	API       APIConfig
	InFlight  InFlightConfig
	Console   ConsoleConfig
	Log       LogConfig
	Telemetry TelemetryConfig
	Stub      StubConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
}

// APIConfig holds the storefront API endpoints
type APIConfig struct {
	BaseURL          string        // Catalog and order endpoints live under this URL
	ContentURL       string        // Product image references are joined with this URL
	Timeout          time.Duration // Per-request timeout
	MaxResponseBytes int64         // Larger response bodies are rejected as malformed
	UserAgent        string
}

// InFlightConfig decides what happens when an operation is started while
// the previous one has not finished yet
type InFlightConfig struct {
	CatalogPolicy string // allow, suppress, share
	OrderPolicy   string // allow, suppress, share
}

// ConsoleConfig holds settings of the console views
type ConsoleConfig struct {
	// TemplateDir overrides embedded templates with same-named files.
	// Empty means embedded templates only.
	TemplateDir string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// TelemetryConfig holds OpenTelemetry configuration
type TelemetryConfig struct {
	Enabled           bool    // Whether to enable OpenTelemetry
	CollectorEndpoint string  // OTEL Collector endpoint (e.g., "localhost:4317")
	SamplingRatio     float64 // Sampling ratio (0.0-1.0, 1.0 = 100%)
	ServiceName       string  // Service name for traces
	Insecure          bool    // Use insecure (non-TLS) connection (development only)
	MetricsEnabled    bool
	MetricsInterval   time.Duration
	LogsEnabled       bool
}

// StubConfig holds settings of the local stub API
type StubConfig struct {
	Port         string
	FakeProducts int   // Extra generated products on top of the fixtures
	Seed         int64 // Seed for generated products
}

// Policy names accepted by InFlightConfig
const (
	PolicyAllow    = "allow"
	PolicySuppress = "suppress"
	PolicyShare    = "share"
)

// DefaultSearchPaths are the directories searched for config.toml
var DefaultSearchPaths = []string{".", "./config", "/etc/storefront"}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with LAREK_ prefix (e.g., LAREK_API_BASE_URL)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	return LoadFrom(DefaultSearchPaths...)
}

// LoadFrom is Load with explicit config.toml search paths
func LoadFrom(paths ...string) (*Config, error) {
	v := viper.New()

	// Set config file settings
	v.SetConfigName("config")
	v.SetConfigType("toml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	// Enable environment variable override
	v.SetEnvPrefix("LAREK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Build config struct
	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
		},
		API: APIConfig{
			BaseURL:          v.GetString("api.base_url"),
			ContentURL:       v.GetString("api.content_url"),
			Timeout:          v.GetDuration("api.timeout"),
			MaxResponseBytes: v.GetInt64("api.max_response_bytes"),
			UserAgent:        v.GetString("api.user_agent"),
		},
		InFlight: InFlightConfig{
			CatalogPolicy: strings.ToLower(v.GetString("inflight.catalog_policy")),
			OrderPolicy:   strings.ToLower(v.GetString("inflight.order_policy")),
		},
		Console: ConsoleConfig{
			TemplateDir: v.GetString("console.template_dir"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           v.GetBool("telemetry.enabled"),
			CollectorEndpoint: v.GetString("telemetry.collector_endpoint"),
			SamplingRatio:     v.GetFloat64("telemetry.sampling_ratio"),
			ServiceName:       v.GetString("telemetry.service_name"),
			Insecure:          v.GetBool("telemetry.insecure"),
			MetricsEnabled:    v.GetBool("telemetry.metrics_enabled"),
			MetricsInterval:   v.GetDuration("telemetry.metrics_interval"),
			LogsEnabled:       v.GetBool("telemetry.logs_enabled"),
		},
		Stub: StubConfig{
			Port:         v.GetString("stub.port"),
			FakeProducts: v.GetInt("stub.fake_products"),
			Seed:         v.GetInt64("stub.seed"),
		},
	}

	// Apply defaults for empty values
	applyDefaults(cfg, v.IsSet("telemetry.sampling_ratio"))

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config, samplingSet bool) {
	if cfg.App.Name == "" {
		cfg.App.Name = "weblarek-storefront"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = "https://larek-api.nomoreparties.co/api/weblarek"
	}
	if cfg.API.ContentURL == "" {
		cfg.API.ContentURL = "https://larek-api.nomoreparties.co/content/weblarek"
	}
	if cfg.API.Timeout == 0 {
		cfg.API.Timeout = 10 * time.Second
	}
	if cfg.API.MaxResponseBytes == 0 {
		cfg.API.MaxResponseBytes = 10 << 20
	}
	if cfg.API.UserAgent == "" {
		cfg.API.UserAgent = cfg.App.Name
	}
	if cfg.InFlight.CatalogPolicy == "" {
		cfg.InFlight.CatalogPolicy = PolicyShare
	}
	if cfg.InFlight.OrderPolicy == "" {
		cfg.InFlight.OrderPolicy = PolicySuppress
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		// stdout belongs to the console views
		cfg.Log.Output = "stderr"
	}
	if cfg.Telemetry.CollectorEndpoint == "" {
		cfg.Telemetry.CollectorEndpoint = "localhost:4317"
	}
	if !samplingSet {
		cfg.Telemetry.SamplingRatio = 1.0
	}
	if cfg.Telemetry.ServiceName == "" {
		cfg.Telemetry.ServiceName = cfg.App.Name
	}
	if cfg.Telemetry.MetricsInterval == 0 {
		cfg.Telemetry.MetricsInterval = 30 * time.Second
	}
	if cfg.Stub.Port == "" {
		cfg.Stub.Port = "8081"
	}
	if cfg.Stub.Seed == 0 {
		cfg.Stub.Seed = 1
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if err := validateHTTPURL("api.base_url", c.API.BaseURL); err != nil {
		return err
	}
	if err := validateHTTPURL("api.content_url", c.API.ContentURL); err != nil {
		return err
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must be positive, got %s", c.API.Timeout)
	}
	if c.API.MaxResponseBytes < 0 {
		return fmt.Errorf("api.max_response_bytes must be positive")
	}

	if !isPolicy(c.InFlight.CatalogPolicy) {
		return fmt.Errorf("inflight.catalog_policy must be one of allow, suppress, share, got %q", c.InFlight.CatalogPolicy)
	}
	if !isPolicy(c.InFlight.OrderPolicy) {
		return fmt.Errorf("inflight.order_policy must be one of allow, suppress, share, got %q", c.InFlight.OrderPolicy)
	}

	if c.Stub.FakeProducts < 0 {
		return fmt.Errorf("stub.fake_products cannot be negative")
	}

	// Validate telemetry configuration (all environments)
	if c.Telemetry.SamplingRatio < 0.0 || c.Telemetry.SamplingRatio > 1.0 {
		return fmt.Errorf("telemetry.sampling_ratio must be between 0.0 and 1.0, got %f", c.Telemetry.SamplingRatio)
	}

	return nil
}

func validateHTTPURL(key, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", key, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL, got %q", key, raw)
	}
	return nil
}

func isPolicy(p string) bool {
	switch p {
	case PolicyAllow, PolicySuppress, PolicyShare:
		return true
	default:
		return false
	}
}

// IsDevelopment reports whether the app runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}
