package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/nayidisha/nayidisha-client/internal/client/client"
	"github.com/nayidisha/nayidisha-client/internal/logging"
)

const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
)

// S3 is the optional report upload target. An empty Bucket disables upload.
type S3 struct {
	Region    string
	Endpoint  string
	Bucket    string
	Prefix    string
	AccessKey string
	SecretKey string
}

// Config holds runtime settings for the NayiDisha CLI.
//
// BaseURL follows Mode unless it was set explicitly by any source.
type Config struct {
	Mode                string
	BaseURL             string
	DBPath              string
	LogFormat           logging.Format
	LogLevel            string
	OnlineCheckInterval time.Duration
	DebounceDelay       time.Duration
	RetryAttempts       uint64
	GeocoderURL         string
	ExportDir           string
	S3                  S3
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Mode = ModeDevelopment
	c.BaseURL = ""
	c.DBPath = "nayidisha.db"
	c.LogFormat = logging.FormatText
	c.LogLevel = "info"
	c.OnlineCheckInterval = 3 * time.Second
	c.DebounceDelay = 300 * time.Millisecond
	c.RetryAttempts = 3
	c.GeocoderURL = "https://nominatim.openstreetmap.org"
	c.ExportDir = "exports"
	c.S3 = S3{Region: "us-east-1", Prefix: "reports"}
}

// ResolvedBaseURL is BaseURL, or the backend of Mode when BaseURL is empty.
func (c *Config) ResolvedBaseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	if c.Mode == ModeProduction {
		return client.ProductionBaseURL
	}
	return client.DevelopmentBaseURL
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeDevelopment, ModeProduction:
	default:
		return fmt.Errorf("mode must be %q or %q, got %q", ModeDevelopment, ModeProduction, c.Mode)
	}

	u, err := url.Parse(c.ResolvedBaseURL())
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base url %q is not an absolute URL", c.ResolvedBaseURL())
	}

	switch c.LogFormat {
	case logging.FormatText, logging.FormatJSON, logging.FormatZap:
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}

	if c.DBPath == "" {
		return fmt.Errorf("db path is required")
	}
	if c.OnlineCheckInterval <= 0 {
		return fmt.Errorf("online check interval must be positive")
	}
	if c.DebounceDelay < 0 {
		return fmt.Errorf("debounce delay must not be negative")
	}
	if c.RetryAttempts == 0 {
		return fmt.Errorf("retry attempts must be at least 1")
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (including an optional .env file), JSON (if present) and
// command-line flags (if present). Later sources take precedence over earlier
// ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
