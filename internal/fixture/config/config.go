// Package config handles configuration for the fixture backend, including
// defaults, JSON overlay, and command-line flags.
package config

import (
	"time"

	"github.com/nayidisha/nayidisha-client/internal/logging"
)

// Config holds runtime settings for the fixture backend.
//
// Fields:
//   - Addr: bind address of the HTTP listener.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not reuse outside tests.
//   - TokenTTL: lifetime of issued tokens.
//   - LogFormat / LogLevel: logging backend and threshold.
type Config struct {
	Addr      string
	SecretKey string
	TokenTTL  time.Duration
	LogFormat logging.Format
	LogLevel  string
}

// LoadDefaults populates Config with development defaults matching the
// client's development base URL.
func (c *Config) LoadDefaults() {
	c.Addr = ":2512"
	c.SecretKey = "fixture-secret"
	c.TokenTTL = 24 * time.Hour
	c.LogFormat = logging.FormatJSON
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
