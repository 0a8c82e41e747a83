package config

import (
	"encoding/json"
	"os"

	"github.com/nayidisha/nayidisha-client/internal/flagx"
	"github.com/nayidisha/nayidisha-client/internal/logging"
	"github.com/nayidisha/nayidisha-client/internal/timex"
)

// JsonConfig is the DTO read from the JSON config file. TokenTTL accepts
// strings such as "30m" as well as integer nanoseconds.
type JsonConfig struct {
	Addr      string         `json:"addr"`
	SecretKey string         `json:"secret_key"`
	TokenTTL  timex.Duration `json:"token_ttl"`
	LogFormat string         `json:"log_format"`
	LogLevel  string         `json:"log_level"`
}

// parseJson loads the file named by -c or -config into config. Without the
// flag nothing is loaded. Keys missing from the file keep their current
// value. Panics on read or unmarshal errors.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.Addr != "" {
		config.Addr = c.Addr
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.TokenTTL.Duration != 0 {
		config.TokenTTL = c.TokenTTL.Duration
	}
	if c.LogFormat != "" {
		config.LogFormat = logging.Format(c.LogFormat)
	}
	if c.LogLevel != "" {
		config.LogLevel = c.LogLevel
	}
}
