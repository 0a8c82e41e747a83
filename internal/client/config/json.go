package config

import (
	"encoding/json"
	"os"

	"github.com/nayidisha/nayidisha-client/internal/flagx"
	"github.com/nayidisha/nayidisha-client/internal/logging"
	"github.com/nayidisha/nayidisha-client/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Only keys
// present in the file override the Config; intervals accept "3s" or integer
// nanoseconds.
type JsonConfig struct {
	Mode                *string         `json:"mode"`
	BaseURL             *string         `json:"base_url"`
	DBPath              *string         `json:"db_path"`
	LogFormat           *string         `json:"log_format"`
	LogLevel            *string         `json:"log_level"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	DebounceDelay       *timex.Duration `json:"debounce_delay"`
	RetryAttempts       *uint64         `json:"retry_attempts"`
	GeocoderURL         *string         `json:"geocoder_url"`
	ExportDir           *string         `json:"export_dir"`
	S3                  *struct {
		Region    string `json:"region"`
		Endpoint  string `json:"endpoint"`
		Bucket    string `json:"bucket"`
		Prefix    string `json:"prefix"`
		AccessKey string `json:"access_key"`
		SecretKey string `json:"secret_key"`
	} `json:"s3"`
}

// parseJson overlays Config with values loaded from the JSON file given by
// -c or -config. Without the flag nothing changes. Panics on read or
// unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	overlay(&cfg.Mode, jc.Mode)
	overlay(&cfg.BaseURL, jc.BaseURL)
	overlay(&cfg.DBPath, jc.DBPath)
	if jc.LogFormat != nil {
		cfg.LogFormat = logging.Format(*jc.LogFormat)
	}
	overlay(&cfg.LogLevel, jc.LogLevel)
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.DebounceDelay != nil {
		cfg.DebounceDelay = jc.DebounceDelay.Duration
	}
	overlay(&cfg.RetryAttempts, jc.RetryAttempts)
	overlay(&cfg.GeocoderURL, jc.GeocoderURL)
	overlay(&cfg.ExportDir, jc.ExportDir)
	if jc.S3 != nil {
		cfg.S3 = S3{
			Region:    jc.S3.Region,
			Endpoint:  jc.S3.Endpoint,
			Bucket:    jc.S3.Bucket,
			Prefix:    jc.S3.Prefix,
			AccessKey: jc.S3.AccessKey,
			SecretKey: jc.S3.SecretKey,
		}
	}
}

func overlay[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
