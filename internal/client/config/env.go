package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/nayidisha/nayidisha-client/internal/flagx"
	"github.com/nayidisha/nayidisha-client/internal/logging"
)

const envPrefix = "NAYIDISHA_"

// parseEnv overlays Config with NAYIDISHA_* environment variables. A dotenv
// file named by -e/-env, or ./.env when present, is loaded first; variables
// already set in the process environment win over the file.
//
// Panics on a malformed file or value, like the other loaders.
func parseEnv(cfg *Config) {
	envFile := flagx.EnvFileFlags()
	if envFile == "" {
		envFile = ".env"
		if _, err := os.Stat(envFile); errors.Is(err, fs.ErrNotExist) {
			envFile = ""
		}
	}
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			panic(err)
		}
	}

	setString(&cfg.Mode, "MODE")
	setString(&cfg.BaseURL, "BASE_URL")
	setString(&cfg.DBPath, "DB_PATH")
	if v, ok := lookup("LOG_FORMAT"); ok {
		cfg.LogFormat = logging.Format(v)
	}
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setDuration(&cfg.OnlineCheckInterval, "ONLINE_CHECK_INTERVAL")
	setDuration(&cfg.DebounceDelay, "DEBOUNCE_DELAY")
	if v, ok := lookup("RETRY_ATTEMPTS"); ok {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			panic(err)
		}
		cfg.RetryAttempts = n
	}
	setString(&cfg.GeocoderURL, "GEOCODER_URL")
	setString(&cfg.ExportDir, "EXPORT_DIR")

	setString(&cfg.S3.Region, "S3_REGION")
	setString(&cfg.S3.Endpoint, "S3_ENDPOINT")
	setString(&cfg.S3.Bucket, "S3_BUCKET")
	setString(&cfg.S3.Prefix, "S3_PREFIX")
	setString(&cfg.S3.AccessKey, "S3_ACCESS_KEY")
	setString(&cfg.S3.SecretKey, "S3_SECRET_KEY")
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func setString(dst *string, key string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) {
	v, ok := lookup(key)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}
