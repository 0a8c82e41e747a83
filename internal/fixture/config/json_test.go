package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nayidisha/nayidisha-client/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", writeTempJSON(t, map[string]any{
			"addr":       ":9999",
			"secret_key": "json-secret",
			"token_ttl":  "45m",
			"log_format": "text",
			"log_level":  "warn",
		})}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, ":9999", cfg.Addr)
		assert.Equal(t, "json-secret", cfg.SecretKey)
		assert.Equal(t, 45*time.Minute, cfg.TokenTTL)
		assert.Equal(t, logging.FormatText, cfg.LogFormat)
		assert.Equal(t, "warn", cfg.LogLevel)
	})

	t.Run("missing keys keep current values", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", writeTempJSON(t, map[string]any{"addr": ":7000"})}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, ":7000", cfg.Addr)
		assert.Equal(t, "fixture-secret", cfg.SecretKey)
		assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	})

	t.Run("no flag no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{Addr: "defaults:1234"}
		parseJson(cfg)
		assert.Equal(t, "defaults:1234", cfg.Addr)
	})

	t.Run("bad json panics", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
		os.Args = []string{"testbin", "-c", path}

		require.Panics(t, func() { parseJson(&Config{}) })
	})

	t.Run("missing file panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", filepath.Join(t.TempDir(), "nope.json")}
		require.Panics(t, func() { parseJson(&Config{}) })
	})
}
