package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, map[string]any{
		"endpoint_addr_http":             ":9090",
		"database_dsn":                   "postgres://u:p@db:5432/vault",
		"encryption_key":                 "json-secret",
		"private_key_path":               "/keys/priv.pem",
		"public_key_path":                "/keys/pub.pem",
		"access_token_validity_duration": "30m",
		"redis_addr":                     "redis:6379",
		"redis_password":                 "rpass",
		"redis_db":                       2,
		"rate_limit_rps":                 10,
		"rate_limit_burst":               20,
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", path}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, ":9090", cfg.EndpointAddrHTTP)
		assert.Equal(t, "postgres://u:p@db:5432/vault", cfg.DatabaseDSN)
		assert.Equal(t, "json-secret", cfg.EncryptionKey)
		assert.Equal(t, "/keys/priv.pem", cfg.PrivateKeyPath)
		assert.Equal(t, "/keys/pub.pem", cfg.PublicKeyPath)
		assert.Equal(t, 30*time.Minute, cfg.AccessTokenValidityDuration)
		assert.Equal(t, "redis:6379", cfg.RedisAddr)
		assert.Equal(t, "rpass", cfg.RedisPassword)
		assert.Equal(t, 2, cfg.RedisDB)
		assert.Equal(t, float64(10), cfg.RateLimitRPS)
		assert.Equal(t, 20, cfg.RateLimitBurst)
	})

	t.Run("no config flag means no overlay", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, ":8080", cfg.EndpointAddrHTTP)
	})

	t.Run("panics on missing file", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", "/does/not/exist.json"}

		cfg := &Config{}
		assert.Panics(t, func() { parseJson(cfg) })
	})
}
