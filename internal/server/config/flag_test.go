package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_parseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin",
		"-a", ":7070",
		"-d", "postgres://u:p@db:5432/vault",
		"-k", "flag-secret",
		"-priv", "/k/priv.pem",
		"-pub", "/k/pub.pem",
		"-t", "45",
		"-r", "redis:6380",
		"-n", "3",
		"-b", "5",
	}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, ":7070", cfg.EndpointAddrHTTP)
	assert.Equal(t, "postgres://u:p@db:5432/vault", cfg.DatabaseDSN)
	assert.Equal(t, "flag-secret", cfg.EncryptionKey)
	assert.Equal(t, "/k/priv.pem", cfg.PrivateKeyPath)
	assert.Equal(t, "/k/pub.pem", cfg.PublicKeyPath)
	assert.Equal(t, 45*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, "redis:6380", cfg.RedisAddr)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 5, cfg.RateLimitBurst)
}

func Test_parseFlags_KeepsDefaultsWhenAbsent(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	assert.Equal(t, ":8080", cfg.EndpointAddrHTTP)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenValidityDuration)
}
