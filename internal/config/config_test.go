package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsAndEnv(t *testing.T) {
	t.Setenv("AUTH_SESSION_SECRET", "0123456789abcdef0123")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("PG_USER", "calls")
	t.Setenv("PG_PASSWORD", "pw")

	conf, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9090", conf.HTTP.Port)
	assert.Equal(t, "postgres", conf.DB.Driver)
	assert.Equal(t, 30*time.Second, conf.Cache.LedgerTTL)
	assert.Equal(t, "postgres://calls:pw@localhost:5432/calllist?sslmode=disable", conf.DSN())
	assert.False(t, conf.IsProduction())
}

func TestLoad_YAMLFile(t *testing.T) {
	t.Setenv("AUTH_SESSION_SECRET", "0123456789abcdef0123")
	dir := t.TempDir()
	path := filepath.Join(dir, "calllist.yaml")
	yaml := "db:\n  driver: sqlite\n  dsn: file:calllist.db\nratelimit:\n  rps: 5\n  burst: 10\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	conf, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", conf.DB.Driver)
	assert.Equal(t, "file:calllist.db", conf.DSN())
	assert.Equal(t, 5.0, conf.RateLimit.RPS)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("AUTH_SESSION_SECRET", "")
	_, err := Load("")
	assert.Error(t, err)
}

func TestValidate_SqliteNeedsDSN(t *testing.T) {
	conf := &Config{
		App:       AppConfig{Env: "test", Region: "US"},
		HTTP:      HTTPConfig{Port: "8080"},
		DB:        DBConfig{Driver: "sqlite"},
		Auth:      AuthConfig{SessionSecret: "0123456789abcdef"},
		Cache:     CacheConfig{LedgerTTL: time.Second},
		RateLimit: RateLimitConfig{RPS: 1, Burst: 1},
		Import:    ImportConfig{MaxBytes: 1},
	}
	assert.Error(t, Validate(conf))
	conf.DB.DSN = ":memory:"
	assert.NoError(t, Validate(conf))
}
