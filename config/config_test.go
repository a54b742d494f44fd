package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/marquee/catalog"
	"github.com/s0up4200/marquee/query"
	"github.com/s0up4200/marquee/store"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func validConfig() *Config {
	return &Config{
		TMDB: TMDBConfig{
			APIURL:   catalog.DefaultBaseURL,
			ImageURL: catalog.DefaultImageBaseURL,
		},
		Cache: CacheConfig{
			StaleTime: query.DefaultStaleTime,
			Retention: query.DefaultRetention,
			Attempts:  query.DefaultAttempts,
		},
		Store:   StoreConfig{Backend: store.BackendMemory},
		Theme:   "system",
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, "logging:\n  level: debug\n"))
		require.NoError(t, err)

		assert.Equal(t, catalog.DefaultBaseURL, cfg.TMDB.APIURL)
		assert.Equal(t, 5*time.Minute, cfg.Cache.StaleTime)
		assert.Equal(t, 30*time.Minute, cfg.Cache.Retention)
		assert.EqualValues(t, 3, cfg.Cache.Attempts)
		assert.Equal(t, store.BackendFile, cfg.Store.Backend)
		assert.NotEmpty(t, cfg.Store.Path)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, "system", cfg.Theme)
	})

	t.Run("file values", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, `
tmdb:
  api_key: abc123
  language: de-DE
  timeout: 5s
cache:
  stale_time: 1m
  retention: 10m
store:
  backend: sqlite
  path: /tmp/marquee.db
theme: cinema-dark
filters:
  horror: hasGenre("Horror")
`))
		require.NoError(t, err)

		assert.Equal(t, "abc123", cfg.TMDB.APIKey)
		assert.Equal(t, "de-DE", cfg.TMDB.Language)
		assert.Equal(t, 5*time.Second, cfg.TMDB.Timeout)
		assert.Equal(t, time.Minute, cfg.Cache.StaleTime)
		assert.Equal(t, store.BackendSQLite, cfg.StoreOptions().Backend)
		assert.Equal(t, "/tmp/marquee.db", cfg.StoreOptions().Path)
		assert.Equal(t, "cinema-dark", cfg.Theme)
		assert.Equal(t, `hasGenre("Horror")`, cfg.Filters["horror"])
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("TMDB_API_KEY", "from-env")
		t.Setenv("MARQUEE_TMDB_IMAGE_URL", "https://images.example.com")

		cfg, err := Load(writeConfig(t, "theme: dark\n"))
		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.TMDB.APIKey)
		assert.Equal(t, "https://images.example.com", cfg.TMDB.ImageURL)
	})

	t.Run("explicit missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid file", func(t *testing.T) {
		_, err := Load(writeConfig(t, "theme: neon\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid theme")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		errContains string
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name:        "placeholder api key",
			mutate:      func(c *Config) { c.TMDB.APIKey = "your-api-key-here" },
			errContains: "tmdb.api_key",
		},
		{
			name:        "retention shorter than stale time",
			mutate:      func(c *Config) { c.Cache.Retention = time.Minute },
			errContains: "cache.retention",
		},
		{
			name:        "zero attempts",
			mutate:      func(c *Config) { c.Cache.Attempts = 0 },
			errContains: "cache.attempts",
		},
		{
			name:        "unknown backend",
			mutate:      func(c *Config) { c.Store.Backend = "etcd" },
			errContains: "invalid store.backend",
		},
		{
			name: "redis without address",
			mutate: func(c *Config) {
				c.Store.Backend = store.BackendRedis
				c.Store.Redis.Addr = ""
			},
			errContains: "store.redis.addr",
		},
		{
			name:        "invalid logging level",
			mutate:      func(c *Config) { c.Logging.Level = "trace" },
			errContains: "invalid logging level",
		},
		{
			name:        "invalid logging format",
			mutate:      func(c *Config) { c.Logging.Format = "xml" },
			errContains: "invalid logging format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := validate(cfg)
			if tt.errContains == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestValidateFillsStorePath(t *testing.T) {
	cfg := validConfig()
	cfg.Store.Backend = "SQLite"

	require.NoError(t, validate(cfg))
	assert.Equal(t, store.BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, "state.db", filepath.Base(cfg.Store.Path))
}
