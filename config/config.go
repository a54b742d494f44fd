package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/s0up4200/marquee/catalog"
	"github.com/s0up4200/marquee/query"
	"github.com/s0up4200/marquee/state"
	"github.com/s0up4200/marquee/store"
)

// EnvPrefix is prepended to every environment override, e.g. MARQUEE_TMDB_API_KEY
const EnvPrefix = "MARQUEE"

// Load loads the configuration from file and environment. A missing config
// file is not an error when no explicit path was given.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The bare TMDB_API_KEY is honoured as well
	if err := v.BindEnv("tmdb.api_key", EnvPrefix+"_TMDB_API_KEY", "TMDB_API_KEY"); err != nil {
		return nil, fmt.Errorf("error binding environment: %w", err)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".marquee"))
		}

		// Check /etc
		v.AddConfigPath("/etc/marquee/")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configPath != "" {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// DefaultStorePath is where file and sqlite backends keep state unless configured
func DefaultStorePath(backend string) string {
	dir := ".marquee"
	if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, ".marquee")
	}
	if backend == store.BackendSQLite {
		return filepath.Join(dir, "state.db")
	}
	return filepath.Join(dir, "state")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Catalog defaults
	v.SetDefault("tmdb.api_key", "")
	v.SetDefault("tmdb.api_url", catalog.DefaultBaseURL)
	v.SetDefault("tmdb.image_url", catalog.DefaultImageBaseURL)
	v.SetDefault("tmdb.language", "en-US")
	v.SetDefault("tmdb.timeout", catalog.DefaultTimeout)

	// Cache defaults
	v.SetDefault("cache.stale_time", query.DefaultStaleTime)
	v.SetDefault("cache.retention", query.DefaultRetention)
	v.SetDefault("cache.max_entries", query.DefaultMaxEntries)
	v.SetDefault("cache.attempts", query.DefaultAttempts)
	v.SetDefault("cache.persist", true)

	// Store defaults
	v.SetDefault("store.backend", store.BackendFile)
	v.SetDefault("store.path", "")
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.redis.prefix", store.DefaultRedisPrefix)

	v.SetDefault("theme", string(state.ThemeSystem))

	// Server defaults
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.metrics", true)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.TMDB.APIURL == "" {
		return fmt.Errorf("tmdb.api_url is required")
	}
	if cfg.TMDB.ImageURL == "" {
		return fmt.Errorf("tmdb.image_url is required")
	}
	if cfg.TMDB.APIKey == "your-api-key-here" {
		return fmt.Errorf("tmdb.api_key must be set to a valid API key or left empty")
	}
	if cfg.TMDB.Timeout < 0 {
		return fmt.Errorf("tmdb.timeout must not be negative")
	}

	if cfg.Cache.StaleTime <= 0 {
		return fmt.Errorf("cache.stale_time must be positive")
	}
	if cfg.Cache.Retention < cfg.Cache.StaleTime {
		return fmt.Errorf("cache.retention (%s) must not be shorter than cache.stale_time (%s)",
			cfg.Cache.Retention, cfg.Cache.StaleTime)
	}
	if cfg.Cache.MaxEntries < 0 {
		return fmt.Errorf("cache.max_entries must not be negative")
	}
	if cfg.Cache.Attempts == 0 {
		return fmt.Errorf("cache.attempts must be at least 1")
	}

	// Validate store backend
	validBackends := map[string]bool{
		store.BackendMemory: true,
		store.BackendFile:   true,
		store.BackendSQLite: true,
		store.BackendRedis:  true,
	}
	cfg.Store.Backend = strings.ToLower(cfg.Store.Backend)
	if !validBackends[cfg.Store.Backend] {
		return fmt.Errorf("invalid store.backend: %s", cfg.Store.Backend)
	}
	if cfg.Store.Backend == store.BackendRedis && cfg.Store.Redis.Addr == "" {
		return fmt.Errorf("store.redis.addr is required for the redis backend")
	}
	if cfg.Store.Path == "" && (cfg.Store.Backend == store.BackendFile || cfg.Store.Backend == store.BackendSQLite) {
		cfg.Store.Path = DefaultStorePath(cfg.Store.Backend)
	}

	if _, err := state.ParseTheme(cfg.Theme); err != nil {
		return fmt.Errorf("invalid theme: %w", err)
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}

// StoreOptions converts the store section for store.Open
func (c *Config) StoreOptions() store.Config {
	return store.Config{
		Backend:       c.Store.Backend,
		Path:          c.Store.Path,
		RedisAddr:     c.Store.Redis.Addr,
		RedisPassword: c.Store.Redis.Password,
		RedisDB:       c.Store.Redis.DB,
		Prefix:        c.Store.Redis.Prefix,
	}
}
