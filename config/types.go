package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	TMDB    TMDBConfig    `mapstructure:"tmdb" yaml:"tmdb"`
	Cache   CacheConfig   `mapstructure:"cache" yaml:"cache"`
	Store   StoreConfig   `mapstructure:"store" yaml:"store"`
	Theme   string        `mapstructure:"theme" yaml:"theme"`
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Filters FilterConfig  `mapstructure:"filters" yaml:"filters"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// TMDBConfig holds catalog API connection details
type TMDBConfig struct {
	APIKey   string        `mapstructure:"api_key" yaml:"api_key"`
	APIURL   string        `mapstructure:"api_url" yaml:"api_url"`
	ImageURL string        `mapstructure:"image_url" yaml:"image_url"`
	Language string        `mapstructure:"language" yaml:"language"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// CacheConfig tunes the query cache
type CacheConfig struct {
	StaleTime  time.Duration `mapstructure:"stale_time" yaml:"stale_time"`
	Retention  time.Duration `mapstructure:"retention" yaml:"retention"`
	MaxEntries int           `mapstructure:"max_entries" yaml:"max_entries"`
	Attempts   uint          `mapstructure:"attempts" yaml:"attempts"`
	// Persist saves the cache to the state store on exit and restores it on start
	Persist bool `mapstructure:"persist" yaml:"persist"`
}

// StoreConfig selects the persistence backend for client state
type StoreConfig struct {
	Backend string      `mapstructure:"backend" yaml:"backend"`
	Path    string      `mapstructure:"path" yaml:"path"`
	Redis   RedisConfig `mapstructure:"redis" yaml:"redis"`
}

// RedisConfig holds Redis connection details
type RedisConfig struct {
	Addr     string `mapstructure:"addr" yaml:"addr"`
	Password string `mapstructure:"password" yaml:"password"`
	DB       int    `mapstructure:"db" yaml:"db"`
	Prefix   string `mapstructure:"prefix" yaml:"prefix"`
}

// ServerConfig configures the HTTP surface
type ServerConfig struct {
	Addr         string        `mapstructure:"addr" yaml:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	Metrics      bool          `mapstructure:"metrics" yaml:"metrics"`
}

// FilterConfig contains named filter expressions
type FilterConfig map[string]string

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	Color  bool   `mapstructure:"color" yaml:"color"`
}
