package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	DatabasePath      string        `mapstructure:"database_path" yaml:"database_path"`
	AllowedOrigins    []string      `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	HistorySeedLimit  int           `mapstructure:"history_seed_limit" yaml:"history_seed_limit"`
	WSEventsPerMinute int           `mapstructure:"ws_events_per_minute" yaml:"ws_events_per_minute"`
}

// Default returns configuration with reasonable starter defaults. The origin
// list mirrors common local dev hosts; "*" opens admission entirely.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		DatabasePath:      "roomrelay.db",
		AllowedOrigins:    []string{"localhost:*", "127.0.0.1:*"},
		HistorySeedLimit:  50,
		WSEventsPerMinute: 600,
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.DatabasePath != "" {
		c.DatabasePath = other.DatabasePath
	}
	if len(other.AllowedOrigins) != 0 {
		c.AllowedOrigins = other.AllowedOrigins
	}
	if other.HistorySeedLimit != 0 {
		c.HistorySeedLimit = other.HistorySeedLimit
	}
	if other.WSEventsPerMinute != 0 {
		c.WSEventsPerMinute = other.WSEventsPerMinute
	}
}
