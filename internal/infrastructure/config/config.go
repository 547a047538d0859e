package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Storage    StorageConfig
	Filesystem FilesystemConfig
	Logging    LogConfig
	RateLimit  RateLimitConfig
	CORS       CORSConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"127.0.0.1"`
}

// StorageConfig selects the durable store backend.
type StorageConfig struct {
	Backend      string `envconfig:"STORAGE_BACKEND" default:"sqlite"`
	DSN          string `envconfig:"STORAGE_DSN" default:"osfs.db"`
	FallbackPath string `envconfig:"STORAGE_FALLBACK_PATH" default:"osfs.json"`
}

// FilesystemConfig holds provider policies and boot switches.
type FilesystemConfig struct {
	StrictParents          bool `envconfig:"FS_STRICT_PARENTS" default:"false"`
	PreserveMetadataOnMove bool `envconfig:"FS_PRESERVE_METADATA_ON_MOVE" default:"false"`
	FirstBoot              bool `envconfig:"FS_FIRST_BOOT" default:"true"`
	Autoexec               bool `envconfig:"FS_AUTOEXEC" default:"true"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// CORSConfig holds the origins the desktop shell may be served from.
type CORSConfig struct {
	Origins []string `envconfig:"CORS_ORIGINS" default:"*"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "127.0.0.1",
		},
		Storage: StorageConfig{
			Backend:      "sqlite",
			DSN:          "osfs.db",
			FallbackPath: "osfs.json",
		},
		Filesystem: FilesystemConfig{
			FirstBoot: true,
			Autoexec:  true,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		CORS: CORSConfig{
			Origins: []string{"*"},
		},
	}
}
