// Package config loads sealnote settings from the environment.
//
// A .env file in the working directory is loaded first when present;
// variables already set in the environment win.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Store backends
const (
	StoreBolt  = "bolt"
	StoreMongo = "mongo"
)

const defaultPort = "3000"

// Config holds all runtime settings
type Config struct {
	Addr string `env:"SEALNOTE_ADDR"`
	Port string `env:"PORT"`

	Store         string `env:"SEALNOTE_STORE" envDefault:"bolt"`
	DBPath        string `env:"SEALNOTE_DB_PATH" envDefault:".sealnote"`
	MongoURI      string `env:"MONGO_URI"`
	MongoDatabase string `env:"SEALNOTE_MONGO_DATABASE" envDefault:"sealnote"`

	// MaxConcurrentKDF bounds parallel scrypt derivations (~16 MiB each)
	MaxConcurrentKDF int64  `env:"SEALNOTE_MAX_CONCURRENT_KDF" envDefault:"4"`
	BaseURL          string `env:"SEALNOTE_BASE_URL"`
	MaxBodyBytes     int64  `env:"SEALNOTE_MAX_BODY_BYTES" envDefault:"1048576"`

	LogFormat string `env:"SEALNOTE_LOG_FORMAT" envDefault:"text"`
	LogLevel  string `env:"SEALNOTE_LOG_LEVEL" envDefault:"info"`

	ReadTimeout     time.Duration `env:"SEALNOTE_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"SEALNOTE_WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SEALNOTE_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load reads .env (if any) and the process environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFrom parses settings from the given variables only
func LoadFrom(environ map[string]string) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that env tags cannot express
func (c *Config) Validate() error {
	switch c.Store {
	case StoreBolt:
		if c.DBPath == "" {
			return errors.New("SEALNOTE_DB_PATH is required for the bolt store")
		}
	case StoreMongo:
		if c.MongoURI == "" {
			return errors.New("MONGO_URI is required for the mongo store")
		}
	default:
		return fmt.Errorf("unknown store %q (want %s or %s)", c.Store, StoreBolt, StoreMongo)
	}

	if c.MaxConcurrentKDF < 1 {
		return errors.New("SEALNOTE_MAX_CONCURRENT_KDF must be at least 1")
	}
	if c.MaxBodyBytes < 1 {
		return errors.New("SEALNOTE_MAX_BODY_BYTES must be positive")
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("unknown log format %q (want text or json)", c.LogFormat)
	}
	return nil
}

// ListenAddr returns SEALNOTE_ADDR, else ":$PORT", else ":3000"
func (c *Config) ListenAddr() string {
	switch {
	case c.Addr != "":
		return c.Addr
	case c.Port != "":
		return ":" + c.Port
	default:
		return ":" + defaultPort
	}
}
