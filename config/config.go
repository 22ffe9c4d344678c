package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the settings of a store and its refiners.
type Config struct {
	LogLevel        string `env:"IMPURE_GO_LOG_LEVEL" envDefault:"info"`
	AsyncBufferSize int    `env:"IMPURE_GO_ASYNC_BUFFER_SIZE" envDefault:"16"`
	AsyncNumWorkers int    `env:"IMPURE_GO_ASYNC_NUM_WORKERS" envDefault:"4"`
	JournalWindow   int    `env:"IMPURE_GO_JOURNAL_WINDOW" envDefault:"64"`
	CacheSize       int    `env:"IMPURE_GO_CACHE_SIZE" envDefault:"1024"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load returns the Config read from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
