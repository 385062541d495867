// Package config loads the client configuration from the environment, with an
// optional yaml file for local development.
package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/pkg/errors"
)

type Config struct {
	// BaseURL is the root of the ERP REST API, including any path prefix.
	BaseURL string `yaml:"base_url" env:"API_BASE_URL" env-default:"http://localhost:8080/api"`

	// UseMock substitutes the in-memory backend for every resource repo.
	UseMock     bool          `yaml:"use_mock" env:"USE_MOCK_API" env-default:"false"`
	MockLatency time.Duration `yaml:"mock_latency" env:"MOCK_LATENCY" env-default:"150ms"`

	// HTTPTimeout bounds every request, refresh calls included.
	HTTPTimeout time.Duration `yaml:"http_timeout" env:"HTTP_TIMEOUT" env-default:"15s"`

	// StoragePath is where the session file lives. Empty lets the consumer
	// pick its own default location.
	StoragePath string `yaml:"storage_path" env:"SESSION_STORAGE_PATH" env-default:""`

	Env string `yaml:"env" env:"ENV" env-default:"dev"`
}

// Load reads configuration from path when given, overlaying environment
// variables either way.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, errors.Wrap(err, "[config.Load] cleanenv.ReadConfig")
		}
		return &cfg, nil
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, errors.Wrap(err, "[config.Load] cleanenv.ReadEnv")
	}
	return &cfg, nil
}
