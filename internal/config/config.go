package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
)

// Config is the process-wide configuration: read once at startup, constant
// thereafter.
type Config struct {
	AppName string `env:"APP_NAME" envDefault:"Signet"`
	Port    string `env:"PORT" envDefault:"8080"`
	Env     string `env:"ENV" envDefault:"DEV"`

	// APIBaseURL is the backend API every authorized call targets.
	APIBaseURL string `env:"API_BASE_URL" envDefault:"http://localhost:4000"`

	// SessionSecret signs session tokens.
	SessionSecret string `env:"SESSION_SECRET,required"`

	// SessionMaxAge is the validity window of a minted session.
	SessionMaxAge time.Duration `env:"SESSION_MAX_AGE" envDefault:"24h"`
}

// Load parses the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, errors.Wrap(err, "[config.Load] parse environment")
	}
	return &cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}
