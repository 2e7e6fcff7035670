package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	// APIBaseURL is the root of the Archify backend, without trailing slash.
	APIBaseURL string `env:"API_BASE_URL, default=http://localhost:3000/api"`
	// StateDir holds the persisted session keys. Empty means a per-user
	// default under the OS config directory.
	StateDir string        `env:"STATE_DIR"`
	Env      string        `env:"ENV,       default=development"`
	LogLevel string        `env:"LOG_LEVEL, default=info"`
	Timeout  time.Duration `env:"HTTP_TIMEOUT, default=15s"`

	Renewal RenewalConfig
}

// RenewalConfig tunes the background re-verification triggers.
type RenewalConfig struct {
	// RefreshInterval is the periodic token renewal fallback used when the
	// access token lifetime cannot be read from its claims. The default is
	// six days against the backend's seven-day tokens.
	RefreshInterval time.Duration `env:"REFRESH_INTERVAL, default=144h"`
	// IdleThreshold is the interaction gap after which the session is
	// re-verified before trusting it again.
	IdleThreshold time.Duration `env:"IDLE_THRESHOLD, default=1h"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
