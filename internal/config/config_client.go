package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// ClientAdapter holds network settings used by the CLI transport layer.
type ClientAdapter struct {
	// BaseURL is the vault server HTTP endpoint used by the client.
	// Env: SOLVAULT_SERVER_URL
	BaseURL string `env:"SERVER_URL"`
	// RequestTimeout is the default timeout for outbound client requests.
	// Env: SOLVAULT_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// ClientKeystore contains local keystore settings for the CLI.
type ClientKeystore struct {
	// Path is the SQLite database file holding sealed identity keys.
	// Env: SOLVAULT_KEYSTORE_PATH
	Path string `env:"KEYSTORE_PATH"`
}

// ClientConfig is the top-level configuration for the CLI client,
// populated from SOLVAULT_-prefixed environment variables with sensible
// local defaults.
type ClientConfig struct {
	// Adapter contains client transport address and timeout.
	Adapter ClientAdapter `envPrefix:""`
	// Keystore contains local key storage settings.
	Keystore ClientKeystore `envPrefix:""`
}

// GetClientConfig builds and validates the CLI client configuration.
//
// Defaults: server URL http://localhost:8080, 15s request timeout, and a
// keystore at $HOME/.solvault/keystore.db.
func GetClientConfig() (*ClientConfig, error) {
	cfg := &ClientConfig{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "SOLVAULT_"}); err != nil {
		return nil, err
	}

	if cfg.Adapter.BaseURL == "" {
		cfg.Adapter.BaseURL = "http://localhost:8080"
	}
	if cfg.Adapter.RequestTimeout == 0 {
		cfg.Adapter.RequestTimeout = 15 * time.Second
	}
	if cfg.Keystore.Path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		cfg.Keystore.Path = filepath.Join(home, ".solvault", "keystore.db")
	}

	return cfg, cfg.validate()
}
