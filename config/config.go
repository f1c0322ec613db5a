// Package config holds the daemon configuration, loaded from BIDOPOOL_*
// environment variables.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the environment variable prefix for all settings.
const EnvPrefix = "bidopool"

// Config is the bidopoold daemon configuration.
type Config struct {
	// ListenAddr is the host:port the HTTP API binds to.
	ListenAddr string `envconfig:"LISTEN_ADDR" default:"127.0.0.1:8480"`

	// DataDir is the directory holding the bbolt state database.
	DataDir string `envconfig:"DATA_DIR" default:"./data"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Owner is the pool owner identity as 40 hex characters. Requests
	// authenticated with the admin token act as this identity.
	Owner string `envconfig:"OWNER"`

	// AdminTokenHash and AdminTokenSalt hold the argon2id digest of the
	// admin bearer token, hex-encoded. Generate both with
	// `bidopoold admin-token`. Leaving them empty disables the owner
	// endpoints.
	AdminTokenHash string `envconfig:"ADMIN_TOKEN_HASH"`
	AdminTokenSalt string `envconfig:"ADMIN_TOKEN_SALT"`
}

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := ValidateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
