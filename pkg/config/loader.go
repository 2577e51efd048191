package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the envconfig prefix tokamak servers load their
// configuration under (e.g. TOKAMAK_SERVER_PORT).
const EnvPrefix = "TOKAMAK"

// Load reads configuration from the environment, validates it, and returns
// it. Callers that want *Config resolvable from an Injector register the
// result themselves (cmd/tokamak-demo provides it with injector.Ref).
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}
