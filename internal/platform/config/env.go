package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every env tag parsed by ParseEnv.
const EnvPrefix = "SWOQ_"

// ParseEnv loads configuration from SWOQ_-prefixed environment variables.
// Struct tags name the variable without the prefix: `env:"HOST"` reads
// SWOQ_HOST.
func ParseEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
