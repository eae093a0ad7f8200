package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the top-level configuration for the transitiond service: where
// to listen, what logging/telemetry to emit, and the protocol constants
// the transition core runs under.
type Config struct {
	ListenAddress string `toml:"ListenAddress"`
	Environment   string `toml:"Environment"`
	LogFilePath   string `toml:"LogFilePath"`

	Protocol Protocol `toml:"Protocol"`
}

// DefaultConfig returns the configuration this service ships with absent
// an operator-supplied file.
func DefaultConfig() Config {
	return Config{
		ListenAddress: ":8080",
		Environment:   "local",
		Protocol:      DefaultProtocol(),
	}
}

// Load reads and decodes a TOML config file at path. A missing file is not
// an error: DefaultConfig is returned as-is so the service can run with
// zero operator setup.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if err := cfg.Protocol.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return &cfg, nil
}
