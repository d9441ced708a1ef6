// Package config loads the HTTP shell's TOML configuration file. The
// core engine itself takes no configuration — this only wires the
// server's bind address and log level (spec §6).
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config is the top-level shape of the TOML config file.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Logging LoggingConfig `toml:"logging"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	BindAddress string `toml:"bind_address"`
}

// LoggingConfig holds the zerolog level name.
type LoggingConfig struct {
	Level string `toml:"level"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server:  ServerConfig{BindAddress: ":8080"},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads and parses a TOML config file at path, filling in
// defaults for any field the file omits.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if cfg.Server.BindAddress == "" {
		cfg.Server.BindAddress = Default().Server.BindAddress
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = Default().Logging.Level
	}

	return cfg, nil
}
