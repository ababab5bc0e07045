// Package config loads server configuration from a TOML file.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds all budget-engine configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Storage StorageConfig `toml:"storage"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `toml:"port"`
}

// StorageConfig holds persistence settings.
type StorageConfig struct {
	// DBPath is the SQLite database path. ":memory:" is accepted.
	DBPath string `toml:"db_path"`

	// Mirror enables the CSV flat-file mirror alongside the database.
	Mirror bool `toml:"mirror"`

	// MirrorDir is the directory holding budget_map.csv and
	// daily_spendings.csv.
	MirrorDir string `toml:"mirror_dir"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Server: ServerConfig{Port: 8080},
		Storage: StorageConfig{
			DBPath:    "budget.db",
			Mirror:    true,
			MirrorDir: ".",
		},
	}
}

// Load reads the config file at path, applying defaults for anything the
// file leaves out. A missing file yields pure defaults; a malformed file is
// an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.Server.Port <= 0 {
		return Config{}, fmt.Errorf("config %s: server.port must be positive", path)
	}
	if cfg.Storage.DBPath == "" {
		return Config{}, fmt.Errorf("config %s: storage.db_path must not be empty", path)
	}
	return cfg, nil
}
