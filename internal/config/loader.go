package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the config file name looked up in the user and local directories.
const FileName = "gamehost.yaml"

// Load reads the host configuration.
// Search order: customPath -> ~/.gamehost/config.yaml -> ./configs/gamehost.yaml -> embedded default
func Load(customPath string) (Config, error) {
	var cfg Config

	// A custom path must exist and parse
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		cfg.applyDefaults()
		return cfg, nil
	}

	for _, path := range searchPaths() {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			cfg.applyDefaults()
			return cfg, nil
		}
		cfg = Config{}
	}

	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		return Default(), nil
	}
	cfg.applyDefaults()
	return cfg, nil
}

func searchPaths() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".gamehost", "config.yaml"))
	}
	return append(paths, filepath.Join("configs", FileName))
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path[1:], string(filepath.Separator))), nil
}

// StoragePath returns the expanded storage directory.
func (c Config) StoragePath() (string, error) {
	return ExpandPath(c.App.StorageDir)
}

// DatabasePath returns where the SQLite file lives.
func (c Config) DatabasePath() (string, error) {
	db, err := ExpandPath(c.App.Database)
	if err != nil || filepath.IsAbs(db) {
		return db, err
	}
	dir, err := c.StoragePath()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, db), nil
}
