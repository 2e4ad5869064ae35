// Package config handles TOML-based configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds all application configuration.
type Config struct {
	Relay        string `toml:"relay"`         // CORS relay base URL
	IndexBase    string `toml:"index_base"`    // remote file-index server base URL
	MoviesRoot   string `toml:"movies_root"`   // movies directory name under index_base
	TVRoot       string `toml:"tv_root"`       // TV shows directory name under index_base
	SourceBase   string `toml:"source_base"`   // embed source site base URL
	MetadataBase string `toml:"metadata_base"` // metadata API base URL
	APIKey       string `toml:"api_key"`       // metadata API key
	Locale       string `toml:"locale"`        // metadata title locale, e.g. "es-MX"
	History      bool   `toml:"history"`       // record watch progress
	Debug        bool   `toml:"debug"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Relay:        "https://proxy.wafflehacker.io",
		IndexBase:    "https://megadatos.dpdns.org",
		MoviesRoot:   "peliculas",
		TVRoot:       "series",
		SourceBase:   "https://cuevana.biz",
		MetadataBase: "https://api.themoviedb.org/3",
		Locale:       "es-MX",
		History:      true,
		Debug:        false,
	}
}

// configDir returns the XDG-compliant config directory.
func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "streamdex"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "streamdex"), nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// StorePath returns the path to the persistent store database.
func StorePath() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	dir := filepath.Join(dataDir, "streamdex")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("creating data dir: %w", err)
	}
	return filepath.Join(dir, "streamdex.db"), nil
}

// Load reads the config file and merges with defaults.
// If the config file doesn't exist, defaults are returned.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err != nil {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks config values are within acceptable bounds.
func (c *Config) Validate() error {
	for name, v := range map[string]string{
		"relay":         c.Relay,
		"index_base":    c.IndexBase,
		"source_base":   c.SourceBase,
		"metadata_base": c.MetadataBase,
	} {
		if v == "" {
			return fmt.Errorf("%s cannot be empty", name)
		}
		if !strings.HasPrefix(v, "https://") {
			return fmt.Errorf("%s must be an https:// URL, got %q", name, v)
		}
	}

	if c.MoviesRoot == "" || c.TVRoot == "" {
		return fmt.Errorf("movies_root and tv_root cannot be empty")
	}
	if c.Locale == "" {
		return fmt.Errorf("locale cannot be empty")
	}

	return nil
}
