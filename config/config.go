// Package config loads application configuration from an optional TOML file
// overlaid with BLACKCIRCLES_-prefixed environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	// path to the sqlite database file
	DBPath string `koanf:"db_path"`

	// listen address for the serve command
	Addr string `koanf:"addr"`

	// marketplace price currency
	Currency string `koanf:"currency"`

	Discogs     DiscogsConfig     `koanf:"discogs"`
	HuggingFace HuggingFaceConfig `koanf:"huggingface"`
}

type DiscogsConfig struct {
	// personal access token; optional, raises the rate limit and enables
	// price suggestions
	Token string `koanf:"token"`

	// default username for sync, overridable per run and by the saved
	// setting
	Username string `koanf:"username"`
}

type HuggingFaceConfig struct {
	// inference API token; empty disables vibe classification
	Token string `koanf:"token"`
}

const envPrefix = "BLACKCIRCLES_"

// Load reads config files in priority order (~/.config/blackcircles/config.toml,
// then ./config.toml, last wins), then overlays environment variables:
// BLACKCIRCLES_DISCOGS_TOKEN -> discogs.token, BLACKCIRCLES_DB_PATH ->
// db_path, and so on.
func Load() (*Config, error) {
	k := koanf.New(".")

	for _, path := range configPaths() {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config file '%s': %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envToPath), nil); err != nil {
		return nil, fmt.Errorf("error loading environment config: %w", err)
	}

	cfg := &Config{
		DBPath:   "black-circles.db",
		Addr:     ":8090",
		Currency: "USD",
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return cfg, nil
}

func configPaths() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "blackcircles", "config.toml"))
	}
	paths = append(paths, "config.toml")
	return paths
}

// envToPath maps BLACKCIRCLES_DISCOGS_TOKEN to "discogs.token" and
// BLACKCIRCLES_DB_PATH to "db_path". The first underscore after the prefix
// separates a known section name; everything else stays flat.
func envToPath(name string) string {
	name = strings.ToLower(strings.TrimPrefix(name, envPrefix))
	for _, section := range []string{"discogs", "huggingface"} {
		if strings.HasPrefix(name, section+"_") {
			return section + "." + strings.TrimPrefix(name, section+"_")
		}
	}
	return name
}
