package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads configuration from standard locations with environment overrides.
// Search order: ~/.clickwheelrc, $XDG_CONFIG_HOME/clickwheel/config.toml, ~/.config/clickwheel/config.toml
func Load() (*Config, error) {
	cfg := &Config{}

	path := findConfigFile()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
		cfg.path = path
	}

	if err := finish(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFrom reads configuration from a specific file path. A missing file
// yields the defaults so that 'config init' and 'config set' can create it.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{path: path}
	if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	if err := finish(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func finish(cfg *Config) error {
	// A missing .env is the common case.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	cfg.ApplyDefaults()
	applyEnvOverrides(cfg)
	return nil
}

// DefaultPath is where new config files are written.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".clickwheelrc"
	}
	return filepath.Join(home, ".clickwheelrc")
}

// findConfigFile returns the first existing config file path.
func findConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	paths := []string{
		filepath.Join(home, ".clickwheelrc"),
	}

	// XDG_CONFIG_HOME or default
	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	paths = append(paths, filepath.Join(xdgConfig, "clickwheel", "config.toml"))

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	// Spotify
	if v := os.Getenv("CLICKWHEEL_SPOTIFY_CLIENT_ID"); v != "" {
		cfg.Spotify.ClientID = v
	}
	if v := os.Getenv("CLICKWHEEL_SPOTIFY_CLIENT_SECRET"); v != "" {
		cfg.Spotify.ClientSecret = v
	}
	if v := os.Getenv("CLICKWHEEL_SPOTIFY_REDIRECT_URI"); v != "" {
		cfg.Spotify.RedirectURI = v
	}

	// Demo
	if v := os.Getenv("CLICKWHEEL_DEMO"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Demo.Enabled = &b
		}
	}
	if v := os.Getenv("CLICKWHEEL_DEMO_LATENCY"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Demo.Latency = i
		}
	}

	// Player
	if v := os.Getenv("CLICKWHEEL_PLAYER_OUTPUT"); v != "" {
		cfg.Player.Output = v
	}
	if v := os.Getenv("CLICKWHEEL_PLAYER_DEVICE"); v != "" {
		cfg.Player.Device = v
	}

	// TUI
	if v := os.Getenv("CLICKWHEEL_TUI_THEME"); v != "" {
		cfg.TUI.Theme = v
	}

	// Log
	if v := os.Getenv("CLICKWHEEL_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("CLICKWHEEL_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}
