package config

import (
	"os"
	"path/filepath"
)

const (
	OutputNone    = "none"
	OutputSpotify = "spotify"

	DefaultTheme  = "white"
	DefaultVolume = 50
)

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Spotify: SpotifyConfig{
			RedirectURI: "http://127.0.0.1:8888/callback",
		},
		Demo: DemoConfig{
			Latency: 300,
		},
		Player: PlayerConfig{
			TickInterval:     1000,
			RestartThreshold: 3000,
			Volume:           intPtr(DefaultVolume),
			Output:           OutputNone,
		},
		TUI: TUIConfig{
			Theme: DefaultTheme,
		},
		Cache: CacheConfig{
			TTL: 300,
		},
		History: HistoryConfig{
			Path: defaultDataPath("history.db"),
		},
		Log: LogConfig{
			Level: "info",
			File:  defaultCachePath("clickwheel.log"),
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	// Spotify
	if c.Spotify.RedirectURI == "" {
		c.Spotify.RedirectURI = d.Spotify.RedirectURI
	}

	// Demo
	if c.Demo.Latency == 0 {
		c.Demo.Latency = d.Demo.Latency
	}

	// Player
	if c.Player.TickInterval == 0 {
		c.Player.TickInterval = d.Player.TickInterval
	}
	if c.Player.RestartThreshold == 0 {
		c.Player.RestartThreshold = d.Player.RestartThreshold
	}
	if c.Player.Volume == nil {
		c.Player.Volume = d.Player.Volume
	}
	if c.Player.Output == "" {
		c.Player.Output = d.Player.Output
	}

	// TUI
	if c.TUI.Theme == "" {
		c.TUI.Theme = d.TUI.Theme
	}

	// Cache
	if c.Cache.TTL == 0 {
		c.Cache.TTL = d.Cache.TTL
	}

	// History
	if c.History.Path == "" {
		c.History.Path = d.History.Path
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.File == "" {
		c.Log.File = d.Log.File
	}
}

func defaultDataPath(name string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return name
	}
	return filepath.Join(dir, "clickwheel", name)
}

func defaultCachePath(name string) string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return name
	}
	return filepath.Join(dir, "clickwheel", name)
}

func intPtr(v int) *int { return &v }
