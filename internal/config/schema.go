package config

// Config is the root configuration structure.
type Config struct {
	Spotify SpotifyConfig `toml:"spotify" json:"spotify"`
	Demo    DemoConfig    `toml:"demo" json:"demo"`
	Player  PlayerConfig  `toml:"player" json:"player"`
	TUI     TUIConfig     `toml:"tui" json:"tui"`
	Cache   CacheConfig   `toml:"cache" json:"cache"`
	History HistoryConfig `toml:"history" json:"history"`
	Log     LogConfig     `toml:"log" json:"log"`

	path string
}

// Path returns the file the config was loaded from, or the default
// location when none existed.
func (c *Config) Path() string {
	if c.path == "" {
		return DefaultPath()
	}
	return c.path
}

// SpotifyConfig holds Spotify API settings.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id" json:"client_id"`
	ClientSecret string `toml:"client_secret" json:"client_secret,omitempty"`
	RedirectURI  string `toml:"redirect_uri" json:"redirect_uri"`
}

// DemoConfig controls the canned demo catalog.
type DemoConfig struct {
	// Enabled forces demo mode. When nil, demo mode is used whenever no
	// client id is configured.
	Enabled *bool `toml:"enabled" json:"enabled,omitempty"`
	Latency int   `toml:"latency" json:"latency"` // milliseconds
}

// PlayerConfig holds playback settings.
type PlayerConfig struct {
	TickInterval     int    `toml:"tick_interval" json:"tick_interval"`         // milliseconds
	RestartThreshold int    `toml:"restart_threshold" json:"restart_threshold"` // milliseconds
	Volume           *int   `toml:"volume" json:"volume,omitempty"`             // nil means DefaultVolume
	Output           string `toml:"output" json:"output"`
	Device           string `toml:"device" json:"device"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme string `toml:"theme" json:"theme"`
	Mouse *bool  `toml:"mouse" json:"mouse,omitempty"`
}

// CacheConfig holds catalog cache settings.
type CacheConfig struct {
	TTL int `toml:"ttl" json:"ttl"` // seconds, negative disables
}

// HistoryConfig holds play history settings.
type HistoryConfig struct {
	Enabled *bool  `toml:"enabled" json:"enabled,omitempty"`
	Path    string `toml:"path" json:"path"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level" json:"level"`
	File  string `toml:"file" json:"file"`
}

// DemoMode reports whether the demo catalog should be used.
func (c *Config) DemoMode() bool {
	if c.Demo.Enabled != nil {
		return *c.Demo.Enabled
	}
	return c.Spotify.ClientID == ""
}

// MouseEnabled reports whether the TUI captures the mouse.
func (c *TUIConfig) MouseEnabled() bool {
	return c.Mouse == nil || *c.Mouse
}

// StartVolume returns the configured start volume. Zero is a valid,
// muted start.
func (c *PlayerConfig) StartVolume() int {
	if c.Volume == nil {
		return DefaultVolume
	}
	return *c.Volume
}

// HistoryEnabled reports whether play history is recorded.
func (c *HistoryConfig) HistoryEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}
