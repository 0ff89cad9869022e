package config

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/tessro/clickwheel/internal/theme"
)

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if err := c.Spotify.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("spotify: %w", err))
	}
	if err := c.Demo.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("demo: %w", err))
	}
	if err := c.Player.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("player: %w", err))
	}
	if err := c.TUI.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tui: %w", err))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}

	return errors.Join(errs...)
}

// Validate checks SpotifyConfig for errors.
func (c *SpotifyConfig) Validate() error {
	if c.RedirectURI != "" {
		u, err := url.Parse(c.RedirectURI)
		if err != nil {
			return fmt.Errorf("invalid redirect_uri: %w", err)
		}
		if u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid redirect_uri: %q must be absolute", c.RedirectURI)
		}
	}
	return nil
}

// Validate checks DemoConfig for errors.
func (c *DemoConfig) Validate() error {
	if c.Latency < 0 {
		return errors.New("latency must be non-negative")
	}
	return nil
}

// Validate checks PlayerConfig for errors.
func (c *PlayerConfig) Validate() error {
	if c.TickInterval < 0 {
		return errors.New("tick_interval must be non-negative")
	}
	if c.RestartThreshold < 0 {
		return errors.New("restart_threshold must be non-negative")
	}
	if v := c.StartVolume(); v < 0 || v > 100 {
		return errors.New("volume must be between 0 and 100")
	}
	switch c.Output {
	case "", OutputNone, OutputSpotify:
		// valid
	default:
		return fmt.Errorf("invalid output: %s (must be none or spotify)", c.Output)
	}
	return nil
}

// Validate checks TUIConfig for errors.
func (c *TUIConfig) Validate() error {
	if c.Theme == "" {
		return nil
	}
	if _, ok := theme.Lookup(c.Theme); !ok {
		return fmt.Errorf("invalid theme: %s (must be one of %v)", c.Theme, theme.Keys())
	}
	return nil
}

// Validate checks LogConfig for errors.
func (c *LogConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Level)
	}
	return nil
}
