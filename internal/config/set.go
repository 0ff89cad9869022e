package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

type keyKind int

const (
	kindString keyKind = iota
	kindInt
	kindBool
)

// settableKeys lists the keys accepted by Set.
var settableKeys = map[string]keyKind{
	"spotify.client_id":        kindString,
	"spotify.client_secret":    kindString,
	"spotify.redirect_uri":     kindString,
	"demo.enabled":             kindBool,
	"demo.latency":             kindInt,
	"player.tick_interval":     kindInt,
	"player.restart_threshold": kindInt,
	"player.volume":            kindInt,
	"player.output":            kindString,
	"player.device":            kindString,
	"tui.theme":                kindString,
	"tui.mouse":                kindBool,
	"cache.ttl":                kindInt,
	"history.enabled":          kindBool,
	"history.path":             kindString,
	"log.level":                kindString,
	"log.file":                 kindString,
}

// SettableKeys returns the keys accepted by Set, sorted.
func SettableKeys() []string {
	keys := make([]string, 0, len(settableKeys))
	for k := range settableKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set writes a single "section.key" value to the config file at path,
// preserving every other value. The resulting file must still validate.
func Set(path, key, value string) error {
	kind, ok := settableKeys[key]
	if !ok {
		return fmt.Errorf("unknown config key: %s", key)
	}
	section, name, _ := strings.Cut(key, ".")

	var typed interface{}
	switch kind {
	case kindInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", key, err)
		}
		typed = int64(i)
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be true or false: %w", key, err)
		}
		typed = b
	default:
		typed = value
	}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read config: %w", err)
	}

	rawConfig := make(map[string]interface{})
	if len(data) > 0 {
		if _, err := toml.Decode(string(data), &rawConfig); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}
	}

	sec, ok := rawConfig[section].(map[string]interface{})
	if !ok {
		sec = make(map[string]interface{})
		rawConfig[section] = sec
	}
	sec[name] = typed

	var b strings.Builder
	encoder := toml.NewEncoder(&b)
	encoder.Indent = "  "
	if err := encoder.Encode(rawConfig); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	check := &Config{}
	if _, err := toml.Decode(b.String(), check); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	check.ApplyDefaults()
	if err := check.Validate(); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}

	return writeFile(path, b.String())
}

// Init writes a config file with default values. It refuses to overwrite
// an existing file unless force is set.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file already exists at %s: %w", path, os.ErrExist)
	}

	var b strings.Builder
	encoder := toml.NewEncoder(&b)
	encoder.Indent = "  "
	if err := encoder.Encode(Default()); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return writeFile(path, b.String())
}

func writeFile(path, body string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var b strings.Builder
	b.WriteString("# clickwheel configuration\n\n")
	b.WriteString(body)

	// The file may hold a client secret.
	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
