// Package config loads the optional karafuru configuration file and merges
// it with command line flags.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds the values present in a config file or given as flags. Nil
// means unset.
type Config struct {
	Output      *string `yaml:"output" toml:"output" json:"output"`
	Color       *string `yaml:"color" toml:"color" json:"color"`
	Verbose     *bool   `yaml:"verbose" toml:"verbose" json:"verbose"`
	SwatchSize  *int    `yaml:"swatch_size" toml:"swatch_size" json:"swatch_size"`
	PickRadius  *int    `yaml:"pick_radius" toml:"pick_radius" json:"pick_radius"`
	Magnify     *int    `yaml:"magnify" toml:"magnify" json:"magnify"`
	TrackWidth  *int    `yaml:"track_width" toml:"track_width" json:"track_width"`
	TrackHeight *int    `yaml:"track_height" toml:"track_height" json:"track_height"`
}

// Settings are the effective values after merging
type Settings struct {
	Output      string
	Color       string
	Verbose     bool
	SwatchSize  int
	PickRadius  int
	Magnify     int
	TrackWidth  int
	TrackHeight int
}

func Defaults() Settings {
	return Settings{
		Output:      "text",
		Color:       "auto",
		SwatchSize:  75,
		PickRadius:  7,
		Magnify:     5,
		TrackWidth:  360,
		TrackHeight: 20,
	}
}

var keyMap = map[string]string{
	"output":       "output",
	"format":       "output",
	"color":        "color",
	"colour":       "color",
	"verbose":      "verbose",
	"swatch_size":  "swatch_size",
	"pick_radius":  "pick_radius",
	"radius":       "pick_radius",
	"magnify":      "magnify",
	"magnifier":    "magnify",
	"track_width":  "track_width",
	"track_height": "track_height",
}

// Load reads a YAML, TOML or JSON config file, chosen by the file
// extension. An empty path yields an empty Config.
func Load(path string) (Config, error) {
	var cfg Config
	path = strings.TrimSpace(path)
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	ext := strings.ToLower(filepath.Ext(path))
	var raw map[string]any
	switch ext {
	case ".yaml", ".yml":
		if decodeErr := yaml.Unmarshal(data, &raw); decodeErr != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, decodeErr)
		}
	case ".toml":
		if decodeErr := toml.Unmarshal(data, &raw); decodeErr != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, decodeErr)
		}
	case ".json":
		if decodeErr := json.Unmarshal(data, &raw); decodeErr != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, decodeErr)
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	if raw == nil {
		return cfg, nil
	}
	decoded, err := decodeConfigMap(raw)
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return decoded, nil
}

func decodeConfigMap(raw map[string]any) (cfg Config, err error) {
	for key, value := range raw {
		canonical, ok := keyMap[normalizeKey(key)]
		if !ok {
			return cfg, fmt.Errorf("unknown config key: %s", key)
		}
		switch canonical {
		case "output", "color":
			s, err := expectString(value, canonical)
			if err != nil {
				return cfg, err
			}
			s = strings.ToLower(strings.TrimSpace(s))
			if canonical == "output" {
				cfg.Output = &s
			} else {
				cfg.Color = &s
			}
		case "verbose":
			b, err := expectBool(value, canonical)
			if err != nil {
				return cfg, err
			}
			cfg.Verbose = &b
		default:
			n, err := expectInt(value, canonical)
			if err != nil {
				return cfg, err
			}
			*cfg.intField(canonical) = &n
		}
	}
	return cfg, nil
}

func (c *Config) intField(name string) **int {
	switch name {
	case "swatch_size":
		return &c.SwatchSize
	case "pick_radius":
		return &c.PickRadius
	case "magnify":
		return &c.Magnify
	case "track_width":
		return &c.TrackWidth
	case "track_height":
		return &c.TrackHeight
	}
	return nil
}

func expectString(value any, field string) (string, error) {
	if value == nil {
		return "", fmt.Errorf("%s cannot be null", field)
	}
	if s, ok := value.(string); ok {
		return s, nil
	}
	return "", fmt.Errorf("expected string for %s, got %T", field, value)
}

func expectBool(value any, field string) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, fmt.Errorf("invalid boolean value for %s: %q", field, v)
		}
		return b, nil
	default:
		return false, fmt.Errorf("expected bool for %s, got %T", field, value)
	}
}

func expectInt(value any, field string) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case uint64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, fmt.Errorf("expected integer for %s, got %v", field, value)
		}
		return int(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("invalid integer value for %s: %q", field, v)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("expected integer for %s, got %T", field, value)
	}
}

func normalizeKey(key string) string {
	norm := strings.ToLower(strings.TrimSpace(key))
	norm = strings.ReplaceAll(norm, "-", "_")
	return norm
}

// Merge applies the set values of each layer in order over base, so later
// layers win.
func Merge(base Settings, layers ...Config) Settings {
	for _, l := range layers {
		if l.Output != nil {
			base.Output = *l.Output
		}
		if l.Color != nil {
			base.Color = *l.Color
		}
		if l.Verbose != nil {
			base.Verbose = *l.Verbose
		}
		for _, x := range []struct {
			src *int
			dst *int
		}{
			{l.SwatchSize, &base.SwatchSize},
			{l.PickRadius, &base.PickRadius},
			{l.Magnify, &base.Magnify},
			{l.TrackWidth, &base.TrackWidth},
			{l.TrackHeight, &base.TrackHeight},
		} {
			if x.src != nil {
				*x.dst = *x.src
			}
		}
	}
	return base
}

// Validate checks that enumerated values are known and sizes are usable
func (s Settings) Validate() error {
	switch s.Output {
	case "text", "json":
	default:
		return fmt.Errorf("output must be text or json, got %q", s.Output)
	}
	switch s.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("color must be auto, always or never, got %q", s.Color)
	}
	for _, x := range []struct {
		name  string
		val   int
		least int
	}{
		{"swatch_size", s.SwatchSize, 1},
		{"pick_radius", s.PickRadius, 0},
		{"magnify", s.Magnify, 1},
		{"track_width", s.TrackWidth, 1},
		{"track_height", s.TrackHeight, 1},
	} {
		if x.val < x.least {
			return fmt.Errorf("%s must be at least %d, got %d", x.name, x.least, x.val)
		}
	}
	return nil
}
