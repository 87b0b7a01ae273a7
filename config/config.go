// Package config loads viewer settings from a TOML file with sane
// defaults for every field. Missing files are not an error.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const appName = "charcoal"

// Config holds all runtime tunables
type Config struct {
	// ZoomStep is the multiplicative factor applied per zoom keypress
	ZoomStep float64 `koanf:"zoom_step"`
	// PanStep is the pan distance in cells for a plain movement key
	PanStep int `koanf:"pan_step"`
	// PanStepLarge is the pan distance in cells for shifted movement keys
	PanStepLarge int `koanf:"pan_step_large"`
	// MaxZoom caps zoom-in as samples per source pixel
	MaxZoom float64 `koanf:"max_zoom"`
	// Color forces a color mode: "auto", "true", "256", or "mono"
	Color string `koanf:"color"`
	// ShowStatus toggles the bottom status line
	ShowStatus bool `koanf:"show_status"`
	// Audio enables the error buzz
	Audio bool `koanf:"audio"`
	// MaxDecodeSize downscales decoded images whose larger dimension
	// exceeds this many pixels
	MaxDecodeSize int `koanf:"max_decode_size"`
	// LogFile receives diagnostic output; empty discards it
	LogFile string `koanf:"log_file"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		ZoomStep:      1.25,
		PanStep:       1,
		PanStepLarge:  10,
		MaxZoom:       32.0,
		Color:         "auto",
		ShowStatus:    true,
		Audio:         false,
		MaxDecodeSize: 4096,
		LogFile:       "",
	}
}

// Load reads configuration from path, or from the default locations
// when path is empty. Absent files yield the defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	paths := []string{path}
	if path == "" {
		paths = defaultPaths()
	}

	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			if path != "" {
				// an explicitly requested file must exist
				return nil, fmt.Errorf("config: %w", err)
			}
			continue
		}
		if err := k.Load(file.Provider(p), toml.Parser()); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", p, err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

// defaultPaths lists config files in priority order, last wins
func defaultPaths() []string {
	paths := []string{
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
	}
	paths = append(paths, "config.toml")
	return paths
}

// normalize clamps nonsense values back to the defaults so a bad config
// file degrades rather than breaking interaction
func (c *Config) normalize() {
	d := Default()
	if c.ZoomStep <= 1.0 {
		c.ZoomStep = d.ZoomStep
	}
	if c.PanStep <= 0 {
		c.PanStep = d.PanStep
	}
	if c.PanStepLarge <= 0 {
		c.PanStepLarge = d.PanStepLarge
	}
	if c.MaxZoom < 1.0 {
		c.MaxZoom = d.MaxZoom
	}
	if c.MaxDecodeSize <= 0 {
		c.MaxDecodeSize = d.MaxDecodeSize
	}
	switch c.Color {
	case "auto", "true", "256", "mono":
	default:
		c.Color = d.Color
	}
}
