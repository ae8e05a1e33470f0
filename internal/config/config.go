// Package config provides YAML-based configuration loading for the
// druid frontends.
package config

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/druid-frontend/internal/render"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config contains every setting shared by the frontends.
type Config struct {
	Canvas  CanvasConfig  `yaml:"canvas"`
	Frame   FrameConfig   `yaml:"frame"`
	Asset   AssetConfig   `yaml:"asset"`
	Storage StorageConfig `yaml:"storage"`
	Server  ServerConfig  `yaml:"server"`
}

// CanvasConfig describes the drawing surface.
type CanvasConfig struct {
	ElementID string `yaml:"element_id"` // DOM id of the browser canvas
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
}

// FrameConfig controls the frame loop.
type FrameConfig struct {
	TickRate     int    `yaml:"tick_rate"`      // frames per second
	Background   string `yaml:"background"`     // #RRGGBB or #AARRGGBB
	BlockColor   string `yaml:"block_color"`    // color used by the placeholder block
	AbortOnError bool   `yaml:"abort_on_error"` // stop on the first bad frame
}

// AssetConfig locates image assets.
type AssetConfig struct {
	Root   string `yaml:"root"`
	Splash string `yaml:"splash"` // relative to Root; empty disables the splash
}

// StorageConfig locates the capture database.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// ServerConfig configures the SSH frontend.
type ServerConfig struct {
	Address            string `yaml:"address"`
	HostKey            string `yaml:"host_key"`
	IdleTimeoutMinutes int    `yaml:"idle_timeout_minutes"`
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("%w: canvas size %dx%d", ErrInvalidConfig, c.Canvas.Width, c.Canvas.Height)
	}
	if c.Frame.TickRate <= 0 {
		return fmt.Errorf("%w: tick_rate %d", ErrInvalidConfig, c.Frame.TickRate)
	}
	if _, err := render.ParseColor(c.Frame.Background); err != nil {
		return fmt.Errorf("%w: background: %v", ErrInvalidConfig, err)
	}
	if _, err := render.ParseColor(c.Frame.BlockColor); err != nil {
		return fmt.Errorf("%w: block_color: %v", ErrInvalidConfig, err)
	}
	if c.Server.IdleTimeoutMinutes < 0 {
		return fmt.Errorf("%w: idle_timeout_minutes %d", ErrInvalidConfig, c.Server.IdleTimeoutMinutes)
	}
	return nil
}

// Background returns the parsed background color, or black when unset.
func (c Config) Background() render.Color {
	col, err := render.ParseColor(c.Frame.Background)
	if err != nil {
		return render.Black
	}
	return col
}

// BlockColor returns the parsed placeholder block color.
func (c Config) BlockColor() render.Color {
	col, err := render.ParseColor(c.Frame.BlockColor)
	if err != nil {
		return render.PlaceholderColor
	}
	return col
}

// Runtime returns the frame source settings for this configuration.
func (c Config) Runtime() render.RuntimeConfig {
	return render.RuntimeConfig{
		Width:    c.Canvas.Width,
		Height:   c.Canvas.Height,
		TickRate: c.Frame.TickRate,
	}
}
