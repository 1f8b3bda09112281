// Package config loads the paperview.toml settings file.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"

	"paperview/pkg/capture"
	"paperview/pkg/raster"
	"paperview/pkg/viewport"
)

// DefaultPath is the file looked up in the working directory when no
// -config flag is given.
const DefaultPath = "paperview.toml"

// Config represents the paperview.toml configuration file
type Config struct {
	Viewer  ViewerConfig  `toml:"viewer"`
	Window  WindowConfig  `toml:"window"`
	Capture CaptureConfig `toml:"capture"`
}

// ViewerConfig bounds the pan/zoom engine.
type ViewerConfig struct {
	ZoomMin   float64 `toml:"zoom_min"`
	ZoomMax   float64 `toml:"zoom_max"`
	WheelStep float64 `toml:"wheel_step"`
}

type WindowConfig struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
}

type CaptureConfig struct {
	// Format is the export format: png, jpeg, gif, tiff or bmp.
	Format  string `toml:"format"`
	Quality int    `toml:"quality"`
	// Background behind the image, "#rrggbb[aa]". Empty is transparent.
	Background string `toml:"background"`
	MaxWidth   int    `toml:"max_width"`
	MaxHeight  int    `toml:"max_height"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Viewer: ViewerConfig{
			ZoomMin:   viewport.DefaultScaleMin,
			ZoomMax:   5,
			WheelStep: viewport.DefaultWheelStep,
		},
		Window: WindowConfig{
			Width:  1200,
			Height: 900,
			Title:  "PaperView",
		},
		Capture: CaptureConfig{
			Format:     "png",
			Quality:    90,
			Background: "#ffffff",
		},
	}
}

// Load reads path over the defaults. A missing DefaultPath is not an
// error; any other missing file is.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path.
func Save(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Validate reports settings the engine would otherwise silently replace.
func (c Config) Validate() error {
	v := c.Viewer
	if !(v.ZoomMin > 0) {
		return fmt.Errorf("viewer.zoom_min must be positive, got %g", v.ZoomMin)
	}
	if v.ZoomMax < v.ZoomMin {
		return fmt.Errorf("viewer.zoom_max %g is below zoom_min %g", v.ZoomMax, v.ZoomMin)
	}
	if !(v.WheelStep > 0) {
		return fmt.Errorf("viewer.wheel_step must be positive, got %g", v.WheelStep)
	}
	if c.Window.Width < 0 || c.Window.Height < 0 {
		return fmt.Errorf("window size %dx%d is negative", c.Window.Width, c.Window.Height)
	}
	if _, err := c.BackgroundColor(); err != nil {
		return fmt.Errorf("capture.background: %w", err)
	}
	return nil
}

// ViewportConfig returns the engine bounds.
func (c Config) ViewportConfig() viewport.Config {
	return viewport.Config{
		ScaleMin:  c.Viewer.ZoomMin,
		ScaleMax:  c.Viewer.ZoomMax,
		WheelStep: c.Viewer.WheelStep,
	}
}

// ExportOptions returns the capture export settings.
func (c Config) ExportOptions() capture.ExportOptions {
	opts := capture.DefaultExportOptions()
	if c.Capture.Format != "" {
		opts.Format = c.Capture.Format
	}
	if c.Capture.Quality > 0 {
		opts.Quality = c.Capture.Quality
	}
	opts.MaxWidth = c.Capture.MaxWidth
	opts.MaxHeight = c.Capture.MaxHeight
	return opts
}

// BackgroundColor parses capture.background. Empty means transparent.
func (c Config) BackgroundColor() (color.Color, error) {
	if c.Capture.Background == "" {
		return color.Transparent, nil
	}
	col, err := raster.ParseColor(c.Capture.Background)
	if err != nil {
		return nil, err
	}
	return col, nil
}
