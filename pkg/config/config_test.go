package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "paperview.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Overrides(t *testing.T) {
	path := writeFile(t, `
[viewer]
zoom_max = 3

[capture]
format = "jpeg"
quality = 70
background = ""
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	vc := cfg.ViewportConfig()
	assert.Equal(t, 0.8, vc.ScaleMin)
	assert.Equal(t, 3.0, vc.ScaleMax)
	assert.Equal(t, 0.2, vc.WheelStep)

	opts := cfg.ExportOptions()
	assert.Equal(t, "jpeg", opts.Format)
	assert.Equal(t, 70, opts.Quality)

	bg, err := cfg.BackgroundColor()
	require.NoError(t, err)
	assert.Equal(t, color.Transparent, bg)

	assert.Equal(t, "PaperView", cfg.Window.Title)
}

func TestLoad_MissingFiles(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)

	// The implicit default path may be absent.
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", "[viewer\n"},
		{"min above max", "[viewer]\nzoom_min = 2\nzoom_max = 1\n"},
		{"zero step", "[viewer]\nwheel_step = 0\n"},
		{"bad color", "[capture]\nbackground = \"purple\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.toml")
	cfg := Default()
	cfg.Window.Title = "Forms"
	cfg.Viewer.ZoomMax = 4

	require.NoError(t, Save(path, cfg))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}
