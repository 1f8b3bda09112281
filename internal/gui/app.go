// Package gui provides the desktop pan/zoom image viewer using Fyne.
package gui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"sync/atomic"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"

	"paperview/pkg/api"
	"paperview/pkg/capture"
	"paperview/pkg/config"
	"paperview/pkg/overlay"
	"paperview/pkg/viewport"
)

// ErrCaptureBusy is returned when a capture is requested while another one
// is still running.
var ErrCaptureBusy = errors.New("capture already in progress")

// App represents the viewer application.
type App struct {
	fyneApp    fyne.App
	mainWindow fyne.Window
	cfg        config.Config

	// UI components
	viewer  *PaperViewer
	toolbar *Toolbar
	status  *StatusBar

	capturing atomic.Bool
}

// NewApp creates a new viewer application.
func NewApp(cfg config.Config, layer *overlay.Layer) *App {
	return NewAppWith(app.New(), cfg, layer)
}

// NewAppWith builds the application on an existing fyne.App.
func NewAppWith(fa fyne.App, cfg config.Config, layer *overlay.Layer) *App {
	a := &App{
		fyneApp: fa,
		cfg:     cfg,
	}

	a.fyneApp.Settings().SetTheme(theme.DarkTheme())
	a.mainWindow = a.fyneApp.NewWindow(cfg.Window.Title)
	a.mainWindow.Resize(fyne.NewSize(float32(cfg.Window.Width), float32(cfg.Window.Height)))

	a.buildUI(layer)
	return a
}

// Window returns the main window.
func (a *App) Window() fyne.Window {
	return a.mainWindow
}

// Viewer returns the viewer widget.
func (a *App) Viewer() *PaperViewer {
	return a.viewer
}

// Run starts the application.
func (a *App) Run() {
	a.mainWindow.ShowAndRun()
}

// RunWithFile starts the application with a file already loading.
func (a *App) RunWithFile(path string) {
	a.LoadFile(path)
	a.mainWindow.ShowAndRun()
}

// buildUI constructs the user interface.
func (a *App) buildUI(layer *overlay.Layer) {
	a.toolbar = NewToolbar()
	a.status = NewStatusBar()

	opts := []api.Option{
		api.ZoomMin(a.cfg.Viewer.ZoomMin),
		api.ZoomMax(a.cfg.Viewer.ZoomMax),
		api.WheelStep(a.cfg.Viewer.WheelStep),
		api.WithOverlay(layer),
		api.WithLogger(log.Default()),
		api.OnChange(a.stateChanged),
		api.OnError(a.loadFailed),
	}
	if bg, err := a.cfg.BackgroundColor(); err == nil {
		opts = append(opts, api.Background(bg))
	}
	a.viewer = NewPaperViewer(viewport.DefaultHub, opts...)

	a.toolbar.OnOpen = a.openFile
	a.toolbar.OnZoomIn = a.viewer.ZoomIn
	a.toolbar.OnZoomOut = a.viewer.ZoomOut
	a.toolbar.OnReset = a.viewer.Reset
	a.toolbar.OnCapture = a.captureDialog

	content := container.NewBorder(
		container.NewPadded(a.toolbar.Container()), // Top
		a.status.Container(), // Bottom
		nil,                  // Left
		nil,                  // Right
		a.viewer,             // Center
	)

	a.mainWindow.SetContent(content)

	// Set up keyboard shortcuts
	a.mainWindow.Canvas().SetOnTypedKey(a.handleKey)
}

// handleKey handles zoom shortcuts.
func (a *App) handleKey(key *fyne.KeyEvent) {
	switch key.Name {
	case fyne.KeyPlus, fyne.KeyEqual:
		a.viewer.ZoomIn()
	case fyne.KeyMinus:
		a.viewer.ZoomOut()
	case fyne.Key0, fyne.KeyHome:
		a.viewer.Reset()
	}
}

func (a *App) stateChanged(st viewport.VisualState) {
	a.status.SetZoom(int(st.Scale*100 + 0.5))
	if st.Resolved {
		a.status.SetSize(st.Natural.Width, st.Natural.Height)
		a.toolbar.SetLoaded(true)
		if a.capturing.Load() {
			a.toolbar.SetCapturing(true)
		}
	}
}

func (a *App) loadFailed(src string, err error) {
	a.status.SetStatus(fmt.Sprintf("Failed to load %s", filepath.Base(src)))
	dialog.ShowError(err, a.mainWindow)
}

// openFile shows a file dialog and loads the selected image.
func (a *App) openFile() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.mainWindow)
			return
		}
		if reader == nil {
			return // Cancelled
		}
		defer reader.Close()

		a.LoadFile(reader.URI().Path())
	}, a.mainWindow)
}

// LoadFile starts loading a path or URL.
func (a *App) LoadFile(src string) {
	a.viewer.Load(src)
	a.mainWindow.SetTitle(fmt.Sprintf("%s - %s", a.cfg.Window.Title, filepath.Base(src)))
	a.status.SetStatus(filepath.Base(src))
}

// captureDialog asks for a destination and saves the capture there.
func (a *App) captureDialog() {
	dialog.ShowFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.mainWindow)
			return
		}
		if writer == nil {
			return // Cancelled
		}
		path := writer.URI().Path()
		writer.Close()

		go func() {
			if err := a.Capture(context.Background(), path); err != nil {
				dialog.ShowError(err, a.mainWindow)
			}
		}()
	}, a.mainWindow)
}

// Capture flattens the current image and overlay and writes it to path.
// The capture button stays disabled until it returns.
func (a *App) Capture(ctx context.Context, path string) error {
	if !a.capturing.CompareAndSwap(false, true) {
		return ErrCaptureBusy
	}
	a.toolbar.SetCapturing(true)
	defer func() {
		a.capturing.Store(false)
		a.toolbar.SetCapturing(false)
	}()

	img, err := a.viewer.Viewer().ToBitmap(ctx)
	if err != nil {
		return err
	}
	opts := capture.FormatForPath(path, a.cfg.ExportOptions())
	if err := capture.SaveFile(path, img, opts); err != nil {
		return err
	}
	a.status.SetStatus("Saved " + filepath.Base(path))
	return nil
}
