package gui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Toolbar provides open, zoom and capture controls.
type Toolbar struct {
	container *fyne.Container

	// Callbacks
	OnOpen    func()
	OnZoomIn  func()
	OnZoomOut func()
	OnReset   func()
	OnCapture func()

	// Components
	zoomInBtn  *widget.Button
	zoomOutBtn *widget.Button
	resetBtn   *widget.Button
	captureBtn *widget.Button
}

// NewToolbar creates a new toolbar with everything but Open disabled.
func NewToolbar() *Toolbar {
	t := &Toolbar{}
	t.build()
	t.SetLoaded(false)
	return t
}

func call(fn *func()) func() {
	return func() {
		if *fn != nil {
			(*fn)()
		}
	}
}

func (t *Toolbar) build() {
	openBtn := widget.NewButtonWithIcon("Open", theme.FolderOpenIcon(), call(&t.OnOpen))

	t.zoomOutBtn = widget.NewButtonWithIcon("", theme.ZoomOutIcon(), call(&t.OnZoomOut))
	t.zoomInBtn = widget.NewButtonWithIcon("", theme.ZoomInIcon(), call(&t.OnZoomIn))
	t.resetBtn = widget.NewButtonWithIcon("Fit", theme.ViewRestoreIcon(), call(&t.OnReset))
	t.captureBtn = widget.NewButtonWithIcon("Capture", theme.DocumentSaveIcon(), call(&t.OnCapture))

	t.container = container.NewHBox(
		openBtn,
		widget.NewSeparator(),
		t.zoomOutBtn,
		t.zoomInBtn,
		t.resetBtn,
		widget.NewSeparator(),
		t.captureBtn,
	)
}

// Container returns the toolbar container.
func (t *Toolbar) Container() *fyne.Container {
	return t.container
}

// SetLoaded enables the view controls once an image is shown.
func (t *Toolbar) SetLoaded(loaded bool) {
	for _, b := range []*widget.Button{t.zoomInBtn, t.zoomOutBtn, t.resetBtn, t.captureBtn} {
		if loaded {
			b.Enable()
		} else {
			b.Disable()
		}
	}
}

// SetCapturing disables the capture button while a capture is in flight so
// that two captures never overlap.
func (t *Toolbar) SetCapturing(busy bool) {
	if busy {
		t.captureBtn.Disable()
	} else {
		t.captureBtn.Enable()
	}
}

// CaptureEnabled reports whether the capture button accepts taps.
func (t *Toolbar) CaptureEnabled() bool {
	return !t.captureBtn.Disabled()
}

// StatusBar provides status information.
type StatusBar struct {
	container *fyne.Container
	label     *widget.Label
	sizeLabel *widget.Label
	zoomLabel *widget.Label
}

// NewStatusBar creates a new status bar.
func NewStatusBar() *StatusBar {
	s := &StatusBar{
		label:     widget.NewLabel("Ready"),
		sizeLabel: widget.NewLabel(""),
		zoomLabel: widget.NewLabel("100%"),
	}

	s.container = container.NewHBox(
		s.label,
		widget.NewSeparator(),
		s.sizeLabel,
		widget.NewSeparator(),
		s.zoomLabel,
	)

	return s
}

// Container returns the status bar container.
func (s *StatusBar) Container() *fyne.Container {
	return s.container
}

// SetStatus sets the status message.
func (s *StatusBar) SetStatus(msg string) {
	s.label.SetText(msg)
}

// Status returns the status message.
func (s *StatusBar) Status() string {
	return s.label.Text
}

// SetSize shows the natural image size.
func (s *StatusBar) SetSize(w, h float64) {
	s.sizeLabel.SetText(fmt.Sprintf("%.0f × %.0f px", w, h))
}

// SetZoom sets the zoom percentage display.
func (s *StatusBar) SetZoom(percent int) {
	s.zoomLabel.SetText(strconv.Itoa(percent) + "%")
}

// Zoom returns the zoom label text.
func (s *StatusBar) Zoom() string {
	return s.zoomLabel.Text
}
