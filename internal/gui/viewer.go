package gui

import (
	"context"
	"image"
	"log"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"

	"paperview/pkg/api"
	"paperview/pkg/geom"
	"paperview/pkg/viewport"
)

// PaperViewer is a pan/zoom image viewer widget.
//
// Drag pans, the wheel zooms at the cursor, and a release anywhere in the
// window ends the drag through the shared listener hub.
type PaperViewer struct {
	widget.BaseWidget

	viewer *api.Viewer
	hub    *viewport.Hub
	raster *canvas.Raster

	mu      sync.Mutex
	release func()
}

// NewPaperViewer creates a viewer widget. OnChange in opts still fires,
// after the widget has scheduled its own redraw.
func NewPaperViewer(hub *viewport.Hub, opts ...api.Option) *PaperViewer {
	if hub == nil {
		hub = viewport.DefaultHub
	}
	v := &PaperViewer{hub: hub}

	user := api.NewOptions(opts...).OnChange
	opts = append(opts, api.OnChange(func(st viewport.VisualState) {
		v.raster.Refresh()
		if user != nil {
			user(st)
		}
	}))

	v.raster = canvas.NewRaster(v.draw)
	v.raster.ScaleMode = canvas.ImageScalePixels
	v.viewer = api.New("", opts...)
	v.ExtendBaseWidget(v)
	return v
}

// Viewer returns the underlying viewer.
func (v *PaperViewer) Viewer() *api.Viewer {
	return v.viewer
}

// Load starts loading src.
func (v *PaperViewer) Load(src string) {
	v.viewer.Load(context.Background(), src)
}

// draw renders the composition at device pixel size w x h.
func (v *PaperViewer) draw(w, h int) image.Image {
	st := v.viewer.State()
	if !st.Resolved || st.Container.Width <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}

	k := float64(w) / st.Container.Width
	img, err := v.viewer.Scene().RenderViewport(context.Background(), devicePixels(st, k))
	if err != nil {
		log.Printf("render failed: %v", err)
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	return img
}

// devicePixels rescales a state measured in fyne units by k.
func devicePixels(st viewport.VisualState, k float64) viewport.VisualState {
	st.Container = geom.Sz(st.Container.Width*k, st.Container.Height*k)
	st.Viewer = geom.Sz(st.Viewer.Width*k, st.Viewer.Height*k)
	st.Translate = st.Translate.Scale(k)
	return st
}

func toPoint(p fyne.Position) geom.Point {
	return geom.Pt(float64(p.X), float64(p.Y))
}

// MouseDown implements desktop.Mouseable.
func (v *PaperViewer) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button == desktop.MouseButtonPrimary {
		v.viewer.Dispatcher().PointerDown(toPoint(ev.Position))
	}
}

// MouseUp implements desktop.Mouseable.
func (v *PaperViewer) MouseUp(*desktop.MouseEvent) {
	v.hub.PointerUp()
}

// Dragged implements fyne.Draggable.
func (v *PaperViewer) Dragged(ev *fyne.DragEvent) {
	d := v.viewer.Dispatcher()
	if d.Engine().State().Mode == viewport.ModeIdle {
		// Touch drags arrive without a MouseDown.
		d.PointerDown(toPoint(ev.Position).Sub(geom.Pt(float64(ev.Dragged.DX), float64(ev.Dragged.DY))))
	}
	d.PointerMove(toPoint(ev.Position))
}

// DragEnd implements fyne.Draggable. Fyne reports it for releases outside
// the widget too.
func (v *PaperViewer) DragEnd() {
	v.hub.PointerUp()
}

// Scrolled implements fyne.Scrollable. Fyne reports wheel-up as positive
// DY, the reverse of the deltaY convention the dispatcher uses.
func (v *PaperViewer) Scrolled(ev *fyne.ScrollEvent) {
	v.viewer.Dispatcher().Wheel(toPoint(ev.Position), -float64(ev.Scrolled.DY))
}

// TouchDown implements mobile.Touchable.
func (v *PaperViewer) TouchDown(ev *mobile.TouchEvent) {
	v.viewer.Dispatcher().TouchStart([]geom.Point{toPoint(ev.Position)})
}

// TouchUp implements mobile.Touchable.
func (v *PaperViewer) TouchUp(*mobile.TouchEvent) {
	v.hub.TouchEnd(0)
}

// TouchCancel implements mobile.Touchable.
func (v *PaperViewer) TouchCancel(*mobile.TouchEvent) {
	v.hub.TouchEnd(0)
}

// ZoomIn zooms one wheel step at the centre.
func (v *PaperViewer) ZoomIn() {
	v.viewer.Engine().ZoomBy(v.viewer.Engine().Config().WheelStep)
}

// ZoomOut zooms out one wheel step at the centre.
func (v *PaperViewer) ZoomOut() {
	v.viewer.Engine().ZoomBy(-v.viewer.Engine().Config().WheelStep)
}

// Reset returns to the fitted view.
func (v *PaperViewer) Reset() {
	v.viewer.Engine().Reset()
}

// CreateRenderer implements fyne.Widget. The widget is attached to the hub
// for as long as the renderer lives.
func (v *PaperViewer) CreateRenderer() fyne.WidgetRenderer {
	v.mu.Lock()
	if v.release == nil {
		v.release = v.viewer.Attach(v.hub)
	}
	v.mu.Unlock()
	return &paperViewerRenderer{viewer: v}
}

func (v *PaperViewer) detach() {
	v.mu.Lock()
	release := v.release
	v.release = nil
	v.mu.Unlock()
	if release != nil {
		release()
	}
}

var (
	_ desktop.Mouseable = (*PaperViewer)(nil)
	_ fyne.Draggable    = (*PaperViewer)(nil)
	_ fyne.Scrollable   = (*PaperViewer)(nil)
	_ mobile.Touchable  = (*PaperViewer)(nil)
)

// paperViewerRenderer renders the paper viewer.
type paperViewerRenderer struct {
	viewer *PaperViewer
}

func (r *paperViewerRenderer) Layout(size fyne.Size) {
	r.viewer.raster.Resize(size)
	r.viewer.viewer.SetContainer(float64(size.Width), float64(size.Height))
}

func (r *paperViewerRenderer) MinSize() fyne.Size {
	return fyne.NewSize(200, 200)
}

func (r *paperViewerRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.viewer.raster}
}

func (r *paperViewerRenderer) Refresh() {
	r.viewer.raster.Refresh()
}

func (r *paperViewerRenderer) Destroy() {
	r.viewer.detach()
}
