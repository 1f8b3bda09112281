package api

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paperview/pkg/geom"
	"paperview/pkg/overlay"
	"paperview/pkg/viewport"
)

// memResolver serves images from memory.
type memResolver struct {
	images map[string]image.Image
}

func (m memResolver) Decode(_ context.Context, src string) (image.Image, error) {
	img, ok := m.images[src]
	if !ok {
		return nil, fmt.Errorf("%s: not found", src)
	}
	return img, nil
}

func (m memResolver) Resolve(ctx context.Context, src string) (geom.Size, error) {
	img, err := m.Decode(ctx, src)
	if err != nil {
		return geom.Size{}, err
	}
	b := img.Bounds()
	return geom.Sz(float64(b.Dx()), float64(b.Dy())), nil
}

func solid(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func testResolver() memResolver {
	return memResolver{images: map[string]image.Image{
		"wide.png": solid(400, 200, color.RGBA{R: 255, A: 255}),
		"tall.png": solid(100, 300, color.RGBA{G: 255, A: 255}),
	}}
}

func TestNew_Defaults(t *testing.T) {
	v := New("", WithResolver(testResolver()))
	cfg := v.Engine().Config()
	assert.Equal(t, 0.8, cfg.ScaleMin)
	assert.Equal(t, 3.0, cfg.ScaleMax)

	v = New("", WithResolver(testResolver()), ViewerDefaults())
	assert.Equal(t, 5.0, v.Engine().Config().ScaleMax)

	v = New("", WithResolver(testResolver()), ZoomMin(0.5), ZoomMax(8), WheelStep(0.5))
	assert.Equal(t, viewport.Config{ScaleMin: 0.5, ScaleMax: 8, WheelStep: 0.5}, v.Engine().Config())
}

func TestNew_LoadsAndCaptures(t *testing.T) {
	var (
		mu     sync.Mutex
		ready  ToBitmap
		states int
	)
	v := New("wide.png",
		WithResolver(testResolver()),
		OnReady(func(fn ToBitmap) { ready = fn }),
		OnChange(func(viewport.VisualState) {
			mu.Lock()
			states++
			mu.Unlock()
		}),
	)
	require.NotNil(t, ready)

	v.SetContainer(200, 200)
	v.Wait()

	st := v.State()
	assert.True(t, st.Resolved)
	assert.Equal(t, geom.Sz(400, 200), st.Natural)
	assert.Equal(t, viewport.ViewerSize{Width: 200, Height: 100}, st.Viewer)

	v.Engine().ZoomAt(10, 10, 1)
	img, err := ready(context.Background())
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 400, 200), img.Bounds())
	assert.Equal(t, 2.0, v.State().Scale, "capture leaves the engine alone")

	mu.Lock()
	assert.Greater(t, states, 1)
	mu.Unlock()
}

func TestViewer_ReloadSwapsImage(t *testing.T) {
	v := New("wide.png", WithResolver(testResolver()))
	v.SetContainer(300, 300)
	v.Wait()

	v.Load(context.Background(), "tall.png")
	v.Wait()
	assert.Equal(t, "tall.png", v.Source())

	img, err := v.ToBitmap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 100, 300), img.Bounds())
	assert.Equal(t, color.RGBA{G: 255, A: 255}, img.(*image.RGBA).RGBAAt(50, 150))
}

// gatedResolver holds each decode until its source is released.
type gatedResolver struct {
	memResolver
	mu    sync.Mutex
	gates map[string]chan struct{}
}

func newGatedResolver() *gatedResolver {
	return &gatedResolver{memResolver: testResolver(), gates: make(map[string]chan struct{})}
}

func (g *gatedResolver) gate(src string) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.gates[src]
	if !ok {
		ch = make(chan struct{})
		g.gates[src] = ch
	}
	return ch
}

func (g *gatedResolver) Decode(ctx context.Context, src string) (image.Image, error) {
	select {
	case <-g.gate(src):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return g.memResolver.Decode(ctx, src)
}

func assertPixelsMatchSize(t *testing.T, v *Viewer) {
	t.Helper()
	img, err := v.ToBitmap(context.Background())
	require.NoError(t, err)
	n := v.State().Natural
	assert.Equal(t, image.Rect(0, 0, int(n.Width), int(n.Height)), img.Bounds())
}

func TestViewer_StaleDecodeDoesNotReplacePixels(t *testing.T) {
	res := newGatedResolver()
	v := New("", WithResolver(res))
	v.SetContainer(300, 300)

	v.Load(context.Background(), "wide.png")
	v.Load(context.Background(), "tall.png")
	close(res.gate("tall.png"))
	close(res.gate("wide.png"))
	v.Wait()

	assert.Equal(t, geom.Sz(100, 300), v.State().Natural)
	assertPixelsMatchSize(t, v)
}

func TestViewer_LoadDuringApplyKeepsPixelsWithSize(t *testing.T) {
	res := newGatedResolver()
	var (
		v    *Viewer
		once sync.Once
	)
	v = New("", WithResolver(res), OnChange(func(st viewport.VisualState) {
		if st.Natural == geom.Sz(400, 200) {
			// The next load starts right after the first one is applied.
			once.Do(func() {
				v.Load(context.Background(), "tall.png")
				close(res.gate("tall.png"))
			})
		}
	}))
	v.SetContainer(300, 300)

	v.Load(context.Background(), "wide.png")
	close(res.gate("wide.png"))
	v.Wait()

	assert.Equal(t, "tall.png", v.Source())
	assert.Equal(t, geom.Sz(100, 300), v.State().Natural)
	assertPixelsMatchSize(t, v)
}

func TestViewer_LoadFailureKeepsPrevious(t *testing.T) {
	var gotErr error
	v := New("wide.png",
		WithResolver(testResolver()),
		OnError(func(_ string, err error) { gotErr = err }),
	)
	v.Wait()

	v.Load(context.Background(), "missing.png")
	v.Wait()

	assert.ErrorIs(t, gotErr, viewport.ErrResolutionFailed)
	assert.Equal(t, geom.Sz(400, 200), v.State().Natural)

	img, err := v.ToBitmap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
}

func TestViewer_CaptureBeforeLoad(t *testing.T) {
	v := New("", WithResolver(testResolver()))
	_, err := v.ToBitmap(context.Background())
	assert.Error(t, err)
}

func TestViewer_OverlayAndRender(t *testing.T) {
	layer, err := overlay.NewLayer(overlay.Annotation{
		Kind: overlay.KindBox, X: 0, Y: 0, W: 200, H: 200, Fill: "#0000ff", Width: -1,
	})
	require.NoError(t, err)

	v := New("wide.png", WithResolver(testResolver()), WithOverlay(layer), Background(color.Black))
	v.SetContainer(200, 200)
	v.Wait()

	img, err := v.Render(context.Background())
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 200, 200), img.Bounds())
	// Fitted box spans rows 50..150; the overlay covers its left half.
	assert.Equal(t, color.RGBA{A: 255}, img.RGBAAt(100, 20))
	assert.Equal(t, color.RGBA{B: 255, A: 255}, img.RGBAAt(50, 100))
	assert.Equal(t, color.RGBA{R: 255, A: 255}, img.RGBAAt(150, 100))
}

func TestViewer_AttachEndsDrag(t *testing.T) {
	v := New("wide.png", WithResolver(testResolver()))
	v.SetContainer(200, 200)
	v.Wait()

	hub := viewport.NewHub()
	release := v.Attach(hub)

	v.Dispatcher().PointerDown(geom.Pt(10, 10))
	hub.PointerUp()
	assert.Equal(t, viewport.ModeIdle, v.State().Mode)

	release()
	assert.Zero(t, hub.Len())
}

func TestInfo(t *testing.T) {
	info, err := Info(context.Background(), "tall.png", testResolver())
	require.NoError(t, err)
	assert.Equal(t, geom.Sz(100, 300), info.Natural)
	assert.Equal(t, viewport.ViewerSize{Width: 100, Height: 300}, info.Fit(400, 300))

	_, err = Info(context.Background(), "missing.png", testResolver())
	assert.True(t, errors.Is(err, viewport.ErrResolutionFailed))
}
