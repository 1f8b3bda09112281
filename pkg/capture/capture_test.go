package capture

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paperview/pkg/geom"
	"paperview/pkg/overlay"
	"paperview/pkg/viewport"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func transformedPair() (*Box, *Box) {
	frame := NewBox(nil)
	frame.SetTransform(geom.Scale(2, 2).Then(geom.Translate(-30, -10)))
	content := NewBox(frame)
	content.SetTransform(geom.Scale(0.5, 0.5))
	return frame, content
}

func TestBridge_RestoresAfterFailure(t *testing.T) {
	frame, content := transformedPair()
	wantFrame, wantContent := frame.Transform(), content.Transform()

	boom := errors.New("rasterizer rejected")
	b := &Bridge{
		Target: func() Node { return content },
		Rasterizer: RasterizerFunc(func(ctx context.Context, n Node) (image.Image, error) {
			assert.True(t, n.Transform().IsIdentity())
			assert.True(t, n.Parent().Transform().IsIdentity())
			return nil, boom
		}),
	}

	_, err := b.ToBitmap(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, wantFrame, frame.Transform())
	assert.Equal(t, wantContent, content.Transform())

	// The bridge is usable again after a failure.
	b.Rasterizer = RasterizerFunc(func(context.Context, Node) (image.Image, error) {
		return solid(1, 1, color.Black), nil
	})
	img, err := b.ToBitmap(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, img)
	assert.Equal(t, wantFrame, frame.Transform())
}

func TestBridge_RestoresAfterPanic(t *testing.T) {
	frame, content := transformedPair()
	wantFrame, wantContent := frame.Transform(), content.Transform()

	b := &Bridge{
		Target: func() Node { return content },
		Rasterizer: RasterizerFunc(func(context.Context, Node) (image.Image, error) {
			panic("rasterizer crashed")
		}),
	}

	assert.Panics(t, func() { b.ToBitmap(context.Background()) })
	assert.Equal(t, wantFrame, frame.Transform())
	assert.Equal(t, wantContent, content.Transform())
}

func TestBridge_NotReady(t *testing.T) {
	ok := RasterizerFunc(func(context.Context, Node) (image.Image, error) {
		return solid(1, 1, color.Black), nil
	})

	var nilBridge *Bridge
	_, err := nilBridge.ToBitmap(context.Background())
	assert.ErrorIs(t, err, ErrNotReady)

	_, err = (&Bridge{Target: func() Node { return nil }, Rasterizer: ok}).ToBitmap(context.Background())
	assert.ErrorIs(t, err, ErrNotReady)

	// A detached node has no transform-bearing parent.
	_, content := transformedPair()
	content.Detach()
	_, err = (&Bridge{Target: func() Node { return content }, Rasterizer: ok}).ToBitmap(context.Background())
	assert.ErrorIs(t, err, ErrNotReady)
}

func newSyncedScene(t *testing.T) (*Scene, *viewport.Engine) {
	t.Helper()
	img := solid(200, 100, color.RGBA{B: 255, A: 255})
	s := NewScene(img, nil)

	e := viewport.NewEngine(viewport.DefaultConfig())
	e.SetContainer(100, 100)
	require.NoError(t, e.SetNaturalSize(geom.Sz(200, 100)))
	e.OnChange(s.Sync)
	s.Sync(e.State())
	return s, e
}

func TestScene_CaptureIsNaturalSize(t *testing.T) {
	s, e := newSyncedScene(t)
	e.ZoomAt(10, 10, 1)
	before := e.State()

	img, err := s.Bridge().ToBitmap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 200, 100), img.Bounds())

	// Transforms are back to what the engine says.
	assert.Equal(t, before.FrameMatrix(), s.Frame().Transform())
	assert.Equal(t, before.ContentMatrix(), s.Content().Transform())
}

func TestScene_RasterizeUnderTransforms(t *testing.T) {
	s, _ := newSyncedScene(t)
	// Content scale 0.5 at frame scale 1: viewer size.
	img, err := s.Rasterize(context.Background(), s.Content())
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 100, 50), img.Bounds())

	_, err = s.Rasterize(context.Background(), NewBox(nil))
	assert.Error(t, err)
}

func TestScene_OverlayTracksCapture(t *testing.T) {
	s, e := newSyncedScene(t)
	layer, err := overlay.NewLayer(overlay.Annotation{
		Kind: overlay.KindBox, X: 100, Y: 40, W: 20, H: 20, Fill: "#ff0000", Width: -1,
	})
	require.NoError(t, err)
	s.SetOverlay(layer)

	e.ZoomAt(0, 0, 1.5)
	img, err := s.Bridge().ToBitmap(context.Background())
	require.NoError(t, err)

	rgba := img.(*image.RGBA)
	assert.Equal(t, color.RGBA{R: 255, A: 255}, rgba.RGBAAt(110, 50))
	assert.Equal(t, color.RGBA{B: 255, A: 255}, rgba.RGBAAt(90, 50))
}

func TestScene_RenderViewport(t *testing.T) {
	s, e := newSyncedScene(t)
	s.SetBackground(color.White)

	st := e.State()
	img, err := s.RenderViewport(context.Background(), st)
	require.NoError(t, err)

	// 200x100 fitted into 100x100 is 100x50 centred: rows 25..75.
	assert.Equal(t, image.Rect(0, 0, 100, 100), img.Bounds())
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, img.RGBAAt(50, 10))
	assert.Equal(t, color.RGBA{B: 255, A: 255}, img.RGBAAt(50, 50))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, img.RGBAAt(50, 90))

	// Zoomed content is clipped to the fitted box.
	e.ZoomBy(2)
	img, err = s.RenderViewport(context.Background(), e.State())
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, img.RGBAAt(50, 10))
}

func TestScene_NoImage(t *testing.T) {
	s := NewScene(nil, nil)
	_, err := s.Bridge().ToBitmap(context.Background())
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestScene_CancelledContext(t *testing.T) {
	s, _ := newSyncedScene(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Bridge().ToBitmap(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEncode_MaxBox(t *testing.T) {
	img := solid(400, 200, color.RGBA{G: 255, A: 255})
	opts := JPEG(80)
	opts.MaxWidth = 100

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img, opts))

	out, err := jpeg.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 100, out.Bounds().Dx())
	assert.Equal(t, 50, out.Bounds().Dy())
}

func TestEncode_UnknownFormat(t *testing.T) {
	err := Encode(&bytes.Buffer{}, solid(1, 1, color.Black), ExportOptions{Format: "heic"})
	assert.ErrorContains(t, err, "unsupported export format")
}

func TestSaveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.jpg")
	opts := FormatForPath(path, DefaultExportOptions())
	assert.Equal(t, "jpg", opts.Format)

	require.NoError(t, SaveFile(path, solid(8, 8, color.Black), opts))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	_, format, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}
