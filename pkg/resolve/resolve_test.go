package resolve

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paperview/pkg/geom"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page.png")
	require.NoError(t, os.WriteFile(path, pngBytes(t, w, h), 0o644))
	return path
}

func TestIsURL(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"https://example.com/a.png", true},
		{"http://localhost:8080/x", true},
		{"ftp://example.com/a.png", false},
		{"/tmp/a.png", false},
		{"a.png", false},
		{"file:///tmp/a.png", false},
		{"https://", false},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			assert.Equal(t, tt.want, IsURL(tt.src))
		})
	}
}

func TestFiles_Resolve(t *testing.T) {
	path := writePNG(t, 640, 480)
	ctx := context.Background()

	size, err := Files{}.Resolve(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, geom.Sz(640, 480), size)

	size, err = Files{}.Resolve(ctx, "file://"+path)
	require.NoError(t, err)
	assert.Equal(t, geom.Sz(640, 480), size)

	img, err := Files{}.Decode(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 640, 480), img.Bounds())
}

func TestFiles_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := Files{}.Resolve(ctx, filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	junk := filepath.Join(t.TempDir(), "junk.png")
	require.NoError(t, os.WriteFile(junk, []byte("not an image"), 0o644))
	_, err = Files{}.Resolve(ctx, junk)
	assert.ErrorIs(t, err, image.ErrFormat)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = Files{}.Resolve(cancelled, writePNG(t, 1, 1))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHTTP_Resolve(t *testing.T) {
	body := pngBytes(t, 300, 200)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/page.png":
			w.Write(body)
		case "/page.html":
			w.Write([]byte("<html><body>nope</body></html>"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	h := NewHTTP(srv.Client())
	ctx := context.Background()

	size, err := h.Resolve(ctx, srv.URL+"/page.png")
	require.NoError(t, err)
	assert.Equal(t, geom.Sz(300, 200), size)

	img, err := h.Decode(ctx, srv.URL+"/page.png")
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dx())

	_, err = h.Resolve(ctx, srv.URL+"/missing.png")
	assert.ErrorContains(t, err, "404")

	_, err = h.Resolve(ctx, srv.URL+"/page.html")
	assert.ErrorContains(t, err, "not a valid image type")
}

func TestAuto_Dispatch(t *testing.T) {
	body := pngBytes(t, 20, 10)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer srv.Close()

	a := &Auto{HTTP: NewHTTP(srv.Client())}
	ctx := context.Background()

	size, err := a.Resolve(ctx, srv.URL+"/x.png")
	require.NoError(t, err)
	assert.Equal(t, geom.Sz(20, 10), size)

	size, err = a.Resolve(ctx, writePNG(t, 7, 3))
	require.NoError(t, err)
	assert.Equal(t, geom.Sz(7, 3), size)

	_, err = a.Resolve(ctx, "ftp://example.com/x.png")
	assert.ErrorIs(t, err, ErrUnsupported)
}
