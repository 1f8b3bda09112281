// Package resolve turns image source identifiers into natural sizes and
// decoded pixels. Local paths, file:// URIs and http(s):// URLs are
// supported.
package resolve

import (
	"context"
	"errors"
	"image"
	"net/url"
	"strings"

	// Image formats understood by every resolver.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"paperview/pkg/geom"
)

// ErrUnsupported is returned for sources whose scheme no resolver handles.
var ErrUnsupported = errors.New("resolve: unsupported source")

// Resolver produces the natural size and pixels of an image source.
type Resolver interface {
	Resolve(ctx context.Context, src string) (geom.Size, error)
	Decode(ctx context.Context, src string) (image.Image, error)
}

// IsURL reports whether src is a well-formed http(s) URL.
func IsURL(src string) bool {
	if _, err := url.ParseRequestURI(src); err != nil {
		return false
	}
	u, err := url.Parse(src)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// Auto dispatches to HTTP for URLs and Files for everything else.
type Auto struct {
	Files Files
	HTTP  *HTTP
}

// NewAuto returns an Auto resolver with default settings.
func NewAuto() *Auto {
	return &Auto{HTTP: NewHTTP(nil)}
}

func (a *Auto) pick(src string) (Resolver, error) {
	switch {
	case IsURL(src):
		if a.HTTP == nil {
			return nil, ErrUnsupported
		}
		return a.HTTP, nil
	case strings.Contains(src, "://") && !strings.HasPrefix(src, "file://"):
		return nil, ErrUnsupported
	default:
		return a.Files, nil
	}
}

// Resolve implements Resolver.
func (a *Auto) Resolve(ctx context.Context, src string) (geom.Size, error) {
	r, err := a.pick(src)
	if err != nil {
		return geom.Size{}, err
	}
	return r.Resolve(ctx, src)
}

// Decode implements Resolver.
func (a *Auto) Decode(ctx context.Context, src string) (image.Image, error) {
	r, err := a.pick(src)
	if err != nil {
		return nil, err
	}
	return r.Decode(ctx, src)
}

func sizeOf(cfg image.Config) geom.Size {
	return geom.Sz(float64(cfg.Width), float64(cfg.Height))
}
