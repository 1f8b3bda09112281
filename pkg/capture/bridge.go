// Package capture flattens the viewer composition into a bitmap and
// encodes it for export.
package capture

import (
	"context"
	"errors"
	"fmt"
	"image"

	"paperview/pkg/geom"
)

// ErrNotReady is returned when there is no attached content to capture.
var ErrNotReady = errors.New("capture: content not ready")

// Rasterizer draws a node subtree into a bitmap.
type Rasterizer interface {
	Rasterize(ctx context.Context, n Node) (image.Image, error)
}

// RasterizerFunc adapts a function to Rasterizer.
type RasterizerFunc func(ctx context.Context, n Node) (image.Image, error)

// Rasterize implements Rasterizer.
func (f RasterizerFunc) Rasterize(ctx context.Context, n Node) (image.Image, error) {
	return f(ctx, n)
}

// Bridge captures the content node with its transforms neutralized.
//
// Target is consulted on every call so that a host can swap or detach the
// content between captures. Overlapping ToBitmap calls on the same nodes
// are not coordinated; callers serialize them.
type Bridge struct {
	Target     func() Node
	Rasterizer Rasterizer
}

// ToBitmap clears the transforms of the target and its parent, rasterizes
// the target, and restores both transforms however rasterization ends.
func (b *Bridge) ToBitmap(ctx context.Context) (image.Image, error) {
	if b == nil || b.Target == nil || b.Rasterizer == nil {
		return nil, ErrNotReady
	}
	n := b.Target()
	if n == nil {
		return nil, ErrNotReady
	}
	parent := n.Parent()
	if parent == nil {
		return nil, ErrNotReady
	}

	// Read right before clearing: input may have moved things since the
	// capture was requested.
	saved, savedParent := n.Transform(), parent.Transform()
	n.SetTransform(geom.Identity())
	parent.SetTransform(geom.Identity())
	defer func() {
		n.SetTransform(saved)
		parent.SetTransform(savedParent)
	}()

	img, err := b.Rasterizer.Rasterize(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("capture: rasterize: %w", err)
	}
	return img, nil
}
