package api

import (
	"context"
	"fmt"

	"paperview/pkg/geom"
	"paperview/pkg/resolve"
	"paperview/pkg/viewport"
)

// SourceInfo describes an image source.
type SourceInfo struct {
	Source  string
	Natural geom.Size
}

// Info resolves the natural size of src. A nil resolver uses
// resolve.NewAuto().
func Info(ctx context.Context, src string, r resolve.Resolver) (SourceInfo, error) {
	if r == nil {
		r = resolve.NewAuto()
	}
	size, err := r.Resolve(ctx, src)
	if err != nil {
		return SourceInfo{}, fmt.Errorf("%w: %s: %w", viewport.ErrResolutionFailed, src, err)
	}
	return SourceInfo{Source: src, Natural: size}, nil
}

// Fit returns the fitted size inside a w x h container.
func (i SourceInfo) Fit(w, h float64) viewport.ViewerSize {
	return viewport.ComputeLayout(w, h, i.Natural.Aspect())
}

// Aspect returns the natural aspect ratio.
func (i SourceInfo) Aspect() float64 {
	return i.Natural.Aspect()
}
