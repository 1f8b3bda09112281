package viewport

import (
	"paperview/pkg/geom"
)

// Transform is the translate-then-scale applied to the fitted viewer box.
// Translate is in container pixels; Scale is uniform.
type Transform struct {
	Scale     float64
	Translate geom.Point
}

// IdentityTransform returns scale 1 with no translation.
func IdentityTransform() Transform {
	return Transform{Scale: 1}
}

// TranslateBounds returns the inclusive range translate may take on one axis
// for a viewer extent at scale s. The scaled image is laid out from the
// viewer's top-left, so these bounds keep it covering the viewport.
func TranslateBounds(extent, s float64) (lo, hi float64) {
	return extent/2 - extent*s, extent / 2
}

// ClampTranslate constrains t so the image scaled by s never exposes empty
// space inside a viewer of the given size. It is pure and idempotent.
func ClampTranslate(viewer ViewerSize, s float64, t geom.Point) geom.Point {
	xlo, xhi := TranslateBounds(viewer.Width, s)
	ylo, yhi := TranslateBounds(viewer.Height, s)
	return geom.Point{
		X: geom.Clamp(t.X, xlo, xhi),
		Y: geom.Clamp(t.Y, ylo, yhi),
	}
}

// ClampScale constrains s to [lo, hi].
func ClampScale(s, lo, hi float64) float64 {
	return geom.Clamp(s, lo, hi)
}
