package viewport

import (
	"math"

	"paperview/pkg/geom"
)

// NaturalSize is the intrinsic pixel size of the displayed image.
type NaturalSize = geom.Size

// ViewerSize is the fitted on-screen size of the image at scale 1.
type ViewerSize = geom.Size

// DefaultNaturalSize stands in until a source resolves so that aspect
// and content scale never divide by zero.
var DefaultNaturalSize = NaturalSize{Width: 1, Height: 1}

// ComputeLayout contain-fits an image of the given aspect ratio into a
// container. Degenerate containers produce a zero size; a non-positive
// aspect is treated as 1.
func ComputeLayout(containerW, containerH, aspect float64) ViewerSize {
	if !(containerW > 0) || !(containerH > 0) || math.IsInf(containerW, 0) || math.IsInf(containerH, 0) {
		return ViewerSize{}
	}
	if !(aspect > 0) || math.IsInf(aspect, 0) {
		aspect = 1
	}

	if containerW/containerH > aspect {
		// Height-constrained
		return ViewerSize{Width: containerH * aspect, Height: containerH}
	}

	w := containerW
	return ViewerSize{Width: w, Height: w / aspect}
}
