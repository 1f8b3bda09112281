package viewport

import "errors"

// ErrResolutionFailed is reported when a source's natural size could not be
// determined. The previously resolved size stays in effect.
var ErrResolutionFailed = errors.New("viewport: natural size resolution failed")
