// Package resolve finds pixel dimensions of images referenced by local path,
// site relative URL or absolute URL without decoding image data.
//
// Locally hosted resources are found by translating public URLs into paths
// under the site root. Raster images are sized by reading their headers,
// either from a local file or with a partial remote fetch. SVG images are
// sized from the root element width/height or viewBox attributes.
//
// Results are memoized per Resolver. Lookups never fail: (0, 0) is returned
// whenever dimensions cannot be determined, so "unknown" and "zero sized"
// look the same to the caller.
package resolve

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is reported by probes when dimensions cannot be determined.
// It is a regular outcome rather than a failure.
var ErrNotFound = errors.New("dimensions not found")

// Dimensions is image size in pixels. Vector images may have fractional
// values.
type Dimensions struct {
	Width  float64
	Height float64
}

// IsZero reports whether dimensions carry no information.
func (d Dimensions) IsZero() bool {
	return d.Width == 0 && d.Height == 0
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%gx%g", d.Width, d.Height)
}

// isURL reports whether reference has to be treated as URL.
func isURL(ref string) bool {
	return strings.HasPrefix(ref, "http")
}

func notFound(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrNotFound}, args...)...)
}
