package session

import (
	"time"

	"github.com/chromabench/chromabench/chroma"
)

// A Point is one measurement record: the raw reading, the reference the
// display should have produced, and the derived errors.  A Point is immutable
// once constructed; the reference is computed from the owning session's
// anchors and target at Add time and is never recomputed, even if the target
// changes later.  Re-measure by adding a new point.
type Point struct {
	Name     string
	Category Category

	// IRE is the target stimulus level in percent, 0-100.  Its meaning
	// depends on the category: gray level for the neutral categories,
	// channel drive for colors, saturation for sweeps.
	IRE float64

	Time time.Time

	Measured  chroma.XYZ
	Reference chroma.XYZ

	// DeltaE is the CIEDE2000 difference between Measured and Reference
	// relative to the session's white point.
	DeltaE float64

	// RGBErr is the per-channel relative error between Measured and
	// Reference in the target space, (measured-reference)/reference, with
	// a unit denominator substituted where the reference channel is
	// numerically zero.
	RGBErr chroma.RGB

	// Gamma is the effective local gamma.  It is NaN except for Grayscale
	// points with stimulus strictly between 0 and 100 percent.
	Gamma float64
}
