package session

import (
	"fmt"
	"strings"
)

// Category classifies what a measurement point represents.  The set is
// closed; points carry exactly one of these.
type Category int

const (
	// Grayscale is a neutral ramp point; the only category for which an
	// effective gamma is computed.
	Grayscale Category = iota

	// NearBlack is a neutral point in the 0-10 percent shadow range.
	NearBlack

	// NearWhite is a neutral point in the 90-100 percent highlight range.
	NearWhite

	// Primary is a red, green, blue or reference white measurement.
	Primary

	// Secondary is a cyan, magenta or yellow measurement.
	Secondary

	// Saturation is a point on a saturation sweep toward a pure hue.
	Saturation

	// ColorChecker is a patch with a caller-supplied known reference.
	ColorChecker

	// ContrastRatio is one of the two anchor measurements (full white,
	// full black).
	ContrastRatio

	// Free is an exploratory reading with no pass/fail semantics; its
	// reference is defined as the measurement itself.
	Free
)

func (c Category) String() string {
	switch c {
	case Grayscale:
		return "Grayscale"
	case NearBlack:
		return "NearBlack"
	case NearWhite:
		return "NearWhite"
	case Primary:
		return "Primary"
	case Secondary:
		return "Secondary"
	case Saturation:
		return "Saturation"
	case ColorChecker:
		return "ColorChecker"
	case ContrastRatio:
		return "ContrastRatio"
	case Free:
		return "Free"
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// ParseCategory maps a token to a Category, case insensitive.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "grayscale", "greyscale", "gray", "grey":
		return Grayscale, nil
	case "nearblack", "near-black":
		return NearBlack, nil
	case "nearwhite", "near-white":
		return NearWhite, nil
	case "primary":
		return Primary, nil
	case "secondary":
		return Secondary, nil
	case "saturation":
		return Saturation, nil
	case "colorchecker", "color-checker":
		return ColorChecker, nil
	case "contrastratio", "contrast-ratio", "contrast":
		return ContrastRatio, nil
	case "free":
		return Free, nil
	}
	return 0, fmt.Errorf("category %q not understood", s)
}
