// Package chroma provides the basic colorimetric value types: CIE XYZ
// tristimulus values, xy chromaticities, linear RGB triples, and CIE L*a*b*
// coordinates.
package chroma

import "math"

// XYZ is a CIE 1931 tristimulus value.  Y carries luminance; whether the
// scale is normalized (white = 1) or absolute (cd/m²) is by convention of
// the caller.
type XYZ struct {
	X, Y, Z float64
}

// Scale returns the tristimulus value with every component multiplied by k.
func (c XYZ) Scale(k float64) XYZ {
	return XYZ{c.X * k, c.Y * k, c.Z * k}
}

// Add returns the componentwise sum of two tristimulus values.
func (c XYZ) Add(o XYZ) XYZ {
	return XYZ{c.X + o.X, c.Y + o.Y, c.Z + o.Z}
}

// Chromaticity is a CIE xy chromaticity coordinate pair.
type Chromaticity struct {
	X, Y float64
}

// XYZ returns the tristimulus value of the chromaticity at luminance lum.
func (c Chromaticity) XYZ(lum float64) XYZ {
	if c.Y == 0 {
		return XYZ{}
	}
	return XYZ{
		X: c.X * lum / c.Y,
		Y: lum,
		Z: (1 - c.X - c.Y) * lum / c.Y,
	}
}

// RGB is a linear-light RGB triple, nominally in [0,1].  Components are not
// clamped; out of range values represent colors outside the gamut, which is
// valid intermediate data.
type RGB struct {
	R, G, B float64
}

// Lab is a CIE 1976 L*a*b* coordinate.
type Lab struct {
	L, A, B float64
}

// CIE lightness breakpoint constants, exact rational forms.
const (
	labEpsilon = 216.0 / 24389.0
	labKappa   = 24389.0 / 27.0
)

func labF(t float64) float64 {
	if t > labEpsilon {
		return math.Cbrt(t)
	}
	return (labKappa*t + 16) / 116
}

// ToLab converts a tristimulus value to L*a*b* relative to the given
// reference white.
func ToLab(c, white XYZ) Lab {
	fx := labF(c.X / white.X)
	fy := labF(c.Y / white.Y)
	fz := labF(c.Z / white.Z)
	return Lab{
		L: 116*fy - 16,
		A: 500 * (fx - fy),
		B: 200 * (fy - fz),
	}
}
