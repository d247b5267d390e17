// Package colorspace defines RGB color spaces by their primary and white
// chromaticities and converts between linear RGB and CIE XYZ tristimulus
// values.
package colorspace

import (
	"fmt"
	"strings"

	"github.com/chromabench/chromabench/chroma"
)

// A ColorSpace is a set of RGB primary chromaticities plus a reference
// white.  The forward and inverse transform matrices are derived once at
// construction; the zero value is not usable, create spaces with New.
type ColorSpace struct {
	Name             string
	Red, Green, Blue chroma.Chromaticity
	White            chroma.Chromaticity

	m, minv matrix3
}

// New derives a color space from its primaries and white point.  The forward
// matrix is scaled so that RGB (1,1,1) maps to the white point at unit
// luminance.
func New(name string, r, g, b, w chroma.Chromaticity) ColorSpace {
	// columns are the primaries at unit Y; the per-column scale is solved
	// from the requirement that (1,1,1) lands on the white point
	rv := r.XYZ(1)
	gv := g.XYZ(1)
	bv := b.XYZ(1)
	cols := matrix3{
		rv.X, gv.X, bv.X,
		rv.Y, gv.Y, bv.Y,
		rv.Z, gv.Z, bv.Z,
	}
	wv := w.XYZ(1)
	s := cols.inverse().apply([3]float64{wv.X, wv.Y, wv.Z})
	m := matrix3{
		cols[0] * s[0], cols[1] * s[1], cols[2] * s[2],
		cols[3] * s[0], cols[4] * s[1], cols[5] * s[2],
		cols[6] * s[0], cols[7] * s[1], cols[8] * s[2],
	}
	return ColorSpace{
		Name:  name,
		Red:   r,
		Green: g,
		Blue:  b,
		White: w,
		m:     m,
		minv:  m.inverse(),
	}
}

// RGBToXYZ converts a linear RGB triple to XYZ.  No clamping is performed.
func (cs ColorSpace) RGBToXYZ(c chroma.RGB) chroma.XYZ {
	v := cs.m.apply([3]float64{c.R, c.G, c.B})
	return chroma.XYZ{X: v[0], Y: v[1], Z: v[2]}
}

// XYZToRGB converts a tristimulus value to linear RGB.  No clamping is
// performed; colors outside the gamut yield out of range components.
func (cs ColorSpace) XYZToRGB(c chroma.XYZ) chroma.RGB {
	v := cs.minv.apply([3]float64{c.X, c.Y, c.Z})
	return chroma.RGB{R: v[0], G: v[1], B: v[2]}
}

// WhiteXYZ returns the reference white of the space at unit luminance.
func (cs ColorSpace) WhiteXYZ() chroma.XYZ {
	return cs.White.XYZ(1)
}

// D65 is the CIE standard illuminant D65 chromaticity.
var D65 = chroma.Chromaticity{X: 0.3127, Y: 0.3290}

// The standard spaces used as calibration targets.  Rec709 shares its
// primaries and white with sRGB.
var (
	Rec709 = New("Rec. 709",
		chroma.Chromaticity{X: 0.640, Y: 0.330},
		chroma.Chromaticity{X: 0.300, Y: 0.600},
		chroma.Chromaticity{X: 0.150, Y: 0.060},
		D65)

	Rec2020 = New("Rec. 2020",
		chroma.Chromaticity{X: 0.708, Y: 0.292},
		chroma.Chromaticity{X: 0.170, Y: 0.797},
		chroma.Chromaticity{X: 0.131, Y: 0.046},
		D65)

	DCIP3 = New("DCI-P3 D65",
		chroma.Chromaticity{X: 0.680, Y: 0.320},
		chroma.Chromaticity{X: 0.265, Y: 0.690},
		chroma.Chromaticity{X: 0.150, Y: 0.060},
		D65)

	AdobeRGB = New("Adobe RGB",
		chroma.Chromaticity{X: 0.640, Y: 0.330},
		chroma.Chromaticity{X: 0.210, Y: 0.710},
		chroma.Chromaticity{X: 0.150, Y: 0.060},
		D65)
)

// Parse maps a config token to one of the standard spaces, case insensitive.
func Parse(s string) (ColorSpace, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rec709", "rec. 709", "709", "bt709", "srgb":
		return Rec709, nil
	case "rec2020", "rec. 2020", "2020", "bt2020":
		return Rec2020, nil
	case "dci-p3", "dcip3", "p3":
		return DCIP3, nil
	case "adobergb", "adobe rgb", "adobe":
		return AdobeRGB, nil
	}
	return ColorSpace{}, fmt.Errorf("color space %q not understood", s)
}
