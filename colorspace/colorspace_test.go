package colorspace_test

import (
	"math"
	"testing"

	"github.com/chromabench/chromabench/chroma"
	"github.com/chromabench/chromabench/colorspace"
)

const tol = 1e-9

func allSpaces() []colorspace.ColorSpace {
	return []colorspace.ColorSpace{
		colorspace.Rec709,
		colorspace.Rec2020,
		colorspace.DCIP3,
		colorspace.AdobeRGB,
	}
}

func TestWhiteMapsToUnitRGB(t *testing.T) {
	for _, cs := range allSpaces() {
		rgb := cs.XYZToRGB(cs.WhiteXYZ())
		if math.Abs(rgb.R-1) > tol || math.Abs(rgb.G-1) > tol || math.Abs(rgb.B-1) > tol {
			t.Errorf("%s: expected white to map to (1,1,1), got %+v", cs.Name, rgb)
		}
	}
}

func TestUnitRGBMapsToWhite(t *testing.T) {
	for _, cs := range allSpaces() {
		xyz := cs.RGBToXYZ(chroma.RGB{R: 1, G: 1, B: 1})
		w := cs.WhiteXYZ()
		if math.Abs(xyz.X-w.X) > tol || math.Abs(xyz.Y-w.Y) > tol || math.Abs(xyz.Z-w.Z) > tol {
			t.Errorf("%s: expected (1,1,1) to map to %+v, got %+v", cs.Name, w, xyz)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	colors := []chroma.RGB{
		{R: 1},
		{G: 1},
		{B: 1},
		{R: 0.25, G: 0.5, B: 0.75},
		{R: 1, G: 1, B: 1},
		{},
		// out of gamut components are legal intermediate data
		{R: -0.1, G: 1.2, B: 0.3},
	}
	for _, cs := range allSpaces() {
		for _, in := range colors {
			out := cs.XYZToRGB(cs.RGBToXYZ(in))
			if math.Abs(out.R-in.R) > tol || math.Abs(out.G-in.G) > tol || math.Abs(out.B-in.B) > tol {
				t.Errorf("%s: round trip of %+v gave %+v", cs.Name, in, out)
			}
		}
	}
}

func TestWhiteXYZUnitLuminance(t *testing.T) {
	for _, cs := range allSpaces() {
		if y := cs.WhiteXYZ().Y; math.Abs(y-1) > tol {
			t.Errorf("%s: expected white Y of 1, got %v", cs.Name, y)
		}
	}
}

func TestRec709KnownValues(t *testing.T) {
	// luminance coefficients of the derived matrix should match BT.709
	r := colorspace.Rec709.RGBToXYZ(chroma.RGB{R: 1})
	g := colorspace.Rec709.RGBToXYZ(chroma.RGB{G: 1})
	b := colorspace.Rec709.RGBToXYZ(chroma.RGB{B: 1})
	expected := []float64{0.2126, 0.7152, 0.0722}
	got := []float64{r.Y, g.Y, b.Y}
	for i := range expected {
		if math.Abs(got[i]-expected[i]) > 1e-4 {
			t.Errorf("channel %d: expected luminance coefficient %v got %v", i, expected[i], got[i])
		}
	}
}

func TestParse(t *testing.T) {
	cases := map[string]string{
		"rec709":   "Rec. 709",
		"sRGB":     "Rec. 709",
		"REC2020":  "Rec. 2020",
		"dci-p3":   "DCI-P3 D65",
		"adobergb": "Adobe RGB",
	}
	for in, want := range cases {
		cs, err := colorspace.Parse(in)
		if err != nil {
			t.Errorf("Parse(%q) errored: %v", in, err)
			continue
		}
		if cs.Name != want {
			t.Errorf("Parse(%q): expected %s got %s", in, want, cs.Name)
		}
	}
	if _, err := colorspace.Parse("ntsc-j"); err == nil {
		t.Error("expected an error for an unknown space")
	}
}
