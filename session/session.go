// Package session owns the calibration data model: an ordered collection of
// measurement points, the target against which their references are computed,
// and the aggregate statistics over them.
package session

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/chromabench/chromabench/chroma"
	"github.com/chromabench/chromabench/colorspace"
	"github.com/chromabench/chromabench/deltae"
	"github.com/chromabench/chromabench/eotf"
)

// rgbErrTol is the reference channel magnitude below which the RGB error
// denominator is replaced by 1, preventing blow-up at zero signal.
const rgbErrTol = 1e-6

var idCounter uint64

// A Session owns an ordered collection of calibration points and the target
// they are judged against.  It is not safe for concurrent mutation; a session
// is owned by one calibration run at a time.
type Session struct {
	// ID uniquely identifies the session.  Created is immutable; Name may
	// be changed freely.
	ID      string
	Name    string
	Created time.Time

	// The calibration target.  Gamma is consulted only when Transfer is
	// eotf.PowerLaw.  Changing any of these does not touch already-added
	// points.
	Space    colorspace.ColorSpace
	Transfer eotf.Kind
	Gamma    float64

	// White is the white point at unit luminance.  It defaults to the
	// target space's white and is independently mutable, so a session can
	// be white-point-corrected without changing the whole target.
	White chroma.XYZ

	peak   float64
	black  float64
	points []Point
}

// New creates a session with nominal luminance anchors (peak 100, black 0);
// the anchors are replaced once contrast measurements come in.
func New(name string, space colorspace.ColorSpace, transfer eotf.Kind, gamma float64) *Session {
	now := time.Now()
	return &Session{
		ID:       fmt.Sprintf("%x-%d", now.UnixNano(), atomic.AddUint64(&idCounter, 1)),
		Name:     name,
		Created:  now,
		Space:    space,
		Transfer: transfer,
		Gamma:    gamma,
		White:    space.WhiteXYZ(),
		peak:     100,
		black:    0,
	}
}

// Peak returns the peak white luminance anchor in cd/m².
func (s *Session) Peak() float64 { return s.peak }

// Black returns the black luminance anchor in cd/m².
func (s *Session) Black() float64 { return s.black }

// SetPeak replaces the peak white anchor.  Only points added afterwards see
// the new value.
func (s *Session) SetPeak(y float64) { s.peak = y }

// SetBlack replaces the black anchor.  Only points added afterwards see the
// new value.
func (s *Session) SetBlack(y float64) { s.black = y }

func (s *Session) linearize(signal float64) float64 {
	return eotf.Linearize(s.Transfer, s.Gamma, signal)
}

// AddGrayscale adds a grayscale ramp point at the given stimulus percent.
// The reference luminance is black + EOTF(signal)·(peak−black) at the white
// point chromaticity.  Effective gamma is computed for stimuli strictly
// between 0 and 100.
func (s *Session) AddGrayscale(name string, ire float64, measured chroma.XYZ) Point {
	return s.addNeutral(Grayscale, name, ire, measured)
}

// AddNearBlack adds a shadow-range neutral point.  No effective gamma is
// computed.
func (s *Session) AddNearBlack(name string, ire float64, measured chroma.XYZ) Point {
	return s.addNeutral(NearBlack, name, ire, measured)
}

// AddNearWhite adds a highlight-range neutral point.  No effective gamma is
// computed.
func (s *Session) AddNearWhite(name string, ire float64, measured chroma.XYZ) Point {
	return s.addNeutral(NearWhite, name, ire, measured)
}

// AddContrast adds one of the two contrast anchor points.  The matching
// anchor is updated from the measurement first (peak for a 100 percent
// stimulus, black for 0), then the reference is computed against the updated
// anchors, so a contrast point measures its own anchor and reads near zero
// error.
func (s *Session) AddContrast(name string, ire float64, measured chroma.XYZ) Point {
	if ire >= 100 {
		s.peak = measured.Y
	} else if ire <= 0 {
		s.black = measured.Y
	}
	return s.addNeutral(ContrastRatio, name, ire, measured)
}

func (s *Session) addNeutral(cat Category, name string, ire float64, measured chroma.XYZ) Point {
	signal := ire / 100
	refY := s.black + s.linearize(signal)*(s.peak-s.black)
	ref := s.White.Scale(refY)

	gamma := math.NaN()
	if cat == Grayscale && ire > 0 && ire < 100 {
		gamma = eotf.EffectiveGamma(signal, measured.Y, s.black, s.peak)
	}
	return s.appendPoint(cat, name, ire, measured, ref, gamma)
}

// AddPrimary adds a red, green, blue or white measurement.  The reference is
// derived from the point name; see ColorForName for the matching rule and its
// black fallback.
func (s *Session) AddPrimary(name string, ire float64, measured chroma.XYZ) Point {
	return s.addColor(Primary, name, ire, measured)
}

// AddSecondary adds a cyan, magenta or yellow measurement.
func (s *Session) AddSecondary(name string, ire float64, measured chroma.XYZ) Point {
	return s.addColor(Secondary, name, ire, measured)
}

// AddSaturation adds a saturation sweep point.
func (s *Session) AddSaturation(name string, ire float64, measured chroma.XYZ) Point {
	return s.addColor(Saturation, name, ire, measured)
}

func (s *Session) addColor(cat Category, name string, ire float64, measured chroma.XYZ) Point {
	rgb := ColorForName(name)
	lin := s.linearize(ire / 100)
	rgb = chroma.RGB{R: rgb.R * lin, G: rgb.G * lin, B: rgb.B * lin}
	ref := s.Space.RGBToXYZ(rgb).Scale(s.peak)
	return s.appendPoint(cat, name, ire, measured, ref, math.NaN())
}

// AddColorChecker adds a patch whose reference is supplied by the caller,
// for printed or otherwise known reference patches.
func (s *Session) AddColorChecker(name string, reference, measured chroma.XYZ) Point {
	return s.appendPoint(ColorChecker, name, 0, measured, reference, math.NaN())
}

// AddFree adds an exploratory reading.  The reference is defined as the
// measurement itself, so the difference is always zero.
func (s *Session) AddFree(name string, measured chroma.XYZ) Point {
	return s.appendPoint(Free, name, 0, measured, measured, math.NaN())
}

func (s *Session) appendPoint(cat Category, name string, ire float64, measured, ref chroma.XYZ, gamma float64) Point {
	p := Point{
		Name:      name,
		Category:  cat,
		IRE:       ire,
		Time:      time.Now(),
		Measured:  measured,
		Reference: ref,
		DeltaE:    deltae.DiffXYZ(ref, measured, s.White.Scale(s.peak)),
		RGBErr:    s.rgbError(measured, ref),
		Gamma:     gamma,
	}
	s.points = append(s.points, p)
	return p
}

func (s *Session) rgbError(measured, ref chroma.XYZ) chroma.RGB {
	m := s.Space.XYZToRGB(measured)
	r := s.Space.XYZToRGB(ref)
	return chroma.RGB{
		R: (m.R - r.R) / denom(r.R),
		G: (m.G - r.G) / denom(r.G),
		B: (m.B - r.B) / denom(r.B),
	}
}

func denom(v float64) float64 {
	if math.Abs(v) < rgbErrTol {
		return 1
	}
	return v
}

// ColorForName maps a stimulus name to an RGB triple by case-insensitive
// substring match against the named colors.  Unmatched names fall back to
// black, not an error; a typo'd color name therefore yields a black reference
// silently, which can mask calibration errors.
func ColorForName(name string) chroma.RGB {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "red"):
		return chroma.RGB{R: 1}
	case strings.Contains(n, "green"):
		return chroma.RGB{G: 1}
	case strings.Contains(n, "blue"):
		return chroma.RGB{B: 1}
	case strings.Contains(n, "cyan"):
		return chroma.RGB{G: 1, B: 1}
	case strings.Contains(n, "magenta"):
		return chroma.RGB{R: 1, B: 1}
	case strings.Contains(n, "yellow"):
		return chroma.RGB{R: 1, G: 1}
	case strings.Contains(n, "white"):
		return chroma.RGB{R: 1, G: 1, B: 1}
	}
	return chroma.RGB{}
}

// Len returns the number of points in the session.
func (s *Session) Len() int { return len(s.points) }

// Points returns a copy of the point collection in insertion order.
func (s *Session) Points() []Point {
	out := make([]Point, len(s.points))
	copy(out, s.points)
	return out
}

// ByCategory returns the points of one category in a stable,
// category-appropriate order: the neutral ramp categories ascending by
// stimulus, saturation sweeps by name, everything else in insertion order.
func (s *Session) ByCategory(c Category) []Point {
	var out []Point
	for _, p := range s.points {
		if p.Category == c {
			out = append(out, p)
		}
	}
	switch c {
	case Grayscale, NearBlack, NearWhite:
		sort.SliceStable(out, func(i, j int) bool { return out[i].IRE < out[j].IRE })
	case Saturation:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	}
	return out
}

// ClearCategory removes every point of the given category.  It is a no-op if
// none are present.
func (s *Session) ClearCategory(c Category) {
	kept := s.points[:0]
	for _, p := range s.points {
		if p.Category != c {
			kept = append(kept, p)
		}
	}
	s.points = kept
}

// Clear removes every point.
func (s *Session) Clear() {
	s.points = s.points[:0]
}

// ContrastRatio returns peak over black luminance, +Inf when the black
// anchor is exactly zero.
func (s *Session) ContrastRatio() float64 {
	if s.black == 0 {
		return math.Inf(1)
	}
	return s.peak / s.black
}

// AverageDeltaE returns the mean ΔE2000 over every point, 0 when the session
// is empty.
func (s *Session) AverageDeltaE() float64 {
	if len(s.points) == 0 {
		return 0
	}
	var sum float64
	for _, p := range s.points {
		sum += p.DeltaE
	}
	return sum / float64(len(s.points))
}

// GrayscaleAverageDeltaE returns the mean ΔE2000 over the grayscale subset,
// 0 when there are no grayscale points.
func (s *Session) GrayscaleAverageDeltaE() float64 {
	var sum float64
	var n int
	for _, p := range s.points {
		if p.Category == Grayscale {
			sum += p.DeltaE
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// GrayscaleMaxDeltaE returns the largest ΔE2000 over the grayscale subset,
// 0 when there are no grayscale points.
func (s *Session) GrayscaleMaxDeltaE() float64 {
	var max float64
	for _, p := range s.points {
		if p.Category == Grayscale && p.DeltaE > max {
			max = p.DeltaE
		}
	}
	return max
}
