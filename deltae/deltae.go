// Package deltae computes the CIEDE2000 perceptual color difference.  The
// full lightness/chroma/hue weighting and rotation term is implemented; the
// pass/fail thresholds in this domain are calibrated against ΔE2000, so the
// simpler ΔE76/ΔE94 formulas are not acceptable substitutes.
package deltae

import (
	"math"

	"github.com/chromabench/chromabench/chroma"
)

const (
	deg180 = math.Pi
	deg360 = 2 * math.Pi

	pow25to7 = 6103515625.0 // 25^7
)

func rad(deg float64) float64 {
	return deg * math.Pi / 180
}

// DE2000 computes the CIEDE2000 difference between two L*a*b* colors with
// all parametric weighting factors set to unity.
func DE2000(lab1, lab2 chroma.Lab) float64 {
	c1 := math.Hypot(lab1.A, lab1.B)
	c2 := math.Hypot(lab2.A, lab2.B)
	cBar := (c1 + c2) / 2

	g := 0.5 * (1 - math.Sqrt(math.Pow(cBar, 7)/(math.Pow(cBar, 7)+pow25to7)))
	a1p := (1 + g) * lab1.A
	a2p := (1 + g) * lab2.A
	c1p := math.Hypot(a1p, lab1.B)
	c2p := math.Hypot(a2p, lab2.B)

	h1p := hueAngle(lab1.B, a1p)
	h2p := hueAngle(lab2.B, a2p)

	dL := lab2.L - lab1.L
	dC := c2p - c1p

	var dh float64
	if c1p*c2p != 0 {
		dh = h2p - h1p
		if dh < -deg180 {
			dh += deg360
		} else if dh > deg180 {
			dh -= deg360
		}
	}
	dH := 2 * math.Sqrt(c1p*c2p) * math.Sin(dh/2)

	lBar := (lab1.L + lab2.L) / 2
	cBarP := (c1p + c2p) / 2

	hSum := h1p + h2p
	hBar := hSum
	if c1p*c2p != 0 {
		if math.Abs(h1p-h2p) <= deg180 {
			hBar = hSum / 2
		} else if hSum < deg360 {
			hBar = (hSum + deg360) / 2
		} else {
			hBar = (hSum - deg360) / 2
		}
	}

	t := 1 - 0.17*math.Cos(hBar-rad(30)) +
		0.24*math.Cos(2*hBar) +
		0.32*math.Cos(3*hBar+rad(6)) -
		0.20*math.Cos(4*hBar-rad(63))

	dTheta := rad(30) * math.Exp(-math.Pow((hBar-rad(275))/rad(25), 2))
	rc := 2 * math.Sqrt(math.Pow(cBarP, 7)/(math.Pow(cBarP, 7)+pow25to7))
	sl := 1 + 0.015*math.Pow(lBar-50, 2)/math.Sqrt(20+math.Pow(lBar-50, 2))
	sc := 1 + 0.045*cBarP
	sh := 1 + 0.015*cBarP*t
	rt := -math.Sin(2*dTheta) * rc

	return math.Sqrt(
		math.Pow(dL/sl, 2) +
			math.Pow(dC/sc, 2) +
			math.Pow(dH/sh, 2) +
			rt*(dC/sc)*(dH/sh))
}

// hueAngle returns the hue angle in [0, 2π), with the achromatic case
// pinned to zero.
func hueAngle(b, ap float64) float64 {
	if b == 0 && ap == 0 {
		return 0
	}
	h := math.Atan2(b, ap)
	if h < 0 {
		h += deg360
	}
	return h
}

// DiffXYZ computes the CIEDE2000 difference between two tristimulus values
// referenced to a common white point.
func DiffXYZ(a, b, white chroma.XYZ) float64 {
	return DE2000(chroma.ToLab(a, white), chroma.ToLab(b, white))
}
