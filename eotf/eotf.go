// Package eotf implements the electro-optical transfer functions used as
// display calibration targets, mapping normalized electrical signals to
// normalized linear light.
package eotf

import (
	"fmt"
	"math"
	"strings"
)

// Kind selects a transfer function family.  The set is closed; there are
// exactly six families.
type Kind int

const (
	// PowerLaw is a plain gamma curve, linear = signal^γ.
	PowerLaw Kind = iota

	// SRGB is the IEC 61966-2-1 piecewise curve.
	SRGB

	// BT1886 is ITU-R BT.1886 in normalized form, a pure 2.4 power.  The
	// black offset enters through the session's luminance anchors, not here.
	BT1886

	// PQ is SMPTE ST.2084, normalized to [0,1] by dividing the absolute
	// luminance output by 10000 cd/m².
	PQ

	// HLG is the ITU-R BT.2100 hybrid log-gamma curve.
	HLG

	// LStar is the CIE 1976 lightness curve.
	LStar
)

func (k Kind) String() string {
	switch k {
	case PowerLaw:
		return "Gamma"
	case SRGB:
		return "sRGB"
	case BT1886:
		return "BT.1886"
	case PQ:
		return "PQ"
	case HLG:
		return "HLG"
	case LStar:
		return "L*"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Parse maps a config token to a Kind, case insensitive.
func Parse(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gamma", "power", "powerlaw", "power-law":
		return PowerLaw, nil
	case "srgb":
		return SRGB, nil
	case "bt1886", "bt.1886", "1886":
		return BT1886, nil
	case "pq", "st2084", "st.2084", "2084":
		return PQ, nil
	case "hlg":
		return HLG, nil
	case "l*", "lstar", "l-star":
		return LStar, nil
	}
	return 0, fmt.Errorf("transfer function %q not understood", s)
}

// ST.2084 constants, exact rational forms.
const (
	pqM1 = 2610.0 / 16384.0
	pqM2 = 2523.0 / 4096.0 * 128.0
	pqC1 = 3424.0 / 4096.0
	pqC2 = 2413.0 / 4096.0 * 32.0
	pqC3 = 2392.0 / 4096.0 * 32.0
)

// BT.2100 HLG constants.
var (
	hlgA = 0.17883277
	hlgB = 1 - 4*hlgA
	hlgC = 0.5 - hlgA*math.Log(4*hlgA)
)

// Linearize maps a normalized electrical signal in [0,1] to normalized
// linear light in [0,1].  gamma is consulted only when k is PowerLaw.
func Linearize(k Kind, gamma, signal float64) float64 {
	switch k {
	case PowerLaw:
		return math.Pow(signal, gamma)
	case SRGB:
		if signal <= 0.04045 {
			return signal / 12.92
		}
		return math.Pow((signal+0.055)/1.055, 2.4)
	case BT1886:
		return math.Pow(signal, 2.4)
	case PQ:
		ep := math.Pow(signal, 1/pqM2)
		num := ep - pqC1
		if num < 0 {
			num = 0
		}
		// the quotient is absolute luminance over 10000 nits
		return math.Pow(num/(pqC2-pqC3*ep), 1/pqM1)
	case HLG:
		if signal <= 0.5 {
			return signal * signal / 3
		}
		return (math.Exp((signal-hlgC)/hlgA) + hlgB) / 12
	case LStar:
		l := signal * 100
		if l > 8 {
			return math.Pow((l+16)/116, 3)
		}
		return l * 27 / 24389
	}
	return signal
}

// Delinearize is the inverse of Linearize, mapping normalized linear light
// back to a normalized electrical signal.
func Delinearize(k Kind, gamma, linear float64) float64 {
	switch k {
	case PowerLaw:
		return math.Pow(linear, 1/gamma)
	case SRGB:
		if linear <= 0.0031308 {
			return 12.92 * linear
		}
		return 1.055*math.Pow(linear, 1/2.4) - 0.055
	case BT1886:
		return math.Pow(linear, 1/2.4)
	case PQ:
		ym := math.Pow(linear, pqM1)
		return math.Pow((pqC1+pqC2*ym)/(1+pqC3*ym), pqM2)
	case HLG:
		if linear <= 1.0/12.0 {
			return math.Sqrt(3 * linear)
		}
		return hlgA*math.Log(12*linear-hlgB) + hlgC
	case LStar:
		var l float64
		if linear > 216.0/24389.0 {
			l = 116*math.Cbrt(linear) - 16
		} else {
			l = linear * 24389 / 27
		}
		return l / 100
	}
	return linear
}

// EffectiveGamma fits a local power-law exponent to a measured luminance: the
// γ such that signal^γ equals the measured luminance normalized between the
// black and peak anchors.  It is a diagnostic only.  The result is NaN when
// the fit is undefined: signal at or beyond the endpoints, anchors inverted,
// or measured luminance at or below black.
func EffectiveGamma(signal, measured, black, peak float64) float64 {
	if signal <= 0 || signal >= 1 || peak <= black {
		return math.NaN()
	}
	norm := (measured - black) / (peak - black)
	if norm <= 0 {
		return math.NaN()
	}
	return math.Log(norm) / math.Log(signal)
}
