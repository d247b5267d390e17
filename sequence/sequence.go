// Package sequence generates the ordered measurement steps for the
// calibration protocols: which test patterns to show, in what order, at what
// stimulus level.
package sequence

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/chromabench/chromabench/session"
)

// Mode selects how the meter should observe a step.
type Mode int

const (
	// ModeDisplay reads emissive light from the display under test.
	ModeDisplay Mode = iota

	// ModeAmbient reads reflected light, for contrast checks in lit rooms.
	ModeAmbient
)

// A Step is one entry in a measurement sequence: what to show and how to
// read it.
type Step struct {
	Name string

	// IRE is the target stimulus level in percent, 0-100.
	IRE float64

	Category session.Category

	// Stimulus is an explicit 8-bit pattern.  All zero means the pattern
	// is derived from Descriptor instead.
	Stimulus [3]uint8

	// Descriptor is free text describing the pattern, matched by the
	// pattern resolver when Stimulus is unset.
	Descriptor string

	Mode Mode

	// Average and Integration are acquisition hints passed through to
	// meters that accept them.
	Average     bool
	Integration time.Duration
}

// Level quantizes a stimulus percent to an 8-bit pattern level:
// round(clamp(ire,0,100)/100·255), rounding half away from zero.  Every
// generator and the pattern resolver use this one rule, so reference
// computation and pattern rendering stay bit-identical.
func Level(ire float64) uint8 {
	if ire < 0 {
		ire = 0
	}
	if ire > 100 {
		ire = 100
	}
	return uint8(math.Floor(ire/100*255 + 0.5))
}

func pct(v float64) string {
	return fmt.Sprintf("%.4g%%", v)
}

func grayStep(cat session.Category, ire float64) Step {
	name := "Gray " + pct(ire)
	return Step{
		Name:       name,
		IRE:        ire,
		Category:   cat,
		Descriptor: name,
	}
}

// Grayscale returns n evenly spaced neutral steps from 0 to 100 percent
// inclusive.  n is clamped to a minimum of 2.
func Grayscale(n int) []Step {
	if n < 2 {
		n = 2
	}
	steps := make([]Step, n)
	for i := range steps {
		steps[i] = grayStep(session.Grayscale, 100*float64(i)/float64(n-1))
	}
	return steps
}

// NearBlack returns the 11 shadow steps at integer IRE 0 through 10.
func NearBlack() []Step {
	steps := make([]Step, 11)
	for i := range steps {
		steps[i] = grayStep(session.NearBlack, float64(i))
	}
	return steps
}

// NearWhite returns the 11 highlight steps at integer IRE 90 through 100.
func NearWhite() []Step {
	steps := make([]Step, 11)
	for i := range steps {
		steps[i] = grayStep(session.NearWhite, float64(90+i))
	}
	return steps
}

func colorStep(cat session.Category, color string, ire float64) Step {
	lvl := Level(ire)
	var stim [3]uint8
	switch strings.ToLower(color) {
	case "white":
		stim = [3]uint8{lvl, lvl, lvl}
	case "red":
		stim = [3]uint8{lvl, 0, 0}
	case "green":
		stim = [3]uint8{0, lvl, 0}
	case "blue":
		stim = [3]uint8{0, 0, lvl}
	case "cyan":
		stim = [3]uint8{0, lvl, lvl}
	case "magenta":
		stim = [3]uint8{lvl, 0, lvl}
	case "yellow":
		stim = [3]uint8{lvl, lvl, 0}
	}
	name := color + " " + pct(ire)
	return Step{
		Name:       name,
		IRE:        ire,
		Category:   cat,
		Stimulus:   stim,
		Descriptor: name,
	}
}

// PrimariesSecondaries returns the fixed 13-step primary/secondary sweep:
// white reference at 100 percent, each primary at 75 and 100, then each
// secondary at 75 and 100.
func PrimariesSecondaries() []Step {
	steps := make([]Step, 0, 13)
	steps = append(steps, colorStep(session.Primary, "White", 100))
	for _, c := range []string{"Red", "Green", "Blue"} {
		steps = append(steps,
			colorStep(session.Primary, c, 75),
			colorStep(session.Primary, c, 100))
	}
	for _, c := range []string{"Cyan", "Magenta", "Yellow"} {
		steps = append(steps,
			colorStep(session.Secondary, c, 75),
			colorStep(session.Secondary, c, 100))
	}
	return steps
}

func saturationStep(color string, sat float64) Step {
	lvl := Level(sat)
	bg := 255 - lvl
	var stim [3]uint8
	switch strings.ToLower(color) {
	case "red":
		stim = [3]uint8{255, bg, bg}
	case "green":
		stim = [3]uint8{bg, 255, bg}
	case "blue":
		stim = [3]uint8{bg, bg, 255}
	case "cyan":
		stim = [3]uint8{0, lvl, lvl}
	case "magenta":
		stim = [3]uint8{lvl, 0, lvl}
	case "yellow":
		stim = [3]uint8{lvl, lvl, 0}
	}
	name := color + " " + pct(sat)
	return Step{
		Name:       name,
		IRE:        sat,
		Category:   session.Saturation,
		Stimulus:   stim,
		Descriptor: name,
	}
}

// SaturationSweep returns steps walking one hue from desaturated to pure in
// equal saturation increments, i·100/steps for i = 1..steps.  steps is
// clamped to a minimum of 1.
func SaturationSweep(color string, steps int) []Step {
	if steps < 1 {
		steps = 1
	}
	out := make([]Step, steps)
	for i := 1; i <= steps; i++ {
		out[i-1] = saturationStep(color, float64(i)*100/float64(steps))
	}
	return out
}

// sweepOrder is the fixed hue order of the full saturation sweep.
var sweepOrder = []string{"Red", "Green", "Blue", "Cyan", "Magenta", "Yellow"}

// FullSaturationSweep concatenates a SaturationSweep for each of the six
// hues in fixed order.
func FullSaturationSweep(stepsPerColor int) []Step {
	var out []Step
	for _, c := range sweepOrder {
		out = append(out, SaturationSweep(c, stepsPerColor)...)
	}
	return out
}

// Contrast returns exactly two steps: full white then full black, for the
// luminance anchors.
func Contrast() []Step {
	return []Step{
		{
			Name:       "White 100%",
			IRE:        100,
			Category:   session.ContrastRatio,
			Stimulus:   [3]uint8{255, 255, 255},
			Descriptor: "White 100%",
		},
		{
			Name:       "Black 0%",
			IRE:        0,
			Category:   session.ContrastRatio,
			Descriptor: "Black 0%",
		},
	}
}

// Everything concatenates every protocol in fixed order: contrast, grayscale,
// near-black, near-white, primaries/secondaries, full saturation sweep.
func Everything(grayPoints, satSteps int) []Step {
	var out []Step
	out = append(out, Contrast()...)
	out = append(out, Grayscale(grayPoints)...)
	out = append(out, NearBlack()...)
	out = append(out, NearWhite()...)
	out = append(out, PrimariesSecondaries()...)
	out = append(out, FullSaturationSweep(satSteps)...)
	return out
}

// Generate maps a protocol name to its step sequence.  grayPoints and
// satSteps parameterize the protocols that use them and are ignored by the
// others.
func Generate(protocol string, grayPoints, satSteps int) ([]Step, error) {
	switch strings.ToLower(strings.TrimSpace(protocol)) {
	case "grayscale":
		return Grayscale(grayPoints), nil
	case "nearblack", "near-black":
		return NearBlack(), nil
	case "nearwhite", "near-white":
		return NearWhite(), nil
	case "primaries", "primaries-secondaries", "colors":
		return PrimariesSecondaries(), nil
	case "saturation", "saturations":
		return FullSaturationSweep(satSteps), nil
	case "contrast":
		return Contrast(), nil
	case "everything", "all":
		return Everything(grayPoints, satSteps), nil
	}
	return nil, fmt.Errorf("protocol %q not understood", protocol)
}
