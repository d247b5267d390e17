// Package pattern maps measurement steps to concrete displayable test
// patterns for the rendering side of the bench.
package pattern

import (
	"strings"

	"github.com/chromabench/chromabench/sequence"
)

// Kind discriminates the pattern variants.
type Kind int

const (
	// None is the sentinel for a failed resolution; no pattern should be
	// drawn.
	None Kind = iota

	// FullField covers the whole screen with one color.
	FullField

	// Window draws a centered patch over a background color.
	Window
)

// An Instruction tells the display driver what to draw.
type Instruction struct {
	Kind  Kind
	Color [3]uint8

	// Background and WindowPct apply to Window patterns only.  WindowPct
	// is the patch size as a percentage of total screen area.
	Background [3]uint8
	WindowPct  float64
}

// FullFieldColor returns a full-screen pattern of the given color.
func FullFieldColor(rgb [3]uint8) Instruction {
	return Instruction{Kind: FullField, Color: rgb}
}

// Windowed returns a centered patch of fg over bg covering pct percent of
// the screen area.  The current protocol set never generates these; they
// exist for direct construction by callers with explicit geometry.
func Windowed(fg, bg [3]uint8, pct float64) Instruction {
	return Instruction{Kind: Window, Color: fg, Background: bg, WindowPct: pct}
}

// namedColors are the eight canonical pattern colors, matched against the
// leading text of a step descriptor.
var namedColors = []struct {
	name string
	rgb  [3]uint8
}{
	{"white", [3]uint8{255, 255, 255}},
	{"black", [3]uint8{0, 0, 0}},
	{"red", [3]uint8{255, 0, 0}},
	{"green", [3]uint8{0, 255, 0}},
	{"blue", [3]uint8{0, 0, 255}},
	{"cyan", [3]uint8{0, 255, 255}},
	{"magenta", [3]uint8{255, 0, 255}},
	{"yellow", [3]uint8{255, 255, 0}},
}

// Resolve maps a step to a displayable pattern.  Resolution order: an
// explicit nonzero stimulus is used directly; a descriptor mentioning gray
// derives a neutral level from the step's stimulus percent; a descriptor
// leading with one of the eight color names yields that color's canonical
// triple.  ok is false when none of these apply, and the caller decides
// whether to skip or abort the step.
func Resolve(s sequence.Step) (Instruction, bool) {
	if s.Stimulus != ([3]uint8{}) {
		return FullFieldColor(s.Stimulus), true
	}
	d := strings.ToLower(s.Descriptor)
	if strings.Contains(d, "gray") || strings.Contains(d, "grey") {
		lvl := sequence.Level(s.IRE)
		return FullFieldColor([3]uint8{lvl, lvl, lvl}), true
	}
	for _, nc := range namedColors {
		if strings.HasPrefix(d, nc.name) {
			return FullFieldColor(nc.rgb), true
		}
	}
	return Instruction{}, false
}
