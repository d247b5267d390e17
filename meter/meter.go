// Package meter abstracts the colorimeter that supplies tristimulus readings
// of whatever the display under test is showing.
package meter

import (
	"time"

	"github.com/chromabench/chromabench/chroma"
)

// Settings carries per-step acquisition hints.
type Settings struct {
	// Average enables on-meter sample averaging.
	Average bool

	// Integration is the requested integration time; zero leaves the
	// meter's current setting alone.
	Integration time.Duration
}

// A Meter returns one tristimulus reading per call.
type Meter interface {
	Measure() (chroma.XYZ, error)
}

// A Configurable meter accepts per-step acquisition settings.  Meters that
// do not implement it are used with their fixed defaults.
type Configurable interface {
	Configure(Settings) error
}
