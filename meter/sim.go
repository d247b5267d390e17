package meter

import (
	"errors"
	"sync"

	"github.com/chromabench/chromabench/chroma"
	"github.com/chromabench/chromabench/colorspace"
	"github.com/chromabench/chromabench/eotf"
	"github.com/chromabench/chromabench/pattern"
)

// ErrNoPattern is returned when the simulator is read before any pattern has
// been shown.
var ErrNoPattern = errors.New("sim: no pattern has been shown")

// Sim models an ideal display with the given response and reads back the
// last pattern it was told to show.  It implements both Meter and the
// display renderer interface, standing in for the whole bench in mock runs
// and tests.
type Sim struct {
	Space    colorspace.ColorSpace
	Transfer eotf.Kind
	Gamma    float64

	// Peak and Black are the simulated display's luminance range in cd/m².
	Peak, Black float64

	mu   sync.Mutex
	last pattern.Instruction
}

// ShowPattern records the pattern whose light the next Measure call returns.
func (s *Sim) ShowPattern(p pattern.Instruction) error {
	s.mu.Lock()
	s.last = p
	s.mu.Unlock()
	return nil
}

// Measure returns the tristimulus value an ideal display with the configured
// response would emit for the last shown pattern.
func (s *Sim) Measure() (chroma.XYZ, error) {
	s.mu.Lock()
	p := s.last
	s.mu.Unlock()
	if p.Kind == pattern.None {
		return chroma.XYZ{}, ErrNoPattern
	}
	rgb := chroma.RGB{
		R: eotf.Linearize(s.Transfer, s.Gamma, float64(p.Color[0])/255),
		G: eotf.Linearize(s.Transfer, s.Gamma, float64(p.Color[1])/255),
		B: eotf.Linearize(s.Transfer, s.Gamma, float64(p.Color[2])/255),
	}
	// emitted light rides on the black floor
	lit := s.Space.RGBToXYZ(rgb).Scale(s.Peak - s.Black)
	floor := s.Space.WhiteXYZ().Scale(s.Black)
	return lit.Add(floor), nil
}
