// Package acquire runs a measurement sequence against the bench: show a
// pattern, let the display settle, read the meter, record the point.
package acquire

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/chromabench/chromabench/chroma"
	"github.com/chromabench/chromabench/display"
	"github.com/chromabench/chromabench/meter"
	"github.com/chromabench/chromabench/pattern"
	"github.com/chromabench/chromabench/sequence"
	"github.com/chromabench/chromabench/session"
)

// Progress is invoked after each recorded point.  done counts completed
// steps including skipped ones.
type Progress func(done, total int, step sequence.Step, pt session.Point)

// A Runner walks measurement steps through the bench into a session.  The
// engine itself never blocks; all waiting happens here, between the external
// collaborators.
type Runner struct {
	Meter   meter.Meter
	Screen  display.Renderer
	Session *session.Session

	// Settle paces pattern changes so the display and meter stabilize
	// before each reading.  Nil means no settle delay.
	Settle *rate.Limiter

	// OnStep, if non-nil, is called after each point is recorded.  It is
	// not called for skipped steps.
	OnStep Progress

	// Skipped counts steps whose descriptor could not be resolved to a
	// pattern during the last Run.
	Skipped int
}

// Run executes the steps in order.  Steps whose pattern cannot be resolved
// are skipped and counted, never fatal.  Cancelling the context abandons the
// run between steps; an abandoned step never constructs a point.
func (r *Runner) Run(ctx context.Context, steps []sequence.Step) error {
	r.Skipped = 0
	for i, st := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		instr, ok := pattern.Resolve(st)
		if !ok {
			r.Skipped++
			continue
		}
		if err := r.Screen.ShowPattern(instr); err != nil {
			return err
		}
		if r.Settle != nil {
			if err := r.Settle.Wait(ctx); err != nil {
				return err
			}
		}
		if c, ok := r.Meter.(meter.Configurable); ok {
			s := meter.Settings{Average: st.Average, Integration: st.Integration}
			if err := c.Configure(s); err != nil {
				return err
			}
		}
		reading, err := r.Meter.Measure()
		if err != nil {
			return err
		}
		pt := r.record(st, reading)
		if r.OnStep != nil {
			r.OnStep(i+1, len(steps), st, pt)
		}
	}
	return nil
}

func (r *Runner) record(st sequence.Step, xyz chroma.XYZ) session.Point {
	s := r.Session
	switch st.Category {
	case session.Grayscale:
		return s.AddGrayscale(st.Name, st.IRE, xyz)
	case session.NearBlack:
		return s.AddNearBlack(st.Name, st.IRE, xyz)
	case session.NearWhite:
		return s.AddNearWhite(st.Name, st.IRE, xyz)
	case session.Primary:
		return s.AddPrimary(st.Name, st.IRE, xyz)
	case session.Secondary:
		return s.AddSecondary(st.Name, st.IRE, xyz)
	case session.Saturation:
		return s.AddSaturation(st.Name, st.IRE, xyz)
	case session.ContrastRatio:
		return s.AddContrast(st.Name, st.IRE, xyz)
	}
	// ColorChecker steps have no derivable reference in a sequence, so
	// they land as exploratory readings alongside Free
	return s.AddFree(st.Name, xyz)
}
