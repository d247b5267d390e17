package main

import (
	"context"
	"fmt"
	"math"
	"os/signal"
	"syscall"
	"time"

	"github.com/theckman/yacspin"
	"golang.org/x/time/rate"

	"github.com/chromabench/chromabench/acquire"
	"github.com/chromabench/chromabench/colorspace"
	"github.com/chromabench/chromabench/display"
	"github.com/chromabench/chromabench/eotf"
	"github.com/chromabench/chromabench/meter"
	"github.com/chromabench/chromabench/sequence"
	"github.com/chromabench/chromabench/session"
)

// TargetSetup is the calibration target block of the config.
type TargetSetup struct {
	Name     string  `koanf:"name" yaml:"name"`
	Space    string  `koanf:"space" yaml:"space"`
	Transfer string  `koanf:"transfer" yaml:"transfer"`
	Gamma    float64 `koanf:"gamma" yaml:"gamma"`
}

// MeterSetup selects the colorimeter.
type MeterSetup struct {
	// Type is "serial" or "sim".
	Type string `koanf:"type" yaml:"type"`
	Port string `koanf:"port" yaml:"port"`
	Baud int    `koanf:"baud" yaml:"baud"`
}

// DisplaySetup points at the TCP pattern remote.
type DisplaySetup struct {
	Addr string `koanf:"addr" yaml:"addr"`
}

// MockSetup describes the simulated panel used when the meter type is sim.
type MockSetup struct {
	// PanelGamma is the simulated panel's native gamma, so mock runs show
	// plausible nonzero errors against the target.
	PanelGamma float64 `koanf:"panelGamma" yaml:"panelGamma"`
	Peak       float64 `koanf:"peak" yaml:"peak"`
	Black      float64 `koanf:"black" yaml:"black"`
}

// Config is the top-level configuration.
type Config struct {
	Protocol   string `koanf:"protocol" yaml:"protocol"`
	GrayPoints int    `koanf:"grayPoints" yaml:"grayPoints"`
	SatSteps   int    `koanf:"satSteps" yaml:"satSteps"`

	// SettleMs is the pause between showing a pattern and reading it.
	SettleMs int `koanf:"settleMs" yaml:"settleMs"`

	Meter   MeterSetup   `koanf:"meter" yaml:"meter"`
	Display DisplaySetup `koanf:"display" yaml:"display"`
	Mock    MockSetup    `koanf:"mock" yaml:"mock"`
	Target  TargetSetup  `koanf:"target" yaml:"target"`
}

func defaultConfig() Config {
	return Config{
		Protocol:   "grayscale",
		GrayPoints: 11,
		SatSteps:   4,
		SettleMs:   750,
		Meter:      MeterSetup{Type: "sim", Port: "/dev/ttyUSB0", Baud: 115200},
		Display:    DisplaySetup{Addr: "localhost:20002"},
		Mock:       MockSetup{PanelGamma: 2.35, Peak: 120, Black: 0.08},
		Target: TargetSetup{
			Name:     "living room display",
			Space:    "rec709",
			Transfer: "gamma",
			Gamma:    2.2,
		},
	}
}

func buildBench(c Config, space colorspace.ColorSpace) (meter.Meter, display.Renderer, error) {
	switch c.Meter.Type {
	case "sim", "mock":
		sim := &meter.Sim{
			Space:    space,
			Transfer: eotf.PowerLaw,
			Gamma:    c.Mock.PanelGamma,
			Peak:     c.Mock.Peak,
			Black:    c.Mock.Black,
		}
		return sim, sim, nil
	case "serial":
		return meter.NewSerial(c.Meter.Port, c.Meter.Baud), display.NewRemote(c.Display.Addr), nil
	}
	return nil, nil, fmt.Errorf("meter type %q not understood", c.Meter.Type)
}

func runProtocol(c Config) error {
	space, err := colorspace.Parse(c.Target.Space)
	if err != nil {
		return err
	}
	kind, err := eotf.Parse(c.Target.Transfer)
	if err != nil {
		return err
	}
	steps, err := sequence.Generate(c.Protocol, c.GrayPoints, c.SatSteps)
	if err != nil {
		return err
	}
	m, screen, err := buildBench(c, space)
	if err != nil {
		return err
	}

	sess := session.New(c.Target.Name, space, kind, c.Target.Gamma)

	spin, err := yacspin.New(yacspin.Config{
		Frequency:       100 * time.Millisecond,
		CharSet:         yacspin.CharSets[59],
		Suffix:          " measuring",
		SuffixAutoColon: true,
		StopCharacter:   "✓",
		StopColors:      []string{"fgGreen"},
	})
	if err != nil {
		return err
	}

	settle := time.Duration(c.SettleMs) * time.Millisecond
	runner := acquire.Runner{
		Meter:   m,
		Screen:  screen,
		Session: sess,
		Settle:  rate.NewLimiter(rate.Every(settle), 1),
		OnStep: func(done, total int, st sequence.Step, pt session.Point) {
			spin.Message(fmt.Sprintf("[%d/%d] %s  ΔE %.2f", done, total, st.Name, pt.DeltaE))
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	spin.Start()
	err = runner.Run(ctx, steps)
	if err != nil {
		spin.StopFail()
		return err
	}
	spin.Stop()

	printReport(sess, runner.Skipped)
	return nil
}

func printReport(s *session.Session, skipped int) {
	fmt.Printf("session %s (%s)\n", s.Name, s.ID)
	fmt.Printf("  points measured:   %d\n", s.Len())
	if skipped > 0 {
		fmt.Printf("  steps skipped:     %d\n", skipped)
	}
	cr := s.ContrastRatio()
	if math.IsInf(cr, 1) {
		fmt.Printf("  contrast ratio:    inf (black reads 0)\n")
	} else {
		fmt.Printf("  contrast ratio:    %.0f:1\n", cr)
	}
	fmt.Printf("  avg ΔE2000:        %.2f\n", s.AverageDeltaE())
	fmt.Printf("  grayscale avg ΔE:  %.2f\n", s.GrayscaleAverageDeltaE())
	fmt.Printf("  grayscale max ΔE:  %.2f\n", s.GrayscaleMaxDeltaE())

	gray := s.ByCategory(session.Grayscale)
	if len(gray) > 0 {
		fmt.Println("  grayscale ramp:")
		for _, p := range gray {
			if math.IsNaN(p.Gamma) {
				fmt.Printf("    %-12s ΔE %5.2f\n", p.Name, p.DeltaE)
				continue
			}
			fmt.Printf("    %-12s ΔE %5.2f  γ %.3f\n", p.Name, p.DeltaE, p.Gamma)
		}
	}
}
