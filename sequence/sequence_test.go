package sequence_test

import (
	"fmt"
	"testing"

	"github.com/chromabench/chromabench/sequence"
	"github.com/chromabench/chromabench/session"
)

func TestLevel(t *testing.T) {
	cases := []struct {
		ire  float64
		want uint8
	}{
		{0, 0},
		{50, 128},
		{75, 191},
		{100, 255},
		{-10, 0},
		{150, 255},
		{0.1, 0},
		{0.2, 1},
	}
	for _, tc := range cases {
		if got := sequence.Level(tc.ire); got != tc.want {
			t.Errorf("Level(%v): expected %d got %d", tc.ire, tc.want, got)
		}
	}
}

func TestLevelMonotonic(t *testing.T) {
	prev := sequence.Level(0)
	for ire := 0.5; ire <= 100; ire += 0.5 {
		cur := sequence.Level(ire)
		if cur < prev {
			t.Errorf("Level not monotonic at %v%%: %d after %d", ire, cur, prev)
		}
		prev = cur
	}
}

func TestGrayscaleSpacing(t *testing.T) {
	for _, n := range []int{2, 5, 11, 21, 256} {
		steps := sequence.Grayscale(n)
		if len(steps) != n {
			t.Fatalf("Grayscale(%d): expected %d steps, got %d", n, n, len(steps))
		}
		if steps[0].IRE != 0 || steps[n-1].IRE != 100 {
			t.Errorf("Grayscale(%d): expected endpoints 0 and 100, got %v and %v",
				n, steps[0].IRE, steps[n-1].IRE)
		}
		for i := 1; i < n; i++ {
			if steps[i].IRE <= steps[i-1].IRE {
				t.Errorf("Grayscale(%d): not strictly increasing at step %d", n, i)
			}
		}
		for _, s := range steps {
			if s.Category != session.Grayscale {
				t.Errorf("expected Grayscale category, got %v", s.Category)
			}
			if s.Stimulus != [3]uint8{} {
				t.Errorf("expected descriptor-only gray step, got stimulus %v", s.Stimulus)
			}
		}
	}
}

func TestGrayscaleClampsPointCount(t *testing.T) {
	for _, n := range []int{-3, 0, 1} {
		if got := len(sequence.Grayscale(n)); got != 2 {
			t.Errorf("Grayscale(%d): expected 2 steps, got %d", n, got)
		}
	}
}

func TestNearBlackNearWhite(t *testing.T) {
	nb := sequence.NearBlack()
	if len(nb) != 11 {
		t.Fatalf("expected 11 near-black steps, got %d", len(nb))
	}
	for i, s := range nb {
		if s.IRE != float64(i) {
			t.Errorf("near-black step %d: expected %d%%, got %v", i, i, s.IRE)
		}
		if s.Category != session.NearBlack {
			t.Errorf("expected NearBlack category, got %v", s.Category)
		}
	}

	nw := sequence.NearWhite()
	if len(nw) != 11 {
		t.Fatalf("expected 11 near-white steps, got %d", len(nw))
	}
	for i, s := range nw {
		if s.IRE != float64(90+i) {
			t.Errorf("near-white step %d: expected %d%%, got %v", i, 90+i, s.IRE)
		}
	}
}

func TestPrimariesSecondaries(t *testing.T) {
	steps := sequence.PrimariesSecondaries()
	if len(steps) != 13 {
		t.Fatalf("expected 13 steps, got %d", len(steps))
	}
	if steps[0].Name != "White 100%" || steps[0].Stimulus != [3]uint8{255, 255, 255} {
		t.Errorf("expected white reference first, got %v", steps[0])
	}
	if steps[1].Name != "Red 75%" || steps[1].Stimulus != [3]uint8{191, 0, 0} {
		t.Errorf("expected Red 75%% second, got %v", steps[1])
	}
	var primaries, secondaries int
	for _, s := range steps {
		switch s.Category {
		case session.Primary:
			primaries++
		case session.Secondary:
			secondaries++
		}
	}
	if primaries != 7 || secondaries != 6 {
		t.Errorf("expected 7 primary and 6 secondary steps, got %d and %d", primaries, secondaries)
	}
}

func TestSaturationSweep(t *testing.T) {
	steps := sequence.SaturationSweep("Red", 5)
	if len(steps) != 5 {
		t.Fatalf("expected 5 steps, got %d", len(steps))
	}
	for i, want := range []float64{20, 40, 60, 80, 100} {
		if steps[i].IRE != want {
			t.Errorf("step %d: expected %v%%, got %v", i, want, steps[i].IRE)
		}
	}
	// the pure endpoint is the full primary
	last := steps[4]
	if last.Stimulus != [3]uint8{255, 0, 0} {
		t.Errorf("expected pure red endpoint, got %v", last.Stimulus)
	}
	// partway steps keep the dominant channel pinned and raise the rest
	if got := steps[1].Stimulus; got != [3]uint8{255, 153, 153} {
		t.Errorf("expected red 40%% stimulus {255 153 153}, got %v", got)
	}
}

func TestSaturationSweepSecondaries(t *testing.T) {
	steps := sequence.SaturationSweep("Cyan", 4)
	if got := steps[3].Stimulus; got != [3]uint8{0, 255, 255} {
		t.Errorf("expected pure cyan endpoint, got %v", got)
	}
	if got := steps[1].Stimulus; got != [3]uint8{0, 128, 128} {
		t.Errorf("expected cyan 50%% stimulus {0 128 128}, got %v", got)
	}
}

func TestFullSaturationSweepOrder(t *testing.T) {
	steps := sequence.FullSaturationSweep(5)
	if len(steps) != 30 {
		t.Fatalf("expected 30 steps, got %d", len(steps))
	}
	wantOrder := []string{"Red", "Green", "Blue", "Cyan", "Magenta", "Yellow"}
	for i, color := range wantOrder {
		got := steps[i*5].Name
		want := color + " 20%"
		if got != want {
			t.Errorf("block %d: expected first step %q, got %q", i, want, got)
		}
	}
}

func TestContrast(t *testing.T) {
	steps := sequence.Contrast()
	if len(steps) != 2 {
		t.Fatalf("expected 2 contrast steps, got %d", len(steps))
	}
	if steps[0].IRE != 100 || steps[1].IRE != 0 {
		t.Errorf("expected white then black, got %v%% then %v%%", steps[0].IRE, steps[1].IRE)
	}
	for _, s := range steps {
		if s.Category != session.ContrastRatio {
			t.Errorf("expected ContrastRatio category, got %v", s.Category)
		}
	}
}

func TestEverything(t *testing.T) {
	steps := sequence.Everything(11, 4)
	// 2 contrast + 11 gray + 11 near-black + 11 near-white + 13 colors + 24 saturation
	want := 2 + 11 + 11 + 11 + 13 + 24
	if len(steps) != want {
		t.Errorf("expected %d steps, got %d", want, len(steps))
	}
	if steps[0].Category != session.ContrastRatio {
		t.Errorf("expected contrast anchors first, got %v", steps[0].Category)
	}
}

func TestGenerate(t *testing.T) {
	cases := []struct {
		protocol string
		want     int
	}{
		{"grayscale", 11},
		{"GRAYSCALE", 11},
		{"nearblack", 11},
		{"near-white", 11},
		{"primaries", 13},
		{"saturation", 24},
		{"contrast", 2},
		{"everything", 72},
	}
	for _, tc := range cases {
		steps, err := sequence.Generate(tc.protocol, 11, 4)
		if err != nil {
			t.Errorf("Generate(%q): %v", tc.protocol, err)
			continue
		}
		if len(steps) != tc.want {
			t.Errorf("Generate(%q): expected %d steps, got %d", tc.protocol, tc.want, len(steps))
		}
	}
	if _, err := sequence.Generate("gamut", 11, 4); err == nil {
		t.Error("expected error for unknown protocol")
	}
}

func ExampleLevel() {
	fmt.Println(sequence.Level(50))
	// Output: 128
}

func ExampleGrayscale() {
	for _, s := range sequence.Grayscale(5) {
		fmt.Println(s.Name)
	}
	// Output:
	// Gray 0%
	// Gray 25%
	// Gray 50%
	// Gray 75%
	// Gray 100%
}
