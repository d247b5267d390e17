package pattern_test

import (
	"testing"

	"github.com/chromabench/chromabench/pattern"
	"github.com/chromabench/chromabench/sequence"
)

func TestResolveExplicitStimulus(t *testing.T) {
	step := sequence.Step{
		Name:       "Red 75%",
		IRE:        75,
		Stimulus:   [3]uint8{191, 0, 0},
		Descriptor: "Red 75%",
	}
	ins, ok := pattern.Resolve(step)
	if !ok {
		t.Fatal("expected explicit stimulus to resolve")
	}
	if ins.Kind != pattern.FullField {
		t.Errorf("expected full field, got %v", ins.Kind)
	}
	// the explicit stimulus wins over the descriptor's color name
	if ins.Color != [3]uint8{191, 0, 0} {
		t.Errorf("expected {191 0 0}, got %v", ins.Color)
	}
}

func TestResolveGrayDescriptor(t *testing.T) {
	cases := []struct {
		descriptor string
		ire        float64
		want       uint8
	}{
		{"Gray 50%", 50, 128},
		{"Gray 0%", 0, 0},
		{"Gray 100%", 100, 255},
		{"grey ramp", 25, 64},
	}
	for _, tc := range cases {
		ins, ok := pattern.Resolve(sequence.Step{IRE: tc.ire, Descriptor: tc.descriptor})
		if !ok {
			t.Errorf("expected %q to resolve", tc.descriptor)
			continue
		}
		want := [3]uint8{tc.want, tc.want, tc.want}
		if ins.Color != want {
			t.Errorf("%q at %v%%: expected %v got %v", tc.descriptor, tc.ire, want, ins.Color)
		}
	}
}

func TestResolveColorNamePrefix(t *testing.T) {
	cases := []struct {
		descriptor string
		want       [3]uint8
	}{
		{"White 100%", [3]uint8{255, 255, 255}},
		{"Black 0%", [3]uint8{0, 0, 0}},
		{"red field", [3]uint8{255, 0, 0}},
		{"Cyan 100%", [3]uint8{0, 255, 255}},
		{"Magenta 75%", [3]uint8{255, 0, 255}},
	}
	for _, tc := range cases {
		ins, ok := pattern.Resolve(sequence.Step{Descriptor: tc.descriptor})
		if !ok {
			t.Errorf("expected %q to resolve", tc.descriptor)
			continue
		}
		if ins.Color != tc.want {
			t.Errorf("%q: expected %v got %v", tc.descriptor, tc.want, ins.Color)
		}
	}
}

func TestResolveUnresolvable(t *testing.T) {
	for _, d := range []string{"", "mystery pattern", "75% field"} {
		if _, ok := pattern.Resolve(sequence.Step{Descriptor: d}); ok {
			t.Errorf("expected %q not to resolve", d)
		}
	}
	// a color name not at the start of the descriptor does not match
	if _, ok := pattern.Resolve(sequence.Step{Descriptor: "field of red"}); ok {
		t.Error("expected non-leading color name not to resolve")
	}
}

func TestContrastStepsResolve(t *testing.T) {
	for _, s := range sequence.Contrast() {
		ins, ok := pattern.Resolve(s)
		if !ok {
			t.Fatalf("expected contrast step %q to resolve", s.Name)
		}
		want := [3]uint8{}
		if s.IRE == 100 {
			want = [3]uint8{255, 255, 255}
		}
		if ins.Color != want {
			t.Errorf("%q: expected %v got %v", s.Name, want, ins.Color)
		}
	}
}

func TestEverythingResolves(t *testing.T) {
	for _, s := range sequence.Everything(11, 4) {
		if _, ok := pattern.Resolve(s); !ok {
			t.Errorf("expected step %q to resolve", s.Name)
		}
	}
}

func TestWindowed(t *testing.T) {
	ins := pattern.Windowed([3]uint8{128, 128, 128}, [3]uint8{}, 10)
	if ins.Kind != pattern.Window || ins.WindowPct != 10 {
		t.Errorf("expected 10%% window, got %+v", ins)
	}
}
