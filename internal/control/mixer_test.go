package control_test

import (
	"math"
	"testing"

	"github.com/relabs-tech/quad_controller/internal/control"
)

func TestMixRollTermsCancel(t *testing.T) {
	cases := []struct{ thrust, roll float64 }{
		{0, 0},
		{12, 0},
		{12, 3},
		{-4, 7.5},
		{300.1, -2.25},
	}
	for _, c := range cases {
		f := control.Mix(c.thrust, c.roll)
		if math.Abs(f.Total()-c.thrust) > 1e-9 {
			t.Fatalf("mix(%v, %v): total %v != thrust", c.thrust, c.roll, f.Total())
		}
	}
}

func TestMixZeroRollSplitsEvenly(t *testing.T) {
	f := control.Mix(8, 0)
	for _, m := range control.Motors {
		if f.Force(m) != 2 {
			t.Fatalf("motor %s: expected 2, got %v", m, f.Force(m))
		}
	}
}

func TestMixRollSign(t *testing.T) {
	f := control.Mix(8, 0.5)
	if f.FrontLeft != f.RearLeft || f.FrontRight != f.RearRight {
		t.Fatalf("front/rear pairs must match: %+v", f)
	}
	if f.FrontLeft <= f.FrontRight {
		t.Fatalf("positive roll force must favor left motors: %+v", f)
	}

	// Increasing roll force monotonically widens the left/right split.
	prev := math.Inf(-1)
	for _, roll := range []float64{-1, -0.5, 0, 0.5, 1, 2} {
		f := control.Mix(8, roll)
		diff := f.FrontLeft - f.FrontRight
		if diff <= prev {
			t.Fatalf("left/right split not monotonic in roll force at %v", roll)
		}
		prev = diff
	}
}
