package control_test

import (
	"errors"
	"math"
	"testing"

	"github.com/relabs-tech/quad_controller/internal/control"
)

func TestAltitudeReferenceTick(t *testing.T) {
	// kp=40 ki=3 kd=25, dt=0.1, target=5, current=4, fresh state:
	// error=1, integral=0.1, derivative=10
	// thrust = 9.8 + 40*1 + 3*0.1 + 25*10 = 300.1
	c, err := control.NewAltitudeController(
		control.Gains{KP: 40, KI: 3, KD: 25},
		control.Clamp{Min: -10, Max: 10},
		9.8,
	)
	if err != nil {
		t.Fatalf("NewAltitudeController: %v", err)
	}
	thrust, err := c.Update(4, 5, 0.1)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if math.Abs(thrust-300.1) > 1e-9 {
		t.Fatalf("expected thrust 300.1, got %v", thrust)
	}
}

func TestSteadyStateThrustEqualsGravityComp(t *testing.T) {
	c, err := control.NewAltitudeController(
		control.Gains{KP: 40, KI: 3, KD: 25},
		control.Clamp{Min: -10, Max: 10},
		9.8,
	)
	if err != nil {
		t.Fatalf("NewAltitudeController: %v", err)
	}
	// Zero error forever: every PID term vanishes and the output is
	// exactly the gravity compensation, no tolerance needed.
	for i := 0; i < 100; i++ {
		thrust, err := c.Update(5, 5, 0.01)
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		if thrust != 9.8 {
			t.Fatalf("step %d: expected thrust 9.8, got %v", i, thrust)
		}
	}
}

func TestIntegralClampInvariant(t *testing.T) {
	pid, err := control.NewPID(control.Gains{KP: 1, KI: 1, KD: 0}, control.Clamp{Min: -10, Max: 10})
	if err != nil {
		t.Fatalf("NewPID: %v", err)
	}
	// Large persistent error with a long timestep winds the integrator
	// hard in both directions; the clamp must hold throughout.
	for i := 0; i < 50; i++ {
		if _, err := pid.Update(100, 1); err != nil {
			t.Fatalf("Update: %v", err)
		}
		if pid.Integral() > 10 || pid.Integral() < -10 {
			t.Fatalf("integral escaped clamp: %v", pid.Integral())
		}
	}
	if pid.Integral() != 10 {
		t.Fatalf("expected integral saturated at 10, got %v", pid.Integral())
	}
	for i := 0; i < 50; i++ {
		if _, err := pid.Update(-100, 1); err != nil {
			t.Fatalf("Update: %v", err)
		}
		if pid.Integral() > 10 || pid.Integral() < -10 {
			t.Fatalf("integral escaped clamp: %v", pid.Integral())
		}
	}
	if pid.Integral() != -10 {
		t.Fatalf("expected integral saturated at -10, got %v", pid.Integral())
	}
}

func TestRollIntegralClamp(t *testing.T) {
	c, err := control.NewRollController(control.Gains{KP: 1, KI: 1, KD: 1}, control.Clamp{Min: -5, Max: 5})
	if err != nil {
		t.Fatalf("NewRollController: %v", err)
	}
	for i := 0; i < 100; i++ {
		if _, err := c.Update(1, 0, 0, 1); err != nil {
			t.Fatalf("Update: %v", err)
		}
		if c.Integral() > 5 || c.Integral() < -5 {
			t.Fatalf("roll integral escaped clamp: %v", c.Integral())
		}
	}
}

func TestRollRateDerivativeDamps(t *testing.T) {
	c, err := control.NewRollController(control.Gains{KP: 2, KI: 0, KD: 3}, control.Clamp{Min: -5, Max: 5})
	if err != nil {
		t.Fatalf("NewRollController: %v", err)
	}
	// Zero angle error but the vehicle is already rotating: the rate
	// term alone must oppose the rotation.
	force, err := c.Update(0, 0, 0.5, 0.01)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if force != -3*0.5 {
		t.Fatalf("expected pure damping force -1.5, got %v", force)
	}
}

func TestTimestepGuard(t *testing.T) {
	pid, err := control.NewPID(control.Gains{KP: 1, KI: 1, KD: 1}, control.Clamp{Min: -1, Max: 1})
	if err != nil {
		t.Fatalf("NewPID: %v", err)
	}
	for _, dt := range []float64{0, -0.01} {
		out, err := pid.Update(1, dt)
		if !errors.Is(err, control.ErrInvalidTimestep) {
			t.Fatalf("dt=%v: expected ErrInvalidTimestep, got %v", dt, err)
		}
		if math.IsNaN(out) || math.IsInf(out, 0) {
			t.Fatalf("dt=%v: non-finite output %v", dt, out)
		}
		if _, err := pid.UpdateWithRate(1, 0, dt); !errors.Is(err, control.ErrInvalidTimestep) {
			t.Fatalf("dt=%v: expected ErrInvalidTimestep from UpdateWithRate, got %v", dt, err)
		}
	}
}

func TestInvalidConfiguration(t *testing.T) {
	if _, err := control.NewPID(control.Gains{KP: -1}, control.Clamp{Min: -1, Max: 1}); err == nil {
		t.Fatalf("expected error for negative gain")
	}
	if _, err := control.NewPID(control.Gains{}, control.Clamp{Min: 1, Max: -1}); err == nil {
		t.Fatalf("expected error for inverted clamp")
	}
	if _, err := control.NewPID(control.Gains{}, control.Clamp{Min: 2, Max: 2}); err == nil {
		t.Fatalf("expected error for empty clamp range")
	}
}
