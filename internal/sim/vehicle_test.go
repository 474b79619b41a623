package sim_test

import (
	"math"
	"testing"

	"github.com/relabs-tech/quad_controller/internal/control"
	"github.com/relabs-tech/quad_controller/internal/sim"
)

func testVehicleConfig() sim.VehicleConfig {
	return sim.VehicleConfig{
		Mass:           1.0,
		RollInertia:    0.02,
		ArmLength:      0.12,
		Gravity:        9.8,
		LinearDamping:  0.05,
		AngularDamping: 0.05,
	}
}

func TestVehicleHoverEquilibrium(t *testing.T) {
	v := sim.NewVehicle(testVehicleConfig())
	// Exactly the hover thrust split four ways: no net force, the
	// vehicle stays put.
	for _, m := range control.Motors {
		v.ApplyMotorForce(m, 9.8/4)
	}
	for i := 0; i < 1000; i++ {
		v.Step(0.001)
	}
	if math.Abs(v.Altitude()) > 1e-6 {
		t.Fatalf("balanced thrust moved the vehicle: altitude %v", v.Altitude())
	}
	if v.RollAngle() != 0 || v.RollRate() != 0 {
		t.Fatalf("symmetric thrust induced roll: angle=%v rate=%v", v.RollAngle(), v.RollRate())
	}
}

func TestVehicleRollTorqueSign(t *testing.T) {
	v := sim.NewVehicle(testVehicleConfig())
	f := control.Mix(9.8, 0.2)
	for _, m := range control.Motors {
		v.ApplyMotorForce(m, f.Force(m))
	}
	for i := 0; i < 100; i++ {
		v.Step(0.001)
	}
	// Stronger left pair must produce a positive roll angle and rate.
	if v.RollAngle() <= 0 || v.RollRate() <= 0 {
		t.Fatalf("positive roll force gave angle=%v rate=%v", v.RollAngle(), v.RollRate())
	}
}

func TestVehicleFreeFall(t *testing.T) {
	cfg := testVehicleConfig()
	cfg.LinearDamping = 0
	cfg.InitialAltitude = 10
	v := sim.NewVehicle(cfg)
	for i := 0; i < 1000; i++ {
		v.Step(0.001)
	}
	// After 1s of free fall: v = -9.8 m/s, drop ~4.9 m. Explicit Euler
	// overshoots the closed form slightly at this step size.
	if math.Abs(v.Altitude()-(10-4.9)) > 0.1 {
		t.Fatalf("free fall altitude after 1s: %v", v.Altitude())
	}
}

// TestClosedLoopStabilization runs the full stack (control loop driving
// the vehicle) and checks that both the altitude and the commanded roll
// attitude converge.
func TestClosedLoopStabilization(t *testing.T) {
	vcfg := testVehicleConfig()
	v := sim.NewVehicle(vcfg)

	cmd := &fixedCommands{roll: 0.5} // hold half stick: 7.5 degrees
	lcfg := control.LoopConfig{
		AltitudeGains:         control.Gains{KP: 40, KI: 3, KD: 25},
		AltitudeClamp:         control.Clamp{Min: -10, Max: 10},
		RollGains:             control.Gains{KP: 6, KI: 0.5, KD: 1},
		RollClamp:             control.Clamp{Min: -5, Max: 5},
		GravityComp:           vcfg.Mass * vcfg.Gravity,
		InitialTargetAltitude: 3,
		RiseRate:              2.0,
		MaxTilt:               15 * math.Pi / 180,
	}
	loop, err := control.NewLoop(lcfg, cmd, v, v)
	if err != nil {
		t.Fatalf("NewLoop: %v", err)
	}

	const dt = 0.002
	for i := 0; i < 5000; i++ { // 10 s
		if err := loop.Tick(dt); err != nil {
			t.Fatalf("Tick %d: %v", i, err)
		}
		v.Step(dt)
		if math.IsNaN(v.Altitude()) || math.IsNaN(v.RollAngle()) {
			t.Fatalf("state diverged at step %d", i)
		}
	}

	if math.Abs(v.Altitude()-3) > 0.2 {
		t.Fatalf("altitude did not converge: %v (target 3)", v.Altitude())
	}
	wantRoll := 0.5 * 15 * math.Pi / 180
	if math.Abs(v.RollAngle()-wantRoll) > 0.02 {
		t.Fatalf("roll did not converge: %v (target %v)", v.RollAngle(), wantRoll)
	}
}

type fixedCommands struct {
	vertical float64
	roll     float64
}

func (c *fixedCommands) VerticalCommand() float64 { return c.vertical }
func (c *fixedCommands) RollCommand() float64     { return c.roll }
