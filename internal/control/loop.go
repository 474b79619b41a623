package control

import (
	"fmt"
)

// CommandSource provides the two pilot stick axes, each in [-1, 1],
// sampled once per tick. Later you'll have: mock source, RC receiver
// source, maybe a replay source from a flight log.
type CommandSource interface {
	VerticalCommand() float64
	RollCommand() float64
}

// StateSource provides the measured vehicle state. Altitude is along
// the world vertical axis; the roll angle is the tilt of the vehicle's
// lateral axis against world-up, and the roll rate is the body-frame
// angular velocity component paired with it.
type StateSource interface {
	Altitude() float64
	RollAngle() float64
	RollRate() float64
}

// ActuatorSink accepts one force magnitude per named motor, to be
// applied along the vehicle's local up direction at that motor's mount.
type ActuatorSink interface {
	ApplyMotorForce(m Motor, newtons float64)
}

// Snapshot is the read-only view of the last completed tick, for
// telemetry reporting outside the loop.
type Snapshot struct {
	TargetAltitude float64
	TargetRoll     float64
	Thrust         float64
	RollForce      float64
	Forces         MotorForces
}

// Loop orchestrates one fixed-timestep control tick: read command and
// state, advance targets, run both PID loops, mix, emit motor forces.
// A Loop is exclusively owned by the goroutine that ticks it; every
// vehicle needs its own Loop with its own controller state.
type Loop struct {
	commands CommandSource
	state    StateSource
	motors   ActuatorSink

	targets  *TargetTracker
	altitude *AltitudeController
	roll     *RollController

	last Snapshot
}

// LoopConfig carries the tuning for one Loop instance.
type LoopConfig struct {
	AltitudeGains Gains
	AltitudeClamp Clamp
	RollGains     Gains
	RollClamp     Clamp

	// GravityComp is the hover thrust balancing the vehicle weight.
	GravityComp float64

	InitialTargetAltitude float64
	RiseRate              float64
	MaxTilt               float64 // radians
}

// NewLoop wires the control law to its three collaborators.
func NewLoop(cfg LoopConfig, commands CommandSource, state StateSource, motors ActuatorSink) (*Loop, error) {
	altitude, err := NewAltitudeController(cfg.AltitudeGains, cfg.AltitudeClamp, cfg.GravityComp)
	if err != nil {
		return nil, fmt.Errorf("altitude controller: %w", err)
	}
	roll, err := NewRollController(cfg.RollGains, cfg.RollClamp)
	if err != nil {
		return nil, fmt.Errorf("roll controller: %w", err)
	}
	return &Loop{
		commands: commands,
		state:    state,
		motors:   motors,
		targets:  NewTargetTracker(cfg.InitialTargetAltitude, cfg.RiseRate, cfg.MaxTilt),
		altitude: altitude,
		roll:     roll,
	}, nil
}

// Tick runs one control cycle at timestep dt. On error (the only
// source is an invalid timestep) nothing is emitted to the actuators
// and the controller state is left untouched.
func (l *Loop) Tick(dt float64) error {
	if dt <= 0 {
		return fmt.Errorf("control tick: %w", ErrInvalidTimestep)
	}

	vertical := l.commands.VerticalCommand()
	rollCmd := l.commands.RollCommand()

	altitude := l.state.Altitude()
	rollAngle := l.state.RollAngle()
	rollRate := l.state.RollRate()

	targetAltitude, targetRoll := l.targets.Advance(vertical, rollCmd, dt)

	thrust, err := l.altitude.Update(altitude, targetAltitude, dt)
	if err != nil {
		return fmt.Errorf("altitude update: %w", err)
	}
	rollForce, err := l.roll.Update(targetRoll, rollAngle, rollRate, dt)
	if err != nil {
		return fmt.Errorf("roll update: %w", err)
	}

	forces := Mix(thrust, rollForce)
	for _, m := range Motors {
		l.motors.ApplyMotorForce(m, forces.Force(m))
	}

	l.last = Snapshot{
		TargetAltitude: targetAltitude,
		TargetRoll:     targetRoll,
		Thrust:         thrust,
		RollForce:      rollForce,
		Forces:         forces,
	}
	return nil
}

// Snapshot returns a copy of the outputs of the last completed tick.
func (l *Loop) Snapshot() Snapshot {
	return l.last
}

// SetAltitudeGains retunes the altitude loop in place.
func (l *Loop) SetAltitudeGains(gains Gains) {
	l.altitude.SetGains(gains)
}

// SetRollGains retunes the roll loop in place.
func (l *Loop) SetRollGains(gains Gains) {
	l.roll.SetGains(gains)
}
