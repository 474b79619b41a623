// Package control implements the quadrotor stabilization law: two PID
// loops (altitude and roll), setpoint tracking for the pilot commands,
// and the mixer that distributes thrust across the four motors.
package control

import (
	"errors"
	"fmt"
)

// ErrInvalidTimestep is returned when an update is asked to run with a
// timestep that is zero or negative. The derivative term divides by the
// timestep, so letting such a tick through would push NaN or Inf into
// the motor outputs.
var ErrInvalidTimestep = errors.New("control: timestep must be positive")

// Gains holds the three PID gains. A Gains value is set once at
// construction and never mutated by the controller itself; runtime
// retuning goes through an explicit setter.
type Gains struct {
	KP float64
	KI float64
	KD float64
}

// Clamp bounds the accumulated integral term so a long-lived error
// cannot wind the integrator up without limit.
type Clamp struct {
	Min float64
	Max float64
}

// PID is a single proportional-integral-derivative accumulator. The
// only persistent state is the integral and the previous error; each
// controller owns exactly one PID and is the only code that mutates it.
type PID struct {
	gains Gains
	clamp Clamp

	integral  float64
	lastError float64
}

// NewPID validates the gains and clamp and returns a zeroed accumulator.
func NewPID(gains Gains, clamp Clamp) (*PID, error) {
	if gains.KP < 0 || gains.KI < 0 || gains.KD < 0 {
		return nil, fmt.Errorf("control: negative gain (kp=%g ki=%g kd=%g)", gains.KP, gains.KI, gains.KD)
	}
	if clamp.Min >= clamp.Max {
		return nil, fmt.Errorf("control: integral clamp min %g must be below max %g", clamp.Min, clamp.Max)
	}
	return &PID{gains: gains, clamp: clamp}, nil
}

// SetGains replaces the gains, e.g. for interactive tuning. The
// accumulated state is kept.
func (p *PID) SetGains(gains Gains) {
	p.gains = gains
}

// Integral reports the current accumulated integral term.
func (p *PID) Integral() float64 {
	return p.integral
}

// Update advances the accumulator by one timestep with the derivative
// taken as the finite difference of the error. Used by the altitude
// path, where no direct rate measurement exists.
func (p *PID) Update(err, dt float64) (float64, error) {
	if dt <= 0 {
		return 0, ErrInvalidTimestep
	}
	p.accumulate(err, dt)
	derivative := (err - p.lastError) / dt
	p.lastError = err
	return p.gains.KP*err + p.gains.KI*p.integral + p.gains.KD*derivative, nil
}

// UpdateWithRate advances the accumulator with the derivative term
// taken from a directly measured rate instead of the error history.
// The rate opposes the output (damping), so the D term is subtracted.
func (p *PID) UpdateWithRate(err, rate, dt float64) (float64, error) {
	if dt <= 0 {
		return 0, ErrInvalidTimestep
	}
	p.accumulate(err, dt)
	p.lastError = err
	return p.gains.KP*err + p.gains.KI*p.integral - p.gains.KD*rate, nil
}

func (p *PID) accumulate(err, dt float64) {
	p.integral += err * dt
	if p.integral > p.clamp.Max {
		p.integral = p.clamp.Max
	}
	if p.integral < p.clamp.Min {
		p.integral = p.clamp.Min
	}
}
