// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


// Package sim provides a minimal rigid-body quadrotor for running the
// stabilizer without real hardware. Only the two controlled degrees of
// freedom are modeled: vertical translation and rotation about the
// longitudinal axis.
package sim

import (
	"math"

	"github.com/relabs-tech/quad_controller/internal/control"
)

// VehicleConfig describes the physical vehicle.
type VehicleConfig struct {
	Mass        float64 // kg
	RollInertia float64 // kg*m^2 about the longitudinal axis
	ArmLength   float64 // m, lateral mount offset from the centerline
	Gravity     float64 // m/s^2

	// Damping coefficients, 1/s. Crude exponential stand-ins for
	// aerodynamic drag.
	LinearDamping  float64
	AngularDamping float64

	InitialAltitude float64
}

// Vehicle integrates the quad's motion from the per-motor forces the
// control loop applies. It implements both control.StateSource and
// control.ActuatorSink, so a single instance closes the loop.
type Vehicle struct {
	cfg VehicleConfig

	altitude    float64
	verticalVel float64
	roll        float64 // rotation about the longitudinal axis, radians
	rollRate    float64 // rad/s

	// Last commanded force per motor, held until the next command
	// (zero-order hold, matching how the real ESCs behave between
	// control ticks).
	forces [4]float64
}

func NewVehicle(cfg VehicleConfig) *Vehicle {
	return &Vehicle{cfg: cfg, altitude: cfg.InitialAltitude}
}

// ApplyMotorForce latches the force for one motor. Forces act along the
// vehicle's local up direction at that motor's mount.
func (v *Vehicle) ApplyMotorForce(m control.Motor, newtons float64) {
	if m < control.FrontLeft || m > control.RearRight {
		return
	}
	v.forces[m] = newtons
}

// Altitude reports the position along the world vertical axis.
func (v *Vehicle) Altitude() float64 {
	return v.altitude
}

// RollAngle reports the tilt of the vehicle's lateral axis against
// world-up. With the body rolled by θ the lateral axis has vertical
// component sin θ, so the measured angle is asin of that projection.
func (v *Vehicle) RollAngle() float64 {
	return math.Asin(math.Sin(v.roll))
}

// RollRate reports the body-frame angular velocity about the
// longitudinal axis in rad/s.
func (v *Vehicle) RollRate() float64 {
	return v.rollRate
}

// Forces returns the currently latched per-motor forces.
func (v *Vehicle) Forces() control.MotorForces {
	return control.MotorForces{
		FrontLeft:  v.forces[control.FrontLeft],
		FrontRight: v.forces[control.FrontRight],
		RearLeft:   v.forces[control.RearLeft],
		RearRight:  v.forces[control.RearRight],
	}
}

// Step advances the physics by dt seconds using the latched motor
// forces. Explicit Euler integration; fine at control-tick step sizes.
func (v *Vehicle) Step(dt float64) {
	if dt <= 0 {
		return
	}

	total := 0.0
	for _, f := range v.forces {
		total += f
	}

	// Thrust acts along body-up; only its world-vertical projection
	// lifts the vehicle once it rolls.
	vertAccel := total*math.Cos(v.roll)/v.cfg.Mass - v.cfg.Gravity
	v.verticalVel += vertAccel * dt
	v.verticalVel *= math.Exp(-v.cfg.LinearDamping * dt)
	v.altitude += v.verticalVel * dt

	// Left motors push the right side down: torque from the lateral
	// lever arms, positive when the left pair outpulls the right pair.
	left := v.forces[control.FrontLeft] + v.forces[control.RearLeft]
	right := v.forces[control.FrontRight] + v.forces[control.RearRight]
	torque := v.cfg.ArmLength * (left - right)

	v.rollRate += torque / v.cfg.RollInertia * dt
	v.rollRate *= math.Exp(-v.cfg.AngularDamping * dt)
	v.roll += v.rollRate * dt
}
