package control

// AltitudeController turns an altitude error into a vertical thrust
// demand. The output is the gravity-compensation baseline plus the PID
// correction; it is deliberately not clamped to what the motors can
// actually produce, saturation is left to the physics.
type AltitudeController struct {
	pid         *PID
	gravityComp float64
}

// NewAltitudeController builds the altitude loop. gravityComp is the
// hover thrust that balances the vehicle's weight (mass * g).
func NewAltitudeController(gains Gains, clamp Clamp, gravityComp float64) (*AltitudeController, error) {
	pid, err := NewPID(gains, clamp)
	if err != nil {
		return nil, err
	}
	return &AltitudeController{pid: pid, gravityComp: gravityComp}, nil
}

// Update computes the total vertical thrust demand for one tick.
func (c *AltitudeController) Update(currentAltitude, targetAltitude, dt float64) (float64, error) {
	correction, err := c.pid.Update(targetAltitude-currentAltitude, dt)
	if err != nil {
		return 0, err
	}
	return c.gravityComp + correction, nil
}

// SetGains retunes the altitude loop without resetting its state.
func (c *AltitudeController) SetGains(gains Gains) {
	c.pid.SetGains(gains)
}

// Integral exposes the accumulated integral for telemetry and tests.
func (c *AltitudeController) Integral() float64 {
	return c.pid.Integral()
}
