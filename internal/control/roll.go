package control

// RollController turns a roll-angle error into a differential force
// demand. Its derivative term uses the measured angular rate rather
// than a finite difference of the error, which damps oscillation
// without amplifying angle-measurement noise.
type RollController struct {
	pid *PID
}

func NewRollController(gains Gains, clamp Clamp) (*RollController, error) {
	pid, err := NewPID(gains, clamp)
	if err != nil {
		return nil, err
	}
	return &RollController{pid: pid}, nil
}

// Update computes the differential roll force for one tick. rate is the
// measured angular velocity about the vehicle's roll axis in rad/s.
func (c *RollController) Update(targetAngle, currentAngle, rate, dt float64) (float64, error) {
	return c.pid.UpdateWithRate(targetAngle-currentAngle, rate, dt)
}

// SetGains retunes the roll loop without resetting its state.
func (c *RollController) SetGains(gains Gains) {
	c.pid.SetGains(gains)
}

// Integral exposes the accumulated integral for telemetry and tests.
func (c *RollController) Integral() float64 {
	return c.pid.Integral()
}
