// Package command provides pilot command sources for the control loop:
// a mock generator for bench runs and an iBus RC receiver link for real
// pilot input.
package command

// normalizeStick maps a raw RC channel value in [1000, 2000] onto the
// [-1, 1] stick range expected by the control loop, clamping whatever
// the receiver sends outside the nominal range.
func normalizeStick(raw uint16) float64 {
	v := (float64(raw) - 1500) / 500
	if v > 1 {
		v = 1
	}
	if v < -1 {
		v = -1
	}
	return v
}
