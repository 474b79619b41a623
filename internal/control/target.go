package control

// TargetTracker converts pilot rate commands into setpoints. The
// vertical command is integrated into a moving altitude target; the
// roll command maps directly onto a bounded roll-angle target and is
// recomputed from scratch every tick.
type TargetTracker struct {
	targetAltitude float64
	riseRate       float64 // units/s of altitude target per full stick
	maxTilt        float64 // radians
}

// NewTargetTracker starts the altitude target at initialAltitude.
// maxTilt is in radians.
func NewTargetTracker(initialAltitude, riseRate, maxTilt float64) *TargetTracker {
	return &TargetTracker{
		targetAltitude: initialAltitude,
		riseRate:       riseRate,
		maxTilt:        maxTilt,
	}
}

// Advance integrates the vertical command into the altitude target and
// maps the roll command onto the roll-angle target. Both commands are
// expected in [-1, 1]; the roll command is clamped so the roll target
// can never leave [-maxTilt, maxTilt]. The altitude target has no
// ceiling or floor.
func (t *TargetTracker) Advance(verticalCmd, rollCmd, dt float64) (targetAltitude, targetRoll float64) {
	t.targetAltitude += verticalCmd * t.riseRate * dt

	if rollCmd > 1 {
		rollCmd = 1
	}
	if rollCmd < -1 {
		rollCmd = -1
	}
	return t.targetAltitude, rollCmd * t.maxTilt
}

// TargetAltitude reports the current altitude setpoint.
func (t *TargetTracker) TargetAltitude() float64 {
	return t.targetAltitude
}
