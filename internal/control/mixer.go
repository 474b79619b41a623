package control

// Motor identifies one of the four motor mounts.
type Motor int

const (
	FrontLeft Motor = iota
	FrontRight
	RearLeft
	RearRight
)

// Motors lists all four motors in MotorForces order.
var Motors = [4]Motor{FrontLeft, FrontRight, RearLeft, RearRight}

func (m Motor) String() string {
	switch m {
	case FrontLeft:
		return "front-left"
	case FrontRight:
		return "front-right"
	case RearLeft:
		return "rear-left"
	case RearRight:
		return "rear-right"
	}
	return "unknown"
}

// MotorForces holds one force magnitude per motor, in newtons, applied
// along the vehicle's local up direction at each mount.
type MotorForces struct {
	FrontLeft  float64 `json:"front_left"`
	FrontRight float64 `json:"front_right"`
	RearLeft   float64 `json:"rear_left"`
	RearRight  float64 `json:"rear_right"`
}

// Force returns the entry for a single motor.
func (f MotorForces) Force(m Motor) float64 {
	switch m {
	case FrontLeft:
		return f.FrontLeft
	case FrontRight:
		return f.FrontRight
	case RearLeft:
		return f.RearLeft
	case RearRight:
		return f.RearRight
	}
	return 0
}

// Total is the summed vertical thrust. The roll terms cancel pairwise,
// so Total always equals the thrust passed to Mix.
func (f MotorForces) Total() float64 {
	return f.FrontLeft + f.FrontRight + f.RearLeft + f.RearRight
}

// Mix distributes a total thrust and a roll differential across the
// four motors. Only the roll axis participates: both left motors get
// the differential added and both right motors get it removed. Pitch
// and yaw channels do not exist on this vehicle.
func Mix(thrust, rollForce float64) MotorForces {
	base := thrust / 4
	return MotorForces{
		FrontLeft:  base + rollForce,
		FrontRight: base - rollForce,
		RearLeft:   base + rollForce,
		RearRight:  base - rollForce,
	}
}
