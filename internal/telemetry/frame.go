package telemetry

import (
	"github.com/relabs-tech/quad_controller/internal/control"
)

// Frame is a single telemetry report suitable for JSON and MQTT.
// Angles are degrees here; the controller works in radians internally
// but degrees read better on a console.
type Frame struct {
	SimTime        float64 `json:"t"`               // seconds since start
	Altitude       float64 `json:"alt"`             // m
	TargetAltitude float64 `json:"alt_target"`      // m
	RollDeg        float64 `json:"roll_deg"`        // degrees
	TargetRollDeg  float64 `json:"roll_target_deg"` // degrees
	Thrust         float64 `json:"thrust"`          // N, total demand
	RollForce      float64 `json:"roll_force"`      // N, differential demand

	Forces control.MotorForces `json:"forces"`
}
