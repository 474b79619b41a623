package app

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/quad_controller/internal/command"
	"github.com/relabs-tech/quad_controller/internal/config"
	"github.com/relabs-tech/quad_controller/internal/control"
	"github.com/relabs-tech/quad_controller/internal/sim"
	"github.com/relabs-tech/quad_controller/internal/telemetry"
)

// RunController runs the stabilizer against the built-in vehicle: a
// fixed-timestep control loop driving the physics, with telemetry
// frames published to MQTT at the configured cadence.
func RunController() error {
	log.Println("starting quad-controller stabilization loop")

	cfg := config.Get()

	// --- Build the vehicle (it is both state source and actuator sink) ---
	vehicle := sim.NewVehicle(sim.VehicleConfig{
		Mass:            cfg.VehicleMass,
		RollInertia:     cfg.RollInertia,
		ArmLength:       cfg.ArmLength,
		Gravity:         cfg.Gravity,
		LinearDamping:   cfg.LinearDamping,
		AngularDamping:  cfg.AngularDamping,
		InitialAltitude: 0,
	})

	// --- Choose pilot command source (mock vs real RC receiver) ---
	var commands control.CommandSource
	switch cfg.CommandSource {
	case "ibus":
		src, err := command.NewIBusSource(cfg.IBusSerialPort, uint(cfg.IBusBaudRate))
		if err != nil {
			return fmt.Errorf("ibus command source: %w", err)
		}
		defer src.Close()
		log.Printf("using iBus pilot input on %s", cfg.IBusSerialPort)
		commands = src
	default:
		log.Println("using mock pilot input")
		commands = command.NewMockSource()
	}

	loop, err := control.NewLoop(control.LoopConfig{
		AltitudeGains:         control.Gains{KP: cfg.AltKP, KI: cfg.AltKI, KD: cfg.AltKD},
		AltitudeClamp:         control.Clamp{Min: cfg.AltIntegralMin, Max: cfg.AltIntegralMax},
		RollGains:             control.Gains{KP: cfg.RollKP, KI: cfg.RollKI, KD: cfg.RollKD},
		RollClamp:             control.Clamp{Min: cfg.RollIntegralMin, Max: cfg.RollIntegralMax},
		GravityComp:           cfg.VehicleMass * cfg.Gravity,
		InitialTargetAltitude: cfg.InitialTargetAltitude,
		RiseRate:              cfg.RiseRate,
		MaxTilt:               cfg.MaxTiltDeg * math.Pi / 180,
	}, commands, vehicle, vehicle)
	if err != nil {
		return fmt.Errorf("control loop: %w", err)
	}

	// --- connect to MQTT ---
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDController)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalf("MQTT connect error: %v", token.Error())
		return token.Error()
	}
	defer client.Disconnect(250)

	log.Println("connected to MQTT, starting control loop")

	// The loop runs at a fixed timestep; the ticker only paces it in
	// wall time. Telemetry cadence is measured in simulated time.
	dt := float64(cfg.TickInterval) / 1000.0
	reportEvery := float64(cfg.TelemetryInterval) / 1000.0

	ticker := time.NewTicker(time.Duration(cfg.TickInterval) * time.Millisecond)
	defer ticker.Stop()

	var simTime float64
	nextReport := 0.0

	for range ticker.C {
		if err := loop.Tick(dt); err != nil {
			log.Printf("control tick error: %v", err)
			continue
		}
		vehicle.Step(dt)
		simTime += dt

		if simTime < nextReport {
			continue
		}
		nextReport = simTime + reportEvery

		snap := loop.Snapshot()
		frame := telemetry.Frame{
			SimTime:        simTime,
			Altitude:       vehicle.Altitude(),
			TargetAltitude: snap.TargetAltitude,
			RollDeg:        vehicle.RollAngle() * 180 / math.Pi,
			TargetRollDeg:  snap.TargetRoll * 180 / math.Pi,
			Thrust:         snap.Thrust,
			RollForce:      snap.RollForce,
			Forces:         snap.Forces,
		}

		payload, err := json.Marshal(frame)
		if err != nil {
			log.Printf("json marshal error (telemetry): %v", err)
			continue
		}
		if token := client.Publish(cfg.TopicTelemetry, 0, true, payload); token.Wait() && token.Error() != nil {
			log.Printf("MQTT publish error (telemetry): %v", token.Error())
			continue
		}

		log.Printf("t=%6.1fs alt=%6.2f/%6.2f roll=%6.2f/%6.2f deg thrust=%7.2f rollF=%6.3f",
			simTime,
			frame.Altitude, frame.TargetAltitude,
			frame.RollDeg, frame.TargetRollDeg,
			frame.Thrust, frame.RollForce,
		)
	}
	return nil
}
