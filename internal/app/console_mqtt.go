package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/quad_controller/internal/config"
	"github.com/relabs-tech/quad_controller/internal/telemetry"
)

// RunConsoleMQTT subscribes to the telemetry topic and prints each
// frame as an aligned console line, for watching a flight from a shell.
func RunConsoleMQTT() error {
	cfg := config.Get()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDConsole)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	token := client.Subscribe(cfg.TopicTelemetry, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var f telemetry.Frame
		if err := json.Unmarshal(msg.Payload(), &f); err != nil {
			log.Printf("console: telemetry unmarshal error: %v", err)
			return
		}

		fmt.Printf(
			"[QUAD] t=%7.1f  ALT=%6.2f/%6.2f  ROLL=%6.2f/%6.2f  THRUST=%8.2f  ROLLF=%7.3f  FL=%6.2f FR=%6.2f RL=%6.2f RR=%6.2f\n",
			f.SimTime,
			f.Altitude, f.TargetAltitude,
			f.RollDeg, f.TargetRollDeg,
			f.Thrust, f.RollForce,
			f.Forces.FrontLeft, f.Forces.FrontRight, f.Forces.RearLeft, f.Forces.RearRight,
		)
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: subscribed to %s", cfg.TopicTelemetry)

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}
