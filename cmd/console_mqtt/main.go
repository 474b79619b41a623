package main

import (
	"log"

	"github.com/relabs-tech/quad_controller/internal/app"
	"github.com/relabs-tech/quad_controller/internal/config"
)

func main() {
	log.Println("starting quad-controller console (MQTT subscriber)")

	// Load configuration
	if err := config.InitGlobal("quad_config.txt"); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunConsoleMQTT(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
