// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package main

import (
	"log"

	"github.com/relabs-tech/quad_controller/internal/app"
	"github.com/relabs-tech/quad_controller/internal/config"
)

func main() {
	log.Println("starting quad-controller (stabilizer + telemetry producer)")

	// Load configuration
	if err := config.InitGlobal("quad_config.txt"); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunController(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
