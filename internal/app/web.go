// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package app

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gorilla/websocket"

	"github.com/relabs-tech/quad_controller/internal/config"
	"github.com/relabs-tech/quad_controller/internal/telemetry"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// RunWeb subscribes to the telemetry topic and serves the latest frame
// over HTTP: a JSON snapshot endpoint and a websocket stream for live
// dashboards.
func RunWeb() error {
	cfg := config.Get()

	var (
		mu        sync.RWMutex
		lastFrame telemetry.Frame
		haveFrame bool
	)

	// 1) Connect to MQTT broker
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDWeb)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("connected to MQTT broker at %s", cfg.MQTTBroker)

	// 2) Subscribe to the telemetry topic and keep the latest frame
	token := client.Subscribe(cfg.TopicTelemetry, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var f telemetry.Frame
		if err := json.Unmarshal(msg.Payload(), &f); err != nil {
			log.Printf("MQTT payload unmarshal error: %v", err)
			return
		}
		mu.Lock()
		lastFrame = f
		haveFrame = true
		mu.Unlock()
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("subscribed to MQTT topic %s", cfg.TopicTelemetry)

	// 3) JSON API endpoint: latest telemetry frame
	http.HandleFunc("/api/telemetry", func(w http.ResponseWriter, r *http.Request) {
		mu.RLock()
		defer mu.RUnlock()

		if !haveFrame {
			http.Error(w, "no data yet", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(lastFrame); err != nil {
			log.Printf("json encode error: %v", err)
		}
	})

	// 4) Websocket stream: push the latest frame at a fixed rate until
	// the client goes away.
	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("websocket upgrade error: %v", err)
			return
		}
		defer conn.Close()

		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		for range ticker.C {
			mu.RLock()
			f, ok := lastFrame, haveFrame
			mu.RUnlock()
			if !ok {
				continue
			}
			if err := conn.WriteJSON(f); err != nil {
				log.Printf("websocket write error: %v", err)
				return
			}
		}
	})

	// 5) Static files from ./web as the root
	fs := http.FileServer(http.Dir("web"))
	http.Handle("/", fs)

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("web server listening on %s", addr)
	return http.ListenAndServe(addr, nil)
}
