package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker             string
	MQTTClientIDController string
	MQTTClientIDConsole    string
	MQTTClientIDWeb        string

	// Topics
	TopicTelemetry string

	// Altitude PID
	AltKP          float64
	AltKI          float64
	AltKD          float64
	AltIntegralMin float64
	AltIntegralMax float64

	// Roll PID
	RollKP          float64
	RollKI          float64
	RollKD          float64
	RollIntegralMin float64
	RollIntegralMax float64

	// Setpoint tracking
	MaxTiltDeg            float64 // converted to radians where used
	RiseRate              float64 // altitude target units/s at full stick
	InitialTargetAltitude float64

	// Vehicle
	VehicleMass    float64 // kg
	RollInertia    float64 // kg*m^2 about the longitudinal axis
	ArmLength      float64 // m, lateral mount offset
	Gravity        float64 // m/s^2
	LinearDamping  float64 // 1/s
	AngularDamping float64 // 1/s

	// Pilot input
	CommandSource  string // "mock" or "ibus"
	IBusSerialPort string
	IBusBaudRate   int

	// Timing
	TickInterval      int // milliseconds
	TelemetryInterval int // milliseconds

	// Web Server
	WebServerPort int
}

// Package-level unexported variables for singleton pattern:
//   - globalConfig: unexported (lowercase) so other packages cannot access it directly.
//     This enforces encapsulation and prevents external code from modifying config without proper locking.
//     Has package-level scope (visible to all functions in this package, persists for program lifetime).
//   - configOnce: ensures InitGlobal() only runs once, even if called multiple times.
//   - configMu: RWMutex protects concurrent access. Write lock (Lock) for initialization,
//     read lock (RLock) for Get() allows multiple concurrent readers without blocking each other.
//
// External code must use InitGlobal() to set and Get() to read, ensuring thread safety.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := defaults()
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Validate required fields and value ranges
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// defaults returns a Config pre-filled with the reference tuning, so a
// config file only needs to override what differs from the bench setup.
func defaults() *Config {
	return &Config{
		TopicTelemetry: "quad/telemetry",

		AltKP:          40,
		AltKI:          3,
		AltKD:          25,
		AltIntegralMin: -10,
		AltIntegralMax: 10,

		RollKP:          6,
		RollKI:          0.5,
		RollKD:          1,
		RollIntegralMin: -5,
		RollIntegralMax: 5,

		MaxTiltDeg: 15,
		RiseRate:   2.0,

		VehicleMass:    1.0,
		RollInertia:    0.02,
		ArmLength:      0.12,
		Gravity:        9.8,
		LinearDamping:  0.05,
		AngularDamping: 0.05,

		CommandSource: "mock",
		IBusBaudRate:  115200,
	}
}

func parseFloat(key, value string) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return f, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	var err error
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_CONTROLLER":
		c.MQTTClientIDController = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value

	// Topics
	case "TOPIC_TELEMETRY":
		c.TopicTelemetry = value

	// Altitude PID
	case "ALT_KP":
		c.AltKP, err = parseFloat(key, value)
	case "ALT_KI":
		c.AltKI, err = parseFloat(key, value)
	case "ALT_KD":
		c.AltKD, err = parseFloat(key, value)
	case "ALT_INTEGRAL_MIN":
		c.AltIntegralMin, err = parseFloat(key, value)
	case "ALT_INTEGRAL_MAX":
		c.AltIntegralMax, err = parseFloat(key, value)

	// Roll PID
	case "ROLL_KP":
		c.RollKP, err = parseFloat(key, value)
	case "ROLL_KI":
		c.RollKI, err = parseFloat(key, value)
	case "ROLL_KD":
		c.RollKD, err = parseFloat(key, value)
	case "ROLL_INTEGRAL_MIN":
		c.RollIntegralMin, err = parseFloat(key, value)
	case "ROLL_INTEGRAL_MAX":
		c.RollIntegralMax, err = parseFloat(key, value)

	// Setpoint tracking
	case "MAX_TILT_DEG":
		c.MaxTiltDeg, err = parseFloat(key, value)
	case "RISE_RATE":
		c.RiseRate, err = parseFloat(key, value)
	case "INITIAL_TARGET_ALTITUDE":
		c.InitialTargetAltitude, err = parseFloat(key, value)

	// Vehicle
	case "VEHICLE_MASS":
		c.VehicleMass, err = parseFloat(key, value)
	case "ROLL_INERTIA":
		c.RollInertia, err = parseFloat(key, value)
	case "ARM_LENGTH":
		c.ArmLength, err = parseFloat(key, value)
	case "GRAVITY":
		c.Gravity, err = parseFloat(key, value)
	case "LINEAR_DAMPING":
		c.LinearDamping, err = parseFloat(key, value)
	case "ANGULAR_DAMPING":
		c.AngularDamping, err = parseFloat(key, value)

	// Pilot input
	case "COMMAND_SOURCE":
		if value != "mock" && value != "ibus" {
			return fmt.Errorf("COMMAND_SOURCE must be \"mock\" or \"ibus\", got %q", value)
		}
		c.CommandSource = value
	case "IBUS_SERIAL_PORT":
		c.IBusSerialPort = value
	case "IBUS_BAUD_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid IBUS_BAUD_RATE %q: %w", value, err)
		}
		if rate <= 0 {
			return fmt.Errorf("IBUS_BAUD_RATE must be positive, got %d", rate)
		}
		c.IBusBaudRate = rate

	// Timing
	case "TICK_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid TICK_INTERVAL %q: %w", value, err)
		}
		c.TickInterval = interval
	case "TELEMETRY_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid TELEMETRY_INTERVAL %q: %w", value, err)
		}
		c.TelemetryInterval = interval

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return err
}

// validate checks that all required fields are set and in range.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("TICK_INTERVAL is required and must be positive")
	}
	if c.TelemetryInterval <= 0 {
		return fmt.Errorf("TELEMETRY_INTERVAL is required and must be positive")
	}
	if c.VehicleMass <= 0 {
		return fmt.Errorf("VEHICLE_MASS must be positive, got %g", c.VehicleMass)
	}
	if c.RollInertia <= 0 {
		return fmt.Errorf("ROLL_INERTIA must be positive, got %g", c.RollInertia)
	}
	if c.Gravity <= 0 {
		return fmt.Errorf("GRAVITY must be positive, got %g", c.Gravity)
	}
	if c.MaxTiltDeg <= 0 || c.MaxTiltDeg >= 90 {
		return fmt.Errorf("MAX_TILT_DEG must be in (0, 90), got %g", c.MaxTiltDeg)
	}
	for _, g := range []struct {
		key string
		val float64
	}{
		{"ALT_KP", c.AltKP}, {"ALT_KI", c.AltKI}, {"ALT_KD", c.AltKD},
		{"ROLL_KP", c.RollKP}, {"ROLL_KI", c.RollKI}, {"ROLL_KD", c.RollKD},
	} {
		if g.val < 0 {
			return fmt.Errorf("%s must not be negative, got %g", g.key, g.val)
		}
	}
	if c.AltIntegralMin >= 0 || c.AltIntegralMax <= 0 {
		return fmt.Errorf("altitude integral clamp must straddle zero, got [%g, %g]", c.AltIntegralMin, c.AltIntegralMax)
	}
	if c.RollIntegralMin >= 0 || c.RollIntegralMax <= 0 {
		return fmt.Errorf("roll integral clamp must straddle zero, got [%g, %g]", c.RollIntegralMin, c.RollIntegralMax)
	}
	if c.CommandSource == "ibus" && c.IBusSerialPort == "" {
		return fmt.Errorf("IBUS_SERIAL_PORT is required when COMMAND_SOURCE=ibus")
	}
	return nil
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once to ensure this only runs once, even if called multiple times.
// Acquires write lock (configMu.Lock) during initialization to prevent concurrent access.
// This is the only function that can set globalConfig.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
// Uses read lock (configMu.RLock) to allow multiple concurrent readers without blocking.
// This is thread-safe and efficient for concurrent access across goroutines.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
