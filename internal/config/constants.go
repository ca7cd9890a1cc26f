package config

import "time"

// Application metadata
const (
	AppName = "bachd"
	Version = "0.1.0"

	ConfigFile    = "bachd.yaml"
	ConfigFileEnv = "BACH_DEFAULT_CONFIG"
)

// Logging defaults
const (
	LogLevel  = "info"
	LogFormat = "console"
)

// Daemon defaults
const (
	DefaultPort = 7777
	DefaultIP   = "127.0.0.1"

	DefaultRespawnDurationSeconds = 30
	DefaultAliveEmissionSeconds   = 2

	CycleInterval = 250 * time.Millisecond
)

// Control channel
const (
	ControlAcceptDeadline      = 200 * time.Millisecond
	MaxControlCommandsPerCycle = 16
)

// Vitals
const (
	DefaultVitalsIntervalSeconds = 30
)

// Shutdown
const (
	ShutdownTimeout = 5 * time.Second
)
