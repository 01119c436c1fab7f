package config

import (
	"fmt"
	"time"
)

// This file defines the configuration structures; loading is handled by
// viper in viper_config.go.

// ServerConfig is the root configuration.
type ServerConfig struct {
	Server   ServerSettings   `mapstructure:"server"`
	Game     GameSettings     `mapstructure:"game"`
	Snapshot SnapshotSettings `mapstructure:"snapshot"`
}

// ServerSettings contains HTTP/WebSocket server settings.
type ServerSettings struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"readTimeout"`
	WriteTimeout    time.Duration `mapstructure:"writeTimeout"`
	IdleTimeout     time.Duration `mapstructure:"idleTimeout"` // 0 keeps WebSocket connections open
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`

	// Rate limiting (golang.org/x/time/rate)
	RateLimit      float64 `mapstructure:"rateLimit"`
	RateLimitBurst int     `mapstructure:"rateLimitBurst"`

	MaxRequestSize int64 `mapstructure:"maxRequestSize"`

	LogLevel  string `mapstructure:"logLevel"`
	LogFormat string `mapstructure:"logFormat"`
}

// GameSettings contains room lifecycle tunables.
type GameSettings struct {
	RoomCodeLength  int           `mapstructure:"roomCodeLength"`
	RoomTimeout     time.Duration `mapstructure:"roomTimeout"`     // idle rooms older than this are swept
	DisconnectGrace time.Duration `mapstructure:"disconnectGrace"` // window before a disconnected player loses their seat
	SweepInterval   time.Duration `mapstructure:"sweepInterval"`
}

// SnapshotSettings controls durable room snapshots.
type SnapshotSettings struct {
	Dir      string        `mapstructure:"dir"`
	Interval time.Duration `mapstructure:"interval"`
	Keep     int           `mapstructure:"keep"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		Server: ServerSettings{
			Host:            "0.0.0.0",
			Port:            "8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     0,
			ShutdownTimeout: 30 * time.Second,
			RateLimit:       10,
			RateLimitBurst:  20,
			MaxRequestSize:  1 << 20,
			LogLevel:        "info",
			LogFormat:       "console",
		},
		Game: GameSettings{
			RoomCodeLength:  4,
			RoomTimeout:     4 * time.Hour,
			DisconnectGrace: 5 * time.Minute,
			SweepInterval:   10 * time.Minute,
		},
		Snapshot: SnapshotSettings{
			Dir:      "game-states",
			Interval: 30 * time.Second,
			Keep:     10,
		},
	}
}

// Validate checks the configuration for values the server cannot run
// with.
func (c *ServerConfig) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port must be set")
	}
	if c.Game.RoomCodeLength < 3 {
		return fmt.Errorf("roomCodeLength must be at least 3")
	}
	if c.Game.DisconnectGrace <= 0 {
		return fmt.Errorf("disconnectGrace must be positive")
	}
	if c.Game.RoomTimeout <= 0 {
		return fmt.Errorf("roomTimeout must be positive")
	}
	if c.Game.SweepInterval <= 0 {
		return fmt.Errorf("sweepInterval must be positive")
	}
	if c.Snapshot.Keep < 1 {
		return fmt.Errorf("snapshot keep must be at least 1")
	}
	if c.Snapshot.Interval <= 0 {
		return fmt.Errorf("snapshot interval must be positive")
	}
	return nil
}
