package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig loads configuration using Viper.
// Priority order: environment variables > config file > defaults.
func LoadConfig(configPath string) (*ServerConfig, error) {
	v := viper.New()

	v.SetConfigName("server")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/canadian-salad")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// These allow both SALAD_SERVER_PORT style keys and the bare
	// container-friendly names to work.
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.host", "HOST")
	v.BindEnv("server.loglevel", "LOG_LEVEL")
	v.BindEnv("server.logformat", "LOG_FORMAT")
	v.BindEnv("server.ratelimit", "RATE_LIMIT")
	v.BindEnv("server.ratelimitburst", "RATE_LIMIT_BURST")
	v.BindEnv("server.maxrequestsize", "MAX_REQUEST_SIZE")
	v.BindEnv("snapshot.dir", "SNAPSHOT_DIR")

	defaults := DefaultConfig()
	v.SetDefault("server.host", defaults.Server.Host)
	v.SetDefault("server.port", defaults.Server.Port)
	v.SetDefault("server.readtimeout", defaults.Server.ReadTimeout)
	v.SetDefault("server.writetimeout", defaults.Server.WriteTimeout)
	v.SetDefault("server.idletimeout", defaults.Server.IdleTimeout)
	v.SetDefault("server.shutdowntimeout", defaults.Server.ShutdownTimeout)
	v.SetDefault("server.ratelimit", defaults.Server.RateLimit)
	v.SetDefault("server.ratelimitburst", defaults.Server.RateLimitBurst)
	v.SetDefault("server.maxrequestsize", defaults.Server.MaxRequestSize)
	v.SetDefault("server.loglevel", defaults.Server.LogLevel)
	v.SetDefault("server.logformat", defaults.Server.LogFormat)

	v.SetDefault("game.roomcodelength", defaults.Game.RoomCodeLength)
	v.SetDefault("game.roomtimeout", defaults.Game.RoomTimeout)
	v.SetDefault("game.disconnectgrace", defaults.Game.DisconnectGrace)
	v.SetDefault("game.sweepinterval", defaults.Game.SweepInterval)

	v.SetDefault("snapshot.dir", defaults.Snapshot.Dir)
	v.SetDefault("snapshot.interval", defaults.Snapshot.Interval)
	v.SetDefault("snapshot.keep", defaults.Snapshot.Keep)

	// The config file is optional; env vars and defaults are enough.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !strings.Contains(err.Error(), "no such file or directory") {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	cfg := &ServerConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
