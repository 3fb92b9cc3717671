package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds the server runtime settings.
type Config struct {
	// Port is the websocket listen port for the game transport.
	Port int
	// APIPort is the listen port for the status API.
	APIPort int
	// LogLevel is one of error, warn, info, debug, trace.
	LogLevel string
	// TickInterval is the session loop period.
	TickInterval time.Duration
	// SpawnIntervalTicks is the number of ticks between order spawns.
	SpawnIntervalTicks int
	// MaxOrders is the open-order cap.
	MaxOrders int
	// GameTime is the session length in seconds.
	GameTime float64
}

// fileConfig is the config.toml key mapping.
type fileConfig struct {
	Port               int     `toml:"port"`
	APIPort            int     `toml:"api_port"`
	LogLevel           string  `toml:"log_level"`
	TickSeconds        float64 `toml:"tick_seconds"`
	SpawnIntervalTicks int     `toml:"spawn_interval_ticks"`
	MaxOrders          int     `toml:"max_orders"`
	GameTime           float64 `toml:"game_time"`
}

func DefaultConfig() Config {
	return Config{
		Port:               3001,
		APIPort:            3002,
		LogLevel:           "info",
		TickInterval:       time.Second,
		SpawnIntervalTicks: 8,
		MaxOrders:          5,
		GameTime:           120,
	}
}

// LoadConfig reads a TOML file and overlays it on the defaults. Keys that are
// absent from the file keep their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load config: %v", err)
	}

	if meta.IsDefined("port") {
		cfg.Port = raw.Port
	}
	if meta.IsDefined("api_port") {
		cfg.APIPort = raw.APIPort
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = raw.LogLevel
	}
	if meta.IsDefined("tick_seconds") {
		cfg.TickInterval = time.Duration(raw.TickSeconds * float64(time.Second))
	}
	if meta.IsDefined("spawn_interval_ticks") {
		cfg.SpawnIntervalTicks = raw.SpawnIntervalTicks
	}
	if meta.IsDefined("max_orders") {
		cfg.MaxOrders = raw.MaxOrders
	}
	if meta.IsDefined("game_time") {
		cfg.GameTime = raw.GameTime
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.APIPort <= 0 || c.APIPort > 65535 {
		return fmt.Errorf("invalid api port: %d", c.APIPort)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("invalid tick interval: %s", c.TickInterval)
	}
	if c.SpawnIntervalTicks <= 0 {
		return fmt.Errorf("invalid spawn interval: %d", c.SpawnIntervalTicks)
	}
	if c.MaxOrders <= 0 {
		return fmt.Errorf("invalid max orders: %d", c.MaxOrders)
	}
	if c.GameTime <= 0 {
		return fmt.Errorf("invalid game time: %f", c.GameTime)
	}
	return nil
}
