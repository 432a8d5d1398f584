package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Simulation SimulationConfig `toml:"simulation"`
	Input      InputConfig      `toml:"input"`
	Data       DataConfig       `toml:"data"`
	Scripting  ScriptingConfig  `toml:"scripting"`
	Logging    LoggingConfig    `toml:"logging"`
}

type SimulationConfig struct {
	TickRate        time.Duration `toml:"tick_rate"`
	DefaultLifetime float64       `toml:"default_lifetime"` // seconds
	StatsInterval   time.Duration `toml:"stats_interval"`   // 0 disables stats logging
	MaxBullets      int           `toml:"max_bullets"`      // 0 = unlimited
	Seed            int64         `toml:"seed"`             // 0 = seed from clock
	GridCell        float64       `toml:"grid_cell"`        // spatial index cell size
	PressureRadius  float64       `toml:"pressure_radius"`  // "near target" radius in stats
}

type InputConfig struct {
	QueueSize          int `toml:"queue_size"`            // pending destroy requests
	MaxRequestsPerTick int `toml:"max_requests_per_tick"` // drained per Input phase
}

type DataConfig struct {
	SpellCards string `toml:"spell_cards"`
	Encounter  string `toml:"encounter"`
}

type ScriptingConfig struct {
	Dir     string `toml:"dir"`
	Enabled bool   `toml:"enabled"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Simulation.TickRate <= 0 {
		return fmt.Errorf("simulation.tick_rate must be positive")
	}
	if c.Simulation.MaxBullets < 0 {
		return fmt.Errorf("simulation.max_bullets must not be negative")
	}
	if c.Simulation.StatsInterval < 0 {
		return fmt.Errorf("simulation.stats_interval must not be negative")
	}
	if !(c.Simulation.GridCell > 0) || math.IsInf(c.Simulation.GridCell, 1) {
		return fmt.Errorf("simulation.grid_cell must be positive and finite")
	}
	if !(c.Simulation.PressureRadius >= 0) || math.IsInf(c.Simulation.PressureRadius, 1) {
		return fmt.Errorf("simulation.pressure_radius must be non-negative and finite")
	}
	if c.Input.QueueSize <= 0 || c.Input.MaxRequestsPerTick <= 0 {
		return fmt.Errorf("input.queue_size and input.max_requests_per_tick must be positive")
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Simulation: SimulationConfig{
			TickRate:        16 * time.Millisecond,
			DefaultLifetime: 5,
			StatsInterval:   5 * time.Second,
			GridCell:        4,
			PressureRadius:  3,
		},
		Input: InputConfig{
			QueueSize:          1024,
			MaxRequestsPerTick: 256,
		},
		Data: DataConfig{
			SpellCards: "data/yaml/spell_cards.yaml",
			Encounter:  "data/yaml/encounter.yaml",
		},
		Scripting: ScriptingConfig{
			Dir:     "scripts",
			Enabled: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
