package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"rps-swarm/internal/sims/swarm"
)

type Config struct {
	Arena      ArenaConfig      `toml:"arena"`
	Entities   EntitiesConfig   `toml:"entities"`
	Population PopulationConfig `toml:"population"`
	Clock      ClockConfig      `toml:"clock"`
	Logging    LoggingConfig    `toml:"logging"`
}

type ArenaConfig struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
	Seed   int64   `toml:"seed"`
}

type EntitiesConfig struct {
	RadiusMin   float64 `toml:"radius_min"`
	RadiusMax   float64 `toml:"radius_max"`
	SpeedMin    float64 `toml:"speed_min"`
	SpeedMax    float64 `toml:"speed_max"`
	Restitution float64 `toml:"restitution"`
	Cascade     string  `toml:"cascade"` // "inplace" or "snapshot"
}

type PopulationConfig struct {
	Rock     int `toml:"rock"`
	Paper    int `toml:"paper"`
	Scissors int `toml:"scissors"`
}

type ClockConfig struct {
	TPS         int  `toml:"tps"`
	StartPaused bool `toml:"start_paused"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "console" or "json"
}

// Load reads a TOML file on top of the built-in defaults. Keys missing from
// the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() *Config { return defaults() }

func defaults() *Config {
	sc := swarm.DefaultConfig()
	return &Config{
		Arena: ArenaConfig{
			Width:  sc.Width,
			Height: sc.Height,
			Seed:   sc.Seed,
		},
		Entities: EntitiesConfig{
			RadiusMin:   sc.Params.RadiusMin,
			RadiusMax:   sc.Params.RadiusMax,
			SpeedMin:    sc.Params.SpeedMin,
			SpeedMax:    sc.Params.SpeedMax,
			Restitution: sc.Params.Restitution,
			Cascade:     string(sc.Params.Cascade),
		},
		Population: PopulationConfig{
			Rock:     sc.Population.Rock,
			Paper:    sc.Population.Paper,
			Scissors: sc.Population.Scissors,
		},
		Clock: ClockConfig{
			TPS:         60,
			StartPaused: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// ToSwarm converts the file layout into a validated engine configuration.
func (c *Config) ToSwarm() (swarm.Config, error) {
	mode, err := swarm.ParseCascadeMode(c.Entities.Cascade)
	if err != nil {
		return swarm.Config{}, fmt.Errorf("entities.cascade: %w", err)
	}
	sc := swarm.Config{
		Width:  c.Arena.Width,
		Height: c.Arena.Height,
		Seed:   c.Arena.Seed,
		Params: swarm.Params{
			RadiusMin:   c.Entities.RadiusMin,
			RadiusMax:   c.Entities.RadiusMax,
			SpeedMin:    c.Entities.SpeedMin,
			SpeedMax:    c.Entities.SpeedMax,
			Restitution: c.Entities.Restitution,
			Cascade:     mode,
		},
		Population: swarm.Population{
			Rock:     c.Population.Rock,
			Paper:    c.Population.Paper,
			Scissors: c.Population.Scissors,
		},
	}
	if err := sc.Validate(); err != nil {
		return swarm.Config{}, fmt.Errorf("config: %w", err)
	}
	return sc, nil
}
