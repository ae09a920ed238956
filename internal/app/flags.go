package app

import (
	"flag"
	"fmt"
	"strings"
)

// Config represents the command-line parameters shared by the front-ends.
type Config struct {
	ConfigPath string
	Scenario   string
	Scale      float64
	HUDWidth   int
	TPS        int
	Seed       int64
	LogLevel   string
	Sets       KeyValues
}

// NewConfig returns a Config populated with sensible defaults. Zero TPS and
// seed mean "use the config file".
func NewConfig() *Config {
	return &Config{Scale: 1, HUDWidth: 240}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.ConfigPath, "config", c.ConfigPath, "TOML config file (defaults built in)")
	fs.StringVar(&c.Scenario, "scenario", c.Scenario, "YAML scenario file applied on every reset")
	fs.Float64Var(&c.Scale, "scale", c.Scale, "pixels per world unit")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "parameter panel width in pixels (0 hides it)")
	fs.IntVar(&c.TPS, "tps", c.TPS, "simulation ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for the initial reset")
	fs.StringVar(&c.LogLevel, "log", c.LogLevel, "log level override (debug, info, warn, error)")
	fs.Var(&c.Sets, "set", "engine override in key=value form (repeatable)")
}

// KeyValues collects repeated key=value flags.
type KeyValues []string

func (l *KeyValues) String() string {
	return strings.Join(*l, ",")
}

func (l *KeyValues) Set(value string) error {
	if !strings.Contains(value, "=") {
		return fmt.Errorf("expected key=value, got %q", value)
	}
	*l = append(*l, value)
	return nil
}

// Map returns the pairs keyed by their trimmed key; later pairs win.
func (l KeyValues) Map() map[string]string {
	if len(l) == 0 {
		return nil
	}
	m := make(map[string]string, len(l))
	for _, kv := range l {
		k, v, _ := strings.Cut(kv, "=")
		m[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return m
}
