package swarm

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CascadeMode selects how kinds are read during the overlap scan.
type CascadeMode string

const (
	// CascadeInPlace reads kinds live, so an entity converted earlier in a
	// tick fights later pairs with its new kind.
	CascadeInPlace CascadeMode = "inplace"
	// CascadeSnapshot decides every pair from the kinds held when the scan
	// started; conversions are still written immediately.
	CascadeSnapshot CascadeMode = "snapshot"
)

// ParseCascadeMode maps a config string to a CascadeMode. Empty means in-place.
func ParseCascadeMode(s string) (CascadeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "inplace", "in-place", "live":
		return CascadeInPlace, nil
	case "snapshot":
		return CascadeSnapshot, nil
	}
	return "", fmt.Errorf("%w: unknown cascade mode %q", ErrInvalidArgument, s)
}

// Params holds the spawn distributions and collision response.
type Params struct {
	RadiusMin float64
	RadiusMax float64
	SpeedMin  float64
	SpeedMax  float64

	Restitution float64
	Cascade     CascadeMode
}

// Population is the number of entities of each kind spawned on Reset.
type Population struct {
	Rock     int
	Paper    int
	Scissors int
}

// Of returns the configured count for k.
func (p Population) Of(k Kind) int {
	switch k {
	case Rock:
		return p.Rock
	case Paper:
		return p.Paper
	case Scissors:
		return p.Scissors
	}
	return 0
}

// Total is the number of entities a Reset spawns.
func (p Population) Total() int { return p.Rock + p.Paper + p.Scissors }

// Config controls the arena dimensions, random seed, and tunables.
type Config struct {
	Width  float64
	Height float64

	Seed int64

	Params     Params
	Population Population
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:  900,
		Height: 720,
		Seed:   1337,
		Params: Params{
			RadiusMin:   14,
			RadiusMax:   22,
			SpeedMin:    0.6,
			SpeedMax:    2.2,
			Restitution: 0.9,
			Cascade:     CascadeInPlace,
		},
		Population: Population{
			Rock:     2,
			Paper:    18,
			Scissors: 15,
		},
	}
}

// Validate checks that the configuration can produce in-bounds entities.
func (c Config) Validate() error {
	if !(c.Width > 0) || !(c.Height > 0) || math.IsInf(c.Width, 0) || math.IsInf(c.Height, 0) {
		return fmt.Errorf("%w: arena bounds must be positive, got %gx%g", ErrInvalidArgument, c.Width, c.Height)
	}
	p := c.Params
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"radius_min", p.RadiusMin},
		{"radius_max", p.RadiusMax},
		{"speed_min", p.SpeedMin},
		{"speed_max", p.SpeedMax},
		{"restitution", p.Restitution},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s must be finite, got %g", ErrInvalidArgument, f.name, f.v)
		}
	}
	if !(p.RadiusMin > 0) || p.RadiusMax < p.RadiusMin {
		return fmt.Errorf("%w: radius range [%g, %g] is invalid", ErrInvalidArgument, p.RadiusMin, p.RadiusMax)
	}
	if 2*p.RadiusMax > math.Min(c.Width, c.Height) {
		return fmt.Errorf("%w: radius %g does not fit a %gx%g arena", ErrInvalidArgument, p.RadiusMax, c.Width, c.Height)
	}
	if p.SpeedMin < 0 || p.SpeedMax < p.SpeedMin {
		return fmt.Errorf("%w: speed range [%g, %g] is invalid", ErrInvalidArgument, p.SpeedMin, p.SpeedMax)
	}
	if p.Restitution < 0 || p.Restitution > 1 {
		return fmt.Errorf("%w: restitution %g outside [0, 1]", ErrInvalidArgument, p.Restitution)
	}
	if _, err := ParseCascadeMode(string(p.Cascade)); err != nil {
		return err
	}
	pop := c.Population
	if pop.Rock < 0 || pop.Paper < 0 || pop.Scissors < 0 {
		return fmt.Errorf("%w: population counts must be non-negative", ErrInvalidArgument)
	}
	return nil
}

// FromMap populates the config from a string map (flag-style key/value pairs).
// Unknown keys and unparsable values keep their defaults.
func FromMap(cfg map[string]string) Config {
	return DefaultConfig().WithOverrides(cfg)
}

// WithOverrides returns c with the recognised keys of cfg applied.
func (c Config) WithOverrides(cfg map[string]string) Config {
	if cfg == nil {
		return c
	}
	setFloat(cfg, "w", &c.Width, false)
	setFloat(cfg, "h", &c.Height, false)
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	setFloat(cfg, "radius_min", &c.Params.RadiusMin, false)
	setFloat(cfg, "radius_max", &c.Params.RadiusMax, false)
	if c.Params.RadiusMax < c.Params.RadiusMin {
		c.Params.RadiusMax = c.Params.RadiusMin
	}
	setFloat(cfg, "speed_min", &c.Params.SpeedMin, true)
	setFloat(cfg, "speed_max", &c.Params.SpeedMax, true)
	if c.Params.SpeedMax < c.Params.SpeedMin {
		c.Params.SpeedMax = c.Params.SpeedMin
	}
	if v, ok := cfg["restitution"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 && parsed <= 1 {
			c.Params.Restitution = parsed
		}
	}
	if v, ok := cfg["cascade"]; ok {
		if mode, err := ParseCascadeMode(v); err == nil {
			c.Params.Cascade = mode
		}
	}
	setInt(cfg, "rock", &c.Population.Rock)
	setInt(cfg, "paper", &c.Population.Paper)
	setInt(cfg, "scissors", &c.Population.Scissors)
	return c
}

// Map renders c in the key/value form read by FromMap. For a valid config,
// FromMap(c.Map()) == c.
func (c Config) Map() map[string]string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	return map[string]string{
		"w":           f(c.Width),
		"h":           f(c.Height),
		"seed":        strconv.FormatInt(c.Seed, 10),
		"radius_min":  f(c.Params.RadiusMin),
		"radius_max":  f(c.Params.RadiusMax),
		"speed_min":   f(c.Params.SpeedMin),
		"speed_max":   f(c.Params.SpeedMax),
		"restitution": f(c.Params.Restitution),
		"cascade":     string(c.Params.Cascade),
		"rock":        strconv.Itoa(c.Population.Rock),
		"paper":       strconv.Itoa(c.Population.Paper),
		"scissors":    strconv.Itoa(c.Population.Scissors),
	}
}

func setFloat(cfg map[string]string, key string, dst *float64, allowZero bool) {
	v, ok := cfg[key]
	if !ok {
		return
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) || parsed < 0 || (parsed == 0 && !allowZero) {
		return
	}
	*dst = parsed
}

func setInt(cfg map[string]string, key string, dst *int) {
	v, ok := cfg[key]
	if !ok {
		return
	}
	parsed, err := strconv.Atoi(v)
	if err != nil || parsed < 0 {
		return
	}
	*dst = parsed
}
