// Package scenario loads YAML descriptions of an arena's starting state.
package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"rps-swarm/internal/sims/swarm"
)

// Scenario seeds an arena with a population and explicit placements.
type Scenario struct {
	Name       string             `yaml:"name"`
	Seed       int64              `yaml:"seed"`
	Cascade    string             `yaml:"cascade"`
	Params     map[string]float64 `yaml:"params"`
	Population *Population        `yaml:"population"`
	Entities   []Spawn            `yaml:"entities"`
}

// Population overrides the random counts spawned on reset.
type Population struct {
	Rock     int `yaml:"rock"`
	Paper    int `yaml:"paper"`
	Scissors int `yaml:"scissors"`
}

// Spawn places one entity. Omitted coordinates mean a random position.
type Spawn struct {
	Kind  string   `yaml:"kind"`
	X     *float64 `yaml:"x"`
	Y     *float64 `yaml:"y"`
	Count int      `yaml:"count"` // defaults to 1
}

// Load reads a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a scenario document. Unknown keys are rejected.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Scenario) validate() error {
	if s.Cascade != "" {
		if _, err := swarm.ParseCascadeMode(s.Cascade); err != nil {
			return err
		}
	}
	if p := s.Population; p != nil && (p.Rock < 0 || p.Paper < 0 || p.Scissors < 0) {
		return fmt.Errorf("%w: population counts must be non-negative", swarm.ErrInvalidArgument)
	}
	for i, e := range s.Entities {
		if _, err := swarm.ParseKind(e.Kind); err != nil {
			return fmt.Errorf("entities[%d]: %w", i, err)
		}
		if e.Count < 0 {
			return fmt.Errorf("entities[%d]: %w: negative count", i, swarm.ErrInvalidArgument)
		}
		if (e.X == nil) != (e.Y == nil) {
			return fmt.Errorf("entities[%d]: %w: x and y must be given together", i, swarm.ErrInvalidArgument)
		}
	}
	return nil
}

// Apply configures the arena, resets it, and adds the explicit spawns after
// the random population. It returns the number of entities placed.
func (s *Scenario) Apply(a *swarm.Arena) (int, error) {
	if err := s.validate(); err != nil {
		return 0, err
	}
	if s.Cascade != "" {
		if err := a.SetCascadeMode(swarm.CascadeMode(s.Cascade)); err != nil {
			return 0, err
		}
	}
	for _, key := range slices.Sorted(maps.Keys(s.Params)) {
		if !a.SetFloatParameter(key, s.Params[key]) {
			return 0, fmt.Errorf("%w: unknown parameter %q", swarm.ErrInvalidArgument, key)
		}
	}
	if p := s.Population; p != nil {
		a.SetIntParameter("rock", p.Rock)
		a.SetIntParameter("paper", p.Paper)
		a.SetIntParameter("scissors", p.Scissors)
	}
	a.Reset(s.Seed)

	placed := 0
	for _, e := range s.Entities {
		k, _ := swarm.ParseKind(e.Kind)
		n := e.Count
		if n == 0 {
			n = 1
		}
		for i := 0; i < n; i++ {
			var err error
			if e.X != nil {
				_, err = a.SpawnAt(*e.X, *e.Y, k)
			} else {
				_, err = a.SpawnRandom(k)
			}
			if err != nil {
				return placed, err
			}
			placed++
		}
	}
	return placed, nil
}
