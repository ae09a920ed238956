package app

import (
	"fmt"

	"go.uber.org/zap"

	"rps-swarm/internal/config"
	"rps-swarm/internal/scenario"
	"rps-swarm/internal/sims/swarm"
	prng "rps-swarm/pkg/core"
)

// LoggerFunc builds the process logger once the [logging] section is known.
type LoggerFunc func(config.LoggingConfig) (*zap.Logger, error)

// Session is the resolved startup state shared by every front-end: the file
// config with flag overrides applied, the logger, and a reset arena.
type Session struct {
	File     *config.Config
	Arena    *swarm.Arena
	Scenario *scenario.Scenario
	Log      *zap.Logger

	seed int64
}

// NewSession loads the config file and scenario named by c, applies flag
// overrides, and performs the initial reset.
func NewSession(c *Config, newLogger LoggerFunc) (*Session, error) {
	file := config.Default()
	if c.ConfigPath != "" {
		loaded, err := config.Load(c.ConfigPath)
		if err != nil {
			return nil, err
		}
		file = loaded
	}
	if c.LogLevel != "" {
		file.Logging.Level = c.LogLevel
	}
	if c.TPS > 0 {
		file.Clock.TPS = c.TPS
	}

	log, err := newLogger(file.Logging)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	sc, err := file.ToSwarm()
	if err != nil {
		return nil, err
	}
	sc = sc.WithOverrides(c.Sets.Map())
	if c.Seed != 0 {
		sc.Seed = c.Seed
	}

	var scn *scenario.Scenario
	if c.Scenario != "" {
		scn, err = scenario.Load(c.Scenario)
		if err != nil {
			return nil, err
		}
		if scn.Seed != 0 && c.Seed == 0 {
			sc.Seed = scn.Seed
		}
	}

	arena, err := swarm.NewWithRand(sc, prng.NewRNG(sc.Seed).Source(), log)
	if err != nil {
		return nil, err
	}
	s := &Session{File: file, Arena: arena, Scenario: scn, Log: log}
	if err := s.Reset(sc.Seed); err != nil {
		return nil, err
	}
	log.Info("session ready",
		zap.Int64("seed", sc.Seed),
		zap.Float64("width", sc.Width), zap.Float64("height", sc.Height),
		zap.String("cascade", string(sc.Params.Cascade)),
		zap.Int("entities", arena.Len()))
	return s, nil
}

// Seed is the seed of the most recent reset.
func (s *Session) Seed() int64 { return s.seed }

// Reset restarts the arena from seed, replaying the scenario when one is
// loaded.
func (s *Session) Reset(seed int64) error {
	s.seed = seed
	if s.Scenario == nil {
		s.Arena.Reset(seed)
		return nil
	}
	scn := *s.Scenario
	scn.Seed = seed
	if _, err := scn.Apply(s.Arena); err != nil {
		return fmt.Errorf("apply scenario %q: %w", scn.Name, err)
	}
	return nil
}

// Restart is Reset with the current seed.
func (s *Session) Restart() error { return s.Reset(s.seed) }

// AddRandom spawns n entities of random kinds.
func (s *Session) AddRandom(n int) int {
	return len(s.Arena.SpawnRandomKinds(n))
}
