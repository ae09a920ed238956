package swarm

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"

	"go.uber.org/zap"

	"rps-swarm/internal/core"
	prng "rps-swarm/pkg/core"
)

// ErrInvalidArgument reports a rejected command or configuration.
var ErrInvalidArgument = errors.New("invalid argument")

// Arena owns the entity collection and advances it one tick at a time.
//
// All mutation (Step, spawns, clears, resets, parameter changes) holds the
// write lock for its whole duration; readers get copies under the read lock,
// so nobody observes a half-finished tick.
type Arena struct {
	mu sync.RWMutex

	cfg  Config
	w, h float64

	rng *prng.RNG
	log *zap.Logger

	entities []*Entity
	nextID   EntityID
	ticks    uint64

	kinds []Kind
}

// New returns an arena of the given size using default tunables.
func New(w, h float64) (*Arena, error) {
	cfg := DefaultConfig()
	cfg.Width = w
	cfg.Height = h
	return NewWithConfig(cfg)
}

// NewWithConfig returns an arena seeded from cfg.Seed.
func NewWithConfig(cfg Config) (*Arena, error) {
	return NewWithRand(cfg, prng.NewRNG(cfg.Seed).Source(), nil)
}

// NewWithRand returns an arena drawing all randomness from rng. A nil log
// disables logging.
func NewWithRand(cfg Config, rng *rand.Rand, log *zap.Logger) (*Arena, error) {
	if cfg.Params.Cascade == "" {
		cfg.Params.Cascade = CascadeInPlace
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random source", ErrInvalidArgument)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Arena{
		cfg:    cfg,
		w:      cfg.Width,
		h:      cfg.Height,
		rng:    prng.Wrap(rng),
		log:    log.With(zap.String("sim", "swarm")),
		nextID: 1,
	}, nil
}

// Name returns the simulation identifier.
func (a *Arena) Name() string { return "swarm" }

// Size reports the arena bounds.
func (a *Arena) Size() core.Size { return core.Size{W: a.w, H: a.h} }

// Config returns a copy of the active configuration.
func (a *Arena) Config() Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cfg
}

// Step advances the simulation by one tick.
func (a *Arena) Step() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.step()
}

func (a *Arena) step() {
	a.ticks++
	for _, e := range a.entities {
		e.integrate()
		reflectWalls(e, a.w, a.h)
	}
	a.resolveOverlaps()
}

// resolveOverlaps scans every unordered pair once, in collection order.
func (a *Arena) resolveOverlaps() {
	n := len(a.entities)
	var snap []Kind
	if a.cfg.Params.Cascade == CascadeSnapshot {
		snap = a.kinds[:0]
		for _, e := range a.entities {
			snap = append(snap, e.Kind)
		}
		a.kinds = snap
	}
	for i := 0; i < n; i++ {
		ea := a.entities[i]
		for j := i + 1; j < n; j++ {
			eb := a.entities[j]
			if !overlapping(ea, eb) {
				continue
			}
			ka, kb := ea.Kind, eb.Kind
			if snap != nil {
				ka, kb = snap[i], snap[j]
			}
			a.resolvePair(ea, eb, ka, kb)
		}
	}
}

// resolvePair converts the loser (if any) and then pushes the pair apart.
func (a *Arena) resolvePair(ea, eb *Entity, ka, kb Kind) {
	a.convert(ea, eb, ka, kb)
	separate(ea, eb, a.cfg.Params.Restitution)
}

func (a *Arena) convert(ea, eb *Entity, ka, kb Kind) bool {
	winner, decided := Winner(ka, kb)
	if !decided {
		return false
	}
	loser := eb
	if winner == kb {
		loser = ea
	}
	if loser.Kind == winner {
		return false
	}
	loser.Kind = winner
	a.randomizeVelocity(loser)
	return true
}

func (a *Arena) randomizeVelocity(e *Entity) {
	e.VX, e.VY = a.rng.Polar(a.cfg.Params.SpeedMin, a.cfg.Params.SpeedMax)
}

// SpawnRandom adds an entity of kind k at a random in-bounds position.
func (a *Arena) SpawnRandom(k Kind) (EntityID, error) {
	if !k.Valid() {
		return 0, fmt.Errorf("%w: kind %d", ErrInvalidArgument, uint8(k))
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.spawnRandom(k), nil
}

func (a *Arena) spawnRandom(k Kind) EntityID {
	r := a.drawRadius()
	x := a.rng.Uniform(r, a.w-r)
	y := a.rng.Uniform(r, a.h-r)
	vx, vy := a.rng.Polar(a.cfg.Params.SpeedMin, a.cfg.Params.SpeedMax)
	return a.insert(x, y, vx, vy, r, k).ID
}

// SpawnAt adds an entity of kind k centered at (x, y). Coordinates that would
// put the circle outside the arena are clamped inward.
func (a *Arena) SpawnAt(x, y float64, k Kind) (EntityID, error) {
	if !k.Valid() {
		return 0, fmt.Errorf("%w: kind %d", ErrInvalidArgument, uint8(k))
	}
	if math.IsNaN(x) || math.IsNaN(y) {
		return 0, fmt.Errorf("%w: spawn position (%g, %g)", ErrInvalidArgument, x, y)
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	r := a.drawRadius()
	cx := clamp(x, r, a.w-r)
	cy := clamp(y, r, a.h-r)
	if cx != x || cy != y {
		a.log.Debug("spawn position clamped",
			zap.Float64("x", x), zap.Float64("y", y),
			zap.Float64("clampedX", cx), zap.Float64("clampedY", cy))
	}
	vx, vy := a.rng.Polar(a.cfg.Params.SpeedMin, a.cfg.Params.SpeedMax)
	return a.insert(cx, cy, vx, vy, r, k).ID, nil
}

// SpawnRandomKinds adds n entities, each of a uniformly random kind.
func (a *Arena) SpawnRandomKinds(n int) []EntityID {
	if n <= 0 {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	ids := make([]EntityID, 0, n)
	for i := 0; i < n; i++ {
		k := Kinds[a.rng.IntN(int(numKinds))]
		ids = append(ids, a.spawnRandom(k))
	}
	return ids
}

// RandomKind draws a kind from the arena's random source.
func (a *Arena) RandomKind() Kind {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Kinds[a.rng.IntN(int(numKinds))]
}

func (a *Arena) drawRadius() float64 {
	return a.rng.Uniform(a.cfg.Params.RadiusMin, a.cfg.Params.RadiusMax)
}

func (a *Arena) insert(x, y, vx, vy, r float64, k Kind) *Entity {
	e := &Entity{ID: a.nextID, X: x, Y: y, VX: vx, VY: vy, Kind: k, radius: r}
	a.nextID++
	a.entities = append(a.entities, e)
	return e
}

// ClearAll removes every entity.
func (a *Arena) ClearAll() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.clear()
	a.log.Debug("arena cleared")
}

func (a *Arena) clear() {
	for i := range a.entities {
		a.entities[i] = nil
	}
	a.entities = a.entities[:0]
}

// Reset clears the arena and spawns the configured initial population. A
// non-zero seed restarts the random stream from that seed; zero keeps the
// current stream.
func (a *Arena) Reset(seed int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if seed != 0 {
		a.rng = prng.NewRNG(seed)
	}
	a.clear()
	a.ticks = 0
	pop := a.cfg.Population
	for i := 0; i < pop.Paper; i++ {
		a.spawnRandom(Paper)
	}
	for i := 0; i < pop.Scissors; i++ {
		a.spawnRandom(Scissors)
	}
	for i := 0; i < pop.Rock; i++ {
		a.spawnRandom(Rock)
	}
	a.log.Debug("arena reset",
		zap.Int64("seed", seed),
		zap.Int("rock", pop.Rock), zap.Int("paper", pop.Paper), zap.Int("scissors", pop.Scissors))
}

// Snapshot returns an ordered copy of every entity.
func (a *Arena) Snapshot() []EntityState {
	return a.SnapshotInto(nil)
}

// SnapshotInto is Snapshot reusing dst's storage.
func (a *Arena) SnapshotInto(dst []EntityState) []EntityState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	dst = dst[:0]
	for _, e := range a.entities {
		dst = append(dst, e.state())
	}
	return dst
}

// Entity returns a copy of the entity with the given id.
func (a *Arena) Entity(id EntityID) (EntityState, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, e := range a.entities {
		if e.ID == id {
			return e.state(), true
		}
	}
	return EntityState{}, false
}

// Counts tallies the current population by kind.
func (a *Arena) Counts() Counts {
	return CountKinds(a.Snapshot())
}

// Dominant returns the surviving kind once every entity shares one kind.
func (a *Arena) Dominant() (Kind, bool) {
	return a.Counts().Dominant()
}

// Len returns the number of entities.
func (a *Arena) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.entities)
}

// Ticks returns the number of ticks since the last Reset.
func (a *Arena) Ticks() uint64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.ticks
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func init() {
	core.Register("swarm", func(cfg map[string]string) (core.Sim, error) {
		a, err := NewWithConfig(FromMap(cfg))
		if err != nil {
			return nil, err
		}
		return a, nil
	})
}
