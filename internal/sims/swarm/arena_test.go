package swarm

import (
	"errors"
	"math"
	"slices"
	"sync"
	"testing"

	"rps-swarm/internal/core"
)

func newEmptyArena(t *testing.T, w, h float64) *Arena {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = w, h
	cfg.Params.RadiusMin, cfg.Params.RadiusMax = 10, 10
	cfg.Population = Population{}
	a, err := NewWithConfig(cfg)
	if err != nil {
		t.Fatalf("NewWithConfig: %v", err)
	}
	return a
}

func assertInBounds(t *testing.T, a *Arena, snap []EntityState) {
	t.Helper()
	size := a.Size()
	for _, s := range snap {
		if s.X < s.Radius || s.X > size.W-s.Radius || s.Y < s.Radius || s.Y > size.H-s.Radius {
			t.Fatalf("entity %d escaped: (%v, %v) r=%v in %vx%v", s.ID, s.X, s.Y, s.Radius, size.W, size.H)
		}
	}
}

func TestStepReflectsOffLeftWall(t *testing.T) {
	a := newEmptyArena(t, 100, 100)
	e := a.insert(10, 50, -1, 0, 10, Rock)
	a.Step()
	if e.X != 10 || e.Y != 50 || e.VX != 1 || e.VY != 0 {
		t.Fatalf("got pos (%v, %v) vel (%v, %v)", e.X, e.Y, e.VX, e.VY)
	}
	if a.Ticks() != 1 {
		t.Fatalf("expected 1 tick, got %d", a.Ticks())
	}
}

func TestStepConvertsLoser(t *testing.T) {
	a := newEmptyArena(t, 100, 100)
	rock := a.insert(50, 50, 1, 0, 10, Rock)
	scissors := a.insert(68, 50, -1, 0, 10, Scissors)
	a.Step()

	if rock.Kind != Rock || scissors.Kind != Rock {
		t.Fatalf("expected both rock, got %v and %v", rock.Kind, scissors.Kind)
	}
	if rock.X != 51 || scissors.X != 67 {
		t.Fatalf("positions moved unexpectedly: %v %v", rock.X, scissors.X)
	}
	// The impulse is along x only, so the winner's change recovers the
	// loser's freshly drawn velocity.
	if rock.VY != 0 {
		t.Fatalf("winner vy = %v, want 0", rock.VY)
	}
	imp := 1 - rock.VX
	drawn := math.Hypot(scissors.VX-imp, scissors.VY)
	p := a.Config().Params
	if drawn < p.SpeedMin-1e-9 || drawn >= p.SpeedMax+1e-9 {
		t.Fatalf("redrawn speed %v outside [%v, %v)", drawn, p.SpeedMin, p.SpeedMax)
	}
}

func TestConvertRedrawsSpeedInRange(t *testing.T) {
	a := newEmptyArena(t, 100, 100)
	p := a.Config().Params
	for i := 0; i < 200; i++ {
		winner := &Entity{Kind: Paper}
		loser := &Entity{Kind: Rock, VX: 100, VY: 100}
		if !a.convert(winner, loser, Paper, Rock) {
			t.Fatal("expected a conversion")
		}
		if loser.Kind != Paper {
			t.Fatalf("loser kind %v", loser.Kind)
		}
		if s := loser.Speed(); s < p.SpeedMin-1e-9 || s >= p.SpeedMax+1e-9 {
			t.Fatalf("speed %v outside [%v, %v)", s, p.SpeedMin, p.SpeedMax)
		}
	}
}

func TestTieOnlyBounces(t *testing.T) {
	a := newEmptyArena(t, 100, 100)
	e1 := a.insert(50, 50, 1, 0, 10, Paper)
	e2 := a.insert(60, 50, -1, 0, 10, Paper)
	a.resolvePair(e1, e2, e1.Kind, e2.Kind)
	if e1.Kind != Paper || e2.Kind != Paper {
		t.Fatal("tie must not convert")
	}
	if math.Abs(e1.VX+0.8) > 1e-12 || math.Abs(e2.VX-0.8) > 1e-12 {
		t.Fatalf("got %v and %v, want -0.8 and 0.8", e1.VX, e2.VX)
	}
}

func cascadeTrio(t *testing.T, mode CascadeMode) []Kind {
	t.Helper()
	a := newEmptyArena(t, 100, 100)
	if err := a.SetCascadeMode(mode); err != nil {
		t.Fatalf("SetCascadeMode: %v", err)
	}
	a.insert(50, 50, 0, 0, 10, Rock)
	a.insert(52, 50, 0, 0, 10, Paper)
	a.insert(51, 51, 0, 0, 10, Scissors)
	a.Step()
	var kinds []Kind
	for _, s := range a.Snapshot() {
		kinds = append(kinds, s.Kind)
	}
	return kinds
}

func TestCascadeInPlace(t *testing.T) {
	got := cascadeTrio(t, CascadeInPlace)
	if want := []Kind{Scissors, Scissors, Scissors}; !slices.Equal(got, want) {
		t.Fatalf("in-place cascade got %v, want %v", got, want)
	}
}

func TestCascadeSnapshot(t *testing.T) {
	got := cascadeTrio(t, CascadeSnapshot)
	if want := []Kind{Paper, Scissors, Rock}; !slices.Equal(got, want) {
		t.Fatalf("snapshot cascade got %v, want %v", got, want)
	}
}

func TestContainmentOverManyTicks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 400, 300
	cfg.Seed = 7
	cfg.Params.SpeedMax = 6
	cfg.Population = Population{Rock: 100, Paper: 100, Scissors: 100}
	a, err := NewWithConfig(cfg)
	if err != nil {
		t.Fatalf("NewWithConfig: %v", err)
	}
	a.Reset(0)
	total := a.Len()
	var buf []EntityState
	for i := 0; i < 500; i++ {
		a.Step()
		buf = a.SnapshotInto(buf)
		assertInBounds(t, a, buf)
		if got := CountKinds(buf).Total(); got != total {
			t.Fatalf("tick %d: population changed from %d to %d", i, total, got)
		}
	}
}

func TestDeterministicReplay(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 99
	a, err := NewWithConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewWithConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	a.Reset(0)
	b.Reset(0)
	for i := 0; i < 300; i++ {
		if i%50 == 0 {
			a.SpawnRandom(Rock)
			b.SpawnRandom(Rock)
		}
		a.Step()
		b.Step()
		if !slices.Equal(a.Snapshot(), b.Snapshot()) {
			t.Fatalf("runs diverged at tick %d", i)
		}
	}
}

func TestResetWithSeedReplays(t *testing.T) {
	a, err := NewWithConfig(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	a.Reset(42)
	for i := 0; i < 100; i++ {
		a.Step()
	}
	first := a.Snapshot()

	a.Reset(42)
	if a.Ticks() != 0 {
		t.Fatalf("reset should zero ticks, got %d", a.Ticks())
	}
	for i := 0; i < 100; i++ {
		a.Step()
	}
	second := a.Snapshot()
	// IDs keep increasing across resets; compare everything else.
	for i := range first {
		first[i].ID, second[i].ID = 0, 0
	}
	if !slices.Equal(first, second) {
		t.Fatal("reset with the same seed should replay the same run")
	}
}

func TestResetSpawnsConfiguredPopulation(t *testing.T) {
	a, err := NewWithConfig(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	a.Reset(0)
	if got, want := a.Counts(), (Counts{2, 18, 15}); got != want {
		t.Fatalf("counts %v, want %v", got, want)
	}
	snap := a.Snapshot()
	if snap[0].Kind != Paper || snap[len(snap)-1].Kind != Rock {
		t.Fatalf("spawn order should be paper, scissors, rock; got first=%v last=%v", snap[0].Kind, snap[len(snap)-1].Kind)
	}
	assertInBounds(t, a, snap)
	p := a.Config().Params
	for _, s := range snap {
		if s.Radius < p.RadiusMin || s.Radius >= p.RadiusMax {
			t.Fatalf("radius %v outside [%v, %v)", s.Radius, p.RadiusMin, p.RadiusMax)
		}
	}
}

func TestSpawnAtClamps(t *testing.T) {
	a := newEmptyArena(t, 100, 80)
	id, err := a.SpawnAt(-50, 5000, Paper)
	if err != nil {
		t.Fatalf("SpawnAt: %v", err)
	}
	s, ok := a.Entity(id)
	if !ok {
		t.Fatal("spawned entity not found")
	}
	if s.X != s.Radius || s.Y != 80-s.Radius || s.Kind != Paper {
		t.Fatalf("got %+v", s)
	}
}

func TestSpawnRejectsInvalidKind(t *testing.T) {
	a := newEmptyArena(t, 100, 100)
	if _, err := a.SpawnRandom(Kind(3)); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("SpawnRandom: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := a.SpawnAt(10, 10, Kind(9)); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("SpawnAt: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := a.SpawnAt(math.NaN(), 10, Rock); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("SpawnAt NaN: expected ErrInvalidArgument, got %v", err)
	}
	if a.Len() != 0 {
		t.Fatalf("rejected spawns must not add entities, have %d", a.Len())
	}
}

func TestNewRejectsBadBounds(t *testing.T) {
	for _, dims := range [][2]float64{{0, 100}, {100, -1}, {math.Inf(1), 100}, {30, 30}} {
		if _, err := New(dims[0], dims[1]); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("New(%v, %v): expected ErrInvalidArgument, got %v", dims[0], dims[1], err)
		}
	}
	if _, err := NewWithRand(DefaultConfig(), nil, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("nil rng: expected ErrInvalidArgument, got %v", err)
	}
}

func TestIDsUniqueAcrossClear(t *testing.T) {
	a := newEmptyArena(t, 200, 200)
	seen := map[EntityID]bool{}
	for round := 0; round < 3; round++ {
		for _, id := range a.SpawnRandomKinds(20) {
			if seen[id] {
				t.Fatalf("id %d reused", id)
			}
			seen[id] = true
		}
		a.ClearAll()
		if a.Len() != 0 {
			t.Fatalf("ClearAll left %d entities", a.Len())
		}
	}
	if a.SpawnRandomKinds(0) != nil {
		t.Fatal("spawning zero entities should return nil")
	}
}

func TestDominant(t *testing.T) {
	a := newEmptyArena(t, 200, 200)
	if _, ok := a.Dominant(); ok {
		t.Fatal("empty arena has no dominant kind")
	}
	a.SpawnRandom(Scissors)
	a.SpawnRandom(Scissors)
	if k, ok := a.Dominant(); !ok || k != Scissors {
		t.Fatalf("got %v %v", k, ok)
	}
	a.SpawnRandom(Rock)
	if _, ok := a.Dominant(); ok {
		t.Fatal("mixed arena has no dominant kind")
	}
}

func TestConcurrentReadersSeeWholeTicks(t *testing.T) {
	a, err := NewWithConfig(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	a.Reset(0)
	start := a.Len()

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(done)
		for i := 0; i < 300; i++ {
			a.Step()
			if i%15 == 0 {
				a.SpawnRandom(a.RandomKind())
			}
		}
	}()
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var buf []EntityState
			for {
				select {
				case <-done:
					return
				default:
				}
				buf = a.SnapshotInto(buf)
				size := a.Size()
				for _, s := range buf {
					if s.X < s.Radius || s.X > size.W-s.Radius || s.Y < s.Radius || s.Y > size.H-s.Radius {
						t.Errorf("reader saw entity %d out of bounds", s.ID)
						return
					}
				}
			}
		}()
	}
	wg.Wait()
	if got := a.Len(); got != start+20 {
		t.Fatalf("expected %d entities, got %d", start+20, got)
	}
}

func TestRegistered(t *testing.T) {
	factory, ok := core.Sims()["swarm"]
	if !ok {
		t.Fatal("swarm sim not registered")
	}
	sim, err := factory(map[string]string{"w": "200", "h": "150"})
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	if sim.Name() != "swarm" || sim.Size() != (core.Size{W: 200, H: 150}) {
		t.Fatalf("unexpected sim %s %v", sim.Name(), sim.Size())
	}
	if _, err := factory(map[string]string{"w": "20", "h": "20"}); err == nil {
		t.Fatal("expected an error for an arena too small for the default radius")
	}
}
