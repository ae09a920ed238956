//go:build ebiten

package app

import (
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"rps-swarm/internal/core"
	"rps-swarm/internal/render"
	"rps-swarm/internal/sims/swarm"
	"rps-swarm/internal/ui"
)

const (
	minTPS    = 1
	maxTPS    = 480
	frameTPS  = 60
	addRandom = 10
)

// Game adapts a session's arena to the ebiten.Game interface.
type Game struct {
	session *Session
	arena   *swarm.Arena
	log     *zap.Logger

	painter *render.EntityPainter
	overlay *ui.Overlay
	hud     *ui.HUD
	clock   *core.FixedStep

	snap     []swarm.EntityState
	scale    float64
	hudWidth int

	paused   bool
	tickOnce bool
	decided  bool
}

// New constructs a Game for the session. With clock.start_paused set the
// arena waits for Enter or Space before ticking.
func New(s *Session, scale float64, hudWidth int) *Game {
	if scale <= 0 {
		scale = 1
	}
	return &Game{
		session:  s,
		arena:    s.Arena,
		log:      s.Log,
		painter:  render.NewEntityPainter(scale),
		overlay:  ui.NewOverlay(scale),
		hud:      ui.NewHUD(s.Arena, hudWidth),
		clock:    core.NewFixedStep(s.File.Clock.TPS),
		scale:    scale,
		hudWidth: max(hudWidth, 0),
		paused:   s.File.Clock.StartPaused,
	}
}

// WindowSize is the outer window size in pixels.
func (g *Game) WindowSize() (int, int) {
	w, h := g.arenaPixels()
	return w + g.hudWidth, h
}

func (g *Game) arenaPixels() (int, int) {
	size := g.arena.Size()
	return int(math.Ceil(size.W * g.scale)), int(math.Ceil(size.H * g.scale))
}

func (g *Game) reset(seed int64) {
	if err := g.session.Reset(seed); err != nil {
		g.log.Error("reset failed", zap.Error(err))
	}
	g.decided = false
	g.tickOnce = false
}

// Update handles per-frame input and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
		g.log.Debug("pause toggled", zap.Bool("paused", g.paused))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		g.paused = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.reset(g.session.Seed())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.reset(time.Now().UnixNano())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyA) {
		g.session.AddRandom(addRandom)
		g.decided = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.arena.ClearAll()
		g.decided = false
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyKPAdd) {
		g.setTPS(g.clock.TPS() * 2)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract) {
		g.setTPS(g.clock.TPS() / 2)
	}

	g.overlay.Update()
	aw, ah := g.arenaPixels()
	onPanel := g.hud.Update(aw, ui.Stats{
		Ticks:  g.arena.Ticks(),
		Counts: g.arena.Counts(),
		TPS:    g.clock.TPS(),
		Paused: g.paused,
		Seed:   g.session.Seed(),
	})
	if !onPanel && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		if mx >= 0 && mx < aw && my >= 0 && my < ah {
			g.spawnAtCursor(mx, my)
		}
	}

	// Ticks beyond the frame rate are drained two per frame at most.
	switch {
	case g.tickOnce:
		g.stepOnce()
		g.tickOnce = false
	case !g.paused:
		for i := 0; i < 2 && g.clock.ShouldStep(); i++ {
			g.stepOnce()
		}
	}
	return nil
}

func (g *Game) stepOnce() {
	g.arena.Step()
	if g.decided {
		return
	}
	if k, ok := g.arena.Dominant(); ok {
		g.decided = true
		g.log.Info("single kind remains", zap.Stringer("kind", k), zap.Uint64("tick", g.arena.Ticks()))
	}
}

func (g *Game) spawnAtCursor(mx, my int) {
	k := g.arena.RandomKind()
	x, y := float64(mx)/g.scale, float64(my)/g.scale
	if _, err := g.arena.SpawnAt(x, y, k); err != nil {
		g.log.Warn("spawn rejected", zap.Error(err))
		return
	}
	g.decided = false
}

func (g *Game) setTPS(tps int) {
	tps = min(max(tps, minTPS), maxTPS)
	g.clock.SetTPS(tps)
	ebiten.SetTPS(max(tps, frameTPS))
	g.log.Debug("tick rate changed", zap.Int("tps", tps))
}

// Draw renders the current snapshot.
func (g *Game) Draw(screen *ebiten.Image) {
	g.snap = g.arena.SnapshotInto(g.snap)
	g.painter.Draw(screen, g.snap)
	aw, ah := g.arenaPixels()
	g.overlay.Draw(screen, g.snap, ah)
	g.hud.Draw(screen, aw, ah)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.WindowSize()
}
