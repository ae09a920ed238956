// Package term renders a running arena on a character terminal.
package term

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"rps-swarm/internal/app"
	"rps-swarm/internal/core"
	"rps-swarm/internal/render"
	"rps-swarm/internal/sims/swarm"
)

const (
	frameRate = 30
	addRandom = 10
	maxTPS    = 480
	cellRune  = '█'
	hint      = "q quit  space pause  n step  r/s reset  a add  c clear  +/- speed  click spawn"
)

var (
	styleDefault = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
	styleStatus  = styleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleHint    = styleDefault.Foreground(tcell.ColorGray)
	stylePaused  = styleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
)

// Viewer draws the arena at a fixed frame rate while a Clock ticks it on its
// own goroutine. Commands that change the arena go through the clock so they
// never land mid-tick.
type Viewer struct {
	screen  tcell.Screen
	session *app.Session
	arena   *swarm.Arena
	clock   *core.Clock
	log     *zap.Logger

	grid    *core.ByteGrid
	snap    []swarm.EntityState
	kinds   [4]tcell.Style
	buttons tcell.ButtonMask
}

// New prepares a viewer on an initialised screen.
func New(screen tcell.Screen, s *app.Session) *Viewer {
	v := &Viewer{
		screen:  screen,
		session: s,
		arena:   s.Arena,
		clock:   core.NewClock(s.Arena, s.File.Clock.TPS, s.Log),
		log:     s.Log,
		grid:    core.NewByteGrid(1, 1),
	}
	v.kinds[0] = styleDefault
	for _, k := range swarm.Kinds {
		c := k.Color()
		v.kinds[k+1] = styleDefault.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
	}
	if s.File.Clock.StartPaused {
		v.clock.Pause()
	}
	screen.EnableMouse()
	return v
}

// Clock exposes the tick driver.
func (v *Viewer) Clock() *core.Clock { return v.clock }

// Run drives the clock and the screen until ctx ends or the user quits.
func (v *Viewer) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		v.clock.Run(ctx)
	}()

	events := make(chan tcell.Event, 64)
	go func() {
		defer wg.Done()
		for {
			ev := v.screen.PollEvent()
			if ev == nil || ctx.Err() != nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	defer func() {
		cancel()
		// PollEvent only returns once an event arrives or the screen is
		// finalised; a wake-up event unblocks it.
		_ = v.screen.PostEvent(tcell.NewEventInterrupt(nil))
		wg.Wait()
	}()

	ticker := time.NewTicker(time.Second / frameRate)
	defer ticker.Stop()
	v.draw()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if !v.handle(ev) {
				return nil
			}
		case <-ticker.C:
			v.draw()
		}
	}
}

// handle applies one input event and reports whether the viewer should keep
// running.
func (v *Viewer) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyEnter:
			v.clock.Resume()
			return true
		case tcell.KeyRune:
		default:
			return true
		}
		switch ev.Rune() {
		case 'q', 'Q':
			return false
		case ' ':
			v.clock.Toggle()
		case 'n', 'N':
			v.clock.StepOnce()
		case 'r', 'R':
			v.clock.Do(func() { v.reset(v.session.Seed()) })
		case 's', 'S':
			seed := time.Now().UnixNano()
			v.clock.Do(func() { v.reset(seed) })
		case 'a', 'A':
			v.clock.Do(func() { v.session.AddRandom(addRandom) })
		case 'c', 'C':
			v.clock.Do(v.arena.ClearAll)
		case '+', '=':
			v.clock.SetTPS(min(v.clock.TPS()*2, maxTPS))
		case '-', '_':
			v.clock.SetTPS(max(v.clock.TPS()/2, 1))
		}
	case *tcell.EventMouse:
		pressed := ev.Buttons()&tcell.Button1 != 0 && v.buttons&tcell.Button1 == 0
		v.buttons = ev.Buttons()
		if pressed {
			x, y := ev.Position()
			v.spawnAt(x, y)
		}
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true
}

func (v *Viewer) reset(seed int64) {
	if err := v.session.Reset(seed); err != nil {
		v.log.Error("reset failed", zap.Error(err))
	}
}

// spawnAt converts a screen cell inside the arena rows to world coordinates.
func (v *Viewer) spawnAt(col, row int) {
	gy := row - 1
	if !v.grid.In(col, gy) {
		return
	}
	size := v.arena.Size()
	x := (float64(col) + 0.5) * size.W / float64(v.grid.W)
	y := (float64(gy) + 0.5) * size.H / float64(v.grid.H)
	v.clock.Do(func() {
		if _, err := v.arena.SpawnAt(x, y, v.arena.RandomKind()); err != nil {
			v.log.Warn("spawn rejected", zap.Error(err))
		}
	})
}

// draw rasterizes a snapshot into the rows between the status and hint lines.
func (v *Viewer) draw() {
	w, h := v.screen.Size()
	if w <= 0 || h < 3 {
		return
	}
	v.screen.Clear()
	v.grid.Resize(w, h-2)
	v.snap = v.arena.SnapshotInto(v.snap)
	render.Rasterize(v.grid, v.snap, v.arena.Size())

	for y := 0; y < v.grid.H; y++ {
		for x := 0; x < v.grid.W; x++ {
			c := v.grid.At(x, y)
			if c == 0 {
				continue
			}
			v.screen.SetContent(x, y+1, cellRune, nil, v.kinds[min(int(c), len(v.kinds)-1)])
		}
	}

	status := v.status(swarm.CountKinds(v.snap))
	style := styleStatus
	if v.clock.Paused() {
		style = stylePaused
	}
	drawText(v.screen, 0, 0, w, status, style)
	drawText(v.screen, 0, h-1, w, hint, styleHint)
	v.screen.Show()
}

func (v *Viewer) status(counts swarm.Counts) string {
	var b strings.Builder
	b.WriteString(counts.String())
	fmt.Fprintf(&b, "   tick %d   %d tps", v.arena.Ticks(), v.clock.TPS())
	if v.clock.Paused() {
		b.WriteString("   PAUSED")
	}
	if k, ok := counts.Dominant(); ok {
		fmt.Fprintf(&b, "   %s wins", k.Label())
	}
	return b.String()
}

func drawText(s tcell.Screen, x, y, maxWidth int, text string, style tcell.Style) {
	for _, r := range text {
		if x >= maxWidth {
			return
		}
		s.SetContent(x, y, r, nil, style)
		x++
	}
}
