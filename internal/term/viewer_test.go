package term

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"rps-swarm/internal/app"
	"rps-swarm/internal/config"
)

func newViewer(t *testing.T) (*Viewer, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(80, 24)

	s, err := app.NewSession(app.NewConfig(), func(config.LoggingConfig) (*zap.Logger, error) {
		return zap.NewNop(), nil
	})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return New(screen, s), screen
}

func row(s tcell.SimulationScreen, y int) string {
	w, _ := s.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := s.GetContent(x, y)
		b.WriteRune(r)
	}
	return b.String()
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not reached in time")
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func TestDrawShowsCountsAndEntities(t *testing.T) {
	v, screen := newViewer(t)
	v.draw()

	if status := row(screen, 0); !strings.HasPrefix(status, "Rock: 2   Paper: 18   Scissors: 15") {
		t.Fatalf("status line %q", status)
	}
	if !strings.Contains(row(screen, 0), "PAUSED") {
		t.Fatal("viewer should start paused")
	}
	cells := 0
	for y := 1; y < 23; y++ {
		cells += strings.Count(row(screen, y), string(cellRune))
	}
	if cells == 0 {
		t.Fatal("no entity cells drawn")
	}
}

func TestRunHandlesKeys(t *testing.T) {
	v, screen := newViewer(t)
	done := make(chan error, 1)
	go func() { done <- v.Run(context.Background()) }()

	screen.InjectKey(tcell.KeyRune, 'c', tcell.ModNone)
	waitFor(t, func() bool { return v.arena.Len() == 0 })

	screen.InjectKey(tcell.KeyRune, 'a', tcell.ModNone)
	waitFor(t, func() bool { return v.arena.Len() == addRandom })

	screen.InjectKey(tcell.KeyRune, 'n', tcell.ModNone)
	waitFor(t, func() bool { return v.arena.Ticks() == 1 })

	screen.InjectKey(tcell.KeyRune, '+', tcell.ModNone)
	waitFor(t, func() bool { return v.Clock().TPS() == 120 })

	screen.InjectKey(tcell.KeyRune, 'r', tcell.ModNone)
	waitFor(t, func() bool { return v.arena.Len() == 35 && v.arena.Ticks() == 0 })

	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("viewer did not quit")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	v, _ := newViewer(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- v.Run(ctx) }()
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("viewer ignored cancellation")
	}
}

func TestClickSpawnsInsideArena(t *testing.T) {
	v, _ := newViewer(t)
	v.draw()
	before := v.arena.Len()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go v.clock.Run(ctx)

	v.handle(tcell.NewEventMouse(30, 10, tcell.Button1, tcell.ModNone))
	v.handle(tcell.NewEventMouse(30, 10, tcell.Button1, tcell.ModNone))
	v.handle(tcell.NewEventMouse(30, 10, tcell.ButtonNone, tcell.ModNone))
	v.handle(tcell.NewEventMouse(30, 0, tcell.Button1, tcell.ModNone))
	waitFor(t, func() bool { return v.arena.Len() == before+1 })

	time.Sleep(20 * time.Millisecond)
	if v.arena.Len() != before+1 {
		t.Fatalf("expected exactly one spawn, have %d new", v.arena.Len()-before)
	}
}
