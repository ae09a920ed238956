package core

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Stepper is anything the clock can advance.
type Stepper interface {
	Step()
}

// Clock drives a Stepper from a single goroutine at a fixed rate. Pausing stops
// issuing ticks; it never interrupts a tick in progress.
type Clock struct {
	sim Stepper
	log *zap.Logger

	mu     sync.Mutex
	tps    int
	paused bool

	once  chan struct{}
	rate  chan struct{}
	cmds  chan func()
	ticks atomic.Uint64
}

// NewClock returns a clock for sim targeting tps ticks per second.
func NewClock(sim Stepper, tps int, log *zap.Logger) *Clock {
	if tps <= 0 {
		tps = 60
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Clock{
		sim:  sim,
		log:  log,
		tps:  tps,
		once: make(chan struct{}, 1),
		rate: make(chan struct{}, 1),
		cmds: make(chan func(), 16),
	}
}

// Run ticks the simulation until ctx is cancelled.
func (c *Clock) Run(ctx context.Context) {
	ticker := time.NewTicker(interval(c.TPS()))
	defer ticker.Stop()

	c.log.Info("clock started", zap.Int("tps", c.TPS()), zap.Bool("paused", c.Paused()))
	defer func() {
		c.log.Info("clock stopped", zap.Uint64("ticks", c.Ticks()))
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.rate:
			ticker.Reset(interval(c.TPS()))
		case fn := <-c.cmds:
			fn()
		case <-c.once:
			c.advance()
		case <-ticker.C:
			if !c.Paused() {
				c.advance()
			}
		}
	}
}

func (c *Clock) advance() {
	c.sim.Step()
	c.ticks.Add(1)
}

// Ticks reports how many ticks the clock has issued.
func (c *Clock) Ticks() uint64 { return c.ticks.Load() }

// TPS returns the current target rate.
func (c *Clock) TPS() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tps
}

// SetTPS changes the tick rate; values <= 0 are ignored.
func (c *Clock) SetTPS(tps int) {
	if tps <= 0 {
		return
	}
	c.mu.Lock()
	c.tps = tps
	c.mu.Unlock()
	select {
	case c.rate <- struct{}{}:
	default:
	}
}

// Paused reports whether ticking is suspended.
func (c *Clock) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

// Pause suspends ticking.
func (c *Clock) Pause() { c.setPaused(true) }

// Resume restarts ticking.
func (c *Clock) Resume() { c.setPaused(false) }

// Toggle flips the paused state and returns the new value.
func (c *Clock) Toggle() bool {
	c.mu.Lock()
	c.paused = !c.paused
	paused := c.paused
	c.mu.Unlock()
	c.log.Debug("clock toggled", zap.Bool("paused", paused))
	return paused
}

func (c *Clock) setPaused(p bool) {
	c.mu.Lock()
	changed := c.paused != p
	c.paused = p
	c.mu.Unlock()
	if changed {
		c.log.Debug("clock state changed", zap.Bool("paused", p))
	}
}

// StepOnce requests a single tick even while paused. Requests made while one is
// already pending are coalesced.
func (c *Clock) StepOnce() {
	select {
	case c.once <- struct{}{}:
	default:
	}
}

// Do queues fn to run on the clock goroutine between two ticks, so it never
// interleaves with a step. It blocks while the queue is full, which requires
// Run to be draining it.
func (c *Clock) Do(fn func()) {
	c.cmds <- fn
}

func interval(tps int) time.Duration {
	if tps <= 0 {
		tps = 60
	}
	return time.Second / time.Duration(tps)
}
