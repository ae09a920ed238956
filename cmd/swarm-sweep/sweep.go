package main

import (
	"context"
	"fmt"
	"image/png"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"rps-swarm/internal/core"
	"rps-swarm/internal/render"
	"rps-swarm/internal/scenario"
	"rps-swarm/internal/sims/swarm"
)

type job struct {
	seed        int64
	restitution float64
	cascade     swarm.CascadeMode
}

func (j job) String() string {
	return fmt.Sprintf("seed=%d restitution=%.2f cascade=%s", j.seed, j.restitution, j.cascade)
}

type runResult struct {
	job     job
	ticks   uint64
	winner  swarm.Kind
	decided bool
	counts  swarm.Counts
	frame   []swarm.EntityState
	err     error
}

// runJob plays one arena until a single kind remains or maxTicks elapse.
func runJob(base swarm.Config, scn *scenario.Scenario, j job, maxTicks int, keepFrame bool) runResult {
	cfg := base
	cfg.Seed = j.seed
	cfg.Params.Restitution = j.restitution
	cfg.Params.Cascade = j.cascade
	res := runResult{job: j}

	a, err := newArena(cfg)
	if err != nil {
		res.err = err
		return res
	}
	if scn != nil {
		s := *scn
		s.Seed = j.seed
		s.Cascade = string(j.cascade)
		s.Params = maps.Clone(scn.Params)
		delete(s.Params, "restitution")
		if _, err := s.Apply(a); err != nil {
			res.err = err
			return res
		}
	} else {
		a.Reset(j.seed)
	}

	for {
		if k, ok := a.Dominant(); ok {
			res.winner, res.decided = k, true
			break
		}
		if a.Ticks() >= uint64(maxTicks) {
			break
		}
		a.Step()
	}
	res.ticks = a.Ticks()
	res.counts = a.Counts()
	if keepFrame {
		res.frame = a.Snapshot()
	}
	return res
}

const simName = "swarm"

func lookupSim(name string) (core.Factory, error) {
	f, ok := core.Sims()[name]
	if !ok {
		return nil, fmt.Errorf("unknown sim %q (registered: %s)", name, strings.Join(core.Names(), ", "))
	}
	return f, nil
}

// newArena builds an arena through the registered factory.
func newArena(cfg swarm.Config) (*swarm.Arena, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	factory, err := lookupSim(simName)
	if err != nil {
		return nil, err
	}
	sim, err := factory(cfg.Map())
	if err != nil {
		return nil, err
	}
	a, ok := sim.(*swarm.Arena)
	if !ok {
		return nil, fmt.Errorf("sim %q built a %T", simName, sim)
	}
	return a, nil
}

// sweep fans jobs out to workers and hands every result to sink on a single
// goroutine. The first sink error (or ctx ending) stops the pool, and every
// goroutine has exited by the time sweep returns.
func sweep(ctx context.Context, jobs []job, workers int, run func(job) runResult, sink func(runResult) error) error {
	g, ctx := errgroup.WithContext(ctx)
	queue := make(chan job)
	results := make(chan runResult)

	g.Go(func() error {
		defer close(queue)
		for _, j := range jobs {
			select {
			case queue <- j:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	var wg sync.WaitGroup
	for range max(workers, 1) {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			for j := range queue {
				select {
				case results <- run(j):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}
	g.Go(func() error {
		wg.Wait()
		close(results)
		return nil
	})

	g.Go(func() error {
		for res := range results {
			if err := sink(res); err != nil {
				return err
			}
		}
		return nil
	})
	return g.Wait()
}

type summary struct {
	restitution float64
	cascade     swarm.CascadeMode
	runs        int
	decided     int
	totalTicks  uint64
	wins        swarm.Counts
}

func (s summary) meanTicks() float64 {
	if s.decided == 0 {
		return 0
	}
	return float64(s.totalTicks) / float64(s.decided)
}

// summarize groups results by parameter set and ranks the sets by how often
// and how quickly a single kind took over.
func summarize(results []runResult) []summary {
	type key struct {
		r float64
		c swarm.CascadeMode
	}
	groups := map[key]*summary{}
	for _, res := range results {
		if res.err != nil {
			continue
		}
		k := key{res.job.restitution, res.job.cascade}
		s := groups[k]
		if s == nil {
			s = &summary{restitution: k.r, cascade: k.c}
			groups[k] = s
		}
		s.runs++
		if res.decided {
			s.decided++
			s.totalTicks += res.ticks
			s.wins[res.winner]++
		}
	}
	out := make([]summary, 0, len(groups))
	for _, s := range groups {
		out = append(out, *s)
	}
	slices.SortFunc(out, func(a, b summary) int {
		if a.decided != b.decided {
			return b.decided - a.decided
		}
		if a.meanTicks() != b.meanTicks() {
			if a.meanTicks() < b.meanTicks() {
				return -1
			}
			return 1
		}
		if a.restitution != b.restitution {
			if a.restitution < b.restitution {
				return -1
			}
			return 1
		}
		return strings.Compare(string(a.cascade), string(b.cascade))
	})
	return out
}

func parseFloats(list string) ([]float64, error) {
	var out []float64
	for _, f := range strings.Split(list, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil || v < 0 || v > 1 {
			return nil, fmt.Errorf("%w: restitution %q", swarm.ErrInvalidArgument, f)
		}
		out = append(out, v)
	}
	return out, nil
}

func parseModes(list string) ([]swarm.CascadeMode, error) {
	var out []swarm.CascadeMode
	for _, m := range strings.Split(list, ",") {
		if strings.TrimSpace(m) == "" {
			continue
		}
		mode, err := swarm.ParseCascadeMode(m)
		if err != nil {
			return nil, err
		}
		out = append(out, mode)
	}
	return out, nil
}

func writeFrame(dir string, size core.Size, res runResult) (string, error) {
	grid := core.NewByteGrid(int(size.W), int(size.H))
	render.Rasterize(grid, res.frame, size)
	name := fmt.Sprintf("seed%d_r%.2f_%s.png", res.job.seed, res.job.restitution, res.job.cascade)
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create frame: %w", err)
	}
	if err := png.Encode(f, render.Image(grid, render.GridPalette())); err != nil {
		f.Close()
		return "", fmt.Errorf("encode frame: %w", err)
	}
	return path, f.Close()
}
