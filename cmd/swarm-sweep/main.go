package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"time"

	"go.uber.org/zap"

	"rps-swarm/internal/app"
	"rps-swarm/internal/config"
	"rps-swarm/internal/core"
	"rps-swarm/internal/logging"
	"rps-swarm/internal/scenario"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "swarm-sweep:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "TOML config file (defaults built in)")
	scenarioPath := flag.String("scenario", "", "YAML scenario applied to every run")
	seeds := flag.Int("seeds", 8, "runs per parameter set")
	baseSeed := flag.Int64("seed", 1, "first seed; runs use seed, seed+1, ...")
	restitutions := flag.String("restitution", "0.5,0.9,1.0", "comma-separated restitution values")
	cascades := flag.String("cascade", "inplace,snapshot", "comma-separated cascade modes")
	maxTicks := flag.Int("max-ticks", 20000, "tick limit per run")
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	frames := flag.String("png", "", "directory for a PNG of each run's final frame")
	logLevel := flag.String("log", "", "log level override")
	var overrides app.KeyValues
	flag.Var(&overrides, "set", "engine override in key=value form (repeatable)")
	flag.Parse()

	file := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		file = loaded
	}
	if *logLevel != "" {
		file.Logging.Level = *logLevel
	}
	log, err := logging.New(file.Logging)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	base, err := file.ToSwarm()
	if err != nil {
		return err
	}
	base = base.WithOverrides(overrides.Map())
	if err := base.Validate(); err != nil {
		return err
	}

	var scn *scenario.Scenario
	if *scenarioPath != "" {
		if scn, err = scenario.Load(*scenarioPath); err != nil {
			return err
		}
	}
	rs, err := parseFloats(*restitutions)
	if err != nil {
		return err
	}
	modes, err := parseModes(*cascades)
	if err != nil {
		return err
	}
	if *frames != "" {
		if err := os.MkdirAll(*frames, 0o755); err != nil {
			return fmt.Errorf("create frame dir: %w", err)
		}
	}

	var jobsList []job
	for _, r := range rs {
		for _, m := range modes {
			for i := 0; i < *seeds; i++ {
				jobsList = append(jobsList, job{seed: *baseSeed + int64(i), restitution: r, cascade: m})
			}
		}
	}
	*workers = max(*workers, 1)
	fmt.Printf("Sweeping %d runs (%d workers, max %d ticks)\n", len(jobsList), *workers, *maxTicks)

	if _, err := lookupSim(simName); err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	size := core.Size{W: base.Width, H: base.Height}
	var all []runResult
	err = sweep(ctx, jobsList, *workers,
		func(j job) runResult { return runJob(base, scn, j, *maxTicks, *frames != "") },
		func(res runResult) error {
			if res.err != nil {
				log.Error("run failed", zap.Stringer("job", res.job), zap.Error(res.err))
				return nil
			}
			all = append(all, res)
			log.Debug("run finished", zap.Stringer("job", res.job),
				zap.Uint64("ticks", res.ticks), zap.Bool("decided", res.decided), zap.Stringer("counts", res.counts))
			if *frames == "" {
				return nil
			}
			path, err := writeFrame(*frames, size, res)
			if err != nil {
				return err
			}
			log.Debug("frame written", zap.String("path", path))
			return nil
		})
	if err != nil {
		return err
	}

	fmt.Printf("\nResults (elapsed %s):\n", time.Since(start).Round(time.Millisecond))
	for i, s := range summarize(all) {
		fmt.Printf("%2d) restitution=%.2f cascade=%-8s decided=%d/%d meanTicks=%.0f wins rock=%d paper=%d scissors=%d\n",
			i+1, s.restitution, s.cascade, s.decided, s.runs, s.meanTicks(), s.wins[0], s.wins[1], s.wins[2])
	}
	return nil
}
