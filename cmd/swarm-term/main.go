package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"rps-swarm/internal/app"
	"rps-swarm/internal/config"
	"rps-swarm/internal/logging"
	"rps-swarm/internal/term"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "swarm-term:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	logPath := flag.String("logfile", "", "write logs to this file (the terminal is taken by the viewer)")
	flag.Parse()

	session, err := app.NewSession(cfg, func(lc config.LoggingConfig) (*zap.Logger, error) {
		return logging.ToFile(lc, *logPath)
	})
	if err != nil {
		return err
	}
	log := session.Log
	defer func() { _ = log.Sync() }()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	viewer := term.New(screen, session)
	if err := viewer.Run(ctx); err != nil {
		return err
	}
	log.Info("viewer closed",
		zap.Uint64("ticks", session.Arena.Ticks()),
		zap.Stringer("counts", session.Arena.Counts()))
	return nil
}
