//go:build ebiten

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"rps-swarm/internal/app"
	"rps-swarm/internal/logging"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "swarm:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	session, err := app.NewSession(cfg, logging.New)
	if err != nil {
		return err
	}
	log := session.Log
	defer func() { _ = log.Sync() }()

	game := app.New(session, cfg.Scale, cfg.HUDWidth)
	w, h := game.WindowSize()

	ebiten.SetWindowTitle("Rock Paper Scissors")
	ebiten.SetTPS(max(session.File.Clock.TPS, 60))
	ebiten.SetWindowSize(w, h)

	log.Info("window opened", zap.Int("width", w), zap.Int("height", h))
	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	log.Info("window closed", zap.Uint64("ticks", session.Arena.Ticks()))
	return nil
}
