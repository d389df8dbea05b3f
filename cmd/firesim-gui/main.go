//go:build ebiten

package main

import (
	"errors"
	"flag"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"

	"firespread/internal/app"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "firesim-gui"})

	sess, err := cfg.NewSession(logger)
	if err != nil {
		logger.Fatal("cannot build world", "err", err)
	}

	game := app.New(cfg, sess, logger)
	w, h := game.Layout(0, 0)

	ebiten.SetWindowTitle("firespread")
	ebiten.SetWindowSize(w, h)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Fatal("game exited", "err", err)
	}
}
