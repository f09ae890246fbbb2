package main

import (
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/deskpet/common"
	"github.com/milk9111/deskpet/prefabs"
)

func main() {
	debug := flag.Bool("debug", false, "show the debug overlay (toggle with F3)")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	logLevel := flag.String("log", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	settings, err := prefabs.LoadSettings()
	if err != nil {
		log.Fatal(err)
	}
	level := settings.LogLevel
	if *logLevel != "" {
		level = *logLevel
	}
	logger := common.NewLogger(os.Stderr, level)

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(common.BaseWidth, common.BaseHeight)
	ebiten.SetWindowTitle("deskpet")

	game, err := NewGame(settings, *debug, logger)
	if err != nil {
		log.Fatal(err)
	}
	// log.Fatal skips defers, so the watcher is closed before it
	err = ebiten.RunGame(game)
	game.Close()
	if err != nil {
		log.Fatal(err)
	}
}
