package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/npccore/config"
	"github.com/milk9111/npccore/ecs/system"
	"github.com/milk9111/npccore/logger"
	"github.com/milk9111/npccore/prefabs"
	"github.com/milk9111/npccore/sim"
)

func main() {
	configPath := flag.String("config", "", "path to a config file (yaml, json or toml)")
	level := flag.String("level", "", "level name in prefabs/levels (overrides the config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *level != "" {
		cfg.Level.Name = *level
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)

	feed := newKillLog(6)
	s, err := sim.New(cfg, system.MultiNotifier{system.LogNotifier{}, feed})
	if err != nil {
		log.Fatal(err)
	}

	var watcher *prefabs.Watcher
	if cfg.Prefabs.Watch && cfg.Prefabs.Dir != "" {
		watcher, err = prefabs.NewWatcher(cfg.Prefabs.Dir)
		if err != nil {
			log.Fatal(err)
		}
		defer watcher.Close()
	}

	ebiten.SetTPS(cfg.Sim.TickRate)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(1280, 960)
	ebiten.SetWindowTitle("npcview - " + cfg.Level.Name)

	if err := ebiten.RunGame(newViewer(s, watcher, feed)); err != nil {
		log.Fatal(err)
	}
}
