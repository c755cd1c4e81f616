package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/milk9111/npccore/config"
	"github.com/milk9111/npccore/ecs/system"
	"github.com/milk9111/npccore/feed"
	"github.com/milk9111/npccore/logger"
	"github.com/milk9111/npccore/prefabs"
	"github.com/milk9111/npccore/sim"
)

func main() {
	configPath := flag.String("config", "", "path to a config file (yaml, json or toml)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("load config")
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Log.WithError(err).Fatal("npcsim")
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	notifiers := system.MultiNotifier{system.LogNotifier{}}

	var hub *feed.Hub
	var srv *http.Server
	if cfg.Feed.Enabled {
		hub = feed.NewHub()
		notifiers = append(notifiers, hub)
		mux := http.NewServeMux()
		mux.Handle("/feed", hub)
		srv = &http.Server{Addr: cfg.Feed.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			logger.Log.WithField("addr", cfg.Feed.Addr).Info("feed listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Log.WithError(err).Error("feed server")
			}
		}()
	}

	s, err := sim.New(cfg, notifiers)
	if err != nil {
		return err
	}

	var watcher *prefabs.Watcher
	if cfg.Prefabs.Watch && cfg.Prefabs.Dir != "" {
		watcher, err = prefabs.NewWatcher(cfg.Prefabs.Dir)
		if err != nil {
			return err
		}
		defer watcher.Close()
		logger.Log.WithField("dir", cfg.Prefabs.Dir).Info("watching prefabs")
	}

	ticker := time.NewTicker(time.Second / time.Duration(cfg.Sim.TickRate))
	defer ticker.Stop()

	log := logger.For("npcsim")
	for {
		select {
		case <-ctx.Done():
			log.WithField("tick", s.World.Tick()).Info("shutting down")
			if hub != nil {
				hub.Close()
			}
			if srv != nil {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			}
			return nil
		case <-ticker.C:
			s.Pending(watcher)
			start := time.Now()
			events := s.Step()
			if elapsed := time.Since(start); elapsed > time.Second/time.Duration(cfg.Sim.TickRate) {
				log.WithFields(logrus.Fields{"tick": s.World.Tick(), "took": elapsed}).Warn("tick overran")
			}
			if len(events) > 0 {
				log.WithFields(logrus.Fields{"tick": s.World.Tick(), "events": len(events)}).Trace("tick events")
			}
		}
	}
}
