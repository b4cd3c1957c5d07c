package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/pikol93/CJ12/api/debug"
	"github.com/pikol93/CJ12/config"
	"github.com/pikol93/CJ12/eventbus"
	"github.com/pikol93/CJ12/game/world"
	"github.com/pikol93/CJ12/logging"
)

func main() {
	cfgPath := "config/config.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// ---- Logger ----
	logger, err := logging.New(cfg.Log, cfg.Server.Debug)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bus := eventbus.New(cfg.DebugAPI.EventBuffer)
	holder := &world.Holder{}

	// ---- Debug API ----
	if cfg.DebugAPI.Enabled {
		srv, err := debug.New(ctx, cfg.DebugAPI, cfg.Server.Debug, holder, bus, logger)
		if err != nil {
			log.Fatalf("debug api: %v", err)
		}
		srv.Start()
		defer func() {
			if err := srv.Shutdown(); err != nil {
				logger.Warn("debug api shutdown", zap.Error(err))
			}
		}()
	}

	// ---- Scene loop ----
	for run := 1; ; run++ {
		w, err := world.New(cfg, world.Options{Logger: logger.With(zap.Int("run", run)), Bus: bus})
		if err != nil {
			log.Fatalf("world: %v", err)
		}
		holder.Set(w)
		reason := w.Run(ctx)
		holder.Set(nil)

		logger.Info("scene ended",
			zap.Int("run", run),
			zap.Stringer("reason", reason),
			zap.Uint64("ticks", w.Ticks()),
			zap.Float32("sim_seconds", w.Now()),
			zap.Uint64("events_dropped", bus.Dropped()))

		if reason != world.ReasonPlayerKilled || cfg.Server.ExitOnDeath || ctx.Err() != nil {
			return
		}
		logger.Info("reloading scene")
	}
}

// loadConfig reads the YAML file, falling back to the built-in defaults when
// it does not exist.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("config: %s not found, using defaults", path)
		return config.Default(), nil
	}
	return nil, err
}
