package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/symbiote/engine/internal/component"
	"github.com/symbiote/engine/internal/config"
	"github.com/symbiote/engine/internal/core/ecs"
	"github.com/symbiote/engine/internal/core/event"
	coresys "github.com/symbiote/engine/internal/core/system"
	"github.com/symbiote/engine/internal/data"
	"github.com/symbiote/engine/internal/persist"
	"github.com/symbiote/engine/internal/scripting"
	"github.com/symbiote/engine/internal/system"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		cfgPath  = flag.String("config", "", "config file (default $SYMBIOTE_CONFIG or config/symbiote.toml)")
		headless = flag.Bool("headless", false, "run without the terminal renderer")
		maxTicks = flag.Uint64("ticks", 0, "stop after this many ticks (overrides engine.max_ticks)")
	)
	flag.Parse()

	// 1. Load config
	path := *cfgPath
	if path == "" {
		path = "config/symbiote.toml"
		if p := os.Getenv("SYMBIOTE_CONFIG"); p != "" {
			path = p
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *headless {
		cfg.Renderer.Enabled = false
	}
	if *maxTicks > 0 {
		cfg.Engine.MaxTicks = *maxTicks
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	// 3. World and event bus
	m := ecs.NewEntityManager()
	if _, err := component.Register(m); err != nil {
		return err
	}
	bus := event.NewBus()
	event.Subscribe(bus, func(ev event.SnapshotSaved) {
		log.Debug("snapshot event", zap.String("name", ev.Name), zap.Int64("bytes", ev.Size))
	})

	// 4. Snapshot store
	store, closeStore, err := openStore(cfg, log)
	if err != nil {
		return fmt.Errorf("snapshot store: %w", err)
	}
	defer closeStore()

	// 5. Scripting
	var scripts *scripting.Engine
	if cfg.Scripting.Dir != "" {
		scripts, err = scripting.NewEngine(cfg.Scripting.Dir, log)
		if err != nil {
			return fmt.Errorf("scripting: %w", err)
		}
		defer scripts.Close()
	}

	// 6. Systems, in registration order within each phase
	if _, err := ecs.AddSystem(m, system.NewPhysicsSystem(scripts, log)); err != nil {
		return err
	}
	var snap *system.SnapshotSystem
	if store != nil {
		snap, err = ecs.AddSystem(m, system.NewSnapshotSystem(store, bus, log, cfg.Snapshot.Name, cfg.Snapshot.IntervalTicks))
		if err != nil {
			return err
		}
	}
	if _, err := ecs.AddSystem(m, system.NewCleanupSystem(bus, log)); err != nil {
		return err
	}

	// 7. Initial world
	if err := populate(cfg, m, snap, log); err != nil {
		return err
	}

	// The renderer goes last so startup errors are still printed to a
	// normal terminal.
	if cfg.Renderer.Enabled {
		r, err := system.OpenTerminal(log)
		if err != nil {
			return fmt.Errorf("renderer: %w", err)
		}
		defer r.Close()
		if _, err := ecs.AddSystem(m, r); err != nil {
			return err
		}
	}

	// 8. Game loop
	runner := coresys.NewRunner(m, bus)
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Engine.TickRate)
	defer ticker.Stop()

	log.Info("engine started",
		zap.Duration("tick_rate", cfg.Engine.TickRate),
		zap.Int("entities", m.Size()),
		zap.Int("systems", len(m.Systems())),
	)

loop:
	for {
		select {
		case <-ticker.C:
			if !runner.Tick(cfg.Engine.TickRate) {
				log.Info("stop requested")
				break loop
			}
			if cfg.Engine.MaxTicks > 0 && runner.Ticks() >= cfg.Engine.MaxTicks {
				log.Info("tick limit reached", zap.Uint64("ticks", runner.Ticks()))
				break loop
			}
		case sig := <-shutdownCh:
			log.Info("shutdown signal", zap.String("signal", sig.String()))
			break loop
		}
	}

	// 9. Final snapshot
	if snap != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := snap.Save(ctx); err != nil {
			log.Error("final snapshot failed", zap.Error(err))
		}
	}
	log.Info("engine stopped", zap.Uint64("ticks", runner.Ticks()), zap.Int("entities", m.Size()))
	return nil
}

func openStore(cfg *config.Config, log *zap.Logger) (system.SnapshotStore, func(), error) {
	switch cfg.Snapshot.Store {
	case "file":
		s, err := persist.NewFileStore(cfg.Snapshot.Dir, log)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	case "postgres":
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		db, err := persist.OpenSnapshotDB(ctx, cfg.Database, log)
		if err != nil {
			return nil, nil, fmt.Errorf("database: %w", err)
		}
		return db.Snapshots(), db.Close, nil
	default:
		return nil, func() {}, nil
	}
}

// populate restores the last snapshot when asked to, and otherwise spawns
// the configured scene.
func populate(cfg *config.Config, m *ecs.EntityManager, snap *system.SnapshotSystem, log *zap.Logger) error {
	if cfg.Snapshot.LoadOnStart && snap != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		err := snap.Restore(ctx)
		if err == nil {
			return nil
		}
		if !errors.Is(err, persist.ErrSnapshotNotFound) {
			return err
		}
		log.Info("no snapshot to restore, loading scene", zap.String("name", cfg.Snapshot.Name))
	}
	if cfg.Scene.Path == "" {
		return nil
	}
	scene, err := data.LoadScene(cfg.Scene.Path)
	if err != nil {
		return err
	}
	es, err := scene.Spawn(m)
	if err != nil {
		return err
	}
	log.Info("scene loaded", zap.String("path", cfg.Scene.Path), zap.Int("entities", len(es)))
	return nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
		if cfg.File == "" {
			zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		} else {
			zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		}
	}
	if cfg.File != "" {
		zapCfg.OutputPaths = []string{cfg.File}
		zapCfg.ErrorOutputPaths = []string{cfg.File}
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
