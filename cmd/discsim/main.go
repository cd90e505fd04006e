package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lao-tseu-is-alive/go-disc-simulation/internal/broadcast"
	"github.com/lao-tseu-is-alive/go-disc-simulation/internal/game"
	"github.com/lao-tseu-is-alive/go-disc-simulation/internal/world"
	"github.com/lao-tseu-is-alive/go-disc-simulation/pkg/simulation"
)

func main() {
	var (
		configFile = flag.String("config", "", "JSON or YAML config file (defaults are used when empty)")
		headless   = flag.Bool("headless", false, "run without a window")
		frames     = flag.Int("frames", 0, "headless: stop after this many steps, 0 runs until interrupted")
		tps        = flag.Int("tps", 60, "headless: steps per second")
		listen     = flag.String("listen", "", "serve the snapshot feed over websocket on this address, e.g. :8080")
		seed       = flag.Uint64("seed", 0, "random seed, overrides the config when not 0")
		debug      = flag.Bool("debug", false, "enable debug logs")
	)
	flag.Parse()

	level := golog.InfoLevel
	if *debug {
		level = golog.DebugLevel
	}
	logger := golog.New(level, os.Stdout)

	if err := run(logger, *configFile, *headless, *frames, *tps, *listen, *seed); err != nil {
		logger.Errorf("discsim: %v", err)
		os.Exit(1)
	}
}

func run(logger golog.Logger, configFile string, headless bool, frames, tps int, listen string, seed uint64) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Configuration
	cfg := simulation.DefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = simulation.LoadConfig(configFile); err != nil {
			return err
		}
	}
	if seed != 0 {
		cfg.Seed = seed
	}

	state, err := simulation.NewState(cfg, simulation.WithLogger(logger))
	if err != nil {
		return err
	}

	// 2. Actor system and the world that owns the state
	system, err := actor.NewActorSystem("DiscWorld",
		actor.WithLogger(logger),
		actor.WithActorInitMaxRetries(3))
	if err != nil {
		return fmt.Errorf("failed to create actor system: %w", err)
	}
	if err := system.Start(ctx); err != nil {
		return fmt.Errorf("failed to start actor system: %w", err)
	}
	defer func() { _ = system.Stop(context.Background()) }()

	opts := []world.Option{world.WithPopulation(), world.WithGrid(cfg.ShowGrid)}
	if listen != "" {
		hub := broadcast.NewHub(logger)
		opts = append(opts, world.WithSink(hub))
		go func() {
			if err := hub.ListenAndServe(ctx, listen); err != nil {
				logger.Errorf("%v", err)
			}
		}()
	}

	var snapshotCh chan *simulation.Snapshot
	if !headless {
		snapshotCh = make(chan *simulation.Snapshot, 10) // Buffer to avoid blocking
	}
	worldPID, err := system.Spawn(ctx, "world", world.New(state, snapshotCh, opts...))
	if err != nil {
		return fmt.Errorf("failed to spawn world: %w", err)
	}

	if !headless {
		return game.New(ctx, cfg, worldPID, snapshotCh, logger).Run()
	}
	return runHeadless(ctx, logger, worldPID, frames, tps)
}

// runHeadless ticks the world at a fixed rate and logs a report every second.
func runHeadless(ctx context.Context, logger golog.Logger, worldPID *actor.PID, frames, tps int) error {
	if tps <= 0 {
		return fmt.Errorf("tps must be > 0, got %d", tps)
	}
	period := time.Second / time.Duration(tps)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for n := 1; frames == 0 || n <= frames; n++ {
		select {
		case <-ctx.Done():
			logger.Info("interrupted")
			return report(logger, worldPID)
		case <-ticker.C:
		}
		if err := actor.Tell(ctx, worldPID, world.Tick(period)); err != nil {
			return fmt.Errorf("tick %d: %w", n, err)
		}
		if n%tps == 0 {
			if err := report(logger, worldPID); err != nil {
				return err
			}
		}
	}
	return report(logger, worldPID)
}

func report(logger golog.Logger, worldPID *actor.PID) error {
	reply, err := actor.Ask(context.Background(), worldPID, world.Op(world.OpStats), 2*time.Second)
	if err != nil {
		return fmt.Errorf("stats request failed: %w", err)
	}
	st, ok := reply.(*structpb.Struct)
	if !ok {
		return fmt.Errorf("unexpected stats reply %T", reply)
	}
	r, err := world.ParseReport(st)
	if err != nil {
		return err
	}
	logger.Infof("%s fps=%.1f avg=%.1f fingerprint=%s", r.Stats, r.FPS, r.FPSAverage, r.Fingerprint)
	return nil
}
