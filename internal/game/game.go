// Package game is the ebiten front end: it drives the world actor with one or
// more ticks per frame, draws the latest snapshot and turns mouse and keyboard
// input into world commands.
package game

import (
	"context"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/proto"

	"github.com/lao-tseu-is-alive/go-disc-simulation/internal/world"
	"github.com/lao-tseu-is-alive/go-disc-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-disc-simulation/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-disc-simulation/pkg/ui"
)

type Game struct {
	ctx        context.Context
	worldPID   *actor.PID
	snapshotCh <-chan *simulation.Snapshot
	last       *simulation.Snapshot
	cfg        *simulation.Config
	logger     golog.Logger

	// UI Controls
	panel    *ui.UIPanel
	speed    *ui.Slider
	gridBox  *ui.Checkbox
	statsBox *ui.Checkbox
	discMode *ui.Checkbox

	// source placement, the preview ring eases toward the dragged radius
	placing bool
	anchor  geometry.Vector2D
	target  float64
	shown   float64
	ring    *gween.Tween

	meter     *simulation.FrameMeter
	lastFrame time.Time
}

// New builds the front end for an already spawned world actor.
func New(ctx context.Context, cfg *simulation.Config, worldPID *actor.PID, snapshotCh <-chan *simulation.Snapshot, logger golog.Logger) *Game {
	g := &Game{
		ctx:        ctx,
		worldPID:   worldPID,
		snapshotCh: snapshotCh,
		last:       &simulation.Snapshot{Width: cfg.WorldWidth, Height: cfg.WorldHeight},
		cfg:        cfg,
		logger:     logger,
		meter:      simulation.NewFrameMeter(),
		lastFrame:  time.Now(),
	}
	g.buildPanel()
	return g
}

func (g *Game) buildPanel() {
	p := ui.NewUIPanel("Disc Simulation", 10, 10, 190)

	p.AddSection("World")
	p.AddButton("Clear", func() { g.tell(world.Op(world.OpClear)) })
	p.AddButton("Add Disc", func() { g.tell(world.Op(world.OpAddRandomDisc)) })
	p.AddButton("Add Source", func() { g.tell(world.Op(world.OpAddRandomSource)) })
	p.AddButton("Remove Disc", func() { g.tell(world.Op(world.OpRemoveRandomDisc)) })

	p.AddSection("View")
	g.gridBox = p.AddCheckbox("Show Grid", g.cfg.ShowGrid, func(on bool) { g.tell(world.ShowGrid(on)) })
	g.statsBox = p.AddCheckbox("Show Stats", g.cfg.ShowStats, nil)
	g.discMode = p.AddCheckbox("Disc Mode", false, nil)

	p.AddSection("Speed")
	g.speed = p.AddSlider("Steps per frame", 0, 5, 1, 1)

	g.panel = p
}

func (g *Game) tell(msg proto.Message) {
	if err := actor.Tell(g.ctx, g.worldPID, msg); err != nil {
		g.logger.Warnf("failed to send %T to world: %v", msg, err)
	}
}

func (g *Game) Update() error {
	now := time.Now()
	dt := now.Sub(g.lastFrame)
	g.lastFrame = now
	g.meter.Observe(dt)

	// 1. Widgets first, they own the clicks that land on the panel
	g.panel.Update()
	g.handleKeys()
	g.handleMouse()
	g.animateRing(dt)

	// 2. Latest snapshot (non-blocking), older ones are dropped
drain:
	for {
		select {
		case snap := <-g.snapshotCh:
			g.last = snap
		default:
			break drain
		}
	}

	// 3. Trigger simulation steps, a zero speed pauses the world
	if steps := g.speed.Int(); steps > 0 {
		tickDt := dt / time.Duration(steps)
		for i := 0; i < steps; i++ {
			g.tell(world.Tick(tickDt))
		}
	}
	return nil
}

func (g *Game) Layout(w, h int) (int, int) {
	return int(g.cfg.WorldWidth), int(g.cfg.WorldHeight)
}

// Run opens the window and blocks until it is closed.
func (g *Game) Run() error {
	ebiten.SetWindowSize(int(g.cfg.WorldWidth), int(g.cfg.WorldHeight))
	ebiten.SetWindowTitle("Disc Simulation")
	return ebiten.RunGame(g)
}
