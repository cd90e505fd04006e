// Package world hosts the simulation inside a goakt actor. The actor is the
// single owner of the simulation state: ticks and edits arrive as mailbox
// messages, so bodies are only ever added or removed between two steps.
package world

import (
	"time"

	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lao-tseu-is-alive/go-disc-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-disc-simulation/pkg/simulation"
)

// Sink receives every snapshot. Publish must not block the actor.
type Sink interface {
	Publish(snap *simulation.Snapshot)
}

// Actor runs the simulation step on each tick and pushes snapshots out.
type Actor struct {
	state *simulation.State
	// Communication with UI
	snapshotCh chan<- *simulation.Snapshot
	sinks      []Sink
	populate   bool
	showGrid   bool

	// --- Benchmark Stats ---
	ticks       int
	checks      int
	collisions  int
	lastLogTime time.Time
}

// Option configures an Actor.
type Option func(*Actor)

// WithSink adds a snapshot consumer next to the UI channel.
func WithSink(s Sink) Option {
	return func(a *Actor) { a.sinks = append(a.sinks, s) }
}

// WithPopulation spawns the random initial population when the actor starts.
func WithPopulation() Option {
	return func(a *Actor) { a.populate = true }
}

// WithGrid makes snapshots carry the quadtree cells.
func WithGrid(on bool) Option {
	return func(a *Actor) { a.showGrid = on }
}

// New creates the world actor around state. snapshotCh may be nil when no UI
// is attached; sends on it never block.
func New(state *simulation.State, snapshotCh chan<- *simulation.Snapshot, opts ...Option) *Actor {
	a := &Actor{
		state:       state,
		snapshotCh:  snapshotCh,
		lastLogTime: time.Now(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Actor) PreStart(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Infof("World is starting: %.0fx%.0f",
		a.state.Config().WorldWidth, a.state.Config().WorldHeight)
	return nil
}

func (a *Actor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *goaktpb.PostStart:
		if a.populate {
			if err := a.state.Populate(); err != nil {
				ctx.Logger().Errorf("failed to populate world: %v", err)
			}
		}
		ctx.Logger().Infof("World started with %d discs and %d sources",
			len(a.state.Discs()), len(a.state.Sources()))

	case *durationpb.Duration:
		a.state.Meter().Observe(msg.AsDuration())
		stats, err := a.state.Step(ctx.Context())
		if err != nil {
			ctx.Logger().Errorf("step %d failed: %v", a.state.Frame()+1, err)
			return
		}
		a.ticks++
		a.checks += stats.Checks
		a.collisions += stats.Collisions
		a.logBenchmarks(ctx, stats)
		a.pushSnapshot()

	case *structpb.Struct:
		a.handleCommand(ctx, msg)

	default:
		ctx.Unhandled()
	}
}

func (a *Actor) handleCommand(ctx *actor.ReceiveContext, cmd *structpb.Struct) {
	f := cmd.GetFields()
	num := func(k string) float64 { return f[k].GetNumberValue() }
	at := func() geometry.Vector2D { return geometry.NewVector(num("x"), num("y")) }

	var err error
	switch op := f["op"].GetStringValue(); op {
	case OpAddDisc:
		_, err = a.state.AddDisc(at(), num("radius"), geometry.NewVector(num("vx"), num("vy")))
	case OpAddSource:
		_, err = a.state.AddSource(at(), num("radius"), num("power"))
	case OpPlaceSource:
		_, err = a.state.AddPlacedSource(at(), num("radius"))
	case OpAddRandomDisc:
		_, err = a.state.AddRandomDisc()
	case OpAddRandomSource:
		_, err = a.state.AddRandomSource()
	case OpRemoveRandomDisc:
		a.state.RemoveRandomDisc()
	case OpClear:
		a.state.Clear()
	case OpShowGrid:
		a.showGrid = f["on"].GetBoolValue()
	case OpStats:
		st := a.state.LastStats()
		st.Discs = len(a.state.Discs())
		st.Sources = len(a.state.Sources())
		ctx.Response(statsReply(st, a.state.Meter(), a.state.Snapshot(false).Fingerprint()))
	default:
		ctx.Logger().Warnf("unknown world command %q ignored", op)
	}
	if err != nil {
		ctx.Logger().Warnf("command %s rejected: %v", f["op"].GetStringValue(), err)
	}
}

func (a *Actor) logBenchmarks(ctx *actor.ReceiveContext, last simulation.Stats) {
	if time.Since(a.lastLogTime) >= time.Second {
		ctx.Logger().Infof("📊 TICK RATE: %d/sec | discs: %d | checks: %d (all-pairs %d) | collisions: %d | |E|=%.2f",
			a.ticks, last.Discs, a.checks, last.SlowChecks, a.collisions, last.Energy)
		a.ticks = 0
		a.checks = 0
		a.collisions = 0
		a.lastLogTime = time.Now()
	}
}

func (a *Actor) pushSnapshot() {
	snap := a.state.Snapshot(a.showGrid)
	if a.snapshotCh != nil {
		select {
		case a.snapshotCh <- snap:
		default:
			// UI busy, skip frame
		}
	}
	for _, s := range a.sinks {
		s.Publish(snap)
	}
}

func (a *Actor) PostStop(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Infof("World stopped after %d frames", a.state.Frame())
	return nil
}
