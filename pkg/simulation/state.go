// Package simulation drives the disc world one frame at a time: it owns the
// bodies, the quadtree used as broad phase and the random generators, and
// exposes detached snapshots for whoever draws or streams the world.
package simulation

import (
	"fmt"
	"math/rand/v2"
	"time"

	golog "github.com/tochemey/goakt/v3/log"

	"github.com/lao-tseu-is-alive/go-disc-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-disc-simulation/pkg/physics"
	"github.com/lao-tseu-is-alive/go-disc-simulation/pkg/quadtree"
)

// State is the whole simulated world. It has a single owner: nothing here is
// safe for concurrent use, and bodies must only be added or removed between
// two calls to Step.
type State struct {
	cfg     *Config
	discs   []*physics.Disc
	sources []*physics.FieldSource
	tree    *quadtree.Tree
	rng     *rand.Rand
	logger  golog.Logger

	frame     uint64
	lastStats Stats
	meter     *FrameMeter
}

// Option configures a State.
type Option func(*State)

// WithLogger sets the logger, golog.DiscardLogger by default.
func WithLogger(l golog.Logger) Option {
	return func(s *State) { s.logger = l }
}

// WithRand replaces the random source built from Config.Seed.
func WithRand(r *rand.Rand) Option {
	return func(s *State) { s.rng = r }
}

// NewState builds an empty world (no bodies) from cfg.
func NewState(cfg *Config, opts ...Option) (*State, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	tree, err := quadtree.New(
		geometry.NewRect(0, 0, cfg.WorldWidth, cfg.WorldHeight),
		quadtree.WithMaxChildren(cfg.MaxChildren),
		quadtree.WithMaxDepth(cfg.MaxDepth),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build quadtree: %w", err)
	}
	s := &State{
		cfg:    cfg,
		tree:   tree,
		logger: golog.DiscardLogger,
		meter:  NewFrameMeter(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
	return s, nil
}

// Populate adds the random initial population described by the config.
func (s *State) Populate() error {
	nDiscs := s.randCount(s.cfg.InitialDiscs)
	for i := 0; i < nDiscs; i++ {
		if _, err := s.AddRandomDisc(); err != nil {
			return err
		}
	}
	nSources := s.randCount(s.cfg.InitialSources)
	for i := 0; i < nSources; i++ {
		if _, err := s.AddRandomSource(); err != nil {
			return err
		}
	}
	s.logger.Infof("world populated with %d discs and %d sources", nDiscs, nSources)
	return nil
}

func (s *State) Config() *Config { return s.cfg }

// Discs returns the live disc list in step order. Callers must not keep it
// across a mutation.
func (s *State) Discs() []*physics.Disc { return s.discs }

// Sources returns the live source list.
func (s *State) Sources() []*physics.FieldSource { return s.sources }

// Tree gives read access to the index as left by the last step.
func (s *State) Tree() *quadtree.Tree { return s.tree }

// Frame is the number of completed steps.
func (s *State) Frame() uint64 { return s.frame }

// LastStats returns the stats of the last completed step.
func (s *State) LastStats() Stats { return s.lastStats }

// Meter is the frame timing meter fed by the driving loop.
func (s *State) Meter() *FrameMeter { return s.meter }

// AddDisc validates and appends a disc.
func (s *State) AddDisc(center geometry.Vector2D, radius float64, velocity geometry.Vector2D) (*physics.Disc, error) {
	d, err := physics.NewDisc(center, radius, velocity)
	if err != nil {
		return nil, err
	}
	s.discs = append(s.discs, d)
	s.logger.Debugf("added %s", d)
	return d, nil
}

// AddSource validates and appends a field source using the configured G.
func (s *State) AddSource(center geometry.Vector2D, radius, power float64) (*physics.FieldSource, error) {
	src, err := physics.NewFieldSource(center, radius, power)
	if err != nil {
		return nil, err
	}
	src.G = s.cfg.G
	s.sources = append(s.sources, src)
	s.logger.Debugf("added %s", src)
	return src, nil
}

// AddPlacedSource adds a source the way a user places one: the radius is
// capped at MaxPlacedSourceRadius and the power follows from the radius.
func (s *State) AddPlacedSource(center geometry.Vector2D, radius float64) (*physics.FieldSource, error) {
	radius = min(radius, s.cfg.MaxPlacedSourceRadius)
	return s.AddSource(center, radius, radius/s.cfg.RadiusPerPower)
}

// AddRandomDisc adds a disc fully inside the walls with a random velocity.
func (s *State) AddRandomDisc() (*physics.Disc, error) {
	r := s.randIn(s.cfg.DiscRadius)
	center := geometry.Vector2D{
		X: s.rng.Float64()*(s.cfg.WorldWidth-2*r) + r,
		Y: s.rng.Float64()*(s.cfg.WorldHeight-2*r) + r,
	}
	speed := s.cfg.DiscSpeed
	velocity := geometry.Vector2D{
		X: s.rng.Float64()*2*speed - speed,
		Y: s.rng.Float64()*2*speed - speed,
	}
	return s.AddDisc(center, r, velocity)
}

// AddRandomSource adds a source; when the world is smaller than the source
// the center falls back to the middle of the world.
func (s *State) AddRandomSource() (*physics.FieldSource, error) {
	r := s.randIn(s.cfg.SourceRadius)
	center := geometry.Vector2D{
		X: s.randCoord(s.cfg.WorldWidth, r),
		Y: s.randCoord(s.cfg.WorldHeight, r),
	}
	return s.AddSource(center, r, s.randIn(s.cfg.SourcePower))
}

// RemoveRandomDisc drops one disc picked at random, it returns nil when there
// is none.
func (s *State) RemoveRandomDisc() *physics.Disc {
	if len(s.discs) == 0 {
		return nil
	}
	i := s.rng.IntN(len(s.discs))
	d := s.discs[i]
	s.discs = append(s.discs[:i], s.discs[i+1:]...)
	s.logger.Debugf("removed %s", d)
	return d
}

// Clear removes every disc and source.
func (s *State) Clear() {
	s.logger.Infof("clearing %d discs and %d sources", len(s.discs), len(s.sources))
	s.discs = nil
	s.sources = nil
	s.tree.Clear()
}

func (s *State) randIn(r Range) float64 {
	return r.Min + s.rng.Float64()*(r.Max-r.Min)
}

func (s *State) randCount(r IntRange) int {
	return r.Min + s.rng.IntN(r.Max-r.Min+1)
}

func (s *State) randCoord(limit, r float64) float64 {
	if limit <= 2*r {
		return limit / 2
	}
	return s.rng.Float64()*(limit-2*r) + r
}
