// Package physics holds the two kinds of bodies of the simulation and the rules
// acting on them: swept disc/disc collisions, wall bounces and radial fields.
package physics

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/lao-tseu-is-alive/go-disc-simulation/pkg/geometry"
)

// DefaultG is the field constant every source starts with.
const DefaultG = 0.5

var (
	ErrInvalidRadius = errors.New("radius must be a finite value > 0")
	ErrInvalidPower  = errors.New("power must be a finite value > 0")
	ErrInvalidVector = errors.New("vector components must be finite")
)

// Disc is a moving circular body. Its bounding box is derived from Center and
// Radius each time it is asked for, so it always matches the current position.
type Disc struct {
	ID       string
	Center   geometry.Vector2D
	Radius   float64
	Velocity geometry.Vector2D
}

// NewDisc validates and builds a disc.
func NewDisc(center geometry.Vector2D, radius float64, velocity geometry.Vector2D) (*Disc, error) {
	if !validLength(radius) {
		return nil, fmt.Errorf("disc: %w (got %v)", ErrInvalidRadius, radius)
	}
	if !center.IsFinite() || !velocity.IsFinite() {
		return nil, fmt.Errorf("disc: %w (center %v, velocity %v)", ErrInvalidVector, center, velocity)
	}
	return &Disc{
		ID:       uuid.NewString(),
		Center:   center,
		Radius:   radius,
		Velocity: velocity,
	}, nil
}

// Bounds implements quadtree.Item.
func (d *Disc) Bounds() geometry.Rect {
	return geometry.RectAround(d.Center, d.Radius)
}

// SameAs is the simulation's notion of identity: two discs sharing a center
// are treated as the same body.
func (d *Disc) SameAs(other *Disc) bool {
	return d.Center.X == other.Center.X && d.Center.Y == other.Center.Y
}

// Energy is the kinetic-energy-like quantity |v|^2 (no mass involved).
func (d *Disc) Energy() float64 {
	return d.Velocity.LenSqr()
}

// Advance moves the disc by one frame of free motion inside a width x height
// world. Each axis is handled on its own: when the next position would put the
// rim on or past a wall, that velocity component flips and the disc does not
// move along that axis this frame.
func (d *Disc) Advance(width, height float64) {
	d.Center.X, d.Velocity.X = bounceAxis(d.Center.X, d.Velocity.X, d.Radius, width)
	d.Center.Y, d.Velocity.Y = bounceAxis(d.Center.Y, d.Velocity.Y, d.Radius, height)
}

func bounceAxis(pos, vel, radius, limit float64) (float64, float64) {
	next := pos + vel
	if next <= radius || next >= limit-radius {
		return pos, -vel
	}
	return next, vel
}

func (d *Disc) String() string {
	return fmt.Sprintf("disc %s c=%s r=%.2f v=%s", shortID(d.ID), d.Center, d.Radius, d.Velocity)
}

// FieldSource is a stationary circular region pulling discs toward its center.
// Its bounding box is computed once, at creation.
type FieldSource struct {
	ID     string
	Center geometry.Vector2D
	Radius float64
	Power  float64
	G      float64

	bounds geometry.Rect
}

// NewFieldSource validates and builds a source with G = DefaultG.
func NewFieldSource(center geometry.Vector2D, radius, power float64) (*FieldSource, error) {
	if !validLength(radius) {
		return nil, fmt.Errorf("field source: %w (got %v)", ErrInvalidRadius, radius)
	}
	if !validLength(power) {
		return nil, fmt.Errorf("field source: %w (got %v)", ErrInvalidPower, power)
	}
	if !center.IsFinite() {
		return nil, fmt.Errorf("field source: %w (center %v)", ErrInvalidVector, center)
	}
	return &FieldSource{
		ID:     uuid.NewString(),
		Center: center,
		Radius: radius,
		Power:  power,
		G:      DefaultG,
		bounds: geometry.RectAround(center, radius),
	}, nil
}

// Bounds implements quadtree.Item.
func (s *FieldSource) Bounds() geometry.Rect {
	return s.bounds
}

func (s *FieldSource) String() string {
	return fmt.Sprintf("source %s c=%s r=%.2f p=%.2f", shortID(s.ID), s.Center, s.Radius, s.Power)
}

func validLength(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
