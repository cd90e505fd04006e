package geometry

import (
	"fmt"
	"math"
)

// Rect is an axis-aligned box anchored at its top-left corner (X, Y).
type Rect struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	W float64 `json:"w" yaml:"w"`
	H float64 `json:"h" yaml:"h"`
}

// NewRect creates a new Rect.
func NewRect(x, y, w, h float64) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// RectAround returns the square box of side 2*radius centered on center.
func RectAround(center Vector2D, radius float64) Rect {
	return Rect{X: center.X - radius, Y: center.Y - radius, W: 2 * radius, H: 2 * radius}
}

func (r Rect) String() string {
	return fmt.Sprintf("[%.2f, %.2f %.2fx%.2f]", r.X, r.Y, r.W, r.H)
}

// MaxX is the right edge.
func (r Rect) MaxX() float64 { return r.X + r.W }

// MaxY is the bottom edge.
func (r Rect) MaxY() float64 { return r.Y + r.H }

// Center returns the middle of the box.
func (r Rect) Center() Vector2D {
	return Vector2D{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Valid reports whether every field is finite and the size is not negative.
func (r Rect) Valid() bool {
	for _, f := range [...]float64{r.X, r.Y, r.W, r.H} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return r.W >= 0 && r.H >= 0
}

// Contains reports whether other lies entirely inside r (edges included).
func (r Rect) Contains(other Rect) bool {
	return other.X >= r.X && other.Y >= r.Y &&
		other.MaxX() <= r.MaxX() && other.MaxY() <= r.MaxY()
}

// Intersects reports whether the two boxes overlap or touch.
func (r Rect) Intersects(other Rect) bool {
	return other.X <= r.MaxX() && other.MaxX() >= r.X &&
		other.Y <= r.MaxY() && other.MaxY() >= r.Y
}
