// Package quadtree is a region quadtree over axis-aligned boxes, used as the
// broad phase of the disc simulation.
//
// The tree knows nothing about what it stores: an Item only exposes its
// bounding box. It is meant to be cleared and refilled every frame, so there is
// no removal or update of single items. Items that straddle a split line stay
// in the node above (the "parent bucket"), which keeps every query free of
// false negatives at the price of some false positives the caller filters out.
package quadtree

import (
	"errors"
	"fmt"

	"github.com/lao-tseu-is-alive/go-disc-simulation/pkg/geometry"
)

const (
	DefaultMaxChildren = 2
	DefaultMaxDepth    = 4
)

var (
	ErrInvalidBounds   = errors.New("quadtree: invalid root bounds")
	ErrInvalidOptions  = errors.New("quadtree: invalid options")
	ErrMalformedBounds = errors.New("quadtree: item has malformed bounds")
)

// Item is anything with an axis-aligned bounding box.
type Item interface {
	Bounds() geometry.Rect
}

// Option configures a Tree.
type Option func(*Tree)

// WithMaxChildren sets how many items a leaf holds before it divides.
func WithMaxChildren(n int) Option {
	return func(t *Tree) { t.maxChildren = n }
}

// WithMaxDepth sets the depth below which leaves never divide.
func WithMaxDepth(n int) Option {
	return func(t *Tree) { t.maxDepth = n }
}

// Tree is the index. It is not safe for concurrent writers; concurrent
// Retrieve calls are fine while nobody inserts or clears.
type Tree struct {
	root        *Node
	bounds      geometry.Rect
	maxChildren int
	maxDepth    int
	count       int
}

// New creates an empty tree whose root covers bounds.
func New(bounds geometry.Rect, opts ...Option) (*Tree, error) {
	if !bounds.Valid() || bounds.W <= 0 || bounds.H <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidBounds, bounds)
	}
	t := &Tree{
		bounds:      bounds,
		maxChildren: DefaultMaxChildren,
		maxDepth:    DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.maxChildren < 1 || t.maxDepth < 0 {
		return nil, fmt.Errorf("%w: maxChildren=%d maxDepth=%d", ErrInvalidOptions, t.maxChildren, t.maxDepth)
	}
	t.root = newNode(bounds, 0)
	return t, nil
}

// Insert adds items to the tree. It stops at the first item whose bounds are
// malformed; items before it stay inserted.
func (t *Tree) Insert(items ...Item) error {
	for _, it := range items {
		b := it.Bounds()
		if !b.Valid() {
			return fmt.Errorf("%w: %s", ErrMalformedBounds, b)
		}
		if !t.bounds.Contains(b) {
			// outside (even partly) the root: keep it where every query sees it
			t.root.items = append(t.root.items, it)
		} else {
			t.root.insert(it, b, t)
		}
		t.count++
	}
	return nil
}

// Retrieve returns every stored item that may overlap query's bounding box.
// The slice is owned by the caller.
func (t *Tree) Retrieve(query Item) []Item {
	return t.RetrieveRect(query.Bounds())
}

// RetrieveRect is Retrieve for a bare rectangle.
func (t *Tree) RetrieveRect(q geometry.Rect) []Item {
	var out []Item
	t.root.retrieve(q, &out)
	return out
}

// Clear empties the tree back to a single leaf covering the original bounds.
func (t *Tree) Clear() {
	t.root.clear()
	t.count = 0
}

// Len is the number of items stored.
func (t *Tree) Len() int { return t.count }

// Bounds is the region covered by the root.
func (t *Tree) Bounds() geometry.Rect { return t.bounds }

// Root exposes the root node, read-only, for debug drawing.
func (t *Tree) Root() *Node { return t.root }

// Walk visits nodes depth first, parents before children. Returning false from
// fn skips the children of that node.
func (t *Tree) Walk(fn func(n *Node) bool) {
	t.root.walk(fn)
}

// Grid lists the rectangles of every node, root first.
func (t *Tree) Grid() []geometry.Rect {
	var rects []geometry.Rect
	t.Walk(func(n *Node) bool {
		rects = append(rects, n.bounds)
		return true
	})
	return rects
}
