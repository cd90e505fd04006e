package quadtree

import "github.com/lao-tseu-is-alive/go-disc-simulation/pkg/geometry"

// quadrant indexes of Node.children
const (
	topLeft = iota
	topRight
	bottomLeft
	bottomRight
	parentBucket
)

// Node is one region of the tree. A node with children only keeps the items
// that do not fit inside a single quadrant.
type Node struct {
	bounds   geometry.Rect
	depth    int
	children []*Node
	items    []Item
}

func newNode(bounds geometry.Rect, depth int) *Node {
	return &Node{bounds: bounds, depth: depth}
}

func (n *Node) Bounds() geometry.Rect { return n.bounds }

func (n *Node) Depth() int { return n.depth }

// Children returns nil for a leaf, otherwise the four quadrants in the order
// top-left, top-right, bottom-left, bottom-right.
func (n *Node) Children() []*Node { return n.children }

// Items returns the items held at this node (not its descendants).
func (n *Node) Items() []Item { return n.items }

func (n *Node) IsLeaf() bool { return len(n.children) == 0 }

func (n *Node) insert(it Item, b geometry.Rect, t *Tree) {
	if !n.IsLeaf() {
		q := n.quadrantFor(b)
		if q == parentBucket {
			n.items = append(n.items, it)
			return
		}
		n.children[q].insert(it, b, t)
		return
	}

	n.items = append(n.items, it)
	if len(n.items) > t.maxChildren && n.depth < t.maxDepth {
		n.divide(t)
	}
}

// quadrantFor picks the single child that fully holds b. Touching a split
// line is not fitting, the item then stays in the parent bucket.
func (n *Node) quadrantFor(b geometry.Rect) int {
	midX := n.bounds.X + n.bounds.W/2
	midY := n.bounds.Y + n.bounds.H/2

	if !n.bounds.Contains(b) {
		return parentBucket
	}

	var left bool
	switch {
	case b.MaxX() < midX:
		left = true
	case b.X > midX:
		left = false
	default:
		return parentBucket
	}

	switch {
	case b.MaxY() < midY:
		if left {
			return topLeft
		}
		return topRight
	case b.Y > midY:
		if left {
			return bottomLeft
		}
		return bottomRight
	}
	return parentBucket
}

func (n *Node) divide(t *Tree) {
	w := n.bounds.W / 2
	h := n.bounds.H / 2
	x, y := n.bounds.X, n.bounds.Y
	depth := n.depth + 1

	n.children = []*Node{
		topLeft:     newNode(geometry.NewRect(x, y, w, h), depth),
		topRight:    newNode(geometry.NewRect(x+w, y, w, h), depth),
		bottomLeft:  newNode(geometry.NewRect(x, y+h, w, h), depth),
		bottomRight: newNode(geometry.NewRect(x+w, y+h, w, h), depth),
	}

	held := n.items
	n.items = nil
	for _, it := range held {
		n.insert(it, it.Bounds(), t)
	}
}

// retrieve appends this node's items, then descends into every quadrant whose
// half-plane overlaps q. A query touching a split line visits both sides.
func (n *Node) retrieve(q geometry.Rect, out *[]Item) {
	*out = append(*out, n.items...)
	if n.IsLeaf() {
		return
	}

	midX := n.bounds.X + n.bounds.W/2
	midY := n.bounds.Y + n.bounds.H/2
	top := q.Y <= midY
	bottom := q.MaxY() >= midY

	if q.X <= midX {
		if top {
			n.children[topLeft].retrieve(q, out)
		}
		if bottom {
			n.children[bottomLeft].retrieve(q, out)
		}
	}
	if q.MaxX() >= midX {
		if top {
			n.children[topRight].retrieve(q, out)
		}
		if bottom {
			n.children[bottomRight].retrieve(q, out)
		}
	}
}

func (n *Node) clear() {
	for _, c := range n.children {
		c.clear()
	}
	n.children = nil
	clear(n.items)
	n.items = n.items[:0]
}

func (n *Node) walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.walk(fn)
	}
}
