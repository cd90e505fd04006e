package simulation

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/lao-tseu-is-alive/go-disc-simulation/pkg/geometry"
)

// DiscView is the read-only copy of a disc handed to renderers.
type DiscView struct {
	ID       string            `json:"id"`
	Center   geometry.Vector2D `json:"center"`
	Radius   float64           `json:"radius"`
	Velocity geometry.Vector2D `json:"velocity"`
}

// SourceView is the read-only copy of a field source.
type SourceView struct {
	ID     string            `json:"id"`
	Center geometry.Vector2D `json:"center"`
	Radius float64           `json:"radius"`
	Power  float64           `json:"power"`
}

// Snapshot is a detached copy of the world after a step. It shares no memory
// with the State it was taken from.
type Snapshot struct {
	Width   float64         `json:"width"`
	Height  float64         `json:"height"`
	Discs   []DiscView      `json:"discs"`
	Sources []SourceView    `json:"sources"`
	Grid    []geometry.Rect `json:"grid,omitempty"`
	Stats   Stats           `json:"stats"`
}

// Snapshot copies the current world. The quadtree cells are only copied when
// withGrid is set, they are only useful to draw the debug grid.
func (s *State) Snapshot(withGrid bool) *Snapshot {
	snap := &Snapshot{
		Width:   s.cfg.WorldWidth,
		Height:  s.cfg.WorldHeight,
		Discs:   make([]DiscView, len(s.discs)),
		Sources: make([]SourceView, len(s.sources)),
		Stats:   s.lastStats,
	}
	for i, d := range s.discs {
		snap.Discs[i] = DiscView{ID: d.ID, Center: d.Center, Radius: d.Radius, Velocity: d.Velocity}
	}
	for i, src := range s.sources {
		snap.Sources[i] = SourceView{ID: src.ID, Center: src.Center, Radius: src.Radius, Power: src.Power}
	}
	if withGrid {
		snap.Grid = s.tree.Grid()
	}
	return snap
}

// Fingerprint hashes the body geometry in list order. Two runs with the same
// seed and inputs give the same fingerprint on the same platform. IDs are
// left out since they are random.
func (sn *Snapshot) Fingerprint() uint64 {
	h := xxhash.New()
	buf := make([]byte, 0, 64)
	put := func(vs ...float64) {
		buf = buf[:0]
		for _, v := range vs {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
		}
		_, _ = h.Write(buf)
	}
	for _, d := range sn.Discs {
		put(d.Center.X, d.Center.Y, d.Radius, d.Velocity.X, d.Velocity.Y)
	}
	for _, src := range sn.Sources {
		put(src.Center.X, src.Center.Y, src.Radius, src.Power)
	}
	return h.Sum64()
}

// Ring is one of the concentric circles a source is drawn with.
type Ring struct {
	Radius float64
	Shade  uint8 // grey level, darker toward the center
}

// Rings spreads 3*power circles over the source radius with gaps growing
// quadratically outward (gap_k = a*k^2 + 2), so stronger sources show more,
// tighter rings. The outermost ring sits on the radius.
func (v SourceView) Rings() []Ring {
	const b = 2.0
	n := max(1, int(3*v.Power))
	sumSq := float64(n*(n+1)*(2*n+1)) / 6
	a := max(0, (v.Radius-b*float64(n))/sumSq)

	rings := make([]Ring, n)
	r := 0.0
	for k := 1; k <= n; k++ {
		r = min(r+a*float64(k*k)+b, v.Radius)
		if k == n {
			r = v.Radius
		}
		shade := 255 - 255*0.75*(1-r/v.Radius) + 20
		rings[k-1] = Ring{Radius: r, Shade: uint8(max(0, min(255, shade)))}
	}
	return rings
}
