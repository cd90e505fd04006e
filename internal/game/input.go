package game

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/lao-tseu-is-alive/go-disc-simulation/internal/world"
	"github.com/lao-tseu-is-alive/go-disc-simulation/pkg/geometry"
)

const ringEase = 0.12 // seconds for the preview ring to catch up

func (g *Game) handleKeys() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyG):
		g.gridBox.Toggle()
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		g.statsBox.Toggle()
	case inpututil.IsKeyJustPressed(ebiten.KeyD):
		g.discMode.Toggle()
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		g.tell(world.Op(world.OpClear))
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.tell(world.Op(world.OpAddRandomSource))
	case inpututil.IsKeyJustPressed(ebiten.KeyBackspace):
		g.tell(world.Op(world.OpRemoveRandomDisc))
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		if g.speed.Int() > 0 {
			g.speed.Set(0)
		} else {
			g.speed.Set(1)
		}
	}
}

// handleMouse: in disc mode a click adds a random disc; otherwise press and
// drag out the radius of a new source, release to drop it.
func (g *Game) handleMouse() {
	mx, my := ebiten.CursorPosition()
	cursor := geometry.NewVector(float64(mx), float64(my))

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if g.panel.Contains(mx, my) {
			return
		}
		if g.discMode.Value {
			g.tell(world.Op(world.OpAddRandomDisc))
			return
		}
		g.placing = true
		g.anchor = cursor
		g.target, g.shown = 0, 0
		g.ring = nil
		return
	}
	if !g.placing {
		return
	}

	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.placing = false
		g.ring = nil
		if g.target >= 1 {
			g.tell(world.PlaceSource(g.anchor.X, g.anchor.Y, g.target))
		}
		return
	}

	target := min(g.anchor.DistanceTo(cursor), g.cfg.MaxPlacedSourceRadius)
	if target != g.target {
		g.target = target
		g.ring = gween.New(float32(g.shown), float32(target), ringEase, ease.OutCubic)
	}
}

func (g *Game) animateRing(dt time.Duration) {
	if g.ring == nil {
		return
	}
	v, done := g.ring.Update(float32(dt.Seconds()))
	g.shown = float64(v)
	if done {
		g.ring = nil
	}
}
