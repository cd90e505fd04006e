package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/lao-tseu-is-alive/go-disc-simulation/pkg/simulation"
)

var (
	backgroundColor = color.RGBA{R: 250, G: 250, B: 245, A: 255}
	discColor       = color.RGBA{R: 40, G: 90, B: 200, A: 255}
	velocityColor   = color.RGBA{R: 230, G: 120, B: 20, A: 255}
	gridColor       = color.RGBA{R: 210, G: 60, B: 60, A: 160}
	placeColor      = color.RGBA{R: 30, G: 160, B: 90, A: 255}
)

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	snap := g.last

	for _, src := range snap.Sources {
		for _, ring := range src.Rings() {
			vector.StrokeCircle(screen,
				float32(src.Center.X), float32(src.Center.Y), float32(ring.Radius),
				1, color.Gray{Y: ring.Shade}, true)
		}
	}

	for _, d := range snap.Discs {
		vector.FillCircle(screen, float32(d.Center.X), float32(d.Center.Y), float32(d.Radius), discColor, true)
		tip := d.Center.Add(d.Velocity.Mul(3))
		vector.StrokeLine(screen,
			float32(d.Center.X), float32(d.Center.Y), float32(tip.X), float32(tip.Y),
			1, velocityColor, true)
	}

	if g.gridBox.Value {
		for _, r := range snap.Grid {
			vector.StrokeRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), 1, gridColor, true)
		}
	}

	if g.placing && g.shown > 0 {
		vector.StrokeCircle(screen, float32(g.anchor.X), float32(g.anchor.Y), float32(g.shown), 2, placeColor, true)
		label := fmt.Sprintf("r=%.0f p=%.2f", g.target, g.target/g.cfg.RadiusPerPower)
		x, y := float32(g.anchor.X)+6, float32(g.anchor.Y)+6
		vector.FillRect(screen, x, y, float32(len(label)*6+4), 18, color.RGBA{R: 20, G: 20, B: 30, A: 170}, true)
		ebitenutil.DebugPrintAt(screen, label, int(x)+2, int(y))
	}

	g.panel.Draw(screen)

	if g.statsBox.Value {
		g.drawStats(screen, snap.Stats)
	}
}

func (g *Game) drawStats(screen *ebiten.Image, st simulation.Stats) {
	mode := "point"
	if g.discMode.Value {
		mode = "disc"
	}
	msg := fmt.Sprintf(
		"         N: %d\n       FPS: %.1f\n  100F Ave: %.1f\nN^2 Checks: %d\n QT Checks: %d\nCollisions: %d\nField hits: %d\n       |E|: %.2f\n     Frame: %d\n      Mode: %s",
		st.Discs, g.meter.FPS(), g.meter.Average(), st.SlowChecks, st.Checks,
		st.Collisions, st.FieldHits, st.Energy, st.Frame, mode)

	x := int(g.cfg.WorldWidth) - 170
	vector.FillRect(screen, float32(x-6), 6, 166, 168, color.RGBA{R: 20, G: 20, B: 30, A: 170}, true)
	ebitenutil.DebugPrintAt(screen, msg, x, 10)
}
