package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Widget is anything the panel can stack vertically.
type Widget interface {
	Update()
	Draw(screen *ebiten.Image)
	Height() float64
	SetY(y float64)
}

const (
	titleHeight   = 25.0
	sectionHeight = 25.0
	labelHeight   = 15.0
	margin        = 10.0
)

type entry struct {
	widget Widget
	label  string // drawn above the widget, empty for none
}

// PanelSection groups widgets under a header that collapses on click.
type PanelSection struct {
	Title     string
	entries   []entry
	Collapsed bool
}

// UIPanel is a collapsible column of widgets drawn over the world.
type UIPanel struct {
	Title         string
	X, Y          float64
	Width         float64
	BGColor       color.RGBA
	BorderColor   color.RGBA
	SectionColor  color.RGBA
	Hidden        bool
	sections      []*PanelSection
	contentHeight float64
}

// NewUIPanel creates a new UI panel
func NewUIPanel(title string, x, y, width float64) *UIPanel {
	return &UIPanel{
		Title:        title,
		X:            x,
		Y:            y,
		Width:        width,
		BGColor:      color.RGBA{R: 40, G: 40, B: 45, A: 210},
		BorderColor:  color.RGBA{R: 100, G: 100, B: 110, A: 255},
		SectionColor: color.RGBA{R: 60, G: 60, B: 70, A: 255},
	}
}

// AddSection starts a new section, following Add* calls fill it.
func (p *UIPanel) AddSection(title string) *PanelSection {
	s := &PanelSection{Title: title}
	p.sections = append(p.sections, s)
	return s
}

func (p *UIPanel) current() *PanelSection {
	if len(p.sections) == 0 {
		return p.AddSection("")
	}
	return p.sections[len(p.sections)-1]
}

func (p *UIPanel) add(w Widget, label string) {
	s := p.current()
	s.entries = append(s.entries, entry{widget: w, label: label})
	p.layout()
}

// AddSlider adds a labelled slider.
func (p *UIPanel) AddSlider(label string, min, max, step, value float64) *Slider {
	s := NewSlider(p.X+margin, 0, p.Width-2*margin, label, min, max, value)
	s.Step = step
	s.Set(value)
	p.add(s, label)
	return s
}

// AddCheckbox adds a checkbox, its label is drawn next to the box.
func (p *UIPanel) AddCheckbox(label string, value bool, onChange func(bool)) *Checkbox {
	c := NewCheckbox(p.X+margin, 0, label, value)
	c.OnChange = onChange
	p.add(c, "")
	return c
}

// AddButton adds a full width button.
func (p *UIPanel) AddButton(label string, onClick func()) *Button {
	b := NewButton(p.X+margin, 0, p.Width-2*margin, 20, label, onClick)
	p.add(b, "")
	return b
}

// layout places every visible widget and computes the panel height.
func (p *UIPanel) layout() {
	y := p.Y + titleHeight
	for _, s := range p.sections {
		if s.Title != "" {
			y += sectionHeight
		}
		if s.Collapsed {
			continue
		}
		for _, e := range s.entries {
			if e.label != "" {
				y += labelHeight
			}
			e.widget.SetY(y)
			y += e.widget.Height()
		}
	}
	p.contentHeight = y - p.Y + margin/2
}

// Height is the current height of the panel, title included.
func (p *UIPanel) Height() float64 {
	if p.Hidden {
		return titleHeight
	}
	return p.contentHeight
}

// Contains reports whether the screen point lies over the panel, so world
// clicks can be ignored there.
func (p *UIPanel) Contains(x, y int) bool {
	fx, fy := float64(x), float64(y)
	return fx >= p.X && fx <= p.X+p.Width && fy >= p.Y && fy <= p.Y+p.Height()
}

// Update handles header clicks and forwards input to visible widgets.
func (p *UIPanel) Update() {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		if p.headerHit(mx, my, p.Y, titleHeight) {
			p.Hidden = !p.Hidden
			return
		}
		if !p.Hidden {
			y := p.Y + titleHeight
			for _, s := range p.sections {
				if s.Title != "" {
					if p.headerHit(mx, my, y, sectionHeight) {
						s.Collapsed = !s.Collapsed
						p.layout()
						return
					}
					y += sectionHeight
				}
				if !s.Collapsed {
					for _, e := range s.entries {
						if e.label != "" {
							y += labelHeight
						}
						y += e.widget.Height()
					}
				}
			}
		}
	}
	if p.Hidden {
		return
	}
	for _, s := range p.sections {
		if s.Collapsed {
			continue
		}
		for _, e := range s.entries {
			e.widget.Update()
		}
	}
}

func (p *UIPanel) headerHit(mx, my int, top, h float64) bool {
	fx, fy := float64(mx), float64(my)
	return fx >= p.X && fx <= p.X+p.Width && fy >= top && fy < top+h
}

func (p *UIPanel) Draw(screen *ebiten.Image) {
	h := p.Height()
	vector.FillRect(screen, float32(p.X), float32(p.Y), float32(p.Width), float32(h), p.BGColor, true)
	vector.StrokeRect(screen, float32(p.X), float32(p.Y), float32(p.Width), float32(h), 2, p.BorderColor, true)

	marker := "[-] "
	if p.Hidden {
		marker = "[+] "
	}
	ebitenutil.DebugPrintAt(screen, marker+p.Title, int(p.X+margin), int(p.Y+5))
	if p.Hidden {
		return
	}

	y := p.Y + titleHeight
	for _, s := range p.sections {
		if s.Title != "" {
			vector.FillRect(screen, float32(p.X+5), float32(y), float32(p.Width-10), 20, p.SectionColor, true)
			marker := "- "
			if s.Collapsed {
				marker = "+ "
			}
			ebitenutil.DebugPrintAt(screen, marker+s.Title, int(p.X+margin), int(y+2))
			y += sectionHeight
		}
		if s.Collapsed {
			continue
		}
		for _, e := range s.entries {
			if e.label != "" {
				ebitenutil.DebugPrintAt(screen, e.label, int(p.X+margin), int(y-2))
				y += labelHeight
			}
			e.widget.Draw(screen)
			if c, ok := e.widget.(*Checkbox); ok {
				ebitenutil.DebugPrintAt(screen, c.Label, int(c.X+c.Size+8), int(c.Y))
			}
			y += e.widget.Height()
		}
	}
}
