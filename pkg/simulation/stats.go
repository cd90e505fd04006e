package simulation

import (
	"fmt"
	"time"
)

// Stats summarises one step.
type Stats struct {
	Frame      uint64  `json:"frame"`
	Discs      int     `json:"discs"`
	Sources    int     `json:"sources"`
	Checks     int     `json:"checks"`     // candidate pairs the quadtree let through
	SlowChecks int     `json:"slowChecks"` // N(N-1), what all-pairs testing would cost
	Collisions int     `json:"collisions"`
	FieldHits  int     `json:"fieldHits"`
	Energy     float64 `json:"energy"` // sum of |v|^2
}

func (s Stats) String() string {
	return fmt.Sprintf("frame=%d discs=%d sources=%d checks=%d/%d collisions=%d fieldHits=%d |E|=%.2f",
		s.Frame, s.Discs, s.Sources, s.Checks, s.SlowChecks, s.Collisions, s.FieldHits, s.Energy)
}

// FrameWindow is the number of frames averaged by FrameMeter.
const FrameWindow = 100

// FrameMeter turns frame durations into an instant and a windowed FPS.
type FrameMeter struct {
	samples [FrameWindow]float64
	next    int
	filled  int
	sum     float64
	last    float64
}

func NewFrameMeter() *FrameMeter {
	return &FrameMeter{}
}

// Observe records the duration of one frame. Non-positive durations are
// ignored.
func (m *FrameMeter) Observe(dt time.Duration) {
	if dt <= 0 {
		return
	}
	fps := float64(time.Second) / float64(dt)
	m.sum -= m.samples[m.next]
	m.samples[m.next] = fps
	m.sum += fps
	m.next = (m.next + 1) % FrameWindow
	if m.filled < FrameWindow {
		m.filled++
	}
	m.last = fps
}

// FPS is the rate of the last observed frame.
func (m *FrameMeter) FPS() float64 { return m.last }

// Average is the mean FPS over the last FrameWindow frames.
func (m *FrameMeter) Average() float64 {
	if m.filled == 0 {
		return 0
	}
	return m.sum / float64(m.filled)
}

// Samples reports how many frames the average covers.
func (m *FrameMeter) Samples() int { return m.filled }
