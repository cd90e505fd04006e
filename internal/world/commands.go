package world

import (
	"errors"
	"fmt"
	"time"

	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lao-tseu-is-alive/go-disc-simulation/pkg/simulation"
)

// Command names carried in the "op" field of a structpb.Struct.
const (
	OpAddDisc          = "add_disc"
	OpAddSource        = "add_source"
	OpPlaceSource      = "place_source"
	OpAddRandomDisc    = "add_random_disc"
	OpAddRandomSource  = "add_random_source"
	OpRemoveRandomDisc = "remove_random_disc"
	OpClear            = "clear"
	OpShowGrid         = "show_grid"
	OpStats            = "stats"
)

// Tick asks the world to run one step; dt is the time since the previous
// frame and feeds the world's frame meter, reported back by OpStats.
func Tick(dt time.Duration) *durationpb.Duration {
	return durationpb.New(dt)
}

// Op builds a command without arguments.
func Op(op string) *structpb.Struct {
	return command(op, nil)
}

func AddDisc(x, y, radius, vx, vy float64) *structpb.Struct {
	return command(OpAddDisc, map[string]float64{"x": x, "y": y, "radius": radius, "vx": vx, "vy": vy})
}

func AddSource(x, y, radius, power float64) *structpb.Struct {
	return command(OpAddSource, map[string]float64{"x": x, "y": y, "radius": radius, "power": power})
}

// PlaceSource adds a source the way the mouse does: the power is derived
// from the (capped) radius.
func PlaceSource(x, y, radius float64) *structpb.Struct {
	return command(OpPlaceSource, map[string]float64{"x": x, "y": y, "radius": radius})
}

func ShowGrid(on bool) *structpb.Struct {
	cmd := command(OpShowGrid, nil)
	cmd.Fields["on"] = structpb.NewBoolValue(on)
	return cmd
}

func command(op string, args map[string]float64) *structpb.Struct {
	fields := make(map[string]*structpb.Value, len(args)+1)
	fields["op"] = structpb.NewStringValue(op)
	for k, v := range args {
		fields[k] = structpb.NewNumberValue(v)
	}
	return &structpb.Struct{Fields: fields}
}

// statsReply encodes the answer to OpStats.
func statsReply(st simulation.Stats, meter *simulation.FrameMeter, fingerprint uint64) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"frame":       structpb.NewNumberValue(float64(st.Frame)),
		"discs":       structpb.NewNumberValue(float64(st.Discs)),
		"sources":     structpb.NewNumberValue(float64(st.Sources)),
		"checks":      structpb.NewNumberValue(float64(st.Checks)),
		"slowChecks":  structpb.NewNumberValue(float64(st.SlowChecks)),
		"collisions":  structpb.NewNumberValue(float64(st.Collisions)),
		"fieldHits":   structpb.NewNumberValue(float64(st.FieldHits)),
		"energy":      structpb.NewNumberValue(st.Energy),
		"fps":         structpb.NewNumberValue(meter.FPS()),
		"fpsAvg":      structpb.NewNumberValue(meter.Average()),
		"fingerprint": structpb.NewStringValue(fmt.Sprintf("%016x", fingerprint)),
	}}
}

// Report is the decoded answer to an OpStats request.
type Report struct {
	simulation.Stats
	FPS         float64 // rate of the last tick
	FPSAverage  float64 // mean over the last simulation.FrameWindow ticks
	Fingerprint string
}

// ParseReport decodes the reply of an OpStats Ask.
func ParseReport(s *structpb.Struct) (Report, error) {
	if s == nil {
		return Report{}, errors.New("empty stats reply")
	}
	f := s.GetFields()
	if _, ok := f["frame"]; !ok {
		return Report{}, errors.New("stats reply has no frame field")
	}
	num := func(k string) int { return int(f[k].GetNumberValue()) }
	return Report{
		Stats: simulation.Stats{
			Frame:      uint64(f["frame"].GetNumberValue()),
			Discs:      num("discs"),
			Sources:    num("sources"),
			Checks:     num("checks"),
			SlowChecks: num("slowChecks"),
			Collisions: num("collisions"),
			FieldHits:  num("fieldHits"),
			Energy:     f["energy"].GetNumberValue(),
		},
		FPS:         f["fps"].GetNumberValue(),
		FPSAverage:  f["fpsAvg"].GetNumberValue(),
		Fingerprint: f["fingerprint"].GetStringValue(),
	}, nil
}
