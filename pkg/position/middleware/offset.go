package middleware

import (
	"github.com/matzehuels/anchor/pkg/geom"
	"github.com/matzehuels/anchor/pkg/position"
)

// OffsetOptions configures the Offset stage. Distances are in CSS pixels.
type OffsetOptions struct {
	// MainAxis is the gap between reference and floating element.
	MainAxis float64 `json:"mainAxis" toml:"main_axis" yaml:"mainAxis"`
	// CrossAxis slides the element along the reference edge.
	CrossAxis float64 `json:"crossAxis" toml:"cross_axis" yaml:"crossAxis"`
	// AlignmentAxis overrides CrossAxis for aligned placements and is
	// inverted for end alignment.
	AlignmentAxis *float64 `json:"alignmentAxis,omitempty" toml:"alignment_axis" yaml:"alignmentAxis,omitempty"`
}

// OffsetData is stored under OffsetName.
type OffsetData struct {
	X         float64        `json:"x"`
	Y         float64        `json:"y"`
	Placement geom.Placement `json:"placement"`
}

type offsetStage struct {
	opts OffsetOptions
}

// Offset moves the floating element mainAxis pixels away from the reference.
func Offset(mainAxis float64) position.Middleware {
	return OffsetWith(OffsetOptions{MainAxis: mainAxis})
}

// OffsetWith returns an Offset stage with full options.
func OffsetWith(opts OffsetOptions) position.Middleware {
	return offsetStage{opts: opts}
}

func (o offsetStage) Name() string { return OffsetName }

func (o offsetStage) Run(s position.State) (position.Return, error) {
	d := o.delta(s.Placement)
	return position.Return{
		Coords: position.At(geom.Coords{X: s.X + d.X, Y: s.Y + d.Y}),
		Data:   OffsetData{X: d.X, Y: d.Y, Placement: s.Placement},
	}, nil
}

func (o offsetStage) delta(p geom.Placement) geom.Coords {
	side := p.Side()
	main := o.opts.MainAxis
	if side == geom.Top || side == geom.Left {
		main = -main
	}
	cross := o.opts.CrossAxis
	if a := p.Alignment(); a != geom.AlignNone && o.opts.AlignmentAxis != nil {
		cross = *o.opts.AlignmentAxis
		if a == geom.AlignEnd {
			cross = -cross
		}
	}

	var d geom.Coords
	d = d.Set(p.MainAxis(), main)
	d = d.Set(p.CrossAxis(), cross)
	return d
}
