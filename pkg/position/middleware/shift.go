package middleware

import (
	"github.com/matzehuels/anchor/pkg/geom"
	"github.com/matzehuels/anchor/pkg/position"
)

// ShiftOptions configures the Shift stage.
type ShiftOptions struct {
	// MainAxis shifts along the reference edge (x for top and bottom
	// placements). Defaults to true.
	MainAxis *bool
	// CrossAxis shifts perpendicular to the reference edge, letting the
	// element overlap the reference.
	CrossAxis bool

	position.OverflowOptions
}

// ShiftEnabled records which axes Shift was allowed to move.
type ShiftEnabled struct {
	X bool `json:"x"`
	Y bool `json:"y"`
}

// ShiftData is stored under ShiftName.
type ShiftData struct {
	X       float64      `json:"x"`
	Y       float64      `json:"y"`
	Enabled ShiftEnabled `json:"enabled"`
}

type shiftStage struct {
	opts ShiftOptions
}

// Shift keeps the floating element inside the boundary by sliding it.
func Shift(opts ShiftOptions) position.Middleware {
	return shiftStage{opts: opts}
}

func (sh shiftStage) Name() string { return ShiftName }

func (sh shiftStage) Validate() error {
	return sh.opts.Padding.ValidatePadding("padding")
}

func (sh shiftStage) Run(s position.State) (position.Return, error) {
	o, err := position.DetectOverflow(s, sh.opts.OverflowOptions)
	if err != nil {
		return position.Return{}, err
	}

	start := s.Coords()
	coords := start
	along := s.Placement.CrossAxis()
	away := along.Other()

	checkAlong := boolOr(sh.opts.MainAxis, true)
	if checkAlong {
		coords = shiftAxis(coords, along, o)
	}
	if sh.opts.CrossAxis {
		coords = shiftAxis(coords, away, o)
	}

	var enabled ShiftEnabled
	if along == geom.AxisX {
		enabled = ShiftEnabled{X: checkAlong, Y: sh.opts.CrossAxis}
	} else {
		enabled = ShiftEnabled{X: sh.opts.CrossAxis, Y: checkAlong}
	}

	return position.Return{
		Coords: &coords,
		Data: ShiftData{
			X:       coords.X - start.X,
			Y:       coords.Y - start.Y,
			Enabled: enabled,
		},
	}, nil
}

func shiftAxis(c geom.Coords, a geom.Axis, o geom.Overflow) geom.Coords {
	lead, trail := a.Sides()
	v := c.Get(a)
	return c.Set(a, clamp(v+o.Get(lead), v, v-o.Get(trail)))
}
