package middleware

import (
	"math"

	"github.com/matzehuels/anchor/pkg/errors"
	"github.com/matzehuels/anchor/pkg/geom"
	"github.com/matzehuels/anchor/pkg/platform"
	"github.com/matzehuels/anchor/pkg/position"
)

// SizeOptions configures the Size stage.
type SizeOptions struct {
	// Fit shrinks the floating element to the available space and restarts
	// the pipeline with the smaller rects. Without it the stage only reports.
	Fit bool
	// MinWidth and MinHeight bound how far Fit may shrink the element.
	MinWidth  float64
	MinHeight float64

	position.OverflowOptions
}

// SizeData is stored under SizeName.
type SizeData struct {
	AvailableWidth  float64 `json:"availableWidth"`
	AvailableHeight float64 `json:"availableHeight"`
	// Fitted is set when Fit shrank the floating element.
	Fitted bool `json:"fitted,omitempty"`
}

type sizeStage struct {
	opts SizeOptions
}

// Size measures how much room the floating element has before it clips.
func Size(opts SizeOptions) position.Middleware {
	return sizeStage{opts: opts}
}

func (z sizeStage) Name() string { return SizeName }

func (z sizeStage) Validate() error {
	if err := errors.ValidateDimension("minWidth", z.opts.MinWidth); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "size")
	}
	if err := errors.ValidateDimension("minHeight", z.opts.MinHeight); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "size")
	}
	return z.opts.Padding.ValidatePadding("padding")
}

func (z sizeStage) Run(s position.State) (position.Return, error) {
	o, err := position.DetectOverflow(s, z.opts.OverflowOptions)
	if err != nil {
		return position.Return{}, err
	}
	avail := Available(s.Placement, s.Rects.Floating.Size(), o, shiftEnabled(s.MiddlewareData))
	data := SizeData{AvailableWidth: avail.Width, AvailableHeight: avail.Height}

	if !z.opts.Fit {
		return position.Return{Data: data}, nil
	}

	fl := s.Rects.Floating
	width := math.Max(math.Min(fl.Width, avail.Width), z.opts.MinWidth)
	height := math.Max(math.Min(fl.Height, avail.Height), z.opts.MinHeight)
	if width == fl.Width && height == fl.Height {
		prev, _ := position.DataOf[SizeData](s.MiddlewareData, SizeName)
		data.Fitted = prev.Fitted
		return position.Return{Data: data}, nil
	}

	data.Fitted = true
	fl.Width, fl.Height = width, height
	return position.Return{
		Data:  data,
		Reset: &position.Reset{Rects: &platform.ElementRects{Reference: s.Rects.Reference, Floating: fl}},
	}, nil
}

// Available returns the width and height the floating element may occupy at
// placement p without clipping, given its overflow at the current position.
// Axes that Shift is allowed to move get the full clipping extent.
func Available(p geom.Placement, floating geom.Size, o geom.Overflow, shifted *ShiftEnabled) geom.Size {
	side, align := p.Side(), p.Alignment()

	var widthSide, heightSide geom.Side
	if p.MainAxis() == geom.AxisY {
		heightSide = side
		widthSide = geom.Right
		if align == geom.AlignEnd {
			widthSide = geom.Left
		}
	} else {
		widthSide = side
		heightSide = geom.Bottom
		if align == geom.AlignEnd {
			heightSide = geom.Top
		}
	}

	maxHeight := floating.Height - o.Top - o.Bottom
	maxWidth := floating.Width - o.Left - o.Right
	avail := geom.Size{
		Width:  math.Min(floating.Width-o.Get(widthSide), maxWidth),
		Height: math.Min(floating.Height-o.Get(heightSide), maxHeight),
	}

	if shifted != nil {
		if shifted.X {
			avail.Width = maxWidth
		}
		if shifted.Y {
			avail.Height = maxHeight
		}
		return avail
	}

	if align == geom.AlignNone {
		if p.MainAxis() == geom.AxisY {
			avail.Width = floating.Width - 2*symmetricClip(o.Left, o.Right)
		} else {
			avail.Height = floating.Height - 2*symmetricClip(o.Top, o.Bottom)
		}
	}
	return avail
}

// symmetricClip is the per-side allowance for a centered element: the
// clipped amount when either side clips, else the smaller gap.
func symmetricClip(a, b float64) float64 {
	lo, hi := math.Max(a, 0), math.Max(b, 0)
	if lo != 0 || hi != 0 {
		return lo + hi
	}
	return math.Max(a, b)
}

func shiftEnabled(d position.Data) *ShiftEnabled {
	sd, ok := position.DataOf[ShiftData](d, ShiftName)
	if !ok {
		return nil
	}
	return &sd.Enabled
}
