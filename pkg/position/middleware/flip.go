package middleware

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/anchor/pkg/errors"
	"github.com/matzehuels/anchor/pkg/geom"
	"github.com/matzehuels/anchor/pkg/position"
)

// FallbackStrategy decides where Flip settles when every placement overflows.
type FallbackStrategy string

const (
	// FallbackBestFit picks the tried placement with the least total clipping.
	FallbackBestFit FallbackStrategy = "bestFit"
	// FallbackInitial returns to the requested placement.
	FallbackInitial FallbackStrategy = "initialPlacement"
)

// FlipOptions configures the Flip stage.
type FlipOptions struct {
	// MainAxis checks overflow on the placement's side. Defaults to true.
	MainAxis *bool
	// CrossAxis also checks the alignment sides. Defaults to true.
	CrossAxis *bool
	// FallbackPlacements are tried in order after the initial placement.
	// When nil they are derived from the initial placement.
	FallbackPlacements []geom.Placement
	// FlipAlignment lets the derived fallbacks swap start and end.
	// Defaults to true.
	FlipAlignment *bool
	// FallbackStrategy defaults to FallbackBestFit.
	FallbackStrategy FallbackStrategy

	position.OverflowOptions
}

// FlipAttempt records the overflow checked for one tried placement.
type FlipAttempt struct {
	Placement geom.Placement `json:"placement"`
	Overflows []float64      `json:"overflows"`
}

// FlipData is stored under FlipName. It accumulates across resets within one
// Compute call.
type FlipData struct {
	Index     int           `json:"index"`
	Overflows []FlipAttempt `json:"overflows"`
}

type flipStage struct {
	opts FlipOptions
}

// Flip keeps the initial placement while it fits and otherwise walks the
// fallback placements, one reset per attempt.
func Flip(opts FlipOptions) position.Middleware {
	return flipStage{opts: opts}
}

func (f flipStage) Name() string { return FlipName }

func (f flipStage) Excludes() []string { return []string{AutoPlacementName} }

func (f flipStage) Validate() error {
	for _, p := range f.opts.FallbackPlacements {
		if !p.Valid() {
			return errors.New(errors.ErrCodeInvalidPlacement, "fallbackPlacements contains invalid placement %q", p)
		}
	}
	switch f.opts.FallbackStrategy {
	case "", FallbackBestFit, FallbackInitial:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown fallback strategy %q", f.opts.FallbackStrategy)
	}
	return f.opts.Padding.ValidatePadding("padding")
}

// Placements returns the initial placement followed by its fallbacks.
func (o FlipOptions) Placements(initial geom.Placement) []geom.Placement {
	fallbacks := o.FallbackPlacements
	if fallbacks == nil {
		if initial.Alignment() == geom.AlignNone || !boolOr(o.FlipAlignment, true) {
			fallbacks = []geom.Placement{initial.Opposite()}
		} else {
			opposite := initial.Opposite()
			fallbacks = []geom.Placement{initial.OppositeAlignment(), opposite, opposite.OppositeAlignment()}
		}
	}
	return append([]geom.Placement{initial}, fallbacks...)
}

func (f flipStage) Run(s position.State) (position.Return, error) {
	o, err := position.DetectOverflow(s, f.opts.OverflowOptions)
	if err != nil {
		return position.Return{}, err
	}

	var overflows []float64
	if boolOr(f.opts.MainAxis, true) {
		overflows = append(overflows, o.Get(s.Placement.Side()))
	}
	if boolOr(f.opts.CrossAxis, true) {
		a, b := alignmentSides(s.Placement, s.Rects.Reference, s.Rects.Floating)
		overflows = append(overflows, o.Get(a), o.Get(b))
	}

	prev, _ := position.DataOf[FlipData](s.MiddlewareData, FlipName)
	attempts := append(slices.Clone(prev.Overflows), FlipAttempt{Placement: s.Placement, Overflows: overflows})

	if !slices.ContainsFunc(overflows, func(v float64) bool { return v > 0 }) {
		return position.Return{}, nil
	}

	placements := f.opts.Placements(s.InitialPlacement)
	next := prev.Index + 1
	if next < len(placements) {
		return position.Return{
			Data:  FlipData{Index: next, Overflows: attempts},
			Reset: &position.Reset{Placement: placements[next]},
		}, nil
	}

	target := fitsMainAxis(attempts)
	if target == "" {
		if f.opts.FallbackStrategy == FallbackInitial {
			target = s.InitialPlacement
		} else {
			target = bestFit(attempts)
		}
	}
	if target != "" && target != s.Placement {
		return position.Return{Reset: &position.Reset{Placement: target}}, nil
	}
	return position.Return{}, nil
}

// alignmentSides returns the two cross-axis sides checked for an aligned
// placement, the side the element extends toward first. When the reference
// is longer than the floating element on that axis the order is swapped.
func alignmentSides(p geom.Placement, reference, floating geom.Rect) (geom.Side, geom.Side) {
	axis := p.CrossAxis()
	side := p.AlignmentSide()
	if p.Alignment() == geom.AlignNone {
		side, _ = axis.Sides()
	}
	if reference.Size().Length(axis) > floating.Size().Length(axis) {
		side = side.Opposite()
	}
	return side, side.Opposite()
}

// fitsMainAxis returns the tried placement that fits on its own side with
// the least overflow on its first alignment side.
func fitsMainAxis(attempts []FlipAttempt) geom.Placement {
	var fits []FlipAttempt
	for _, a := range attempts {
		if len(a.Overflows) > 0 && a.Overflows[0] <= 0 {
			fits = append(fits, a)
		}
	}
	slices.SortStableFunc(fits, func(a, b FlipAttempt) int {
		return cmp.Compare(at(a.Overflows, 1), at(b.Overflows, 1))
	})
	if len(fits) == 0 {
		return ""
	}
	return fits[0].Placement
}

// bestFit returns the tried placement with the smallest total positive
// overflow.
func bestFit(attempts []FlipAttempt) geom.Placement {
	var best geom.Placement
	least := math.Inf(1)
	for _, a := range attempts {
		var sum float64
		for _, v := range a.Overflows {
			sum += math.Max(v, 0)
		}
		if sum < least {
			best, least = a.Placement, sum
		}
	}
	return best
}

func at(vs []float64, i int) float64 {
	if i < len(vs) {
		return vs[i]
	}
	return 0
}
