package middleware

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/anchor/pkg/errors"
	"github.com/matzehuels/anchor/pkg/geom"
	"github.com/matzehuels/anchor/pkg/position"
)

// AutoPlacementOptions configures the AutoPlacement stage.
type AutoPlacementOptions struct {
	// Alignment restricts the default candidates to one alignment. With
	// AlignNone the candidates are the four bare sides.
	Alignment geom.Alignment

	// AllowedPlacements, when non-nil, replaces the alignment-derived
	// candidates. Order is the tie-break priority. An empty non-nil slice is
	// a configuration fault.
	AllowedPlacements []geom.Placement

	// AutoAlignment appends the opposite-alignment variants after the
	// requested ones, letting start fall back to end and vice versa.
	AutoAlignment bool

	// CrossAxis lets cross-axis overflow break ties between candidates with
	// equal main-axis clipping.
	CrossAxis bool

	position.OverflowOptions
}

// Candidate is one scored placement.
type Candidate struct {
	Placement geom.Placement `json:"placement"`
	Overflow  geom.Overflow  `json:"overflow"`
	// Main is the clipped distance on the placement's own side.
	Main float64 `json:"main"`
	// Cross is the clipped distance on both cross-axis sides (CrossAxis only).
	Cross float64 `json:"cross"`
	// Room is the signed overflow of the tighter cross-axis side; lower
	// means more room (CrossAxis only).
	Room float64 `json:"room"`
}

// AutoPlacementData is stored under AutoPlacementName.
type AutoPlacementData struct {
	Placement  geom.Placement `json:"placement"`
	Candidates []Candidate    `json:"candidates"`
}

// AutoPlacementStage chooses the candidate placement with the most visible
// area. It keeps no memory of earlier choices: the winner is recomputed from
// the current rects on every run.
type AutoPlacementStage struct {
	opts AutoPlacementOptions
}

// AutoPlacement returns the stage without validating opts; the pipeline
// driver validates it before the first run.
func AutoPlacement(opts AutoPlacementOptions) *AutoPlacementStage {
	return &AutoPlacementStage{opts: opts}
}

// NewAutoPlacement returns the stage, or a configuration fault.
func NewAutoPlacement(opts AutoPlacementOptions) (*AutoPlacementStage, error) {
	a := AutoPlacement(opts)
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Name implements position.Middleware.
func (a *AutoPlacementStage) Name() string { return AutoPlacementName }

// Excludes implements position.Exclusive.
func (a *AutoPlacementStage) Excludes() []string { return []string{FlipName} }

// Validate implements position.Validator.
func (a *AutoPlacementStage) Validate() error {
	_, err := a.opts.Candidates()
	if err != nil {
		return err
	}
	return a.opts.Padding.ValidatePadding("padding")
}

// Candidates returns the ordered candidate list.
func (o AutoPlacementOptions) Candidates() ([]geom.Placement, error) {
	switch o.Alignment {
	case geom.AlignNone, geom.AlignStart, geom.AlignEnd:
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "invalid alignment %q", o.Alignment)
	}

	if o.AllowedPlacements == nil {
		list := geom.PlacementsFor(o.Alignment)
		if o.AutoAlignment && o.Alignment != geom.AlignNone {
			list = append(list, geom.PlacementsFor(o.Alignment.Opposite())...)
		}
		return list, nil
	}

	if len(o.AllowedPlacements) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "allowedPlacements must not be empty")
	}
	for _, p := range o.AllowedPlacements {
		if !p.Valid() {
			return nil, errors.New(errors.ErrCodeInvalidPlacement, "allowedPlacements contains invalid placement %q", p)
		}
		if o.Alignment == geom.AlignNone || p.Alignment() == o.Alignment {
			continue
		}
		if o.AutoAlignment && p.Alignment() == o.Alignment.Opposite() {
			continue
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"allowedPlacements entry %q is inconsistent with alignment %q", p, o.Alignment)
	}
	return slices.Clone(o.AllowedPlacements), nil
}

// Run implements position.Middleware.
func (a *AutoPlacementStage) Run(s position.State) (position.Return, error) {
	candidates, err := a.opts.Candidates()
	if err != nil {
		return position.Return{}, err
	}
	detect, err := withBoundary(s, a.opts.OverflowOptions)
	if err != nil {
		return position.Return{}, err
	}

	scored := make([]Candidate, 0, len(candidates))
	floating := s.Rects.Floating.Size()
	for _, p := range candidates {
		rect := geom.ProjectRect(p, s.Rects.Reference, floating)
		o, err := position.DetectOverflowAt(s, rect, detect)
		if err != nil {
			return position.Return{}, err
		}
		scored = append(scored, Score(p, o, a.opts.CrossAxis))
	}
	Rank(scored)

	best := scored[0].Placement
	data := AutoPlacementData{Placement: best, Candidates: scored}
	if best == s.Placement {
		return position.Return{Data: data}, nil
	}

	coords := geom.ComputeCoords(best, s.Rects.Reference, floating)
	return position.Return{
		Coords: &coords,
		Data:   data,
		Reset:  &position.Reset{Placement: best},
	}, nil
}

// Score computes a candidate's ranking keys from its overflow.
func Score(p geom.Placement, o geom.Overflow, crossAxis bool) Candidate {
	c := Candidate{
		Placement: p,
		Overflow:  o,
		Main:      math.Max(o.Get(p.Side()), 0),
	}
	if crossAxis {
		lead, trail := p.CrossAxis().Sides()
		c.Cross = math.Max(o.Get(lead), 0) + math.Max(o.Get(trail), 0)
		c.Room = math.Max(o.Get(lead), o.Get(trail))
	}
	return c
}

// Rank sorts candidates best first. The sort is stable, so exact ties keep
// the candidate order.
func Rank(cs []Candidate) {
	slices.SortStableFunc(cs, func(a, b Candidate) int {
		if c := cmp.Compare(a.Main, b.Main); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Cross, b.Cross); c != 0 {
			return c
		}
		return cmp.Compare(a.Room, b.Room)
	})
}
