package geom

import (
	"strings"

	"github.com/matzehuels/anchor/pkg/errors"
)

// Side is the edge of the reference element the floating element attaches to.
type Side string

const (
	Top    Side = "top"
	Right  Side = "right"
	Bottom Side = "bottom"
	Left   Side = "left"
)

// Sides lists the four sides in canonical order.
var Sides = []Side{Top, Right, Bottom, Left}

// Opposite returns the side across the reference element.
func (s Side) Opposite() Side {
	switch s {
	case Top:
		return Bottom
	case Bottom:
		return Top
	case Left:
		return Right
	case Right:
		return Left
	}
	return s
}

// Axis returns the main axis for a placement on this side: Y for top and
// bottom, X for left and right.
func (s Side) Axis() Axis {
	if s == Top || s == Bottom {
		return AxisY
	}
	return AxisX
}

// Valid reports whether s is one of the four sides.
func (s Side) Valid() bool {
	switch s {
	case Top, Right, Bottom, Left:
		return true
	}
	return false
}

// Axis is a coordinate axis.
type Axis string

const (
	AxisX Axis = "x"
	AxisY Axis = "y"
)

// Other returns the perpendicular axis.
func (a Axis) Other() Axis {
	if a == AxisX {
		return AxisY
	}
	return AxisX
}

// Length returns the dimension name measured along the axis.
func (a Axis) Length() string {
	if a == AxisX {
		return "width"
	}
	return "height"
}

// Sides returns the leading and trailing sides along the axis
// (left/right for X, top/bottom for Y).
func (a Axis) Sides() (Side, Side) {
	if a == AxisX {
		return Left, Right
	}
	return Top, Bottom
}

// Alignment positions the floating element along the cross axis.
type Alignment string

const (
	AlignNone  Alignment = ""
	AlignStart Alignment = "start"
	AlignEnd   Alignment = "end"
)

// ParseAlignment accepts "start", "end", and "", "none" or "center" for no
// alignment.
func ParseAlignment(s string) (Alignment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "null", "center":
		return AlignNone, nil
	case "start":
		return AlignStart, nil
	case "end":
		return AlignEnd, nil
	}
	return AlignNone, errors.New(errors.ErrCodeInvalidConfig, "invalid alignment %q (must be start, end or none)", s)
}

// Opposite swaps start and end.
func (a Alignment) Opposite() Alignment {
	switch a {
	case AlignStart:
		return AlignEnd
	case AlignEnd:
		return AlignStart
	}
	return AlignNone
}

// String returns "none" for the zero alignment.
func (a Alignment) String() string {
	if a == AlignNone {
		return "none"
	}
	return string(a)
}

// Placement is a side with an optional alignment, e.g. "top" or "left-end".
type Placement string

const (
	PlacementTop         Placement = "top"
	PlacementTopStart    Placement = "top-start"
	PlacementTopEnd      Placement = "top-end"
	PlacementRight       Placement = "right"
	PlacementRightStart  Placement = "right-start"
	PlacementRightEnd    Placement = "right-end"
	PlacementBottom      Placement = "bottom"
	PlacementBottomStart Placement = "bottom-start"
	PlacementBottomEnd   Placement = "bottom-end"
	PlacementLeft        Placement = "left"
	PlacementLeftStart   Placement = "left-start"
	PlacementLeftEnd     Placement = "left-end"
)

// Placements is the closed set of placements in canonical order.
var Placements = []Placement{
	PlacementTop, PlacementTopStart, PlacementTopEnd,
	PlacementRight, PlacementRightStart, PlacementRightEnd,
	PlacementBottom, PlacementBottomStart, PlacementBottomEnd,
	PlacementLeft, PlacementLeftStart, PlacementLeftEnd,
}

// NewPlacement combines a side and an alignment.
func NewPlacement(s Side, a Alignment) Placement {
	if a == AlignNone {
		return Placement(s)
	}
	return Placement(string(s) + "-" + string(a))
}

// ParsePlacement parses and validates a placement name.
func ParsePlacement(s string) (Placement, error) {
	p := Placement(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", errors.New(errors.ErrCodeInvalidPlacement, "invalid placement %q", s)
	}
	return p, nil
}

// ParsePlacements parses a list of placement names.
func ParsePlacements(names []string) ([]Placement, error) {
	out := make([]Placement, 0, len(names))
	for _, n := range names {
		p, err := ParsePlacement(n)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Valid reports whether p belongs to the closed placement set.
func (p Placement) Valid() bool {
	for _, v := range Placements {
		if p == v {
			return true
		}
	}
	return false
}

// Side returns the side component.
func (p Placement) Side() Side {
	s, _, _ := strings.Cut(string(p), "-")
	return Side(s)
}

// Alignment returns the alignment component, AlignNone for bare sides.
func (p Placement) Alignment() Alignment {
	_, a, _ := strings.Cut(string(p), "-")
	return Alignment(a)
}

// Opposite returns the placement on the opposite side with the same alignment.
func (p Placement) Opposite() Placement {
	return NewPlacement(p.Side().Opposite(), p.Alignment())
}

// OppositeAlignment returns the placement on the same side with start and end
// swapped.
func (p Placement) OppositeAlignment() Placement {
	return NewPlacement(p.Side(), p.Alignment().Opposite())
}

// MainAxis is the axis the floating element moves along to attach to the side.
func (p Placement) MainAxis() Axis { return p.Side().Axis() }

// CrossAxis is the axis the alignment acts on.
func (p Placement) CrossAxis() Axis { return p.Side().Axis().Other() }

// AlignmentSide returns the cross-axis side the floating element extends
// toward: right for top-start, left for top-end, bottom for left-start.
// Unaligned placements return the trailing side of the cross axis.
func (p Placement) AlignmentSide() Side {
	leading, trailing := p.CrossAxis().Sides()
	if p.Alignment() == AlignEnd {
		return leading
	}
	return trailing
}

// String implements fmt.Stringer.
func (p Placement) String() string { return string(p) }

// PlacementsFor returns the four placements with the given alignment in side
// order top, right, bottom, left.
func PlacementsFor(a Alignment) []Placement {
	out := make([]Placement, 0, len(Sides))
	for _, s := range Sides {
		out = append(out, NewPlacement(s, a))
	}
	return out
}
