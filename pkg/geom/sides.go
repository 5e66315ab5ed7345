package geom

import (
	"fmt"
	"math"

	"github.com/matzehuels/anchor/pkg/errors"
)

// SideObject holds one value per side.
type SideObject struct {
	Top    float64 `json:"top" toml:"top" yaml:"top"`
	Right  float64 `json:"right" toml:"right" yaml:"right"`
	Bottom float64 `json:"bottom" toml:"bottom" yaml:"bottom"`
	Left   float64 `json:"left" toml:"left" yaml:"left"`
}

// Overflow is the signed distance by which a box extends past a boundary on
// each side. Positive values mean clipping, negative values mean clearance.
type Overflow = SideObject

// Padding shrinks a boundary on each side before overflow is measured.
type Padding = SideObject

// Uniform returns a SideObject with v on every side.
func Uniform(v float64) SideObject {
	return SideObject{Top: v, Right: v, Bottom: v, Left: v}
}

// Get returns the value for side s.
func (o SideObject) Get(s Side) float64 {
	switch s {
	case Top:
		return o.Top
	case Right:
		return o.Right
	case Bottom:
		return o.Bottom
	case Left:
		return o.Left
	}
	return 0
}

// With returns a copy of o with side s set to v.
func (o SideObject) With(s Side, v float64) SideObject {
	switch s {
	case Top:
		o.Top = v
	case Right:
		o.Right = v
	case Bottom:
		o.Bottom = v
	case Left:
		o.Left = v
	}
	return o
}

// Clamped returns o with every negative value replaced by zero.
func (o SideObject) Clamped() SideObject {
	return SideObject{
		Top:    math.Max(o.Top, 0),
		Right:  math.Max(o.Right, 0),
		Bottom: math.Max(o.Bottom, 0),
		Left:   math.Max(o.Left, 0),
	}
}

// Scale divides each value by the axis scale factors.
func (o SideObject) Scale(sx, sy float64) SideObject {
	if sx == 0 || sy == 0 {
		return o
	}
	return SideObject{Top: o.Top / sy, Right: o.Right / sx, Bottom: o.Bottom / sy, Left: o.Left / sx}
}

// ValidatePadding checks that every side is finite and non-negative.
func (o SideObject) ValidatePadding(name string) error {
	for _, s := range Sides {
		if err := errors.ValidateDimension(fmt.Sprintf("%s.%s", name, s), o.Get(s)); err != nil {
			return err
		}
	}
	return nil
}

// String implements fmt.Stringer.
func (o SideObject) String() string {
	return fmt.Sprintf("{top:%g right:%g bottom:%g left:%g}", o.Top, o.Right, o.Bottom, o.Left)
}
