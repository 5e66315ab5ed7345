package geom

import (
	"fmt"
	"math"

	"github.com/matzehuels/anchor/pkg/errors"
)

// Rect is an axis-aligned box.
type Rect struct {
	X      float64 `json:"x" toml:"x" yaml:"x"`
	Y      float64 `json:"y" toml:"y" yaml:"y"`
	Width  float64 `json:"width" toml:"width" yaml:"width"`
	Height float64 `json:"height" toml:"height" yaml:"height"`
}

// Coords is a resolved top-left position.
type Coords struct {
	X float64 `json:"x" toml:"x" yaml:"x"`
	Y float64 `json:"y" toml:"y" yaml:"y"`
}

// Size is a width/height pair.
type Size struct {
	Width  float64 `json:"width" toml:"width" yaml:"width"`
	Height float64 `json:"height" toml:"height" yaml:"height"`
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// CenterX returns the horizontal midpoint.
func (r Rect) CenterX() float64 { return r.X + r.Width/2 }

// CenterY returns the vertical midpoint.
func (r Rect) CenterY() float64 { return r.Y + r.Height/2 }

// Size returns the rect's dimensions.
func (r Rect) Size() Size { return Size{Width: r.Width, Height: r.Height} }

// Origin returns the top-left corner.
func (r Rect) Origin() Coords { return Coords{X: r.X, Y: r.Y} }

// Area returns Width*Height.
func (r Rect) Area() float64 { return r.Width * r.Height }

// Empty reports whether the rect has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Translate returns the rect moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

// At returns a rect of the given size with its top-left corner at c.
func At(c Coords, s Size) Rect {
	return Rect{X: c.X, Y: c.Y, Width: s.Width, Height: s.Height}
}

// Inset shrinks the rect by p on each side. Width and height never go below
// zero; an over-inset rect collapses onto its horizontal/vertical midpoint.
func (r Rect) Inset(p Padding) Rect {
	out := Rect{
		X:      r.X + p.Left,
		Y:      r.Y + p.Top,
		Width:  r.Width - p.Left - p.Right,
		Height: r.Height - p.Top - p.Bottom,
	}
	if out.Width < 0 {
		out.X = r.X + (r.Width+p.Left-p.Right)/2
		out.Width = 0
	}
	if out.Height < 0 {
		out.Y = r.Y + (r.Height+p.Top-p.Bottom)/2
		out.Height = 0
	}
	return out
}

// Intersect returns the overlapping region of r and o. Disjoint rects yield a
// zero-size rect positioned at the clamped corner.
func (r Rect) Intersect(o Rect) Rect {
	left := math.Max(r.X, o.X)
	top := math.Max(r.Y, o.Y)
	right := math.Min(r.Right(), o.Right())
	bottom := math.Min(r.Bottom(), o.Bottom())
	return Rect{
		X:      left,
		Y:      top,
		Width:  math.Max(0, right-left),
		Height: math.Max(0, bottom-top),
	}
}

// Contains reports whether o lies entirely within r.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// Validate checks that the rect has finite coordinates and non-negative,
// finite dimensions. name is used to prefix error messages.
func (r Rect) Validate(name string) error {
	if err := errors.ValidateCoordinate(name+".x", r.X); err != nil {
		return err
	}
	if err := errors.ValidateCoordinate(name+".y", r.Y); err != nil {
		return err
	}
	if err := errors.ValidateDimension(name+".width", r.Width); err != nil {
		return err
	}
	return errors.ValidateDimension(name+".height", r.Height)
}

// String implements fmt.Stringer.
func (r Rect) String() string {
	return fmt.Sprintf("(%g,%g %gx%g)", r.X, r.Y, r.Width, r.Height)
}

// Validate checks that both dimensions are finite and non-negative.
func (s Size) Validate(name string) error {
	if err := errors.ValidateDimension(name+".width", s.Width); err != nil {
		return err
	}
	return errors.ValidateDimension(name+".height", s.Height)
}
