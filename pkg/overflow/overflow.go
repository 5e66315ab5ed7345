// Package overflow measures how far a box extends past a clipping boundary.
//
// [Detect] is a pure function of two rects and a padding. Results are signed:
// positive values are clipped pixels, negative values are clearance. Callers
// that score candidates need the sign, so nothing is clamped here.
package overflow

import (
	"math"

	"github.com/matzehuels/anchor/pkg/geom"
)

// Detect returns the overflow of candidate against boundary, after shrinking
// the boundary by padding on each side.
func Detect(candidate, boundary geom.Rect, padding geom.Padding) geom.Overflow {
	return geom.Overflow{
		Top:    (boundary.Y + padding.Top) - candidate.Y,
		Right:  candidate.Right() - (boundary.Right() - padding.Right),
		Bottom: candidate.Bottom() - (boundary.Bottom() - padding.Bottom),
		Left:   (boundary.X + padding.Left) - candidate.X,
	}
}

// Fits reports whether no side overflows.
func Fits(o geom.Overflow) bool {
	return o.Top <= 0 && o.Right <= 0 && o.Bottom <= 0 && o.Left <= 0
}

// FitsSides reports whether none of the given sides overflow.
func FitsSides(o geom.Overflow, sides ...geom.Side) bool {
	for _, s := range sides {
		if o.Get(s) > 0 {
			return false
		}
	}
	return true
}

// Clipped sums the positive overflow of the given sides. With no sides it
// sums all four.
func Clipped(o geom.Overflow, sides ...geom.Side) float64 {
	if len(sides) == 0 {
		sides = geom.Sides
	}
	var total float64
	for _, s := range sides {
		total += math.Max(o.Get(s), 0)
	}
	return total
}

// Tightest returns the largest signed overflow among the given sides: the
// side with the least clearance.
func Tightest(o geom.Overflow, sides ...geom.Side) float64 {
	if len(sides) == 0 {
		sides = geom.Sides
	}
	worst := math.Inf(-1)
	for _, s := range sides {
		worst = math.Max(worst, o.Get(s))
	}
	return worst
}

// Hidden reports whether the box is clipped on at least one side by its full
// extent, i.e. entirely outside the boundary.
func Hidden(o geom.Overflow, size geom.Size) bool {
	return o.Top >= size.Height || o.Bottom >= size.Height ||
		o.Left >= size.Width || o.Right >= size.Width
}
