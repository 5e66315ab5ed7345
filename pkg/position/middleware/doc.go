// Package middleware provides the built-in pipeline stages.
//
// Each constructor returns a [position.Middleware] whose Run method is a pure
// function of the pipeline state and its own options:
//
//   - [AutoPlacement]: picks the candidate placement with the least clipping
//   - [Offset]: moves the floating element away from or along the reference
//   - [Shift]: slides the floating element back inside the boundary
//   - [Flip]: keeps the requested placement until it overflows, then falls back
//   - [Size]: reports (and optionally enforces) the space left for the element
//   - [Hide]: reports whether the reference is clipped or the element escaped
//
// Stages cooperate through position.State.MiddlewareData: each stage stores
// its payload under its name (see the *Name constants) and later stages can
// read it. AutoPlacement and Flip both own the placement decision and refuse
// to share a pipeline.
package middleware

import "github.com/matzehuels/anchor/pkg/position"

// Stage names, used as MiddlewareData keys.
const (
	AutoPlacementName = "autoPlacement"
	OffsetName        = "offset"
	ShiftName         = "shift"
	FlipName          = "flip"
	SizeName          = "size"
	HideName          = "hide"
)

// Bool returns a pointer to v, for options whose default is true.
func Bool(v bool) *bool { return &v }

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func clamp(lo, v, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// withBoundary resolves the clipping region once so that scoring several
// candidate rects does not query the platform for each of them.
func withBoundary(s position.State, opts position.OverflowOptions) (position.OverflowOptions, error) {
	b, err := position.ResolveBoundary(s, opts)
	if err != nil {
		return opts, err
	}
	opts.Boundary = &b
	return opts, nil
}
