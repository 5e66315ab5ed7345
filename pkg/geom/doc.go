// Package geom defines the geometry primitives shared by the placement engine.
//
// All types are plain values: a [Rect] is never mutated in place and every
// helper returns a new value. Coordinates live in a single space chosen by the
// platform provider (typically viewport pixels, y growing downward).
//
// # Placements
//
// A [Placement] pairs a [Side] of the reference element with an optional
// [Alignment] along the cross axis. The set is closed: the four bare sides
// plus the eight side-alignment combinations listed in [Placements].
//
//	p, _ := geom.ParsePlacement("bottom-start")
//	p.Side()      // geom.Bottom
//	p.Alignment() // geom.Start
//
// # Projection
//
// [ComputeCoords] answers "where would the floating box sit under placement
// P", with no additional offset. Every middleware stage that reasons about
// hypothetical placements goes through it.
package geom
