// Package platform defines the measurement contract the placement engine
// consumes.
//
// The engine never measures anything itself. A Platform supplies the
// reference and floating rects and the effective clipping rect; element
// handles are opaque values owned by the provider. [Static] is a provider over
// fixed rects, useful in tests and wherever the geometry is already known.
package platform

import (
	"github.com/matzehuels/anchor/pkg/errors"
	"github.com/matzehuels/anchor/pkg/geom"
)

// Element is an opaque handle understood only by the platform provider.
type Element any

// Strategy is the CSS positioning strategy the coordinates are computed for.
type Strategy string

const (
	StrategyAbsolute Strategy = "absolute"
	StrategyFixed    Strategy = "fixed"
)

// ParseStrategy validates a strategy name. Empty defaults to absolute.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "":
		return StrategyAbsolute, nil
	case StrategyAbsolute, StrategyFixed:
		return Strategy(s), nil
	}
	return "", errors.New(errors.ErrCodeInvalidConfig, "invalid strategy %q (must be absolute or fixed)", s)
}

// ElementRects holds the measured reference and floating boxes. The floating
// rect's origin is not meaningful; only its size is used.
type ElementRects struct {
	Reference geom.Rect `json:"reference"`
	Floating  geom.Rect `json:"floating"`
}

// Validate checks both rects.
func (r ElementRects) Validate() error {
	if err := r.Reference.Validate("reference"); err != nil {
		return err
	}
	return r.Floating.Validate("floating")
}

// RootBoundary selects the outermost clipping region.
type RootBoundary string

const (
	RootViewport RootBoundary = "viewport"
	RootDocument RootBoundary = "document"
)

// ClippingParams describes which clipping region to compute.
type ClippingParams struct {
	// Element is the element whose clipping ancestors are considered.
	Element Element
	// Elements, when non-empty, replaces the element's clipping ancestors
	// with an explicit list of boundary elements.
	Elements []Element
	// RootBoundary is intersected with the ancestors. Defaults to viewport.
	RootBoundary RootBoundary
	Strategy     Strategy
}

// Platform supplies geometry to the engine.
type Platform interface {
	// ElementRects measures the reference and floating elements.
	ElementRects(reference, floating Element, strategy Strategy) (ElementRects, error)

	// ClippingRect returns the effective clipping region: the intersection of
	// the root boundary with the clipping ancestors (or explicit elements).
	ClippingRect(params ClippingParams) (geom.Rect, error)
}

// Scaler is implemented by platforms whose elements may be CSS-scaled. The
// engine divides overflow by the floating element's scale when available.
type Scaler interface {
	Scale(element Element) (geom.Coords, error)
}
