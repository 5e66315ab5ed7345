package position

import (
	"github.com/matzehuels/anchor/pkg/errors"
	"github.com/matzehuels/anchor/pkg/geom"
	"github.com/matzehuels/anchor/pkg/overflow"
	"github.com/matzehuels/anchor/pkg/platform"
)

// ElementContext selects which element's box is measured for overflow.
type ElementContext string

const (
	ContextFloating  ElementContext = "floating"
	ContextReference ElementContext = "reference"
)

// OverflowOptions configures DetectOverflow.
type OverflowOptions struct {
	// Boundary, when set, is used as the clipping region as-is.
	Boundary *geom.Rect
	// BoundaryElements replaces the clipping ancestors with explicit elements.
	BoundaryElements []platform.Element
	// RootBoundary is intersected with the clipping ancestors.
	RootBoundary platform.RootBoundary
	// ElementContext defaults to the floating element.
	ElementContext ElementContext
	// AltBoundary measures against the other element's clipping region.
	AltBoundary bool
	// Padding shrinks the boundary on each side.
	Padding geom.Padding
}

// DetectOverflow measures the element selected by opts.ElementContext, at
// its current position, against the resolved boundary.
func DetectOverflow(s State, opts OverflowOptions) (geom.Overflow, error) {
	rect := s.FloatingRect()
	if opts.ElementContext == ContextReference {
		rect = s.Rects.Reference
	}
	return DetectOverflowAt(s, rect, opts)
}

// DetectOverflowAt measures a hypothetical rect against the resolved
// boundary. Stages use it to score placements they have not committed to.
func DetectOverflowAt(s State, rect geom.Rect, opts OverflowOptions) (geom.Overflow, error) {
	boundary, err := ResolveBoundary(s, opts)
	if err != nil {
		return geom.Overflow{}, err
	}
	o := overflow.Detect(rect, boundary, opts.Padding)

	if scaler, ok := s.Platform.(platform.Scaler); ok {
		scale, err := scaler.Scale(s.Elements.Floating)
		if err != nil {
			return geom.Overflow{}, errors.Wrap(errors.ErrCodePlatform, err, "read floating element scale")
		}
		o = o.Scale(scale.X, scale.Y)
	}
	return o, nil
}

// ResolveBoundary returns the clipping region described by opts.
func ResolveBoundary(s State, opts OverflowOptions) (geom.Rect, error) {
	if opts.Boundary != nil {
		return *opts.Boundary, nil
	}
	if s.Platform == nil {
		return geom.Rect{}, errors.New(errors.ErrCodeInvalidConfig, "no platform to resolve the clipping boundary")
	}

	element := s.Elements.Floating
	if (opts.ElementContext == ContextReference) != opts.AltBoundary {
		element = s.Elements.Reference
	}

	root := opts.RootBoundary
	if root == "" {
		root = platform.RootViewport
	}
	r, err := s.Platform.ClippingRect(platform.ClippingParams{
		Element:      element,
		Elements:     opts.BoundaryElements,
		RootBoundary: root,
		Strategy:     s.Strategy,
	})
	if err != nil {
		if errors.GetCode(err) != "" {
			return geom.Rect{}, err
		}
		return geom.Rect{}, errors.Wrap(errors.ErrCodePlatform, err, "resolve clipping rect")
	}
	return r, nil
}
