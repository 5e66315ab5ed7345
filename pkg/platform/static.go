package platform

import (
	"fmt"

	"github.com/matzehuels/anchor/pkg/errors"
	"github.com/matzehuels/anchor/pkg/geom"
)

// Static is a Platform over fixed geometry. Elements are identified by
// string keys in Rects; ClippingRect returns Boundary intersected with any
// explicit boundary elements that have a rect.
type Static struct {
	Rects    map[string]geom.Rect
	Boundary geom.Rect
	// Document is returned for the document root boundary. Zero means the
	// same as Boundary.
	Document geom.Rect
	// ScaleFactor, when non-zero on both axes, is reported by Scale.
	ScaleFactor geom.Coords
}

// NewStatic creates a Static platform with a reference, a floating element
// and a clipping boundary. The elements are addressed as "reference" and
// "floating".
func NewStatic(reference geom.Rect, floating geom.Size, boundary geom.Rect) *Static {
	return &Static{
		Rects: map[string]geom.Rect{
			"reference": reference,
			"floating":  geom.At(geom.Coords{}, floating),
		},
		Boundary: boundary,
	}
}

// ElementRects looks up both elements by key.
func (s *Static) ElementRects(reference, floating Element, _ Strategy) (ElementRects, error) {
	ref, err := s.lookup(reference)
	if err != nil {
		return ElementRects{}, err
	}
	fl, err := s.lookup(floating)
	if err != nil {
		return ElementRects{}, err
	}
	return ElementRects{Reference: ref, Floating: fl}, nil
}

// ClippingRect returns the configured boundary.
func (s *Static) ClippingRect(params ClippingParams) (geom.Rect, error) {
	root := s.Boundary
	if params.RootBoundary == RootDocument && s.Document != (geom.Rect{}) {
		root = s.Document
	}
	for _, el := range params.Elements {
		r, err := s.lookup(el)
		if err != nil {
			return geom.Rect{}, err
		}
		root = root.Intersect(r)
	}
	return root, nil
}

// Scale reports ScaleFactor, or 1x1 when unset.
func (s *Static) Scale(Element) (geom.Coords, error) {
	if s.ScaleFactor.X == 0 || s.ScaleFactor.Y == 0 {
		return geom.Coords{X: 1, Y: 1}, nil
	}
	return s.ScaleFactor, nil
}

func (s *Static) lookup(el Element) (geom.Rect, error) {
	key, ok := el.(string)
	if !ok {
		return geom.Rect{}, errors.New(errors.ErrCodePlatform, "unsupported element handle %s", fmt.Sprintf("%T", el))
	}
	r, ok := s.Rects[key]
	if !ok {
		return geom.Rect{}, errors.New(errors.ErrCodeNotFound, "unknown element %q", key)
	}
	return r, nil
}

var (
	_ Platform = (*Static)(nil)
	_ Scaler   = (*Static)(nil)
)
