package scene

import (
	"fmt"

	"github.com/matzehuels/anchor/pkg/errors"
	"github.com/matzehuels/anchor/pkg/geom"
	"github.com/matzehuels/anchor/pkg/platform"
)

// Element handles understood by Platform.
const (
	ElementReference = "reference"
	ElementFloating  = "floating"
	ElementContainer = "container"
	ElementViewport  = "viewport"
	ElementContent   = "content"
)

// Platform measures a scene. Both elements live in the scene's scroll
// container, so the container is their only clipping ancestor.
type Platform struct {
	scene *Scene
}

// NewPlatform returns a platform over sc. The scene must not be modified
// while the platform is in use.
func NewPlatform(sc *Scene) *Platform {
	return &Platform{scene: sc}
}

// ElementRects returns the reference in viewport coordinates and the
// floating element's size.
func (p *Platform) ElementRects(reference, floating platform.Element, _ platform.Strategy) (platform.ElementRects, error) {
	ref, err := p.Rect(reference)
	if err != nil {
		return platform.ElementRects{}, err
	}
	fl, err := p.Rect(floating)
	if err != nil {
		return platform.ElementRects{}, err
	}
	return platform.ElementRects{Reference: ref, Floating: fl}, nil
}

// ClippingRect intersects the container (or the explicit boundary elements)
// with the root boundary: the window for viewport, the scrolled content for
// document.
func (p *Platform) ClippingRect(params platform.ClippingParams) (geom.Rect, error) {
	clip := p.scene.Container
	if len(params.Elements) > 0 {
		for i, el := range params.Elements {
			r, err := p.Rect(el)
			if err != nil {
				return geom.Rect{}, err
			}
			if i == 0 {
				clip = r
			} else {
				clip = clip.Intersect(r)
			}
		}
	}

	switch params.RootBoundary {
	case platform.RootDocument:
		return clip.Intersect(p.contentRect()), nil
	default:
		if p.scene.Viewport == nil {
			return clip, nil
		}
		return clip.Intersect(*p.scene.Viewport), nil
	}
}

// Rect returns the viewport-space box of a named element.
func (p *Platform) Rect(el platform.Element) (geom.Rect, error) {
	name, ok := el.(string)
	if !ok {
		return geom.Rect{}, errors.New(errors.ErrCodePlatform, "unsupported element handle %s", fmt.Sprintf("%T", el))
	}

	sc := p.scene
	switch name {
	case ElementReference:
		return sc.Reference.Translate(sc.Container.X-sc.Scroll.X, sc.Container.Y-sc.Scroll.Y), nil
	case ElementFloating:
		return geom.At(geom.Coords{}, sc.Floating), nil
	case ElementContainer:
		return sc.Container, nil
	case ElementViewport:
		if sc.Viewport == nil {
			return sc.Container, nil
		}
		return *sc.Viewport, nil
	case ElementContent:
		return p.contentRect(), nil
	}
	return geom.Rect{}, errors.New(errors.ErrCodeNotFound, "unknown element %q", name)
}

func (p *Platform) contentRect() geom.Rect {
	sc := p.scene
	origin := geom.Coords{X: sc.Container.X - sc.Scroll.X, Y: sc.Container.Y - sc.Scroll.Y}
	return geom.At(origin, sc.ContentSize())
}

var _ platform.Platform = (*Platform)(nil)
