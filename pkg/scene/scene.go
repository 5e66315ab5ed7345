package scene

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/anchor/pkg/errors"
	"github.com/matzehuels/anchor/pkg/geom"
	"github.com/matzehuels/anchor/pkg/platform"
	"github.com/matzehuels/anchor/pkg/position"
)

// Scene is a scroll-container fixture.
type Scene struct {
	Name      string            `json:"name,omitempty" toml:"name,omitempty" yaml:"name,omitempty"`
	Placement geom.Placement    `json:"placement,omitempty" toml:"placement,omitempty" yaml:"placement,omitempty"`
	Strategy  platform.Strategy `json:"strategy,omitempty" toml:"strategy,omitempty" yaml:"strategy,omitempty"`
	MaxResets int               `json:"maxResets,omitempty" toml:"maxResets,omitempty" yaml:"maxResets,omitempty"`

	// Viewport is the window, in viewport coordinates. Nil means the
	// container is the only clipping region.
	Viewport *geom.Rect `json:"viewport,omitempty" toml:"viewport,omitempty" yaml:"viewport,omitempty"`
	// Container is the scroll container's visible box in viewport coordinates.
	Container geom.Rect `json:"container" toml:"container" yaml:"container"`
	// Content is the scrollable size. Nil means the container's size.
	Content *geom.Size `json:"content,omitempty" toml:"content,omitempty" yaml:"content,omitempty"`
	// Scroll is the container's scrollLeft/scrollTop.
	Scroll geom.Coords `json:"scroll" toml:"scroll" yaml:"scroll"`

	// Reference is in content coordinates.
	Reference geom.Rect `json:"reference" toml:"reference" yaml:"reference"`
	Floating  geom.Size `json:"floating" toml:"floating" yaml:"floating"`

	Middleware []StageSpec `json:"middleware,omitempty" toml:"middleware,omitempty" yaml:"middleware,omitempty"`
}

// StageSpec names a stage type and its options.
type StageSpec struct {
	Type    string         `json:"type" toml:"type" yaml:"type"`
	Options map[string]any `json:"options,omitempty" toml:"options,omitempty" yaml:"options,omitempty"`
}

// ContentSize returns the scrollable size.
func (s *Scene) ContentSize() geom.Size {
	if s.Content == nil {
		return s.Container.Size()
	}
	return *s.Content
}

// MaxScroll returns the largest scroll offset on each axis.
func (s *Scene) MaxScroll() geom.Coords {
	content := s.ContentSize()
	return geom.Coords{
		X: max(content.Width-s.Container.Width, 0),
		Y: max(content.Height-s.Container.Height, 0),
	}
}

// WithScroll returns a copy of the scene scrolled to c.
func (s *Scene) WithScroll(c geom.Coords) *Scene {
	out := *s
	out.Scroll = c
	return &out
}

// Validate checks geometry, placement, strategy and scroll range. Stage
// options are checked by Options.
func (s *Scene) Validate() error {
	if s.Placement != "" && !s.Placement.Valid() {
		return errors.New(errors.ErrCodeInvalidPlacement, "invalid placement %q", s.Placement)
	}
	if _, err := platform.ParseStrategy(string(s.Strategy)); err != nil {
		return err
	}
	if s.MaxResets < 0 {
		return errors.New(errors.ErrCodeInvalidScene, "maxResets must not be negative")
	}
	if s.Viewport != nil {
		if err := s.Viewport.Validate("viewport"); err != nil {
			return err
		}
	}
	if err := s.Container.Validate("container"); err != nil {
		return err
	}
	if s.Content != nil {
		if err := s.Content.Validate("content"); err != nil {
			return err
		}
	}
	if err := s.Reference.Validate("reference"); err != nil {
		return err
	}
	if err := s.Floating.Validate("floating"); err != nil {
		return err
	}

	if err := errors.ValidateCoordinate("scroll.x", s.Scroll.X); err != nil {
		return err
	}
	if err := errors.ValidateCoordinate("scroll.y", s.Scroll.Y); err != nil {
		return err
	}
	limit := s.MaxScroll()
	if s.Scroll.X < 0 || s.Scroll.X > limit.X || s.Scroll.Y < 0 || s.Scroll.Y > limit.Y {
		return errors.New(errors.ErrCodeInvalidScene,
			"scroll (%g,%g) outside range (0..%g, 0..%g)", s.Scroll.X, s.Scroll.Y, limit.X, limit.Y)
	}
	return nil
}

// Options validates the scene and builds engine options from it.
func (s *Scene) Options(logger *log.Logger) (position.Options, error) {
	if err := s.Validate(); err != nil {
		return position.Options{}, err
	}
	stages, err := BuildStages(s.Middleware)
	if err != nil {
		return position.Options{}, err
	}
	return position.Options{
		Placement:  s.Placement,
		Strategy:   s.Strategy,
		Middleware: stages,
		MaxResets:  s.MaxResets,
		Logger:     logger,
	}, nil
}
