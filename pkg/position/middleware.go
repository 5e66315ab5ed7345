package position

import (
	"maps"

	"github.com/matzehuels/anchor/pkg/geom"
	"github.com/matzehuels/anchor/pkg/platform"
)

// Elements carries the opaque element handles for the current call.
type Elements struct {
	Reference platform.Element
	Floating  platform.Element
}

// Data maps a stage name to the private payload it last returned.
type Data map[string]any

// DataOf returns the payload stored under name if it has type T.
func DataOf[T any](d Data, name string) (T, bool) {
	v, ok := d[name].(T)
	return v, ok
}

// State is the working record threaded through the pipeline. Stages receive
// a copy; mutating it has no effect on the driver.
type State struct {
	X                float64
	Y                float64
	InitialPlacement geom.Placement
	Placement        geom.Placement
	Strategy         platform.Strategy
	Rects            platform.ElementRects
	MiddlewareData   Data
	Platform         platform.Platform
	Elements         Elements
}

// Coords returns the current floating element position.
func (s State) Coords() geom.Coords {
	return geom.Coords{X: s.X, Y: s.Y}
}

// FloatingRect returns the floating element's box at the current position.
func (s State) FloatingRect() geom.Rect {
	return geom.At(s.Coords(), s.Rects.Floating.Size())
}

// Reset asks the driver to restart the pipeline from the first stage.
type Reset struct {
	// Placement, when set, replaces the current placement.
	Placement geom.Placement
	// Rects, when set, replaces the measured rects.
	Rects *platform.ElementRects
	// Remeasure asks the driver to query the platform for fresh rects.
	Remeasure bool
}

// Return is a stage's partial update to the State.
type Return struct {
	// Coords, when set, replaces the current position.
	Coords *geom.Coords
	// Data, when non-nil, is stored in MiddlewareData under the stage name.
	Data any
	// Reset, when set, restarts the pipeline.
	Reset *Reset
}

// Middleware is one stage of the pipeline. Run must be a pure function of
// the State it receives and the stage's own configuration.
type Middleware interface {
	Name() string
	Run(s State) (Return, error)
}

// Validator is implemented by stages that can detect configuration faults
// before the pipeline runs.
type Validator interface {
	Validate() error
}

// Exclusive is implemented by stages that cannot share a pipeline with
// stages of the named kinds.
type Exclusive interface {
	Excludes() []string
}

type funcMiddleware struct {
	name string
	fn   func(State) (Return, error)
}

func (m funcMiddleware) Name() string                { return m.name }
func (m funcMiddleware) Run(s State) (Return, error) { return m.fn(s) }

// MiddlewareFunc adapts a function into a named Middleware.
func MiddlewareFunc(name string, fn func(State) (Return, error)) Middleware {
	return funcMiddleware{name: name, fn: fn}
}

// At is a convenience for building a Return that moves the floating element.
func At(c geom.Coords) *geom.Coords {
	return &c
}

func (s State) clone() State {
	s.MiddlewareData = maps.Clone(s.MiddlewareData)
	return s
}
