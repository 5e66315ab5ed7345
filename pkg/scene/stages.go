package scene

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"

	"github.com/matzehuels/anchor/pkg/errors"
	"github.com/matzehuels/anchor/pkg/geom"
	"github.com/matzehuels/anchor/pkg/platform"
	"github.com/matzehuels/anchor/pkg/position"
	"github.com/matzehuels/anchor/pkg/position/middleware"
)

// StageBuilder turns a stage's decoded options into a stage.
type StageBuilder func(options map[string]any) (position.Middleware, error)

var builders = map[string]StageBuilder{
	middleware.AutoPlacementName: buildAutoPlacement,
	middleware.OffsetName:        buildOffset,
	middleware.ShiftName:         buildShift,
	middleware.FlipName:          buildFlip,
	middleware.SizeName:          buildSize,
	middleware.HideName:          buildHide,
}

// StageTypes returns the known stage type names, sorted.
func StageTypes() []string {
	return slices.Sorted(maps.Keys(builders))
}

// BuildStages builds the pipeline described by specs, in order.
func BuildStages(specs []StageSpec) ([]position.Middleware, error) {
	stages := make([]position.Middleware, 0, len(specs))
	for i, spec := range specs {
		build, ok := builders[spec.Type]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidScene, "middleware[%d]: unknown stage type %q", i, spec.Type)
		}
		m, err := build(spec.Options)
		if err != nil {
			return nil, errors.Wrap(errors.GetCodeOr(err, errors.ErrCodeInvalidScene), err, "middleware[%d] (%s)", i, spec.Type)
		}
		stages = append(stages, m)
	}
	return stages, nil
}

// decodeOptions re-encodes a generic option map into a typed struct,
// rejecting unknown keys.
func decodeOptions(options map[string]any, dst any) error {
	if len(options) == 0 {
		return nil
	}
	data, err := json.Marshal(options)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidScene, err, "encode options")
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidScene, err, "decode options")
	}
	return nil
}

// padding accepts a number or a per-side object.
type padding geom.Padding

func (p *padding) UnmarshalJSON(b []byte) error {
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		*p = padding(geom.Uniform(n))
		return nil
	}
	var sides geom.SideObject
	if err := json.Unmarshal(b, &sides); err != nil {
		return err
	}
	*p = padding(sides)
	return nil
}

type overflowSpec struct {
	Padding        padding    `json:"padding"`
	Boundary       []string   `json:"boundary"`
	BoundaryRect   *geom.Rect `json:"boundaryRect"`
	RootBoundary   string     `json:"rootBoundary"`
	ElementContext string     `json:"elementContext"`
	AltBoundary    bool       `json:"altBoundary"`
}

func (o overflowSpec) options() (position.OverflowOptions, error) {
	opts := position.OverflowOptions{
		Boundary:    o.BoundaryRect,
		Padding:     geom.Padding(o.Padding),
		AltBoundary: o.AltBoundary,
	}
	for _, name := range o.Boundary {
		opts.BoundaryElements = append(opts.BoundaryElements, name)
	}

	switch root := platform.RootBoundary(o.RootBoundary); root {
	case "", platform.RootViewport, platform.RootDocument:
		opts.RootBoundary = root
	default:
		return opts, errors.New(errors.ErrCodeInvalidConfig, "invalid rootBoundary %q", o.RootBoundary)
	}
	switch ctx := position.ElementContext(o.ElementContext); ctx {
	case "", position.ContextFloating, position.ContextReference:
		opts.ElementContext = ctx
	default:
		return opts, errors.New(errors.ErrCodeInvalidConfig, "invalid elementContext %q", o.ElementContext)
	}
	return opts, nil
}

func buildAutoPlacement(options map[string]any) (position.Middleware, error) {
	var spec struct {
		overflowSpec
		Alignment         string   `json:"alignment"`
		AllowedPlacements []string `json:"allowedPlacements"`
		AutoAlignment     bool     `json:"autoAlignment"`
		CrossAxis         bool     `json:"crossAxis"`
	}
	if err := decodeOptions(options, &spec); err != nil {
		return nil, err
	}
	detect, err := spec.options()
	if err != nil {
		return nil, err
	}
	align, err := geom.ParseAlignment(spec.Alignment)
	if err != nil {
		return nil, err
	}
	opts := middleware.AutoPlacementOptions{
		Alignment:       align,
		AutoAlignment:   spec.AutoAlignment,
		CrossAxis:       spec.CrossAxis,
		OverflowOptions: detect,
	}
	if spec.AllowedPlacements != nil {
		if opts.AllowedPlacements, err = geom.ParsePlacements(spec.AllowedPlacements); err != nil {
			return nil, err
		}
	}
	return middleware.NewAutoPlacement(opts)
}

func buildOffset(options map[string]any) (position.Middleware, error) {
	var opts middleware.OffsetOptions
	if err := decodeOptions(options, &opts); err != nil {
		return nil, err
	}
	return middleware.OffsetWith(opts), nil
}

func buildShift(options map[string]any) (position.Middleware, error) {
	var spec struct {
		overflowSpec
		MainAxis  *bool `json:"mainAxis"`
		CrossAxis bool  `json:"crossAxis"`
	}
	if err := decodeOptions(options, &spec); err != nil {
		return nil, err
	}
	detect, err := spec.options()
	if err != nil {
		return nil, err
	}
	return middleware.Shift(middleware.ShiftOptions{
		MainAxis:        spec.MainAxis,
		CrossAxis:       spec.CrossAxis,
		OverflowOptions: detect,
	}), nil
}

func buildFlip(options map[string]any) (position.Middleware, error) {
	var spec struct {
		overflowSpec
		MainAxis           *bool    `json:"mainAxis"`
		CrossAxis          *bool    `json:"crossAxis"`
		FallbackPlacements []string `json:"fallbackPlacements"`
		FlipAlignment      *bool    `json:"flipAlignment"`
		FallbackStrategy   string   `json:"fallbackStrategy"`
	}
	if err := decodeOptions(options, &spec); err != nil {
		return nil, err
	}
	detect, err := spec.options()
	if err != nil {
		return nil, err
	}
	opts := middleware.FlipOptions{
		MainAxis:         spec.MainAxis,
		CrossAxis:        spec.CrossAxis,
		FlipAlignment:    spec.FlipAlignment,
		FallbackStrategy: middleware.FallbackStrategy(spec.FallbackStrategy),
		OverflowOptions:  detect,
	}
	if spec.FallbackPlacements != nil {
		if opts.FallbackPlacements, err = geom.ParsePlacements(spec.FallbackPlacements); err != nil {
			return nil, err
		}
	}
	return middleware.Flip(opts), nil
}

func buildSize(options map[string]any) (position.Middleware, error) {
	var spec struct {
		overflowSpec
		Fit       bool    `json:"fit"`
		MinWidth  float64 `json:"minWidth"`
		MinHeight float64 `json:"minHeight"`
	}
	if err := decodeOptions(options, &spec); err != nil {
		return nil, err
	}
	detect, err := spec.options()
	if err != nil {
		return nil, err
	}
	return middleware.Size(middleware.SizeOptions{
		Fit:             spec.Fit,
		MinWidth:        spec.MinWidth,
		MinHeight:       spec.MinHeight,
		OverflowOptions: detect,
	}), nil
}

func buildHide(options map[string]any) (position.Middleware, error) {
	var spec struct {
		overflowSpec
		Strategy string `json:"strategy"`
	}
	if err := decodeOptions(options, &spec); err != nil {
		return nil, err
	}
	detect, err := spec.options()
	if err != nil {
		return nil, err
	}
	return middleware.Hide(middleware.HideOptions{
		Strategy:        middleware.HideStrategy(spec.Strategy),
		OverflowOptions: detect,
	}), nil
}
