package position

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/anchor/pkg/errors"
	"github.com/matzehuels/anchor/pkg/geom"
	"github.com/matzehuels/anchor/pkg/observability"
	"github.com/matzehuels/anchor/pkg/platform"
)

// Result is the outcome of a Compute call.
type Result struct {
	X              float64           `json:"x"`
	Y              float64           `json:"y"`
	Placement      geom.Placement    `json:"placement"`
	Strategy       platform.Strategy `json:"strategy"`
	MiddlewareData Data              `json:"middlewareData"`

	// Resets is the number of pipeline restarts the call needed.
	Resets int `json:"resets"`
	// Rects are the rects the final pass ran against.
	Rects platform.ElementRects `json:"rects"`
}

// Coords returns the resolved position.
func (r *Result) Coords() geom.Coords {
	return geom.Coords{X: r.X, Y: r.Y}
}

// Compute resolves the floating element's position. The call is synchronous
// and holds no state across invocations; ctx is only checked between stage
// runs and passed to observability hooks. A nil ctx means
// context.Background().
func Compute(ctx context.Context, p platform.Platform, reference, floating platform.Element, opts Options) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if p == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "platform is required")
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnComputeStart(ctx, string(opts.Placement), len(opts.Middleware))

	d := &driver{
		ctx:      ctx,
		platform: p,
		elements: Elements{Reference: reference, Floating: floating},
		opts:     opts,
		logger:   opts.Logger,
	}
	res, err := d.run()

	placement := string(opts.Placement)
	if res != nil {
		placement = string(res.Placement)
	}
	hooks.OnComputeComplete(ctx, placement, d.resets, time.Since(start), err)
	return res, err
}

type driver struct {
	ctx      context.Context
	platform platform.Platform
	elements Elements
	opts     Options
	logger   *log.Logger
	resets   int
}

func (d *driver) measure() (platform.ElementRects, error) {
	rects, err := d.platform.ElementRects(d.elements.Reference, d.elements.Floating, d.opts.Strategy)
	if err != nil {
		if errors.GetCode(err) != "" {
			return platform.ElementRects{}, err
		}
		return platform.ElementRects{}, errors.Wrap(errors.ErrCodePlatform, err, "measure elements")
	}
	if err := rects.Validate(); err != nil {
		return platform.ElementRects{}, err
	}
	return rects, nil
}

func (d *driver) run() (*Result, error) {
	rects, err := d.measure()
	if err != nil {
		return nil, err
	}

	state := State{
		InitialPlacement: d.opts.Placement,
		Placement:        d.opts.Placement,
		Strategy:         d.opts.Strategy,
		Rects:            rects,
		MiddlewareData:   Data{},
		Platform:         d.platform,
		Elements:         d.elements,
	}
	state.setCoords(geom.ComputeCoords(state.Placement, rects.Reference, rects.Floating.Size()))

	stages := d.opts.Middleware
	for i := 0; i < len(stages); i++ {
		if err := d.ctx.Err(); err != nil {
			return nil, err
		}

		m := stages[i]
		ret, err := m.Run(state.clone())
		if err != nil {
			return nil, errors.Wrap(errors.GetCodeOr(err, errors.ErrCodeInternal), err, "middleware %q", m.Name())
		}

		if ret.Coords != nil {
			state.setCoords(*ret.Coords)
		}
		if ret.Data != nil {
			state.MiddlewareData[m.Name()] = ret.Data
		}
		if ret.Reset == nil {
			continue
		}

		d.resets++
		if d.resets > d.opts.MaxResets {
			return nil, errors.New(errors.ErrCodePipelineDiverged,
				"pipeline exceeded %d resets (last requested by %q)", d.opts.MaxResets, m.Name())
		}
		if err := d.applyReset(&state, m.Name(), *ret.Reset); err != nil {
			return nil, err
		}
		i = -1
	}

	d.logger.Debug("computed position",
		"placement", state.Placement,
		"x", state.X,
		"y", state.Y,
		"resets", d.resets)

	return &Result{
		X:              state.X,
		Y:              state.Y,
		Placement:      state.Placement,
		Strategy:       state.Strategy,
		MiddlewareData: state.MiddlewareData,
		Resets:         d.resets,
		Rects:          state.Rects,
	}, nil
}

func (d *driver) applyReset(state *State, stage string, r Reset) error {
	from := state.Placement
	if r.Placement != "" {
		if !r.Placement.Valid() {
			return errors.New(errors.ErrCodeInvalidPlacement, "middleware %q requested invalid placement %q", stage, r.Placement)
		}
		state.Placement = r.Placement
	}

	switch {
	case r.Rects != nil:
		if err := r.Rects.Validate(); err != nil {
			return err
		}
		state.Rects = *r.Rects
	case r.Remeasure:
		rects, err := d.measure()
		if err != nil {
			return err
		}
		state.Rects = rects
	}

	state.setCoords(geom.ComputeCoords(state.Placement, state.Rects.Reference, state.Rects.Floating.Size()))

	d.logger.Debug("pipeline reset",
		"stage", stage,
		"from", from,
		"to", state.Placement,
		"count", d.resets)
	observability.Pipeline().OnReset(d.ctx, stage, string(from), string(state.Placement), d.resets)
	return nil
}

func (s *State) setCoords(c geom.Coords) {
	s.X, s.Y = c.X, c.Y
}
