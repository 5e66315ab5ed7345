package scene

import (
	"context"
	"math"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/anchor/pkg/errors"
	"github.com/matzehuels/anchor/pkg/geom"
)

// DefaultSweepStep is the scroll increment when SweepOptions.Step is zero.
const DefaultSweepStep = 1.0

// maxSweepSamples bounds the work a single sweep may request.
const maxSweepSamples = 100_000

// SweepOptions configures a scroll sweep.
type SweepOptions struct {
	// Axis is the scroll axis. Defaults to y.
	Axis geom.Axis `json:"axis"`
	// Step is the scroll increment. Defaults to DefaultSweepStep.
	Step float64 `json:"step"`
	// From and To bound the scroll range. A zero or negative To means the
	// maximum scroll offset.
	From float64 `json:"from"`
	To   float64 `json:"to"`
}

// SetDefaults fills in zero-valued fields.
func (o *SweepOptions) SetDefaults() {
	if o.Axis == "" {
		o.Axis = geom.AxisY
	}
	if o.Step == 0 {
		o.Step = DefaultSweepStep
	}
	if o.To == 0 {
		o.To = -1
	}
}

// Run is a maximal range of scroll offsets resolving to one placement.
type Run struct {
	Placement geom.Placement `json:"placement"`
	From      float64        `json:"from"`
	To        float64        `json:"to"`
	Samples   int            `json:"samples"`
}

// SweepResult lists the placement runs in scroll order.
type SweepResult struct {
	Scene   string    `json:"scene,omitempty"`
	Axis    geom.Axis `json:"axis"`
	Runs    []Run     `json:"runs"`
	Samples int       `json:"samples"`
}

// Transitions returns the scroll offsets at which the placement changes:
// the first offset of every run after the first.
func (r *SweepResult) Transitions() []float64 {
	if len(r.Runs) < 2 {
		return nil
	}
	out := make([]float64, 0, len(r.Runs)-1)
	for _, run := range r.Runs[1:] {
		out = append(out, run.From)
	}
	return out
}

// Sweep resolves the scene at every step of the scroll range and groups
// consecutive offsets with the same placement. The scene's own scroll
// offset on the other axis is kept.
func Sweep(ctx context.Context, sc *Scene, opts SweepOptions, logger *log.Logger) (*SweepResult, error) {
	opts.SetDefaults()
	if opts.Axis != geom.AxisX && opts.Axis != geom.AxisY {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid sweep axis %q", opts.Axis)
	}
	if err := errors.ValidateDimension("step", opts.Step); err != nil || opts.Step == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "sweep step must be a positive number")
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	limit := sc.MaxScroll().Get(opts.Axis)
	to := opts.To
	if to < 0 || to > limit {
		to = limit
	}
	from := math.Max(opts.From, 0)
	if from > to {
		return nil, errors.New(errors.ErrCodeInvalidInput, "sweep range %g..%g is empty", from, to)
	}
	n := int(math.Floor((to-from)/opts.Step)) + 1
	if n > maxSweepSamples {
		return nil, errors.New(errors.ErrCodeInvalidInput, "sweep needs %d samples (max %d)", n, maxSweepSamples)
	}

	out := &SweepResult{Scene: sc.Name, Axis: opts.Axis}
	sample := func(offset float64) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := Resolve(ctx, sc.WithScroll(sc.Scroll.Set(opts.Axis, offset)), logger)
		if err != nil {
			return errors.Wrap(errors.GetCodeOr(err, errors.ErrCodeInternal), err, "scroll %s=%g", opts.Axis, offset)
		}
		out.Samples++
		if k := len(out.Runs) - 1; k >= 0 && out.Runs[k].Placement == res.Placement {
			out.Runs[k].To = offset
			out.Runs[k].Samples++
			return nil
		}
		out.Runs = append(out.Runs, Run{Placement: res.Placement, From: offset, To: offset, Samples: 1})
		return nil
	}

	for i := range n {
		if err := sample(from + float64(i)*opts.Step); err != nil {
			return nil, err
		}
	}
	if last := from + float64(n-1)*opts.Step; last < to {
		if err := sample(to); err != nil {
			return nil, err
		}
	}

	if logger != nil {
		logger.Debug("sweep complete", "scene", sc.Name, "axis", opts.Axis, "samples", out.Samples, "runs", len(out.Runs))
	}
	return out, nil
}
