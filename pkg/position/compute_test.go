package position

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/matzehuels/anchor/pkg/errors"
	"github.com/matzehuels/anchor/pkg/geom"
	"github.com/matzehuels/anchor/pkg/observability"
	"github.com/matzehuels/anchor/pkg/platform"
)

func newTestPlatform() *platform.Static {
	return platform.NewStatic(
		geom.Rect{X: 100, Y: 100, Width: 50, Height: 20},
		geom.Size{Width: 30, Height: 10},
		geom.Rect{X: 0, Y: 0, Width: 400, Height: 400},
	)
}

func compute(t *testing.T, opts Options) (*Result, error) {
	t.Helper()
	return Compute(context.Background(), newTestPlatform(), "reference", "floating", opts)
}

func TestComputeWithoutMiddleware(t *testing.T) {
	res, err := compute(t, Options{})
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	if res.Placement != geom.PlacementBottom {
		t.Errorf("Placement = %v, want %v", res.Placement, geom.PlacementBottom)
	}
	if res.Strategy != platform.StrategyAbsolute {
		t.Errorf("Strategy = %v, want %v", res.Strategy, platform.StrategyAbsolute)
	}
	if res.X != 110 || res.Y != 120 {
		t.Errorf("coords = (%v,%v), want (110,120)", res.X, res.Y)
	}
	if res.Resets != 0 {
		t.Errorf("Resets = %d, want 0", res.Resets)
	}
}

func TestComputeMergesCoordsAndData(t *testing.T) {
	nudge := MiddlewareFunc("nudge", func(s State) (Return, error) {
		return Return{Coords: At(geom.Coords{X: s.X + 5, Y: s.Y}), Data: "moved"}, nil
	})
	read := MiddlewareFunc("read", func(s State) (Return, error) {
		v, _ := DataOf[string](s.MiddlewareData, "nudge")
		return Return{Data: v + "+seen"}, nil
	})

	res, err := compute(t, Options{Placement: geom.PlacementTop, Middleware: []Middleware{nudge, read}})
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	if res.X != 115 || res.Y != 90 {
		t.Errorf("coords = (%v,%v), want (115,90)", res.X, res.Y)
	}
	if got, _ := DataOf[string](res.MiddlewareData, "read"); got != "moved+seen" {
		t.Errorf("read data = %q, want %q", got, "moved+seen")
	}
}

func TestComputeResetRestartsPipeline(t *testing.T) {
	var firstRuns, secondRuns int
	first := MiddlewareFunc("first", func(s State) (Return, error) {
		firstRuns++
		return Return{}, nil
	})
	flipper := MiddlewareFunc("flipper", func(s State) (Return, error) {
		secondRuns++
		if s.Placement != geom.PlacementTop {
			return Return{Reset: &Reset{Placement: geom.PlacementTop}}, nil
		}
		return Return{}, nil
	})

	res, err := compute(t, Options{Middleware: []Middleware{first, flipper}})
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	if res.Placement != geom.PlacementTop {
		t.Errorf("Placement = %v, want top", res.Placement)
	}
	if res.X != 110 || res.Y != 90 {
		t.Errorf("coords = (%v,%v), want the top projection (110,90)", res.X, res.Y)
	}
	if res.Resets != 1 {
		t.Errorf("Resets = %d, want 1", res.Resets)
	}
	if firstRuns != 2 || secondRuns != 2 {
		t.Errorf("runs = (%d,%d), want (2,2)", firstRuns, secondRuns)
	}
}

func TestComputeResetWithRects(t *testing.T) {
	grown := platform.ElementRects{
		Reference: geom.Rect{X: 0, Y: 0, Width: 10, Height: 10},
		Floating:  geom.Rect{Width: 4, Height: 4},
	}
	swap := MiddlewareFunc("swap", func(s State) (Return, error) {
		if s.Rects.Reference.Width != 10 {
			return Return{Reset: &Reset{Rects: &grown}}, nil
		}
		return Return{}, nil
	})

	res, err := compute(t, Options{Middleware: []Middleware{swap}})
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	if res.X != 3 || res.Y != 10 {
		t.Errorf("coords = (%v,%v), want (3,10)", res.X, res.Y)
	}
}

func TestComputeDivergence(t *testing.T) {
	var runs int
	pingPong := MiddlewareFunc("pingPong", func(s State) (Return, error) {
		runs++
		return Return{Reset: &Reset{Placement: s.Placement.Opposite()}}, nil
	})

	_, err := compute(t, Options{Middleware: []Middleware{pingPong}, MaxResets: 3})
	if !errors.Is(err, errors.ErrCodePipelineDiverged) {
		t.Fatalf("error = %v, want PIPELINE_DIVERGED", err)
	}
	if runs != 4 {
		t.Errorf("runs = %d, want 4", runs)
	}
}

func TestComputeConfigurationFaults(t *testing.T) {
	noop := MiddlewareFunc("noop", func(State) (Return, error) { return Return{}, nil })

	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{
			name: "invalid placement",
			opts: Options{Placement: "middle"},
			code: errors.ErrCodeInvalidPlacement,
		},
		{
			name: "invalid strategy",
			opts: Options{Strategy: "sticky"},
			code: errors.ErrCodeInvalidConfig,
		},
		{
			name: "negative max resets",
			opts: Options{MaxResets: -1},
			code: errors.ErrCodeInvalidConfig,
		},
		{
			name: "duplicate stage",
			opts: Options{Middleware: []Middleware{noop, noop}},
			code: errors.ErrCodeInvalidConfig,
		},
		{
			name: "nil stage",
			opts: Options{Middleware: []Middleware{nil}},
			code: errors.ErrCodeInvalidConfig,
		},
		{
			name: "typed nil stage",
			opts: Options{Middleware: []Middleware{(*pointerStage)(nil)}},
			code: errors.ErrCodeInvalidConfig,
		},
		{
			name: "failing validator",
			opts: Options{Middleware: []Middleware{invalidStage{}}},
			code: errors.ErrCodeInvalidConfig,
		},
		{
			name: "exclusive stages",
			opts: Options{Middleware: []Middleware{exclusiveStage{}, MiddlewareFunc("rival", noop.Run)}},
			code: errors.ErrCodeInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compute(t, tt.opts)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %v", err, tt.code)
			}
		})
	}
}

func TestComputeInvalidResetPlacement(t *testing.T) {
	bad := MiddlewareFunc("bad", func(State) (Return, error) {
		return Return{Reset: &Reset{Placement: "sideways"}}, nil
	})
	if _, err := compute(t, Options{Middleware: []Middleware{bad}}); !errors.Is(err, errors.ErrCodeInvalidPlacement) {
		t.Errorf("error = %v, want INVALID_PLACEMENT", err)
	}
}

func TestComputeStageError(t *testing.T) {
	cause := stderrors.New("boom")
	failing := MiddlewareFunc("failing", func(State) (Return, error) { return Return{}, cause })

	_, err := compute(t, Options{Middleware: []Middleware{failing}})
	if !stderrors.Is(err, cause) {
		t.Errorf("error = %v, want it to wrap %v", err, cause)
	}
	if !errors.Is(err, errors.ErrCodeInternal) {
		t.Errorf("code = %v, want INTERNAL_ERROR", errors.GetCode(err))
	}
}

func TestComputePlatformErrors(t *testing.T) {
	_, err := Compute(context.Background(), nil, "reference", "floating", Options{})
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("nil platform error = %v, want INVALID_CONFIG", err)
	}

	_, err = Compute(context.Background(), newTestPlatform(), "reference", "ghost", Options{})
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("unknown element error = %v, want NOT_FOUND", err)
	}

	p := newTestPlatform()
	p.Rects["floating"] = geom.Rect{Width: -5, Height: 5}
	_, err = Compute(context.Background(), p, "reference", "floating", Options{})
	if !errors.Is(err, errors.ErrCodeInvalidGeometry) {
		t.Errorf("negative width error = %v, want INVALID_GEOMETRY", err)
	}
}

func TestComputeCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	noop := MiddlewareFunc("noop", func(State) (Return, error) { return Return{}, nil })
	_, err := Compute(ctx, newTestPlatform(), "reference", "floating", Options{Middleware: []Middleware{noop}})
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestComputeNilContext(t *testing.T) {
	rec := &recordingHooks{}
	observability.SetPipelineHooks(rec)
	defer observability.Reset()

	var ctx context.Context
	noop := MiddlewareFunc("noop", func(State) (Return, error) { return Return{}, nil })
	res, err := Compute(ctx, newTestPlatform(), "reference", "floating", Options{Middleware: []Middleware{noop}})
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	if res.Placement != geom.PlacementBottom {
		t.Errorf("placement = %v, want bottom", res.Placement)
	}
	if rec.nilCtx || rec.completes != 1 {
		t.Errorf("hooks saw nil context = %v, completes = %d", rec.nilCtx, rec.completes)
	}
}

func TestComputeStagesCannotMutateDriverState(t *testing.T) {
	vandal := MiddlewareFunc("vandal", func(s State) (Return, error) {
		s.MiddlewareData["planted"] = true
		return Return{}, nil
	})
	res, err := compute(t, Options{Middleware: []Middleware{vandal}})
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	if _, ok := res.MiddlewareData["planted"]; ok {
		t.Error("stage mutation of MiddlewareData leaked into the result")
	}
}

func TestComputeEmitsHooks(t *testing.T) {
	rec := &recordingHooks{}
	observability.SetPipelineHooks(rec)
	defer observability.Reset()

	once := MiddlewareFunc("once", func(s State) (Return, error) {
		if s.Placement == geom.PlacementBottom {
			return Return{Reset: &Reset{Placement: geom.PlacementLeft}}, nil
		}
		return Return{}, nil
	})
	if _, err := compute(t, Options{Middleware: []Middleware{once}}); err != nil {
		t.Fatalf("Compute error: %v", err)
	}

	if rec.starts != 1 || rec.completes != 1 {
		t.Errorf("starts/completes = %d/%d, want 1/1", rec.starts, rec.completes)
	}
	if len(rec.resets) != 1 || rec.resets[0] != "bottom->left" {
		t.Errorf("resets = %v, want [bottom->left]", rec.resets)
	}
	if rec.final != "left" {
		t.Errorf("final placement = %q, want left", rec.final)
	}
}

type invalidStage struct{}

func (invalidStage) Name() string              { return "invalid" }
func (invalidStage) Run(State) (Return, error) { return Return{}, nil }
func (invalidStage) Validate() error           { return stderrors.New("misconfigured") }

type pointerStage struct{ name string }

func (s *pointerStage) Name() string              { return s.name }
func (s *pointerStage) Run(State) (Return, error) { return Return{}, nil }

type exclusiveStage struct{}

func (exclusiveStage) Name() string              { return "exclusive" }
func (exclusiveStage) Run(State) (Return, error) { return Return{}, nil }
func (exclusiveStage) Excludes() []string        { return []string{"rival"} }

type recordingHooks struct {
	observability.NoopPipelineHooks
	starts, completes int
	resets            []string
	final             string
	nilCtx            bool
}

func (r *recordingHooks) OnComputeStart(ctx context.Context, _ string, _ int) {
	r.starts++
	r.nilCtx = r.nilCtx || ctx == nil
}

func (r *recordingHooks) OnReset(_ context.Context, _ string, from, to string, _ int) {
	r.resets = append(r.resets, from+"->"+to)
}

func (r *recordingHooks) OnComputeComplete(ctx context.Context, placement string, _ int, _ time.Duration, _ error) {
	r.completes++
	r.nilCtx = r.nilCtx || ctx == nil
	r.final = placement
}
