package middleware

import (
	"context"
	"testing"

	"github.com/matzehuels/anchor/pkg/errors"
	"github.com/matzehuels/anchor/pkg/geom"
	"github.com/matzehuels/anchor/pkg/platform"
	"github.com/matzehuels/anchor/pkg/position"
)

var viewport = geom.Rect{Width: 1000, Height: 1000}

func scene(reference geom.Rect, floating geom.Size) *platform.Static {
	return platform.NewStatic(reference, floating, viewport)
}

func computeErr(p platform.Platform, placement geom.Placement, stages ...position.Middleware) (*position.Result, error) {
	return position.Compute(context.Background(), p, "reference", "floating", position.Options{
		Placement:  placement,
		Middleware: stages,
	})
}

func compute(t *testing.T, p platform.Platform, placement geom.Placement, stages ...position.Middleware) *position.Result {
	t.Helper()
	res, err := computeErr(p, placement, stages...)
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	return res
}

func TestOffset(t *testing.T) {
	p := platform.NewStatic(
		geom.Rect{X: 100, Y: 100, Width: 50, Height: 20},
		geom.Size{Width: 30, Height: 10},
		viewport,
	)
	five := 5.0

	tests := []struct {
		name      string
		placement geom.Placement
		opts      OffsetOptions
		want      geom.Coords
	}{
		{"top", geom.PlacementTop, OffsetOptions{MainAxis: 10}, geom.Coords{X: 110, Y: 80}},
		{"bottom", geom.PlacementBottom, OffsetOptions{MainAxis: 10}, geom.Coords{X: 110, Y: 130}},
		{"right", geom.PlacementRight, OffsetOptions{MainAxis: 10}, geom.Coords{X: 160, Y: 105}},
		{"left", geom.PlacementLeft, OffsetOptions{MainAxis: 10}, geom.Coords{X: 60, Y: 105}},
		{"cross axis", geom.PlacementBottom, OffsetOptions{CrossAxis: 4}, geom.Coords{X: 114, Y: 120}},
		{"alignment axis end", geom.PlacementTopEnd, OffsetOptions{CrossAxis: 4, AlignmentAxis: &five}, geom.Coords{X: 115, Y: 90}},
		{"alignment axis ignored unaligned", geom.PlacementTop, OffsetOptions{CrossAxis: 4, AlignmentAxis: &five}, geom.Coords{X: 114, Y: 90}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := compute(t, p, tt.placement, OffsetWith(tt.opts))
			if got := res.Coords(); got != tt.want {
				t.Errorf("coords = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOffsetData(t *testing.T) {
	p := scene(geom.Rect{X: 100, Y: 100, Width: 50, Height: 20}, geom.Size{Width: 30, Height: 10})
	res := compute(t, p, geom.PlacementTop, Offset(10))

	data, ok := position.DataOf[OffsetData](res.MiddlewareData, OffsetName)
	if !ok {
		t.Fatal("offset data missing")
	}
	want := OffsetData{X: 0, Y: -10, Placement: geom.PlacementTop}
	if data != want {
		t.Errorf("data = %+v, want %+v", data, want)
	}
}

func TestShift(t *testing.T) {
	reference := geom.Rect{X: 0, Y: 100, Width: 20, Height: 20}
	floating := geom.Size{Width: 100, Height: 20}

	tests := []struct {
		name  string
		opts  ShiftOptions
		wantX float64
	}{
		{"default", ShiftOptions{}, 0},
		{"padding", ShiftOptions{OverflowOptions: position.OverflowOptions{Padding: geom.Uniform(5)}}, 5},
		{"main axis disabled", ShiftOptions{MainAxis: Bool(false)}, -40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := compute(t, scene(reference, floating), geom.PlacementBottom, Shift(tt.opts))
			if res.X != tt.wantX || res.Y != 120 {
				t.Errorf("coords = (%v,%v), want (%v,120)", res.X, res.Y, tt.wantX)
			}
		})
	}
}

func TestShiftData(t *testing.T) {
	p := scene(geom.Rect{X: 0, Y: 100, Width: 20, Height: 20}, geom.Size{Width: 100, Height: 20})
	res := compute(t, p, geom.PlacementBottom, Shift(ShiftOptions{}))

	data, _ := position.DataOf[ShiftData](res.MiddlewareData, ShiftName)
	if data.X != 40 || data.Y != 0 {
		t.Errorf("shift = (%v,%v), want (40,0)", data.X, data.Y)
	}
	if data.Enabled != (ShiftEnabled{X: true}) {
		t.Errorf("enabled = %+v, want x only", data.Enabled)
	}
}

func TestShiftCrossAxis(t *testing.T) {
	// Bottom placement overflowing the viewport bottom; cross-axis shift
	// pulls it back up over the reference.
	p := scene(geom.Rect{X: 500, Y: 960, Width: 20, Height: 20}, geom.Size{Width: 40, Height: 50})

	res := compute(t, p, geom.PlacementBottom, Shift(ShiftOptions{CrossAxis: true}))
	if res.Y != 950 {
		t.Errorf("y = %v, want 950", res.Y)
	}
	data, _ := position.DataOf[ShiftData](res.MiddlewareData, ShiftName)
	if data.Enabled != (ShiftEnabled{X: true, Y: true}) {
		t.Errorf("enabled = %+v, want both", data.Enabled)
	}
}

func TestFlip(t *testing.T) {
	t.Run("keeps fitting placement", func(t *testing.T) {
		p := scene(geom.Rect{X: 100, Y: 100, Width: 50, Height: 10}, geom.Size{Width: 30, Height: 40})
		res := compute(t, p, geom.PlacementBottom, Flip(FlipOptions{}))
		if res.Placement != geom.PlacementBottom || res.Resets != 0 {
			t.Errorf("placement = %v resets = %d, want bottom with no resets", res.Placement, res.Resets)
		}
	})

	t.Run("flips to opposite side", func(t *testing.T) {
		p := scene(geom.Rect{X: 100, Y: 980, Width: 50, Height: 10}, geom.Size{Width: 30, Height: 40})
		res := compute(t, p, geom.PlacementBottom, Flip(FlipOptions{}))
		if res.Placement != geom.PlacementTop {
			t.Fatalf("placement = %v, want top", res.Placement)
		}
		if res.Y != 940 {
			t.Errorf("y = %v, want 940", res.Y)
		}
		data, _ := position.DataOf[FlipData](res.MiddlewareData, FlipName)
		if data.Index != 1 || len(data.Overflows) != 1 || data.Overflows[0].Placement != geom.PlacementBottom {
			t.Errorf("flip data = %+v", data)
		}
	})

	t.Run("best fit when nothing fits", func(t *testing.T) {
		p := platform.NewStatic(
			geom.Rect{X: 40, Y: 40, Width: 20, Height: 20},
			geom.Size{Width: 30, Height: 60},
			geom.Rect{Width: 100, Height: 100},
		)
		res := compute(t, p, geom.PlacementBottom, Flip(FlipOptions{}))
		if res.Placement != geom.PlacementBottom {
			t.Errorf("placement = %v, want bottom", res.Placement)
		}
		if res.Resets != 2 {
			t.Errorf("resets = %d, want 2", res.Resets)
		}
	})

	t.Run("initial placement strategy", func(t *testing.T) {
		p := platform.NewStatic(
			geom.Rect{X: 40, Y: 10, Width: 20, Height: 20},
			geom.Size{Width: 30, Height: 80},
			geom.Rect{Width: 100, Height: 100},
		)
		res := compute(t, p, geom.PlacementTop, Flip(FlipOptions{FallbackStrategy: FallbackInitial}))
		if res.Placement != geom.PlacementTop {
			t.Errorf("placement = %v, want top", res.Placement)
		}
	})
}

func TestFlipPlacements(t *testing.T) {
	tests := []struct {
		name    string
		opts    FlipOptions
		initial geom.Placement
		want    []geom.Placement
	}{
		{"side", FlipOptions{}, geom.PlacementTop, []geom.Placement{geom.PlacementTop, geom.PlacementBottom}},
		{
			"aligned", FlipOptions{}, geom.PlacementTopStart,
			[]geom.Placement{geom.PlacementTopStart, geom.PlacementTopEnd, geom.PlacementBottomStart, geom.PlacementBottomEnd},
		},
		{
			"no alignment flip", FlipOptions{FlipAlignment: Bool(false)}, geom.PlacementTopStart,
			[]geom.Placement{geom.PlacementTopStart, geom.PlacementBottomStart},
		},
		{
			"explicit", FlipOptions{FallbackPlacements: []geom.Placement{geom.PlacementRight, geom.PlacementLeft}}, geom.PlacementTop,
			[]geom.Placement{geom.PlacementTop, geom.PlacementRight, geom.PlacementLeft},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.opts.Placements(tt.initial)
			if !equalPlacements(got, tt.want) {
				t.Errorf("Placements(%v) = %v, want %v", tt.initial, got, tt.want)
			}
		})
	}
}

func TestSize(t *testing.T) {
	reference := geom.Rect{X: 100, Y: 100, Width: 50, Height: 20}
	boundary := geom.Rect{Width: 400, Height: 400}

	t.Run("available space", func(t *testing.T) {
		p := platform.NewStatic(reference, geom.Size{Width: 30, Height: 10}, boundary)
		res := compute(t, p, geom.PlacementBottom, Size(SizeOptions{}))
		data, _ := position.DataOf[SizeData](res.MiddlewareData, SizeName)
		if data.AvailableHeight != 280 || data.AvailableWidth != 250 {
			t.Errorf("available = %vx%v, want 250x280", data.AvailableWidth, data.AvailableHeight)
		}
	})

	t.Run("after shift", func(t *testing.T) {
		p := platform.NewStatic(reference, geom.Size{Width: 30, Height: 10}, boundary)
		res := compute(t, p, geom.PlacementBottom, Shift(ShiftOptions{}), Size(SizeOptions{}))
		data, _ := position.DataOf[SizeData](res.MiddlewareData, SizeName)
		if data.AvailableWidth != 400 {
			t.Errorf("available width = %v, want 400", data.AvailableWidth)
		}
	})

	t.Run("fit shrinks and resets", func(t *testing.T) {
		p := platform.NewStatic(reference, geom.Size{Width: 30, Height: 300}, boundary)
		res := compute(t, p, geom.PlacementBottom, Size(SizeOptions{Fit: true}))
		if res.Rects.Floating.Height != 280 {
			t.Errorf("floating height = %v, want 280", res.Rects.Floating.Height)
		}
		if res.Resets != 1 {
			t.Errorf("resets = %d, want 1", res.Resets)
		}
		data, _ := position.DataOf[SizeData](res.MiddlewareData, SizeName)
		if !data.Fitted {
			t.Error("Fitted = false, want true")
		}
	})

	t.Run("min height", func(t *testing.T) {
		p := platform.NewStatic(reference, geom.Size{Width: 30, Height: 300}, boundary)
		res := compute(t, p, geom.PlacementBottom, Size(SizeOptions{Fit: true, MinHeight: 290}))
		if res.Rects.Floating.Height != 290 {
			t.Errorf("floating height = %v, want 290", res.Rects.Floating.Height)
		}
	})
}

func TestAvailableAligned(t *testing.T) {
	o := geom.Overflow{Top: -100, Right: -50, Bottom: -200, Left: -10}
	got := Available(geom.PlacementBottomEnd, geom.Size{Width: 20, Height: 20}, o, nil)
	// End alignment grows toward the left.
	if got.Width != 30 || got.Height != 220 {
		t.Errorf("Available = %+v, want 30x220", got)
	}
}

func TestHide(t *testing.T) {
	boundary := geom.Rect{Width: 400, Height: 400}
	floating := geom.Size{Width: 30, Height: 10}

	tests := []struct {
		name      string
		reference geom.Rect
		opts      HideOptions
		want      HideData
	}{
		{"reference visible", geom.Rect{X: 100, Y: 100, Width: 50, Height: 20}, HideOptions{}, HideData{}},
		{"reference hidden", geom.Rect{X: 500, Y: 100, Width: 50, Height: 20}, HideOptions{}, HideData{ReferenceHidden: true}},
		{"escaped", geom.Rect{X: 500, Y: 100, Width: 50, Height: 20}, HideOptions{Strategy: HideEscaped}, HideData{Escaped: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := platform.NewStatic(tt.reference, floating, boundary)
			res := compute(t, p, geom.PlacementBottom, Hide(tt.opts))
			data, _ := position.DataOf[HideData](res.MiddlewareData, HideName)
			if data.ReferenceHidden != tt.want.ReferenceHidden || data.Escaped != tt.want.Escaped {
				t.Errorf("hide = %+v, want %+v", data, tt.want)
			}
		})
	}
}

func TestStageValidation(t *testing.T) {
	p := scene(geom.Rect{X: 100, Y: 100, Width: 50, Height: 20}, geom.Size{Width: 30, Height: 10})

	tests := []struct {
		name   string
		stages []position.Middleware
		code   errors.Code
	}{
		{"flip with autoPlacement", []position.Middleware{Flip(FlipOptions{}), AutoPlacement(AutoPlacementOptions{})}, errors.ErrCodeInvalidConfig},
		{"flip bad fallback", []position.Middleware{Flip(FlipOptions{FallbackPlacements: []geom.Placement{"middle"}})}, errors.ErrCodeInvalidPlacement},
		{"flip bad strategy", []position.Middleware{Flip(FlipOptions{FallbackStrategy: "random"})}, errors.ErrCodeInvalidConfig},
		{"hide bad strategy", []position.Middleware{Hide(HideOptions{Strategy: "sometimes"})}, errors.ErrCodeInvalidConfig},
		{"size negative minimum", []position.Middleware{Size(SizeOptions{MinWidth: -1})}, errors.ErrCodeInvalidConfig},
		{
			"shift negative padding",
			[]position.Middleware{Shift(ShiftOptions{OverflowOptions: position.OverflowOptions{Padding: geom.Uniform(-2)}})},
			errors.ErrCodeInvalidGeometry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := computeErr(p, geom.PlacementBottom, tt.stages...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %v", err, tt.code)
			}
		})
	}
}

func equalPlacements(a, b []geom.Placement) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
