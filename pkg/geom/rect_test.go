package geom

import (
	"math"
	"testing"
)

func TestRectEdges(t *testing.T) {
	r := Rect{X: 10, Y: 20, Width: 30, Height: 40}
	if r.Right() != 40 || r.Bottom() != 60 {
		t.Errorf("edges = (%v,%v), want (40,60)", r.Right(), r.Bottom())
	}
	if r.CenterX() != 25 || r.CenterY() != 40 {
		t.Errorf("center = (%v,%v), want (25,40)", r.CenterX(), r.CenterY())
	}
}

func TestRectIntersect(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want Rect
	}{
		{
			name: "overlap",
			a:    Rect{X: 0, Y: 0, Width: 100, Height: 100},
			b:    Rect{X: 50, Y: 25, Width: 100, Height: 50},
			want: Rect{X: 50, Y: 25, Width: 50, Height: 50},
		},
		{
			name: "contained",
			a:    Rect{X: 0, Y: 0, Width: 100, Height: 100},
			b:    Rect{X: 10, Y: 10, Width: 10, Height: 10},
			want: Rect{X: 10, Y: 10, Width: 10, Height: 10},
		},
		{
			name: "disjoint",
			a:    Rect{X: 0, Y: 0, Width: 10, Height: 10},
			b:    Rect{X: 20, Y: 20, Width: 10, Height: 10},
			want: Rect{X: 20, Y: 20, Width: 0, Height: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersect(tt.b); got != tt.want {
				t.Errorf("Intersect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectInset(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 100, Height: 50}
	if got := r.Inset(Uniform(5)); got != (Rect{X: 5, Y: 5, Width: 90, Height: 40}) {
		t.Errorf("Inset(5) = %v", got)
	}
	got := r.Inset(Uniform(60))
	if got.Width != 0 || got.Height != 0 {
		t.Errorf("over-inset should collapse to zero size, got %v", got)
	}
	if got.X != 50 || got.Y != 25 {
		t.Errorf("over-inset should collapse onto the midpoint, got %v", got)
	}
}

func TestRectValidate(t *testing.T) {
	if err := (Rect{X: -10, Y: -10, Width: 0, Height: 0}).Validate("reference"); err != nil {
		t.Errorf("zero-area rect at negative origin is valid, got %v", err)
	}
	if err := (Rect{Width: -1}).Validate("floating"); err == nil {
		t.Error("negative width should be rejected")
	}
	if err := (Rect{X: math.NaN()}).Validate("floating"); err == nil {
		t.Error("NaN x should be rejected")
	}
}

func TestSideObject(t *testing.T) {
	o := SideObject{Top: -5, Right: 3, Bottom: 0, Left: 12}
	if got := o.Clamped(); got != (SideObject{Top: 0, Right: 3, Bottom: 0, Left: 12}) {
		t.Errorf("Clamped() = %v", got)
	}
	if got := o.Get(Left); got != 12 {
		t.Errorf("Get(Left) = %v, want 12", got)
	}
	if got := o.With(Top, 7).Top; got != 7 {
		t.Errorf("With(Top, 7).Top = %v, want 7", got)
	}
	if err := Uniform(-1).ValidatePadding("padding"); err == nil {
		t.Error("negative padding should be rejected")
	}
}
