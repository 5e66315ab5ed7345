package scene

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/anchor/pkg/cache"
	"github.com/matzehuels/anchor/pkg/errors"
	"github.com/matzehuels/anchor/pkg/geom"
	"github.com/matzehuels/anchor/pkg/observability"
	"github.com/matzehuels/anchor/pkg/platform"
	"github.com/matzehuels/anchor/pkg/position/middleware"
)

const scrollTOML = `
name = "scroll"

[container]
x = 0
y = 0
width = 300
height = 300

[content]
width = 300
height = 1000

[scroll]
y = 420

[reference]
x = 100
y = 500
width = 100
height = 40

[floating]
width = 100
height = 100

[[middleware]]
type = "autoPlacement"

[middleware.options]
allowedPlacements = ["top", "bottom"]
`

const scrollYAML = `
name: scroll
container: {x: 0, y: 0, width: 300, height: 300}
content: {width: 300, height: 1000}
scroll: {y: 420}
reference: {x: 100, y: 500, width: 100, height: 40}
floating: {width: 100, height: 100}
middleware:
  - type: autoPlacement
    options:
      allowedPlacements: [top, bottom]
`

const scrollJSON = `{
  "name": "scroll",
  "container": {"x": 0, "y": 0, "width": 300, "height": 300},
  "content": {"width": 300, "height": 1000},
  "scroll": {"y": 420},
  "reference": {"x": 100, "y": 500, "width": 100, "height": 40},
  "floating": {"width": 100, "height": 100},
  "middleware": [
    {"type": "autoPlacement", "options": {"allowedPlacements": ["top", "bottom"]}}
  ]
}`

// scrollScene is a 300x300 scroll container over 1000px of content with a
// reference at content y=500. Top overflows once the container is scrolled
// past 400.
func scrollScene(t *testing.T) *Scene {
	t.Helper()
	sc, err := Read(strings.NewReader(scrollTOML), FormatTOML)
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	return sc
}

func TestReadFormatsAgree(t *testing.T) {
	want := scrollScene(t)

	tests := []struct {
		format Format
		input  string
	}{
		{FormatYAML, scrollYAML},
		{FormatJSON, scrollJSON},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			got, err := Read(strings.NewReader(tt.input), tt.format)
			if err != nil {
				t.Fatalf("Read error: %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("scene = %+v\nwant %+v", got, want)
			}
		})
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	original := scrollScene(t)
	original.Placement = geom.PlacementLeftEnd
	original.Viewport = &geom.Rect{Width: 1280, Height: 720}

	for _, format := range Formats {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Write(original, &buf, format); err != nil {
				t.Fatalf("Write error: %v", err)
			}
			got, err := Read(&buf, format)
			if err != nil {
				t.Fatalf("Read error: %v\n%s", err, buf.String())
			}
			if !reflect.DeepEqual(got, original) {
				t.Errorf("round trip changed the scene:\n got %+v\nwant %+v", got, original)
			}
		})
	}
}

func TestReadRejectsSchemaViolations(t *testing.T) {
	const base = `"container": {"width": 300, "height": 300}, "reference": {"width": 10, "height": 10}`

	tests := []struct {
		name   string
		format Format
		input  string
	}{
		{"unknown key", FormatJSON, `{` + base + `, "floating": {"width": 1, "height": 1}, "color": "red"}`},
		{"bad placement", FormatJSON, `{` + base + `, "floating": {"width": 1, "height": 1}, "placement": "middle"}`},
		{"negative size", FormatJSON, `{` + base + `, "floating": {"width": -1, "height": 1}}`},
		{"missing floating", FormatJSON, `{` + base + `}`},
		{"unknown stage", FormatJSON, `{` + base + `, "floating": {"width": 1, "height": 1}, "middleware": [{"type": "teleport"}]}`},
		{"yaml unknown key", FormatYAML, "container: {width: 1, height: 1}\nreference: {width: 1, height: 1}\nfloating: {width: 1, height: 1}\nextra: true\n"},
		{"malformed toml", FormatTOML, "container = [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input), tt.format)
			if !errors.Is(err, errors.ErrCodeInvalidScene) {
				t.Errorf("error = %v, want INVALID_SCENE", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Scene)
		code   errors.Code
	}{
		{"scroll past content", func(s *Scene) { s.Scroll.Y = 701 }, errors.ErrCodeInvalidScene},
		{"scroll without content", func(s *Scene) { s.Scroll.X = 1 }, errors.ErrCodeInvalidScene},
		{"negative reference", func(s *Scene) { s.Reference.Width = -5 }, errors.ErrCodeInvalidGeometry},
		{"bad placement", func(s *Scene) { s.Placement = "north" }, errors.ErrCodeInvalidPlacement},
		{"bad strategy", func(s *Scene) { s.Strategy = "sticky" }, errors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := scrollScene(t)
			tt.mutate(sc)
			if err := sc.Validate(); !errors.Is(err, tt.code) {
				t.Errorf("Validate() = %v, want code %v", err, tt.code)
			}
		})
	}
}

func TestPlatform(t *testing.T) {
	sc := scrollScene(t)
	p := NewPlatform(sc)

	rects, err := p.ElementRects(ElementReference, ElementFloating, platform.StrategyAbsolute)
	if err != nil {
		t.Fatalf("ElementRects error: %v", err)
	}
	if want := (geom.Rect{X: 100, Y: 80, Width: 100, Height: 40}); rects.Reference != want {
		t.Errorf("reference = %v, want %v", rects.Reference, want)
	}
	if rects.Floating.Size() != sc.Floating {
		t.Errorf("floating size = %v, want %v", rects.Floating.Size(), sc.Floating)
	}

	tests := []struct {
		name   string
		params platform.ClippingParams
		want   geom.Rect
	}{
		{"container", platform.ClippingParams{}, geom.Rect{Width: 300, Height: 300}},
		{"document", platform.ClippingParams{RootBoundary: platform.RootDocument}, geom.Rect{Width: 300, Height: 300}},
		{"content element", platform.ClippingParams{Elements: []platform.Element{ElementContent}}, geom.Rect{Y: -420, Width: 300, Height: 1000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.ClippingRect(tt.params)
			if err != nil {
				t.Fatalf("ClippingRect error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ClippingRect = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("viewport", func(t *testing.T) {
		vp := *sc
		vp.Viewport = &geom.Rect{Width: 250, Height: 1000}
		got, _ := NewPlatform(&vp).ClippingRect(platform.ClippingParams{})
		if want := (geom.Rect{Width: 250, Height: 300}); got != want {
			t.Errorf("ClippingRect = %v, want %v", got, want)
		}
	})

	t.Run("unknown element", func(t *testing.T) {
		_, err := p.Rect("sidebar")
		if !errors.Is(err, errors.ErrCodeNotFound) {
			t.Errorf("error = %v, want NOT_FOUND", err)
		}
		_, err = p.Rect(42)
		if !errors.Is(err, errors.ErrCodePlatform) {
			t.Errorf("error = %v, want PLATFORM_ERROR", err)
		}
	})
}

func TestResolveScrollContainer(t *testing.T) {
	ctx := context.Background()
	sc := scrollScene(t)

	tests := []struct {
		scroll float64
		want   geom.Placement
		y      float64
	}{
		{420, geom.PlacementBottom, 120},
		{200, geom.PlacementTop, 200},
		{420, geom.PlacementBottom, 120},
	}

	// Scrolling back and forth: the placement follows the geometry.
	for _, tt := range tests {
		res, err := Resolve(ctx, sc.WithScroll(geom.Coords{Y: tt.scroll}), nil)
		if err != nil {
			t.Fatalf("Resolve error: %v", err)
		}
		if res.Placement != tt.want || res.Y != tt.y || res.X != 100 {
			t.Errorf("scroll %v: %v at (%v,%v), want %v at (100,%v)", tt.scroll, res.Placement, res.X, res.Y, tt.want, tt.y)
		}
	}
}

func TestResolveWithShift(t *testing.T) {
	sc := scrollScene(t)
	sc.Reference.X = 260
	sc.Middleware = append(sc.Middleware, StageSpec{Type: middleware.ShiftName, Options: map[string]any{"padding": 5}})

	res, err := Resolve(context.Background(), sc, nil)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if res.Placement != geom.PlacementBottom {
		t.Errorf("placement = %v, want bottom", res.Placement)
	}
	// Centered x would be 260; shift keeps 5px clear of the container edge.
	if res.X != 195 {
		t.Errorf("x = %v, want 195", res.X)
	}
}

func TestSweepTransitionAtCrossover(t *testing.T) {
	res, err := Sweep(context.Background(), scrollScene(t), SweepOptions{}, nil)
	if err != nil {
		t.Fatalf("Sweep error: %v", err)
	}

	want := []Run{
		{Placement: geom.PlacementTop, From: 0, To: 400, Samples: 401},
		{Placement: geom.PlacementBottom, From: 401, To: 700, Samples: 300},
	}
	if !reflect.DeepEqual(res.Runs, want) {
		t.Errorf("runs = %+v, want %+v", res.Runs, want)
	}
	if got := res.Transitions(); len(got) != 1 || got[0] != 401 {
		t.Errorf("Transitions() = %v, want [401]", got)
	}
	if res.Samples != 701 {
		t.Errorf("samples = %d, want 701", res.Samples)
	}
}

func TestSweepPartialStep(t *testing.T) {
	res, err := Sweep(context.Background(), scrollScene(t), SweepOptions{Step: 300}, nil)
	if err != nil {
		t.Fatalf("Sweep error: %v", err)
	}
	// 0, 300, 600 and the clamped end 700
	if res.Samples != 4 {
		t.Errorf("samples = %d, want 4", res.Samples)
	}
}

func TestSweepRejectsBadOptions(t *testing.T) {
	sc := scrollScene(t)
	tests := []struct {
		name string
		opts SweepOptions
	}{
		{"axis", SweepOptions{Axis: "z"}},
		{"negative step", SweepOptions{Step: -1}},
		{"empty range", SweepOptions{From: 600, To: 100}},
		{"too many samples", SweepOptions{Step: 0.001}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Sweep(context.Background(), sc, tt.opts, nil); !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestBuildStages(t *testing.T) {
	tests := []struct {
		name    string
		specs   []StageSpec
		wantErr errors.Code
	}{
		{"all stages", []StageSpec{
			{Type: "offset", Options: map[string]any{"mainAxis": 8}},
			{Type: "flip", Options: map[string]any{"fallbackPlacements": []any{"left"}, "padding": map[string]any{"top": 4}}},
			{Type: "shift", Options: map[string]any{"crossAxis": true, "rootBoundary": "document"}},
			{Type: "size", Options: map[string]any{"fit": true}},
			{Type: "hide", Options: map[string]any{"strategy": "escaped"}},
		}, ""},
		{"unknown type", []StageSpec{{Type: "teleport"}}, errors.ErrCodeInvalidScene},
		{"unknown option", []StageSpec{{Type: "offset", Options: map[string]any{"distance": 8}}}, errors.ErrCodeInvalidScene},
		{"bad placement", []StageSpec{{Type: "autoPlacement", Options: map[string]any{"allowedPlacements": []any{"up"}}}}, errors.ErrCodeInvalidPlacement},
		{"empty allowed", []StageSpec{{Type: "autoPlacement", Options: map[string]any{"allowedPlacements": []any{}}}}, errors.ErrCodeInvalidConfig},
		{"bad root boundary", []StageSpec{{Type: "shift", Options: map[string]any{"rootBoundary": "screen"}}}, errors.ErrCodeInvalidConfig},
		{"bad alignment", []StageSpec{{Type: "autoPlacement", Options: map[string]any{"alignment": "middle"}}}, errors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stages, err := BuildStages(tt.specs)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("BuildStages error: %v", err)
				}
				if len(stages) != len(tt.specs) {
					t.Errorf("built %d stages, want %d", len(stages), len(tt.specs))
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want code %v", err, tt.wantErr)
			}
		})
	}
}

func TestPaddingForms(t *testing.T) {
	var spec overflowSpec
	if err := decodeOptions(map[string]any{"padding": 6}, &spec); err != nil {
		t.Fatalf("decode number: %v", err)
	}
	if geom.Padding(spec.Padding) != geom.Uniform(6) {
		t.Errorf("number padding = %v", spec.Padding)
	}

	spec = overflowSpec{}
	if err := decodeOptions(map[string]any{"padding": map[string]any{"left": 3}}, &spec); err != nil {
		t.Fatalf("decode object: %v", err)
	}
	if want := (geom.Padding{Left: 3}); geom.Padding(spec.Padding) != want {
		t.Errorf("object padding = %v, want %v", spec.Padding, want)
	}
}

func TestStageTypes(t *testing.T) {
	want := []string{"autoPlacement", "flip", "hide", "offset", "shift", "size"}
	if got := StageTypes(); !reflect.DeepEqual(got, want) {
		t.Errorf("StageTypes() = %v, want %v", got, want)
	}
}

func TestImportExport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corner.yaml")
	if err := os.WriteFile(path, []byte(strings.Replace(scrollYAML, "name: scroll\n", "", 1)), 0o644); err != nil {
		t.Fatal(err)
	}

	sc, err := Import(path)
	if err != nil {
		t.Fatalf("Import error: %v", err)
	}
	if sc.Name != "corner" {
		t.Errorf("name = %q, want file stem %q", sc.Name, "corner")
	}

	out := filepath.Join(dir, "corner.json")
	if err := Export(sc, out); err != nil {
		t.Fatalf("Export error: %v", err)
	}
	again, err := Import(out)
	if err != nil {
		t.Fatalf("re-Import error: %v", err)
	}
	if !reflect.DeepEqual(again, sc) {
		t.Errorf("exported scene differs:\n got %+v\nwant %+v", again, sc)
	}

	if _, err := Import(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing file error = %v, want NOT_FOUND", err)
	}
	if _, err := Import(filepath.Join(dir, "scene.ini")); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("unknown extension error = %v, want UNSUPPORTED", err)
	}
}

type cacheRecorder struct {
	observability.NoopCacheHooks
	hits, misses, sets int
}

func (r *cacheRecorder) OnCacheHit(context.Context, string)      { r.hits++ }
func (r *cacheRecorder) OnCacheMiss(context.Context, string)     { r.misses++ }
func (r *cacheRecorder) OnCacheSet(context.Context, string, int) { r.sets++ }

func TestResolverCaches(t *testing.T) {
	rec := &cacheRecorder{}
	observability.SetCacheHooks(rec)
	defer observability.Reset()

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewResolver(fc, cache.DefaultTTL, nil)
	ctx := context.Background()
	sc := scrollScene(t)

	first, cached, err := r.Resolve(ctx, sc)
	if err != nil || cached {
		t.Fatalf("first Resolve: cached %v err %v", cached, err)
	}
	second, cached, err := r.Resolve(ctx, sc)
	if err != nil || !cached {
		t.Fatalf("second Resolve: cached %v err %v", cached, err)
	}
	if second.Placement != first.Placement || second.X != first.X || second.Y != first.Y {
		t.Errorf("cached result %+v differs from %+v", second, first)
	}

	// A different scroll offset is a different scene.
	if _, cached, _ := r.Resolve(ctx, sc.WithScroll(geom.Coords{Y: 10})); cached {
		t.Error("changed scene should miss")
	}

	if rec.hits != 1 || rec.misses != 2 || rec.sets != 2 {
		t.Errorf("hooks: hits %d misses %d sets %d, want 1/2/2", rec.hits, rec.misses, rec.sets)
	}

	sweep, cached, err := r.Sweep(ctx, sc, SweepOptions{Step: 100})
	if err != nil || cached || len(sweep.Runs) != 2 {
		t.Fatalf("Sweep: %+v cached %v err %v", sweep, cached, err)
	}
	if _, cached, _ := r.Sweep(ctx, sc, SweepOptions{Step: 100}); !cached {
		t.Error("repeated sweep should hit")
	}
}

func TestResolverWithoutCache(t *testing.T) {
	r := &Resolver{}
	res, cached, err := r.Resolve(context.Background(), scrollScene(t))
	if err != nil || cached {
		t.Fatalf("Resolve: cached %v err %v", cached, err)
	}
	if res.Placement != geom.PlacementBottom {
		t.Errorf("placement = %v, want bottom", res.Placement)
	}
}
