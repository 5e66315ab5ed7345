// Package pkg provides the core libraries for anchor floating-element placement.
//
// # Overview
//
// Anchor decides where a floating element (tooltip, popover, dropdown menu)
// renders next to its reference element, inside a clipping and possibly
// scrolling container. The pkg directory is organized into three areas:
//
//  1. Geometry - [geom] and [overflow]: rects, placements, signed overflow
//  2. Engine - [position] and [position/middleware]: the placement pipeline
//  3. Infrastructure - [scene], [cache], [session], [platform], [observability]
//
// # Architecture
//
// The typical data flow through anchor:
//
//	Scene file (TOML/YAML/JSON)
//	         ↓
//	    [scene] package (decode, schema check, validate)
//	         ↓
//	    [platform] measurement (reference rect, floating size, clipping rect)
//	         ↓
//	    [position] pipeline (offset → autoPlacement/flip → shift → size → hide)
//	         ↓
//	    Result (placement, coordinates, per-stage data)
//
// # Quick Start
//
// Position a tooltip against a fixed boundary:
//
//	plat := platform.NewStatic(
//	    geom.Rect{X: 100, Y: 80, Width: 100, Height: 40},
//	    geom.Size{Width: 100, Height: 100},
//	    geom.Rect{Width: 300, Height: 300},
//	)
//	res, _ := position.Compute(ctx, plat, "reference", "floating", position.Options{
//	    Middleware: []position.Middleware{
//	        middleware.AutoPlacement(middleware.AutoPlacementOptions{
//	            AllowedPlacements: []geom.Placement{geom.PlacementTop, geom.PlacementBottom},
//	        }),
//	    },
//	})
//	fmt.Println(res.Placement, res.X, res.Y)
//
// Resolve a scene file with caching:
//
//	sc, _ := scene.Import("tooltip.toml")
//	resolver := scene.NewResolver(fileCache, cache.DefaultTTL, logger)
//	res, cached, _ := resolver.Resolve(ctx, sc)
//
// # Main Packages
//
// [geom] - Rects, sides, alignments and the twelve placements, plus the
// coordinate math that projects a floating element onto a placement.
//
// [overflow] - Signed overflow of a candidate rect against a boundary.
// Positive values mean clipped, negative values mean spare room.
//
// [position] - The pipeline driver. Runs middleware stages in order, applies
// their coordinate and data updates and restarts on reset requests, up to
// [position.Options] MaxResets.
//
// [position/middleware] - Built-in stages: autoPlacement, flip, offset,
// shift, size and hide.
//
// [platform] - The measurement interface the engine consumes and a static
// implementation for fixed geometry.
//
// [scene] - Scroll-container fixtures: import/export, schema validation, the
// scene platform, sweeps over scroll offsets and the cached resolver.
//
// [cache] - File, Redis and null result caches with key derivation.
//
// [session] - Explorer snapshots and the latest-wins computation tracker.
//
// [observability] - Hook interfaces for pipeline, cache and HTTP events.
//
// [httputil] - JSON responses and error-to-status mapping for the HTTP API.
//
// [errors] - Structured error codes shared by every layer.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...              # All tests
//	go test ./pkg/position/...     # Specific package
//	go test -run Example ./pkg/... # Examples only
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/anchor/pkg/geom
// [overflow]: https://pkg.go.dev/github.com/matzehuels/anchor/pkg/overflow
// [position]: https://pkg.go.dev/github.com/matzehuels/anchor/pkg/position
// [position/middleware]: https://pkg.go.dev/github.com/matzehuels/anchor/pkg/position/middleware
// [platform]: https://pkg.go.dev/github.com/matzehuels/anchor/pkg/platform
// [scene]: https://pkg.go.dev/github.com/matzehuels/anchor/pkg/scene
// [cache]: https://pkg.go.dev/github.com/matzehuels/anchor/pkg/cache
// [session]: https://pkg.go.dev/github.com/matzehuels/anchor/pkg/session
// [observability]: https://pkg.go.dev/github.com/matzehuels/anchor/pkg/observability
// [httputil]: https://pkg.go.dev/github.com/matzehuels/anchor/pkg/httputil
// [errors]: https://pkg.go.dev/github.com/matzehuels/anchor/pkg/errors
package pkg
