// Package scene describes scroll-container fixtures and resolves them with
// the placement engine.
//
// # Overview
//
// A scene stands in for the DOM measurement layer: it fixes the geometry of a
// scroll container, the content scrolled inside it, a reference box in
// content coordinates and the floating element's size. [NewPlatform] turns a
// scene into a [platform.Platform], translating content coordinates by the
// scroll offset and clipping to the container.
//
// # File Formats
//
// Scenes are read from TOML, YAML or JSON. All three share one set of keys
// and are validated against the same embedded JSON schema before decoding:
//
//	name = "scroll container"
//	placement = "bottom"
//
//	[container]
//	width = 300
//	height = 300
//
//	[content]
//	width = 300
//	height = 1000
//
//	[scroll]
//	y = 420
//
//	[reference]
//	x = 100
//	y = 500
//	width = 100
//	height = 40
//
//	[floating]
//	width = 100
//	height = 100
//
//	[[middleware]]
//	type = "autoPlacement"
//	[middleware.options]
//	allowedPlacements = ["top", "bottom"]
//
// Each middleware entry names a stage type (autoPlacement, offset, shift,
// flip, size, hide) and its options. Option keys follow the stage option
// names; padding accepts a number or a per-side object.
//
// # Sweeps
//
// [Sweep] scrolls the container along one axis and records each run of
// consecutive scroll offsets that resolve to the same placement, which makes
// placement transitions easy to inspect.
package scene
