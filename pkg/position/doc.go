// Package position implements the placement resolution pipeline.
//
// [Compute] measures the reference and floating elements through a
// [platform.Platform], projects the floating element onto the requested
// placement, then runs an ordered list of [Middleware] stages over a shared
// [State]. Each stage returns a partial update ([Return]): new coordinates,
// a private data payload stored under the stage's name, and optionally a
// [Reset] request that restarts the pipeline from the first stage with a new
// placement or new rects.
//
// # Architecture
//
// The driver is a bounded loop. Every reset increments a counter; once the
// counter exceeds [Options.MaxResets] the call fails with a
// PIPELINE_DIVERGED error instead of looping forever. A State is created
// fresh for each call and nothing survives between calls, so Compute is a
// pure function of the platform's geometry and the options.
//
// # Usage
//
//	res, err := position.Compute(ctx, plat, "reference", "floating", position.Options{
//	    Placement:  geom.PlacementBottom,
//	    Middleware: []position.Middleware{middleware.Offset(8), autoPlacement},
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Placement, res.X, res.Y)
//
// Stages live in the middleware subpackage. Custom stages implement
// [Middleware] directly or wrap a function with [MiddlewareFunc].
package position
