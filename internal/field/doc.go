// Package field implements the background particle field: a fixed pool of
// drifting particles, a soft pull towards the pointer, and thin links drawn
// between neighbours.
//
// The package defines the core types of the simulation:
//
//   - [Field]: owns the viewport, the particle pool and the pointer state
//   - [Particle]: position, velocity, radius and opacity of one dot
//   - [Viewport]: logical size plus device pixel ratio of the host surface
//   - [Surface]: the drawing target supplied by the host
//   - [Metric], [Observer]: per-frame hooks
//
// # Example
//
//	f, err := field.New(surface.NewRaster(), field.Viewport{Width: 800, Height: 600, DevicePixelRatio: 1})
//	if err != nil {
//	    return err
//	}
//	f.PointerMove(400, 300)
//	stats := f.Step()
//
// # Coordinates
//
// Particle and pointer positions live in backing-store pixels, i.e. logical
// pixels multiplied by the clamped device pixel ratio. [Field.PointerMove]
// takes surface-local logical coordinates and scales them.
//
// # Thread Safety
//
// A Field is NOT thread-safe. Frames, pointer and resize notifications must
// all be delivered from one goroutine; see package sim for schedulers that
// provide that guarantee.
package field
