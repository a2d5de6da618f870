// Package surface provides drawing targets for a particle field.
//
// Every type here satisfies field.Surface and works in backing-store pixels:
//
//   - Raster draws anti-aliased shapes into an *image.RGBA.
//   - Braille maps the backing store onto a grid of braille cells for
//     terminals.
//   - SVG keeps the most recent frame as vector elements.
//   - Recorder keeps the most recent frame as a list of draw calls.
//   - Discard draws nothing.
//
// A surface is only ever touched from the thread that steps its field.
package surface
