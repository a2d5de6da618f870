package field

import "errors"

// Domain errors for field construction.
var (
	// ErrNoSurface indicates the host did not supply a drawing surface.
	ErrNoSurface = errors.New("field: no drawable surface")

	// ErrInvalidViewport indicates NaN, infinite or negative viewport dimensions.
	ErrInvalidViewport = errors.New("field: invalid viewport dimensions")
)

// ViewportError wraps ErrInvalidViewport with the offending viewport.
type ViewportError struct {
	Viewport Viewport
	Wrapped  error
}

func (e *ViewportError) Error() string {
	return e.Wrapped.Error() + ": " + e.Viewport.String()
}

func (e *ViewportError) Unwrap() error {
	return e.Wrapped
}
