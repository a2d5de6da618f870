package sim

import (
	"errors"
	"time"

	"github.com/san-kum/particles/internal/field"
)

var ErrNoScheduler = errors.New("sim: no frame scheduler")

// Env is what the host knows about itself at start-up.
type Env struct {
	Viewport      field.Viewport
	ReducedMotion bool
}

// Scheduler delivers one-shot, display-synced frame callbacks. A callback is
// never re-entered; it re-requests if it wants another frame.
type Scheduler interface {
	RequestFrame(cb func(now time.Time)) (cancel func())
}

// Listener receives host notifications on the same thread as frames.
type Listener interface {
	OnResize(vp field.Viewport)
	OnPointerMove(x, y float64)
	OnPointerLeave()
}

// Events is a source of host notifications.
type Events interface {
	Subscribe(l Listener) (unsubscribe func())
}
