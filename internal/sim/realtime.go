package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/particles/internal/field"
)

// Play runs a field on loop at wall-clock pace until frames have been stepped,
// then closes the loop. Scripted pointer events reach the field through
// loop.Post, between frames, the way a host delivers input. It blocks until
// the run ends and returns the handle, already stopped.
//
// With reduced motion or no surface the handle is inert and Play returns
// without running the loop.
func Play(ctx context.Context, loop *Loop, env Env, surface field.Surface, script Script, frames int, opts ...Option) (*Handle, error) {
	if frames < 0 {
		return nil, fmt.Errorf("sim: frame count must be non-negative, got %d", frames)
	}
	if script == nil {
		script = NoPointer
	}

	events := NewDispatcher()
	h, err := Start(env, surface, loop, events, opts...)
	if err != nil {
		return nil, err
	}
	if !h.Active() || frames == 0 {
		h.Stop()
		return h, nil
	}

	wasActive := false
	feed := func(frame int) {
		x, y, active := script(frame, h.field.Viewport())
		switch {
		case active:
			events.PointerMove(x, y)
		case wasActive:
			events.PointerLeave()
		}
		wasActive = active
	}

	h.field.AddObserver(field.ObserverFunc(func(_ *field.Field, st field.FrameStats) {
		if st.Frame >= frames {
			h.Stop()
			loop.Close()
			return
		}
		loop.Post(func() { feed(st.Frame) })
	}))
	loop.Post(func() { feed(0) })

	err = loop.Run(ctx)
	h.Stop()
	return h, err
}
