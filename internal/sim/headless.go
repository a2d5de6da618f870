package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/particles/internal/field"
)

// Drive steps f for the given number of frames on the calling goroutine,
// applying script before each step. onFrame, when set, runs after every step
// and can abort the run by returning an error.
func Drive(ctx context.Context, f *field.Field, frames int, script Script, onFrame func(field.FrameStats) error) error {
	if frames < 0 {
		return fmt.Errorf("sim: frame count must be non-negative, got %d", frames)
	}
	if script == nil {
		script = NoPointer
	}

	wasActive := false
	for i := 0; i < frames; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		x, y, active := script(f.Frame(), f.Viewport())
		switch {
		case active:
			f.PointerMove(x, y)
		case wasActive:
			f.PointerLeave()
		}
		wasActive = active

		stats := f.Step()
		if onFrame != nil {
			if err := onFrame(stats); err != nil {
				return err
			}
		}
	}
	return nil
}
