// Package gui hosts a particle field in a desktop window using Ebiten.
//
// The window's update loop is the frame thread. Each Draw fires a
// [sim.ManualScheduler], so the field steps once per displayed frame and
// draws straight onto the screen image.
package gui

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/san-kum/particles/internal/config"
	"github.com/san-kum/particles/internal/field"
	"github.com/san-kum/particles/internal/logging"
	"github.com/san-kum/particles/internal/sim"
)

// host owns the field lifecycle independent of Ebiten, so window events can
// be replayed in tests against any surface.
type host struct {
	cfg     *config.Config
	opts    []sim.Option
	log     zerolog.Logger
	surface field.Surface
	sched   *sim.ManualScheduler
	events  *sim.Dispatcher
	handle  *sim.Handle

	viewport field.Viewport
	hover    bool
	paused   bool
}

func newHost(cfg *config.Config, s field.Surface, opts ...sim.Option) *host {
	return &host{
		cfg:     cfg,
		opts:    opts,
		log:     logging.For("gui"),
		surface: s,
		sched:   sim.NewManualScheduler(),
		events:  sim.NewDispatcher(),
	}
}

// layout takes the window size in logical pixels and returns the backing
// size the screen image should have. The field starts on the first call and
// respawns whenever the size changes.
func (h *host) layout(width, height int, dpr float64) (int, int) {
	vp := field.Viewport{Width: float64(width), Height: float64(height), DevicePixelRatio: dpr}
	ratio := field.PixelRatio(dpr)
	bw, bh := field.BackingDim(vp.Width, ratio), field.BackingDim(vp.Height, ratio)

	if h.handle != nil && vp == h.viewport {
		return max(bw, 1), max(bh, 1)
	}
	h.viewport = vp

	if h.handle == nil {
		h.start()
	} else {
		h.events.Resize(vp)
	}
	return max(bw, 1), max(bh, 1)
}

func (h *host) start() {
	opts := append([]sim.Option{
		sim.WithFieldOptions(field.WithColor(h.cfg.ParticleColor())),
	}, h.opts...)
	if h.cfg.Seed != 0 {
		opts = append(opts, sim.WithFieldOptions(field.WithSeed(h.cfg.Seed)))
	}

	env := sim.Env{Viewport: h.viewport, ReducedMotion: h.cfg.ReduceMotion}
	handle, err := sim.Start(env, h.surface, h.sched, h.events, opts...)
	if err != nil {
		h.log.Error().Err(err).Msg("window could not start the field")
		handle, _ = sim.Start(sim.Env{ReducedMotion: true}, nil, h.sched, nil, sim.WithLogger(zerolog.Nop()))
	}
	h.handle = handle
}

// cursor reports the cursor in logical pixels. Leaving the window, or
// losing focus, releases the pointer once.
func (h *host) cursor(x, y float64, inside bool) {
	if !inside {
		if h.hover {
			h.hover = false
			h.events.PointerLeave()
		}
		return
	}
	h.hover = true
	h.events.PointerMove(x, y)
}

func (h *host) respawn() {
	if h.handle != nil {
		h.events.Resize(h.viewport)
	}
}

func (h *host) togglePause() { h.paused = !h.paused }

// frame fires any pending frame callback.
func (h *host) frame(now time.Time) int {
	if h.paused {
		return 0
	}
	return h.sched.Fire(now)
}

func (h *host) stop() {
	if h.handle != nil {
		h.handle.Stop()
	}
}
