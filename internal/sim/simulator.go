package sim

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/san-kum/particles/internal/field"
	"github.com/san-kum/particles/internal/logging"
)

type startConfig struct {
	fieldOpts []field.Option
	metrics   []field.Metric
	observers []field.Observer
	log       *zerolog.Logger
}

type Option func(*startConfig)

func WithFieldOptions(opts ...field.Option) Option {
	return func(c *startConfig) { c.fieldOpts = append(c.fieldOpts, opts...) }
}

func WithMetrics(ms ...field.Metric) Option {
	return func(c *startConfig) { c.metrics = append(c.metrics, ms...) }
}

func WithObservers(obs ...field.Observer) Option {
	return func(c *startConfig) { c.observers = append(c.observers, obs...) }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *startConfig) { c.log = &l }
}

// Handle is a running (or inert) particle field. All methods except Stop,
// Active, Frames and Done must be called on the frame thread.
type Handle struct {
	field *field.Field
	sched Scheduler
	log   zerolog.Logger

	mu      sync.Mutex
	cancel  func()
	unsub   func()
	stopped bool

	frames   atomic.Int64
	done     chan struct{}
	stopOnce sync.Once
}

// Start brings a particle field up on surface. With reduced motion, or with
// no surface to draw on, it returns an inert handle: nothing is allocated,
// nothing is subscribed and no frame is ever requested.
func Start(env Env, surface field.Surface, sched Scheduler, events Events, opts ...Option) (*Handle, error) {
	cfg := &startConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	log := logging.For("sim")
	if cfg.log != nil {
		log = *cfg.log
	}

	h := &Handle{log: log, done: make(chan struct{})}

	if env.ReducedMotion {
		log.Info().Msg("reduced motion requested, particles disabled")
		return h, nil
	}
	if surface == nil {
		log.Debug().Err(field.ErrNoSurface).Msg("particles skipped")
		return h, nil
	}
	if sched == nil {
		return nil, ErrNoScheduler
	}

	f, err := field.New(surface, env.Viewport, cfg.fieldOpts...)
	if errors.Is(err, field.ErrNoSurface) {
		log.Debug().Err(err).Msg("particles skipped")
		return h, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sim: start: %w", err)
	}
	for _, m := range cfg.metrics {
		f.AddMetric(m)
	}
	for _, o := range cfg.observers {
		f.AddObserver(o)
	}

	h.field = f
	h.sched = sched

	h.mu.Lock()
	if events != nil {
		h.unsub = events.Subscribe(h)
	}
	h.cancel = sched.RequestFrame(h.frame)
	h.mu.Unlock()

	w, hgt := f.BackingSize()
	log.Info().
		Str("viewport", env.Viewport.String()).
		Int("backing_w", w).
		Int("backing_h", hgt).
		Int("particles", len(f.Particles())).
		Msg("particle field started")
	return h, nil
}

func (h *Handle) frame(time.Time) {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.cancel = nil
	h.mu.Unlock()

	h.field.Step()
	h.frames.Add(1)

	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.stopped {
		h.cancel = h.sched.RequestFrame(h.frame)
	}
}

// Stop cancels the pending frame and drops every subscription. It is safe to
// call more than once and from any goroutine.
func (h *Handle) Stop() {
	h.stopOnce.Do(func() {
		h.mu.Lock()
		h.stopped = true
		cancel, unsub := h.cancel, h.unsub
		h.cancel, h.unsub = nil, nil
		h.mu.Unlock()

		if cancel != nil {
			cancel()
		}
		if unsub != nil {
			unsub()
		}
		close(h.done)

		if h.field != nil {
			h.log.Info().Int64("frames", h.frames.Load()).Msg("particle field stopped")
		}
	})
}

func (h *Handle) OnResize(vp field.Viewport) {
	if !h.Active() {
		return
	}
	if err := h.field.Resize(vp); err != nil {
		h.log.Warn().Err(err).Msg("resize ignored")
		return
	}
	h.log.Debug().Str("viewport", vp.String()).Int("particles", len(h.field.Particles())).Msg("resized")
}

func (h *Handle) OnPointerMove(x, y float64) {
	if h.Active() {
		h.field.PointerMove(x, y)
	}
}

func (h *Handle) OnPointerLeave() {
	if h.Active() {
		h.field.PointerLeave()
	}
}

// Active reports whether the handle owns a field and has not been stopped.
func (h *Handle) Active() bool {
	if h.field == nil {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return !h.stopped
}

// Field is nil for an inert handle.
func (h *Handle) Field() *field.Field { return h.field }
func (h *Handle) Frames() int64       { return h.frames.Load() }

// Done is closed by Stop.
func (h *Handle) Done() <-chan struct{} { return h.done }
