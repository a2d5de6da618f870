package field

import (
	"math/rand"
	"time"
)

// Field owns the viewport, the particle pool and the pointer state of one
// animated surface.
type Field struct {
	surface Surface
	rng     *rand.Rand
	color   Color

	viewport      Viewport
	ratio         float64
	width, height int

	particles []Particle
	pointer   Pointer
	frame     int

	metrics   []Metric
	observers []Observer
}

// Option configures a Field in New.
type Option func(*Field)

// WithSeed makes spawning deterministic.
func WithSeed(seed int64) Option {
	return func(f *Field) { f.rng = rand.New(rand.NewSource(seed)) }
}

// WithRand supplies the random source used for spawning.
func WithRand(rng *rand.Rand) Option {
	return func(f *Field) {
		if rng != nil {
			f.rng = rng
		}
	}
}

// WithColor sets the colour of every fill and stroke.
func WithColor(c Color) Option {
	return func(f *Field) { f.color = c }
}

// New sizes the surface to vp and spawns the initial pool. The pointer starts
// inactive at the centre of the backing store.
func New(s Surface, vp Viewport, opts ...Option) (*Field, error) {
	if s == nil {
		return nil, ErrNoSurface
	}
	f := &Field{
		surface:   s,
		color:     DefaultColor,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.rng == nil {
		f.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if err := f.Resize(vp); err != nil {
		return nil, err
	}
	f.pointer = Pointer{X: float64(f.width) / 2, Y: float64(f.height) / 2}
	return f, nil
}

func (f *Field) AddMetric(m Metric)     { f.metrics = append(f.metrics, m) }
func (f *Field) AddObserver(o Observer) { f.observers = append(f.observers, o) }

// Resize recomputes the pixel ratio and backing store, then discards the
// whole pool and spawns a fresh one for the new area.
func (f *Field) Resize(vp Viewport) error {
	if !vp.Valid() {
		return &ViewportError{Viewport: vp, Wrapped: ErrInvalidViewport}
	}
	f.viewport = vp
	f.ratio = PixelRatio(vp.DevicePixelRatio)
	f.width = BackingDim(vp.Width, f.ratio)
	f.height = BackingDim(vp.Height, f.ratio)
	f.surface.Resize(f.width, f.height)
	f.spawn()
	return nil
}

func (f *Field) spawn() {
	n := ParticleCount(f.viewport.Width, f.viewport.Height)
	w, h, r := float64(f.width), float64(f.height), f.ratio

	f.particles = make([]Particle, n)
	for i := range f.particles {
		f.particles[i] = Particle{
			X:     f.rng.Float64() * w,
			Y:     f.rng.Float64() * h,
			VX:    (f.rng.Float64()*SpeedRange - SpeedRange/2) * r,
			VY:    (f.rng.Float64()*SpeedRange - SpeedRange/2) * r,
			Size:  (f.rng.Float64()*SizeRange + MinSize) * r,
			Alpha: f.rng.Float64()*AlphaRange + MinAlpha,
		}
	}
}

// PointerMove records a pointer position given in surface-local logical
// pixels and activates attraction.
func (f *Field) PointerMove(x, y float64) {
	f.pointer = Pointer{X: x * f.ratio, Y: y * f.ratio, Active: true}
}

// PointerLeave disables attraction. Velocity already gained is kept.
func (f *Field) PointerLeave() {
	f.pointer.Active = false
}

// Particles returns a copy of the pool.
func (f *Field) Particles() []Particle {
	out := make([]Particle, len(f.particles))
	copy(out, f.particles)
	return out
}

func (f *Field) Pointer() Pointer        { return f.pointer }
func (f *Field) PixelRatio() float64     { return f.ratio }
func (f *Field) Viewport() Viewport      { return f.viewport }
func (f *Field) BackingSize() (int, int) { return f.width, f.height }
func (f *Field) Frame() int              { return f.frame }
func (f *Field) Color() Color            { return f.color }

// DisplaySize is the size the surface is shown at, in logical pixels.
func (f *Field) DisplaySize() (float64, float64) {
	return f.viewport.Width, f.viewport.Height
}

// LinkDistance is the link threshold in backing-store pixels.
func (f *Field) LinkDistance() float64 {
	return LinkDistance * f.ratio
}

// Metrics returns the current value of every registered metric by name.
func (f *Field) Metrics() map[string]float64 {
	out := make(map[string]float64, len(f.metrics))
	for _, m := range f.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}
