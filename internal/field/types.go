package field

import (
	"fmt"
	"math"
)

const (
	// MaxPixelRatio caps the device pixel ratio to bound cost on dense displays.
	MaxPixelRatio = 2.0

	// MaxParticles caps the pool; the link pass is O(n²).
	MaxParticles = 100

	// AreaPerParticle is the logical area (px²) that earns one particle.
	AreaPerParticle = 12000.0

	// SpeedRange is the width of the uniform velocity range centred on zero.
	SpeedRange = 0.6
	MinSize    = 0.4
	SizeRange  = 1.6
	MinAlpha   = 0.2
	AlphaRange = 0.5

	// MaxAttraction caps the per-frame pull so it stays finite near the pointer.
	MaxAttraction     = 0.0008
	AttractionFalloff = 2000.0

	// LinkDistance is the link threshold in logical pixels.
	LinkDistance  = 120.0
	LinkAlpha     = 0.15
	LinkMaxWidth  = 0.8
	minPointerGap = 1.0
)

// DefaultColor is the red used by every fill and stroke.
var DefaultColor = Color{R: 225, G: 6, B: 0}

// Color is an opaque RGB triple; opacity is passed per draw call.
type Color struct {
	R, G, B uint8
}

func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Viewport is the host surface size in logical (CSS) pixels.
type Viewport struct {
	Width            float64 `json:"width" yaml:"width"`
	Height           float64 `json:"height" yaml:"height"`
	DevicePixelRatio float64 `json:"device_pixel_ratio" yaml:"device_pixel_ratio"`
}

func (v Viewport) String() string {
	return fmt.Sprintf("%gx%g@%g", v.Width, v.Height, v.DevicePixelRatio)
}

// Valid reports whether both dimensions are finite and non-negative.
func (v Viewport) Valid() bool {
	for _, d := range []float64{v.Width, v.Height} {
		if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
			return false
		}
	}
	return true
}

// Particle is one dot of the field. Alpha never changes after spawn.
type Particle struct {
	X, Y   float64
	VX, VY float64
	Size   float64
	Alpha  float64
}

// Speed returns the magnitude of the particle velocity.
func (p Particle) Speed() float64 {
	return math.Hypot(p.VX, p.VY)
}

// Pointer is the last known pointer position in backing-store pixels.
type Pointer struct {
	X, Y   float64
	Active bool
}

// FrameStats summarises one call to Step.
type FrameStats struct {
	Frame         int  `json:"frame"`
	Particles     int  `json:"particles"`
	Links         int  `json:"links"`
	PointerActive bool `json:"pointer_active"`
	Width         int  `json:"width"`
	Height        int  `json:"height"`
}

// Surface is the drawing target. Sizes and coordinates are backing-store pixels.
type Surface interface {
	Resize(width, height int)
	Clear()
	FillCircle(x, y, r float64, c Color, alpha float64)
	StrokeLine(x0, y0, x1, y1, width float64, c Color, alpha float64)
}

// Metric accumulates a scalar over frames from the pool and the frame stats.
type Metric interface {
	Name() string
	Observe(particles []Particle, stats FrameStats)
	Value() float64
	Reset()
}

// Observer is called after every step, once metrics have been updated.
type Observer interface {
	OnFrame(f *Field, stats FrameStats)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(f *Field, stats FrameStats)

func (fn ObserverFunc) OnFrame(f *Field, stats FrameStats) { fn(f, stats) }
