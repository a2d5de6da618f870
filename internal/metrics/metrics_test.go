package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/particles/internal/field"
	"github.com/san-kum/particles/internal/surface"
)

func TestMeanSpeed(t *testing.T) {
	m := NewMeanSpeed()
	m.Observe([]field.Particle{{VX: 3, VY: 4}, {VX: 0, VY: 1}}, field.FrameStats{})

	if got := m.Value(); math.Abs(got-3) > 1e-12 {
		t.Errorf("expected mean speed 3, got %f", got)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestKineticEnergy(t *testing.T) {
	m := NewKineticEnergy()
	m.Observe([]field.Particle{{VX: 2}, {VY: 0}}, field.FrameStats{})

	if got := m.Value(); math.Abs(got-1) > 1e-12 {
		t.Errorf("expected mean energy 1, got %f", got)
	}
}

func TestOutOfBounds(t *testing.T) {
	m := NewOutOfBounds()
	st := field.FrameStats{Width: 100, Height: 100}
	m.Observe([]field.Particle{
		{X: 50, Y: 50},
		{X: 100, Y: 0},
		{X: 101, Y: 50},
		{X: 50, Y: -0.5},
	}, st)

	if got := m.Value(); got != 0.5 {
		t.Errorf("expected half outside, got %f", got)
	}
}

func TestPointerActivity(t *testing.T) {
	m := NewPointerActivity()
	for _, active := range []bool{true, false, false, true} {
		m.Observe(nil, field.FrameStats{PointerActive: active})
	}
	if got := m.Value(); got != 0.5 {
		t.Errorf("expected 0.5, got %f", got)
	}
}

func TestLinkCount(t *testing.T) {
	m := NewLinkCount()
	for _, n := range []int{4, 10, 1} {
		m.Observe(nil, field.FrameStats{Links: n})
	}
	if got := m.Value(); got != 5 {
		t.Errorf("expected mean 5, got %f", got)
	}
	if m.Last() != 1 || m.Peak() != 10 {
		t.Errorf("expected last 1 and peak 10, got %d and %d", m.Last(), m.Peak())
	}
}

func TestDefaultOnField(t *testing.T) {
	f, err := field.New(surface.Discard, field.Viewport{Width: 800, Height: 600, DevicePixelRatio: 1}, field.WithSeed(9))
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range Default() {
		f.AddMetric(m)
	}
	for i := 0; i < 60; i++ {
		f.Step()
	}

	vals := f.Metrics()
	if len(vals) != 5 {
		t.Fatalf("expected 5 metrics, got %v", vals)
	}
	if vals["pointer_activity"] != 0 {
		t.Errorf("no pointer was used, got activity %f", vals["pointer_activity"])
	}
	if s := vals["mean_speed"]; s <= 0 || s > 0.3*math.Sqrt2 {
		t.Errorf("mean speed %f outside spawn range", s)
	}
	if o := vals["out_of_bounds"]; o < 0 || o > 0.1 {
		t.Errorf("unexpected out-of-bounds fraction %f", o)
	}
}
