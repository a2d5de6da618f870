package field

import (
	"math"
	"testing"
)

func TestStepDrawsEveryParticle(t *testing.T) {
	f, s := newTestField(t, Viewport{800, 600, 1})
	stats := f.Step()

	if s.clears != 1 {
		t.Errorf("expected one clear per frame, got %d", s.clears)
	}
	if got := s.count("circle"); got != 40 {
		t.Errorf("expected 40 circles, got %d", got)
	}
	if got := s.count("line"); got != stats.Links {
		t.Errorf("stats report %d links, surface saw %d", stats.Links, got)
	}
	if stats.Frame != 1 || f.Frame() != 1 {
		t.Errorf("expected frame 1, got %d", stats.Frame)
	}
	if stats.Particles != 40 {
		t.Errorf("expected 40 particles in stats, got %d", stats.Particles)
	}
}

func TestStepMovesByVelocity(t *testing.T) {
	f, _ := newTestField(t, Viewport{800, 600, 1})
	f.particles = []Particle{{X: 100, Y: 200, VX: 0.25, VY: -0.1, Size: 1, Alpha: 0.5}}

	f.Step()
	p := f.Particles()[0]
	if math.Abs(p.X-100.25) > 1e-12 || math.Abs(p.Y-199.9) > 1e-12 {
		t.Errorf("expected (100.25, 199.9), got (%v, %v)", p.X, p.Y)
	}
}

func TestBorderReflection(t *testing.T) {
	tests := []struct {
		name          string
		in            Particle
		wantVX, wantX float64
		wantVY, wantY float64
	}{
		{"right edge", Particle{X: 805, Y: 10, VX: 2}, -2, 807, 0, 10},
		{"left edge", Particle{X: -1, Y: 10, VX: -0.5}, 0.5, -1.5, 0, 10},
		{"bottom edge", Particle{X: 10, Y: 600, VY: 1}, 0, 10, -1, 601},
		{"corner", Particle{X: -3, Y: 603, VX: -1, VY: 1}, 1, -4, -1, 604},
		{"on boundary", Particle{X: 799, Y: 10, VX: 1}, 1, 800, 0, 10},
		{"inside", Particle{X: 400, Y: 300, VX: 1, VY: 1}, 1, 401, 1, 301},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, _ := newTestField(t, Viewport{800, 600, 1})
			tt.in.Size, tt.in.Alpha = 1, 0.5
			f.particles = []Particle{tt.in}

			f.Step()
			p := f.Particles()[0]
			if p.VX != tt.wantVX || p.VY != tt.wantVY {
				t.Errorf("velocity = (%v, %v), want (%v, %v)", p.VX, p.VY, tt.wantVX, tt.wantVY)
			}
			if p.X != tt.wantX || p.Y != tt.wantY {
				t.Errorf("position = (%v, %v), want (%v, %v); reflection must not clamp", p.X, p.Y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestAttractionCap(t *testing.T) {
	dists := []float64{0, 1e-9, 0.5, 1, 10, 624, 625, 626, 1000, 1e6, math.NaN()}
	for _, d := range dists {
		f := Attraction(d)
		if f > MaxAttraction {
			t.Errorf("Attraction(%v) = %v exceeds cap", d, f)
		}
		if f <= 0 {
			t.Errorf("Attraction(%v) = %v, want positive", d, f)
		}
	}

	if got := Attraction(1000); math.Abs(got-5e-7) > 1e-15 {
		t.Errorf("Attraction(1000) = %v, want 5e-7", got)
	}
	if got := Attraction(0); got != MaxAttraction {
		t.Errorf("Attraction(0) = %v, want cap", got)
	}
}

func TestPointerAttraction(t *testing.T) {
	f, _ := newTestField(t, Viewport{800, 600, 1})
	f.particles = []Particle{{X: 100, Y: 100, Size: 1, Alpha: 0.5}}
	f.PointerMove(200, 100)

	f.Step()
	p := f.Particles()[0]
	want := 100 * (1 / (100 * AttractionFalloff))
	if math.Abs(p.VX-want) > 1e-15 || p.VY != 0 {
		t.Errorf("velocity = (%v, %v), want (%v, 0)", p.VX, p.VY, want)
	}
}

func TestPointerOnParticle(t *testing.T) {
	f, _ := newTestField(t, Viewport{800, 600, 1})
	f.particles = []Particle{{X: 100, Y: 100, Size: 1, Alpha: 0.5}}
	f.PointerMove(100, 100)

	f.Step()
	p := f.Particles()[0]
	if p.VX != 0 || p.VY != 0 || math.IsNaN(p.X) {
		t.Errorf("zero distance must not disturb the particle: %+v", p)
	}
}

func TestInactivePointerAppliesNoForce(t *testing.T) {
	f, _ := newTestField(t, Viewport{800, 600, 1})
	f.particles = []Particle{{X: 100, Y: 100, VX: 0.1, Size: 1, Alpha: 0.5}}
	f.PointerMove(300, 300)
	f.PointerLeave()

	f.Step()
	p := f.Particles()[0]
	if p.VX != 0.1 || p.VY != 0 {
		t.Errorf("velocity changed without an active pointer: (%v, %v)", p.VX, p.VY)
	}
}

func TestMomentumKeptAfterLeave(t *testing.T) {
	f, _ := newTestField(t, Viewport{800, 600, 1})
	f.particles = []Particle{{X: 100, Y: 100, Size: 1, Alpha: 0.5}}
	f.PointerMove(200, 100)
	f.Step()
	gained := f.Particles()[0].VX

	f.PointerLeave()
	f.Step()
	if got := f.Particles()[0].VX; got != gained {
		t.Errorf("expected velocity %v kept after leave, got %v", gained, got)
	}
}

func TestAlphaNeverChanges(t *testing.T) {
	f, _ := newTestField(t, Viewport{1024, 768, 2})
	initial := f.Particles()
	f.PointerMove(512, 384)

	for i := 0; i < 500; i++ {
		if i == 250 {
			f.PointerLeave()
		}
		f.Step()
	}

	for i, p := range f.Particles() {
		if p.Alpha != initial[i].Alpha {
			t.Errorf("particle %d alpha changed from %v to %v", i, initial[i].Alpha, p.Alpha)
		}
	}
}

func TestLinkThreshold(t *testing.T) {
	tests := []struct {
		name  string
		ratio float64
		gap   float64
		link  bool
	}{
		{"well inside", 1, 60, true},
		{"just inside", 1, 119.99, true},
		{"exactly at threshold", 1, 120, false},
		{"outside", 1, 150, false},
		{"scaled inside", 2, 239, true},
		{"scaled threshold", 2, 240, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, s := newTestField(t, Viewport{800, 600, tt.ratio})
			f.particles = []Particle{
				{X: 100, Y: 100, Size: 1, Alpha: 0.5},
				{X: 100 + tt.gap, Y: 100, Size: 1, Alpha: 0.5},
			}

			stats := f.Step()
			if got := stats.Links == 1; got != tt.link {
				t.Fatalf("link drawn = %v, want %v", got, tt.link)
			}
			if !tt.link {
				return
			}
			line := s.calls[len(s.calls)-1]
			if line.kind != "line" || line.alpha != LinkAlpha {
				t.Fatalf("expected a line at alpha %v, got %+v", LinkAlpha, line)
			}
			want := LinkWidth(tt.gap*tt.gap, tt.ratio)
			if math.Abs(line.width-want) > 1e-12 {
				t.Errorf("width = %v, want %v", line.width, want)
			}
		})
	}
}

func TestLinkWidthTaper(t *testing.T) {
	if got := LinkWidth(0, 1); got != 0.8 {
		t.Errorf("LinkWidth(0, 1) = %v, want 0.8", got)
	}
	if got := LinkWidth(0, 2); got != 1.6 {
		t.Errorf("LinkWidth(0, 2) = %v, want 1.6", got)
	}
	if got := LinkWidth(120*120, 1); math.Abs(got) > 1e-12 {
		t.Errorf("LinkWidth at threshold = %v, want 0", got)
	}
	near := LinkWidth(119.999*119.999, 1)
	if near <= 0 || near > 1e-4 {
		t.Errorf("LinkWidth just below threshold = %v, want tiny positive", near)
	}
}

func TestLinksDrawnMatchStats(t *testing.T) {
	f, s := newTestField(t, Viewport{1280, 720, 1})
	for i := 0; i < 20; i++ {
		stats := f.Step()

		limit2 := math.Pow(LinkDistance*f.PixelRatio(), 2)
		ps := f.Particles()
		want := 0
		for a := range ps {
			for b := a + 1; b < len(ps); b++ {
				dx, dy := ps[a].X-ps[b].X, ps[a].Y-ps[b].Y
				if dx*dx+dy*dy < limit2 {
					want++
				}
			}
		}

		if stats.Links != want {
			t.Fatalf("frame %d: stats report %d links, %d pairs are in range", stats.Frame, stats.Links, want)
		}
		if got := s.count("line"); got != stats.Links {
			t.Fatalf("frame %d: drew %d lines, stats report %d", stats.Frame, got, stats.Links)
		}
	}
}

type countingMetric struct {
	frames, links int
}

func (c *countingMetric) Name() string { return "links_total" }
func (c *countingMetric) Observe(ps []Particle, st FrameStats) {
	c.frames++
	c.links += st.Links
}
func (c *countingMetric) Value() float64 { return float64(c.links) }
func (c *countingMetric) Reset()         { c.frames, c.links = 0, 0 }

func TestMetricsAndObservers(t *testing.T) {
	f, _ := newTestField(t, Viewport{800, 600, 1})
	m := &countingMetric{}
	f.AddMetric(m)

	seen := 0
	f.AddObserver(ObserverFunc(func(_ *Field, st FrameStats) {
		seen++
		if st.Frame != seen {
			t.Errorf("observer saw frame %d, expected %d", st.Frame, seen)
		}
	}))

	total := 0
	for i := 0; i < 5; i++ {
		total += f.Step().Links
	}
	if m.frames != 5 || seen != 5 {
		t.Errorf("expected 5 observations, got metric=%d observer=%d", m.frames, seen)
	}
	if got := f.Metrics()["links_total"]; got != float64(total) {
		t.Errorf("metric value = %v, want %d", got, total)
	}
}
