package metrics

import "github.com/san-kum/particles/internal/field"

// PointerActivity is the fraction of frames stepped with an active pointer.
type PointerActivity struct {
	name    string
	active  int
	samples int
}

func NewPointerActivity() *PointerActivity {
	return &PointerActivity{name: "pointer_activity"}
}

func (p *PointerActivity) Name() string {
	return p.name
}

func (p *PointerActivity) Observe(_ []field.Particle, st field.FrameStats) {
	if st.PointerActive {
		p.active++
	}
	p.samples++
}

func (p *PointerActivity) Value() float64 {
	if p.samples == 0 {
		return 0
	}
	return float64(p.active) / float64(p.samples)
}

func (p *PointerActivity) Reset() {
	p.active = 0
	p.samples = 0
}
