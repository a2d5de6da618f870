package metrics

import "github.com/san-kum/particles/internal/field"

// OutOfBounds is the fraction of particle-frames spent outside the backing
// store. Reflection flips velocity without moving the particle back, so this
// is small but not zero.
type OutOfBounds struct {
	name    string
	outside int
	samples int
}

func NewOutOfBounds() *OutOfBounds {
	return &OutOfBounds{name: "out_of_bounds"}
}

func (o *OutOfBounds) Name() string {
	return o.name
}

func (o *OutOfBounds) Observe(ps []field.Particle, st field.FrameStats) {
	w, h := float64(st.Width), float64(st.Height)
	for _, p := range ps {
		o.samples++
		if p.X < 0 || p.X > w || p.Y < 0 || p.Y > h {
			o.outside++
		}
	}
}

func (o *OutOfBounds) Value() float64 {
	if o.samples == 0 {
		return 0
	}
	return float64(o.outside) / float64(o.samples)
}

func (o *OutOfBounds) Reset() {
	o.outside = 0
	o.samples = 0
}
