package metrics

import "github.com/san-kum/particles/internal/field"

// KineticEnergy is the mean per-particle kinetic energy ½|v|², taking every
// particle as unit mass. Pointer attraction is the only thing that pumps it.
type KineticEnergy struct {
	name    string
	total   float64
	samples int
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(ps []field.Particle, _ field.FrameStats) {
	for _, p := range ps {
		e.total += 0.5 * (p.VX*p.VX + p.VY*p.VY)
		e.samples++
	}
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *KineticEnergy) Reset() {
	e.total = 0
	e.samples = 0
}

type MeanSpeed struct {
	name    string
	sum     float64
	samples int
}

func NewMeanSpeed() *MeanSpeed {
	return &MeanSpeed{name: "mean_speed"}
}

func (m *MeanSpeed) Name() string { return m.name }

func (m *MeanSpeed) Observe(ps []field.Particle, _ field.FrameStats) {
	for _, p := range ps {
		m.sum += p.Speed()
		m.samples++
	}
}

func (m *MeanSpeed) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanSpeed) Reset() {
	m.sum = 0
	m.samples = 0
}
