package metrics

import "github.com/san-kum/particles/internal/field"

// LinkCount is the mean number of links drawn per frame.
type LinkCount struct {
	name    string
	sum     int
	samples int
	last    int
	peak    int
}

func NewLinkCount() *LinkCount {
	return &LinkCount{name: "links_per_frame"}
}

func (l *LinkCount) Name() string { return l.name }

func (l *LinkCount) Observe(_ []field.Particle, st field.FrameStats) {
	l.sum += st.Links
	l.samples++
	l.last = st.Links
	l.peak = max(l.peak, st.Links)
}

func (l *LinkCount) Value() float64 {
	if l.samples == 0 {
		return 0
	}
	return float64(l.sum) / float64(l.samples)
}

// Last is the link count of the most recent frame.
func (l *LinkCount) Last() int { return l.last }
func (l *LinkCount) Peak() int { return l.peak }

func (l *LinkCount) Reset() {
	l.sum, l.samples, l.last, l.peak = 0, 0, 0, 0
}

// Default returns a fresh instance of every frame metric.
func Default() []field.Metric {
	return []field.Metric{
		NewLinkCount(),
		NewMeanSpeed(),
		NewKineticEnergy(),
		NewOutOfBounds(),
		NewPointerActivity(),
	}
}
