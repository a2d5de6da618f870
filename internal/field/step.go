package field

import "math"

// Step advances the field by one frame and draws it: clear, move each
// particle, pull it towards an active pointer, reflect velocity at the
// borders, fill it, then stroke links between close pairs.
func (f *Field) Step() FrameStats {
	f.surface.Clear()

	w, h := float64(f.width), float64(f.height)
	ptr := f.pointer

	for i := range f.particles {
		p := &f.particles[i]
		p.X += p.VX
		p.Y += p.VY

		if ptr.Active {
			dx, dy := ptr.X-p.X, ptr.Y-p.Y
			force := Attraction(math.Hypot(dx, dy))
			p.VX += dx * force
			p.VY += dy * force
		}

		// reflect only; a particle may sit outside until its next move
		if p.X < 0 || p.X > w {
			p.VX = -p.VX
		}
		if p.Y < 0 || p.Y > h {
			p.VY = -p.VY
		}

		f.surface.FillCircle(p.X, p.Y, p.Size, f.color, p.Alpha)
	}

	links := f.drawLinks()
	f.frame++

	stats := FrameStats{
		Frame:         f.frame,
		Particles:     len(f.particles),
		Links:         links,
		PointerActive: ptr.Active,
		Width:         f.width,
		Height:        f.height,
	}
	for _, m := range f.metrics {
		m.Observe(f.particles, stats)
	}
	for _, o := range f.observers {
		o.OnFrame(f, stats)
	}
	return stats
}

func (f *Field) drawLinks() int {
	limit := LinkDistance * f.ratio
	limit2 := limit * limit
	links := 0

	for i := 0; i < len(f.particles); i++ {
		a := f.particles[i]
		for j := i + 1; j < len(f.particles); j++ {
			b := f.particles[j]
			dx, dy := a.X-b.X, a.Y-b.Y
			d2 := dx*dx + dy*dy
			if d2 < limit2 {
				f.surface.StrokeLine(a.X, a.Y, b.X, b.Y, LinkWidth(d2, f.ratio), f.color, LinkAlpha)
				links++
			}
		}
	}
	return links
}
