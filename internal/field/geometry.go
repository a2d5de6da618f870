package field

import "math"

// PixelRatio clamps a device pixel ratio to (0, MaxPixelRatio]. Missing or
// nonsensical ratios count as 1.
func PixelRatio(dpr float64) float64 {
	if dpr <= 0 || math.IsNaN(dpr) || math.IsInf(dpr, 0) {
		dpr = 1
	}
	return math.Min(dpr, MaxPixelRatio)
}

// BackingDim converts a logical length into whole backing-store pixels.
func BackingDim(logical, ratio float64) int {
	d := math.Floor(logical * ratio)
	if d < 0 || math.IsNaN(d) {
		return 0
	}
	return int(d)
}

// ParticleCount is min(MaxParticles, floor(area / AreaPerParticle)) for a
// logical viewport.
func ParticleCount(width, height float64) int {
	n := math.Floor(width * height / AreaPerParticle)
	if n <= 0 || math.IsNaN(n) {
		return 0
	}
	if n > MaxParticles {
		return MaxParticles
	}
	return int(n)
}

// Attraction returns the velocity impulse factor for a particle dist pixels
// from the pointer. dist is floored at 1 before use.
func Attraction(dist float64) float64 {
	if dist < minPointerGap || math.IsNaN(dist) {
		dist = minPointerGap
	}
	return math.Min(MaxAttraction, 1/(dist*AttractionFalloff))
}

// LinkWidth is the stroke width for a pair at squared distance d2. It tapers
// linearly to zero at the threshold and is only meaningful below it.
func LinkWidth(d2, ratio float64) float64 {
	limit := LinkDistance * ratio
	return LinkMaxWidth * ratio * (1 - d2/(limit*limit))
}
