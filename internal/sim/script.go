package sim

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/particles/internal/field"
)

// Script is a scripted pointer for headless runs. Given the frame about to
// be stepped it returns a surface-local logical position and whether the
// pointer is over the surface.
type Script func(frame int, vp field.Viewport) (x, y float64, active bool)

func NoPointer(int, field.Viewport) (float64, float64, bool) { return 0, 0, false }

func CenterPointer(_ int, vp field.Viewport) (float64, float64, bool) {
	return vp.Width / 2, vp.Height / 2, true
}

// OrbitPointer circles the centre once every 240 frames on an ellipse a
// third of the viewport wide, and leaves the surface for the last quarter of
// each lap so momentum decay is visible.
func OrbitPointer(frame int, vp field.Viewport) (float64, float64, bool) {
	const period = 240
	phase := frame % period
	if phase >= period*3/4 {
		return 0, 0, false
	}
	a := 2 * math.Pi * float64(phase) / period
	return vp.Width/2 + vp.Width/3*math.Cos(a), vp.Height/2 + vp.Height/3*math.Sin(a), true
}

var scripts = map[string]Script{
	"none":   NoPointer,
	"center": CenterPointer,
	"orbit":  OrbitPointer,
}

// ParseScript resolves a pointer script by name.
func ParseScript(name string) (Script, error) {
	s, ok := scripts[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("sim: unknown pointer script %q (want none, center or orbit)", name)
	}
	return s, nil
}

// ScriptNames lists the accepted script names.
func ScriptNames() []string {
	return []string{"none", "center", "orbit"}
}
