package surface

import "github.com/san-kum/particles/internal/field"

type Kind int

const (
	KindCircle Kind = iota
	KindLine
)

func (k Kind) String() string {
	if k == KindLine {
		return "line"
	}
	return "circle"
}

// Call is one recorded draw. For circles X1 and Y1 are zero and Width holds
// the radius.
type Call struct {
	Kind           Kind
	X0, Y0, X1, Y1 float64
	Width          float64
	Color          field.Color
	Alpha          float64
}

// Recorder keeps the draw calls issued since the last Clear.
type Recorder struct {
	width, height int
	clears        int
	resizes       int
	calls         []Call
}

func NewRecorder() *Recorder {
	return &Recorder{calls: make([]Call, 0, field.MaxParticles)}
}

func (r *Recorder) Resize(width, height int) {
	r.width, r.height = width, height
	r.resizes++
	r.calls = r.calls[:0]
}

func (r *Recorder) Clear() {
	r.clears++
	r.calls = r.calls[:0]
}

func (r *Recorder) FillCircle(x, y, radius float64, c field.Color, alpha float64) {
	r.calls = append(r.calls, Call{Kind: KindCircle, X0: x, Y0: y, Width: radius, Color: c, Alpha: alpha})
}

func (r *Recorder) StrokeLine(x0, y0, x1, y1, width float64, c field.Color, alpha float64) {
	r.calls = append(r.calls, Call{Kind: KindLine, X0: x0, Y0: y0, X1: x1, Y1: y1, Width: width, Color: c, Alpha: alpha})
}

// Calls returns a copy of the current frame's draw calls.
func (r *Recorder) Calls() []Call {
	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

func (r *Recorder) Circles() int { return r.count(KindCircle) }
func (r *Recorder) Lines() int   { return r.count(KindLine) }
func (r *Recorder) Clears() int  { return r.clears }
func (r *Recorder) Resizes() int { return r.resizes }
func (r *Recorder) Size() [2]int { return [2]int{r.width, r.height} }

func (r *Recorder) count(k Kind) int {
	n := 0
	for _, c := range r.calls {
		if c.Kind == k {
			n++
		}
	}
	return n
}

type discard struct{}

func (discard) Resize(int, int) {}

func (discard) Clear() {}

func (discard) FillCircle(x, y, r float64, c field.Color, alpha float64) {}

func (discard) StrokeLine(x0, y0, x1, y1, w float64, c field.Color, alpha float64) {}

// Discard is a surface that draws nothing, for benchmarks and stats runs.
var Discard field.Surface = discard{}
