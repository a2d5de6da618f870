package surface

import (
	"math"
	"strings"

	"github.com/san-kum/particles/internal/field"
)

// Braille patterns are 2x4 dots:
//
//	1 4
//	2 5
//	3 6
//	7 8
//
// at offset 0x2800.
const brailleBase = 0x2800

var dotBits = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// MinBrailleLine is the thinnest link, in sub-pixels, that is still drawn.
const MinBrailleLine = 0.12

// Braille draws a field onto a cols x rows grid of braille cells. Backing
// pixels are scaled onto the 2x4 sub-pixel lattice of the grid.
type Braille struct {
	cols, rows    int
	width, height int
	sx, sy        float64
	grid          [][]rune
	alpha         [][]float64
}

func NewBraille(cols, rows int) *Braille {
	b := &Braille{}
	b.SetGrid(cols, rows)
	return b
}

// SetGrid changes the cell grid, for example after a terminal resize.
func (b *Braille) SetGrid(cols, rows int) {
	b.cols, b.rows = max(cols, 0), max(rows, 0)
	b.grid = make([][]rune, b.rows)
	b.alpha = make([][]float64, b.rows)
	for i := range b.grid {
		b.grid[i] = make([]rune, b.cols)
		b.alpha[i] = make([]float64, b.cols)
	}
	b.rescale()
	b.Clear()
}

func (b *Braille) Resize(width, height int) {
	b.width, b.height = width, height
	b.rescale()
	b.Clear()
}

func (b *Braille) rescale() {
	b.sx, b.sy = 0, 0
	if b.width > 0 {
		b.sx = float64(b.cols*2) / float64(b.width)
	}
	if b.height > 0 {
		b.sy = float64(b.rows*4) / float64(b.height)
	}
}

func (b *Braille) Clear() {
	for i := range b.grid {
		for j := range b.grid[i] {
			b.grid[i][j] = brailleBase
			b.alpha[i][j] = 0
		}
	}
}

func (b *Braille) FillCircle(x, y, r float64, _ field.Color, alpha float64) {
	cx, cy := x*b.sx, y*b.sy
	rx, ry := r*b.sx, r*b.sy
	if rx < 1 && ry < 1 {
		b.set(int(math.Floor(cx)), int(math.Floor(cy)), alpha)
		return
	}
	for py := int(math.Floor(cy - ry)); py <= int(math.Ceil(cy+ry)); py++ {
		for px := int(math.Floor(cx - rx)); px <= int(math.Ceil(cx+rx)); px++ {
			dx, dy := (float64(px)+0.5-cx)/rx, (float64(py)+0.5-cy)/ry
			if dx*dx+dy*dy <= 1 {
				b.set(px, py, alpha)
			}
		}
	}
}

// StrokeLine plots a Bresenham line on the sub-pixel lattice. Lines thinner
// than MinBrailleLine sub-pixels are skipped.
func (b *Braille) StrokeLine(x0, y0, x1, y1, width float64, _ field.Color, alpha float64) {
	if width*math.Max(b.sx, b.sy) < MinBrailleLine {
		return
	}
	ax, ay := int(math.Floor(x0*b.sx)), int(math.Floor(y0*b.sy))
	bx, by := int(math.Floor(x1*b.sx)), int(math.Floor(y1*b.sy))

	dx, dy := absInt(bx-ax), absInt(by-ay)
	stepX, stepY := -1, -1
	if ax < bx {
		stepX = 1
	}
	if ay < by {
		stepY = 1
	}
	err := dx - dy

	for {
		b.set(ax, ay, alpha)
		if ax == bx && ay == by {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			ax += stepX
		}
		if e2 < dx {
			err += dx
			ay += stepY
		}
	}
}

func (b *Braille) set(x, y int, alpha float64) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= b.cols || row >= b.rows {
		return
	}
	b.grid[row][col] |= dotBits[y%4][x%2]
	if alpha > b.alpha[row][col] {
		b.alpha[row][col] = alpha
	}
}

// Cell returns the glyph at a cell and the highest opacity drawn into it.
func (b *Braille) Cell(col, row int) (rune, float64) {
	if col < 0 || row < 0 || col >= b.cols || row >= b.rows {
		return brailleBase, 0
	}
	return b.grid[row][col], b.alpha[row][col]
}

// Dots counts raised dots across the grid.
func (b *Braille) Dots() int {
	n := 0
	for _, row := range b.grid {
		for _, r := range row {
			for v := r - brailleBase; v != 0; v &= v - 1 {
				n++
			}
		}
	}
	return n
}

func (b *Braille) Rows() []string {
	out := make([]string, len(b.grid))
	for i, row := range b.grid {
		out[i] = string(row)
	}
	return out
}

func (b *Braille) String() string {
	return strings.Join(b.Rows(), "\n")
}

func (b *Braille) GridSize() (int, int) { return b.cols, b.rows }

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
