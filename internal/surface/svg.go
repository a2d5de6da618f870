package surface

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/particles/internal/field"
)

// SVG keeps the current frame as SVG elements.
type SVG struct {
	width, height int
	background    string
	elems         strings.Builder
	count         int
}

// NewSVG returns an SVG surface. An empty background leaves the document
// transparent.
func NewSVG(background string) *SVG {
	return &SVG{background: background}
}

func (s *SVG) Resize(width, height int) {
	s.width, s.height = width, height
	s.Clear()
}

func (s *SVG) Clear() {
	s.elems.Reset()
	s.count = 0
}

func (s *SVG) FillCircle(x, y, r float64, c field.Color, alpha float64) {
	fmt.Fprintf(&s.elems, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s" fill-opacity="%.3f"/>`+"\n",
		x, y, r, c.Hex(), alpha)
	s.count++
}

func (s *SVG) StrokeLine(x0, y0, x1, y1, width float64, c field.Color, alpha float64) {
	fmt.Fprintf(&s.elems, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-opacity="%.3f" stroke-width="%.3f"/>`+"\n",
		x0, y0, x1, y1, c.Hex(), alpha, width)
	s.count++
}

// Elements is the number of shapes in the current frame.
func (s *SVG) Elements() int { return s.count }

func (s *SVG) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
`, s.width, s.height, s.width, s.height))
	if s.background != "" {
		sb.WriteString(fmt.Sprintf(`<rect width="100%%" height="100%%" fill="%s"/>`+"\n", s.background))
	}
	sb.WriteString(s.elems.String())
	sb.WriteString("</svg>\n")
	return sb.String()
}

func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.String())
	return int64(n), err
}
