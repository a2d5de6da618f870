package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/particles/internal/field"
)

// shadeLevels is how many opacity bands the terminal canvas distinguishes.
const shadeLevels = 4

type styles struct {
	canvas lipgloss.Style
	panel  lipgloss.Style
	header lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	graph  lipgloss.Style
	help   lipgloss.Style
	ok     lipgloss.Style
	warn   lipgloss.Style
	shades [shadeLevels]lipgloss.Style
}

func newStyles(t Theme, particle, background field.Color) styles {
	s := styles{
		canvas: lipgloss.NewStyle().Padding(canvasPadY, canvasPadX),
		panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(1, 2).
			Width(panelWidth),
		header: lipgloss.NewStyle().Foreground(t.Primary).Bold(true).MarginBottom(1),
		label:  lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:  lipgloss.NewStyle().Foreground(t.Text),
		graph:  lipgloss.NewStyle().Foreground(t.Accent).Padding(1, 0),
		help:   lipgloss.NewStyle().Foreground(t.Muted).MarginTop(1),
		ok:     lipgloss.NewStyle().Foreground(t.Success).Bold(true),
		warn:   lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
	}

	bg := toColorful(background)
	fg := toColorful(particle)
	for i := range s.shades {
		// the faintest band still has to read against the background
		k := 0.35 + 0.65*float64(i)/float64(shadeLevels-1)
		s.shades[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(bg.BlendLab(fg, k).Clamped().Hex()))
	}
	return s
}

func toColorful(c field.Color) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// shade maps a draw opacity onto a band index.
func shade(alpha float64) int {
	// particle alphas top out at 0.7
	i := int(alpha / 0.7 * shadeLevels)
	return max(0, min(i, shadeLevels-1))
}

// ProgressBar renders a filled/empty bar for a fraction in [0, 1].
func ProgressBar(fraction float64, width int) string {
	filled := int(fraction * float64(width))
	filled = max(0, min(filled, width))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
