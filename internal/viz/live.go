package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/rs/zerolog"

	"github.com/san-kum/particles/internal/config"
	"github.com/san-kum/particles/internal/field"
	"github.com/san-kum/particles/internal/logging"
	"github.com/san-kum/particles/internal/metrics"
	"github.com/san-kum/particles/internal/sim"
	"github.com/san-kum/particles/internal/surface"
)

const (
	// CellWidth and CellHeight are the logical pixels one terminal cell
	// stands for, so a terminal gets roughly the particle density of a
	// browser window of the same apparent size.
	CellWidth  = 8.0
	CellHeight = 16.0

	panelWidth      = 40
	canvasPadX      = 2
	canvasPadY      = 1
	historyCapacity = 120
	minCols         = 10
	minRows         = 4
)

type TickMsg time.Time

// Model hosts one particle field in the terminal. Bubble Tea's update loop is
// the frame thread: ticks fire the scheduler, mouse and focus messages feed
// the dispatcher.
type Model struct {
	cfg    *config.Config
	opts   []sim.Option
	log    zerolog.Logger
	sched  *sim.ManualScheduler
	events *sim.Dispatcher
	canvas *surface.Braille
	handle *sim.Handle

	links   *metrics.LinkCount
	speed   *metrics.MeanSpeed
	pointer *metrics.PointerActivity
	history []float64

	theme         Theme
	styles        styles
	width, height int
	viewport      field.Viewport
	paused        bool
	showHelp      bool
	hover         bool
}

// NewModel prepares a live view. The field itself starts on the first
// window size message, when the canvas size is known.
func NewModel(cfg *config.Config, opts ...sim.Option) *Model {
	m := &Model{
		cfg:     cfg,
		opts:    opts,
		log:     logging.For("viz"),
		sched:   sim.NewManualScheduler(),
		events:  sim.NewDispatcher(),
		canvas:  surface.NewBraille(minCols, minRows),
		links:   metrics.NewLinkCount(),
		speed:   metrics.NewMeanSpeed(),
		pointer: metrics.NewPointerActivity(),
		history: make([]float64, 0, historyCapacity),
		theme:   ThemeEmber,
	}
	m.restyle()
	return m
}

func (m *Model) restyle() {
	bg, err := config.ParseColor(m.cfg.Background)
	if err != nil {
		bg = field.Color{}
	}
	m.styles = newStyles(m.theme, m.cfg.ParticleColor(), bg)
}

func (m *Model) tick() tea.Cmd {
	fps := m.cfg.FPS
	if fps <= 0 {
		fps = sim.DefaultFPS
	}
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m *Model) Init() tea.Cmd {
	return m.tick()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Close()
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "r":
			if m.handle != nil {
				m.events.Resize(m.viewport)
			}
		case "t":
			m.theme = NextTheme(m.theme.Name)
			m.restyle()
		case "?":
			m.showHelp = !m.showHelp
		}

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case tea.MouseMsg:
		m.mouse(msg)

	case tea.BlurMsg:
		m.leave()

	case TickMsg:
		if !m.paused {
			m.sched.Fire(time.Time(msg))
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	cols := max(w-panelWidth-2*canvasPadX-1, minCols)
	rows := max(h-2*canvasPadY, minRows)

	m.viewport = field.Viewport{
		Width:            float64(cols) * CellWidth,
		Height:           float64(rows) * CellHeight,
		DevicePixelRatio: m.cfg.Viewport.DevicePixelRatio,
	}
	m.canvas.SetGrid(cols, rows)

	if m.handle == nil {
		m.start()
		return
	}
	m.events.Resize(m.viewport)
}

func (m *Model) start() {
	opts := append([]sim.Option{
		sim.WithFieldOptions(field.WithColor(m.cfg.ParticleColor())),
		sim.WithMetrics(m.links, m.speed, m.pointer),
		sim.WithObservers(field.ObserverFunc(m.record)),
	}, m.opts...)
	if m.cfg.Seed != 0 {
		opts = append(opts, sim.WithFieldOptions(field.WithSeed(m.cfg.Seed)))
	}

	env := sim.Env{Viewport: m.viewport, ReducedMotion: m.cfg.ReduceMotion}
	h, err := sim.Start(env, m.canvas, m.sched, m.events, opts...)
	if err != nil {
		m.log.Error().Err(err).Msg("live view could not start the field")
		h, _ = sim.Start(sim.Env{ReducedMotion: true}, nil, m.sched, nil, sim.WithLogger(zerolog.Nop()))
	}
	m.handle = h
}

func (m *Model) record(_ *field.Field, st field.FrameStats) {
	if len(m.history) == historyCapacity {
		copy(m.history, m.history[1:])
		m.history = m.history[:historyCapacity-1]
	}
	m.history = append(m.history, float64(st.Links))
}

// mouse converts a terminal cell into surface-local logical pixels, taking
// the cell centre.
func (m *Model) mouse(msg tea.MouseMsg) {
	cols, rows := m.canvas.GridSize()
	col, row := msg.X-canvasPadX, msg.Y-canvasPadY
	if col < 0 || row < 0 || col >= cols || row >= rows {
		m.leave()
		return
	}
	m.hover = true
	m.events.PointerMove((float64(col)+0.5)*CellWidth, (float64(row)+0.5)*CellHeight)
}

func (m *Model) leave() {
	if m.hover {
		m.hover = false
		m.events.PointerLeave()
	}
}

// Close stops the field. Safe to call more than once.
func (m *Model) Close() {
	if m.handle != nil {
		m.handle.Stop()
	}
}

// Handle is nil until the first window size message.
func (m *Model) Handle() *sim.Handle { return m.handle }

func (m *Model) View() string {
	if m.width == 0 {
		return "starting…"
	}

	canvasView := m.styles.canvas.Render(m.renderCanvas())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, m.styles.panel.Render(m.renderPanel()))
	if m.showHelp {
		return helpText + "\n" + mainView
	}
	return mainView
}

// renderCanvas styles runs of cells that share an opacity band together.
func (m *Model) renderCanvas() string {
	cols, rows := m.canvas.GridSize()
	var b strings.Builder
	var run []rune
	band := -1

	flush := func() {
		if len(run) == 0 {
			return
		}
		if band < 0 {
			b.WriteString(string(run))
		} else {
			b.WriteString(m.styles.shades[band].Render(string(run)))
		}
		run = run[:0]
	}

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			r, alpha := m.canvas.Cell(col, row)
			next := -1
			if alpha > 0 {
				next = shade(alpha)
			}
			if next != band {
				flush()
				band = next
			}
			run = append(run, r)
		}
		flush()
		if row < rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (m *Model) renderPanel() string {
	s := m.styles
	var b strings.Builder
	b.WriteString(s.header.Render("PARTICLES") + "\n")

	h := m.handle
	switch {
	case h == nil:
		b.WriteString(s.warn.Render("WAITING") + "\n")
	case m.cfg.ReduceMotion:
		b.WriteString(s.warn.Render("REDUCED MOTION") + "\n")
		b.WriteString(s.label.Render("reduced motion: particles disabled") + "\n")
		return b.String()
	case !h.Active():
		b.WriteString(s.warn.Render("STOPPED") + "\n")
		return b.String()
	case m.paused:
		b.WriteString(s.warn.Render("PAUSED") + "\n")
	default:
		b.WriteString(s.ok.Render("RUNNING") + "\n")
	}
	if h == nil || h.Field() == nil {
		return b.String()
	}

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history,
			asciigraph.Height(5),
			asciigraph.Width(panelWidth-12),
			asciigraph.Caption("links per frame"))
		b.WriteString(s.graph.Render(chart) + "\n")
	}

	f := h.Field()
	n := len(f.Particles())
	bw, bh := f.BackingSize()
	ptr := f.Pointer()
	ptrText := "idle"
	if ptr.Active {
		ptrText = fmt.Sprintf("%.0f, %.0f", ptr.X, ptr.Y)
	}

	row := func(label, value string) {
		b.WriteString(s.label.Render(label) + s.value.Render(value) + "\n")
	}
	row("Frame", fmt.Sprintf("%d", f.Frame()))
	row("Particles", fmt.Sprintf("%d %s", n, ProgressBar(float64(n)/field.MaxParticles, 10)))
	row("Links", fmt.Sprintf("%d (peak %d)", m.links.Last(), m.links.Peak()))
	row("Speed", fmt.Sprintf("%.3f px/f", m.speed.Value()))
	row("Pointer", ptrText)
	row("Active", fmt.Sprintf("%.0f%%", m.pointer.Value()*100))
	row("Viewport", f.Viewport().String())
	row("Backing", fmt.Sprintf("%dx%d", bw, bh))
	row("Link radius", fmt.Sprintf("%.0f px", f.LinkDistance()))
	row("Theme", m.theme.Name)

	b.WriteString(s.help.Render("SP:Pause R:Respawn T:Theme\n?:Help    Q:Quit"))
	return b.String()
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Mouse    - Attract particles        ║
║  Space    - Pause/Resume             ║
║  R        - Respawn the pool         ║
║  T        - Cycle panel themes       ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝
`

// Run starts a full-screen live view and blocks until the user quits.
func Run(cfg *config.Config, opts ...sim.Option) error {
	m := NewModel(cfg, opts...)
	defer m.Close()

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
	)
	_, err := p.Run()
	return err
}
