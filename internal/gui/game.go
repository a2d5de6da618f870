package gui

import (
	"errors"
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/san-kum/particles/internal/config"
	"github.com/san-kum/particles/internal/field"
	"github.com/san-kum/particles/internal/sim"
	"github.com/san-kum/particles/internal/surface"
)

// canvas draws onto whatever screen image Ebiten hands to Draw.
type canvas struct {
	target     *ebiten.Image
	background color.Color
}

// Resize is a no-op: Ebiten sizes the screen from Layout.
func (c *canvas) Resize(int, int) {}

func (c *canvas) Clear() {
	if c.target != nil {
		c.target.Fill(c.background)
	}
}

func (c *canvas) FillCircle(x, y, r float64, col field.Color, alpha float64) {
	if c.target == nil {
		return
	}
	vector.DrawFilledCircle(c.target, float32(x), float32(y), float32(r), surface.NRGBA(col, alpha), true)
}

func (c *canvas) StrokeLine(x0, y0, x1, y1, width float64, col field.Color, alpha float64) {
	if c.target == nil {
		return
	}
	vector.StrokeLine(c.target, float32(x0), float32(y0), float32(x1), float32(y1), float32(width), surface.NRGBA(col, alpha), true)
}

// Game implements ebiten.Game.
type Game struct {
	host      *host
	canvas    *canvas
	showStats bool
}

func NewGame(cfg *config.Config, opts ...sim.Option) *Game {
	bg, err := config.ParseColor(cfg.Background)
	if err != nil {
		bg = field.Color{}
	}
	c := &canvas{background: color.NRGBA{R: bg.R, G: bg.G, B: bg.B, A: 255}}
	return &Game{host: newHost(cfg, c, opts...), canvas: c}
}

func (g *Game) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyQ), inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		g.host.stop()
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.host.togglePause()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.host.respawn()
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		g.showStats = !g.showStats
	}

	// CursorPosition is in screen pixels, which are backing pixels here.
	cx, cy := ebiten.CursorPosition()
	ratio := field.PixelRatio(g.host.viewport.DevicePixelRatio)
	x, y := float64(cx)/ratio, float64(cy)/ratio
	inside := ebiten.IsFocused() &&
		x >= 0 && y >= 0 && x < g.host.viewport.Width && y < g.host.viewport.Height
	g.host.cursor(x, y, inside)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.canvas.target = screen
	if g.host.frame(time.Now()) == 0 && g.host.paused {
		// keep the last frame visible
		return
	}
	if h := g.host.handle; h == nil || !h.Active() {
		screen.Fill(g.canvas.background)
	}
	if g.showStats && g.host.handle != nil && g.host.handle.Field() != nil {
		f := g.host.handle.Field()
		ebitenutil.DebugPrint(screen, fmt.Sprintf("frame %d  particles %d  tps %.0f",
			f.Frame(), len(f.Particles()), ebiten.ActualTPS()))
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.host.layout(outsideWidth, outsideHeight, g.host.cfg.Viewport.DevicePixelRatio)
}

// Run opens a window sized from cfg and blocks until it is closed. A zero
// device pixel ratio in cfg follows the monitor.
func Run(cfg *config.Config, opts ...sim.Option) error {
	if cfg.Viewport.DevicePixelRatio <= 0 {
		cfg.Viewport.DevicePixelRatio = ebiten.Monitor().DeviceScaleFactor()
	}
	g := NewGame(cfg, opts...)
	defer g.host.stop()

	ebiten.SetWindowSize(int(cfg.Viewport.Width), int(cfg.Viewport.Height))
	ebiten.SetWindowTitle("particles - Space: pause, R: respawn, S: stats, Q: quit")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetScreenClearedEveryFrame(false)
	ebiten.SetTPS(cfg.FPS)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
