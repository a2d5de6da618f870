package export

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"io"
	"os"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/particles/internal/field"
	"github.com/san-kum/particles/internal/surface"
)

const paletteSize = 64

var ErrNoFrames = errors.New("export: no frames captured")

// Palette ramps from bg to fg in Lab space. Particles only ever blend the
// one colour over the background, so the ramp covers every pixel value.
func Palette(bg, fg field.Color) color.Palette {
	from := colorful.Color{R: float64(bg.R) / 255, G: float64(bg.G) / 255, B: float64(bg.B) / 255}
	to := colorful.Color{R: float64(fg.R) / 255, G: float64(fg.G) / 255, B: float64(fg.B) / 255}

	p := make(color.Palette, paletteSize)
	for i := range p {
		t := float64(i) / float64(paletteSize-1)
		r, g, b := from.BlendLab(to, t).Clamped().RGB255()
		p[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return p
}

// GIFRecorder captures every Nth frame of a raster surface. Attach it to a
// field as an observer.
type GIFRecorder struct {
	raster  *surface.Raster
	palette color.Palette
	every   int
	delay   int
	anim    gif.GIF
}

// NewGIFRecorder samples every Nth frame of a field running at fps.
func NewGIFRecorder(r *surface.Raster, bg, fg field.Color, fps, every int) *GIFRecorder {
	if every < 1 {
		every = 1
	}
	if fps <= 0 {
		fps = 60
	}
	delay := max(1, 100*every/fps)
	return &GIFRecorder{
		raster:  r,
		palette: Palette(bg, fg),
		every:   every,
		delay:   delay,
		anim:    gif.GIF{LoopCount: 0},
	}
}

func (g *GIFRecorder) OnFrame(_ *field.Field, st field.FrameStats) {
	if (st.Frame-1)%g.every != 0 {
		return
	}
	src := g.raster.Image()
	frame := image.NewPaletted(src.Bounds(), g.palette)
	draw.Draw(frame, frame.Bounds(), src, src.Bounds().Min, draw.Src)

	g.anim.Image = append(g.anim.Image, frame)
	g.anim.Delay = append(g.anim.Delay, g.delay)
}

func (g *GIFRecorder) Frames() int { return len(g.anim.Image) }

func (g *GIFRecorder) Encode(w io.Writer) error {
	if len(g.anim.Image) == 0 {
		return ErrNoFrames
	}
	return gif.EncodeAll(w, &g.anim)
}

func (g *GIFRecorder) Save(path string) error {
	return writeFile(path, g.Encode)
}

func writeFile(path string, encode func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := encode(f); err != nil {
		f.Close()
		return fmt.Errorf("export: encode %s: %w", path, err)
	}
	return f.Close()
}
