package surface

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"github.com/san-kum/particles/internal/field"
)

// kappa places cubic control points so four segments approximate a circle.
const kappa = 0.5522847498

// minStroke is the thinnest line the rasterizer is asked to cover, in pixels.
const minStroke = 1e-3

// Raster is an in-memory RGBA backing store.
type Raster struct {
	img *image.RGBA
	z   *vector.Rasterizer
	bg  color.Color
}

// NewRaster returns an empty raster that clears to bg. A nil bg clears to
// transparent.
func NewRaster(bg color.Color) *Raster {
	if bg == nil {
		bg = color.Transparent
	}
	return &Raster{
		img: image.NewRGBA(image.Rect(0, 0, 0, 0)),
		z:   vector.NewRasterizer(0, 0),
		bg:  bg,
	}
}

func (r *Raster) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	r.img = image.NewRGBA(image.Rect(0, 0, width, height))
	r.z.Reset(width, height)
	r.Clear()
}

func (r *Raster) Clear() {
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(r.bg), image.Point{}, draw.Src)
}

func (r *Raster) FillCircle(x, y, radius float64, c field.Color, alpha float64) {
	if radius <= 0 || !r.overlaps(x-radius, y-radius, x+radius, y+radius) {
		return
	}
	r.begin()
	k := radius * kappa
	r.moveTo(x+radius, y)
	r.cubeTo(x+radius, y+k, x+k, y+radius, x, y+radius)
	r.cubeTo(x-k, y+radius, x-radius, y+k, x-radius, y)
	r.cubeTo(x-radius, y-k, x-k, y-radius, x, y-radius)
	r.cubeTo(x+k, y-radius, x+radius, y-k, x+radius, y)
	r.z.ClosePath()
	r.fill(c, alpha)
}

// StrokeLine covers the line as a quad of the given width with butt caps.
func (r *Raster) StrokeLine(x0, y0, x1, y1, width float64, c field.Color, alpha float64) {
	dx, dy := x1-x0, y1-y0
	length := math.Hypot(dx, dy)
	if width < minStroke || length == 0 {
		return
	}
	half := width / 2
	if !r.overlaps(math.Min(x0, x1)-half, math.Min(y0, y1)-half, math.Max(x0, x1)+half, math.Max(y0, y1)+half) {
		return
	}
	nx, ny := -dy/length*half, dx/length*half

	r.begin()
	r.moveTo(x0+nx, y0+ny)
	r.lineTo(x1+nx, y1+ny)
	r.lineTo(x1-nx, y1-ny)
	r.lineTo(x0-nx, y0-ny)
	r.z.ClosePath()
	r.fill(c, alpha)
}

// Image exposes the backing store. It is reused across frames.
func (r *Raster) Image() *image.RGBA { return r.img }

func (r *Raster) overlaps(minX, minY, maxX, maxY float64) bool {
	b := r.img.Bounds()
	if b.Empty() {
		return false
	}
	return maxX >= 0 && maxY >= 0 && minX <= float64(b.Dx()) && minY <= float64(b.Dy())
}

func (r *Raster) begin() {
	b := r.img.Bounds()
	r.z.Reset(b.Dx(), b.Dy())
	r.z.DrawOp = draw.Over
}

func (r *Raster) moveTo(x, y float64) { r.z.MoveTo(float32(x), float32(y)) }
func (r *Raster) lineTo(x, y float64) { r.z.LineTo(float32(x), float32(y)) }

func (r *Raster) cubeTo(bx, by, cx, cy, x, y float64) {
	r.z.CubeTo(float32(bx), float32(by), float32(cx), float32(cy), float32(x), float32(y))
}

func (r *Raster) fill(c field.Color, alpha float64) {
	src := image.NewUniform(NRGBA(c, alpha))
	r.z.Draw(r.img, r.img.Bounds(), src, image.Point{})
}

// NRGBA converts a field colour and opacity to a non-premultiplied colour.
func NRGBA(c field.Color, alpha float64) color.NRGBA {
	a := math.Round(math.Max(0, math.Min(1, alpha)) * 255)
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(a)}
}
