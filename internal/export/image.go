package export

import (
	"image"
	"image/png"
	"io"

	"github.com/san-kum/particles/internal/surface"
)

func SavePNG(path string, img image.Image) error {
	return writeFile(path, func(w io.Writer) error { return png.Encode(w, img) })
}

func SaveSVG(path string, s *surface.SVG) error {
	return writeFile(path, func(w io.Writer) error {
		_, err := s.WriteTo(w)
		return err
	})
}
