package contour

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// Raster is a borrowed, read-only view of decoded pixel data.
//
// Pix holds straight (non-premultiplied) RGBA bytes in row-major order, four
// bytes per pixel, with no row padding. This is the layout of image.NRGBA when
// its stride equals 4*Width.
type Raster struct {
	Width  int
	Height int
	Pix    []byte
}

// NewRaster wraps an RGBA buffer after checking it against the declared size.
//
// A mismatch is an integration error on the caller's side, so it is reported
// immediately with ErrMalformedRaster instead of being treated as a photo in
// which nothing was found.
func NewRaster(width, height int, pix []byte) (*Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d", ErrMalformedRaster, width, height)
	}
	if len(pix) != width*height*4 {
		return nil, fmt.Errorf("%w: %dx%d needs %d bytes, got %d",
			ErrMalformedRaster, width, height, width*height*4, len(pix))
	}
	return &Raster{Width: width, Height: height, Pix: pix}, nil
}

// FromImage converts any decoded image into a Raster.
//
// The image is cloned into a tightly packed NRGBA buffer, so the returned
// Raster does not alias img.
func FromImage(img image.Image) *Raster {
	nrgba := imaging.Clone(img)
	b := nrgba.Bounds()
	return &Raster{Width: b.Dx(), Height: b.Dy(), Pix: nrgba.Pix}
}

// Luminance returns the rounded ITU-R BT.601 luma of the pixel at (x, y):
// 0.299*R + 0.587*G + 0.114*B.
func (r *Raster) Luminance(x, y int) int {
	i := (y*r.Width + x) * 4
	return luminance(r.Pix[i], r.Pix[i+1], r.Pix[i+2])
}

// IsForeground reports whether the pixel at (x, y) belongs to the object:
// at least half opaque and no brighter than threshold.
func (r *Raster) IsForeground(x, y, threshold int) bool {
	i := (y*r.Width + x) * 4
	if int(r.Pix[i+3])*2 < 255 {
		return false
	}
	return luminance(r.Pix[i], r.Pix[i+1], r.Pix[i+2]) <= threshold
}

// Gray returns the luminance plane as an 8-bit grayscale image. Pixels that
// fail the opacity test are written as white so they never read as foreground.
func (r *Raster) Gray() *image.Gray {
	g := image.NewGray(image.Rect(0, 0, r.Width, r.Height))
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			i := (y*r.Width + x) * 4
			v := uint8(255)
			if int(r.Pix[i+3])*2 >= 255 {
				v = uint8(luminance(r.Pix[i], r.Pix[i+1], r.Pix[i+2]))
			}
			g.Pix[y*g.Stride+x] = v
		}
	}
	return g
}

func luminance(r, g, b uint8) int {
	return int(math.Round(0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)))
}
