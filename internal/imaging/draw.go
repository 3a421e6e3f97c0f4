package imaging

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/ironsheep/barrel-contour-mcp/internal/contour"
)

var white = colorful.Color{R: 1, G: 1, B: 1}

// parseColor parses a hex color like "#1F77B4" or "#F00", falling back to
// def when s is empty or malformed.
func parseColor(s string, def colorful.Color) colorful.Color {
	if s == "" {
		return def
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return def
	}
	return c
}

// withAlpha converts c to a non-premultiplied color with the given opacity.
func withAlpha(c colorful.Color, alpha uint8) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}
}

// tint lightens c toward white in Lab space; t=0 keeps c, t=1 gives white.
func tint(c colorful.Color, t float64) colorful.Color {
	return c.BlendLab(white, t).Clamped()
}

// fillPolygon fills the closed polygon pts onto dst, anti-aliased.
// dst must have its origin at (0,0).
func fillPolygon(dst draw.Image, pts []contour.Point2D, col color.Color) {
	if len(pts) < 3 {
		return
	}
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		z.LineTo(float32(p.X), float32(p.Y))
	}
	z.ClosePath()
	z.Draw(dst, b, image.NewUniform(col), image.Point{})
}

// strokePolyline draws the segments joining pts, width pixels wide. When
// closed is true the last point is joined back to the first.
func strokePolyline(dst draw.Image, pts []contour.Point2D, width float64, closed bool, col color.Color) {
	if len(pts) < 2 {
		return
	}
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	n := len(pts) - 1
	if closed {
		n = len(pts)
	}
	for i := 0; i < n; i++ {
		addSegment(z, pts[i], pts[(i+1)%len(pts)], width)
	}
	z.Draw(dst, b, image.NewUniform(col), image.Point{})
}

// addSegment adds a segment as a quad. Every quad has the same winding, so
// overlapping joints saturate instead of cancelling.
func addSegment(z *vector.Rasterizer, p0, p1 contour.Point2D, width float64) {
	dx, dy := p1.X-p0.X, p1.Y-p0.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	nx, ny := -dy/l*width/2, dx/l*width/2
	z.MoveTo(float32(p0.X+nx), float32(p0.Y+ny))
	z.LineTo(float32(p1.X+nx), float32(p1.Y+ny))
	z.LineTo(float32(p1.X-nx), float32(p1.Y-ny))
	z.LineTo(float32(p0.X-nx), float32(p0.Y-ny))
	z.ClosePath()
}

// drawText writes s with its baseline starting at (x, y).
func drawText(dst draw.Image, x, y int, s string, col color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// textWidth returns the advance of s in pixels.
func textWidth(s string) int {
	return font.MeasureString(basicfont.Face7x13, s).Ceil()
}
