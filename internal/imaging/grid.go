package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/ironsheep/barrel-contour-mcp/internal/contour"
)

// minGridPixels is the closest two grid lines may be drawn. Finer steps are
// coarsened by whole multiples.
const minGridPixels = 12

// millimeterGrid describes a grid laid over a comparison canvas.
type millimeterGrid struct {
	stepMm  float64
	scale   float64 // pixels per millimeter
	originX float64 // pixel column of position 0
	centerY float64 // pixel row of the centerline
}

// effectiveStep returns the drawn step: stepMm, or the smallest multiple of it
// that keeps lines at least minGridPixels apart.
func (g millimeterGrid) effectiveStep() float64 {
	if g.stepMm <= 0 || g.scale <= 0 {
		return 0
	}
	k := math.Ceil(minGridPixels / (g.stepMm * g.scale))
	return g.stepMm * math.Max(1, k)
}

// draw paints grid lines onto dst with millimeter labels along the bottom edge.
// Vertical lines start at position 0 and horizontal lines are symmetric
// about the centerline.
func (g millimeterGrid) draw(dst *image.RGBA, col color.Color) {
	step := g.effectiveStep()
	if step == 0 {
		return
	}
	b := dst.Bounds()
	px := step * g.scale
	labelFg := color.RGBA{90, 90, 90, 255}
	labelBg := color.RGBA{255, 255, 255, 220}

	lastLabel := math.Inf(-1)
	for i := 0; ; i++ {
		x := g.originX + float64(i)*px
		if x >= float64(b.Max.X) {
			break
		}
		strokePolyline(dst, []contour.Point2D{{X: x, Y: 0}, {X: x, Y: float64(b.Max.Y)}}, 1, false, col)

		label := formatMm(float64(i) * step)
		if x-lastLabel >= float64(textWidth(label)+6) {
			drawLabel(dst, int(x)+2, b.Max.Y-6, label, labelFg, labelBg)
			lastLabel = x
		}
	}
	for i := 1; ; i++ {
		dy := float64(i) * px
		if g.centerY-dy < 0 && g.centerY+dy >= float64(b.Max.Y) {
			break
		}
		for _, y := range []float64{g.centerY - dy, g.centerY + dy} {
			strokePolyline(dst, []contour.Point2D{{X: 0, Y: y}, {X: float64(b.Max.X), Y: y}}, 1, false, col)
		}
	}
}

func formatMm(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}

// drawLabel writes text with its baseline at (x, y) on a filled box.
func drawLabel(dst draw.Image, x, y int, text string, fg, bg color.Color) {
	box := image.Rect(x-2, y-11, x+textWidth(text)+2, y+3)
	draw.Draw(dst, box.Intersect(dst.Bounds()), image.NewUniform(bg), image.Point{}, draw.Over)
	drawText(dst, x, y, text, fg)
}
