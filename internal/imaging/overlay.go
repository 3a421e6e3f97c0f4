package imaging

import (
	"fmt"
	"image"
	"image/draw"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/barrel-contour-mcp/internal/contour"
)

// DefaultOverlayColor is used when no outline color is given.
const DefaultOverlayColor = "#00C853"

// RenderOverlay draws an extracted contour back onto the photo it came from.
//
// The outline is mapped from millimeters to pixels with the extraction's own
// horizontal and vertical scales around its mean centerline, so a correct
// extraction hugs the barrel's silhouette. The inside is shaded translucently
// and the traced band is marked at the left edge.
//
// Parameters:
//   - img: The image the extraction ran on.
//   - ex: A successful extraction from img.
//   - colorHex: Outline color as "#RRGGBB"; empty or invalid uses
//     DefaultOverlayColor.
func RenderOverlay(img image.Image, ex *contour.Extraction, colorHex string) (*ImageResult, error) {
	if ex == nil || ex.Contour == nil {
		return nil, fmt.Errorf("no contour to overlay")
	}
	path := contour.ToRenderablePath(ex.Contour, 1, 0, 0)
	if len(path) == 0 {
		return nil, fmt.Errorf("contour has too few stations to draw")
	}
	for i, p := range path {
		path[i] = contour.Point2D{
			X: float64(ex.XOffset) + p.X*ex.PxPerMm,
			Y: ex.CenterlineY + p.Y*ex.RadiusPxPerMm,
		}
	}

	bounds := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Src)

	def, _ := colorful.Hex(DefaultOverlayColor)
	line := parseColor(colorHex, def)

	fillPolygon(dst, path, withAlpha(line, 70))
	strokePolyline(dst, path, 2, true, withAlpha(line, 255))

	band := []contour.Point2D{
		{X: 1, Y: float64(ex.Region.YStart)},
		{X: 1, Y: float64(ex.Region.YEnd + 1)},
	}
	strokePolyline(dst, band, 3, false, withAlpha(line, 200))

	label := fmt.Sprintf("threshold %d  %.1f px/mm", ex.Threshold, ex.PxPerMm)
	drawText(dst, 6, 16, label, withAlpha(line, 255))

	return encodeResult(dst)
}
