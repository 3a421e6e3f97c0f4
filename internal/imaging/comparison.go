package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/barrel-contour-mcp/internal/contour"
)

// DefaultProfileColors are assigned to profiles without an explicit color.
var DefaultProfileColors = []string{"#1F77B4", "#D62728"}

// MaxProfiles is the number of contours RenderComparison can overlay.
const MaxProfiles = 2

const (
	comparisonMargin = 40
	dimensionSpacing = 18
)

// Profile is one barrel to draw in a comparison.
type Profile struct {
	// Label names the barrel in the legend.
	Label string

	// Contour is the outline to draw.
	Contour *contour.BarrelContour

	// ColorHex is the outline color as "#RRGGBB". Empty picks from
	// DefaultProfileColors.
	ColorHex string
}

// RenderComparison draws up to two barrel contours on a shared centerline at a
// common millimeter scale, with length and diameter dimensions.
//
// Parameters:
//   - profiles: One or two profiles. Each contour needs at least two stations.
//   - width, height: Output size in pixels, each at least 200.
//   - gridStepMm: Spacing of a millimeter grid behind the drawing. Zero or
//     less draws no grid.
//
// # Layout
//
// Both barrels start at the same left margin and share the horizontal
// centerline, so differences in length and diameter read directly. The scale
// fits the longest barrel horizontally and the widest barrel vertically. Each
// barrel gets a length dimension below the drawing and a diameter dimension
// at its widest station, in its own color.
func RenderComparison(profiles []Profile, width, height int, gridStepMm float64) (*ImageResult, error) {
	if len(profiles) == 0 || len(profiles) > MaxProfiles {
		return nil, fmt.Errorf("need 1 to %d profiles, got %d", MaxProfiles, len(profiles))
	}
	if width < 200 || height < 200 {
		return nil, fmt.Errorf("canvas %dx%d is smaller than 200x200", width, height)
	}

	var maxLen, maxRadius float64
	for i, p := range profiles {
		if p.Contour == nil || p.Contour.Len() < 2 {
			return nil, fmt.Errorf("profile %d has too few stations to draw", i)
		}
		maxLen = math.Max(maxLen, p.Contour.LengthMm())
		maxRadius = math.Max(maxRadius, p.Contour.MaxRadiusMm())
	}
	if maxLen <= 0 || maxRadius <= 0 {
		return nil, fmt.Errorf("profiles have no extent to draw")
	}

	dimSpace := float64(dimensionSpacing * len(profiles))
	usableW := float64(width - 2*comparisonMargin)
	usableH := float64(height-2*comparisonMargin) - 2*dimSpace
	scale := math.Min(usableW/maxLen, usableH/(2*maxRadius))
	left := float64(comparisonMargin)
	centerY := float64(height) / 2

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	grid := millimeterGrid{stepMm: gridStepMm, scale: scale, originX: left, centerY: centerY}
	grid.draw(dst, color.NRGBA{R: 225, G: 225, B: 225, A: 255})

	gray := color.NRGBA{R: 150, G: 150, B: 150, A: 255}
	strokeDashed(dst, contour.Point2D{X: 8, Y: centerY}, contour.Point2D{X: float64(width - 8), Y: centerY}, gray)

	for i, p := range profiles {
		col := profileColor(p.ColorHex, i)
		path := contour.ToRenderablePath(p.Contour, scale, left, centerY)
		fillPolygon(dst, path, withAlpha(tint(col, 0.55), 140))
		strokePolyline(dst, path, 1.5, true, withAlpha(col, 255))
	}

	for i, p := range profiles {
		col := withAlpha(profileColor(p.ColorHex, i), 255)
		drawLengthDimension(dst, p.Contour, scale, left, centerY+maxRadius*scale+dimSpace*float64(i)/float64(len(profiles))+12, col)
		drawDiameterDimension(dst, p.Contour, scale, left, centerY, i, col)

		label := p.Label
		if label == "" {
			label = fmt.Sprintf("barrel %d", i+1)
		}
		drawText(dst, comparisonMargin, 16+14*i, label, col)
	}

	return encodeResult(dst)
}

func profileColor(hex string, i int) colorful.Color {
	def, _ := colorful.Hex(DefaultProfileColors[i%len(DefaultProfileColors)])
	return parseColor(hex, def)
}

// drawLengthDimension draws a horizontal dimension line with end ticks under
// the barrel and labels it with the length in millimeters.
func drawLengthDimension(dst draw.Image, c *contour.BarrelContour, scale, left, y float64, col color.Color) {
	x0 := left + c.UpperProfile[0].PositionMm*scale
	x1 := left + c.LengthMm()*scale
	strokePolyline(dst, []contour.Point2D{{X: x0, Y: y}, {X: x1, Y: y}}, 1, false, col)
	strokePolyline(dst, []contour.Point2D{{X: x0, Y: y - 4}, {X: x0, Y: y + 4}}, 1, false, col)
	strokePolyline(dst, []contour.Point2D{{X: x1, Y: y - 4}, {X: x1, Y: y + 4}}, 1, false, col)

	label := fmt.Sprintf("%.1f mm", c.LengthMm())
	drawText(dst, int((x0+x1)/2)-textWidth(label)/2, int(y)+13, label, col)
}

// drawDiameterDimension draws a vertical dimension across the widest station.
// Labels of successive profiles are staggered so they do not overlap.
func drawDiameterDimension(dst draw.Image, c *contour.BarrelContour, scale, left, centerY float64, index int, col color.Color) {
	widest := 0
	var best float64
	for i := range c.UpperProfile {
		if d := c.UpperProfile[i].RadiusMm + c.LowerProfile[i].RadiusMm; d > best {
			best = d
			widest = i
		}
	}
	x := left + c.UpperProfile[widest].PositionMm*scale
	top := centerY - c.UpperProfile[widest].RadiusMm*scale
	bottom := centerY + c.LowerProfile[widest].RadiusMm*scale
	strokePolyline(dst, []contour.Point2D{{X: x, Y: top}, {X: x, Y: bottom}}, 1, false, col)

	label := fmt.Sprintf("D %.2f mm", best)
	drawText(dst, int(x)+4, int(top)-6-14*index, label, col)
}

// strokeDashed draws a 1px dashed line from p0 to p1.
func strokeDashed(dst draw.Image, p0, p1 contour.Point2D, col color.Color) {
	const dash, gap = 8.0, 5.0
	l := math.Hypot(p1.X-p0.X, p1.Y-p0.Y)
	if l == 0 {
		return
	}
	ux, uy := (p1.X-p0.X)/l, (p1.Y-p0.Y)/l
	var segs []contour.Point2D
	for s := 0.0; s < l; s += dash + gap {
		e := math.Min(s+dash, l)
		segs = append(segs,
			contour.Point2D{X: p0.X + ux*s, Y: p0.Y + uy*s},
			contour.Point2D{X: p0.X + ux*e, Y: p0.Y + uy*e})
	}
	for i := 0; i+1 < len(segs); i += 2 {
		strokePolyline(dst, segs[i:i+2], 1, false, col)
	}
}
