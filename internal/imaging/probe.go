package imaging

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/barrel-contour-mcp/internal/contour"
)

// LabeledPoint is a pixel coordinate with an optional descriptive label such
// as "barrel_tip" or "background".
type LabeledPoint struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Label string `json:"label,omitempty"`
}

// HSLColor is a color in HSL space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees
	S int `json:"s"` // Saturation: 0-100 percent
	L int `json:"l"` // Lightness: 0-100 percent
}

// PixelProbe reports how one pixel is seen by segmentation.
type PixelProbe struct {
	LabeledPoint

	// Hex is the pixel color as "#RRGGBB" (alpha excluded).
	Hex string `json:"hex"`

	// HSL is the pixel color in HSL space.
	HSL HSLColor `json:"hsl"`

	// Alpha is the pixel opacity, 0-255.
	Alpha uint8 `json:"alpha"`

	// Luminance is the luma the threshold is compared against.
	Luminance int `json:"luminance"`

	// Foreground is the classification at the probed threshold.
	Foreground bool `json:"foreground"`

	// Margin is threshold minus luminance. Small magnitudes mark pixels that
	// flip class with a slightly different threshold.
	Margin int `json:"margin"`
}

// ProbeResult groups the probes of one request.
type ProbeResult struct {
	Threshold int          `json:"threshold"`
	Probes    []PixelProbe `json:"probes"`
}

// ProbePixels classifies each point of r against threshold.
//
// Use it to find out why a shadow or a bright highlight on the barrel lands
// on the wrong side of the threshold.
//
// # Errors
//
//   - Returns error if points is empty
//   - Returns error naming the first point outside r
func ProbePixels(r *contour.Raster, points []LabeledPoint, threshold int) (*ProbeResult, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("at least one point is required")
	}

	res := &ProbeResult{Threshold: threshold, Probes: make([]PixelProbe, 0, len(points))}
	for _, p := range points {
		if p.X < 0 || p.X >= r.Width || p.Y < 0 || p.Y >= r.Height {
			return nil, fmt.Errorf("point (%d,%d) outside image bounds %dx%d", p.X, p.Y, r.Width, r.Height)
		}
		i := (p.Y*r.Width + p.X) * 4
		c := colorful.Color{
			R: float64(r.Pix[i]) / 255,
			G: float64(r.Pix[i+1]) / 255,
			B: float64(r.Pix[i+2]) / 255,
		}
		h, s, l := c.Hsl()
		if math.IsNaN(h) {
			h = 0
		}
		lum := r.Luminance(p.X, p.Y)
		res.Probes = append(res.Probes, PixelProbe{
			LabeledPoint: p,
			Hex:          fmt.Sprintf("#%02X%02X%02X", r.Pix[i], r.Pix[i+1], r.Pix[i+2]),
			HSL: HSLColor{
				H: int(math.Round(h)) % 360,
				S: int(math.Round(s * 100)),
				L: int(math.Round(l * 100)),
			},
			Alpha:      r.Pix[i+3],
			Luminance:  lum,
			Foreground: r.IsForeground(p.X, p.Y, threshold),
			Margin:     threshold - lum,
		})
	}
	return res, nil
}
