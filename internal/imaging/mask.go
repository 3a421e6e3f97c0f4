package imaging

import (
	"github.com/anthonynsimon/bild/segment"

	"github.com/ironsheep/barrel-contour-mcp/internal/contour"
)

// MaskResult is a binarization preview of a photo.
type MaskResult struct {
	ImageResult

	// Threshold is the luminance cutoff the mask was drawn with.
	Threshold int `json:"threshold"`

	// ForegroundFraction is the share of pixels classified as foreground.
	ForegroundFraction float64 `json:"foreground_fraction"`
}

// RenderMask shows how r binarizes at threshold.
//
// Foreground pixels (see contour.Raster.IsForeground) are drawn black and
// background pixels white, which makes it easy to see what segmentation will
// treat as the object.
//
// # Algorithm
//
//  1. Luminance plane: contour.Raster.Gray, with transparent pixels as white
//  2. Binarization: pixels at or below threshold become black, the rest white
//
// The fraction is counted on the raster itself with the exact foreground test.
func RenderMask(r *contour.Raster, threshold int) (*MaskResult, error) {
	level := threshold + 1
	if level > 255 {
		level = 255
	}
	mask := segment.Threshold(r.Gray(), uint8(level))

	res, err := encodeResult(mask)
	if err != nil {
		return nil, err
	}

	fg := 0
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			if r.IsForeground(x, y, threshold) {
				fg++
			}
		}
	}

	return &MaskResult{
		ImageResult:        *res,
		Threshold:          threshold,
		ForegroundFraction: float64(fg) / float64(r.Width*r.Height),
	}, nil
}
