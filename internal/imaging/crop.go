package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/barrel-contour-mcp/internal/contour"
)

// CropResult contains the cropped barrel and where it came from.
type CropResult struct {
	ImageResult

	// Bounds is the crop rectangle in source image pixels.
	Bounds image.Rectangle `json:"bounds"`
}

// CropBarrel cuts the traced barrel out of img with a margin around it.
//
// Parameters:
//   - img: The image the extraction ran on (same dimensions as its raster).
//   - ex: A successful extraction from img.
//   - marginPct: Extra space around the barrel as a percentage of its
//     width and of the band height. Negative values are treated as zero.
//   - scale: Optional resize factor applied after cropping (e.g., 2.0 to
//     double size). Values <= 0 or exactly 1 keep the crop size.
//
// Returns an error if the extraction does not lie inside img.
func CropBarrel(img image.Image, ex *contour.Extraction, marginPct, scale float64) (*CropResult, error) {
	bounds := img.Bounds()
	marginPct = math.Max(0, marginPct)

	mx := int(math.Round(float64(ex.PixelWidth) * marginPct / 100))
	my := int(math.Round(float64(ex.Region.Height) * marginPct / 100))
	rect := image.Rect(
		ex.XOffset-mx,
		ex.Region.YStart-my,
		ex.XOffset+ex.PixelWidth+mx,
		ex.Region.YEnd+1+my,
	).Add(bounds.Min)

	if !rect.Overlaps(bounds) {
		return nil, fmt.Errorf("barrel region %v outside image bounds %v", rect, bounds)
	}
	rect = rect.Intersect(bounds)

	cropped := imaging.Crop(img, rect)
	if scale != 1.0 && scale > 0 {
		newWidth := int(float64(cropped.Bounds().Dx()) * scale)
		newHeight := int(float64(cropped.Bounds().Dy()) * scale)
		if newWidth < 1 || newHeight < 1 {
			return nil, fmt.Errorf("scale %g collapses the crop to nothing", scale)
		}
		cropped = imaging.Resize(cropped, newWidth, newHeight, imaging.Lanczos)
	}

	res, err := encodeResult(cropped)
	if err != nil {
		return nil, err
	}
	return &CropResult{ImageResult: *res, Bounds: rect}, nil
}
