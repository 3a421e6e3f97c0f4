package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/barrel-contour-mcp/internal/contour"
)

var (
	opaqueWhite = color.NRGBA{255, 255, 255, 255}
	opaqueBlack = color.NRGBA{0, 0, 0, 255}
)

// createBarrelImage returns an 800x200 white image with a black ellipse
// centered at (400,100) with semi-axes 380 and 40.
func createBarrelImage(t *testing.T) *image.NRGBA {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 800, 200))
	for y := 0; y < 200; y++ {
		for x := 0; x < 800; x++ {
			dx := (float64(x) + 0.5 - 400) / 380
			dy := (float64(y) + 0.5 - 100) / 40
			if dx*dx+dy*dy <= 1 {
				img.SetNRGBA(x, y, opaqueBlack)
			} else {
				img.SetNRGBA(x, y, opaqueWhite)
			}
		}
	}
	return img
}

// extractBarrel runs the contour pipeline over img for a 45 x 7.2 mm barrel.
func extractBarrel(t *testing.T, img image.Image) *contour.Extraction {
	t.Helper()
	ex, err := contour.ExtractDetailed(contour.FromImage(img), 45, 7.2)
	if err != nil {
		t.Fatalf("ExtractDetailed failed: %v", err)
	}
	return ex
}

// writeTestPNG encodes img into a file under a per-test directory and
// returns its path.
func writeTestPNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "barrel.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

// decodeResult decodes the PNG carried by res.
func decodeResult(t *testing.T, res *ImageResult) image.Image {
	t.Helper()
	if res.MimeType != "image/png" {
		t.Fatalf("unexpected mime type %q", res.MimeType)
	}
	data, err := base64.StdEncoding.DecodeString(res.ImageBase64)
	if err != nil {
		t.Fatalf("invalid base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("invalid png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != res.Width || b.Dy() != res.Height {
		t.Fatalf("decoded %dx%d, result claims %dx%d", b.Dx(), b.Dy(), res.Width, res.Height)
	}
	return img
}

// rgb8 returns the 8-bit color components at (x, y).
func rgb8(img image.Image, x, y int) (r, g, b uint8) {
	c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
	return c.R, c.G, c.B
}
