package imaging

import (
	"math"
	"testing"

	"github.com/ironsheep/barrel-contour-mcp/internal/contour"
)

func TestRenderMask(t *testing.T) {
	pix := make([]byte, 10*10*4)
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = 255, 255, 255, 255
	}
	// Rows 2-5 are opaque black, row 7 is transparent black.
	for y := 2; y < 6; y++ {
		for x := 0; x < 10; x++ {
			i := (y*10 + x) * 4
			pix[i], pix[i+1], pix[i+2] = 0, 0, 0
		}
	}
	for x := 0; x < 10; x++ {
		i := (7*10 + x) * 4
		pix[i], pix[i+1], pix[i+2], pix[i+3] = 0, 0, 0, 0
	}
	r, err := contour.NewRaster(10, 10, pix)
	if err != nil {
		t.Fatalf("NewRaster failed: %v", err)
	}

	res, err := RenderMask(r, 200)
	if err != nil {
		t.Fatalf("RenderMask failed: %v", err)
	}
	if res.Threshold != 200 {
		t.Errorf("threshold: got %d, want 200", res.Threshold)
	}
	if math.Abs(res.ForegroundFraction-0.4) > 1e-9 {
		t.Errorf("foreground fraction: got %v, want 0.4", res.ForegroundFraction)
	}

	img := decodeResult(t, &res.ImageResult)
	tests := []struct {
		name string
		y    int
		want uint8
	}{
		{"background", 0, 255},
		{"foreground", 3, 0},
		{"transparent", 7, 255},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if v, _, _ := rgb8(img, 5, tt.y); v != tt.want {
				t.Errorf("row %d: got %d, want %d", tt.y, v, tt.want)
			}
		})
	}
}

func TestRenderMask_MaxThreshold(t *testing.T) {
	pix := []byte{255, 255, 255, 255}
	r, err := contour.NewRaster(1, 1, pix)
	if err != nil {
		t.Fatalf("NewRaster failed: %v", err)
	}
	res, err := RenderMask(r, 255)
	if err != nil {
		t.Fatalf("RenderMask failed: %v", err)
	}
	if res.ForegroundFraction != 1 {
		t.Errorf("white is foreground at 255: got fraction %v", res.ForegroundFraction)
	}
}
