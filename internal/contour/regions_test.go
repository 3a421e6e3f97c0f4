package contour

import (
	"reflect"
	"testing"
)

func TestDetectRegions_BlankImage(t *testing.T) {
	r := createTestRaster(t, 100, 100, white)
	regions := DetectRegions(r, ComputeThreshold(r))
	if len(regions) != 0 {
		t.Errorf("expected no regions, got %v", regions)
	}
}

func TestDetectRegions_SingleBand(t *testing.T) {
	r := createTestRaster(t, 100, 100, white)
	fillRect(r, 10, 40, 90, 60, black)

	regions := DetectRegions(r, 150)
	if len(regions) != 1 {
		t.Fatalf("expected 1 region, got %d", len(regions))
	}
	want := Region{YStart: 40, YEnd: 59, Height: 20, CenterY: 49.5}
	if regions[0] != want {
		t.Errorf("region: got %+v, want %+v", regions[0], want)
	}
}

func TestDetectRegions_NearestCenterFirst(t *testing.T) {
	// 200px tall image, center 100. Bands centered near y=60 and y=170.
	r := createTestRaster(t, 100, 200, white)
	fillRect(r, 10, 160, 90, 180, black) // center 169.5
	fillRect(r, 10, 50, 90, 70, black)   // center 59.5

	regions := DetectRegions(r, 150)
	if len(regions) != 2 {
		t.Fatalf("expected 2 regions, got %d", len(regions))
	}
	if regions[0].CenterY != 59.5 {
		t.Errorf("first region center: got %v, want 59.5", regions[0].CenterY)
	}
	if regions[1].CenterY != 169.5 {
		t.Errorf("second region center: got %v, want 169.5", regions[1].CenterY)
	}
}

func TestDetectRegions_DeterministicOrder(t *testing.T) {
	// Equidistant bands keep top-to-bottom order.
	r := createTestRaster(t, 100, 200, white)
	fillRect(r, 10, 20, 90, 40, black)   // center 29.5, distance 70.5
	fillRect(r, 10, 161, 90, 181, black) // center 170.5, distance 70.5

	first := DetectRegions(r, 150)
	if len(first) != 2 {
		t.Fatalf("expected 2 regions, got %d", len(first))
	}
	for i := 0; i < 3; i++ {
		if got := DetectRegions(r, 150); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: got %v, want %v", i, got, first)
		}
	}
	if first[0].CenterY != 29.5 {
		t.Errorf("first band: got center %v, want 29.5", first[0].CenterY)
	}
}

func TestDetectRegions_Filters(t *testing.T) {
	tests := []struct {
		name  string
		paint func(r *Raster)
	}{
		{
			// 1px band is below 5% of 200px.
			name:  "one pixel tall band",
			paint: func(r *Raster) { fillRect(r, 0, 100, 100, 101, black) },
		},
		{
			// 4 of 100 pixels per row is below the 5% row fill.
			name:  "sparse rows",
			paint: func(r *Raster) { fillRect(r, 0, 80, 4, 120, black) },
		},
		{
			name:  "9px band is under 5% of 200px",
			paint: func(r *Raster) { fillRect(r, 0, 90, 100, 99, black) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := createTestRaster(t, 100, 200, white)
			tt.paint(r)
			if regions := DetectRegions(r, 150); len(regions) != 0 {
				t.Errorf("expected no regions, got %v", regions)
			}
		})
	}
}

func TestDetectRegions_BandAtBottomEdge(t *testing.T) {
	r := createTestRaster(t, 100, 100, white)
	fillRect(r, 0, 90, 100, 100, black)

	regions := DetectRegions(r, 150)
	if len(regions) != 1 {
		t.Fatalf("expected 1 region, got %d", len(regions))
	}
	if regions[0].YEnd != 99 || regions[0].Height != 10 {
		t.Errorf("region: got %+v", regions[0])
	}
}
