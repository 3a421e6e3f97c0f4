package contour

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/stat"
)

func TestExtract_EllipseRoundTrip(t *testing.T) {
	const (
		lengthMm = 45.0
		maxDiaMm = 7.2
	)
	r := createEllipseBarrel(t)

	e, err := ExtractDetailed(r, lengthMm, maxDiaMm)
	if err != nil {
		t.Fatalf("ExtractDetailed failed: %v", err)
	}
	c := e.Contour
	checkContourInvariants(t, c, lengthMm, maxDiaMm)

	if e.XOffset != 20 || e.PixelWidth != 760 {
		t.Errorf("retained columns: offset %d width %d, want 20 and 760", e.XOffset, e.PixelWidth)
	}
	if e.Candidates != 1 {
		t.Errorf("candidates: got %d, want 1", e.Candidates)
	}

	wantRadius := maxDiaMm / 2
	if got := c.MaxRadiusMm(); math.Abs(got-wantRadius) > wantRadius*0.05 {
		t.Errorf("max radius: got %v, want within 5%% of %v", got, wantRadius)
	}

	half := lengthMm / 2
	analytic := make([]float64, c.Len())
	for i, p := range c.UpperProfile {
		u := (p.PositionMm - half) / half
		analytic[i] = wantRadius * math.Sqrt(math.Max(0, 1-u*u))
	}
	for name, measured := range map[string][]float64{
		"upper": radii(c.UpperProfile),
		"lower": radii(c.LowerProfile),
	} {
		if r := stat.Correlation(measured, analytic, nil); r <= 0.95 {
			t.Errorf("%s profile correlation with ellipse: got %.4f, want > 0.95", name, r)
		}
	}
}

func radii(points []ProfilePoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.RadiusMm
	}
	return out
}

func TestExtract_BlankImage(t *testing.T) {
	r := createTestRaster(t, 200, 100, white)

	c, err := Extract(r, 45, 7.2)
	if c != nil {
		t.Error("expected nil contour for blank image")
	}
	if !errors.Is(err, ErrNoRegionFound) {
		t.Errorf("expected ErrNoRegionFound, got %v", err)
	}
	if !IsUnavailable(err) {
		t.Error("blank image should be reported as unavailable")
	}
}

func TestExtract_InvalidMeasurementsBeforePixels(t *testing.T) {
	r := createTestRaster(t, 10, 10, white)
	if _, err := Extract(r, 45, -1); !errors.Is(err, ErrInvalidMeasurements) {
		t.Errorf("expected ErrInvalidMeasurements, got %v", err)
	}
}

func TestExtract_PicksCenteredObject(t *testing.T) {
	// A ruler-like strip along the top and the barrel through the middle.
	r := createTestRaster(t, 800, 300, white)
	fillRect(r, 0, 10, 800, 30, black)
	fillEllipse(r, 400, 150, 300, 30, black)

	e, err := ExtractDetailed(r, 40, 6)
	if err != nil {
		t.Fatalf("ExtractDetailed failed: %v", err)
	}
	if e.Candidates != 2 {
		t.Errorf("candidates: got %d, want 2", e.Candidates)
	}
	if math.Abs(e.Region.CenterY-150) > 2 {
		t.Errorf("traced region center: got %v, want about 150", e.Region.CenterY)
	}
	if e.XOffset != 100 {
		t.Errorf("XOffset: got %d, want 100", e.XOffset)
	}
}

func TestExtract_GapInSilhouette(t *testing.T) {
	// A white cut through the barrel leaves interior columns without foreground.
	r := createEllipseBarrel(t)
	fillRect(r, 300, 0, 304, 200, white)

	c, err := Extract(r, 45, 7.2)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	checkContourInvariants(t, c, 45, 7.2)
}

func TestExtract_Deterministic(t *testing.T) {
	r := createEllipseBarrel(t)
	a, err := Extract(r, 45, 7.2)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	b, err := Extract(r, 45, 7.2)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	for i := range a.UpperProfile {
		if a.UpperProfile[i] != b.UpperProfile[i] || a.LowerProfile[i] != b.LowerProfile[i] {
			t.Fatalf("station %d differs between runs", i)
		}
	}
}

func TestExtraction_Scales(t *testing.T) {
	r := createEllipseBarrel(t)
	e, err := ExtractDetailed(r, 45, 7.2)
	if err != nil {
		t.Fatalf("ExtractDetailed failed: %v", err)
	}
	if got, want := e.PxPerMm, 760.0/45; math.Abs(got-want) > 1e-9 {
		t.Errorf("PxPerMm: got %v, want %v", got, want)
	}
	// Rows 60-139 give a thickness of about 79px across 7.2mm.
	if got := e.RadiusPxPerMm; math.Abs(got-79/7.2) > 0.5 {
		t.Errorf("RadiusPxPerMm: got %v, want about %v", got, 79/7.2)
	}
}

func TestExtraction_LevelBarrelHasNoTilt(t *testing.T) {
	e, err := ExtractDetailed(createEllipseBarrel(t), 45, 7.2)
	if err != nil {
		t.Fatalf("ExtractDetailed failed: %v", err)
	}
	if math.Abs(e.AxisTiltDeg) > 0.1 {
		t.Errorf("AxisTiltDeg: got %v, want about 0", e.AxisTiltDeg)
	}
}
