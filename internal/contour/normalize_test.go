package contour

import (
	"errors"
	"math"
	"testing"
)

// checkContourInvariants verifies the guarantees every BarrelContour makes.
func checkContourInvariants(t *testing.T, c *BarrelContour, lengthMm, maxDiaMm float64) {
	t.Helper()

	if len(c.UpperProfile) != len(c.LowerProfile) {
		t.Fatalf("profile lengths differ: %d vs %d", len(c.UpperProfile), len(c.LowerProfile))
	}
	if c.Len() == 0 || c.Len() > MaxSamples {
		t.Fatalf("profile length %d outside (0,%d]", c.Len(), MaxSamples)
	}
	const tol = 1e-9
	for i := range c.UpperProfile {
		up, lo := c.UpperProfile[i], c.LowerProfile[i]
		if up.PositionMm != lo.PositionMm {
			t.Fatalf("station %d: positions differ %v vs %v", i, up.PositionMm, lo.PositionMm)
		}
		if i > 0 && up.PositionMm <= c.UpperProfile[i-1].PositionMm {
			t.Fatalf("station %d: position %v not increasing", i, up.PositionMm)
		}
		if up.RadiusMm < 0 || lo.RadiusMm < 0 {
			t.Fatalf("station %d: negative radius", i)
		}
		if up.RadiusMm > maxDiaMm/2+tol || lo.RadiusMm > maxDiaMm/2+tol {
			t.Fatalf("station %d: radius exceeds half diameter", i)
		}
	}
	if first := c.UpperProfile[0].PositionMm; first > tol {
		t.Errorf("first position: got %v, want 0", first)
	}
	if last := c.LengthMm(); math.Abs(last-lengthMm) > lengthMm*0.02 {
		t.Errorf("last position: got %v, want about %v", last, lengthMm)
	}
}

func TestNormalize_Rectangle(t *testing.T) {
	c := &RawContour{
		Top:    validEdges(10, 10, 10, 10, 10),
		Bottom: validEdges(30, 30, 30, 30, 30),
	}

	got, err := Normalize(c, 10, 4)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if got.Len() != 5 {
		t.Fatalf("stations: got %d, want 5", got.Len())
	}
	for i, p := range got.UpperProfile {
		wantPos := float64(i) * 2 // 5 px across 10 mm
		if math.Abs(p.PositionMm-wantPos) > 1e-9 {
			t.Errorf("station %d: position %v, want %v", i, p.PositionMm, wantPos)
		}
		if math.Abs(p.RadiusMm-2) > 1e-9 || math.Abs(got.LowerProfile[i].RadiusMm-2) > 1e-9 {
			t.Errorf("station %d: radii %v/%v, want 2", i, p.RadiusMm, got.LowerProfile[i].RadiusMm)
		}
	}
}

func TestNormalize_TiltedCenterline(t *testing.T) {
	// Constant 20px thickness on a centerline that drifts down 1px per column.
	n := 50
	top := make([]float64, n)
	bottom := make([]float64, n)
	for i := 0; i < n; i++ {
		top[i] = 10 + float64(i)
		bottom[i] = 30 + float64(i)
	}
	c := &RawContour{Top: validEdges(top...), Bottom: validEdges(bottom...)}

	got, err := Normalize(c, 25, 8)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	for i := range got.UpperProfile {
		if math.Abs(got.UpperProfile[i].RadiusMm-4) > 1e-9 || math.Abs(got.LowerProfile[i].RadiusMm-4) > 1e-9 {
			t.Fatalf("station %d: tilt leaked into radius", i)
		}
	}
}

func TestNormalize_Asymmetric(t *testing.T) {
	c := &RawContour{
		Top:    validEdges(10, 10, 12, 10),
		Bottom: validEdges(30, 30, 30, 30),
	}

	got, err := Normalize(c, 4, 2)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	// Column 2: center 21, upper 9px, lower 9px; scale 1mm/10px.
	if math.Abs(got.UpperProfile[2].RadiusMm-0.9) > 1e-9 {
		t.Errorf("upper radius: got %v, want 0.9", got.UpperProfile[2].RadiusMm)
	}
	if math.Abs(got.LowerProfile[0].RadiusMm-1) > 1e-9 {
		t.Errorf("lower radius: got %v, want 1", got.LowerProfile[0].RadiusMm)
	}
}

func TestNormalize_Resamples(t *testing.T) {
	n := 1000
	top := make([]float64, n)
	bottom := make([]float64, n)
	for i := 0; i < n; i++ {
		half := 20 * math.Sin(math.Pi*float64(i)/float64(n-1))
		top[i] = 100 - half
		bottom[i] = 100 + half
	}
	c := &RawContour{Top: validEdges(top...), Bottom: validEdges(bottom...)}

	got, err := Normalize(c, 50, 6)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if got.Len() != MaxSamples {
		t.Errorf("stations: got %d, want %d", got.Len(), MaxSamples)
	}
	checkContourInvariants(t, got, 50, 6)
}

func TestNormalize_ZeroThickness(t *testing.T) {
	c := &RawContour{Top: validEdges(5, 5, 5), Bottom: validEdges(5, 5, 5)}

	got, err := Normalize(c, 3, 1)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if got.MaxRadiusMm() != 0 {
		t.Errorf("MaxRadiusMm: got %v, want 0", got.MaxRadiusMm())
	}
}

func TestNormalize_InvalidMeasurements(t *testing.T) {
	c := &RawContour{Top: validEdges(0, 0), Bottom: validEdges(4, 4)}

	tests := []struct {
		name     string
		length   float64
		diameter float64
	}{
		{"zero length", 0, 7},
		{"negative length", -45, 7},
		{"zero diameter", 45, 0},
		{"NaN length", math.NaN(), 7},
		{"infinite diameter", 45, math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(c, tt.length, tt.diameter)
			if !errors.Is(err, ErrInvalidMeasurements) {
				t.Errorf("expected ErrInvalidMeasurements, got %v", err)
			}
			if IsUnavailable(err) {
				t.Error("invalid measurements must not be reported as unavailable")
			}
		})
	}
}

func TestSampleColumn(t *testing.T) {
	tests := []struct {
		i, n, width int
		want        int
	}{
		{0, 1, 1, 0},
		{0, 200, 760, 0},
		{199, 200, 760, 759},
		{2, 5, 5, 2},
	}
	for _, tt := range tests {
		if got := sampleColumn(tt.i, tt.n, tt.width); got != tt.want {
			t.Errorf("sampleColumn(%d,%d,%d): got %d, want %d", tt.i, tt.n, tt.width, got, tt.want)
		}
	}
}
