package imaging

import (
	"fmt"
	"math"

	"github.com/ironsheep/barrel-contour-mcp/internal/contour"
)

// SpanMeasurement is a pixel span converted to millimeters with the scales of
// an extraction.
type SpanMeasurement struct {
	DistancePixels float64 `json:"distance_pixels"`
	DeltaX         int     `json:"delta_x"`
	DeltaY         int     `json:"delta_y"`
	AngleDegrees   float64 `json:"angle_degrees"`

	// AxialMm is DeltaX along the barrel axis.
	AxialMm float64 `json:"axial_mm"`

	// RadialMm is DeltaY across the barrel.
	RadialMm float64 `json:"radial_mm"`

	// DistanceMm combines both components.
	DistanceMm float64 `json:"distance_mm"`
}

// MeasureSpan converts the span from (x1,y1) to (x2,y2) into millimeters.
//
// Horizontal pixels use the extraction's PxPerMm and vertical pixels its
// RadiusPxPerMm, so the result matches the contour's own coordinates even
// when the photo is not exactly side-on. Angles are in degrees with 0 being
// horizontal right and 90 straight down.
func MeasureSpan(ex *contour.Extraction, x1, y1, x2, y2 int) (*SpanMeasurement, error) {
	if ex == nil || ex.PxPerMm <= 0 || ex.RadiusPxPerMm <= 0 {
		return nil, fmt.Errorf("extraction has no usable scale")
	}

	deltaX := x2 - x1
	deltaY := y2 - y1
	distance := math.Hypot(float64(deltaX), float64(deltaY))
	angle := math.Atan2(float64(deltaY), float64(deltaX)) * 180 / math.Pi

	axial := float64(deltaX) / ex.PxPerMm
	radial := float64(deltaY) / ex.RadiusPxPerMm

	return &SpanMeasurement{
		DistancePixels: math.Round(distance*100) / 100,
		DeltaX:         deltaX,
		DeltaY:         deltaY,
		AngleDegrees:   math.Round(angle*10) / 10,
		AxialMm:        math.Round(axial*1000) / 1000,
		RadialMm:       math.Round(radial*1000) / 1000,
		DistanceMm:     math.Round(math.Hypot(axial, radial)*1000) / 1000,
	}, nil
}
