package contour

import (
	"fmt"
	"math"
)

// MaxSamples bounds the number of points in each profile.
const MaxSamples = 200

// ProfilePoint is one station along the barrel.
type ProfilePoint struct {
	// PositionMm is the distance from the left end of the barrel.
	PositionMm float64 `json:"position_mm"`

	// RadiusMm is the distance from the local centerline to the boundary.
	RadiusMm float64 `json:"radius_mm"`
}

// BarrelContour is the millimeter-space outline of a barrel.
//
// UpperProfile and LowerProfile have the same length (at most MaxSamples) and
// identical positions, which increase strictly from about 0 to about the
// barrel length. Radii are never negative.
type BarrelContour struct {
	UpperProfile []ProfilePoint `json:"upper_profile"`
	LowerProfile []ProfilePoint `json:"lower_profile"`
}

// Len returns the number of stations.
func (b *BarrelContour) Len() int {
	return len(b.UpperProfile)
}

// LengthMm returns the position of the last station, or 0 for an empty contour.
func (b *BarrelContour) LengthMm() float64 {
	if len(b.UpperProfile) == 0 {
		return 0
	}
	return b.UpperProfile[len(b.UpperProfile)-1].PositionMm
}

// MaxRadiusMm returns the largest radius on either side.
func (b *BarrelContour) MaxRadiusMm() float64 {
	var max float64
	for i := range b.UpperProfile {
		max = math.Max(max, b.UpperProfile[i].RadiusMm)
		max = math.Max(max, b.LowerProfile[i].RadiusMm)
	}
	return max
}

// ValidateMeasurements checks that lengthMm and maxDiaMm are positive and finite.
func ValidateMeasurements(lengthMm, maxDiaMm float64) error {
	if !(lengthMm > 0) || !(maxDiaMm > 0) || math.IsInf(lengthMm, 0) || math.IsInf(maxDiaMm, 0) {
		return fmt.Errorf("%w: length=%g diameter=%g", ErrInvalidMeasurements, lengthMm, maxDiaMm)
	}
	return nil
}

// Normalize rescales a repaired contour into millimeters.
//
// Horizontal scale comes from the retained pixel width spanning lengthMm.
// Vertical scale maps the widest half-thickness to maxDiaMm/2. The centerline
// is taken per column as the midpoint of Top and Bottom, which absorbs slight
// camera tilt; each side's radius is measured from that local center.
//
// At most MaxSamples columns are sampled, evenly spaced across the width.
// Columns whose edges are still invalid are skipped on both sides so the two
// profiles stay parallel.
//
// Returns ErrInvalidMeasurements for non-positive or non-finite inputs.
func Normalize(c *RawContour, lengthMm, maxDiaMm float64) (*BarrelContour, error) {
	if err := ValidateMeasurements(lengthMm, maxDiaMm); err != nil {
		return nil, err
	}

	width := c.Width()
	if width == 0 {
		return nil, fmt.Errorf("%w: no columns to normalize", ErrDegenerateObject)
	}
	pxPerMm := float64(width) / lengthMm

	radiusScale := 1.0
	if maxRadiusPx := c.MaxThickness() / 2; maxRadiusPx > 0 {
		radiusScale = (maxDiaMm / 2) / maxRadiusPx
	}

	n := width
	if n > MaxSamples {
		n = MaxSamples
	}

	out := &BarrelContour{
		UpperProfile: make([]ProfilePoint, 0, n),
		LowerProfile: make([]ProfilePoint, 0, n),
	}
	for i := 0; i < n; i++ {
		col := sampleColumn(i, n, width)
		top, bottom := c.Top[col], c.Bottom[col]
		if !top.Valid || !bottom.Valid {
			continue
		}
		center := (top.Y + bottom.Y) / 2
		pos := float64(col) / pxPerMm
		out.UpperProfile = append(out.UpperProfile, ProfilePoint{
			PositionMm: pos,
			RadiusMm:   math.Max(0, (center-top.Y)*radiusScale),
		})
		out.LowerProfile = append(out.LowerProfile, ProfilePoint{
			PositionMm: pos,
			RadiusMm:   math.Max(0, (bottom.Y-center)*radiusScale),
		})
	}
	return out, nil
}

// sampleColumn maps sample i of n onto a column index in [0, width-1]. With
// n <= width consecutive samples land on distinct, increasing columns.
func sampleColumn(i, n, width int) int {
	if n <= 1 {
		return 0
	}
	return int(math.Round(float64(i) * float64(width-1) / float64(n-1)))
}
