package contour

import "math"

// capFraction is the share of the length, at each end, over which the
// fallback silhouette tapers.
const capFraction = 0.15

// Fallback returns an approximate capsule-shaped contour built only from the
// barrel's length and maximum diameter.
//
// It is what callers show when extraction is unavailable. The middle of the
// barrel is a cylinder of radius maxDiaMm/2 and each end is an elliptical cap
// spanning capFraction of the length. The result satisfies every
// BarrelContour invariant and has MaxSamples stations.
func Fallback(lengthMm, maxDiaMm float64) (*BarrelContour, error) {
	if err := ValidateMeasurements(lengthMm, maxDiaMm); err != nil {
		return nil, err
	}

	radius := maxDiaMm / 2
	capLen := lengthMm * capFraction

	out := &BarrelContour{
		UpperProfile: make([]ProfilePoint, MaxSamples),
		LowerProfile: make([]ProfilePoint, MaxSamples),
	}
	for i := 0; i < MaxSamples; i++ {
		pos := lengthMm * float64(i) / float64(MaxSamples-1)
		d := math.Min(pos, lengthMm-pos)
		r := radius
		if d < capLen {
			u := 1 - d/capLen
			r = radius * math.Sqrt(math.Max(0, 1-u*u))
		}
		out.UpperProfile[i] = ProfilePoint{PositionMm: pos, RadiusMm: r}
		out.LowerProfile[i] = ProfilePoint{PositionMm: pos, RadiusMm: r}
	}
	return out, nil
}
