package contour

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// compareStations is the number of evenly spaced stations both contours are
// resampled to before comparison.
const compareStations = 64

// Comparison summarizes how two barrel contours differ.
type Comparison struct {
	// Correlation is the Pearson correlation of the two mean-radius curves
	// sampled at the same relative positions. 1 means identical shape up to
	// scale. Zero when either curve is flat.
	Correlation float64 `json:"correlation"`

	// LengthDeltaMm is b's length minus a's.
	LengthDeltaMm float64 `json:"length_delta_mm"`

	// MaxDiameterDeltaMm is b's maximum diameter minus a's.
	MaxDiameterDeltaMm float64 `json:"max_diameter_delta_mm"`

	// MeanRadiusDiffMm is the mean absolute difference of the mean-radius
	// curves at the shared relative stations.
	MeanRadiusDiffMm float64 `json:"mean_radius_diff_mm"`
}

// Compare resamples a and b onto a common relative axis and reports shape
// correlation and dimensional differences.
//
// Both contours need at least two stations.
func Compare(a, b *BarrelContour) (*Comparison, error) {
	if a.Len() < 2 || b.Len() < 2 {
		return nil, errors.New("contours need at least two stations to compare")
	}

	ra := resampleMeanRadius(a, compareStations)
	rb := resampleMeanRadius(b, compareStations)

	var diff float64
	for i := range ra {
		diff += math.Abs(ra[i] - rb[i])
	}

	corr := stat.Correlation(ra, rb, nil)
	if math.IsNaN(corr) {
		corr = 0
	}

	return &Comparison{
		Correlation:        corr,
		LengthDeltaMm:      b.LengthMm() - a.LengthMm(),
		MaxDiameterDeltaMm: 2 * (b.MaxRadiusMm() - a.MaxRadiusMm()),
		MeanRadiusDiffMm:   diff / float64(len(ra)),
	}, nil
}

// MeanRadius returns the average of the upper and lower radius per station.
func (b *BarrelContour) MeanRadius() []float64 {
	out := make([]float64, b.Len())
	for i := range b.UpperProfile {
		out[i] = (b.UpperProfile[i].RadiusMm + b.LowerProfile[i].RadiusMm) / 2
	}
	return out
}

// resampleMeanRadius linearly interpolates the mean radius of c at n stations
// spread evenly from its first to its last position.
func resampleMeanRadius(c *BarrelContour, n int) []float64 {
	radius := c.MeanRadius()
	first := c.UpperProfile[0].PositionMm
	last := c.LengthMm()

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		pos := first + (last-first)*float64(i)/float64(n-1)
		j := sort.Search(len(c.UpperProfile), func(k int) bool {
			return c.UpperProfile[k].PositionMm >= pos
		})
		switch {
		case j == 0:
			out[i] = radius[0]
		case j >= len(radius):
			out[i] = radius[len(radius)-1]
		default:
			p0, p1 := c.UpperProfile[j-1].PositionMm, c.UpperProfile[j].PositionMm
			t := (pos - p0) / (p1 - p0)
			out[i] = radius[j-1] + t*(radius[j]-radius[j-1])
		}
	}
	return out
}
