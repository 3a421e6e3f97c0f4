package contour

import (
	"math"
	"sort"
)

const (
	// minRowFill is the fraction of a row's pixels that must be foreground
	// for the row to count as part of an object.
	minRowFill = 0.05

	// minBandHeight is the fraction of the image height a band needs to
	// become a Region. Shorter bands are speckle or text.
	minBandHeight = 0.05
)

// Region is a horizontal band of contiguous foreground rows: a candidate object.
type Region struct {
	// YStart is the first row of the band (inclusive).
	YStart int `json:"y_start"`

	// YEnd is the last row of the band (inclusive).
	YEnd int `json:"y_end"`

	// Height is YEnd - YStart + 1.
	Height int `json:"height"`

	// CenterY is the midpoint between YStart and YEnd.
	CenterY float64 `json:"center_y"`
}

// DetectRegions finds candidate object bands in r.
//
// A row is filled when at least 5% of its pixels are foreground (see
// Raster.IsForeground). Runs of filled rows form bands, and bands shorter
// than 5% of the image height are discarded as noise.
//
// The result is ordered by distance between the band center and the vertical
// center of the image, nearest first. Product photos put the barrel in the
// middle; rulers, labels and packaging tend to sit near the edges. Bands at
// equal distance keep their top-to-bottom order.
//
// An empty result means nothing was found. It is not an error.
func DetectRegions(r *Raster, threshold int) []Region {
	minFilled := minRowFill * float64(r.Width)
	minHeight := minBandHeight * float64(r.Height)

	var regions []Region
	start := -1
	closeBand := func(end int) {
		h := end - start + 1
		if float64(h) >= minHeight {
			regions = append(regions, Region{
				YStart:  start,
				YEnd:    end,
				Height:  h,
				CenterY: float64(start+end) / 2,
			})
		}
		start = -1
	}

	for y := 0; y < r.Height; y++ {
		count := 0
		for x := 0; x < r.Width; x++ {
			if r.IsForeground(x, y, threshold) {
				count++
			}
		}
		filled := float64(count) >= minFilled
		switch {
		case filled && start < 0:
			start = y
		case !filled && start >= 0:
			closeBand(y - 1)
		}
	}
	if start >= 0 {
		closeBand(r.Height - 1)
	}

	mid := float64(r.Height) / 2
	sort.SliceStable(regions, func(i, j int) bool {
		return math.Abs(regions[i].CenterY-mid) < math.Abs(regions[j].CenterY-mid)
	})
	return regions
}
