package contour

import "math"

// smoothingSigma is deliberately narrow. Machined cuts on a barrel are only a
// few pixels wide and a wider kernel erases them.
const smoothingSigma = 1.0

// Repair fills detection gaps and suppresses pixel noise in c.
//
// The returned contour is a new value; c is not modified. XOffset and
// ImageHeight pass through unchanged.
//
// # Algorithm
//
//  1. Gap interpolation: every run of invalid columns with a valid column on
//     both sides is filled by linear interpolation between those neighbors,
//     separately for Top and Bottom. Runs touching either end are left alone.
//
//  2. Gaussian smoothing: Top and Bottom are convolved independently with a
//     1-D Gaussian (sigma 1.0, radius 3). Each output is normalized by the
//     weights of the valid samples in its window; a window with no valid
//     sample keeps the input value.
//
// The two boundaries are never merged into a symmetric radius curve: lighting
// and shadow make real photos asymmetric top to bottom.
func Repair(c *RawContour) *RawContour {
	kernel := gaussianKernel(smoothingSigma)
	return &RawContour{
		Top:         smooth(interpolateGaps(c.Top), kernel),
		Bottom:      smooth(interpolateGaps(c.Bottom), kernel),
		XOffset:     c.XOffset,
		ImageHeight: c.ImageHeight,
	}
}

// interpolateGaps returns a copy of edges with bounded invalid runs filled
// linearly.
func interpolateGaps(edges []Edge) []Edge {
	out := make([]Edge, len(edges))
	copy(out, edges)

	prev := -1
	for i, e := range out {
		if !e.Valid {
			continue
		}
		if prev >= 0 && i-prev > 1 {
			a, b := out[prev].Y, e.Y
			span := float64(i - prev)
			for j := prev + 1; j < i; j++ {
				frac := float64(j-prev) / span
				out[j] = Edge{Y: a + frac*(b-a), Valid: true}
			}
		}
		prev = i
	}
	return out
}

// gaussianKernel returns unnormalized weights for offsets -radius..radius,
// radius = ceil(2.5*sigma).
func gaussianKernel(sigma float64) []float64 {
	radius := int(math.Ceil(2.5 * sigma))
	kernel := make([]float64, 2*radius+1)
	for k := -radius; k <= radius; k++ {
		kernel[k+radius] = math.Exp(-float64(k*k) / (2 * sigma * sigma))
	}
	return kernel
}

// smooth convolves the valid samples of edges with kernel. Invalid samples
// stay invalid.
func smooth(edges []Edge, kernel []float64) []Edge {
	radius := len(kernel) / 2
	out := make([]Edge, len(edges))
	for i, e := range edges {
		if !e.Valid {
			out[i] = e
			continue
		}
		var sum, weight float64
		for k := -radius; k <= radius; k++ {
			j := i + k
			if j < 0 || j >= len(edges) || !edges[j].Valid {
				continue
			}
			w := kernel[k+radius]
			sum += edges[j].Y * w
			weight += w
		}
		if weight == 0 {
			out[i] = e
			continue
		}
		out[i] = Edge{Y: sum / weight, Valid: true}
	}
	return out
}
