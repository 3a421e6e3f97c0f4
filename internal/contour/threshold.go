package contour

const (
	// MinThreshold and MaxThreshold bound the Otsu result. Product photos are
	// shot on light backgrounds with a darker object, and raw Otsu drifts badly
	// on near-uniform backgrounds.
	MinThreshold = 150
	MaxThreshold = 240

	// DefaultThreshold is used when no cut separates the histogram, e.g. a
	// completely uniform image.
	DefaultThreshold = 200
)

// ComputeThreshold picks a binarization cutoff for r using Otsu's method.
//
// Every pixel contributes its rounded luminance to a 256-bin histogram. For
// each candidate cut t the pixels split into a background class (<= t) and a
// foreground class (> t); the cut maximizing the between-class variance
//
//	wB * wF * (mB - mF)^2
//
// wins. The result is clamped to [MinThreshold, MaxThreshold].
//
// The function never fails and is deterministic: identical pixels always give
// the identical threshold.
func ComputeThreshold(r *Raster) int {
	var hist [256]float64
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			hist[r.Luminance(x, y)]++
		}
	}
	return clampInt(otsu(hist[:], float64(r.Width*r.Height)), MinThreshold, MaxThreshold)
}

// otsu returns the cut maximizing between-class variance, or DefaultThreshold
// when no cut yields positive variance.
func otsu(hist []float64, total float64) int {
	var sum float64
	for i, n := range hist {
		sum += float64(i) * n
	}

	var sumB, wB, best float64
	threshold := DefaultThreshold
	for t := 0; t < len(hist); t++ {
		wB += hist[t]
		if wB == 0 {
			continue
		}
		wF := total - wB
		if wF == 0 {
			break
		}
		sumB += float64(t) * hist[t]
		mB := sumB / wB
		mF := (sum - sumB) / wF
		between := wB * wF * (mB - mF) * (mB - mF)
		if between > best {
			best = between
			threshold = t
		}
	}
	return threshold
}

func clampInt(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
