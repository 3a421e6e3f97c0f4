// Package contour extracts a millimeter-normalized outline of a dart barrel
// from a product photograph.
//
// The extraction is a chain of pure stages:
//
//  1. ComputeThreshold: Otsu binarization cutoff, clamped for light backgrounds
//  2. DetectRegions: horizontal bands of foreground rows, nearest to center first
//  3. TraceEdges: per-column top/bottom boundaries inside the chosen band
//  4. Repair: linear gap interpolation followed by narrow Gaussian smoothing
//  5. Normalize: rescale to millimeters using the known length and diameter
//
// Extract runs the whole chain. ToRenderablePath turns the result into a closed
// polygon for drawing.
//
// # Coordinate System
//
// Pixel coordinates follow the image convention: (0,0) is the top-left corner,
// X increases rightward and Y increases downward. The barrel is assumed to lie
// roughly horizontally, so its length runs along X.
//
// # Failure
//
// Photographs are uncontrolled, so "nothing usable found" is routine. Stages
// report it through the sentinel errors ErrNoRegionFound and ErrDegenerateObject,
// both recognised by IsUnavailable. Callers are expected to fall back to the
// parametric silhouette from Fallback rather than fail the request.
//
// Two conditions are contract violations rather than properties of the photo:
// ErrInvalidMeasurements (non-positive length or diameter) and ErrMalformedRaster
// (pixel buffer length inconsistent with the declared dimensions).
//
// # Thread Safety
//
// Nothing in this package holds shared state. Independent extractions may run
// concurrently without synchronization; a Raster must not be mutated while an
// extraction is reading it.
package contour
