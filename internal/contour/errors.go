package contour

import "errors"

var (
	// ErrNoRegionFound means segmentation found no band tall enough to be an object.
	ErrNoRegionFound = errors.New("no foreground region found")

	// ErrDegenerateObject means the selected band produced no columns or is
	// thinner than a real barrel could be.
	ErrDegenerateObject = errors.New("detected object is degenerate")

	// ErrInvalidMeasurements means the supplied length or diameter is not a
	// positive finite number.
	ErrInvalidMeasurements = errors.New("length and diameter must be positive")

	// ErrMalformedRaster means the pixel buffer does not match the declared
	// width and height.
	ErrMalformedRaster = errors.New("malformed raster")
)

// IsUnavailable reports whether err is an ordinary "extraction unavailable"
// outcome, as opposed to a caller or integration error.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrNoRegionFound) || errors.Is(err, ErrDegenerateObject)
}
