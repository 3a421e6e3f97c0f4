package contour

import "fmt"

// Extraction carries a contour together with the intermediate values that
// produced it, for diagnostics and overlays.
type Extraction struct {
	// Contour is the normalized outline.
	Contour *BarrelContour `json:"-"`

	// Threshold is the binarization cutoff used for segmentation.
	Threshold int `json:"threshold"`

	// Region is the band that was traced.
	Region Region `json:"region"`

	// Candidates is the number of bands DetectRegions returned.
	Candidates int `json:"candidates"`

	// XOffset is the image column of the leftmost retained column.
	XOffset int `json:"x_offset"`

	// PixelWidth is the number of retained columns.
	PixelWidth int `json:"pixel_width"`

	// MaxThicknessPx is the widest repaired Bottom-Top distance in pixels.
	MaxThicknessPx float64 `json:"max_thickness_px"`

	// PxPerMm is the horizontal scale: retained columns per millimeter of length.
	PxPerMm float64 `json:"px_per_mm"`

	// CenterlineY is the mean of the per-column centers in image rows.
	CenterlineY float64 `json:"centerline_y"`

	// RadiusPxPerMm is the vertical scale: pixels per millimeter of radius.
	// It differs from PxPerMm when the photo is not perfectly side-on.
	RadiusPxPerMm float64 `json:"radius_px_per_mm"`

	// AxisTiltDeg is the angle of the barrel's axis against the image rows.
	// A few degrees or more means the photo was not level and the profiles
	// are skewed.
	AxisTiltDeg float64 `json:"axis_tilt_deg"`
}

// Extract runs the full pipeline over r and returns the normalized contour.
//
// Measurements are validated before any pixel work. Unavailable outcomes are
// reported through ErrNoRegionFound or ErrDegenerateObject; use IsUnavailable
// to tell them apart from caller errors.
func Extract(r *Raster, lengthMm, maxDiaMm float64) (*BarrelContour, error) {
	e, err := ExtractDetailed(r, lengthMm, maxDiaMm)
	if err != nil {
		return nil, err
	}
	return e.Contour, nil
}

// ExtractDetailed is Extract with the intermediate values attached.
//
// Only the band nearest the vertical center is traced. If it turns out to be
// degenerate the extraction is unavailable; other bands are not tried.
func ExtractDetailed(r *Raster, lengthMm, maxDiaMm float64) (*Extraction, error) {
	if err := ValidateMeasurements(lengthMm, maxDiaMm); err != nil {
		return nil, err
	}

	threshold := ComputeThreshold(r)
	regions := DetectRegions(r, threshold)
	if len(regions) == 0 {
		return nil, fmt.Errorf("%w: threshold %d", ErrNoRegionFound, threshold)
	}

	raw, err := TraceEdges(r, regions[0], threshold)
	if err != nil {
		return nil, err
	}
	repaired := Repair(raw)

	c, err := Normalize(repaired, lengthMm, maxDiaMm)
	if err != nil {
		return nil, err
	}

	thickness := repaired.MaxThickness()
	return &Extraction{
		Contour:        c,
		Threshold:      threshold,
		Region:         regions[0],
		Candidates:     len(regions),
		XOffset:        repaired.XOffset,
		PixelWidth:     repaired.Width(),
		MaxThicknessPx: thickness,
		PxPerMm:        float64(repaired.Width()) / lengthMm,
		CenterlineY:    repaired.MeanCenterline(),
		RadiusPxPerMm:  thickness / maxDiaMm,
		AxisTiltDeg:    repaired.AxisTilt(),
	}, nil
}
