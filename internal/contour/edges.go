package contour

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// minThickness is the smallest vertical extent, in pixels, that a real
// object can have anywhere along its length.
const minThickness = 3

// Edge is one boundary coordinate of a pixel column. Valid is false when the
// column had no foreground pixel, in which case Y carries no meaning.
type Edge struct {
	Y     float64
	Valid bool
}

// RawContour holds the per-column boundaries of an object in pixel space.
//
// Top and Bottom have one entry per retained column. Column i corresponds to
// image column XOffset+i.
type RawContour struct {
	Top         []Edge
	Bottom      []Edge
	XOffset     int
	ImageHeight int
}

// Width returns the number of retained columns.
func (c *RawContour) Width() int {
	return len(c.Top)
}

// MaxThickness returns the largest Bottom-Top distance over columns where both
// edges are known.
func (c *RawContour) MaxThickness() float64 {
	var max float64
	for i := range c.Top {
		if !c.Top[i].Valid || !c.Bottom[i].Valid {
			continue
		}
		if d := c.Bottom[i].Y - c.Top[i].Y; d > max {
			max = d
		}
	}
	return max
}

// MeanCenterline returns the average of (Top+Bottom)/2 over columns where both
// edges are known, or 0 when there are none.
func (c *RawContour) MeanCenterline() float64 {
	var sum float64
	n := 0
	for i := range c.Top {
		if c.Top[i].Valid && c.Bottom[i].Valid {
			sum += (c.Top[i].Y + c.Bottom[i].Y) / 2
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// AxisTilt fits a least-squares line through the per-column centers and
// returns its angle in degrees. Positive angles descend to the right in image
// coordinates. Returns 0 with fewer than two usable columns.
func (c *RawContour) AxisTilt() float64 {
	var xs, ys []float64
	for i := range c.Top {
		if c.Top[i].Valid && c.Bottom[i].Valid {
			xs = append(xs, float64(i))
			ys = append(ys, (c.Top[i].Y+c.Bottom[i].Y)/2)
		}
	}
	if len(xs) < 2 {
		return 0
	}
	_, slope := stat.LinearRegression(xs, ys, nil, false)
	return math.Atan(slope) * 180 / math.Pi
}

// TraceEdges records, for every image column, the first and last foreground
// row inside region.
//
// Columns without foreground at the left and right of the object are trimmed.
// Interior columns without foreground are kept as invalid edges for Repair to
// fill.
//
// Returns ErrDegenerateObject if no column holds foreground or if the object is
// never at least three pixels thick.
func TraceEdges(r *Raster, region Region, threshold int) (*RawContour, error) {
	top := make([]Edge, r.Width)
	bottom := make([]Edge, r.Width)

	first, last := -1, -1
	for x := 0; x < r.Width; x++ {
		for y := region.YStart; y <= region.YEnd; y++ {
			if !r.IsForeground(x, y, threshold) {
				continue
			}
			if !top[x].Valid {
				top[x] = Edge{Y: float64(y), Valid: true}
			}
			bottom[x] = Edge{Y: float64(y), Valid: true}
		}
		if top[x].Valid {
			if first < 0 {
				first = x
			}
			last = x
		}
	}

	if first < 0 {
		return nil, fmt.Errorf("%w: no foreground columns in rows %d-%d",
			ErrDegenerateObject, region.YStart, region.YEnd)
	}

	c := &RawContour{
		Top:         top[first : last+1],
		Bottom:      bottom[first : last+1],
		XOffset:     first,
		ImageHeight: r.Height,
	}
	if t := c.MaxThickness(); t < minThickness {
		return nil, fmt.Errorf("%w: maximum thickness %.0fpx", ErrDegenerateObject, t)
	}
	return c, nil
}
