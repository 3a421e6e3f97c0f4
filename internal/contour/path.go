package contour

// Point2D is a drawing-surface coordinate.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ToRenderablePath converts c into a closed polygon for a drawing surface.
//
// Positions are multiplied by scale and shifted by xOffset. The upper profile
// is walked left to right above centerlineY, then the lower profile right to
// left below it, so the last point connects back to the first.
//
// Returns nil if either profile has fewer than two points.
func ToRenderablePath(c *BarrelContour, scale, xOffset, centerlineY float64) []Point2D {
	if len(c.UpperProfile) < 2 || len(c.LowerProfile) < 2 {
		return nil
	}

	path := make([]Point2D, 0, len(c.UpperProfile)+len(c.LowerProfile))
	for _, p := range c.UpperProfile {
		path = append(path, Point2D{
			X: xOffset + p.PositionMm*scale,
			Y: centerlineY - p.RadiusMm*scale,
		})
	}
	for i := len(c.LowerProfile) - 1; i >= 0; i-- {
		p := c.LowerProfile[i]
		path = append(path, Point2D{
			X: xOffset + p.PositionMm*scale,
			Y: centerlineY + p.RadiusMm*scale,
		})
	}
	return path
}
