// Package imaging loads barrel photos and renders pictures of what the
// contour pipeline sees.
//
// Loading goes through RasterCache, which decodes a file once, applies its
// orientation tag, downscales it to a size cap and keeps the result together
// with its contour.Raster. Everything else in the package draws: binarization
// masks, crops of the traced barrel, contour overlays on the photo and
// side-by-side profile comparisons on a millimeter grid. Rendered images are
// returned as base64 PNG in an ImageResult.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward. Contour coordinates are
// millimeters along the barrel axis (PositionMm) and away from its centerline
// (RadiusMm); the Extraction that produced a contour carries the scales that
// map one onto the other.
//
// # Thread Safety
//
// RasterCache is safe for concurrent use. Rendering functions are stateless
// and only read their inputs.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Coordinates outside image bounds
//   - Extractions or contours with nothing to draw
//   - File I/O errors during image loading
//   - Encoding errors during image output
package imaging
