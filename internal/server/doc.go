// Package server implements the MCP (Model Context Protocol) server for barrel
// contour extraction.
//
// # Protocol
//
// Requests arrive as newline-delimited JSON-RPC 2.0 on stdin and responses
// are written the same way to stdout. Logs go to stderr so they never mix
// with the protocol stream. The methods understood are initialize, ping,
// tools/list and tools/call; notifications/initialized is accepted silently.
//
// # Available Tools
//
// Image Information:
//   - barrel_image_info: Dimensions, format and size cap of a photo
//
// Segmentation:
//   - barrel_threshold: Computed threshold and binarization preview
//   - barrel_detect_regions: Candidate bands, nearest to center first
//   - barrel_probe_pixels: Why a pixel is or is not foreground
//
// Contour:
//   - barrel_extract_contour: Upper and lower profiles in millimeters
//   - barrel_render_path: Closed polygon for a drawing surface
//   - barrel_compare: Shape statistics and drawing of two barrels
//
// Visualization and Measurement:
//   - barrel_render_overlay: Extracted outline over the photo
//   - barrel_crop: The traced barrel cut out of the photo
//   - barrel_measure_span: Pixel span converted to millimeters
//
// Maintenance:
//   - barrel_cache_clear: Forget cached photos and contours
//
// Tools that take length_mm and max_dia_mm validate them before reading the
// photo. When no barrel can be extracted, contour tools answer with the
// fallback silhouette (source "fallback") unless asked not to; drawing tools
// that need the photo's own outline fail instead.
//
// # Caching
//
// Decoded photos and extraction outcomes are kept in two bounded LRU caches
// sized from config.Config. A photo is decoded again when its size or
// modification time changes, and contours are keyed by that file identity plus
// the measurements.
//
// # Error Handling
//
// A failing tool yields error code -32000 with the underlying Go error text in
// data. Undecodable tools/call params yield -32602 and unknown methods -32601.
//
// # Usage
//
//	srv, err := server.New(config.Default(), logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
