package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the barrel photo",
	}
}

// measurementProperties returns the schema properties shared by every tool
// that extracts a contour, merged with extra.
func measurementProperties(extra map[string]interface{}) map[string]interface{} {
	props := map[string]interface{}{
		"path": pathProperty(),
		"length_mm": map[string]interface{}{
			"type":        "number",
			"description": "Measured barrel length in millimeters (positive)",
		},
		"max_dia_mm": map[string]interface{}{
			"type":        "number",
			"description": "Measured maximum barrel diameter in millimeters (positive)",
		},
	}
	for k, v := range extra {
		props[k] = v
	}
	return props
}

var measurementRequired = []string{"path", "length_mm", "max_dia_mm"}

func fallbackProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "boolean",
		"description": "Return a capsule-shaped silhouette built from the measurements when no barrel can be extracted. Default true",
		"default":     true,
	}
}

func compareSideSchema(which string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "object",
		"description": "The " + which + " barrel",
		"properties": measurementProperties(map[string]interface{}{
			"label": map[string]interface{}{
				"type":        "string",
				"description": "Legend label. Defaults to the path",
			},
			"color": map[string]interface{}{
				"type":        "string",
				"description": "Outline color as #RRGGBB",
			},
		}),
		"required": measurementRequired,
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image Information
		{
			Name:        "barrel_image_info",
			Description: "Read a photo's header and report its dimensions, format, color depth, file size and whether extraction will work on a downscaled copy.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Segmentation
		{
			Name:        "barrel_threshold",
			Description: "Compute the automatic binarization threshold for a photo and return a black-and-white preview of what segmentation treats as the object.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"threshold": map[string]interface{}{
						"type":        "integer",
						"description": "Optional luminance cutoff (0-255) to preview instead of the computed one",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "barrel_detect_regions",
			Description: "List the horizontal bands of dark rows that could hold the barrel, nearest to the vertical center first.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "barrel_probe_pixels",
			Description: "Report color, luminance and foreground classification at specific pixels. Use this to see why a shadow or highlight lands on the wrong side of the threshold.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"points": map[string]interface{}{
						"type":        "array",
						"description": "Pixels to probe",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"x":     map[string]interface{}{"type": "integer"},
								"y":     map[string]interface{}{"type": "integer"},
								"label": map[string]interface{}{"type": "string"},
							},
							"required": []string{"x", "y"},
						},
					},
					"threshold": map[string]interface{}{
						"type":        "integer",
						"description": "Optional cutoff. Defaults to the computed threshold",
					},
				},
				"required": []string{"path", "points"},
			},
		},

		// Contour
		{
			Name:        "barrel_extract_contour",
			Description: "Extract the barrel's upper and lower profiles in millimeters from a side-on photo on a light background. Reports whether the contour was extracted, substituted by the fallback silhouette, or unavailable.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": measurementProperties(map[string]interface{}{
					"fallback": fallbackProperty(),
				}),
				"required": measurementRequired,
			},
		},
		{
			Name:        "barrel_render_path",
			Description: "Extract the contour and convert it into a closed polygon for a drawing surface: upper profile left to right, then lower profile right to left.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": measurementProperties(map[string]interface{}{
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Drawing units per millimeter. Default 1.0",
						"default":     1.0,
					},
					"x_offset": map[string]interface{}{
						"type":        "number",
						"description": "Horizontal position of the barrel's left end. Default 0",
					},
					"centerline_y": map[string]interface{}{
						"type":        "number",
						"description": "Vertical position of the centerline. Default 0",
					},
					"fallback": fallbackProperty(),
				}),
				"required": measurementRequired,
			},
		},
		{
			Name:        "barrel_compare",
			Description: "Compare two barrels: shape correlation and dimensional differences, plus a drawing of both outlines on a shared centerline with a millimeter grid. Barrels that cannot be extracted use the fallback silhouette.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"a": compareSideSchema("first"),
					"b": compareSideSchema("second"),
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Drawing width in pixels (at least 200). Default 800",
						"default":     800,
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Drawing height in pixels (at least 200). Default 400",
						"default":     400,
					},
					"grid_mm": map[string]interface{}{
						"type":        "number",
						"description": "Grid spacing in millimeters, 0 for none. Default 5",
						"default":     5,
					},
				},
				"required": []string{"a", "b"},
			},
		},

		// Visualization and Measurement
		{
			Name:        "barrel_render_overlay",
			Description: "Draw the extracted outline over the photo. A correct extraction hugs the barrel's silhouette.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": measurementProperties(map[string]interface{}{
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Outline color as #RRGGBB. Default #00C853",
					},
				}),
				"required": measurementRequired,
			},
		},
		{
			Name:        "barrel_crop",
			Description: "Cut the traced barrel out of the photo with a margin and return it as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": measurementProperties(map[string]interface{}{
					"margin_pct": map[string]interface{}{
						"type":        "number",
						"description": "Margin around the barrel as a percentage of its size. Default 10",
						"default":     10,
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
				}),
				"required": measurementRequired,
			},
		},
		{
			Name:        "barrel_measure_span",
			Description: "Convert the pixel span between two points into millimeters using the scales of the barrel's extraction.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": measurementProperties(map[string]interface{}{
					"x1": map[string]interface{}{"type": "integer", "description": "Start X coordinate"},
					"y1": map[string]interface{}{"type": "integer", "description": "Start Y coordinate"},
					"x2": map[string]interface{}{"type": "integer", "description": "End X coordinate"},
					"y2": map[string]interface{}{"type": "integer", "description": "End Y coordinate"},
				}),
				"required": append(append([]string{}, measurementRequired...), "x1", "y1", "x2", "y2"),
			},
		},

		// Maintenance
		{
			Name:        "barrel_cache_clear",
			Description: "Forget cached photos and contours, for one path or for everything.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Photo to forget. Omit to clear everything",
					},
				},
			},
		},
	}
}

func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return resultResponse(req.ID, map[string]interface{}{
		"tools": GetToolDefinitions(),
	})
}
