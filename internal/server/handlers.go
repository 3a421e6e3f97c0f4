package server

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/barrel-contour-mcp/internal/contour"
	"github.com/ironsheep/barrel-contour-mcp/internal/imaging"
	"github.com/ironsheep/barrel-contour-mcp/internal/profilecache"
)

// Values of contourResult.Source.
const (
	sourceExtracted   = "extracted"
	sourceFallback    = "fallback"
	sourceUnavailable = "unavailable"
)

// Defaults for optional tool arguments.
const (
	defaultMarginPct    = 10.0
	defaultCompareWidth = 800
	defaultCompareHgt   = 400
	defaultGridMm       = 5.0
)

// ToolCallParams is the params object of a tools/call request.
type ToolCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall runs one tool and wraps its JSON result in a single text
// content block. A failing tool is reported as a JSON-RPC error with code
// codeToolFailed.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	entry := s.log.WithFields(logrus.Fields{
		"tool":     params.Name,
		"duration": time.Since(start).String(),
	})
	if err != nil {
		entry.WithError(err).Warn("Tool execution failed")
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}
	entry.Info("Tool executed")

	return resultResponse(req.ID, map[string]interface{}{
		"content": []map[string]interface{}{
			{"type": "text", "text": mustMarshalJSON(result)},
		},
	})
}

// executeTool routes a tool name to its handler. Handlers decode their own
// arguments and fill in defaults.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Image Information
	case "barrel_image_info":
		return s.handleImageInfo(args)

	// Segmentation
	case "barrel_threshold":
		return s.handleThreshold(args)
	case "barrel_detect_regions":
		return s.handleDetectRegions(args)
	case "barrel_probe_pixels":
		return s.handleProbePixels(args)

	// Contour
	case "barrel_extract_contour":
		return s.handleExtractContour(args)
	case "barrel_render_path":
		return s.handleRenderPath(args)
	case "barrel_compare":
		return s.handleCompare(args)

	// Visualization and Measurement
	case "barrel_render_overlay":
		return s.handleRenderOverlay(args)
	case "barrel_crop":
		return s.handleCrop(args)
	case "barrel_measure_span":
		return s.handleMeasureSpan(args)

	// Maintenance
	case "barrel_cache_clear":
		return s.handleCacheClear(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse builds a failed response. An empty data is left out.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	e := &MCPError{Code: code, Message: message}
	if data != "" {
		e.Data = data
	}
	return &MCPResponse{JSONRPC: "2.0", ID: id, Error: e}
}

// mustMarshalJSON renders v as indented JSON, or "" if it cannot be encoded.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// contourResult is what every contour-producing tool reports about where its
// outline came from.
type contourResult struct {
	// Source is "extracted", "fallback" or "unavailable".
	Source string `json:"source"`

	// Contour is nil only when Source is "unavailable".
	Contour *contour.BarrelContour `json:"contour,omitempty"`

	// Extraction holds pipeline diagnostics when Source is "extracted".
	Extraction *contour.Extraction `json:"extraction,omitempty"`

	// Reason explains why extraction was unavailable.
	Reason string `json:"reason,omitempty"`

	// Cached reports that the extraction outcome came from the contour cache.
	Cached bool `json:"cached"`

	// Downscaled reports that extraction ran on a downscaled copy.
	Downscaled bool `json:"downscaled"`
}

// extract loads path and runs the contour pipeline through the cache.
//
// Measurements are validated before the file is read. An unavailable
// extraction is returned as a nil Extraction with its reason in err, which
// callers test with contour.IsUnavailable.
func (s *Server) extract(path string, lengthMm, maxDiaMm float64) (*imaging.Source, *contour.Extraction, bool, error) {
	if err := contour.ValidateMeasurements(lengthMm, maxDiaMm); err != nil {
		return nil, nil, false, err
	}
	src, err := s.images.Load(path)
	if err != nil {
		return nil, nil, false, err
	}

	key := profilecache.Key{Source: src.ID, LengthMm: lengthMm, MaxDiaMm: maxDiaMm}
	ex, cached, err := s.contours.Get(key, func() (*contour.Extraction, error) {
		return contour.ExtractDetailed(src.Raster, lengthMm, maxDiaMm)
	})

	fields := logrus.Fields{
		"path":       path,
		"length_mm":  lengthMm,
		"max_dia_mm": maxDiaMm,
		"cached":     cached,
	}
	switch {
	case err == nil:
		s.log.WithFields(fields).WithFields(logrus.Fields{
			"threshold":  ex.Threshold,
			"candidates": ex.Candidates,
			"px_per_mm":  ex.PxPerMm,
		}).Debug("Contour extracted")
	case contour.IsUnavailable(err):
		s.log.WithFields(fields).WithError(err).Info("Contour unavailable")
	}
	return src, ex, cached, err
}

// resolveContour extracts a contour and, when extraction is unavailable and
// fallback is set, substitutes the fallback silhouette.
func (s *Server) resolveContour(path string, lengthMm, maxDiaMm float64, fallback bool) (*contourResult, error) {
	src, ex, cached, err := s.extract(path, lengthMm, maxDiaMm)
	if err != nil && !contour.IsUnavailable(err) {
		return nil, err
	}

	res := &contourResult{Cached: cached, Downscaled: src.Downscaled()}
	if err == nil {
		res.Source = sourceExtracted
		res.Contour = ex.Contour
		res.Extraction = ex
		return res, nil
	}

	res.Reason = err.Error()
	if !fallback {
		res.Source = sourceUnavailable
		return res, nil
	}
	c, ferr := contour.Fallback(lengthMm, maxDiaMm)
	if ferr != nil {
		return nil, ferr
	}
	res.Source = sourceFallback
	res.Contour = c
	return res, nil
}

// requireExtraction is extract for tools that draw on the photo and have no
// use for a fallback silhouette.
func (s *Server) requireExtraction(path string, lengthMm, maxDiaMm float64) (*imaging.Source, *contour.Extraction, error) {
	src, ex, _, err := s.extract(path, lengthMm, maxDiaMm)
	if err != nil {
		if contour.IsUnavailable(err) {
			return nil, nil, fmt.Errorf("no barrel found in %s: %w", path, err)
		}
		return nil, nil, err
	}
	return src, ex, nil
}

// === Image Information Handlers ===

type pathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageInfo(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return s.images.LoadImageInfo(a.Path)
}

// === Segmentation Handlers ===

type thresholdArgs struct {
	Path      string `json:"path"`
	Threshold *int   `json:"threshold"`
}

type thresholdResult struct {
	*imaging.MaskResult
	ComputedThreshold int  `json:"computed_threshold"`
	Downscaled        bool `json:"downscaled"`
}

func (s *Server) handleThreshold(args json.RawMessage) (interface{}, error) {
	var a thresholdArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	src, err := s.images.Load(a.Path)
	if err != nil {
		return nil, err
	}

	computed := contour.ComputeThreshold(src.Raster)
	t := computed
	if a.Threshold != nil {
		if *a.Threshold < 0 || *a.Threshold > 255 {
			return nil, fmt.Errorf("threshold %d outside 0-255", *a.Threshold)
		}
		t = *a.Threshold
	}
	mask, err := imaging.RenderMask(src.Raster, t)
	if err != nil {
		return nil, err
	}
	return &thresholdResult{MaskResult: mask, ComputedThreshold: computed, Downscaled: src.Downscaled()}, nil
}

type detectRegionsResult struct {
	Threshold   int              `json:"threshold"`
	Regions     []contour.Region `json:"regions"`
	ImageWidth  int              `json:"image_width"`
	ImageHeight int              `json:"image_height"`
}

func (s *Server) handleDetectRegions(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	src, err := s.images.Load(a.Path)
	if err != nil {
		return nil, err
	}

	t := contour.ComputeThreshold(src.Raster)
	regions := contour.DetectRegions(src.Raster, t)
	if regions == nil {
		regions = []contour.Region{}
	}
	return &detectRegionsResult{
		Threshold:   t,
		Regions:     regions,
		ImageWidth:  src.Raster.Width,
		ImageHeight: src.Raster.Height,
	}, nil
}

type probePixelsArgs struct {
	Path   string `json:"path"`
	Points []struct {
		X     int    `json:"x"`
		Y     int    `json:"y"`
		Label string `json:"label"`
	} `json:"points"`
	Threshold *int `json:"threshold"`
}

func (s *Server) handleProbePixels(args json.RawMessage) (interface{}, error) {
	var a probePixelsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	src, err := s.images.Load(a.Path)
	if err != nil {
		return nil, err
	}

	t := contour.ComputeThreshold(src.Raster)
	if a.Threshold != nil {
		t = *a.Threshold
	}
	points := make([]imaging.LabeledPoint, len(a.Points))
	for i, p := range a.Points {
		points[i] = imaging.LabeledPoint{X: p.X, Y: p.Y, Label: p.Label}
	}
	return imaging.ProbePixels(src.Raster, points, t)
}

// === Contour Handlers ===

type measurementArgs struct {
	Path     string  `json:"path"`
	LengthMm float64 `json:"length_mm"`
	MaxDiaMm float64 `json:"max_dia_mm"`
}

type extractContourArgs struct {
	measurementArgs
	Fallback *bool `json:"fallback"`
}

func (s *Server) handleExtractContour(args json.RawMessage) (interface{}, error) {
	var a extractContourArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	fallback := a.Fallback == nil || *a.Fallback
	return s.resolveContour(a.Path, a.LengthMm, a.MaxDiaMm, fallback)
}

type renderPathArgs struct {
	measurementArgs
	Scale       float64 `json:"scale"`
	XOffset     float64 `json:"x_offset"`
	CenterlineY float64 `json:"centerline_y"`
	Fallback    *bool   `json:"fallback"`
}

type renderPathResult struct {
	Source string            `json:"source"`
	Reason string            `json:"reason,omitempty"`
	Points []contour.Point2D `json:"points"`
}

func (s *Server) handleRenderPath(args json.RawMessage) (interface{}, error) {
	var a renderPathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	fallback := a.Fallback == nil || *a.Fallback

	res, err := s.resolveContour(a.Path, a.LengthMm, a.MaxDiaMm, fallback)
	if err != nil {
		return nil, err
	}
	out := &renderPathResult{Source: res.Source, Reason: res.Reason, Points: []contour.Point2D{}}
	if res.Contour != nil {
		if pts := contour.ToRenderablePath(res.Contour, a.Scale, a.XOffset, a.CenterlineY); pts != nil {
			out.Points = pts
		}
	}
	return out, nil
}

type compareSideArgs struct {
	measurementArgs
	Label string `json:"label"`
	Color string `json:"color"`
}

type compareArgs struct {
	A      compareSideArgs `json:"a"`
	B      compareSideArgs `json:"b"`
	Width  int             `json:"width"`
	Height int             `json:"height"`
	GridMm *float64        `json:"grid_mm"`
}

type compareSide struct {
	Label  string `json:"label"`
	Source string `json:"source"`
	Reason string `json:"reason,omitempty"`
}

type compareResult struct {
	*imaging.ImageResult
	Comparison *contour.Comparison `json:"comparison"`
	A          compareSide         `json:"a"`
	B          compareSide         `json:"b"`
}

func (s *Server) handleCompare(args json.RawMessage) (interface{}, error) {
	var a compareArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Width == 0 {
		a.Width = defaultCompareWidth
	}
	if a.Height == 0 {
		a.Height = defaultCompareHgt
	}
	grid := defaultGridMm
	if a.GridMm != nil {
		grid = *a.GridMm
	}

	sides := []compareSideArgs{a.A, a.B}
	profiles := make([]imaging.Profile, len(sides))
	summary := make([]compareSide, len(sides))
	for i, side := range sides {
		res, err := s.resolveContour(side.Path, side.LengthMm, side.MaxDiaMm, true)
		if err != nil {
			return nil, fmt.Errorf("profile %s: %w", string(rune('a'+i)), err)
		}
		label := side.Label
		if label == "" {
			label = side.Path
		}
		profiles[i] = imaging.Profile{Label: label, Contour: res.Contour, ColorHex: side.Color}
		summary[i] = compareSide{Label: label, Source: res.Source, Reason: res.Reason}
	}

	cmp, err := contour.Compare(profiles[0].Contour, profiles[1].Contour)
	if err != nil {
		return nil, err
	}
	img, err := imaging.RenderComparison(profiles, a.Width, a.Height, grid)
	if err != nil {
		return nil, err
	}
	return &compareResult{ImageResult: img, Comparison: cmp, A: summary[0], B: summary[1]}, nil
}

// === Visualization and Measurement Handlers ===

type renderOverlayArgs struct {
	measurementArgs
	Color string `json:"color"`
}

func (s *Server) handleRenderOverlay(args json.RawMessage) (interface{}, error) {
	var a renderOverlayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	src, ex, err := s.requireExtraction(a.Path, a.LengthMm, a.MaxDiaMm)
	if err != nil {
		return nil, err
	}
	return imaging.RenderOverlay(src.Image, ex, a.Color)
}

type cropArgs struct {
	measurementArgs
	MarginPct *float64 `json:"margin_pct"`
	Scale     float64  `json:"scale"`
}

func (s *Server) handleCrop(args json.RawMessage) (interface{}, error) {
	var a cropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	margin := defaultMarginPct
	if a.MarginPct != nil {
		margin = *a.MarginPct
	}
	src, ex, err := s.requireExtraction(a.Path, a.LengthMm, a.MaxDiaMm)
	if err != nil {
		return nil, err
	}
	return imaging.CropBarrel(src.Image, ex, margin, a.Scale)
}

type measureSpanArgs struct {
	measurementArgs
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

func (s *Server) handleMeasureSpan(args json.RawMessage) (interface{}, error) {
	var a measureSpanArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	_, ex, err := s.requireExtraction(a.Path, a.LengthMm, a.MaxDiaMm)
	if err != nil {
		return nil, err
	}
	return imaging.MeasureSpan(ex, a.X1, a.Y1, a.X2, a.Y2)
}

// === Maintenance Handlers ===

type cacheClearResult struct {
	Cleared string `json:"cleared"`
	Cached  int    `json:"cached_contours"`
}

func (s *Server) handleCacheClear(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if len(args) > 0 {
		if err := json.Unmarshal(args, &a); err != nil {
			return nil, err
		}
	}

	if a.Path == "" {
		s.images.Clear()
		s.contours.Clear()
		return &cacheClearResult{Cleared: "all", Cached: s.contours.Len()}, nil
	}

	if src, ok := s.images.Peek(a.Path); ok {
		s.contours.Evict(src.ID)
	}
	s.images.Evict(a.Path)
	return &cacheClearResult{Cleared: a.Path, Cached: s.contours.Len()}, nil
}
