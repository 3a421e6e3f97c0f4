package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/barrel-contour-mcp/internal/config"
	"github.com/ironsheep/barrel-contour-mcp/internal/imaging"
	"github.com/ironsheep/barrel-contour-mcp/internal/profilecache"
)

// Name and Version are reported to clients during initialize.
const (
	Name    = "barrel-contour-mcp"
	Version = "0.1.0"
)

// protocolVersion is the MCP revision the server speaks.
const protocolVersion = "2024-11-05"

// JSON-RPC error codes.
const (
	codeInvalidParams  = -32602
	codeMethodNotFound = -32601
	codeToolFailed     = -32000
)

// maxRequestBytes bounds a single JSON-RPC line.
const maxRequestBytes = 1024 * 1024

// Server answers MCP requests for barrel contour tools. It owns the decoded
// photo cache and the contour cache shared by every tool call.
type Server struct {
	images   *imaging.RasterCache
	contours *profilecache.Cache
	log      *logrus.Logger
}

// MCPRequest is one JSON-RPC request or notification read from the client.
// Notifications carry no ID.
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse is written back for every request that is not a notification.
// Exactly one of Result and Error is set.
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError is the error member of a failed response.
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New creates a server with caches sized from cfg. A nil logger discards
// all log output.
func New(cfg config.Config, logger *logrus.Logger) (*Server, error) {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	images, err := imaging.NewRasterCache(cfg.ImageCacheSize, cfg.MaxImageDim)
	if err != nil {
		return nil, err
	}
	contours, err := profilecache.New(cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	return &Server{images: images, contours: contours, log: logger}, nil
}

// Run serves the process's stdin and stdout until stdin is closed.
func (s *Server) Run() error {
	return s.Serve(os.Stdin, os.Stdout)
}

// Serve reads newline-delimited JSON-RPC requests from r and writes one
// response line per request to w until r is exhausted. Lines that are not
// valid JSON are logged and skipped.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRequestBytes)
	enc := json.NewEncoder(w)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.log.WithError(err).Warn("Skipping malformed request")
			continue
		}

		if resp := s.handleRequest(&req); resp != nil {
			if err := enc.Encode(resp); err != nil {
				s.log.WithError(err).Error("Failed to write response")
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read requests: %w", err)
	}
	return nil
}

// handleRequest dispatches on the method name. It returns nil for
// notifications.
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	s.log.WithField("method", req.Method).Debug("Request received")

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return resultResponse(req.ID, struct{}{})
	default:
		return s.errorResponse(req.ID, codeMethodNotFound,
			fmt.Sprintf("Method not found: %s", req.Method), "")
	}
}

func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return resultResponse(req.ID, map[string]interface{}{
		"protocolVersion": protocolVersion,
		"capabilities": map[string]interface{}{
			"tools": map[string]interface{}{},
		},
		"serverInfo": map[string]interface{}{
			"name":    Name,
			"version": Version,
		},
	})
}

func resultResponse(id, result interface{}) *MCPResponse {
	return &MCPResponse{JSONRPC: "2.0", ID: id, Result: result}
}
