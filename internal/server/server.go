package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ironsheep/screen-values-mcp/internal/imaging"
	"github.com/ironsheep/screen-values-mcp/internal/logging"
	"github.com/ironsheep/screen-values-mcp/internal/ocr"
	"github.com/ironsheep/screen-values-mcp/internal/session"
)

// ServerName is reported in the initialize handshake.
const ServerName = "screen-values-mcp"

// Server handles MCP protocol communication
type Server struct {
	cache   *imaging.ImageCache
	loader  *session.Loader
	logger  *logging.Logger
	modes   []imaging.Mode
	zeroSub []string
	version string
}

// Options configure a Server.
type Options struct {
	// Engine performs OCR. Required.
	Engine ocr.Engine

	// Modes is the preprocessing pass list for calls that name none.
	Modes []imaging.Mode

	Preprocess imaging.Options

	// ZeroSubstitutes is the default for screen_number_row.
	ZeroSubstitutes []string

	Logger  *logging.Logger
	Version string
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New creates a server. The image cache is shared by every tool call.
func New(opts Options) *Server {
	cache := imaging.NewImageCache()
	modes := opts.Modes
	if len(modes) == 0 {
		modes = imaging.DefaultModes
	}
	version := opts.Version
	if version == "" {
		version = "dev"
	}
	return &Server{
		cache:   cache,
		loader:  session.NewLoader(opts.Engine, cache, opts.Preprocess, opts.Logger),
		logger:  opts.Logger,
		modes:   modes,
		zeroSub: opts.ZeroSubstitutes,
		version: version,
	}
}

// Run serves MCP on stdin and stdout until stdin closes or ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve reads newline-delimited JSON-RPC requests from r and writes
// responses to w. Malformed lines are logged and skipped. Cancellation is
// noticed between requests.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	// Allow large requests
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	encoder := json.NewEncoder(w)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.logger.Warn("failed to parse request", "error", err)
			continue
		}

		resp := s.handleRequest(ctx, &req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				s.logger.Error("failed to encode response", "error", err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}
	return nil
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(ctx context.Context, req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    ServerName,
				"version": s.version,
			},
		},
	}
}
