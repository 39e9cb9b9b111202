package server

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ironsheep/screen-values-mcp/internal/imaging"
	"github.com/ironsheep/screen-values-mcp/internal/ocrdata"
	"github.com/ironsheep/screen-values-mcp/internal/search"
	"github.com/ironsheep/screen-values-mcp/internal/session"
)

// defaultCropPadding is the margin kept around a located label's crop.
const defaultCropPadding = 4

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "screen_value_right").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// A value that is not on screen is a normal result with "found": false.
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool failed", "tool", params.Name, "error", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}
	s.logger.Debug("tool done", "tool", params.Name, "elapsed", time.Since(start).Round(time.Millisecond))

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Relative-value finders
	case "screen_value_right":
		return s.handleValueRight(ctx, args)
	case "screen_number_above":
		return s.handleNumberAbove(ctx, args)
	case "screen_number_below_suffix":
		return s.handleNumberBelowSuffix(ctx, args)
	case "screen_number_row":
		return s.handleNumberRow(ctx, args)

	// Inspection
	case "screen_locate_label":
		return s.handleLocateLabel(ctx, args)
	case "screen_text_objects":
		return s.handleTextObjects(ctx, args)

	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Sessions ===

// sourceArgs are shared by every screen_* tool.
type sourceArgs struct {
	Path       string   `json:"path"`
	ReportPath string   `json:"report_path"`
	Display    *int     `json:"display"`
	Modes      []string `json:"modes"`
}

func (s *Server) openSession(ctx context.Context, a sourceArgs) (*session.Session, error) {
	modes := s.modes
	if len(a.Modes) > 0 {
		parsed, err := imaging.ParseModes(a.Modes)
		if err != nil {
			return nil, err
		}
		modes = parsed
	}
	src := session.Source{ImagePath: a.Path, ReportPath: a.ReportPath, Display: a.Display}
	return s.loader.Open(ctx, src, modes)
}

// decodeArgs unmarshals args into dst. Missing arguments decode as {}.
func decodeArgs(args json.RawMessage, dst interface{}) error {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, dst); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// === Relative-Value Finder Handlers ===

type labelArgs struct {
	sourceArgs
	Label string `json:"label"`
}

// ValueResult answers the single-value finders.
type ValueResult struct {
	Found bool   `json:"found"`
	Value *int64 `json:"value,omitempty"`
}

func valueResult(v int64, ok bool) ValueResult {
	if !ok {
		return ValueResult{}
	}
	return ValueResult{Found: true, Value: &v}
}

func (s *Server) labelSession(ctx context.Context, args json.RawMessage) (*session.Session, string, error) {
	var a labelArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, "", err
	}
	if a.Label == "" {
		return nil, "", fmt.Errorf("label is required")
	}
	sess, err := s.openSession(ctx, a.sourceArgs)
	if err != nil {
		return nil, "", err
	}
	return sess, a.Label, nil
}

func (s *Server) handleValueRight(ctx context.Context, args json.RawMessage) (interface{}, error) {
	sess, label, err := s.labelSession(ctx, args)
	if err != nil {
		return nil, err
	}
	return valueResult(sess.Passes().FindValueToRight(label)), nil
}

func (s *Server) handleNumberAbove(ctx context.Context, args json.RawMessage) (interface{}, error) {
	sess, label, err := s.labelSession(ctx, args)
	if err != nil {
		return nil, err
	}
	return valueResult(sess.Passes().FindNumberAbove(label)), nil
}

func (s *Server) handleNumberBelowSuffix(ctx context.Context, args json.RawMessage) (interface{}, error) {
	sess, label, err := s.labelSession(ctx, args)
	if err != nil {
		return nil, err
	}
	return valueResult(sess.Passes().NumberBelowWithSuffix(label)), nil
}

type numberRowArgs struct {
	sourceArgs
	Size            int      `json:"size"`
	ZeroSubstitutes []string `json:"zero_substitutes"`
}

// RowResult answers screen_number_row.
type RowResult struct {
	Found  bool    `json:"found"`
	Values []int64 `json:"values,omitempty"`
}

func (s *Server) handleNumberRow(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a numberRowArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Size < 1 {
		return nil, fmt.Errorf("size must be at least 1, got %d", a.Size)
	}
	zeroSub := a.ZeroSubstitutes
	if zeroSub == nil {
		zeroSub = s.zeroSub
	}

	sess, err := s.openSession(ctx, a.sourceArgs)
	if err != nil {
		return nil, err
	}
	values, ok := sess.Passes().NumberRow(a.Size, zeroSub...)
	return RowResult{Found: ok, Values: values}, nil
}

// === Inspection Handlers ===

type locateLabelArgs struct {
	labelArgs
	IncludeCrop bool `json:"include_crop"`
	Padding     *int `json:"padding"`
}

// LocateResult answers screen_locate_label. Bounds are in the pixels of the
// pass that matched; Scale maps them back to the screenshot.
type LocateResult struct {
	Found  bool                `json:"found"`
	Text   string              `json:"text,omitempty"`
	Mode   imaging.Mode        `json:"mode,omitempty"`
	Scale  float64             `json:"scale,omitempty"`
	Bounds *ocrdata.Bounds     `json:"bounds,omitempty"`
	Crop   *imaging.CropResult `json:"crop,omitempty"`
}

func (s *Server) handleLocateLabel(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a locateLabelArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Label == "" {
		return nil, fmt.Errorf("label is required")
	}
	sess, err := s.openSession(ctx, a.sourceArgs)
	if err != nil {
		return nil, err
	}

	group, pass, ok := sess.Passes().LocateLabel(a.Label)
	if !ok {
		return LocateResult{}, nil
	}
	bounds, _ := group.Bounds()
	variant := sess.Variants[pass]
	result := LocateResult{
		Found:  true,
		Text:   group.Text(),
		Mode:   variant.Mode,
		Scale:  variant.Scale,
		Bounds: &bounds,
	}

	if a.IncludeCrop {
		pad := defaultCropPadding
		if a.Padding != nil {
			pad = *a.Padding
		}
		crop, err := sess.Crop(pass, bounds, pad)
		if err != nil {
			return nil, fmt.Errorf("failed to crop label: %w", err)
		}
		result.Crop = crop
	}
	return result, nil
}

type textObjectsArgs struct {
	sourceArgs
	ValuableOnly *bool `json:"valuable_only"`
}

// TextObjectsResult answers screen_text_objects.
type TextObjectsResult struct {
	Mode    imaging.Mode         `json:"mode"`
	Scale   float64              `json:"scale"`
	Count   int                  `json:"count"`
	Objects []ocrdata.TextObject `json:"objects"`
}

func (s *Server) handleTextObjects(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a textObjectsArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	sess, err := s.openSession(ctx, a.sourceArgs)
	if err != nil {
		return nil, err
	}

	first := sess.Variants[0]
	filter := search.NewFilter(first.Image)
	if a.ValuableOnly == nil || *a.ValuableOnly {
		filter = filter.Valuable()
	}
	objects := filter.Collect()
	if objects == nil {
		objects = []ocrdata.TextObject{}
	}

	return TextObjectsResult{
		Mode:    first.Mode,
		Scale:   first.Scale,
		Count:   len(objects),
		Objects: objects,
	}, nil
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}
