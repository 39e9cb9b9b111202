package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/ironsheep/screen-values-mcp/internal/logging"
	"github.com/ironsheep/screen-values-mcp/internal/ocr"
)

const header = "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n"

func row(left, top, width, height int, text string) string {
	return strings.Join([]string{"5", "1", "1", "1", "1", "1",
		strconv.Itoa(left), strconv.Itoa(top), strconv.Itoa(width), strconv.Itoa(height), "90", text}, "\t") + "\n"
}

// dashboard is a small screen with one value for each finder.
var dashboard = header +
	row(22, 40, 26, 20, "64") +
	row(10, 70, 50, 20, "Level") +
	row(22, 100, 10, 20, "3") +
	row(40, 100, 10, 20, "K") +
	row(200, 200, 10, 20, "4") +
	row(220, 200, 10, 20, "5") +
	row(10, 300, 40, 20, "Gold") +
	row(60, 302, 50, 18, "1,500")

// createTestImageFile creates a test image file and returns its path
func createTestImageFile(t *testing.T, width, height int, c color.Color) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "screen.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

// createReportFile writes a raw OCR report and returns its path.
func createReportFile(t *testing.T, report string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "screen.tsv")
	if err := os.WriteFile(path, []byte(report), 0o600); err != nil {
		t.Fatalf("failed to write report: %v", err)
	}
	return path
}

// callTool sends a tools/call request and returns the response.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) *MCPResponse {
	t.Helper()

	params := map[string]interface{}{
		"name":      name,
		"arguments": args,
	}
	paramsJSON, _ := json.Marshal(params)

	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	}

	resp := s.handleRequest(context.Background(), req)
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	return resp
}

// decodeResult unmarshals the text content of a successful tool response.
func decodeResult(t *testing.T, resp *MCPResponse, dst interface{}) {
	t.Helper()

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %+v", resp.Error)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) != 1 {
		t.Fatalf("content: got %v", result["content"])
	}
	if content[0]["type"] != "text" {
		t.Errorf("content type: got %v, want text", content[0]["type"])
	}
	text, _ := content[0]["text"].(string)
	if err := json.Unmarshal([]byte(text), dst); err != nil {
		t.Fatalf("Failed to unmarshal tool result %q: %v", text, err)
	}
}

// expectToolError checks for a -32000 response mentioning want.
func expectToolError(t *testing.T, resp *MCPResponse, want string) {
	t.Helper()

	if resp.Error == nil {
		t.Fatalf("expected an error response, got %+v", resp.Result)
	}
	if resp.Error.Code != -32000 {
		t.Errorf("Error.Code: got %d, want -32000", resp.Error.Code)
	}
	data, _ := resp.Error.Data.(string)
	if !strings.Contains(data, want) {
		t.Errorf("Error.Data: got %q, want it to contain %q", data, want)
	}
}

func TestHandleToolsCall_ValueFinders(t *testing.T) {
	s := newTestServer(header)
	report := createReportFile(t, dashboard)

	tests := []struct {
		tool  string
		label string
		want  int64
	}{
		{"screen_value_right", "Gold", 1500},
		{"screen_number_above", "Level", 64},
		{"screen_number_below_suffix", "Level", 3000},
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			resp := callTool(t, s, tt.tool, map[string]interface{}{
				"report_path": report,
				"label":       tt.label,
			})

			var got ValueResult
			decodeResult(t, resp, &got)
			if !got.Found || got.Value == nil || *got.Value != tt.want {
				t.Errorf("got %+v, want value %d", got, tt.want)
			}
		})
	}
}

func TestHandleToolsCall_ValueNotFound(t *testing.T) {
	s := newTestServer(header)
	report := createReportFile(t, dashboard)

	resp := callTool(t, s, "screen_value_right", map[string]interface{}{
		"report_path": report,
		"label":       "Silver",
	})

	var got ValueResult
	decodeResult(t, resp, &got)
	if got.Found || got.Value != nil {
		t.Errorf("expected not found, got %+v", got)
	}
}

func TestHandleToolsCall_ImageSource(t *testing.T) {
	s := newTestServer(dashboard)
	path := createTestImageFile(t, 700, 400, color.White)

	resp := callTool(t, s, "screen_value_right", map[string]interface{}{
		"path":  path,
		"label": "Gold",
		"modes": []string{"gray", "thresh"},
	})

	var got ValueResult
	decodeResult(t, resp, &got)
	if !got.Found || *got.Value != 1500 {
		t.Errorf("got %+v, want 1500", got)
	}
}

func TestHandleToolsCall_NumberRow(t *testing.T) {
	s := newTestServer(header)
	report := createReportFile(t, dashboard)

	resp := callTool(t, s, "screen_number_row", map[string]interface{}{
		"report_path": report,
		"size":        2,
	})

	var got RowResult
	decodeResult(t, resp, &got)
	if !got.Found || len(got.Values) != 2 || got.Values[0] != 4 || got.Values[1] != 5 {
		t.Errorf("got %+v, want [4 5]", got)
	}
}

func TestHandleToolsCall_NumberRow_ZeroSubstitutes(t *testing.T) {
	report := createReportFile(t, header+row(10, 10, 10, 20, "1")+row(30, 10, 10, 20, "O"))

	// No substitutes: the row has a single number.
	s := newTestServer(header)
	var got RowResult
	decodeResult(t, callTool(t, s, "screen_number_row", map[string]interface{}{
		"report_path": report,
		"size":        2,
	}), &got)
	if got.Found {
		t.Errorf("expected not found without substitutes, got %+v", got)
	}

	// Per-call substitutes.
	decodeResult(t, callTool(t, s, "screen_number_row", map[string]interface{}{
		"report_path":      report,
		"size":             2,
		"zero_substitutes": []string{"O"},
	}), &got)
	if !got.Found || got.Values[0] != 1 || got.Values[1] != 0 {
		t.Errorf("got %+v, want [1 0]", got)
	}

	// Server default substitutes.
	s = New(Options{Engine: ocr.Static(header), ZeroSubstitutes: []string{"O"}, Logger: logging.Discard()})
	decodeResult(t, callTool(t, s, "screen_number_row", map[string]interface{}{
		"report_path": report,
		"size":        2,
	}), &got)
	if !got.Found || got.Values[1] != 0 {
		t.Errorf("server default substitutes not applied: %+v", got)
	}
}

func TestHandleToolsCall_LocateLabel(t *testing.T) {
	s := newTestServer(header)
	report := createReportFile(t, dashboard)

	resp := callTool(t, s, "screen_locate_label", map[string]interface{}{
		"report_path": report,
		"label":       "Level",
	})

	var got LocateResult
	decodeResult(t, resp, &got)
	if !got.Found || got.Text != "Level" {
		t.Fatalf("got %+v", got)
	}
	if got.Bounds == nil || got.Bounds.X1 != 10 || got.Bounds.Y1 != 70 || got.Bounds.X2 != 60 || got.Bounds.Y2 != 90 {
		t.Errorf("Bounds: got %+v", got.Bounds)
	}
	if got.Mode != "none" || got.Scale != 1 {
		t.Errorf("report pass: got mode %q scale %v", got.Mode, got.Scale)
	}
	if got.Crop != nil {
		t.Error("crop returned without include_crop")
	}
}

func TestHandleToolsCall_LocateLabel_Crop(t *testing.T) {
	s := newTestServer(dashboard)
	// 300 pixels wide: the gray pass upscales by 2, so report boxes are
	// halved on the way back to the screenshot.
	path := createTestImageFile(t, 300, 200, color.White)

	resp := callTool(t, s, "screen_locate_label", map[string]interface{}{
		"path":         path,
		"label":        "Level",
		"include_crop": true,
	})

	var got LocateResult
	decodeResult(t, resp, &got)
	if !got.Found || got.Scale != 2 {
		t.Fatalf("got %+v", got)
	}
	if got.Crop == nil {
		t.Fatal("expected a crop")
	}
	if got.Crop.X1 != 1 || got.Crop.Y1 != 31 || got.Crop.X2 != 34 || got.Crop.Y2 != 49 {
		t.Errorf("crop box: got (%d,%d)-(%d,%d), want (1,31)-(34,49)",
			got.Crop.X1, got.Crop.Y1, got.Crop.X2, got.Crop.Y2)
	}
	if got.Crop.MimeType != "image/png" {
		t.Errorf("MimeType: got %s", got.Crop.MimeType)
	}

	raw, err := base64.StdEncoding.DecodeString(got.Crop.ImageBase64)
	if err != nil {
		t.Fatalf("crop is not base64: %v", err)
	}
	cfg, err := png.DecodeConfig(strings.NewReader(string(raw)))
	if err != nil {
		t.Fatalf("crop is not a PNG: %v", err)
	}
	if cfg.Width != 33 || cfg.Height != 18 {
		t.Errorf("crop size: got %dx%d, want 33x18", cfg.Width, cfg.Height)
	}
}

func TestHandleToolsCall_LocateLabel_CropNeedsImage(t *testing.T) {
	s := newTestServer(header)
	report := createReportFile(t, dashboard)

	resp := callTool(t, s, "screen_locate_label", map[string]interface{}{
		"report_path":  report,
		"label":        "Level",
		"include_crop": true,
	})
	expectToolError(t, resp, "no image")
}

func TestHandleToolsCall_TextObjects(t *testing.T) {
	s := newTestServer(header)
	report := createReportFile(t, header+
		row(10, 10, 40, 20, "Gold")+
		row(60, 10, 40, 20, "7")+
		"4\t1\t1\t1\t1\t0\t0\t50\t10\t10\t-1\t\n")

	var got TextObjectsResult
	decodeResult(t, callTool(t, s, "screen_text_objects", map[string]interface{}{
		"report_path": report,
	}), &got)
	if got.Count != 2 || len(got.Objects) != 2 {
		t.Fatalf("valuable objects: got %d", got.Count)
	}
	if got.Objects[0].Text != "Gold" || got.Objects[1].Text != "7" {
		t.Errorf("order: got %q, %q", got.Objects[0].Text, got.Objects[1].Text)
	}
	if got.Objects[0].ID == "" {
		t.Error("objects should carry an ID")
	}

	decodeResult(t, callTool(t, s, "screen_text_objects", map[string]interface{}{
		"report_path":   report,
		"valuable_only": false,
	}), &got)
	if got.Count != 3 {
		t.Errorf("all objects: got %d, want 3", got.Count)
	}
}

func TestHandleToolsCall_TextObjects_Empty(t *testing.T) {
	s := newTestServer(header)
	report := createReportFile(t, header)

	resp := callTool(t, s, "screen_text_objects", map[string]interface{}{"report_path": report})

	var raw map[string]json.RawMessage
	decodeResult(t, resp, &raw)
	if string(raw["objects"]) != "[]" {
		t.Errorf("objects: got %s, want []", raw["objects"])
	}
}

func TestHandleToolsCall_ImageLoad(t *testing.T) {
	s := newTestServer(header)
	path := createTestImageFile(t, 100, 80, color.RGBA{20, 20, 30, 255})

	var got map[string]interface{}
	decodeResult(t, callTool(t, s, "image_load", map[string]interface{}{"path": path}), &got)

	if got["width"] != float64(100) || got["height"] != float64(80) {
		t.Errorf("dimensions: got %vx%v", got["width"], got["height"])
	}
	if got["format"] != "png" {
		t.Errorf("format: got %v", got["format"])
	}
	if got["dark"] != true {
		t.Errorf("dark: got %v, want true", got["dark"])
	}
}

func TestHandleToolsCall_Errors(t *testing.T) {
	s := newTestServer(header)
	report := createReportFile(t, dashboard)

	tests := []struct {
		name string
		tool string
		args map[string]interface{}
		want string
	}{
		{"missing label", "screen_value_right", map[string]interface{}{"report_path": report}, "label is required"},
		{"locate missing label", "screen_locate_label", map[string]interface{}{"report_path": report}, "label is required"},
		{"row size", "screen_number_row", map[string]interface{}{"report_path": report, "size": 0}, "size must be at least 1"},
		{"no source", "screen_value_right", map[string]interface{}{"label": "Gold"}, "exactly one"},
		{"two sources", "screen_value_right", map[string]interface{}{"label": "Gold", "report_path": report, "path": "/x.png"}, "exactly one"},
		{"unknown mode", "screen_value_right", map[string]interface{}{"label": "Gold", "path": "/x.png", "modes": []string{"sepia"}}, "sepia"},
		{"missing report", "screen_text_objects", map[string]interface{}{"report_path": "/nonexistent/screen.tsv"}, "failed to read report"},
		{"missing image", "image_load", map[string]interface{}{"path": "/nonexistent/image.png"}, ""},
		{"unknown tool", "screen_unknown", map[string]interface{}{}, "unknown tool"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectToolError(t, callTool(t, s, tt.tool, tt.args), tt.want)
		})
	}
}

func TestHandleToolsCall_MalformedReport(t *testing.T) {
	s := newTestServer(header)
	report := createReportFile(t, header+"5\t1\tx\n")

	resp := callTool(t, s, "screen_value_right", map[string]interface{}{
		"report_path": report,
		"label":       "Gold",
	})
	expectToolError(t, resp, "malformed OCR report")
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := newTestServer(header)
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`not json`),
	}

	resp := s.handleRequest(context.Background(), req)

	if resp.Error == nil || resp.Error.Code != -32602 {
		t.Errorf("expected -32602, got %+v", resp.Error)
	}
}

func TestExecuteTool_InvalidArguments(t *testing.T) {
	s := newTestServer(header)

	_, err := s.executeTool(context.Background(), "screen_number_row", json.RawMessage(`{"size":"two"}`))
	if err == nil || !strings.Contains(err.Error(), "invalid arguments") {
		t.Errorf("expected invalid arguments error, got %v", err)
	}
}

func TestExecuteTool_MissingArguments(t *testing.T) {
	s := newTestServer(header)

	_, err := s.executeTool(context.Background(), "screen_value_right", nil)
	if err == nil || !strings.Contains(err.Error(), "label is required") {
		t.Errorf("expected label error, got %v", err)
	}
}
