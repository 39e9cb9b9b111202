package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// sourceProperties are accepted by every screen_* tool. Exactly one of path,
// report_path and display must be given.
func sourceProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to a screenshot image",
		},
		"report_path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to a pre-recorded tab-separated OCR report, used instead of running OCR",
		},
		"display": map[string]interface{}{
			"type":        "integer",
			"description": "Capture this display (0-based) instead of reading a file",
			"minimum":     0,
		},
		"modes": map[string]interface{}{
			"type":        "array",
			"description": "Preprocessing passes to try in order until a value is found: none, gray, adaptive_thresh, thresh, blur. Defaults to the server configuration.",
			"items": map[string]interface{}{
				"type": "string",
				"enum": []string{"none", "gray", "adaptive_thresh", "thresh", "blur"},
			},
		},
	}
}

// screenSchema builds an input schema from the source properties plus extra.
func screenSchema(extra map[string]interface{}, required ...string) map[string]interface{} {
	props := sourceProperties()
	for k, v := range extra {
		props[k] = v
	}
	schema := map[string]interface{}{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func labelProperty() map[string]interface{} {
	return map[string]interface{}{
		"label": map[string]interface{}{
			"type":        "string",
			"description": "Label text as printed on screen; several words are matched left to right on one row",
		},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Relative-value finders
		{
			Name:        "screen_value_right",
			Description: "Read the integer printed immediately to the right of a label on the same row (e.g. 'Gold  1,500' gives 1500). K/M/B suffixes are expanded.",
			InputSchema: screenSchema(labelProperty(), "label"),
		},
		{
			Name:        "screen_number_above",
			Description: "Read the integer printed directly above a label. The nearest text box above the label must be horizontally centered within the label.",
			InputSchema: screenSchema(labelProperty(), "label"),
		},
		{
			Name:        "screen_number_below_suffix",
			Description: "Read the number printed directly below a label, scaled by a K/M/B magnitude word to its right (e.g. '12.5' 'K' gives 12500). The result is truncated to an integer.",
			InputSchema: screenSchema(labelProperty(), "label"),
		},
		{
			Name:        "screen_number_row",
			Description: "Find the first horizontal row of exactly `size` numbers and return them left to right.",
			InputSchema: screenSchema(map[string]interface{}{
				"size": map[string]interface{}{
					"type":        "integer",
					"description": "Number of values in the row",
					"minimum":     1,
				},
				"zero_substitutes": map[string]interface{}{
					"type":        "array",
					"description": "Tokens to read as 0, for fonts where OCR confuses 0 with letters (e.g. [\"O\"])",
					"items":       map[string]interface{}{"type": "string"},
				},
			}, "size"),
		},

		// Inspection
		{
			Name:        "screen_locate_label",
			Description: "Locate a label and return its bounding box, optionally with a PNG crop of it from the screenshot for visual confirmation.",
			InputSchema: screenSchema(func() map[string]interface{} {
				props := labelProperty()
				props["include_crop"] = map[string]interface{}{
					"type":        "boolean",
					"description": "Include a base64 PNG crop of the label",
					"default":     false,
				}
				props["padding"] = map[string]interface{}{
					"type":        "integer",
					"description": "Extra pixels around the crop. Default 4",
					"default":     defaultCropPadding,
				}
				return props
			}(), "label"),
		},
		{
			Name:        "screen_text_objects",
			Description: "Return the recognized words of the first preprocessing pass with their boxes and confidence, in top-to-bottom, left-to-right order.",
			InputSchema: screenSchema(map[string]interface{}{
				"valuable_only": map[string]interface{}{
					"type":        "boolean",
					"description": "Drop empty and whitespace-only entries",
					"default":     true,
				},
			}),
		},

		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load a screenshot and return its dimensions, format and whether it uses a dark theme.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
