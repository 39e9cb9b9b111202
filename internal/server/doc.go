// Package server implements the MCP (Model Context Protocol) server that reads
// numeric values off screenshots.
//
// This package provides a JSON-RPC 2.0 server that exposes the relative-value
// finders through the MCP protocol. A client names a label as printed on
// screen and gets back the integer printed next to it.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Relative-value finders:
//   - screen_value_right: Integer to the right of a label
//   - screen_number_above: Integer centered above a label
//   - screen_number_below_suffix: Number below a label times its K/M/B suffix
//   - screen_number_row: First row of exactly N numbers
//
// Inspection:
//   - screen_locate_label: Bounding box and optional crop of a label
//   - screen_text_objects: Recognized words of the first pass
//
// Basic Image Information:
//   - image_load: Dimensions, format and theme of a screenshot
//
// Every screen_* tool takes exactly one source: an image path, a pre-recorded
// OCR report path, or a display index to capture. Image sources are
// recognized once per preprocessing mode and the finders take the first pass
// that yields a value.
//
// # Image Caching
//
// The server maintains an in-memory cache of loaded images. Images are cached
// by path and reused across tool calls for the lifetime of the process.
// Captured displays are never cached.
//
// # Error Handling
//
// A value that is not on screen is not an error: the result carries
// "found": false. Tool execution errors are returned as JSON-RPC error
// responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv := server.New(server.Options{Engine: cfg.Engine(), Logger: logger})
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
