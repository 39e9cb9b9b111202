// Package ocrdata models recognized text as positioned rectangles.
//
// An OCR pass over one image produces a tab-separated report with one row per
// recognized token. ParseReport turns that report into a ParsedImage: an
// immutable collection of TextObject values ordered by (Top, Left), which
// approximates natural reading order.
//
// # Coordinate System
//
// Geometry is in image pixel space:
//   - Origin (0, 0) at the top-left corner
//   - X (Left, Right) increases rightward
//   - Y (Top, Bottom) increases downward
//
// # Report Format
//
// The report starts with a header line, followed by data lines with exactly
// these tab-separated columns:
//
//	level page_num block_num par_num line_num word_num left top width height conf text
//
// Blank lines are separators and are skipped. A data line with fewer than 12
// columns, or with a numeric column that does not parse, makes the whole
// report invalid and ParseReport returns a *ParseError.
package ocrdata
