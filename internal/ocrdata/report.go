package ocrdata

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ReportColumns is the fixed column order of an OCR report.
var ReportColumns = []string{
	"level", "page_num", "block_num", "par_num", "line_num", "word_num",
	"left", "top", "width", "height", "conf", "text",
}

// ErrMalformedReport is wrapped by every *ParseError.
var ErrMalformedReport = errors.New("malformed OCR report")

// ParseError describes a structurally invalid row in an OCR report.
type ParseError struct {
	// Line is the 1-based line number in the raw report (the header is line 1).
	Line int

	// Column is the offending column name, empty when the row is too short.
	Column string

	Err error
}

func (e *ParseError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("%v: line %d: %v", ErrMalformedReport, e.Line, e.Err)
	}
	return fmt.Sprintf("%v: line %d, column %s: %v", ErrMalformedReport, e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrMalformedReport, e.Err}
}

// ParseReport parses a raw tab-separated OCR report into a ParsedImage.
//
// The first line is treated as the header and ignored. Blank lines are
// skipped. Each remaining line must carry at least the 12 columns listed in
// ReportColumns; any text past the twelfth tab is ignored.
func ParseReport(raw string) (*ParsedImage, error) {
	lines := strings.Split(raw, "\n")
	objects := make([]TextObject, 0, len(lines))

	for i, line := range lines {
		if i == 0 {
			continue
		}
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		obj, err := parseRow(line, i+1)
		if err != nil {
			return nil, err
		}
		objects = append(objects, obj)
	}

	return NewParsedImage(objects), nil
}

func parseRow(line string, lineNum int) (TextObject, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < len(ReportColumns) {
		return TextObject{}, &ParseError{
			Line: lineNum,
			Err:  fmt.Errorf("expected %d columns, got %d", len(ReportColumns), len(fields)),
		}
	}

	var ints [10]int
	for col := range ints {
		v, err := strconv.Atoi(strings.TrimSpace(fields[col]))
		if err != nil {
			return TextObject{}, &ParseError{Line: lineNum, Column: ReportColumns[col], Err: err}
		}
		ints[col] = v
	}
	for _, col := range []int{8, 9} {
		if ints[col] < 0 {
			return TextObject{}, &ParseError{
				Line:   lineNum,
				Column: ReportColumns[col],
				Err:    fmt.Errorf("negative value %d", ints[col]),
			}
		}
	}

	conf, err := strconv.ParseFloat(strings.TrimSpace(fields[10]), 64)
	if err != nil {
		return TextObject{}, &ParseError{Line: lineNum, Column: ReportColumns[10], Err: err}
	}

	return TextObject{
		ID:       uuid.NewString(),
		Level:    ints[0],
		PageNum:  ints[1],
		BlockNum: ints[2],
		ParNum:   ints[3],
		LineNum:  ints[4],
		WordNum:  ints[5],
		Left:     ints[6],
		Top:      ints[7],
		Width:    ints[8],
		Height:   ints[9],
		Conf:     conf,
		Text:     fields[11],
	}, nil
}
