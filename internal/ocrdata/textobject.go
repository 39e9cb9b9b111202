package ocrdata

import (
	"slices"
	"strings"
)

// TextObject is a single recognized word with its bounding box and metadata.
type TextObject struct {
	ID string `json:"id"`

	// OCR hierarchy indices.
	Level    int `json:"level"`
	PageNum  int `json:"page_num"`
	BlockNum int `json:"block_num"`
	ParNum   int `json:"par_num"`
	LineNum  int `json:"line_num"`
	WordNum  int `json:"word_num"`

	Left   int `json:"left"`
	Top    int `json:"top"`
	Width  int `json:"width"`
	Height int `json:"height"`

	// Conf is the recognition confidence as reported by the engine (0-100, -1 for
	// non-word rows).
	Conf float64 `json:"conf"`

	Text string `json:"text"`
}

// Bottom returns Top + Height.
func (t TextObject) Bottom() int { return t.Top + t.Height }

// Right returns Left + Width.
func (t TextObject) Right() int { return t.Left + t.Width }

// XCenter returns the horizontal midpoint of the box.
func (t TextObject) XCenter() float64 { return float64(t.Left) + float64(t.Width)/2 }

// YCenter returns the vertical midpoint of the box.
func (t TextObject) YCenter() float64 { return float64(t.Top) + float64(t.Height)/2 }

// Valuable reports whether the text is neither empty nor pure whitespace.
func (t TextObject) Valuable() bool {
	return strings.TrimSpace(t.Text) != ""
}

// ParsedImage is the full recognized-word set for one OCR pass, sorted by
// (Top, Left). It is never modified after construction.
type ParsedImage struct {
	objects []TextObject
}

// NewParsedImage copies objects and stable-sorts the copy by (Top, Left).
func NewParsedImage(objects []TextObject) *ParsedImage {
	sorted := slices.Clone(objects)
	slices.SortStableFunc(sorted, func(a, b TextObject) int {
		if a.Top != b.Top {
			return a.Top - b.Top
		}
		return a.Left - b.Left
	})
	return &ParsedImage{objects: sorted}
}

// TextObjects returns a copy of the collection in (Top, Left) order.
func (p *ParsedImage) TextObjects() []TextObject {
	if p == nil {
		return nil
	}
	return slices.Clone(p.objects)
}

// Len returns the number of text objects.
func (p *ParsedImage) Len() int {
	if p == nil {
		return 0
	}
	return len(p.objects)
}
