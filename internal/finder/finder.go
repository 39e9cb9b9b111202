// Package finder locates values relative to text labels.
//
// Each finder first locates its label with search.Searcher.FindPhrase, then
// runs a directional search.Filter query anchored on the label's bounding
// box. A finder never returns an error: a missing label, a missing candidate
// or a candidate that is not a number all yield ok == false, so callers can
// retry against another preprocessing pass (see Passes).
package finder

import (
	"github.com/ironsheep/screen-values-mcp/internal/number"
	"github.com/ironsheep/screen-values-mcp/internal/ocrdata"
	"github.com/ironsheep/screen-values-mcp/internal/search"
)

// LocateLabel finds label in img and returns its words as a group.
func LocateLabel(img *ocrdata.ParsedImage, label string) (ocrdata.Group, bool) {
	group, ok := search.NewSearcher(img).FindPhrase(label)
	if !ok || group.Empty() {
		return ocrdata.Group{}, false
	}
	return group, true
}

// FindValueToRight returns the integer immediately to the right of label on
// the same row.
func FindValueToRight(img *ocrdata.ParsedImage, label string) (int64, bool) {
	group, ok := LocateLabel(img, label)
	if !ok {
		return 0, false
	}

	value, ok := search.NewFilter(img).
		YCenterWithin(group.Top(), group.Bottom()).
		ToRight(group.Right()).
		Valuable().
		SortRight().
		Take(1).
		CollectOne()
	if !ok {
		return 0, false
	}
	return asInteger(value.Text)
}

// FindNumberAbove returns the integer directly above label. The nearest box
// above the label is taken first and must then be horizontally centered
// within the label's span.
func FindNumberAbove(img *ocrdata.ParsedImage, label string) (int64, bool) {
	group, ok := LocateLabel(img, label)
	if !ok {
		return 0, false
	}

	value, ok := search.NewFilter(img).
		Above(group.Top()).
		SortUp().
		Take(1).
		XCenterWithin(group.Left(), group.Right()).
		CollectOne()
	if !ok {
		return 0, false
	}
	return asInteger(value.Text)
}

// NumberRow finds the first row of exactly size numbers.
//
// Numeric text objects are tried in collection order; a candidate starts a
// row when exactly size-1 further numbers lie to its right within its
// vertical band.
func NumberRow(img *ocrdata.ParsedImage, size int, zeroSubstitutes ...string) ([]int64, bool) {
	if size < 1 {
		return nil, false
	}

	for _, start := range search.NewSearcher(img).FindNumbers(zeroSubstitutes...) {
		neighbors := search.NewFilter(img).
			YCenterWithin(start.Top, start.Bottom()).
			ToRight(start.Right()).
			SortRight().
			Valuable().
			Numbers(zeroSubstitutes...).
			Collect()
		if len(neighbors) != size-1 {
			continue
		}

		row, ok := asIntegers(append([]ocrdata.TextObject{start}, neighbors...), zeroSubstitutes)
		if ok {
			return row, true
		}
	}
	return nil, false
}

// NumberBelowWithSuffix returns the number directly below label, scaled by a
// magnitude word printed to its right ("12.5" "K" reads as 12500). The result
// is truncated toward zero.
func NumberBelowWithSuffix(img *ocrdata.ParsedImage, label string) (int64, bool) {
	group, ok := LocateLabel(img, label)
	if !ok {
		return 0, false
	}

	valueObj, ok := search.NewFilter(img).
		Valuable().
		Below(group.Bottom()).
		XCenterWithin(group.Left(), group.Right()).
		SortDown().
		Take(1).
		Numbers().
		CollectOne()
	if !ok {
		return 0, false
	}

	value, err := number.Parse(valueObj.Text)
	if err != nil {
		return 0, false
	}

	suffix, ok := search.NewFilter(img).
		Valuable().
		YCenterWithin(valueObj.Top, valueObj.Bottom()).
		ToRight(valueObj.Right()).
		SortRight().
		Take(1).
		CollectOne()
	if ok {
		value = number.Multiply(value, number.SuffixMultiplier(suffix.Text))
	}

	out, err := number.Truncate(valueObj.Text, value)
	if err != nil {
		return 0, false
	}
	return out, true
}

func asInteger(text string, zeroSubstitutes ...string) (int64, bool) {
	v, err := number.ParseInt(text, zeroSubstitutes...)
	if err != nil {
		return 0, false
	}
	return v, true
}

func asIntegers(objs []ocrdata.TextObject, zeroSubstitutes []string) ([]int64, bool) {
	out := make([]int64, len(objs))
	for i, o := range objs {
		v, ok := asInteger(o.Text, zeroSubstitutes...)
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}
