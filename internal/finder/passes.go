package finder

import (
	"github.com/ironsheep/screen-values-mcp/internal/ocrdata"
)

// Passes is an ordered list of parsed OCR passes over the same screenshot,
// typically one per preprocessing mode. Every method runs its finder against
// each pass in order and returns the first result found, which compensates
// for misreads that only happen under some image conditions.
type Passes []*ocrdata.ParsedImage

// LocateLabel returns the label group from the first pass that contains it,
// together with that pass's index.
func (p Passes) LocateLabel(label string) (ocrdata.Group, int, bool) {
	for i, img := range p {
		if g, ok := LocateLabel(img, label); ok {
			return g, i, true
		}
	}
	return ocrdata.Group{}, -1, false
}

// FindValueToRight runs FindValueToRight against each pass.
func (p Passes) FindValueToRight(label string) (int64, bool) {
	return firstInt(p, func(img *ocrdata.ParsedImage) (int64, bool) {
		return FindValueToRight(img, label)
	})
}

// FindNumberAbove runs FindNumberAbove against each pass.
func (p Passes) FindNumberAbove(label string) (int64, bool) {
	return firstInt(p, func(img *ocrdata.ParsedImage) (int64, bool) {
		return FindNumberAbove(img, label)
	})
}

// NumberBelowWithSuffix runs NumberBelowWithSuffix against each pass.
func (p Passes) NumberBelowWithSuffix(label string) (int64, bool) {
	return firstInt(p, func(img *ocrdata.ParsedImage) (int64, bool) {
		return NumberBelowWithSuffix(img, label)
	})
}

// NumberRow runs NumberRow against each pass.
func (p Passes) NumberRow(size int, zeroSubstitutes ...string) ([]int64, bool) {
	for _, img := range p {
		if row, ok := NumberRow(img, size, zeroSubstitutes...); ok {
			return row, true
		}
	}
	return nil, false
}

func firstInt(p Passes, find func(*ocrdata.ParsedImage) (int64, bool)) (int64, bool) {
	for _, img := range p {
		if v, ok := find(img); ok {
			return v, true
		}
	}
	return 0, false
}
