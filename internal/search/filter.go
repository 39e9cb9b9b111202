package search

import (
	"slices"

	"github.com/ironsheep/screen-values-mcp/internal/number"
	"github.com/ironsheep/screen-values-mcp/internal/ocrdata"
)

// Filter is an immutable query over the text objects of one ParsedImage.
//
// Every operation returns a new Filter and leaves the receiver untouched, so
// an intermediate stage can be reused as the base of several queries:
//
//	row := search.NewFilter(img).Valuable().YCenterWithin(top, bottom)
//	right := row.ToRight(x).SortRight().Take(1)
//	left := row.ToLeft(x).SortLeft().Take(1)
//
// Directional predicates are non-strict: a box touching the boundary passes.
type Filter struct {
	objects []ocrdata.TextObject
}

// NewFilter starts a query over all text objects of img.
func NewFilter(img *ocrdata.ParsedImage) Filter {
	return Filter{objects: img.TextObjects()}
}

// Valuable keeps objects whose text is neither empty nor whitespace.
func (f Filter) Valuable() Filter {
	return f.where(ocrdata.TextObject.Valuable)
}

// Above keeps objects whose bottom edge is at or above y.
func (f Filter) Above(y int) Filter {
	return f.where(func(o ocrdata.TextObject) bool { return o.Bottom() <= y })
}

// Below keeps objects whose top edge is at or below y.
func (f Filter) Below(y int) Filter {
	return f.where(func(o ocrdata.TextObject) bool { return o.Top >= y })
}

// ToRight keeps objects whose left edge is at or right of x.
func (f Filter) ToRight(x int) Filter {
	return f.where(func(o ocrdata.TextObject) bool { return o.Left >= x })
}

// ToLeft keeps objects whose right edge is at or left of x.
func (f Filter) ToLeft(x int) Filter {
	return f.where(func(o ocrdata.TextObject) bool { return o.Right() <= x })
}

// YCenterWithin keeps objects whose vertical center lies in [y1, y2].
func (f Filter) YCenterWithin(y1, y2 int) Filter {
	return f.where(func(o ocrdata.TextObject) bool {
		c := o.YCenter()
		return float64(y1) <= c && c <= float64(y2)
	})
}

// XCenterWithin keeps objects whose horizontal center lies in [x1, x2].
func (f Filter) XCenterWithin(x1, x2 int) Filter {
	return f.where(func(o ocrdata.TextObject) bool {
		c := o.XCenter()
		return float64(x1) <= c && c <= float64(x2)
	})
}

// Numbers keeps objects whose text parses with number.Parse.
func (f Filter) Numbers(zeroSubstitutes ...string) Filter {
	return f.where(func(o ocrdata.TextObject) bool {
		return number.IsNumber(o.Text, zeroSubstitutes...)
	})
}

// Integers keeps objects whose text parses with number.ParseInt.
func (f Filter) Integers(zeroSubstitutes ...string) Filter {
	return f.where(func(o ocrdata.TextObject) bool {
		return number.IsInteger(o.Text, zeroSubstitutes...)
	})
}

// SortRight orders by left edge, ascending.
func (f Filter) SortRight() Filter {
	return f.sorted(func(o ocrdata.TextObject) int { return o.Left }, false)
}

// SortLeft orders by right edge, descending.
func (f Filter) SortLeft() Filter {
	return f.sorted(ocrdata.TextObject.Right, true)
}

// SortUp orders by bottom edge, descending.
func (f Filter) SortUp() Filter {
	return f.sorted(ocrdata.TextObject.Bottom, true)
}

// SortDown orders by top edge, ascending.
func (f Filter) SortDown() Filter {
	return f.sorted(func(o ocrdata.TextObject) int { return o.Top }, false)
}

// Take keeps the first n objects. A negative n keeps nothing.
func (f Filter) Take(n int) Filter {
	n = max(0, min(n, len(f.objects)))
	return Filter{objects: f.objects[:n:n]}
}

// Len returns the number of objects in the working set.
func (f Filter) Len() int { return len(f.objects) }

// Collect returns the working set in its current order.
func (f Filter) Collect() []ocrdata.TextObject {
	return slices.Clone(f.objects)
}

// CollectOne returns the first object of the working set, if any.
func (f Filter) CollectOne() (ocrdata.TextObject, bool) {
	if len(f.objects) == 0 {
		return ocrdata.TextObject{}, false
	}
	return f.objects[0], true
}

func (f Filter) where(keep func(ocrdata.TextObject) bool) Filter {
	out := make([]ocrdata.TextObject, 0, len(f.objects))
	for _, o := range f.objects {
		if keep(o) {
			out = append(out, o)
		}
	}
	return Filter{objects: out}
}

// sorted stable-sorts a copy ascending by key. When descending is set the
// ascending result is reversed, so equal keys end up in reverse input order.
func (f Filter) sorted(key func(ocrdata.TextObject) int, descending bool) Filter {
	out := slices.Clone(f.objects)
	slices.SortStableFunc(out, func(a, b ocrdata.TextObject) int {
		return key(a) - key(b)
	})
	if descending {
		slices.Reverse(out)
	}
	return Filter{objects: out}
}
