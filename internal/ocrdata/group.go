package ocrdata

import (
	"slices"
	"strings"
)

// Bounds represents a rectangular bounding box in pixel coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// Group is a logical grouping of text objects, such as the words of a matched
// phrase. It exposes the union bounding box of its members.
//
// The edge accessors return 0 for an empty group; use Bounds or Empty when the
// group may be empty.
type Group struct {
	objects []TextObject
}

// NewGroup creates a group from the given objects, preserving their order.
func NewGroup(objects ...TextObject) Group {
	return Group{objects: slices.Clone(objects)}
}

// TextObjects returns a copy of the group members.
func (g Group) TextObjects() []TextObject { return slices.Clone(g.objects) }

// Len returns the number of members.
func (g Group) Len() int { return len(g.objects) }

// Empty reports whether the group has no members.
func (g Group) Empty() bool { return len(g.objects) == 0 }

// Top returns the smallest top edge.
func (g Group) Top() int {
	return g.edge(TextObject.top, lessThan)
}

// Bottom returns the largest bottom edge.
func (g Group) Bottom() int {
	return g.edge(TextObject.Bottom, greaterThan)
}

// Left returns the smallest left edge.
func (g Group) Left() int {
	return g.edge(TextObject.left, lessThan)
}

// Right returns the largest right edge.
func (g Group) Right() int {
	return g.edge(TextObject.Right, greaterThan)
}

// Bounds returns the union bounding box. ok is false for an empty group.
func (g Group) Bounds() (b Bounds, ok bool) {
	if g.Empty() {
		return Bounds{}, false
	}
	return Bounds{X1: g.Left(), Y1: g.Top(), X2: g.Right(), Y2: g.Bottom()}, true
}

// Text returns the member texts joined by a single space.
func (g Group) Text() string {
	parts := make([]string, len(g.objects))
	for i, o := range g.objects {
		parts[i] = o.Text
	}
	return strings.Join(parts, " ")
}

func (g Group) edge(value func(TextObject) int, better func(a, b int) bool) int {
	if g.Empty() {
		return 0
	}
	out := value(g.objects[0])
	for _, o := range g.objects[1:] {
		if v := value(o); better(v, out) {
			out = v
		}
	}
	return out
}

func (t TextObject) top() int  { return t.Top }
func (t TextObject) left() int { return t.Left }

func lessThan(a, b int) bool    { return a < b }
func greaterThan(a, b int) bool { return a > b }
