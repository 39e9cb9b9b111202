package search

import (
	"strings"

	"github.com/ironsheep/screen-values-mcp/internal/number"
	"github.com/ironsheep/screen-values-mcp/internal/ocrdata"
)

// Searcher finds text objects and multi-word phrases in a ParsedImage.
type Searcher struct {
	img *ocrdata.ParsedImage
}

// NewSearcher creates a searcher over img.
func NewSearcher(img *ocrdata.ParsedImage) *Searcher {
	return &Searcher{img: img}
}

// Find returns, in collection order, every text object whose text satisfies
// match.
func (s *Searcher) Find(match func(text string) bool) []ocrdata.TextObject {
	var out []ocrdata.TextObject
	for _, o := range s.img.TextObjects() {
		if match(o.Text) {
			out = append(out, o)
		}
	}
	return out
}

// FindNumbers returns every text object whose text is a number.
func (s *Searcher) FindNumbers(zeroSubstitutes ...string) []ocrdata.TextObject {
	return s.Find(func(text string) bool {
		return number.IsNumber(text, zeroSubstitutes...)
	})
}

// FindPhrase locates a whitespace-separated phrase.
//
// Only the first text object (in collection order) equal to the first word is
// considered. For a multi-word phrase, the words that follow it on the same
// visual row are taken left to right, as many as the phrase has remaining
// words, and their texts joined by a single space must equal the rest of the
// phrase. If they do not, there is no match: later occurrences of the first
// word are not tried.
func (s *Searcher) FindPhrase(phrase string) (ocrdata.Group, bool) {
	words := strings.Fields(phrase)
	if len(words) == 0 {
		return ocrdata.Group{}, false
	}

	initial := s.Find(func(text string) bool { return text == words[0] })
	if len(initial) == 0 {
		return ocrdata.Group{}, false
	}
	first := initial[0]

	rest := words[1:]
	if len(rest) == 0 {
		return ocrdata.NewGroup(first), true
	}

	following := NewFilter(s.img).
		YCenterWithin(first.Top, first.Bottom()).
		ToRight(first.Right()).
		Valuable().
		SortRight().
		Take(len(rest)).
		Collect()

	texts := make([]string, len(following))
	for i, o := range following {
		texts[i] = o.Text
	}
	if strings.Join(texts, " ") != strings.Join(rest, " ") {
		return ocrdata.Group{}, false
	}

	return ocrdata.NewGroup(append([]ocrdata.TextObject{first}, following...)...), true
}
