package ocr

import (
	"image"
	"strconv"
	"strings"

	"github.com/ironsheep/screen-values-mcp/internal/ocrdata"
)

// wordLevel is the report level of a single word.
const wordLevel = 5

// Word is one recognized word with its position in Tesseract's layout
// hierarchy.
type Word struct {
	BlockNum, ParNum, LineNum, WordNum int

	Box image.Rectangle

	// Confidence ranges from 0 to 100.
	Confidence float64

	Text string
}

// RenderReport renders words as a tab-separated report with a header line,
// one word-level row per word, in the column order of
// ocrdata.ReportColumns. Tabs and line breaks inside a word become spaces so
// that every word stays on one row.
func RenderReport(words []Word) string {
	var sb strings.Builder
	sb.WriteString(strings.Join(ocrdata.ReportColumns, "\t"))
	sb.WriteByte('\n')

	for _, w := range words {
		fields := []string{
			strconv.Itoa(wordLevel),
			"1",
			strconv.Itoa(w.BlockNum),
			strconv.Itoa(w.ParNum),
			strconv.Itoa(w.LineNum),
			strconv.Itoa(w.WordNum),
			strconv.Itoa(w.Box.Min.X),
			strconv.Itoa(w.Box.Min.Y),
			strconv.Itoa(w.Box.Dx()),
			strconv.Itoa(w.Box.Dy()),
			strconv.FormatFloat(w.Confidence, 'f', -1, 64),
			cleanWord(w.Text),
		}
		sb.WriteString(strings.Join(fields, "\t"))
		sb.WriteByte('\n')
	}
	return sb.String()
}

var wordCleaner = strings.NewReplacer("\t", " ", "\r", " ", "\n", " ")

func cleanWord(s string) string {
	return wordCleaner.Replace(s)
}
