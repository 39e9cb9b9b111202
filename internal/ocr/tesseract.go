package ocr

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// DefaultLanguage is the Tesseract language used when none is configured.
const DefaultLanguage = "eng"

// Engine turns an image file into a raw OCR report (see
// ocrdata.ParseReport for the format).
type Engine interface {
	Report(ctx context.Context, imagePath string) (string, error)
}

// EngineFunc adapts a function to the Engine interface.
type EngineFunc func(ctx context.Context, imagePath string) (string, error)

// Report calls f.
func (f EngineFunc) Report(ctx context.Context, imagePath string) (string, error) {
	return f(ctx, imagePath)
}

// Static returns an Engine that ignores the image and always answers with
// report. It serves pre-recorded OCR output.
func Static(report string) Engine {
	return EngineFunc(func(ctx context.Context, _ string) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return report, nil
	})
}

// TesseractEngine runs Tesseract through gosseract. The zero value reads
// English with Tesseract's default page segmentation.
type TesseractEngine struct {
	// Language is a Tesseract language code; several may be joined with "+"
	// ("eng+deu"). Empty means DefaultLanguage.
	Language string

	// TessdataPrefix is the directory holding *.traineddata files. Empty
	// means Tesseract's compiled-in default or TESSDATA_PREFIX.
	TessdataPrefix string

	// PageSegMode overrides Tesseract's page segmentation when non-zero.
	// gosseract.PSM_SPARSE_TEXT suits scattered UI labels.
	PageSegMode gosseract.PageSegMode
}

// Report runs OCR on the image at imagePath and renders the recognized words
// as a report. Tesseract itself cannot be interrupted; ctx is checked before
// the engine starts.
func (e TesseractEngine) Report(ctx context.Context, imagePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, err := os.Stat(imagePath); err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if e.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(e.TessdataPrefix); err != nil {
			return "", fmt.Errorf("failed to set tessdata prefix: %w", err)
		}
	}

	lang := e.Language
	if lang == "" {
		lang = DefaultLanguage
	}
	if err := client.SetLanguage(strings.Split(lang, "+")...); err != nil {
		return "", fmt.Errorf("failed to set language: %w", err)
	}

	if e.PageSegMode != 0 {
		if err := client.SetPageSegMode(e.PageSegMode); err != nil {
			return "", fmt.Errorf("failed to set page segmentation mode: %w", err)
		}
	}

	if err := client.SetImage(imagePath); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxesVerbose()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}

	words := make([]Word, 0, len(boxes))
	for _, b := range boxes {
		words = append(words, Word{
			BlockNum:   b.BlockNum,
			ParNum:     b.ParNum,
			LineNum:    b.LineNum,
			WordNum:    b.WordNum,
			Box:        b.Box,
			Confidence: b.Confidence,
			Text:       b.Word,
		})
	}
	return RenderReport(words), nil
}

// Version returns the version of the linked Tesseract library.
func Version() string {
	return gosseract.Version()
}
