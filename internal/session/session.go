// Package session turns a screenshot source into parsed OCR passes.
//
// A source is an image file, a live display or a pre-recorded OCR report.
// For images, the loader runs one OCR pass per preprocessing mode and keeps
// the results in mode order so that the finders can fall back from one pass
// to the next (see finder.Passes).
package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"time"

	"github.com/ironsheep/screen-values-mcp/internal/capture"
	"github.com/ironsheep/screen-values-mcp/internal/finder"
	"github.com/ironsheep/screen-values-mcp/internal/imaging"
	"github.com/ironsheep/screen-values-mcp/internal/logging"
	"github.com/ironsheep/screen-values-mcp/internal/ocr"
	"github.com/ironsheep/screen-values-mcp/internal/ocrdata"
)

// ErrInvalidSource is returned when a Source does not name exactly one input.
var ErrInvalidSource = errors.New("source must set exactly one of image path, report path or display")

// ErrNoImage is returned when an operation needs pixels but the session was
// built from an OCR report.
var ErrNoImage = errors.New("session has no image")

// Source names where a screenshot comes from. Exactly one field must be set.
type Source struct {
	ImagePath  string `json:"path,omitempty"`
	ReportPath string `json:"report_path,omitempty"`
	Display    *int   `json:"display,omitempty"`
}

// Validate checks that exactly one input is named.
func (s Source) Validate() error {
	n := 0
	if s.ImagePath != "" {
		n++
	}
	if s.ReportPath != "" {
		n++
	}
	if s.Display != nil {
		n++
	}
	if n != 1 {
		return ErrInvalidSource
	}
	return nil
}

func (s Source) String() string {
	switch {
	case s.ImagePath != "":
		return "image " + s.ImagePath
	case s.ReportPath != "":
		return "report " + s.ReportPath
	case s.Display != nil:
		return fmt.Sprintf("display %d", *s.Display)
	}
	return "empty source"
}

// Variant is one OCR pass.
type Variant struct {
	Mode imaging.Mode

	// Scale maps source pixels to the pixels OCR saw (see imaging.Preprocess).
	Scale float64

	Image *ocrdata.ParsedImage
}

// Session holds the passes recognized from one source.
type Session struct {
	Source Source

	// Original is the unprocessed screenshot, nil for report sources.
	Original image.Image

	Variants []Variant
}

// Passes returns the parsed images in pass order.
func (s *Session) Passes() finder.Passes {
	passes := make(finder.Passes, len(s.Variants))
	for i, v := range s.Variants {
		passes[i] = v.Image
	}
	return passes
}

// Crop cuts bounds, found in variant i, out of the original screenshot with
// pad pixels of margin.
func (s *Session) Crop(i int, bounds ocrdata.Bounds, pad int) (*imaging.CropResult, error) {
	if s.Original == nil {
		return nil, ErrNoImage
	}
	if i < 0 || i >= len(s.Variants) {
		return nil, fmt.Errorf("variant %d out of range", i)
	}
	return imaging.CropBox(s.Original, bounds.X1, bounds.Y1, bounds.X2, bounds.Y2, s.Variants[i].Scale, pad)
}

// Loader builds sessions.
type Loader struct {
	engine  ocr.Engine
	cache   *imaging.ImageCache
	options imaging.Options
	logger  *logging.Logger

	// capture grabs a display; replaced in tests.
	capture func(index int) (*image.RGBA, error)
}

// NewLoader returns a Loader that recognizes text with engine and loads
// image files through cache.
func NewLoader(engine ocr.Engine, cache *imaging.ImageCache, opts imaging.Options, logger *logging.Logger) *Loader {
	if cache == nil {
		cache = imaging.NewImageCache()
	}
	return &Loader{
		engine:  engine,
		cache:   cache,
		options: opts,
		logger:  logger,
		capture: capture.Display,
	}
}

// Open recognizes src. Image sources get one pass per mode, in order; an
// empty mode list means imaging.DefaultModes. A report source is parsed as a
// single pass and modes are ignored.
func (l *Loader) Open(ctx context.Context, src Source, modes []imaging.Mode) (*Session, error) {
	if err := src.Validate(); err != nil {
		return nil, err
	}

	if src.ReportPath != "" {
		return l.openReport(src)
	}

	img, err := l.image(src)
	if err != nil {
		return nil, err
	}
	if len(modes) == 0 {
		modes = imaging.DefaultModes
	}

	sess := &Session{Source: src, Original: img}
	for _, mode := range modes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, err := l.recognize(ctx, img, mode)
		if err != nil {
			return nil, fmt.Errorf("%s pass: %w", mode, err)
		}
		sess.Variants = append(sess.Variants, v)
	}

	l.logger.Debug("session opened", "source", src, "passes", len(sess.Variants))
	return sess, nil
}

func (l *Loader) openReport(src Source) (*Session, error) {
	raw, err := os.ReadFile(src.ReportPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	parsed, err := ocrdata.ParseReport(string(raw))
	if err != nil {
		return nil, err
	}
	l.logger.Debug("report loaded", "path", src.ReportPath, "objects", parsed.Len())
	return &Session{
		Source:   src,
		Variants: []Variant{{Mode: imaging.ModeNone, Scale: 1, Image: parsed}},
	}, nil
}

func (l *Loader) image(src Source) (image.Image, error) {
	if src.Display != nil {
		img, err := l.capture(*src.Display)
		if err != nil {
			return nil, err
		}
		return img, nil
	}
	return l.cache.Load(src.ImagePath)
}

func (l *Loader) recognize(ctx context.Context, img image.Image, mode imaging.Mode) (Variant, error) {
	start := time.Now()

	prepared, scale, err := imaging.Preprocess(img, mode, l.options)
	if err != nil {
		return Variant{}, err
	}

	var raw string
	err = imaging.WithTempPNG(prepared, "screenval-"+string(mode)+"-", func(path string) error {
		var err error
		raw, err = l.engine.Report(ctx, path)
		return err
	})
	if err != nil {
		return Variant{}, err
	}

	parsed, err := ocrdata.ParseReport(raw)
	if err != nil {
		return Variant{}, err
	}

	l.logger.Debug("ocr pass", "mode", mode, "scale", scale, "objects", parsed.Len(), "elapsed", time.Since(start).Round(time.Millisecond))
	return Variant{Mode: mode, Scale: scale, Image: parsed}, nil
}
