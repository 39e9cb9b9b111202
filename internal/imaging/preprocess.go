package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
)

// Mode selects how a screenshot is prepared before OCR. Some game and UI
// fonts are only read correctly under one of them, so callers usually try
// several in turn.
type Mode string

const (
	// ModeNone passes the image through untouched.
	ModeNone Mode = "none"
	// ModeGray converts to grayscale and upscales small images.
	ModeGray Mode = "gray"
	// ModeAdaptiveThreshold binarizes against the mean of each pixel's 11x11
	// neighborhood.
	ModeAdaptiveThreshold Mode = "adaptive_thresh"
	// ModeThreshold binarizes with a global threshold chosen by Otsu's method.
	ModeThreshold Mode = "thresh"
	// ModeBlur applies a 3x3 median filter to remove speckle.
	ModeBlur Mode = "blur"
)

// DefaultModes is the pass list used when a caller names none.
var DefaultModes = []Mode{ModeGray}

// ErrUnknownMode is returned for a mode name that is not one of the Mode
// constants.
var ErrUnknownMode = errors.New("unknown preprocessing mode")

const (
	// DefaultMinWidth is the width small screenshots are upscaled to.
	DefaultMinWidth = 600

	adaptiveRadius   = 5 // 11x11 window
	adaptiveOffset   = 11
	adaptiveMaxValue = 250
	medianRadius     = 1 // 3x3 window
)

// ParseMode parses a mode name. Matching ignores case and surrounding space.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case ModeNone, ModeGray, ModeAdaptiveThreshold, ModeThreshold, ModeBlur:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// ParseModes parses a list of mode names. An empty list yields DefaultModes.
func ParseModes(names []string) ([]Mode, error) {
	if len(names) == 0 {
		return append([]Mode(nil), DefaultModes...), nil
	}
	modes := make([]Mode, 0, len(names))
	for _, n := range names {
		m, err := ParseMode(n)
		if err != nil {
			return nil, err
		}
		modes = append(modes, m)
	}
	return modes, nil
}

// Options tune Preprocess.
type Options struct {
	// MinWidth is the width narrower images are upscaled to. Zero means
	// DefaultMinWidth; a negative value disables upscaling.
	MinWidth int

	// InvertDark inverts predominantly dark images so that text ends up dark
	// on a light background, which Tesseract handles best.
	InvertDark bool
}

func (o Options) minWidth() int {
	if o.MinWidth == 0 {
		return DefaultMinWidth
	}
	return o.MinWidth
}

// Preprocess prepares img for OCR according to mode.
//
// Every mode except ModeNone converts to grayscale and upscales images
// narrower than the minimum width, keeping the aspect ratio. The returned
// scale is the factor from source pixels to result pixels; OCR coordinates
// divided by it map back onto the source image.
func Preprocess(img image.Image, mode Mode, opts Options) (image.Image, float64, error) {
	if img.Bounds().Empty() {
		return nil, 0, errors.New("cannot preprocess an empty image")
	}
	if mode == ModeNone {
		return img, 1, nil
	}

	var gray image.Image = imaging.Grayscale(img)
	gray, scale := upscale(gray, opts.minWidth())
	if opts.InvertDark && IsDark(gray) {
		gray = Invert(gray)
	}

	switch mode {
	case ModeGray:
		return gray, scale, nil
	case ModeAdaptiveThreshold:
		return adaptiveThreshold(gray), scale, nil
	case ModeThreshold:
		return segment.Threshold(gray, otsuLevel(gray)), scale, nil
	case ModeBlur:
		return effect.Median(gray, medianRadius), scale, nil
	}
	return nil, 0, fmt.Errorf("%w: %q", ErrUnknownMode, string(mode))
}

func upscale(img image.Image, minWidth int) (image.Image, float64) {
	b := img.Bounds()
	if minWidth <= 0 || b.Dx() >= minWidth {
		return img, 1
	}
	scale := float64(minWidth) / float64(b.Dx())
	height := int(math.Round(float64(b.Dy()) * scale))
	if height < 1 {
		height = 1
	}
	return imaging.Resize(img, minWidth, height, imaging.Linear), scale
}

// adaptiveThreshold sets a pixel to adaptiveMaxValue when it is brighter than
// its neighborhood mean minus adaptiveOffset, and to black otherwise.
func adaptiveThreshold(gray image.Image) *image.Gray {
	mean := blur.Box(gray, adaptiveRadius)
	b := gray.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	mb := mean.Bounds()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			v := luma(gray.At(b.Min.X+x, b.Min.Y+y))
			m := luma(mean.At(mb.Min.X+x, mb.Min.Y+y))
			if v > m-adaptiveOffset {
				out.Pix[y*out.Stride+x] = adaptiveMaxValue
			}
		}
	}
	return out
}

// otsuLevel returns the segment.Threshold level that splits gray's histogram
// where the between-class variance is largest.
func otsuLevel(gray image.Image) uint8 {
	var hist [256]int
	b := gray.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			hist[luma(gray.At(x, y))]++
		}
	}

	total := b.Dx() * b.Dy()
	var sumAll float64
	for i, n := range hist {
		sumAll += float64(i * n)
	}

	var (
		best     float64
		level    int
		weightBg int
		sumBg    float64
	)
	for t := 0; t < 256; t++ {
		weightBg += hist[t]
		if weightBg == 0 {
			continue
		}
		weightFg := total - weightBg
		if weightFg == 0 {
			break
		}
		sumBg += float64(t * hist[t])
		meanBg := sumBg / float64(weightBg)
		meanFg := (sumAll - sumBg) / float64(weightFg)
		between := float64(weightBg) * float64(weightFg) * (meanBg - meanFg) * (meanBg - meanFg)
		if between > best {
			best = between
			level = t
		}
	}

	// Pixels strictly above the Otsu threshold become white.
	if level >= 255 {
		return 255
	}
	return uint8(level + 1)
}

func luma(c color.Color) int {
	r, g, b, _ := c.RGBA()
	// Rec. 601, matching the grayscale conversion.
	y := (299*r + 587*g + 114*b) / 1000
	return int(y >> 8)
}
