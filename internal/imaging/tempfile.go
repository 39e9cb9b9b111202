package imaging

import (
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
)

// WithTempPNG writes img to a new temporary PNG file and calls fn with its
// path. The file is removed when fn returns, whether or not fn fails, so
// nothing is left behind in the temp directory.
func WithTempPNG(img image.Image, prefix string, fn func(path string) error) error {
	f, err := os.CreateTemp("", prefix+"*.png")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if err := imaging.Encode(f, img, imaging.PNG); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode temp image: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write temp image: %w", err)
	}

	return fn(path)
}
