package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// CropResult is a cropped region encoded for transport.
type CropResult struct {
	X1          int    `json:"x1"`
	Y1          int    `json:"y1"`
	X2          int    `json:"x2"`
	Y2          int    `json:"y2"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Crop extracts the region (x1,y1)-(x2,y2) of img as a base64 PNG. The
// region's top-left corner is inclusive and its bottom-right exclusive.
func Crop(img image.Image, x1, y1, x2, y2 int) (*CropResult, error) {
	bounds := img.Bounds()
	if x1 < bounds.Min.X || y1 < bounds.Min.Y || x2 > bounds.Max.X || y2 > bounds.Max.Y {
		return nil, fmt.Errorf("crop region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			x1, y1, x2, y2, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	if x1 >= x2 || y1 >= y2 {
		return nil, fmt.Errorf("invalid crop region: x1 must be < x2, y1 must be < y2")
	}

	cropped := imaging.Crop(img, image.Rect(x1, y1, x2, y2))

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, cropped, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode cropped image: %w", err)
	}

	return &CropResult{
		X1:          x1,
		Y1:          y1,
		X2:          x2,
		Y2:          y2,
		Width:       cropped.Bounds().Dx(),
		Height:      cropped.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// CropBox crops a box found by OCR on a preprocessed variant of img.
//
// The box is given in variant pixels; scale is the factor Preprocess applied,
// so the box is divided by it to land on img. pad extra source pixels are
// kept on every side, and the result is clipped to img.
func CropBox(img image.Image, x1, y1, x2, y2 int, scale float64, pad int) (*CropResult, error) {
	if scale <= 0 {
		return nil, fmt.Errorf("invalid scale %v", scale)
	}
	if pad < 0 {
		pad = 0
	}

	bounds := img.Bounds()
	sx1 := bounds.Min.X + int(math.Floor(float64(x1)/scale)) - pad
	sy1 := bounds.Min.Y + int(math.Floor(float64(y1)/scale)) - pad
	sx2 := bounds.Min.X + int(math.Ceil(float64(x2)/scale)) + pad
	sy2 := bounds.Min.Y + int(math.Ceil(float64(y2)/scale)) + pad

	sx1, sx2 = clip(sx1, bounds.Min.X, bounds.Max.X), clip(sx2, bounds.Min.X, bounds.Max.X)
	sy1, sy2 = clip(sy1, bounds.Min.Y, bounds.Max.Y), clip(sy2, bounds.Min.Y, bounds.Max.Y)

	return Crop(img, sx1, sy1, sx2, sy2)
}

func clip(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
