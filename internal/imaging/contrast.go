package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/effect"
	"github.com/lucasb-eyer/go-colorful"
)

// darkLightness is the mean CIE L* (0..1) below which an image counts as dark.
const darkLightness = 0.5

// maxLightnessSamples bounds the pixels visited by MeanLightness.
const maxLightnessSamples = 64 * 64

// MeanLightness returns the average perceptual lightness (CIE L*, 0..1) of
// img, sampled on an even grid. ok is false when no opaque pixel was sampled.
func MeanLightness(img image.Image) (l float64, ok bool) {
	b := img.Bounds()
	if b.Empty() {
		return 0, false
	}

	step := 1
	for (b.Dx()/step)*(b.Dy()/step) > maxLightnessSamples {
		step++
	}

	var sum float64
	var n int
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			c, ok := colorful.MakeColor(img.At(x, y))
			if !ok {
				// fully transparent
				continue
			}
			l, _, _ := c.Lab()
			sum += l
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// IsDark reports whether img is predominantly dark, as in dark-themed UIs.
func IsDark(img image.Image) bool {
	l, ok := MeanLightness(img)
	return ok && l < darkLightness
}

// Invert returns the negative of img.
func Invert(img image.Image) image.Image {
	return effect.Invert(img)
}
