// Package capture grabs live screenshots of attached displays.
package capture

import (
	"errors"
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// ErrNoDisplay is returned when the requested display does not exist.
var ErrNoDisplay = errors.New("no such display")

// Swapped out in tests; capturing needs a real screen.
var (
	numActiveDisplays = screenshot.NumActiveDisplays
	captureDisplay    = screenshot.CaptureDisplay
)

// Displays returns the number of active displays.
func Displays() int {
	return numActiveDisplays()
}

// Display captures display index (0-based, in the platform's order) at its
// native resolution.
func Display(index int) (*image.RGBA, error) {
	if index < 0 {
		return nil, fmt.Errorf("%w: index %d", ErrNoDisplay, index)
	}
	if n := numActiveDisplays(); index >= n {
		return nil, fmt.Errorf("%w: index %d, %d active", ErrNoDisplay, index, n)
	}

	img, err := captureDisplay(index)
	if err != nil {
		return nil, fmt.Errorf("failed to capture display %d: %w", index, err)
	}
	return img, nil
}
