// Package imaging loads screenshots and prepares them for OCR.
//
// Coordinates are 0-based pixels with (0,0) at the top-left corner, X growing
// rightward and Y growing downward. Regions are half-open: (x1,y1) is
// inclusive and (x2,y2) exclusive.
//
// # Preprocessing
//
// Preprocess produces one OCR variant of a screenshot per Mode. All modes but
// ModeNone work on a grayscale copy upscaled to a minimum width, because
// Tesseract misreads small UI fonts. Binarizing modes (ModeThreshold,
// ModeAdaptiveThreshold) and ModeBlur help with textured or noisy
// backgrounds. The scale returned by Preprocess maps OCR boxes back onto the
// source image (see CropBox).
//
// # Temporary Files
//
// The OCR engine reads images from disk. WithTempPNG scopes such a file to a
// callback and always removes it.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. The other functions are stateless
// and never modify their input image.
package imaging
