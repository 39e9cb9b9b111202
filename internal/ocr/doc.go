// Package ocr runs Tesseract (via gosseract/v2) and produces OCR reports.
//
// A report is the tab-separated word table understood by
// ocrdata.ParseReport: a header line followed by one row per recognized word
// with its layout numbers, bounding box, confidence and text. Engine is the
// seam between the query engine and Tesseract; tests and pre-recorded
// sessions substitute Static or an EngineFunc.
//
// # Prerequisites
//
// Tesseract and its language data must be installed:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//   - Windows: https://github.com/UB-Mannheim/tesseract/wiki
//
// Set TessdataPrefix when the *.traineddata files live outside Tesseract's
// default search path.
package ocr
