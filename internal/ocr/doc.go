// Package ocr recognizes text in photographs using Tesseract.
//
// Engine wraps the Tesseract OCR engine (via gosseract/v2). Each call decodes
// the photograph upright, optionally prepares it for recognition (grayscale,
// dark-mode inversion, contrast, upscaling of small images) and returns the
// raw recognized text in Unicode NFC form. The text is not cleaned up here;
// callers normalize it before storing.
//
// # Prerequisites
//
// Tesseract and its development headers must be installed, plus language data
// for every configured language:
//   - Ubuntu/Debian: apt-get install libtesseract-dev tesseract-ocr-eng tesseract-ocr-lav
//   - macOS: brew install tesseract tesseract-lang
//
// The data directory can be overridden with Options.TessdataPrefix or the
// TESSDATA_PREFIX environment variable.
//
// # Languages
//
// Several languages may be combined; Tesseract tries them together:
//   - "lav" - Latvian
//   - "eng" - English
//   - See the Tesseract documentation for the full list
//
// # Cancellation
//
// Recognize checks its context before starting. A recognition already running
// inside Tesseract is not interruptible.
package ocr
