// Package imaging prepares photographs for text recognition.
//
// Images are decoded with EXIF auto-orientation so that rotated camera shots
// reach the OCR engine upright. Preparation converts to grayscale, inverts
// dark-mode screenshots (light text on a dark background), stretches contrast
// and upscales images whose shorter side is below a minimum, all of which
// measurably help Tesseract on phone screenshots and photographed signs.
//
// TextLikely is a cheap edge-density heuristic used to skip recognition for
// photographs with no text-like regions at all.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with (0,0) at the top-left corner. Regions
// use an inclusive top-left (X1,Y1) and an exclusive bottom-right (X2,Y2).
//
// # Thread Safety
//
// All functions are stateless and may be called concurrently on different
// images. Returned images are freshly allocated and never alias the input.
package imaging
