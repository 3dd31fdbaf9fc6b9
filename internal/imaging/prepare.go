package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
)

// PrepareOptions controls Prepare.
type PrepareOptions struct {
	// InvertDark inverts predominantly dark images so text ends up dark on light.
	InvertDark bool

	// Contrast is the relative contrast change in [-1,1]. Zero leaves contrast alone.
	Contrast float64

	// MinShortSide upscales images whose shorter side is below this many
	// pixels, preserving aspect ratio. Zero disables upscaling.
	MinShortSide int

	// MaxScale caps the upscale factor. Values below 1 mean no cap.
	MaxScale float64
}

// DefaultPrepareOptions returns the settings used by the OCR engine.
func DefaultPrepareOptions() PrepareOptions {
	return PrepareOptions{
		InvertDark:   true,
		Contrast:     0.2,
		MinShortSide: 1000,
		MaxScale:     3,
	}
}

// Prepare returns a grayscale copy of img tuned for text recognition.
func Prepare(img image.Image, opts PrepareOptions) image.Image {
	var out image.Image = effect.Grayscale(img)

	if opts.InvertDark && IsDark(out) {
		out = effect.Invert(out)
	}

	if opts.Contrast != 0 {
		out = adjust.Contrast(out, opts.Contrast)
	}

	if w, h, ok := upscaleSize(out.Bounds(), opts); ok {
		out = imaging.Resize(out, w, h, imaging.Lanczos)
	}

	return out
}

// upscaleSize returns the target size when the image is smaller than
// opts.MinShortSide.
func upscaleSize(b image.Rectangle, opts PrepareOptions) (int, int, bool) {
	if opts.MinShortSide <= 0 || b.Empty() {
		return 0, 0, false
	}
	short := min(b.Dx(), b.Dy())
	if short >= opts.MinShortSide {
		return 0, 0, false
	}

	scale := float64(opts.MinShortSide) / float64(short)
	if opts.MaxScale >= 1 && scale > opts.MaxScale {
		scale = opts.MaxScale
	}
	w := int(float64(b.Dx())*scale + 0.5)
	h := int(float64(b.Dy())*scale + 0.5)
	if w <= b.Dx() && h <= b.Dy() {
		return 0, 0, false
	}
	return w, h, true
}
