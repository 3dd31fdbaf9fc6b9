package ocr

import (
	"context"
	"fmt"
	"image"

	"github.com/otiai10/gosseract/v2"
	"golang.org/x/text/unicode/norm"

	"github.com/ironsheep/photo-ocr-exif/internal/imaging"
)

// DefaultLanguages are used when Options.Languages is empty.
var DefaultLanguages = []string{"lav", "eng"}

// client is the subset of *gosseract.Client used by Engine.
type client interface {
	SetTessdataPrefix(prefix string) error
	SetLanguage(langs ...string) error
	SetImageFromBytes(data []byte) error
	Text() (string, error)
	Close() error
}

// Options configures an Engine.
type Options struct {
	// Languages are Tesseract language codes, tried together.
	Languages []string

	// TessdataPrefix is the directory holding *.traineddata. Empty uses the
	// Tesseract default.
	TessdataPrefix string

	// Preprocess enables grayscale, dark-mode inversion, contrast and upscaling.
	Preprocess bool

	// SkipTextless returns no text, without running Tesseract, for images
	// with no text-like regions.
	SkipTextless bool

	// MinShortSide upscales images below this size when Preprocess is set.
	MinShortSide int
}

// Engine performs OCR on image files. It is safe for sequential use; a fresh
// Tesseract client is created per image.
type Engine struct {
	opts          Options
	clientFactory func() client
	load          func(path string) (image.Image, error)
}

// NewEngine constructs a Tesseract-backed engine.
func NewEngine(opts Options) *Engine {
	if len(opts.Languages) == 0 {
		opts.Languages = append([]string(nil), DefaultLanguages...)
	}
	return &Engine{
		opts:          opts,
		clientFactory: func() client { return gosseract.NewClient() },
		load:          imaging.Load,
	}
}

// Recognize performs OCR on the image file at path and returns the raw
// recognized text.
//
// The image is decoded with its EXIF orientation applied, optionally checked
// for text-like regions and preprocessed, then handed to a fresh Tesseract
// client as PNG. The result is normalized to Unicode NFC so combining marks
// produced by some language models compare equal to precomposed letters.
//
// Parameters:
//   - ctx: Checked once before any work starts. Recognition itself cannot be
//     cancelled; callers that must not lose a file in flight pass a context
//     without cancellation.
//   - path: Path to a JPEG, PNG, GIF, TIFF or BMP file.
//
// Returns:
//   - string: Raw text as Tesseract reports it, line breaks and stray
//     whitespace included. "" when no text was found or when SkipTextless
//     ruled the image out.
//   - error: Non-nil if the context is already done, the image cannot be
//     decoded, or Tesseract fails (missing language data included).
//
// # Preprocessing
//
// With Options.Preprocess set the image is converted to grayscale, inverted
// when predominantly dark, given extra contrast and upscaled when its shorter
// side is below Options.MinShortSide. See imaging.Prepare.
//
// # Performance
//
// OCR dominates the cost of a batch. Enabling SkipTextless avoids Tesseract
// entirely for photographs without text-like structure, at the price of an
// edge-map pass over a downscaled copy.
func (e *Engine) Recognize(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	img, err := e.load(path)
	if err != nil {
		return "", err
	}

	if e.opts.SkipTextless && !imaging.TextLikely(img) {
		return "", nil
	}

	if e.opts.Preprocess {
		prep := imaging.DefaultPrepareOptions()
		prep.MinShortSide = e.opts.MinShortSide
		img = imaging.Prepare(img, prep)
	}

	data, err := imaging.EncodePNG(img)
	if err != nil {
		return "", err
	}

	c := e.clientFactory()
	defer c.Close()

	text, err := e.recognizeWithClient(c, data)
	if err != nil {
		return "", err
	}
	return norm.NFC.String(text), nil
}

func (e *Engine) recognizeWithClient(c client, data []byte) (string, error) {
	if e.opts.TessdataPrefix != "" {
		if err := c.SetTessdataPrefix(e.opts.TessdataPrefix); err != nil {
			return "", fmt.Errorf("set tessdata path: %w", err)
		}
	}
	if err := c.SetLanguage(e.opts.Languages...); err != nil {
		return "", fmt.Errorf("set languages: %w", err)
	}
	if err := c.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return text, nil
}

// Version returns the linked Tesseract version.
func Version() string {
	c := gosseract.NewClient()
	defer c.Close()
	return c.Version()
}
