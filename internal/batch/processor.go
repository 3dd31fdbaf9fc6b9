package batch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ironsheep/photo-ocr-exif/internal/description"
	"github.com/ironsheep/photo-ocr-exif/internal/logging"
	"github.com/ironsheep/photo-ocr-exif/internal/ocrtext"
	"github.com/ironsheep/photo-ocr-exif/internal/walk"
)

// Recognizer extracts raw text from an image file.
type Recognizer interface {
	Recognize(ctx context.Context, path string) (string, error)
}

// DescriptionStore reads and persists an image's description field.
type DescriptionStore interface {
	ReadDescription(path string) (string, error)
	WriteDescription(path, value string) error
}

// Recorder receives every FileResult, for example to journal a run.
type Recorder interface {
	Record(ctx context.Context, res FileResult) error
}

// Status is the final state of one file.
type Status string

const (
	StatusUpdated Status = "updated"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// FileResult describes what happened to one file.
type FileResult struct {
	Path   string
	Status Status

	// Reason is set for StatusSkipped.
	Reason description.Reason

	// Err is set for StatusFailed.
	Err error

	Duration time.Duration
}

// Options configures a Processor.
type Options struct {
	Policy description.Policy

	// LogReplacedOldOCR logs the discarded OCR block before it is overwritten.
	LogReplacedOldOCR bool

	Walk walk.Options

	// Recorder is optional.
	Recorder Recorder
}

// Processor applies OCR results to image descriptions.
type Processor struct {
	ocr    Recognizer
	store  DescriptionStore
	logger *slog.Logger
	opts   Options
	now    func() time.Time
}

// NewProcessor wires a processor. A nil logger discards output.
func NewProcessor(engine Recognizer, store DescriptionStore, logger *slog.Logger, opts Options) *Processor {
	return &Processor{
		ocr:    engine,
		store:  store,
		logger: logging.NewComponentLogger(logger, "batch"),
		opts:   opts,
		now:    time.Now,
	}
}

// ProcessFile handles a single image. It never returns an error; failures
// and panics are reported in the result.
func (p *Processor) ProcessFile(ctx context.Context, path string) (res FileResult) {
	start := p.now()
	res.Path = path
	defer func() {
		if r := recover(); r != nil {
			res.Status = StatusFailed
			res.Reason = ""
			res.Err = fmt.Errorf("panic: %v", r)
		}
		res.Duration = p.now().Sub(start)
	}()

	existing, err := p.store.ReadDescription(path)
	if err != nil {
		return p.failed(res, fmt.Errorf("read description: %w", err))
	}

	if out, gated := description.Gate(existing, p.opts.Policy); gated {
		return skip(res, out.Reason)
	}

	// The file in flight is never cut short by cancellation.
	raw, err := p.ocr.Recognize(context.WithoutCancel(ctx), path)
	if err != nil {
		return p.failed(res, fmt.Errorf("recognize text: %w", err))
	}

	out := description.Merge(existing, ocrtext.Normalize(raw), p.opts.Policy)
	if !out.Updated() {
		return skip(res, out.Reason)
	}

	if out.Replaced != "" && p.opts.LogReplacedOldOCR {
		p.logger.Info("replacing previous OCR text",
			slog.String(logging.FieldFile, path),
			slog.String("old_ocr", out.Replaced),
		)
	}

	if err := p.store.WriteDescription(path, out.Value); err != nil {
		return p.failed(res, fmt.Errorf("write description: %w", err))
	}

	res.Status = StatusUpdated
	return res
}

func (p *Processor) failed(res FileResult, err error) FileResult {
	res.Status = StatusFailed
	res.Err = err
	return res
}

func skip(res FileResult, reason description.Reason) FileResult {
	res.Status = StatusSkipped
	res.Reason = reason
	return res
}
