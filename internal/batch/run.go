package batch

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"math"
	"time"

	"github.com/ironsheep/photo-ocr-exif/internal/logging"
	"github.com/ironsheep/photo-ocr-exif/internal/walk"
)

// Stats is the tally of one run.
type Stats struct {
	// Processed counts files handled without error, updated or skipped.
	Processed int
	// Updated counts files whose description was rewritten.
	Updated int
	// Skipped is the subset of Processed left unchanged.
	Skipped int
	// Failed counts files that hit an error.
	Failed int

	Elapsed time.Duration

	// Interrupted is set when cancellation stopped the run early.
	Interrupted bool
}

// Total is the number of files visited.
func (s Stats) Total() int {
	return s.Processed + s.Failed
}

func (s *Stats) add(res FileResult) {
	switch res.Status {
	case StatusUpdated:
		s.Processed++
		s.Updated++
	case StatusSkipped:
		s.Processed++
		s.Skipped++
	case StatusFailed:
		s.Failed++
	}
}

// Run processes every matching file under root and returns the tally.
//
// An invalid root or a traversal failure is logged, not returned; the files
// handled so far still count. When ctx is cancelled the loop stops after the
// file in progress.
func (p *Processor) Run(ctx context.Context, root string) Stats {
	start := p.now()
	var stats Stats

	stopWatch := context.AfterFunc(ctx, func() {
		p.logger.Warn("user cancellation detected, stopping after the current file")
	})
	defer stopWatch()

	p.logger.Info("batch started",
		slog.String("root", root),
		slog.String("policy", p.opts.Policy.String()),
		slog.Bool("recurse", p.opts.Walk.Recurse),
	)

	err := walk.Walk(root, p.opts.Walk, func(path string) error {
		p.logger.Debug("processing file", slog.String(logging.FieldFile, path))

		res := p.ProcessFile(ctx, path)
		stats.add(res)
		p.logResult(res)
		p.record(ctx, res)

		if ctx.Err() != nil {
			stats.Interrupted = true
			p.logger.Warn("aborted after processing file", slog.String(logging.FieldFile, path))
			return fs.SkipAll
		}
		return nil
	})
	switch {
	case err == nil:
	case errors.Is(err, walk.ErrNotDirectory):
		p.logger.Error("not a valid directory", slog.String("root", root), slog.Any("error", err))
	default:
		p.logger.Error("failed to traverse directory", slog.String("root", root), slog.Any("error", err))
	}

	stats.Elapsed = p.now().Sub(start)
	p.logger.Info("batch complete",
		slog.Int("files", stats.Total()),
		slog.Int("processed", stats.Processed),
		slog.Int("updated", stats.Updated),
		slog.Int("skipped", stats.Skipped),
		slog.Int("failed", stats.Failed),
		slog.Float64("elapsed_seconds", math.Round(stats.Elapsed.Seconds()*100)/100),
		slog.Bool("interrupted", stats.Interrupted),
	)
	return stats
}

func (p *Processor) logResult(res FileResult) {
	file := slog.String(logging.FieldFile, res.Path)
	switch res.Status {
	case StatusUpdated:
		p.logger.Info("updated description", file)
	case StatusSkipped:
		p.logger.Info("skipped", file, slog.String(logging.FieldReason, string(res.Reason)))
	case StatusFailed:
		p.logger.Error("failed to process file", file, slog.Any("error", res.Err))
	}
}

func (p *Processor) record(ctx context.Context, res FileResult) {
	if p.opts.Recorder == nil {
		return
	}
	if err := p.opts.Recorder.Record(context.WithoutCancel(ctx), res); err != nil {
		p.logger.Warn("failed to journal file outcome",
			slog.String(logging.FieldFile, res.Path),
			slog.Any("error", err),
		)
	}
}
