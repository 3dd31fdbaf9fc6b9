package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ironsheep/photo-ocr-exif/internal/batch"
	"github.com/ironsheep/photo-ocr-exif/internal/config"
	"github.com/ironsheep/photo-ocr-exif/internal/interrupt"
	"github.com/ironsheep/photo-ocr-exif/internal/journal"
	"github.com/ironsheep/photo-ocr-exif/internal/logging"
	"github.com/ironsheep/photo-ocr-exif/internal/runlock"
)

func runBatch(cmd *cobra.Command, ctx *commandContext, dir string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.logger(cmd, cfg)
	if err != nil {
		return err
	}

	root, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", dir, err)
	}

	lock, err := runlock.Acquire(cfg.LockPath(root))
	if err != nil {
		return err
	}
	logger.Debug("acquired run lock", slog.String("lock", lock.Path()))
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("failed to release run lock", slog.Any("error", err))
		}
	}()

	// exiftool must outlive a Ctrl+C so the file in progress can be written.
	var store descriptionStore
	runCtx, stopSignals, err := interrupt.Shield(cmd.Context(), func() error {
		var err error
		store, err = ctx.openStore(cfg)
		return err
	}, ctx.signals...)
	if err != nil {
		return err
	}
	defer stopSignals()
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("failed to stop metadata store", slog.Any("error", err))
		}
	}()

	jr, runID := openJournal(runCtx, cfg, root, logger)
	if jr != nil {
		defer jr.Close()
		logger = logger.With(slog.String(logging.FieldRunID, runID))
	}

	opts := batch.Options{
		Policy:            cfg.Policy(),
		LogReplacedOldOCR: cfg.Metadata.LogReplacedOldOCR,
		Walk:              cfg.WalkOptions(),
	}
	if jr != nil {
		opts.Recorder = journalRecorder{journal: jr, runID: runID}
	}

	proc := batch.NewProcessor(ctx.newRecognizer(cfg), store, logger, opts)
	stats := proc.Run(runCtx, root)

	if jr != nil {
		err := jr.FinishRun(context.WithoutCancel(runCtx), runID, journal.Summary{
			Processed:   stats.Processed,
			Updated:     stats.Updated,
			Skipped:     stats.Skipped,
			Failed:      stats.Failed,
			Interrupted: stats.Interrupted,
			Elapsed:     stats.Elapsed,
		})
		if err != nil {
			logger.Warn("failed to journal run summary", slog.Any("error", err))
		}
	}

	printSummary(cmd, runID, stats)
	return nil
}

// openJournal starts a journal run. Journal problems are logged and the batch
// continues without one.
func openJournal(ctx context.Context, cfg *config.Config, root string, logger *slog.Logger) (*journal.Journal, string) {
	if !cfg.Journal.Enabled {
		return nil, ""
	}
	jr, err := journal.Open(cfg.JournalPath())
	if err != nil {
		logger.Warn("journal unavailable", slog.String("path", cfg.JournalPath()), slog.Any("error", err))
		return nil, ""
	}
	runID, err := jr.BeginRun(ctx, root, cfg.Policy().String())
	if err != nil {
		logger.Warn("failed to journal run start", slog.Any("error", err))
		_ = jr.Close()
		return nil, ""
	}
	return jr, runID
}

type journalRecorder struct {
	journal *journal.Journal
	runID   string
}

func (r journalRecorder) Record(ctx context.Context, res batch.FileResult) error {
	entry := journal.FileEntry{
		Path:   res.Path,
		Status: string(res.Status),
		Reason: string(res.Reason),
	}
	if res.Err != nil {
		entry.Error = res.Err.Error()
	}
	return r.journal.RecordFile(ctx, r.runID, entry)
}

func printSummary(cmd *cobra.Command, runID string, stats batch.Stats) {
	out := cmd.OutOrStdout()
	headers := []string{"Processed", "Updated", "Skipped", "Failed", "Elapsed"}
	rows := [][]string{{
		strconv.Itoa(stats.Processed),
		strconv.Itoa(stats.Updated),
		strconv.Itoa(stats.Skipped),
		strconv.Itoa(stats.Failed),
		formatDuration(stats.Elapsed),
	}}
	fmt.Fprintln(out, renderTable(headers, rows, []columnAlignment{alignRight, alignRight, alignRight, alignRight, alignRight}))
	if stats.Interrupted {
		fmt.Fprintln(out, "Run interrupted; remaining photos were not processed.")
	}
	if runID != "" {
		fmt.Fprintf(out, "Run %s recorded (ocr-exif history --run %s)\n", runID, shortID(runID))
	}
}
