package main

import (
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/ironsheep/photo-ocr-exif/internal/batch"
	"github.com/ironsheep/photo-ocr-exif/internal/config"
	"github.com/ironsheep/photo-ocr-exif/internal/interrupt"
	"github.com/ironsheep/photo-ocr-exif/internal/logging"
	"github.com/ironsheep/photo-ocr-exif/internal/metadata"
	"github.com/ironsheep/photo-ocr-exif/internal/ocr"
)

// descriptionStore is a batch.DescriptionStore that holds a resource.
type descriptionStore interface {
	batch.DescriptionStore
	Close() error
}

type commandContext struct {
	configFlag string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	newRecognizer func(cfg *config.Config) batch.Recognizer
	openStore     func(cfg *config.Config) (descriptionStore, error)

	// signals stop a batch after the current file.
	signals []os.Signal
}

func newCommandContext() *commandContext {
	return &commandContext{
		signals: interrupt.Signals,
		newRecognizer: func(cfg *config.Config) batch.Recognizer {
			return ocr.NewEngine(ocr.Options{
				Languages:      cfg.OCR.Languages,
				TessdataPrefix: cfg.OCR.TessdataPrefix,
				Preprocess:     cfg.OCR.Preprocess,
				SkipTextless:   cfg.OCR.SkipTextless,
				MinShortSide:   cfg.OCR.MinShortSide,
			})
		},
		openStore: func(cfg *config.Config) (descriptionStore, error) {
			return metadata.Open(metadata.Options{
				BinaryPath:     cfg.Metadata.ExiftoolPath,
				BackupOriginal: cfg.Metadata.BackupOriginal,
			})
		},
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(strings.TrimSpace(c.configFlag))
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// logger builds the operational logger writing to the command's stderr.
func (c *commandContext) logger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, error) {
	return logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
		Output: cmd.ErrOrStderr(),
	})
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
