package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ironsheep/photo-ocr-exif/internal/description"
	"github.com/ironsheep/photo-ocr-exif/internal/metadata"
	"github.com/ironsheep/photo-ocr-exif/internal/walk"
)

// Scan states.
const (
	scanOCR     = "ocr"
	scanCaption = "caption"
	scanEmpty   = "empty"
	scanNoExif  = "no-exif"
	scanError   = "error"
)

type scanEntry struct {
	Path    string `json:"path" yaml:"path"`
	State   string `json:"state" yaml:"state"`
	Caption string `json:"caption,omitempty" yaml:"caption,omitempty"`
	OCR     string `json:"ocr,omitempty" yaml:"ocr,omitempty"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

type scanReport struct {
	Root   string         `json:"root" yaml:"root"`
	Files  []scanEntry    `json:"files" yaml:"files"`
	Counts map[string]int `json:"counts" yaml:"counts"`
}

func newScanCommand(ctx *commandContext) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "scan <directory>",
		Short: "Report which photos already carry OCR text",
		Long: `scan reads the EXIF description of every photo the batch would visit and
reports whether it holds an OCR block, a caption only, or nothing. It runs no
OCR and writes nothing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outFormat, err := parseFormat(format)
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			report, err := scanDirectory(args[0], cfg.WalkOptions())
			if err != nil {
				return err
			}

			if outFormat != formatTable {
				return writeStructured(cmd, outFormat, report)
			}
			renderScan(cmd, report)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format: table, json or yaml")
	return cmd
}

func scanDirectory(dir string, opts walk.Options) (*scanReport, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dir, err)
	}

	report := &scanReport{Root: root, Files: []scanEntry{}, Counts: map[string]int{}}
	err = walk.Walk(root, opts, func(path string) error {
		entry := scanFile(path)
		if rel, err := filepath.Rel(root, path); err == nil {
			entry.Path = rel
		}
		report.Files = append(report.Files, entry)
		report.Counts[entry.State]++
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func scanFile(path string) scanEntry {
	entry := scanEntry{Path: path}

	value, err := metadata.ProbeDescription(path)
	switch {
	case errors.Is(err, metadata.ErrNoExif):
		entry.State = scanNoExif
		return entry
	case err != nil:
		entry.State = scanError
		entry.Error = err.Error()
		return entry
	}

	user, block, found := description.Locate(value)
	entry.Caption = user
	switch {
	case found:
		entry.State = scanOCR
		entry.OCR = strings.TrimPrefix(strings.TrimPrefix(block, description.Marker), "\n")
	case user != "":
		entry.State = scanCaption
	default:
		entry.State = scanEmpty
	}
	return entry
}

func renderScan(cmd *cobra.Command, report *scanReport) {
	out := cmd.OutOrStdout()
	if len(report.Files) == 0 {
		fmt.Fprintf(out, "No photos found under %s\n", report.Root)
		return
	}

	rows := make([][]string, 0, len(report.Files))
	for _, f := range report.Files {
		detail := preview(f.OCR, 48)
		if f.State == scanCaption {
			detail = preview(f.Caption, 48)
		}
		if f.State == scanError {
			detail = preview(f.Error, 48)
		}
		rows = append(rows, []string{f.Path, f.State, detail})
	}
	fmt.Fprintln(out, renderTable([]string{"Photo", "State", "Text"}, rows, nil))
	fmt.Fprintf(out, "%s: %d with OCR, %d caption only, %d empty, %d without EXIF, %d unreadable\n",
		pluralize(len(report.Files), "photo", "photos"),
		report.Counts[scanOCR], report.Counts[scanCaption], report.Counts[scanEmpty],
		report.Counts[scanNoExif], report.Counts[scanError])
}
