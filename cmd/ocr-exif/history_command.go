package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ironsheep/photo-ocr-exif/internal/journal"
)

type runDetail struct {
	Run   journal.Run         `json:"run" yaml:"run"`
	Files []journal.FileEntry `json:"files" yaml:"files"`
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var (
		limit  int
		runID  string
		format string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past runs recorded in the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outFormat, err := parseFormat(format)
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			path := cfg.JournalPath()
			if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet")
				return nil
			}

			jr, err := journal.Open(path)
			if err != nil {
				return err
			}
			defer jr.Close()

			if runID != "" {
				return showRun(cmd, jr, runID, outFormat)
			}
			return listRuns(cmd, jr, limit, outFormat)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show (0 for all)")
	cmd.Flags().StringVar(&runID, "run", "", "Show the files of one run (full ID or unique prefix)")
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format: table, json or yaml")
	return cmd
}

func listRuns(cmd *cobra.Command, jr *journal.Journal, limit int, format string) error {
	runs, err := jr.ListRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if format != formatTable {
		if runs == nil {
			runs = []journal.Run{}
		}
		return writeStructured(cmd, format, runs)
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			shortID(r.ID),
			formatTimestamp(r.StartedAt),
			r.Root,
			r.Policy,
			strconv.Itoa(r.Processed),
			strconv.Itoa(r.Updated),
			strconv.Itoa(r.Skipped),
			strconv.Itoa(r.Failed),
			formatDuration(r.Elapsed),
			runState(r),
		})
	}
	headers := []string{"Run", "Started", "Directory", "Policy", "Processed", "Updated", "Skipped", "Failed", "Elapsed", "State"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignLeft}
	fmt.Fprintln(out, renderTable(headers, rows, aligns))
	return nil
}

func showRun(cmd *cobra.Command, jr *journal.Journal, id, format string) error {
	run, err := jr.GetRun(cmd.Context(), id)
	if err != nil {
		return err
	}
	files, err := jr.RunFiles(cmd.Context(), run.ID)
	if err != nil {
		return err
	}
	if format != formatTable {
		if files == nil {
			files = []journal.FileEntry{}
		}
		return writeStructured(cmd, format, runDetail{Run: *run, Files: files})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s  %s  %s  policy=%s  %s\n",
		run.ID, formatTimestamp(run.StartedAt), run.Root, run.Policy, runState(*run))
	fmt.Fprintf(out, "processed=%d updated=%d skipped=%d failed=%d elapsed=%s\n",
		run.Processed, run.Updated, run.Skipped, run.Failed, formatDuration(run.Elapsed))
	if len(files) == 0 {
		fmt.Fprintln(out, "No files recorded")
		return nil
	}

	rows := make([][]string, 0, len(files))
	for _, f := range files {
		detail := f.Reason
		if f.Error != "" {
			detail = preview(f.Error, 60)
		}
		rows = append(rows, []string{f.Path, f.Status, detail})
	}
	fmt.Fprintln(out, renderTable([]string{"Photo", "Status", "Detail"}, rows, nil))
	return nil
}

func runState(r journal.Run) string {
	switch {
	case !r.Finished():
		return "incomplete"
	case r.Interrupted:
		return "interrupted"
	default:
		return "complete"
	}
}
