package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func boolPtr(v bool) *bool { return &v }

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Output: &buf, Color: boolPtr(false)})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.With(FieldRunID, "r1").Info("skipped",
		FieldFile, "/photos/a b.jpg",
		FieldReason, "ocr-unchanged",
		"elapsed", 1500*time.Millisecond,
	)
	logger.Debug("hidden")

	out := buf.String()
	for _, want := range []string{
		"INFO  skipped",
		"run_id=r1",
		`file="/photos/a b.jpg"`,
		"reason=ocr-unchanged",
		"elapsed=1.5s",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
	if strings.Contains(out, "hidden") {
		t.Error("debug record emitted at info level")
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("colour codes emitted with colour disabled")
	}
}

func TestConsoleFormat_GroupsAndColor(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Output: &buf, Color: boolPtr(true)})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.WithGroup("stats").Warn("done", slog.Int("failed", 2), slog.Group("ocr", slog.String("lang", "eng")))

	out := buf.String()
	if !strings.Contains(out, "stats.failed=2") || !strings.Contains(out, "stats.ocr.lang=eng") {
		t.Errorf("grouped keys missing from %q", out)
	}
	if !strings.Contains(out, ansiYellow) {
		t.Errorf("expected warn colour in %q", out)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Error("write failed", FieldFile, "a.jpg", "error", errors.New("disk full"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	if record["level"] != "error" {
		t.Errorf("level = %v, want error", record["level"])
	}
	if _, ok := record["ts"]; !ok {
		t.Error("missing ts key")
	}
	if record["file"] != "a.jpg" || record["error"] != "disk full" {
		t.Errorf("unexpected attrs: %v", record)
	}
}

func TestNew_UnsupportedFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNew_FileMirror(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "ocr-exif.log")

	logger, err := New(Options{Output: &buf, File: path, Color: boolPtr(true)})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("batch complete", "processed", 3)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "batch complete processed=3") {
		t.Errorf("log file content %q", data)
	}
	if strings.Contains(string(data), "\x1b[") {
		t.Error("colour codes written to log file")
	}
	if !strings.Contains(buf.String(), "batch complete") {
		t.Error("record missing from primary output")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewNop(t *testing.T) {
	logger := NewComponentLogger(nil, "batch")
	logger.Error("ignored")
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Error("nop logger should report disabled")
	}
}
