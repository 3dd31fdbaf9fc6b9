package metadata

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/barasher/go-exiftool"
)

// DescriptionTag is the EXIF tag that holds the photo description.
const DescriptionTag = "ImageDescription"

// Options configures an ExifStore.
type Options struct {
	// BinaryPath is the exiftool executable. Empty searches PATH.
	BinaryPath string

	// BackupOriginal keeps exiftool's "<name>_original" copy of rewritten files.
	BackupOriginal bool
}

// ExifStore reads and writes descriptions through a single exiftool process.
// It is not safe for concurrent use.
type ExifStore struct {
	et *exiftool.Exiftool
}

// Open starts exiftool.
func Open(opts Options) (*ExifStore, error) {
	var setup []func(*exiftool.Exiftool) error
	if opts.BinaryPath != "" {
		setup = append(setup, exiftool.SetExiftoolBinaryPath(opts.BinaryPath))
	}
	if opts.BackupOriginal {
		setup = append(setup, exiftool.BackupOriginal())
	}

	et, err := exiftool.NewExiftool(setup...)
	if err != nil {
		return nil, fmt.Errorf("start exiftool: %w", err)
	}
	return &ExifStore{et: et}, nil
}

// Close stops the exiftool process.
func (s *ExifStore) Close() error {
	if err := s.et.Close(); err != nil {
		return fmt.Errorf("stop exiftool: %w", err)
	}
	return nil
}

// ReadDescription returns the current ImageDescription of path, or "" when
// the file has none.
func (s *ExifStore) ReadDescription(path string) (string, error) {
	metas := s.et.ExtractMetadata(path)
	if len(metas) != 1 {
		return "", fmt.Errorf("read metadata %s: exiftool returned %d results", path, len(metas))
	}
	fm := metas[0]
	if fm.Err != nil {
		return "", fmt.Errorf("read metadata %s: %w", path, fm.Err)
	}

	value, err := fm.GetString(DescriptionTag)
	if errors.Is(err, exiftool.ErrKeyNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s of %s: %w", DescriptionTag, path, err)
	}
	return trimValue(value), nil
}

// WriteDescription replaces the ImageDescription of path with value and
// persists the file.
func (s *ExifStore) WriteDescription(path, value string) error {
	tmp, err := os.CreateTemp("", "ocr-exif-description-*.txt")
	if err != nil {
		return fmt.Errorf("stage description: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return fmt.Errorf("stage description: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("stage description: %w", err)
	}

	// "-TAG<=FILE" makes exiftool read the value from FILE.
	fm := exiftool.FileMetadata{File: path, Fields: map[string]interface{}{}}
	fm.SetString(DescriptionTag+"<", tmp.Name())

	metas := []exiftool.FileMetadata{fm}
	s.et.WriteMetadata(metas)
	if err := metas[0].Err; err != nil {
		return fmt.Errorf("write %s of %s: %w", DescriptionTag, path, err)
	}
	return nil
}

// trimValue strips the NUL padding some cameras leave in ASCII tags.
func trimValue(v string) string {
	return strings.TrimRight(v, "\x00")
}
