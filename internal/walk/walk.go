// Package walk enumerates candidate photographs below a directory.
package walk

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotDirectory is returned when the walk root is missing or is not a directory.
var ErrNotDirectory = errors.New("not a valid directory")

// Options controls which files a walk yields.
type Options struct {
	// Recurse descends into subdirectories. Symlinked directories are never followed.
	Recurse bool

	// Extensions lists accepted file extensions without the leading dot.
	Extensions []string

	// CaseSensitive requires an exact extension match; otherwise "IMG.JPG"
	// matches "jpg".
	CaseSensitive bool
}

// DefaultOptions returns recursive JPEG selection.
func DefaultOptions() Options {
	return Options{
		Recurse:    true,
		Extensions: []string{"jpg", "jpeg"},
	}
}

// Matches reports whether name carries one of the accepted extensions.
func (o Options) Matches(name string) bool {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if ext == "" {
		return false
	}
	for _, want := range o.Extensions {
		want = strings.TrimPrefix(want, ".")
		if o.CaseSensitive {
			if ext == want {
				return true
			}
		} else if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}

// Walk calls fn with the path of every matching regular file under root, in
// lexical order. Symlinks to regular files are included.
//
// fn may return fs.SkipAll to stop early; Walk then returns nil. Any other
// error from fn, or a failure reading the tree, stops the walk and is returned.
func Walk(root string, opts Options, fn func(path string) error) error {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%q: %w", root, ErrNotDirectory)
	}

	if !opts.Recurse {
		return walkFlat(root, opts, fn)
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("traverse %s: %w", path, err)
		}
		if d.IsDir() || !opts.Matches(d.Name()) || !isRegular(path, d) {
			return nil
		}
		return fn(path)
	})
	if errors.Is(err, fs.SkipAll) {
		return nil
	}
	return err
}

func walkFlat(root string, opts Options, fn func(path string) error) error {
	entries, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("read directory %s: %w", root, err)
	}
	for _, entry := range entries {
		path := filepath.Join(root, entry.Name())
		if entry.IsDir() || !opts.Matches(entry.Name()) || !isRegular(path, entry) {
			continue
		}
		if err := fn(path); err != nil {
			if errors.Is(err, fs.SkipAll) {
				return nil
			}
			return err
		}
	}
	return nil
}

func isRegular(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
