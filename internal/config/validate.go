package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/ironsheep/photo-ocr-exif/internal/description"
)

var languageCode = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

func (c *Config) normalize() error {
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.Logging.Level = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvPolicy)); v != "" {
		policy, err := description.ParsePolicy(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPolicy, err)
		}
		c.Metadata.ExistingOCRPolicy = policy
	}
	if strings.TrimSpace(c.OCR.TessdataPrefix) == "" {
		c.OCR.TessdataPrefix = strings.TrimSpace(os.Getenv(EnvTessdataPrefix))
	}

	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))

	exts := make([]string, 0, len(c.Walk.Extensions))
	for _, ext := range c.Walk.Extensions {
		ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
		if ext == "" {
			continue
		}
		if !c.Walk.CaseSensitive {
			ext = strings.ToLower(ext)
		}
		exts = append(exts, ext)
	}
	c.Walk.Extensions = exts

	langs := make([]string, 0, len(c.OCR.Languages))
	for _, lang := range c.OCR.Languages {
		if lang = strings.TrimSpace(lang); lang != "" {
			langs = append(langs, lang)
		}
	}
	c.OCR.Languages = langs

	var err error
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Logging.File, err = expandPath(strings.TrimSpace(c.Logging.File)); err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	if c.OCR.TessdataPrefix, err = expandPath(c.OCR.TessdataPrefix); err != nil {
		return fmt.Errorf("ocr.tessdata_prefix: %w", err)
	}
	if c.Metadata.ExiftoolPath = strings.TrimSpace(c.Metadata.ExiftoolPath); strings.HasPrefix(c.Metadata.ExiftoolPath, "~") {
		if c.Metadata.ExiftoolPath, err = expandPath(c.Metadata.ExiftoolPath); err != nil {
			return fmt.Errorf("metadata.exiftool_path: %w", err)
		}
	}
	return nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if _, err := c.Metadata.ExistingOCRPolicy.MarshalText(); err != nil {
		errs = append(errs, fmt.Errorf("metadata.existing_ocr_policy: %w", err))
	}
	if len(c.Walk.Extensions) == 0 {
		errs = append(errs, errors.New("walk.extensions: at least one extension is required"))
	}
	if len(c.OCR.Languages) == 0 {
		errs = append(errs, errors.New("ocr.languages: at least one language is required"))
	}
	for _, lang := range c.OCR.Languages {
		if !languageCode.MatchString(lang) {
			errs = append(errs, fmt.Errorf("ocr.languages: invalid tesseract language code %q", lang))
		}
	}
	if c.OCR.MinShortSide < 0 {
		errs = append(errs, fmt.Errorf("ocr.min_short_side: must be >= 0, got %d", c.OCR.MinShortSide))
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format))
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level))
	}
	if c.Paths.StateDir == "" {
		errs = append(errs, errors.New("paths.state_dir: must not be empty"))
	}

	return errors.Join(errs...)
}
