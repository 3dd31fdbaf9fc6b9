package config

import (
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/ironsheep/photo-ocr-exif/internal/description"
	"github.com/ironsheep/photo-ocr-exif/internal/walk"
)

//go:embed sample_config.toml
var sampleConfig string

// Environment variables consulted during Load.
const (
	EnvConfigPath     = "OCR_EXIF_CONFIG"
	EnvLogLevel       = "OCR_EXIF_LOG_LEVEL"
	EnvPolicy         = "OCR_EXIF_POLICY"
	EnvTessdataPrefix = "TESSDATA_PREFIX"
)

// Metadata controls how the description field is reconciled and written.
type Metadata struct {
	// ExistingOCRPolicy is "skip" or "update".
	ExistingOCRPolicy description.Policy `toml:"existing_ocr_policy"`
	// LogReplacedOldOCR logs the discarded OCR block before it is overwritten.
	LogReplacedOldOCR bool   `toml:"log_replaced_old_ocr"`
	ExiftoolPath      string `toml:"exiftool_path"`
	// BackupOriginal keeps exiftool's "<name>_original" copy of every rewritten file.
	BackupOriginal bool `toml:"backup_original"`
}

// Walk selects the files a batch visits.
type Walk struct {
	Recurse       bool     `toml:"recurse"`
	Extensions    []string `toml:"extensions"`
	CaseSensitive bool     `toml:"case_sensitive"`
}

// OCR configures the Tesseract engine and image preprocessing.
type OCR struct {
	Languages      []string `toml:"languages"`
	TessdataPrefix string   `toml:"tessdata_prefix"`
	Preprocess     bool     `toml:"preprocess"`
	// SkipTextless treats images without text-like regions as "no text"
	// without calling Tesseract.
	SkipTextless bool `toml:"skip_textless"`
	// MinShortSide upscales smaller images before recognition. Zero disables.
	MinShortSide int `toml:"min_short_side"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

// Paths contains directories owned by ocr-exif.
type Paths struct {
	StateDir string `toml:"state_dir"`
}

// Journal toggles the SQLite run journal stored under the state directory.
type Journal struct {
	Enabled bool `toml:"enabled"`
}

// Config encapsulates all configuration values for ocr-exif.
type Config struct {
	Metadata Metadata `toml:"metadata"`
	Walk     Walk     `toml:"walk"`
	OCR      OCR      `toml:"ocr"`
	Logging  Logging  `toml:"logging"`
	Paths    Paths    `toml:"paths"`
	Journal  Journal  `toml:"journal"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. It returns the
// config, the resolved path and whether that file existed. A missing file is
// not an error; defaults are used.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file).DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			var strict *toml.StrictMissingError
			if errors.As(err, &strict) {
				return nil, "", false, fmt.Errorf("parse config: %s", strict.String())
			}
			var decodeErr *toml.DecodeError
			if errors.As(err, &decodeErr) {
				row, col := decodeErr.Position()
				return nil, "", false, fmt.Errorf("parse config %s:%d:%d: %w", resolvedPath, row, col, err)
			}
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = strings.TrimSpace(os.Getenv(EnvConfigPath))
	}
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs(projectConfigFile)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// Policy returns the existing-OCR policy.
func (c *Config) Policy() description.Policy {
	return c.Metadata.ExistingOCRPolicy
}

// WalkOptions converts the [walk] section for the walker.
func (c *Config) WalkOptions() walk.Options {
	return walk.Options{
		Recurse:       c.Walk.Recurse,
		Extensions:    append([]string(nil), c.Walk.Extensions...),
		CaseSensitive: c.Walk.CaseSensitive,
	}
}

// JournalPath is the SQLite journal location.
func (c *Config) JournalPath() string {
	return filepath.Join(c.Paths.StateDir, "journal.db")
}

// LockPath returns the lock file guarding batch runs over dir. Different
// spellings of the same directory map to the same lock once made absolute.
func (c *Config) LockPath(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	sum := sha256.Sum256([]byte(filepath.Clean(abs)))
	return filepath.Join(c.Paths.StateDir, "locks", hex.EncodeToString(sum[:8])+".lock")
}

// EnsureDirectories creates the state directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, filepath.Join(c.Paths.StateDir, "locks")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// Marshal renders the effective configuration as TOML.
func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
