package config

import "github.com/ironsheep/photo-ocr-exif/internal/description"

const (
	defaultConfigPath   = "~/.config/ocr-exif/config.toml"
	projectConfigFile   = "ocr-exif.toml"
	defaultStateDir     = "~/.local/state/ocr-exif"
	defaultLogLevel     = "info"
	defaultLogFormat    = "console"
	defaultMinShortSide = 1000
)

var (
	defaultExtensions = []string{"jpg", "jpeg"}
	defaultLanguages  = []string{"lav", "eng"}
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Metadata: Metadata{
			ExistingOCRPolicy: description.PolicySkip,
		},
		Walk: Walk{
			Recurse:    true,
			Extensions: append([]string(nil), defaultExtensions...),
		},
		OCR: OCR{
			Languages:    append([]string(nil), defaultLanguages...),
			Preprocess:   true,
			MinShortSide: defaultMinShortSide,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
		Paths: Paths{
			StateDir: defaultStateDir,
		},
		Journal: Journal{
			Enabled: true,
		},
	}
}
