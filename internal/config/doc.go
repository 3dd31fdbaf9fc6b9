// Package config loads, normalizes, and validates ocr-exif configuration.
//
// Settings come from a TOML file (by default ~/.config/ocr-exif/config.toml,
// falling back to ./ocr-exif.toml), layered over repository defaults, with a
// small set of environment overrides:
//
//	OCR_EXIF_CONFIG     configuration file path when --config is not given
//	OCR_EXIF_LOG_LEVEL  overrides [logging] level
//	OCR_EXIF_POLICY     overrides [metadata] existing_ocr_policy
//	TESSDATA_PREFIX     used when [ocr] tessdata_prefix is empty
//
// The existing-OCR policy, recursion and old-OCR logging are deliberately
// configuration-time choices; the CLI only takes the directory to process.
package config
