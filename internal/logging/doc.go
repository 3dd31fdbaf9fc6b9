// Package logging builds the slog loggers used by ocr-exif.
//
// Two formats are supported: a compact console format meant for people
// watching a batch run (coloured when the output is a terminal) and a JSON
// format for log collectors. Both can be mirrored into a log file. Per-file
// log lines carry the "file" attribute so a run can be grepped by path.
package logging
