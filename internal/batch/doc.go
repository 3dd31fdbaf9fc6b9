// Package batch runs the OCR-to-description pipeline over a directory tree.
//
// Files are handled strictly one at a time. For each photograph the
// Processor reads the current description, consults the existing-OCR gate
// before any recognition runs, recognizes and normalizes text, merges it into
// the description and writes the result only when it changed.
//
// Every per-file failure, including a panic, is contained in that file's
// FileResult; the batch carries on with the next file. Cancellation of the
// context passed to Run is observed once after each completed file, so the
// file in flight always finishes its write.
package batch
