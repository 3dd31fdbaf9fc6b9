// Package ocrtext cleans raw Tesseract output into the canonical text block
// that is stored in an image's description field.
//
// # Rules
//
// Normalize applies a fixed sequence of rewrites; later rules rely on the
// cleanup done by earlier ones:
//
//  1. Drop smartphone status-bar lines: a clock stamp (HH:MM) optionally
//     followed by short 1-3 character fragments, e.g. "12:41 4G 87%" read
//     from a screenshot's top bar.
//  2. Collapse runs of spaces and tabs into a single space.
//  3. Drop a single space that starts a line.
//  4. Collapse consecutive newlines (removing blank lines).
//  5. Trim surrounding whitespace.
//
// The result may be empty, which callers treat as "no text recognised".
// Normalize is idempotent: feeding its output back in returns it unchanged.
package ocrtext
