// Package metadata reads and writes the EXIF ImageDescription of photographs.
//
// ExifStore drives a long-lived exiftool process (via go-exiftool) and is the
// only writer. It touches ImageDescription alone; every other tag, the image
// data and the file layout are left to exiftool to preserve. Multi-line
// values are handed to exiftool through a temporary file so line breaks
// survive its argument protocol.
//
// ProbeDescription is a pure-Go read path (goexif) that needs no external
// binary and is used for read-only reports.
//
// A file without an EXIF block, or without the tag, reads as "".
package metadata
