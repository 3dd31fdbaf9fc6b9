// Command ocr-exif recognizes text in photographs and stores it in each
// image's EXIF ImageDescription, below any caption the photographer wrote.
//
// Usage:
//
//	ocr-exif <directory>             process every JPEG under directory
//	ocr-exif scan <directory>        report which photos already carry OCR text
//	ocr-exif history [--run ID]      show past runs from the journal
//	ocr-exif config init|show|validate
//
// Whether photos that already have OCR text are skipped or re-recognized is
// chosen in the configuration file ([metadata] existing_ocr_policy), not on
// the command line. Interrupting a run (Ctrl-C) finishes the current photo
// and then stops.
//
// Exit status is 1 for usage errors and setup failures (invalid
// configuration, exiftool missing, another run on the same directory) and 0
// otherwise, including when individual photos fail.
package main
