// Package description reconciles a fresh OCR result with the text already
// stored in an image's description field.
//
// A description may hold free text written by a person, a machine-generated
// OCR block, or both. The OCR block starts at the first occurrence of Marker
// and runs to the end of the value; anything before it is user content and is
// always preserved. Everything after the first marker, including any stray
// copies of the marker, belongs to the block and is replaced wholesale.
//
// Decisions are returned as an Outcome rather than signalled through errors:
// a merge either skips (with a Reason) or produces the new description value.
//
// Callers must consult Gate before running OCR. When a block already exists
// and the policy is PolicySkip there is no point paying for recognition.
package description
