package description

import "strings"

// Marker opens the OCR block inside a description value.
const Marker = "~~~ OCR ~~~"

// Kind tags the two shapes of Outcome.
type Kind int

const (
	KindSkipped Kind = iota
	KindUpdated
)

func (k Kind) String() string {
	if k == KindUpdated {
		return "updated"
	}
	return "skipped"
}

// Reason explains a skipped merge.
type Reason string

const (
	ReasonExistingOCR Reason = "existing-ocr-present-and-skip-policy"
	ReasonNoText      Reason = "no-text-recognized"
	ReasonUnchanged   Reason = "ocr-unchanged"
)

// Outcome is the result of reconciling one image's description.
type Outcome struct {
	Kind Kind

	// Reason is set when Kind is KindSkipped.
	Reason Reason

	// Value is the complete new description when Kind is KindUpdated.
	Value string

	// Replaced holds the previous OCR block that an update discards, empty
	// when the description had none.
	Replaced string
}

// Updated reports whether the description must be rewritten.
func (o Outcome) Updated() bool {
	return o.Kind == KindUpdated
}

func skipped(reason Reason) Outcome {
	return Outcome{Kind: KindSkipped, Reason: reason}
}

// Locate splits a description at the first Marker. user is the trimmed text
// before the marker (or the whole trimmed value when there is no marker) and
// block is the marker plus everything after it.
func Locate(existing string) (user, block string, found bool) {
	idx := strings.Index(existing, Marker)
	if idx < 0 {
		return strings.TrimSpace(existing), "", false
	}
	return strings.TrimSpace(existing[:idx]), existing[idx:], true
}

// Gate reports whether the image can be skipped before OCR runs. It returns a
// skipped Outcome and true only when an OCR block exists and policy is
// PolicySkip.
func Gate(existing string, policy Policy) (Outcome, bool) {
	if policy != PolicySkip {
		return Outcome{}, false
	}
	if !strings.Contains(existing, Marker) {
		return Outcome{}, false
	}
	return skipped(ReasonExistingOCR), true
}

// Block builds the OCR block stored for normalized text.
func Block(normalized string) string {
	return Marker + "\n" + normalized
}

// Merge combines the existing description with freshly normalized OCR text.
//
// The previous OCR block, if any, is dropped; only user content survives
// in front of the new block. The value is never re-prefixed with the old
// description, so running Merge on its own output with the same text yields
// ReasonUnchanged.
func Merge(existing, normalized string, policy Policy) Outcome {
	if out, gated := Gate(existing, policy); gated {
		return out
	}
	if normalized == "" {
		return skipped(ReasonNoText)
	}

	candidate := Block(normalized)
	user, old, found := Locate(existing)
	if found && old == candidate {
		return skipped(ReasonUnchanged)
	}

	value := candidate
	if user != "" {
		value = user + "\n" + candidate
	}
	return Outcome{Kind: KindUpdated, Value: value, Replaced: old}
}
