package description

import (
	"fmt"
	"strings"
)

// Policy decides what happens to images that already carry an OCR block.
type Policy int

const (
	// PolicySkip leaves images with an existing OCR block untouched and does
	// not run OCR on them.
	PolicySkip Policy = iota
	// PolicyUpdate re-runs OCR and replaces the old block when the text changed.
	PolicyUpdate
)

// ParsePolicy accepts "skip" or "update" in any case.
func ParsePolicy(value string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "skip":
		return PolicySkip, nil
	case "update":
		return PolicyUpdate, nil
	default:
		return PolicySkip, fmt.Errorf("existing OCR policy: unsupported value %q (want skip or update)", value)
	}
}

func (p Policy) String() string {
	switch p {
	case PolicySkip:
		return "skip"
	case PolicyUpdate:
		return "update"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Policy) MarshalText() ([]byte, error) {
	switch p {
	case PolicySkip, PolicyUpdate:
		return []byte(p.String()), nil
	default:
		return nil, fmt.Errorf("existing OCR policy: invalid value %d", int(p))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Policy) UnmarshalText(text []byte) error {
	parsed, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
