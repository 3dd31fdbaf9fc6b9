package ocrtext

import (
	"regexp"
	"strings"
)

// lineSpace matches whitespace that strings.TrimSpace would remove, minus the
// newline. The status-bar rule tolerates it at both ends of a line so that a
// second pass never finds a new match after trimming.
const lineSpace = `[\t\v\f\r\x{85}\x{2028}\x{2029}\p{Zs}]*`

var (
	statusBarLine = regexp.MustCompile(`(?m)^` + lineSpace + `\d\d:\d\d(?:[ \t]+\S{1,3})*` + lineSpace + `$`)
	spaceRun      = regexp.MustCompile(`[ \t]{2,}`)
	newlineRuns   = regexp.MustCompile(`\n{2,}`)
)

// Normalize cleans raw OCR output. It never fails; garbage input simply
// normalizes to whatever survives the rules, possibly the empty string.
func Normalize(raw string) string {
	text := statusBarLine.ReplaceAllString(raw, "")
	text = spaceRun.ReplaceAllString(text, " ")
	text = strings.ReplaceAll(text, "\n ", "\n")
	text = newlineRuns.ReplaceAllString(text, "\n")
	return strings.TrimSpace(text)
}
