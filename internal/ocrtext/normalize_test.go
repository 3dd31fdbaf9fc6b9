package ocrtext

import (
	"strings"
	"testing"
	"unicode"
	"unicode/utf8"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", " \n\t\n  ", ""},
		{"plain text", "Hello world", "Hello world"},
		{"trims ends", "\n\n  Hello world \n", "Hello world"},
		{"collapses spaces", "Hello    world", "Hello world"},
		{"collapses tabs and spaces", "Hello \t\t world", "Hello world"},
		{"keeps single tab", "a\tb", "a\tb"},
		{"drops leading space on line", "first\n second", "first\nsecond"},
		{"drops leading run on line", "first\n    second", "first\nsecond"},
		{"collapses blank lines", "one\n\n\n\ntwo", "one\ntwo"},
		{"blank line with spaces", "one\n  \ntwo", "one\ntwo"},
		{"status bar bare clock", "12:41\nInvoice 2024", "Invoice 2024"},
		{"status bar with fragments", "12:41 4G 87%\nInvoice", "Invoice"},
		{"status bar many fragments", "09:05 .ıl ? LTE @ 5\nBody text", "Body text"},
		{"status bar indented", "text\n  12:41 4G\nmore", "text\nmore"},
		{"status bar trailing space", "12:41 4G  \nBody", "Body"},
		{"status bar crlf", "12:41 4G\r\nBody", "Body"},
		{"status bar last line", "Body\n12:41", "Body"},
		{"clock with long word kept", "12:41 Meeting", "12:41 Meeting"},
		{"clock mid line kept", "Starts at 12:41 sharp", "Starts at 12:41 sharp"},
		{"three digit hour kept", "123:45", "123:45"},
		{"only status bar", "12:41 4G 87%", ""},
		{"unicode fragments", "10:30 ✈ ⚡\nBoarding", "Boarding"},
		{
			name: "screenshot",
			raw:  "14:02  LTE  62\n\n\n   Payment   received\n\n  Amount:  12.50 EUR\n",
			want: "Payment received\nAmount: 12.50 EUR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.raw)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"Hello world",
		"x\n 12:30",
		" 12:30",
		" 12:30 ab",
		"a\n\t\nb",
		"a\n \t b",
		"12:30 abc \nnext",
		"  lead\n\n\n  12:00 x y z\n tail  ",
		"mixed \t \t spacing\n\n \n line",
		"\n \n 09:15\n \n",
	}

	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestNormalize_NoSurroundingWhitespace(t *testing.T) {
	inputs := []string{
		"  text  ",
		"\n\ttext\t\n",
		" text　",
		"12:00\n  body \n",
	}

	for _, in := range inputs {
		out := Normalize(in)
		if out == "" {
			continue
		}
		first, _ := utf8.DecodeRuneInString(out)
		last, _ := utf8.DecodeLastRuneInString(out)
		if unicode.IsSpace(first) || unicode.IsSpace(last) {
			t.Errorf("Normalize(%q) = %q has surrounding whitespace", in, out)
		}
	}
}

func FuzzNormalize(f *testing.F) {
	seeds := []string{
		"",
		"12:41 4G 87%\nInvoice",
		"a  b\n\n c",
		" 12:30",
		"\r\n12:00\r\n",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, raw string) {
		once := Normalize(raw)
		if twice := Normalize(once); twice != once {
			t.Fatalf("not idempotent: %q -> %q -> %q", raw, once, twice)
		}
		if once != strings.TrimSpace(once) {
			t.Fatalf("surrounding whitespace in %q", once)
		}
	})
}
