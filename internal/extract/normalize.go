package extract

import (
	"regexp"
	"strings"
)

var (
	runSpaces   = regexp.MustCompile(`[ \t]{2,}`)
	runNewlines = regexp.MustCompile(`\n{3,}`)
)

// Normalize canonicalizes extracted text: tabs become single spaces, runs of
// horizontal whitespace collapse to one space, runs of three or more
// newlines collapse to exactly two, and every line plus the whole text is
// trimmed. Idempotent.
func Normalize(raw string) string {
	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "\t", " ")
	s = runSpaces.ReplaceAllString(s, " ")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	s = strings.Join(lines, "\n")
	s = runNewlines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// NormalizeStrict applies Normalize and additionally drops blank lines
// entirely. Used on the DOCX path, where paragraph spacing carries no
// meaning once styles are stripped.
func NormalizeStrict(raw string) string {
	s := Normalize(raw)
	if s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
