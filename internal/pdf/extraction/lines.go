package extraction

import "strings"

// ParseColonLines reads "Label: value" lines from text into fields.
// The label is everything before the first colon; lines without a colon are skipped.
// Existing labels are overwritten, so later text wins.
func ParseColonLines(text string, fields map[string]string) {
	for _, line := range splitLines(text) {
		label, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		fields[strings.TrimSpace(label)] = strings.TrimSpace(value)
	}
}

// splitLines breaks on \n, \r\n, \r and the other Unicode line boundaries
func splitLines(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		switch r {
		case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\x85', '\u2028', '\u2029':
			return true
		}
		return false
	})
}
