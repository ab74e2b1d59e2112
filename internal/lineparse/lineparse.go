// Package lineparse turns free-form generated text into an ordered list of
// discrete items. It is the only mechanism in the engine that converts
// unstructured model output into query strings or list entries.
package lineparse

import "strings"

// bulletRunes are leading characters stripped from list items.
const bulletRunes = "-*•·"

// Lines splits raw text into non-empty trimmed lines in original order, with
// numbering and bullet prefixes stripped. Input with no usable content yields
// an empty slice, never an error.
func Lines(raw string) []string {
	var items []string
	for _, line := range strings.Split(raw, "\n") {
		item := CleanItem(line)
		if item == "" {
			continue
		}
		items = append(items, item)
	}
	return items
}

// CleanItem trims whitespace and strips a single leading bullet or
// "1." / "1)" style numbering from one line.
func CleanItem(line string) string {
	s := strings.TrimSpace(line)

	// Bullet prefix: "- item", "* item", "• item".
	trimmed := strings.TrimLeft(s, bulletRunes)
	if trimmed != s {
		s = strings.TrimSpace(trimmed)
	}

	// Numbering prefix: "1. item", "12) item", "3 item" is left alone.
	if i := numberingEnd(s); i > 0 {
		s = strings.TrimSpace(s[i:])
	}

	return s
}

// numberingEnd returns the index just past a "<digits>." or "<digits>)"
// prefix, or 0 when the line is not numbered.
func numberingEnd(s string) int {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(s) {
		return 0
	}
	if s[i] == '.' || s[i] == ')' {
		return i + 1
	}
	return 0
}
