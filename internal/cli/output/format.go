package output

import (
	"fmt"
	"strings"
)

// Status labels used by StatusLine.
const (
	StatusPass = "PASS"
	StatusFail = "FAIL"
	StatusOK   = "OK"
)

// FormatHeader returns a Markdown header of the given level (1-6).
func FormatHeader(level int, text string) string {
	level = max(1, min(level, 6))
	return strings.Repeat("#", level) + " " + text
}

// FormatKeyValue returns a Markdown list item with a bold key.
func FormatKeyValue(key, value string) string {
	return fmt.Sprintf("- **%s**: %s", key, value)
}

// FormatCodeBlock returns text in a fenced code block.
func FormatCodeBlock(lang, text string) string {
	return "```" + lang + "\n" + strings.TrimRight(text, "\n") + "\n```"
}

// FormatList joins items with commas, or returns "-" for none.
func FormatList(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ", ")
}
