// Package frontmatter parses the restricted YAML-like header of template files.
//
// A header is a block of "key: value" lines between two "---" delimiter lines
// at the very start of the file. Values are classified as inline lists,
// booleans, unsigned integers or strings; "key:" followed by "- item" lines
// builds a list. Nothing in this package returns an error: malformed lines are
// skipped and callers apply their own defaults.
package frontmatter

import (
	"strconv"
	"strings"
)

// Delimiter opens and closes a frontmatter block.
const Delimiter = "---"

// Metadata maps frontmatter keys to values.
// Values are string, int, bool or []string.
type Metadata map[string]any

// Result holds the result of frontmatter extraction.
type Result struct {
	Metadata Metadata
	Body     string // Content after the closing delimiter line, untrimmed
	Found    bool   // Whether a complete frontmatter block was found
}

// Parse splits text into frontmatter metadata and body.
// Without a complete frontmatter block it returns empty metadata and the
// input unchanged.
func Parse(text string) (Metadata, string) {
	r := Extract(text)
	return r.Metadata, r.Body
}

// HasOpening reports whether text starts with an opening delimiter line.
func HasOpening(text string) bool {
	line, _, ok := nextLine(text, 0)
	return ok && isDelimiter(line)
}

// Extract locates and parses the frontmatter block at the start of text.
func Extract(text string) *Result {
	result := &Result{
		Metadata: Metadata{},
		Body:     text,
	}

	first, pos, ok := nextLine(text, 0)
	if !ok || !isDelimiter(first) {
		return result
	}

	var block []string
	for {
		line, next, ok := nextLine(text, pos)
		if !ok {
			// Opening delimiter without a closing one
			return result
		}
		if isDelimiter(line) {
			result.Found = true
			result.Body = text[next:]
			result.Metadata = parseBlock(block)
			return result
		}
		block = append(block, line)
		pos = next
	}
}

// nextLine returns the line starting at pos (without its terminator) and the
// offset just past the terminator. ok is false when pos is at end of input.
func nextLine(text string, pos int) (line string, next int, ok bool) {
	if pos >= len(text) {
		return "", pos, false
	}
	idx := strings.IndexByte(text[pos:], '\n')
	if idx < 0 {
		return strings.TrimSuffix(text[pos:], "\r"), len(text), true
	}
	return strings.TrimSuffix(text[pos:pos+idx], "\r"), pos + idx + 1, true
}

func isDelimiter(line string) bool {
	return line == Delimiter
}

// parseBlock interprets the lines between the delimiters.
func parseBlock(lines []string) Metadata {
	meta := Metadata{}
	currentKey := ""
	var currentList []string
	listOpen := false

	for _, line := range lines {
		stripped := strings.TrimSpace(line)
		if stripped == "" || strings.HasPrefix(stripped, "#") {
			continue
		}

		// List continuation ("- item") under an open "key:" line
		if strings.HasPrefix(stripped, "- ") && listOpen {
			currentList = append(currentList, strings.TrimSpace(stripped[2:]))
			meta[currentKey] = currentList
			continue
		}

		key, value, found := strings.Cut(stripped, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		currentKey = key
		currentList = nil
		listOpen = false

		if value == "" {
			currentList = []string{}
			listOpen = true
			meta[key] = currentList
			continue
		}
		meta[key] = classify(value)
	}

	return meta
}

// classify converts a scalar value: inline list, then boolean, then unsigned
// integer, then quoted or bare string. Negative numbers and decimals are
// kept as strings.
func classify(value string) any {
	if strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]") {
		return parseInlineList(value[1 : len(value)-1])
	}

	switch strings.ToLower(value) {
	case "true":
		return true
	case "false":
		return false
	}

	if isDigits(value) {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}

	return strings.Trim(value, `'"`)
}

func parseInlineList(inner string) []string {
	items := []string{}
	for _, part := range strings.Split(inner, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		items = append(items, strings.Trim(part, `'"`))
	}
	return items
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Strings returns the value under key as a string list.
// ok is false when the key is missing or does not hold a list.
func (m Metadata) Strings(key string) ([]string, bool) {
	list, ok := m[key].([]string)
	if !ok {
		return nil, false
	}
	out := make([]string, len(list))
	copy(out, list)
	return out, true
}

// Scalar returns the value under key formatted as a string.
// ok is false when the key is missing, holds a list, or is empty.
func (m Metadata) Scalar(key string) (string, bool) {
	switch v := m[key].(type) {
	case string:
		return v, v != ""
	case int:
		return strconv.Itoa(v), true
	case bool:
		return strconv.FormatBool(v), true
	default:
		return "", false
	}
}

// Clone returns a deep copy of the metadata.
func (m Metadata) Clone() map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if list, ok := v.([]string); ok {
			dup := make([]string, len(list))
			copy(dup, list)
			out[k] = dup
			continue
		}
		out[k] = v
	}
	return out
}
