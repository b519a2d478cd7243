// Package output renders command results for terminals, agents and scripts.
//
// Auto mode picks styled text when stdout is a terminal and Markdown
// otherwise, so piped output stays readable without escape codes.
package output

import (
	"io"
	"os"

	"golang.org/x/term"
)

// OutputMode selects how a Renderer formats results.
type OutputMode string //nolint:revive // stutters, but reads better at call sites

// Output modes accepted by --output.
const (
	ModeAuto     OutputMode = "auto"
	ModeText     OutputMode = "text"
	ModeMarkdown OutputMode = "markdown"
	ModeJSON     OutputMode = "json"
)

// Mode converts a config string into an OutputMode. Unknown and empty
// values map to ModeAuto.
func Mode(s string) OutputMode {
	switch OutputMode(s) {
	case ModeText, ModeMarkdown, ModeJSON:
		return OutputMode(s)
	default:
		return ModeAuto
	}
}

// isTerminal reports whether w is a terminal file.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // G115: fd fits in int
}
