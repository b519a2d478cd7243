package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Renderer writes command output in the selected mode.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   OutputMode
	isTTY  bool

	Styles Styles
}

// NewRenderer creates a renderer, detecting whether out is a terminal.
func NewRenderer(out, errOut io.Writer, mode OutputMode) *Renderer {
	return NewRendererWithTTY(out, errOut, isTerminal(out), mode)
}

// NewRendererWithTTY creates a renderer with an explicit terminal state.
func NewRendererWithTTY(out, errOut io.Writer, isTTY bool, mode OutputMode) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}
	r := &Renderer{
		out:    out,
		errOut: errOut,
		mode:   mode,
		isTTY:  isTTY,
	}
	r.Styles = NewStyles(r.EffectiveMode() == ModeText && isTTY)
	return r
}

// Mode returns the configured mode, which may be ModeAuto.
func (r *Renderer) Mode() OutputMode {
	return r.mode
}

// EffectiveMode resolves ModeAuto against the terminal state.
func (r *Renderer) EffectiveMode() OutputMode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// IsTTY reports whether stdout is a terminal.
func (r *Renderer) IsTTY() bool {
	return r.isTTY
}

// Writer returns the stdout writer.
func (r *Renderer) Writer() io.Writer {
	return r.out
}

// ErrWriter returns the stderr writer.
func (r *Renderer) ErrWriter() io.Writer {
	return r.errOut
}

// Println writes a line to stdout.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.out, a...)
}

// Printf writes formatted text to stdout.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.out, format, a...)
}

// Header writes a section header.
func (r *Renderer) Header(level int, text string) {
	if r.EffectiveMode() == ModeMarkdown {
		r.Println(FormatHeader(level, text))
		r.Println()
		return
	}
	r.Println(r.Styles.Header.Render(text))
}

// Success writes a success line to stdout.
func (r *Renderer) Success(msg string) {
	r.Println(r.Styles.Success.Render(msg))
}

// Muted writes de-emphasized text to stdout.
func (r *Renderer) Muted(msg string) {
	r.Println(r.Styles.Muted.Render(msg))
}

// Warning writes a warning to stderr.
func (r *Renderer) Warning(msg string) {
	_, _ = fmt.Fprintln(r.errOut, r.Styles.Warning.Render(msg))
}

// Error writes an error to stderr.
func (r *Renderer) Error(msg string) {
	_, _ = fmt.Fprintln(r.errOut, r.Styles.Error.Render(msg))
}

// StatusLine writes "  [STATUS] name: detail", coloring the status in text mode.
func (r *Renderer) StatusLine(name, status, detail string) {
	label := "[" + status + "]"
	switch status {
	case StatusPass, StatusOK:
		label = r.Styles.Success.Render(label)
	case StatusFail:
		label = r.Styles.Error.Render(label)
	}
	line := "  " + label + " " + name
	if detail != "" {
		line += ": " + detail
	}
	r.Println(line)
}

// KeyValue writes a labelled value.
func (r *Renderer) KeyValue(key, value string) {
	if r.EffectiveMode() == ModeMarkdown {
		r.Println(FormatKeyValue(key, value))
		return
	}
	r.Println(r.Styles.Key.Render(key+":") + " " + value)
}

// Table writes rows under header. Text mode draws a box table, Markdown mode
// writes a pipe table.
func (r *Renderer) Table(header []string, rows [][]string) {
	t := table.NewWriter()
	t.AppendHeader(toRow(header))
	for _, row := range rows {
		t.AppendRow(toRow(row))
	}

	if r.EffectiveMode() == ModeMarkdown {
		r.Println(t.RenderMarkdown())
		return
	}
	t.SetStyle(table.StyleLight)
	r.Println(t.Render())
}

// JSON writes v as indented JSON to stdout.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON output: %w", err)
	}
	return nil
}

// Block writes preformatted text, fenced in Markdown mode.
func (r *Renderer) Block(lang, text string) {
	if r.EffectiveMode() == ModeMarkdown {
		r.Println(FormatCodeBlock(lang, text))
		return
	}
	r.Println(strings.TrimRight(text, "\n"))
}

func toRow(cells []string) table.Row {
	row := make(table.Row, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}
