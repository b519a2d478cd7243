package template

import (
	"errors"
	"fmt"
)

// ErrConditionalLimit is returned when conditional resolution does not settle
// within MaxConditionalPasses passes.
var ErrConditionalLimit = errors.New("conditional resolution did not converge")

// Error is the base interface for template errors that carry a location.
type Error interface {
	error
	Position() Position
}

// baseError provides common error functionality.
type baseError struct {
	pos Position
	msg string
}

func (e *baseError) Position() Position { return e.pos }
func (e *baseError) Error() string {
	if e.pos.File != "" {
		return fmt.Sprintf("%s:%d:%d: %s", e.pos.File, e.pos.Line, e.pos.Column, e.msg)
	}
	return fmt.Sprintf("%d:%d: %s", e.pos.Line, e.pos.Column, e.msg)
}

// LimitError reports a render that hit the conditional pass limit.
// Pos is the first conditional tag still present after the last pass.
type LimitError struct {
	baseError
	TemplateID string
	Passes     int
}

// NewLimitError creates a new limit error.
func NewLimitError(pos Position, templateID string, passes int) *LimitError {
	return &LimitError{
		baseError:  baseError{pos: pos, msg: fmt.Sprintf("template %q: conditionals unresolved after %d passes", templateID, passes)},
		TemplateID: templateID,
		Passes:     passes,
	}
}

func (e *LimitError) Unwrap() error {
	return ErrConditionalLimit
}

// ReadError wraps a failure to read a template file.
type ReadError struct {
	Path  string
	Cause error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read template %s: %v", e.Path, e.Cause)
}

func (e *ReadError) Unwrap() error {
	return e.Cause
}
