// Package template parses announcement templates and renders them.
//
// Rendering runs four stages over the template body, always in this order:
//
//  1. channel extraction over {{#channel name}}...{{/channel}} blocks
//  2. conditional resolution of {{#if path}}...{{#else}}...{{/if}}
//  3. interpolation of {{ path }} markers
//  4. blank-line cleanup
//
// Every stage is a pure function of its input text and the render context.
package template

import (
	"crypto/sha256"
	"encoding/hex"
	"os"

	"github.com/leapstack-labs/kerygma/internal/frontmatter"
	"github.com/leapstack-labs/kerygma/pkg/core"
)

// Parse builds a Template from source text.
// Missing or malformed fields take their defaults; Parse never fails.
func Parse(text string) *core.Template {
	meta, body := frontmatter.Parse(text)

	tmpl := &core.Template{
		ID:          core.DefaultTemplateID,
		Category:    core.DefaultCategory,
		Channels:    []string{},
		Variables:   []string{},
		Body:        body,
		Metadata:    meta.Clone(),
		ContentHash: ComputeHash(text),
	}

	if id, ok := meta.Scalar("template_id"); ok {
		tmpl.ID = id
	}
	if category, ok := meta.Scalar("category"); ok {
		tmpl.Category = category
	}
	if channels, ok := meta.Strings("channels"); ok {
		tmpl.Channels = channels
	}
	if variables, ok := meta.Strings("variables"); ok {
		tmpl.Variables = variables
	}

	return tmpl
}

// ParseFile reads a UTF-8 template file and parses it.
func ParseFile(path string) (*core.Template, error) {
	content, err := os.ReadFile(path) //nolint:gosec // template paths come from directory discovery
	if err != nil {
		return nil, &ReadError{Path: path, Cause: err}
	}

	tmpl := Parse(string(content))
	tmpl.Source = path
	return tmpl, nil
}

// ComputeHash returns the hex sha256 of template source text.
func ComputeHash(content string) string {
	h := sha256.Sum256([]byte(content))
	return hex.EncodeToString(h[:])
}
