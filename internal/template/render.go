package template

import (
	"regexp"
	"strings"

	"github.com/leapstack-labs/kerygma/pkg/core"
)

var (
	channelBlockRe = regexp.MustCompile(`(?s)\{\{#channel\s+([\p{L}\p{N}_]+)\s*\}\}(.*?)\{\{/channel\}\}`)
	variableRe     = regexp.MustCompile(`\{\{\s*([\p{L}\p{N}_.]+)\s*\}\}`)
)

// Render runs the render pipeline for one template, context and channel.
// A nil context behaves like an empty map.
// The only error is a *LimitError from conditional resolution.
func Render(tmpl *core.Template, ctx core.Value, channel string) (*core.RenderResult, error) {
	if ctx == nil {
		ctx = core.Map{}
	}

	text := ExtractChannel(tmpl.Body, channel)

	text, err := resolveConditionals(text, ctx, tmpl.ID)
	if err != nil {
		return nil, err
	}

	text, unresolved := Interpolate(text, ctx)

	return &core.RenderResult{
		TemplateID:     tmpl.ID,
		Channel:        channel,
		Text:           Clean(text),
		Metadata:       cloneMetadata(tmpl.Metadata),
		UnresolvedVars: unresolved,
	}, nil
}

// ExtractChannel selects the content for channel.
//
// A body without channel blocks is returned unchanged. When a block names
// the channel, its trimmed content is returned and everything else is
// dropped. Otherwise all blocks are removed and the remaining shared text is
// returned trimmed.
func ExtractChannel(body, channel string) string {
	matches := channelBlockRe.FindAllStringSubmatch(body, -1)
	if len(matches) == 0 {
		return body
	}

	for _, m := range matches {
		if m[1] == channel {
			return strings.TrimSpace(m[2])
		}
	}

	return strings.TrimSpace(channelBlockRe.ReplaceAllString(body, ""))
}

// Interpolate substitutes {{ path }} markers with values from ctx.
// Markers whose path is missing or null stay verbatim and their paths are
// returned in order of occurrence, duplicates included.
func Interpolate(text string, ctx core.Value) (string, []string) {
	unresolved := []string{}
	locs := variableRe.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return text, unresolved
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0

	for _, loc := range locs {
		path := text[loc[2]:loc[3]]
		b.WriteString(text[last:loc[0]])

		value, ok := core.Lookup(ctx, path)
		if !ok || value.Kind() == core.KindNull {
			unresolved = append(unresolved, path)
			b.WriteString(text[loc[0]:loc[1]])
		} else {
			b.WriteString(value.String())
		}
		last = loc[1]
	}
	b.WriteString(text[last:])

	return b.String(), unresolved
}

// Clean collapses runs of blank lines to a single blank line and trims the
// result.
func Clean(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	prevBlank := false

	for _, line := range lines {
		blank := strings.TrimSpace(line) == ""
		if blank && prevBlank {
			continue
		}
		cleaned = append(cleaned, line)
		prevBlank = blank
	}

	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}

func cloneMetadata(meta map[string]any) map[string]any {
	out := make(map[string]any, len(meta))
	for k, v := range meta {
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
