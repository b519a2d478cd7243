package core

// Default metadata values applied when frontmatter omits a field.
const (
	DefaultTemplateID = "unknown"
	DefaultCategory   = "general"
)

// Template is a parsed announcement template.
// It is built once from source text and not modified afterwards.
type Template struct {
	ID        string         `json:"template_id"`
	Category  string         `json:"category"`
	Channels  []string       `json:"channels"`
	Variables []string       `json:"variables"` // Declared for documentation; not enforced
	Body      string         `json:"-"`
	Metadata  map[string]any `json:"metadata,omitempty"` // Full frontmatter, superset of the fields above

	// Source is the file the template was read from (empty for literals).
	Source string `json:"source,omitempty"`
	// ContentHash is the sha256 of the full source text.
	ContentHash string `json:"content_hash,omitempty"`
}

// HasChannel reports whether the template declares the given channel.
func (t *Template) HasChannel(channel string) bool {
	for _, ch := range t.Channels {
		if ch == channel {
			return true
		}
	}
	return false
}

// RenderResult is the outcome of rendering one template for one channel.
type RenderResult struct {
	TemplateID     string         `json:"template_id"`
	Channel        string         `json:"channel"`
	Text           string         `json:"text"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	UnresolvedVars []string       `json:"unresolved_vars"`
}
