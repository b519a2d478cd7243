// Package registry stores parsed templates keyed by template id.
// It preserves registration order and indexes templates by category and
// declared channel for inventory queries.
package registry

import (
	"slices"
	"sync"

	"github.com/leapstack-labs/kerygma/pkg/core"
)

// TemplateRegistry maps template ids to templates.
// Writers take the exclusive lock; lookups and listings share the read lock.
type TemplateRegistry struct {
	mu sync.RWMutex

	// byID maps template ids to templates: "repo-launch" → *Template
	byID map[string]*core.Template

	// order lists ids in first-registration order.
	// Re-registering an id replaces the template in place.
	order []string
}

// NewTemplateRegistry creates a new empty registry.
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		byID: make(map[string]*core.Template),
	}
}

// Register adds a template, replacing any template with the same id.
// It reports whether an existing template was replaced.
func (r *TemplateRegistry) Register(tmpl *core.Template) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, replaced := r.byID[tmpl.ID]
	if !replaced {
		r.order = append(r.order, tmpl.ID)
	}
	r.byID[tmpl.ID] = tmpl
	return replaced
}

// Remove deletes the template with the given id.
func (r *TemplateRegistry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return false
	}
	delete(r.byID, id)
	r.order = slices.DeleteFunc(r.order, func(s string) bool { return s == id })
	return true
}

// RemoveSource deletes every template loaded from the given file path and
// returns their ids.
func (r *TemplateRegistry) RemoveSource(source string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed []string
	for _, id := range r.order {
		if tmpl := r.byID[id]; tmpl.Source != "" && tmpl.Source == source {
			removed = append(removed, id)
			delete(r.byID, id)
		}
	}
	if len(removed) > 0 {
		r.order = slices.DeleteFunc(r.order, func(s string) bool { return slices.Contains(removed, s) })
	}
	return removed
}

// Get returns the template for a given id.
func (r *TemplateRegistry) Get(id string) (*core.Template, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tmpl, ok := r.byID[id]
	return tmpl, ok
}

// All returns all registered templates in insertion order.
func (r *TemplateRegistry) All() []*core.Template {
	r.mu.RLock()
	defer r.mu.RUnlock()

	templates := make([]*core.Template, 0, len(r.order))
	for _, id := range r.order {
		templates = append(templates, r.byID[id])
	}
	return templates
}

// Count returns the number of registered templates.
func (r *TemplateRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// ByCategory returns the templates in a category, in insertion order.
func (r *TemplateRegistry) ByCategory(category string) []*core.Template {
	return r.filter(func(t *core.Template) bool { return t.Category == category })
}

// ByChannel returns the templates that declare a channel, in insertion order.
func (r *TemplateRegistry) ByChannel(channel string) []*core.Template {
	return r.filter(func(t *core.Template) bool { return t.HasChannel(channel) })
}

func (r *TemplateRegistry) filter(keep func(*core.Template) bool) []*core.Template {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*core.Template
	for _, id := range r.order {
		if tmpl := r.byID[id]; keep(tmpl) {
			out = append(out, tmpl)
		}
	}
	return out
}

// Categories returns the distinct categories, sorted.
func (r *TemplateRegistry) Categories() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, tmpl := range r.byID {
		seen[tmpl.Category] = struct{}{}
	}
	return sortedKeys(seen)
}

// Channels returns the distinct declared channels across all templates, sorted.
func (r *TemplateRegistry) Channels() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, tmpl := range r.byID {
		for _, ch := range tmpl.Channels {
			seen[ch] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
