// Package engine owns the template registry and renders announcements.
// It loads template files from disk, keeps them keyed by template id and
// runs the render pipeline for a template, context and channel.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/kerygma/internal/registry"
	"github.com/leapstack-labs/kerygma/internal/template"
	"github.com/leapstack-labs/kerygma/pkg/core"
)

// DefaultExtension is the file extension of template sources.
const DefaultExtension = ".md"

// ErrNotFound is matched by errors returned for unknown template ids.
var ErrNotFound = errors.New("template not found")

// NotFoundError reports a render of an unregistered template id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("template %q not found", e.ID)
}

// Is makes errors.Is(err, ErrNotFound) succeed.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// InventoryStore persists the template inventory between runs.
// Discovery uses it to tell changed templates from unchanged ones.
type InventoryStore interface {
	GetContentHash(ctx context.Context, templateID string) (string, error)
	SaveTemplate(ctx context.Context, tmpl *core.Template) error
}

// Config holds engine configuration.
type Config struct {
	// Extensions lists the file extensions treated as templates (default ".md")
	Extensions []string
	// Store records discovered templates (optional)
	Store InventoryStore
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Engine renders registered templates.
// Renders may run concurrently with each other and with registration.
type Engine struct {
	logger     *slog.Logger
	extensions []string
	store      InventoryStore
	registry   *registry.TemplateRegistry
}

// New creates an engine with an empty registry.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	extensions := cfg.Extensions
	if len(extensions) == 0 {
		extensions = []string{DefaultExtension}
	}

	return &Engine{
		logger:     logger,
		extensions: extensions,
		store:      cfg.Store,
		registry:   registry.NewTemplateRegistry(),
	}
}

// Register adds a template, replacing any template with the same id.
func (e *Engine) Register(tmpl *core.Template) {
	if e.registry.Register(tmpl) {
		e.logger.Debug("replaced template", "template_id", tmpl.ID, "source", tmpl.Source)
		return
	}
	e.logger.Debug("registered template", "template_id", tmpl.ID, "source", tmpl.Source)
}

// RegisterText parses source text and registers the result.
func (e *Engine) RegisterText(text string) *core.Template {
	tmpl := template.Parse(text)
	e.Register(tmpl)
	return tmpl
}

// RemoveSource drops templates that were loaded from path.
func (e *Engine) RemoveSource(path string) []string {
	removed := e.registry.RemoveSource(path)
	if len(removed) > 0 {
		e.logger.Debug("removed templates", "source", path, "template_ids", removed)
	}
	return removed
}

// GetTemplate returns the template registered under id.
func (e *Engine) GetTemplate(id string) (*core.Template, bool) {
	return e.registry.Get(id)
}

// List returns all registered templates in insertion order.
func (e *Engine) List() []*core.Template {
	return e.registry.All()
}

// Count returns the number of registered templates.
func (e *Engine) Count() int {
	return e.registry.Count()
}

// Categories returns the distinct template categories, sorted.
func (e *Engine) Categories() []string {
	return e.registry.Categories()
}

// Channels returns every channel declared by a template, sorted.
func (e *Engine) Channels() []string {
	return e.registry.Channels()
}

// ByCategory returns the templates in a category, in insertion order.
func (e *Engine) ByCategory(category string) []*core.Template {
	return e.registry.ByCategory(category)
}

// Render renders template id for channel against ctx.
// It returns a *NotFoundError when id is not registered.
func (e *Engine) Render(id string, ctx core.Value, channel string) (*core.RenderResult, error) {
	tmpl, ok := e.registry.Get(id)
	if !ok {
		return nil, &NotFoundError{ID: id}
	}

	result, err := template.Render(tmpl, ctx, channel)
	if err != nil {
		return nil, fmt.Errorf("render %s/%s: %w", id, channel, err)
	}

	if len(result.UnresolvedVars) > 0 {
		e.logger.Debug("render left unresolved variables",
			"template_id", id,
			"channel", channel,
			"unresolved", result.UnresolvedVars)
	}
	return result, nil
}
