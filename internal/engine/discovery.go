package engine

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/leapstack-labs/kerygma/internal/frontmatter"
	"github.com/leapstack-labs/kerygma/internal/template"
)

// DiscoveryOptions configures a directory load.
type DiscoveryOptions struct {
	Dir              string // Root of the template tree
	ForceFullRefresh bool   // Save every template to the store, ignoring content hashes
}

// DiscoveryResult contains statistics about a directory load.
type DiscoveryResult struct {
	Loaded    int // Files registered as templates
	Changed   int // Templates whose content hash differs from the store
	Unchanged int // Templates whose content hash matches the store
	Replaced  []string

	// Skipped lists files without a frontmatter opening line.
	Skipped []string

	// Errors (non-fatal)
	Errors []DiscoveryError

	// Timing
	Duration time.Duration
}

// DiscoveryError represents a non-fatal error during discovery.
type DiscoveryError struct {
	Path    string
	Type    string // "walk", "read", "hash", "save"
	Message string
}

// HasErrors returns true if any errors occurred.
func (r *DiscoveryResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// Summary returns a human-readable summary.
func (r *DiscoveryResult) Summary() string {
	return fmt.Sprintf(
		"Templates: %d loaded (%d changed, %d unchanged, %d skipped) | Duration: %s",
		r.Loaded, r.Changed, r.Unchanged, len(r.Skipped),
		r.Duration.Round(time.Millisecond),
	)
}

// LoadDirectory registers every template file under dir and returns the
// number of files recognized as templates. Files that do not start with a
// frontmatter opening line are skipped silently.
func (e *Engine) LoadDirectory(dir string) (int, error) {
	result, err := e.Discover(context.Background(), DiscoveryOptions{Dir: dir})
	if err != nil {
		return 0, err
	}
	return result.Loaded, nil
}

// Discover walks opts.Dir recursively and registers template files in
// sorted path order. An unreadable root is an error; problems with
// individual files are recorded in the result.
func (e *Engine) Discover(ctx context.Context, opts DiscoveryOptions) (*DiscoveryResult, error) {
	start := time.Now()
	result := &DiscoveryResult{}

	e.logger.Info("starting discovery", "dir", opts.Dir)

	paths, err := e.findTemplateFiles(opts.Dir, result)
	if err != nil {
		return nil, err
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		e.loadFile(ctx, path, opts.ForceFullRefresh, result)
	}

	result.Duration = time.Since(start)

	e.logger.Info("discovery completed",
		"templates_loaded", result.Loaded,
		"templates_changed", result.Changed,
		"files_skipped", len(result.Skipped),
		"errors", len(result.Errors),
		"duration_ms", result.Duration.Milliseconds())

	return result, nil
}

// findTemplateFiles returns the template files under dir, sorted.
func (e *Engine) findTemplateFiles(dir string, result *DiscoveryResult) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("template directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("template directory %s: not a directory", dir)
	}

	var paths []string
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == dir {
				return walkErr
			}
			result.Errors = append(result.Errors, DiscoveryError{
				Path: path, Type: "walk", Message: walkErr.Error(),
			})
			return nil
		}
		if d.IsDir() || !e.IsTemplateFile(d.Name()) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk template directory: %w", err)
	}

	slices.Sort(paths)
	return paths, nil
}

// IsTemplateFile reports whether name has one of the engine's template
// extensions. Matching is case-insensitive.
func (e *Engine) IsTemplateFile(name string) bool {
	ext := filepath.Ext(name)
	for _, want := range e.extensions {
		if strings.EqualFold(ext, want) {
			return true
		}
	}
	return false
}

// loadFile parses and registers one file, recording the outcome.
func (e *Engine) loadFile(ctx context.Context, path string, force bool, result *DiscoveryResult) {
	content, err := os.ReadFile(path) //nolint:gosec // G304: path comes from filepath.WalkDir
	if err != nil {
		result.Errors = append(result.Errors, DiscoveryError{
			Path: path, Type: "read", Message: err.Error(),
		})
		return
	}

	text := string(content)
	if !frontmatter.HasOpening(text) {
		e.logger.Debug("skipping file without frontmatter", "path", path)
		result.Skipped = append(result.Skipped, path)
		return
	}

	tmpl := template.Parse(text)
	tmpl.Source = path

	if _, exists := e.registry.Get(tmpl.ID); exists {
		result.Replaced = append(result.Replaced, tmpl.ID)
	}
	e.Register(tmpl)
	result.Loaded++

	if e.store == nil {
		return
	}

	if !force {
		existing, err := e.store.GetContentHash(ctx, tmpl.ID)
		if err != nil {
			result.Errors = append(result.Errors, DiscoveryError{
				Path: path, Type: "hash", Message: err.Error(),
			})
		} else if existing == tmpl.ContentHash {
			e.logger.Debug("template unchanged", "template_id", tmpl.ID, "path", path)
			result.Unchanged++
			return
		}
	}

	result.Changed++
	if err := e.store.SaveTemplate(ctx, tmpl); err != nil {
		result.Errors = append(result.Errors, DiscoveryError{
			Path: path, Type: "save", Message: err.Error(),
		})
	}
}
