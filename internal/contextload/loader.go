// Package contextload builds render contexts from the organ registry.
//
// The registry is a JSON (or YAML) document listing organs and their
// repositories. A Loader indexes the repositories by name and combines one of
// them with an announcement event into the context tree consumed by the
// template engine.
package contextload

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

// DefaultTier is assigned to repositories without a tier.
const DefaultTier = "standard"

// RepoContext is one repository entry from the registry.
type RepoContext struct {
	Name                 string         `mapstructure:"name"`
	Organ                string         `mapstructure:"-"`
	Description          string         `mapstructure:"description"`
	Tier                 string         `mapstructure:"tier"`
	URL                  string         `mapstructure:"url"`
	ImplementationStatus string         `mapstructure:"implementation_status"`
	Metadata             map[string]any `mapstructure:"-"` // Full registry entry
}

// Config configures a Loader.
type Config struct {
	// Now returns the current time; used for default event dates (default time.Now)
	Now func() time.Time
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Loader indexes registry repositories and builds render contexts.
type Loader struct {
	mu     sync.RWMutex
	raw    map[string]any
	repos  map[string]*RepoContext
	order  []string
	now    func() time.Time
	logger *slog.Logger
}

// New creates an empty loader.
func New(cfg Config) *Loader {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Loader{
		raw:    map[string]any{},
		repos:  make(map[string]*RepoContext),
		now:    now,
		logger: logger,
	}
}

// Load reads a registry file and indexes its repositories.
// Organs are read from the "organs" key, or from the document root when that
// key is absent, and visited in sorted key order. Entries without a name are
// ignored. It returns the number of repositories parsed from the file.
func (l *Loader) Load(path string) (int, error) {
	data, err := os.ReadFile(path) //nolint:gosec // registry path is user configuration
	if err != nil {
		return 0, fmt.Errorf("read registry: %w", err)
	}

	raw, err := decodeDocument(path, data)
	if err != nil {
		return 0, fmt.Errorf("parse registry %s: %w", path, err)
	}

	organs, ok := raw["organs"].(map[string]any)
	if !ok {
		if _, present := raw["organs"]; present {
			organs = nil
		} else {
			organs = raw
		}
	}

	parsed := make([]*RepoContext, 0)
	keys := make([]string, 0, len(organs))
	for key := range organs {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	for _, organKey := range keys {
		organData, ok := organs[organKey].(map[string]any)
		if !ok {
			continue
		}
		entries, _ := organData["repos"].([]any)
		for _, entry := range entries {
			repo, err := decodeRepo(organKey, entry)
			if err != nil {
				l.logger.Debug("skipping registry entry", "organ", organKey, "error", err)
				continue
			}
			if repo != nil {
				parsed = append(parsed, repo)
			}
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.raw = raw
	for _, repo := range parsed {
		if _, exists := l.repos[repo.Name]; !exists {
			l.order = append(l.order, repo.Name)
		}
		l.repos[repo.Name] = repo
	}

	l.logger.Debug("loaded registry", "path", path, "repos", len(parsed))
	return len(parsed), nil
}

// decodeRepo converts one registry entry. It returns nil for entries that are
// not objects or have no name.
func decodeRepo(organ string, entry any) (*RepoContext, error) {
	fields, ok := entry.(map[string]any)
	if !ok {
		return nil, nil
	}
	if _, ok := fields["name"]; !ok {
		return nil, nil
	}

	repo := &RepoContext{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           repo,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(fields); err != nil {
		return nil, fmt.Errorf("decode repo: %w", err)
	}

	repo.Organ = organ
	if _, ok := fields["tier"]; !ok {
		repo.Tier = DefaultTier
	}
	repo.Metadata = fields
	return repo, nil
}

// decodeDocument parses JSON, or YAML for .yaml/.yml paths, into a map.
func decodeDocument(path string, data []byte) (map[string]any, error) {
	var doc map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}

// GetRepo returns the repository with the given name.
func (l *Loader) GetRepo(name string) (*RepoContext, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	repo, ok := l.repos[name]
	return repo, ok
}

// ListRepos returns repositories in load order, optionally limited to one organ.
func (l *Loader) ListRepos(organ string) []*RepoContext {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*RepoContext, 0, len(l.order))
	for _, name := range l.order {
		repo := l.repos[name]
		if organ == "" || repo.Organ == organ {
			out = append(out, repo)
		}
	}
	return out
}

// RepoCount returns the number of indexed repositories.
func (l *Loader) RepoCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.repos)
}

// Raw returns the last loaded registry document.
func (l *Loader) Raw() map[string]any {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.raw
}
