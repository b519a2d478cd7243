// Package export generates the static template registry artifact: the
// template inventory, channel limits and a quality summary computed by
// rendering every template for every declared channel.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"time"

	"github.com/natefinch/atomic"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/kerygma/internal/quality"
	"github.com/leapstack-labs/kerygma/pkg/core"
)

// Fixed identity fields of the exported document.
const (
	Organ     = "VII"
	OrganName = "Kerygma"
	Repo      = "announcement-templates"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// FileBase is the output file name without extension.
const FileBase = "template-registry"

// Source is the template collection being exported.
type Source interface {
	List() []*core.Template
	Render(id string, data core.Value, channel string) (*core.RenderResult, error)
}

// TemplateEntry describes one template in the inventory.
type TemplateEntry struct {
	TemplateID string   `json:"template_id" yaml:"template_id"`
	Category   string   `json:"category" yaml:"category"`
	Channels   []string `json:"channels" yaml:"channels"`
	Variables  []string `json:"variables" yaml:"variables"`
}

// Inventory lists the loaded templates.
type Inventory struct {
	TemplateCount int             `json:"template_count" yaml:"template_count"`
	Categories    []string        `json:"categories" yaml:"categories"`
	AllChannels   []string        `json:"all_channels" yaml:"all_channels"`
	Templates     []TemplateEntry `json:"templates" yaml:"templates"`
}

// QualitySummary counts check outcomes across all template/channel pairs.
// A failed warning counts toward Warnings; any other failure toward Failed.
type QualitySummary struct {
	TotalChecks int `json:"total_checks" yaml:"total_checks"`
	Passed      int `json:"passed" yaml:"passed"`
	Failed      int `json:"failed" yaml:"failed"`
	Warnings    int `json:"warnings" yaml:"warnings"`
}

// Document is the exported registry artifact.
type Document struct {
	GeneratedAt string `json:"generated_at" yaml:"generated_at"`
	Organ       string `json:"organ" yaml:"organ"`
	OrganName   string `json:"organ_name" yaml:"organ_name"`
	Repo        string `json:"repo" yaml:"repo"`
	Inventory   `yaml:",inline"`
	// ChannelLimits maps channel names to character limits
	ChannelLimits  map[string]int `json:"channel_limits" yaml:"channel_limits"`
	QualitySummary QualitySummary `json:"quality_summary" yaml:"quality_summary"`
}

// Outcome is the result of rendering and checking one template for one channel.
type Outcome struct {
	TemplateID string
	Channel    string
	Report     *core.QualityReport // nil when rendering failed
	Err        error
}

// Options configures Export.
type Options struct {
	Source  Source
	Checker *quality.Checker
	// Data is the render context used for the quality summary
	Data core.Value
	// OutputDir receives the artifact (created if missing)
	OutputDir string
	// Format is FormatJSON (default) or FormatYAML
	Format string
	// Concurrency bounds parallel renders (default GOMAXPROCS)
	Concurrency int
	// Now returns the generation time (default time.Now)
	Now    func() time.Time
	Logger *slog.Logger
}

// BuildInventory summarizes the templates in src in registration order.
func BuildInventory(src Source) Inventory {
	templates := src.List()

	categories := make(map[string]struct{})
	channels := make(map[string]struct{})
	entries := make([]TemplateEntry, 0, len(templates))

	for _, t := range templates {
		categories[t.Category] = struct{}{}
		for _, ch := range t.Channels {
			channels[ch] = struct{}{}
		}
		entries = append(entries, TemplateEntry{
			TemplateID: t.ID,
			Category:   t.Category,
			Channels:   nonNil(t.Channels),
			Variables:  nonNil(t.Variables),
		})
	}

	return Inventory{
		TemplateCount: len(templates),
		Categories:    sortedSet(categories),
		AllChannels:   sortedSet(channels),
		Templates:     entries,
	}
}

// CheckAll renders every template for each of its declared channels and runs
// the checker on the output. Outcomes are returned in template then channel
// order regardless of completion order. At most limit renders run at once.
func CheckAll(ctx context.Context, src Source, checker *quality.Checker, data core.Value, limit int) ([]Outcome, error) {
	var outcomes []Outcome
	for _, t := range src.List() {
		for _, ch := range t.Channels {
			outcomes = append(outcomes, Outcome{TemplateID: t.ID, Channel: ch})
		}
	}

	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i := range outcomes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out := &outcomes[i]
			result, err := src.Render(out.TemplateID, data, out.Channel)
			if err != nil {
				out.Err = err
				return nil
			}
			out.Report = checker.CheckResult(result)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// Summarize counts check outcomes. A render failure counts as one failed check.
func Summarize(outcomes []Outcome) QualitySummary {
	var s QualitySummary
	for _, out := range outcomes {
		if out.Report == nil {
			s.TotalChecks++
			s.Failed++
			continue
		}
		for _, c := range out.Report.Checks {
			s.TotalChecks++
			switch {
			case c.Passed:
				s.Passed++
			case c.Severity == core.SeverityWarning:
				s.Warnings++
			default:
				s.Failed++
			}
		}
	}
	return s
}

// BuildQualitySummary runs CheckAll and summarizes the outcomes.
func BuildQualitySummary(ctx context.Context, src Source, checker *quality.Checker, data core.Value) (QualitySummary, error) {
	outcomes, err := CheckAll(ctx, src, checker, data, 0)
	if err != nil {
		return QualitySummary{}, err
	}
	return Summarize(outcomes), nil
}

// Build assembles the export document without writing it.
func Build(ctx context.Context, opts Options) (*Document, []Outcome, error) {
	if opts.Source == nil {
		return nil, nil, fmt.Errorf("export: no template source")
	}
	checker := opts.Checker
	if checker == nil {
		checker = quality.New(quality.Config{})
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	outcomes, err := CheckAll(ctx, opts.Source, checker, opts.Data, opts.Concurrency)
	if err != nil {
		return nil, nil, fmt.Errorf("quality summary: %w", err)
	}

	doc := &Document{
		GeneratedAt:    now().UTC().Format(time.RFC3339Nano),
		Organ:          Organ,
		OrganName:      OrganName,
		Repo:           Repo,
		Inventory:      BuildInventory(opts.Source),
		ChannelLimits:  checker.ChannelLimits(),
		QualitySummary: Summarize(outcomes),
	}
	return doc, outcomes, nil
}

// Export builds the document and atomically writes it to
// OutputDir/template-registry.<format>. It returns the written path.
func Export(ctx context.Context, opts Options) (string, *Document, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	format := opts.Format
	if format == "" {
		format = FormatJSON
	}
	if format != FormatJSON && format != FormatYAML {
		return "", nil, fmt.Errorf("unsupported export format %q (want %s or %s)", format, FormatJSON, FormatYAML)
	}

	doc, _, err := Build(ctx, opts)
	if err != nil {
		return "", nil, err
	}

	data, err := Encode(doc, format)
	if err != nil {
		return "", nil, err
	}

	if err := os.MkdirAll(opts.OutputDir, 0o750); err != nil {
		return "", nil, fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(opts.OutputDir, FileBase+"."+format)
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return "", nil, fmt.Errorf("write %s: %w", path, err)
	}

	logger.Info("exported template registry",
		slog.String("path", path),
		slog.Int("templates", doc.TemplateCount),
		slog.Int("checks", doc.QualitySummary.TotalChecks))
	return path, doc, nil
}

// Encode serializes doc as indented JSON or YAML, ending in a newline.
func Encode(doc *Document, format string) ([]byte, error) {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	default:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		return append(data, '\n'), nil
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
