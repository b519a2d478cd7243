package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/kerygma/internal/cli/config"
	"github.com/leapstack-labs/kerygma/internal/contextload"
	"github.com/leapstack-labs/kerygma/pkg/core"
)

// contextFlags selects the render context of a command.
type contextFlags struct {
	file      string
	repo      string
	eventType string
	title     string
	summary   string
	url       string
	version   string
}

func addContextFlags(cmd *cobra.Command, f *contextFlags) {
	cmd.Flags().StringVar(&f.file, "context", "", "Render context file (.json, .yaml)")
	cmd.Flags().StringVar(&f.repo, "repo", "", "Repository to announce, looked up in the registry")
	cmd.Flags().StringVar(&f.eventType, "event-type", "", "Event type (e.g. repo-launch, release)")
	cmd.Flags().StringVar(&f.title, "title", "", "Event title (default \"New <event-type>\")")
	cmd.Flags().StringVar(&f.summary, "summary", "", "Event summary")
	cmd.Flags().StringVar(&f.url, "url", "", "Event URL")
	cmd.Flags().StringVar(&f.version, "version", "", "Released version")
	cmd.MarkFlagsMutuallyExclusive("context", "repo")
	_ = cmd.MarkFlagFilename("context", "json", "yaml", "yml")
}

// fromEvent reports whether event flags were given.
func (f *contextFlags) fromEvent() bool {
	return f.repo != "" || f.eventType != "" || f.title != "" || f.summary != "" || f.url != "" || f.version != ""
}

// resolve builds the render context: a context file wins, then an event
// assembled from flags and the registry, then the sample context.
func (f *contextFlags) resolve(cfg *config.Config, logger *slog.Logger) (core.Value, error) {
	if f.file != "" {
		return contextload.ReadContextFile(f.file)
	}
	if !f.fromEvent() {
		logger.Debug("using sample context")
		return contextload.SampleContext(), nil
	}

	loader := contextload.New(contextload.Config{Logger: logger})
	if cfg.RegistryPath != "" {
		n, err := loader.Load(cfg.RegistryPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load registry: %w", err)
		}
		logger.Debug("loaded registry", "path", cfg.RegistryPath, "repos", n)
	}

	var profile *contextload.Profile
	if cfg.ProfilePath != "" {
		p, err := contextload.LoadProfile(cfg.ProfilePath)
		if err != nil {
			return nil, err
		}
		profile = p
	}

	return loader.BuildContext(contextload.EventContext{
		EventType: f.eventType,
		Title:     f.title,
		Summary:   f.summary,
		URL:       f.url,
		Version:   f.version,
	}, f.repo, profile), nil
}
