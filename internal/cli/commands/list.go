package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/kerygma/internal/cli/output"
	"github.com/leapstack-labs/kerygma/pkg/core"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the available templates",
		Long: `List every template found in the templates directory with its
category, channels and declared variables.

Output adapts to environment:
  - Terminal: Styled table
  - Piped/Scripted: Markdown format (agent-friendly)

Use --output to override: auto, text, markdown, json`,
		Example: `  # List all templates
  kerygma list

  # Only launch announcements, as JSON
  kerygma list --category launch --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, category)
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Only list templates in this category")
	return cmd
}

func runList(cmd *cobra.Command, category string) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	eng := cmdCtx.Engine
	r := cmdCtx.Renderer

	templates := eng.List()
	if category != "" {
		templates = eng.ByCategory(category)
	}

	if r.EffectiveMode() == output.ModeJSON {
		return listJSON(templates, r)
	}

	if len(templates) == 0 {
		r.Println("No templates found.")
		return nil
	}

	r.Header(1, "Templates")
	rows := make([][]string, 0, len(templates))
	for _, t := range templates {
		rows = append(rows, []string{
			t.ID,
			t.Category,
			output.FormatList(t.Channels),
			output.FormatList(t.Variables),
		})
	}
	r.Table([]string{"ID", "Category", "Channels", "Variables"}, rows)
	r.Muted(pluralize(len(templates), "template", "templates"))
	return nil
}

func listJSON(templates []*core.Template, r *output.Renderer) error {
	out := output.ListOutput{
		Templates: make([]output.TemplateInfo, 0, len(templates)),
		Summary: output.ListSummary{
			TotalTemplates: len(templates),
			ByCategory:     make(map[string]int),
			Channels:       []string{},
		},
	}

	seen := make(map[string]bool)
	for _, t := range templates {
		out.Templates = append(out.Templates, output.TemplateInfo{
			TemplateID: t.ID,
			Category:   t.Category,
			Channels:   t.Channels,
			Variables:  t.Variables,
			Source:     t.Source,
		})
		out.Summary.ByCategory[t.Category]++
		for _, ch := range t.Channels {
			if !seen[ch] {
				seen[ch] = true
				out.Summary.Channels = append(out.Summary.Channels, ch)
			}
		}
	}

	return r.JSON(out)
}
