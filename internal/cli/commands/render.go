package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/kerygma/internal/cli/output"
	"github.com/leapstack-labs/kerygma/pkg/core"
)

// NewRenderCommand creates the render command.
func NewRenderCommand() *cobra.Command {
	var ctxFlags contextFlags

	cmd := &cobra.Command{
		Use:   "render <template> <channel>",
		Short: "Render a template for one channel",
		Long: `Render a template for a channel and print the announcement text.

Unresolved variables are left in the text and listed on stderr.`,
		Example: `  # Render with the sample context
  kerygma render repo-launch mastodon

  # Render an event for a registry repository
  kerygma render repo-launch discord --repo recursive-engine --event-type repo-launch --url https://example.com

  # Render against a context file
  kerygma render repo-launch bluesky --context event.yaml`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], args[1], &ctxFlags)
		},
	}

	addContextFlags(cmd, &ctxFlags)
	return cmd
}

func runRender(cmd *cobra.Command, id, channel string, ctxFlags *contextFlags) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	data, err := ctxFlags.resolve(cmdCtx.Cfg, cmdCtx.Logger)
	if err != nil {
		return err
	}

	result, err := cmdCtx.Engine.Render(id, data, channel)
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	warnUnresolved(r, result)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(result)
	case output.ModeMarkdown:
		r.Header(2, fmt.Sprintf("%s/%s", result.TemplateID, result.Channel))
		r.Block("", result.Text)
	default:
		r.Println(result.Text)
	}
	return nil
}

func warnUnresolved(r *output.Renderer, result *core.RenderResult) {
	if len(result.UnresolvedVars) > 0 {
		r.Warning("[WARN] Unresolved: " + strings.Join(result.UnresolvedVars, ", "))
	}
}
