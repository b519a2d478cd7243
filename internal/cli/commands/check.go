package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/kerygma/internal/cli/output"
	"github.com/leapstack-labs/kerygma/pkg/core"
)

// ErrCheckFailed is returned when a quality report does not pass.
var ErrCheckFailed = errors.New("quality check failed")

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	var ctxFlags contextFlags

	cmd := &cobra.Command{
		Use:   "check <template> <channel>",
		Short: "Render a template and run the quality checks",
		Long: `Render a template for a channel and run the quality checks on the text:
character limit, emptiness, unresolved variables, anti-patterns, links and
hashtag count.

Exits with a non-zero status when an error-severity check fails. Warnings
are reported but never fail the command.`,
		Example: `  kerygma check repo-launch mastodon
  kerygma check repo-launch bluesky --repo recursive-engine --record`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args[0], args[1], &ctxFlags)
		},
	}

	addContextFlags(cmd, &ctxFlags)
	cmd.Flags().Bool("record", false, "Record the report in the state store")
	return cmd
}

func runCheck(cmd *cobra.Command, id, channel string, ctxFlags *contextFlags) error {
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
	report := cmdCtx.Checker.CheckResult(result)

	var recordID string
	if cmdCtx.Store != nil {
		recordID, err = cmdCtx.Store.RecordReport(cmd.Context(), report)
		if err != nil {
			return err
		}
		cmdCtx.Logger.Debug("recorded quality report", "id", recordID)
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		if err := r.JSON(output.CheckOutput{
			Passed:   report.Passed(),
			Summary:  report.Summary(),
			Text:     result.Text,
			Report:   report,
			RecordID: recordID,
		}); err != nil {
			return err
		}
	} else {
		printReport(r, result, report)
	}

	if !report.Passed() {
		return ErrCheckFailed
	}
	return nil
}

func printReport(r *output.Renderer, result *core.RenderResult, report *core.QualityReport) {
	if r.EffectiveMode() == output.ModeMarkdown {
		r.Header(2, fmt.Sprintf("%s/%s", report.TemplateID, report.Channel))
		r.Block("", result.Text)
		r.Println()
	}

	r.Println(report.Summary())
	for _, c := range report.Checks {
		status := output.StatusPass
		if !c.Passed {
			status = output.StatusFail
		}
		r.StatusLine(c.Name, status, c.Message)
	}
}
