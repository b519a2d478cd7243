package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/kerygma/internal/cli/output"
	"github.com/leapstack-labs/kerygma/internal/state"
)

// DefaultHistoryLimit is the number of reports shown by history.
const DefaultHistoryLimit = 20

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	var (
		limit     int
		inventory bool
	)

	cmd := &cobra.Command{
		Use:   "history [template]",
		Short: "Show recorded quality reports",
		Long: `Show quality reports recorded with "check --record", newest first.

With --inventory, show the template inventory saved by "--record" runs
instead.`,
		Example: `  kerygma history
  kerygma history repo-launch --limit 5
  kerygma history --inventory`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var id string
			if len(args) == 1 {
				id = args[0]
			}
			if inventory {
				return runInventory(cmd)
			}
			return runHistory(cmd, id, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", DefaultHistoryLimit, "Maximum number of reports (0 for all)")
	cmd.Flags().BoolVar(&inventory, "inventory", false, "Show the recorded template inventory")
	return cmd
}

func runHistory(cmd *cobra.Command, id string, limit int) error {
	cmdCtx, cleanup, err := newCommandContext(cmd, setupOptions{openStore: true, skipDiscovery: true})
	if err != nil {
		return err
	}
	defer cleanup()

	records, err := cmdCtx.Store.ListReports(cmd.Context(), id, limit)
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(historyOutput(records))
	}

	if len(records) == 0 {
		r.Println("No recorded reports.")
		return nil
	}

	r.Header(1, "Quality history")
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		status := output.StatusPass
		if !rec.Passed() {
			status = output.StatusFail
		}
		rows = append(rows, []string{
			rec.RecordedAt.Local().Format(time.DateTime),
			rec.TemplateID,
			rec.Channel,
			status,
			output.FormatList(failedChecks(rec)),
		})
	}
	r.Table([]string{"Recorded", "Template", "Channel", "Status", "Failed checks"}, rows)
	return nil
}

func runInventory(cmd *cobra.Command) error {
	cmdCtx, cleanup, err := newCommandContext(cmd, setupOptions{openStore: true, skipDiscovery: true})
	if err != nil {
		return err
	}
	defer cleanup()

	records, err := cmdCtx.Store.ListTemplates(cmd.Context())
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(records)
	}
	if len(records) == 0 {
		r.Println("No recorded templates. Run a command with --record first.")
		return nil
	}

	r.Header(1, "Recorded templates")
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			rec.ID,
			rec.Category,
			output.FormatList(rec.Channels),
			shortHash(rec.ContentHash),
			rec.UpdatedAt.Local().Format(time.DateTime),
		})
	}
	r.Table([]string{"ID", "Category", "Channels", "Hash", "Updated"}, rows)
	return nil
}

func historyOutput(records []*state.ReportRecord) output.HistoryOutput {
	out := output.HistoryOutput{Runs: make([]output.HistoryRun, 0, len(records))}
	for _, rec := range records {
		out.Runs = append(out.Runs, output.HistoryRun{
			ID:         rec.ID,
			TemplateID: rec.TemplateID,
			Channel:    rec.Channel,
			Passed:     rec.Passed(),
			Failed:     failedChecks(rec),
			RecordedAt: rec.RecordedAt,
		})
	}
	return out
}

func failedChecks(rec *state.ReportRecord) []string {
	failed := []string{}
	for _, c := range rec.Checks {
		if !c.Passed {
			failed = append(failed, fmt.Sprintf("%s (%s)", c.Name, c.Severity))
		}
	}
	return failed
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
