package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/kerygma/internal/cli/output"
	"github.com/leapstack-labs/kerygma/internal/export"
)

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	var ctxFlags contextFlags

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the template registry artifact",
		Long: `Write template-registry.json (or .yaml) with the template inventory,
the channel limits and a quality summary over every template and channel.

The file is replaced atomically.`,
		Example: `  kerygma export
  kerygma export --format yaml --export-dir site/data --concurrency 4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd, &ctxFlags)
		},
	}

	addContextFlags(cmd, &ctxFlags)
	cmd.Flags().String("format", "", "Artifact format (json|yaml)")
	cmd.Flags().String("export-dir", "", "Directory receiving the artifact")
	cmd.Flags().Int("concurrency", 0, "Parallel renders for the quality summary (default: number of CPUs)")
	cmd.Flags().Bool("record", false, "Save the template inventory to the state store")

	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{export.FormatJSON, export.FormatYAML}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func runExport(cmd *cobra.Command, ctxFlags *contextFlags) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	data, err := ctxFlags.resolve(cmdCtx.Cfg, cmdCtx.Logger)
	if err != nil {
		return err
	}

	cfg := cmdCtx.Cfg
	path, doc, err := export.Export(cmd.Context(), export.Options{
		Source:      cmdCtx.Engine,
		Checker:     cmdCtx.Checker,
		Data:        data,
		OutputDir:   cfg.ExportDir,
		Format:      cfg.ExportFormat,
		Concurrency: cfg.Concurrency,
		Logger:      cmdCtx.Logger,
	})
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(doc)
	}

	qs := doc.QualitySummary
	r.Success("Exported " + pluralize(doc.TemplateCount, "template", "templates") + " to " + path)
	r.KeyValue("Categories", output.FormatList(doc.Categories))
	r.KeyValue("Channels", output.FormatList(doc.AllChannels))
	r.KeyValue("Quality", formatQuality(qs.TotalChecks, qs.Passed, qs.Failed, qs.Warnings))
	return nil
}
