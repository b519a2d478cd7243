package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/kerygma/internal/cli/output"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	var ctxFlags contextFlags

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Render every template for every declared channel",
		Long: `Render each template once per declared channel and report failures.

Exits with a non-zero status when any render fails. Unresolved variables are
reported but do not fail validation.`,
		Example: `  kerygma validate
  kerygma validate --record --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd, &ctxFlags)
		},
	}

	addContextFlags(cmd, &ctxFlags)
	cmd.Flags().Bool("record", false, "Save the template inventory to the state store")
	return cmd
}

func runValidate(cmd *cobra.Command, ctxFlags *contextFlags) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	data, err := ctxFlags.resolve(cmdCtx.Cfg, cmdCtx.Logger)
	if err != nil {
		return err
	}

	out := output.ValidateOutput{Results: []output.ValidateResult{}}
	for _, tmpl := range cmdCtx.Engine.List() {
		for _, channel := range tmpl.Channels {
			res := output.ValidateResult{TemplateID: tmpl.ID, Channel: channel}
			result, err := cmdCtx.Engine.Render(tmpl.ID, data, channel)
			if err != nil {
				res.Error = err.Error()
			} else {
				res.OK = true
				res.UnresolvedVars = result.UnresolvedVars
				out.Valid++
			}
			out.Total++
			out.Results = append(out.Results, res)
		}
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		if err := r.JSON(out); err != nil {
			return err
		}
	} else {
		for _, res := range out.Results {
			if res.OK {
				r.Println(fmt.Sprintf("  %s  %s/%s", r.Styles.Success.Render(output.StatusOK), res.TemplateID, res.Channel))
				continue
			}
			r.Error(fmt.Sprintf("  %s %s/%s: %s", output.StatusFail, res.TemplateID, res.Channel, res.Error))
		}
		r.Println()
		r.Println(fmt.Sprintf("Validated %d/%d template-channel combinations.", out.Valid, out.Total))
	}

	if out.Valid < out.Total {
		return fmt.Errorf("%d of %d renders failed", out.Total-out.Valid, out.Total)
	}
	return nil
}
