package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/kerygma/internal/cli/output"
	"github.com/leapstack-labs/kerygma/internal/contextload"
	"github.com/leapstack-labs/kerygma/internal/watch"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	var (
		debounce time.Duration
		validate bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reload templates when files change",
		Long: `Watch the templates directory and reload templates as files are created,
edited, renamed or removed. With --validate, every reload is followed by a
render of each template for each declared channel against the sample context.

Stop with Ctrl+C.`,
		Example: `  kerygma watch
  kerygma watch --validate --debounce 250ms`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, cmd, debounce, validate)
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Quiet period before reloading")
	cmd.Flags().BoolVar(&validate, "validate", false, "Render every template after each reload")
	cmd.Flags().Bool("record", false, "Save reloaded templates to the state store")
	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, debounce time.Duration, validate bool) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	r := cmdCtx.Renderer
	eng := cmdCtx.Engine
	sample := contextload.SampleContext()

	w, err := watch.New(watch.Config{
		Dir:      cmdCtx.Cfg.TemplatesDir,
		Target:   eng,
		Debounce: debounce,
		Logger:   cmdCtx.Logger,
		OnReload: func(rl watch.Reload) {
			if rl.Err != nil {
				r.Error("Reload failed: " + rl.Err.Error())
				return
			}
			line := fmt.Sprintf("Reloaded %s (%d loaded", pluralize(len(rl.Paths), "file", "files"), rl.Result.Loaded)
			if len(rl.Removed) > 0 {
				line += ", removed " + output.FormatList(rl.Removed)
			}
			r.Println(line + ")")

			if validate {
				for _, tmpl := range eng.List() {
					for _, ch := range tmpl.Channels {
						if _, err := eng.Render(tmpl.ID, sample, ch); err != nil {
							r.Error(fmt.Sprintf("  %s %s/%s: %s", output.StatusFail, tmpl.ID, ch, err))
						}
					}
				}
			}
		},
	})
	if err != nil {
		return err
	}

	r.Muted(fmt.Sprintf("Watching %s (%s)", cmdCtx.Cfg.TemplatesDir, pluralize(eng.Count(), "template", "templates")))
	return w.Run(ctx)
}
