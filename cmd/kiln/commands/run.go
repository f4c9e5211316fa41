package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/kiln/internal/app"
)

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [actions...]",
		Short: "Run actions declared in kiln.yaml",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				// Display command usage help without returning an error
				_ = cmd.Help()
				return nil
			}
			jobs, _ := cmd.Flags().GetInt("jobs")
			watch, _ := cmd.Flags().GetBool("watch")
			metrics, _ := cmd.Flags().GetBool("metrics")

			return c.app.Run(cmd.Context(), args, app.RunOptions{
				Jobs:    jobs,
				Watch:   watch,
				Metrics: metrics,
			})
		},
	}
	cmd.Flags().IntP("jobs", "j", 0, "Maximum number of actions to run at once (default: workspace setting or CPU count)")
	cmd.Flags().BoolP("watch", "w", false, "Re-run actions whose inputs change")
	cmd.Flags().Bool("metrics", false, "Print memo and resource metrics when the run ends")
	return cmd
}
