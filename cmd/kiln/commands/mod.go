package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/kiln/internal/app"
)

func (c *CLI) newModCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mod",
		Short: "Maintain module extension usages",
	}

	tidy := &cobra.Command{
		Use:   "tidy",
		Short: "Print the buildozer commands that fix use_repo calls",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			check, _ := cmd.Flags().GetBool("check")
			return c.app.Tidy(cmd.Context(), app.TidyOptions{Check: check})
		},
	}
	tidy.Flags().Bool("check", false, "Fail instead of printing fixes when use_repo calls are out of date")

	cmd.AddCommand(tidy)
	return cmd
}
