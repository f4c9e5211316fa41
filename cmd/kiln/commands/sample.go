package commands

import (
	"time"

	"github.com/spf13/cobra"
	"go.trai.ch/kiln/internal/app"
	"go.trai.ch/kiln/internal/core/domain"
)

func (c *CLI) newSampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Print the memory usage of running processes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pids, _ := cmd.Flags().GetIntSlice("pid")
			probe, _ := cmd.Flags().GetString("probe")
			interval, _ := cmd.Flags().GetDuration("interval")
			count, _ := cmd.Flags().GetInt("count")
			metrics, _ := cmd.Flags().GetBool("metrics")

			return c.app.Sample(cmd.Context(), app.SampleOptions{
				PIDs:     pids,
				Probe:    domain.ProbeMode(probe),
				Interval: interval,
				Count:    count,
				Metrics:  metrics,
			})
		},
	}
	cmd.Flags().IntSliceP("pid", "p", nil, "Process to sample (repeatable)")
	cmd.Flags().String("probe", string(domain.ProbeProcess), "Probe mode: process or cgroup")
	cmd.Flags().Duration("interval", time.Second, "Time between samples")
	cmd.Flags().IntP("count", "n", 1, "Number of samples to take")
	cmd.Flags().Bool("metrics", false, "Print resource metrics after sampling")
	return cmd
}
