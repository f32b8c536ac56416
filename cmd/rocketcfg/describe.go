package main

import (
	"github.com/spf13/cobra"

	"github.com/signalsfoundry/rocketcfg/internal/report"
)

func (a *app) describeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe",
		Short: "Describe a design and its flight configurations",
		Long: `Describe builds the design and reports its stages plus, for every
flight configuration, the active stages, aerodynamic length, reference
length and area, bounds and active motors.

With --config-id only that configuration is reported.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.buildRocket(cmd.Context(), a.cfg.Design)
			if err != nil {
				return err
			}
			if a.configID == "" {
				return report.Write(cmd.OutOrStdout(), a.cfg.Output, report.Describe(r))
			}
			fc, err := a.configuration(r)
			if err != nil {
				return err
			}
			out := report.DescribeConfiguration(fc, fc == r.SelectedConfiguration())
			return report.Write(cmd.OutOrStdout(), a.cfg.Output, out)
		},
	}
}
