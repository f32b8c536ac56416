package main

import (
	"github.com/spf13/cobra"

	"github.com/signalsfoundry/rocketcfg/internal/report"
)

func (a *app) instancesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "instances",
		Short: "List the placed component instances of a configuration",
		Long: `Instances enumerates every active component instance of the chosen
flight configuration with its vehicle-frame location. --stages evaluates
a copy of the configuration with exactly those stages active; sub-stages
are not implied.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.buildRocket(cmd.Context(), a.cfg.Design)
			if err != nil {
				return err
			}
			fc, err := a.configuration(r)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("stages") {
				stages, _ := cmd.Flags().GetIntSlice("stages")
				fc = fc.Clone()
				fc.ClearAllStages()
				for _, n := range stages {
					if err := fc.SetStageActiveOnly(n, true); err != nil {
						return err
					}
				}
			}
			return report.Write(cmd.OutOrStdout(), a.cfg.Output, report.ListInstances(fc))
		},
	}
	cmd.Flags().IntSlice("stages", nil, "evaluate with only these stage numbers active")
	return cmd
}
