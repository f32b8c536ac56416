package main

import (
	"github.com/spf13/cobra"

	"github.com/signalsfoundry/rocketcfg/core"
	"github.com/signalsfoundry/rocketcfg/internal/report"
)

func (a *app) configsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "configs",
		Short: "List the flight configurations of a design",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.buildRocket(cmd.Context(), a.cfg.Design)
			if err != nil {
				return err
			}
			if sel, _ := cmd.Flags().GetString("select"); sel != "" {
				if err := r.SetSelectedConfiguration(core.FlightConfigurationID(sel)); err != nil {
					return err
				}
			}
			return report.Write(cmd.OutOrStdout(), a.cfg.Output, report.ListConfigurations(r))
		},
	}
	cmd.Flags().String("select", "", "select this configuration before listing")
	return cmd
}
