package main

import (
	"github.com/spf13/cobra"

	"github.com/signalsfoundry/rocketcfg/internal/designs"
	"github.com/signalsfoundry/rocketcfg/internal/report"
)

func (a *app) designsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "designs",
		Short: "List the built-in designs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var list report.DesignList
			for _, name := range designs.Names() {
				r, err := a.buildRocket(cmd.Context(), name)
				if err != nil {
					return err
				}
				list.Designs = append(list.Designs, report.SummarizeDesign(name, r))
			}
			return report.Write(cmd.OutOrStdout(), a.cfg.Output, list)
		},
	}
}
