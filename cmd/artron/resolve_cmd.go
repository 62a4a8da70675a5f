package main

import (
	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:     "resolve",
	Short:   "Print the sectors that would be downloaded for each target",
	GroupID: "plan",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := buildPlan(cmd.Context(), cfg, refresh, logger)
		if err != nil {
			return err
		}
		return printResolution(cmd.OutOrStdout(), p.Resolution, jsonOutput)
	},
}
