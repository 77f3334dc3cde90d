package main

import (
	"alpha_engine/pkg/core/report"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history TICKER",
	Short: "Show gross margin and FCF yield across archived filings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		o, cleanup := newOrchestrator(ctx)
		defer cleanup()

		points, err := o.History(ctx, args[0])
		if err != nil {
			return err
		}
		report.HistoryTable(cmd.OutOrStdout(), args[0], points)
		return nil
	},
}
