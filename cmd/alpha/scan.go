package main

import (
	"alpha_engine/pkg/core/report"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var scanConcurrency int

var scanCmd = &cobra.Command{
	Use:   "scan TICKER...",
	Short: "Analyze a peer group and rank it by FCF yield",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		o, cleanup := newOrchestrator(ctx)
		defer cleanup()

		peers, err := o.Scan(ctx, args, scanConcurrency)
		if err != nil {
			log.Warn().Err(err).Msg("scan incomplete")
		}
		report.PeerTable(cmd.OutOrStdout(), peers)
		return nil
	},
}

func init() {
	scanCmd.Flags().IntVar(&scanConcurrency, "concurrency", 4, "tickers analyzed at once")
}
