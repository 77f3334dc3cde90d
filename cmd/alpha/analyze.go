package main

import (
	"encoding/json"
	"fmt"
	"os"

	"alpha_engine/pkg/core/report"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	analyzeHTML string
	analyzeJSON bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze TICKER",
	Short: "Build the valuation deck for a ticker's latest filing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		o, cleanup := newOrchestrator(ctx)
		defer cleanup()

		res, err := o.Run(ctx, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if analyzeJSON {
			data, err := json.MarshalIndent(res.Analysis.Report, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal report: %w", err)
			}
			fmt.Fprintln(out, string(data))
		} else {
			md := report.Deck(res.Ticker, res.Analysis.Report)
			fmt.Fprint(out, md)
			fmt.Fprintf(out, "\n_Comparison: %s_\n", res.Analysis)

			if analyzeHTML != "" {
				html, err := report.RenderHTML(md)
				if err != nil {
					return err
				}
				if err := os.WriteFile(analyzeHTML, []byte(html), 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", analyzeHTML, err)
				}
				log.Info().Str("File", analyzeHTML).Msg("wrote HTML deck")
			}
		}

		if res.RunID != "" {
			log.Info().Str("RunID", res.RunID).Msg("saved analysis run")
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeHTML, "html", "", "also write the deck as HTML to this file")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the metrics report as JSON instead of the deck")
}
