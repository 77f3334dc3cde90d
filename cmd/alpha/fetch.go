package main

import (
	"fmt"

	"alpha_engine/pkg/core/ingest"
	"alpha_engine/pkg/models"

	"github.com/spf13/cobra"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch TICKER",
	Short: "Download recent 10-K and 10-Q filings from SEC EDGAR into the archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		client := ingest.NewEDGARClient(cfg.EDGAR.UserAgent)
		archive := ingest.NewLocalArchive(cfg.Archive.Root)

		for _, want := range []struct {
			form  string
			count int
		}{
			{models.FormAnnual, cfg.Archive.Annual},
			{models.FormQuarterly, cfg.Archive.Quarterly},
		} {
			dirs, err := client.Download(ctx, archive, args[0], want.form, want.count)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d filings in %s\n", args[0], want.form, len(dirs), archive.FormDir(args[0], want.form))
		}
		return nil
	},
}
