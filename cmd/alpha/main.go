// Command alpha extracts financial statements from SEC XBRL filings and turns them into
// valuation reports.
//
//	alpha fetch AAPL              # download recent 10-K/10-Q filings from EDGAR
//	alpha extract path/to/filing  # print normalized filing records as JSON
//	alpha analyze AAPL            # valuation deck for the latest filing
//	alpha history AAPL            # gross margin / FCF yield trend
//	alpha scan AAPL MSFT GOOG     # peer table ranked by FCF yield
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
