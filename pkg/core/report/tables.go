package report

import (
	"fmt"
	"io"
	"strings"

	"alpha_engine/pkg/models"

	"github.com/olekukonko/tablewriter"
)

// HistoryTable writes the gross margin / FCF yield trend as an ASCII table, one row per filing.
func HistoryTable(w io.Writer, ticker string, points []models.HistoryPoint) {
	if len(points) == 0 {
		fmt.Fprintf(w, "%s: <NO DATA>\n", strings.ToUpper(ticker))
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Date", "Source", "Gross Margin", "FCF Yield"})
	table.SetBorder(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, p := range points {
		table.Append([]string{p.Date, p.Source, Pct(p.GrossMargin), Pct(p.FCFYield)})
	}
	table.SetFooter([]string{"", "Filings", fmt.Sprintf("%d", len(points)), ""})
	table.Render()
}

// PeerTable writes a sector scan, in the order given.
func PeerTable(w io.Writer, peers []models.PeerSummary) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Ticker", "Market Cap", "FCF Yield", "Growth", "EV/EBIT", "P/E", "ERP", "ROIC"})
	table.SetBorder(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, p := range peers {
		table.Append([]string{
			p.Ticker,
			USD(p.MarketCap),
			Pct(p.FCFYield),
			Pct(p.SequentialGrowth),
			Multiple(p.EVToEBIT),
			Multiple(p.PE),
			Pct(p.ERP),
			Pct(p.ROIC),
		})
	}
	table.Render()
}
