// Package report renders analysis results for people: the valuation deck as Markdown or HTML,
// and the history and peer series as text tables.
package report

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"alpha_engine/pkg/models"

	"github.com/dustin/go-humanize"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Signals printed next to the alpha gap.
const (
	SignalUndervalued = "UNDERVALUED"
	SignalOvervalued  = "OVERVALUED"
)

// Signal classifies the alpha gap: positive growth ahead of what the price implies is undervalued.
func Signal(r models.MetricsReport) string {
	if r.Undervalued() {
		return SignalUndervalued
	}
	return SignalOvervalued
}

// =============================================================================
// VALUATION DECK
// =============================================================================

// Deck renders the valuation deck for one ticker as Markdown.
func Deck(ticker string, r models.MetricsReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s Institutional Valuation Deck\n\n", strings.ToUpper(ticker))
	fmt.Fprintf(&b, "Latest filing: **%s** (%s), run-rate factor %.0fx\n\n", orNA(r.ReportDate), orNA(r.ReportSource), r.RunRate)

	section(&b, "Market", [][2]string{
		{"Current Price", Price(r.Price)},
		{"Market Cap", USD(r.MarketCap)},
		{"Enterprise Value", USD(r.EnterpriseValue)},
		{"Revenue (run rate)", USD(r.RevenueRunRate)},
	})

	section(&b, "Valuation", [][2]string{
		{"P/E Ratio", Multiple(r.PE)},
		{"EV/EBIT", Multiple(r.EVToEBIT)},
		{"FCF Yield", Pct(r.FCFYield)},
		{"Buyback Yield", Pct(r.BuybackYield)},
		{"Dividend Yield", Pct(r.DividendYield)},
		{"Total Shareholder Yield", Pct(r.ShareholderYield)},
		{"Risk-Free Rate", Pct(r.RiskFreeRate)},
		{"Implied ERP", Pct(r.EquityRiskPremium)},
	})

	section(&b, "Growth & Quality", [][2]string{
		{"Sequential Growth", Pct(r.SequentialGrowth)},
		{"Gross Margin", Pct(r.GrossMargin)},
		{"Margin Expansion", fmt.Sprintf("%+.2f pp", r.MarginExpansion)},
		{"ROIC", Pct(r.ROIC)},
		{"Cost of Equity (hurdle)", fmt.Sprintf("%s (beta %.2f)", Pct(r.CostOfEquity), r.Beta)},
		{"EVA Spread", Pct(r.EVASpread)},
	})

	section(&b, "Market Expectations", [][2]string{
		{"Market Implied Growth", Pct(r.ImpliedGrowth)},
		{"Alpha Gap", fmt.Sprintf("%s **[%s]**", Pct(r.AlphaGap), Signal(r))},
	})

	if len(r.UnknownInputs) > 0 {
		fmt.Fprintf(&b, "> Not found in filing, treated as zero: %s\n", strings.Join(r.UnknownInputs, ", "))
	}
	return b.String()
}

func section(b *strings.Builder, title string, rows [][2]string) {
	fmt.Fprintf(b, "## %s\n\n| Metric | Value |\n|---|---:|\n", title)
	for _, row := range rows {
		fmt.Fprintf(b, "| %s | %s |\n", row[0], row[1])
	}
	b.WriteString("\n")
}

// RenderHTML converts Markdown (tables included) to an HTML fragment.
func RenderHTML(markdown string) (string, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}

// =============================================================================
// FORMATTING
// =============================================================================

// USD formats a whole-dollar amount with thousands separators.
func USD(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "N/A"
	}
	s := humanize.Comma(int64(math.Round(math.Abs(v))))
	if v < 0 {
		return "-$" + s
	}
	return "$" + s
}

// Price formats a per-share price with cents.
func Price(v float64) string {
	return "$" + humanize.FormatFloat("#,###.##", v)
}

// Pct formats a fraction as a percentage with two decimals.
func Pct(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}

// Multiple formats a valuation multiple.
func Multiple(v float64) string {
	return fmt.Sprintf("%.2fx", v)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
