package report

import (
	"bytes"
	"strings"
	"testing"

	"alpha_engine/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() models.MetricsReport {
	return models.MetricsReport{
		ReportDate:       "2023-12-31",
		ReportSource:     models.FormDerivedQ4,
		RunRate:          4,
		Price:            190.5,
		MarketCap:        2950000000000,
		EnterpriseValue:  3010000000000,
		PE:               31.2,
		FCFYield:         0.0312,
		CostOfEquity:     0.1,
		Beta:             1.2,
		ImpliedGrowth:    0.0688,
		SequentialGrowth: 0.1,
		AlphaGap:         0.0312,
		UnknownInputs:    []string{models.MetricBuybacks},
	}
}

func TestDeck(t *testing.T) {
	deck := Deck("aapl", sampleReport())

	assert.Contains(t, deck, "# AAPL Institutional Valuation Deck")
	assert.Contains(t, deck, "**2023-12-31** (10-Q (Derived))")
	assert.Contains(t, deck, "| Current Price | $190.50 |")
	assert.Contains(t, deck, "| Market Cap | $2,950,000,000,000 |")
	assert.Contains(t, deck, "| P/E Ratio | 31.20x |")
	assert.Contains(t, deck, "| FCF Yield | 3.12% |")
	assert.Contains(t, deck, "3.12% **[UNDERVALUED]**")
	assert.Contains(t, deck, "treated as zero: Buybacks")
}

func TestSignal(t *testing.T) {
	assert.Equal(t, SignalUndervalued, Signal(models.MetricsReport{AlphaGap: 0.01}))
	assert.Equal(t, SignalOvervalued, Signal(models.MetricsReport{AlphaGap: 0}))
	assert.Equal(t, SignalOvervalued, Signal(models.MetricsReport{AlphaGap: -0.2}))
}

func TestRenderHTML(t *testing.T) {
	html, err := RenderHTML(Deck("MSFT", sampleReport()))
	require.NoError(t, err)

	assert.Contains(t, html, "<h1>MSFT Institutional Valuation Deck</h1>")
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "<td>FCF Yield</td>")
	assert.Contains(t, html, "<strong>[UNDERVALUED]</strong>")
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "$1,234,568", USD(1234567.6))
	assert.Equal(t, "-$2,500", USD(-2500))
	assert.Equal(t, "$0", USD(0))
	assert.Equal(t, "12.35%", Pct(0.12345))
	assert.Equal(t, "-2.40%", Pct(-0.024))
	assert.Equal(t, "15.00x", Multiple(15))
}

func TestHistoryTable(t *testing.T) {
	var buf bytes.Buffer
	HistoryTable(&buf, "aapl", []models.HistoryPoint{
		{Date: "2023-09-30", Source: "10-K", GrossMargin: 0.4413, FCFYield: 0.0335},
		{Date: "2023-12-30", Source: "10-Q", GrossMargin: 0.4587, FCFYield: 0.0531},
	})
	out := buf.String()

	assert.Contains(t, out, "2023-09-30")
	assert.Contains(t, out, "44.13%")
	assert.Contains(t, out, "5.31%")
	assert.Less(t, strings.Index(out, "2023-09-30"), strings.Index(out, "2023-12-30"))

	buf.Reset()
	HistoryTable(&buf, "aapl", nil)
	assert.Equal(t, "AAPL: <NO DATA>\n", buf.String())
}

func TestPeerTable(t *testing.T) {
	var buf bytes.Buffer
	PeerTable(&buf, []models.PeerSummary{
		{Ticker: "KO", MarketCap: 2.6e11, FCFYield: 0.04, PE: 24},
		{Ticker: "PEP", MarketCap: 2.3e11, FCFYield: 0.035, PE: 26},
	})
	out := buf.String()

	assert.Contains(t, out, "$260,000,000,000")
	assert.Contains(t, out, "24.00x")
	assert.Less(t, strings.Index(out, "KO"), strings.Index(out, "PEP"))
}
