package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filingXML(form, periodEnd string, revenue, cogs int) string {
	return fmt.Sprintf(`<xbrl>
  <context id="P"><entity></entity><period><startDate>2023-01-01</startDate><endDate>%[2]s</endDate></period></context>
  <DocumentType contextRef="P">%[1]s</DocumentType>
  <DocumentPeriodEndDate contextRef="P">%[2]s</DocumentPeriodEndDate>
  <Revenues contextRef="P">%[3]d</Revenues>
  <CostOfRevenue contextRef="P">%[4]d</CostOfRevenue>
</xbrl>`, form, periodEnd, revenue, cogs)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestCLI_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	// Go 1.21 backport of t.Chdir.
	prevWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prevWD) })
	t.Setenv("DATABASE_URL", "")

	filings := filepath.Join(dir, "sec-edgar-filings", "ACME")
	writeFile(t, filepath.Join(filings, "10-K", "0000000001-24-000010", "acme-10k.xml"), filingXML("10-K", "2023-12-31", 400, 160))
	writeFile(t, filepath.Join(filings, "10-Q", "0000000001-24-000050", "acme-10q.xml"), filingXML("10-Q", "2024-03-31", 110, 44))
	writeFile(t, filepath.Join(dir, "market.yaml"), `
risk_free_rate: 0.04
tickers:
  ACME:
    price: 10
    market_cap: 1000
`)
	common := []string{"--archive-root", dir, "--market-file", filepath.Join(dir, "market.yaml"), "--log-level", "error"}

	t.Run("extract", func(t *testing.T) {
		out := execute(t, append([]string{"extract", filepath.Join(filings, "10-Q", "0000000001-24-000050")}, common...)...)
		var records []map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &records))
		require.Len(t, records, 1)
		assert.Equal(t, "2024-03-31", records[0]["period_end_date"])
		assert.Equal(t, "10-Q", records[0]["source_form"])
	})

	t.Run("analyze", func(t *testing.T) {
		html := filepath.Join(dir, "deck.html")
		out := execute(t, append([]string{"analyze", "acme", "--html", html}, common...)...)
		assert.Contains(t, out, "# ACME Institutional Valuation Deck")
		assert.Contains(t, out, "10-Q 2024-03-31 vs 10-K 2023-12-31")

		data, err := os.ReadFile(html)
		require.NoError(t, err)
		assert.Contains(t, string(data), "<table>")

		runs, err := os.ReadDir(filepath.Join(dir, ".cache", "runs", "ACME"))
		require.NoError(t, err)
		assert.Len(t, runs, 1)
	})

	t.Run("history", func(t *testing.T) {
		out := execute(t, append([]string{"history", "ACME"}, common...)...)
		assert.Contains(t, out, "2023-12-31")
		assert.Contains(t, out, "2024-03-31")
	})

	t.Run("scan", func(t *testing.T) {
		out := execute(t, append([]string{"scan", "ACME"}, common...)...)
		assert.Contains(t, out, "ACME")
	})
}
