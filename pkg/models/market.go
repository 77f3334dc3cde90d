package models

// MarketSnapshot is supplied once per analysis run by the market data collaborator.
// Beta is optional; a nil Beta means the provider had no estimate.
type MarketSnapshot struct {
	Ticker            string   `json:"ticker" yaml:"ticker"`
	Price             float64  `json:"price" yaml:"price"`
	MarketCap         float64  `json:"market_cap" yaml:"market_cap"`
	SharesOutstanding float64  `json:"shares_outstanding" yaml:"shares_outstanding"`
	Beta              *float64 `json:"beta,omitempty" yaml:"beta"`
	Industry          string   `json:"industry" yaml:"industry"`
	RiskFreeRate      float64  `json:"risk_free_rate" yaml:"risk_free_rate"`
}

// MetricsReport is the RatioEngine output handed to reporting and storage.
// Ratios are plain fractions (0.05 = 5%) except MarginExpansion, which is in percentage points.
type MetricsReport struct {
	ReportDate   string  `json:"report_date"`
	ReportSource string  `json:"report_source"`
	RunRate      float64 `json:"run_rate_factor"`

	Price           float64 `json:"price"`
	MarketCap       float64 `json:"market_cap"`
	EnterpriseValue float64 `json:"enterprise_value"`

	RevenueRunRate   float64 `json:"revenue_run_rate"`
	SequentialGrowth float64 `json:"sequential_growth"`
	GrossMargin      float64 `json:"gross_margin"`
	MarginExpansion  float64 `json:"margin_expansion"`

	FreeCashFlow float64 `json:"free_cash_flow"`
	FCFYield     float64 `json:"fcf_yield"`
	PE           float64 `json:"pe_ratio"`
	EVToEBIT     float64 `json:"ev_ebit"`
	ROIC         float64 `json:"roic"`

	RiskFreeRate      float64 `json:"risk_free_rate"`
	EquityRiskPremium float64 `json:"equity_risk_premium"`
	Beta              float64 `json:"beta"`
	CostOfEquity      float64 `json:"cost_of_equity"`
	EVASpread         float64 `json:"eva_spread"`
	ImpliedGrowth     float64 `json:"implied_growth"`
	AlphaGap          float64 `json:"alpha_gap"`
	BuybackYield      float64 `json:"buyback_yield"`
	DividendYield     float64 `json:"dividend_yield"`
	ShareholderYield  float64 `json:"shareholder_yield"`

	// UnknownInputs lists metrics of the current record that were not found in the filing.
	UnknownInputs []string `json:"unknown_inputs,omitempty"`
}

// Undervalued reports the sign of the alpha gap: growth ahead of what the price implies.
func (m *MetricsReport) Undervalued() bool {
	return m.AlphaGap > 0
}

// HistoryPoint is one entry of the gross margin / FCF yield trend series.
type HistoryPoint struct {
	Date        string  `json:"date"`
	Source      string  `json:"source"`
	GrossMargin float64 `json:"gross_margin"`
	FCFYield    float64 `json:"fcf_yield"`
}

// PeerSummary is the per-ticker row of a sector scan.
type PeerSummary struct {
	Ticker           string  `json:"ticker"`
	MarketCap        float64 `json:"market_cap"`
	FCFYield         float64 `json:"fcf_yield"`
	SequentialGrowth float64 `json:"sequential_growth"`
	EVToEBIT         float64 `json:"ev_ebit"`
	PE               float64 `json:"pe_ratio"`
	ERP              float64 `json:"erp"`
	ROIC             float64 `json:"roic"`
}
