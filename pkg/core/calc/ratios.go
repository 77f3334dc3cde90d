package calc

import (
	"alpha_engine/pkg/models"
)

// =============================================================================
// RATIO ENGINE
// =============================================================================

// ComputeRatios derives every valuation output from the current record, the comparison record
// (nil when there is none) and the market snapshot. It is a pure function; any ratio whose
// denominator is zero comes out as 0.
//
// Flow metrics are multiplied by the run-rate factor of the current record before being set
// against annual denominators (market cap, enterprise value, invested capital).
func ComputeRatios(current, previous *models.FilingRecord, market models.MarketSnapshot) models.MetricsReport {
	if current == nil {
		return models.MetricsReport{}
	}
	af := RunRateFactor(current.SourceForm)

	revenue := current.Value(models.MetricRevenue)
	cogs := current.Value(models.MetricCOGS)
	opIncome := current.Value(models.MetricOperatingIncome)
	netIncome := current.Value(models.MetricNetIncome)
	ocf := current.Value(models.MetricOperatingCashFlow)
	capex := current.Value(models.MetricCapEx)
	buybacks := current.Value(models.MetricBuybacks)
	dividends := current.Value(models.MetricDividends)
	cash := current.Value(models.MetricCash)
	equity := current.Value(models.MetricStockholdersEquity)
	totalDebt := current.Value(models.MetricLongTermDebt) + current.Value(models.MetricShortTermDebt)

	r := models.MetricsReport{
		ReportDate:     current.PeriodEndDate,
		ReportSource:   current.SourceForm,
		RunRate:        af,
		Price:          market.Price,
		MarketCap:      market.MarketCap,
		RevenueRunRate: revenue * af,
		RiskFreeRate:   market.RiskFreeRate,
		Beta:           ResolveBeta(market.Beta),
	}
	if len(current.Missing) > 0 {
		r.UnknownInputs = append([]string(nil), current.Missing...)
	}

	// Growth and margins
	r.GrossMargin = GrossMargin(revenue, cogs)
	if previous != nil {
		r.SequentialGrowth = SequentialGrowth(revenue, previous.Value(models.MetricRevenue))
		prevMargin := GrossMargin(previous.Value(models.MetricRevenue), previous.Value(models.MetricCOGS))
		r.MarginExpansion = 100 * (r.GrossMargin - prevMargin)
	}

	// Cash flow and multiples
	r.FreeCashFlow = ocf - capex
	r.FCFYield = safeDiv(r.FreeCashFlow*af, market.MarketCap)
	r.EnterpriseValue = market.MarketCap + totalDebt - cash
	r.PE = safeDiv(market.MarketCap, netIncome*af)
	r.EVToEBIT = safeDiv(r.EnterpriseValue, opIncome*af)
	r.ROIC = ROIC(opIncome*af, totalDebt, equity, cash)

	// Required return and the alpha gap
	r.EquityRiskPremium = r.FCFYield - r.RiskFreeRate
	r.CostOfEquity = CostOfEquityCAPM(r.RiskFreeRate, r.Beta, EquityRiskPremium)
	r.EVASpread = r.ROIC - r.CostOfEquity
	r.ImpliedGrowth = ImpliedGrowth(r.CostOfEquity, r.FCFYield)
	r.AlphaGap = r.SequentialGrowth - r.ImpliedGrowth

	// Capital returned to shareholders
	r.BuybackYield = safeDiv(buybacks*af, market.MarketCap)
	r.DividendYield = safeDiv(dividends*af, market.MarketCap)
	r.ShareholderYield = r.BuybackYield + r.DividendYield

	return r
}

// SequentialGrowth is the period-over-period revenue change. A non-positive prior revenue has
// no meaningful base and yields 0.
//
// FORMULA: g = (Rev_t − Rev_{t-1}) / Rev_{t-1}
func SequentialGrowth(revenue, previousRevenue float64) float64 {
	if previousRevenue <= 0 {
		return 0
	}
	return (revenue - previousRevenue) / previousRevenue
}

// GrossMargin returns (Revenue − COGS) / Revenue, 0 when revenue is zero.
func GrossMargin(revenue, cogs float64) float64 {
	return safeDiv(revenue-cogs, revenue)
}

// ROIC returns after-tax operating income over invested capital.
//
// FORMULA: ROIC = EBIT × (1 − T) / (Debt + Equity − Cash)
//
// Invested capital of zero or less (net cash exceeding debt plus equity) yields 0.
func ROIC(annualOperatingIncome, totalDebt, equity, cash float64) float64 {
	invested := totalDebt + equity - cash
	if invested <= 0 {
		return 0
	}
	return annualOperatingIncome * (1 - CorporateTaxRate) / invested
}
