// Package calc provides the deterministic valuation ratios computed from extracted filings.
// This file holds the cost-of-capital assumptions and formulas.
package calc

import "alpha_engine/pkg/models"

// =============================================================================
// VALUATION PARAMETERS
// =============================================================================

const (
	// CorporateTaxRate is the statutory US rate applied to operating income for ROIC.
	CorporateTaxRate = 0.21
	// EquityRiskPremium is the fixed market risk premium used in CAPM.
	EquityRiskPremium = 0.05
	// DefaultBeta applies when the market data provider has no beta estimate.
	DefaultBeta = 1.0
	// DefaultRiskFreeRate is the 10-year Treasury assumption used when no rate is supplied.
	DefaultRiskFreeRate = 0.045

	// AnnualFactor and QuarterlyFactor scale single-period flows to an annual run rate.
	AnnualFactor    = 1.0
	QuarterlyFactor = 4.0
)

// =============================================================================
// COST OF CAPITAL
// =============================================================================

// CostOfEquityCAPM calculates required return on equity using CAPM.
//
// FORMULA: r_e = r_f + β × MRP
//
// Where:
//   - r_f = Risk-free rate (10-year Treasury)
//   - β = Equity beta (market sensitivity)
//   - MRP = Market Risk Premium (expected market return - risk-free rate)
func CostOfEquityCAPM(riskFreeRate, beta, marketRiskPremium float64) float64 {
	return riskFreeRate + beta*marketRiskPremium
}

// ResolveBeta returns the provider beta, or DefaultBeta when none was supplied.
func ResolveBeta(beta *float64) float64 {
	if beta == nil {
		return DefaultBeta
	}
	return *beta
}

// RunRateFactor returns the multiplier that annualizes the flows of a record of the given form:
// 1 for an annual report, 4 for a quarterly or derived quarter.
func RunRateFactor(form string) float64 {
	if models.IsAnnualForm(form) {
		return AnnualFactor
	}
	return QuarterlyFactor
}

// ImpliedGrowth is the growth the market price requires to earn the cost of equity.
//
// FORMULA: g = r_e − FCF yield
//
// Rearranged Gordon growth: P = FCF / (r_e − g)  ⇒  g = r_e − FCF/P
func ImpliedGrowth(costOfEquity, fcfYield float64) float64 {
	return costOfEquity - fcfYield
}

func safeDiv(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}
