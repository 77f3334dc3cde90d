package models

import (
	"sort"
	"strings"
)

// Source forms recognised by the extraction and routing code.
const (
	FormAnnual    = "10-K"
	FormQuarterly = "10-Q"
	FormDerivedQ4 = "10-Q (Derived)"
	FormUnknown   = "Unknown"
)

// Canonical metric names used by the builtin tag registry and the ratio engine.
const (
	MetricRevenue            = "Revenue"
	MetricCOGS               = "COGS"
	MetricOperatingIncome    = "Operating Income"
	MetricNetIncome          = "Net Income"
	MetricOperatingCashFlow  = "Operating Cash Flow"
	MetricCapEx              = "CapEx"
	MetricBuybacks           = "Buybacks"
	MetricDividends          = "Dividends"
	MetricCash               = "Cash"
	MetricLongTermDebt       = "Long Term Debt"
	MetricShortTermDebt      = "Short Term Debt"
	MetricStockholdersEquity = "Stockholders Equity"
)

// FlowMetrics are measured over a period and are rebuilt when deriving an implied Q4.
// Stock (balance-sheet) metrics are point-in-time and always taken from the newest snapshot.
var FlowMetrics = []string{
	MetricRevenue,
	MetricCOGS,
	MetricOperatingIncome,
	MetricNetIncome,
	MetricOperatingCashFlow,
	MetricCapEx,
	MetricBuybacks,
	MetricDividends,
}

// FilingRecord is the normalized output of one parsed filing.
// PeriodEndDate is never empty; a filing without one is discarded before a record exists.
type FilingRecord struct {
	PeriodEndDate string             `json:"period_end_date"`
	SourceForm    string             `json:"source_form"`
	Metrics       map[string]float64 `json:"metrics"`
	FileRef       string             `json:"file_ref"`

	// Missing lists metrics that resolved to the 0.0 sentinel because no qualifying fact was found.
	Missing []string `json:"missing,omitempty"`
}

// Value returns the metric value, 0 when the metric is absent.
func (r *FilingRecord) Value(metric string) float64 {
	if r == nil {
		return 0
	}
	return r.Metrics[metric]
}

// IsMissing reports whether the metric could not be located in the source document.
func (r *FilingRecord) IsMissing(metric string) bool {
	if r == nil {
		return true
	}
	for _, m := range r.Missing {
		if m == metric {
			return true
		}
	}
	return false
}

// IsAnnual reports whether the record comes from an annual filing (10-K or an amendment of it).
func (r *FilingRecord) IsAnnual() bool {
	return r != nil && IsAnnualForm(r.SourceForm)
}

// Clone returns a deep copy so derived records never share maps with their source.
func (r *FilingRecord) Clone() *FilingRecord {
	if r == nil {
		return nil
	}
	out := &FilingRecord{
		PeriodEndDate: r.PeriodEndDate,
		SourceForm:    r.SourceForm,
		FileRef:       r.FileRef,
		Metrics:       make(map[string]float64, len(r.Metrics)),
	}
	for k, v := range r.Metrics {
		out.Metrics[k] = v
	}
	if len(r.Missing) > 0 {
		out.Missing = append([]string(nil), r.Missing...)
	}
	return out
}

// IsAnnualForm matches "10-K" and its amendments ("10-K/A", "10-KA").
func IsAnnualForm(form string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(form)), FormAnnual)
}

// SortNewestFirst orders records by period end date, latest first.
// ISO dates sort lexically; the sort is stable so equal dates keep their input order.
func SortNewestFirst(records []*FilingRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].PeriodEndDate > records[j].PeriodEndDate
	})
}
