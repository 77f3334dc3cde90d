// Package derive reconstructs the implied fourth quarter of a fiscal year.
//
// Companies file three 10-Qs and one 10-K per year, so Q4 is never reported on its own and has
// to be backed out of the annual total.
package derive

import (
	"errors"
	"fmt"

	"alpha_engine/pkg/models"
)

// ErrPreconditionUnmet means the filings cannot support a Q4 derivation: fewer than four were
// given, or the newest is not an annual report. Callers fall back to annual-over-annual analysis.
var ErrPreconditionUnmet = errors.New("q4 derivation precondition unmet")

// Path is the convention a quarterly figure was assumed to follow.
type Path string

const (
	// Discrete quarters each report a single quarter.
	Discrete Path = "discrete"
	// YearToDate quarters report the cumulative amount since the start of the fiscal year.
	YearToDate Path = "ytd"
)

// Derivation is a derived Q4 record plus the path chosen for each flow metric.
type Derivation struct {
	Record *models.FilingRecord
	Paths  map[string]Path
}

// =============================================================================
// Q4 DERIVATION
// =============================================================================

// DeriveQ4 builds the implied Q4 record from newest-first filings: filings[0] is the 10-K and
// filings[1..3] are Q3, Q2 and Q1.
//
// FORMULA (per flow metric):
//
//	discrete = FY − (Q3 + Q2 + Q1)
//	ytd      = FY − Q3
//	Q4       = ytd if FY > 0 and discrete < 0, else discrete
//
// A positive annual total cannot be exceeded by three single-quarter values, so a negative
// discrete estimate means the quarters were reported year-to-date. The choice is made per metric:
// income statement lines usually resolve discrete while cash flow lines resolve year-to-date.
// Stock metrics and the period end are copied from the annual record.
func DeriveQ4(filings []*models.FilingRecord) (*Derivation, error) {
	if len(filings) < 4 {
		return nil, fmt.Errorf("%w: need 4 filings, got %d", ErrPreconditionUnmet, len(filings))
	}
	annual := filings[0]
	if !annual.IsAnnual() {
		return nil, fmt.Errorf("%w: newest filing is %q, not annual", ErrPreconditionUnmet, annual.SourceForm)
	}
	q3, q2, q1 := filings[1], filings[2], filings[3]

	rec := annual.Clone()
	rec.SourceForm = models.FormDerivedQ4
	paths := make(map[string]Path, len(models.FlowMetrics))

	for _, metric := range models.FlowMetrics {
		if _, ok := annual.Metrics[metric]; !ok {
			continue
		}
		fy := annual.Value(metric)
		discrete := fy - (q3.Value(metric) + q2.Value(metric) + q1.Value(metric))
		ytd := fy - q3.Value(metric)

		if fy > 0 && discrete < 0 {
			rec.Metrics[metric] = ytd
			paths[metric] = YearToDate
		} else {
			rec.Metrics[metric] = discrete
			paths[metric] = Discrete
		}
	}

	return &Derivation{Record: rec, Paths: paths}, nil
}
