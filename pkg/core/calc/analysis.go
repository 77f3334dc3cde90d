package calc

import (
	"errors"
	"fmt"

	"alpha_engine/pkg/core/derive"
	"alpha_engine/pkg/models"

	"github.com/rs/zerolog/log"
)

// ErrNoFilings means there is nothing to analyze.
var ErrNoFilings = errors.New("no filings to analyze")

// =============================================================================
// ANALYSIS ROUTING
// =============================================================================

// Analysis is the outcome of routing a filing series through derivation and the ratio engine.
type Analysis struct {
	Current    *models.FilingRecord
	Previous   *models.FilingRecord
	Derivation *derive.Derivation // nil unless an implied Q4 was built
	Report     models.MetricsReport
}

// Analyze picks the comparison pair from newest-first records and computes the report.
//
//   - Newest is annual and Q4 derivation succeeds: implied Q4 against Q3 (records[1]), run rate 4.
//   - Newest is annual and derivation fails: annual against the prior annual record, run rate 1.
//   - Newest is quarterly: that quarter against records[1], run rate 4.
func Analyze(records []*models.FilingRecord, market models.MarketSnapshot) (*Analysis, error) {
	if len(records) == 0 {
		return nil, ErrNoFilings
	}

	latest := records[0]
	a := &Analysis{Current: latest}

	if latest.IsAnnual() {
		d, err := derive.DeriveQ4(records)
		if err == nil {
			a.Current, a.Previous, a.Derivation = d.Record, records[1], d
			log.Info().
				Str("PeriodEnd", latest.PeriodEndDate).
				Interface("Paths", d.Paths).
				Msg("derived implied Q4 from annual report")
		} else {
			a.Previous = priorAnnual(records)
			log.Info().Err(err).Str("PeriodEnd", latest.PeriodEndDate).Msg("falling back to annual-over-annual comparison")
		}
	} else if len(records) > 1 {
		a.Previous = records[1]
	}

	a.Report = ComputeRatios(a.Current, a.Previous, market)
	return a, nil
}

func priorAnnual(records []*models.FilingRecord) *models.FilingRecord {
	for _, rec := range records[1:] {
		if rec.IsAnnual() {
			return rec
		}
	}
	return nil
}

// =============================================================================
// HISTORY SERIES
// =============================================================================

// History computes gross margin and FCF yield for every record, oldest first, against the
// current market cap. Records without revenue are treated as failed extractions and skipped.
func History(records []*models.FilingRecord, market models.MarketSnapshot) []models.HistoryPoint {
	points := make([]models.HistoryPoint, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		rec := records[i]
		if rec == nil {
			continue
		}
		revenue := rec.Value(models.MetricRevenue)
		if revenue == 0 {
			continue
		}
		af := RunRateFactor(rec.SourceForm)
		fcf := rec.Value(models.MetricOperatingCashFlow) - rec.Value(models.MetricCapEx)
		points = append(points, models.HistoryPoint{
			Date:        rec.PeriodEndDate,
			Source:      rec.SourceForm,
			GrossMargin: GrossMargin(revenue, rec.Value(models.MetricCOGS)),
			FCFYield:    safeDiv(fcf*af, market.MarketCap),
		})
	}
	return points
}

// Summarize condenses an analysis into a peer-scan row.
func Summarize(ticker string, r models.MetricsReport) models.PeerSummary {
	return models.PeerSummary{
		Ticker:           ticker,
		MarketCap:        r.MarketCap,
		FCFYield:         r.FCFYield,
		SequentialGrowth: r.SequentialGrowth,
		EVToEBIT:         r.EVToEBIT,
		PE:               r.PE,
		ERP:              r.EquityRiskPremium,
		ROIC:             r.ROIC,
	}
}

// String renders a one-line description of the comparison used.
func (a *Analysis) String() string {
	if a.Previous == nil {
		return fmt.Sprintf("%s %s (no comparison period)", a.Current.SourceForm, a.Current.PeriodEndDate)
	}
	return fmt.Sprintf("%s %s vs %s %s", a.Current.SourceForm, a.Current.PeriodEndDate, a.Previous.SourceForm, a.Previous.PeriodEndDate)
}
