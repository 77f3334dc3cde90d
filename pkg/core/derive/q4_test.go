package derive

import (
	"errors"
	"testing"

	"alpha_engine/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(date, form string, metrics map[string]float64) *models.FilingRecord {
	return &models.FilingRecord{PeriodEndDate: date, SourceForm: form, Metrics: metrics}
}

func fiscalYear() []*models.FilingRecord {
	return []*models.FilingRecord{
		record("2023-12-31", models.FormAnnual, map[string]float64{
			models.MetricRevenue:           400,
			models.MetricOperatingCashFlow: 500,
			models.MetricCash:              75,
		}),
		record("2023-09-30", models.FormQuarterly, map[string]float64{
			models.MetricRevenue:           120,
			models.MetricOperatingCashFlow: 380,
			models.MetricCash:              60,
		}),
		record("2023-06-30", models.FormQuarterly, map[string]float64{
			models.MetricRevenue:           110,
			models.MetricOperatingCashFlow: 250,
		}),
		record("2023-03-31", models.FormQuarterly, map[string]float64{
			models.MetricRevenue:           90,
			models.MetricOperatingCashFlow: 100,
		}),
	}
}

func TestDeriveQ4_ChoosesPathPerMetric(t *testing.T) {
	filings := fiscalYear()

	d, err := DeriveQ4(filings)
	require.NoError(t, err)

	// Revenue: 400 - (120+110+90) = 80
	assert.Equal(t, 80.0, d.Record.Value(models.MetricRevenue))
	assert.Equal(t, Discrete, d.Paths[models.MetricRevenue])

	// OCF: 500 - (380+250+100) < 0, so 500 - 380 = 120
	assert.Equal(t, 120.0, d.Record.Value(models.MetricOperatingCashFlow))
	assert.Equal(t, YearToDate, d.Paths[models.MetricOperatingCashFlow])

	assert.Equal(t, models.FormDerivedQ4, d.Record.SourceForm)
	assert.Equal(t, "2023-12-31", d.Record.PeriodEndDate)
	assert.Equal(t, 75.0, d.Record.Value(models.MetricCash), "stock metrics come from the annual snapshot")
	assert.NotContains(t, d.Paths, models.MetricCash)
}

func TestDeriveQ4_DoesNotMutateInputs(t *testing.T) {
	filings := fiscalYear()

	_, err := DeriveQ4(filings)
	require.NoError(t, err)
	assert.Equal(t, 400.0, filings[0].Value(models.MetricRevenue))
	assert.Equal(t, models.FormAnnual, filings[0].SourceForm)
}

func TestDeriveQ4_NegativeAnnualStaysDiscrete(t *testing.T) {
	filings := fiscalYear()
	filings[0].Metrics[models.MetricNetIncome] = -50
	filings[1].Metrics[models.MetricNetIncome] = 10

	d, err := DeriveQ4(filings)
	require.NoError(t, err)
	assert.Equal(t, -60.0, d.Record.Value(models.MetricNetIncome))
	assert.Equal(t, Discrete, d.Paths[models.MetricNetIncome])
}

func TestDeriveQ4_Preconditions(t *testing.T) {
	tests := []struct {
		name    string
		filings []*models.FilingRecord
	}{
		{"no filings", nil},
		{"three filings", fiscalYear()[:3]},
		{"newest is quarterly", append(fiscalYear()[1:], record("2022-12-31", models.FormAnnual, nil))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := DeriveQ4(tt.filings)
			assert.Nil(t, d)
			assert.True(t, errors.Is(err, ErrPreconditionUnmet))
		})
	}
}

func TestDeriveQ4_AmendedAnnualCounts(t *testing.T) {
	filings := fiscalYear()
	filings[0].SourceForm = "10-K/A"

	d, err := DeriveQ4(filings)
	require.NoError(t, err)
	assert.Equal(t, 80.0, d.Record.Value(models.MetricRevenue))
}
