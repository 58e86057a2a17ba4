package calculation

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxplan-in/taxplan/internal/domain"
)

func engineProfile() *domain.Profile {
	return &domain.Profile{
		GrossIncome:    decimal.NewFromInt(1200000),
		AgeBand:        domain.AgeBandBelow60,
		AssessmentYear: "2024-25",
		Regime:         domain.RegimeChoiceAuto,
	}
}

func TestGenerateReport_RebateZone(t *testing.T) {
	engine := NewTaxEngine()
	profile := engineProfile()
	profile.GrossIncome = decimal.NewFromInt(700000)

	report, err := engine.GenerateReport(profile)
	require.NoError(t, err)

	// New regime: 650,000 taxable after standard deduction, base 20,000
	// fully rebated. Old regime stays liable at 44,200.
	assert.Equal(t, domain.RegimeNew, report.Chosen)
	assert.True(t, report.New.TotalPayable.IsZero())
	assert.True(t, report.New.Rebate.Equal(decimal.NewFromInt(20000)))
	assert.True(t, report.Old.TotalPayable.Equal(decimal.NewFromInt(44200)), "old total %s", report.Old.TotalPayable)
	assert.True(t, report.Savings.Equal(decimal.NewFromInt(44200)))
	assert.Empty(t, report.Recommendations, "no deductions usable under the chosen new regime")
}

func TestGenerateReport_DeductionsCapped(t *testing.T) {
	engine := NewTaxEngine()
	profile := engineProfile()
	profile.GrossIncome = decimal.NewFromInt(1500000)
	profile.Deductions.Section80C = decimal.NewFromInt(200000)
	profile.Deductions.Section80D = decimal.NewFromInt(30000)

	report, err := engine.GenerateReport(profile)
	require.NoError(t, err)

	// 80C clamps to 150,000 and 80D to 25,000.
	assert.True(t, report.TotalClaimed.Equal(decimal.NewFromInt(230000)))
	assert.True(t, report.TotalAllowed.Equal(decimal.NewFromInt(175000)))
	assert.True(t, report.Old.TaxableIncome.Equal(decimal.NewFromInt(1275000)))
	assert.True(t, report.Old.TotalPayable.Equal(decimal.NewFromInt(202800)), "old total %s", report.Old.TotalPayable)
	assert.True(t, report.New.TaxableIncome.Equal(decimal.NewFromInt(1450000)),
		"new regime ignores section deductions")
	assert.True(t, report.New.TotalPayable.Equal(decimal.NewFromInt(145600)), "new total %s", report.New.TotalPayable)
	assert.Equal(t, domain.RegimeNew, report.Chosen)
	assert.True(t, report.Savings.Equal(decimal.NewFromInt(57200)))
}

func TestGenerateReport_ElectionNotOverridden(t *testing.T) {
	engine := NewTaxEngine()
	profile := engineProfile()
	profile.GrossIncome = decimal.NewFromInt(1500000)
	profile.Regime = domain.RegimeChoiceOld
	profile.Deductions.Section80C = decimal.NewFromInt(200000)
	profile.Deductions.Section80D = decimal.NewFromInt(30000)

	report, err := engine.GenerateReport(profile)
	require.NoError(t, err)

	assert.Equal(t, domain.RegimeOld, report.Chosen)
	assert.Equal(t, domain.RegimeChoiceOld, report.Elected)
	assert.True(t, report.Savings.Equal(decimal.NewFromInt(-57200)),
		"electing the costlier regime surfaces as negative savings")
	assert.True(t, report.ChosenResult().TotalPayable.Equal(decimal.NewFromInt(202800)))
	assert.True(t, report.AlternativeResult().TotalPayable.Equal(decimal.NewFromInt(145600)))
}

func TestGenerateReport_SeniorCitizen(t *testing.T) {
	engine := NewTaxEngine()
	profile := engineProfile()
	profile.GrossIncome = decimal.NewFromInt(700000)
	profile.AgeBand = domain.AgeBandSenior
	profile.Regime = domain.RegimeChoiceOld
	profile.Deductions.Section80TTA = decimal.NewFromInt(60000)

	report, err := engine.GenerateReport(profile)
	require.NoError(t, err)

	// Interest deduction clamps to the senior cap of 50,000, leaving
	// 600,000 taxable on the senior slab schedule.
	assert.True(t, report.TotalAllowed.Equal(decimal.NewFromInt(50000)))
	assert.True(t, report.Old.TaxableIncome.Equal(decimal.NewFromInt(600000)))
	assert.True(t, report.Old.TotalPayable.Equal(decimal.NewFromInt(31200)), "old total %s", report.Old.TotalPayable)
	assert.Equal(t, domain.RegimeOld, report.Chosen)
}

func TestGenerateReport_HRALine(t *testing.T) {
	engine := NewTaxEngine()
	profile := engineProfile()
	profile.Regime = domain.RegimeChoiceOld
	profile.HRA = &domain.HRADetails{
		HRAReceived: decimal.NewFromInt(240000),
		RentPaid:    decimal.NewFromInt(180000),
		BasicSalary: decimal.NewFromInt(600000),
		City:        domain.CityMetro,
	}

	report, err := engine.GenerateReport(profile)
	require.NoError(t, err)

	var hraLine *domain.DeductionLine
	for i := range report.Deductions {
		if report.Deductions[i].Section == domain.SectionHRA {
			hraLine = &report.Deductions[i]
		}
	}
	require.NotNil(t, hraLine, "HRA details must produce a deduction line")
	assert.True(t, hraLine.Allowed.Equal(decimal.NewFromInt(120000)), "exemption %s", hraLine.Allowed)
	assert.True(t, hraLine.Cap.Equal(hraLine.Allowed), "HRA has no flat cap; the exemption is the cap")

	for _, rec := range report.Recommendations {
		assert.NotEqual(t, domain.SectionHRA, rec.Section, "HRA headroom is undefined")
	}
}

func TestGenerateReport_Recommendations(t *testing.T) {
	engine := NewTaxEngine()
	profile := engineProfile()
	profile.GrossIncome = decimal.NewFromInt(1500000)
	profile.Regime = domain.RegimeChoiceOld
	profile.Deductions.Section80C = decimal.NewFromInt(100000)

	report, err := engine.GenerateReport(profile)
	require.NoError(t, err)

	require.Len(t, report.Recommendations, 3)
	assert.Equal(t, domain.Section80C, report.Recommendations[0].Section)
	assert.True(t, report.Recommendations[0].EstimatedSaving.Equal(decimal.NewFromInt(15000)))
	assert.Contains(t, report.Recommendations[0].Instruments, "PPF")
}

func TestGenerateReport_Deterministic(t *testing.T) {
	engine := NewTaxEngine()
	profile := engineProfile()
	profile.Deductions.Section80C = decimal.NewFromInt(80000)

	first, err := engine.GenerateReport(profile)
	require.NoError(t, err)
	second, err := engine.GenerateReport(profile)
	require.NoError(t, err)

	assert.Equal(t, first, second, "same profile must always produce the same report")
}

func TestGenerateReport_NilProfile(t *testing.T) {
	engine := NewTaxEngine()

	_, err := engine.GenerateReport(nil)

	require.Error(t, err)
	var vErr *domain.ValidationError
	assert.True(t, errors.As(err, &vErr))
}

func TestGenerateReport_InvalidProfile(t *testing.T) {
	engine := NewTaxEngine()
	profile := engineProfile()
	profile.GrossIncome = decimal.NewFromInt(-100)

	_, err := engine.GenerateReport(profile)

	require.Error(t, err)
	var vErr *domain.ValidationError
	assert.True(t, errors.As(err, &vErr))
}

func TestGenerateReport_UnknownAssessmentYear(t *testing.T) {
	engine := NewTaxEngine()
	profile := engineProfile()
	profile.AssessmentYear = "2031-32"

	_, err := engine.GenerateReport(profile)

	require.Error(t, err)
	var cErr *domain.ConfigurationError
	assert.True(t, errors.As(err, &cErr))
}

func TestGenerateReport_NextAssessmentYear(t *testing.T) {
	engine := NewTaxEngine()
	profile := engineProfile()
	profile.GrossIncome = decimal.NewFromInt(800000)
	profile.AssessmentYear = "2025-26"

	report, err := engine.GenerateReport(profile)
	require.NoError(t, err)

	// The 2025-26 new regime carries a 75,000 standard deduction.
	assert.True(t, report.New.TaxableIncome.Equal(decimal.NewFromInt(725000)))
	assert.True(t, report.Old.TaxableIncome.Equal(decimal.NewFromInt(750000)))
}
