package calculation

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/taxplan-in/taxplan/internal/domain"
)

// Recommend proposes filling the unused headroom of each capped deduction
// section, ranked by the tax saved at the profile's marginal rate under the
// chosen regime.
//
// Sections are skipped entirely when the chosen regime disallows
// deductions, or when headroom is zero: recommending an unusable deduction
// would be a correctness bug. HRA is excluded because its limit is
// rule-based, so "headroom" is undefined for it. An empty result means the
// profile is already fully optimized.
func Recommend(caps *CapTable, profile *domain.Profile, chosen *RegimeTable, chosenResult domain.TaxResult) ([]domain.Recommendation, error) {
	if !chosen.AllowsDeductions {
		return nil, nil
	}
	slabs, err := chosen.SlabsFor(profile.AgeBand)
	if err != nil {
		return nil, err
	}
	marginalRate := MarginalRate(chosenResult.TaxableIncome, slabs)

	var recs []domain.Recommendation
	for _, sc := range caps.Sections {
		capAmount, err := caps.CapFor(sc.Section, profile.AgeBand)
		if err != nil {
			return nil, err
		}
		allowed, err := caps.AllowedDeduction(sc.Section, profile.ClaimedAmount(sc.Section), profile.AgeBand)
		if err != nil {
			return nil, err
		}
		headroom := capAmount.Sub(allowed)
		if headroom.LessThanOrEqual(decimal.Zero) {
			continue
		}
		saving := RoundRupee(headroom.Mul(marginalRate))
		// A saving can never exceed the current liability; profiles already
		// at zero tax (rebate zone) get no phantom savings.
		saving = decimal.Min(saving, chosenResult.TotalPayable)
		recs = append(recs, domain.Recommendation{
			Section:         sc.Section,
			Headroom:        headroom,
			MarginalRate:    marginalRate,
			EstimatedSaving: saving,
			Instruments:     sc.Instruments,
		})
	}

	// Highest saving first; ties broken by section code for determinism.
	sort.SliceStable(recs, func(i, j int) bool {
		if !recs[i].EstimatedSaving.Equal(recs[j].EstimatedSaving) {
			return recs[i].EstimatedSaving.GreaterThan(recs[j].EstimatedSaving)
		}
		return recs[i].Section < recs[j].Section
	})
	return recs, nil
}
