package domain

import (
	"github.com/shopspring/decimal"
)

// SlabLine is the tax contribution of a single slab band. Upper is zero for
// the open-ended top slab. Tax is kept unrounded; statutory rounding is
// applied once per component on the result, not per line.
type SlabLine struct {
	Lower  decimal.Decimal `json:"lower"`
	Upper  decimal.Decimal `json:"upper"`
	Rate   decimal.Decimal `json:"rate"`
	Amount decimal.Decimal `json:"amount"`
	Tax    decimal.Decimal `json:"tax"`
}

// TaxResult is the liability under one regime for one profile. Derived,
// immutable, created once per (profile, regime) pair.
type TaxResult struct {
	Regime        Regime          `json:"regime"`
	TaxableIncome decimal.Decimal `json:"taxableIncome"`
	Slabs         []SlabLine      `json:"slabs"`
	BaseTax       decimal.Decimal `json:"baseTax"`
	Rebate        decimal.Decimal `json:"rebate"`
	Surcharge     decimal.Decimal `json:"surcharge"`
	Cess          decimal.Decimal `json:"cess"`
	TotalPayable  decimal.Decimal `json:"totalPayable"`
	EffectiveRate decimal.Decimal `json:"effectiveRate"` // percent of taxable income
}

// DeductionLine reports one section's claimed amount against its statutory
// cap. For HRA the cap column carries the computed exemption, since the
// limit is rule-based rather than a flat amount.
type DeductionLine struct {
	Section DeductionSection `json:"section"`
	Claimed decimal.Decimal  `json:"claimed"`
	Cap     decimal.Decimal  `json:"cap"`
	Allowed decimal.Decimal  `json:"allowed"`
}

// Recommendation proposes using a section's remaining headroom, ranked by
// the tax the headroom would save at the profile's marginal rate.
type Recommendation struct {
	Section         DeductionSection `json:"section"`
	Headroom        decimal.Decimal  `json:"headroom"`
	MarginalRate    decimal.Decimal  `json:"marginalRate"`
	EstimatedSaving decimal.Decimal  `json:"estimatedSaving"`
	Instruments     []string         `json:"instruments,omitempty"`
}

// TaxReport is the sole artifact handed to rendering/export collaborators.
// It is never mutated after construction; GenerateReport either returns a
// fully populated report or an error, never a partial one.
type TaxReport struct {
	AssessmentYear string          `json:"assessmentYear"`
	GrossIncome    decimal.Decimal `json:"grossIncome"`
	AgeBand        AgeBand         `json:"ageBand"`
	Elected        RegimeChoice    `json:"elected"`
	Chosen         Regime          `json:"chosen"`

	Old TaxResult `json:"old"`
	New TaxResult `json:"new"`

	Deductions   []DeductionLine `json:"deductions"`
	TotalClaimed decimal.Decimal `json:"totalClaimed"`
	TotalAllowed decimal.Decimal `json:"totalAllowed"`

	// Savings is the chosen regime's advantage over the alternative. It is
	// negative when the taxpayer elected the costlier regime.
	Savings decimal.Decimal `json:"savings"`

	Recommendations []Recommendation `json:"recommendations"`
}

// ChosenResult returns the TaxResult for the chosen regime.
func (r *TaxReport) ChosenResult() TaxResult {
	if r.Chosen == RegimeNew {
		return r.New
	}
	return r.Old
}

// AlternativeResult returns the TaxResult for the regime not chosen.
func (r *TaxReport) AlternativeResult() TaxResult {
	if r.Chosen == RegimeNew {
		return r.Old
	}
	return r.New
}
