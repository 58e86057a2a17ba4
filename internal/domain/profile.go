package domain

import (
	"github.com/shopspring/decimal"
)

// Regime identifies a statutory taxation scheme.
type Regime string

const (
	RegimeOld Regime = "old"
	RegimeNew Regime = "new"
)

// RegimeChoice is the taxpayer's election on the profile. Auto means
// "compute both and pick the cheaper one"; an explicit choice is never
// overridden by the comparator.
type RegimeChoice string

const (
	RegimeChoiceAuto RegimeChoice = "auto"
	RegimeChoiceOld  RegimeChoice = "old"
	RegimeChoiceNew  RegimeChoice = "new"
)

// Elected returns the explicitly elected regime, if any.
func (rc RegimeChoice) Elected() (Regime, bool) {
	switch rc {
	case RegimeChoiceOld:
		return RegimeOld, true
	case RegimeChoiceNew:
		return RegimeNew, true
	}
	return "", false
}

// Valid reports whether the choice is a member of the closed enumeration.
func (rc RegimeChoice) Valid() bool {
	switch rc {
	case RegimeChoiceAuto, RegimeChoiceOld, RegimeChoiceNew:
		return true
	}
	return false
}

// AgeBand drives slab exemption thresholds and age-dependent deduction caps.
type AgeBand string

const (
	AgeBandBelow60     AgeBand = "below_60"
	AgeBandSenior      AgeBand = "60_to_80"
	AgeBandSuperSenior AgeBand = "above_80"
)

// Valid reports whether the band is a member of the closed enumeration.
func (ab AgeBand) Valid() bool {
	switch ab {
	case AgeBandBelow60, AgeBandSenior, AgeBandSuperSenior:
		return true
	}
	return false
}

// CityClass distinguishes metro from non-metro for the HRA exemption rule.
type CityClass string

const (
	CityMetro    CityClass = "metro"
	CityNonMetro CityClass = "non_metro"
)

// Valid reports whether the class is a member of the closed enumeration.
func (cc CityClass) Valid() bool {
	return cc == CityMetro || cc == CityNonMetro
}

// DeductionSection is a statutory deduction code.
type DeductionSection string

const (
	Section80C   DeductionSection = "80C"
	Section80D   DeductionSection = "80D"
	Section80TTA DeductionSection = "80TTA"
	SectionHRA   DeductionSection = "HRA"
)

// ClaimedDeductions holds the raw amounts the taxpayer claims per section,
// before any statutory cap is applied.
type ClaimedDeductions struct {
	Section80C   decimal.Decimal `yaml:"section_80c" json:"section80C"`
	Section80D   decimal.Decimal `yaml:"section_80d" json:"section80D"`
	Section80TTA decimal.Decimal `yaml:"section_80tta" json:"section80TTA"`
}

// HRADetails holds the inputs for the HRA exemption rule. A nil HRADetails
// on a profile means no HRA is claimed.
type HRADetails struct {
	HRAReceived decimal.Decimal `yaml:"hra_received" json:"hraReceived"`
	RentPaid    decimal.Decimal `yaml:"rent_paid" json:"rentPaid"`
	BasicSalary decimal.Decimal `yaml:"basic_salary" json:"basicSalary"`
	City        CityClass       `yaml:"city" json:"city"`
}

// Profile is the immutable input to one tax computation. It is constructed
// from validated external input and lives only for the duration of one
// GenerateReport call.
type Profile struct {
	GrossIncome    decimal.Decimal   `yaml:"gross_income" json:"grossIncome"`
	AgeBand        AgeBand           `yaml:"age_band" json:"ageBand"`
	AssessmentYear string            `yaml:"assessment_year" json:"assessmentYear"`
	Regime         RegimeChoice      `yaml:"regime" json:"regime"`
	Deductions     ClaimedDeductions `yaml:"deductions" json:"deductions"`
	HRA            *HRADetails       `yaml:"hra,omitempty" json:"hra,omitempty"`
}

// ClaimedAmount returns the raw claimed amount for a section. For HRA the
// claimed amount is the allowance received; the exemption itself is derived.
func (p *Profile) ClaimedAmount(section DeductionSection) decimal.Decimal {
	switch section {
	case Section80C:
		return p.Deductions.Section80C
	case Section80D:
		return p.Deductions.Section80D
	case Section80TTA:
		return p.Deductions.Section80TTA
	case SectionHRA:
		if p.HRA != nil {
			return p.HRA.HRAReceived
		}
	}
	return decimal.Zero
}

// Validate checks the profile invariants: monetary fields non-negative,
// enumerations in range, assessment year present. The engine calls this
// defensively even when the form layer has already validated.
func (p *Profile) Validate() error {
	if p.GrossIncome.LessThan(decimal.Zero) {
		return NewValidationError("gross_income", "must not be negative, got %s", p.GrossIncome)
	}
	if !p.AgeBand.Valid() {
		return NewValidationError("age_band", "unknown value %q", string(p.AgeBand))
	}
	if p.AssessmentYear == "" {
		return NewValidationError("assessment_year", "is required")
	}
	if !p.Regime.Valid() {
		return NewValidationError("regime", "unknown value %q", string(p.Regime))
	}
	if p.Deductions.Section80C.LessThan(decimal.Zero) {
		return NewValidationError("deductions.section_80c", "must not be negative, got %s", p.Deductions.Section80C)
	}
	if p.Deductions.Section80D.LessThan(decimal.Zero) {
		return NewValidationError("deductions.section_80d", "must not be negative, got %s", p.Deductions.Section80D)
	}
	if p.Deductions.Section80TTA.LessThan(decimal.Zero) {
		return NewValidationError("deductions.section_80tta", "must not be negative, got %s", p.Deductions.Section80TTA)
	}
	if p.HRA != nil {
		if p.HRA.HRAReceived.LessThan(decimal.Zero) {
			return NewValidationError("hra.hra_received", "must not be negative, got %s", p.HRA.HRAReceived)
		}
		if p.HRA.RentPaid.LessThan(decimal.Zero) {
			return NewValidationError("hra.rent_paid", "must not be negative, got %s", p.HRA.RentPaid)
		}
		if p.HRA.BasicSalary.LessThan(decimal.Zero) {
			return NewValidationError("hra.basic_salary", "must not be negative, got %s", p.HRA.BasicSalary)
		}
		if !p.HRA.City.Valid() {
			return NewValidationError("hra.city", "unknown value %q", string(p.HRA.City))
		}
	}
	return nil
}
