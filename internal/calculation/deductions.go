package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/taxplan-in/taxplan/internal/domain"
)

// SectionCap is the statutory cap for one deduction section, possibly
// varying by age band (80D and the savings-interest exemption both do).
// Instruments are the investment options typically used to fill the section.
type SectionCap struct {
	Section     domain.DeductionSection            `yaml:"section" json:"section"`
	Caps        map[domain.AgeBand]decimal.Decimal `yaml:"caps" json:"caps"`
	Instruments []string                           `yaml:"instruments,omitempty" json:"instruments,omitempty"`
}

// CapTable holds the deduction caps for one assessment year. Order of
// Sections is the display and recommendation order.
type CapTable struct {
	AssessmentYear string       `yaml:"assessment_year" json:"assessmentYear"`
	Sections       []SectionCap `yaml:"sections" json:"sections"`
}

// CapFor returns the cap for a section and age band.
func (ct *CapTable) CapFor(section domain.DeductionSection, band domain.AgeBand) (decimal.Decimal, error) {
	for _, sc := range ct.Sections {
		if sc.Section != section {
			continue
		}
		capAmount, ok := sc.Caps[band]
		if !ok {
			return decimal.Zero, domain.NewConfigurationError(
				fmt.Sprintf("caps/%s/%s/%s", ct.AssessmentYear, section, band),
				"no cap registered for age band")
		}
		return capAmount, nil
	}
	return decimal.Zero, domain.NewConfigurationError(
		fmt.Sprintf("caps/%s/%s", ct.AssessmentYear, section),
		"no cap registered for section")
}

// InstrumentsFor returns the suggested instruments for a section.
func (ct *CapTable) InstrumentsFor(section domain.DeductionSection) []string {
	for _, sc := range ct.Sections {
		if sc.Section == section {
			return sc.Instruments
		}
	}
	return nil
}

// AllowedDeduction caps a claimed amount at the section's statutory cap for
// the profile's age band. The result is monotonic non-decreasing in the
// claimed amount up to the cap, then flat. A negative claim is a
// ValidationError, never silently clamped.
func (ct *CapTable) AllowedDeduction(section domain.DeductionSection, claimed decimal.Decimal, band domain.AgeBand) (decimal.Decimal, error) {
	if claimed.LessThan(decimal.Zero) {
		return decimal.Zero, domain.NewValidationError(
			fmt.Sprintf("deductions.%s", section), "claimed amount must not be negative, got %s", claimed)
	}
	capAmount, err := ct.CapFor(section, band)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.Min(claimed, capAmount), nil
}

// hraMetroShare and hraNonMetroShare are the statutory shares of basic
// salary used in the HRA exemption rule.
var (
	hraMetroShare    = decimal.NewFromFloat(0.50)
	hraNonMetroShare = decimal.NewFromFloat(0.40)
	hraBasicShare    = decimal.NewFromFloat(0.10)
)

// HRAExemption computes the exempt portion of a house rent allowance: the
// minimum of the allowance received, rent paid less 10% of basic salary
// (floored at zero), and 50%/40% of basic salary for metro/non-metro. The
// result is never negative.
func HRAExemption(h *domain.HRADetails) (decimal.Decimal, error) {
	if h == nil {
		return decimal.Zero, nil
	}
	if h.HRAReceived.LessThan(decimal.Zero) {
		return decimal.Zero, domain.NewValidationError("hra.hra_received", "must not be negative, got %s", h.HRAReceived)
	}
	if h.RentPaid.LessThan(decimal.Zero) {
		return decimal.Zero, domain.NewValidationError("hra.rent_paid", "must not be negative, got %s", h.RentPaid)
	}
	if h.BasicSalary.LessThan(decimal.Zero) {
		return decimal.Zero, domain.NewValidationError("hra.basic_salary", "must not be negative, got %s", h.BasicSalary)
	}
	if !h.City.Valid() {
		return decimal.Zero, domain.NewValidationError("hra.city", "unknown value %q", string(h.City))
	}

	rentOverBasic := h.RentPaid.Sub(h.BasicSalary.Mul(hraBasicShare))
	if rentOverBasic.LessThan(decimal.Zero) {
		rentOverBasic = decimal.Zero
	}
	share := hraNonMetroShare
	if h.City == domain.CityMetro {
		share = hraMetroShare
	}
	basicShare := h.BasicSalary.Mul(share)

	exemption := decimal.Min(h.HRAReceived, rentOverBasic, basicShare)
	if exemption.LessThan(decimal.Zero) {
		exemption = decimal.Zero
	}
	return exemption, nil
}

func capsAllBands(amount int64) map[domain.AgeBand]decimal.Decimal {
	d := decimal.NewFromInt(amount)
	return map[domain.AgeBand]decimal.Decimal{
		domain.AgeBandBelow60:     d,
		domain.AgeBandSenior:      d,
		domain.AgeBandSuperSenior: d,
	}
}

func newDefaultCapTable(year string) *CapTable {
	return &CapTable{
		AssessmentYear: year,
		Sections: []SectionCap{
			{
				Section:     domain.Section80C,
				Caps:        capsAllBands(150000),
				Instruments: []string{"PPF", "ELSS", "Life Insurance", "EPF"},
			},
			{
				Section: domain.Section80D,
				// Senior citizens get the higher health-insurance cap.
				Caps: map[domain.AgeBand]decimal.Decimal{
					domain.AgeBandBelow60:     decimal.NewFromInt(25000),
					domain.AgeBandSenior:      decimal.NewFromInt(50000),
					domain.AgeBandSuperSenior: decimal.NewFromInt(50000),
				},
				Instruments: []string{"Health Insurance"},
			},
			{
				Section: domain.Section80TTA,
				// Seniors claim interest under 80TTB instead; modeled here
				// as an age-band-dependent cap on the same row.
				Caps: map[domain.AgeBand]decimal.Decimal{
					domain.AgeBandBelow60:     decimal.NewFromInt(10000),
					domain.AgeBandSenior:      decimal.NewFromInt(50000),
					domain.AgeBandSuperSenior: decimal.NewFromInt(50000),
				},
				Instruments: []string{"Savings Account Interest"},
			},
		},
	}
}

// NewDefaultCapTables returns the built-in cap tables keyed by assessment
// year, matching the years in NewDefaultRegistry.
func NewDefaultCapTables() map[string]*CapTable {
	return map[string]*CapTable{
		"2024-25": newDefaultCapTable("2024-25"),
		"2025-26": newDefaultCapTable("2025-26"),
	}
}
