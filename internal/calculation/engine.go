package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/taxplan-in/taxplan/internal/domain"
)

// TaxEngine turns a validated profile into a TaxReport. Its tables are
// built once and treated as read-only, so a single engine is safe to share
// across concurrent computations.
type TaxEngine struct {
	Registry *Registry
	Caps     map[string]*CapTable
	Logger   Logger
}

// NewTaxEngine creates an engine loaded with the built-in regime and cap
// tables.
func NewTaxEngine() *TaxEngine {
	return &TaxEngine{
		Registry: NewDefaultRegistry(),
		Caps:     NewDefaultCapTables(),
		Logger:   NopLogger{},
	}
}

// SetLogger replaces the engine logger; nil restores the no-op logger.
func (e *TaxEngine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

// CapsFor returns the cap table for an assessment year.
func (e *TaxEngine) CapsFor(year string) (*CapTable, error) {
	caps, ok := e.Caps[year]
	if !ok {
		return nil, domain.NewConfigurationError(
			"caps/"+year, "no deduction cap table registered for assessment year %s", year)
	}
	return caps, nil
}

// GenerateReport is the engine's single entry point. It validates the
// profile, applies the deduction rules, computes the liability under both
// regimes, selects the regime to report, and ranks the savings
// recommendations. It fails with ValidationError on bad input and
// ConfigurationError on a missing table; it never returns a partial report.
func (e *TaxEngine) GenerateReport(profile *domain.Profile) (*domain.TaxReport, error) {
	if profile == nil {
		return nil, domain.NewValidationError("profile", "is required")
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	caps, err := e.CapsFor(profile.AssessmentYear)
	if err != nil {
		return nil, err
	}
	oldTable, err := e.Registry.TableFor(domain.RegimeOld, profile.AssessmentYear)
	if err != nil {
		return nil, err
	}
	newTable, err := e.Registry.TableFor(domain.RegimeNew, profile.AssessmentYear)
	if err != nil {
		return nil, err
	}

	lines, totalClaimed, totalAllowed, err := e.applyDeductionRules(caps, profile)
	if err != nil {
		return nil, err
	}
	e.Logger.Debugf("deductions: claimed %s, allowed %s", totalClaimed, totalAllowed)

	tiOld := TaxableIncome(profile.GrossIncome, oldTable.StandardDeduction, totalAllowed, oldTable.AllowsDeductions)
	tiNew := TaxableIncome(profile.GrossIncome, newTable.StandardDeduction, totalAllowed, newTable.AllowsDeductions)

	oldResult, err := ComputeTax(tiOld, oldTable, profile.AgeBand)
	if err != nil {
		return nil, err
	}
	newResult, err := ComputeTax(tiNew, newTable, profile.AgeBand)
	if err != nil {
		return nil, err
	}

	chosen := ChooseRegime(oldResult, newResult, profile.Regime)
	chosenTable, chosenResult := oldTable, oldResult
	alternative := newResult
	if chosen == domain.RegimeNew {
		chosenTable, chosenResult = newTable, newResult
		alternative = oldResult
	}
	e.Logger.Infof("regime %s chosen: %s payable vs %s under %s",
		chosen, chosenResult.TotalPayable, alternative.TotalPayable, alternative.Regime)

	recs, err := Recommend(caps, profile, chosenTable, chosenResult)
	if err != nil {
		return nil, err
	}

	return &domain.TaxReport{
		AssessmentYear:  profile.AssessmentYear,
		GrossIncome:     profile.GrossIncome,
		AgeBand:         profile.AgeBand,
		Elected:         profile.Regime,
		Chosen:          chosen,
		Old:             oldResult,
		New:             newResult,
		Deductions:      lines,
		TotalClaimed:    totalClaimed,
		TotalAllowed:    totalAllowed,
		Savings:         alternative.TotalPayable.Sub(chosenResult.TotalPayable),
		Recommendations: recs,
	}, nil
}

// applyDeductionRules reduces the profile's claims to per-section allowed
// amounts. The HRA exemption line reports the computed exemption as both
// cap and allowed amount, since its limit is rule-based.
func (e *TaxEngine) applyDeductionRules(caps *CapTable, profile *domain.Profile) ([]domain.DeductionLine, decimal.Decimal, decimal.Decimal, error) {
	var lines []domain.DeductionLine
	totalClaimed := decimal.Zero
	totalAllowed := decimal.Zero

	for _, sc := range caps.Sections {
		claimed := profile.ClaimedAmount(sc.Section)
		capAmount, err := caps.CapFor(sc.Section, profile.AgeBand)
		if err != nil {
			return nil, decimal.Zero, decimal.Zero, err
		}
		allowed, err := caps.AllowedDeduction(sc.Section, claimed, profile.AgeBand)
		if err != nil {
			return nil, decimal.Zero, decimal.Zero, err
		}
		lines = append(lines, domain.DeductionLine{
			Section: sc.Section,
			Claimed: claimed,
			Cap:     capAmount,
			Allowed: allowed,
		})
		totalClaimed = totalClaimed.Add(claimed)
		totalAllowed = totalAllowed.Add(allowed)
	}

	if profile.HRA != nil {
		exemption, err := HRAExemption(profile.HRA)
		if err != nil {
			return nil, decimal.Zero, decimal.Zero, err
		}
		lines = append(lines, domain.DeductionLine{
			Section: domain.SectionHRA,
			Claimed: profile.HRA.HRAReceived,
			Cap:     exemption,
			Allowed: exemption,
		})
		totalClaimed = totalClaimed.Add(profile.HRA.HRAReceived)
		totalAllowed = totalAllowed.Add(exemption)
	}

	return lines, totalClaimed, totalAllowed, nil
}
