package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/taxplan-in/taxplan/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// ComputeTax applies a regime table to a taxable income: progressive slab
// walk, section 87A rebate, surcharge step on the post-rebate base, and
// health-and-education cess on (base + surcharge). Each statutory
// component is rounded half-up to the rupee before the total is formed.
//
// A negative taxable income indicates an upstream deduction bug and is a
// ValidationError, never clamped.
func ComputeTax(taxableIncome decimal.Decimal, table *RegimeTable, band domain.AgeBand) (domain.TaxResult, error) {
	if taxableIncome.LessThan(decimal.Zero) {
		return domain.TaxResult{}, domain.NewValidationError(
			"taxable_income", "must not be negative, got %s", taxableIncome)
	}
	slabs, err := table.SlabsFor(band)
	if err != nil {
		return domain.TaxResult{}, err
	}

	var lines []domain.SlabLine
	base := decimal.Zero
	for _, s := range slabs {
		if taxableIncome.LessThanOrEqual(s.Lower) {
			break
		}
		amount := taxableIncome.Sub(s.Lower)
		if !s.Open() {
			amount = decimal.Min(amount, s.Upper.Sub(s.Lower))
		}
		tax := amount.Mul(s.Rate)
		base = base.Add(tax)
		lines = append(lines, domain.SlabLine{
			Lower:  s.Lower,
			Upper:  s.Upper,
			Rate:   s.Rate,
			Amount: amount,
			Tax:    tax,
		})
	}

	baseTax := RoundRupee(base)

	rebate := decimal.Zero
	if table.RebateThreshold.GreaterThan(decimal.Zero) && taxableIncome.LessThanOrEqual(table.RebateThreshold) {
		rebate = decimal.Min(baseTax, table.RebateCap)
	}
	afterRebate := baseTax.Sub(rebate)

	surcharge := RoundRupee(afterRebate.Mul(table.SurchargeRate(taxableIncome)))
	cess := RoundRupee(afterRebate.Add(surcharge).Mul(table.CessRate))
	total := afterRebate.Add(surcharge).Add(cess)

	effectiveRate := decimal.Zero
	if taxableIncome.GreaterThan(decimal.Zero) {
		effectiveRate = total.Div(taxableIncome).Mul(hundred).Round(2)
	}

	return domain.TaxResult{
		Regime:        table.Regime,
		TaxableIncome: taxableIncome,
		Slabs:         lines,
		BaseTax:       baseTax,
		Rebate:        rebate,
		Surcharge:     surcharge,
		Cess:          cess,
		TotalPayable:  total,
		EffectiveRate: effectiveRate,
	}, nil
}

// MarginalRate returns the rate of the slab the taxable income currently
// sits in. This is what one more rupee of deduction actually saves, which
// is why the recommendation engine uses it rather than the average rate.
func MarginalRate(taxableIncome decimal.Decimal, slabs []Slab) decimal.Decimal {
	for _, s := range slabs {
		if taxableIncome.GreaterThanOrEqual(s.Lower) && (s.Open() || taxableIncome.LessThan(s.Upper)) {
			return s.Rate
		}
	}
	return decimal.Zero
}

// TaxableIncome derives the taxable figure for one regime: gross income
// less the regime's standard deduction, less section deductions when the
// regime admits them, floored at zero.
func TaxableIncome(gross, standardDeduction, sectionDeductions decimal.Decimal, allowsDeductions bool) decimal.Decimal {
	ti := gross.Sub(standardDeduction)
	if allowsDeductions {
		ti = ti.Sub(sectionDeductions)
	}
	if ti.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return ti
}
