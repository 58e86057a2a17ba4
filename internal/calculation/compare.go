package calculation

import (
	"github.com/taxplan-in/taxplan/internal/domain"
)

// ChooseRegime picks the regime to report as chosen. An explicit election
// always wins; both results are still computed for reporting, but user
// intent is never silently overridden. Under auto-compare the strictly
// cheaper regime wins; a tie prefers the old regime, since it preserves any
// deduction-linked commitments the taxpayer already holds.
func ChooseRegime(oldResult, newResult domain.TaxResult, elected domain.RegimeChoice) domain.Regime {
	if regime, ok := elected.Elected(); ok {
		return regime
	}
	if newResult.TotalPayable.LessThan(oldResult.TotalPayable) {
		return domain.RegimeNew
	}
	return domain.RegimeOld
}
