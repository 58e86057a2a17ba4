package output

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/taxplan-in/taxplan/internal/domain"
)

// Formatter renders a TaxReport for one output medium.
type Formatter interface {
	Name() string
	Format(report *domain.TaxReport) ([]byte, error)
}

// GetFormatterByName returns the formatter registered under a name, or nil.
func GetFormatterByName(name string) Formatter {
	switch name {
	case "console":
		return ConsoleFormatter{}
	case "json":
		return JSONFormatter{}
	case "csv":
		return CSVFormatter{}
	case "xlsx", "excel":
		return ExcelFormatter{}
	}
	return nil
}

// FormatterNames lists the supported output format names.
func FormatterNames() []string {
	return []string{"console", "json", "csv", "xlsx"}
}

// ConsoleFormatter renders the full report as plain text.
type ConsoleFormatter struct{}

func (ConsoleFormatter) Name() string { return "console" }

func (ConsoleFormatter) Format(report *domain.TaxReport) ([]byte, error) {
	var b strings.Builder

	fmt.Fprintln(&b, "=====================================================")
	fmt.Fprintln(&b, "INCOME TAX COMPUTATION")
	fmt.Fprintf(&b, "Assessment Year %s\n", report.AssessmentYear)
	fmt.Fprintln(&b, "=====================================================")
	fmt.Fprintf(&b, "Gross Income:      %s\n", FormatCurrency(report.GrossIncome))
	fmt.Fprintf(&b, "Age Band:          %s\n", report.AgeBand)
	fmt.Fprintf(&b, "Regime Election:   %s\n", report.Elected)
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "DEDUCTIONS")
	fmt.Fprintln(&b, "----------")
	for _, d := range report.Deductions {
		fmt.Fprintf(&b, "  %-6s claimed %-14s allowed %-14s (limit %s)\n",
			d.Section, FormatCurrency(d.Claimed), FormatCurrency(d.Allowed), FormatCurrency(d.Cap))
	}
	fmt.Fprintf(&b, "  Total claimed %s, allowed %s\n", FormatCurrency(report.TotalClaimed), FormatCurrency(report.TotalAllowed))
	fmt.Fprintln(&b)

	writeRegime(&b, "OLD REGIME", report.Old)
	writeRegime(&b, "NEW REGIME", report.New)

	fmt.Fprintln(&b, "SUMMARY")
	fmt.Fprintln(&b, "-------")
	fmt.Fprintf(&b, "  Chosen Regime: %s\n", strings.ToUpper(string(report.Chosen)))
	fmt.Fprintf(&b, "  You save %s against the %s regime\n",
		FormatCurrency(report.Savings), report.AlternativeResult().Regime)
	fmt.Fprintln(&b)

	if len(report.Recommendations) > 0 {
		fmt.Fprintln(&b, "TAX SAVING RECOMMENDATIONS")
		fmt.Fprintln(&b, "--------------------------")
		for _, rec := range report.Recommendations {
			fmt.Fprintf(&b, "  %-6s headroom %-14s saves up to %s (marginal rate %s)\n",
				rec.Section, FormatCurrency(rec.Headroom), FormatCurrency(rec.EstimatedSaving),
				FormatPercentage(rec.MarginalRate.Mul(decimal.NewFromInt(100))))
			if len(rec.Instruments) > 0 {
				fmt.Fprintf(&b, "         options: %s\n", strings.Join(rec.Instruments, ", "))
			}
		}
	}

	return []byte(b.String()), nil
}

func writeRegime(b *strings.Builder, title string, result domain.TaxResult) {
	fmt.Fprintln(b, title)
	fmt.Fprintln(b, strings.Repeat("-", len(title)))
	fmt.Fprintf(b, "  Taxable Income: %s\n", FormatCurrency(result.TaxableIncome))
	for _, line := range result.Slabs {
		upper := "and above"
		if !line.Upper.IsZero() {
			upper = "- " + FormatCurrency(line.Upper)
		}
		fmt.Fprintf(b, "    %s %s @ %s: %s\n",
			FormatCurrency(line.Lower), upper,
			FormatPercentage(line.Rate.Mul(decimal.NewFromInt(100))),
			FormatCurrency(line.Tax.Round(0)))
	}
	fmt.Fprintf(b, "  Base Tax:       %s\n", FormatCurrency(result.BaseTax))
	if result.Rebate.GreaterThan(decimal.Zero) {
		fmt.Fprintf(b, "  Rebate (87A):   -%s\n", FormatCurrency(result.Rebate))
	}
	if result.Surcharge.GreaterThan(decimal.Zero) {
		fmt.Fprintf(b, "  Surcharge:      %s\n", FormatCurrency(result.Surcharge))
	}
	fmt.Fprintf(b, "  Cess:           %s\n", FormatCurrency(result.Cess))
	fmt.Fprintf(b, "  TOTAL PAYABLE:  %s\n", FormatCurrency(result.TotalPayable))
	fmt.Fprintf(b, "  Effective Rate: %s\n", FormatPercentage(result.EffectiveRate))
	fmt.Fprintln(b)
}
