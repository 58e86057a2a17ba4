package output

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/taxplan-in/taxplan/internal/domain"
)

// ExcelFormatter writes the workbook the export collaborator ships to
// users: a Tax Calculation sheet, a per-regime Tax Breakup sheet, and a
// Recommendations sheet.
type ExcelFormatter struct{}

func (ExcelFormatter) Name() string { return "xlsx" }

func (ExcelFormatter) Format(report *domain.TaxReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const calcSheet = "Tax Calculation"
	f.SetSheetName("Sheet1", calcSheet)

	calcRows := [][]interface{}{
		{"Component", "Old Regime", "New Regime"},
		{"Gross Income", toFloat(report.GrossIncome), toFloat(report.GrossIncome)},
		{"Total Deductions Allowed", toFloat(report.TotalAllowed), 0.0},
		{"Taxable Income", toFloat(report.Old.TaxableIncome), toFloat(report.New.TaxableIncome)},
		{"Base Tax", toFloat(report.Old.BaseTax), toFloat(report.New.BaseTax)},
		{"Rebate", toFloat(report.Old.Rebate), toFloat(report.New.Rebate)},
		{"Surcharge", toFloat(report.Old.Surcharge), toFloat(report.New.Surcharge)},
		{"Cess", toFloat(report.Old.Cess), toFloat(report.New.Cess)},
		{"Total Tax", toFloat(report.Old.TotalPayable), toFloat(report.New.TotalPayable)},
		{"Chosen Regime", string(report.Chosen), ""},
	}
	if err := writeRows(f, calcSheet, calcRows); err != nil {
		return nil, err
	}

	const breakupSheet = "Tax Breakup"
	if _, err := f.NewSheet(breakupSheet); err != nil {
		return nil, err
	}
	breakupRows := [][]interface{}{{"Regime", "Slab From", "Slab To", "Rate", "Taxed Amount", "Tax"}}
	for _, result := range []domain.TaxResult{report.Old, report.New} {
		for _, line := range result.Slabs {
			to := interface{}("")
			if !line.Upper.IsZero() {
				to = toFloat(line.Upper)
			}
			breakupRows = append(breakupRows, []interface{}{
				string(result.Regime),
				toFloat(line.Lower),
				to,
				toFloat(line.Rate),
				toFloat(line.Amount),
				toFloat(line.Tax.Round(0)),
			})
		}
	}
	if err := writeRows(f, breakupSheet, breakupRows); err != nil {
		return nil, err
	}

	const recSheet = "Recommendations"
	if _, err := f.NewSheet(recSheet); err != nil {
		return nil, err
	}
	recRows := [][]interface{}{{"Section", "Headroom", "Marginal Rate", "Estimated Saving", "Suggested Instruments"}}
	for _, rec := range report.Recommendations {
		recRows = append(recRows, []interface{}{
			string(rec.Section),
			toFloat(rec.Headroom),
			toFloat(rec.MarginalRate),
			toFloat(rec.EstimatedSaving),
			strings.Join(rec.Instruments, ", "),
		})
	}
	if err := writeRows(f, recSheet, recRows); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func toFloat(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}
