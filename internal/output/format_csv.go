package output

import (
	"bytes"
	"encoding/csv"

	"github.com/taxplan-in/taxplan/internal/domain"
)

// CSVFormatter emits a component/old/new summary, one row per component,
// followed by the recommendation rows.
type CSVFormatter struct{}

func (CSVFormatter) Name() string { return "csv" }

func (CSVFormatter) Format(report *domain.TaxReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	rows := [][]string{
		{"Component", "OldRegime", "NewRegime"},
		{"TaxableIncome", report.Old.TaxableIncome.StringFixed(2), report.New.TaxableIncome.StringFixed(2)},
		{"BaseTax", report.Old.BaseTax.StringFixed(2), report.New.BaseTax.StringFixed(2)},
		{"Rebate", report.Old.Rebate.StringFixed(2), report.New.Rebate.StringFixed(2)},
		{"Surcharge", report.Old.Surcharge.StringFixed(2), report.New.Surcharge.StringFixed(2)},
		{"Cess", report.Old.Cess.StringFixed(2), report.New.Cess.StringFixed(2)},
		{"TotalPayable", report.Old.TotalPayable.StringFixed(2), report.New.TotalPayable.StringFixed(2)},
		{"EffectiveRatePct", report.Old.EffectiveRate.StringFixed(2), report.New.EffectiveRate.StringFixed(2)},
		{"ChosenRegime", string(report.Chosen), ""},
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	if len(report.Recommendations) > 0 {
		if err := w.Write([]string{}); err != nil {
			return nil, err
		}
		if err := w.Write([]string{"Section", "Headroom", "MarginalRate", "EstimatedSaving"}); err != nil {
			return nil, err
		}
		for _, rec := range report.Recommendations {
			row := []string{
				string(rec.Section),
				rec.Headroom.StringFixed(2),
				rec.MarginalRate.StringFixed(4),
				rec.EstimatedSaving.StringFixed(2),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
