package output

import (
	"encoding/json"

	"github.com/taxplan-in/taxplan/internal/domain"
)

// JSONFormatter marshals the full report for machine consumers.
type JSONFormatter struct{}

func (JSONFormatter) Name() string { return "json" }

func (JSONFormatter) Format(report *domain.TaxReport) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}
