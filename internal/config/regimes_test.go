package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxplan-in/taxplan/internal/calculation"
	"github.com/taxplan-in/taxplan/internal/domain"
)

func writeRegimeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "regimes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRegimeFile_RegistersNewYear(t *testing.T) {
	path := writeRegimeFile(t, `
tables:
  - regime: new
    assessment_year: "2026-27"
    allows_deductions: false
    standard_deduction: 75000
    rebate_threshold: 1200000
    rebate_cap: 60000
    cess_rate: 0.04
    surcharge:
      - threshold: 5000000
        rate: 0.10
    slabs:
      below_60:
        - lower: 0
          upper: 400000
          rate: 0
        - lower: 400000
          upper: 800000
          rate: 0.05
        - lower: 800000
          rate: 0.30
caps:
  - assessment_year: "2026-27"
    sections:
      - section: 80C
        caps:
          below_60: 150000
          60_to_80: 150000
          above_80: 150000
        instruments: [PPF, ELSS]
`)

	registry := calculation.NewDefaultRegistry()
	caps := calculation.NewDefaultCapTables()
	require.NoError(t, LoadRegimeFile(path, registry, caps))

	table, err := registry.TableFor(domain.RegimeNew, "2026-27")
	require.NoError(t, err)
	assert.True(t, table.RebateThreshold.Equal(decimal.NewFromInt(1200000)))
	assert.True(t, table.StandardDeduction.Equal(decimal.NewFromInt(75000)))

	slabs, err := table.SlabsFor(domain.AgeBandBelow60)
	require.NoError(t, err)
	require.Len(t, slabs, 3)
	assert.True(t, slabs[2].Open())

	ct, ok := caps["2026-27"]
	require.True(t, ok)
	capAmount, err := ct.CapFor(domain.Section80C, domain.AgeBandBelow60)
	require.NoError(t, err)
	assert.True(t, capAmount.Equal(decimal.NewFromInt(150000)))
}

func TestLoadRegimeFile_ReplacesBuiltIn(t *testing.T) {
	path := writeRegimeFile(t, `
tables:
  - regime: old
    assessment_year: "2024-25"
    allows_deductions: true
    standard_deduction: 60000
    rebate_threshold: 500000
    rebate_cap: 12500
    cess_rate: 0.04
    slabs:
      below_60:
        - lower: 0
          upper: 250000
          rate: 0
        - lower: 250000
          rate: 0.05
`)

	registry := calculation.NewDefaultRegistry()
	caps := calculation.NewDefaultCapTables()
	require.NoError(t, LoadRegimeFile(path, registry, caps))

	table, err := registry.TableFor(domain.RegimeOld, "2024-25")
	require.NoError(t, err)
	assert.True(t, table.StandardDeduction.Equal(decimal.NewFromInt(60000)),
		"file table replaces the built-in one for the same regime and year")
}

func TestLoadRegimeFile_InvalidTable(t *testing.T) {
	// Slabs are not contiguous, so validation must reject the whole file.
	path := writeRegimeFile(t, `
tables:
  - regime: old
    assessment_year: "2026-27"
    allows_deductions: true
    cess_rate: 0.04
    slabs:
      below_60:
        - lower: 0
          upper: 250000
          rate: 0
        - lower: 300000
          rate: 0.05
`)

	registry := calculation.NewDefaultRegistry()
	caps := calculation.NewDefaultCapTables()
	err := LoadRegimeFile(path, registry, caps)

	require.Error(t, err)
	var cErr *domain.ConfigurationError
	assert.True(t, errors.As(err, &cErr))
	_, err = registry.TableFor(domain.RegimeOld, "2026-27")
	assert.Error(t, err, "an invalid file must not register anything")
}

func TestLoadRegimeFile_Missing(t *testing.T) {
	registry := calculation.NewDefaultRegistry()
	caps := calculation.NewDefaultCapTables()

	err := LoadRegimeFile(filepath.Join(t.TempDir(), "nope.yaml"), registry, caps)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
}
