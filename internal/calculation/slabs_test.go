package calculation

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxplan-in/taxplan/internal/domain"
)

func TestNewDefaultRegistry(t *testing.T) {
	r := NewDefaultRegistry()

	tables := r.Tables()
	assert.Len(t, tables, 4, "two regimes for two assessment years")

	old2425, err := r.TableFor(domain.RegimeOld, "2024-25")
	require.NoError(t, err)
	assert.True(t, old2425.AllowsDeductions)

	new2425, err := r.TableFor(domain.RegimeNew, "2024-25")
	require.NoError(t, err)
	assert.False(t, new2425.AllowsDeductions, "new regime ignores section deductions")
	assert.True(t, new2425.RebateThreshold.Equal(decimal.NewFromInt(700000)))
}

func TestRegistryTableFor_MissingYear(t *testing.T) {
	r := NewDefaultRegistry()

	_, err := r.TableFor(domain.RegimeOld, "2031-32")

	require.Error(t, err)
	var cErr *domain.ConfigurationError
	assert.True(t, errors.As(err, &cErr), "missing table is a configuration error")
	var vErr *domain.ValidationError
	assert.False(t, errors.As(err, &vErr), "must be distinguishable from a validation error")
}

func TestRegistrySlabsFor_AgeBands(t *testing.T) {
	r := NewDefaultRegistry()

	below, err := r.SlabsFor(domain.RegimeOld, "2024-25", domain.AgeBandBelow60)
	require.NoError(t, err)
	senior, err := r.SlabsFor(domain.RegimeOld, "2024-25", domain.AgeBandSenior)
	require.NoError(t, err)
	super, err := r.SlabsFor(domain.RegimeOld, "2024-25", domain.AgeBandSuperSenior)
	require.NoError(t, err)

	assert.True(t, below[0].Upper.Equal(decimal.NewFromInt(250000)))
	assert.True(t, senior[0].Upper.Equal(decimal.NewFromInt(300000)))
	assert.True(t, super[0].Upper.Equal(decimal.NewFromInt(500000)))
}

func testTable(slabs []Slab) *RegimeTable {
	return &RegimeTable{
		Regime:         domain.RegimeOld,
		AssessmentYear: "2024-25",
		CessRate:       decimal.NewFromFloat(0.04),
		Slabs:          map[domain.AgeBand][]Slab{domain.AgeBandBelow60: slabs},
	}
}

func TestRegimeTableValidate(t *testing.T) {
	tests := []struct {
		name  string
		slabs []Slab
		valid bool
	}{
		{
			name:  "valid progressive table",
			slabs: []Slab{slab(0, 250000, 0), slab(250000, 500000, 0.05), openSlab(500000, 0.20)},
			valid: true,
		},
		{
			name:  "first slab must start at zero",
			slabs: []Slab{slab(100, 250000, 0), openSlab(250000, 0.05)},
			valid: false,
		},
		{
			name:  "gap between slabs",
			slabs: []Slab{slab(0, 250000, 0), slab(300000, 500000, 0.05), openSlab(500000, 0.20)},
			valid: false,
		},
		{
			name:  "decreasing rates",
			slabs: []Slab{slab(0, 250000, 0.10), slab(250000, 500000, 0.05), openSlab(500000, 0.20)},
			valid: false,
		},
		{
			name:  "last slab must be open-ended",
			slabs: []Slab{slab(0, 250000, 0), slab(250000, 500000, 0.05)},
			valid: false,
		},
		{
			name:  "open slab only allowed last",
			slabs: []Slab{slab(0, 250000, 0), openSlab(250000, 0.05), openSlab(500000, 0.20)},
			valid: false,
		},
		{
			name:  "upper bound must exceed lower",
			slabs: []Slab{slab(0, 250000, 0), slab(250000, 250000, 0.05), openSlab(250000, 0.20)},
			valid: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := testTable(tc.slabs).Validate()
			if tc.valid {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				var cErr *domain.ConfigurationError
				assert.True(t, errors.As(err, &cErr))
			}
		})
	}
}

func TestRegimeTableValidate_SurchargeOrder(t *testing.T) {
	table := testTable([]Slab{slab(0, 250000, 0), openSlab(250000, 0.05)})
	table.Surcharge = []SurchargeStep{step(10000000, 0.15), step(5000000, 0.10)}

	assert.Error(t, table.Validate())
}

func TestSurchargeRate(t *testing.T) {
	table := newOldRegimeTable2425()

	assert.True(t, table.SurchargeRate(decimal.NewFromInt(4000000)).IsZero())
	assert.True(t, table.SurchargeRate(decimal.NewFromInt(6000000)).Equal(decimal.NewFromFloat(0.10)))
	assert.True(t, table.SurchargeRate(decimal.NewFromInt(15000000)).Equal(decimal.NewFromFloat(0.15)))
	assert.True(t, table.SurchargeRate(decimal.NewFromInt(60000000)).Equal(decimal.NewFromFloat(0.37)))
}

func TestRegisterReplacesTable(t *testing.T) {
	r := NewDefaultRegistry()
	override := newOldRegimeTable2425()
	override.StandardDeduction = decimal.NewFromInt(60000)

	require.NoError(t, r.Register(override))

	got, err := r.TableFor(domain.RegimeOld, "2024-25")
	require.NoError(t, err)
	assert.True(t, got.StandardDeduction.Equal(decimal.NewFromInt(60000)))
}
