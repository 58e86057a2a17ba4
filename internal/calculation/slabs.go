package calculation

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/taxplan-in/taxplan/internal/domain"
)

// Slab is one income band taxed at a single marginal rate. Lower is
// inclusive, Upper exclusive. A zero Upper marks the open-ended top slab
// and is only legal in the last position.
type Slab struct {
	Lower decimal.Decimal `yaml:"lower" json:"lower"`
	Upper decimal.Decimal `yaml:"upper" json:"upper"`
	Rate  decimal.Decimal `yaml:"rate" json:"rate"`
}

// Open reports whether the slab has no upper bound.
func (s Slab) Open() bool {
	return s.Upper.IsZero()
}

// SurchargeStep is one step of the surcharge schedule: once taxable income
// exceeds Threshold, Rate applies to the whole base tax.
//
// TODO: statutory marginal relief caps the surcharge's effect at each
// threshold boundary; the schedule is applied as a plain step until that is
// confirmed against current law.
type SurchargeStep struct {
	Threshold decimal.Decimal `yaml:"threshold" json:"threshold"`
	Rate      decimal.Decimal `yaml:"rate" json:"rate"`
}

// RegimeTable holds every rate and threshold for one regime in one
// assessment year. All regime-specific behavior is data here: the
// calculator consults AllowsDeductions rather than the regime identity, so
// a future regime is a new table, not new code.
type RegimeTable struct {
	Regime            domain.Regime             `yaml:"regime" json:"regime"`
	AssessmentYear    string                    `yaml:"assessment_year" json:"assessmentYear"`
	AllowsDeductions  bool                      `yaml:"allows_deductions" json:"allowsDeductions"`
	StandardDeduction decimal.Decimal           `yaml:"standard_deduction" json:"standardDeduction"`
	RebateThreshold   decimal.Decimal           `yaml:"rebate_threshold" json:"rebateThreshold"`
	RebateCap         decimal.Decimal           `yaml:"rebate_cap" json:"rebateCap"`
	CessRate          decimal.Decimal           `yaml:"cess_rate" json:"cessRate"`
	Surcharge         []SurchargeStep           `yaml:"surcharge" json:"surcharge"`
	Slabs             map[domain.AgeBand][]Slab `yaml:"slabs" json:"slabs"`
}

// Validate enforces the slab table invariants: bounds contiguous and
// non-overlapping starting at 0, strictly increasing, rates non-decreasing,
// exactly one open-ended slab in last position. Surcharge steps must have
// strictly increasing thresholds.
func (t *RegimeTable) Validate() error {
	key := fmt.Sprintf("%s/%s", t.Regime, t.AssessmentYear)
	if t.Regime == "" {
		return domain.NewConfigurationError(key, "regime is required")
	}
	if t.AssessmentYear == "" {
		return domain.NewConfigurationError(key, "assessment year is required")
	}
	if t.CessRate.LessThan(decimal.Zero) {
		return domain.NewConfigurationError(key, "cess rate must not be negative")
	}
	if len(t.Slabs) == 0 {
		return domain.NewConfigurationError(key, "no slabs defined")
	}
	for band, slabs := range t.Slabs {
		if !band.Valid() {
			return domain.NewConfigurationError(key, "unknown age band %q", string(band))
		}
		if err := validateSlabs(key, band, slabs); err != nil {
			return err
		}
	}
	prev := decimal.NewFromInt(-1)
	for _, step := range t.Surcharge {
		if step.Threshold.LessThanOrEqual(prev) {
			return domain.NewConfigurationError(key, "surcharge thresholds must be strictly increasing")
		}
		if step.Rate.LessThan(decimal.Zero) {
			return domain.NewConfigurationError(key, "surcharge rate must not be negative")
		}
		prev = step.Threshold
	}
	return nil
}

func validateSlabs(key string, band domain.AgeBand, slabs []Slab) error {
	if len(slabs) == 0 {
		return domain.NewConfigurationError(key, "age band %s has no slabs", band)
	}
	if !slabs[0].Lower.IsZero() {
		return domain.NewConfigurationError(key, "age band %s: first slab must start at 0", band)
	}
	prevRate := decimal.Zero
	for i, s := range slabs {
		last := i == len(slabs)-1
		if s.Open() && !last {
			return domain.NewConfigurationError(key, "age band %s: only the last slab may be open-ended", band)
		}
		if !last && s.Upper.LessThanOrEqual(s.Lower) {
			return domain.NewConfigurationError(key, "age band %s: slab %d upper bound must exceed lower bound", band, i)
		}
		if last && !s.Open() {
			return domain.NewConfigurationError(key, "age band %s: last slab must be open-ended", band)
		}
		if i > 0 && !s.Lower.Equal(slabs[i-1].Upper) {
			return domain.NewConfigurationError(key, "age band %s: slab %d is not contiguous with its predecessor", band, i)
		}
		if s.Rate.LessThan(prevRate) {
			return domain.NewConfigurationError(key, "age band %s: rates must be non-decreasing", band)
		}
		prevRate = s.Rate
	}
	return nil
}

// SlabsFor returns the slab list for an age band.
func (t *RegimeTable) SlabsFor(band domain.AgeBand) ([]Slab, error) {
	slabs, ok := t.Slabs[band]
	if !ok {
		return nil, domain.NewConfigurationError(
			fmt.Sprintf("%s/%s/%s", t.Regime, t.AssessmentYear, band),
			"no slab table registered for age band")
	}
	return slabs, nil
}

// SurchargeRate returns the surcharge rate applicable at a taxable income,
// i.e. the rate of the highest step whose threshold the income exceeds.
func (t *RegimeTable) SurchargeRate(taxableIncome decimal.Decimal) decimal.Decimal {
	rate := decimal.Zero
	for _, step := range t.Surcharge {
		if taxableIncome.GreaterThan(step.Threshold) {
			rate = step.Rate
		}
	}
	return rate
}

type tableKey struct {
	regime domain.Regime
	year   string
}

// Registry holds the regime tables known to the engine, keyed by regime and
// assessment year. It is built once at startup and read-only afterwards.
type Registry struct {
	tables map[tableKey]*RegimeTable
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tables: make(map[tableKey]*RegimeTable)}
}

// Register validates a table and adds it, replacing any table already
// registered for the same regime and year.
func (r *Registry) Register(t *RegimeTable) error {
	if err := t.Validate(); err != nil {
		return err
	}
	r.tables[tableKey{regime: t.Regime, year: t.AssessmentYear}] = t
	return nil
}

// TableFor returns the table for a regime and assessment year. A missing
// table is a ConfigurationError; there is never a fallback to another year.
func (r *Registry) TableFor(regime domain.Regime, year string) (*RegimeTable, error) {
	t, ok := r.tables[tableKey{regime: regime, year: year}]
	if !ok {
		return nil, domain.NewConfigurationError(
			fmt.Sprintf("%s/%s", regime, year),
			"no regime table registered for assessment year %s", year)
	}
	return t, nil
}

// SlabsFor returns the slab table for a regime, assessment year and age band.
func (r *Registry) SlabsFor(regime domain.Regime, year string, band domain.AgeBand) ([]Slab, error) {
	t, err := r.TableFor(regime, year)
	if err != nil {
		return nil, err
	}
	return t.SlabsFor(band)
}

// Tables returns all registered tables ordered by assessment year then regime.
func (r *Registry) Tables() []*RegimeTable {
	out := make([]*RegimeTable, 0, len(r.tables))
	for _, t := range r.tables {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AssessmentYear != out[j].AssessmentYear {
			return out[i].AssessmentYear < out[j].AssessmentYear
		}
		return out[i].Regime < out[j].Regime
	})
	return out
}

func slab(lower, upper int64, rate float64) Slab {
	return Slab{
		Lower: decimal.NewFromInt(lower),
		Upper: decimal.NewFromInt(upper),
		Rate:  decimal.NewFromFloat(rate),
	}
}

func openSlab(lower int64, rate float64) Slab {
	return Slab{Lower: decimal.NewFromInt(lower), Rate: decimal.NewFromFloat(rate)}
}

func step(threshold int64, rate float64) SurchargeStep {
	return SurchargeStep{Threshold: decimal.NewFromInt(threshold), Rate: decimal.NewFromFloat(rate)}
}

// oldRegimeSurcharge is the full four-step schedule applicable under the
// old regime.
func oldRegimeSurcharge() []SurchargeStep {
	return []SurchargeStep{
		step(5000000, 0.10),
		step(10000000, 0.15),
		step(20000000, 0.25),
		step(50000000, 0.37),
	}
}

// newRegimeSurcharge caps the top surcharge at 25%.
func newRegimeSurcharge() []SurchargeStep {
	return []SurchargeStep{
		step(5000000, 0.10),
		step(10000000, 0.15),
		step(20000000, 0.25),
	}
}

func newOldRegimeTable2425() *RegimeTable {
	return &RegimeTable{
		Regime:            domain.RegimeOld,
		AssessmentYear:    "2024-25",
		AllowsDeductions:  true,
		StandardDeduction: decimal.NewFromInt(50000),
		RebateThreshold:   decimal.NewFromInt(500000),
		RebateCap:         decimal.NewFromInt(12500),
		CessRate:          decimal.NewFromFloat(0.04),
		Surcharge:         oldRegimeSurcharge(),
		Slabs: map[domain.AgeBand][]Slab{
			domain.AgeBandBelow60: {
				slab(0, 250000, 0),
				slab(250000, 500000, 0.05),
				slab(500000, 1000000, 0.20),
				openSlab(1000000, 0.30),
			},
			domain.AgeBandSenior: {
				slab(0, 300000, 0),
				slab(300000, 500000, 0.05),
				slab(500000, 1000000, 0.20),
				openSlab(1000000, 0.30),
			},
			domain.AgeBandSuperSenior: {
				slab(0, 500000, 0),
				slab(500000, 1000000, 0.20),
				openSlab(1000000, 0.30),
			},
		},
	}
}

func newNewRegimeTable2425() *RegimeTable {
	// New regime slabs are age-independent.
	slabs := []Slab{
		slab(0, 300000, 0),
		slab(300000, 600000, 0.05),
		slab(600000, 900000, 0.10),
		slab(900000, 1200000, 0.15),
		slab(1200000, 1500000, 0.20),
		openSlab(1500000, 0.30),
	}
	return &RegimeTable{
		Regime:            domain.RegimeNew,
		AssessmentYear:    "2024-25",
		AllowsDeductions:  false,
		StandardDeduction: decimal.NewFromInt(50000),
		RebateThreshold:   decimal.NewFromInt(700000),
		RebateCap:         decimal.NewFromInt(25000),
		CessRate:          decimal.NewFromFloat(0.04),
		Surcharge:         newRegimeSurcharge(),
		Slabs: map[domain.AgeBand][]Slab{
			domain.AgeBandBelow60:     slabs,
			domain.AgeBandSenior:      slabs,
			domain.AgeBandSuperSenior: slabs,
		},
	}
}

func newOldRegimeTable2526() *RegimeTable {
	t := newOldRegimeTable2425()
	t.AssessmentYear = "2025-26"
	return t
}

func newNewRegimeTable2526() *RegimeTable {
	slabs := []Slab{
		slab(0, 300000, 0),
		slab(300000, 700000, 0.05),
		slab(700000, 1000000, 0.10),
		slab(1000000, 1200000, 0.15),
		slab(1200000, 1500000, 0.20),
		openSlab(1500000, 0.30),
	}
	return &RegimeTable{
		Regime:            domain.RegimeNew,
		AssessmentYear:    "2025-26",
		AllowsDeductions:  false,
		StandardDeduction: decimal.NewFromInt(75000),
		RebateThreshold:   decimal.NewFromInt(700000),
		RebateCap:         decimal.NewFromInt(25000),
		CessRate:          decimal.NewFromFloat(0.04),
		Surcharge:         newRegimeSurcharge(),
		Slabs: map[domain.AgeBand][]Slab{
			domain.AgeBandBelow60:     slabs,
			domain.AgeBandSenior:      slabs,
			domain.AgeBandSuperSenior: slabs,
		},
	}
}

// NewDefaultRegistry returns a registry loaded with the built-in tables for
// assessment years 2024-25 and 2025-26. Built-in data is validated the same
// way as file-supplied data.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, t := range []*RegimeTable{
		newOldRegimeTable2425(),
		newNewRegimeTable2425(),
		newOldRegimeTable2526(),
		newNewRegimeTable2526(),
	} {
		if err := r.Register(t); err != nil {
			// Built-in tables are covered by tests; a failure here is a
			// programming error, not a runtime condition.
			panic(err)
		}
	}
	return r
}
