package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/taxplan-in/taxplan/internal/domain"
)

// InputParser handles parsing of profile input files.
type InputParser struct{}

// NewInputParser creates a new input parser.
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadProfile loads a taxpayer profile from a YAML file, applies defaults
// and validates it.
func (ip *InputParser) LoadProfile(filename string) (*domain.Profile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.ParseProfile(data)
}

// ParseProfile parses and validates profile YAML.
func (ip *InputParser) ParseProfile(data []byte) (*domain.Profile, error) {
	var profile domain.Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	applyProfileDefaults(&profile)

	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return &profile, nil
}

// applyProfileDefaults fills optional fields the form layer may omit.
func applyProfileDefaults(p *domain.Profile) {
	if p.Regime == "" {
		p.Regime = domain.RegimeChoiceAuto
	}
	if p.AgeBand == "" {
		p.AgeBand = domain.AgeBandBelow60
	}
	if p.HRA != nil && p.HRA.City == "" {
		p.HRA.City = domain.CityNonMetro
	}
}
