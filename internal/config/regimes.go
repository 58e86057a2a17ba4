package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/taxplan-in/taxplan/internal/calculation"
)

// RegimeFile is the on-disk shape of a regime/cap table override file.
// Tables replace any built-in table registered for the same regime and
// assessment year; cap tables replace the built-in table for their year.
type RegimeFile struct {
	Tables []*calculation.RegimeTable `yaml:"tables"`
	Caps   []*calculation.CapTable    `yaml:"caps"`
}

// LoadRegimeFile reads a regime table file and registers its contents on
// the engine's registry and cap set. Tables are validated on registration;
// an invalid table is a ConfigurationError and nothing is partially
// applied before it is detected.
func LoadRegimeFile(filename string, registry *calculation.Registry, caps map[string]*calculation.CapTable) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var file RegimeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Validate everything before touching the registry.
	for _, t := range file.Tables {
		if err := t.Validate(); err != nil {
			return err
		}
	}

	for _, t := range file.Tables {
		if err := registry.Register(t); err != nil {
			return err
		}
	}
	for _, ct := range file.Caps {
		caps[ct.AssessmentYear] = ct
	}
	return nil
}
