package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/borate/internal/batch"
	"github.com/roach88/borate/internal/speciation"
)

// Scenario is one batch request plus the properties its result must have.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Request is evaluated as-is.
	Request batch.Request `yaml:"request"`

	// Workers is passed to batch.Options. Zero runs sequentially.
	Workers int `yaml:"workers,omitempty"`

	// Assertions validate the result.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates one property of a batch result.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Count is used by series_count and degraded_count.
	Count int `yaml:"count,omitempty"`

	// Concentration and Species (1..5) select an integral for integral_range.
	Concentration float64 `yaml:"concentration,omitempty"`
	Species       int     `yaml:"species,omitempty"`

	// Min and Max bound the integral for integral_range, inclusive.
	Min float64 `yaml:"min,omitempty"`
	Max float64 `yaml:"max,omitempty"`

	// Code is the expected input error code for error_code.
	Code string `yaml:"code,omitempty"`
}

// Assertion type constants.
const (
	AssertSeriesCount   = "series_count"
	AssertDegradedCount = "degraded_count"
	AssertMassBalance   = "mass_balance"
	AssertIntegralRange = "integral_range"
	AssertErrorCode     = "error_code"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML from memory.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
// The request itself is not validated here; rejecting it is a legitimate
// scenario outcome.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Workers < 0 {
		return fmt.Errorf("workers must be non-negative")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	expectsError := false
	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a); err != nil {
			return err
		}
		if a.Type == AssertErrorCode {
			expectsError = true
		}
	}
	if expectsError && len(s.Assertions) > 1 {
		return fmt.Errorf("assertions: error_code cannot be combined with other assertions")
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertSeriesCount, AssertDegradedCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertMassBalance:
	case AssertIntegralRange:
		if a.Species < 1 || a.Species > speciation.SpeciesCount {
			return fmt.Errorf("assertions[%d]: species must be in 1..%d", index, speciation.SpeciesCount)
		}
		if !(a.Concentration > 0) {
			return fmt.Errorf("assertions[%d]: concentration is required for integral_range", index)
		}
		if a.Min > a.Max {
			return fmt.Errorf("assertions[%d]: min must not exceed max", index)
		}
	case AssertErrorCode:
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: code is required for error_code", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
