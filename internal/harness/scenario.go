package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Spec is the path to the CUE file defining the system.
	// Relative paths are resolved against the scenario file location.
	Spec string `yaml:"spec"`

	// System is the name of the system under lsystem: in Spec.
	System string `yaml:"system"`

	// Generations is how many times to step from the axiom.
	Generations int `yaml:"generations"`

	// RunID is an optional fixed run ID. Defaults to "test-run-default".
	RunID string `yaml:"run_id,omitempty"`

	// Expect lists exact sequences at specific generations.
	Expect []Expectation `yaml:"expect,omitempty"`

	// Assertions check properties of the derivation.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Expectation pins the exact symbols of one generation.
type Expectation struct {
	Generation int     `yaml:"generation"`
	Symbols    Symbols `yaml:"symbols"`
}

// Symbols is a symbol sequence in scenario YAML. A scalar is split into
// one symbol per rune ("1[0]0"); a sequence lists symbols explicitly,
// which allows multi-character symbols.
type Symbols []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Symbols) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		out := Symbols{}
		for _, r := range node.Value {
			out = append(out, string(r))
		}
		*s = out
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		if list == nil {
			list = []string{}
		}
		*s = list
		return nil
	default:
		return fmt.Errorf("line %d: symbols must be a string or a list of strings", node.Line)
	}
}

// Assertion checks one property of the derivation.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Generation selects the generation for length, contains, and count.
	Generation int `yaml:"generation,omitempty"`

	// Length is the expected sequence length (length).
	Length int `yaml:"length,omitempty"`

	// Symbol is the symbol to look for (contains, count).
	Symbol string `yaml:"symbol,omitempty"`

	// Count is the expected number of occurrences (count).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertLength          = "length"
	AssertContains        = "contains"
	AssertCount           = "count"
	AssertResetReproduces = "reset_reproduces"
	AssertDeterministic   = "deterministic"
)

// LoadScenario reads and parses a scenario YAML file, resolving the spec
// path relative to the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving a relative spec path against basePath.
//
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Spec != "" && !filepath.IsAbs(scenario.Spec) && basePath != "" {
		scenario.Spec = filepath.Join(basePath, scenario.Spec)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Spec == "" {
		return fmt.Errorf("spec is required")
	}
	if _, err := os.Stat(s.Spec); os.IsNotExist(err) {
		return fmt.Errorf("spec file not found: %s", s.Spec)
	}
	if s.System == "" {
		return fmt.Errorf("system is required")
	}
	if s.Generations < 0 {
		return fmt.Errorf("generations must be non-negative, got %d", s.Generations)
	}
	if len(s.Expect) == 0 && len(s.Assertions) == 0 {
		return fmt.Errorf("at least one expect or assertion is required")
	}

	for i, e := range s.Expect {
		if e.Generation < 0 || e.Generation > s.Generations {
			return fmt.Errorf("expect[%d]: generation %d outside 0..%d", i, e.Generation, s.Generations)
		}
	}
	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i], s.Generations); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion, generations int) error {
	switch a.Type {
	case AssertLength, AssertContains, AssertCount:
		if a.Generation < 0 || a.Generation > generations {
			return fmt.Errorf("assertions[%d]: generation %d outside 0..%d", index, a.Generation, generations)
		}
		if a.Type != AssertLength && a.Symbol == "" {
			return fmt.Errorf("assertions[%d]: %s requires symbol", index, a.Type)
		}
	case AssertResetReproduces, AssertDeterministic:
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
