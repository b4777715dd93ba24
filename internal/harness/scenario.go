package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/microresearch/svgo/internal/catalog"
	"github.com/microresearch/svgo/internal/custom"
	"github.com/microresearch/svgo/internal/preset"
	"github.com/microresearch/svgo/internal/transform"
)

// Scenario defines one render check.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Icon is the catalog name being customized.
	Icon string `yaml:"icon"`

	// Source is the icon's SVG markup. Mutually exclusive with SourceFile.
	Source string `yaml:"source,omitempty"`

	// SourceFile is a path to the icon's SVG markup, relative to the
	// scenario file.
	SourceFile string `yaml:"source_file,omitempty"`

	// Config is applied over the defaults right after the icon is opened.
	Config *preset.Preset `yaml:"config,omitempty"`

	// Edits are applied in order after Config, like form input.
	Edits []Edit `yaml:"edits,omitempty"`

	// Mode selects the output: preview (default), export or download.
	Mode string `yaml:"mode,omitempty"`

	// ExpectError asserts that the icon fails to load and the placeholder
	// is rendered: "not_found" or "malformed".
	ExpectError string `yaml:"expect_error,omitempty"`

	// Assertions check the rendered output.
	Assertions []Assertion `yaml:"assertions"`
}

// Edit is a single textual field change.
type Edit struct {
	Field string `yaml:"field"`
	Value string `yaml:"value"`

	// Reject asserts that the edit is refused and changes nothing.
	Reject bool `yaml:"reject,omitempty"`
}

// Assertion validates the rendered output.
type Assertion struct {
	// Type is one of the Assert constants.
	Type string `yaml:"type"`

	// Text is the substring for contains, not_contains and count.
	Text string `yaml:"text,omitempty"`

	// Count is the expected number of occurrences (count only).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertContains    = "contains"
	AssertNotContains = "not_contains"
	AssertCount       = "count"
	AssertIdempotent  = "idempotent"
)

// Expected error kinds.
const (
	ExpectNotFound  = "not_found"
	ExpectMalformed = "malformed"
)

// LoadScenario reads and parses a scenario YAML file. source_file is
// resolved relative to the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving source_file relative to basePath.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict decoding catches typos like "assertion:" vs "assertions:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.SourceFile != "" && !filepath.IsAbs(scenario.SourceFile) && basePath != "" {
		scenario.SourceFile = filepath.Join(basePath, scenario.SourceFile)
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
	if !catalog.ValidName(s.Icon) {
		return fmt.Errorf("icon %q is not a valid icon name", s.Icon)
	}
	if s.Source != "" && s.SourceFile != "" {
		return fmt.Errorf("source and source_file are mutually exclusive")
	}
	if s.SourceFile != "" {
		if _, err := os.Stat(s.SourceFile); err != nil {
			return fmt.Errorf("source file not found: %s", s.SourceFile)
		}
	}
	if _, ok := transform.ParseMode(s.Mode); !ok {
		return fmt.Errorf("unknown mode %q", s.Mode)
	}
	switch s.ExpectError {
	case "", ExpectNotFound, ExpectMalformed:
	default:
		return fmt.Errorf("unknown expect_error %q", s.ExpectError)
	}

	for i, e := range s.Edits {
		if e.Field == "" {
			return fmt.Errorf("edits[%d]: field is required", i)
		}
		if !isField(e.Field) {
			return fmt.Errorf("edits[%d]: unknown field %q", i, e.Field)
		}
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}
	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

func isField(name string) bool {
	canonical := custom.CanonicalField(name)
	for _, f := range custom.Fields {
		if f == canonical {
			return true
		}
	}
	return false
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertContains, AssertNotContains:
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: text is required for %s", index, a.Type)
		}
	case AssertCount:
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: text is required for count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative", index)
		}
	case AssertIdempotent:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
