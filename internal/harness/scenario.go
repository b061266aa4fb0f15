package harness

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/configurator/internal/document"
)

// Scenario defines a reconciliation scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Parallelism is passed to the engine. Zero means sequential.
	Parallelism int `yaml:"parallelism,omitempty"`

	// Remote seeds the remote before the first run, keyed by kind.
	Remote map[string][]SeedEntity `yaml:"remote,omitempty"`

	// Failures are injected into the remote before the first run.
	Failures []Failure `yaml:"failures,omitempty"`

	// Document is the inline YAML configuration document.
	Document string `yaml:"document"`

	// Runs reconcile the document in order against the same remote.
	Runs []RunStep `yaml:"runs"`

	// Assertions validate the last run and the final remote state.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// SeedEntity is an entity present on the remote before the first run.
type SeedEntity struct {
	ID         string         `yaml:"id,omitempty"`
	Identifier string         `yaml:"identifier"`
	Fields     map[string]any `yaml:"fields,omitempty"`
}

// Failure makes one remote operation fail.
type Failure struct {
	// Op is "list", "create" or "update".
	Op string `yaml:"op"`

	Kind string `yaml:"kind"`

	// Identifier selects the entity for create and update. Unused for list.
	Identifier string `yaml:"identifier,omitempty"`

	// Message is the remote error message.
	Message string `yaml:"message"`

	// Code is the optional remote error code.
	Code string `yaml:"code,omitempty"`
}

// RunStep is one reconciliation of the document.
type RunStep struct {
	// Expect maps "section/identifier" to the expected status. Every
	// outcome of the run must be listed.
	Expect map[string]string `yaml:"expect,omitempty"`

	// Error, if set, expects the run to be rejected before any remote call
	// with an error containing this text.
	Error string `yaml:"error,omitempty"`
}

// Assertion validates the final run or remote state.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Key is "section/identifier" (error_code, suggestion_contains).
	Key string `yaml:"key,omitempty"`

	// Keys is the expected order (outcome_order).
	Keys []string `yaml:"keys,omitempty"`

	// Kind and Identifier select a remote entity (remote_state) or a kind
	// (call_count).
	Kind       string `yaml:"kind,omitempty"`
	Identifier string `yaml:"identifier,omitempty"`

	// Fields is the expected subset of remote fields (remote_state).
	Fields map[string]any `yaml:"fields,omitempty"`

	// Method is "list", "create" or "update" (call_count).
	Method string `yaml:"method,omitempty"`

	// Count is the expected number of calls (call_count).
	Count int `yaml:"count,omitempty"`

	// Code is the expected error code (error_code).
	Code string `yaml:"code,omitempty"`

	// Text is the expected suggestion substring (suggestion_contains).
	Text string `yaml:"text,omitempty"`
}

// Assertion type constants.
const (
	AssertOutcomeOrder       = "outcome_order"
	AssertRemoteState        = "remote_state"
	AssertCallCount          = "call_count"
	AssertErrorCode          = "error_code"
	AssertSuggestionContains = "suggestion_contains"
)

var validOps = map[string]bool{"list": true, "create": true, "update": true}

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

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
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
	if strings.TrimSpace(s.Document) == "" {
		return fmt.Errorf("document is required")
	}
	if len(s.Runs) == 0 {
		return fmt.Errorf("runs list is required and must be non-empty")
	}
	if s.Parallelism < 0 {
		return fmt.Errorf("parallelism must not be negative")
	}

	for kind, entities := range s.Remote {
		for i, e := range entities {
			if e.Identifier == "" {
				return fmt.Errorf("remote.%s[%d]: identifier is required", kind, i)
			}
		}
	}

	for i, f := range s.Failures {
		if !validOps[f.Op] {
			return fmt.Errorf("failures[%d]: op must be list, create or update, got %q", i, f.Op)
		}
		if f.Kind == "" {
			return fmt.Errorf("failures[%d]: kind is required", i)
		}
		if f.Op != "list" && f.Identifier == "" {
			return fmt.Errorf("failures[%d]: identifier is required for %s", i, f.Op)
		}
		if f.Message == "" {
			return fmt.Errorf("failures[%d]: message is required", i)
		}
	}

	for i, run := range s.Runs {
		if run.Error != "" && len(run.Expect) > 0 {
			return fmt.Errorf("runs[%d]: expect and error are mutually exclusive", i)
		}
		for key, status := range run.Expect {
			if _, _, err := splitKey(key); err != nil {
				return fmt.Errorf("runs[%d].expect: %w", i, err)
			}
			if !validStatus(status) {
				return fmt.Errorf("runs[%d].expect[%s]: unknown status %q", i, key, status)
			}
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertOutcomeOrder:
		if len(a.Keys) < 2 {
			return fmt.Errorf("assertions[%d]: outcome_order requires at least 2 keys", index)
		}
		for _, key := range a.Keys {
			if _, _, err := splitKey(key); err != nil {
				return fmt.Errorf("assertions[%d]: %w", index, err)
			}
		}
	case AssertRemoteState:
		if a.Kind == "" || a.Identifier == "" {
			return fmt.Errorf("assertions[%d]: remote_state requires kind and identifier", index)
		}
	case AssertCallCount:
		if a.Kind == "" || !validOps[a.Method] {
			return fmt.Errorf("assertions[%d]: call_count requires kind and method (list, create, update)", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: call_count count must not be negative", index)
		}
	case AssertErrorCode:
		if _, _, err := splitKey(a.Key); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: error_code requires code", index)
		}
	case AssertSuggestionContains:
		if _, _, err := splitKey(a.Key); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: suggestion_contains requires text", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}

// splitKey parses "section/identifier". The identifier may itself contain
// slashes.
func splitKey(key string) (document.Section, string, error) {
	section, identifier, ok := strings.Cut(key, "/")
	if !ok || section == "" || identifier == "" {
		return "", "", fmt.Errorf("key %q must be section/identifier", key)
	}
	if !document.Section(section).Valid() {
		return "", "", fmt.Errorf("key %q: unknown section %q", key, section)
	}
	return document.Section(section), identifier, nil
}

func validStatus(s string) bool {
	switch s {
	case "created", "updated", "unchanged", "failed":
		return true
	}
	return false
}
