package document

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Number is a decimal field that also accepts a quoted numeric string, so
// weight: "0.2" and weight: 0.2 decode the same.
type Number float64

// Float64 returns n as a *float64, nil when n is nil.
func (n *Number) Float64() *float64 {
	if n == nil {
		return nil
	}
	f := float64(*n)
	return &f
}

// UnmarshalYAML accepts a plain or quoted scalar.
func (n *Number) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a number", value.Line)
	}
	if err := n.set(value.Value); err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	return nil
}

// UnmarshalJSON accepts a JSON number or a numeric string.
func (n *Number) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return n.set(s)
	}
	return n.set(string(data))
}

// UnmarshalText parses a decimal, as used by the TOML decoder.
func (n *Number) UnmarshalText(text []byte) error {
	return n.set(string(text))
}

func (n *Number) set(s string) error {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return fmt.Errorf("%q is not a number", s)
	}
	*n = Number(f)
	return nil
}
