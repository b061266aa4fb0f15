package canon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Form names the canonical representation of a field.
type Form int

const (
	// Text compares strings exactly.
	Text Form = iota
	// Enum trims and upper-cases strings ("usd" == "USD").
	Enum
	// Number coerces numeric strings and integers to float64 ("10" == 10.0).
	Number
	// Integer coerces to int64; fractional values are rejected.
	Integer
	// Bool accepts booleans and "true"/"false" strings.
	Bool
	// Set is an unordered collection of strings, compared sorted and deduplicated.
	Set
	// EnumSet is a Set whose members are normalized as Enum.
	EnumSet
	// List is an ordered collection of strings.
	List
	// Object compares structured values by canonical JSON.
	Object
)

var formNames = map[Form]string{
	Text:    "text",
	Enum:    "enum",
	Number:  "number",
	Integer: "integer",
	Bool:    "bool",
	Set:     "set",
	EnumSet: "enum_set",
	List:    "list",
	Object:  "object",
}

// String returns the form name.
func (f Form) String() string {
	if name, ok := formNames[f]; ok {
		return name
	}
	return fmt.Sprintf("form(%d)", int(f))
}

var upper = cases.Upper(language.Und)

// Normalize converts v to the canonical Go value for form.
// A nil input stays nil for every form.
func Normalize(form Form, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch form {
	case Text:
		return toText(v)
	case Enum:
		s, err := toText(v)
		if err != nil {
			return nil, err
		}
		return upper.String(strings.TrimSpace(s)), nil
	case Number:
		return toNumber(v)
	case Integer:
		return toInteger(v)
	case Bool:
		return toBool(v)
	case Set, EnumSet, List:
		items, err := toStrings(v)
		if err != nil {
			return nil, err
		}
		if form == EnumSet {
			for i, s := range items {
				items[i] = upper.String(strings.TrimSpace(s))
			}
		}
		if form == List {
			return items, nil
		}
		return sortedUnique(items), nil
	case Object:
		return v, nil
	default:
		return nil, fmt.Errorf("unknown form %s", form)
	}
}

// Equal reports whether a and b are the same value under form. Values that
// fail to normalize are compared by their raw canonical encoding.
func Equal(form Form, a, b any) bool {
	na, errA := Normalize(form, a)
	if errA != nil {
		na = a
	}
	nb, errB := Normalize(form, b)
	if errB != nil {
		nb = b
	}
	ea, err := MarshalCanonical(na)
	if err != nil {
		return false
	}
	eb, err := MarshalCanonical(nb)
	if err != nil {
		return false
	}
	return bytes.Equal(ea, eb)
}

func toText(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case bool:
		return strconv.FormatBool(val), nil
	case int:
		return strconv.Itoa(val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case json.Number:
		return val.String(), nil
	default:
		return "", fmt.Errorf("expected text, got %T", v)
	}
}

func toNumber(v any) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int:
		return float64(val), nil
	case int32:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case uint64:
		return float64(val), nil
	case json.Number:
		return val.Float64()
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, fmt.Errorf("expected number, got %q", val)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("expected number, got %T", v)
	}
}

func toInteger(v any) (int64, error) {
	switch val := v.(type) {
	case int:
		return int64(val), nil
	case int32:
		return int64(val), nil
	case int64:
		return val, nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("expected integer, got %q", val)
		}
		return n, nil
	}
	f, err := toNumber(v)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("expected integer, got %v", f)
	}
	return int64(f), nil
}

func toBool(v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(val))
		if err != nil {
			return false, fmt.Errorf("expected boolean, got %q", val)
		}
		return b, nil
	default:
		return false, fmt.Errorf("expected boolean, got %T", v)
	}
}

func toStrings(v any) ([]string, error) {
	switch val := v.(type) {
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out, nil
	case []any:
		out := make([]string, 0, len(val))
		for i, elem := range val {
			s, err := toText(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected list, got %T", v)
	}
}

func sortedUnique(items []string) []string {
	sort.Strings(items)
	out := items[:0]
	for _, s := range items {
		if len(out) > 0 && s == out[len(out)-1] {
			continue
		}
		out = append(out, s)
	}
	return out
}
