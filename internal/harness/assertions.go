package harness

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/configurator/internal/canon"
	"github.com/roach88/configurator/internal/engine"
	"github.com/roach88/configurator/internal/remote"
)

// AssertionContext provides what assertions inspect.
type AssertionContext struct {
	Remote *remote.Memory
	Report *engine.Report // last completed run; nil if every run was rejected
	Ctx    context.Context
}

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// EvaluateAssertions runs every assertion and returns the messages of the
// ones that failed.
func EvaluateAssertions(actx *AssertionContext, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluate(actx, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluate(actx *AssertionContext, a Assertion) error {
	switch a.Type {
	case AssertOutcomeOrder:
		return assertOutcomeOrder(actx.Report, a)
	case AssertRemoteState:
		return assertRemoteState(actx.Remote, a)
	case AssertCallCount:
		return assertCallCount(actx.Remote, a)
	case AssertErrorCode:
		return assertErrorCode(actx.Report, a)
	case AssertSuggestionContains:
		return assertSuggestionContains(actx.Report, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

var errNoReport = &AssertionError{Type: "report", Expected: "a completed run", Actual: "every run was rejected"}

// assertOutcomeOrder checks that the keys appear in the given order.
// Other outcomes may appear in between.
func assertOutcomeOrder(report *engine.Report, a Assertion) error {
	if report == nil {
		return errNoReport
	}
	positions := make(map[string]int)
	for i, o := range report.Outcomes() {
		positions[string(o.Section)+"/"+o.Identifier] = i + 1
	}

	for _, key := range a.Keys {
		if positions[key] == 0 {
			return &AssertionError{
				Type:     AssertOutcomeOrder,
				Expected: fmt.Sprintf("all outcomes present: %v", a.Keys),
				Actual:   fmt.Sprintf("missing outcome: %s", key),
			}
		}
	}
	for i := 1; i < len(a.Keys); i++ {
		prev, curr := a.Keys[i-1], a.Keys[i]
		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertOutcomeOrder,
				Expected: fmt.Sprintf("outcomes in order: %v", a.Keys),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					prev, positions[prev], curr, positions[curr]),
			}
		}
	}
	return nil
}

// assertRemoteState checks the remote entity using subset semantics. Values
// are compared by canonical JSON, so 5 and 5.0 are equal.
func assertRemoteState(mem *remote.Memory, a Assertion) error {
	entity, ok := mem.Get(a.Kind, a.Identifier)
	if !ok {
		return &AssertionError{
			Type:     AssertRemoteState,
			Expected: fmt.Sprintf("%s %q on the remote", a.Kind, a.Identifier),
			Actual:   "not found",
		}
	}

	names := make([]string, 0, len(a.Fields))
	for name := range a.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		want := a.Fields[name]
		have, present := entity.Fields[name]
		if !present {
			return &AssertionError{
				Type:     AssertRemoteState,
				Expected: fmt.Sprintf("%s %q field %s = %v", a.Kind, a.Identifier, name, want),
				Actual:   "field missing",
			}
		}
		if !canon.Equal(canon.Object, want, have) {
			return &AssertionError{
				Type:     AssertRemoteState,
				Expected: fmt.Sprintf("%s %q field %s = %v", a.Kind, a.Identifier, name, want),
				Actual:   fmt.Sprintf("%v", have),
			}
		}
	}
	return nil
}

func assertCallCount(mem *remote.Memory, a Assertion) error {
	if n := mem.Calls(a.Method, a.Kind); n != a.Count {
		return &AssertionError{
			Type:     AssertCallCount,
			Expected: fmt.Sprintf("%d %s calls for %s", a.Count, a.Method, a.Kind),
			Actual:   fmt.Sprintf("%d calls", n),
		}
	}
	return nil
}

func failedOutcome(report *engine.Report, key string) (engine.Outcome, error) {
	if report == nil {
		return engine.Outcome{}, errNoReport
	}
	section, identifier, err := splitKey(key)
	if err != nil {
		return engine.Outcome{}, err
	}
	o, ok := report.Get(section, identifier)
	if !ok {
		return engine.Outcome{}, &AssertionError{Type: "outcome", Expected: "outcome for " + key, Actual: "not found"}
	}
	if o.Status != engine.StatusFailed {
		return engine.Outcome{}, &AssertionError{Type: "outcome", Expected: key + " failed", Actual: string(o.Status)}
	}
	return o, nil
}

func assertErrorCode(report *engine.Report, a Assertion) error {
	o, err := failedOutcome(report, a.Key)
	if err != nil {
		return err
	}
	if code := engine.CodeOf(o.Err); string(code) != a.Code {
		return &AssertionError{
			Type:     AssertErrorCode,
			Expected: fmt.Sprintf("%s code %s", a.Key, a.Code),
			Actual:   fmt.Sprintf("code %q: %v", code, o.Err),
		}
	}
	return nil
}

func assertSuggestionContains(report *engine.Report, a Assertion) error {
	o, err := failedOutcome(report, a.Key)
	if err != nil {
		return err
	}
	messages := make([]string, 0, len(o.Suggestions))
	for _, s := range o.Suggestions {
		if strings.Contains(s.Message, a.Text) || strings.Contains(s.Action, a.Text) {
			return nil
		}
		messages = append(messages, s.Message)
	}
	return &AssertionError{
		Type:     AssertSuggestionContains,
		Expected: fmt.Sprintf("a suggestion for %s containing %q", a.Key, a.Text),
		Actual:   fmt.Sprintf("%q", messages),
	}
}
