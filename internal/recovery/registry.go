// Package recovery turns raw failure messages into actionable remediation
// hints.
//
// A Registry is an ordered table of (pattern, generator) rules. Suggest
// evaluates every rule against a message and returns one suggestion per
// matching rule, so a message may produce several hints. When nothing
// matches a generic fallback is returned.
package recovery

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// DefaultMaxPatterns bounds the number of rules a registry accepts.
const DefaultMaxPatterns = 64

// Suggestion is one remediation hint.
type Suggestion struct {
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
}

// Generator builds a suggestion from the regular expression submatches of
// a message; match[0] is the whole match.
type Generator func(match []string) Suggestion

var (
	// ErrDuplicatePattern is returned when the same pattern and flags are
	// registered twice.
	ErrDuplicatePattern = errors.New("pattern already registered")

	// ErrRegistryFull is returned once the pattern ceiling is reached.
	ErrRegistryFull = errors.New("pattern registry is full")

	// ErrInvalidFlags is returned for flags other than i, m, s and U.
	ErrInvalidFlags = errors.New("invalid pattern flags")
)

type rule struct {
	pattern string
	flags   string
	re      *regexp.Regexp
	gen     Generator
}

// Registry holds suggestion rules in registration order.
//
// Safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
	max   int
}

// New creates an empty registry accepting at most max rules. A non-positive
// max selects DefaultMaxPatterns.
func New(max int) *Registry {
	if max <= 0 {
		max = DefaultMaxPatterns
	}
	return &Registry{max: max}
}

// Register adds a rule. Flags are regexp flag letters ("i" for case
// insensitive); their order does not matter for duplicate detection.
func (r *Registry) Register(pattern, flags string, gen Generator) error {
	if gen == nil {
		return fmt.Errorf("recovery: generator for %q is nil", pattern)
	}
	if pattern == "" {
		return fmt.Errorf("recovery: pattern must not be empty")
	}
	normalized, err := normalizeFlags(flags)
	if err != nil {
		return err
	}

	expr := pattern
	if normalized != "" {
		expr = "(?" + normalized + ")" + pattern
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return fmt.Errorf("recovery: compile %q: %w", pattern, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.rules {
		if existing.pattern == pattern && existing.flags == normalized {
			return fmt.Errorf("recovery: %w: %q (flags %q)", ErrDuplicatePattern, pattern, normalized)
		}
	}
	if len(r.rules) >= r.max {
		return fmt.Errorf("recovery: %w (max %d)", ErrRegistryFull, r.max)
	}

	r.rules = append(r.rules, rule{pattern: pattern, flags: normalized, re: re, gen: gen})
	return nil
}

// MustRegister is like Register but panics on error. Used for built-in rules.
func (r *Registry) MustRegister(pattern, flags string, gen Generator) {
	if err := r.Register(pattern, flags, gen); err != nil {
		panic(err)
	}
}

// Len returns the number of registered rules.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rules)
}

// Suggest returns a suggestion for every rule matching message, in
// registration order. Identical suggestions are returned once. An empty or
// unmatched message yields the fallback suggestion.
func (r *Registry) Suggest(message string) []Suggestion {
	if strings.TrimSpace(message) == "" {
		return []Suggestion{Fallback()}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Suggestion
	seen := make(map[Suggestion]bool)
	for _, rl := range r.rules {
		match := rl.re.FindStringSubmatch(message)
		if match == nil {
			continue
		}
		s := rl.gen(match)
		if s.Message == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	if len(out) == 0 {
		return []Suggestion{Fallback()}
	}
	return out
}

// Fallback is returned when no rule matches.
func Fallback() Suggestion {
	return Suggestion{
		Message: "Review the error details and the entity definition in the document",
		Action:  "Re-run with --verbose for more context",
	}
}

func normalizeFlags(flags string) (string, error) {
	if flags == "" {
		return "", nil
	}
	set := make(map[rune]bool)
	for _, f := range flags {
		switch f {
		case 'i', 'm', 's', 'U':
			set[f] = true
		default:
			return "", fmt.Errorf("recovery: %w: %q", ErrInvalidFlags, flags)
		}
	}
	letters := make([]string, 0, len(set))
	for f := range set {
		letters = append(letters, string(f))
	}
	sort.Strings(letters)
	return strings.Join(letters, ""), nil
}
