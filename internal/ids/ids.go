// Package ids generates identifiers for reconciliation runs and for the
// entities held by the sandbox and in-memory remotes.
package ids

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Generator produces unique string identifiers.
// Implemented by UUIDv7Generator (production), SequenceGenerator and
// FixedGenerator (tests).
type Generator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 identifiers.
//
// Stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate returns a new hyphenated UUIDv7.
//
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// SequenceGenerator returns "<prefix>-1", "<prefix>-2", ... in order.
// Used by the in-memory remote so remote IDs are stable across test runs.
type SequenceGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequenceGenerator creates a generator with the given prefix.
func NewSequenceGenerator(prefix string) *SequenceGenerator {
	return &SequenceGenerator{prefix: prefix}
}

// Generate returns the next identifier in the sequence.
func (g *SequenceGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}

// FixedGenerator returns predetermined identifiers for testing.
//
// Thread-safe via internal mutex.
type FixedGenerator struct {
	mu     sync.Mutex
	values []string
	idx    int
}

// NewFixedGenerator creates a generator that returns values in order.
//
//	gen := NewFixedGenerator("run-1", "run-2")
//	gen.Generate() // "run-1"
//	gen.Generate() // "run-2"
//	gen.Generate() // panic: all values exhausted
func NewFixedGenerator(values ...string) *FixedGenerator {
	return &FixedGenerator{values: values}
}

// Generate returns the next predetermined value.
//
// Panics when exhausted so test misconfiguration fails fast.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.values) {
		panic("FixedGenerator: all values exhausted")
	}
	v := g.values[g.idx]
	g.idx++
	return v
}
