package remote

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/roach88/configurator/internal/ids"
)

// Memory is an in-memory Client. Entities are listed in creation order.
// It counts calls per method and kind, and can be told to fail specific
// operations, which makes it the default remote for tests and scenarios.
//
// Safe for concurrent use.
type Memory struct {
	mu       sync.Mutex
	ids      ids.Generator
	kinds    map[string][]*Entity
	calls    map[string]int
	seq      map[string]int
	failures map[string]error
}

// NewMemory creates an empty remote. Remote IDs are "<kind>-<n>".
func NewMemory() *Memory {
	return NewMemoryWithIDs(nil)
}

// NewMemoryWithIDs creates an empty remote using gen for remote IDs.
// A nil generator produces sequential IDs.
func NewMemoryWithIDs(gen ids.Generator) *Memory {
	return &Memory{
		ids:      gen,
		kinds:    make(map[string][]*Entity),
		calls:    make(map[string]int),
		seq:      make(map[string]int),
		failures: make(map[string]error),
	}
}

// Seed stores entities as if they had been created earlier. Entities without
// an ID get a generated one. Returns the stored copies.
func (m *Memory) Seed(kind string, entities ...Entity) []Entity {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Entity, 0, len(entities))
	for _, e := range entities {
		stored := e.Clone()
		if stored.ID == "" {
			stored.ID = m.nextID(kind)
		}
		m.kinds[kind] = append(m.kinds[kind], &stored)
		out = append(out, stored.Clone())
	}
	return out
}

// FailOn makes the next and all later calls of op ("create" or "update")
// for (kind, identifier) fail with err.
func (m *Memory) FailOn(op, kind, identifier string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[failureKey(op, kind, identifier)] = err
}

// FailList makes List for kind fail with err.
func (m *Memory) FailList(kind string, err error) {
	m.FailOn("list", kind, "", err)
}

// Calls returns how many times method ("list", "create", "update") was
// called for kind.
func (m *Memory) Calls(method, kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method+":"+kind]
}

// Get returns the stored entity for (kind, identifier).
func (m *Memory) Get(kind, identifier string) (Entity, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.kinds[kind] {
		if e.Identifier == identifier {
			return e.Clone(), true
		}
	}
	return Entity{}, false
}

// Kinds returns every kind with at least one entity, sorted.
func (m *Memory) Kinds() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.kinds))
	for k, entities := range m.kinds {
		if len(entities) > 0 {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// List implements Client.
func (m *Memory) List(ctx context.Context, kind string) ([]Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls["list:"+kind]++
	if err := m.failures[failureKey("list", kind, "")]; err != nil {
		return nil, err
	}

	out := make([]Entity, 0, len(m.kinds[kind]))
	for _, e := range m.kinds[kind] {
		out = append(out, e.Clone())
	}
	return out, nil
}

// Create implements Client. Identifiers are unique per kind.
func (m *Memory) Create(ctx context.Context, kind string, payload Payload) (Entity, error) {
	if err := ctx.Err(); err != nil {
		return Entity{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls["create:"+kind]++
	if err := m.failures[failureKey("create", kind, payload.Identifier)]; err != nil {
		return Entity{}, err
	}
	for _, e := range m.kinds[kind] {
		if e.Identifier == payload.Identifier {
			return Entity{}, &Error{
				Message: fmt.Sprintf("%s with identifier %q already exists", kind, payload.Identifier),
				Code:    CodeUnique,
			}
		}
	}

	stored := Entity{ID: m.nextID(kind), Identifier: payload.Identifier, Fields: map[string]any{}}
	for k, v := range payload.Fields {
		stored.Fields[k] = v
	}
	m.kinds[kind] = append(m.kinds[kind], &stored)
	return stored.Clone(), nil
}

// Update implements Client. Fields absent from the payload are preserved.
func (m *Memory) Update(ctx context.Context, kind, id string, payload Payload) (Entity, error) {
	if err := ctx.Err(); err != nil {
		return Entity{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls["update:"+kind]++
	for _, e := range m.kinds[kind] {
		if e.ID != id {
			continue
		}
		if err := m.failures[failureKey("update", kind, e.Identifier)]; err != nil {
			return Entity{}, err
		}
		if e.Fields == nil {
			e.Fields = map[string]any{}
		}
		for k, v := range payload.Fields {
			e.Fields[k] = v
		}
		return e.Clone(), nil
	}
	return Entity{}, &Error{
		Message: fmt.Sprintf("%s %q not found", kind, id),
		Code:    CodeNotFound,
	}
}

func (m *Memory) nextID(kind string) string {
	if m.ids != nil {
		return m.ids.Generate()
	}
	m.seq[kind]++
	return fmt.Sprintf("%s-%d", kind, m.seq[kind])
}

func failureKey(op, kind, identifier string) string {
	return op + ":" + kind + ":" + identifier
}
