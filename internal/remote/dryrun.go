package remote

import (
	"context"
	"maps"
	"sync"
)

// Mutation is a create or update that a DryRun client would have issued.
type Mutation struct {
	Op         string         `json:"op"`
	Kind       string         `json:"kind"`
	ID         string         `json:"id"`
	Identifier string         `json:"identifier"`
	Fields     map[string]any `json:"fields"`
}

// Mutation operations.
const (
	OpCreate = "create"
	OpUpdate = "update"
)

// PlannedIDPrefix prefixes the placeholder IDs handed out for planned creates.
const PlannedIDPrefix = "planned:"

// DryRun reads through to the wrapped client and records mutations instead
// of sending them. Planned creates get placeholder IDs so that later
// references in the same run still resolve.
type DryRun struct {
	next Client

	mu      sync.Mutex
	planned []Mutation
}

// NewDryRun wraps next.
func NewDryRun(next Client) *DryRun {
	return &DryRun{next: next}
}

// List implements Client by delegating to the wrapped client.
func (d *DryRun) List(ctx context.Context, kind string) ([]Entity, error) {
	return d.next.List(ctx, kind)
}

// Create implements Client without calling the wrapped client.
func (d *DryRun) Create(ctx context.Context, kind string, payload Payload) (Entity, error) {
	if err := ctx.Err(); err != nil {
		return Entity{}, err
	}
	id := PlannedIDPrefix + kind + ":" + payload.Identifier
	d.record(Mutation{Op: OpCreate, Kind: kind, ID: id, Identifier: payload.Identifier, Fields: payload.Fields})
	return Entity{ID: id, Identifier: payload.Identifier, Fields: maps.Clone(payload.Fields)}, nil
}

// Update implements Client without calling the wrapped client. The returned
// entity carries only the patched fields.
func (d *DryRun) Update(ctx context.Context, kind, id string, payload Payload) (Entity, error) {
	if err := ctx.Err(); err != nil {
		return Entity{}, err
	}
	d.record(Mutation{Op: OpUpdate, Kind: kind, ID: id, Identifier: payload.Identifier, Fields: payload.Fields})
	return Entity{ID: id, Identifier: payload.Identifier, Fields: maps.Clone(payload.Fields)}, nil
}

// Planned returns the recorded mutations in submission order.
func (d *DryRun) Planned() []Mutation {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Mutation, len(d.planned))
	copy(out, d.planned)
	return out
}

func (d *DryRun) record(m Mutation) {
	d.mu.Lock()
	defer d.mu.Unlock()
	m.Fields = maps.Clone(m.Fields)
	d.planned = append(d.planned, m)
}
