package testutil

// FixedRunID generates the same run ID every time.
//
// Reports rendered with a FixedRunID are byte-identical across test runs,
// which golden files rely on. Unlike ids.FixedGenerator, it never runs out.
//
// Stateless and safe for concurrent use.
type FixedRunID struct {
	id string
}

// NewFixedRunID creates a generator returning id. An empty id selects
// "run-fixed".
func NewFixedRunID(id string) *FixedRunID {
	if id == "" {
		id = "run-fixed"
	}
	return &FixedRunID{id: id}
}

// Generate returns the fixed run ID.
func (g *FixedRunID) Generate() string {
	return g.id
}
