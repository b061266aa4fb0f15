package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/configurator/internal/engine"
	"github.com/roach88/configurator/internal/ids"
)

// createTestStore creates a new store in a temporary directory with
// sequential entity IDs.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, WithIDGenerator(ids.NewSequenceGenerator("id")))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestReport builds a completed report with the given outcomes.
func createTestReport(runID string, started time.Time, outcomes ...engine.Outcome) *engine.Report {
	r := engine.NewReport(runID)
	r.StartedAt = started
	r.FinishedAt = started.Add(time.Second)
	for _, o := range outcomes {
		r.Add(o)
	}
	return r
}
