package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"

	"github.com/roach88/configurator/internal/document"
	"github.com/roach88/configurator/internal/engine"
	"github.com/roach88/configurator/internal/recovery"
	"github.com/roach88/configurator/internal/remote"
	"github.com/roach88/configurator/internal/store"
)

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

var missingCategory = engine.Outcome{
	Section:    document.SectionProducts,
	Identifier: "tee",
	Status:     engine.StatusFailed,
	Err:        &engine.ReferenceNotFoundError{Section: document.SectionCategories, Identifier: "aparel"},
	Suggestions: []recovery.Suggestion{{
		Message: `Did you mean "apparel"?`,
		Action:  `Update the reference in products "tee"`,
	}},
}

func TestRenderReport(t *testing.T) {
	report := engine.NewReport("run-1")
	report.Add(engine.Outcome{Seq: 1, Section: document.SectionChannels, Identifier: "us", Status: engine.StatusCreated, RemoteID: "channels-1"})
	report.Add(engine.Outcome{
		Seq: 2, Section: document.SectionChannels, Identifier: "eu", Status: engine.StatusUpdated, RemoteID: "channels-2",
		Changes: []engine.Change{{Field: "currencyCode", From: "USD", To: "EUR"}, {Field: "name", To: "Europe"}},
	})
	failed := missingCategory
	failed.Seq = 3
	report.Add(failed)
	report.Add(engine.Outcome{Seq: 4, Section: document.SectionWarehouses, Identifier: "nyc", Status: engine.StatusUnchanged, RemoteID: "warehouses-1"})

	var buf bytes.Buffer
	RenderReport(&buf, report)
	newGoldie(t).Assert(t, "report", buf.Bytes())
}

func TestRenderReport_Empty(t *testing.T) {
	var buf bytes.Buffer
	RenderReport(&buf, engine.NewReport("run-1"))
	assert.NotContains(t, buf.String(), "Outcomes:")
	assert.Contains(t, buf.String(), "  Total:     0")
}

func TestRenderPlan(t *testing.T) {
	report := engine.NewReport("run-1")
	report.Add(engine.Outcome{Seq: 1, Section: document.SectionChannels, Identifier: "us", Status: engine.StatusCreated, RemoteID: "planned:channels:us"})
	failed := missingCategory
	failed.Seq = 2
	report.Add(failed)

	planned := []remote.Mutation{{
		Op:         remote.OpCreate,
		Kind:       "channels",
		ID:         "planned:channels:us",
		Identifier: "us",
		Fields:     map[string]any{"slug": "us", "name": "United States"},
	}}

	var buf bytes.Buffer
	RenderPlan(&buf, report, planned)
	newGoldie(t).Assert(t, "plan", buf.Bytes())
}

func TestRenderPlan_NoChanges(t *testing.T) {
	var buf bytes.Buffer
	RenderPlan(&buf, engine.NewReport("run-1"), nil)
	assert.Contains(t, buf.String(), "No changes. The remote matches the document.")
	assert.NotContains(t, buf.String(), "Would fail:")
}

func TestRenderHistory(t *testing.T) {
	started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	runs := []store.RunRecord{
		{ID: "run-2", State: engine.StateCompleted, StartedAt: started, Summary: engine.Summary{Updated: 1, Unchanged: 3, Total: 4}},
		{ID: "run-1", State: engine.StateCompleted, StartedAt: started.Add(-time.Hour), Summary: engine.Summary{Created: 4, Failed: 1, Total: 5}},
	}

	var buf bytes.Buffer
	RenderHistory(&buf, runs)
	assert.Equal(t,
		"run-2  2026-01-02T03:04:05Z  completed  created=0 updated=1 unchanged=3 failed=0\n"+
			"run-1  2026-01-02T02:04:05Z  completed  created=4 updated=0 unchanged=0 failed=1\n",
		buf.String())
}

func TestRenderRunOutcomes(t *testing.T) {
	run := store.RunRecord{
		ID:        "run-1",
		State:     engine.StateCompleted,
		StartedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Summary:   engine.Summary{Created: 1, Failed: 1, Total: 2},
	}
	outcomes := []store.OutcomeRecord{
		{Seq: 1, Section: "channels", Identifier: "us", Status: engine.StatusCreated, RemoteID: "sb-1"},
		{
			Seq: 2, Section: "products", Identifier: "tee", Status: engine.StatusFailed,
			Error: `reference "aparel" not found in section "categories"`, Code: engine.ErrCodeReferenceNotFound,
			Suggestions: []recovery.Suggestion{{Message: `Did you mean "apparel"?`}},
		},
	}

	var buf bytes.Buffer
	RenderRunOutcomes(&buf, run, outcomes)
	newGoldie(t).Assert(t, "run_outcomes", buf.Bytes())
}
