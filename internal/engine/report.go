package engine

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/roach88/configurator/internal/document"
	"github.com/roach88/configurator/internal/recovery"
)

// Status is the result of reconciling one entity.
type Status string

const (
	StatusCreated   Status = "created"
	StatusUpdated   Status = "updated"
	StatusUnchanged Status = "unchanged"
	StatusFailed    Status = "failed"
)

// State is the lifecycle state of a run. There is no aborted state: a run
// whose every entity failed still completes.
type State string

const (
	StateNotStarted State = "not_started"
	StateRunning    State = "running"
	StateCompleted  State = "completed"
)

// Outcome is the immutable result for one entity.
type Outcome struct {
	// Seq is the logical clock stamp taken when the entity was submitted.
	Seq int64 `json:"seq"`

	Section    document.Section `json:"section"`
	Identifier string           `json:"identifier"`
	Status     Status           `json:"status"`

	// RemoteID is empty for entities that failed before reaching the remote.
	RemoteID string `json:"remoteId,omitempty"`

	// Changes lists the fields sent by a create or update.
	Changes []Change `json:"changes,omitempty"`

	Err         error                 `json:"-"`
	Suggestions []recovery.Suggestion `json:"suggestions,omitempty"`
}

func (o Outcome) fail(err error) Outcome {
	o.Status = StatusFailed
	o.Err = err
	o.Changes = nil
	return o
}

// Message returns the raw error message of a failed outcome.
func (o Outcome) Message() string {
	if o.Err == nil {
		return ""
	}
	return o.Err.Error()
}

// MarshalJSON adds the error message and code, which Err cannot carry.
func (o Outcome) MarshalJSON() ([]byte, error) {
	type plain Outcome
	return json.Marshal(struct {
		plain
		Error string    `json:"error,omitempty"`
		Code  ErrorCode `json:"code,omitempty"`
	}{plain: plain(o), Error: o.Message(), Code: CodeOf(o.Err)})
}

// Key identifies an outcome within a report.
type Key struct {
	Section    document.Section
	Identifier string
}

// Summary counts outcomes by status.
type Summary struct {
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	Failed    int `json:"failed"`
	Total     int `json:"total"`
}

// Report collects one outcome per (section, identifier) in submission
// order. It is append-only while the run is in progress.
//
// Safe for concurrent use.
type Report struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time

	mu       sync.RWMutex
	state    State
	outcomes []Outcome
	index    map[Key]int
}

// NewReport creates an empty report in state NotStarted.
func NewReport(runID string) *Report {
	return &Report{RunID: runID, state: StateNotStarted, index: make(map[Key]int)}
}

// State returns the lifecycle state.
func (r *Report) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

func (r *Report) setState(s State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = s
}

// Add stores an outcome. A second outcome for the same key replaces the
// first in place.
func (r *Report) Add(o Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := Key{Section: o.Section, Identifier: o.Identifier}
	if i, ok := r.index[key]; ok {
		r.outcomes[i] = o
		return
	}
	r.index[key] = len(r.outcomes)
	r.outcomes = append(r.outcomes, o)
}

// Get returns the outcome for (section, identifier).
func (r *Report) Get(section document.Section, identifier string) (Outcome, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.index[Key{Section: section, Identifier: identifier}]
	if !ok {
		return Outcome{}, false
	}
	return r.outcomes[i], true
}

// Outcomes returns every outcome in submission order.
func (r *Report) Outcomes() []Outcome {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Outcome, len(r.outcomes))
	copy(out, r.outcomes)
	return out
}

// Failed returns the failed outcomes in submission order.
func (r *Report) Failed() []Outcome {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Outcome
	for _, o := range r.outcomes {
		if o.Status == StatusFailed {
			out = append(out, o)
		}
	}
	return out
}

// HasFailures reports whether any entity failed.
func (r *Report) HasFailures() bool {
	return r.Summary().Failed > 0
}

// Summary counts outcomes by status.
func (r *Report) Summary() Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var s Summary
	for _, o := range r.outcomes {
		switch o.Status {
		case StatusCreated:
			s.Created++
		case StatusUpdated:
			s.Updated++
		case StatusUnchanged:
			s.Unchanged++
		case StatusFailed:
			s.Failed++
		}
	}
	s.Total = len(r.outcomes)
	return s
}

// Statuses returns the status of every outcome keyed by section and
// identifier.
func (r *Report) Statuses() map[Key]Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[Key]Status, len(r.outcomes))
	for _, o := range r.outcomes {
		out[Key{Section: o.Section, Identifier: o.Identifier}] = o.Status
	}
	return out
}

func (r *Report) annotate(fn func(o Outcome) []recovery.Suggestion) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, o := range r.outcomes {
		if o.Status == StatusFailed {
			r.outcomes[i].Suggestions = fn(o)
		}
	}
}

// MarshalJSON renders the report with its summary.
func (r *Report) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		RunID      string    `json:"runId"`
		State      State     `json:"state"`
		StartedAt  time.Time `json:"startedAt"`
		FinishedAt time.Time `json:"finishedAt"`
		Summary    Summary   `json:"summary"`
		Outcomes   []Outcome `json:"outcomes"`
	}{
		RunID:      r.RunID,
		State:      r.State(),
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Summary:    r.Summary(),
		Outcomes:   r.Outcomes(),
	})
}
