package harness

// StatusRejected marks a run that the engine refused before any remote call.
const StatusRejected = "rejected"

// TraceEvent is one entity outcome of one run.
type TraceEvent struct {
	Run        int    `json:"run"`
	Seq        int64  `json:"seq"`
	Section    string `json:"section,omitempty"`
	Identifier string `json:"identifier,omitempty"`
	Status     string `json:"status"`
	Code       string `json:"code,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every run matched its expectations and every assertion held.
	Pass bool `json:"pass"`

	// Trace contains the outcomes of every run in submission order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends an event to the trace.
func (r *Result) AddTrace(ev TraceEvent) {
	r.Trace = append(r.Trace, ev)
}
