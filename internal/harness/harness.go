package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/roach88/configurator/internal/document"
	"github.com/roach88/configurator/internal/engine"
	"github.com/roach88/configurator/internal/ids"
	"github.com/roach88/configurator/internal/remote"
)

// Harness executes one scenario against a fresh in-memory remote.
type Harness struct {
	remote *remote.Memory
	engine *engine.Engine
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Execution flow:
//  1. Create a fresh in-memory remote with sequential IDs
//  2. Seed entities and inject failures
//  3. Decode and validate the document
//  4. Reconcile once per run step, checking expected statuses
//  5. Evaluate assertions against the last report and the remote
//
// An error is returned only when the scenario itself cannot be executed;
// unmet expectations are reported in Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	mem := remote.NewMemory()
	for _, kind := range sortedKinds(scenario.Remote) {
		for _, seed := range scenario.Remote[kind] {
			mem.Seed(kind, remote.Entity{ID: seed.ID, Identifier: seed.Identifier, Fields: seed.Fields})
		}
	}
	for _, f := range scenario.Failures {
		mem.FailOn(f.Op, f.Kind, f.Identifier, &remote.Error{Message: f.Message, Code: f.Code})
	}

	doc, err := document.DecodeYAML([]byte(scenario.Document))
	if err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	if err := document.Validate(doc); err != nil {
		return nil, fmt.Errorf("invalid document: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := &Harness{
		remote: mem,
		engine: engine.New(mem,
			engine.WithLogger(logger),
			engine.WithIDGenerator(ids.NewSequenceGenerator("run")),
			engine.WithParallelism(scenario.Parallelism),
		),
		logger: logger,
	}

	ctx := context.Background()
	result := NewResult()

	var last *engine.Report
	for i, step := range scenario.Runs {
		report, err := h.executeRun(ctx, i+1, doc, step, result)
		if err != nil {
			return nil, err
		}
		if report != nil {
			last = report
		}
	}

	actx := &AssertionContext{Remote: mem, Report: last, Ctx: ctx}
	for _, errMsg := range EvaluateAssertions(actx, scenario.Assertions) {
		result.AddError(errMsg)
	}
	return result, nil
}

// executeRun reconciles the document once and checks the step's
// expectations. A rejected run returns a nil report.
func (h *Harness) executeRun(ctx context.Context, n int, doc *document.Document, step RunStep, result *Result) (*engine.Report, error) {
	report, err := h.engine.Run(ctx, doc)
	if err != nil {
		if step.Error == "" {
			return nil, fmt.Errorf("run %d: %w", n, err)
		}
		if !strings.Contains(err.Error(), step.Error) {
			result.AddError(fmt.Sprintf("run %d: error %q does not contain %q", n, err.Error(), step.Error))
		}
		result.AddTrace(TraceEvent{Run: n, Status: StatusRejected, Code: string(engine.CodeOf(err))})
		return nil, nil
	}
	if step.Error != "" {
		result.AddError(fmt.Sprintf("run %d: expected rejection containing %q, run completed", n, step.Error))
	}

	seen := make(map[string]bool, len(step.Expect))
	for _, o := range report.Outcomes() {
		key := string(o.Section) + "/" + o.Identifier
		seen[key] = true
		result.AddTrace(TraceEvent{
			Run:        n,
			Seq:        o.Seq,
			Section:    string(o.Section),
			Identifier: o.Identifier,
			Status:     string(o.Status),
			Code:       string(engine.CodeOf(o.Err)),
		})

		want, ok := step.Expect[key]
		switch {
		case step.Error != "":
		case !ok:
			result.AddError(fmt.Sprintf("run %d: unexpected outcome %s: %s", n, key, o.Status))
		case want != string(o.Status):
			msg := fmt.Sprintf("run %d: %s: expected %s, got %s", n, key, want, o.Status)
			if o.Err != nil {
				msg += ": " + o.Err.Error()
			}
			result.AddError(msg)
		}
	}
	for _, key := range sortedKeys(step.Expect) {
		if !seen[key] {
			result.AddError(fmt.Sprintf("run %d: no outcome for %s", n, key))
		}
	}

	h.logger.Info("scenario run completed", "run", n, "run_id", report.RunID)
	return report, nil
}

func sortedKinds(m map[string][]SeedEntity) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
