package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/configurator/internal/document"
	"github.com/roach88/configurator/internal/ids"
	"github.com/roach88/configurator/internal/recovery"
	"github.com/roach88/configurator/internal/remote"
)

// Recorder persists finished reports, e.g. as run history.
type Recorder interface {
	RecordRun(ctx context.Context, report *Report) error
}

// DefaultParallelism syncs one entity at a time.
const DefaultParallelism = 1

// maxSuggestedMatches bounds the did-you-mean candidates per failure.
const maxSuggestedMatches = 3

// Engine is the reconciliation orchestrator.
//
// Run walks the plan of a document and collects one outcome per entity. An
// Engine holds no per-run state; every Run builds a fresh resolver, so runs
// are independent and an Engine may be reused.
type Engine struct {
	client      remote.Client
	logger      *slog.Logger
	suggestions *recovery.Registry
	runIDs      ids.Generator
	parallelism int
	recorder    Recorder
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithSuggestions sets the registry used to annotate failures.
// Default: recovery.Default().
func WithSuggestions(r *recovery.Registry) Option {
	return func(e *Engine) {
		if r != nil {
			e.suggestions = r
		}
	}
}

// WithIDGenerator sets the run ID generator. Default: ids.UUIDv7Generator.
func WithIDGenerator(gen ids.Generator) Option {
	return func(e *Engine) {
		if gen != nil {
			e.runIDs = gen
		}
	}
}

// WithParallelism lets up to n entities of one section be synced at once.
// Sections whose entities reference each other (categories) and the
// singleton shop are always synced one entity at a time.
func WithParallelism(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.parallelism = n
		}
	}
}

// WithRecorder persists every finished report. A recorder failure is
// logged and does not change the report.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		e.recorder = r
	}
}

// New creates an Engine over client.
func New(client remote.Client, opts ...Option) *Engine {
	e := &Engine{
		client:      client,
		logger:      slog.Default(),
		suggestions: recovery.Default(),
		runIDs:      ids.UUIDv7Generator{},
		parallelism: DefaultParallelism,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Validate runs the duplicate-identifier preflight. No network access.
func (e *Engine) Validate(doc *document.Document) []Issue {
	return Preflight(doc)
}

// Run reconciles doc against the remote.
//
// Duplicate identifiers fail the run before any remote call with a
// *DuplicateIdentifierError. Otherwise the returned report holds one
// outcome per entity and is in state Completed, even when every entity
// failed. A cancelled context stops the walk between entities; the
// remaining entities are reported Failed with the context error. An
// in-flight call is not interrupted by the engine.
func (e *Engine) Run(ctx context.Context, doc *document.Document) (*Report, error) {
	if doc == nil {
		return nil, errors.New("engine: nil document")
	}
	if err := CheckDuplicates(doc); err != nil {
		return nil, err
	}

	report := NewReport(e.runIDs.Generate())
	report.StartedAt = time.Now().UTC()
	report.setState(StateRunning)

	logger := e.logger.With("run", report.RunID)
	logger.Info("reconciliation starting")

	r := &run{
		engine:   e,
		logger:   logger,
		report:   report,
		resolver: NewResolver(e.client),
		clock:    NewClock(),
		syncers:  make(map[document.Section]*Synchronizer),
	}
	for _, section := range Order() {
		s, err := NewSynchronizer(section, e.client, r.resolver)
		if err != nil {
			return nil, fmt.Errorf("engine: %w", err)
		}
		r.syncers[section] = s
	}

	for _, group := range groupBySection(Plan(doc)) {
		r.section(ctx, group)
	}

	report.annotate(func(o Outcome) []recovery.Suggestion {
		return r.suggest(doc, o)
	})

	report.FinishedAt = time.Now().UTC()
	report.setState(StateCompleted)

	summary := report.Summary()
	logger.Info("reconciliation completed",
		"created", summary.Created,
		"updated", summary.Updated,
		"unchanged", summary.Unchanged,
		"failed", summary.Failed,
		"duration", report.FinishedAt.Sub(report.StartedAt))

	if e.recorder != nil {
		if err := e.recorder.RecordRun(context.WithoutCancel(ctx), report); err != nil {
			logger.Error("failed to record run", "error", err)
		}
	}
	return report, nil
}

// run is the state of one Run call.
type run struct {
	engine   *Engine
	logger   *slog.Logger
	report   *Report
	resolver *Resolver
	clock    *Clock
	syncers  map[document.Section]*Synchronizer
}

type sectionSteps struct {
	section document.Section
	steps   []Step
}

func groupBySection(steps []Step) []sectionSteps {
	var groups []sectionSteps
	for _, s := range steps {
		if n := len(groups); n > 0 && groups[n-1].section == s.Section {
			groups[n-1].steps = append(groups[n-1].steps, s)
			continue
		}
		groups = append(groups, sectionSteps{section: s.Section, steps: []Step{s}})
	}
	return groups
}

func (r *run) section(ctx context.Context, group sectionSteps) {
	if r.engine.parallelism > 1 && len(group.steps) > 1 && !SelfReferencing(group.section) {
		r.parallel(ctx, group)
		return
	}
	syncer := r.syncers[group.section]
	for _, step := range group.steps {
		seq := r.clock.Next()
		if err := ctx.Err(); err != nil {
			r.record(Outcome{Seq: seq, Section: step.Section, Identifier: step.Identifier()}.fail(err))
			continue
		}
		o := syncer.Sync(ctx, step.Record)
		o.Seq = seq
		r.record(o)
	}
}

// parallel syncs a section whose entities do not reference each other.
// The section and every section it references are indexed first, so
// concurrent synchronizers only read the resolver. Outcomes are stamped
// and stored in submission order.
func (r *run) parallel(ctx context.Context, group sectionSteps) {
	prefetch := append([]document.Section{group.section}, References[group.section]...)
	if err := r.resolver.Prefetch(ctx, prefetch...); err != nil {
		r.logger.Debug("prefetch failed", "section", group.section, "error", err)
	}

	syncer := r.syncers[group.section]
	outcomes := make([]Outcome, len(group.steps))
	var g errgroup.Group
	g.SetLimit(r.engine.parallelism)
	for i, step := range group.steps {
		seq := r.clock.Next()
		if err := ctx.Err(); err != nil {
			outcomes[i] = Outcome{Seq: seq, Section: step.Section, Identifier: step.Identifier()}.fail(err)
			continue
		}
		g.Go(func() error {
			o := syncer.Sync(ctx, step.Record)
			o.Seq = seq
			outcomes[i] = o
			return nil
		})
	}
	_ = g.Wait()

	for _, o := range outcomes {
		r.record(o)
	}
}

func (r *run) record(o Outcome) {
	r.report.Add(o)
	if o.Status == StatusFailed {
		r.logger.Debug("entity failed",
			"section", o.Section,
			"identifier", o.Identifier,
			"error", o.Err)
		return
	}
	r.logger.Debug("entity reconciled",
		"section", o.Section,
		"identifier", o.Identifier,
		"status", o.Status,
		"remote_id", o.RemoteID)
}

// suggest annotates one failure. Unresolved references first get
// did-you-mean hints from the identifiers known to the remote and the
// document, then every matching registry rule. A reference to an entity
// the document does declare gets only the reason it was not resolvable.
func (r *run) suggest(doc *document.Document, o Outcome) []recovery.Suggestion {
	var out []recovery.Suggestion

	var missing *ReferenceNotFoundError
	if errors.As(o.Err, &missing) {
		if slices.Contains(doc.Identifiers(missing.Section), missing.Identifier) {
			return []recovery.Suggestion{declaredButUnresolved(doc, missing)}
		}
		candidates := append(r.resolver.Known(missing.Section), doc.Identifiers(missing.Section)...)
		for _, match := range recovery.ClosestMatches(missing.Identifier, candidates, maxSuggestedMatches) {
			out = append(out, recovery.Suggestion{
				Message: fmt.Sprintf("Did you mean %q?", match),
				Action:  fmt.Sprintf("Update the reference in %s %q", o.Section, o.Identifier),
			})
		}
	}

	return append(out, r.engine.suggestions.Suggest(o.Message())...)
}

func declaredButUnresolved(doc *document.Document, missing *ReferenceNotFoundError) recovery.Suggestion {
	if missing.Section == document.SectionCategories {
		for _, w := range AnalyzeCategoryCycles(doc) {
			if slices.Contains(w.Path, missing.Identifier) {
				return recovery.Suggestion{
					Message: fmt.Sprintf("Category %q is declared but sits on a parent cycle. %s", missing.Identifier, w.Message),
					Action:  "Change the parent of one category in the cycle",
				}
			}
		}
	}
	return recovery.Suggestion{
		Message: fmt.Sprintf("%q is declared in the %s section but was not synced before it was needed", missing.Identifier, missing.Section),
		Action:  "Fix the failure reported for it and run again",
	}
}
