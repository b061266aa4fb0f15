package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/roach88/configurator/internal/engine"
	"github.com/roach88/configurator/internal/remote"
	"github.com/roach88/configurator/internal/store"
)

var statusSymbols = map[engine.Status]string{
	engine.StatusCreated:   "+",
	engine.StatusUpdated:   "~",
	engine.StatusUnchanged: "=",
	engine.StatusFailed:    "✗",
}

// RenderReport writes the human-readable form of a run report.
func RenderReport(w io.Writer, report *engine.Report) {
	fmt.Fprintf(w, "Run: %s\n", report.RunID)
	fmt.Fprintf(w, "State: %s\n", report.State())

	outcomes := report.Outcomes()
	if len(outcomes) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Outcomes:")
		for _, o := range outcomes {
			renderOutcome(w, o)
		}
	}

	renderSummary(w, report.Summary())
}

func renderOutcome(w io.Writer, o engine.Outcome) {
	line := fmt.Sprintf("  [%d] %s %s/%s (%s)", o.Seq, statusSymbols[o.Status], o.Section, o.Identifier, o.Status)
	if o.RemoteID != "" {
		line += " " + o.RemoteID
	}
	fmt.Fprintln(w, line)

	if o.Status == engine.StatusUpdated && len(o.Changes) > 0 {
		fields := make([]string, len(o.Changes))
		for i, c := range o.Changes {
			fields[i] = c.Field
		}
		fmt.Fprintf(w, "       Changed: %s\n", strings.Join(fields, ", "))
	}
	if o.Err != nil {
		msg := o.Message()
		if code := engine.CodeOf(o.Err); code != "" {
			msg += " [" + string(code) + "]"
		}
		fmt.Fprintf(w, "       Error: %s\n", msg)
	}
	for _, s := range o.Suggestions {
		fmt.Fprintf(w, "       Suggestion: %s\n", s.Message)
		if s.Action != "" {
			fmt.Fprintf(w, "       Action: %s\n", s.Action)
		}
	}
}

func renderSummary(w io.Writer, s engine.Summary) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Summary:")
	fmt.Fprintf(w, "  Created:   %d\n", s.Created)
	fmt.Fprintf(w, "  Updated:   %d\n", s.Updated)
	fmt.Fprintf(w, "  Unchanged: %d\n", s.Unchanged)
	fmt.Fprintf(w, "  Failed:    %d\n", s.Failed)
	fmt.Fprintf(w, "  Total:     %d\n", s.Total)
}

// RenderPlan writes the mutations a dry run would issue, followed by the
// entities that would fail.
func RenderPlan(w io.Writer, report *engine.Report, planned []remote.Mutation) {
	fmt.Fprintln(w, "Plan (dry run, nothing was written)")
	fmt.Fprintln(w)

	if len(planned) == 0 {
		fmt.Fprintln(w, "No changes. The remote matches the document.")
	}
	for _, m := range planned {
		fmt.Fprintf(w, "  %s %s/%s\n", m.Op, m.Kind, m.Identifier)
		for _, name := range sortedFieldNames(m.Fields) {
			fmt.Fprintf(w, "       %s: %v\n", name, m.Fields[name])
		}
	}

	if failed := report.Failed(); len(failed) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Would fail:")
		for _, o := range failed {
			renderOutcome(w, o)
		}
	}

	renderSummary(w, report.Summary())
}

func sortedFieldNames(fields map[string]any) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RenderHistory writes recorded runs, newest first.
func RenderHistory(w io.Writer, runs []store.RunRecord) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}
	for _, r := range runs {
		s := r.Summary
		fmt.Fprintf(w, "%s  %s  %s  created=%d updated=%d unchanged=%d failed=%d\n",
			r.ID, r.StartedAt.UTC().Format(time.RFC3339), r.State,
			s.Created, s.Updated, s.Unchanged, s.Failed)
	}
}

// RenderRunOutcomes writes the recorded outcomes of one run.
func RenderRunOutcomes(w io.Writer, run store.RunRecord, outcomes []store.OutcomeRecord) {
	fmt.Fprintf(w, "Run: %s\n", run.ID)
	fmt.Fprintf(w, "State: %s\n", run.State)
	fmt.Fprintf(w, "Started: %s\n", run.StartedAt.UTC().Format(time.RFC3339))

	if len(outcomes) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Outcomes:")
	}
	for _, o := range outcomes {
		line := fmt.Sprintf("  [%d] %s %s/%s (%s)", o.Seq, statusSymbols[o.Status], o.Section, o.Identifier, o.Status)
		if o.RemoteID != "" {
			line += " " + o.RemoteID
		}
		fmt.Fprintln(w, line)
		if o.Error != "" {
			msg := o.Error
			if o.Code != "" {
				msg += " [" + string(o.Code) + "]"
			}
			fmt.Fprintf(w, "       Error: %s\n", msg)
		}
		for _, s := range o.Suggestions {
			fmt.Fprintf(w, "       Suggestion: %s\n", s.Message)
		}
	}

	renderSummary(w, run.Summary)
}
