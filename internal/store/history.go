package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/configurator/internal/engine"
	"github.com/roach88/configurator/internal/recovery"
)

var _ engine.Recorder = (*Store)(nil)

// RunRecord is a recorded reconciliation run.
type RunRecord struct {
	ID         string         `json:"id"`
	State      engine.State   `json:"state"`
	StartedAt  time.Time      `json:"startedAt"`
	FinishedAt time.Time      `json:"finishedAt"`
	Summary    engine.Summary `json:"summary"`
}

// OutcomeRecord is one recorded entity outcome.
type OutcomeRecord struct {
	Seq         int64                 `json:"seq"`
	Section     string                `json:"section"`
	Identifier  string                `json:"identifier"`
	Status      engine.Status         `json:"status"`
	RemoteID    string                `json:"remoteId,omitempty"`
	Error       string                `json:"error,omitempty"`
	Code        engine.ErrorCode      `json:"code,omitempty"`
	Suggestions []recovery.Suggestion `json:"suggestions,omitempty"`
}

// RecordRun implements engine.Recorder.
// Uses ON CONFLICT DO NOTHING for idempotency - recording the same run
// twice is silently ignored.
func (s *Store) RecordRun(ctx context.Context, report *engine.Report) error {
	if report == nil {
		return fmt.Errorf("record run: nil report")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	defer tx.Rollback()

	summary := report.Summary()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, state, started_at, finished_at, created, updated, unchanged, failed, total)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		report.RunID,
		string(report.State()),
		formatTime(report.StartedAt),
		formatTime(report.FinishedAt),
		summary.Created,
		summary.Updated,
		summary.Unchanged,
		summary.Failed,
		summary.Total,
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}

	for _, o := range report.Outcomes() {
		suggestions, err := marshalSuggestions(o.Suggestions)
		if err != nil {
			return fmt.Errorf("record run: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO run_outcomes
			(run_id, seq, section, identifier, status, remote_id, error, code, suggestions)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT DO NOTHING
		`,
			report.RunID,
			o.Seq,
			string(o.Section),
			o.Identifier,
			string(o.Status),
			o.RemoteID,
			o.Message(),
			string(engine.CodeOf(o.Err)),
			suggestions,
		)
		if err != nil {
			return fmt.Errorf("record outcome %s %q: %w", o.Section, o.Identifier, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs first. A limit of zero or less
// returns every run.
//
// Returns an empty slice (not nil) if no run was recorded.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, state, started_at, finished_at, created, updated, unchanged, failed, total
		FROM runs
		ORDER BY started_at DESC, id COLLATE BINARY DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []RunRecord{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// GetRun returns the run with the given ID. The boolean is false when no
// such run was recorded.
func (s *Store) GetRun(ctx context.Context, runID string) (RunRecord, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, state, started_at, finished_at, created, updated, unchanged, failed, total
		FROM runs
		WHERE id = ?
	`, runID)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, false, nil
	}
	if err != nil {
		return RunRecord{}, false, err
	}
	return r, true, nil
}

func scanRun(sc scanner) (RunRecord, error) {
	var (
		r                 RunRecord
		state             string
		started, finished string
	)
	if err := sc.Scan(&r.ID, &state, &started, &finished,
		&r.Summary.Created, &r.Summary.Updated, &r.Summary.Unchanged,
		&r.Summary.Failed, &r.Summary.Total); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunRecord{}, err
		}
		return RunRecord{}, fmt.Errorf("scan run: %w", err)
	}
	r.State = engine.State(state)

	var err error
	if r.StartedAt, err = time.Parse(timeFormat, started); err != nil {
		return RunRecord{}, fmt.Errorf("parse started_at: %w", err)
	}
	if r.FinishedAt, err = time.Parse(timeFormat, finished); err != nil {
		return RunRecord{}, fmt.Errorf("parse finished_at: %w", err)
	}
	return r, nil
}

// RunOutcomes returns the outcomes of a run in submission order.
//
// Returns an empty slice (not nil) for an unknown run.
func (s *Store) RunOutcomes(ctx context.Context, runID string) ([]OutcomeRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, section, identifier, status, remote_id, error, code, suggestions
		FROM run_outcomes
		WHERE run_id = ?
		ORDER BY seq ASC, section COLLATE BINARY ASC, identifier COLLATE BINARY ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query outcomes: %w", err)
	}
	defer rows.Close()

	outcomes := []OutcomeRecord{}
	for rows.Next() {
		var (
			o                  OutcomeRecord
			status, code, sugg string
		)
		if err := rows.Scan(&o.Seq, &o.Section, &o.Identifier, &status,
			&o.RemoteID, &o.Error, &code, &sugg); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		o.Status = engine.Status(status)
		o.Code = engine.ErrorCode(code)
		if o.Suggestions, err = unmarshalSuggestions(sugg); err != nil {
			return nil, err
		}
		outcomes = append(outcomes, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcomes: %w", err)
	}
	return outcomes, nil
}
