package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/configurator/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Limit    int
	RunID    string
}

// RunDetail is the JSON form of one recorded run.
type RunDetail struct {
	Run      store.RunRecord       `json:"run"`
	Outcomes []store.OutcomeRecord `json:"outcomes"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		Long: `List the runs recorded in the sandbox database, newest first.

With --run, print the recorded outcomes of a single run.

Examples:
  configurator history
  configurator history --limit 5
  configurator history --run 01926f3e-8a4b-7c2d-9e1f-0a2b3c4d5e6f`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the sandbox database (default from settings)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of runs to list")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "show the outcomes of one run")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := opts.newLogger(cmd.ErrOrStderr())

	dbPath := opts.Database
	if dbPath == "" {
		dbPath = opts.Settings().Sandbox.Path
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeStore, fmt.Sprintf("failed to open sandbox: %v", err), nil)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing sandbox", "error", closeErr)
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.RunID != "" {
		return showRun(ctx, st, opts.RunID, formatter)
	}

	runs, err := st.ListRuns(ctx, opts.Limit)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeStore, fmt.Sprintf("failed to list runs: %v", err), nil)
	}
	if formatter.JSON() {
		return formatter.Success(runs)
	}
	RenderHistory(formatter.Writer, runs)
	return nil
}

func showRun(ctx context.Context, st *store.Store, runID string, formatter *OutputFormatter) error {
	run, ok, err := st.GetRun(ctx, runID)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeStore, fmt.Sprintf("failed to read run: %v", err), nil)
	}
	if !ok {
		return formatter.fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("run %q not found", runID), nil)
	}

	outcomes, err := st.RunOutcomes(ctx, runID)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeStore, fmt.Sprintf("failed to read outcomes: %v", err), nil)
	}
	if formatter.JSON() {
		return formatter.Success(RunDetail{Run: run, Outcomes: outcomes})
	}
	RenderRunOutcomes(formatter.Writer, run, outcomes)
	return nil
}
