package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/configurator/internal/engine"
	"github.com/roach88/configurator/internal/remote"
	"github.com/roach88/configurator/internal/store"
)

// PlanResult is the JSON form of a dry run.
type PlanResult struct {
	Report    *engine.Report    `json:"report"`
	Mutations []remote.Mutation `json:"mutations"`
}

// NewPlanCommand creates the plan command.
func NewPlanCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DeployOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "plan <document>",
		Short: "Show what deploy would change without writing",
		Long: `Reconcile a document against the sandbox remote in dry-run mode.

Reads go to the sandbox; creates and updates are recorded and printed
instead of sent. The run is not added to the history.

Examples:
  configurator plan catalog.yaml
  configurator plan --format json catalog.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the sandbox database (default from settings)")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "bound the run (0 uses the settings value)")

	return cmd
}

func runPlan(opts *DeployOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := opts.newLogger(cmd.ErrOrStderr())

	doc, err := LoadDocument(path)
	if err != nil {
		return loadFailure(formatter, err)
	}

	dbPath, timeout, _ := opts.sandbox()
	st, err := store.Open(dbPath)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeStore, fmt.Sprintf("failed to open sandbox: %v", err), nil)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing sandbox", "error", closeErr)
		}
	}()

	dry := remote.NewDryRun(st)
	// Sequential so planned creates keep document order.
	eng := engine.New(dry,
		engine.WithLogger(logger),
		engine.WithIDGenerator(opts.RunIDs),
	)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	report, err := eng.Run(ctx, doc)
	if err != nil {
		return runFailure(formatter, err)
	}

	planned := dry.Planned()
	return reportResult(formatter, report,
		func() { RenderPlan(formatter.Writer, report, planned) },
		PlanResult{Report: report, Mutations: planned},
	)
}
