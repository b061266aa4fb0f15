package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/configurator/internal/engine"
	"github.com/roach88/configurator/internal/ids"
	"github.com/roach88/configurator/internal/store"
	"github.com/roach88/configurator/internal/watch"
)

// DeployOptions holds flags for the deploy command.
type DeployOptions struct {
	*RootOptions
	Database    string
	Timeout     time.Duration
	Parallelism int
	Watch       bool

	// RunIDs allows overriding the run ID generator (for testing).
	// If nil, defaults to UUIDv7.
	RunIDs ids.Generator

	// RemoteIDs allows overriding the sandbox ID generator (for testing).
	RemoteIDs ids.Generator
}

// NewDeployCommand creates the deploy command.
func NewDeployCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DeployOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "deploy <document>",
		Short: "Reconcile a document against the sandbox remote",
		Long: `Reconcile a configuration document against the SQLite sandbox remote.

Every entity is created, updated or left unchanged; a failed entity does not
stop the run. The run is recorded in the sandbox history.

Exit codes:
  0 - Every entity reconciled
  1 - Invalid document, duplicate identifiers, or failed entities
  2 - Command error (missing document, bad settings, database error)

Examples:
  configurator deploy catalog.yaml
  configurator deploy --db ./sandbox.db --parallelism 4 catalog.yaml
  configurator deploy --watch catalog.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeploy(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the sandbox database (default from settings)")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "bound each run (0 uses the settings value)")
	cmd.Flags().IntVar(&opts.Parallelism, "parallelism", 0, "entities of one section synced at once (0 uses the settings value)")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "redeploy whenever the document changes")

	return cmd
}

// sandbox resolves the database path, timeout and parallelism from flags
// over settings.
func (o *DeployOptions) sandbox() (path string, timeout time.Duration, parallelism int) {
	cfg := o.Settings()
	path, timeout, parallelism = o.Database, o.Timeout, o.Parallelism
	if path == "" {
		path = cfg.Sandbox.Path
	}
	if timeout <= 0 {
		timeout = cfg.Engine.Timeout
	}
	if parallelism <= 0 {
		parallelism = cfg.Engine.Parallelism
	}
	return path, timeout, parallelism
}

func runDeploy(opts *DeployOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	logger := opts.newLogger(cmd.ErrOrStderr())

	dbPath, timeout, parallelism := opts.sandbox()
	logger.Debug("opening sandbox", "path", dbPath)
	st, err := store.Open(dbPath, store.WithIDGenerator(opts.RemoteIDs))
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeStore, fmt.Sprintf("failed to open sandbox: %v", err), nil)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing sandbox", "error", closeErr)
		}
	}()

	eng := engine.New(st,
		engine.WithLogger(logger),
		engine.WithRecorder(st),
		engine.WithParallelism(parallelism),
		engine.WithIDGenerator(opts.RunIDs),
	)

	// Use command's context if available (for testing), otherwise create one
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	deploy := func(ctx context.Context) error {
		return deployOnce(ctx, eng, path, timeout, formatter)
	}

	if !opts.Watch {
		return deploy(ctx)
	}
	return watchDeploy(ctx, path, logger, opts.Settings().Watch.Debounce, deploy)
}

// deployOnce loads the document and runs one reconciliation.
func deployOnce(ctx context.Context, eng *engine.Engine, path string, timeout time.Duration, formatter *OutputFormatter) error {
	doc, err := LoadDocument(path)
	if err != nil {
		return loadFailure(formatter, err)
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
	return reportResult(formatter, report, func() { RenderReport(formatter.Writer, report) }, report)
}

// runFailure reports an error that stopped a run before any remote call.
func runFailure(formatter *OutputFormatter, err error) error {
	var dup *engine.DuplicateIdentifierError
	if errors.As(err, &dup) {
		return formatter.fail(ExitFailure, ErrCodeDuplicate, err.Error(), dup.Issues)
	}
	return formatter.fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
}

// reportResult writes a finished run as text or JSON and maps failed
// entities to exit code 1.
func reportResult(formatter *OutputFormatter, report *engine.Report, renderText func(), data any) error {
	summary := report.Summary()
	failed := summary.Failed > 0

	if formatter.JSON() {
		resp := CLIResponse{Status: "ok", Data: data, RunID: report.RunID}
		if failed {
			resp.Status = "error"
			resp.Error = &CLIError{
				Code:    ErrCodeRunFailed,
				Message: fmt.Sprintf("%d of %d entities failed", summary.Failed, summary.Total),
			}
		}
		if err := formatter.Response(resp); err != nil {
			return err
		}
	} else {
		renderText()
	}

	if failed {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d entities failed", summary.Failed, summary.Total))
	}
	return nil
}

// watchDeploy deploys once, then again after every debounced change of the
// document until ctx is cancelled. Failed deploys are logged and do not
// stop the watch.
func watchDeploy(ctx context.Context, path string, logger *slog.Logger, debounce time.Duration, deploy func(context.Context) error) error {
	w, err := watch.New(path, debounce, logger)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to watch document", err)
	}
	defer w.Close()

	redeploy := func(ctx context.Context) {
		if err := deploy(ctx); err != nil {
			logger.Warn("deploy failed", "error", err)
		}
	}

	redeploy(ctx)
	logger.Info("watching for changes", "path", path, "debounce", debounce)
	return w.Run(ctx, redeploy)
}
