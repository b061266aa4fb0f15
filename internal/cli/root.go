package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/configurator/internal/settings"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Config  string // settings file; falls back to $APP_CONFIG_FILE

	settings *settings.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the configurator CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "configurator",
		Short: "Declarative store configuration",
		Long: `Reconcile a declarative store configuration document against a remote.

Every entity in the document is created, updated or left unchanged so that
the remote matches the document. Runs are idempotent: applying the same
document twice reports every entity unchanged the second time.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			cfg, err := settings.Load(settings.Resolve(opts.Config))
			if err != nil {
				return WrapExitError(ExitCommandError, ErrCodeSettings+": invalid settings", err)
			}
			opts.settings = cfg
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "settings file (default $"+settings.EnvConfigFile+")")

	// Add subcommands
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewDeployCommand(opts))
	cmd.AddCommand(NewPlanCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// Settings returns the loaded settings, or the defaults when the command
// runs without the root command.
func (o *RootOptions) Settings() *settings.Config {
	if o.settings == nil {
		return settings.NewDefaultConfig()
	}
	return o.settings
}

// newLogger builds the text logger for diagnostics on w. --verbose forces
// debug level; otherwise the settings level applies.
func (o *RootOptions) newLogger(w io.Writer) *slog.Logger {
	level := o.Settings().Log.SlogLevel()
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// formatter returns the output formatter for cmd. Verbose logs go to
// stderr to avoid corrupting JSON.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
