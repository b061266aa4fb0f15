package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/configurator/internal/engine"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid      bool                  `json:"valid"`
	Duplicates []engine.Issue        `json:"duplicates,omitempty"`
	Warnings   []engine.CycleWarning `json:"warnings,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <document>",
		Short: "Validate a document without contacting the remote",
		Long: `Validate a configuration document without contacting the remote.

Decodes the document (YAML, JSON, TOML or CUE by extension), checks it
against the schema, rejects duplicate identifiers and warns about category
parent cycles. Cycles are warnings: a deploy fails only the categories on
the cycle.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	doc, err := LoadDocument(path)
	if err != nil {
		return loadFailure(formatter, err)
	}
	formatter.VerboseLog("Loaded %s", path)

	result := ValidationResult{
		Duplicates: engine.Preflight(doc),
		Warnings:   engine.AnalyzeCategoryCycles(doc),
	}
	result.Valid = len(result.Duplicates) == 0

	if formatter.JSON() {
		if result.Valid {
			return formatter.Success(result)
		}
		if err := formatter.Response(CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    ErrCodeDuplicate,
				Message: fmt.Sprintf("%d duplicate identifier(s)", len(result.Duplicates)),
			},
		}); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d duplicate identifier(s)", len(result.Duplicates)))
	}

	w := formatter.Writer
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "⚠ %s\n", warning.Message)
	}
	if !result.Valid {
		fmt.Fprintln(w, "✗ Validation failed")
		fmt.Fprintln(w)
		for _, issue := range result.Duplicates {
			fmt.Fprintf(w, "  %s: duplicate identifier %q in %s\n", ErrCodeDuplicate, issue.Identifier, issue.Section)
		}
		// Validation failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d duplicate identifier(s)", len(result.Duplicates)))
	}

	fmt.Fprintln(w, "✓ Document valid")
	return nil
}
