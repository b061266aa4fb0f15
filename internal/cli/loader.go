package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/configurator/internal/document"
)

// Error codes for CLI responses.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeNotFound    = "E002" // Path not found
	ErrCodeParseFailed = "E003" // Document could not be decoded
	ErrCodeInvalid     = "E004" // Schema violations
	ErrCodeDuplicate   = "E005" // Duplicate identifiers
	ErrCodeSettings    = "E006" // Settings file invalid
	ErrCodeStore       = "E007" // Sandbox database error
	ErrCodeRunFailed   = "E008" // One or more entities failed
	ErrCodeTestFailed  = "E009" // One or more scenarios failed
)

// LoadError represents an error that occurred while loading a document.
type LoadError struct {
	Code    string
	Message string

	// Violations is set for ErrCodeInvalid.
	Violations []document.FieldViolation
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadDocument loads and schema-validates the document at path.
// Every failure is a *LoadError.
func LoadDocument(path string) (*document.Document, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("document not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing document: %v", err)}
	}
	if info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a file: %s", path)}
	}

	doc, err := document.FileSource{Path: path}.Load()
	if err == nil {
		return doc, nil
	}

	var ve *document.ValidationError
	if errors.As(err, &ve) {
		return nil, &LoadError{
			Code:       ErrCodeInvalid,
			Message:    fmt.Sprintf("document has %d schema violation(s)", len(ve.Violations)),
			Violations: ve.Violations,
		}
	}
	return nil, &LoadError{Code: ErrCodeParseFailed, Message: err.Error()}
}

// loadFailure reports a document load error. Schema violations are
// validation failures (exit 1); everything else is a command error (exit 2).
func loadFailure(f *OutputFormatter, err error) error {
	var le *LoadError
	if !errors.As(err, &le) {
		return f.fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil)
	}
	if le.Code == ErrCodeInvalid {
		if !f.JSON() {
			fmt.Fprintln(f.Writer, "✗ Document is invalid")
			fmt.Fprintln(f.Writer)
			for _, v := range le.Violations {
				fmt.Fprintf(f.Writer, "  %s: %s\n", v.Path, v.Message)
			}
			return NewExitError(ExitFailure, le.Error())
		}
		_ = f.Error(le.Code, le.Message, le.Violations)
		return NewExitError(ExitFailure, le.Error())
	}
	return f.fail(ExitCommandError, le.Code, le.Message, nil)
}
