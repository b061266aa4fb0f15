package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/configurator/internal/document"
	"github.com/roach88/configurator/internal/remote"
)

// ErrorCode categorizes reconciliation errors.
type ErrorCode string

const (
	// ErrCodeReferenceNotFound indicates an identifier that neither the
	// remote nor the current run knows.
	ErrCodeReferenceNotFound ErrorCode = "REFERENCE_NOT_FOUND"

	// ErrCodeRemoteOperation indicates a list, create or update call failed.
	ErrCodeRemoteOperation ErrorCode = "REMOTE_OPERATION"

	// ErrCodeConfiguration indicates a record the engine cannot turn into a
	// payload, e.g. an attribute without inputType.
	ErrCodeConfiguration ErrorCode = "CONFIGURATION"

	// ErrCodeDuplicateIdentifier indicates repeated identifiers in a section.
	ErrCodeDuplicateIdentifier ErrorCode = "DUPLICATE_IDENTIFIER"
)

// ReferenceNotFoundError is returned when a reference field names an
// identifier that is absent from its section after the bulk fetch.
//
// Fatal for the entity holding the reference, not for the run.
type ReferenceNotFoundError struct {
	Section    document.Section
	Identifier string
}

func (e *ReferenceNotFoundError) Error() string {
	return fmt.Sprintf("reference %q not found in section %q", e.Identifier, e.Section)
}

// Code returns ErrCodeReferenceNotFound.
func (e *ReferenceNotFoundError) Code() ErrorCode { return ErrCodeReferenceNotFound }

// RemoteOperationError wraps a failed transport call for one entity.
type RemoteOperationError struct {
	Section    document.Section
	Identifier string

	// Op is "list", "create" or "update".
	Op string

	Err error
}

func (e *RemoteOperationError) Error() string {
	if e.Identifier == "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Section, e.Err)
	}
	return fmt.Sprintf("%s %s %q: %v", e.Op, e.Section, e.Identifier, e.Err)
}

func (e *RemoteOperationError) Unwrap() error { return e.Err }

// Code returns ErrCodeRemoteOperation.
func (e *RemoteOperationError) Code() ErrorCode { return ErrCodeRemoteOperation }

// RemoteCode returns the machine-readable code reported by the remote, if
// any.
func (e *RemoteOperationError) RemoteCode() string {
	if re, ok := remote.AsError(e.Err); ok {
		return re.Code
	}
	return ""
}

// RemoteField returns the payload field the remote rejected, if any.
func (e *RemoteOperationError) RemoteField() string {
	if re, ok := remote.AsError(e.Err); ok {
		return re.Field
	}
	return ""
}

// ConfigurationError is returned when a record cannot be turned into a
// payload.
type ConfigurationError struct {
	Section    document.Section
	Identifier string
	Field      string
	Err        error
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s %q: %v", e.Section, e.Identifier, e.Err)
	}
	return fmt.Sprintf("%s %q: %s: %v", e.Section, e.Identifier, e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// Code returns ErrCodeConfiguration.
func (e *ConfigurationError) Code() ErrorCode { return ErrCodeConfiguration }

// DuplicateIdentifierError lists every repeated identifier found by
// preflight.
type DuplicateIdentifierError struct {
	Issues []Issue
}

func (e *DuplicateIdentifierError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = fmt.Sprintf("%s %q", issue.Section, issue.Identifier)
	}
	return "duplicate identifiers: " + strings.Join(parts, ", ")
}

// Code returns ErrCodeDuplicateIdentifier.
func (e *DuplicateIdentifierError) Code() ErrorCode { return ErrCodeDuplicateIdentifier }

// CodeOf returns the ErrorCode of the first engine error in err's chain, or
// "" when there is none.
func CodeOf(err error) ErrorCode {
	var coded interface{ Code() ErrorCode }
	if errors.As(err, &coded) {
		return coded.Code()
	}
	return ""
}

// IsReferenceNotFound returns true if err wraps a ReferenceNotFoundError.
func IsReferenceNotFound(err error) bool {
	var target *ReferenceNotFoundError
	return errors.As(err, &target)
}

// IsRemoteOperation returns true if err wraps a RemoteOperationError.
func IsRemoteOperation(err error) bool {
	var target *RemoteOperationError
	return errors.As(err, &target)
}

// IsConfiguration returns true if err wraps a ConfigurationError.
func IsConfiguration(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

// IsDuplicateIdentifier returns true if err wraps a DuplicateIdentifierError.
func IsDuplicateIdentifier(err error) bool {
	var target *DuplicateIdentifierError
	return errors.As(err, &target)
}
