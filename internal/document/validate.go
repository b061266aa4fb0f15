package document

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FieldViolation is one schema violation.
type FieldViolation struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationError reports every schema violation found in a document.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 1 {
		v := e.Violations[0]
		return fmt.Sprintf("document validation failed: %s: %s", v.Path, v.Message)
	}
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.Path + ": " + v.Message
	}
	return fmt.Sprintf("document validation failed with %d violations: %s", len(e.Violations), strings.Join(parts, "; "))
}

// IsValidationError reports whether err is or wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func schemaValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		// Report paths with document keys rather than Go field names.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Validate checks doc against the document schema. It returns a
// *ValidationError listing every violation, or nil.
func Validate(doc *Document) error {
	if doc == nil {
		return &ValidationError{Violations: []FieldViolation{{Path: "", Message: "document is empty"}}}
	}

	err := schemaValidator().Struct(doc)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate document: %w", err)
	}

	violations := make([]FieldViolation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		violations = append(violations, FieldViolation{
			Path:    trimRoot(fe.Namespace()),
			Message: violationMessage(fe),
		})
	}
	return &ValidationError{Violations: violations}
}

// trimRoot drops the leading struct name: "Document.channels[0].slug" -> "channels[0].slug".
func trimRoot(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "len":
		return fmt.Sprintf("must be exactly %s characters long", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
