package document

import (
	"errors"
	"fmt"
	"strings"
)

// Attribute input types.
const (
	InputDropdown    = "DROPDOWN"
	InputMultiselect = "MULTISELECT"
	InputSwatch      = "SWATCH"
	InputReference   = "REFERENCE"
	InputNumeric     = "NUMERIC"
	InputPlainText   = "PLAIN_TEXT"
	InputRichText    = "RICH_TEXT"
	InputBoolean     = "BOOLEAN"
	InputDate        = "DATE"
	InputDateTime    = "DATE_TIME"
	InputFile        = "FILE"
)

// Reference attribute entity types.
const (
	EntityPage           = "PAGE"
	EntityProduct        = "PRODUCT"
	EntityProductVariant = "PRODUCT_VARIANT"
)

// Attribute is the document form of a typed attribute. The inputType field
// is the discriminant; Definition turns the record into a typed variant.
type Attribute struct {
	Name       string           `yaml:"name" json:"name" validate:"required"`
	Slug       *string          `yaml:"slug,omitempty" json:"slug,omitempty"`
	Type       *string          `yaml:"type,omitempty" json:"type,omitempty"`
	InputType  string           `yaml:"inputType,omitempty" json:"inputType,omitempty"`
	Values     []AttributeValue `yaml:"values,omitempty" json:"values,omitempty" validate:"omitempty,dive"`
	EntityType *string          `yaml:"entityType,omitempty" json:"entityType,omitempty"`
	Unit       *string          `yaml:"unit,omitempty" json:"unit,omitempty"`
}

// Identifier returns the name.
func (a Attribute) Identifier() string { return a.Name }

// AttributeValue is one choice of a choice attribute.
type AttributeValue struct {
	Name string `yaml:"name" json:"name" validate:"required"`
}

// AttributeDefinition is the typed variant of an attribute.
// Implemented by ChoiceAttribute, ReferenceAttribute, NumericAttribute and
// ScalarAttribute.
type AttributeDefinition interface {
	InputType() string
	attributeDefinition()
}

// ChoiceAttribute is a DROPDOWN, MULTISELECT or SWATCH attribute.
type ChoiceAttribute struct {
	Input  string
	Values []string
}

// ReferenceAttribute points at pages, products or variants.
type ReferenceAttribute struct {
	EntityType string
}

// NumericAttribute holds a number with an optional unit.
type NumericAttribute struct {
	Unit *string
}

// ScalarAttribute is any input type without type-specific fields.
type ScalarAttribute struct {
	Input string
}

func (a ChoiceAttribute) InputType() string    { return a.Input }
func (a ReferenceAttribute) InputType() string { return InputReference }
func (a NumericAttribute) InputType() string   { return InputNumeric }
func (a ScalarAttribute) InputType() string    { return a.Input }

func (ChoiceAttribute) attributeDefinition()    {}
func (ReferenceAttribute) attributeDefinition() {}
func (NumericAttribute) attributeDefinition()   {}
func (ScalarAttribute) attributeDefinition()    {}

// Errors returned by Definition. Each wraps into a *FieldError naming the
// offending field.
var (
	ErrMissingInputType  = errors.New("inputType is required")
	ErrUnknownInputType  = errors.New("unknown inputType")
	ErrMissingValues     = errors.New("values are required for choice attributes")
	ErrMissingEntityType = errors.New("entityType is required for reference attributes")
	ErrUnknownEntityType = errors.New("unknown entityType")
)

// FieldError ties an error to a field of a record.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Definition decodes the attribute into its typed variant.
// Input and entity types are matched case-insensitively.
func (a Attribute) Definition() (AttributeDefinition, error) {
	input := strings.ToUpper(strings.TrimSpace(a.InputType))
	switch input {
	case "":
		return nil, &FieldError{Field: "inputType", Err: ErrMissingInputType}
	case InputDropdown, InputMultiselect, InputSwatch:
		if len(a.Values) == 0 {
			return nil, &FieldError{Field: "values", Err: ErrMissingValues}
		}
		values := make([]string, len(a.Values))
		for i, v := range a.Values {
			values[i] = v.Name
		}
		return ChoiceAttribute{Input: input, Values: values}, nil
	case InputReference:
		if a.EntityType == nil || strings.TrimSpace(*a.EntityType) == "" {
			return nil, &FieldError{Field: "entityType", Err: ErrMissingEntityType}
		}
		entity := strings.ToUpper(strings.TrimSpace(*a.EntityType))
		switch entity {
		case EntityPage, EntityProduct, EntityProductVariant:
		default:
			return nil, &FieldError{Field: "entityType", Err: fmt.Errorf("%w %q", ErrUnknownEntityType, *a.EntityType)}
		}
		return ReferenceAttribute{EntityType: entity}, nil
	case InputNumeric:
		return NumericAttribute{Unit: a.Unit}, nil
	case InputPlainText, InputRichText, InputBoolean, InputDate, InputDateTime, InputFile:
		return ScalarAttribute{Input: input}, nil
	default:
		return nil, &FieldError{Field: "inputType", Err: fmt.Errorf("%w %q", ErrUnknownInputType, a.InputType)}
	}
}
