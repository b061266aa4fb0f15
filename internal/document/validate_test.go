package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestValidate_Valid(t *testing.T) {
	doc := &Document{
		Channels: []Channel{{Slug: "us", CurrencyCode: strPtr("USD"), DefaultCountry: strPtr("US")}},
	}
	assert.NoError(t, Validate(doc))
}

func TestValidate_ReportsEveryViolationWithPaths(t *testing.T) {
	doc := &Document{
		Channels:   []Channel{{Slug: ""}, {Slug: "eu", CurrencyCode: strPtr("EURO")}},
		Warehouses: []Warehouse{{Slug: "main", Email: strPtr("not-an-email")}},
		Categories: []Category{{Name: "Root", Slug: "root", Subcategories: []Category{{Name: "Child"}}}},
	}

	err := Validate(doc)
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	paths := make(map[string]string)
	for _, v := range ve.Violations {
		paths[v.Path] = v.Message
	}
	assert.Equal(t, "is required", paths["channels[0].slug"])
	assert.Equal(t, "must be exactly 3 characters long", paths["channels[1].currencyCode"])
	assert.Equal(t, "must be a valid email address", paths["warehouses[0].email"])
	assert.Equal(t, "is required", paths["categories[0].subcategories[0].slug"])
	assert.Len(t, ve.Violations, 4)
}

func TestValidate_Nil(t *testing.T) {
	err := Validate(nil)
	assert.True(t, IsValidationError(err))
}

func TestValidationError_Message(t *testing.T) {
	single := &ValidationError{Violations: []FieldViolation{{Path: "channels[0].slug", Message: "is required"}}}
	assert.Equal(t, "document validation failed: channels[0].slug: is required", single.Error())

	multi := &ValidationError{Violations: []FieldViolation{
		{Path: "a", Message: "x"},
		{Path: "b", Message: "y"},
	}}
	assert.Equal(t, "document validation failed with 2 violations: a: x; b: y", multi.Error())
}

func TestValidate_QuotedNumbersKeepBounds(t *testing.T) {
	doc, err := DecodeYAML([]byte(`
products:
  - {name: Tee, slug: tee, productType: Shirt, category: apparel, weight: "-1", rating: "6"}
`))
	require.NoError(t, err)

	var ve *ValidationError
	require.ErrorAs(t, Validate(doc), &ve)
	paths := make(map[string]bool)
	for _, v := range ve.Violations {
		paths[v.Path] = true
	}
	assert.True(t, paths["products[0].weight"])
	assert.True(t, paths["products[0].rating"])
}
