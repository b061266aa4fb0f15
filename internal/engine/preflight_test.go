package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/configurator/internal/document"
)

func TestPreflight_Clean(t *testing.T) {
	doc := &document.Document{
		Channels:   []document.Channel{{Slug: "us"}, {Slug: "eu"}},
		Warehouses: []document.Warehouse{{Slug: "us"}},
	}
	assert.Empty(t, Preflight(doc))
	assert.NoError(t, CheckDuplicates(doc))
}

func TestPreflight_ReportsEveryDuplicateOnce(t *testing.T) {
	doc := &document.Document{
		Channels: []document.Channel{
			{Slug: "default"}, {Slug: "default"}, {Slug: "default"}, {Slug: "eu"},
		},
		Attributes: []document.Attribute{{Name: "Color"}, {Name: "Size"}, {Name: "Color"}},
		Menus:      []document.Menu{{Name: "default"}, {Name: "default"}},
	}

	assert.Equal(t, []Issue{
		{Section: document.SectionChannels, Identifier: "default"},
		{Section: document.SectionAttributes, Identifier: "Color"},
		{Section: document.SectionMenus, Identifier: "default"},
	}, Preflight(doc))
}

func TestPreflight_NormalizesIdentifiers(t *testing.T) {
	doc := &document.Document{
		Channels:    []document.Channel{{Slug: "default"}, {Slug: " default "}},
		Collections: []document.Collection{{Slug: "cafe\u0301"}, {Slug: "caf\u00e9"}},
	}

	assert.Equal(t, []Issue{
		{Section: document.SectionChannels, Identifier: "default"},
		{Section: document.SectionCollections, Identifier: "caf\u00e9"},
	}, Preflight(doc))
}

func TestPreflight_CaseSensitive(t *testing.T) {
	doc := &document.Document{
		Channels: []document.Channel{{Slug: "Default"}, {Slug: "default"}},
	}
	assert.Empty(t, Preflight(doc))
}

func TestPreflight_NestedCategories(t *testing.T) {
	doc := &document.Document{
		Categories: []document.Category{
			{Slug: "a", Subcategories: []document.Category{
				{Slug: "b", Subcategories: []document.Category{{Slug: "shared"}}},
			}},
			{Slug: "shared"},
		},
	}
	assert.Equal(t, []Issue{{Section: document.SectionCategories, Identifier: "shared"}}, Preflight(doc))
}

func TestPreflight_SkipsEmptyIdentifiers(t *testing.T) {
	doc := &document.Document{
		Warehouses: []document.Warehouse{{Slug: ""}, {Slug: "  "}},
	}
	assert.Empty(t, Preflight(doc))
}

func TestPreflight_DoesNotMutate(t *testing.T) {
	doc := &document.Document{Channels: []document.Channel{{Slug: " us "}, {Slug: "us"}}}
	_ = Preflight(doc)
	assert.Equal(t, " us ", doc.Channels[0].Slug)
}

func TestCheckDuplicates_ListsAll(t *testing.T) {
	doc := &document.Document{
		Channels:   []document.Channel{{Slug: "x"}, {Slug: "x"}},
		Warehouses: []document.Warehouse{{Slug: "y"}, {Slug: "y"}},
	}

	err := CheckDuplicates(doc)
	require.Error(t, err)
	assert.Equal(t, `duplicate identifiers: channels "x", warehouses "y"`, err.Error())
	assert.Equal(t, ErrCodeDuplicateIdentifier, CodeOf(err))
}

func TestPreflight_NilDocument(t *testing.T) {
	assert.Empty(t, Preflight(nil))
}
