package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slugs(nodes []CategoryNode) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Category.Slug
	}
	return out
}

func TestFlattenCategories_DepthFirst(t *testing.T) {
	roots := []Category{
		{Slug: "a", Subcategories: []Category{
			{Slug: "a1", Subcategories: []Category{{Slug: "a1x"}}},
			{Slug: "a2"},
		}},
		{Slug: "b"},
	}

	nodes := FlattenCategories(roots)

	assert.Equal(t, []string{"a", "a1", "a1x", "a2", "b"}, slugs(nodes))
	assert.Equal(t, "", nodes[0].Parent)
	assert.Equal(t, "a", nodes[1].Parent)
	assert.Equal(t, "a1", nodes[2].Parent)
	assert.Equal(t, 2, nodes[2].Depth)
	assert.Nil(t, nodes[0].Category.Subcategories)
}

func TestFlattenCategories_ExplicitParentWins(t *testing.T) {
	other := "elsewhere"
	nodes := FlattenCategories([]Category{
		{Slug: "a", Subcategories: []Category{{Slug: "b", Parent: &other}}},
	})

	require.Len(t, nodes, 2)
	assert.Equal(t, "elsewhere", nodes[1].Parent)
}

func TestFlattenCategories_DeepTreeDoesNotRecurse(t *testing.T) {
	const depth = 10000
	root := Category{Slug: "n0"}
	cur := &root
	for i := 1; i < depth; i++ {
		cur.Subcategories = []Category{{Slug: "n"}}
		cur = &cur.Subcategories[0]
	}

	nodes := FlattenCategories([]Category{root})
	assert.Len(t, nodes, depth)
	assert.Equal(t, depth-1, nodes[depth-1].Depth)
}

func TestDocument_Identifiers(t *testing.T) {
	doc := &Document{
		Channels:   []Channel{{Slug: "us"}, {Slug: "eu"}},
		Categories: []Category{{Slug: "root", Subcategories: []Category{{Slug: "child"}}}},
		Shop:       &Shop{},
	}

	assert.Equal(t, []string{"us", "eu"}, doc.Identifiers(SectionChannels))
	assert.Equal(t, []string{"root", "child"}, doc.Identifiers(SectionCategories))
	assert.Equal(t, []string{ShopIdentifier}, doc.Identifiers(SectionShop))
	assert.Empty(t, doc.Identifiers(SectionMenus))
}
