package engine

import (
	"github.com/roach88/configurator/internal/document"
)

// References lists, per section, the sections its reference fields point
// into. The planning order honors every edge: a referenced section is
// always synchronized earlier, except for the categories self-reference,
// which is ordered within the section.
var References = map[document.Section][]document.Section{
	document.SectionShippingZones: {document.SectionWarehouses, document.SectionChannels},
	document.SectionProductTypes:  {document.SectionTaxClasses, document.SectionAttributes},
	document.SectionPageTypes:     {document.SectionAttributes},
	document.SectionCategories:    {document.SectionCategories},
	document.SectionCollections:   {document.SectionChannels},
	document.SectionProducts: {
		document.SectionProductTypes,
		document.SectionCategories,
		document.SectionTaxClasses,
		document.SectionCollections,
		document.SectionChannels,
		document.SectionAttributes,
	},
	document.SectionModels: {document.SectionPageTypes, document.SectionAttributes},
	document.SectionMenus:  {document.SectionCategories, document.SectionCollections, document.SectionModels},
}

// Step is one entity of a plan.
type Step struct {
	Section document.Section
	Record  document.Record
}

// Identifier returns the identifier of the planned record.
func (s Step) Identifier() string {
	return s.Record.Identifier()
}

// Order returns the fixed section order of a run.
func Order() []document.Section {
	out := make([]document.Section, len(document.Sections))
	copy(out, document.Sections)
	return out
}

// SelfReferencing reports whether entities of section may reference other
// entities of the same section, which rules out syncing them in parallel.
func SelfReferencing(section document.Section) bool {
	for _, target := range References[section] {
		if target == section {
			return true
		}
	}
	return false
}

// Plan returns every entity of doc in synchronization order.
//
// Sections follow Order. Within a section document order is kept, except
// for categories: the nested tree is flattened and every node is emitted
// after its parent (see PlanCategories). Category steps carry a
// document.CategoryNode as their record.
func Plan(doc *document.Document) []Step {
	var steps []Step
	for _, section := range Order() {
		if section == document.SectionCategories {
			if doc == nil {
				continue
			}
			for _, node := range PlanCategories(doc.Categories) {
				steps = append(steps, Step{Section: section, Record: node})
			}
			continue
		}
		for _, record := range doc.Records(section) {
			steps = append(steps, Step{Section: section, Record: record})
		}
	}
	return steps
}

// PlanCategories orders the category tree parent before child.
//
// A node is a root when it has no parent or when its parent is not declared
// in the document (it must then already exist on the remote). Starting from
// the roots in document order, children are visited depth-first with an
// explicit stack, also in document order. Nodes never reached from a root
// sit on a parent cycle; they are appended in document order and fail at
// resolution time.
func PlanCategories(roots []document.Category) []document.CategoryNode {
	nodes := document.FlattenCategories(roots)

	declared := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		declared[n.Category.Slug] = true
	}

	children := make(map[string][]int)
	var rootIdx []int
	for i, n := range nodes {
		if n.Parent == "" || !declared[n.Parent] {
			rootIdx = append(rootIdx, i)
			continue
		}
		children[n.Parent] = append(children[n.Parent], i)
	}

	out := make([]document.CategoryNode, 0, len(nodes))
	visited := make([]bool, len(nodes))
	expanded := make(map[string]bool)

	stack := make([]int, 0, len(nodes))
	for i := len(rootIdx) - 1; i >= 0; i-- {
		stack = append(stack, rootIdx[i])
	}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[i] {
			continue
		}
		visited[i] = true
		out = append(out, nodes[i])

		slug := nodes[i].Category.Slug
		if expanded[slug] {
			continue
		}
		expanded[slug] = true
		kids := children[slug]
		for k := len(kids) - 1; k >= 0; k-- {
			stack = append(stack, kids[k])
		}
	}

	for i, n := range nodes {
		if !visited[i] {
			out = append(out, n)
		}
	}
	return out
}
