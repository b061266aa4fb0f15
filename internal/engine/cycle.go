package engine

import (
	"fmt"
	"strings"

	"github.com/roach88/configurator/internal/document"
)

// CycleWarning describes categories whose parent chain loops back on
// itself.
//
// Cycles are warnings, not errors: a run still processes the nodes and
// fails each of them with a ReferenceNotFoundError.
type CycleWarning struct {
	Path    []string `json:"path"`    // ["a", "b", "a"]
	Message string   `json:"message"` // Human-readable description
	Level   string   `json:"level"`   // "warning"
}

// AnalyzeCategoryCycles reports every parent cycle in the category tree of
// doc.
//
// The algorithm:
//  1. Build a child → parent graph over categories declared in doc
//  2. Use Tarjan's algorithm to find strongly connected components
//  3. Report each SCC with size > 1 or a self-parent as a cycle
//
// Nodes are visited in document order so the result is deterministic. A
// tree without cycles returns an empty list.
func AnalyzeCategoryCycles(doc *document.Document) []CycleWarning {
	if doc == nil || len(doc.Categories) == 0 {
		return []CycleWarning{}
	}

	graph, order := buildParentGraph(document.FlattenCategories(doc.Categories))
	sccs := tarjanSCC(graph, order)

	warnings := []CycleWarning{}
	for _, scc := range sccs {
		if len(scc) > 1 || (len(scc) == 1 && hasSelfLoop(scc[0], graph)) {
			warnings = append(warnings, cycleSCCToWarning(scc, graph, order))
		}
	}
	return warnings
}

// parentGraph maps a category slug to the parents it declares. Only
// parents declared in the same document are edges.
type parentGraph map[string][]string

func buildParentGraph(nodes []document.CategoryNode) (parentGraph, []string) {
	declared := make(map[string]bool, len(nodes))
	order := make([]string, 0, len(nodes))
	for _, n := range nodes {
		slug := n.Category.Slug
		if !declared[slug] {
			declared[slug] = true
			order = append(order, slug)
		}
	}

	graph := make(parentGraph, len(order))
	for _, n := range nodes {
		slug := n.Category.Slug
		if graph[slug] == nil {
			graph[slug] = []string{}
		}
		if n.Parent != "" && declared[n.Parent] {
			graph[slug] = append(graph[slug], n.Parent)
		}
	}
	return graph, order
}

func hasSelfLoop(node string, graph parentGraph) bool {
	for _, neighbor := range graph[node] {
		if neighbor == node {
			return true
		}
	}
	return false
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm,
// starting from nodes in the given order.
func tarjanSCC(graph parentGraph, order []string) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, node := range order {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}
	return sccs
}

// cycleSCCToWarning walks parent edges from the SCC member declared first
// in the document until it returns to it.
func cycleSCCToWarning(scc []string, graph parentGraph, order []string) CycleWarning {
	members := make(map[string]bool, len(scc))
	for _, n := range scc {
		members[n] = true
	}
	start := scc[0]
	for _, n := range order {
		if members[n] {
			start = n
			break
		}
	}

	path := []string{start}
	visited := map[string]bool{start: true}
	current := start
	for {
		var next string
		for _, parent := range graph[current] {
			if members[parent] && (!visited[parent] || parent == start) {
				next = parent
				break
			}
		}
		if next == "" {
			break
		}
		path = append(path, next)
		if next == start {
			break
		}
		visited[next] = true
		current = next
	}

	if len(scc) == 1 {
		return CycleWarning{
			Path:    path,
			Message: fmt.Sprintf("Category %q is its own parent", start),
			Level:   "warning",
		}
	}
	return CycleWarning{
		Path:    path,
		Message: fmt.Sprintf("Category parent cycle detected: %s", strings.Join(path, " → ")),
		Level:   "warning",
	}
}
