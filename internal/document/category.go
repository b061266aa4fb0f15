package document

// CategoryNode is a category with its effective parent slug. Parent is
// empty for a root; for a nested subcategory it is the slug of the
// enclosing category unless the node declares its own parent.
type CategoryNode struct {
	Category Category
	Parent   string
	Depth    int
}

// FlattenCategories walks the nested category tree depth-first in document
// order with an explicit stack. Subcategories are dropped from the returned
// Category values; their nodes follow their parent.
func FlattenCategories(roots []Category) []CategoryNode {
	type frame struct {
		cat    Category
		parent string
		depth  int
	}

	stack := make([]frame, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{cat: roots[i]})
	}

	var out []CategoryNode
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		parent := top.parent
		if top.cat.Parent != nil {
			parent = *top.cat.Parent
		}
		children := top.cat.Subcategories
		node := top.cat
		node.Subcategories = nil
		out = append(out, CategoryNode{Category: node, Parent: parent, Depth: top.depth})

		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{cat: children[i], parent: top.cat.Slug, depth: top.depth + 1})
		}
	}
	return out
}

// Identifier returns the slug of the wrapped category.
func (n CategoryNode) Identifier() string { return n.Category.Slug }
