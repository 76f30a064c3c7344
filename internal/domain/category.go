package domain

import "time"

// Category is a node in a tenant's category tree. ParentID, when set, refers
// to another category in the same tenant.
type Category struct {
	ID          string
	Name        string
	Description *string
	ParentID    *string
	TenantID    string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// TicketsCount is the number of tickets directly in this category,
	// never including descendants. Populated by list/detail queries.
	TicketsCount int
}

// CategoryNode is a category linked into its tree position.
type CategoryNode struct {
	Category
	Children []*CategoryNode
}

// CategoryOption is a pick-list entry with a breadcrumb-style label.
type CategoryOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// BuildTree links a single tenant's categories into a forest. Nodes without a
// parent become roots; so do nodes whose parent is absent from the input
// (dangling parent ids are tolerated, not treated as an integrity error).
// Sibling order follows input order.
func BuildTree(categories []Category) []*CategoryNode {
	index := make(map[string]*CategoryNode, len(categories))
	nodes := make([]*CategoryNode, 0, len(categories))
	for _, c := range categories {
		node := &CategoryNode{Category: c}
		index[c.ID] = node
		nodes = append(nodes, node)
	}

	var roots []*CategoryNode
	for _, node := range nodes {
		if node.ParentID != nil {
			if parent, ok := index[*node.ParentID]; ok {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}

// FlattenOptions walks the forest depth-first, pre-order, producing one option
// per node. A node's label is the " / "-joined path of ancestor names down to
// the node, so a parent always appears before its descendants.
func FlattenOptions(roots []*CategoryNode) []CategoryOption {
	var options []CategoryOption
	var walk func(node *CategoryNode, prefix string)
	walk = func(node *CategoryNode, prefix string) {
		label := node.Name
		if prefix != "" {
			label = prefix + " / " + node.Name
		}
		options = append(options, CategoryOption{ID: node.ID, Label: label})
		for _, child := range node.Children {
			walk(child, label)
		}
	}
	for _, root := range roots {
		walk(root, "")
	}
	return options
}

// RollupCounts derives subtree-inclusive ticket totals from the per-node
// counts already loaded on the tree. The stored per-node counts are left
// untouched.
func RollupCounts(roots []*CategoryNode) map[string]int {
	totals := make(map[string]int)
	var walk func(node *CategoryNode) int
	walk = func(node *CategoryNode) int {
		total := node.TicketsCount
		for _, child := range node.Children {
			total += walk(child)
		}
		totals[node.ID] = total
		return total
	}
	for _, root := range roots {
		walk(root)
	}
	return totals
}
