package node

import "strings"

// Equal reports structural equality: same type, same name and, for folders,
// pairwise equal children in the same order. Contents, replacements,
// basenames and depth do not take part.
func Equal(first *Node, second *Node) bool {
	if first == nil || second == nil {
		return first == second
	}
	if first.Type != second.Type || first.Name != second.Name {
		return false
	}
	if !first.IsDir() {
		return true
	}
	if len(first.Children) != len(second.Children) {
		return false
	}
	for childIndex := range first.Children {
		if !Equal(first.Children[childIndex], second.Children[childIndex]) {
			return false
		}
	}
	return true
}

// Shape renders the structure of a node as name[child, ...] for diagnostics.
func Shape(n *Node) string {
	if n == nil {
		return "<nil>"
	}
	var builder strings.Builder
	writeShape(&builder, n)
	return builder.String()
}

func writeShape(builder *strings.Builder, n *Node) {
	builder.WriteString(n.Name)
	if !n.IsDir() {
		return
	}
	builder.WriteString("[")
	for childIndex, child := range n.Children {
		if childIndex > 0 {
			builder.WriteString(", ")
		}
		writeShape(builder, child)
	}
	builder.WriteString("]")
}

// Walk visits the node and its descendants depth first in child order.
// Returning false from visit skips the children of that node.
func Walk(root *Node, visit func(current *Node) bool) {
	if root == nil {
		return
	}
	if !visit(root) || !root.IsDir() {
		return
	}
	for _, child := range root.Children {
		Walk(child, visit)
	}
}

// Files returns every file below root in depth-first order.
func Files(root *Node) []*Node {
	var files []*Node
	Walk(root, func(current *Node) bool {
		if !current.IsDir() {
			files = append(files, current)
		}
		return true
	})
	return files
}
