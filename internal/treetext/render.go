// Package treetext converts hierarchies to and from indentation-coded ASCII
// tree diagrams.
package treetext

import (
	"strings"

	"github.com/temirov/mdtree/internal/node"
)

const (
	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "

	// levelWidth is the number of runes each depth level occupies.
	levelWidth = 4

	linkListMarker  = "- "
	linkListPadding = "    "
)

// Render returns the diagram lines for the children of root. The root itself
// is not printed.
func Render(root *node.Node) []string {
	if root == nil {
		return nil
	}
	var lines []string
	renderChildren(&lines, root, "")
	return lines
}

// treeNodeLinePrefix returns the prefix of the node's own line and the prefix
// carried to its children.
func treeNodeLinePrefix(prefix string, isLast bool) (string, string) {
	connector := treeBranchConnector
	childPrefix := prefix + treeBranchPadding
	if isLast {
		connector = treeLastConnector
		childPrefix = prefix + treeLastPadding
	}
	return prefix + connector, childPrefix
}

func renderChildren(lines *[]string, folder *node.Node, prefix string) {
	for index, child := range folder.Children {
		if child == nil {
			continue
		}
		linePrefix, childPrefix := treeNodeLinePrefix(prefix, index == len(folder.Children)-1)
		*lines = append(*lines, linePrefix+child.Name)
		if child.IsDir() {
			renderChildren(lines, child, childPrefix)
		}
	}
}

// RenderLinks returns a nested Markdown list mirroring the diagram. Files
// link to the anchor of their section, folders are plain code spans.
func RenderLinks(root *node.Node) []string {
	if root == nil {
		return nil
	}
	var lines []string
	renderLinkChildren(&lines, root, "")
	return lines
}

func renderLinkChildren(lines *[]string, folder *node.Node, prefix string) {
	for _, child := range folder.Children {
		if child == nil {
			continue
		}
		*lines = append(*lines, prefix+linkListMarker+linkText(child))
		if child.IsDir() {
			renderLinkChildren(lines, child, prefix+linkListPadding)
		}
	}
}

func linkText(current *node.Node) string {
	label := "`" + current.Name + "`"
	if current.IsDir() {
		return label
	}
	return "[" + label + "](#" + Anchor(current.Path()) + ")"
}

// Anchor derives the Markdown anchor of a path: slashes and dots removed,
// lower-cased.
func Anchor(path string) string {
	anchor := strings.ReplaceAll(path, "/", "")
	anchor = strings.ReplaceAll(anchor, ".", "")
	return strings.ToLower(anchor)
}
