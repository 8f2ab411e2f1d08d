// Package node defines the file/folder hierarchy shared by the traverser,
// the tree text codec and the document binder.
package node

import (
	"strings"
)

const (
	// TypeFile marks a leaf node.
	TypeFile = "file"
	// TypeFolder marks a branch node.
	TypeFolder = "folder"

	pathSeparator   = "/"
	suffixSeparator = "."
)

// Node is either a file or a folder, discriminated by Type.
type Node struct {
	Type string
	// Name is the node's own label, never a full path.
	Name string
	// Basename is the canonical path of the parent folder, empty at root level.
	Basename string
	// Children is only used by folders; order is significant.
	Children []*Node
	// Contents is only used by files; nil until bound.
	Contents []string
	// Replacements maps substitution keys to the literal token found in the
	// original text; nil until bound.
	Replacements map[string]string
	// Depth is transient traversal state and not part of identity.
	Depth int
}

// NewFile returns an unbound file node.
func NewFile(name string) *Node {
	return &Node{Type: TypeFile, Name: name}
}

// NewFolder returns a folder node holding the given children in order.
func NewFolder(name string, children ...*Node) *Node {
	folder := &Node{Type: TypeFolder, Name: name}
	for _, child := range children {
		folder.Append(child)
	}
	return folder
}

// IsDir reports whether the node is a folder.
func (n *Node) IsDir() bool {
	return n != nil && n.Type == TypeFolder
}

// Path returns the canonical path of the node.
func (n *Node) Path() string {
	return JoinPath(n.Basename, n.Name)
}

// JoinPath joins a parent path and a name the way canonical paths are built.
func JoinPath(basename string, name string) string {
	if basename == "" {
		return name
	}
	return basename + pathSeparator + name
}

// Append adds child as the last child of the folder and re-bases the
// child's subtree so every Basename matches its parent's canonical path.
func (n *Node) Append(child *Node) {
	if child == nil {
		return
	}
	n.Children = append(n.Children, child)
	rebase(child, n.Path())
}

func rebase(child *Node, basename string) {
	child.Basename = basename
	if !child.IsDir() {
		return
	}
	childPath := child.Path()
	for _, grandchild := range child.Children {
		rebase(grandchild, childPath)
	}
}

// Suffix returns the text after the last dot of the name. The second result
// is false when the name carries no dot.
func (n *Node) Suffix() (string, bool) {
	parts := strings.Split(n.Name, suffixSeparator)
	if len(parts) < 2 {
		return "", false
	}
	return parts[len(parts)-1], true
}

// SetContents stores text as lines, dropping surrounding blank lines.
func (n *Node) SetContents(text string) *Node {
	n.Contents = SplitContents(text)
	return n
}

// SetReplacements stores the substitution rules of a file.
func (n *Node) SetReplacements(replacements map[string]string) *Node {
	n.Replacements = replacements
	return n
}

// SplitContents normalizes line endings, trims surrounding blank lines and
// splits the text into lines.
func SplitContents(text string) []string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	trimmed := strings.Trim(normalized, "\n")
	return strings.Split(trimmed, "\n")
}

// IsEmpty reports whether a folder has no children.
func (n *Node) IsEmpty() bool {
	return len(n.Children) == 0
}

// Prune removes folders whose subtree holds no file and returns the receiver.
func (n *Node) Prune() *Node {
	if !n.IsDir() {
		return n
	}
	kept := n.Children[:0]
	for _, child := range n.Children {
		if child.IsDir() {
			child.Prune()
			if child.IsEmpty() {
				continue
			}
		}
		kept = append(kept, child)
	}
	n.Children = kept
	return n
}
