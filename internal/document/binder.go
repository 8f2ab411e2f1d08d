// Package document binds parsed hierarchies to Markdown sections and writes
// hierarchies back out as Markdown documents.
package document

import (
	"fmt"
	"strings"

	"github.com/temirov/mdtree/internal/node"
)

const (
	bindingErrorFormat = "no content section for path %q"

	relativeMarker      = "./"
	innerRelativeMarker = "/./"
	pathSeparator       = "/"
)

// BindingError reports a file declared in the tree without a content section.
type BindingError struct {
	Path string
}

func (bindingError *BindingError) Error() string {
	return fmt.Sprintf(bindingErrorFormat, bindingError.Path)
}

// NormalizePath removes relative-path artifacts from a section key.
func NormalizePath(path string) string {
	normalized := strings.TrimSpace(path)
	for strings.Contains(normalized, innerRelativeMarker) {
		normalized = strings.ReplaceAll(normalized, innerRelativeMarker, pathSeparator)
	}
	for {
		trimmed := strings.TrimPrefix(strings.TrimPrefix(normalized, relativeMarker), pathSeparator)
		if trimmed == normalized {
			return normalized
		}
		normalized = trimmed
	}
}

// Bind attaches content and substitution rules to every file under root,
// looking each file up by its normalized canonical path. A file without a
// content section aborts binding with a *BindingError; folders are left
// untouched.
func Bind(root *node.Node, contents map[string]string, replacements map[string]Rules) error {
	contentsByPath := make(map[string]string, len(contents))
	for path, text := range contents {
		contentsByPath[NormalizePath(path)] = text
	}
	replacementsByPath := make(map[string]Rules, len(replacements))
	for path, rules := range replacements {
		replacementsByPath[NormalizePath(path)] = rules
	}

	for _, file := range node.Files(root) {
		path := NormalizePath(file.Path())
		text, found := contentsByPath[path]
		if !found {
			return &BindingError{Path: path}
		}
		file.SetContents(text)
		if rules, hasRules := replacementsByPath[path]; hasRules {
			file.SetReplacements(rules)
		}
	}
	return nil
}
