package document

import (
	"sort"
	"strings"

	"github.com/temirov/mdtree/internal/node"
)

// Rules maps a substitution key to the literal token that stands for it in
// the document text.
type Rules map[string]string

// Keys returns the declared keys in sorted order.
func (rules Rules) Keys() []string {
	keys := make([]string, 0, len(rules))
	for key := range rules {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Apply replaces every occurrence of each token whose key has a value in
// values. Keys are applied in sorted order; empty tokens are skipped.
func (rules Rules) Apply(values map[string]string, text string) string {
	if len(rules) == 0 || len(values) == 0 {
		return text
	}
	replaced := text
	for _, key := range rules.Keys() {
		token := rules[key]
		value, hasValue := values[key]
		if !hasValue || token == "" {
			continue
		}
		replaced = strings.ReplaceAll(replaced, token, value)
	}
	return replaced
}

// Substitute rewrites the content lines of every file under root with the
// file's own rules and returns the paths of the files that changed.
func Substitute(root *node.Node, values map[string]string) []string {
	var changedPaths []string
	for _, file := range node.Files(root) {
		if len(file.Replacements) == 0 {
			continue
		}
		rules := Rules(file.Replacements)
		changed := false
		for lineIndex, line := range file.Contents {
			replaced := rules.Apply(values, line)
			if replaced != line {
				file.Contents[lineIndex] = replaced
				changed = true
			}
		}
		if changed {
			changedPaths = append(changedPaths, file.Path())
		}
	}
	return changedPaths
}

// UnresolvedKeys returns, sorted and without duplicates, every declared key
// that has no caller value.
func UnresolvedKeys(declared map[string]Rules, values map[string]string) []string {
	unresolved := map[string]struct{}{}
	for _, rules := range declared {
		for key := range rules {
			if _, hasValue := values[key]; !hasValue {
				unresolved[key] = struct{}{}
			}
		}
	}
	keys := make([]string, 0, len(unresolved))
	for key := range unresolved {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// ParseAssignment splits a "KEY:value" pair on its first colon.
func ParseAssignment(assignment string) (string, string, bool) {
	key, value, found := strings.Cut(assignment, ":")
	if !found {
		return "", "", false
	}
	key = strings.TrimSpace(strings.ReplaceAll(key, "`", ""))
	value = strings.TrimSpace(strings.ReplaceAll(value, "`", ""))
	if key == "" {
		return "", "", false
	}
	return key, value, true
}
