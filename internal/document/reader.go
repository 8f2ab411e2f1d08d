package document

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/mdtree/internal/markdown"
	"github.com/temirov/mdtree/internal/node"
	"github.com/temirov/mdtree/internal/treetext"
)

const (
	treeSectionHeading         = "tree structure"
	replacementsSectionHeading = "replacements"

	// treeSectionKey cannot collide with a heading-derived path.
	treeSectionKey       = "\x00tree"
	sectionTextSeparator = "\n\n"

	parseTreeErrorFormat = "parse tree structure: %w"
	bindErrorFormat      = "bind file sections: %w"

	unresolvedKeyMessage       = "no value provided for substitution key; the literal token is kept"
	renamedSectionMessage      = "renamed file section"
	declarationMessage         = "found substitution declaration"
	orphanCodeBlockMessage     = "ignoring code block outside of any section"
	treeParseFailureMessage    = "tree structure could not be parsed"
	treeParseAdviceMessage     = "make sure the tree has no additional spaces; spacing is significant"
	missingReplacementsMessage = "no substitution declarations for file"
)

// ErrMissingTree is returned for documents without a tree structure section.
var ErrMissingTree = errors.New("tree structure section not found in the document")

// ErrEmptyTree is returned when the tree structure section holds no diagram.
var ErrEmptyTree = errors.New("tree structure section is empty")

// sectionCollector accumulates section text and declarations while the
// block stream is scanned.
type sectionCollector struct {
	logger *zap.Logger

	currentKey     string
	hasCurrentKey  bool
	declarationKey string
	declaring      bool

	contents     map[string]string
	declarations map[string]Rules
}

// Read turns a lexed Markdown document into a bound hierarchy. values holds
// the caller's substitution values; tree section rules are applied to every
// path before the diagram is parsed and the file sections are bound.
func Read(blocks []markdown.Block, values map[string]string, logger *zap.Logger) (*node.Node, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	collector := &sectionCollector{
		logger:       logger,
		contents:     map[string]string{},
		declarations: map[string]Rules{},
	}
	for _, block := range blocks {
		collector.consume(block)
	}
	for _, key := range UnresolvedKeys(collector.declarations, values) {
		logger.Warn(unresolvedKeyMessage, zap.String("key", key))
	}

	treeRules := collector.declarations[treeSectionKey]
	contents, replacements := collector.renameSections(treeRules, values)

	treeText, hasTree := contents[treeSectionKey]
	if !hasTree {
		return nil, ErrMissingTree
	}
	delete(contents, treeSectionKey)
	delete(replacements, treeSectionKey)

	treeLines := treeDiagramLines(treeText, treeRules, values)
	root, parseError := treetext.Parse(treeLines)
	if parseError != nil {
		logParseFailure(logger, treeLines, parseError)
		return nil, fmt.Errorf(parseTreeErrorFormat, parseError)
	}
	if root == nil {
		return nil, ErrEmptyTree
	}

	if bindError := Bind(root, contents, replacements); bindError != nil {
		return nil, fmt.Errorf(bindErrorFormat, bindError)
	}
	for _, file := range node.Files(root) {
		if file.Replacements == nil {
			logger.Debug(missingReplacementsMessage, zap.String("path", file.Path()))
		}
	}
	return root, nil
}

func (collector *sectionCollector) consume(block markdown.Block) {
	switch block.Kind {
	case markdown.BlockKindHeading:
		collector.consumeHeading(block.Text)
	case markdown.BlockKindListItem:
		collector.consumeListItem(block.Text)
	case markdown.BlockKindCode, markdown.BlockKindBareCode:
		collector.consumeCode(block.Text)
	}
}

func (collector *sectionCollector) consumeHeading(text string) {
	normalized := strings.ToLower(strings.TrimSpace(text))
	switch normalized {
	case treeSectionHeading:
		collector.currentKey = treeSectionKey
		collector.hasCurrentKey = true
		collector.declaring = false
	case replacementsSectionHeading:
		collector.declarationKey = collector.currentKey
		collector.declaring = collector.hasCurrentKey
	default:
		collector.currentKey = NormalizePath(strings.ReplaceAll(text, "`", ""))
		collector.hasCurrentKey = true
		collector.declaring = false
	}
}

func (collector *sectionCollector) consumeListItem(text string) {
	if !collector.declaring {
		return
	}
	key, token, ok := ParseAssignment(text)
	if !ok {
		return
	}
	collector.logger.Debug(declarationMessage, zap.String("key", key), zap.String("token", token), zap.String("section", sectionLabel(collector.declarationKey)))
	rules, exists := collector.declarations[collector.declarationKey]
	if !exists {
		rules = Rules{}
		collector.declarations[collector.declarationKey] = rules
	}
	rules[key] = token
}

// consumeCode appends a code block to the current section. A code block
// also ends the declaration list of its section.
func (collector *sectionCollector) consumeCode(text string) {
	collector.declaring = false
	if !collector.hasCurrentKey {
		collector.logger.Debug(orphanCodeBlockMessage)
		return
	}
	trimmed := strings.Trim(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	existing, exists := collector.contents[collector.currentKey]
	if !exists {
		collector.contents[collector.currentKey] = trimmed
		return
	}
	collector.contents[collector.currentKey] = existing + sectionTextSeparator + trimmed
}

// renameSections rewrites every section key with the tree rules so that file
// sections follow their substituted paths.
func (collector *sectionCollector) renameSections(treeRules Rules, values map[string]string) (map[string]string, map[string]Rules) {
	contents := make(map[string]string, len(collector.contents))
	for key, text := range collector.contents {
		renamed := renameKey(key, treeRules, values)
		if renamed != key {
			collector.logger.Info(renamedSectionMessage, zap.String("from", key), zap.String("to", renamed))
		}
		contents[renamed] = text
	}
	replacements := make(map[string]Rules, len(collector.declarations))
	for key, rules := range collector.declarations {
		replacements[renameKey(key, treeRules, values)] = rules
	}
	return contents, replacements
}

func renameKey(key string, treeRules Rules, values map[string]string) string {
	if key == treeSectionKey {
		return key
	}
	return treeRules.Apply(values, key)
}

// treeDiagramLines splits the tree section into non-empty diagram lines and
// applies the tree rules to each of them.
func treeDiagramLines(treeText string, treeRules Rules, values map[string]string) []string {
	var lines []string
	for _, line := range strings.Split(treeText, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		lines = append(lines, treeRules.Apply(values, line))
	}
	return lines
}

func logParseFailure(logger *zap.Logger, treeLines []string, parseError error) {
	logger.Error(treeParseFailureMessage, zap.Error(parseError))
	var formatError *treetext.FormatError
	if errors.As(parseError, &formatError) {
		for _, contextLine := range formatError.Context {
			logger.Error(contextLine)
		}
	} else {
		for _, line := range treeLines {
			logger.Error(line)
		}
	}
	logger.Warn(treeParseAdviceMessage)
}

func sectionLabel(key string) string {
	if key == treeSectionKey {
		return treeSectionHeading
	}
	return key
}
