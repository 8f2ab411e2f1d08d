package treetext

import (
	"fmt"
	"unicode"

	"github.com/temirov/mdtree/internal/node"
)

const (
	verticalBar    = '│'
	teeGlyph       = '├'
	horizontalDash = '─'
	cornerGlyph    = '└'

	reasonNoLabel         = "line carries no label"
	reasonNoConnector     = "line has no connector prefix"
	reasonUnevenIndent    = "indentation is not a multiple of four"
	reasonBadConnector    = "last indentation group must be a tee or corner connector"
	reasonBadContinuation = "inner indentation groups must be a vertical bar or padding"
	reasonIndentedFirst   = "first line must be at depth 0"
	reasonDepthJumpFormat = "depth jumps from %d to %d"
)

// Depth decodes the nesting depth of a diagram line: the rune index of the
// first character that is neither a connector glyph nor whitespace, divided
// by four, minus one. A line without such a character yields -1.
func Depth(line string) int {
	labelIndex := labelRuneIndex([]rune(line))
	if labelIndex < 0 {
		return -1
	}
	return labelIndex/levelWidth - 1
}

// Label returns the node name carried by a diagram line.
func Label(line string) string {
	runes := []rune(line)
	start := (Depth(line) + 1) * levelWidth
	if start > len(runes) {
		return ""
	}
	return string(runes[start:])
}

func isConnector(character rune) bool {
	switch character {
	case verticalBar, teeGlyph, horizontalDash, cornerGlyph:
		return true
	}
	return false
}

func labelRuneIndex(runes []rune) int {
	for runeIndex, character := range runes {
		if !isConnector(character) && !unicode.IsSpace(character) {
			return runeIndex
		}
	}
	return -1
}

// validatePrefix checks that every four-rune group before the label is a
// valid connector group. It returns an empty reason on success.
func validatePrefix(line string) string {
	runes := []rune(line)
	labelIndex := labelRuneIndex(runes)
	if labelIndex < 0 {
		return reasonNoLabel
	}
	if labelIndex < levelWidth {
		return reasonNoConnector
	}
	if labelIndex%levelWidth != 0 {
		return reasonUnevenIndent
	}
	groupCount := labelIndex / levelWidth
	for groupIndex := 0; groupIndex < groupCount; groupIndex++ {
		group := canonicalGroup(runes[groupIndex*levelWidth : (groupIndex+1)*levelWidth])
		if groupIndex == groupCount-1 {
			if group != treeBranchConnector && group != treeLastConnector {
				return reasonBadConnector
			}
			continue
		}
		if group != treeBranchPadding && group != treeLastPadding {
			return reasonBadContinuation
		}
	}
	return ""
}

// canonicalGroup maps any whitespace rune to a plain space so that diagrams
// pasted from tools emitting non-breaking spaces still decode.
func canonicalGroup(group []rune) string {
	canonical := make([]rune, len(group))
	for runeIndex, character := range group {
		if unicode.IsSpace(character) {
			character = ' '
		}
		canonical[runeIndex] = character
	}
	return string(canonical)
}

// parser holds one pending line and the stack of open folders. stack[d] is
// the folder receiving children at depth d; stack[0] is the root.
type parser struct {
	lines        []string
	stack        []*node.Node
	pendingLabel string
	pendingDepth int
}

// Parse decodes diagram lines into a root folder named "". The kind of each
// line is only known once the next line's depth is read: deeper means the
// pending line is a folder, same or shallower means it is a file. Empty
// input yields a nil root and no error.
func Parse(lines []string) (*node.Node, error) {
	if len(lines) == 0 {
		return nil, nil
	}
	state := &parser{
		lines: lines,
		stack: []*node.Node{node.NewFolder("")},
	}
	for lineIndex, line := range lines {
		if reason := validatePrefix(line); reason != "" {
			return nil, newFormatError(lines, lineIndex, reason)
		}
		depth := Depth(line)
		if lineIndex == 0 {
			if depth != 0 {
				return nil, newFormatError(lines, lineIndex, reasonIndentedFirst)
			}
		} else if resolveError := state.resolve(lineIndex, depth); resolveError != nil {
			return nil, resolveError
		}
		state.pendingLabel = Label(line)
		state.pendingDepth = depth
	}
	if resolveError := state.resolve(len(lines), 0); resolveError != nil {
		return nil, resolveError
	}
	return state.finish()
}

// resolve classifies the pending line given the depth of the line that
// follows it.
func (state *parser) resolve(nextIndex int, nextDepth int) error {
	switch {
	case nextDepth > state.pendingDepth+1:
		return newFormatError(state.lines, nextIndex, fmt.Sprintf(reasonDepthJumpFormat, state.pendingDepth, nextDepth))
	case nextDepth > state.pendingDepth:
		state.openFolder()
	case nextDepth == state.pendingDepth:
		state.appendFile()
	default:
		state.appendFile()
		state.closeFolders(state.pendingDepth - nextDepth)
	}
	return nil
}

func (state *parser) openFolder() {
	parent := state.stack[state.pendingDepth]
	folder := node.NewFolder(state.pendingLabel)
	folder.Basename = parent.Path()
	folder.Depth = state.pendingDepth
	state.stack = append(state.stack, folder)
}

func (state *parser) appendFile() {
	file := node.NewFile(state.pendingLabel)
	file.Depth = state.pendingDepth
	state.stack[state.pendingDepth].Append(file)
}

// closeFolders pops the innermost open folders, attaching each to the folder
// exposed beneath it.
func (state *parser) closeFolders(levels int) {
	for ; levels > 0 && len(state.stack) > 1; levels-- {
		innermost := state.stack[len(state.stack)-1]
		state.stack = state.stack[:len(state.stack)-1]
		state.stack[len(state.stack)-1].Append(innermost)
	}
}

func (state *parser) finish() (*node.Node, error) {
	if len(state.stack) != 1 {
		unfolded := make([]string, 0, len(state.stack))
		for _, folder := range state.stack {
			unfolded = append(unfolded, node.Shape(folder))
		}
		return nil, &StructureError{Unfolded: unfolded}
	}
	return state.stack[0], nil
}
