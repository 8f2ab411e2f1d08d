package treetext

import (
	"fmt"
	"strings"
)

const (
	formatErrorFormat    = "tree line %d %q: %s"
	structureErrorFormat = "tree folding left %d unfolded entries: %s"
	contextLineFormat    = "%d: %s"

	// contextRadius is the number of lines echoed on each side of a bad line.
	contextRadius = 2
)

// FormatError reports a diagram line whose indentation cannot be decoded.
type FormatError struct {
	// Line is the 1-based number of the offending line.
	Line   int
	Text   string
	Reason string
	// Context holds the offending line and its neighbours, numbered.
	Context []string
}

func (formatError *FormatError) Error() string {
	return fmt.Sprintf(formatErrorFormat, formatError.Line, formatError.Text, formatError.Reason)
}

// Excerpt returns the numbered surrounding lines joined by newlines.
func (formatError *FormatError) Excerpt() string {
	return strings.Join(formatError.Context, "\n")
}

// StructureError reports that folding the open folders did not converge on a
// single root. Diagrams produced by Render never trigger it.
type StructureError struct {
	Unfolded []string
}

func (structureError *StructureError) Error() string {
	return fmt.Sprintf(structureErrorFormat, len(structureError.Unfolded), strings.Join(structureError.Unfolded, ", "))
}

func newFormatError(lines []string, lineIndex int, reason string) *FormatError {
	text := ""
	if lineIndex < len(lines) {
		text = lines[lineIndex]
	}
	firstIndex := lineIndex - contextRadius
	if firstIndex < 0 {
		firstIndex = 0
	}
	lastIndex := lineIndex + contextRadius
	if lastIndex > len(lines)-1 {
		lastIndex = len(lines) - 1
	}
	var context []string
	for contextIndex := firstIndex; contextIndex <= lastIndex; contextIndex++ {
		context = append(context, fmt.Sprintf(contextLineFormat, contextIndex+1, lines[contextIndex]))
	}
	return &FormatError{
		Line:    lineIndex + 1,
		Text:    text,
		Reason:  reason,
		Context: context,
	}
}
