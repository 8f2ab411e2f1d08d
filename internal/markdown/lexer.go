// Package markdown turns Markdown source into the flat block stream the
// document reader consumes.
package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// BlockKind identifies the kind of a lexed block.
type BlockKind string

const (
	BlockKindHeading  BlockKind = "heading"
	BlockKindListItem BlockKind = "list_item"
	BlockKindCode     BlockKind = "code"
	BlockKindBareCode BlockKind = "bare_code"
)

// Block is one typed piece of a Markdown document.
type Block struct {
	Kind BlockKind
	// Text is the raw source of the block: heading text, list item text or
	// code payload.
	Text string
	// Level is the heading level; zero for other kinds.
	Level int
	// Language is the info string of a fenced code block.
	Language string
}

// Lex parses source and returns its headings, list items and code blocks in
// document order. Nested list items are included.
func Lex(source []byte) []Block {
	document := goldmark.New().Parser().Parse(text.NewReader(source))
	var blocks []Block
	_ = ast.Walk(document, func(current ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch typed := current.(type) {
		case *ast.Heading:
			blocks = append(blocks, Block{
				Kind:  BlockKindHeading,
				Text:  strings.TrimSpace(joinLines(typed.Lines(), source, " ")),
				Level: typed.Level,
			})
			return ast.WalkSkipChildren, nil
		case *ast.ListItem:
			blocks = append(blocks, Block{
				Kind: BlockKindListItem,
				Text: listItemText(typed, source),
			})
			return ast.WalkContinue, nil
		case *ast.FencedCodeBlock:
			blocks = append(blocks, Block{
				Kind:     BlockKindCode,
				Text:     joinLines(typed.Lines(), source, ""),
				Language: string(typed.Language(source)),
			})
			return ast.WalkSkipChildren, nil
		case *ast.CodeBlock:
			blocks = append(blocks, Block{
				Kind: BlockKindBareCode,
				Text: joinLines(typed.Lines(), source, ""),
			})
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return blocks
}

// listItemText returns the raw text of the first paragraph of a list item.
func listItemText(item *ast.ListItem, source []byte) string {
	for child := item.FirstChild(); child != nil; child = child.NextSibling() {
		switch child.(type) {
		case *ast.Paragraph, *ast.TextBlock:
			return strings.TrimSpace(joinLines(child.Lines(), source, " "))
		}
	}
	return ""
}

// joinLines concatenates block line segments. Code segments keep their own
// line endings, so they are joined with an empty separator.
func joinLines(segments *text.Segments, source []byte, separator string) string {
	if segments == nil {
		return ""
	}
	parts := make([]string, 0, segments.Len())
	for segmentIndex := 0; segmentIndex < segments.Len(); segmentIndex++ {
		segment := segments.At(segmentIndex)
		part := string(segment.Value(source))
		if separator != "" {
			part = strings.TrimRight(part, "\r\n")
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, separator)
}
