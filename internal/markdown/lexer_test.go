package markdown_test

import (
	"strings"
	"testing"

	"github.com/temirov/mdtree/internal/markdown"
)

const sampleDocument = "# Tree structure\n" +
	"\n" +
	"## Replacements\n" +
	"\n" +
	"- NAME: `proj-token`\n" +
	"  - nested: item\n" +
	"\n" +
	"```\n" +
	"└── `proj-token`\n" +
	"```\n" +
	"\n" +
	"# `proj-token/settings.py`\n" +
	"\n" +
	"```python\n" +
	"PORT = 8000\n" +
	"DEBUG = False\n" +
	"```\n" +
	"\n" +
	"    indented = True\n"

func TestLexBlocks(t *testing.T) {
	blocks := markdown.Lex([]byte(sampleDocument))
	expected := []markdown.Block{
		{Kind: markdown.BlockKindHeading, Text: "Tree structure", Level: 1},
		{Kind: markdown.BlockKindHeading, Text: "Replacements", Level: 2},
		{Kind: markdown.BlockKindListItem, Text: "NAME: `proj-token`"},
		{Kind: markdown.BlockKindListItem, Text: "nested: item"},
		{Kind: markdown.BlockKindCode, Text: "└── `proj-token`\n"},
		{Kind: markdown.BlockKindHeading, Text: "`proj-token/settings.py`", Level: 1},
		{Kind: markdown.BlockKindCode, Text: "PORT = 8000\nDEBUG = False\n", Language: "python"},
		{Kind: markdown.BlockKindBareCode, Text: "indented = True"},
	}
	if len(blocks) != len(expected) {
		t.Fatalf("expected %d blocks, got %d: %+v", len(expected), len(blocks), blocks)
	}
	for blockIndex, block := range blocks {
		if block.Kind == markdown.BlockKindBareCode {
			block.Text = strings.TrimSpace(block.Text)
		}
		if block != expected[blockIndex] {
			t.Fatalf("block %d: expected %+v, got %+v", blockIndex, expected[blockIndex], block)
		}
	}
}

func TestLexEmptySource(t *testing.T) {
	if blocks := markdown.Lex(nil); len(blocks) != 0 {
		t.Fatalf("expected no blocks, got %+v", blocks)
	}
}
