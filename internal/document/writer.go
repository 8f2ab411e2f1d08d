package document

import (
	"fmt"
	"strings"

	"github.com/temirov/mdtree/internal/node"
	"github.com/temirov/mdtree/internal/treetext"
)

const (
	// DefaultMaxLength is the number of content lines echoed per file.
	DefaultMaxLength = 15
	// UnlimitedLength disables truncation.
	UnlimitedLength = -1

	treeSectionTitle         = "# Tree structure"
	replacementsSectionTitle = "## Replacements"
	fileSectionTitleFormat   = "# `%s`"
	declarationLinePrefix    = "- `"
	declarationLineSeparator = "`: `"
	declarationLineSuffix    = "`"
	codeFence                = "```"
	fenceCharacter           = '`'
	markdownSuffix           = "md"
	defaultEllipsis          = "..."
	nameErrorFormat          = "file %q cannot be written to a document: %s"

	reasonBacktick   = "name contains a backtick"
	reasonLineBreak  = "name contains a line break"
	reasonWhitespace = "name has leading or trailing whitespace"

	// MarkdownPlaceholder replaces the contents of Markdown files, which would
	// otherwise break the document's own section structure.
	MarkdownPlaceholder = "Content from Markdown files is ignored, since the output would break parsing"
)

var suffixLanguages = map[string]string{
	"py":    "python",
	"sbt":   "scala",
	"scala": "scala",
	"toml":  "toml",
	"lock":  "toml",
	"json":  "json",
	"yaml":  "yaml",
	"yml":   "yaml",
	"go":    "go",
	"sh":    "bash",
	"js":    "javascript",
	"ts":    "typescript",
	"rs":    "rust",
}

var languageEllipses = map[string]string{
	"python":     "# ...",
	"bash":       "# ...",
	"yaml":       "# ...",
	"scala":      "// ...",
	"go":         "// ...",
	"javascript": "// ...",
	"typescript": "// ...",
	"rust":       "// ...",
	"toml":       "[...]",
}

// Options controls document generation.
type Options struct {
	// MaxLength caps the echoed lines per file; UnlimitedLength disables it.
	MaxLength int
	// Declarations are emitted as Replacements subsections wherever their
	// token occurs.
	Declarations Rules
}

// Language returns the code fence tag for a file suffix, empty when unknown.
func Language(suffix string) string {
	return suffixLanguages[strings.ToLower(suffix)]
}

// Ellipsis returns the truncation marker for a file suffix.
func Ellipsis(suffix string) string {
	if ellipsis, found := languageEllipses[Language(suffix)]; found {
		return ellipsis
	}
	return defaultEllipsis
}

// Write renders root as a Markdown document: the tree section with its
// diagram and link listing, followed by one section per file.
func Write(root *node.Node, options Options) []string {
	diagram := treetext.Render(root)
	files := node.Files(root)

	var paths []string
	for _, file := range files {
		paths = append(paths, file.Path())
	}

	lines := []string{treeSectionTitle}
	lines = append(lines, declarationLines(options.Declarations, paths)...)
	lines = append(lines, "", codeFence)
	lines = append(lines, diagram...)
	lines = append(lines, codeFence, "")
	lines = append(lines, treetext.RenderLinks(root)...)

	for _, file := range files {
		lines = append(lines, fileSection(file, options)...)
	}
	return lines
}

func fileSection(file *node.Node, options Options) []string {
	path := file.Path()
	lines := []string{"", fmt.Sprintf(fileSectionTitleFormat, path)}
	lines = append(lines, declarationLines(options.Declarations, append([]string{path}, file.Contents...))...)

	suffix, _ := file.Suffix()
	fence := fenceFor(file.Contents)
	lines = append(lines, "", fence+Language(suffix))
	switch {
	case suffix == markdownSuffix:
		lines = append(lines, MarkdownPlaceholder)
	case options.MaxLength >= 0 && len(file.Contents) > options.MaxLength:
		keep := options.MaxLength - 1
		if keep < 0 {
			keep = 0
		}
		lines = append(lines, file.Contents[:keep]...)
		lines = append(lines, "", Ellipsis(suffix))
	default:
		lines = append(lines, file.Contents...)
	}
	return append(lines, fence)
}

// fenceFor returns a backtick fence longer than any backtick run opening one
// of the lines, so no content line can close the block.
func fenceFor(contents []string) string {
	length := len(codeFence)
	for _, line := range contents {
		trimmed := strings.TrimLeft(line, " \t")
		run := len(trimmed) - len(strings.TrimLeft(trimmed, string(fenceCharacter)))
		if run >= length {
			length = run + 1
		}
	}
	return strings.Repeat(string(fenceCharacter), length)
}

// NameError reports a file or folder name that a document cannot carry:
// headings drop backticks and surrounding whitespace, so the section would
// never bind back to the tree.
type NameError struct {
	Path   string
	Reason string
}

func (nameError *NameError) Error() string {
	return fmt.Sprintf(nameErrorFormat, nameError.Path, nameError.Reason)
}

// ValidateNames returns a *NameError for the first node below root whose
// name would not survive a round trip through Write and Read.
func ValidateNames(root *node.Node) error {
	var invalid *NameError
	node.Walk(root, func(current *node.Node) bool {
		if invalid != nil {
			return false
		}
		if current == root {
			return true
		}
		if reason := nameProblem(current.Name); reason != "" {
			invalid = &NameError{Path: current.Path(), Reason: reason}
		}
		return invalid == nil
	})
	if invalid != nil {
		return invalid
	}
	return nil
}

func nameProblem(name string) string {
	switch {
	case strings.ContainsRune(name, fenceCharacter):
		return reasonBacktick
	case strings.ContainsAny(name, "\r\n"):
		return reasonLineBreak
	case strings.TrimSpace(name) != name:
		return reasonWhitespace
	}
	return ""
}

// declarationLines returns a Replacements subsection listing every rule whose
// token occurs in one of texts, or nothing when none does.
func declarationLines(declarations Rules, texts []string) []string {
	var lines []string
	for _, key := range declarations.Keys() {
		token := declarations[key]
		if token == "" || !containsToken(texts, token) {
			continue
		}
		lines = append(lines, declarationLinePrefix+key+declarationLineSeparator+token+declarationLineSuffix)
	}
	if len(lines) == 0 {
		return nil
	}
	return append([]string{"", replacementsSectionTitle, ""}, lines...)
}

func containsToken(texts []string, token string) bool {
	for _, text := range texts {
		if strings.Contains(text, token) {
			return true
		}
	}
	return false
}
