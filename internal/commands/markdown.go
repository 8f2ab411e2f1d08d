package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/mdtree/internal/document"
	"github.com/temirov/mdtree/internal/node"
	"github.com/temirov/mdtree/internal/output"
	"github.com/temirov/mdtree/internal/utils"
)

const (
	documentLineSeparator = "\n"
	documentFileMode      = 0o644

	errorWriteDocumentFormat = "writing document to %s: %w"
	errorModulePathFormat    = "detecting Go module path: %w"

	generatedDocumentMessage = "generated document"
	modulePathMessage        = "declaring Go module path"
)

// MarkdownOptions configures document generation for a directory.
type MarkdownOptions struct {
	Root         string
	Paths        PathOptions
	MaxLength    int
	Declarations document.Rules
	// GoModule declares ModuleKey for the module path found in the root's
	// go.mod unless the key is already declared.
	GoModule    bool
	Concurrency int
}

// GenerateMarkdown traverses options.Root and returns the document text.
func GenerateMarkdown(ctx context.Context, options MarkdownOptions, logger *zap.Logger) (string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	root, traverseError := traverse(ctx, options.Root, options.Paths, options.Concurrency, false, logger)
	if traverseError != nil {
		return "", traverseError
	}
	if nameError := document.ValidateNames(root); nameError != nil {
		return "", nameError
	}

	declarations := document.Rules{}
	for key, token := range options.Declarations {
		declarations[key] = token
	}
	if options.GoModule {
		if _, declared := declarations[ModuleKey]; !declared {
			modulePath, moduleError := DetectModulePath(options.Root)
			if moduleError != nil {
				return "", fmt.Errorf(errorModulePathFormat, moduleError)
			}
			logger.Info(modulePathMessage, zap.String("key", ModuleKey), zap.String("module", modulePath))
			declarations[ModuleKey] = modulePath
		}
	}

	lines := document.Write(root, document.Options{MaxLength: options.MaxLength, Declarations: declarations})
	documentText := strings.Join(lines, documentLineSeparator) + documentLineSeparator
	logger.Info(generatedDocumentMessage,
		zap.Int("files", len(node.Files(root))),
		zap.String("size", utils.FormatFileSize(int64(len(documentText)))),
	)
	return documentText, nil
}

// WriteDocument stores the document text at outputPath.
func WriteDocument(outputPath string, documentText string) error {
	if err := os.WriteFile(outputPath, []byte(documentText), documentFileMode); err != nil {
		return fmt.Errorf(errorWriteDocumentFormat, outputPath, err)
	}
	return nil
}

// RenderTree traverses rootDirectoryPath without reading file contents and
// renders the hierarchy in format.
func RenderTree(ctx context.Context, rootDirectoryPath string, paths PathOptions, format string, logger *zap.Logger) (string, error) {
	root, traverseError := traverse(ctx, rootDirectoryPath, paths, 0, true, logger)
	if traverseError != nil {
		return "", traverseError
	}
	absoluteRoot, absolutePathError := filepath.Abs(rootDirectoryPath)
	if absolutePathError != nil {
		return "", fmt.Errorf(errorAbsolutePathFormat, rootDirectoryPath, absolutePathError)
	}
	return output.RenderTree(root, filepath.Base(absoluteRoot), format)
}

func traverse(ctx context.Context, rootDirectoryPath string, paths PathOptions, concurrency int, skipContents bool, logger *zap.Logger) (*node.Node, error) {
	ignorePatterns, patternError := ResolveIgnorePatterns(rootDirectoryPath, paths)
	if patternError != nil {
		return nil, patternError
	}
	treeBuilder := &TreeBuilder{
		IgnorePatterns: ignorePatterns,
		Concurrency:    concurrency,
		SkipContents:   skipContents,
		Logger:         logger,
	}
	return treeBuilder.Build(ctx, rootDirectoryPath)
}
