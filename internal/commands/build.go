package commands

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/temirov/mdtree/internal/document"
	"github.com/temirov/mdtree/internal/markdown"
	"github.com/temirov/mdtree/internal/materialize"
	"github.com/temirov/mdtree/internal/node"
)

const (
	errorReadDocumentFormat  = "reading document %s: %w"
	errorParseDocumentFormat = "processing document %s: %w"
	errorMaterializeFormat   = "materializing into %s: %w"

	replacementsAppliedMessage = "replacements applied"
)

// BuildOptions configures materialization of a document.
type BuildOptions struct {
	DocumentPath          string
	Destination           string
	Values                map[string]string
	DryRun                bool
	IgnoreExistingFolders bool
}

// ReadDocument reads and parses the document at documentPath and applies
// the substitution values to paths and contents.
func ReadDocument(documentPath string, values map[string]string, logger *zap.Logger) (*node.Node, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	source, readError := os.ReadFile(documentPath)
	if readError != nil {
		return nil, fmt.Errorf(errorReadDocumentFormat, documentPath, readError)
	}
	root, parseError := document.Read(markdown.Lex(source), values, logger)
	if parseError != nil {
		return nil, fmt.Errorf(errorParseDocumentFormat, documentPath, parseError)
	}
	for _, changedPath := range document.Substitute(root, values) {
		logger.Info(replacementsAppliedMessage, zap.String("path", changedPath))
	}
	return root, nil
}

// BuildFromDocument reads a document and writes its hierarchy below
// options.Destination.
func BuildFromDocument(options BuildOptions, logger *zap.Logger) (*node.Node, error) {
	root, readError := ReadDocument(options.DocumentPath, options.Values, logger)
	if readError != nil {
		return nil, readError
	}
	materializeOptions := materialize.Options{DryRun: options.DryRun, IgnoreExistingFolders: options.IgnoreExistingFolders}
	if err := materialize.Materialize(root, options.Destination, materializeOptions, logger); err != nil {
		return nil, fmt.Errorf(errorMaterializeFormat, options.Destination, err)
	}
	return root, nil
}
