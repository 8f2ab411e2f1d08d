// Package materialize writes a bound hierarchy to disk.
package materialize

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/mdtree/internal/node"
)

const (
	directoryMode = 0o755
	fileMode      = 0o644

	lineTerminator = "\n"
	parentSegment  = ".."

	escapeErrorFormat       = "path %q escapes destination %s"
	relativeErrorFormat     = "resolve %q against %s: %w"
	existingFolderFormat    = "folder %s: %w; delete it, pick another path or ignore existing folders"
	existingFileFormat      = "file %s: %w; delete it first"
	notAFolderErrorFormat   = "%s exists and is not a folder"
	createFolderErrorFormat = "create folder %s: %w"
	writeFileErrorFormat    = "write file %s: %w"
	statErrorFormat         = "stat %s: %w"

	folderMessage         = "folder"
	fileMessage           = "file"
	existingFolderMessage = "folder already exists and will not be recreated"
	dryRunMessage         = "dry run, nothing is written"
	dryRunConflictMessage = "would fail outside of a dry run"
)

// ErrExists is wrapped by every error about a target that is already present.
var ErrExists = errors.New("target already exists")

// Options controls how a hierarchy is written.
type Options struct {
	// DryRun only logs what would be written.
	DryRun bool
	// IgnoreExistingFolders reuses folders that are already present instead
	// of failing. Existing files are always an error.
	IgnoreExistingFolders bool
}

type materializer struct {
	destination string
	options     Options
	logger      *zap.Logger
}

// Materialize creates destination and every folder and file of root beneath
// it. File contents are written one line per element with a trailing newline.
func Materialize(root *node.Node, destination string, options Options, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	writer := materializer{destination: filepath.Clean(destination), options: options, logger: logger}
	if options.DryRun {
		logger.Info(dryRunMessage, zap.String("destination", writer.destination))
	}
	if err := writer.ensureFolder(writer.destination); err != nil {
		return err
	}
	if root == nil {
		return nil
	}
	return writer.writeChildren(root)
}

func (writer materializer) writeChildren(folder *node.Node) error {
	for _, child := range folder.Children {
		if child.IsDir() {
			target, joinError := SafeJoin(writer.destination, child.Path())
			if joinError != nil {
				return joinError
			}
			if err := writer.ensureFolder(target); err != nil {
				return err
			}
			if err := writer.writeChildren(child); err != nil {
				return err
			}
			continue
		}
		if err := writer.writeFile(child); err != nil {
			return err
		}
	}
	return nil
}

func (writer materializer) ensureFolder(target string) error {
	writer.logger.Info(folderMessage, zap.String("path", target))
	info, statError := os.Lstat(target)
	switch {
	case statError == nil && !info.IsDir():
		return fmt.Errorf(notAFolderErrorFormat, target)
	case statError == nil && writer.options.IgnoreExistingFolders:
		writer.logger.Warn(existingFolderMessage, zap.String("path", target))
		return nil
	case statError == nil:
		return writer.conflict(fmt.Errorf(existingFolderFormat, target, ErrExists))
	case !os.IsNotExist(statError):
		return fmt.Errorf(statErrorFormat, target, statError)
	}
	if writer.options.DryRun {
		return nil
	}
	if err := os.Mkdir(target, directoryMode); err != nil {
		return fmt.Errorf(createFolderErrorFormat, target, err)
	}
	return nil
}

func (writer materializer) writeFile(file *node.Node) error {
	target, joinError := SafeJoin(writer.destination, file.Path())
	if joinError != nil {
		return joinError
	}
	payload := render(file.Contents)
	writer.logger.Info(fileMessage, zap.String("path", target), zap.Int("characters", len([]rune(strings.Join(file.Contents, "")))))

	if _, statError := os.Lstat(target); statError == nil {
		return writer.conflict(fmt.Errorf(existingFileFormat, target, ErrExists))
	} else if !os.IsNotExist(statError) {
		return fmt.Errorf(statErrorFormat, target, statError)
	}
	if writer.options.DryRun {
		return nil
	}
	handle, openError := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_EXCL, fileMode)
	if openError != nil {
		return fmt.Errorf(writeFileErrorFormat, target, openError)
	}
	if _, writeError := handle.WriteString(payload); writeError != nil {
		_ = handle.Close()
		return fmt.Errorf(writeFileErrorFormat, target, writeError)
	}
	if closeError := handle.Close(); closeError != nil {
		return fmt.Errorf(writeFileErrorFormat, target, closeError)
	}
	return nil
}

// conflict fails on an existing target, or only warns about it in a dry run.
func (writer materializer) conflict(conflictError error) error {
	if !writer.options.DryRun {
		return conflictError
	}
	writer.logger.Warn(dryRunConflictMessage, zap.Error(conflictError))
	return nil
}

func render(lines []string) string {
	var builder strings.Builder
	for _, line := range lines {
		builder.WriteString(line)
		builder.WriteString(lineTerminator)
	}
	return builder.String()
}

// SafeJoin joins a slash-separated relative path onto root and rejects
// results that leave root.
func SafeJoin(root string, relativePath string) (string, error) {
	cleanRoot := filepath.Clean(root)
	joined := filepath.Join(cleanRoot, filepath.FromSlash(relativePath))
	relative, relativeError := filepath.Rel(cleanRoot, joined)
	if relativeError != nil {
		return "", fmt.Errorf(relativeErrorFormat, relativePath, cleanRoot, relativeError)
	}
	slashed := filepath.ToSlash(relative)
	if slashed == parentSegment || strings.HasPrefix(slashed, parentSegment+"/") {
		return "", fmt.Errorf(escapeErrorFormat, relativePath, cleanRoot)
	}
	return joined, nil
}
