// Package commands contains the operations behind each mdtree command.
package commands

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/mdtree/internal/node"
	"github.com/temirov/mdtree/internal/utils"
)

const (
	errorAbsolutePathFormat  = "getting absolute path for %s: %w"
	errorStatRootFormat      = "inspecting %s: %w"
	errorRootNotFolderFormat = "%s is not a directory"
	errorReadDirectoryFormat = "reading directory %s: %w"
	errorReadContentsFormat  = "reading file contents under %s: %w"

	skipSubdirectoryMessage = "skipping subdirectory"
	skipEntryMessage        = "skipping entry"
)

// Build walks rootDirectoryPath and returns a folder named "" holding every
// file that is not ignored, with contents attached. Directory entries are
// visited in name order, file contents are read concurrently and folders
// without files are pruned.
func (treeBuilder *TreeBuilder) Build(ctx context.Context, rootDirectoryPath string) (*node.Node, error) {
	absoluteRoot, absolutePathError := filepath.Abs(rootDirectoryPath)
	if absolutePathError != nil {
		return nil, fmt.Errorf(errorAbsolutePathFormat, rootDirectoryPath, absolutePathError)
	}
	rootInfo, statError := os.Stat(absoluteRoot)
	if statError != nil {
		return nil, fmt.Errorf(errorStatRootFormat, rootDirectoryPath, statError)
	}
	if !rootInfo.IsDir() {
		return nil, fmt.Errorf(errorRootNotFolderFormat, rootDirectoryPath)
	}

	root := node.NewFolder("")
	var jobs []fileJob
	if err := treeBuilder.collect(root, absoluteRoot, absoluteRoot, &jobs); err != nil {
		return nil, err
	}
	if treeBuilder.SkipContents {
		return root.Prune(), nil
	}
	if err := treeBuilder.readContents(ctx, jobs); err != nil {
		return nil, fmt.Errorf(errorReadContentsFormat, rootDirectoryPath, err)
	}
	return root.Prune(), nil
}

// collect appends the entries of currentDirectoryPath to folder and queues
// every file for reading.
func (treeBuilder *TreeBuilder) collect(folder *node.Node, currentDirectoryPath string, rootDirectoryPath string, jobs *[]fileJob) error {
	directoryEntries, readDirectoryError := os.ReadDir(currentDirectoryPath)
	if readDirectoryError != nil {
		return fmt.Errorf(errorReadDirectoryFormat, currentDirectoryPath, readDirectoryError)
	}
	logger := treeBuilder.logger()

	for _, directoryEntry := range directoryEntries {
		childPath := filepath.Join(currentDirectoryPath, directoryEntry.Name())
		relativeChildPath := utils.RelativePathOrSelf(childPath, rootDirectoryPath)
		if utils.ShouldIgnoreByPath(relativeChildPath, treeBuilder.IgnorePatterns) {
			continue
		}

		isDirectory, typeError := entryIsDirectory(childPath, directoryEntry)
		if typeError != nil {
			logger.Warn(skipEntryMessage, zap.String("path", relativeChildPath), zap.Error(typeError))
			continue
		}
		if isDirectory {
			if directoryEntry.Type()&fs.ModeSymlink != 0 {
				logger.Warn(skipEntryMessage, zap.String("path", relativeChildPath), zap.String("reason", "symbolic link to a directory"))
				continue
			}
			logger.Debug("found folder", zap.String("path", relativeChildPath))
			childFolder := node.NewFolder(directoryEntry.Name())
			folder.Append(childFolder)
			if err := treeBuilder.collect(childFolder, childPath, rootDirectoryPath, jobs); err != nil {
				logger.Warn(skipSubdirectoryMessage, zap.String("path", relativeChildPath), zap.Error(err))
				childFolder.Children = nil
			}
			continue
		}

		file := node.NewFile(directoryEntry.Name())
		folder.Append(file)
		*jobs = append(*jobs, fileJob{
			absolutePath: childPath,
			relativePath: relativeChildPath,
			assign:       func(text string) { file.SetContents(text) },
		})
	}
	return nil
}

// entryIsDirectory resolves symbolic links before deciding whether an entry
// is a directory.
func entryIsDirectory(path string, directoryEntry fs.DirEntry) (bool, error) {
	if directoryEntry.Type()&fs.ModeSymlink == 0 {
		return directoryEntry.IsDir(), nil
	}
	targetInfo, statError := os.Stat(path)
	if statError != nil {
		return false, statError
	}
	return targetInfo.IsDir(), nil
}

// readContents reads every queued file with at most readerLimit readers in
// flight. Each job owns a distinct node, so assignments do not race.
func (treeBuilder *TreeBuilder) readContents(ctx context.Context, jobs []fileJob) error {
	group, groupContext := errgroup.WithContext(ctx)
	group.SetLimit(treeBuilder.readerLimit())
	logger := treeBuilder.logger()
	for _, job := range jobs {
		group.Go(func() error {
			if err := groupContext.Err(); err != nil {
				return err
			}
			job.assign(inspectFile(job, logger))
			return nil
		})
	}
	return group.Wait()
}
