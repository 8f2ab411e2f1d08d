// Package config loads ignore files and the mdtree application configuration.
package config

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/mdtree/internal/utils"
)

const (
	// gitDirectoryPattern represents the pattern that matches the Git directory.
	gitDirectoryPattern = utils.GitDirectoryName + "/"

	commentPrefix        = "#"
	anchoredPrefix       = "/"
	anyDepthInfix        = "**/"
	loadIgnoreFileFormat = "loading %s from %s: %w"
)

// LoadIgnoreFilePatterns reads an ignore file and returns its patterns.
// Blank lines and comments are skipped; a missing file yields no patterns.
//
// #nosec G304
func LoadIgnoreFilePatterns(ignoreFilePath string) ([]string, error) {
	fileHandle, openFileError := os.Open(ignoreFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return nil, nil
		}
		return nil, openFileError
	}
	defer fileHandle.Close()

	var ignorePatterns []string
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}
		ignorePatterns = append(ignorePatterns, trimmedLine)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, scanError
	}
	return ignorePatterns, nil
}

// LoadGlobalGitIgnorePatterns returns the patterns of the user's global Git
// ignore file. They are not prefixed, so they apply at any depth.
func LoadGlobalGitIgnorePatterns(homeDirectory string) ([]string, error) {
	if homeDirectory == "" {
		return nil, nil
	}
	globalPatterns, loadError := LoadIgnoreFilePatterns(filepath.Join(homeDirectory, utils.GlobalGitIgnoreFileName))
	if loadError != nil {
		return nil, fmt.Errorf(loadIgnoreFileFormat, utils.GlobalGitIgnoreFileName, homeDirectory, loadError)
	}
	return globalPatterns, nil
}

// LoadRecursiveIgnorePatterns walks rootDirectoryPath and aggregates the
// patterns of every utils.IgnoreFileName and utils.GitIgnoreFileName it
// finds. Patterns from a nested directory are scoped to that directory: a
// bare name matches at any depth below it, anything containing a slash is
// anchored to it. The directory named utils.GitDirectoryName is ignored
// unless includeGit is true. The provided exclusionPatterns are appended.
func LoadRecursiveIgnorePatterns(rootDirectoryPath string, exclusionPatterns []string, useGitignore bool, useIgnoreFile bool, includeGit bool) ([]string, error) {
	var aggregatedPatterns []string
	var ignoreFileNames []string
	if useIgnoreFile {
		ignoreFileNames = append(ignoreFileNames, utils.IgnoreFileName)
	}
	if useGitignore {
		ignoreFileNames = append(ignoreFileNames, utils.GitIgnoreFileName)
	}

	walkFunction := func(currentDirectoryPath string, directoryEntry fs.DirEntry, walkError error) error {
		if walkError != nil {
			return walkError
		}
		if !directoryEntry.IsDir() {
			return nil
		}
		if !includeGit && directoryEntry.Name() == utils.GitDirectoryName {
			return filepath.SkipDir
		}

		relativeDirectory := utils.RelativePathOrSelf(currentDirectoryPath, rootDirectoryPath)
		for _, ignoreFileName := range ignoreFileNames {
			filePatterns, loadError := LoadIgnoreFilePatterns(filepath.Join(currentDirectoryPath, ignoreFileName))
			if loadError != nil {
				return fmt.Errorf(loadIgnoreFileFormat, ignoreFileName, currentDirectoryPath, loadError)
			}
			for _, pattern := range filePatterns {
				aggregatedPatterns = append(aggregatedPatterns, scopePattern(relativeDirectory, pattern))
			}
		}
		return nil
	}

	if walkError := filepath.WalkDir(rootDirectoryPath, walkFunction); walkError != nil {
		return nil, walkError
	}

	if !includeGit {
		aggregatedPatterns = append(aggregatedPatterns, gitDirectoryPattern)
	}
	return AppendExclusions(utils.DeduplicatePatterns(aggregatedPatterns), exclusionPatterns), nil
}

// AppendExclusions appends trimmed, non-empty exclusion patterns that are not
// already present.
func AppendExclusions(patterns []string, exclusionPatterns []string) []string {
	for _, pattern := range exclusionPatterns {
		trimmedPattern := strings.TrimSpace(pattern)
		if trimmedPattern == "" {
			continue
		}
		if !utils.ContainsString(patterns, trimmedPattern) {
			patterns = append(patterns, trimmedPattern)
		}
	}
	return patterns
}

// scopePattern prefixes a pattern read in a nested directory with that
// directory's relative path.
func scopePattern(relativeDirectory string, pattern string) string {
	if relativeDirectory == "." {
		return pattern
	}
	prefix := relativeDirectory + "/"
	if strings.HasPrefix(pattern, anchoredPrefix) {
		return prefix + strings.TrimPrefix(pattern, anchoredPrefix)
	}
	if strings.Contains(strings.TrimSuffix(pattern, "/"), "/") {
		return prefix + pattern
	}
	return prefix + anyDepthInfix + pattern
}
