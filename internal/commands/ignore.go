package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/temirov/mdtree/internal/config"
	"github.com/temirov/mdtree/internal/utils"
)

const errorIgnorePatternsFormat = "loading ignore patterns for %s: %w"

// PathOptions selects the ignore sources of a traversal.
type PathOptions struct {
	Exclusions    []string
	UseGitignore  bool
	UseIgnoreFile bool
	IncludeGit    bool
	// HomeDirectory holds the global Git ignore file; empty skips it.
	HomeDirectory string
	// OutputPath is excluded from the traversal when it lies inside the root.
	OutputPath string
}

// ResolveIgnorePatterns assembles the ignore patterns for rootDirectoryPath:
// the nested ignore files, the global Git ignore file and the explicit
// exclusions, in that order.
func ResolveIgnorePatterns(rootDirectoryPath string, options PathOptions) ([]string, error) {
	patterns, loadError := config.LoadRecursiveIgnorePatterns(rootDirectoryPath, nil, options.UseGitignore, options.UseIgnoreFile, options.IncludeGit)
	if loadError != nil {
		return nil, fmt.Errorf(errorIgnorePatternsFormat, rootDirectoryPath, loadError)
	}
	if options.UseGitignore {
		globalPatterns, globalError := config.LoadGlobalGitIgnorePatterns(options.HomeDirectory)
		if globalError != nil {
			return nil, fmt.Errorf(errorIgnorePatternsFormat, rootDirectoryPath, globalError)
		}
		patterns = config.AppendExclusions(patterns, globalPatterns)
	}
	exclusions := append([]string{}, options.Exclusions...)
	if outputPattern, inside := outputExclusion(rootDirectoryPath, options.OutputPath); inside {
		exclusions = append(exclusions, outputPattern)
	}
	return config.AppendExclusions(patterns, exclusions), nil
}

// outputExclusion returns an anchored pattern for outputPath when it lies
// below rootDirectoryPath.
func outputExclusion(rootDirectoryPath string, outputPath string) (string, bool) {
	if outputPath == "" {
		return "", false
	}
	absoluteRoot, rootError := filepath.Abs(rootDirectoryPath)
	absoluteOutput, outputError := filepath.Abs(outputPath)
	if rootError != nil || outputError != nil {
		return "", false
	}
	relativeOutput := utils.RelativePathOrSelf(absoluteOutput, absoluteRoot)
	if relativeOutput == "." || relativeOutput == ".." || strings.HasPrefix(relativeOutput, "../") || filepath.IsAbs(relativeOutput) {
		return "", false
	}
	return utils.ExclusionPrefix + relativeOutput, true
}
