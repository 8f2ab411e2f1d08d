// Package utils contains general helper functions shared by the mdtree commands.
package utils

import (
	"path/filepath"
	"strings"
)

// Ignore file constants used across the project.
const (
	// IgnoreFileName is the name of the project's ignore file.
	IgnoreFileName = ".ignore"
	// GitIgnoreFileName is the name of the Git ignore file.
	GitIgnoreFileName = ".gitignore"
	// GlobalGitIgnoreFileName is the user-wide Git ignore file in the home directory.
	GlobalGitIgnoreFileName = ".gitignore_global"
	// ExclusionPrefix marks patterns that exclude a path prefix from processing.
	ExclusionPrefix = "EXCL:"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
)

const (
	pathSegmentSeparator = "/"
	anyDepthSegment      = "**"
	negationPrefix       = "!"
)

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// ContainsString checks if a slice of strings contains a specific target string.
func ContainsString(stringSlice []string, targetString string) bool {
	for _, currentString := range stringSlice {
		if currentString == targetString {
			return true
		}
	}
	return false
}

// RelativePathOrSelf calculates the relative path from root to fullPath.
// Returns the cleaned fullPath if relative calculation fails.
// Returns "." if fullPath and root resolve to the same directory.
func RelativePathOrSelf(fullPath, root string) string {
	cleanPath := filepath.Clean(fullPath)
	absoluteRoot, err := filepath.Abs(root)
	if err != nil {
		return cleanPath
	}
	cleanAbsoluteRoot := filepath.Clean(absoluteRoot)

	if cleanPath == cleanAbsoluteRoot {
		return "."
	}

	relativePath, relErr := filepath.Rel(cleanAbsoluteRoot, cleanPath)
	if relErr != nil {
		return cleanPath
	}
	return filepath.ToSlash(relativePath)
}

// ShouldIgnoreByPath reports whether a path relative to the traversal root is
// excluded by any of the ignore patterns. Paths and patterns are compared in
// forward-slash form, one segment at a time with filepath.Match semantics.
//
// A pattern matches a path when it matches a leading run of the path's
// segments, so excluding a directory excludes everything beneath it. A pattern
// made of a single segment and not anchored by a leading slash may start at
// any depth. A "**" segment spans any number of segments. Patterns prefixed
// with ExclusionPrefix are always anchored at the root. Negated patterns are
// not supported and never match.
func ShouldIgnoreByPath(relativePath string, ignorePatterns []string) bool {
	pathSegments := splitSegments(relativePath)
	if len(pathSegments) == 0 {
		return false
	}
	for _, patternValue := range ignorePatterns {
		if matchesIgnorePattern(pathSegments, patternValue) {
			return true
		}
	}
	return false
}

func matchesIgnorePattern(pathSegments []string, patternValue string) bool {
	normalizedPattern := strings.TrimSpace(strings.ReplaceAll(patternValue, "\\", pathSegmentSeparator))
	if normalizedPattern == "" || strings.HasPrefix(normalizedPattern, negationPrefix) {
		return false
	}
	if strings.HasPrefix(normalizedPattern, ExclusionPrefix) {
		exclusionSegments := splitSegments(strings.TrimPrefix(normalizedPattern, ExclusionPrefix))
		return len(exclusionSegments) > 0 && segmentsMatch(pathSegments, exclusionSegments)
	}

	isAnchored := strings.HasPrefix(normalizedPattern, pathSegmentSeparator)
	patternSegments := splitSegments(normalizedPattern)
	if len(patternSegments) == 0 {
		return false
	}
	if len(patternSegments) == 1 && !isAnchored {
		patternSegments = append([]string{anyDepthSegment}, patternSegments...)
	}
	return segmentsMatch(pathSegments, patternSegments)
}

// segmentsMatch reports whether the pattern segments match a leading run of
// the path segments.
func segmentsMatch(pathSegments, patternSegments []string) bool {
	if len(patternSegments) == 0 {
		return true
	}
	if patternSegments[0] == anyDepthSegment {
		for skipped := 0; skipped <= len(pathSegments); skipped++ {
			if segmentsMatch(pathSegments[skipped:], patternSegments[1:]) {
				return true
			}
		}
		return false
	}
	if len(pathSegments) == 0 {
		return false
	}
	isMatched, matchError := filepath.Match(patternSegments[0], pathSegments[0])
	if matchError != nil || !isMatched {
		return false
	}
	return segmentsMatch(pathSegments[1:], patternSegments[1:])
}

func splitSegments(value string) []string {
	normalized := strings.ReplaceAll(value, "\\", pathSegmentSeparator)
	var segments []string
	for _, segment := range strings.Split(normalized, pathSegmentSeparator) {
		if segment == "" || segment == "." {
			continue
		}
		segments = append(segments, segment)
	}
	return segments
}
