// Package config loads ignore lists, optional header/footer text and application settings.
package config

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/temirov/projsnap/internal/utils"
)

const (
	warningCloseFormat      = "Warning: failed to close %s: %v\n"
	errorReadIgnoreFormat   = "reading ignore file %s: %w"
	errorReadOptionalFormat = "reading %s: %w"
)

// IgnorePatternSet holds exact root-relative paths. It is read-only once loaded.
type IgnorePatternSet struct {
	normalizedPatterns map[string]struct{}
	originalPatterns   []string
}

// NewIgnorePatternSet builds a set from raw pattern strings, trimming whitespace and
// skipping blanks, comments and duplicates.
func NewIgnorePatternSet(patterns []string) IgnorePatternSet {
	patternSet := IgnorePatternSet{normalizedPatterns: make(map[string]struct{})}
	for _, pattern := range patterns {
		patternSet.add(pattern)
	}
	return patternSet
}

func (patternSet *IgnorePatternSet) add(rawPattern string) {
	trimmedPattern := strings.TrimSpace(rawPattern)
	if trimmedPattern == "" || strings.HasPrefix(trimmedPattern, utils.IgnoreCommentPrefix) {
		return
	}
	normalizedPattern := utils.NormalizeMatchPath(trimmedPattern)
	if _, exists := patternSet.normalizedPatterns[normalizedPattern]; exists {
		return
	}
	patternSet.normalizedPatterns[normalizedPattern] = struct{}{}
	patternSet.originalPatterns = append(patternSet.originalPatterns, trimmedPattern)
}

// Matches reports whether relativePath equals one of the patterns exactly.
// Wildcards carry no special meaning.
func (patternSet IgnorePatternSet) Matches(relativePath string) bool {
	if len(patternSet.normalizedPatterns) == 0 {
		return false
	}
	_, matched := patternSet.normalizedPatterns[utils.NormalizeMatchPath(relativePath)]
	return matched
}

// Len returns the number of distinct patterns.
func (patternSet IgnorePatternSet) Len() int {
	return len(patternSet.originalPatterns)
}

// Patterns returns the distinct patterns in sorted order.
func (patternSet IgnorePatternSet) Patterns() []string {
	patterns := append([]string(nil), patternSet.originalPatterns...)
	sort.Strings(patterns)
	return patterns
}

// LoadIgnorePatterns reads the ignore list at ignoreFilePath. A missing file yields an
// empty set and no error.
//
// #nosec G304
func LoadIgnorePatterns(ignoreFilePath string) (IgnorePatternSet, error) {
	patternSet := NewIgnorePatternSet(nil)
	fileHandle, openFileError := os.Open(ignoreFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return patternSet, nil
		}
		return IgnorePatternSet{}, fmt.Errorf(errorReadIgnoreFormat, ignoreFilePath, openFileError)
	}
	defer func() {
		if closeError := fileHandle.Close(); closeError != nil {
			fmt.Fprintf(os.Stderr, warningCloseFormat, ignoreFilePath, closeError)
		}
	}()

	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		patternSet.add(scanner.Text())
	}
	if scanError := scanner.Err(); scanError != nil {
		return IgnorePatternSet{}, fmt.Errorf(errorReadIgnoreFormat, ignoreFilePath, scanError)
	}
	return patternSet, nil
}

// ReadOptionalText returns the whitespace-trimmed content of the file at path, or an
// empty string when the file does not exist.
//
// #nosec G304
func ReadOptionalText(path string) (string, error) {
	content, readError := os.ReadFile(path)
	if readError != nil {
		if os.IsNotExist(readError) {
			return "", nil
		}
		return "", fmt.Errorf(errorReadOptionalFormat, path, readError)
	}
	return strings.TrimSpace(string(content)), nil
}
