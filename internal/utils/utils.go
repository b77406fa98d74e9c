// Package utils contains general helper functions used across projsnap.
package utils

import (
	"path/filepath"
	"runtime"
	"strings"
)

const (
	pathSegmentSeparator   = "/"
	windowsOperatingSystem = "windows"
)

// caseInsensitivePaths reports whether path comparisons ignore case on this platform.
var caseInsensitivePaths = runtime.GOOS == windowsOperatingSystem

// NormalizeMatchPath prepares a relative path or an ignore pattern for exact comparison.
// Separators are unified to forward slashes; case is folded only where the platform
// treats paths case-insensitively.
func NormalizeMatchPath(path string) string {
	normalizedPath := strings.ReplaceAll(path, "\\", pathSegmentSeparator)
	if caseInsensitivePaths {
		normalizedPath = strings.ToLower(normalizedPath)
	}
	return normalizedPath
}

// RelativePathOrSelf calculates the relative path from root to fullPath using the
// platform separator. Returns the cleaned fullPath if relative calculation fails and
// "." if both resolve to the same directory.
func RelativePathOrSelf(fullPath, root string) string {
	cleanPath := filepath.Clean(fullPath)
	cleanRoot := filepath.Clean(root)
	if cleanPath == cleanRoot {
		return "."
	}
	relativePath, relErr := filepath.Rel(cleanRoot, cleanPath)
	if relErr != nil {
		return cleanPath
	}
	return relativePath
}

// IsHiddenName reports whether a directory entry name is a dot-entry.
func IsHiddenName(entryName string) bool {
	return strings.HasPrefix(entryName, HiddenEntryPrefix)
}

// SplitContentLines splits text into lines on "\n", "\r\n" and "\r". A single trailing
// terminator does not produce an empty final line.
func SplitContentLines(text string) []string {
	normalizedText := strings.ReplaceAll(text, "\r\n", "\n")
	normalizedText = strings.ReplaceAll(normalizedText, "\r", "\n")
	normalizedText = strings.TrimSuffix(normalizedText, "\n")
	return strings.Split(normalizedText, "\n")
}
