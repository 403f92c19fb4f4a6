// Package utils contains general helper functions shared across the dircat tool.
package utils

import (
	"path/filepath"
	"strings"
)

// NormalizePath cleans a path lexically and converts separators to forward slashes.
// All cache keys and pattern comparisons operate on this form.
func NormalizePath(path string) string {
	return filepath.ToSlash(filepath.Clean(path))
}

// RelativePathOrSelf calculates the forward-slash relative path from root to
// fullPath. It returns the cleaned fullPath if relative calculation fails and
// "." when both resolve to the same location.
func RelativePathOrSelf(fullPath string, root string) string {
	cleanedPath := filepath.Clean(fullPath)
	cleanedRoot := filepath.Clean(root)

	if cleanedPath == cleanedRoot {
		return "."
	}

	relativePath, relativeError := filepath.Rel(cleanedRoot, cleanedPath)
	if relativeError != nil {
		return filepath.ToSlash(cleanedPath)
	}
	return filepath.ToSlash(relativePath)
}

// ExtensionWithoutDot returns the lowercase extension of path without the
// leading dot, or an empty string when the path has none.
func ExtensionWithoutDot(path string) string {
	extension := filepath.Ext(path)
	if len(extension) <= 1 {
		return ""
	}
	return strings.ToLower(extension[1:])
}

// PathHasComponent reports whether any forward-slash segment of the provided
// path equals the component name.
func PathHasComponent(path string, component string) bool {
	for _, pathSegment := range strings.Split(filepath.ToSlash(path), "/") {
		if pathSegment == component {
			return true
		}
	}
	return false
}
