// Package config turns raw command-line options and the optional defaults
// file into a validated, immutable run configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dircat/dircat/internal/types"
	"github.com/dircat/dircat/internal/utils"
)

const directorySuffix = "/"

// Options carries raw flag values exactly as the CLI collected them. Build
// validates them into a types.Config; every violation found here is a fatal
// configuration error reported before any traversal begins.
type Options struct {
	Path               string
	MaxSizeLiteral     string
	NoRecursive        bool
	Extensions         []string
	ExcludedExtensions []string
	IgnoreEntries      []string
	ExcludeRegexes     []string
	IncludeRegexes     []string
	RemoveComments     bool
	RemoveEmptyLines   bool
	FilenameOnly       bool
	LineNumbers        bool
	NoGitignore        bool
	LastEntries        []string
	OnlyLast           bool
	OutputPath         string
	DryRun             bool
	CopyToClipboard    bool
	CountTokens        bool
	TokenizerModel     string
}

// Build validates the options and produces the immutable run configuration.
func Build(options Options) (types.Config, error) {
	absolutePath, absoluteError := filepath.Abs(options.Path)
	if absoluteError != nil {
		return types.Config{}, fmt.Errorf("invalid input path %q: %w", options.Path, absoluteError)
	}
	pathInformation, statError := os.Stat(absolutePath)
	if statError != nil {
		return types.Config{}, fmt.Errorf("input path does not exist: %s", utils.NormalizePath(absolutePath))
	}

	var maxFileSizeBytes int64
	if options.MaxSizeLiteral != "" {
		parsedSize, parseError := utils.ParseSizeLimit(options.MaxSizeLiteral)
		if parseError != nil {
			return types.Config{}, parseError
		}
		maxFileSizeBytes = parsedSize
	}

	ignoredFolders, ignoredFiles := splitDirectoryEntries(options.IgnoreEntries)
	lastDirectories, lastFiles := splitDirectoryEntries(options.LastEntries)

	if options.OnlyLast && len(lastDirectories) == 0 && len(lastFiles) == 0 {
		return types.Config{}, fmt.Errorf("--only-last specified, but no items provided via --last")
	}
	if options.OnlyLast && !pathInformation.IsDir() {
		return types.Config{}, fmt.Errorf("--only-last requires the input path to be a directory")
	}

	return types.Config{
		RootPath:               absolutePath,
		RecursiveSearch:        !options.NoRecursive,
		MaxFileSizeBytes:       maxFileSizeBytes,
		AllowedExtensions:      normalizeExtensions(options.Extensions),
		ExcludedExtensions:     normalizeExtensions(options.ExcludedExtensions),
		IgnoredFolders:         ignoredFolders,
		IgnoredFiles:           ignoredFiles,
		ExcludeFilenameRegexes: options.ExcludeRegexes,
		IncludeFilenameRegexes: options.IncludeRegexes,
		DisableGitignore:       options.NoGitignore,
		LastFiles:              lastFiles,
		LastDirectories:        lastDirectories,
		OnlyLast:               options.OnlyLast,
		RemoveComments:         options.RemoveComments,
		RemoveEmptyLines:       options.RemoveEmptyLines,
		ShowFilenameOnly:       options.FilenameOnly,
		ShowLineNumbers:        options.LineNumbers,
		DryRun:                 options.DryRun,
		OutputPath:             options.OutputPath,
		CopyToClipboard:        options.CopyToClipboard,
		CountTokens:            options.CountTokens,
		TokenizerModel:         options.TokenizerModel,
	}, nil
}

// splitDirectoryEntries partitions mixed file-or-directory entries: a
// trailing slash marks a directory. Both groups keep declaration order and
// are stored in normalized forward-slash form without the trailing slash.
func splitDirectoryEntries(mixedEntries []string) ([]string, []string) {
	var directoryEntries []string
	var fileEntries []string
	for _, rawEntry := range mixedEntries {
		trimmedEntry := strings.TrimSpace(rawEntry)
		if trimmedEntry == "" {
			continue
		}
		if strings.HasSuffix(filepath.ToSlash(trimmedEntry), directorySuffix) {
			directoryEntries = append(directoryEntries, utils.NormalizePath(trimmedEntry))
		} else {
			fileEntries = append(fileEntries, utils.NormalizePath(trimmedEntry))
		}
	}
	return directoryEntries, fileEntries
}

// normalizeExtensions lowercases extensions and strips a leading dot.
func normalizeExtensions(rawExtensions []string) []string {
	var normalizedExtensions []string
	for _, rawExtension := range rawExtensions {
		cleanedExtension := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(rawExtension), "."))
		if cleanedExtension == "" {
			continue
		}
		normalizedExtensions = append(normalizedExtensions, cleanedExtension)
	}
	return normalizedExtensions
}
