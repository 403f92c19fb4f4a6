// Package collect walks the input tree and decides which files take part in a
// run, splitting them into the normal set and the caller-deferred last set.
package collect

import (
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/dircat/dircat/internal/gitignore"
	"github.com/dircat/dircat/internal/types"
	"github.com/dircat/dircat/internal/utils"
)

// FileFilter composes the gitignore store with size, explicit-ignore and
// filename-regex checks into a single admit/reject decision per path.
// Filename regexes are compiled once at construction; a malformed pattern is
// reported as a warning and behaves as never matching.
type FileFilter struct {
	config             types.Config
	ruleStore          *gitignore.RuleStore
	logger             *zap.Logger
	excludeExpressions []*regexp.Regexp
	includeExpressions []*regexp.Regexp
}

// NewFileFilter constructs a FileFilter over the provided rule store.
func NewFileFilter(config types.Config, ruleStore *gitignore.RuleStore, logger *zap.Logger) *FileFilter {
	return &FileFilter{
		config:             config,
		ruleStore:          ruleStore,
		logger:             logger,
		excludeExpressions: compileFilenameExpressions(config.ExcludeFilenameRegexes, false, logger),
		includeExpressions: compileFilenameExpressions(config.IncludeFilenameRegexes, true, logger),
	}
}

// compileFilenameExpressions compiles the configured filename patterns.
// Include patterns are anchored so they must cover the entire filename;
// exclude patterns keep search semantics.
func compileFilenameExpressions(patterns []string, anchorFullMatch bool, logger *zap.Logger) []*regexp.Regexp {
	compiledExpressions := make([]*regexp.Regexp, 0, len(patterns))
	for _, patternText := range patterns {
		expressionSource := patternText
		if anchorFullMatch {
			expressionSource = `\A(?:` + patternText + `)\z`
		}
		compiledExpression, compileError := regexp.Compile(expressionSource)
		if compileError != nil {
			if logger != nil {
				logger.Warn("invalid filename regex, treating as never matching",
					zap.String("pattern", patternText), zap.Error(compileError))
			}
			continue
		}
		compiledExpressions = append(compiledExpressions, compiledExpression)
	}
	return compiledExpressions
}

// ExtensionAllowed applies the extension allow and deny lists. A file without
// an extension is acceptable only while no allow list is configured.
func (filter *FileFilter) ExtensionAllowed(absolutePath string) bool {
	extension := utils.ExtensionWithoutDot(absolutePath)
	if extension == "" {
		return len(filter.config.AllowedExtensions) == 0
	}
	for _, excludedExtension := range filter.config.ExcludedExtensions {
		if extension == excludedExtension {
			return false
		}
	}
	if len(filter.config.AllowedExtensions) == 0 {
		return true
	}
	for _, allowedExtension := range filter.config.AllowedExtensions {
		if extension == allowedExtension {
			return true
		}
	}
	return false
}

// ShouldIgnoreFolder reports whether traversal must prune the directory
// entirely: either a gitignore rule excludes it or it falls under an explicit
// folder ignore entry.
func (filter *FileFilter) ShouldIgnoreFolder(candidate types.CandidatePath) bool {
	if utils.PathHasComponent(candidate.RelativePath, types.GitDirectoryName) {
		return true
	}
	if !filter.config.DisableGitignore && filter.ruleStore.IsIgnored(candidate.AbsolutePath, true) {
		return true
	}
	for _, ignoredFolder := range filter.config.IgnoredFolders {
		normalizedFolder := strings.TrimSuffix(utils.NormalizePath(ignoredFolder), "/")
		if normalizedFolder == "" || normalizedFolder == "." {
			continue
		}
		if candidate.RelativePath == normalizedFolder ||
			strings.HasPrefix(candidate.RelativePath, normalizedFolder+"/") {
			return true
		}
	}
	return false
}

// ShouldIgnoreFile runs the per-file decision chain, short-circuiting on the
// first rejecting check: always-ignored names, gitignore rules, the size
// ceiling, explicit ignore entries, exclude regexes, then include regexes.
func (filter *FileFilter) ShouldIgnoreFile(candidate types.CandidatePath, fileSize int64) bool {
	fileName := filepath.Base(candidate.AbsolutePath)
	if fileName == types.GitIgnoreFileName || utils.PathHasComponent(candidate.RelativePath, types.GitDirectoryName) {
		return true
	}

	if !filter.config.DisableGitignore && filter.ruleStore.IsIgnored(candidate.AbsolutePath, false) {
		return true
	}

	if filter.config.MaxFileSizeBytes > 0 && fileSize > filter.config.MaxFileSizeBytes {
		return true
	}

	for _, ignoredEntry := range filter.config.IgnoredFiles {
		normalizedEntry := utils.NormalizePath(ignoredEntry)
		if strings.Contains(normalizedEntry, "/") {
			if candidate.RelativePath == normalizedEntry {
				return true
			}
		} else if fileName == normalizedEntry {
			return true
		}
	}

	for _, excludeExpression := range filter.excludeExpressions {
		if excludeExpression.MatchString(fileName) {
			return true
		}
	}

	if len(filter.config.IncludeFilenameRegexes) > 0 {
		for _, includeExpression := range filter.includeExpressions {
			if includeExpression.MatchString(fileName) {
				return false
			}
		}
		return true
	}
	return false
}
