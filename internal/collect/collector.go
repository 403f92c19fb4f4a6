package collect

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/dircat/dircat/internal/gitignore"
	"github.com/dircat/dircat/internal/types"
	"github.com/dircat/dircat/internal/utils"
)

// Result partitions the qualifying files of a run. Both slices hold absolute
// paths; NormalFiles is sorted lexicographically, which fixes the original
// index used to restore output order after parallel processing. LastFiles is
// unordered here and sorted later by declared precedence.
type Result struct {
	NormalFiles []string
	LastFiles   []string
}

// Collector walks the configured root, applies the FileFilter and classifies
// every admitted file as normal or last.
type Collector struct {
	config    types.Config
	filter    *FileFilter
	ruleStore *gitignore.RuleStore
	logger    *zap.Logger
}

// NewCollector constructs a Collector. The rule store is preloaded during
// Collect unless gitignore processing is disabled.
func NewCollector(config types.Config, filter *FileFilter, ruleStore *gitignore.RuleStore, logger *zap.Logger) *Collector {
	return &Collector{config: config, filter: filter, ruleStore: ruleStore, logger: logger}
}

// Collect traverses the tree and returns the partitioned file sets. The
// context is polled between directory entries; once cancelled the partial
// result gathered so far is returned.
func (collector *Collector) Collect(ctx context.Context) Result {
	if !collector.config.DisableGitignore {
		collector.ruleStore.Preload(ctx, collector.config.RecursiveSearch)
	}

	collectedPaths := map[string]struct{}{}
	var result Result

	if collector.config.OnlyLast {
		result.LastFiles = collector.collectOnlyLast(ctx, collectedPaths)
		return result
	}

	if collector.config.RecursiveSearch {
		collector.walkRecursive(ctx, collector.config.RootPath, collectedPaths, &result)
	} else {
		collector.walkShallow(ctx, collectedPaths, &result)
	}

	sort.Strings(result.NormalFiles)
	return result
}

// walkRecursive performs the depth-first traversal, pruning ignored
// directories entirely rather than merely skipping their entries.
func (collector *Collector) walkRecursive(ctx context.Context, startDirectory string, collectedPaths map[string]struct{}, result *Result) {
	walkError := filepath.WalkDir(startDirectory, func(walkedPath string, directoryEntry fs.DirEntry, accessError error) error {
		if ctx.Err() != nil {
			return filepath.SkipAll
		}
		if accessError != nil {
			if collector.logger != nil {
				collector.logger.Warn("filesystem error during directory scan",
					zap.String("path", walkedPath), zap.Error(accessError))
			}
			if directoryEntry != nil && directoryEntry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		candidate := collector.candidateFor(walkedPath, directoryEntry.IsDir())
		if candidate.RelativePath == "." {
			return nil
		}
		if directoryEntry.IsDir() {
			if collector.filter.ShouldIgnoreFolder(candidate) {
				return filepath.SkipDir
			}
			return nil
		}
		if !directoryEntry.Type().IsRegular() {
			return nil
		}
		collector.admitFile(candidate, directoryEntry, collectedPaths, result)
		return nil
	})
	if walkError != nil && collector.logger != nil {
		collector.logger.Warn("error scanning directory",
			zap.String("path", startDirectory), zap.Error(walkError))
	}
}

// walkShallow visits only the immediate children of the root.
func (collector *Collector) walkShallow(ctx context.Context, collectedPaths map[string]struct{}, result *Result) {
	directoryEntries, readError := os.ReadDir(collector.config.RootPath)
	if readError != nil {
		if collector.logger != nil {
			collector.logger.Warn("error scanning directory",
				zap.String("path", collector.config.RootPath), zap.Error(readError))
		}
		return
	}
	for _, directoryEntry := range directoryEntries {
		if ctx.Err() != nil {
			return
		}
		if directoryEntry.IsDir() || !directoryEntry.Type().IsRegular() {
			continue
		}
		entryPath := filepath.Join(collector.config.RootPath, directoryEntry.Name())
		collector.admitFile(collector.candidateFor(entryPath, false), directoryEntry, collectedPaths, result)
	}
}

// collectOnlyLast bypasses the general walk and resolves the explicitly named
// last files and directories against the root. Unresolved entries are
// reported as errors and skipped; per-file filters still apply inside
// resolved directories.
func (collector *Collector) collectOnlyLast(ctx context.Context, collectedPaths map[string]struct{}) []string {
	var lastFiles []string

	for _, lastFileEntry := range collector.config.LastFiles {
		absolutePath := filepath.Join(collector.config.RootPath, lastFileEntry)
		fileInformation, statError := os.Stat(absolutePath)
		if statError != nil || !fileInformation.Mode().IsRegular() {
			if collector.logger != nil {
				collector.logger.Error("--only-last entry is not a regular file",
					zap.String("entry", lastFileEntry), zap.String("resolved", utils.NormalizePath(absolutePath)))
			}
			continue
		}
		pathKey := utils.NormalizePath(absolutePath)
		if _, alreadyCollected := collectedPaths[pathKey]; alreadyCollected {
			continue
		}
		collectedPaths[pathKey] = struct{}{}
		lastFiles = append(lastFiles, absolutePath)
	}

	for _, lastDirectoryEntry := range collector.config.LastDirectories {
		absoluteDirectory := filepath.Join(collector.config.RootPath, lastDirectoryEntry)
		directoryInformation, statError := os.Stat(absoluteDirectory)
		if statError != nil || !directoryInformation.IsDir() {
			if collector.logger != nil {
				collector.logger.Error("--only-last entry is not a directory",
					zap.String("entry", lastDirectoryEntry), zap.String("resolved", utils.NormalizePath(absoluteDirectory)))
			}
			continue
		}

		var directoryResult Result
		collector.walkRecursive(ctx, absoluteDirectory, collectedPaths, &directoryResult)
		lastFiles = append(lastFiles, directoryResult.NormalFiles...)
		lastFiles = append(lastFiles, directoryResult.LastFiles...)
	}

	return lastFiles
}

// admitFile applies the extension lists and the FileFilter, deduplicates and
// classifies the file. Files whose size cannot be determined are skipped.
func (collector *Collector) admitFile(candidate types.CandidatePath, directoryEntry fs.DirEntry, collectedPaths map[string]struct{}, result *Result) {
	pathKey := utils.NormalizePath(candidate.AbsolutePath)
	if _, alreadyCollected := collectedPaths[pathKey]; alreadyCollected {
		return
	}
	if !collector.filter.ExtensionAllowed(candidate.AbsolutePath) {
		return
	}

	entryInformation, informationError := directoryEntry.Info()
	if informationError != nil {
		if collector.logger != nil {
			collector.logger.Warn("cannot determine file size, skipping",
				zap.String("path", candidate.RelativePath), zap.Error(informationError))
		}
		return
	}
	if collector.filter.ShouldIgnoreFile(candidate, entryInformation.Size()) {
		return
	}

	collectedPaths[pathKey] = struct{}{}
	if collector.isLastFile(candidate) {
		result.LastFiles = append(result.LastFiles, candidate.AbsolutePath)
	} else {
		result.NormalFiles = append(result.NormalFiles, candidate.AbsolutePath)
	}
}

// isLastFile reports whether the candidate matches an explicit last-file
// entry by relative path or bare filename, or falls under a last directory.
func (collector *Collector) isLastFile(candidate types.CandidatePath) bool {
	fileName := filepath.Base(candidate.AbsolutePath)
	for _, lastFileEntry := range collector.config.LastFiles {
		normalizedEntry := utils.NormalizePath(lastFileEntry)
		if strings.Contains(normalizedEntry, "/") {
			if candidate.RelativePath == normalizedEntry {
				return true
			}
		} else if fileName == normalizedEntry {
			return true
		}
	}
	for _, lastDirectoryEntry := range collector.config.LastDirectories {
		normalizedDirectory := strings.TrimSuffix(utils.NormalizePath(lastDirectoryEntry), "/")
		if normalizedDirectory == "" {
			continue
		}
		if candidate.RelativePath == normalizedDirectory ||
			strings.HasPrefix(candidate.RelativePath, normalizedDirectory+"/") {
			return true
		}
	}
	return false
}

// candidateFor builds a CandidatePath with its cached relative form.
func (collector *Collector) candidateFor(absolutePath string, isDirectory bool) types.CandidatePath {
	return types.CandidatePath{
		AbsolutePath: absolutePath,
		RelativePath: utils.RelativePathOrSelf(absolutePath, collector.config.RootPath),
		IsDirectory:  isDirectory,
	}
}
