package gitignore

import (
	"bufio"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/dircat/dircat/internal/types"
	"github.com/dircat/dircat/internal/utils"
)

const ruleCommentPrefix = "#"

// RuleStore loads .gitignore files found under a root directory and answers
// ignore queries against the ancestor-accumulated rule list of any path below
// that root. Raw per-directory rules and accumulated per-parent rule lists are
// both cached for the lifetime of the store; reads are lock-shared so
// concurrent workers pay only for the first computation of each directory.
type RuleStore struct {
	rootPath string
	matcher  *MatcherCache
	logger   *zap.Logger

	directoryRulesMutex sync.RWMutex
	directoryRules      map[string][]string

	accumulatedRulesMutex sync.RWMutex
	accumulatedRules      map[string][]types.Rule
}

// NewRuleStore constructs a RuleStore for the given absolute root directory.
func NewRuleStore(rootPath string, matcher *MatcherCache, logger *zap.Logger) *RuleStore {
	return &RuleStore{
		rootPath:         utils.NormalizePath(rootPath),
		matcher:          matcher,
		logger:           logger,
		directoryRules:   map[string][]string{},
		accumulatedRules: map[string][]types.Rule{},
	}
}

// Preload discovers every .gitignore file under the root eagerly, pruning
// directories that are already ignored by rules collected so far. With
// recursive disabled only the root-level .gitignore is considered.
// Filesystem errors on individual entries abandon that subtree and continue.
func (store *RuleStore) Preload(ctx context.Context, recursive bool) {
	rootGitignorePath := filepath.Join(store.rootPath, types.GitIgnoreFileName)
	if _, statError := os.Stat(rootGitignorePath); statError == nil {
		store.loadRuleFile(store.rootPath, rootGitignorePath)
	}
	if !recursive {
		return
	}

	walkError := filepath.WalkDir(store.rootPath, func(walkedPath string, directoryEntry fs.DirEntry, accessError error) error {
		if ctx.Err() != nil {
			return filepath.SkipAll
		}
		if accessError != nil {
			if store.logger != nil {
				store.logger.Warn("filesystem error while scanning for .gitignore files",
					zap.String("path", walkedPath), zap.Error(accessError))
			}
			if directoryEntry != nil && directoryEntry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if directoryEntry.IsDir() {
			if directoryEntry.Name() == types.GitDirectoryName {
				return filepath.SkipDir
			}
			if utils.NormalizePath(walkedPath) != store.rootPath && store.IsIgnored(walkedPath, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if directoryEntry.Name() == types.GitIgnoreFileName {
			store.loadRuleFile(filepath.Dir(walkedPath), walkedPath)
		}
		return nil
	})
	if walkError != nil && store.logger != nil {
		store.logger.Warn("error scanning for .gitignore files", zap.Error(walkError))
	}
}

// loadRuleFile reads one .gitignore file into the per-directory cache. Blank
// lines and comment lines are discarded, remaining lines are trimmed. Missing
// or unreadable files are cached as empty so the filesystem is probed once.
func (store *RuleStore) loadRuleFile(owningDirectory string, gitignorePath string) {
	directoryKey := utils.NormalizePath(owningDirectory)

	store.directoryRulesMutex.RLock()
	_, alreadyLoaded := store.directoryRules[directoryKey]
	store.directoryRulesMutex.RUnlock()
	if alreadyLoaded {
		return
	}

	var ruleLines []string
	fileHandle, openError := os.Open(gitignorePath)
	if openError == nil {
		lineScanner := bufio.NewScanner(fileHandle)
		for lineScanner.Scan() {
			trimmedLine := strings.TrimSpace(lineScanner.Text())
			if trimmedLine == "" || strings.HasPrefix(trimmedLine, ruleCommentPrefix) {
				continue
			}
			ruleLines = append(ruleLines, trimmedLine)
		}
		if scanError := lineScanner.Err(); scanError != nil && store.logger != nil {
			store.logger.Warn("failed to read .gitignore",
				zap.String("path", gitignorePath), zap.Error(scanError))
		}
		if closeError := fileHandle.Close(); closeError != nil && store.logger != nil {
			store.logger.Warn("failed to close .gitignore",
				zap.String("path", gitignorePath), zap.Error(closeError))
		}
	}

	store.directoryRulesMutex.Lock()
	if _, loadedMeanwhile := store.directoryRules[directoryKey]; !loadedMeanwhile {
		store.directoryRules[directoryKey] = ruleLines
	}
	store.directoryRulesMutex.Unlock()
}

// EffectiveRules returns the ancestor-accumulated rule list applying to the
// provided absolute path: root-level rules first, nearest-ancestor rules last,
// so that a later match overrides an earlier one. The accumulated list is
// cached per parent directory.
func (store *RuleStore) EffectiveRules(absolutePath string) []types.Rule {
	parentDirectoryKey := utils.NormalizePath(filepath.Dir(absolutePath))

	store.accumulatedRulesMutex.RLock()
	cachedRules, foundInCache := store.accumulatedRules[parentDirectoryKey]
	store.accumulatedRulesMutex.RUnlock()
	if foundInCache {
		return cachedRules
	}

	var accumulatedRules []types.Rule
	currentDirectory := parentDirectoryKey
	for {
		store.directoryRulesMutex.RLock()
		directoryRuleLines := store.directoryRules[currentDirectory]
		store.directoryRulesMutex.RUnlock()

		if len(directoryRuleLines) > 0 {
			directoryRules := make([]types.Rule, 0, len(directoryRuleLines))
			for _, ruleLine := range directoryRuleLines {
				pattern, isNegation := SplitNegation(ruleLine)
				if pattern == "" {
					continue
				}
				directoryRules = append(directoryRules, types.Rule{Pattern: pattern, IsNegation: isNegation})
			}
			accumulatedRules = append(directoryRules, accumulatedRules...)
		}

		if currentDirectory == store.rootPath {
			break
		}
		parentDirectory := utils.NormalizePath(filepath.Dir(currentDirectory))
		if parentDirectory == currentDirectory {
			break
		}
		currentDirectory = parentDirectory
	}

	store.accumulatedRulesMutex.Lock()
	if existingRules, computedMeanwhile := store.accumulatedRules[parentDirectoryKey]; computedMeanwhile {
		accumulatedRules = existingRules
	} else {
		store.accumulatedRules[parentDirectoryKey] = accumulatedRules
	}
	store.accumulatedRulesMutex.Unlock()
	return accumulatedRules
}

// IsIgnored evaluates every effective rule against the path's relative form
// and reports the decision of the last matching rule; a winning negation rule
// re-admits the path. Directory rules are tested against both the bare
// relative path and the path with a trailing slash appended, so "build/"
// covers the directory entry itself as well as everything beneath it.
func (store *RuleStore) IsIgnored(absolutePath string, isDirectory bool) bool {
	effectiveRules := store.EffectiveRules(absolutePath)
	if len(effectiveRules) == 0 {
		return false
	}

	relativePath := utils.RelativePathOrSelf(absolutePath, store.rootPath)
	if relativePath == "." {
		return false
	}

	ignored := false
	for _, currentRule := range effectiveRules {
		matched := false
		if IsDirectoryPattern(currentRule.Pattern) {
			matched = store.matcher.Matches(relativePath, currentRule.Pattern) ||
				store.matcher.Matches(relativePath+"/", currentRule.Pattern)
		} else {
			matched = store.matcher.Matches(relativePath, currentRule.Pattern)
		}
		if matched {
			ignored = !currentRule.IsNegation
		}
	}
	return ignored
}
