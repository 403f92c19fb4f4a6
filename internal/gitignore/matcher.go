// Package gitignore implements a deliberately simplified gitignore-style
// pattern engine: patterns are translated into regular expressions and
// evaluated against forward-slash relative paths with last-match-wins
// semantics. Character classes and the subtler "**" edge cases of full Git
// are out of scope; patterns containing them are treated literally.
package gitignore

import (
	"regexp"
	"strings"
	"sync"

	"go.uber.org/zap"
)

const (
	negationPrefix     = "!"
	directorySuffix    = "/"
	caseInsensitiveTag = "(?i)"
)

// MatcherCache compiles gitignore-style patterns into regular expressions and
// caches the result keyed by the raw pattern text. A pattern that fails to
// compile is cached as a never-matching predicate and reported once as a
// warning. The cache is safe for concurrent use by multiple workers.
type MatcherCache struct {
	logger          *zap.Logger
	cacheMutex      sync.RWMutex
	compiledEntries map[string]*regexp.Regexp
}

// NewMatcherCache constructs an empty MatcherCache reporting through logger.
func NewMatcherCache(logger *zap.Logger) *MatcherCache {
	return &MatcherCache{
		logger:          logger,
		compiledEntries: map[string]*regexp.Regexp{},
	}
}

// Matches reports whether the normalized relative path matches the provided
// pattern. The pattern must not carry a negation prefix; negation is the
// caller's concern. Matching is case-insensitive and uses search semantics,
// so an unanchored pattern may match at any path-segment boundary.
func (cache *MatcherCache) Matches(normalizedRelativePath string, pattern string) bool {
	if pattern == "" {
		return false
	}
	compiledExpression := cache.lookupOrCompile(pattern)
	if compiledExpression == nil {
		return false
	}
	return compiledExpression.MatchString(normalizedRelativePath)
}

// lookupOrCompile returns the cached expression for pattern, compiling and
// caching it on first use. A nil return means the pattern is unusable.
func (cache *MatcherCache) lookupOrCompile(pattern string) *regexp.Regexp {
	cache.cacheMutex.RLock()
	cachedExpression, alreadyCompiled := cache.compiledEntries[pattern]
	cache.cacheMutex.RUnlock()
	if alreadyCompiled {
		return cachedExpression
	}

	cache.cacheMutex.Lock()
	defer cache.cacheMutex.Unlock()
	if existingExpression, compiledMeanwhile := cache.compiledEntries[pattern]; compiledMeanwhile {
		return existingExpression
	}

	compiledExpression, compileError := regexp.Compile(caseInsensitiveTag + TranslatePattern(pattern))
	if compileError != nil {
		if cache.logger != nil {
			cache.logger.Warn("invalid gitignore pattern, treating as never matching",
				zap.String("pattern", pattern), zap.Error(compileError))
		}
		compiledExpression = nil
	}
	cache.compiledEntries[pattern] = compiledExpression
	return compiledExpression
}

// TranslatePattern converts a gitignore-style pattern (without negation
// prefix) into a regular expression source string. A leading "/" anchors the
// pattern to the start of the relative path; otherwise it may match at any
// segment boundary. "**" matches across separators, "*" and "?" stop at
// separators, and a trailing "/" restricts the pattern to directory paths.
func TranslatePattern(pattern string) string {
	var expressionBuilder strings.Builder
	expressionBuilder.Grow(len(pattern) * 2)

	startPosition := 0
	if strings.HasPrefix(pattern, directorySuffix) {
		expressionBuilder.WriteString("^")
		startPosition = 1
	} else {
		expressionBuilder.WriteString("(^|/)")
	}

	isDirectoryPattern := strings.HasSuffix(pattern, directorySuffix)
	endPosition := len(pattern)
	if isDirectoryPattern {
		endPosition--
	}

	for characterIndex := startPosition; characterIndex < endPosition; characterIndex++ {
		currentCharacter := pattern[characterIndex]
		switch currentCharacter {
		case '*':
			if characterIndex+1 < endPosition && pattern[characterIndex+1] == '*' {
				expressionBuilder.WriteString(".*")
				characterIndex++
				if characterIndex+1 < endPosition && pattern[characterIndex+1] == '/' {
					characterIndex++
				}
			} else {
				expressionBuilder.WriteString("[^/]*")
			}
		case '?':
			expressionBuilder.WriteString("[^/]")
		case '.', '[', ']', '\\', '^', '$', '+', '(', ')', '{', '}', '|':
			expressionBuilder.WriteByte('\\')
			expressionBuilder.WriteByte(currentCharacter)
		default:
			expressionBuilder.WriteByte(currentCharacter)
		}
	}

	if isDirectoryPattern {
		expressionBuilder.WriteString("/")
	} else {
		expressionBuilder.WriteString("($|/)")
	}
	return expressionBuilder.String()
}

// SplitNegation strips the negation prefix from a raw rule line, reporting
// whether the rule was negated.
func SplitNegation(ruleLine string) (string, bool) {
	if strings.HasPrefix(ruleLine, negationPrefix) {
		return ruleLine[len(negationPrefix):], true
	}
	return ruleLine, false
}

// IsDirectoryPattern reports whether the pattern only applies to directories.
func IsDirectoryPattern(pattern string) bool {
	return strings.HasSuffix(pattern, directorySuffix)
}
