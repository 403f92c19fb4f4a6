package gitignore

import (
	"testing"

	"go.uber.org/zap"
)

// TestTranslatePattern verifies the pattern-to-regex translation rules.
func TestTranslatePattern(testingHandle *testing.T) {
	testCases := []struct {
		name               string
		pattern            string
		expectedExpression string
	}{
		{name: "simple star", pattern: "*.txt", expectedExpression: `(^|/)[^/]*\.txt($|/)`},
		{name: "anchored", pattern: "/build", expectedExpression: `^build($|/)`},
		{name: "directory only", pattern: "vendor/", expectedExpression: `(^|/)vendor/`},
		{name: "question mark", pattern: "a?c", expectedExpression: `(^|/)a[^/]c($|/)`},
		{name: "double star", pattern: "**/logs", expectedExpression: `(^|/).*logs($|/)`},
		{name: "escaped metacharacters", pattern: "a+b(c)", expectedExpression: `(^|/)a\+b\(c\)($|/)`},
	}

	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(subTest *testing.T) {
			translatedExpression := TranslatePattern(testCase.pattern)
			if translatedExpression != testCase.expectedExpression {
				subTest.Fatalf("TranslatePattern(%q) = %q, want %q", testCase.pattern, translatedExpression, testCase.expectedExpression)
			}
		})
	}
}

// TestMatcherCacheMatches verifies matching semantics against relative paths.
func TestMatcherCacheMatches(testingHandle *testing.T) {
	matcherCache := NewMatcherCache(zap.NewNop())

	testCases := []struct {
		name          string
		pattern       string
		relativePath  string
		expectedMatch bool
	}{
		{name: "star matches filename", pattern: "*.log", relativePath: "debug.log", expectedMatch: true},
		{name: "star matches in subdirectory", pattern: "*.log", relativePath: "sub/debug.log", expectedMatch: true},
		{name: "star does not cross separator", pattern: "*.log", relativePath: "debug.log.txt", expectedMatch: false},
		{name: "anchored pattern matches at root only", pattern: "/build", relativePath: "src/build", expectedMatch: false},
		{name: "anchored pattern at root", pattern: "/build", relativePath: "build/main.o", expectedMatch: true},
		{name: "unanchored matches at segment boundary", pattern: "build", relativePath: "src/build/main.o", expectedMatch: true},
		{name: "directory pattern needs trailing slash", pattern: "vendor/", relativePath: "vendor", expectedMatch: false},
		{name: "directory pattern matches descendants", pattern: "vendor/", relativePath: "vendor/x.cpp", expectedMatch: true},
		{name: "case insensitive", pattern: "*.TXT", relativePath: "notes.txt", expectedMatch: true},
		{name: "question mark single character", pattern: "a?c.txt", relativePath: "abc.txt", expectedMatch: true},
		{name: "question mark rejects separator", pattern: "a?c.txt", relativePath: "a/c.txt", expectedMatch: false},
	}

	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(subTest *testing.T) {
			actualMatch := matcherCache.Matches(testCase.relativePath, testCase.pattern)
			if actualMatch != testCase.expectedMatch {
				subTest.Fatalf("Matches(%q, %q) = %v, want %v", testCase.relativePath, testCase.pattern, actualMatch, testCase.expectedMatch)
			}
		})
	}
}

// TestMatcherCacheEmptyPattern verifies that an empty pattern never matches.
func TestMatcherCacheEmptyPattern(testingHandle *testing.T) {
	matcherCache := NewMatcherCache(zap.NewNop())
	if matcherCache.Matches("anything", "") {
		testingHandle.Fatal("empty pattern unexpectedly matched")
	}
}

// TestSplitNegation verifies negation prefix handling.
func TestSplitNegation(testingHandle *testing.T) {
	pattern, isNegation := SplitNegation("!keep.log")
	if !isNegation || pattern != "keep.log" {
		testingHandle.Fatalf("SplitNegation(%q) = (%q, %v)", "!keep.log", pattern, isNegation)
	}
	pattern, isNegation = SplitNegation("*.log")
	if isNegation || pattern != "*.log" {
		testingHandle.Fatalf("SplitNegation(%q) = (%q, %v)", "*.log", pattern, isNegation)
	}
}
