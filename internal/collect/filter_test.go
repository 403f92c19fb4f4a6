package collect

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/dircat/dircat/internal/gitignore"
	"github.com/dircat/dircat/internal/types"
)

// newTestFilter builds a FileFilter whose rule store points at an empty
// temporary directory, so gitignore checks are inert unless a test loads rules.
func newTestFilter(testingHandle *testing.T, config types.Config) (*FileFilter, string) {
	testingHandle.Helper()
	if config.RootPath == "" {
		config.RootPath = testingHandle.TempDir()
	}
	nopLogger := zap.NewNop()
	ruleStore := gitignore.NewRuleStore(config.RootPath, gitignore.NewMatcherCache(nopLogger), nopLogger)
	return NewFileFilter(config, ruleStore, nopLogger), config.RootPath
}

// candidateAt fabricates a candidate below the root from its relative path.
func candidateAt(rootPath string, relativePath string) types.CandidatePath {
	return types.CandidatePath{
		AbsolutePath: filepath.Join(rootPath, filepath.FromSlash(relativePath)),
		RelativePath: relativePath,
	}
}

// TestExtensionAllowed verifies the allow and deny list interaction.
func TestExtensionAllowed(testingHandle *testing.T) {
	testCases := []struct {
		name            string
		allowed         []string
		excluded        []string
		fileName        string
		expectedAllowed bool
	}{
		{name: "no lists admit everything", fileName: "main.cpp", expectedAllowed: true},
		{name: "allow list admits listed", allowed: []string{"cpp", "h"}, fileName: "main.cpp", expectedAllowed: true},
		{name: "allow list rejects unlisted", allowed: []string{"cpp"}, fileName: "readme.md", expectedAllowed: false},
		{name: "deny list rejects listed", excluded: []string{"md"}, fileName: "readme.md", expectedAllowed: false},
		{name: "deny wins over allow", allowed: []string{"md"}, excluded: []string{"md"}, fileName: "readme.md", expectedAllowed: false},
		{name: "extension comparison is case-insensitive", allowed: []string{"cpp"}, fileName: "MAIN.CPP", expectedAllowed: true},
		{name: "no extension passes without allow list", fileName: "Makefile", expectedAllowed: true},
		{name: "no extension fails with allow list", allowed: []string{"cpp"}, fileName: "Makefile", expectedAllowed: false},
	}

	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(subTest *testing.T) {
			filter, rootPath := newTestFilter(subTest, types.Config{
				DisableGitignore:   true,
				AllowedExtensions:  testCase.allowed,
				ExcludedExtensions: testCase.excluded,
			})
			actualAllowed := filter.ExtensionAllowed(filepath.Join(rootPath, testCase.fileName))
			if actualAllowed != testCase.expectedAllowed {
				subTest.Fatalf("ExtensionAllowed(%q) = %v, want %v", testCase.fileName, actualAllowed, testCase.expectedAllowed)
			}
		})
	}
}

// TestShouldIgnoreFileSizeCeiling verifies the inclusive size boundary.
func TestShouldIgnoreFileSizeCeiling(testingHandle *testing.T) {
	filter, rootPath := newTestFilter(testingHandle, types.Config{
		DisableGitignore: true,
		MaxFileSizeBytes: 2048,
	})

	if filter.ShouldIgnoreFile(candidateAt(rootPath, "exact.bin"), 2048) {
		testingHandle.Fatal("a file exactly at the size limit should be kept")
	}
	if !filter.ShouldIgnoreFile(candidateAt(rootPath, "over.bin"), 2049) {
		testingHandle.Fatal("a file one byte over the size limit should be excluded")
	}

	unlimitedFilter, unlimitedRoot := newTestFilter(testingHandle, types.Config{DisableGitignore: true})
	if unlimitedFilter.ShouldIgnoreFile(candidateAt(unlimitedRoot, "huge.bin"), 1<<30) {
		testingHandle.Fatal("a zero limit should admit files of any size")
	}
}

// TestShouldIgnoreFileAlwaysIgnoredNames verifies that .gitignore files and
// anything under a .git directory never qualify.
func TestShouldIgnoreFileAlwaysIgnoredNames(testingHandle *testing.T) {
	filter, rootPath := newTestFilter(testingHandle, types.Config{DisableGitignore: true})

	if !filter.ShouldIgnoreFile(candidateAt(rootPath, ".gitignore"), 10) {
		testingHandle.Fatal(".gitignore files should always be excluded")
	}
	if !filter.ShouldIgnoreFile(candidateAt(rootPath, ".git/config"), 10) {
		testingHandle.Fatal("files under .git should always be excluded")
	}
}

// TestShouldIgnoreFileExplicitEntries verifies the two explicit ignore forms:
// entries containing a slash match the relative path, bare entries match the
// filename anywhere in the tree.
func TestShouldIgnoreFileExplicitEntries(testingHandle *testing.T) {
	filter, rootPath := newTestFilter(testingHandle, types.Config{
		DisableGitignore: true,
		IgnoredFiles:     []string{"docs/readme.md", "secrets.txt"},
	})

	if !filter.ShouldIgnoreFile(candidateAt(rootPath, "docs/readme.md"), 10) {
		testingHandle.Fatal("relative ignore entry should match its exact path")
	}
	if filter.ShouldIgnoreFile(candidateAt(rootPath, "other/readme.md"), 10) {
		testingHandle.Fatal("relative ignore entry should not match other locations")
	}
	if !filter.ShouldIgnoreFile(candidateAt(rootPath, "deep/nested/secrets.txt"), 10) {
		testingHandle.Fatal("bare ignore entry should match the filename anywhere")
	}
}

// TestShouldIgnoreFileRegexes verifies exclude search semantics and include
// full-match gating.
func TestShouldIgnoreFileRegexes(testingHandle *testing.T) {
	testingHandle.Run("exclude uses search semantics", func(subTest *testing.T) {
		filter, rootPath := newTestFilter(subTest, types.Config{
			DisableGitignore:       true,
			ExcludeFilenameRegexes: []string{`_test\b`},
		})
		if !filter.ShouldIgnoreFile(candidateAt(rootPath, "parser_test.go"), 10) {
			subTest.Fatal("exclude regex should match a substring of the filename")
		}
		if filter.ShouldIgnoreFile(candidateAt(rootPath, "parser.go"), 10) {
			subTest.Fatal("non-matching filename should pass the exclude regex")
		}
	})

	testingHandle.Run("include requires a full match", func(subTest *testing.T) {
		filter, rootPath := newTestFilter(subTest, types.Config{
			DisableGitignore:       true,
			IncludeFilenameRegexes: []string{`.*\.go`},
		})
		if filter.ShouldIgnoreFile(candidateAt(rootPath, "parser.go"), 10) {
			subTest.Fatal("fully matching filename should be kept")
		}
		if !filter.ShouldIgnoreFile(candidateAt(rootPath, "parser.go.bak"), 10) {
			subTest.Fatal("partially matching filename should be excluded")
		}
	})

	testingHandle.Run("malformed include patterns still gate", func(subTest *testing.T) {
		filter, rootPath := newTestFilter(subTest, types.Config{
			DisableGitignore:       true,
			IncludeFilenameRegexes: []string{`(`},
		})
		if !filter.ShouldIgnoreFile(candidateAt(rootPath, "anything.go"), 10) {
			subTest.Fatal("with only unusable include patterns configured, nothing should qualify")
		}
	})
}

// TestShouldIgnoreFolder verifies traversal pruning decisions.
func TestShouldIgnoreFolder(testingHandle *testing.T) {
	filter, rootPath := newTestFilter(testingHandle, types.Config{
		DisableGitignore: true,
		IgnoredFolders:   []string{"node_modules/"},
	})

	folderCandidate := candidateAt(rootPath, ".git")
	folderCandidate.IsDirectory = true
	if !filter.ShouldIgnoreFolder(folderCandidate) {
		testingHandle.Fatal(".git directories should always be pruned")
	}

	ignoredCandidate := candidateAt(rootPath, "node_modules")
	ignoredCandidate.IsDirectory = true
	if !filter.ShouldIgnoreFolder(ignoredCandidate) {
		testingHandle.Fatal("explicitly ignored folder should be pruned")
	}

	nestedCandidate := candidateAt(rootPath, "node_modules/pkg")
	nestedCandidate.IsDirectory = true
	if !filter.ShouldIgnoreFolder(nestedCandidate) {
		testingHandle.Fatal("children of ignored folders should be pruned")
	}

	keptCandidate := candidateAt(rootPath, "src")
	keptCandidate.IsDirectory = true
	if filter.ShouldIgnoreFolder(keptCandidate) {
		testingHandle.Fatal("unrelated folder should not be pruned")
	}
}
