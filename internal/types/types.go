// Package types defines every cross-package data structure used by the dircat CLI.
package types

const (
	// CommandName is the executable name used in generated headers.
	CommandName = "dircat"

	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
	// GitIgnoreFileName is the name of the Git ignore file.
	GitIgnoreFileName = ".gitignore"
)

// Config holds the immutable parameters of a single run. It is built once by
// the CLI layer, validated, and read-only thereafter.
type Config struct {
	// RootPath is the absolute input path; it may name a directory or a single file.
	RootPath string
	// RecursiveSearch controls whether descendants of RootPath are visited.
	RecursiveSearch bool
	// MaxFileSizeBytes excludes larger files when positive; zero means unlimited.
	MaxFileSizeBytes int64

	// AllowedExtensions and ExcludedExtensions are lowercase without the leading dot.
	AllowedExtensions  []string
	ExcludedExtensions []string

	// IgnoredFolders and IgnoredFiles are explicit ignore entries relative to RootPath.
	// Folder entries prune traversal; file entries match a relative path or bare filename.
	IgnoredFolders []string
	IgnoredFiles   []string

	// ExcludeFilenameRegexes rejects files whose filename matches any pattern (search).
	ExcludeFilenameRegexes []string
	// IncludeFilenameRegexes, when non-empty, admits only filenames fully matching
	// at least one pattern.
	IncludeFilenameRegexes []string

	// DisableGitignore turns off .gitignore processing entirely.
	DisableGitignore bool

	// LastFiles and LastDirectories defer matching files to the end of the output,
	// in declared order. LastDirectories sort before LastFiles.
	LastFiles       []string
	LastDirectories []string
	// OnlyLast restricts the run to entries named by LastFiles and LastDirectories.
	OnlyLast bool

	// Formatting flags.
	RemoveComments   bool
	RemoveEmptyLines bool
	ShowFilenameOnly bool
	ShowLineNumbers  bool

	// DryRun lists qualifying relative paths instead of emitting file content.
	DryRun bool

	// OutputPath receives the result when non-empty; otherwise stdout is used.
	OutputPath string
	// CopyToClipboard mirrors the generated output onto the system clipboard.
	CopyToClipboard bool

	// CountTokens enables a token total in the closing statistics line.
	CountTokens bool
	// TokenizerModel selects the encoding used when CountTokens is set.
	TokenizerModel string
}

// Rule is a single gitignore-style pattern together with its negation flag.
// The raw pattern retains directory-anchoring markers but not the leading "!".
type Rule struct {
	Pattern    string
	IsNegation bool
}

// CandidatePath carries an absolute filesystem path with its cached
// relative-to-root form during traversal.
type CandidatePath struct {
	AbsolutePath string
	RelativePath string
	IsDirectory  bool
}

// FileRecord is the unit moved between concurrent workers and the reassembly
// stage. OriginalIndex is the position the path occupied in the sorted
// normal-file list; output order is reconstructed from it, never from
// completion order.
type FileRecord struct {
	OriginalIndex int
	AbsolutePath  string
	FormattedText string
}

// RunStatistics aggregates counters reported after a run completes.
type RunStatistics struct {
	ProcessedFiles int
	TotalBytes     int64
	TokenCount     int
	TokenizerName  string
}
