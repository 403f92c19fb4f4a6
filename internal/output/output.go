// Package output resolves the destination of a run and renders the framing
// around formatted file blocks: the generated-file header, the dry-run
// listing and the closing statistics line.
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dircat/dircat/internal/types"
	"github.com/dircat/dircat/internal/utils"
)

// GeneratedHeader opens every non-dry-run result.
const GeneratedHeader = "# File generated by " + types.CommandName + "\n"

const (
	dryRunTotalFormat   = "Files to be processed (%d total):\n"
	dryRunNormalFormat  = "--- Normal Files (%d) ---\n"
	dryRunLastFormat    = "--- Last Files (%d) ---\n"
	statisticsFormat    = "Processed %d files (%s total)."
	tokenSummaryFormat  = " Tokens: %d (%s)."
	writtenToFileFormat = "Output written to: %s"
	writtenToStdout     = "Output sent to stdout."
)

// nopWriteCloser adapts stdout to the WriteCloser contract without closing it.
type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// OpenSink opens the configured destination. An empty path selects stdout.
// For a file path the parent directories are created if missing; a path
// naming an existing directory is rejected.
func OpenSink(outputPath string) (io.WriteCloser, bool, error) {
	if outputPath == "" {
		return nopWriteCloser{os.Stdout}, true, nil
	}

	absoluteOutputPath, absoluteError := filepath.Abs(outputPath)
	if absoluteError != nil {
		return nil, false, fmt.Errorf("resolve output path %s: %w", outputPath, absoluteError)
	}
	if pathInformation, statError := os.Stat(absoluteOutputPath); statError == nil && pathInformation.IsDir() {
		return nil, false, fmt.Errorf("output path is an existing directory: %s", utils.NormalizePath(absoluteOutputPath))
	}
	parentDirectory := filepath.Dir(absoluteOutputPath)
	if makeDirectoryError := os.MkdirAll(parentDirectory, 0o755); makeDirectoryError != nil {
		return nil, false, fmt.Errorf("create output directory %s: %w", utils.NormalizePath(parentDirectory), makeDirectoryError)
	}

	fileHandle, createError := os.Create(absoluteOutputPath)
	if createError != nil {
		return nil, false, fmt.Errorf("open output file %s: %w", utils.NormalizePath(absoluteOutputPath), createError)
	}
	return fileHandle, false, nil
}

// WriteDryRunListing emits one relative path per qualifying file, partitioned
// into the normal section (sorted) and the last section (declared precedence
// order), without reading any file content.
func WriteDryRunListing(writer io.Writer, rootPath string, sortedNormalFiles []string, orderedLastFiles []string) error {
	if _, writeError := fmt.Fprintf(writer, dryRunTotalFormat, len(sortedNormalFiles)+len(orderedLastFiles)); writeError != nil {
		return writeError
	}
	if _, writeError := fmt.Fprintf(writer, dryRunNormalFormat, len(sortedNormalFiles)); writeError != nil {
		return writeError
	}
	for _, absolutePath := range sortedNormalFiles {
		if _, writeError := fmt.Fprintln(writer, utils.RelativePathOrSelf(absolutePath, rootPath)); writeError != nil {
			return writeError
		}
	}
	if _, writeError := fmt.Fprintf(writer, dryRunLastFormat, len(orderedLastFiles)); writeError != nil {
		return writeError
	}
	for _, absolutePath := range orderedLastFiles {
		if _, writeError := fmt.Fprintln(writer, utils.RelativePathOrSelf(absolutePath, rootPath)); writeError != nil {
			return writeError
		}
	}
	return nil
}

// FormatStatistics renders the closing statistics line.
func FormatStatistics(statistics types.RunStatistics, outputPath string) string {
	statisticsLine := fmt.Sprintf(statisticsFormat, statistics.ProcessedFiles, utils.FormatMebibytes(statistics.TotalBytes))
	if statistics.TokenizerName != "" {
		statisticsLine += fmt.Sprintf(tokenSummaryFormat, statistics.TokenCount, statistics.TokenizerName)
	}
	if outputPath != "" {
		absoluteOutputPath, absoluteError := filepath.Abs(outputPath)
		if absoluteError != nil {
			absoluteOutputPath = outputPath
		}
		return statisticsLine + " " + fmt.Sprintf(writtenToFileFormat, utils.NormalizePath(absoluteOutputPath))
	}
	return statisticsLine + " " + writtenToStdout
}
