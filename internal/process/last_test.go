package process

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/dircat/dircat/internal/format"
	"github.com/dircat/dircat/internal/types"
)

// writeLastTestFile creates a file with parent directories as needed.
func writeLastTestFile(testingHandle *testing.T, filePath string, content string) {
	testingHandle.Helper()
	if directoryCreationError := os.MkdirAll(filepath.Dir(filePath), 0o755); directoryCreationError != nil {
		testingHandle.Fatalf("failed to create directory for %s: %v", filePath, directoryCreationError)
	}
	if writeError := os.WriteFile(filePath, []byte(content), 0o644); writeError != nil {
		testingHandle.Fatalf("failed to write %s: %v", filePath, writeError)
	}
}

// TestLastSequencerOrder verifies that directory groups precede explicitly
// named files and that ties fall back to lexicographic order.
func TestLastSequencerOrder(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	configuration := types.Config{
		RootPath:        rootDirectory,
		LastFiles:       []string{"b.cpp"},
		LastDirectories: []string{"vendor"},
	}
	sequencer := NewLastSequencer(configuration, format.NewFormatter(configuration, rootDirectory), zap.NewNop())

	unorderedFiles := []string{
		filepath.Join(rootDirectory, "b.cpp"),
		filepath.Join(rootDirectory, "vendor", "z.cpp"),
		filepath.Join(rootDirectory, "vendor", "a.cpp"),
	}
	orderedFiles := sequencer.Order(unorderedFiles)

	expectedOrder := []string{
		filepath.Join(rootDirectory, "vendor", "a.cpp"),
		filepath.Join(rootDirectory, "vendor", "z.cpp"),
		filepath.Join(rootDirectory, "b.cpp"),
	}
	for positionIndex, expectedPath := range expectedOrder {
		if orderedFiles[positionIndex] != expectedPath {
			testingHandle.Fatalf("position %d = %s, want %s", positionIndex, orderedFiles[positionIndex], expectedPath)
		}
	}
}

// TestLastSequencerOrderAcrossMultipleGroups verifies that declared list
// positions decide precedence between two directories and two files.
func TestLastSequencerOrderAcrossMultipleGroups(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	configuration := types.Config{
		RootPath:        rootDirectory,
		LastFiles:       []string{"z_first.cpp", "a_second.cpp"},
		LastDirectories: []string{"second_dir", "first_dir"},
	}
	sequencer := NewLastSequencer(configuration, format.NewFormatter(configuration, rootDirectory), zap.NewNop())

	unorderedFiles := []string{
		filepath.Join(rootDirectory, "a_second.cpp"),
		filepath.Join(rootDirectory, "first_dir", "f.cpp"),
		filepath.Join(rootDirectory, "z_first.cpp"),
		filepath.Join(rootDirectory, "second_dir", "s.cpp"),
	}
	orderedFiles := sequencer.Order(unorderedFiles)

	expectedOrder := []string{
		filepath.Join(rootDirectory, "second_dir", "s.cpp"),
		filepath.Join(rootDirectory, "first_dir", "f.cpp"),
		filepath.Join(rootDirectory, "z_first.cpp"),
		filepath.Join(rootDirectory, "a_second.cpp"),
	}
	for positionIndex, expectedPath := range expectedOrder {
		if orderedFiles[positionIndex] != expectedPath {
			testingHandle.Fatalf("position %d = %s, want %s", positionIndex, orderedFiles[positionIndex], expectedPath)
		}
	}
}

// TestLastSequencerFormat verifies serial rendering order and that a missing
// file is skipped without aborting.
func TestLastSequencerFormat(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeLastTestFile(testingHandle, filepath.Join(rootDirectory, "vendor", "x.cpp"), "int x;\n")
	writeLastTestFile(testingHandle, filepath.Join(rootDirectory, "b.cpp"), "int b;\n")

	configuration := types.Config{
		RootPath:        rootDirectory,
		LastFiles:       []string{"b.cpp"},
		LastDirectories: []string{"vendor"},
	}
	sequencer := NewLastSequencer(configuration, format.NewFormatter(configuration, rootDirectory), zap.NewNop())

	orderedFiles := []string{
		filepath.Join(rootDirectory, "vendor", "x.cpp"),
		filepath.Join(rootDirectory, "missing.cpp"),
		filepath.Join(rootDirectory, "b.cpp"),
	}
	renderedOutput, statistics := sequencer.Format(context.Background(), orderedFiles)

	vendorPosition := strings.Index(renderedOutput, "## File: vendor/x.cpp")
	finalPosition := strings.Index(renderedOutput, "## File: b.cpp")
	if vendorPosition < 0 || finalPosition < 0 || vendorPosition > finalPosition {
		testingHandle.Fatalf("blocks out of order or missing:\n%s", renderedOutput)
	}
	if strings.Contains(renderedOutput, "missing.cpp") {
		testingHandle.Fatalf("missing file should not appear in output:\n%s", renderedOutput)
	}
	if statistics.ProcessedFiles != 3 {
		testingHandle.Fatalf("processed count = %d, want 3", statistics.ProcessedFiles)
	}
}
