package process

import (
	"context"
	"math"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/dircat/dircat/internal/format"
	"github.com/dircat/dircat/internal/types"
	"github.com/dircat/dircat/internal/utils"
)

// LastSequencer orders the caller-deferred file set by declared precedence
// and formats it serially. Files under a last directory sort by that
// directory's position in the list; explicitly named files follow all
// directory groups, in the order they were named. Ties within a group fall
// back to lexicographic path order.
type LastSequencer struct {
	config    types.Config
	formatter *format.Formatter
	logger    *zap.Logger
}

// NewLastSequencer constructs a LastSequencer.
func NewLastSequencer(config types.Config, formatter *format.Formatter, logger *zap.Logger) *LastSequencer {
	return &LastSequencer{config: config, formatter: formatter, logger: logger}
}

// Order returns the last files sorted by declared precedence.
func (sequencer *LastSequencer) Order(lastFiles []string) []string {
	orderedFiles := append([]string(nil), lastFiles...)
	sort.SliceStable(orderedFiles, func(firstIndex, secondIndex int) bool {
		firstPosition := sequencer.sortPosition(orderedFiles[firstIndex])
		secondPosition := sequencer.sortPosition(orderedFiles[secondIndex])
		if firstPosition != secondPosition {
			return firstPosition < secondPosition
		}
		return utils.NormalizePath(orderedFiles[firstIndex]) < utils.NormalizePath(orderedFiles[secondIndex])
	})
	return orderedFiles
}

// Format renders the ordered last files one by one, appending each block
// immediately. Read failures are logged and skipped; cancellation stops the
// loop between files.
func (sequencer *LastSequencer) Format(ctx context.Context, orderedLastFiles []string) (string, types.RunStatistics) {
	var outputBuilder strings.Builder
	var statistics types.RunStatistics

	for _, absolutePath := range orderedLastFiles {
		if ctx.Err() != nil {
			break
		}
		formattedText, formatError := sequencer.formatter.FormatFile(absolutePath)
		statistics.ProcessedFiles++
		if formatError != nil {
			if sequencer.logger != nil {
				sequencer.logger.Warn("skipping file", zap.Error(formatError))
			}
			continue
		}
		if formattedText == "" {
			continue
		}
		outputBuilder.WriteString(formattedText)
	}
	return outputBuilder.String(), statistics
}

// sortPosition computes the precedence group of one last file: explicit file
// entries rank after every directory group, preserving the order both lists
// were declared in. A file matching neither list sorts to the end.
func (sequencer *LastSequencer) sortPosition(absolutePath string) int {
	relativePath := utils.RelativePathOrSelf(absolutePath, sequencer.config.RootPath)
	fileName := filepath.Base(absolutePath)

	for entryIndex, lastFileEntry := range sequencer.config.LastFiles {
		normalizedEntry := utils.NormalizePath(lastFileEntry)
		if strings.Contains(normalizedEntry, "/") {
			if relativePath == normalizedEntry {
				return len(sequencer.config.LastDirectories) + entryIndex
			}
		} else if fileName == normalizedEntry {
			return len(sequencer.config.LastDirectories) + entryIndex
		}
	}

	for entryIndex, lastDirectoryEntry := range sequencer.config.LastDirectories {
		normalizedDirectory := strings.TrimSuffix(utils.NormalizePath(lastDirectoryEntry), "/")
		if normalizedDirectory == "" {
			continue
		}
		if relativePath == normalizedDirectory ||
			strings.HasPrefix(relativePath, normalizedDirectory+"/") {
			return entryIndex
		}
	}
	return math.MaxInt
}
