// Package process executes the formatting stage of a run: the normal-file
// list in parallel with deterministic reassembly, and the last-file list
// serially in caller-declared precedence order.
package process

import (
	"context"
	"os"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dircat/dircat/internal/format"
	"github.com/dircat/dircat/internal/types"
)

// maxWorkerCount bounds the worker pool regardless of hardware parallelism.
const maxWorkerCount = 16

// Runner formats the sorted normal-file list across a fixed worker pool.
// Each worker owns one contiguous chunk, accumulates records into a private
// buffer and merges that buffer into the shared collection once, at the end
// of its chunk. Output order is reconstructed from the precomputed original
// index, so the result is identical to a single-threaded run for any worker
// count.
type Runner struct {
	formatter *format.Formatter
	logger    *zap.Logger
}

// NewRunner constructs a Runner around the provided formatter.
func NewRunner(formatter *format.Formatter, logger *zap.Logger) *Runner {
	return &Runner{formatter: formatter, logger: logger}
}

// Run processes sortedNormalFiles and returns the formatted records ordered
// by original index together with run counters. Cancellation is polled before
// each file; a cancelled run returns the records completed so far, which form
// a valid prefix of the full output.
func (runner *Runner) Run(ctx context.Context, sortedNormalFiles []string) ([]types.FileRecord, types.RunStatistics) {
	totalFileCount := len(sortedNormalFiles)
	if totalFileCount == 0 {
		return nil, types.RunStatistics{}
	}

	workerCount := runtime.GOMAXPROCS(0)
	if workerCount > maxWorkerCount {
		workerCount = maxWorkerCount
	}
	if workerCount > totalFileCount {
		workerCount = totalFileCount
	}
	if workerCount < 1 {
		workerCount = 1
	}
	chunkSize := (totalFileCount + workerCount - 1) / workerCount

	var mergeMutex sync.Mutex
	mergedRecords := make([]types.FileRecord, 0, totalFileCount)
	var processedFileCount atomic.Int64
	var processedByteCount atomic.Int64

	workerGroup, workerContext := errgroup.WithContext(ctx)
	for chunkStart := 0; chunkStart < totalFileCount; chunkStart += chunkSize {
		chunkEnd := chunkStart + chunkSize
		if chunkEnd > totalFileCount {
			chunkEnd = totalFileCount
		}
		chunkPaths := sortedNormalFiles[chunkStart:chunkEnd]
		chunkStartIndex := chunkStart

		workerGroup.Go(func() error {
			localRecords := make([]types.FileRecord, 0, len(chunkPaths))
			for pathOffset, absolutePath := range chunkPaths {
				if workerContext.Err() != nil {
					break
				}
				formattedText, formatError := runner.formatter.FormatFile(absolutePath)
				processedFileCount.Add(1)
				if formatError != nil {
					if runner.logger != nil {
						runner.logger.Warn("skipping file", zap.Error(formatError))
					}
					continue
				}
				if formattedText == "" {
					continue
				}
				if fileInformation, statError := os.Stat(absolutePath); statError == nil {
					processedByteCount.Add(fileInformation.Size())
				}
				localRecords = append(localRecords, types.FileRecord{
					OriginalIndex: chunkStartIndex + pathOffset,
					AbsolutePath:  absolutePath,
					FormattedText: formattedText,
				})
			}

			mergeMutex.Lock()
			mergedRecords = append(mergedRecords, localRecords...)
			mergeMutex.Unlock()
			return nil
		})
	}
	_ = workerGroup.Wait()

	sort.Slice(mergedRecords, func(firstIndex, secondIndex int) bool {
		return mergedRecords[firstIndex].OriginalIndex < mergedRecords[secondIndex].OriginalIndex
	})

	return mergedRecords, types.RunStatistics{
		ProcessedFiles: int(processedFileCount.Load()),
		TotalBytes:     processedByteCount.Load(),
	}
}
