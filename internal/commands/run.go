// Package commands wires the collection, formatting and output stages into
// complete dircat runs.
package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/dircat/dircat/internal/collect"
	"github.com/dircat/dircat/internal/format"
	"github.com/dircat/dircat/internal/gitignore"
	"github.com/dircat/dircat/internal/output"
	"github.com/dircat/dircat/internal/process"
	"github.com/dircat/dircat/internal/services/clipboard"
	"github.com/dircat/dircat/internal/tokenizer"
	"github.com/dircat/dircat/internal/types"
	"github.com/dircat/dircat/internal/utils"
)

// Execute runs one dircat invocation against a validated configuration. The
// context is the cancellation token: once cancelled, traversal and per-file
// loops stop at their next check point and whatever was already emitted
// stands as a valid partial prefix.
func Execute(ctx context.Context, config types.Config, logger *zap.Logger) error {
	rootInformation, statError := os.Stat(config.RootPath)
	if statError != nil {
		return fmt.Errorf("input path %s: %w", utils.NormalizePath(config.RootPath), statError)
	}
	if rootInformation.Mode().IsRegular() {
		return executeSingleFile(ctx, config, logger)
	}
	if !rootInformation.IsDir() {
		return fmt.Errorf("input path %s is neither a regular file nor a directory", utils.NormalizePath(config.RootPath))
	}
	return executeDirectory(ctx, config, logger)
}

// executeDirectory is the main pipeline: collect, format in parallel, then
// append the last files serially.
func executeDirectory(ctx context.Context, config types.Config, logger *zap.Logger) error {
	matcherCache := gitignore.NewMatcherCache(logger)
	ruleStore := gitignore.NewRuleStore(config.RootPath, matcherCache, logger)
	fileFilter := collect.NewFileFilter(config, ruleStore, logger)
	collector := collect.NewCollector(config, fileFilter, ruleStore, logger)
	collection := collector.Collect(ctx)

	formatter := format.NewFormatter(config, config.RootPath)
	sequencer := process.NewLastSequencer(config, formatter, logger)
	orderedLastFiles := sequencer.Order(collection.LastFiles)

	sink, sinkIsStdout, sinkError := output.OpenSink(config.OutputPath)
	if sinkError != nil {
		return sinkError
	}
	closeSink := func() error {
		if sinkIsStdout {
			return nil
		}
		if closeError := sink.Close(); closeError != nil {
			return fmt.Errorf("write output file %s: %w", config.OutputPath, closeError)
		}
		return nil
	}

	if config.DryRun {
		if listingError := output.WriteDryRunListing(sink, config.RootPath, collection.NormalFiles, orderedLastFiles); listingError != nil {
			_ = closeSink()
			return listingError
		}
		return closeSink()
	}

	if len(collection.NormalFiles) == 0 && len(orderedLastFiles) == 0 {
		logger.Info("no matching files found", zap.String("path", utils.NormalizePath(config.RootPath)))
		return closeSink()
	}

	var captureBuffer *bytes.Buffer
	var destination io.Writer = sink
	if config.CopyToClipboard || config.CountTokens {
		captureBuffer = &bytes.Buffer{}
		destination = io.MultiWriter(sink, captureBuffer)
	}

	if _, writeError := io.WriteString(destination, output.GeneratedHeader); writeError != nil {
		_ = closeSink()
		return writeError
	}

	runner := process.NewRunner(formatter, logger)
	normalRecords, statistics := runner.Run(ctx, collection.NormalFiles)
	for _, record := range normalRecords {
		if ctx.Err() != nil {
			break
		}
		if _, writeError := io.WriteString(destination, record.FormattedText); writeError != nil {
			_ = closeSink()
			return writeError
		}
	}

	if ctx.Err() == nil {
		lastText, lastStatistics := sequencer.Format(ctx, orderedLastFiles)
		statistics.ProcessedFiles += lastStatistics.ProcessedFiles
		statistics.TotalBytes += lastStatistics.TotalBytes
		if lastText != "" {
			if _, writeError := io.WriteString(destination, lastText); writeError != nil {
				_ = closeSink()
				return writeError
			}
		}
	}

	finalizeError := finalizeRun(config, logger, captureBuffer, &statistics)
	if closeError := closeSink(); closeError != nil {
		return closeError
	}
	if finalizeError != nil {
		return finalizeError
	}
	logger.Info(output.FormatStatistics(statistics, config.OutputPath))
	return nil
}

// executeSingleFile formats the input file alone, relative to its parent
// directory.
func executeSingleFile(ctx context.Context, config types.Config, logger *zap.Logger) error {
	sink, sinkIsStdout, sinkError := output.OpenSink(config.OutputPath)
	if sinkError != nil {
		return sinkError
	}
	defer func() {
		if !sinkIsStdout {
			if closeError := sink.Close(); closeError != nil {
				logger.Warn("failed to close output file", zap.Error(closeError))
			}
		}
	}()

	if config.DryRun {
		if _, writeError := fmt.Fprintf(sink, "File to be processed:\n%s\n", utils.NormalizePath(config.RootPath)); writeError != nil {
			return writeError
		}
		return nil
	}
	if ctx.Err() != nil {
		return nil
	}

	formatter := format.NewFormatter(config, filepath.Dir(config.RootPath))
	formattedText, formatError := formatter.FormatFile(config.RootPath)
	if formatError != nil {
		return formatError
	}
	if formattedText == "" {
		logger.Info("input file produced no output", zap.String("path", utils.NormalizePath(config.RootPath)))
		return nil
	}

	var captureBuffer *bytes.Buffer
	var destination io.Writer = sink
	if config.CopyToClipboard || config.CountTokens {
		captureBuffer = &bytes.Buffer{}
		destination = io.MultiWriter(sink, captureBuffer)
	}
	if _, writeError := io.WriteString(destination, output.GeneratedHeader+formattedText); writeError != nil {
		return writeError
	}

	statistics := types.RunStatistics{ProcessedFiles: 1}
	if fileInformation, statError := os.Stat(config.RootPath); statError == nil {
		statistics.TotalBytes = fileInformation.Size()
	}
	if finalizeError := finalizeRun(config, logger, captureBuffer, &statistics); finalizeError != nil {
		return finalizeError
	}
	logger.Info(output.FormatStatistics(statistics, config.OutputPath))
	return nil
}

// finalizeRun applies the optional post-processing steps that need the full
// generated text: token counting and the clipboard copy.
func finalizeRun(config types.Config, logger *zap.Logger, captureBuffer *bytes.Buffer, statistics *types.RunStatistics) error {
	if captureBuffer == nil {
		return nil
	}
	generatedText := captureBuffer.String()

	if config.CountTokens {
		counter, counterError := tokenizer.NewCounter(config.TokenizerModel)
		if counterError != nil {
			return counterError
		}
		tokenCount, countError := counter.CountString(generatedText)
		if countError != nil {
			logger.Warn("failed to count tokens", zap.Error(countError))
		} else {
			statistics.TokenCount = tokenCount
			statistics.TokenizerName = counter.Name()
		}
	}

	if config.CopyToClipboard {
		copierService := clipboard.NewService()
		if copyError := copierService.Copy(generatedText); copyError != nil {
			logger.Warn("clipboard copy failed", zap.Error(copyError))
		}
	}
	return nil
}
