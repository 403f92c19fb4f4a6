// Package cli provides the command line interface.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dircat/dircat/internal/commands"
	"github.com/dircat/dircat/internal/config"
	"github.com/dircat/dircat/internal/utils"
)

const (
	rootUse              = "dircat <path>"
	rootShortDescription = "concatenate directory contents into one document"
	rootLongDescription  = `dircat walks a directory tree, filters files by extension, size,
explicit ignores, .gitignore rules and filename regexes, and emits the
qualifying files as one ordered markdown document. Files named with --last
are deferred to the end in the declared order.`
	rootUsageExample = `  # Concatenate all C++ sources, comments stripped, main.cpp last
  dircat . -e cpp h --remove-comments --last main.cpp

  # Preview which files qualify without reading them
  dircat ./src --dry-run`

	maxSizeFlagName           = "max-size"
	noRecursiveFlagName       = "no-recursive"
	extensionFlagName         = "ext"
	excludeExtensionFlagName  = "exclude-ext"
	ignoreFlagName            = "ignore"
	excludeRegexFlagName      = "regex"
	includeRegexFlagName      = "filename-regex"
	removeCommentsFlagName    = "remove-comments"
	removeEmptyLinesFlagName  = "remove-empty-lines"
	filenameOnlyFlagName      = "filename-only"
	lineNumbersFlagName       = "line-numbers"
	noGitignoreFlagName       = "no-gitignore"
	lastFlagName              = "last"
	onlyLastFlagName          = "only-last"
	outputFlagName            = "output"
	dryRunFlagName            = "dry-run"
	copyFlagName              = "copy"
	tokensFlagName            = "tokens"
	modelFlagName             = "model"
	versionFlagName           = "version"
	versionTemplate           = "dircat version: %s\n"
	defaultTokenizerModelName = "gpt-4o"

	maxSizeFlagDescription          = "exclude files larger than this size (bytes, or K/M/G suffix)"
	noRecursiveFlagDescription      = "disable recursive directory search"
	extensionFlagDescription        = "include only files with these extensions (no dot)"
	excludeExtensionFlagDescription = "exclude files with these extensions (no dot)"
	ignoreFlagDescription           = "ignore files or folders relative to the input (folders end with '/')"
	excludeRegexFlagDescription     = "exclude files whose filename matches this regex"
	includeRegexFlagDescription     = "include only files whose filename fully matches this regex"
	removeCommentsFlagDescription   = "remove C-style comments (//, /* */) from output"
	removeEmptyLinesFlagDescription = "remove empty lines from output"
	filenameOnlyFlagDescription     = "show only the filename in '## File:' headers"
	lineNumbersFlagDescription      = "prepend line numbers to each output line"
	noGitignoreFlagDescription      = "disable .gitignore processing"
	lastFlagDescription             = "process these files or directories last, in declared order"
	onlyLastFlagDescription         = "only process items specified with --last"
	outputFlagDescription           = "write output to this file instead of stdout"
	dryRunFlagDescription           = "list files that would be processed without reading content"
	copyFlagDescription             = "copy the generated output to the system clipboard"
	tokensFlagDescription           = "include a token count in the closing statistics"
	modelFlagDescription            = "tokenizer model used for token counting"
	versionFlagDescription          = "display application version"
)

// Execute runs the dircat application with signal-driven cancellation.
func Execute(logger *zap.Logger) error {
	ctx, stopSignalHandling := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignalHandling()
	rootCommand := createRootCommand(logger)
	return rootCommand.ExecuteContext(ctx)
}

// createRootCommand builds the root Cobra command carrying every run flag.
func createRootCommand(logger *zap.Logger) *cobra.Command {
	var options config.Options
	var showVersion bool

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if showVersion {
				command.Printf(versionTemplate, utils.GetApplicationVersion())
				return nil
			}
			if len(arguments) == 0 {
				return command.Help()
			}
			options.Path = arguments[0]

			workingDirectory, workingDirectoryError := os.Getwd()
			if workingDirectoryError == nil {
				loadedDefaults, defaultsError := config.LoadDefaults(workingDirectory)
				if defaultsError != nil {
					return defaultsError
				}
				options = config.ApplyDefaults(options, loadedDefaults)
			}

			runConfiguration, buildError := config.Build(options)
			if buildError != nil {
				return buildError
			}
			return commands.Execute(command.Context(), runConfiguration, logger)
		},
	}

	commandFlags := rootCommand.Flags()
	commandFlags.StringVarP(&options.MaxSizeLiteral, maxSizeFlagName, "m", "", maxSizeFlagDescription)
	commandFlags.BoolVarP(&options.NoRecursive, noRecursiveFlagName, "n", false, noRecursiveFlagDescription)
	commandFlags.StringSliceVarP(&options.Extensions, extensionFlagName, "e", nil, extensionFlagDescription)
	commandFlags.StringSliceVarP(&options.ExcludedExtensions, excludeExtensionFlagName, "x", nil, excludeExtensionFlagDescription)
	commandFlags.StringArrayVarP(&options.IgnoreEntries, ignoreFlagName, "i", nil, ignoreFlagDescription)
	commandFlags.StringArrayVarP(&options.ExcludeRegexes, excludeRegexFlagName, "r", nil, excludeRegexFlagDescription)
	commandFlags.StringArrayVarP(&options.IncludeRegexes, includeRegexFlagName, "d", nil, includeRegexFlagDescription)
	commandFlags.BoolVarP(&options.RemoveComments, removeCommentsFlagName, "c", false, removeCommentsFlagDescription)
	commandFlags.BoolVarP(&options.RemoveEmptyLines, removeEmptyLinesFlagName, "l", false, removeEmptyLinesFlagDescription)
	commandFlags.BoolVarP(&options.FilenameOnly, filenameOnlyFlagName, "f", false, filenameOnlyFlagDescription)
	commandFlags.BoolVarP(&options.LineNumbers, lineNumbersFlagName, "L", false, lineNumbersFlagDescription)
	commandFlags.BoolVarP(&options.NoGitignore, noGitignoreFlagName, "t", false, noGitignoreFlagDescription)
	commandFlags.StringArrayVarP(&options.LastEntries, lastFlagName, "z", nil, lastFlagDescription)
	commandFlags.BoolVarP(&options.OnlyLast, onlyLastFlagName, "Z", false, onlyLastFlagDescription)
	commandFlags.StringVarP(&options.OutputPath, outputFlagName, "o", "", outputFlagDescription)
	commandFlags.BoolVarP(&options.DryRun, dryRunFlagName, "D", false, dryRunFlagDescription)
	commandFlags.BoolVar(&options.CopyToClipboard, copyFlagName, false, copyFlagDescription)
	commandFlags.BoolVar(&options.CountTokens, tokensFlagName, false, tokensFlagDescription)
	commandFlags.StringVar(&options.TokenizerModel, modelFlagName, defaultTokenizerModelName, modelFlagDescription)
	commandFlags.BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)

	return rootCommand
}
