// Package format turns a file's bytes into the delimited markdown block
// emitted by dircat: a "## File:" header followed by a fenced code block,
// with optional comment stripping, blank-line removal and line numbers.
package format

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dircat/dircat/internal/types"
	"github.com/dircat/dircat/internal/utils"
)

const fileHeaderPrefix = "## File: "

// Formatter renders files relative to a base directory using the run's
// formatting flags. It is stateless apart from configuration and safe for
// concurrent use.
type Formatter struct {
	config   types.Config
	basePath string
}

// NewFormatter constructs a Formatter. basePath is the directory display
// paths are made relative to; it may differ from the configured root when a
// single file is processed.
func NewFormatter(config types.Config, basePath string) *Formatter {
	return &Formatter{config: config, basePath: basePath}
}

// FormatFile reads the file fully and returns its formatted block. The size
// ceiling is re-checked as a final guard; a file exceeding it yields an empty
// block with no error. Read failures are returned to the caller, which treats
// the file as skipped rather than fatal.
func (formatter *Formatter) FormatFile(absolutePath string) (string, error) {
	fileInformation, statError := os.Stat(absolutePath)
	if statError != nil {
		return "", fmt.Errorf("stat %s: %w", utils.NormalizePath(absolutePath), statError)
	}
	if formatter.config.MaxFileSizeBytes > 0 && fileInformation.Size() > formatter.config.MaxFileSizeBytes {
		return "", nil
	}

	fileBytes, readError := os.ReadFile(absolutePath)
	if readError != nil {
		return "", fmt.Errorf("read %s: %w", utils.NormalizePath(absolutePath), readError)
	}

	fileContent := string(fileBytes)
	if formatter.config.RemoveComments {
		fileContent = StripCStyleComments(fileContent)
	}
	return formatter.FormatContent(absolutePath, fileContent), nil
}

// FormatContent wraps already-read content in the delimited block. The fence
// is tagged with the file's extension when it has one.
func (formatter *Formatter) FormatContent(absolutePath string, fileContent string) string {
	var blockBuilder strings.Builder
	blockBuilder.Grow(len(fileContent) + 64)

	blockBuilder.WriteString("\n")
	blockBuilder.WriteString(fileHeaderPrefix)
	blockBuilder.WriteString(formatter.DisplayPath(absolutePath))
	blockBuilder.WriteString("\n\n```")
	blockBuilder.WriteString(utils.ExtensionWithoutDot(absolutePath))
	blockBuilder.WriteString("\n")

	remainingContent := fileContent
	lineNumber := 1
	for len(remainingContent) > 0 {
		newlineIndex := strings.IndexByte(remainingContent, '\n')
		var currentLine string
		if newlineIndex < 0 {
			currentLine = remainingContent
			remainingContent = ""
		} else {
			currentLine = remainingContent[:newlineIndex]
			remainingContent = remainingContent[newlineIndex+1:]
		}
		currentLine = strings.TrimSuffix(currentLine, "\r")

		isBlankLine := strings.Trim(currentLine, " \t") == ""
		if formatter.config.RemoveEmptyLines && isBlankLine {
			continue
		}
		if formatter.config.ShowLineNumbers {
			blockBuilder.WriteString(fmt.Sprintf("%d | ", lineNumber))
			lineNumber++
		}
		blockBuilder.WriteString(currentLine)
		blockBuilder.WriteByte('\n')
	}

	blockBuilder.WriteString("```\n")
	return blockBuilder.String()
}

// DisplayPath returns the header path: the bare filename when configured,
// otherwise the forward-slash relative path against the base directory.
func (formatter *Formatter) DisplayPath(absolutePath string) string {
	if formatter.config.ShowFilenameOnly {
		return filepath.Base(absolutePath)
	}
	return utils.RelativePathOrSelf(absolutePath, formatter.basePath)
}

// StripCStyleComments removes "//" line comments and "/* */" block comments
// while leaving string and character literals intact. The scanner tracks four
// mutually exclusive modes and honors backslash escapes inside literals, so
// an escaped quote does not terminate a literal and comment markers inside
// literals are preserved verbatim.
func StripCStyleComments(sourceText string) string {
	var resultBuilder strings.Builder
	resultBuilder.Grow(len(sourceText))

	inStringLiteral := false
	inCharacterLiteral := false
	inLineComment := false
	inBlockComment := false

	for characterIndex := 0; characterIndex < len(sourceText); characterIndex++ {
		currentCharacter := sourceText[characterIndex]
		var nextCharacter byte
		if characterIndex+1 < len(sourceText) {
			nextCharacter = sourceText[characterIndex+1]
		}

		switch {
		case inStringLiteral:
			resultBuilder.WriteByte(currentCharacter)
			if currentCharacter == '\\' && nextCharacter != 0 {
				resultBuilder.WriteByte(nextCharacter)
				characterIndex++
			} else if currentCharacter == '"' {
				inStringLiteral = false
			}
		case inCharacterLiteral:
			resultBuilder.WriteByte(currentCharacter)
			if currentCharacter == '\\' && nextCharacter != 0 {
				resultBuilder.WriteByte(nextCharacter)
				characterIndex++
			} else if currentCharacter == '\'' {
				inCharacterLiteral = false
			}
		case inLineComment:
			if currentCharacter == '\n' {
				inLineComment = false
				resultBuilder.WriteByte(currentCharacter)
			}
		case inBlockComment:
			if currentCharacter == '*' && nextCharacter == '/' {
				inBlockComment = false
				characterIndex++
			}
		default:
			switch {
			case currentCharacter == '"':
				inStringLiteral = true
				resultBuilder.WriteByte(currentCharacter)
			case currentCharacter == '\'':
				inCharacterLiteral = true
				resultBuilder.WriteByte(currentCharacter)
			case currentCharacter == '/' && nextCharacter == '/':
				inLineComment = true
				characterIndex++
			case currentCharacter == '/' && nextCharacter == '*':
				inBlockComment = true
				characterIndex++
			default:
				resultBuilder.WriteByte(currentCharacter)
			}
		}
	}
	return resultBuilder.String()
}
