package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// DefaultsFileName is the optional per-project defaults file discovered in
// the working directory.
const DefaultsFileName = ".dircat.yaml"

// Defaults mirrors the defaults file. Pointer fields distinguish "unset"
// from an explicit false so command-line flags always win when provided.
type Defaults struct {
	MaxSize            string   `mapstructure:"max_size"`
	NoRecursive        *bool    `mapstructure:"no_recursive"`
	Extensions         []string `mapstructure:"extensions"`
	ExcludedExtensions []string `mapstructure:"exclude_extensions"`
	Ignore             []string `mapstructure:"ignore"`
	RemoveComments     *bool    `mapstructure:"remove_comments"`
	RemoveEmptyLines   *bool    `mapstructure:"remove_empty_lines"`
	FilenameOnly       *bool    `mapstructure:"filename_only"`
	LineNumbers        *bool    `mapstructure:"line_numbers"`
	NoGitignore        *bool    `mapstructure:"no_gitignore"`
	Output             string   `mapstructure:"output"`
	Copy               *bool    `mapstructure:"copy"`
	Tokens             *bool    `mapstructure:"tokens"`
	Model              string   `mapstructure:"model"`
}

// LoadDefaults reads the defaults file from the working directory. A missing
// file yields zero defaults; a malformed file is a configuration error.
func LoadDefaults(workingDirectory string) (Defaults, error) {
	defaultsPath := filepath.Join(workingDirectory, DefaultsFileName)
	if _, statError := os.Stat(defaultsPath); statError != nil {
		if os.IsNotExist(statError) {
			return Defaults{}, nil
		}
		return Defaults{}, fmt.Errorf("stat defaults file %s: %w", defaultsPath, statError)
	}

	reader := viper.New()
	reader.SetConfigFile(defaultsPath)
	if readError := reader.ReadInConfig(); readError != nil {
		return Defaults{}, fmt.Errorf("read defaults from %s: %w", defaultsPath, readError)
	}
	var loadedDefaults Defaults
	if decodeError := reader.Unmarshal(&loadedDefaults); decodeError != nil {
		return Defaults{}, fmt.Errorf("decode defaults from %s: %w", defaultsPath, decodeError)
	}
	return loadedDefaults, nil
}

// ApplyDefaults overlays file-provided defaults onto options the user left
// at their zero value. Explicit flags are never overridden.
func ApplyDefaults(options Options, defaults Defaults) Options {
	result := options
	if result.MaxSizeLiteral == "" {
		result.MaxSizeLiteral = defaults.MaxSize
	}
	if !result.NoRecursive && defaults.NoRecursive != nil {
		result.NoRecursive = *defaults.NoRecursive
	}
	if len(result.Extensions) == 0 {
		result.Extensions = append(result.Extensions, defaults.Extensions...)
	}
	if len(result.ExcludedExtensions) == 0 {
		result.ExcludedExtensions = append(result.ExcludedExtensions, defaults.ExcludedExtensions...)
	}
	result.IgnoreEntries = append(result.IgnoreEntries, defaults.Ignore...)
	if !result.RemoveComments && defaults.RemoveComments != nil {
		result.RemoveComments = *defaults.RemoveComments
	}
	if !result.RemoveEmptyLines && defaults.RemoveEmptyLines != nil {
		result.RemoveEmptyLines = *defaults.RemoveEmptyLines
	}
	if !result.FilenameOnly && defaults.FilenameOnly != nil {
		result.FilenameOnly = *defaults.FilenameOnly
	}
	if !result.LineNumbers && defaults.LineNumbers != nil {
		result.LineNumbers = *defaults.LineNumbers
	}
	if !result.NoGitignore && defaults.NoGitignore != nil {
		result.NoGitignore = *defaults.NoGitignore
	}
	if result.OutputPath == "" {
		result.OutputPath = defaults.Output
	}
	if !result.CopyToClipboard && defaults.Copy != nil {
		result.CopyToClipboard = *defaults.Copy
	}
	if !result.CountTokens && defaults.Tokens != nil {
		result.CountTokens = *defaults.Tokens
	}
	if result.TokenizerModel == "" {
		result.TokenizerModel = defaults.Model
	}
	return result
}
