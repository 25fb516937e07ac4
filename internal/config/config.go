// Package config resolves the packing configuration from layered sources.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/tyemirov/codepack/internal/types"
	"github.com/tyemirov/codepack/internal/utils"
)

const (
	// DefaultMaxFileSizeBytes is the largest file included when nothing else is configured.
	DefaultMaxFileSizeBytes int64 = 1024 * 1024
	// DefaultOutputPrefix starts every timestamp-derived output name.
	DefaultOutputPrefix = "CODEBASE_DUMP_"
	// DefaultOutputExtension ends every timestamp-derived output name.
	DefaultOutputExtension = ".md"
	// ProgramFileName identifies the tool itself so it never packs its own binary.
	ProgramFileName = "codepack"

	errorNegativeMaxSizeFormat = "max size must not be negative, got %d"
	errorResolveRootFormat     = "resolve root directory %s: %w"
)

// DefaultIgnoredDirectories lists directories that never hold packable source.
var DefaultIgnoredDirectories = []string{
	".git", "node_modules", "__pycache__", "venv", ".venv", "env",
	".idea", ".vscode", "build", "dist", "target", ".next", "bin", "obj",
}

// DefaultIgnoredFiles lists OS metadata files and package-manager lockfiles.
var DefaultIgnoredFiles = []string{
	".DS_Store", "package-lock.json", "yarn.lock", "pnpm-lock.yaml", "mix.lock",
}

// defaultExcludePatterns keeps dumps from earlier runs out of new ones.
var defaultExcludePatterns = []string{DefaultOutputPrefix + "*" + DefaultOutputExtension}

// BuildOptions carries the run-time facts needed to resolve a configuration.
type BuildOptions struct {
	WorkingDirectory string
	ProgramName      string
	Now              time.Time
}

// DefaultOutputName derives the output file name from the local time, e.g. CODEBASE_DUMP_20261018_140305.md.
func DefaultOutputName(now time.Time) string {
	return DefaultOutputPrefix + utils.FormatDumpNameTimestamp(now) + DefaultOutputExtension
}

// BuildConfiguration merges the application configuration with the built-in defaults
// and returns the immutable snapshot used by a packing run.
func BuildConfiguration(application ApplicationConfiguration, options BuildOptions) (*types.Configuration, error) {
	rootDirectory, rootError := resolveRoot(application.Root, options.WorkingDirectory)
	if rootError != nil {
		return nil, rootError
	}

	maxFileSizeBytes := DefaultMaxFileSizeBytes
	if application.MaxSize != nil {
		maxFileSizeBytes = *application.MaxSize
	}
	if maxFileSizeBytes < 0 {
		return nil, fmt.Errorf(errorNegativeMaxSizeFormat, maxFileSizeBytes)
	}

	outputPath := strings.TrimSpace(application.Output)
	if outputPath == "" {
		outputPath = DefaultOutputName(options.Now)
	}
	if !filepath.IsAbs(outputPath) && options.WorkingDirectory != "" {
		outputPath = filepath.Join(options.WorkingDirectory, outputPath)
	}

	programName := strings.TrimSpace(options.ProgramName)
	if programName == "" {
		programName = ProgramFileName
	}
	selfNames := utils.DeduplicatePatterns([]string{filepath.Base(outputPath), programName, ProgramFileName})

	excludePatterns := utils.DeduplicatePatterns(append(append([]string{}, defaultExcludePatterns...), application.Exclude...))

	return &types.Configuration{
		Root:               rootDirectory,
		OutputPath:         outputPath,
		MaxFileSizeBytes:   maxFileSizeBytes,
		IgnoredDirectories: utils.NewNameSet(DefaultIgnoredDirectories, application.IgnoreDirs),
		IgnoredFiles:       utils.NewNameSet(DefaultIgnoredFiles, application.IgnoreFiles, selfNames),
		ExcludePatterns:    excludePatterns,
		UseGitignore:       boolValue(application.Gitignore),
		TokenModel:         strings.TrimSpace(application.Tokens.Model),
		CopyToClipboard:    boolValue(application.Clipboard),
	}, nil
}

func resolveRoot(root string, workingDirectory string) (string, error) {
	trimmedRoot := strings.TrimSpace(root)
	if trimmedRoot == "" {
		trimmedRoot = "."
	}
	if filepath.IsAbs(trimmedRoot) {
		return filepath.Clean(trimmedRoot), nil
	}
	if workingDirectory == "" {
		absoluteRoot, absoluteError := filepath.Abs(trimmedRoot)
		if absoluteError != nil {
			return "", fmt.Errorf(errorResolveRootFormat, trimmedRoot, absoluteError)
		}
		return absoluteRoot, nil
	}
	return filepath.Join(workingDirectory, trimmedRoot), nil
}

func boolValue(value *bool) bool {
	return value != nil && *value
}
