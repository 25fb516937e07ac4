// Package cli provides the command line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/tyemirov/codepack/internal/commands"
	"github.com/tyemirov/codepack/internal/config"
	"github.com/tyemirov/codepack/internal/output"
	"github.com/tyemirov/codepack/internal/services/clipboard"
	"github.com/tyemirov/codepack/internal/tokenizer"
	"github.com/tyemirov/codepack/internal/utils"
)

const (
	rootUse              = "codepack"
	rootShortDescription = "pack a codebase into one Markdown document"
	rootLongDescription  = `codepack walks a directory tree, skips ignored, binary and oversized files,
and writes the remaining text files into a single Markdown document preceded by the
project structure.
Options are read from ~/.codepack/config.yaml, ./.codepack.yaml (or --config),
CODEPACK_* environment variables and flags, later sources taking precedence.`
	rootUsageExample = `  # Pack the current directory with defaults
  codepack

  # Pack ./service, skip logs and fixtures, and honor .gitignore
  codepack --root ./service --exclude '*.log' --ignore-dirs fixtures --gitignore

  # Write to a fixed file, count gpt-4o tokens and copy the result
  codepack -o context.md --model gpt-4o --clipboard`

	initUse              = "init"
	initShortDescription = "write a starter configuration file"
	initLongDescription  = `Write a configuration template to ./.codepack.yaml, or to
~/.codepack/config.yaml with --target global. Existing files are kept unless --force is set.`

	rootFlagName        = "root"
	outputFlagName      = "output"
	outputFlagShorthand = "o"
	maxSizeFlagName     = "max-size"
	excludeFlagName     = "exclude"
	ignoreDirsFlagName  = "ignore-dirs"
	ignoreFilesFlagName = "ignore-files"
	gitignoreFlagName   = "gitignore"
	modelFlagName       = "model"
	clipboardFlagName   = "clipboard"
	configFlagName      = "config"
	versionFlagName     = "version"
	targetFlagName      = "target"
	forceFlagName       = "force"

	rootFlagDescription        = "root directory to scan"
	outputFlagDescription      = "output file (default CODEBASE_DUMP_<timestamp>.md in the working directory)"
	maxSizeFlagDescription     = "largest file size in bytes to include"
	excludeFlagDescription     = "additional glob pattern to exclude, matched against file names"
	ignoreDirsFlagDescription  = "additional directory name to skip"
	ignoreFilesFlagDescription = "additional file name to skip"
	gitignoreFlagDescription   = "also skip paths listed in the root .gitignore"
	modelFlagDescription       = "count tokens with this tokenizer model in addition to the estimate"
	clipboardFlagDescription   = "copy the finished document to the clipboard"
	configFlagDescription      = "configuration file to use instead of ./.codepack.yaml"
	versionFlagDescription     = "display application version"
	targetFlagDescription      = "where to write the configuration: local or global"
	forceFlagDescription       = "overwrite an existing configuration file"

	defaultRoot                   = "."
	versionTemplate               = "codepack version: %s\n"
	initSuccessTemplate           = "Configuration written to %s\n"
	workingDirectoryErrorFormat   = "unable to determine working directory: %w"
	tokenizerErrorFormat          = "initialize tokenizer: %w"
	clipboardReadErrorFormat      = "read %s for the clipboard: %w"
	statusWriteErrorFormat        = "write status: %w"
	clipboardCopiedMessage        = "Copied document to clipboard"
	clipboardCopyFailedMessage    = "Failed to copy document to clipboard"
	unsupportedInitTargetTemplate = "unsupported --target %q; use local or global"
)

// Dependencies holds the process resources used by the commands. Tests substitute
// in-memory implementations.
type Dependencies struct {
	FileSystem       afero.Fs
	Logger           *zap.Logger
	StatusWriter     io.Writer
	Clock            func() time.Time
	Clipboard        clipboard.Copier
	WorkingDirectory string
	HomeDirectory    string
	ProgramName      string
}

// Execute runs the codepack application against the real environment.
func Execute(logger *zap.Logger) error {
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
	}
	homeDirectory, homeError := os.UserHomeDir()
	if homeError != nil {
		homeDirectory = utils.EmptyString
	}
	dependencies := Dependencies{
		FileSystem:       afero.NewOsFs(),
		Logger:           logger,
		StatusWriter:     os.Stdout,
		Clock:            time.Now,
		Clipboard:        clipboard.NewService(),
		WorkingDirectory: workingDirectory,
		HomeDirectory:    homeDirectory,
		ProgramName:      filepath.Base(os.Args[0]),
	}
	rootCommand := NewRootCommand(dependencies)
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.ExecuteContext(context.Background())
}

// flagValues receives the parsed command line flags.
type flagValues struct {
	root        string
	output      string
	maxSize     int64
	exclude     []string
	ignoreDirs  []string
	ignoreFiles []string
	gitignore   bool
	model       string
	clipboard   bool
	configPath  string
	showVersion bool
}

func (dependencies Dependencies) withDefaults() Dependencies {
	if dependencies.FileSystem == nil {
		dependencies.FileSystem = afero.NewOsFs()
	}
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	if dependencies.StatusWriter == nil {
		dependencies.StatusWriter = io.Discard
	}
	if dependencies.Clock == nil {
		dependencies.Clock = time.Now
	}
	if dependencies.Clipboard == nil {
		dependencies.Clipboard = clipboard.NewService()
	}
	return dependencies
}

// NewRootCommand builds the codepack command tree around dependencies.
func NewRootCommand(dependencies Dependencies) *cobra.Command {
	var values flagValues
	dependencies = dependencies.withDefaults()

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if values.showVersion {
				fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				return nil
			}
			return runPack(command.Context(), dependencies, values, flagOverrides(command.Flags(), values))
		},
	}

	flagSet := rootCommand.Flags()
	flagSet.StringVar(&values.root, rootFlagName, defaultRoot, rootFlagDescription)
	flagSet.StringVarP(&values.output, outputFlagName, outputFlagShorthand, utils.EmptyString, outputFlagDescription)
	flagSet.Int64Var(&values.maxSize, maxSizeFlagName, config.DefaultMaxFileSizeBytes, maxSizeFlagDescription)
	flagSet.StringArrayVar(&values.exclude, excludeFlagName, nil, excludeFlagDescription)
	flagSet.StringArrayVar(&values.ignoreDirs, ignoreDirsFlagName, nil, ignoreDirsFlagDescription)
	flagSet.StringArrayVar(&values.ignoreFiles, ignoreFilesFlagName, nil, ignoreFilesFlagDescription)
	registerBooleanFlag(flagSet, &values.gitignore, gitignoreFlagName, false, gitignoreFlagDescription)
	flagSet.StringVar(&values.model, modelFlagName, utils.EmptyString, modelFlagDescription)
	registerBooleanFlag(flagSet, &values.clipboard, clipboardFlagName, false, clipboardFlagDescription)
	flagSet.StringVar(&values.configPath, configFlagName, utils.EmptyString, configFlagDescription)
	flagSet.BoolVar(&values.showVersion, versionFlagName, false, versionFlagDescription)

	rootCommand.AddCommand(newInitCommand(dependencies))
	return rootCommand
}

// flagOverrides keeps only the flags the user actually set so configuration files and
// environment variables are not masked by flag defaults.
func flagOverrides(flagSet *pflag.FlagSet, values flagValues) config.ApplicationConfiguration {
	var overrides config.ApplicationConfiguration
	if flagSet.Changed(rootFlagName) {
		overrides.Root = values.root
	}
	if flagSet.Changed(outputFlagName) {
		overrides.Output = values.output
	}
	if flagSet.Changed(maxSizeFlagName) {
		maxSize := values.maxSize
		overrides.MaxSize = &maxSize
	}
	overrides.Exclude = values.exclude
	overrides.IgnoreDirs = values.ignoreDirs
	overrides.IgnoreFiles = values.ignoreFiles
	if flagSet.Changed(gitignoreFlagName) {
		gitignore := values.gitignore
		overrides.Gitignore = &gitignore
	}
	if flagSet.Changed(clipboardFlagName) {
		copyToClipboard := values.clipboard
		overrides.Clipboard = &copyToClipboard
	}
	if flagSet.Changed(modelFlagName) {
		overrides.Tokens.Model = values.model
	}
	return overrides
}

func runPack(ctx context.Context, dependencies Dependencies, values flagValues, overrides config.ApplicationConfiguration) error {
	loadedConfiguration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
		FileSystem:       dependencies.FileSystem,
		WorkingDirectory: dependencies.WorkingDirectory,
		HomeDirectory:    dependencies.HomeDirectory,
		ExplicitFilePath: values.configPath,
	})
	if loadError != nil {
		return loadError
	}

	startedAt := dependencies.Clock()
	configuration, buildError := config.BuildConfiguration(loadedConfiguration.Merge(overrides), config.BuildOptions{
		WorkingDirectory: dependencies.WorkingDirectory,
		ProgramName:      dependencies.ProgramName,
		Now:              startedAt,
	})
	if buildError != nil {
		return buildError
	}

	var tokenCounter tokenizer.Counter
	var tokenModel string
	if configuration.TokenModel != utils.EmptyString {
		counter, resolvedModel, counterError := tokenizer.NewCounter(tokenizer.Config{Model: configuration.TokenModel})
		if counterError != nil {
			return fmt.Errorf(tokenizerErrorFormat, counterError)
		}
		tokenCounter = counter
		tokenModel = resolvedModel
	}

	packer, packerError := commands.NewPacker(commands.PackerOptions{
		FileSystem:    dependencies.FileSystem,
		Configuration: configuration,
		Logger:        dependencies.Logger,
		StatusWriter:  dependencies.StatusWriter,
		Now:           func() time.Time { return startedAt },
		TokenCounter:  tokenCounter,
		TokenModel:    tokenModel,
	})
	if packerError != nil {
		return packerError
	}
	statistics, runError := packer.Run(ctx)
	if runError != nil {
		return runError
	}

	if separatorError := output.WriteSeparator(dependencies.StatusWriter); separatorError != nil {
		return fmt.Errorf(statusWriteErrorFormat, separatorError)
	}
	for _, summaryLine := range output.SummaryLines(configuration.OutputPath, statistics, utils.FormatFileSize(statistics.BytesWritten)) {
		dependencies.Logger.Info(summaryLine)
	}

	if configuration.CopyToClipboard {
		document, readError := afero.ReadFile(dependencies.FileSystem, configuration.OutputPath)
		if readError != nil {
			return fmt.Errorf(clipboardReadErrorFormat, configuration.OutputPath, readError)
		}
		if copyError := dependencies.Clipboard.Copy(string(document)); copyError != nil {
			dependencies.Logger.Warn(clipboardCopyFailedMessage, zap.Error(copyError))
		} else {
			dependencies.Logger.Info(clipboardCopiedMessage)
		}
	}
	return nil
}

// newInitCommand returns the init subcommand.
func newInitCommand(dependencies Dependencies) *cobra.Command {
	var target string
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			initTarget := config.InitTarget(strings.ToLower(strings.TrimSpace(target)))
			if initTarget != config.InitTargetLocal && initTarget != config.InitTargetGlobal {
				return fmt.Errorf(unsupportedInitTargetTemplate, target)
			}
			writtenPath, initError := config.InitializeConfiguration(config.InitOptions{
				FileSystem:       dependencies.FileSystem,
				Target:           initTarget,
				Force:            force,
				WorkingDirectory: dependencies.WorkingDirectory,
				HomeDirectory:    dependencies.HomeDirectory,
			})
			if initError != nil {
				return initError
			}
			fmt.Fprintf(command.OutOrStdout(), initSuccessTemplate, writtenPath)
			return nil
		},
	}
	initCommand.Flags().StringVar(&target, targetFlagName, string(config.InitTargetLocal), targetFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &force, forceFlagName, false, forceFlagDescription)
	return initCommand
}
