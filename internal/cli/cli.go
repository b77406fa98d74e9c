// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/projsnap/internal/commands"
	"github.com/temirov/projsnap/internal/config"
	"github.com/temirov/projsnap/internal/output"
	"github.com/temirov/projsnap/internal/services/clipboard"
	"github.com/temirov/projsnap/internal/tokenizer"
	"github.com/temirov/projsnap/internal/types"
	"github.com/temirov/projsnap/internal/utils"
)

const (
	rootFlagName       = "root"
	outputFlagName     = "output"
	outputFlagShort    = "o"
	maxSizeFlagName    = "max-size"
	hideHiddenFlagName = "hide-hidden"
	configFlagName     = "config"
	copyFlagName       = "copy"
	tokensFlagName     = "tokens"
	modelFlagName      = "model"
	verboseFlagName    = "verbose"
	verboseFlagShort   = "v"
	globalFlagName     = "global"
	forceFlagName      = "force"

	rootUse              = utils.ApplicationName
	rootShortDescription = "write a snapshot of a project's structure and file contents"
	rootLongDescription  = `projsnap walks a project directory and writes one text file containing an
indented tree of every directory and file followed by the content of each file.

Paths listed in .projectignore (one root-relative path per line, # for comments) are shown
in the tree but their content is replaced by a placeholder; an ignored directory is not
entered. Empty files and files above the size limit get placeholders as well. The trimmed
content of .projectheader and .projectfooter is written before and after the snapshot.`
	rootUsageExample = `  # Snapshot the directory containing the binary
  projsnap

  # Snapshot a checkout into a custom file and copy it to the clipboard
  projsnap --root ~/src/service -o /tmp/service.txt --copy

  # Report an estimated token count for the snapshot
  projsnap --tokens --model gpt-4o`
	versionTemplate = "projsnap version: {{.Version}}\n"

	initUse              = "init"
	initShortDescription = "write the default configuration file"
	initLongDescription  = `Write the default configuration to .projsnap.yaml in the working directory,
or to ~/.projsnap/config.yaml with --global. Existing files are kept unless --force is given.`

	rootFlagDescription       = "directory to snapshot (default: directory containing the executable)"
	outputFlagDescription     = "output file path"
	maxSizeFlagDescription    = "largest file size in bytes whose content is included"
	hideHiddenFlagDescription = "skip entries whose name starts with a dot"
	configFlagDescription     = "configuration file to use instead of ./.projsnap.yaml"
	copyFlagDescription       = "copy the snapshot to the system clipboard"
	tokensFlagDescription     = "log an estimated token count for the snapshot"
	modelFlagDescription      = "tokenizer model used by --tokens"
	verboseFlagDescription    = "enable debug logging"
	globalFlagDescription     = "write the global configuration file"
	forceFlagDescription      = "overwrite an existing configuration file"

	initConfirmationFormat      = "Configuration written to %s\n"
	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	tokenizerErrorFormat        = "initialize tokenizer for model %s: %w"

	logMessageSnapshotWritten = "snapshot written"
	logMessageCopyFailed      = "failed to copy snapshot to clipboard"
	logMessageCopied          = "snapshot copied to clipboard"
	logMessageTokenEstimate   = "snapshot token estimate"
	logMessageTokenSkipped    = "snapshot text could not be tokenized"
	logFieldRoot              = "root"
	logFieldOutput            = "output"
	logFieldFiles             = "files"
	logFieldDirectories       = "directories"
	logFieldTokens            = "tokens"
	logFieldModel             = "model"
)

// Dependencies carries the collaborators of a run so they can be replaced in tests.
type Dependencies struct {
	Logger         *zap.Logger
	LogLevel       zap.AtomicLevel
	Clipboard      clipboard.Copier
	NewCounter     func(model string) (tokenizer.Counter, string, error)
	ExecutablePath func() (string, error)
}

// Execute runs the projsnap application.
func Execute(logger *zap.Logger, logLevel zap.AtomicLevel) error {
	rootCommand := createRootCommand(Dependencies{
		Logger:         logger,
		LogLevel:       logLevel,
		Clipboard:      clipboard.NewService(),
		NewCounter:     tokenizer.NewCounter,
		ExecutablePath: os.Executable,
	})
	rootCommand.SetArgs(normalizeToggleArguments(rootCommand, os.Args[1:]))
	return rootCommand.Execute()
}

// snapshotOptions stores the values of the root command flags.
type snapshotOptions struct {
	rootDirectory  string
	outputPath     string
	maxFileSize    int64
	hideHidden     bool
	configFilePath string
	copyToClip     bool
	countTokens    bool
	tokenModel     string
	verbose        bool
}

// runOptions are the resolved post-processing choices of one run.
type runOptions struct {
	copyToClip  bool
	countTokens bool
	tokenModel  string
}

// createRootCommand builds the root Cobra command.
func createRootCommand(dependencies Dependencies) *cobra.Command {
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	if dependencies.LogLevel == (zap.AtomicLevel{}) {
		dependencies.LogLevel = zap.NewAtomicLevel()
	}
	var options snapshotOptions

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Example:      rootUsageExample,
		Version:      utils.GetApplicationVersion(),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if options.verbose {
				dependencies.LogLevel.SetLevel(zapcore.DebugLevel)
			}
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return runSnapshot(command, dependencies, options)
		},
	}
	rootCommand.SetVersionTemplate(versionTemplate)

	flagSet := rootCommand.Flags()
	flagSet.StringVar(&options.rootDirectory, rootFlagName, utils.EmptyString, rootFlagDescription)
	flagSet.StringVarP(&options.outputPath, outputFlagName, outputFlagShort, utils.DefaultOutputFileName, outputFlagDescription)
	flagSet.Int64Var(&options.maxFileSize, maxSizeFlagName, utils.DefaultMaxFileSize, maxSizeFlagDescription)
	registerToggleFlag(flagSet, &options.hideHidden, hideHiddenFlagName, hideHiddenFlagDescription)
	flagSet.StringVar(&options.configFilePath, configFlagName, utils.EmptyString, configFlagDescription)
	registerToggleFlag(flagSet, &options.copyToClip, copyFlagName, copyFlagDescription)
	registerToggleFlag(flagSet, &options.countTokens, tokensFlagName, tokensFlagDescription)
	flagSet.StringVar(&options.tokenModel, modelFlagName, tokenizer.DefaultModel, modelFlagDescription)
	rootCommand.PersistentFlags().BoolVarP(&options.verbose, verboseFlagName, verboseFlagShort, false, verboseFlagDescription)

	rootCommand.AddCommand(createInitCommand())
	rootCommand.InitDefaultHelpCmd()
	return rootCommand
}

// runSnapshot resolves settings, builds the snapshot and writes it.
func runSnapshot(command *cobra.Command, dependencies Dependencies, options snapshotOptions) error {
	logger := dependencies.Logger
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
	}

	configuration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: options.configFilePath,
	})
	if configurationError != nil {
		return configurationError
	}

	settings := configuration.ApplyTo(config.DefaultSettings())
	settings = options.applyChangedFlags(command.Flags(), settings)
	executablePath := resolveExecutablePath(dependencies.ExecutablePath)
	if executablePath != utils.EmptyString {
		settings.ExecutableName = filepath.Base(executablePath)
	}
	if settings.RootDirectory == utils.EmptyString {
		settings.RootDirectory = defaultRootDirectory(executablePath, workingDirectory)
	}
	post := options.resolveRunOptions(command.Flags(), configuration)

	snapshot, buildError := commands.BuildSnapshot(settings, logger)
	if buildError != nil {
		return buildError
	}
	if writeError := output.WriteSnapshotFile(settings.OutputPath, snapshot, settings.Title); writeError != nil {
		return writeError
	}
	logger.Debug(logMessageSnapshotWritten,
		zap.String(logFieldRoot, settings.RootDirectory),
		zap.String(logFieldOutput, settings.OutputPath),
		zap.Int(logFieldFiles, snapshot.FileCount),
		zap.Int(logFieldDirectories, snapshot.DirectoryCount),
	)

	if post.copyToClip || post.countTokens {
		renderedText, renderError := output.RenderSnapshot(snapshot, settings.Title)
		if renderError != nil {
			return renderError
		}
		var postProcessing errgroup.Group
		if post.copyToClip {
			postProcessing.Go(func() error {
				copySnapshot(dependencies, renderedText)
				return nil
			})
		}
		if post.countTokens {
			postProcessing.Go(func() error {
				return reportTokenEstimate(dependencies, post.tokenModel, renderedText)
			})
		}
		if postProcessingError := postProcessing.Wait(); postProcessingError != nil {
			return postProcessingError
		}
	}

	fmt.Fprintf(command.OutOrStdout(), utils.ConfirmationFormat, settings.OutputPath)
	return nil
}

// applyChangedFlags overlays only the flags the user set explicitly.
func (options snapshotOptions) applyChangedFlags(flagSet *pflag.FlagSet, settings types.Settings) types.Settings {
	if flagSet.Changed(rootFlagName) {
		settings.RootDirectory = options.rootDirectory
	}
	if flagSet.Changed(outputFlagName) {
		settings.OutputPath = options.outputPath
	}
	if flagSet.Changed(maxSizeFlagName) {
		settings.MaxFileSize = options.maxFileSize
	}
	if flagSet.Changed(hideHiddenFlagName) {
		settings.HideHidden = options.hideHidden
	}
	return settings
}

func (options snapshotOptions) resolveRunOptions(flagSet *pflag.FlagSet, configuration config.ApplicationConfiguration) runOptions {
	resolved := runOptions{tokenModel: tokenizer.DefaultModel}
	if configuration.Clipboard != nil {
		resolved.copyToClip = *configuration.Clipboard
	}
	if configuration.Tokens.Enabled != nil {
		resolved.countTokens = *configuration.Tokens.Enabled
	}
	if configuration.Tokens.Model != utils.EmptyString {
		resolved.tokenModel = configuration.Tokens.Model
	}
	if flagSet.Changed(copyFlagName) {
		resolved.copyToClip = options.copyToClip
	}
	if flagSet.Changed(tokensFlagName) {
		resolved.countTokens = options.countTokens
	}
	if flagSet.Changed(modelFlagName) {
		resolved.tokenModel = options.tokenModel
	}
	return resolved
}

func copySnapshot(dependencies Dependencies, renderedText string) {
	if dependencies.Clipboard == nil {
		return
	}
	if copyError := dependencies.Clipboard.Copy(renderedText); copyError != nil {
		dependencies.Logger.Warn(logMessageCopyFailed, zap.Error(copyError))
		return
	}
	dependencies.Logger.Debug(logMessageCopied)
}

func reportTokenEstimate(dependencies Dependencies, model string, renderedText string) error {
	newCounter := dependencies.NewCounter
	if newCounter == nil {
		newCounter = tokenizer.NewCounter
	}
	counter, encodingName, counterError := newCounter(model)
	if counterError != nil {
		return fmt.Errorf(tokenizerErrorFormat, model, counterError)
	}
	countResult, countError := tokenizer.CountText(counter, renderedText)
	if countError != nil {
		return fmt.Errorf(tokenizerErrorFormat, model, countError)
	}
	if !countResult.Counted {
		dependencies.Logger.Warn(logMessageTokenSkipped, zap.String(logFieldModel, encodingName))
		return nil
	}
	dependencies.Logger.Info(logMessageTokenEstimate, zap.Int(logFieldTokens, countResult.Tokens), zap.String(logFieldModel, encodingName))
	return nil
}

// resolveExecutablePath returns the symlink-resolved path of the running binary, or an
// empty string when it cannot be determined.
func resolveExecutablePath(executablePath func() (string, error)) string {
	if executablePath == nil {
		return utils.EmptyString
	}
	path, pathError := executablePath()
	if pathError != nil || path == utils.EmptyString {
		return utils.EmptyString
	}
	if resolvedPath, evalError := filepath.EvalSymlinks(path); evalError == nil {
		return resolvedPath
	}
	return path
}

// defaultRootDirectory is the directory holding the executable, or the working directory.
func defaultRootDirectory(executablePath string, workingDirectory string) string {
	if executablePath == utils.EmptyString {
		return workingDirectory
	}
	return filepath.Dir(executablePath)
}

// createInitCommand returns the init subcommand.
func createInitCommand() *cobra.Command {
	var global bool
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			destinationPath, initError := config.InitializeConfiguration(config.InitOptions{
				Target: target,
				Force:  force,
			})
			if initError != nil {
				return initError
			}
			fmt.Fprintf(command.OutOrStdout(), initConfirmationFormat, destinationPath)
			return nil
		},
	}
	initCommand.Flags().BoolVar(&global, globalFlagName, false, globalFlagDescription)
	initCommand.Flags().BoolVar(&force, forceFlagName, false, forceFlagDescription)
	return initCommand
}
