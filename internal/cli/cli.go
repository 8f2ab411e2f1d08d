// Package cli provides the command line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/temirov/mdtree/internal/config"
	"github.com/temirov/mdtree/internal/services/clipboard"
	"github.com/temirov/mdtree/internal/types"
	"github.com/temirov/mdtree/internal/utils"
)

const (
	exclusionFlagName    = "e"
	noGitignoreFlagName  = "no-gitignore"
	noIgnoreFlagName     = "no-ignore"
	includeGitFlagName   = "git"
	tokensFlagName       = "tokens"
	modelFlagName        = "model"
	copyFlagName         = "copy"
	formatFlagName       = "format"
	outputFlagName       = "output"
	outputFlagShorthand  = "o"
	maxLengthFlagName    = "max-length"
	maxLengthShorthand   = "x"
	replaceFlagName      = "replace"
	replaceFlagShorthand = "r"
	goModuleFlagName     = "go-module"
	concurrencyFlagName  = "concurrency"
	commitFlagName       = "commit"
	ignoreExistingFlag   = "ignore-existing-folders"
	valuesFlagName       = "values"
	globalFlagName       = "global"
	forceFlagName        = "force"
	debugFlagName        = "debug"
	configFlagName       = "config"
	versionFlagName      = "version"
	versionTemplate      = "mdtree version: %s\n"
	defaultPath          = "."
	rootUse              = utils.ApplicationName
	rootShortDescription = "convert directories to Markdown templates and back"
	rootLongDescription  = `mdtree converts a directory into a single editable Markdown document and builds
directories back from such documents.
The document holds an ASCII tree of the directory, a linked listing and one
section per file. Sections may declare replacements, tokens that build swaps
for values given with -r or --values.`
	versionFlagDescription = "display application version"
	debugFlagDescription   = "set log level to debug"
	configFlagDescription  = "path to a configuration file"

	markdownUse              = types.CommandMarkdown + " <path>"
	buildUse                 = types.CommandBuild + " <document>"
	treeUse                  = types.CommandTree + " [path]"
	initUse                  = types.CommandInit
	markdownShortDescription = "generate a Markdown template from a directory (" + types.AliasMarkdown + ")"
	buildShortDescription    = "build a directory from a Markdown template (" + types.AliasBuild + ")"
	treeShortDescription     = "display only the directory tree (" + types.AliasTree + ")"
	initShortDescription     = "write the default configuration file"

	// markdownLongDescription provides detailed help for the markdown command.
	markdownLongDescription = `Traverse a directory and write it as a Markdown document.
Files longer than --max-length lines are truncated; use -1 to keep everything.
Markdown files are never echoed since they would break the document structure.
Use -r KEY:token to declare replacements wherever the token occurs.`
	// markdownUsageExample demonstrates markdown command usage.
	markdownUsageExample = `  # Write a full template of the current module, declaring its module path
  mdtree markdown . -o template.md -x -1 --go-module

  # Declare a replacement for the project name and copy the result
  mdtree md ./service -r 'PROJ:service' --copy`

	// buildLongDescription provides detailed help for the build command.
	buildLongDescription = `Read a Markdown template and create its directory under --output.
Nothing is written unless --commit is given. Replacement values come from a
dotenv file given with --values and from -r KEY:value, the flags winning.`
	// buildUsageExample demonstrates build command usage.
	buildUsageExample = `  # Preview what would be created
  mdtree build template.md -o ./new-service -r 'PROJ:billing'

  # Create it, reusing folders that already exist
  mdtree b template.md -o ./new-service --values values.env --commit --ignore-existing-folders`

	// treeLongDescription provides detailed help for the tree command.
	treeLongDescription = `Print the directory tree the markdown command would embed.
Use --format to select raw, json, or xml output.`
	// treeUsageExample demonstrates tree command usage.
	treeUsageExample = `  # Tree of the current directory without the vendor folder
  mdtree tree -e vendor

  # Render the tree in JSON format
  mdtree t --format json ./cmd`

	initLongDescription = `Write the default configuration to ./` + utils.ConfigFileName + `, or to the global
configuration with --global.`

	exclusionFlagDescription        = "exclude path pattern"
	disableGitignoreFlagDescription = "do not use .gitignore files"
	disableIgnoreFlagDescription    = "do not use .ignore files"
	includeGitFlagDescription       = "include git directory"
	tokensFlagDescription           = "log a token estimate of the document"
	modelFlagDescription            = "tokenizer model to use for token counting"
	copyFlagDescription             = "copy the result to the clipboard"
	formatFlagDescription           = "output format: raw, json or xml"
	markdownOutputFlagDescription   = "destination Markdown file; standard output when empty"
	buildOutputFlagDescription      = "destination directory"
	maxLengthFlagDescription        = "maximum lines written per file, -1 for all of them"
	declareFlagDescription          = "replacement declaration KEY:token, repeatable"
	valueFlagDescription            = "replacement value KEY:value, repeatable"
	goModuleFlagDescription         = "declare MODULE for the module path in go.mod"
	concurrencyFlagDescription      = "files read at once, 0 for one per CPU"
	commitFlagDescription           = "write files instead of a dry run"
	ignoreExistingFlagDescription   = "reuse destination folders that already exist"
	valuesFlagDescription           = "dotenv file with replacement values"
	globalFlagDescription           = "write the global configuration"
	forceFlagDescription            = "overwrite an existing configuration file"

	invalidFormatMessage       = "invalid format value '%s'"
	errorPathMissingFormat     = "path '%s' does not exist"
	errorStatFormat            = "stat failed for '%s': %w"
	errorAbsolutePathFormat    = "abs failed for '%s': %w"
	errorNotDirectoryFormat    = "path '%s' is not a directory"
	errorInvalidAssignment     = "invalid %s value %q, expected KEY:value"
	errorLoadConfigFormat      = "loading configuration: %w"
	errorClipboardFormat       = "copying to clipboard: %w"
	errorLoadValuesFormat      = "loading values from %s: %w"
	errorCountTokensFormat     = "counting tokens: %w"
	initializedMessageFormat   = "configuration written to %s\n"
	documentWrittenMessage     = "document written"
	clipboardCopiedMessage     = "copied to clipboard"
	homeDirectoryMessage       = "home directory unavailable; the global gitignore is skipped"
	tokenEstimateMessage       = "token estimate"
	dryRunCompletedMessage     = "dry run complete; pass --commit to write files"
	buildCompletedMessage      = "build complete"
	debugLoggingEnabledMessage = "debug logging enabled"
	configurationLoadedMessage = "configuration loaded"
)

// application carries the collaborators shared by every command.
type application struct {
	logger        *zap.Logger
	level         zap.AtomicLevel
	copier        clipboard.Copier
	configuration config.ApplicationConfiguration
}

// Execute runs the mdtree application.
func Execute(ctx context.Context, logger *zap.Logger, level zap.AtomicLevel) error {
	rootCommand := newRootCommand(&application{logger: logger, level: level, copier: clipboard.System})
	rootCommand.SetArgs(normalizeArguments(rootCommand, os.Args[1:]))
	return rootCommand.ExecuteContext(ctx)
}

// normalizeArguments rewrites "--flag value" pairs of boolean and copy flags
// into "--flag=value" so they are not taken for positional arguments.
func normalizeArguments(rootCommand *cobra.Command, arguments []string) []string {
	return normalizeBooleanFlagArguments(rootCommand, normalizeCopyFlagArguments(arguments))
}

// newRootCommand builds the root Cobra command.
func newRootCommand(app *application) *cobra.Command {
	var showVersion bool
	var debugEnabled bool
	var configurationPath string

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			if showVersion {
				fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
			if debugEnabled {
				app.level.SetLevel(zapcore.DebugLevel)
				app.logger.Debug(debugLoggingEnabledMessage)
			}
			if command.Name() == types.CommandInit {
				return nil
			}
			loaded, loadError := config.LoadApplicationConfiguration(config.LoadOptions{ExplicitFilePath: configurationPath})
			if loadError != nil {
				return fmt.Errorf(errorLoadConfigFormat, loadError)
			}
			app.configuration = loaded
			app.logger.Debug(configurationLoadedMessage, zap.Any("configuration", loaded))
			return nil
		},
	}
	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	registerBooleanFlag(rootCommand.PersistentFlags(), &debugEnabled, debugFlagName, false, debugFlagDescription)
	rootCommand.PersistentFlags().StringVar(&configurationPath, configFlagName, "", configFlagDescription)
	rootCommand.AddCommand(
		newMarkdownCommand(app),
		newBuildCommand(app),
		newTreeCommand(app),
		newInitCommand(),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// copyToClipboard copies text when enabled and logs the outcome.
func (app *application) copyToClipboard(enabled bool, text string) error {
	if !enabled {
		return nil
	}
	if err := app.copier.Copy(text); err != nil {
		return fmt.Errorf(errorClipboardFormat, err)
	}
	app.logger.Info(clipboardCopiedMessage, zap.String("size", utils.FormatFileSize(int64(len(text)))))
	return nil
}

// homeDirectory returns the user's home directory, or an empty string when
// it cannot be resolved.
func (app *application) homeDirectory() string {
	directory, err := os.UserHomeDir()
	if err != nil {
		app.logger.Warn(homeDirectoryMessage, zap.Error(err))
		return ""
	}
	return directory
}

func writeOutput(writer io.Writer, text string) error {
	_, err := io.WriteString(writer, text)
	return err
}

// resolveDirectory converts an input path to absolute form and checks that
// it is an existing directory.
func resolveDirectory(inputPath string) (types.ValidatedPath, error) {
	absolutePath, absolutePathError := filepath.Abs(inputPath)
	if absolutePathError != nil {
		return types.ValidatedPath{}, fmt.Errorf(errorAbsolutePathFormat, inputPath, absolutePathError)
	}
	cleanPath := filepath.Clean(absolutePath)
	info, statError := os.Stat(cleanPath)
	if statError != nil {
		if os.IsNotExist(statError) {
			return types.ValidatedPath{}, fmt.Errorf(errorPathMissingFormat, inputPath)
		}
		return types.ValidatedPath{}, fmt.Errorf(errorStatFormat, inputPath, statError)
	}
	if !info.IsDir() {
		return types.ValidatedPath{}, fmt.Errorf(errorNotDirectoryFormat, inputPath)
	}
	return types.ValidatedPath{AbsolutePath: cleanPath, IsDir: true}, nil
}
