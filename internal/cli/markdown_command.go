package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/mdtree/internal/commands"
	"github.com/temirov/mdtree/internal/document"
	"github.com/temirov/mdtree/internal/tokenizer"
	"github.com/temirov/mdtree/internal/types"
	"github.com/temirov/mdtree/internal/utils"
)

// newMarkdownCommand returns the markdown subcommand.
func newMarkdownCommand(app *application) *cobra.Command {
	var pathConfiguration pathOptions
	var tokenConfiguration tokenOptions
	var outputPath string
	var maxLength int
	var declarations []string
	var goModule bool
	var concurrency int
	var copyEnabled bool

	markdownCommand := &cobra.Command{
		Use:     markdownUse,
		Aliases: []string{types.AliasMarkdown},
		Short:   markdownShortDescription,
		Long:    markdownLongDescription,
		Example: markdownUsageExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			configuration := app.configuration.Markdown
			pathConfiguration.applyConfiguration(command, configuration.Paths)
			tokenConfiguration.applyConfiguration(command, configuration.Tokens)
			applyInt(command, maxLengthFlagName, &maxLength, configuration.MaxLength)
			applyBool(command, goModuleFlagName, &goModule, configuration.GoModule)
			applyInt(command, concurrencyFlagName, &concurrency, configuration.Concurrency)
			applyBool(command, copyFlagName, &copyEnabled, configuration.Clipboard)

			root, pathError := resolveDirectory(arguments[0])
			if pathError != nil {
				return pathError
			}
			declared, declarationError := parseAssignments(replaceFlagName, append(append([]string{}, configuration.Replacements...), declarations...))
			if declarationError != nil {
				return declarationError
			}
			homeDirectory := app.homeDirectory()

			documentText, generateError := commands.GenerateMarkdown(command.Context(), commands.MarkdownOptions{
				Root:         root.AbsolutePath,
				Paths:        pathConfiguration.toCommandOptions(homeDirectory, outputPath),
				MaxLength:    maxLength,
				Declarations: document.Rules(declared),
				GoModule:     goModule,
				Concurrency:  concurrency,
			}, app.logger)
			if generateError != nil {
				return generateError
			}

			if tokenConfiguration.enabled {
				if err := app.logTokenEstimate(tokenConfiguration.model, documentText); err != nil {
					return err
				}
			}
			if outputPath == "" {
				if err := writeOutput(command.OutOrStdout(), documentText); err != nil {
					return err
				}
			} else {
				if err := commands.WriteDocument(outputPath, documentText); err != nil {
					return err
				}
				app.logger.Info(documentWrittenMessage, zap.String("path", outputPath))
			}
			return app.copyToClipboard(copyEnabled, documentText)
		},
	}

	addPathFlags(markdownCommand, &pathConfiguration)
	markdownCommand.Flags().StringVarP(&outputPath, outputFlagName, outputFlagShorthand, "", markdownOutputFlagDescription)
	markdownCommand.Flags().IntVarP(&maxLength, maxLengthFlagName, maxLengthShorthand, document.DefaultMaxLength, maxLengthFlagDescription)
	markdownCommand.Flags().StringArrayVarP(&declarations, replaceFlagName, replaceFlagShorthand, nil, declareFlagDescription)
	registerBooleanFlag(markdownCommand.Flags(), &goModule, goModuleFlagName, false, goModuleFlagDescription)
	markdownCommand.Flags().IntVar(&concurrency, concurrencyFlagName, 0, concurrencyFlagDescription)
	registerBooleanFlag(markdownCommand.Flags(), &tokenConfiguration.enabled, tokensFlagName, false, tokensFlagDescription)
	markdownCommand.Flags().StringVar(&tokenConfiguration.model, modelFlagName, tokenizer.DefaultModel, modelFlagDescription)
	registerCopyFlag(markdownCommand.Flags(), &copyEnabled)
	return markdownCommand
}

// logTokenEstimate logs how many tokens the document costs for model.
func (app *application) logTokenEstimate(model string, documentText string) error {
	estimator, estimatorError := tokenizer.NewEstimator(model)
	if estimatorError != nil {
		return fmt.Errorf(errorCountTokensFormat, estimatorError)
	}
	app.logger.Info(tokenEstimateMessage,
		zap.Int("tokens", estimator.Count(documentText)),
		zap.String("model", estimator.Label()),
		zap.Bool("approximate", estimator.Approximate()),
		zap.String("size", utils.FormatFileSize(int64(len(documentText)))),
	)
	return nil
}
