package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/mdtree/internal/commands"
	"github.com/temirov/mdtree/internal/node"
	"github.com/temirov/mdtree/internal/types"
)

// newBuildCommand returns the build subcommand.
func newBuildCommand(app *application) *cobra.Command {
	var outputPath string
	var commit bool
	var ignoreExistingFolders bool
	var assignments []string
	var valuesFilePath string

	buildCommand := &cobra.Command{
		Use:     buildUse,
		Aliases: []string{types.AliasBuild},
		Short:   buildShortDescription,
		Long:    buildLongDescription,
		Example: buildUsageExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			configuration := app.configuration.Build
			applyBool(command, ignoreExistingFlag, &ignoreExistingFolders, configuration.IgnoreExistingFolders)
			if !command.Flags().Changed(valuesFlagName) && configuration.ValuesFile != "" {
				valuesFilePath = configuration.ValuesFile
			}

			flagValues, assignmentError := parseAssignments(replaceFlagName, assignments)
			if assignmentError != nil {
				return assignmentError
			}
			values, valuesError := loadValues(valuesFilePath, flagValues)
			if valuesError != nil {
				return valuesError
			}

			root, buildError := commands.BuildFromDocument(commands.BuildOptions{
				DocumentPath:          arguments[0],
				Destination:           outputPath,
				Values:                values,
				DryRun:                !commit,
				IgnoreExistingFolders: ignoreExistingFolders,
			}, app.logger)
			if buildError != nil {
				return buildError
			}
			if !commit {
				app.logger.Info(dryRunCompletedMessage)
				return nil
			}
			app.logger.Info(buildCompletedMessage, zap.String("destination", outputPath), zap.Int("files", len(node.Files(root))))
			return nil
		},
	}

	buildCommand.Flags().StringVarP(&outputPath, outputFlagName, outputFlagShorthand, "", buildOutputFlagDescription)
	_ = buildCommand.MarkFlagRequired(outputFlagName)
	registerBooleanFlag(buildCommand.Flags(), &commit, commitFlagName, false, commitFlagDescription)
	registerBooleanFlag(buildCommand.Flags(), &ignoreExistingFolders, ignoreExistingFlag, false, ignoreExistingFlagDescription)
	buildCommand.Flags().StringArrayVarP(&assignments, replaceFlagName, replaceFlagShorthand, nil, valueFlagDescription)
	buildCommand.Flags().StringVar(&valuesFilePath, valuesFlagName, "", valuesFlagDescription)
	return buildCommand
}
