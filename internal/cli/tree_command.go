package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/mdtree/internal/commands"
	"github.com/temirov/mdtree/internal/output"
	"github.com/temirov/mdtree/internal/types"
)

const treeLineTerminator = "\n"

// newTreeCommand returns the tree subcommand.
func newTreeCommand(app *application) *cobra.Command {
	var pathConfiguration pathOptions
	var copyEnabled bool
	var outputFormat string

	treeCommand := &cobra.Command{
		Use:     treeUse,
		Aliases: []string{types.AliasTree},
		Short:   treeShortDescription,
		Long:    treeLongDescription,
		Example: treeUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			if len(arguments) == 0 {
				arguments = []string{defaultPath}
			}
			configuration := app.configuration.Tree
			pathConfiguration.applyConfiguration(command, configuration.Paths)
			applyBool(command, copyFlagName, &copyEnabled, configuration.Clipboard)
			if !command.Flags().Changed(formatFlagName) && configuration.Format != "" {
				outputFormat = configuration.Format
			}
			outputFormatLower := strings.ToLower(outputFormat)
			if !output.IsSupportedFormat(outputFormatLower) {
				return fmt.Errorf(invalidFormatMessage, outputFormatLower)
			}

			root, pathError := resolveDirectory(arguments[0])
			if pathError != nil {
				return pathError
			}
			homeDirectory := app.homeDirectory()
			diagram, renderError := commands.RenderTree(command.Context(), root.AbsolutePath, pathConfiguration.toCommandOptions(homeDirectory, ""), outputFormatLower, app.logger)
			if renderError != nil {
				return renderError
			}
			if err := writeOutput(command.OutOrStdout(), diagram+treeLineTerminator); err != nil {
				return err
			}
			return app.copyToClipboard(copyEnabled, diagram)
		},
	}

	addPathFlags(treeCommand, &pathConfiguration)
	treeCommand.Flags().StringVar(&outputFormat, formatFlagName, types.FormatRaw, formatFlagDescription)
	registerCopyFlag(treeCommand.Flags(), &copyEnabled)
	return treeCommand
}
