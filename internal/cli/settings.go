package cli

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/temirov/mdtree/internal/commands"
	"github.com/temirov/mdtree/internal/config"
	"github.com/temirov/mdtree/internal/document"
	"github.com/temirov/mdtree/internal/utils"
)

// pathOptions stores configuration for path-related flags.
type pathOptions struct {
	exclusionPatterns []string
	disableGitignore  bool
	disableIgnoreFile bool
	includeGit        bool
}

type tokenOptions struct {
	enabled bool
	model   string
}

// addPathFlags registers path-related flags on the command.
func addPathFlags(command *cobra.Command, options *pathOptions) {
	command.Flags().StringArrayVarP(&options.exclusionPatterns, exclusionFlagName, exclusionFlagName, nil, exclusionFlagDescription)
	registerBooleanFlag(command.Flags(), &options.disableGitignore, noGitignoreFlagName, false, disableGitignoreFlagDescription)
	registerBooleanFlag(command.Flags(), &options.disableIgnoreFile, noIgnoreFlagName, false, disableIgnoreFlagDescription)
	registerBooleanFlag(command.Flags(), &options.includeGit, includeGitFlagName, false, includeGitFlagDescription)
}

// applyConfiguration fills every flag the user did not set from the
// configuration. Exclusions from both sources are combined.
func (options *pathOptions) applyConfiguration(command *cobra.Command, configuration config.PathConfiguration) {
	options.exclusionPatterns = utils.DeduplicatePatterns(append(append([]string{}, configuration.Exclude...), options.exclusionPatterns...))
	flags := command.Flags()
	if !flags.Changed(noGitignoreFlagName) && configuration.UseGitignore != nil {
		options.disableGitignore = !*configuration.UseGitignore
	}
	if !flags.Changed(noIgnoreFlagName) && configuration.UseIgnoreFile != nil {
		options.disableIgnoreFile = !*configuration.UseIgnoreFile
	}
	if !flags.Changed(includeGitFlagName) && configuration.IncludeGit != nil {
		options.includeGit = *configuration.IncludeGit
	}
}

func (options pathOptions) toCommandOptions(homeDirectory string, outputPath string) commands.PathOptions {
	return commands.PathOptions{
		Exclusions:    options.exclusionPatterns,
		UseGitignore:  !options.disableGitignore,
		UseIgnoreFile: !options.disableIgnoreFile,
		IncludeGit:    options.includeGit,
		HomeDirectory: homeDirectory,
		OutputPath:    outputPath,
	}
}

func (options *tokenOptions) applyConfiguration(command *cobra.Command, configuration config.TokenConfiguration) {
	flags := command.Flags()
	if !flags.Changed(tokensFlagName) && configuration.Enabled != nil {
		options.enabled = *configuration.Enabled
	}
	if !flags.Changed(modelFlagName) && configuration.Model != "" {
		options.model = configuration.Model
	}
}

func applyBool(command *cobra.Command, flagName string, target *bool, configured *bool) {
	if !command.Flags().Changed(flagName) && configured != nil {
		*target = *configured
	}
}

func applyInt(command *cobra.Command, flagName string, target *int, configured *int) {
	if !command.Flags().Changed(flagName) && configured != nil {
		*target = *configured
	}
}

// parseAssignments turns KEY:value pairs into a map; later pairs win.
func parseAssignments(flagName string, assignments []string) (map[string]string, error) {
	parsed := map[string]string{}
	for _, assignment := range assignments {
		key, value, ok := document.ParseAssignment(assignment)
		if !ok {
			return nil, fmt.Errorf(errorInvalidAssignment, flagName, assignment)
		}
		parsed[key] = value
	}
	return parsed, nil
}

// loadValues reads the dotenv values file, when given, and overlays the
// flag assignments on top of it.
func loadValues(valuesFilePath string, assignments map[string]string) (map[string]string, error) {
	values := map[string]string{}
	if valuesFilePath != "" {
		fileValues, readError := godotenv.Read(valuesFilePath)
		if readError != nil {
			return nil, fmt.Errorf(errorLoadValuesFormat, valuesFilePath, readError)
		}
		for key, value := range fileValues {
			values[key] = value
		}
	}
	for key, value := range assignments {
		values[key] = value
	}
	return values, nil
}
