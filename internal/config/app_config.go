package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/temirov/mdtree/internal/utils"
)

const (
	configurationType = "yaml"

	workingDirectoryErrorFormat = "determine working directory: %w"
	resolvePathErrorFormat      = "resolve configuration path %s: %w"
	statErrorFormat             = "stat configuration %s: %w"
	directoryErrorFormat        = "configuration path %s is a directory"
	readErrorFormat             = "read configuration from %s: %w"
	decodeErrorFormat           = "decode configuration from %s: %w"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// ApplicationConfiguration holds command-specific configuration defaults.
type ApplicationConfiguration struct {
	Markdown MarkdownConfiguration `mapstructure:"markdown"`
	Build    BuildConfiguration    `mapstructure:"build"`
	Tree     TreeConfiguration     `mapstructure:"tree"`
}

// MarkdownConfiguration defines defaults for the markdown command.
type MarkdownConfiguration struct {
	MaxLength    *int               `mapstructure:"max_length"`
	Replacements []string           `mapstructure:"replacements"`
	GoModule     *bool              `mapstructure:"go_module"`
	Concurrency  *int               `mapstructure:"concurrency"`
	Tokens       TokenConfiguration `mapstructure:"tokens"`
	Paths        PathConfiguration  `mapstructure:"paths"`
	Clipboard    *bool              `mapstructure:"clipboard"`
}

// BuildConfiguration defines defaults for the build command.
type BuildConfiguration struct {
	IgnoreExistingFolders *bool  `mapstructure:"ignore_existing_folders"`
	ValuesFile            string `mapstructure:"values_file"`
}

// TreeConfiguration defines defaults for the tree command.
type TreeConfiguration struct {
	Paths     PathConfiguration `mapstructure:"paths"`
	Clipboard *bool             `mapstructure:"clipboard"`
	Format    string            `mapstructure:"format"`
}

// TokenConfiguration controls token counting defaults.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

// PathConfiguration configures inclusion and exclusion rules for path traversal.
type PathConfiguration struct {
	Exclude       []string `mapstructure:"exclude"`
	UseGitignore  *bool    `mapstructure:"use_gitignore"`
	UseIgnoreFile *bool    `mapstructure:"use_ignore"`
	IncludeGit    *bool    `mapstructure:"include_git"`
}

// GlobalConfigurationPath returns the path of the user-wide configuration file.
func GlobalConfigurationPath(homeDirectory string) string {
	return filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.GlobalConfigFileName)
}

// LoadApplicationConfiguration loads the global configuration and overlays the
// local (or explicitly named) one on top of it.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf(workingDirectoryErrorFormat, err)
		}
		workingDirectory = currentDirectory
	}

	var merged ApplicationConfiguration

	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalConfig, loadErr := loadConfigurationFromPath(GlobalConfigurationPath(homeDirectory))
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	localConfig, loadErr := loadConfigurationFromPath(localPath)
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)

	merged.Markdown.Paths.Exclude = utils.DeduplicatePatterns(merged.Markdown.Paths.Exclude)
	merged.Tree.Paths.Exclude = utils.DeduplicatePatterns(merged.Tree.Paths.Exclude)
	merged.Markdown.Replacements = utils.DeduplicatePatterns(merged.Markdown.Replacements)

	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath == "" {
		return filepath.Join(workingDirectory, utils.ConfigFileName), nil
	}
	if filepath.IsAbs(explicitPath) {
		return explicitPath, nil
	}
	if workingDirectory == "" {
		absolute, err := filepath.Abs(explicitPath)
		if err != nil {
			return "", fmt.Errorf(resolvePathErrorFormat, explicitPath, err)
		}
		return absolute, nil
	}
	return filepath.Join(workingDirectory, explicitPath), nil
}

func loadConfigurationFromPath(path string) (ApplicationConfiguration, error) {
	if path == "" {
		return ApplicationConfiguration{}, nil
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf(statErrorFormat, path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf(directoryErrorFormat, path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	reader.SetConfigType(configurationType)
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf(readErrorFormat, path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf(decodeErrorFormat, path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined
// configuration. Values set in override win; lists replace rather than
// extend.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	return ApplicationConfiguration{
		Markdown: MarkdownConfiguration{
			MaxLength:    overlay(config.Markdown.MaxLength, override.Markdown.MaxLength),
			Replacements: overlayList(config.Markdown.Replacements, override.Markdown.Replacements),
			GoModule:     overlay(config.Markdown.GoModule, override.Markdown.GoModule),
			Concurrency:  overlay(config.Markdown.Concurrency, override.Markdown.Concurrency),
			Tokens: TokenConfiguration{
				Enabled: overlay(config.Markdown.Tokens.Enabled, override.Markdown.Tokens.Enabled),
				Model:   overlayText(config.Markdown.Tokens.Model, override.Markdown.Tokens.Model),
			},
			Paths:     config.Markdown.Paths.merge(override.Markdown.Paths),
			Clipboard: overlay(config.Markdown.Clipboard, override.Markdown.Clipboard),
		},
		Build: BuildConfiguration{
			IgnoreExistingFolders: overlay(config.Build.IgnoreExistingFolders, override.Build.IgnoreExistingFolders),
			ValuesFile:            overlayText(config.Build.ValuesFile, override.Build.ValuesFile),
		},
		Tree: TreeConfiguration{
			Paths:     config.Tree.Paths.merge(override.Tree.Paths),
			Clipboard: overlay(config.Tree.Clipboard, override.Tree.Clipboard),
			Format:    overlayText(config.Tree.Format, override.Tree.Format),
		},
	}
}

func (config PathConfiguration) merge(override PathConfiguration) PathConfiguration {
	return PathConfiguration{
		Exclude:       overlayList(config.Exclude, utils.DeduplicatePatterns(override.Exclude)),
		UseGitignore:  overlay(config.UseGitignore, override.UseGitignore),
		UseIgnoreFile: overlay(config.UseIgnoreFile, override.UseIgnoreFile),
		IncludeGit:    overlay(config.IncludeGit, override.IncludeGit),
	}
}

// overlay returns a copy of override when it is set, else current.
func overlay[T any](current *T, override *T) *T {
	if override == nil {
		return current
	}
	copied := *override
	return &copied
}

func overlayText(current string, override string) string {
	if override == "" {
		return current
	}
	return override
}

func overlayList(current []string, override []string) []string {
	if len(override) == 0 {
		return current
	}
	return append([]string{}, override...)
}
