package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/temirov/mdtree/internal/utils"
)

// InitTarget identifies where configuration should be initialized.
type InitTarget string

const (
	// InitTargetLocal writes configuration into the working directory.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal writes configuration into the global configuration directory.
	InitTargetGlobal InitTarget = "global"

	defaultConfigurationTemplate = `markdown:
  max_length: 15
  replacements: []
  go_module: false
  concurrency: 8
  clipboard: false
  tokens:
    enabled: false
    model: gpt-4o
  paths:
    exclude: []
    use_gitignore: true
    use_ignore: true
    include_git: false
build:
  ignore_existing_folders: false
  values_file: ""
tree:
  clipboard: false
  format: raw
  paths:
    exclude: []
    use_gitignore: true
    use_ignore: true
    include_git: false
`

	configurationFileMode      = 0o600
	configurationDirectoryMode = 0o755
)

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	Target           InitTarget
	Force            bool
	WorkingDirectory string
}

// InitializeConfiguration writes the default configuration to the requested
// target and returns the written path. An existing file is only replaced when
// Force is set.
func InitializeConfiguration(options InitOptions) (string, error) {
	destinationPath, resolveError := initDestination(options)
	if resolveError != nil {
		return "", resolveError
	}

	if _, err := os.Stat(destinationPath); err == nil {
		if !options.Force {
			return "", fmt.Errorf("configuration file already exists at %s", destinationPath)
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("inspect configuration path %s: %w", destinationPath, err)
	}

	if err := os.MkdirAll(filepath.Dir(destinationPath), configurationDirectoryMode); err != nil {
		return "", fmt.Errorf("create configuration directory %s: %w", filepath.Dir(destinationPath), err)
	}
	if err := os.WriteFile(destinationPath, []byte(defaultConfigurationTemplate), configurationFileMode); err != nil {
		return "", fmt.Errorf("write configuration to %s: %w", destinationPath, err)
	}
	return destinationPath, nil
}

func initDestination(options InitOptions) (string, error) {
	switch options.Target {
	case "", InitTargetLocal:
		workingDirectory := options.WorkingDirectory
		if workingDirectory == "" {
			current, err := os.Getwd()
			if err != nil {
				return "", fmt.Errorf("determine working directory for configuration: %w", err)
			}
			workingDirectory = current
		}
		return filepath.Join(workingDirectory, utils.ConfigFileName), nil
	case InitTargetGlobal:
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory for configuration: %w", err)
		}
		return GlobalConfigurationPath(homeDirectory), nil
	default:
		return "", fmt.Errorf("unsupported init target %q", options.Target)
	}
}
