package utils

const (
	// ApplicationName is the binary name used in help output and configuration paths.
	ApplicationName = "mdtree"
	// ConfigFileName is the local configuration file looked up in the working directory.
	ConfigFileName = ".mdtree.yaml"
	// GlobalConfigDirectoryName is the directory below the home directory holding the global configuration.
	GlobalConfigDirectoryName = ".mdtree"
	// GlobalConfigFileName is the configuration file inside GlobalConfigDirectoryName.
	GlobalConfigFileName = "config.yaml"

	// ApplicationExecutionFailedMessage prefixes fatal command errors.
	ApplicationExecutionFailedMessage = "mdtree failed"
)
