package utils

// EmptyString represents a reusable empty string constant.
const EmptyString = ""

const (
	// ApplicationName names the binary and its configuration directory.
	ApplicationName = "dirinfo"
	// AnnotationFileName is the per-directory annotation file.
	AnnotationFileName = ".dirinfo"
	// ConfigFileName is the local configuration file looked up in the working directory.
	ConfigFileName = ".dirinfo.yaml"
	// GlobalConfigFileName is the configuration file inside the global configuration directory.
	GlobalConfigFileName = "config.yaml"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"

	// LoggerInitializationFailedMessageFormat reports a logger that could not be built.
	LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"
	// ApplicationExecutionFailedMessage prefixes fatal execution errors.
	ApplicationExecutionFailedMessage = "dirinfo failed"
)
