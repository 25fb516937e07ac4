package utils

// EmptyString represents a reusable empty string constant.
const EmptyString = ""

// ErrorLogFormat defines the formatting string for error log messages.
const ErrorLogFormat = "Error: %v"

// GitIgnoreFileName is the name of the Git ignore file.
const GitIgnoreFileName = ".gitignore"

// ConfigFileName is the local configuration file looked up in the working directory.
const ConfigFileName = ".codepack.yaml"

// GlobalConfigDirectoryName is the directory under the user's home holding GlobalConfigFileName.
const GlobalConfigDirectoryName = ".codepack"

// GlobalConfigFileName is the configuration file inside GlobalConfigDirectoryName.
const GlobalConfigFileName = "config.yaml"

// LoggerInitializationFailedMessageFormat reports a logger construction failure.
const LoggerInitializationFailedMessageFormat = "failed to initialize logger: %w"

// ApplicationExecutionFailedMessage prefixes fatal run errors.
const ApplicationExecutionFailedMessage = "codepack failed"
