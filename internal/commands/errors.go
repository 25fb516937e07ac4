package commands

import "errors"

var (
	// ErrRootMissing reports that the configured root directory does not exist.
	ErrRootMissing = errors.New("root directory does not exist")
	// ErrRootNotDirectory reports that the configured root exists but is not a directory.
	ErrRootNotDirectory = errors.New("root path is not a directory")
	// ErrOutputUnavailable reports that the output document could not be opened for writing.
	ErrOutputUnavailable = errors.New("output file cannot be opened")
)

const (
	errorRootUnusableFormat      = "%w: %s"
	errorRootStatFormat          = "inspecting root %s: %w"
	errorOutputUnavailableFormat = "%w: %s: %w"
	errorReadDirectoryFormat     = "reading directory %s: %w"
	errorLoadGitignoreFormat     = "loading %s: %w"
	errorWriteDocumentFormat     = "writing %s: %w"
	errorCloseDocumentFormat     = "closing %s: %w"
)
