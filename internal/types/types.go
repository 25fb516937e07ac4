// Package types defines every cross‑package data structure used by the codepack CLI.
package types

// Configuration is the resolved, read-only snapshot a packing run operates on.
// It is built once by the config package and must not be mutated afterwards.
type Configuration struct {
	// Root is the absolute, cleaned directory being packed.
	Root string
	// OutputPath is the document destination. Relative outputs are resolved against the
	// working directory, never the root.
	OutputPath string
	// MaxFileSizeBytes is the largest file size that is still included.
	MaxFileSizeBytes int64
	// IgnoredDirectories holds directory base names pruned during traversal.
	IgnoredDirectories map[string]struct{}
	// IgnoredFiles holds file base names never yielded.
	IgnoredFiles map[string]struct{}
	// ExcludePatterns are shell-style globs matched against base names.
	ExcludePatterns []string
	// UseGitignore enables the root .gitignore matcher.
	UseGitignore bool
	// TokenModel selects a tokenizer model for exact counts; empty disables it.
	TokenModel string
	// CopyToClipboard copies the finished document to the system clipboard.
	CopyToClipboard bool
}

// IsIgnoredDirectory reports whether name is in the ignored-directory set.
func (configuration *Configuration) IsIgnoredDirectory(name string) bool {
	_, ignored := configuration.IgnoredDirectories[name]
	return ignored
}

// IsIgnoredFile reports whether name is in the ignored-file set.
func (configuration *Configuration) IsIgnoredFile(name string) bool {
	_, ignored := configuration.IgnoredFiles[name]
	return ignored
}

// RunStatistics captures the counters accumulated by one packing run.
type RunStatistics struct {
	FilesProcessed  int
	SkippedBinary   int
	SkippedSize     int
	ReadErrors      int
	EstimatedTokens int
	ModelTokens     int
	TokenModel      string
	BytesWritten    int64
}
