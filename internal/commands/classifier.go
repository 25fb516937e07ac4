// Package commands contains the packing pipeline: classification, traversal, tree
// rendering and document emission.
package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	gitignore "github.com/monochromegane/go-gitignore"
	"github.com/spf13/afero"

	"github.com/tyemirov/codepack/internal/types"
	"github.com/tyemirov/codepack/internal/utils"
)

// Classifier decides which paths are ignored, which files are binary and which are too
// large. It only reads configuration and never mutates it.
type Classifier struct {
	fileSystem       afero.Fs
	configuration    *types.Configuration
	gitignoreMatcher gitignore.IgnoreMatcher
}

// NewClassifier builds a Classifier over fileSystem. When the configuration enables
// gitignore support, the .gitignore at the root is parsed; a missing file is not an error.
func NewClassifier(fileSystem afero.Fs, configuration *types.Configuration) (*Classifier, error) {
	classifier := &Classifier{fileSystem: fileSystem, configuration: configuration}
	if !configuration.UseGitignore {
		return classifier, nil
	}

	gitignorePath := filepath.Join(configuration.Root, utils.GitIgnoreFileName)
	gitignoreFile, openError := fileSystem.Open(gitignorePath)
	if openError != nil {
		if errors.Is(openError, fs.ErrNotExist) {
			return classifier, nil
		}
		return nil, fmt.Errorf(errorLoadGitignoreFormat, gitignorePath, openError)
	}
	defer gitignoreFile.Close()

	classifier.gitignoreMatcher = gitignore.NewGitIgnoreFromReader(configuration.Root, gitignoreFile)
	return classifier, nil
}

// ShouldIgnore reports whether path is excluded by name. Ignored file names and exclude
// patterns apply to every entry, ignored directory names only to directories.
func (classifier *Classifier) ShouldIgnore(path string, isDirectory bool) bool {
	name := filepath.Base(path)
	if classifier.configuration.IsIgnoredFile(name) {
		return true
	}
	if isDirectory && classifier.configuration.IsIgnoredDirectory(name) {
		return true
	}
	if utils.MatchesAnyGlob(classifier.configuration.ExcludePatterns, name) {
		return true
	}
	return classifier.matchesGitignore(path, isDirectory)
}

// ShouldPruneDirectory reports whether traversal must not descend into path.
// Exclude patterns do not prune directories.
func (classifier *Classifier) ShouldPruneDirectory(path string) bool {
	if classifier.configuration.IsIgnoredDirectory(filepath.Base(path)) {
		return true
	}
	return classifier.matchesGitignore(path, true)
}

func (classifier *Classifier) matchesGitignore(path string, isDirectory bool) bool {
	if classifier.gitignoreMatcher == nil {
		return false
	}
	return classifier.gitignoreMatcher.Match(path, isDirectory)
}

// IsBinary applies the extension lookup first and falls back to probing the first
// BinaryProbeLength bytes for a null byte. Unreadable files count as binary.
func (classifier *Classifier) IsBinary(path string) bool {
	if utils.IsBinaryMimeType(utils.InferMimeType(path)) {
		return true
	}
	return utils.IsFileBinary(classifier.fileSystem, path)
}

// ExceedsSizeLimit reports whether size is strictly larger than the configured maximum.
func (classifier *Classifier) ExceedsSizeLimit(size int64) bool {
	return size > classifier.configuration.MaxFileSizeBytes
}
