package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// directoryLevel holds the surviving entries of one directory, both sorted by name.
type directoryLevel struct {
	files       []string
	directories []string
}

// readDirectoryLevel lists directoryPath and applies pruning and ignore rules. The walk
// and the tree renderer both go through it so they always agree on what is visible.
// Symbolic links to directories are dropped; links to files and dangling links are kept
// as files.
func readDirectoryLevel(fileSystem afero.Fs, classifier *Classifier, directoryPath string) (directoryLevel, error) {
	entries, readError := afero.ReadDir(fileSystem, directoryPath)
	if readError != nil {
		return directoryLevel{}, readError
	}

	var level directoryLevel
	for _, entry := range entries {
		entryPath := filepath.Join(directoryPath, entry.Name())
		if entry.Mode()&os.ModeSymlink != 0 {
			if targetInfo, statError := fileSystem.Stat(entryPath); statError == nil && targetInfo.IsDir() {
				continue
			}
		} else if entry.IsDir() {
			if !classifier.ShouldPruneDirectory(entryPath) {
				level.directories = append(level.directories, entryPath)
			}
			continue
		}
		if classifier.ShouldIgnore(entryPath, false) {
			continue
		}
		level.files = append(level.files, entryPath)
	}
	return level, nil
}
