package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/tyemirov/codepack/internal/types"
)

const (
	treeIndentUnit      = "    "
	treeDirectorySuffix = "/"
	treeFenceOpen       = "```text\n"
	treeFenceClose      = "```"
)

// GenerateTree renders the visible directory structure under the configured root as a
// fenced text block. Every directory line ends with "/" and each level is indented by
// four spaces; the files of a directory are listed before its subdirectories.
func GenerateTree(fileSystem afero.Fs, classifier *Classifier, configuration *types.Configuration, logger *zap.Logger) (string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rootError := ensureRootDirectory(fileSystem, configuration.Root); rootError != nil {
		return "", rootError
	}
	rootLevel, readError := readDirectoryLevel(fileSystem, classifier, configuration.Root)
	if readError != nil {
		return "", fmt.Errorf(errorReadDirectoryFormat, configuration.Root, readError)
	}

	var builder strings.Builder
	builder.WriteString(treeFenceOpen)
	builder.WriteString(treeRootLine(configuration.Root) + "\n")
	renderTreeLevel(&builder, fileSystem, classifier, logger, rootLevel, 1)
	builder.WriteString(treeFenceClose)
	return builder.String(), nil
}

// treeRootLine names the root by its base name. The filesystem root is shown as a
// single separator.
func treeRootLine(root string) string {
	baseName := filepath.Base(root)
	if strings.HasSuffix(baseName, treeDirectorySuffix) || baseName == string(filepath.Separator) {
		return baseName
	}
	return baseName + treeDirectorySuffix
}

// renderTreeLevel leaves unreadable directories out. The walk reports them.
func renderTreeLevel(builder *strings.Builder, fileSystem afero.Fs, classifier *Classifier, logger *zap.Logger, level directoryLevel, depth int) {
	indent := strings.Repeat(treeIndentUnit, depth)
	for _, filePath := range level.files {
		builder.WriteString(indent + filepath.Base(filePath) + "\n")
	}
	for _, directoryPath := range level.directories {
		childLevel, readError := readDirectoryLevel(fileSystem, classifier, directoryPath)
		if readError != nil {
			logger.Debug("Omitting unreadable directory from tree", zap.String("path", directoryPath), zap.Error(readError))
			continue
		}
		builder.WriteString(indent + filepath.Base(directoryPath) + treeDirectorySuffix + "\n")
		renderTreeLevel(builder, fileSystem, classifier, logger, childLevel, depth+1)
	}
}
