package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/tyemirov/codepack/internal/types"
)

// Walker yields candidate files under the configured root in a deterministic order.
type Walker struct {
	fileSystem    afero.Fs
	classifier    *Classifier
	configuration *types.Configuration
	logger        *zap.Logger
}

// NewWalker constructs a Walker. A nil logger discards warnings.
func NewWalker(fileSystem afero.Fs, classifier *Classifier, configuration *types.Configuration, logger *zap.Logger) *Walker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Walker{fileSystem: fileSystem, classifier: classifier, configuration: configuration, logger: logger}
}

// Walk sends the absolute path of every non-ignored file to candidates, depth first.
// Files of a directory are sent before its subdirectories are entered and names are
// visited in byte order. Walk blocks on each send, so a consumer on an unbuffered
// channel sees one path at a time. The channel is left open for the caller to close.
func (walker *Walker) Walk(ctx context.Context, candidates chan<- string) error {
	if rootError := ensureRootDirectory(walker.fileSystem, walker.configuration.Root); rootError != nil {
		return rootError
	}
	level, readError := readDirectoryLevel(walker.fileSystem, walker.classifier, walker.configuration.Root)
	if readError != nil {
		return fmt.Errorf(errorReadDirectoryFormat, walker.configuration.Root, readError)
	}
	return walker.walkLevel(ctx, level, candidates)
}

func (walker *Walker) walkLevel(ctx context.Context, level directoryLevel, candidates chan<- string) error {
	for _, filePath := range level.files {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case candidates <- filePath:
		}
	}
	for _, directoryPath := range level.directories {
		childLevel, readError := readDirectoryLevel(walker.fileSystem, walker.classifier, directoryPath)
		if readError != nil {
			walker.logger.Warn("Skipping unreadable directory", zap.String("path", directoryPath), zap.Error(readError))
			continue
		}
		if walkError := walker.walkLevel(ctx, childLevel, candidates); walkError != nil {
			return walkError
		}
	}
	return nil
}

// ensureRootDirectory reports ErrRootMissing or ErrRootNotDirectory for an unusable root.
func ensureRootDirectory(fileSystem afero.Fs, root string) error {
	rootInfo, statError := fileSystem.Stat(root)
	if statError != nil {
		if errors.Is(statError, fs.ErrNotExist) {
			return fmt.Errorf(errorRootUnusableFormat, ErrRootMissing, root)
		}
		return fmt.Errorf(errorRootStatFormat, root, statError)
	}
	if !rootInfo.IsDir() {
		return fmt.Errorf(errorRootUnusableFormat, ErrRootNotDirectory, root)
	}
	return nil
}
