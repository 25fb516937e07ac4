package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/tyemirov/codepack/internal/output"
	"github.com/tyemirov/codepack/internal/tokenizer"
	"github.com/tyemirov/codepack/internal/types"
	"github.com/tyemirov/codepack/internal/utils"
)

const outputFilePermissions = 0o644

// PackerOptions wires the collaborators of a Packer.
type PackerOptions struct {
	FileSystem    afero.Fs
	Configuration *types.Configuration
	Logger        *zap.Logger
	// StatusWriter receives the progress line; it is never part of the document.
	StatusWriter io.Writer
	// Now supplies the header timestamp. Defaults to time.Now.
	Now func() time.Time
	// TokenCounter optionally counts model tokens next to the estimate.
	TokenCounter tokenizer.Counter
	TokenModel   string
}

// Packer writes one codebase dump: header, project tree, then every accepted file.
type Packer struct {
	fileSystem    afero.Fs
	configuration *types.Configuration
	classifier    *Classifier
	logger        *zap.Logger
	statusWriter  io.Writer
	now           func() time.Time
	tokenCounter  tokenizer.Counter
	tokenModel    string
}

// NewPacker validates options and prepares the classifier.
func NewPacker(options PackerOptions) (*Packer, error) {
	if options.Configuration == nil {
		return nil, fmt.Errorf("packer requires a configuration")
	}
	fileSystem := options.FileSystem
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	classifier, classifierError := NewClassifier(fileSystem, options.Configuration)
	if classifierError != nil {
		return nil, classifierError
	}
	packer := &Packer{
		fileSystem:    fileSystem,
		configuration: options.Configuration,
		classifier:    classifier,
		logger:        options.Logger,
		statusWriter:  options.StatusWriter,
		now:           options.Now,
		tokenCounter:  options.TokenCounter,
		tokenModel:    options.TokenModel,
	}
	if packer.logger == nil {
		packer.logger = zap.NewNop()
	}
	if packer.statusWriter == nil {
		packer.statusWriter = io.Discard
	}
	if packer.now == nil {
		packer.now = time.Now
	}
	return packer, nil
}

// Run packs the configured root into the configured output and returns the run
// statistics. A missing root or an output that cannot be opened aborts the run before
// anything is written; per-file problems are counted and logged instead.
func (packer *Packer) Run(ctx context.Context) (statistics types.RunStatistics, runError error) {
	configuration := packer.configuration
	if rootError := ensureRootDirectory(packer.fileSystem, configuration.Root); rootError != nil {
		return types.RunStatistics{}, rootError
	}
	packer.logger.Info("Scanning root", zap.String("root", configuration.Root))
	packer.logger.Info("Max file size", zap.String("limit", utils.FormatKilobytes(configuration.MaxFileSizeBytes)))

	outputFile, openError := packer.fileSystem.OpenFile(configuration.OutputPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, outputFilePermissions)
	if openError != nil {
		return types.RunStatistics{}, fmt.Errorf(errorOutputUnavailableFormat, ErrOutputUnavailable, configuration.OutputPath, openError)
	}
	documentWriter := output.NewDocumentWriter(outputFile)
	defer func() {
		flushError := documentWriter.Flush()
		closeError := outputFile.Close()
		statistics.BytesWritten = documentWriter.BytesWritten()
		if runError != nil {
			return
		}
		if flushError != nil {
			runError = fmt.Errorf(errorWriteDocumentFormat, configuration.OutputPath, flushError)
			return
		}
		if closeError != nil {
			runError = fmt.Errorf(errorCloseDocumentFormat, configuration.OutputPath, closeError)
		}
	}()

	if packer.tokenCounter != nil {
		statistics.TokenModel = packer.tokenModel
	}

	generatedAt := utils.FormatGeneratedTimestamp(packer.now())
	if headerError := documentWriter.WriteHeader(generatedAt, configuration.Root); headerError != nil {
		return statistics, fmt.Errorf(errorWriteDocumentFormat, configuration.OutputPath, headerError)
	}

	packer.logger.Info("Generating file tree")
	tree, treeError := GenerateTree(packer.fileSystem, packer.classifier, configuration, packer.logger)
	if treeError != nil {
		return statistics, treeError
	}
	if writeError := documentWriter.WriteTree(tree); writeError != nil {
		return statistics, fmt.Errorf(errorWriteDocumentFormat, configuration.OutputPath, writeError)
	}

	walker := NewWalker(packer.fileSystem, packer.classifier, configuration, packer.logger)
	produce := func(streamCtx context.Context, candidates chan<- string) error {
		return walker.Walk(streamCtx, candidates)
	}
	consume := func(candidatePath string) error {
		return packer.packCandidate(documentWriter, candidatePath, &statistics)
	}
	if dispatchError := dispatchCandidates(ctx, produce, consume); dispatchError != nil {
		return statistics, dispatchError
	}
	return statistics, nil
}

// packCandidate applies the size gate, then the binary check, then reads and appends
// the file. Only a failure to write the document is returned.
func (packer *Packer) packCandidate(documentWriter *output.DocumentWriter, candidatePath string, statistics *types.RunStatistics) error {
	relativePath := utils.RelativePathOrSelf(candidatePath, packer.configuration.Root)

	fileInfo, statError := packer.fileSystem.Stat(candidatePath)
	if statError != nil {
		statistics.ReadErrors++
		packer.logger.Error("Failed to read file", zap.String("path", relativePath), zap.Error(statError))
		return nil
	}
	if packer.classifier.ExceedsSizeLimit(fileInfo.Size()) {
		statistics.SkippedSize++
		packer.logger.Warn("Skipping large file", zap.String("path", relativePath), zap.String("size", utils.FormatFileSize(fileInfo.Size())))
		return nil
	}
	if packer.classifier.IsBinary(candidatePath) {
		statistics.SkippedBinary++
		return nil
	}

	fileBytes, readError := afero.ReadFile(packer.fileSystem, candidatePath)
	if readError != nil {
		statistics.ReadErrors++
		packer.logger.Error("Failed to read file", zap.String("path", relativePath), zap.Error(readError))
		return nil
	}
	content := strings.ToValidUTF8(string(fileBytes), "")

	if writeError := documentWriter.WriteFileSection(relativePath, content); writeError != nil {
		return fmt.Errorf(errorWriteDocumentFormat, packer.configuration.OutputPath, writeError)
	}
	statistics.FilesProcessed++
	statistics.EstimatedTokens += tokenizer.EstimateTokens(content)
	if packer.tokenCounter != nil {
		countResult, countError := tokenizer.CountText(packer.tokenCounter, content)
		if countError != nil {
			packer.logger.Warn("Failed to count tokens", zap.String("path", relativePath), zap.Error(countError))
		} else {
			statistics.ModelTokens += countResult.Tokens
		}
	}
	fmt.Fprint(packer.statusWriter, output.FormatProgressLine(statistics.FilesProcessed, statistics.EstimatedTokens))
	return nil
}
