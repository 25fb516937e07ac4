package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/tyemirov/codepack/internal/types"
)

const (
	separatorCharacter = "="
	separatorWidth     = 40

	progressLineFormat = "\rProcessed: %d files | Tokens: ~%d"

	dumpCompleteFormat    = "Dump Complete: %s"
	filesPackedFormat     = "Files Packed: %d"
	skippedBinaryFormat   = "Skipped (Binary): %d"
	skippedSizeFormat     = "Skipped (Size): %d"
	readErrorsFormat      = "Read Errors: %d"
	estimatedTokensFormat = "Estimated Tokens: %d"
	modelTokensFormat     = "Model Tokens (%s): %d"
	documentSizeFormat    = "Document Size: %s"
)

// FormatProgressLine renders the carriage-return progress indicator shown while packing.
func FormatProgressLine(filesProcessed int, estimatedTokens int) string {
	return fmt.Sprintf(progressLineFormat, filesProcessed, estimatedTokens)
}

// WriteSeparator ends the progress line and writes a rule of forty '=' characters.
func WriteSeparator(destination io.Writer) error {
	_, writeError := fmt.Fprintln(destination, "\n"+strings.Repeat(separatorCharacter, separatorWidth))
	return writeError
}

// SummaryLines lists the human-readable statistics reported after a run.
// Model tokens are only listed when a tokenizer model was used.
func SummaryLines(outputPath string, statistics types.RunStatistics, formattedSize string) []string {
	lines := []string{
		fmt.Sprintf(dumpCompleteFormat, outputPath),
		fmt.Sprintf(filesPackedFormat, statistics.FilesProcessed),
		fmt.Sprintf(skippedBinaryFormat, statistics.SkippedBinary),
		fmt.Sprintf(skippedSizeFormat, statistics.SkippedSize),
		fmt.Sprintf(readErrorsFormat, statistics.ReadErrors),
		fmt.Sprintf(estimatedTokensFormat, statistics.EstimatedTokens),
	}
	if statistics.TokenModel != "" {
		lines = append(lines, fmt.Sprintf(modelTokensFormat, statistics.TokenModel, statistics.ModelTokens))
	}
	if formattedSize != "" {
		lines = append(lines, fmt.Sprintf(documentSizeFormat, formattedSize))
	}
	return lines
}
