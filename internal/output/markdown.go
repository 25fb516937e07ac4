// Package output renders the packed Markdown document and the run summary.
package output

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

const (
	documentTitle          = "# Codebase Dump\n"
	generatedLineFormat    = "> Generated: %s\n"
	sourceLineFormat       = "> Source: `%s`\n\n"
	structureHeading       = "## Project Structure\n\n"
	structureTrailer       = "\n\n---\n\n"
	fileHeadingFormat      = "## File: `%s`\n\n"
	codeFenceOpenFormat    = "```%s\n"
	codeFenceClose         = "```\n\n"
	lineTerminator         = "\n"
	defaultLanguageTag     = "txt"
	extensionSeparator     = "."
	documentBufferCapacity = 64 * 1024
)

// DocumentWriter appends the sections of a codebase dump to a buffered destination and
// keeps count of the bytes it accepted.
type DocumentWriter struct {
	buffered     *bufio.Writer
	bytesWritten int64
}

// NewDocumentWriter wraps destination in a 64 KiB buffer. Callers must Flush before
// closing the destination.
func NewDocumentWriter(destination io.Writer) *DocumentWriter {
	return &DocumentWriter{buffered: bufio.NewWriterSize(destination, documentBufferCapacity)}
}

func (documentWriter *DocumentWriter) writeString(text string) error {
	written, writeError := documentWriter.buffered.WriteString(text)
	documentWriter.bytesWritten += int64(written)
	return writeError
}

func (documentWriter *DocumentWriter) writeAll(parts ...string) error {
	for _, part := range parts {
		if writeError := documentWriter.writeString(part); writeError != nil {
			return writeError
		}
	}
	return nil
}

// WriteHeader writes the document title with the generation timestamp and source root.
func (documentWriter *DocumentWriter) WriteHeader(generatedAt string, sourceRoot string) error {
	return documentWriter.writeAll(
		documentTitle,
		fmt.Sprintf(generatedLineFormat, generatedAt),
		fmt.Sprintf(sourceLineFormat, sourceRoot),
	)
}

// WriteTree writes the project structure section. tree is expected to be fenced already.
func (documentWriter *DocumentWriter) WriteTree(tree string) error {
	return documentWriter.writeAll(structureHeading, tree, structureTrailer)
}

// WriteFileSection writes one fenced file block. A trailing newline is added when the
// content lacks one so the closing fence always starts a line.
func (documentWriter *DocumentWriter) WriteFileSection(relativePath string, content string) error {
	parts := []string{
		fmt.Sprintf(fileHeadingFormat, relativePath),
		fmt.Sprintf(codeFenceOpenFormat, LanguageTag(relativePath)),
		content,
	}
	if !strings.HasSuffix(content, lineTerminator) {
		parts = append(parts, lineTerminator)
	}
	parts = append(parts, codeFenceClose)
	return documentWriter.writeAll(parts...)
}

// Flush pushes buffered bytes to the destination.
func (documentWriter *DocumentWriter) Flush() error {
	return documentWriter.buffered.Flush()
}

// BytesWritten reports how many bytes the writer has accepted so far.
func (documentWriter *DocumentWriter) BytesWritten() int64 {
	return documentWriter.bytesWritten
}

// LanguageTag returns the code fence info string for path: its lowercased extension
// without the dot, or "txt" when there is none. A leading dot does not start an
// extension, so ".bashrc" and "file." both map to "txt".
func LanguageTag(path string) string {
	baseName := filepath.Base(path)
	dotIndex := strings.LastIndex(baseName, extensionSeparator)
	if dotIndex <= 0 || dotIndex == len(baseName)-1 {
		return defaultLanguageTag
	}
	return strings.ToLower(baseName[dotIndex+1:])
}
