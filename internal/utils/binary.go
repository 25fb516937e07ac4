package utils

import (
	"bytes"
	"errors"
	"io"

	"github.com/spf13/afero"
)

// BinaryProbeLength defines the maximum number of bytes read when detecting binary content.
const BinaryProbeLength = 1024

// ContainsNullByte reports whether data holds at least one 0x00 byte.
func ContainsNullByte(data []byte) bool {
	return bytes.IndexByte(data, 0) >= 0
}

// IsFileBinary reads up to BinaryProbeLength bytes from the file at path and reports
// whether the prefix contains a null byte. A file that cannot be opened or read is
// reported as binary.
func IsFileBinary(fileSystem afero.Fs, path string) bool {
	fileHandle, openError := fileSystem.Open(path)
	if openError != nil {
		return true
	}
	defer fileHandle.Close()

	buffer := make([]byte, BinaryProbeLength)
	bytesRead, readError := io.ReadFull(fileHandle, buffer)
	if readError != nil && !errors.Is(readError, io.EOF) && !errors.Is(readError, io.ErrUnexpectedEOF) {
		return true
	}
	return ContainsNullByte(buffer[:bytesRead])
}
