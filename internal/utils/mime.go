package utils

import (
	"mime"
	"path/filepath"
	"strings"
)

// UnknownMimeType is returned when no content type can be inferred from a name.
const UnknownMimeType = ""

// OctetStreamMimeType is the generic binary content type.
const OctetStreamMimeType = "application/octet-stream"

// textMimeTypes pins source extensions that system mime tables map to media types
// (.ts as video/mp2t being the usual offender).
var textMimeTypes = map[string]string{
	".ts":    "text/x-typescript",
	".tsx":   "text/x-typescript",
	".go":    "text/x-go",
	".py":    "text/x-python",
	".rs":    "text/x-rust",
	".md":    "text/markdown",
	".yaml":  "application/yaml",
	".yml":   "application/yaml",
	".toml":  "application/toml",
	".sh":    "text/x-shellscript",
	".sql":   "application/sql",
	".proto": "text/x-protobuf",
}

var binaryMimeTypes = map[string]string{
	".png":   "image/png",
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".gif":   "image/gif",
	".bmp":   "image/bmp",
	".ico":   "image/vnd.microsoft.icon",
	".webp":  "image/webp",
	".tiff":  "image/tiff",
	".mp3":   "audio/mpeg",
	".wav":   "audio/wav",
	".ogg":   "audio/ogg",
	".flac":  "audio/flac",
	".mp4":   "video/mp4",
	".mov":   "video/quicktime",
	".avi":   "video/x-msvideo",
	".mkv":   "video/x-matroska",
	".webm":  "video/webm",
	".zip":   OctetStreamMimeType,
	".gz":    OctetStreamMimeType,
	".tar":   OctetStreamMimeType,
	".7z":    OctetStreamMimeType,
	".rar":   OctetStreamMimeType,
	".bin":   OctetStreamMimeType,
	".exe":   OctetStreamMimeType,
	".dll":   OctetStreamMimeType,
	".so":    OctetStreamMimeType,
	".dylib": OctetStreamMimeType,
	".o":     OctetStreamMimeType,
	".a":     OctetStreamMimeType,
	".class": OctetStreamMimeType,
	".jar":   OctetStreamMimeType,
	".pyc":   OctetStreamMimeType,
	".woff":  OctetStreamMimeType,
	".woff2": OctetStreamMimeType,
	".ttf":   OctetStreamMimeType,
	".otf":   OctetStreamMimeType,
	".pdf":   OctetStreamMimeType,
}

var binaryMimePrefixes = []string{"image/", "audio/", "video/", OctetStreamMimeType}

// InferMimeType guesses a content type from the extension of path without reading it.
// It returns UnknownMimeType when nothing is known about the extension.
func InferMimeType(path string) string {
	extension := strings.ToLower(filepath.Ext(path))
	if extension == "" {
		return UnknownMimeType
	}
	if mimeType, known := textMimeTypes[extension]; known {
		return mimeType
	}
	if mimeType, known := binaryMimeTypes[extension]; known {
		return mimeType
	}
	return mime.TypeByExtension(extension)
}

// IsBinaryMimeType reports whether mimeType names image, audio, video, or generic binary content.
func IsBinaryMimeType(mimeType string) bool {
	for _, prefix := range binaryMimePrefixes {
		if strings.HasPrefix(mimeType, prefix) {
			return true
		}
	}
	return false
}
