// Package classify maps files into the fixed category set using a closed
// extension table with a content-type sniff fallback for unknown extensions.
package classify

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/codealchemy/organizer/internal/models"
)

// extensionTable is the closed mapping from lowercase extension (without the
// leading dot) to category. Extensions not listed here fall back to content
// sniffing, then to CategoryOther.
var extensionTable = map[string]models.Category{
	// Documents
	"pdf": models.CategoryDocument, "doc": models.CategoryDocument,
	"docx": models.CategoryDocument, "txt": models.CategoryDocument,
	"md": models.CategoryDocument, "rtf": models.CategoryDocument,
	"odt": models.CategoryDocument, "csv": models.CategoryDocument,
	"xls": models.CategoryDocument, "xlsx": models.CategoryDocument,
	"ods": models.CategoryDocument, "ppt": models.CategoryDocument,
	"pptx": models.CategoryDocument, "odp": models.CategoryDocument,
	"epub": models.CategoryDocument,

	// Images
	"jpg": models.CategoryImage, "jpeg": models.CategoryImage,
	"png": models.CategoryImage, "gif": models.CategoryImage,
	"bmp": models.CategoryImage, "tiff": models.CategoryImage,
	"webp": models.CategoryImage, "svg": models.CategoryImage,
	"heic": models.CategoryImage, "ico": models.CategoryImage,

	// Video
	"mp4": models.CategoryVideo, "mov": models.CategoryVideo,
	"avi": models.CategoryVideo, "mkv": models.CategoryVideo,
	"wmv": models.CategoryVideo, "flv": models.CategoryVideo,
	"webm": models.CategoryVideo, "m4v": models.CategoryVideo,

	// Audio
	"mp3": models.CategoryAudio, "wav": models.CategoryAudio,
	"flac": models.CategoryAudio, "aac": models.CategoryAudio,
	"ogg": models.CategoryAudio, "m4a": models.CategoryAudio,
	"wma": models.CategoryAudio,

	// Code
	"py": models.CategoryCode, "js": models.CategoryCode,
	"ts": models.CategoryCode, "java": models.CategoryCode,
	"c": models.CategoryCode, "cpp": models.CategoryCode,
	"h": models.CategoryCode, "go": models.CategoryCode,
	"rs": models.CategoryCode, "rb": models.CategoryCode,
	"php": models.CategoryCode, "sh": models.CategoryCode,
	"html": models.CategoryCode, "css": models.CategoryCode,
	"sql": models.CategoryCode, "json": models.CategoryCode,
	"xml": models.CategoryCode, "yaml": models.CategoryCode,
	"yml": models.CategoryCode, "toml": models.CategoryCode,

	// Archives
	"zip": models.CategoryArchive, "rar": models.CategoryArchive,
	"7z": models.CategoryArchive, "tar": models.CategoryArchive,
	"gz": models.CategoryArchive, "bz2": models.CategoryArchive,
	"xz": models.CategoryArchive, "tgz": models.CategoryArchive,
}

// Classifier assigns categories to files. The zero value classifies by
// extension only; NewClassifier enables content sniffing.
type Classifier struct {
	sniffContent bool
}

// NewClassifier creates a classifier. When sniffContent is true, files whose
// extension is not in the table are probed with a bounded content read.
func NewClassifier(sniffContent bool) *Classifier {
	return &Classifier{sniffContent: sniffContent}
}

// Classify returns the category for the file at path. It never fails:
// unreadable files degrade to extension-only classification, and unknown
// types land in CategoryOther.
func (c *Classifier) Classify(path string) models.Category {
	if cat, ok := ClassifyExtension(path); ok {
		return cat
	}

	if c.sniffContent {
		if cat, ok := c.sniff(path); ok {
			return cat
		}
	}

	return models.CategoryOther
}

// ClassifyExtension resolves the category from the filename alone. The bool
// result reports whether the extension was recognized.
func ClassifyExtension(path string) (models.Category, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return models.CategoryOther, false
	}

	cat, ok := extensionTable[ext]
	if !ok {
		return models.CategoryOther, false
	}
	return cat, true
}

// sniff probes file content for a MIME type. mimetype reads a bounded
// prefix of the file, so this is safe for large files.
func (c *Classifier) sniff(path string) (models.Category, bool) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return models.CategoryOther, false
	}

	return categoryForMIME(mtype.String())
}

// categoryForMIME maps a MIME type string onto the category set.
func categoryForMIME(mime string) (models.Category, bool) {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return models.CategoryImage, true
	case strings.HasPrefix(mime, "video/"):
		return models.CategoryVideo, true
	case strings.HasPrefix(mime, "audio/"):
		return models.CategoryAudio, true
	case strings.HasPrefix(mime, "text/"):
		return models.CategoryDocument, true
	case mime == "application/pdf":
		return models.CategoryDocument, true
	case mime == "application/zip",
		mime == "application/x-tar",
		mime == "application/gzip",
		mime == "application/x-rar-compressed",
		mime == "application/x-7z-compressed":
		return models.CategoryArchive, true
	default:
		return models.CategoryOther, false
	}
}
