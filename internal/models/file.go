package models

import (
	"path/filepath"
	"strings"
	"time"
)

// Category is one of the fixed classification buckets assigned to every file.
type Category string

const (
	CategoryDocument Category = "document"
	CategoryImage    Category = "image"
	CategoryVideo    Category = "video"
	CategoryAudio    Category = "audio"
	CategoryCode     Category = "code"
	CategoryArchive  Category = "archive"
	CategoryOther    Category = "other"
)

// Categories lists every category in a fixed order, used for directory
// creation and report ordering.
var Categories = []Category{
	CategoryDocument,
	CategoryImage,
	CategoryVideo,
	CategoryAudio,
	CategoryCode,
	CategoryArchive,
	CategoryOther,
}

// Valid reports whether c is a member of the closed category set.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Status describes the final outcome for a single discovered file.
type Status string

const (
	StatusOrganized         Status = "organized"
	StatusDuplicate         Status = "duplicate"
	StatusSkippedExists     Status = "skipped_exists"
	StatusSkippedUnreadable Status = "skipped_unreadable"
	StatusMoveFailed        Status = "move_failed"
)

// FileRecord is the outcome for one file discovered in the source tree.
// Every file produces exactly one record; unreadable files become
// skipped_unreadable rather than being dropped.
type FileRecord struct {
	SourcePath      string    `json:"source_path"`
	DestinationPath string    `json:"destination_path,omitempty"`
	Category        Category  `json:"category"`
	SizeBytes       int64     `json:"size_bytes"`
	Hash            string    `json:"hash,omitempty"`
	Status          Status    `json:"status"`
	DuplicateOf     string    `json:"duplicate_of,omitempty"`
	Renamed         bool      `json:"renamed,omitempty"`
	Error           string    `json:"error,omitempty"`
	ModifiedTime    time.Time `json:"modified_time,omitempty"`
}

// Basename returns the file's name without any directory component.
func (r *FileRecord) Basename() string {
	return filepath.Base(r.SourcePath)
}

// NormalizedSource returns the cleaned, forward-slash source path.
func (r *FileRecord) NormalizedSource() string {
	return strings.ReplaceAll(filepath.Clean(r.SourcePath), "\\", "/")
}
