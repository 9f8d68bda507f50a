package models

import "time"

// RunStatus is the overall outcome of an organization run.
type RunStatus string

const (
	RunOK             RunStatus = "ok"
	RunPartialFailure RunStatus = "partial_failure"
	RunFatalError     RunStatus = "fatal_error"
)

// Mode selects whether organized files are moved or copied.
type Mode string

const (
	ModeMove Mode = "move"
	ModeCopy Mode = "copy"
)

// DuplicatePolicy controls where detected duplicates land.
type DuplicatePolicy string

const (
	// DuplicateReport leaves duplicates in place and only records them.
	DuplicateReport DuplicatePolicy = "report"
	// DuplicateQuarantine moves duplicates into a holding area under the
	// destination root.
	DuplicateQuarantine DuplicatePolicy = "quarantine"
)

// Summary holds the aggregate counters for one run.
type Summary struct {
	FilesScanned      int     `json:"files_scanned"`
	FilesOrganized    int     `json:"files_organized"`
	DuplicatesFound   int     `json:"duplicates_found"`
	SkippedExisting   int     `json:"skipped_existing"`
	SkippedUnreadable int     `json:"skipped_unreadable"`
	MoveFailures      int     `json:"move_failures"`
	TotalSizeBytes    int64   `json:"total_size_bytes"`
	TotalSizeMB       float64 `json:"total_size_mb"`
	ProcessingSeconds float64 `json:"processing_time_seconds"`
}

// OrganizedFile is the report entry for a file placed into the category tree.
type OrganizedFile struct {
	SourcePath      string   `json:"source_path"`
	DestinationPath string   `json:"destination_path"`
	Category        Category `json:"category"`
	SizeBytes       int64    `json:"size_bytes"`
	Hash            string   `json:"hash"`
	Renamed         bool     `json:"renamed,omitempty"`
}

// DuplicateFile is the report entry for a detected duplicate.
type DuplicateFile struct {
	SourcePath  string `json:"source_path"`
	Hash        string `json:"hash"`
	DuplicateOf string `json:"duplicate_of"`
	SizeBytes   int64  `json:"size_bytes"`
}

// SkippedFile is the report entry for a file that was not organized.
type SkippedFile struct {
	SourcePath string `json:"source_path"`
	Status     Status `json:"status"`
	Reason     string `json:"reason,omitempty"`
}

// Report is the immutable result of one organization run. It owns its
// records exclusively; nothing mutates them after construction.
type Report struct {
	RunID          string           `json:"run_id"`
	Timestamp      time.Time        `json:"timestamp"`
	Status         RunStatus        `json:"status"`
	SourceDir      string           `json:"source_directory"`
	DestinationDir string           `json:"destination_root"`
	Mode           Mode             `json:"mode"`
	DryRun         bool             `json:"dry_run,omitempty"`
	Summary        Summary          `json:"summary"`
	TypeDist       map[Category]int `json:"type_distribution"`
	Organized      []OrganizedFile  `json:"organized_files"`
	Duplicates     []DuplicateFile  `json:"duplicates"`
	Skipped        []SkippedFile    `json:"skipped"`
	Warnings       []string         `json:"warnings,omitempty"`
	Error          string           `json:"error,omitempty"`
}

// Accounted reports whether every scanned file landed in exactly one
// outcome bucket.
func (r *Report) Accounted() bool {
	return r.Summary.FilesScanned == r.Summary.FilesOrganized+
		r.Summary.DuplicatesFound+
		r.Summary.SkippedExisting+
		r.Summary.SkippedUnreadable+
		r.Summary.MoveFailures
}
