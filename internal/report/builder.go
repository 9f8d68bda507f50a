// Package report aggregates organizer outcomes into the persisted run
// report. Serialization uses stable key ordering so reports diff cleanly.
package report

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/codealchemy/organizer/internal/models"
)

// RunMeta describes the run the records came from.
type RunMeta struct {
	SourceDir      string
	DestinationDir string
	Mode           models.Mode
	DryRun         bool
	StartTime      time.Time
	Elapsed        time.Duration
	Warnings       []string
	FatalErr       error
}

// Build aggregates per-file records into an immutable Report. It is also
// used for fatal runs, where records is empty and meta.FatalErr explains
// what could not be done, so consumers always have something structured.
func Build(records []models.FileRecord, meta RunMeta) *models.Report {
	rpt := &models.Report{
		RunID:          uuid.NewString(),
		Timestamp:      meta.StartTime.UTC(),
		SourceDir:      meta.SourceDir,
		DestinationDir: meta.DestinationDir,
		Mode:           meta.Mode,
		DryRun:         meta.DryRun,
		TypeDist:       make(map[models.Category]int),
		Organized:      []models.OrganizedFile{},
		Duplicates:     []models.DuplicateFile{},
		Skipped:        []models.SkippedFile{},
		Warnings:       meta.Warnings,
	}

	for _, rec := range records {
		rpt.Summary.FilesScanned++

		switch rec.Status {
		case models.StatusOrganized:
			rpt.Summary.FilesOrganized++
			rpt.Summary.TotalSizeBytes += rec.SizeBytes
			rpt.TypeDist[rec.Category]++
			rpt.Organized = append(rpt.Organized, models.OrganizedFile{
				SourcePath:      rec.SourcePath,
				DestinationPath: rec.DestinationPath,
				Category:        rec.Category,
				SizeBytes:       rec.SizeBytes,
				Hash:            rec.Hash,
				Renamed:         rec.Renamed,
			})

		case models.StatusDuplicate:
			rpt.Summary.DuplicatesFound++
			rpt.Duplicates = append(rpt.Duplicates, models.DuplicateFile{
				SourcePath:  rec.SourcePath,
				Hash:        rec.Hash,
				DuplicateOf: rec.DuplicateOf,
				SizeBytes:   rec.SizeBytes,
			})

		case models.StatusSkippedExists:
			rpt.Summary.SkippedExisting++
			rpt.Skipped = append(rpt.Skipped, models.SkippedFile{
				SourcePath: rec.SourcePath,
				Status:     rec.Status,
				Reason:     "already organized at " + rec.DestinationPath,
			})

		case models.StatusSkippedUnreadable:
			rpt.Summary.SkippedUnreadable++
			rpt.Skipped = append(rpt.Skipped, models.SkippedFile{
				SourcePath: rec.SourcePath,
				Status:     rec.Status,
				Reason:     rec.Error,
			})

		case models.StatusMoveFailed:
			rpt.Summary.MoveFailures++
			rpt.Skipped = append(rpt.Skipped, models.SkippedFile{
				SourcePath: rec.SourcePath,
				Status:     rec.Status,
				Reason:     rec.Error,
			})
		}
	}

	rpt.Summary.TotalSizeMB = float64(rpt.Summary.TotalSizeBytes) / (1024 * 1024)
	rpt.Summary.ProcessingSeconds = meta.Elapsed.Seconds()
	rpt.Status = runStatus(rpt, meta.FatalErr)

	if meta.FatalErr != nil {
		rpt.Error = meta.FatalErr.Error()
	}

	return rpt
}

// runStatus derives the run-level status from the fatal error and the
// per-file outcomes.
func runStatus(rpt *models.Report, fatalErr error) models.RunStatus {
	switch {
	case errors.Is(fatalErr, context.Canceled) || errors.Is(fatalErr, context.DeadlineExceeded):
		return models.RunPartialFailure
	case fatalErr != nil:
		return models.RunFatalError
	case rpt.Summary.SkippedUnreadable > 0 || rpt.Summary.MoveFailures > 0:
		return models.RunPartialFailure
	default:
		return models.RunOK
	}
}
