package report_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codealchemy/organizer/internal/models"
	"github.com/codealchemy/organizer/internal/report"
)

func sampleRecords() []models.FileRecord {
	return []models.FileRecord{
		{
			SourcePath:      "/src/report.pdf",
			DestinationPath: "/dest/document/report.pdf",
			Category:        models.CategoryDocument,
			SizeBytes:       1024,
			Hash:            "aaa",
			Status:          models.StatusOrganized,
		},
		{
			SourcePath:      "/src/photo.jpg",
			DestinationPath: "/dest/image/photo_1.jpg",
			Category:        models.CategoryImage,
			SizeBytes:       2048,
			Hash:            "bbb",
			Status:          models.StatusOrganized,
			Renamed:         true,
		},
		{
			SourcePath:  "/src/report_copy.pdf",
			Category:    models.CategoryDocument,
			SizeBytes:   1024,
			Hash:        "aaa",
			Status:      models.StatusDuplicate,
			DuplicateOf: "/dest/document/report.pdf",
		},
		{
			SourcePath:      "/src/old.txt",
			DestinationPath: "/dest/document/old.txt",
			Category:        models.CategoryDocument,
			Status:          models.StatusSkippedExists,
		},
		{
			SourcePath: "/src/locked.txt",
			Category:   models.CategoryDocument,
			Status:     models.StatusSkippedUnreadable,
			Error:      "permission denied",
		},
	}
}

func TestBuildSummaryCounters(t *testing.T) {
	rpt := report.Build(sampleRecords(), report.RunMeta{
		SourceDir:      "/src",
		DestinationDir: "/dest",
		Mode:           models.ModeMove,
		StartTime:      time.Now(),
		Elapsed:        1500 * time.Millisecond,
	})

	assert.Equal(t, 5, rpt.Summary.FilesScanned)
	assert.Equal(t, 2, rpt.Summary.FilesOrganized)
	assert.Equal(t, 1, rpt.Summary.DuplicatesFound)
	assert.Equal(t, 1, rpt.Summary.SkippedExisting)
	assert.Equal(t, 1, rpt.Summary.SkippedUnreadable)
	assert.Equal(t, 0, rpt.Summary.MoveFailures)
	assert.True(t, rpt.Accounted())

	assert.Equal(t, int64(3072), rpt.Summary.TotalSizeBytes)
	assert.InDelta(t, 3072.0/(1024*1024), rpt.Summary.TotalSizeMB, 1e-9)
	assert.InDelta(t, 1.5, rpt.Summary.ProcessingSeconds, 1e-9)
	assert.NotEmpty(t, rpt.RunID)
}

func TestBuildTypeDistributionCountsOrganizedOnly(t *testing.T) {
	rpt := report.Build(sampleRecords(), report.RunMeta{StartTime: time.Now()})

	assert.Equal(t, map[models.Category]int{
		models.CategoryDocument: 1,
		models.CategoryImage:    1,
	}, rpt.TypeDist)
}

func TestBuildRecordSections(t *testing.T) {
	rpt := report.Build(sampleRecords(), report.RunMeta{StartTime: time.Now()})

	require.Len(t, rpt.Organized, 2)
	assert.Equal(t, "/src/report.pdf", rpt.Organized[0].SourcePath)
	assert.True(t, rpt.Organized[1].Renamed)

	require.Len(t, rpt.Duplicates, 1)
	assert.Equal(t, "/dest/document/report.pdf", rpt.Duplicates[0].DuplicateOf)

	require.Len(t, rpt.Skipped, 2)
	assert.Equal(t, models.StatusSkippedExists, rpt.Skipped[0].Status)
	assert.Contains(t, rpt.Skipped[0].Reason, "/dest/document/old.txt")
	assert.Equal(t, "permission denied", rpt.Skipped[1].Reason)
}

func TestBuildRunStatus(t *testing.T) {
	clean := []models.FileRecord{
		{SourcePath: "/src/a.txt", Status: models.StatusOrganized, Category: models.CategoryDocument},
	}

	t.Run("ok", func(t *testing.T) {
		rpt := report.Build(clean, report.RunMeta{StartTime: time.Now()})
		assert.Equal(t, models.RunOK, rpt.Status)
		assert.Empty(t, rpt.Error)
	})

	t.Run("partial on unreadable", func(t *testing.T) {
		rpt := report.Build(sampleRecords(), report.RunMeta{StartTime: time.Now()})
		assert.Equal(t, models.RunPartialFailure, rpt.Status)
	})

	t.Run("partial on move failure", func(t *testing.T) {
		records := append(clean, models.FileRecord{
			SourcePath: "/src/b.txt",
			Status:     models.StatusMoveFailed,
			Category:   models.CategoryDocument,
			Error:      "disk full",
		})
		rpt := report.Build(records, report.RunMeta{StartTime: time.Now()})
		assert.Equal(t, models.RunPartialFailure, rpt.Status)
		assert.Equal(t, 1, rpt.Summary.MoveFailures)
	})

	t.Run("partial on cancellation", func(t *testing.T) {
		rpt := report.Build(clean, report.RunMeta{
			StartTime: time.Now(),
			FatalErr:  context.Canceled,
		})
		assert.Equal(t, models.RunPartialFailure, rpt.Status)
		assert.Equal(t, context.Canceled.Error(), rpt.Error)
	})

	t.Run("fatal", func(t *testing.T) {
		rpt := report.Build(nil, report.RunMeta{
			StartTime: time.Now(),
			FatalErr:  errors.New("source directory missing"),
		})
		assert.Equal(t, models.RunFatalError, rpt.Status)
		assert.Equal(t, "source directory missing", rpt.Error)
		assert.Equal(t, 0, rpt.Summary.FilesScanned)
		assert.NotNil(t, rpt.Organized, "sections stay non-nil for JSON consumers")
	})
}

func TestBuildEmptyRun(t *testing.T) {
	rpt := report.Build(nil, report.RunMeta{StartTime: time.Now()})

	assert.Equal(t, models.RunOK, rpt.Status)
	assert.True(t, rpt.Accounted())
	assert.Empty(t, rpt.Organized)
	assert.Empty(t, rpt.Duplicates)
	assert.Empty(t, rpt.Skipped)
}
