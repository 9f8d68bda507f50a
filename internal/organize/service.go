package organize

import (
	"context"
	"fmt"
	"time"

	"github.com/codealchemy/organizer/internal/classify"
	"github.com/codealchemy/organizer/internal/config"
	"github.com/codealchemy/organizer/internal/events"
	"github.com/codealchemy/organizer/internal/hash"
	"github.com/codealchemy/organizer/internal/index"
	"github.com/codealchemy/organizer/internal/models"
	"github.com/codealchemy/organizer/internal/report"
	"github.com/codealchemy/organizer/internal/storage"
)

// Service runs the full organize pipeline for one destination root: engine
// run, report construction, report persistence, index flush.
type Service struct {
	engine *Engine
	index  index.Store
	writer *report.Writer
	logger *events.Logger
}

// RunResult is what a run leaves behind.
type RunResult struct {
	Report     *models.Report
	ReportPath string
}

// NewService wires a service for the given destination root. The duplicate
// index is injected so callers control persistence across runs.
func NewService(cfg *config.Config, idx index.Store, destRoot string, logger *events.Logger) (*Service, error) {
	store, err := storage.NewLocalStore(destRoot, logger)
	if err != nil {
		return nil, err
	}

	hasher, err := hash.NewHasher(hash.Algorithm(cfg.Organize.HashAlgorithm), cfg.Organize.ChunkSize)
	if err != nil {
		return nil, fmt.Errorf("create hasher: %w", err)
	}

	writer, err := report.NewWriter(cfg.Storage.ReportsDir, logger)
	if err != nil {
		return nil, err
	}

	engine := NewEngine(
		classify.NewClassifier(true),
		hasher,
		idx,
		store,
		&EngineConfig{
			MaxConcurrent:  cfg.Organize.MaxConcurrent,
			IgnorePatterns: cfg.Organize.IgnorePatterns,
			IncludeHidden:  cfg.Organize.IncludeHidden,
		},
		logger,
	)

	return &Service{
		engine: engine,
		index:  idx,
		writer: writer,
		logger: logger.WithField("service", "organize"),
	}, nil
}

// Events returns the engine's event stream for progress display.
func (s *Service) Events() <-chan Event {
	return s.engine.Events()
}

// GetProgress returns current engine progress.
func (s *Service) GetProgress() *Progress {
	return s.engine.GetProgress()
}

// Run executes one organization run. A report is always produced and
// persisted, even for a fatal run, so consumers always have something
// structured to read. The returned error is non-nil only for fatal root
// failures or cancellation; per-file failures live inside the report.
func (s *Service) Run(ctx context.Context, opts Options) (*RunResult, error) {
	start := time.Now()

	records, runErr := s.engine.Run(ctx, opts)
	elapsed := time.Since(start)

	warnings := append(s.engine.ScanWarnings(), s.index.Warnings()...)

	if !opts.DryRun {
		if err := s.index.Flush(); err != nil {
			s.logger.WithError(err).Warn("Failed to flush duplicate index")
			warnings = append(warnings, fmt.Sprintf("duplicate index not persisted: %v", err))
		}
	}

	rpt := report.Build(records, report.RunMeta{
		SourceDir:      opts.SourceDir,
		DestinationDir: s.engine.store.Root(),
		Mode:           opts.Mode,
		DryRun:         opts.DryRun,
		StartTime:      start,
		Elapsed:        elapsed,
		Warnings:       warnings,
		FatalErr:       runErr,
	})

	path, err := s.writer.Persist(rpt)
	if err != nil {
		if runErr != nil {
			return &RunResult{Report: rpt}, runErr
		}
		return &RunResult{Report: rpt}, err
	}

	return &RunResult{Report: rpt, ReportPath: path}, runErr
}
