// Package organize implements the scan, classify, hash, decide, move
// sequence. The engine is the only component that mutates the filesystem,
// and the decision loop is the single writer of the duplicate index.
package organize

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/codealchemy/organizer/internal/classify"
	"github.com/codealchemy/organizer/internal/events"
	"github.com/codealchemy/organizer/internal/hash"
	"github.com/codealchemy/organizer/internal/index"
	"github.com/codealchemy/organizer/internal/models"
	"github.com/codealchemy/organizer/internal/scan"
	"github.com/codealchemy/organizer/internal/storage"
)

// Options configures one organization run.
type Options struct {
	SourceDir       string
	Mode            models.Mode
	DuplicatePolicy models.DuplicatePolicy
	DryRun          bool
}

// Progress tracks run progress for interactive display.
type Progress struct {
	TotalFiles     int
	ProcessedFiles int
	CurrentFile    string
	BytesOrganized int64
	StartTime      time.Time
}

// EventType defines run event types.
type EventType string

const (
	EventStarted   EventType = "started"
	EventFileDone  EventType = "file_done"
	EventCompleted EventType = "completed"
	EventFailed    EventType = "failed"
)

// Event is emitted as the run progresses.
type Event struct {
	Type      EventType
	Timestamp time.Time
	Record    *models.FileRecord
	Error     error
	Progress  *Progress
}

// EngineConfig contains engine tuning knobs.
type EngineConfig struct {
	MaxConcurrent  int
	IgnorePatterns []string
	IncludeHidden  bool
}

// Engine orchestrates a run over one source tree.
type Engine struct {
	classifier *classify.Classifier
	hasher     *hash.Hasher
	index      index.Store
	store      *storage.LocalStore
	logger     *events.Logger

	maxConcurrent  int
	ignorePatterns []string
	includeHidden  bool

	progress atomic.Value // *Progress
	events   chan Event

	// Written once per run while the running guard is held.
	scanWarnings []string

	mu           sync.Mutex
	running      bool
	eventsClosed bool
}

// NewEngine creates an engine. The store's root is the destination root for
// every run of this engine.
func NewEngine(
	classifier *classify.Classifier,
	hasher *hash.Hasher,
	idx index.Store,
	store *storage.LocalStore,
	cfg *EngineConfig,
	logger *events.Logger,
) *Engine {
	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	return &Engine{
		classifier:     classifier,
		hasher:         hasher,
		index:          idx,
		store:          store,
		logger:         logger.WithField("component", "organize_engine"),
		maxConcurrent:  maxConcurrent,
		ignorePatterns: cfg.IgnorePatterns,
		includeHidden:  cfg.IncludeHidden,
		events:         make(chan Event, 100),
	}
}

// Events returns the event channel. It is closed when the run finishes.
func (e *Engine) Events() <-chan Event {
	return e.events
}

// ScanWarnings returns non-fatal walk problems from the most recent run,
// such as unreadable subtrees whose files could not be scanned.
func (e *Engine) ScanWarnings() []string {
	return append([]string(nil), e.scanWarnings...)
}

// GetProgress returns current progress, or nil before the first run.
func (e *Engine) GetProgress() *Progress {
	if p := e.progress.Load(); p != nil {
		return p.(*Progress)
	}
	return nil
}

// prelim holds the read-only per-file work done by the hash workers before
// the serial decision loop.
type prelim struct {
	entry    scan.Entry
	hash     string
	category models.Category
	err      error
}

// runIndex overlays the injected duplicate index for one run. In a dry run
// additions stay in the overlay so the persisted index is never polluted by
// a run that touched nothing.
type runIndex struct {
	base    index.Store
	overlay map[string]index.Entry
	added   map[string]bool
	persist bool
}

func newRunIndex(base index.Store, dryRun bool) *runIndex {
	return &runIndex{
		base:    base,
		overlay: make(map[string]index.Entry),
		added:   make(map[string]bool),
		persist: !dryRun,
	}
}

func (r *runIndex) Lookup(hash string) (index.Entry, bool) {
	if entry, ok := r.overlay[hash]; ok {
		return entry, true
	}
	return r.base.Lookup(hash)
}

func (r *runIndex) Add(hash string, entry index.Entry) {
	if _, found := r.Lookup(hash); found {
		return
	}
	r.added[hash] = true
	if r.persist {
		r.base.Add(hash, entry)
		return
	}
	r.overlay[hash] = entry
}

// addedThisRun reports whether this run recorded the hash's canonical entry,
// as opposed to inheriting it from a persisted index.
func (r *runIndex) addedThisRun(hash string) bool {
	return r.added[hash]
}

// Run executes one organization run and returns a record per discovered
// file. Only root-level failures return an error; per-file failures are
// folded into the records. Cancellation is honored between files, never
// mid-move, so ctx.Err() alongside partial records means a clean stop.
func (e *Engine) Run(ctx context.Context, opts Options) ([]models.FileRecord, error) {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return nil, models.ErrRunInProgress
	}
	e.running = true
	if e.eventsClosed {
		e.events = make(chan Event, 100)
		e.eventsClosed = false
	}
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.running = false
		if !e.eventsClosed {
			close(e.events)
			e.eventsClosed = true
		}
		e.mu.Unlock()
	}()

	e.logger.WithFields(map[string]interface{}{
		"source":  opts.SourceDir,
		"dest":    e.store.Root(),
		"mode":    string(opts.Mode),
		"dry_run": opts.DryRun,
	}).Info("Starting organization run")

	e.scanWarnings = nil

	if err := e.store.EnsureRoot(); err != nil {
		e.emit(Event{Type: EventFailed, Timestamp: time.Now(), Error: err})
		return nil, err
	}

	// Never re-scan a destination tree nested inside the source, but when
	// the source IS the destination (re-organizing in place) the walk must
	// still proceed so already-placed files can be reported as skipped.
	var exclude []string
	if absSrc, err := filepath.Abs(opts.SourceDir); err == nil && absSrc != e.store.Root() {
		exclude = append(exclude, e.store.Root())
	}

	walker := scan.NewWalker(e.ignorePatterns, e.includeHidden, exclude, e.logger)
	entries, scanWarnings, err := walker.Walk(opts.SourceDir)
	e.scanWarnings = scanWarnings
	if err != nil {
		e.emit(Event{Type: EventFailed, Timestamp: time.Now(), Error: err})
		return nil, err
	}

	progress := &Progress{
		TotalFiles: len(entries),
		StartTime:  time.Now(),
	}
	e.progress.Store(progress)
	e.emit(Event{Type: EventStarted, Timestamp: time.Now(), Progress: e.snapshot(progress)})

	prelims := e.analyze(ctx, entries)

	records, runErr := e.decide(ctx, prelims, opts, progress)

	if runErr != nil {
		e.emit(Event{Type: EventFailed, Timestamp: time.Now(), Error: runErr})
	} else {
		e.emit(Event{Type: EventCompleted, Timestamp: time.Now(), Progress: e.snapshot(progress)})
	}

	return records, runErr
}

// analyze runs the read-only hash and classify steps across a bounded worker
// pool. Results keep discovery order so the decision loop stays
// deterministic.
func (e *Engine) analyze(ctx context.Context, entries []scan.Entry) []prelim {
	prelims := make([]prelim, len(entries))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.maxConcurrent)

	for i, entry := range entries {
		i, entry := i, entry
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				prelims[i] = prelim{entry: entry, err: err}
				return nil
			}

			digest, err := e.hasher.HashFile(entry.Path)
			prelims[i] = prelim{
				entry:    entry,
				hash:     digest,
				category: e.classifier.Classify(entry.Path),
				err:      err,
			}
			return nil
		})
	}

	// Workers never return errors; failures live in the prelim slots.
	_ = g.Wait()

	return prelims
}

// decide serially applies the destination decision and move for each file in
// discovery order. It is the only writer of the duplicate index and the
// claimed-destination set, which preserves first-seen-wins and destination
// uniqueness without further locking.
func (e *Engine) decide(ctx context.Context, prelims []prelim, opts Options, progress *Progress) ([]models.FileRecord, error) {
	records := make([]models.FileRecord, 0, len(prelims))
	claimed := make(map[string]bool)
	ri := newRunIndex(e.index, opts.DryRun)

	var runErr error
	for i := range prelims {
		// Cancellation is only ever observed between files; a move is the
		// atomic unit that must not be interrupted partway.
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}

		record := e.processFile(&prelims[i], opts, claimed, ri)
		records = append(records, record)

		progress.ProcessedFiles++
		progress.CurrentFile = record.SourcePath
		if record.Status == models.StatusOrganized {
			progress.BytesOrganized += record.SizeBytes
		}
		e.progress.Store(e.snapshot(progress))

		e.emit(Event{
			Type:      EventFileDone,
			Timestamp: time.Now(),
			Record:    &records[len(records)-1],
			Progress:  e.snapshot(progress),
		})
	}

	return records, runErr
}

// processFile applies the per-file algorithm: duplicate lookup, destination
// decision, atomic placement, index update.
func (e *Engine) processFile(p *prelim, opts Options, claimed map[string]bool, ri *runIndex) models.FileRecord {
	record := models.FileRecord{
		SourcePath:   p.entry.Path,
		Category:     p.category,
		SizeBytes:    p.entry.SizeBytes,
		Hash:         p.hash,
		ModifiedTime: p.entry.ModTime,
	}

	if p.err != nil {
		record.Status = models.StatusSkippedUnreadable
		if record.Category == "" {
			record.Category = e.classifier.Classify(p.entry.Path)
		}
		record.Error = p.err.Error()
		e.logger.WithError(p.err).WithField("path", p.entry.Path).Warn("Skipping unreadable file")
		return record
	}

	preferred := e.store.CategoryPath(p.category, record.Basename())

	// Duplicate check. First file seen with a hash owns the slot. A file is
	// never a duplicate of itself: an entry seeded from a prior run that
	// points at this file's own source or preferred destination falls
	// through to the idempotent skip below. An entry recorded during this
	// run always marks a duplicate, even when the two sources share a
	// basename and therefore a preferred destination.
	if canonical, found := ri.Lookup(p.hash); found && canonical.Path != p.entry.Path &&
		(ri.addedThisRun(p.hash) || canonical.Path != preferred) {
		record.Status = models.StatusDuplicate
		record.DuplicateOf = canonical.Path

		if opts.DuplicatePolicy == models.DuplicateQuarantine && !opts.DryRun {
			dst := e.claim(e.store.QuarantinePath(record.Basename()), claimed)
			if err := e.store.Place(p.entry.Path, dst, opts.Mode); err != nil {
				e.logger.WithError(err).WithField("path", p.entry.Path).Warn("Quarantine move failed")
				record.Error = err.Error()
			} else {
				record.DestinationPath = dst
			}
		}
		return record
	}

	if e.store.Exists(preferred) {
		existingHash, err := e.hasher.HashFile(preferred)
		if err == nil && existingHash == p.hash {
			// Already organized on a prior run; leave it untouched.
			record.Status = models.StatusSkippedExists
			record.DestinationPath = preferred
			ri.Add(p.hash, index.Entry{
				Path:      preferred,
				SizeBytes: p.entry.SizeBytes,
				FirstSeen: time.Now().UTC(),
			})
			return record
		}
	}

	// Same name, different content gets a disambiguated name.
	dst := e.claim(preferred, claimed)
	record.Renamed = dst != preferred
	record.DestinationPath = dst

	if !opts.DryRun {
		if err := e.store.Place(p.entry.Path, dst, opts.Mode); err != nil {
			record.Status = models.StatusMoveFailed
			record.DestinationPath = ""
			record.Error = err.Error()
			delete(claimed, dst)

			// The content still lives at the source; record that as the
			// canonical location so later identical files dedup against it.
			ri.Add(p.hash, index.Entry{
				Path:      p.entry.Path,
				SizeBytes: p.entry.SizeBytes,
				FirstSeen: time.Now().UTC(),
			})

			e.logger.WithError(err).WithField("path", p.entry.Path).Error("Move failed, source left intact")
			return record
		}
	}

	record.Status = models.StatusOrganized
	ri.Add(p.hash, index.Entry{
		Path:      dst,
		SizeBytes: p.entry.SizeBytes,
		FirstSeen: time.Now().UTC(),
	})

	if record.Renamed {
		e.logger.WithFields(map[string]interface{}{
			"path": p.entry.Path,
			"dest": dst,
		}).Info("Name collision resolved")
	}

	return record
}

// claim reserves a destination path for this run.
func (e *Engine) claim(dst string, claimed map[string]bool) string {
	candidate := e.store.NextAvailablePath(dst, claimed)
	claimed[candidate] = true
	return candidate
}

func (e *Engine) snapshot(p *Progress) *Progress {
	copied := *p
	return &copied
}

func (e *Engine) emit(event Event) {
	select {
	case e.events <- event:
	default:
		// Never block the run on a slow consumer.
	}
}

// IsCancelled reports whether err is a context cancellation.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
