package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/codealchemy/organizer/internal/events"
	"github.com/codealchemy/organizer/internal/models"
)

// Writer persists run reports, one distinct timestamped file per run.
type Writer struct {
	reportsDir string
	logger     *events.Logger
}

// NewWriter creates a report writer, creating the reports directory if
// needed.
func NewWriter(reportsDir string, logger *events.Logger) (*Writer, error) {
	if err := os.MkdirAll(reportsDir, 0755); err != nil {
		return nil, fmt.Errorf("create reports directory: %w", err)
	}

	return &Writer{
		reportsDir: reportsDir,
		logger:     logger.WithField("component", "report_writer"),
	}, nil
}

// Serialize renders the report as indented JSON. encoding/json emits struct
// fields in declaration order and sorts map keys, so output is stable for a
// given report.
func Serialize(rpt *models.Report) ([]byte, error) {
	data, err := json.MarshalIndent(rpt, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	return append(data, '\n'), nil
}

// Persist writes the report to a new file under the reports directory and
// returns its path. Prior reports are never truncated or overwritten: the
// filename carries the run timestamp, and the run ID breaks ties when two
// runs share a second.
func (w *Writer) Persist(rpt *models.Report) (string, error) {
	data, err := Serialize(rpt)
	if err != nil {
		return "", err
	}

	base := fmt.Sprintf("organization_report_%s.json", rpt.Timestamp.Format("20060102_150405"))
	path := filepath.Join(w.reportsDir, base)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0644)
	if os.IsExist(err) {
		short := rpt.RunID
		if len(short) > 8 {
			short = short[:8]
		}
		base = fmt.Sprintf("organization_report_%s_%s.json",
			rpt.Timestamp.Format("20060102_150405"), short)
		path = filepath.Join(w.reportsDir, base)
		f, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0644)
	}
	if err != nil {
		return "", fmt.Errorf("create report file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		return "", fmt.Errorf("write report: %w", err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close report: %w", err)
	}

	w.logger.WithField("path", path).Info("Report written")
	return path, nil
}

// List returns the persisted report paths, newest first.
func (w *Writer) List() ([]string, error) {
	entries, err := os.ReadDir(w.reportsDir)
	if err != nil {
		return nil, fmt.Errorf("read reports directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, "organization_report_") && strings.HasSuffix(name, ".json") {
			paths = append(paths, filepath.Join(w.reportsDir, name))
		}
	}

	sort.Sort(sort.Reverse(sort.StringSlice(paths)))
	return paths, nil
}

// Load reads a persisted report back.
func Load(path string) (*models.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}

	var rpt models.Report
	if err := json.Unmarshal(data, &rpt); err != nil {
		return nil, fmt.Errorf("parse report %s: %w", path, err)
	}

	return &rpt, nil
}
