package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/codealchemy/organizer/internal/index"
	"github.com/codealchemy/organizer/internal/models"
	"github.com/codealchemy/organizer/internal/organize"
)

var runCmd = &cobra.Command{
	Use:   "run <source-directory>",
	Short: "Organize a source directory into a categorized tree",
	Long: `Run scans the source directory, hashes and classifies every file,
and moves (or copies) each into <dest>/<category>/. Duplicate content is
detected by hash and reported; files already at their destination are left
untouched, so re-runs are idempotent.`,
	Example: `  organizer run ~/Downloads --dest ~/Sorted
  organizer run ./inbox --dest ./sorted --mode copy --dry-run
  organizer run ./inbox --dest ./sorted --duplicates quarantine`,
	Args: cobra.ExactArgs(1),
	RunE: runOrganize,
}

var (
	runDest       string
	runMode       string
	runDuplicates string
	runDryRun     bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runDest, "dest", "d", "",
		"Destination root for the categorized tree (required)")
	runCmd.Flags().StringVarP(&runMode, "mode", "m", "",
		"move or copy (default from config)")
	runCmd.Flags().StringVar(&runDuplicates, "duplicates", "",
		"Duplicate policy: report or quarantine (default from config)")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false,
		"Decide and report without touching the filesystem")

	_ = runCmd.MarkFlagRequired("dest")
}

func runOrganize(cmd *cobra.Command, args []string) error {
	sourceDir := args[0]

	if runMode == "" {
		runMode = cfg.Organize.Mode
	}
	if runDuplicates == "" {
		runDuplicates = cfg.Organize.DuplicatePolicy
	}

	switch models.Mode(runMode) {
	case models.ModeMove, models.ModeCopy:
	default:
		return fmt.Errorf("invalid mode: %s", runMode)
	}

	switch models.DuplicatePolicy(runDuplicates) {
	case models.DuplicateReport, models.DuplicateQuarantine:
	default:
		return fmt.Errorf("invalid duplicate policy: %s", runDuplicates)
	}

	idx, err := index.NewStore(&cfg.Index, logger)
	if err != nil {
		return fmt.Errorf("open duplicate index: %w", err)
	}
	defer idx.Close()

	svc, err := organize.NewService(cfg, idx, runDest, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		printWarning("\nInterrupted, stopping after current file...")
		cancel()
	}()

	opts := organize.Options{
		SourceDir:       sourceDir,
		Mode:            models.Mode(runMode),
		DuplicatePolicy: models.DuplicatePolicy(runDuplicates),
		DryRun:          runDryRun,
	}

	interactive := !jsonOutput && stdoutIsTerminal()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for event := range svc.Events() {
			if !interactive {
				continue
			}
			switch event.Type {
			case organize.EventStarted:
				fmt.Printf("Scanning %s: %d files found\n", sourceDir, event.Progress.TotalFiles)
			case organize.EventFileDone:
				if event.Record.Status == models.StatusMoveFailed ||
					event.Record.Status == models.StatusSkippedUnreadable {
					printWarning("  %s: %s", event.Record.SourcePath, event.Record.Status)
				}
			}
		}
	}()

	result, runErr := svc.Run(ctx, opts)
	<-done

	if jsonOutput {
		printJSON(result.Report)
	} else {
		printSummary(result)
	}

	if runErr != nil && !organize.IsCancelled(runErr) {
		return runErr
	}
	return nil
}

func printSummary(result *organize.RunResult) {
	rpt := result.Report
	s := rpt.Summary

	fmt.Printf("\nOrganization %s\n", rpt.Status)
	fmt.Printf("   Files scanned:   %d\n", s.FilesScanned)
	fmt.Printf("   Organized:       %d (%s)\n", s.FilesOrganized, formatBytes(s.TotalSizeBytes))
	fmt.Printf("   Duplicates:      %d\n", s.DuplicatesFound)
	if s.SkippedExisting > 0 {
		fmt.Printf("   Already placed:  %d\n", s.SkippedExisting)
	}
	if s.SkippedUnreadable > 0 {
		fmt.Printf("   Unreadable:      %d\n", s.SkippedUnreadable)
	}
	if s.MoveFailures > 0 {
		fmt.Printf("   Move failures:   %d\n", s.MoveFailures)
	}
	fmt.Printf("   Duration:        %.2fs\n", s.ProcessingSeconds)

	for _, w := range rpt.Warnings {
		printWarning("   warning: %s", w)
	}

	if result.ReportPath != "" {
		fmt.Printf("   Report:          %s\n", result.ReportPath)
	}

	switch rpt.Status {
	case models.RunOK:
		printSuccess("\nDone.")
	case models.RunPartialFailure:
		printWarning("\nCompleted with per-file failures; see report.")
	case models.RunFatalError:
		printError("\nRun failed: %s", rpt.Error)
	}
}
