package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codealchemy/organizer/internal/report"
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Inspect persisted run reports",
}

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List run reports, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		writer, err := report.NewWriter(cfg.Storage.ReportsDir, logger)
		if err != nil {
			return err
		}

		paths, err := writer.List()
		if err != nil {
			return err
		}

		if jsonOutput {
			printJSON(paths)
			return nil
		}

		if len(paths) == 0 {
			fmt.Println("No reports yet.")
			return nil
		}

		for _, path := range paths {
			rpt, err := report.Load(path)
			if err != nil {
				printWarning("%s: %v", path, err)
				continue
			}
			fmt.Printf("%s  %s  scanned=%d organized=%d duplicates=%d\n",
				rpt.Timestamp.Format("2006-01-02 15:04:05"),
				rpt.Status,
				rpt.Summary.FilesScanned,
				rpt.Summary.FilesOrganized,
				rpt.Summary.DuplicatesFound)
		}
		return nil
	},
}

var reportsShowCmd = &cobra.Command{
	Use:   "show [path]",
	Short: "Print a report (latest by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		if len(args) == 1 {
			path = args[0]
		} else {
			writer, err := report.NewWriter(cfg.Storage.ReportsDir, logger)
			if err != nil {
				return err
			}
			paths, err := writer.List()
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				return fmt.Errorf("no reports found in %s", cfg.Storage.ReportsDir)
			}
			path = paths[0]
		}

		rpt, err := report.Load(path)
		if err != nil {
			return err
		}

		printJSON(rpt)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportsCmd)
	reportsCmd.AddCommand(reportsListCmd)
	reportsCmd.AddCommand(reportsShowCmd)
}
