package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codealchemy/organizer/internal/index"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the persisted duplicate index",
}

var indexShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show duplicate index statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := index.NewStore(&cfg.Index, logger)
		if err != nil {
			return err
		}
		defer idx.Close()

		if jsonOutput {
			printJSON(map[string]interface{}{
				"backend": cfg.Index.Backend,
				"path":    cfg.Index.Path,
				"hashes":  idx.Len(),
			})
			return nil
		}

		fmt.Printf("Backend: %s\n", cfg.Index.Backend)
		if cfg.Index.Backend != "memory" {
			fmt.Printf("Path:    %s\n", cfg.Index.Path)
		}
		fmt.Printf("Hashes:  %d\n", idx.Len())

		for _, w := range idx.Warnings() {
			printWarning("warning: %s", w)
		}
		return nil
	},
}

var indexResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Discard all known hashes",
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := index.NewStore(&cfg.Index, logger)
		if err != nil {
			return err
		}
		defer idx.Close()

		if err := idx.Reset(); err != nil {
			return err
		}

		printSuccess("Duplicate index reset.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.AddCommand(indexShowCmd)
	indexCmd.AddCommand(indexResetCmd)
}
