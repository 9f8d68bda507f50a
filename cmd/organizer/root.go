package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codealchemy/organizer/internal/config"
	"github.com/codealchemy/organizer/internal/events"
)

var (
	cfgFile    string
	logLevel   string
	jsonOutput bool

	cfg    *config.Config
	logger *events.Logger
)

var rootCmd = &cobra.Command{
	Use:   "organizer",
	Short: "Organize a directory of files into a categorized tree",
	Long: `Organizer scans a source directory, classifies each file by type,
detects duplicates by content hash, and moves or copies files into a
categorized destination tree. Every run writes a JSON report.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		cfg, err = config.NewLoader(cfgFile).Load()
		if err != nil {
			return err
		}

		if logLevel != "" {
			cfg.Log.Level = logLevel
		}

		if err := cfg.EnsureDirectories(); err != nil {
			return err
		}

		logger, err = events.NewLogger(&cfg.Log)
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"Config file path (default searches ./organizer.yaml and ~/.config/organizer/)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"Emit machine-readable JSON instead of human output")
}
